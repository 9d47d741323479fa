package render

import "math"

// Built-in chime used when no tone file is configured.
const (
	toneSampleRate = 44100
	toneChannels   = 1
	toneFrequency  = 880.0
	toneBeep       = 0.35 // seconds of tone
	toneGap        = 0.25 // seconds of silence after the beep
)

// defaultTone synthesizes one beep-plus-gap cycle of 16-bit mono PCM. The
// renderer loops the cycle for the length of the rendering session.
func defaultTone() (*wavFormat, []byte) {
	beepSamples := int(toneBeep * toneSampleRate)
	gapSamples := int(toneGap * toneSampleRate)
	pcm := make([]byte, (beepSamples+gapSamples)*2)

	for i := 0; i < beepSamples; i++ {
		// Short attack/decay ramps keep the loop click-free.
		amp := 0.6
		const ramp = 512
		if i < ramp {
			amp *= float64(i) / ramp
		} else if rem := beepSamples - i; rem < ramp {
			amp *= float64(rem) / ramp
		}
		v := int16(amp * math.MaxInt16 * math.Sin(2*math.Pi*toneFrequency*float64(i)/toneSampleRate))
		pcm[2*i] = byte(v)
		pcm[2*i+1] = byte(v >> 8)
	}

	return &wavFormat{
		SampleRate: toneSampleRate,
		Channels:   toneChannels,
		BitDepth:   16,
	}, pcm
}
