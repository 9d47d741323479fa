// Package render implements the audible renderer for the alert engine on
// top of the oto audio library. Each active alert gets one rendering
// session that loops the configured tone until the engine requests a stop
// or the session times out.
package render

import (
	"bytes"
	"log"
	"sync"
	"time"

	"github.com/ebitengine/oto/v3"
	"github.com/spf13/afero"

	"github.com/chimed/chimed/pkg/chimelib"
)

// DefaultMaxDuration bounds a rendering session. A ringing alert nobody
// stops eventually completes on its own.
const DefaultMaxDuration = 15 * time.Minute

// Global audio context singleton; oto allows only one per process.
var (
	audioCtx     *oto.Context
	audioCtxOnce sync.Once
	audioCtxErr  error
)

func initAudioContext(format *wavFormat) (*oto.Context, error) {
	audioCtxOnce.Do(func() {
		op := &oto.NewContextOptions{
			SampleRate:   format.SampleRate,
			ChannelCount: format.Channels,
			Format:       oto.FormatSignedInt16LE,
		}
		ctx, ready, err := oto.NewContext(op)
		if err != nil {
			audioCtxErr = err
			return
		}
		// Wait for the hardware audio devices to be ready.
		<-ready
		audioCtx = ctx
	})
	return audioCtx, audioCtxErr
}

// ToneRenderer renders alerts as looped audio. It satisfies the engine's
// Renderer contract: Activate is acknowledged through RenderStarted and a
// stop through RenderStopped (or RenderCompleted on session timeout).
type ToneRenderer struct {
	log         *log.Logger
	fs          afero.Fs
	tonePath    string
	maxDuration time.Duration

	mu       sync.Mutex
	sessions map[string]chan struct{}
}

// NewToneRenderer creates a renderer. tonePath may be empty, in which case
// a built-in chime is synthesized. The tone file is read through fs.
func NewToneRenderer(l *log.Logger, fs afero.Fs, tonePath string, maxDuration time.Duration) *ToneRenderer {
	if l == nil {
		l = log.Default()
	}
	if fs == nil {
		fs = afero.NewOsFs()
	}
	if maxDuration <= 0 {
		maxDuration = DefaultMaxDuration
	}
	return &ToneRenderer{
		log:         l,
		fs:          fs,
		tonePath:    tonePath,
		maxDuration: maxDuration,
		sessions:    make(map[string]chan struct{}),
	}
}

// loadTone returns the PCM loop for a session: the configured tone file if
// readable, the built-in chime otherwise.
func (r *ToneRenderer) loadTone() (*wavFormat, []byte) {
	if r.tonePath == "" {
		f, pcm := defaultTone()
		return f, pcm
	}
	data, err := afero.ReadFile(r.fs, r.tonePath)
	if err != nil {
		r.log.Printf("render: cannot read tone file %s, using built-in chime: %v", r.tonePath, err)
		f, pcm := defaultTone()
		return f, pcm
	}
	format, pcm, err := parseWAV(data)
	if err != nil {
		r.log.Printf("render: cannot parse tone file %s, using built-in chime: %v", r.tonePath, err)
		f, p := defaultTone()
		return f, p
	}
	return format, pcm
}

// Activate begins a rendering session for the alert.
func (r *ToneRenderer) Activate(a *chimelib.Alert) {
	token := a.Token()

	r.mu.Lock()
	if _, running := r.sessions[token]; running {
		r.mu.Unlock()
		return
	}
	stop := make(chan struct{})
	r.sessions[token] = stop
	r.mu.Unlock()

	format, pcm := r.loadTone()

	chimelib.SafeGo(r.log, nil, "render:"+token, func(any) {
		r.endSession(token)
		a.RenderError("renderer panicked")
	}, func() {
		r.run(a, stop, format, pcm)
	})
}

// Deactivate requests that the alert's session stop.
func (r *ToneRenderer) Deactivate(a *chimelib.Alert, _ chimelib.StopReason) {
	token := a.Token()

	r.mu.Lock()
	stop, ok := r.sessions[token]
	if ok {
		delete(r.sessions, token)
	}
	r.mu.Unlock()

	if ok {
		close(stop)
		return
	}
	// No session is running; acknowledge so the engine can move on.
	a.RenderStopped()
}

func (r *ToneRenderer) endSession(token string) {
	r.mu.Lock()
	delete(r.sessions, token)
	r.mu.Unlock()
}

// run is the session loop. It plays the tone cycle until the stop channel
// closes or the session times out.
func (r *ToneRenderer) run(a *chimelib.Alert, stop <-chan struct{}, format *wavFormat, pcm []byte) {
	ctx, err := initAudioContext(format)
	if err != nil {
		r.endSession(a.Token())
		a.RenderError("audio context unavailable: " + err.Error())
		return
	}

	a.RenderStarted()
	deadline := time.NewTimer(r.maxDuration)
	defer deadline.Stop()

	for {
		player := ctx.NewPlayer(bytes.NewReader(pcm))
		player.SetVolume(volumeFor(a.FocusState()))
		player.Play()

		for player.IsPlaying() {
			select {
			case <-stop:
				player.Pause()
				player.Close()
				a.RenderStopped()
				return
			case <-deadline.C:
				player.Pause()
				player.Close()
				r.endSession(a.Token())
				a.RenderCompleted()
				return
			case <-time.After(10 * time.Millisecond):
				// Track focus changes while looping.
				player.SetVolume(volumeFor(a.FocusState()))
			}
		}
		if err := player.Close(); err != nil {
			r.log.Printf("render: close player: %v", err)
		}

		select {
		case <-stop:
			a.RenderStopped()
			return
		case <-deadline.C:
			r.endSession(a.Token())
			a.RenderCompleted()
			return
		default:
		}
	}
}

// volumeFor attenuates rendering when the engine only holds background
// focus.
func volumeFor(f chimelib.FocusState) float64 {
	switch f {
	case chimelib.FocusForeground:
		return 1.0
	case chimelib.FocusBackground:
		return 0.3
	}
	return 0.0
}

var _ chimelib.Renderer = (*ToneRenderer)(nil)
