package render

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
)

// wavFormat holds the format of a decoded WAV file.
type wavFormat struct {
	SampleRate int
	Channels   int
	BitDepth   int
}

var errNotWAV = errors.New("not a RIFF/WAVE file")

// parseWAV extracts the format header and raw PCM data from a WAV file.
// Only uncompressed PCM (format tag 1) is supported.
func parseWAV(data []byte) (*wavFormat, []byte, error) {
	if len(data) < 12 || !bytes.Equal(data[0:4], []byte("RIFF")) || !bytes.Equal(data[8:12], []byte("WAVE")) {
		return nil, nil, errNotWAV
	}

	var (
		format *wavFormat
		pcm    []byte
	)
	// Walk the chunk list; fmt and data may appear in any order and other
	// chunks (LIST, fact) may be interleaved.
	for off := 12; off+8 <= len(data); {
		id := string(data[off : off+4])
		size := int(binary.LittleEndian.Uint32(data[off+4 : off+8]))
		body := off + 8
		if body+size > len(data) {
			return nil, nil, fmt.Errorf("truncated %q chunk", id)
		}
		switch id {
		case "fmt ":
			if size < 16 {
				return nil, nil, fmt.Errorf("fmt chunk too small: %d", size)
			}
			audioFormat := binary.LittleEndian.Uint16(data[body : body+2])
			if audioFormat != 1 {
				return nil, nil, fmt.Errorf("unsupported WAV format tag %d (PCM only)", audioFormat)
			}
			format = &wavFormat{
				Channels:   int(binary.LittleEndian.Uint16(data[body+2 : body+4])),
				SampleRate: int(binary.LittleEndian.Uint32(data[body+4 : body+8])),
				BitDepth:   int(binary.LittleEndian.Uint16(data[body+14 : body+16])),
			}
		case "data":
			pcm = data[body : body+size]
		}
		// Chunks are word-aligned.
		off = body + size + (size & 1)
	}

	if format == nil {
		return nil, nil, errors.New("missing fmt chunk")
	}
	if pcm == nil {
		return nil, nil, errors.New("missing data chunk")
	}
	if format.BitDepth != 16 {
		return nil, nil, fmt.Errorf("unsupported bit depth %d (16-bit only)", format.BitDepth)
	}
	return format, pcm, nil
}
