package audioconv

import (
	"fmt"
	"os"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"

	"vozc/pkg/pcm"
)

// WriteWAV stores c as a 16-bit mono WAV file.
func WriteWAV(path string, c pcm.Clip) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	rate := c.Rate
	if rate <= 0 {
		rate = pcm.SampleRate
	}

	samples := c.Int16()
	buf := &audio.IntBuffer{
		Format: &audio.Format{
			NumChannels: 1,
			SampleRate:  rate,
		},
		Data:           make([]int, len(samples)),
		SourceBitDepth: 16,
	}
	for i, s := range samples {
		buf.Data[i] = int(s)
	}

	enc := wav.NewEncoder(f, rate, 16, 1, 1)
	if err := enc.Write(buf); err != nil {
		enc.Close()
		return fmt.Errorf("encode wav: %w", err)
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("encode wav: %w", err)
	}

	return f.Close()
}

// WriteTempWAV stores c in a new temp file and returns its path. The caller
// removes it.
func WriteTempWAV(c pcm.Clip, pattern string) (string, error) {
	f, err := os.CreateTemp("", pattern)
	if err != nil {
		return "", fmt.Errorf("create temp wav: %w", err)
	}
	path := f.Name()
	f.Close()

	if err := WriteWAV(path, c); err != nil {
		os.Remove(path)
		return "", err
	}
	return path, nil
}
