// Package audioconv decodes recorded audio files into 16 kHz mono clips and
// encodes clips back to WAV.
package audioconv

import (
	"bufio"
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-audio/wav"
	"github.com/hajimehoshi/go-mp3"
	"github.com/jfreymuth/oggvorbis"
	popus "github.com/pekim/opus"

	"vozc/pkg/pcm"
)

type decodeFunc func(r io.ReadSeeker) ([]float32, int, error)

var (
	byExt = map[string][]decodeFunc{
		".wav":  {decodeWAV},
		".mp3":  {decodeMP3},
		".ogg":  {decodeVorbis, decodeOpus},
		".oga":  {decodeVorbis, decodeOpus},
		".opus": {decodeOpus},
	}
	byMagic = map[string][]decodeFunc{
		"RIFF":    {decodeWAV},
		"OggS":    {decodeVorbis, decodeOpus},
		"ID3\x03": {decodeMP3},
		"ID3\x04": {decodeMP3},
	}
)

// DecodeFile reads path and returns it as a 16 kHz mono clip. The format is
// chosen by extension, falling back to the file's magic bytes.
func DecodeFile(path string) (pcm.Clip, error) {
	f, err := os.Open(path)
	if err != nil {
		return pcm.Clip{}, err
	}
	defer f.Close()

	decoders, ok := byExt[strings.ToLower(filepath.Ext(path))]
	if !ok {
		magic, _ := bufio.NewReader(f).Peek(4)
		decoders, ok = byMagic[string(magic)]
		if !ok {
			return pcm.Clip{}, fmt.Errorf("unsupported audio format: %s", path)
		}
	}

	var errs []error
	for _, dec := range decoders {
		if _, err := f.Seek(0, io.SeekStart); err != nil {
			return pcm.Clip{}, fmt.Errorf("rewind %s: %w", path, err)
		}
		samples, rate, err := dec(f)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		return pcm.Clip{
			Samples: resampleLinear(samples, rate, pcm.SampleRate),
			Rate:    pcm.SampleRate,
		}, nil
	}

	return pcm.Clip{}, fmt.Errorf("decode %s: %w", path, errors.Join(errs...))
}

func decodeWAV(r io.ReadSeeker) ([]float32, int, error) {
	dec := wav.NewDecoder(r)
	if !dec.IsValidFile() {
		return nil, 0, errors.New("invalid wav")
	}
	buf, err := dec.FullPCMBuffer()
	if err != nil {
		return nil, 0, fmt.Errorf("read wav: %w", err)
	}
	if buf == nil || len(buf.Data) == 0 {
		return nil, 0, errors.New("empty wav")
	}

	depth := int(dec.BitDepth)
	if depth == 0 {
		depth = 16
	}
	scale := 1.0 / float64(int64(1)<<(depth-1))
	x := make([]float32, len(buf.Data))
	for i, v := range buf.Data {
		x[i] = float32(clamp(float64(v)*scale, -1, 1))
	}

	ch, rate := 1, 44100
	if buf.Format != nil {
		ch = max(ch, buf.Format.NumChannels)
		if buf.Format.SampleRate > 0 {
			rate = buf.Format.SampleRate
		}
	}

	return downmix(x, ch), rate, nil
}

func decodeMP3(r io.ReadSeeker) ([]float32, int, error) {
	dec, err := mp3.NewDecoder(r)
	if err != nil {
		return nil, 0, fmt.Errorf("mp3: %w", err)
	}

	var raw bytes.Buffer
	if _, err := io.Copy(&raw, dec); err != nil {
		return nil, 0, fmt.Errorf("read mp3: %w", err)
	}
	ints := make([]int16, raw.Len()/2)
	if err := binary.Read(&raw, binary.LittleEndian, ints); err != nil {
		return nil, 0, fmt.Errorf("read mp3: %w", err)
	}

	rate := dec.SampleRate()
	if rate <= 0 {
		rate = 44100
	}
	// go-mp3 always emits interleaved stereo
	return downmix(int16ToFloat32(ints), 2), rate, nil
}

func decodeVorbis(r io.ReadSeeker) ([]float32, int, error) {
	samples, format, err := oggvorbis.ReadAll(r)
	if err != nil {
		return nil, 0, fmt.Errorf("vorbis: %w", err)
	}
	if format == nil || format.Channels <= 0 || format.SampleRate <= 0 {
		return nil, 0, errors.New("invalid ogg/vorbis stream")
	}
	return downmix(samples, format.Channels), format.SampleRate, nil
}

func decodeOpus(r io.ReadSeeker) ([]float32, int, error) {
	dec, err := popus.NewDecoder(r)
	if err != nil {
		return nil, 0, fmt.Errorf("opus: %w", err)
	}
	defer dec.Destroy()

	ch := max(1, dec.ChannelCount())

	// opus decodes at 48 kHz; read ~0.5s per chunk
	var (
		out []float32
		buf = make([]int16, 24_000*ch)
	)
	for {
		n, err := dec.Read(buf)
		if n > 0 {
			out = append(out, int16ToFloat32(buf[:n*ch])...)
		}
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, 0, fmt.Errorf("read opus: %w", err)
		}
	}
	if len(out) == 0 {
		return nil, 0, errors.New("empty opus stream")
	}

	return downmix(out, ch), 48000, nil
}

func int16ToFloat32(data []int16) []float32 {
	out := make([]float32, len(data))
	for i, v := range data {
		out[i] = float32(v) / 32768
	}
	return out
}

// downmix averages interleaved channels into mono.
func downmix(in []float32, channels int) []float32 {
	if channels <= 1 {
		return in
	}
	frames := len(in) / channels
	out := make([]float32, frames)
	for i := range out {
		var sum float64
		for c := 0; c < channels; c++ {
			sum += float64(in[i*channels+c])
		}
		out[i] = float32(sum / float64(channels))
	}
	return out
}

func resampleLinear(in []float32, from, to int) []float32 {
	if from == to || from <= 0 || len(in) == 0 {
		return in
	}
	ratio := float64(to) / float64(from)
	n := int(float64(len(in))*ratio + 0.5)
	out := make([]float32, n)
	last := len(in) - 1
	for i := range out {
		src := float64(i) / ratio
		i0 := int(src)
		if i0 >= last {
			out[i] = in[last]
			continue
		}
		a := float32(src - float64(i0))
		out[i] = in[i0]*(1-a) + in[i0+1]*a
	}
	return out
}

func clamp(x, lo, hi float64) float64 {
	return max(lo, min(x, hi))
}
