package stt

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"

	openai "github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"

	"vozc/pkg/audioconv"
	"vozc/pkg/pcm"
)

// OpenAI sends clips to the hosted transcription endpoint.
type OpenAI struct {
	client openai.Client
	model  openai.AudioModel
}

func NewOpenAI(apiKey, model string, httpClient *http.Client) (*OpenAI, error) {
	if apiKey == "" {
		return nil, errors.New("OPENAI_API_KEY not set")
	}

	opts := []option.RequestOption{option.WithAPIKey(apiKey)}
	if httpClient != nil {
		opts = append(opts, option.WithHTTPClient(httpClient))
	}

	o := &OpenAI{
		client: openai.NewClient(opts...),
		model:  openai.AudioModelWhisper1,
	}
	if model != "" {
		o.model = openai.AudioModel(model)
	}
	return o, nil
}

func (o *OpenAI) Name() string { return "openai" }

func (o *OpenAI) Close() error { return nil }

func (o *OpenAI) Transcribe(ctx context.Context, clip pcm.Clip, lang string) (string, error) {
	if clip.Empty() {
		return "", ErrEmptyAudio
	}

	path, err := audioconv.WriteTempWAV(clip, "vozc-*.wav")
	if err != nil {
		return "", err
	}
	defer os.Remove(path)

	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	params := openai.AudioTranscriptionNewParams{
		File:  openai.File(f, "command.wav", "audio/wav"),
		Model: o.model,
	}
	if lang != "" && lang != "auto" {
		params.Language = openai.String(lang)
	}

	resp, err := o.client.Audio.Transcriptions.New(ctx, params)
	if err != nil {
		return "", fmt.Errorf("transcription: %w", err)
	}

	return resp.Text, nil
}
