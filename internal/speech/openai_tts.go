package speech

import (
	"context"
	"fmt"
	"io"

	openai "github.com/sashabaranov/go-openai"

	"github.com/Vovarama1992/always_evening/internal/ports"
)

// Lena: warm, feminine. Isaac: deep, masculine.
var openAIVoices = map[ports.Speaker]openai.SpeechVoice{
	ports.SpeakerLena:  openai.VoiceNova,
	ports.SpeakerIsaac: openai.VoiceOnyx,
}

type OpenAITTS struct {
	client *openai.Client
}

func NewOpenAITTS(apiKey, baseURL string) *OpenAITTS {
	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}
	return &OpenAITTS{client: openai.NewClientWithConfig(cfg)}
}

func (c *OpenAITTS) Synthesize(ctx context.Context, speaker ports.Speaker, text string) ([]byte, error) {
	voice, ok := openAIVoices[speaker]
	if !ok {
		return nil, fmt.Errorf("no voice for speaker %q", speaker)
	}

	resp, err := c.client.CreateSpeech(ctx, openai.CreateSpeechRequest{
		Model:          openai.TTSModel1,
		Input:          text,
		Voice:          voice,
		ResponseFormat: openai.SpeechResponseFormatMp3,
	})
	if err != nil {
		return nil, fmt.Errorf("openai speech: %w", err)
	}
	defer resp.Close()

	data, err := io.ReadAll(resp)
	if err != nil {
		return nil, fmt.Errorf("read speech body: %w", err)
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("openai speech: empty audio")
	}
	return data, nil
}
