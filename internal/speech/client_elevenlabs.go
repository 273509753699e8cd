package speech

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/goccy/go-json"

	"github.com/Vovarama1992/always_evening/internal/ports"
)

const elevenLabsURL = "https://api.elevenlabs.io"

type ElevenLabsClient struct {
	apiKey  string
	baseURL string
	voices  map[ports.Speaker]string
	httpCli *http.Client
}

func NewElevenLabsClient(apiKey, lenaVoice, isaacVoice string) *ElevenLabsClient {
	return &ElevenLabsClient{
		apiKey:  apiKey,
		baseURL: elevenLabsURL,
		voices: map[ports.Speaker]string{
			ports.SpeakerLena:  lenaVoice,
			ports.SpeakerIsaac: isaacVoice,
		},
		httpCli: &http.Client{Timeout: 60 * time.Second},
	}
}

func (c *ElevenLabsClient) Synthesize(ctx context.Context, speaker ports.Speaker, text string) ([]byte, error) {
	voiceID := c.voices[speaker]
	if voiceID == "" {
		return nil, fmt.Errorf("no voice for speaker %q", speaker)
	}

	payload, err := json.Marshal(map[string]string{"text": text})
	if err != nil {
		return nil, err
	}

	url := fmt.Sprintf("%s/v1/text-to-speech/%s", c.baseURL, voiceID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("xi-api-key", c.apiKey)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "audio/mpeg")

	resp, err := c.httpCli.Do(req)
	if err != nil {
		return nil, fmt.Errorf("elevenlabs request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, fmt.Errorf("elevenlabs error %d: %s", resp.StatusCode, string(b))
	}

	audio, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("elevenlabs read audio: %w", err)
	}
	if len(audio) == 0 {
		return nil, fmt.Errorf("elevenlabs returned empty audio")
	}
	return audio, nil
}
