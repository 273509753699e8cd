package speech

import (
	"context"

	"github.com/Vovarama1992/always_evening/internal/ports"
)

// TTSClient turns one line of text into MP3 bytes in the speaker's voice.
type TTSClient interface {
	Synthesize(ctx context.Context, speaker ports.Speaker, text string) ([]byte, error)
}
