package speech

import (
	"context"
	"fmt"
	"time"

	"github.com/Vovarama1992/go-utils/logger"
	"github.com/dustin/go-humanize"

	notificator "github.com/Vovarama1992/always_evening/internal/error_notificator"
	"github.com/Vovarama1992/always_evening/internal/ports"
)

const attempts = 2

type Service struct {
	tts        TTSClient
	notifier   notificator.Notificator
	log        *logger.ZapLogger
	retryDelay time.Duration
}

// NewService waits retryDelay between the two synthesis attempts.
func NewService(tts TTSClient, notifier notificator.Notificator, retryDelay time.Duration, log *logger.ZapLogger) *Service {
	return &Service{
		tts:        tts,
		notifier:   notifier,
		log:        log,
		retryDelay: retryDelay,
	}
}

// Synthesize tries twice with a pause in between and returns the last error.
func (s *Service) Synthesize(ctx context.Context, speaker ports.Speaker, text string) ([]byte, error) {
	if !speaker.Valid() {
		return nil, fmt.Errorf("invalid speaker %q", speaker)
	}

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		s.log.Log(logger.LogEntry{
			Level:   "info",
			Message: fmt.Sprintf("generating TTS for %s (attempt %d)", speaker, attempt),
			Service: "speech",
		})

		data, err := s.tts.Synthesize(ctx, speaker, text)
		if err == nil {
			s.log.Log(logger.LogEntry{
				Level:   "info",
				Message: fmt.Sprintf("TTS for %s ready, %s", speaker, humanize.Bytes(uint64(len(data)))),
				Service: "speech",
			})
			return data, nil
		}

		lastErr = err
		s.log.Log(logger.LogEntry{
			Level:   "warn",
			Message: fmt.Sprintf("TTS attempt %d failed", attempt),
			Error:   err,
			Service: "speech",
		})

		if attempt < attempts {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(s.retryDelay):
			}
		}
	}

	if s.notifier != nil {
		_ = s.notifier.Notify(ctx, lastErr, fmt.Sprintf("tts for %s failed after %d attempts", speaker, attempts))
	}
	return nil, lastErr
}
