package ports

import (
	"context"
	"errors"
)

var ErrPublishingDisabled = errors.New("publishing is not configured")

type PublishService interface {
	ObjectKey(episodeID string) string
	// Publish uploads the packaged episode and returns its public URL.
	Publish(ctx context.Context, episodeID string) (string, error)
}
