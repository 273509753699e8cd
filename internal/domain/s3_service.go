package domain

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/Vovarama1992/always_evening/internal/episodes"
	"github.com/Vovarama1992/always_evening/internal/ports"
)

type publishService struct {
	client ports.S3Client
	cache  *episodes.Cache
	now    func() time.Time
}

func NewPublishService(client ports.S3Client, cache *episodes.Cache) ports.PublishService {
	return &publishService{client: client, cache: cache, now: time.Now}
}

// ObjectKey is the path in the bucket.
func (s *publishService) ObjectKey(episodeID string) string {
	date := s.now().Format("2006-01-02")
	return fmt.Sprintf("episodes/%s/episode_%s.zip", date, episodeID)
}

func (s *publishService) Publish(ctx context.Context, episodeID string) (string, error) {
	if !episodes.ValidID(episodeID) {
		return "", episodes.ErrInvalidID
	}

	var buf bytes.Buffer
	if _, err := s.cache.WriteZip(episodeID, &buf); err != nil {
		return "", err
	}

	return s.client.PutObject(ctx, s.ObjectKey(episodeID), bytes.NewReader(buf.Bytes()), int64(buf.Len()), "application/zip")
}

type disabledPublisher struct{}

// NewDisabledPublisher is wired when no object storage is configured.
func NewDisabledPublisher() ports.PublishService {
	return disabledPublisher{}
}

func (disabledPublisher) ObjectKey(string) string { return "" }

func (disabledPublisher) Publish(context.Context, string) (string, error) {
	return "", ports.ErrPublishingDisabled
}
