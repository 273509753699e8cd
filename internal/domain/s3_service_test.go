package domain

import (
	"bytes"
	"context"
	"io"
	"path/filepath"
	"testing"
	"time"

	"github.com/klauspost/compress/zip"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Vovarama1992/always_evening/internal/episodes"
	"github.com/Vovarama1992/always_evening/internal/ports"
)

type fakeS3 struct {
	key         string
	body        []byte
	size        int64
	contentType string
}

func (f *fakeS3) PutObject(_ context.Context, key string, r io.Reader, size int64, contentType string) (string, error) {
	f.key, f.size, f.contentType = key, size, contentType
	f.body, _ = io.ReadAll(r)
	return "https://s3.local/bucket/" + key, nil
}

func TestPublish(t *testing.T) {
	cache, err := episodes.NewCache(filepath.Join(t.TempDir(), "cache"))
	require.NoError(t, err)
	_, err = cache.WriteLine("ep1", 0, ports.SpeakerIsaac, []byte("isaac"))
	require.NoError(t, err)

	s3 := &fakeS3{}
	svc := NewPublishService(s3, cache).(*publishService)
	svc.now = func() time.Time { return time.Date(2026, 10, 19, 0, 0, 0, 0, time.UTC) }

	url, err := svc.Publish(context.Background(), "ep1")
	require.NoError(t, err)

	assert.Equal(t, "episodes/2026-10-19/episode_ep1.zip", s3.key)
	assert.Equal(t, "https://s3.local/bucket/"+s3.key, url)
	assert.Equal(t, "application/zip", s3.contentType)
	assert.Equal(t, int64(len(s3.body)), s3.size)

	zr, err := zip.NewReader(bytes.NewReader(s3.body), int64(len(s3.body)))
	require.NoError(t, err)
	require.Len(t, zr.File, 1)
	assert.Equal(t, "000_ISAAC.mp3", zr.File[0].Name)
}

func TestPublishErrors(t *testing.T) {
	cache, err := episodes.NewCache(filepath.Join(t.TempDir(), "cache"))
	require.NoError(t, err)
	svc := NewPublishService(&fakeS3{}, cache)

	_, err = svc.Publish(context.Background(), "../x")
	assert.ErrorIs(t, err, episodes.ErrInvalidID)

	_, err = svc.Publish(context.Background(), "missing")
	assert.ErrorIs(t, err, episodes.ErrNotFound)

	_, err = NewDisabledPublisher().Publish(context.Background(), "ep1")
	assert.ErrorIs(t, err, ports.ErrPublishingDisabled)
}
