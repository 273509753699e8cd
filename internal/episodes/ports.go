package episodes

import (
	"context"
	"errors"
	"strings"
	"time"
)

const audioExt = ".mp3"

var (
	ErrInvalidID   = errors.New("invalid episode id")
	ErrInvalidName = errors.New("invalid file name")
	ErrInvalidType = errors.New("invalid file type")
	ErrNotFound    = errors.New("not found")
)

// Pruner drops whatever else is kept per episode once its audio is swept.
type Pruner interface {
	DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
}

// ValidID rejects anything that could escape the cache root.
func ValidID(id string) bool {
	return validSegment(id)
}

// ValidAudioName checks a file name served from an episode directory.
func ValidAudioName(name string) error {
	if !validSegment(name) {
		return ErrInvalidName
	}
	if !strings.HasSuffix(name, audioExt) {
		return ErrInvalidType
	}
	return nil
}

func validSegment(s string) bool {
	if s == "" || s == "." {
		return false
	}
	return !strings.Contains(s, "..") &&
		!strings.Contains(s, "/") &&
		!strings.Contains(s, `\`) &&
		!strings.ContainsRune(s, 0)
}
