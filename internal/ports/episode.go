package ports

import (
	"context"
	"errors"
	"time"
)

type Speaker string

const (
	SpeakerLena  Speaker = "LENA"
	SpeakerIsaac Speaker = "ISAAC"
)

func (s Speaker) Valid() bool {
	return s == SpeakerLena || s == SpeakerIsaac
}

// One dialogue line; Order is 0-based and contiguous within an episode.
type Line struct {
	Speaker Speaker `json:"speaker"`
	Text    string  `json:"text"`
	Order   int     `json:"order"`
}

type Episode struct {
	ID        string    `json:"id"`
	Theme     string    `json:"theme"`
	Lines     []Line    `json:"lines"`
	Journal   *string   `json:"journal,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

var ErrEpisodeNotFound = errors.New("episode not found")

// Episode metadata storage (transcript + journal)
type EpisodeRepo interface {
	Save(ctx context.Context, ep Episode) error
	Get(ctx context.Context, id string) (*Episode, error)
	SetJournal(ctx context.Context, id, journal string) error
	DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
}
