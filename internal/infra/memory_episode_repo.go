package infra

import (
	"context"
	"sync"
	"time"

	"github.com/Vovarama1992/always_evening/internal/ports"
)

// memoryEpisodeRepo backs the service when DATABASE_URL is not set.
type memoryEpisodeRepo struct {
	mu       sync.RWMutex
	episodes map[string]ports.Episode
}

func NewMemoryEpisodeRepo() ports.EpisodeRepo {
	return &memoryEpisodeRepo{episodes: make(map[string]ports.Episode)}
}

func (r *memoryEpisodeRepo) Save(_ context.Context, ep ports.Episode) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if old, ok := r.episodes[ep.ID]; ok {
		ep.Journal = old.Journal
		ep.CreatedAt = old.CreatedAt
	}
	ep.Lines = append([]ports.Line(nil), ep.Lines...)
	r.episodes[ep.ID] = ep
	return nil
}

func (r *memoryEpisodeRepo) Get(_ context.Context, id string) (*ports.Episode, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ep, ok := r.episodes[id]
	if !ok {
		return nil, ports.ErrEpisodeNotFound
	}
	ep.Lines = append([]ports.Line(nil), ep.Lines...)
	return &ep, nil
}

func (r *memoryEpisodeRepo) SetJournal(_ context.Context, id, journal string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	ep, ok := r.episodes[id]
	if !ok {
		return ports.ErrEpisodeNotFound
	}
	ep.Journal = &journal
	r.episodes[id] = ep
	return nil
}

func (r *memoryEpisodeRepo) DeleteOlderThan(_ context.Context, cutoff time.Time) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var n int64
	for id, ep := range r.episodes {
		if ep.CreatedAt.Before(cutoff) {
			delete(r.episodes, id)
			n++
		}
	}
	return n, nil
}
