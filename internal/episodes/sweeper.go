package episodes

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/Vovarama1992/go-utils/logger"
	"github.com/dustin/go-humanize"
)

const service = "episodes"

// Sweeper removes episode directories whose mtime is older than maxAge.
type Sweeper struct {
	cache    *Cache
	maxAge   time.Duration
	interval time.Duration
	pruner   Pruner
	log      *logger.ZapLogger
	now      func() time.Time
}

// NewSweeper builds a Sweeper. pruner may be nil.
func NewSweeper(cache *Cache, maxAge, interval time.Duration, pruner Pruner, log *logger.ZapLogger) *Sweeper {
	return &Sweeper{
		cache:    cache,
		maxAge:   maxAge,
		interval: interval,
		pruner:   pruner,
		log:      log,
		now:      time.Now,
	}
}

// Run sweeps once right away and then every interval until ctx is done.
func (s *Sweeper) Run(ctx context.Context) {
	s.Sweep(ctx)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.Sweep(ctx)
		}
	}
}

// Sweep never fails: problems are logged and the pass moves on.
// It returns the number of removed episode directories.
func (s *Sweeper) Sweep(ctx context.Context) int {
	root := s.cache.Root()
	if err := os.MkdirAll(root, dirPerm); err != nil {
		s.warn("cache root unavailable", err)
		return 0
	}

	entries, err := os.ReadDir(root)
	if err != nil {
		s.warn("read cache root", err)
		return 0
	}

	now := s.now()
	removed := 0
	var freed uint64

	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		path := filepath.Join(root, e.Name())

		info, err := os.Stat(path)
		if err != nil {
			s.warn("stat "+e.Name(), err)
			continue
		}
		if now.Sub(info.ModTime()) <= s.maxAge {
			continue
		}

		size := dirSize(path)
		if err := os.RemoveAll(path); err != nil {
			s.warn("remove "+e.Name(), err)
			continue
		}
		removed++
		freed += size
		s.log.Log(logger.LogEntry{
			Level:   "info",
			Message: "cleaned up old episode: " + e.Name(),
			Service: service,
		})
	}

	if s.pruner != nil {
		if n, err := s.pruner.DeleteOlderThan(ctx, now.Add(-s.maxAge)); err != nil {
			s.warn("prune episode records", err)
		} else if n > 0 {
			s.log.Log(logger.LogEntry{
				Level:   "info",
				Message: fmt.Sprintf("pruned %d episode records", n),
				Service: service,
			})
		}
	}

	if removed > 0 {
		s.log.Log(logger.LogEntry{
			Level:   "info",
			Message: fmt.Sprintf("sweep removed %d episodes, freed %s", removed, humanize.Bytes(freed)),
			Service: service,
		})
	}
	return removed
}

func (s *Sweeper) warn(msg string, err error) {
	s.log.Log(logger.LogEntry{Level: "warn", Message: msg, Error: err, Service: service})
}

func dirSize(path string) uint64 {
	var total uint64
	_ = filepath.WalkDir(path, func(_ string, d os.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return nil
		}
		if info, err := d.Info(); err == nil {
			total += uint64(info.Size())
		}
		return nil
	})
	return total
}
