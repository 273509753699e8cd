package episodes

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/Vovarama1992/go-utils/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakePruner struct {
	cutoff time.Time
	n      int64
	err    error
}

func (p *fakePruner) DeleteOlderThan(_ context.Context, cutoff time.Time) (int64, error) {
	p.cutoff = cutoff
	return p.n, p.err
}

func nopLogger() *logger.ZapLogger {
	return logger.NewZapLogger(zap.NewNop().Sugar())
}

func ageDir(t *testing.T, c *Cache, id string, age time.Duration, now time.Time) {
	t.Helper()
	dir, err := c.Create(id)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "000_ISAAC.mp3"), []byte("x"), 0o644))
	mtime := now.Add(-age)
	require.NoError(t, os.Chtimes(dir, mtime, mtime))
}

func TestSweepRemovesOnlyOldDirectories(t *testing.T) {
	c := newTestCache(t)
	now := time.Date(2026, 1, 1, 22, 0, 0, 0, time.UTC)

	ageDir(t, c, "old", 3*time.Hour, now)
	ageDir(t, c, "fresh", 10*time.Minute, now)
	ageDir(t, c, "edge", 2*time.Hour, now)
	require.NoError(t, os.WriteFile(filepath.Join(c.Root(), "stray.txt"), []byte("x"), 0o644))
	require.NoError(t, os.Chtimes(filepath.Join(c.Root(), "stray.txt"), now.Add(-24*time.Hour), now.Add(-24*time.Hour)))

	pruner := &fakePruner{n: 1}
	s := NewSweeper(c, 2*time.Hour, time.Minute, pruner, nopLogger())
	s.now = func() time.Time { return now }

	removed := s.Sweep(context.Background())
	assert.Equal(t, 1, removed)

	assert.False(t, c.Exists("old"))
	assert.True(t, c.Exists("fresh"))
	assert.True(t, c.Exists("edge"))
	_, err := os.Stat(filepath.Join(c.Root(), "stray.txt"))
	assert.NoError(t, err)

	assert.Equal(t, now.Add(-2*time.Hour), pruner.cutoff)
}

func TestSweepRecreatesMissingRoot(t *testing.T) {
	c := newTestCache(t)
	require.NoError(t, os.RemoveAll(c.Root()))

	s := NewSweeper(c, time.Hour, time.Minute, nil, nopLogger())
	assert.Equal(t, 0, s.Sweep(context.Background()))

	info, err := os.Stat(c.Root())
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}

func TestSweepSurvivesPrunerFailure(t *testing.T) {
	c := newTestCache(t)
	now := time.Now()
	ageDir(t, c, "old", 5*time.Hour, now)

	s := NewSweeper(c, time.Hour, time.Minute, &fakePruner{err: errors.New("db down")}, nopLogger())
	assert.Equal(t, 1, s.Sweep(context.Background()))
}

func TestRunStopsOnCancel(t *testing.T) {
	c := newTestCache(t)
	now := time.Now()
	ageDir(t, c, "old", 5*time.Hour, now)

	s := NewSweeper(c, time.Hour, 10*time.Millisecond, nil, nopLogger())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		s.Run(ctx)
		close(done)
	}()

	require.Eventually(t, func() bool { return !c.Exists("old") }, time.Second, 5*time.Millisecond)
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("sweeper did not stop")
	}
}
