package infra

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Vovarama1992/always_evening/internal/ports"
)

func TestMemoryEpisodeRepo(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryEpisodeRepo()
	created := time.Date(2026, 3, 1, 21, 0, 0, 0, time.UTC)

	ep := ports.Episode{
		ID:        "ep1",
		Theme:     "Rituals",
		Lines:     []ports.Line{{Speaker: ports.SpeakerIsaac, Text: "hi", Order: 0}},
		CreatedAt: created,
	}
	require.NoError(t, repo.Save(ctx, ep))

	got, err := repo.Get(ctx, "ep1")
	require.NoError(t, err)
	assert.Equal(t, "Rituals", got.Theme)
	assert.Nil(t, got.Journal)
	require.Len(t, got.Lines, 1)

	// returned copies do not alias the stored lines
	got.Lines[0].Text = "changed"
	again, _ := repo.Get(ctx, "ep1")
	assert.Equal(t, "hi", again.Lines[0].Text)

	require.NoError(t, repo.SetJournal(ctx, "ep1", "Dear diary"))
	got, err = repo.Get(ctx, "ep1")
	require.NoError(t, err)
	require.NotNil(t, got.Journal)
	assert.Equal(t, "Dear diary", *got.Journal)

	// re-saving keeps the journal and creation time
	ep.Theme = "Rituals, again"
	ep.CreatedAt = created.Add(time.Hour)
	require.NoError(t, repo.Save(ctx, ep))
	got, _ = repo.Get(ctx, "ep1")
	assert.Equal(t, "Rituals, again", got.Theme)
	assert.Equal(t, created, got.CreatedAt)
	require.NotNil(t, got.Journal)

	assert.ErrorIs(t, repo.SetJournal(ctx, "nope", "x"), ports.ErrEpisodeNotFound)
	_, err = repo.Get(ctx, "nope")
	assert.ErrorIs(t, err, ports.ErrEpisodeNotFound)
}

func TestMemoryEpisodeRepoDeleteOlderThan(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryEpisodeRepo()
	now := time.Now()

	require.NoError(t, repo.Save(ctx, ports.Episode{ID: "old", CreatedAt: now.Add(-3 * time.Hour)}))
	require.NoError(t, repo.Save(ctx, ports.Episode{ID: "new", CreatedAt: now}))

	n, err := repo.DeleteOlderThan(ctx, now.Add(-2*time.Hour))
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	_, err = repo.Get(ctx, "old")
	assert.ErrorIs(t, err, ports.ErrEpisodeNotFound)
	_, err = repo.Get(ctx, "new")
	assert.NoError(t, err)
}
