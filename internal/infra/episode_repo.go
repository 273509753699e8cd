package infra

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/goccy/go-json"

	"github.com/Vovarama1992/always_evening/internal/ports"
)

const episodesSchema = `
CREATE TABLE IF NOT EXISTS episodes (
	id         TEXT PRIMARY KEY,
	theme      TEXT NOT NULL,
	lines      JSONB NOT NULL,
	journal    TEXT,
	created_at TIMESTAMPTZ NOT NULL
)`

type episodeRepo struct {
	db *sql.DB
}

func NewEpisodeRepo(db *sql.DB) ports.EpisodeRepo {
	return &episodeRepo{db: db}
}

// MigrateEpisodes creates the episodes table when missing.
func MigrateEpisodes(ctx context.Context, db *sql.DB) error {
	if _, err := db.ExecContext(ctx, episodesSchema); err != nil {
		return fmt.Errorf("migrate episodes: %w", err)
	}
	return nil
}

func (r *episodeRepo) Save(ctx context.Context, ep ports.Episode) error {
	lines, err := json.Marshal(ep.Lines)
	if err != nil {
		return fmt.Errorf("encode lines: %w", err)
	}

	_, err = r.db.ExecContext(ctx, `
		INSERT INTO episodes (id, theme, lines, journal, created_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (id) DO UPDATE
		SET theme = EXCLUDED.theme, lines = EXCLUDED.lines
	`, ep.ID, ep.Theme, string(lines), ep.Journal, ep.CreatedAt)
	return err
}

func (r *episodeRepo) Get(ctx context.Context, id string) (*ports.Episode, error) {
	var (
		ep    ports.Episode
		lines []byte
	)
	err := r.db.QueryRowContext(ctx, `
		SELECT id, theme, lines, journal, created_at
		FROM episodes
		WHERE id = $1
	`, id).Scan(&ep.ID, &ep.Theme, &lines, &ep.Journal, &ep.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ports.ErrEpisodeNotFound
	}
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal(lines, &ep.Lines); err != nil {
		return nil, fmt.Errorf("decode lines: %w", err)
	}
	return &ep, nil
}

func (r *episodeRepo) SetJournal(ctx context.Context, id, journal string) error {
	res, err := r.db.ExecContext(ctx, `UPDATE episodes SET journal = $2 WHERE id = $1`, id, journal)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ports.ErrEpisodeNotFound
	}
	return nil
}

func (r *episodeRepo) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM episodes WHERE created_at < $1`, cutoff)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
