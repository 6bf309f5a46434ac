package store

import (
	"context"
	"fmt"
)

// Reel is a persisted reel row.
type Reel struct {
	ID           int64   `json:"id"`
	Shortcode    string  `json:"shortcode"`
	URL          string  `json:"url"`
	Author       string  `json:"author,omitempty"`
	Title        string  `json:"title,omitempty"`
	Caption      string  `json:"caption,omitempty"`
	Transcript   string  `json:"transcript,omitempty"`
	DurationSecs float64 `json:"duration_secs,omitempty"`
	ViewCount    int64   `json:"view_count,omitempty"`
	LikeCount    int64   `json:"like_count,omitempty"`
	BuzzScore    *int    `json:"buzz_score,omitempty"`
	BuzzVerdict  string  `json:"buzz_verdict,omitempty"`
	CreatedAt    string  `json:"created_at"`
	UpdatedAt    string  `json:"updated_at"`
}

// UpsertReel inserts or refreshes a reel keyed by shortcode, returning its ID.
func (s *Store) UpsertReel(ctx context.Context, r *Reel) (int64, error) {
	var id int64
	err := s.pool.QueryRow(ctx, `
		INSERT INTO reels (shortcode, url, author, title, caption, transcript, duration_secs, view_count, like_count)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (shortcode) DO UPDATE SET
			author = EXCLUDED.author,
			title = EXCLUDED.title,
			caption = CASE WHEN EXCLUDED.caption <> '' THEN EXCLUDED.caption ELSE reels.caption END,
			transcript = CASE WHEN EXCLUDED.transcript <> '' THEN EXCLUDED.transcript ELSE reels.transcript END,
			duration_secs = EXCLUDED.duration_secs,
			view_count = EXCLUDED.view_count,
			like_count = EXCLUDED.like_count
		RETURNING id`,
		r.Shortcode, r.URL, r.Author, r.Title, r.Caption, r.Transcript,
		r.DurationSecs, r.ViewCount, r.LikeCount,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("upsert reel %s: %w", r.Shortcode, err)
	}
	return id, nil
}

// SetBuzz records a buzz score and verdict for a reel.
func (s *Store) SetBuzz(ctx context.Context, reelID int64, score int, verdict string) error {
	_, err := s.pool.Exec(ctx,
		`UPDATE reels SET buzz_score = $2, buzz_verdict = $3 WHERE id = $1`,
		reelID, score, verdict,
	)
	if err != nil {
		return fmt.Errorf("set buzz for reel %d: %w", reelID, err)
	}
	return nil
}

// SetTranscript records a transcript for a reel.
func (s *Store) SetTranscript(ctx context.Context, reelID int64, transcript string) error {
	_, err := s.pool.Exec(ctx,
		`UPDATE reels SET transcript = $2 WHERE id = $1`,
		reelID, transcript,
	)
	if err != nil {
		return fmt.Errorf("set transcript for reel %d: %w", reelID, err)
	}
	return nil
}

const reelColumns = `id, shortcode, url, author, title, caption, transcript,
	duration_secs, view_count, like_count, buzz_score, buzz_verdict,
	to_char(created_at, 'YYYY-MM-DD"T"HH24:MI:SS"Z"'), to_char(updated_at, 'YYYY-MM-DD"T"HH24:MI:SS"Z"')`

// GetReelByShortcode returns a reel by its shortcode.
func (s *Store) GetReelByShortcode(ctx context.Context, shortcode string) (*Reel, error) {
	var r Reel
	err := s.pool.QueryRow(ctx,
		`SELECT `+reelColumns+` FROM reels WHERE shortcode = $1`, shortcode,
	).Scan(&r.ID, &r.Shortcode, &r.URL, &r.Author, &r.Title, &r.Caption, &r.Transcript,
		&r.DurationSecs, &r.ViewCount, &r.LikeCount, &r.BuzzScore, &r.BuzzVerdict,
		&r.CreatedAt, &r.UpdatedAt)
	if err != nil {
		return nil, notFound(err, "reel "+shortcode)
	}
	return &r, nil
}

// ListReels returns up to limit reels, most recently updated first.
func (s *Store) ListReels(ctx context.Context, limit int) ([]Reel, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	rows, err := s.pool.Query(ctx,
		`SELECT `+reelColumns+` FROM reels ORDER BY updated_at DESC LIMIT $1`, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("list reels: %w", err)
	}
	defer rows.Close()

	var reels []Reel
	for rows.Next() {
		var r Reel
		if err := rows.Scan(&r.ID, &r.Shortcode, &r.URL, &r.Author, &r.Title, &r.Caption, &r.Transcript,
			&r.DurationSecs, &r.ViewCount, &r.LikeCount, &r.BuzzScore, &r.BuzzVerdict,
			&r.CreatedAt, &r.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan reel: %w", err)
		}
		reels = append(reels, r)
	}
	return reels, rows.Err()
}
