package store

import (
	"context"
	"encoding/json"
	"fmt"
)

// GeneratedContent is one saved generation result, linked to a reel.
type GeneratedContent struct {
	ID        int64           `json:"id"`
	ReelID    *int64          `json:"reel_id,omitempty"`
	Kind      string          `json:"kind"` // caption, threads, script
	Body      json.RawMessage `json:"body"`
	Model     string          `json:"model,omitempty"`
	CreatedAt string          `json:"created_at"`
}

// SaveGenerated stores a generation result. reelID may be nil for
// generations not tied to a stored reel.
func (s *Store) SaveGenerated(ctx context.Context, reelID *int64, kind string, body any, model string) (int64, error) {
	payload, err := json.Marshal(body)
	if err != nil {
		return 0, fmt.Errorf("marshal %s body: %w", kind, err)
	}

	var id int64
	err = s.pool.QueryRow(ctx, `
		INSERT INTO generated_contents (reel_id, kind, body, model)
		VALUES ($1, $2, $3, $4)
		RETURNING id`,
		reelID, kind, payload, model,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("save generated %s: %w", kind, err)
	}
	return id, nil
}

// ListGenerated returns generation results for a reel, newest first.
func (s *Store) ListGenerated(ctx context.Context, reelID int64, limit int) ([]GeneratedContent, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	rows, err := s.pool.Query(ctx, `
		SELECT id, reel_id, kind, body, model, to_char(created_at, 'YYYY-MM-DD"T"HH24:MI:SS"Z"')
		FROM generated_contents
		WHERE reel_id = $1
		ORDER BY created_at DESC
		LIMIT $2`,
		reelID, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("list generated for reel %d: %w", reelID, err)
	}
	defer rows.Close()

	var contents []GeneratedContent
	for rows.Next() {
		var gc GeneratedContent
		if err := rows.Scan(&gc.ID, &gc.ReelID, &gc.Kind, &gc.Body, &gc.Model, &gc.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan generated content: %w", err)
		}
		contents = append(contents, gc)
	}
	return contents, rows.Err()
}
