package store

import (
	"context"
	"fmt"

	"github.com/reelpulse/reelpulse/internal/engine"
)

// Template is a reusable structure for generated content.
type Template struct {
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	Kind      string `json:"kind"` // caption, threads, script
	Body      string `json:"body"`
	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at"`
}

// ValidTemplateKind reports whether kind is one the schema accepts.
func ValidTemplateKind(kind string) bool {
	switch kind {
	case "caption", "threads", "script":
		return true
	}
	return false
}

// CreateTemplate stores a new template.
func (s *Store) CreateTemplate(ctx context.Context, t *Template) (int64, error) {
	if t.Name == "" || t.Body == "" {
		return 0, fmt.Errorf("%w: template name and body are required", engine.ErrInvalidInput)
	}
	if !ValidTemplateKind(t.Kind) {
		return 0, fmt.Errorf("%w: template kind must be caption, threads, or script", engine.ErrInvalidInput)
	}

	var id int64
	err := s.pool.QueryRow(ctx, `
		INSERT INTO templates (name, kind, body)
		VALUES ($1, $2, $3)
		RETURNING id`,
		t.Name, t.Kind, t.Body,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("create template %q: %w", t.Name, err)
	}
	return id, nil
}

// GetTemplate returns a template by ID.
func (s *Store) GetTemplate(ctx context.Context, id int64) (*Template, error) {
	var t Template
	err := s.pool.QueryRow(ctx, `
		SELECT id, name, kind, body,
			to_char(created_at, 'YYYY-MM-DD"T"HH24:MI:SS"Z"'),
			to_char(updated_at, 'YYYY-MM-DD"T"HH24:MI:SS"Z"')
		FROM templates WHERE id = $1`, id,
	).Scan(&t.ID, &t.Name, &t.Kind, &t.Body, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		return nil, notFound(err, fmt.Sprintf("template %d", id))
	}
	return &t, nil
}

// ListTemplates returns templates, optionally filtered by kind.
func (s *Store) ListTemplates(ctx context.Context, kind string, limit int) ([]Template, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}

	query := `
		SELECT id, name, kind, body,
			to_char(created_at, 'YYYY-MM-DD"T"HH24:MI:SS"Z"'),
			to_char(updated_at, 'YYYY-MM-DD"T"HH24:MI:SS"Z"')
		FROM templates`
	args := []any{limit}
	if kind != "" {
		query += ` WHERE kind = $2`
		args = append(args, kind)
	}
	query += ` ORDER BY updated_at DESC LIMIT $1`

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list templates: %w", err)
	}
	defer rows.Close()

	var templates []Template
	for rows.Next() {
		var t Template
		if err := rows.Scan(&t.ID, &t.Name, &t.Kind, &t.Body, &t.CreatedAt, &t.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan template: %w", err)
		}
		templates = append(templates, t)
	}
	return templates, rows.Err()
}
