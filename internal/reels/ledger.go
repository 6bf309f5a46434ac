package reels

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

// LedgerEntry records one downloaded reel.
type LedgerEntry struct {
	Shortcode    string `json:"shortcode"`
	VideoPath    string `json:"video_path"`
	DownloadedAt string `json:"downloaded_at"`
}

// Ledger is a local SQLite index of downloaded reels, so repeated
// requests for the same shortcode skip yt-dlp entirely.
type Ledger struct {
	db *sql.DB
}

// OpenLedger opens (or creates) the ledger database at path.
func OpenLedger(path string) (*Ledger, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return nil, fmt.Errorf("ledger: mkdir %s: %w", filepath.Dir(path), err)
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("ledger: open db: %w", err)
	}
	db.SetMaxOpenConns(1) // SQLite: single writer

	if _, err := db.Exec(`CREATE TABLE IF NOT EXISTS downloads (
		shortcode     TEXT PRIMARY KEY,
		video_path    TEXT NOT NULL,
		downloaded_at TEXT NOT NULL
	)`); err != nil {
		db.Close()
		return nil, fmt.Errorf("ledger: init schema: %w", err)
	}
	return &Ledger{db: db}, nil
}

// Close releases the underlying database handle.
func (l *Ledger) Close() error {
	return l.db.Close()
}

// Get returns the entry for a shortcode, or nil if never downloaded.
func (l *Ledger) Get(ctx context.Context, shortcode string) (*LedgerEntry, error) {
	var entry LedgerEntry
	err := l.db.QueryRowContext(ctx,
		`SELECT shortcode, video_path, downloaded_at FROM downloads WHERE shortcode = ?`,
		shortcode,
	).Scan(&entry.Shortcode, &entry.VideoPath, &entry.DownloadedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("ledger get %s: %w", shortcode, err)
	}
	return &entry, nil
}

// Record upserts a download entry. Idempotent per shortcode.
func (l *Ledger) Record(ctx context.Context, shortcode, videoPath string) error {
	now := time.Now().UTC().Format(time.RFC3339)
	_, err := l.db.ExecContext(ctx,
		`INSERT INTO downloads (shortcode, video_path, downloaded_at) VALUES (?, ?, ?)
		 ON CONFLICT(shortcode) DO UPDATE SET video_path = excluded.video_path, downloaded_at = excluded.downloaded_at`,
		shortcode, videoPath, now,
	)
	if err != nil {
		return fmt.Errorf("ledger record %s: %w", shortcode, err)
	}
	return nil
}

// List returns up to limit entries, most recent first.
func (l *Ledger) List(ctx context.Context, limit int) ([]LedgerEntry, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := l.db.QueryContext(ctx,
		`SELECT shortcode, video_path, downloaded_at FROM downloads ORDER BY downloaded_at DESC LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("ledger list: %w", err)
	}
	defer rows.Close()

	var entries []LedgerEntry
	for rows.Next() {
		var entry LedgerEntry
		if err := rows.Scan(&entry.Shortcode, &entry.VideoPath, &entry.DownloadedAt); err != nil {
			return nil, fmt.Errorf("ledger scan: %w", err)
		}
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}
