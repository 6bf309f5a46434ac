package reels

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v5"

	"github.com/reelpulse/reelpulse/internal/engine"
)

// Default yt-dlp format: h264 mp4 video + aac audio, matching what
// Instagram serves and what downstream players expect.
const defaultFormat = "bv*[vcodec^=avc1][ext=mp4]+ba[acodec^=mp4a][ext=m4a]/best[ext=mp4][vcodec^=avc1]/best"

// CommandRunner executes an external command and returns combined stdout.
// Tests substitute a fake.
type CommandRunner func(ctx context.Context, name string, args ...string) ([]byte, error)

// ReelMetadata is the subset of yt-dlp -j output the service keeps.
type ReelMetadata struct {
	ID           string  `json:"id"`
	Title        string  `json:"title"`
	Description  string  `json:"description"`
	Uploader     string  `json:"uploader"`
	Channel      string  `json:"channel"`
	Duration     float64 `json:"duration"`
	ViewCount    int64   `json:"view_count"`
	LikeCount    int64   `json:"like_count"`
	CommentCount int64   `json:"comment_count"`
	Timestamp    int64   `json:"timestamp"`
	Thumbnail    string  `json:"thumbnail"`
	WebpageURL   string  `json:"webpage_url"`
}

// MediaPaths are the files produced by a reel download.
type MediaPaths struct {
	Video     string `json:"video,omitempty"`
	Audio     string `json:"audio,omitempty"`
	Thumbnail string `json:"thumbnail,omitempty"`
	Cached    bool   `json:"cached"`
}

// Downloader wraps yt-dlp for fetching reel media and metadata.
type Downloader struct {
	binary      string
	dataDir     string
	cookiesFile string
	timeout     time.Duration
	runner      CommandRunner
	ledger      *Ledger // nil = no dedupe
}

// DownloaderOption customizes a Downloader.
type DownloaderOption func(*Downloader)

// WithCommandRunner sets a custom command runner (for testing).
func WithCommandRunner(runner CommandRunner) DownloaderOption {
	return func(d *Downloader) { d.runner = runner }
}

// WithCookiesFile sets a Netscape cookies file passed to yt-dlp.
func WithCookiesFile(path string) DownloaderOption {
	return func(d *Downloader) { d.cookiesFile = path }
}

// WithLedger attaches a download ledger for shortcode dedupe.
func WithLedger(l *Ledger) DownloaderOption {
	return func(d *Downloader) { d.ledger = l }
}

// WithTimeout overrides the per-invocation subprocess timeout.
func WithTimeout(timeout time.Duration) DownloaderOption {
	return func(d *Downloader) { d.timeout = timeout }
}

// NewDownloader creates a Downloader writing media under dataDir.
func NewDownloader(binary, dataDir string, opts ...DownloaderOption) *Downloader {
	if binary == "" {
		binary = "yt-dlp"
	}
	d := &Downloader{
		binary:  binary,
		dataDir: dataDir,
		timeout: 120 * time.Second,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// run executes yt-dlp with the configured timeout, capturing stdout.
// stderr is folded into the error on failure.
func (d *Downloader) run(ctx context.Context, args ...string) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, d.timeout)
	defer cancel()

	if d.runner != nil {
		return d.runner(ctx, d.binary, args...)
	}

	cmd := exec.CommandContext(ctx, d.binary, args...)
	var stderr strings.Builder
	cmd.Stderr = &stderr
	out, err := cmd.Output()
	if err != nil {
		return nil, fmt.Errorf("%s: %w: %s", d.binary, err, strings.TrimSpace(stderr.String()))
	}
	return out, nil
}

// baseArgs returns arguments common to every yt-dlp invocation.
func (d *Downloader) baseArgs() []string {
	args := []string{"--no-warnings", "--no-playlist"}
	if d.cookiesFile != "" {
		args = append(args, "--cookies", d.cookiesFile)
	}
	return args
}

// Metadata fetches reel metadata via yt-dlp -j without downloading media.
func (d *Downloader) Metadata(ctx context.Context, shortcode string) (*ReelMetadata, error) {
	args := append(d.baseArgs(), "-j", ReelURL(shortcode))
	out, err := d.run(ctx, args...)
	if err != nil {
		return nil, fmt.Errorf("reel metadata %s: %w", shortcode, err)
	}

	var meta ReelMetadata
	if err := json.Unmarshal(out, &meta); err != nil {
		return nil, fmt.Errorf("reel metadata %s: parse: %w", shortcode, err)
	}
	return &meta, nil
}

// Download fetches the reel video, thumbnail, and extracted audio.
// Already-downloaded shortcodes (per the ledger) are returned from disk.
// Transient failures are retried with exponential backoff.
func (d *Downloader) Download(ctx context.Context, shortcode string) (MediaPaths, error) {
	engine.IncrDownloadRequests()

	paths := MediaPaths{
		Video:     filepath.Join(d.dataDir, shortcode+".mp4"),
		Audio:     filepath.Join(d.dataDir, shortcode+".m4a"),
		Thumbnail: filepath.Join(d.dataDir, shortcode+".jpg"),
	}

	if d.ledger != nil {
		if entry, err := d.ledger.Get(ctx, shortcode); err == nil && entry != nil && fileExists(paths.Video) {
			paths.Cached = true
			return paths, nil
		}
	}

	if err := os.MkdirAll(d.dataDir, 0o755); err != nil {
		engine.IncrDownloadErrors()
		return MediaPaths{}, fmt.Errorf("ensure data dir: %w", err)
	}

	operation := func() (struct{}, error) {
		args := append(d.baseArgs(),
			"-f", defaultFormat,
			"--merge-output-format", "mp4",
			"--write-thumbnail",
			"--convert-thumbnails", "jpg",
			"-o", filepath.Join(d.dataDir, "%(id)s.%(ext)s"),
			ReelURL(shortcode),
		)
		if _, err := d.run(ctx, args...); err != nil {
			if ctx.Err() != nil {
				return struct{}{}, backoff.Permanent(err)
			}
			return struct{}{}, err
		}
		return struct{}{}, nil
	}

	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = 2 * time.Second
	if _, err := backoff.Retry(ctx, operation, backoff.WithBackOff(bo), backoff.WithMaxTries(3), backoff.WithMaxElapsedTime(5*time.Minute)); err != nil {
		engine.IncrDownloadErrors()
		return MediaPaths{}, fmt.Errorf("download reel %s: %w", shortcode, err)
	}

	if err := d.extractAudio(ctx, shortcode); err != nil {
		// Audio is only needed for transcription; the video download stands.
		paths.Audio = ""
	}
	if !fileExists(paths.Thumbnail) {
		paths.Thumbnail = ""
	}

	if d.ledger != nil {
		if err := d.ledger.Record(ctx, shortcode, paths.Video); err != nil {
			return paths, fmt.Errorf("ledger record %s: %w", shortcode, err)
		}
	}
	return paths, nil
}

// DownloadAudio fetches only the reel audio track, for transcription.
func (d *Downloader) DownloadAudio(ctx context.Context, shortcode string) (string, error) {
	engine.IncrDownloadRequests()

	audioPath := filepath.Join(d.dataDir, shortcode+".m4a")
	if fileExists(audioPath) {
		return audioPath, nil
	}

	if err := os.MkdirAll(d.dataDir, 0o755); err != nil {
		engine.IncrDownloadErrors()
		return "", fmt.Errorf("ensure data dir: %w", err)
	}

	args := append(d.baseArgs(),
		"-x", "--audio-format", "m4a",
		"-o", filepath.Join(d.dataDir, "%(id)s.%(ext)s"),
		ReelURL(shortcode),
	)
	if _, err := d.run(ctx, args...); err != nil {
		engine.IncrDownloadErrors()
		return "", fmt.Errorf("download audio %s: %w", shortcode, err)
	}
	return audioPath, nil
}

// extractAudio pulls the audio track out of an already-downloaded reel.
func (d *Downloader) extractAudio(ctx context.Context, shortcode string) error {
	audioPath := filepath.Join(d.dataDir, shortcode+".m4a")
	if fileExists(audioPath) {
		return nil
	}
	args := append(d.baseArgs(),
		"-x", "--audio-format", "m4a",
		"-o", filepath.Join(d.dataDir, "%(id)s.%(ext)s"),
		ReelURL(shortcode),
	)
	_, err := d.run(ctx, args...)
	return err
}

func fileExists(path string) bool {
	if path == "" {
		return false
	}
	_, err := os.Stat(path)
	return err == nil
}
