// Package buzzserver exposes the analysis and generation engine as MCP
// tools, so agent clients can score and repurpose reels directly.
package buzzserver

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/reelpulse/reelpulse/internal/reels"
)

// AudioFetcher downloads a reel's audio track by shortcode.
type AudioFetcher interface {
	DownloadAudio(ctx context.Context, shortcode string) (string, error)
}

// Transcriber converts an audio file into text.
type Transcriber interface {
	Transcribe(ctx context.Context, audioPath, language string) (string, error)
}

// Deps are the non-engine dependencies the tools need.
// Fetcher and Transcriber may be nil; reel_transcribe is skipped then.
type Deps struct {
	Fetcher     AudioFetcher
	Transcriber Transcriber
}

// RegisterTools registers all reel tools on the given MCP server:
// analyze_buzz, generate_caption, generate_threads, generate_script,
// and (when a downloader and transcriber are wired) reel_transcribe.
func RegisterTools(server *mcp.Server, deps Deps) {
	registerAnalyzeBuzz(server)
	registerGenerateCaption(server)
	registerGenerateThreads(server)
	registerGenerateScript(server)
	if deps.Fetcher != nil && deps.Transcriber != nil {
		registerReelTranscribe(server, deps)
	}
}

var _ AudioFetcher = (*reels.Downloader)(nil)
var _ Transcriber = (*reels.WhisperClient)(nil)
