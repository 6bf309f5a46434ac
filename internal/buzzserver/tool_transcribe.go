package buzzserver

import (
	"context"
	"errors"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/reelpulse/reelpulse/internal/engine"
	"github.com/reelpulse/reelpulse/internal/reels"
)

type reelTranscribeInput struct {
	URL      string `json:"url" jsonschema:"Instagram reel URL or bare shortcode"`
	Language string `json:"language,omitempty" jsonschema:"ISO 639-1 language hint for transcription"`
	Analyze  bool   `json:"analyze,omitempty" jsonschema:"Also score the transcript for buzz potential"`
}

type reelTranscribeOutput struct {
	Shortcode  string             `json:"shortcode"`
	Transcript string             `json:"transcript"`
	Buzz       *engine.BuzzReport `json:"buzz,omitempty"`
}

func registerReelTranscribe(server *mcp.Server, deps Deps) {
	mcp.AddTool(server, &mcp.Tool{
		Name:        "reel_transcribe",
		Description: "Download an Instagram reel's audio, transcribe it with Whisper, and optionally score the transcript for buzz potential.",
		Annotations: &mcp.ToolAnnotations{ReadOnlyHint: true},
	}, func(ctx context.Context, _ *mcp.CallToolRequest, input reelTranscribeInput) (*mcp.CallToolResult, *reelTranscribeOutput, error) {
		if input.URL == "" {
			return nil, nil, errors.New("url is required")
		}
		shortcode, err := reels.ParseReelInput(input.URL)
		if err != nil {
			return nil, nil, err
		}

		cacheKey := engine.CacheKey("transcript", shortcode, input.Language)
		transcript, cached := engine.CacheLoadJSON[string](ctx, cacheKey)
		if !cached {
			audioPath, err := deps.Fetcher.DownloadAudio(ctx, shortcode)
			if err != nil {
				return nil, nil, err
			}
			transcript, err = deps.Transcriber.Transcribe(ctx, audioPath, input.Language)
			if err != nil {
				return nil, nil, err
			}
			engine.CacheStoreJSON(ctx, cacheKey, transcript)
		}

		out := &reelTranscribeOutput{Shortcode: shortcode, Transcript: transcript}
		if input.Analyze {
			report, err := engine.AnalyzeBuzz(ctx, engine.BuzzInput{
				Transcript: transcript,
				Language:   input.Language,
			})
			if err != nil {
				return nil, nil, err
			}
			out.Buzz = report
		}
		return nil, out, nil
	})
}
