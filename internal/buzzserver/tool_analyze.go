package buzzserver

import (
	"context"
	"errors"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/reelpulse/reelpulse/internal/engine"
)

type analyzeBuzzInput struct {
	Transcript    string   `json:"transcript" jsonschema:"Reel transcript or spoken text to score"`
	Caption       string   `json:"caption,omitempty" jsonschema:"Current caption, if any"`
	Hashtags      []string `json:"hashtags,omitempty" jsonschema:"Current hashtags, without #"`
	Topic         string   `json:"topic,omitempty" jsonschema:"Topic or niche, used for trend context"`
	Language      string   `json:"language,omitempty" jsonschema:"Language for the report (default: language of the transcript)"`
	IncludeTrends bool     `json:"include_trends,omitempty" jsonschema:"Pull live X/Twitter context into scoring"`
}

func registerAnalyzeBuzz(server *mcp.Server) {
	mcp.AddTool(server, &mcp.Tool{
		Name:        "analyze_buzz",
		Description: "Score an Instagram reel's viral (buzz) potential 0-100 from its transcript. Returns a verdict, the detected hook, strengths, weaknesses, and concrete improvements.",
		Annotations: &mcp.ToolAnnotations{ReadOnlyHint: true},
	}, func(ctx context.Context, _ *mcp.CallToolRequest, input analyzeBuzzInput) (*mcp.CallToolResult, *engine.BuzzReport, error) {
		if input.Transcript == "" {
			return nil, nil, errors.New("transcript is required")
		}

		cacheKey := engine.CacheKey("buzz", input.Transcript, input.Caption,
			strings.Join(input.Hashtags, ","), input.Topic, input.Language)
		if !input.IncludeTrends {
			if report, ok := engine.CacheLoadJSON[*engine.BuzzReport](ctx, cacheKey); ok {
				return nil, report, nil
			}
		}

		report, err := engine.AnalyzeBuzz(ctx, engine.BuzzInput{
			Transcript:    input.Transcript,
			Caption:       input.Caption,
			Hashtags:      input.Hashtags,
			Topic:         input.Topic,
			Language:      input.Language,
			IncludeTrends: input.IncludeTrends,
		})
		if err != nil {
			return nil, nil, err
		}
		if !input.IncludeTrends {
			engine.CacheStoreJSON(ctx, cacheKey, report)
		}
		return nil, report, nil
	})
}
