package buzzserver

import (
	"context"
	"errors"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/reelpulse/reelpulse/internal/engine"
)

type generateCaptionInput struct {
	Transcript string `json:"transcript" jsonschema:"Reel transcript to caption"`
	Topic      string `json:"topic,omitempty" jsonschema:"Topic or niche"`
	Tone       string `json:"tone,omitempty" jsonschema:"Tone: casual, professional, playful (default: casual, energetic)"`
	Language   string `json:"language,omitempty" jsonschema:"Output language (default: language of the transcript)"`
	Template   string `json:"template,omitempty" jsonschema:"Optional caption template to follow"`
}

func registerGenerateCaption(server *mcp.Server) {
	mcp.AddTool(server, &mcp.Tool{
		Name:        "generate_caption",
		Description: "Generate an Instagram caption with hashtags from a reel transcript. Respects platform limits (2200 chars, 30 hashtags).",
		Annotations: &mcp.ToolAnnotations{ReadOnlyHint: true},
	}, func(ctx context.Context, _ *mcp.CallToolRequest, input generateCaptionInput) (*mcp.CallToolResult, *engine.CaptionOutput, error) {
		if input.Transcript == "" {
			return nil, nil, errors.New("transcript is required")
		}
		out, err := engine.GenerateCaption(ctx, engine.CaptionInput{
			Transcript: input.Transcript,
			Topic:      input.Topic,
			Tone:       input.Tone,
			Language:   input.Language,
			Template:   input.Template,
		})
		if err != nil {
			return nil, nil, err
		}
		return nil, out, nil
	})
}

type generateThreadsInput struct {
	Transcript string `json:"transcript" jsonschema:"Reel transcript to convert"`
	Topic      string `json:"topic,omitempty" jsonschema:"Topic or niche"`
	Tone       string `json:"tone,omitempty" jsonschema:"Tone of the posts"`
	Posts      int    `json:"posts,omitempty" jsonschema:"Chain length (default 3, max 10)"`
	Language   string `json:"language,omitempty" jsonschema:"Output language"`
}

func registerGenerateThreads(server *mcp.Server) {
	mcp.AddTool(server, &mcp.Tool{
		Name:        "generate_threads",
		Description: "Convert a reel transcript into a Threads post chain, each post under 500 characters.",
		Annotations: &mcp.ToolAnnotations{ReadOnlyHint: true},
	}, func(ctx context.Context, _ *mcp.CallToolRequest, input generateThreadsInput) (*mcp.CallToolResult, *engine.ThreadsOutput, error) {
		if input.Transcript == "" {
			return nil, nil, errors.New("transcript is required")
		}
		out, err := engine.GenerateThreads(ctx, engine.ThreadsInput{
			Transcript: input.Transcript,
			Topic:      input.Topic,
			Tone:       input.Tone,
			Posts:      input.Posts,
			Language:   input.Language,
		})
		if err != nil {
			return nil, nil, err
		}
		return nil, out, nil
	})
}

type generateScriptInput struct {
	Topic      string `json:"topic,omitempty" jsonschema:"Topic for the script (required unless transcript is given)"`
	Transcript string `json:"transcript,omitempty" jsonschema:"Source reel transcript to remix"`
	Duration   int    `json:"duration,omitempty" jsonschema:"Target length in seconds (default 30, max 180)"`
	Tone       string `json:"tone,omitempty" jsonschema:"Tone of the script"`
	Language   string `json:"language,omitempty" jsonschema:"Output language"`
}

func registerGenerateScript(server *mcp.Server) {
	mcp.AddTool(server, &mcp.Tool{
		Name:        "generate_script",
		Description: "Write a timed short-form video script (hook, body, CTA sections with visual directions) for a topic or as a remix of an existing reel.",
		Annotations: &mcp.ToolAnnotations{ReadOnlyHint: true},
	}, func(ctx context.Context, _ *mcp.CallToolRequest, input generateScriptInput) (*mcp.CallToolResult, *engine.ScriptOutput, error) {
		if input.Topic == "" && input.Transcript == "" {
			return nil, nil, errors.New("topic or transcript is required")
		}
		out, err := engine.GenerateScript(ctx, engine.ScriptInput{
			Topic:      input.Topic,
			Transcript: input.Transcript,
			Duration:   input.Duration,
			Tone:       input.Tone,
			Language:   input.Language,
		})
		if err != nil {
			return nil, nil, err
		}
		return nil, out, nil
	})
}
