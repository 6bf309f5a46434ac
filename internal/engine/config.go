package engine

import (
	"context"
	"net/http"
	"time"

	"github.com/anatolykoptev/go-kit/llm"
	twitter "github.com/anatolykoptev/go-twitter"
	"golang.org/x/time/rate"
)

// ChatClient is the subset of go-kit/llm.Client the engine needs.
// Tests substitute a fake.
type ChatClient interface {
	Complete(ctx context.Context, system, prompt string, opts ...llm.ChatOption) (string, error)
}

// StructuredScorer produces schema-constrained JSON for a prompt.
// Implemented by GeminiClient; tests substitute a fake.
type StructuredScorer interface {
	ScoreJSON(ctx context.Context, prompt string) (string, error)
}

// Config holds all engine configuration, injected from main.
type Config struct {
	LLMAPIKey          string
	LLMAPIKeyFallbacks []string

	LLMAPIBase     string
	LLMModel       string
	LLMTemperature float64
	LLMMaxTokens   int

	GeminiAPIKey  string
	GeminiModel   string
	ClaudeAPIKey  string
	ClaudeModel   string
	ClaudeAPIBase string

	MaxTranscriptChars int
	MaxTrendTweets     int
	FetchTimeout       time.Duration

	CacheMaxEntries      int
	CacheCleanupInterval time.Duration

	// Outbound model-call budget, requests per second. Zero disables limiting.
	LLMRateLimit float64

	HTTPClient    *http.Client
	LLMClient     ChatClient
	Scorer        StructuredScorer
	Claude        *ClaudeClient   // nil = script generation falls back to LLMClient
	BrowserClient *BrowserClient  // nil = Instagram page fetch disabled
	TwitterClient *twitter.Client // nil = trend context disabled
}

var cfg Config

// Cfg exposes the engine configuration for sub-packages.
// Always points to the current cfg value.
var Cfg = &cfg

var llmLimiter *rate.Limiter

// Init initializes the engine with the given configuration.
func Init(c Config) {
	if c.MaxTranscriptChars <= 0 {
		c.MaxTranscriptChars = 12000
	}
	if c.MaxTrendTweets <= 0 {
		c.MaxTrendTweets = 10
	}
	cfg = c
	Cfg = &cfg

	llmLimiter = nil
	if c.LLMRateLimit > 0 {
		llmLimiter = rate.NewLimiter(rate.Limit(c.LLMRateLimit), 1)
	}
}

// waitLLMBudget blocks until the outbound model-call limiter allows a request.
func waitLLMBudget(ctx context.Context) error {
	if llmLimiter == nil {
		return nil
	}
	return llmLimiter.Wait(ctx)
}
