// reelpulse — Instagram Reels analysis and content generation service.
//
// Downloads reels via yt-dlp, transcribes them with Whisper, scores buzz
// potential with LLMs, and generates captions, Threads chains, and video
// scripts. Serves a REST API and, when MCP_PORT is set, the same engine
// as MCP tools.
package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/anatolykoptev/go-kit/env"
	"github.com/anatolykoptev/go-kit/llm"
	"github.com/anatolykoptev/go-mcpserver"
	twitter "github.com/anatolykoptev/go-twitter"
	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/reelpulse/reelpulse/internal/api"
	"github.com/reelpulse/reelpulse/internal/buzzserver"
	"github.com/reelpulse/reelpulse/internal/engine"
	"github.com/reelpulse/reelpulse/internal/reels"
	"github.com/reelpulse/reelpulse/internal/store"
)

var (
	version  = "dev"
	httpAddr = env.Str("HTTP_ADDR", ":8787")
	mcpPort  = env.Str("MCP_PORT", "")
	dataDir  = env.Str("DATA_DIR", "./data")
)

func main() {
	initEngine()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	slog.Info("starting reelpulse",
		slog.String("version", version),
		slog.String("http_addr", httpAddr),
	)

	var db *store.Store
	if dsn := env.Str("DATABASE_URL", ""); dsn != "" {
		var err error
		db, err = store.Connect(ctx, dsn)
		if err != nil {
			slog.Warn("database init failed, running stateless", slog.Any("error", err))
		} else {
			defer db.Close()
			slog.Info("database ready")
		}
	}

	downloader, transcriber := initReels()

	srvOpts := []api.Option{
		api.WithStore(db),
		api.WithFetcher(downloader),
		api.WithRateLimit(env.Float("API_RATE_LIMIT", 5)),
	}
	if transcriber != nil {
		srvOpts = append(srvOpts, api.WithTranscriber(transcriber))
	}
	srv := api.NewServer(srvOpts...)

	if mcpPort != "" {
		go runMCP(downloader, transcriber)
	}

	if err := srv.ListenAndServe(ctx, httpAddr); err != nil && err != http.ErrServerClosed {
		slog.Error("server failed", slog.Any("error", err))
		os.Exit(1)
	}
}

func runMCP(downloader *reels.Downloader, transcriber *reels.WhisperClient) {
	server := mcp.NewServer(&mcp.Implementation{
		Name:    "reelpulse",
		Version: version,
	}, nil)

	deps := buzzserver.Deps{}
	if downloader != nil {
		deps.Fetcher = downloader
	}
	if transcriber != nil {
		deps.Transcriber = transcriber
	}
	buzzserver.RegisterTools(server, deps)

	if err := mcpserver.Run(server, mcpserver.Config{
		Name:         "reelpulse",
		Version:      version,
		Port:         mcpPort,
		WriteTimeout: 600 * time.Second,
		Metrics:      engine.FormatMetrics,
	}); err != nil {
		slog.Error("mcp server failed", slog.Any("error", err))
	}
}

func initEngine() {
	c := engine.Config{
		LLMAPIKey:          env.Str("LLM_API_KEY", ""),
		LLMAPIKeyFallbacks: env.List("LLM_API_KEY_FALLBACKS", ""),
		LLMAPIBase:         env.Str("LLM_API_BASE", "https://generativelanguage.googleapis.com/v1beta/openai"),
		LLMModel:           env.Str("LLM_MODEL", "gemini-2.5-flash"),
		LLMTemperature:     env.Float("LLM_TEMPERATURE", 0.3),
		LLMMaxTokens:       env.Int("LLM_MAX_TOKENS", 8192),

		GeminiAPIKey:  env.Str("GEMINI_API_KEY", ""),
		GeminiModel:   env.Str("GEMINI_MODEL", "gemini-2.5-flash"),
		ClaudeAPIKey:  env.Str("CLAUDE_API_KEY", ""),
		ClaudeModel:   env.Str("CLAUDE_MODEL", "claude-sonnet-4-20250514"),
		ClaudeAPIBase: env.Str("CLAUDE_API_BASE", ""),

		MaxTranscriptChars:   env.Int("MAX_TRANSCRIPT_CHARS", 12000),
		MaxTrendTweets:       env.Int("MAX_TREND_TWEETS", 10),
		FetchTimeout:         env.Duration("FETCH_TIMEOUT", 15*time.Second),
		CacheMaxEntries:      env.Int("CACHE_MAX_ENTRIES", 1000),
		CacheCleanupInterval: env.Duration("CACHE_CLEANUP_INTERVAL", 300*time.Second),
		LLMRateLimit:         env.Float("LLM_RATE_LIMIT", 2),

		HTTPClient: &http.Client{
			Timeout: 15 * time.Second,
			Transport: &http.Transport{
				MaxIdleConns:        20,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     60 * time.Second,
			},
		},
	}

	c.LLMClient = llm.NewClient(c.LLMAPIBase, c.LLMAPIKey, c.LLMModel,
		llm.WithFallbackKeys(c.LLMAPIKeyFallbacks),
		llm.WithMaxTokens(c.LLMMaxTokens),
		llm.WithTemperature(c.LLMTemperature),
		llm.WithHTTPClient(&http.Client{Timeout: 60 * time.Second}),
	)

	if c.GeminiAPIKey != "" {
		scorer, err := engine.NewGeminiClient(context.Background(), c.GeminiAPIKey, c.GeminiModel)
		if err != nil {
			slog.Warn("gemini client init failed, scoring via chat LLM", slog.Any("error", err))
		} else {
			c.Scorer = scorer
			slog.Info("gemini structured scorer ready", slog.String("model", c.GeminiModel))
		}
	}

	if c.ClaudeAPIKey != "" {
		c.Claude = engine.NewClaudeClient(c.ClaudeAPIBase, c.ClaudeAPIKey, c.ClaudeModel)
		slog.Info("claude client ready", slog.String("model", c.ClaudeModel))
	}

	bc, err := engine.NewBrowserClient()
	if err != nil {
		slog.Warn("browser client init failed, page fallback disabled", slog.Any("error", err))
	} else {
		c.BrowserClient = bc
	}

	// Twitter client (optional — guest mode if no accounts configured)
	if env.Str("TWITTER_TRENDS", "1") != "0" {
		accounts := twitter.ParseAccounts(env.Str("TWITTER_ACCOUNTS", ""))
		openCount := 2
		if len(accounts) > 0 {
			openCount = 0
		}
		tw, err := twitter.NewClient(twitter.ClientConfig{
			Accounts:         accounts,
			OpenAccountCount: openCount,
		})
		if err != nil {
			slog.Warn("twitter client init failed, trend context disabled", slog.Any("error", err))
		} else {
			c.TwitterClient = tw
			slog.Info("twitter client ready", slog.Int("pool_size", tw.Pool().Size()))
		}
	}

	engine.Init(c)
	engine.InitCache(env.Str("REDIS_URL", ""), env.Duration("CACHE_TTL", 15*time.Minute), c.CacheMaxEntries, c.CacheCleanupInterval)
}

func initReels() (*reels.Downloader, *reels.WhisperClient) {
	var opts []reels.DownloaderOption
	if cookies := env.Str("IG_COOKIES_FILE", ""); cookies != "" {
		opts = append(opts, reels.WithCookiesFile(cookies))
	}
	ledger, err := reels.OpenLedger(env.Str("LEDGER_PATH", dataDir+"/downloads.db"))
	if err != nil {
		slog.Warn("download ledger init failed, dedupe disabled", slog.Any("error", err))
	} else {
		opts = append(opts, reels.WithLedger(ledger))
	}
	downloader := reels.NewDownloader(env.Str("YTDLP_BIN", "yt-dlp"), dataDir, opts...)

	var transcriber *reels.WhisperClient
	if key := env.Str("WHISPER_API_KEY", env.Str("OPENAI_API_KEY", "")); key != "" {
		transcriber = reels.NewWhisperClient(env.Str("WHISPER_API_BASE", ""), key, env.Str("WHISPER_MODEL", "whisper-1"))
		slog.Info("whisper transcriber ready")
	} else {
		slog.Warn("no Whisper API key, transcription disabled")
	}

	return downloader, transcriber
}
