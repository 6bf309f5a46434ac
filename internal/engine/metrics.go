package engine

import (
	"fmt"
	"strings"
	"sync/atomic"
)

// Metrics tracks operational counters across the engine.
var metrics struct {
	BuzzRequests     atomic.Int64
	CaptionRequests  atomic.Int64
	ThreadsRequests  atomic.Int64
	ScriptRequests   atomic.Int64
	LLMCalls         atomic.Int64
	LLMErrors        atomic.Int64
	GeminiCalls      atomic.Int64
	GeminiErrors     atomic.Int64
	ClaudeCalls      atomic.Int64
	ClaudeErrors     atomic.Int64
	WhisperCalls     atomic.Int64
	WhisperErrors    atomic.Int64
	DownloadRequests atomic.Int64
	DownloadErrors   atomic.Int64
	PageFetches      atomic.Int64
	PageFetchErrors  atomic.Int64
	TrendRequests    atomic.Int64
}

// GetMetrics returns a snapshot of all metrics including cache stats.
func GetMetrics() map[string]int64 {
	hits, misses := CacheStats()
	return map[string]int64{
		"buzz_requests":     metrics.BuzzRequests.Load(),
		"caption_requests":  metrics.CaptionRequests.Load(),
		"threads_requests":  metrics.ThreadsRequests.Load(),
		"script_requests":   metrics.ScriptRequests.Load(),
		"llm_calls":         metrics.LLMCalls.Load(),
		"llm_errors":        metrics.LLMErrors.Load(),
		"gemini_calls":      metrics.GeminiCalls.Load(),
		"gemini_errors":     metrics.GeminiErrors.Load(),
		"claude_calls":      metrics.ClaudeCalls.Load(),
		"claude_errors":     metrics.ClaudeErrors.Load(),
		"whisper_calls":     metrics.WhisperCalls.Load(),
		"whisper_errors":    metrics.WhisperErrors.Load(),
		"download_requests": metrics.DownloadRequests.Load(),
		"download_errors":   metrics.DownloadErrors.Load(),
		"page_fetches":      metrics.PageFetches.Load(),
		"page_fetch_errors": metrics.PageFetchErrors.Load(),
		"trend_requests":    metrics.TrendRequests.Load(),
		"cache_hits":        hits,
		"cache_misses":      misses,
	}
}

// FormatMetrics returns metrics as a simple text format for the metrics endpoint.
func FormatMetrics() string {
	m := GetMetrics()
	var sb strings.Builder
	keys := []string{
		"buzz_requests", "caption_requests", "threads_requests", "script_requests",
		"llm_calls", "llm_errors",
		"gemini_calls", "gemini_errors",
		"claude_calls", "claude_errors",
		"whisper_calls", "whisper_errors",
		"download_requests", "download_errors",
		"page_fetches", "page_fetch_errors",
		"trend_requests",
		"cache_hits", "cache_misses",
	}
	for _, k := range keys {
		fmt.Fprintf(&sb, "%s %d\n", k, m[k])
	}
	return sb.String()
}

// Incrementors for the reels sub-package.
func IncrWhisperCalls()     { metrics.WhisperCalls.Add(1) }
func IncrWhisperErrors()    { metrics.WhisperErrors.Add(1) }
func IncrDownloadRequests() { metrics.DownloadRequests.Add(1) }
func IncrDownloadErrors()   { metrics.DownloadErrors.Add(1) }
func IncrPageFetches()      { metrics.PageFetches.Add(1) }
func IncrPageFetchErrors()  { metrics.PageFetchErrors.Add(1) }
