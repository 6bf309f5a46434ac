package engine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
)

// TrendTweet is a raw tweet from an X trend lookup.
type TrendTweet struct {
	ID       string `json:"id"`
	AuthorID string `json:"author_id"`
	Text     string `json:"text"`
	URL      string `json:"url"`
	Likes    int    `json:"likes"`
	Retweets int    `json:"retweets"`
}

// SearchTrends searches X for recent posts about a topic.
// Used to give the buzz scorer live platform context.
func SearchTrends(ctx context.Context, topic string, limit int) ([]TrendTweet, error) {
	tw := cfg.TwitterClient
	if tw == nil {
		return nil, errors.New("twitter client not configured")
	}
	if limit <= 0 {
		limit = cfg.MaxTrendTweets
	}

	metrics.TrendRequests.Add(1)
	tweets, err := tw.SearchTimeline(ctx, topic, limit)
	if err != nil {
		return nil, fmt.Errorf("trend search: %w", err)
	}

	slog.Info("trend search", slog.Int("tweets", len(tweets)), slog.String("topic", topic))

	results := make([]TrendTweet, 0, len(tweets))
	for _, t := range tweets {
		results = append(results, TrendTweet{
			ID:       t.ID,
			AuthorID: t.AuthorID,
			Text:     t.Text,
			URL:      "https://x.com/i/status/" + t.ID,
			Likes:    t.Likes,
			Retweets: t.Retweets,
		})
	}
	return results, nil
}

// trendContext fetches trend tweets and formats them as a prompt section.
// Failures degrade to an empty section: trend context is best-effort.
func trendContext(ctx context.Context, topic string) string {
	if cfg.TwitterClient == nil || topic == "" {
		return ""
	}
	tweets, err := SearchTrends(ctx, topic, cfg.MaxTrendTweets)
	if err != nil || len(tweets) == 0 {
		if err != nil {
			slog.Warn("trend context unavailable", slog.Any("error", err))
		}
		return ""
	}

	var sb strings.Builder
	for i, t := range tweets {
		text := strings.ReplaceAll(strings.TrimSpace(t.Text), "\n", " ")
		fmt.Fprintf(&sb, "[%d] (%d likes, %d RT) %s\n", i+1, t.Likes, t.Retweets, truncate(text, 280))
	}
	return fmt.Sprintf(trendContextSection, topic, sb.String())
}
