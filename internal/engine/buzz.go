package engine

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// AnalyzeBuzz scores a reel transcript for viral potential.
// Uses the Gemini structured scorer when configured, the default LLM
// client otherwise. Trend context from X is pulled in on request.
func AnalyzeBuzz(ctx context.Context, in BuzzInput) (*BuzzReport, error) {
	if strings.TrimSpace(in.Transcript) == "" {
		return nil, fmt.Errorf("%w: transcript is required", ErrInvalidInput)
	}

	metrics.BuzzRequests.Add(1)

	topic := buzzTopic(in)

	trends := ""
	if in.IncludeTrends {
		trends = trendContext(ctx, topic)
	}

	prompt := fmt.Sprintf(buzzPrompt, currentDate(), langInstruction(in.Language), trends, buzzInputSection(in))

	var raw string
	var err error
	if cfg.Scorer != nil {
		raw, err = cfg.Scorer.ScoreJSON(ctx, prompt)
	} else {
		raw, err = CallLLM(ctx, prompt)
	}
	if err != nil {
		return nil, err
	}

	report := parseBuzzReport(raw)
	if trends != "" {
		report.TrendNotes = "scored with live X context for topic: " + topic
	}
	return report, nil
}

// buzzTopic returns the requested topic, falling back to the transcript
// opening. Trend search and trend notes both use this value.
func buzzTopic(in BuzzInput) string {
	if t := strings.TrimSpace(in.Topic); t != "" {
		return t
	}
	return firstWords(in.Transcript, 6)
}

// buzzInputSection formats the transcript and optional caption/hashtags.
func buzzInputSection(in BuzzInput) string {
	var sb strings.Builder
	transcript := truncate(in.Transcript, cfg.MaxTranscriptChars)
	fmt.Fprintf(&sb, "Transcript:\n%s\n", transcript)
	if in.Caption != "" {
		fmt.Fprintf(&sb, "\nCurrent caption:\n%s\n", truncate(in.Caption, MaxCaptionChars))
	}
	if len(in.Hashtags) > 0 {
		fmt.Fprintf(&sb, "\nCurrent hashtags: %s\n", strings.Join(in.Hashtags, " "))
	}
	return sb.String()
}

// parseBuzzReport decodes model output, salvaging what it can from
// malformed JSON. Never returns an error: a salvageable response beats a 500.
func parseBuzzReport(raw string) *BuzzReport {
	var report BuzzReport
	if err := json.Unmarshal([]byte(raw), &report); err != nil {
		report = BuzzReport{
			Summary: ExtractJSONField(raw, "summary"),
			Hook:    ExtractJSONField(raw, "hook"),
			Verdict: ExtractJSONField(raw, "verdict"),
		}
		if s := extractScore(raw); s != "" {
			if n, err := strconv.Atoi(s); err == nil {
				report.Score = n
			}
		}
		if report.Summary == "" {
			report.Summary = truncate(raw, 600)
		}
	}

	report.Score = clampScore(report.Score)
	if report.Verdict == "" {
		report.Verdict = verdictForScore(report.Score)
	}
	return &report
}

var scoreRE = regexp.MustCompile(`"score"\s*:\s*"?(\d+)`)

// extractScore pulls the score out of malformed JSON, quoted or bare.
func extractScore(raw string) string {
	if m := scoreRE.FindStringSubmatch(raw); m != nil {
		return m[1]
	}
	return ""
}

// clampScore bounds a model-produced score to [0,100].
func clampScore(n int) int {
	if n < 0 {
		return 0
	}
	if n > 100 {
		return 100
	}
	return n
}

// verdictForScore maps a score to its band, mirroring the prompt rubric.
func verdictForScore(score int) string {
	switch {
	case score <= 25:
		return "low"
	case score <= 50:
		return "moderate"
	case score <= 75:
		return "high"
	default:
		return "viral"
	}
}

// firstWords returns the first n whitespace-separated words of s.
func firstWords(s string, n int) string {
	fields := strings.Fields(s)
	if len(fields) > n {
		fields = fields[:n]
	}
	return strings.Join(fields, " ")
}
