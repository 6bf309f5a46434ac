package engine

import (
	"context"
	"strings"
	"testing"

	"github.com/anatolykoptev/go-kit/llm"
)

type fakeChat struct {
	response string
	err      error
	prompts  []string
}

func (f *fakeChat) Complete(_ context.Context, _, prompt string, _ ...llm.ChatOption) (string, error) {
	f.prompts = append(f.prompts, prompt)
	return f.response, f.err
}

type fakeScorer struct {
	response string
	err      error
}

func (f *fakeScorer) ScoreJSON(_ context.Context, _ string) (string, error) {
	return f.response, f.err
}

func TestParseBuzzReport(t *testing.T) {
	tests := []struct {
		name        string
		raw         string
		wantScore   int
		wantVerdict string
	}{
		{
			name:        "valid json",
			raw:         `{"score": 82, "verdict": "viral", "hook": "strong opener", "summary": "great"}`,
			wantScore:   82,
			wantVerdict: "viral",
		},
		{
			name:        "verdict filled from score",
			raw:         `{"score": 40, "summary": "ok"}`,
			wantScore:   40,
			wantVerdict: "moderate",
		},
		{
			name:        "score over 100 clamped",
			raw:         `{"score": 150}`,
			wantScore:   100,
			wantVerdict: "viral",
		},
		{
			name:        "malformed json salvages score",
			raw:         `{"score": 67, "summary": "has an unescaped "quote" inside"}`,
			wantScore:   67,
			wantVerdict: "high",
		},
		{
			name:        "garbage becomes low with raw summary",
			raw:         "I could not produce JSON today",
			wantScore:   0,
			wantVerdict: "low",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := parseBuzzReport(tt.raw)
			if got.Score != tt.wantScore {
				t.Errorf("Score = %d, want %d", got.Score, tt.wantScore)
			}
			if got.Verdict != tt.wantVerdict {
				t.Errorf("Verdict = %q, want %q", got.Verdict, tt.wantVerdict)
			}
		})
	}
}

func TestVerdictForScore(t *testing.T) {
	tests := []struct {
		score int
		want  string
	}{
		{0, "low"},
		{25, "low"},
		{26, "moderate"},
		{50, "moderate"},
		{51, "high"},
		{75, "high"},
		{76, "viral"},
		{100, "viral"},
	}
	for _, tt := range tests {
		if got := verdictForScore(tt.score); got != tt.want {
			t.Errorf("verdictForScore(%d) = %q, want %q", tt.score, got, tt.want)
		}
	}
}

func TestExtractScore(t *testing.T) {
	tests := []struct {
		raw  string
		want string
	}{
		{`{"score": 87}`, "87"},
		{`{"score":42,`, "42"},
		{`{"score": "19"}`, "19"},
		{`{"points": 5}`, ""},
	}
	for _, tt := range tests {
		if got := extractScore(tt.raw); got != tt.want {
			t.Errorf("extractScore(%q) = %q, want %q", tt.raw, got, tt.want)
		}
	}
}

func TestFirstWords(t *testing.T) {
	if got := firstWords("one two three four", 2); got != "one two" {
		t.Errorf("firstWords = %q", got)
	}
	if got := firstWords("one", 5); got != "one" {
		t.Errorf("firstWords = %q", got)
	}
}

func TestAnalyzeBuzzEmptyTranscript(t *testing.T) {
	Init(Config{LLMClient: &fakeChat{}})

	_, err := AnalyzeBuzz(context.Background(), BuzzInput{Transcript: "   "})
	if err == nil {
		t.Fatal("expected error for empty transcript")
	}
	if !strings.Contains(err.Error(), "transcript") {
		t.Errorf("error should mention transcript: %v", err)
	}
}

func TestAnalyzeBuzzViaChatClient(t *testing.T) {
	chat := &fakeChat{response: `{"score": 72, "verdict": "high", "hook": "pattern interrupt", "summary": "solid"}`}
	Init(Config{LLMClient: chat})

	report, err := AnalyzeBuzz(context.Background(), BuzzInput{Transcript: "stop scrolling, this changes everything"})
	if err != nil {
		t.Fatal(err)
	}
	if report.Score != 72 || report.Verdict != "high" {
		t.Errorf("report = %+v", report)
	}
	if len(chat.prompts) != 1 {
		t.Fatalf("expected 1 LLM call, got %d", len(chat.prompts))
	}
	if !strings.Contains(chat.prompts[0], "stop scrolling") {
		t.Error("prompt should contain the transcript")
	}
}

func TestAnalyzeBuzzPrefersScorer(t *testing.T) {
	chat := &fakeChat{response: `{"score": 1}`}
	Init(Config{
		LLMClient: chat,
		Scorer:    &fakeScorer{response: `{"score": 90, "verdict": "viral", "summary": "schema path"}`},
	})

	report, err := AnalyzeBuzz(context.Background(), BuzzInput{Transcript: "some transcript"})
	if err != nil {
		t.Fatal(err)
	}
	if report.Score != 90 {
		t.Errorf("Score = %d, want 90 from the structured scorer", report.Score)
	}
	if len(chat.prompts) != 0 {
		t.Error("chat client should not be called when a scorer is configured")
	}
}

func TestAnalyzeBuzzLanguageInPrompt(t *testing.T) {
	chat := &fakeChat{response: `{"score": 50}`}
	Init(Config{LLMClient: chat})

	_, err := AnalyzeBuzz(context.Background(), BuzzInput{
		Transcript: "cinco consejos para crecer",
		Language:   "Spanish",
	})
	if err != nil {
		t.Fatal(err)
	}
	if len(chat.prompts) != 1 {
		t.Fatalf("expected 1 LLM call, got %d", len(chat.prompts))
	}
	if !strings.Contains(chat.prompts[0], "Write in Spanish") {
		t.Error("prompt should carry the requested report language")
	}
}

func TestBuzzTopic(t *testing.T) {
	tests := []struct {
		name string
		in   BuzzInput
		want string
	}{
		{
			name: "explicit topic wins",
			in:   BuzzInput{Transcript: "some long transcript here", Topic: "gym motivation"},
			want: "gym motivation",
		},
		{
			name: "falls back to transcript opening",
			in:   BuzzInput{Transcript: "three mistakes every new runner makes when training"},
			want: "three mistakes every new runner makes",
		},
		{
			name: "whitespace topic is no topic",
			in:   BuzzInput{Transcript: "short clip", Topic: "   "},
			want: "short clip",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := buzzTopic(tt.in); got != tt.want {
				t.Errorf("buzzTopic = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestBuzzInputSection(t *testing.T) {
	Init(Config{})

	got := buzzInputSection(BuzzInput{
		Transcript: "hello there",
		Caption:    "my caption",
		Hashtags:   []string{"go", "reels"},
	})
	for _, want := range []string{"hello there", "my caption", "go reels"} {
		if !strings.Contains(got, want) {
			t.Errorf("section missing %q:\n%s", want, got)
		}
	}
}
