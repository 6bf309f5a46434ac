package engine

import "errors"

// ErrInvalidInput marks request-shape failures. Server surfaces map it to 400.
var ErrInvalidInput = errors.New("invalid input")

// Instagram platform limits enforced on generated output.
const (
	MaxCaptionChars  = 2200
	MaxHashtags      = 30
	MaxThreadsChars  = 500
	MaxThreadsPosts  = 10
	DefaultThreadLen = 3
)

// BuzzInput is the input for buzz potential analysis.
type BuzzInput struct {
	Transcript string   `json:"transcript"`
	Caption    string   `json:"caption,omitempty"`
	Hashtags   []string `json:"hashtags,omitempty"`
	Topic      string   `json:"topic,omitempty"`
	Language   string   `json:"language,omitempty"`
	// IncludeTrends pulls live X/Twitter context into the scoring prompt.
	IncludeTrends bool `json:"include_trends,omitempty"`
}

// BuzzReport is the structured result of buzz analysis.
type BuzzReport struct {
	Score        int      `json:"score"` // 0-100
	Verdict      string   `json:"verdict"`
	Hook         string   `json:"hook"`
	Strengths    []string `json:"strengths"`
	Weaknesses   []string `json:"weaknesses"`
	Improvements []string `json:"improvements"`
	Summary      string   `json:"summary"`
	TrendNotes   string   `json:"trend_notes,omitempty"`
}

// CaptionInput is the input for Instagram caption generation.
type CaptionInput struct {
	Transcript string `json:"transcript"`
	Topic      string `json:"topic,omitempty"`
	Tone       string `json:"tone,omitempty"`     // casual, professional, playful...
	Language   string `json:"language,omitempty"` // default: language of the transcript
	Template   string `json:"template,omitempty"` // optional user template text
}

// CaptionOutput is a generated caption with hashtags.
type CaptionOutput struct {
	Caption  string   `json:"caption"`
	Hashtags []string `json:"hashtags"`
}

// ThreadsInput is the input for Threads post generation.
type ThreadsInput struct {
	Transcript string `json:"transcript"`
	Topic      string `json:"topic,omitempty"`
	Tone       string `json:"tone,omitempty"`
	Posts      int    `json:"posts,omitempty"` // chain length, default 3
	Language   string `json:"language,omitempty"`
}

// ThreadsOutput is a generated Threads post chain.
type ThreadsOutput struct {
	Posts []string `json:"posts"`
}

// ScriptInput is the input for short-form video script generation.
type ScriptInput struct {
	Transcript string `json:"transcript,omitempty"` // source reel, optional
	Topic      string `json:"topic"`
	Duration   int    `json:"duration,omitempty"` // target seconds, default 30
	Tone       string `json:"tone,omitempty"`
	Language   string `json:"language,omitempty"`
}

// ScriptSection is one timed section of a generated script.
type ScriptSection struct {
	Start  int    `json:"start"` // seconds
	End    int    `json:"end"`
	Label  string `json:"label"` // hook, body, cta
	Text   string `json:"text"`
	Visual string `json:"visual,omitempty"`
}

// ScriptOutput is a generated video script.
type ScriptOutput struct {
	Title    string          `json:"title"`
	Sections []ScriptSection `json:"sections"`
	CTA      string          `json:"cta"`
}
