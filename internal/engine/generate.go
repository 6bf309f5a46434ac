package engine

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
)

// GenerateCaption writes an Instagram caption with hashtags for a transcript.
func GenerateCaption(ctx context.Context, in CaptionInput) (*CaptionOutput, error) {
	if strings.TrimSpace(in.Transcript) == "" {
		return nil, fmt.Errorf("%w: transcript is required", ErrInvalidInput)
	}

	metrics.CaptionRequests.Add(1)

	templateSection := ""
	if in.Template != "" {
		templateSection = "Follow this structure template:\n" + truncate(in.Template, 1000) + "\n"
	}

	prompt := fmt.Sprintf(captionPrompt,
		normTone(in.Tone),
		langInstruction(in.Language),
		topicSection(in.Topic),
		templateSection,
		truncate(in.Transcript, cfg.MaxTranscriptChars),
	)

	raw, err := callLLMCreative(ctx, prompt)
	if err != nil {
		return nil, err
	}

	var out CaptionOutput
	if err := json.Unmarshal([]byte(raw), &out); err != nil {
		// Salvage the caption field; hashtags are lost but the caption is the payload.
		if caption := ExtractJSONField(raw, "caption"); caption != "" {
			out = CaptionOutput{Caption: caption}
		} else {
			out = CaptionOutput{Caption: raw}
		}
	}

	out.Caption = truncate(out.Caption, MaxCaptionChars)
	out.Hashtags = normalizeHashtags(out.Hashtags)
	return &out, nil
}

// GenerateThreads converts a transcript into a Threads post chain.
func GenerateThreads(ctx context.Context, in ThreadsInput) (*ThreadsOutput, error) {
	if strings.TrimSpace(in.Transcript) == "" {
		return nil, fmt.Errorf("%w: transcript is required", ErrInvalidInput)
	}

	metrics.ThreadsRequests.Add(1)

	posts := in.Posts
	if posts <= 0 {
		posts = DefaultThreadLen
	}
	if posts > MaxThreadsPosts {
		posts = MaxThreadsPosts
	}

	prompt := fmt.Sprintf(threadsPrompt,
		posts,
		normTone(in.Tone),
		langInstruction(in.Language),
		posts,
		topicSection(in.Topic),
		truncate(in.Transcript, cfg.MaxTranscriptChars),
	)

	raw, err := callLLMCreative(ctx, prompt)
	if err != nil {
		return nil, err
	}

	var out ThreadsOutput
	if err := json.Unmarshal([]byte(raw), &out); err != nil {
		// Some models return a bare JSON array.
		var bare []string
		if err2 := json.Unmarshal([]byte(raw), &bare); err2 == nil {
			out.Posts = bare
		} else {
			return nil, fmt.Errorf("threads: parse failed on %q: %w", truncate(raw, 200), err)
		}
	}

	if len(out.Posts) == 0 {
		return nil, fmt.Errorf("threads: model returned no posts")
	}
	if len(out.Posts) > MaxThreadsPosts {
		out.Posts = out.Posts[:MaxThreadsPosts]
	}
	for i := range out.Posts {
		out.Posts[i] = truncate(strings.TrimSpace(out.Posts[i]), MaxThreadsChars)
	}
	return &out, nil
}

// GenerateScript writes a timed short-form video script.
// Routed to Claude when configured, the default LLM client otherwise.
func GenerateScript(ctx context.Context, in ScriptInput) (*ScriptOutput, error) {
	if strings.TrimSpace(in.Topic) == "" && strings.TrimSpace(in.Transcript) == "" {
		return nil, fmt.Errorf("%w: topic or transcript is required", ErrInvalidInput)
	}

	metrics.ScriptRequests.Add(1)

	duration := in.Duration
	if duration <= 0 {
		duration = 30
	}
	if duration > 180 {
		duration = 180
	}

	topic := in.Topic
	if topic == "" {
		topic = firstWords(in.Transcript, 10)
	}

	sourceSection := ""
	if in.Transcript != "" {
		sourceSection = fmt.Sprintf(scriptSourceSection, truncate(in.Transcript, cfg.MaxTranscriptChars))
	}

	prompt := fmt.Sprintf(scriptPrompt,
		duration,
		topic,
		normTone(in.Tone),
		langInstruction(in.Language),
		sourceSection,
	)

	var raw string
	var err error
	if cfg.Claude != nil {
		raw, err = cfg.Claude.Complete(ctx, "", prompt)
	} else {
		raw, err = callLLMCreative(ctx, prompt)
	}
	if err != nil {
		return nil, err
	}

	var out ScriptOutput
	if err := json.Unmarshal([]byte(raw), &out); err != nil {
		return nil, fmt.Errorf("script: parse failed on %q: %w", truncate(raw, 200), err)
	}
	if len(out.Sections) == 0 {
		return nil, fmt.Errorf("script: model returned no sections")
	}
	out.Sections = fixSectionTimes(out.Sections, duration)
	return &out, nil
}

// normalizeHashtags trims # prefixes, drops empties and duplicates,
// and clamps to the Instagram limit.
func normalizeHashtags(tags []string) []string {
	seen := make(map[string]bool, len(tags))
	out := make([]string, 0, len(tags))
	for _, tag := range tags {
		tag = strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(tag), "#"))
		if tag == "" {
			continue
		}
		key := strings.ToLower(tag)
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, tag)
		if len(out) == MaxHashtags {
			break
		}
	}
	return out
}

// fixSectionTimes makes section times contiguous and bounded by duration.
// Models occasionally emit overlapping or out-of-range timecodes; sections
// that would start at or past the duration are dropped.
func fixSectionTimes(sections []ScriptSection, duration int) []ScriptSection {
	out := sections[:0]
	prev := 0
	for _, s := range sections {
		if prev >= duration {
			break
		}
		s.Start = prev
		if s.End <= s.Start {
			s.End = s.Start + 1
		}
		if s.End > duration {
			s.End = duration
		}
		prev = s.End
		out = append(out, s)
	}
	return out
}
