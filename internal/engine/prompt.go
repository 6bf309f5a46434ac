package engine

// LLM prompt templates — data only, no logic.

// buzzPrompt scores a reel transcript for viral potential.
// Args: current date, language instruction, trend context section, transcript section.
const buzzPrompt = `You are a short-form video strategist analyzing an Instagram Reel for viral ("buzz") potential.

Current date: %s

Respond with valid JSON only (no markdown, no ` + "`" + `json` + "`" + ` block):
{
  "score": 0-100 integer,
  "verdict": "low" or "moderate" or "high" or "viral",
  "hook": "1-2 sentence analysis of the opening 3 seconds",
  "strengths": ["specific strength", "..."],
  "weaknesses": ["specific weakness", "..."],
  "improvements": ["concrete, actionable change", "..."],
  "summary": "2-3 sentence overall assessment"
}

Scoring rules (strict):
- 0-25 = weak: no hook, unclear topic, tiny audience
- 26-50 = average: watchable but forgettable, limited share triggers
- 51-75 = good: clear hook and payoff, broad audience appeal
- 76-90 = strong: scroll-stopping hook, emotional or practical share trigger
- 91-100 = exceptional and rare
Be realistic and strict. Do NOT give high scores to generic, derivative, or unclear content.

Rules:
- strengths/weaknesses/improvements: 2-4 items each, each a complete specific sentence
- improvements must be actionable edits, not platitudes
- Judge the hook against the first line of the transcript
- %s
- Do NOT invent details not present in the input

%s%s`

// trendContextSection formats live platform context for the buzz prompt.
// Args: topic, formatted tweet list.
const trendContextSection = `Current conversation on X about "%s" (use as context for timeliness scoring):
%s

`

// captionPrompt generates an Instagram caption with hashtags.
// Args: tone, language instruction, topic section, template section, transcript.
const captionPrompt = `You are a social media copywriter. Write an Instagram caption for a Reel with the transcript below.

Respond with valid JSON only (no markdown wrapping):
{
  "caption": "the caption text, with line breaks as \n",
  "hashtags": ["tag1", "tag2"]
}

Rules:
- Tone: %s
- First line must work as a hook (shown before the "more" fold)
- Caption under 2200 characters; 3-8 short paragraphs or lines
- End with a question or call-to-action that invites comments
- hashtags: 10-25 relevant tags, no # prefix, mix broad and niche
- Do NOT include hashtags inside the caption text
- %s
%s%s
Transcript:
%s`

// threadsPrompt generates a Threads post chain.
// Args: post count, tone, language instruction, post count again, topic section, transcript.
const threadsPrompt = `You are a social media copywriter. Convert the Reel transcript below into a Threads post chain of %d posts.

Respond with valid JSON only (no markdown wrapping):
{
  "posts": ["post 1 text", "post 2 text"]
}

Rules:
- Tone: %s
- Each post MUST be under 500 characters (Threads hard limit)
- Post 1 is the hook: a bold claim, question, or surprising fact
- Middle posts each carry ONE idea from the transcript
- Last post closes with a takeaway or question
- No hashtags, no numbered "1/n" prefixes
- %s
- Return exactly %d posts

%sTranscript:
%s`

// scriptPrompt generates a short-form video script with timecodes.
// Args: duration seconds, topic, tone, language instruction, source section.
const scriptPrompt = `You are a short-form video scriptwriter. Write a %d-second Reel script about: %s

Respond with valid JSON only (no markdown wrapping):
{
  "title": "working title",
  "sections": [
    {"start": 0, "end": 3, "label": "hook", "text": "spoken line", "visual": "what is on screen"},
    {"start": 3, "end": 20, "label": "body", "text": "...", "visual": "..."},
    {"start": 20, "end": 30, "label": "cta", "text": "...", "visual": "..."}
  ],
  "cta": "the closing call to action, one sentence"
}

Rules:
- Tone: %s
- The hook section covers seconds 0-3 and must interrupt scrolling
- Sections are contiguous: each start equals the previous end
- text is the exact spoken line, written for speech, not prose
- visual is a one-line shot direction
- %s
%sDo NOT invent statistics or facts.`

// scriptSourceSection injects a source transcript for remix-style scripts.
// Args: transcript.
const scriptSourceSection = `Base the script on this source transcript, keeping its core idea but restructuring for the target duration:
%s

`

// topicSection returns the topic line for generation prompts, or "" when
// no topic was given.
func topicSection(topic string) string {
	if topic == "" {
		return ""
	}
	return "Topic / niche: " + topic + "\n"
}

// langInstruction returns the language rule line for generation prompts.
func langInstruction(language string) string {
	if language == "" {
		return "Write in the SAME LANGUAGE as the transcript"
	}
	return "Write in " + language
}

// normTone returns the tone or a sensible default.
func normTone(tone string) string {
	if tone == "" {
		return "casual, energetic"
	}
	return tone
}
