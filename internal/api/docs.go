package api

// routeDoc is the self-description a POST route returns on GET,
// echoing its exact request/response shape.
type routeDoc struct {
	Endpoint    string         `json:"endpoint"`
	Method      string         `json:"method"`
	Description string         `json:"description"`
	Request     map[string]any `json:"request"`
	Response    map[string]any `json:"response"`
}

var analyzeBuzzDoc = routeDoc{
	Endpoint:    "/api/analyze/buzz",
	Method:      "POST",
	Description: "Score a reel transcript for viral (buzz) potential, 0-100.",
	Request: map[string]any{
		"transcript":     "string (required)",
		"caption":        "string (optional) current caption",
		"hashtags":       "[]string (optional)",
		"topic":          "string (optional) used for trend context",
		"language":       "string (optional) language of the report",
		"include_trends": "bool (optional) pull live X context into scoring",
		"shortcode":      "string (optional) persist the score on this stored reel",
	},
	Response: map[string]any{
		"score":        "int 0-100",
		"verdict":      "low | moderate | high | viral",
		"hook":         "string",
		"strengths":    "[]string",
		"weaknesses":   "[]string",
		"improvements": "[]string",
		"summary":      "string",
	},
}

var generateCaptionDoc = routeDoc{
	Endpoint:    "/api/generate/caption",
	Method:      "POST",
	Description: "Generate an Instagram caption with hashtags from a transcript.",
	Request: map[string]any{
		"transcript":  "string (required)",
		"topic":       "string (optional)",
		"tone":        "string (optional) default: casual, energetic",
		"language":    "string (optional) default: language of the transcript",
		"template_id": "int (optional) stored template to follow",
		"shortcode":   "string (optional) link the result to this stored reel",
	},
	Response: map[string]any{
		"caption":  "string, max 2200 chars",
		"hashtags": "[]string, max 30",
	},
}

var generateThreadsDoc = routeDoc{
	Endpoint:    "/api/generate/threads",
	Method:      "POST",
	Description: "Convert a transcript into a Threads post chain.",
	Request: map[string]any{
		"transcript": "string (required)",
		"topic":      "string (optional)",
		"tone":       "string (optional)",
		"posts":      "int (optional) chain length, default 3, max 10",
		"language":   "string (optional)",
		"shortcode":  "string (optional) link the result to this stored reel",
	},
	Response: map[string]any{
		"posts": "[]string, each max 500 chars",
	},
}

var generateScriptDoc = routeDoc{
	Endpoint:    "/api/generate/script",
	Method:      "POST",
	Description: "Write a timed short-form video script (hook/body/cta).",
	Request: map[string]any{
		"topic":      "string (required unless transcript given)",
		"transcript": "string (optional) source reel to remix",
		"duration":   "int (optional) target seconds, default 30, max 180",
		"tone":       "string (optional)",
		"language":   "string (optional)",
	},
	Response: map[string]any{
		"title":    "string",
		"sections": `[{"start": 0, "end": 3, "label": "hook", "text": "...", "visual": "..."}]`,
		"cta":      "string",
	},
}

var reelDownloadDoc = routeDoc{
	Endpoint:    "/api/reels/download",
	Method:      "POST",
	Description: "Download a reel via yt-dlp and return its metadata and media paths.",
	Request: map[string]any{
		"url": "string (required) Instagram reel URL or bare shortcode",
	},
	Response: map[string]any{
		"shortcode": "string",
		"metadata":  "yt-dlp metadata (title, uploader, duration, counts, ...)",
		"media":     `{"video": "path", "audio": "path", "thumbnail": "path", "cached": false}`,
	},
}

var transcribeURLDoc = routeDoc{
	Endpoint:    "/api/reels/transcribe-url",
	Method:      "POST",
	Description: "Download a reel's audio, transcribe it with Whisper, and optionally score it.",
	Request: map[string]any{
		"url":      "string (required) Instagram reel URL or bare shortcode",
		"language": "string (optional) ISO 639-1 hint for Whisper",
		"analyze":  "bool (optional) also run buzz analysis on the transcript",
	},
	Response: map[string]any{
		"shortcode":  "string",
		"transcript": "string",
		"buzz":       "BuzzReport (present when analyze=true)",
	},
}
