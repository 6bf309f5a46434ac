package engine

import "testing"

func TestStripFences(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"plain", `{"a": 1}`, `{"a": 1}`},
		{"json fence", "```json\n{\"a\": 1}\n```", `{"a": 1}`},
		{"bare fence", "```\n{\"a\": 1}\n```", `{"a": 1}`},
		{"leading whitespace", "  \n```json\n{}\n```  ", "{}"},
		{"no closing fence", "```json\n{\"a\": 1}", `{"a": 1}`},
		{"empty", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := stripFences(tt.in); got != tt.want {
				t.Errorf("stripFences(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestExtractJSONField(t *testing.T) {
	tests := []struct {
		name  string
		raw   string
		field string
		want  string
	}{
		{
			name:  "valid json",
			raw:   `{"caption": "hello world"}`,
			field: "caption",
			want:  "hello world",
		},
		{
			name:  "escaped quotes",
			raw:   `{"caption": "she said \"wow\""}`,
			field: "caption",
			want:  `she said "wow"`,
		},
		{
			name:  "escaped newlines",
			raw:   `{"caption": "line1\nline2"}`,
			field: "caption",
			want:  "line1\nline2",
		},
		{
			name:  "missing field",
			raw:   `{"other": "x"}`,
			field: "caption",
			want:  "",
		},
		{
			name:  "unclosed string",
			raw:   `{"caption": "truncated by the model`,
			field: "caption",
			want:  "truncated by the model",
		},
		{
			name:  "whitespace around colon",
			raw:   `{  "caption"  :  "spaced"  }`,
			field: "caption",
			want:  "spaced",
		},
		{
			name:  "non-string value",
			raw:   `{"caption": 42}`,
			field: "caption",
			want:  "",
		},
		{
			name:  "empty input",
			raw:   "",
			field: "caption",
			want:  "",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ExtractJSONField(tt.raw, tt.field); got != tt.want {
				t.Errorf("ExtractJSONField() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestTruncate(t *testing.T) {
	if got := truncate("hello", 10); got != "hello" {
		t.Errorf("short string changed: %q", got)
	}
	if got := truncate("hello world", 5); got != "hello..." {
		t.Errorf("truncate = %q, want %q", got, "hello...")
	}
	if got := truncate("hello", 0); got != "hello" {
		t.Errorf("zero max should disable truncation, got %q", got)
	}
}
