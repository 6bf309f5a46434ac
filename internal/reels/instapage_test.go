package reels

import (
	"strings"
	"testing"
)

const embedFixture = `<!DOCTYPE html>
<html><body>
<div class="Embed">
  <a class="Username" href="/creator/"><span class="UsernameText">creator</span></a>
  <img class="EmbeddedMediaImage" src="https://cdn.example.com/thumb.jpg">
  <div class="Caption">
    <a class="CaptionUsername" href="/creator/">creator</a>
    Three editing tricks that <strong>doubled</strong> my views
    <div class="CaptionComments"><a href="#">View all 42 comments</a></div>
  </div>
</div>
</body></html>`

func TestParseEmbedPage(t *testing.T) {
	meta, err := parseEmbedPage([]byte(embedFixture))
	if err != nil {
		t.Fatal(err)
	}
	if meta.Author != "creator" {
		t.Errorf("Author = %q", meta.Author)
	}
	if meta.ThumbnailURL != "https://cdn.example.com/thumb.jpg" {
		t.Errorf("ThumbnailURL = %q", meta.ThumbnailURL)
	}
	if !strings.Contains(meta.Caption, "Three editing tricks") {
		t.Errorf("Caption = %q", meta.Caption)
	}
	if strings.Contains(meta.Caption, "View all") {
		t.Errorf("comments footer not stripped: %q", meta.Caption)
	}
	if strings.Contains(meta.Caption, "<strong>") {
		t.Errorf("caption still contains HTML: %q", meta.Caption)
	}
}

func TestParseEmbedPageBlockquoteFallback(t *testing.T) {
	fixture := `<html><body>
<span class="UsernameText">creator</span>
<blockquote>caption text lives here now</blockquote>
</body></html>`

	meta, err := parseEmbedPage([]byte(fixture))
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(meta.Caption, "caption text lives here now") {
		t.Errorf("Caption = %q", meta.Caption)
	}
}

func TestParseEmbedPageLoginWall(t *testing.T) {
	if _, err := parseEmbedPage([]byte(`<html><body><div class="LoginPrompt">Log in</div></body></html>`)); err == nil {
		t.Fatal("expected error for a page with no embed metadata")
	}
}

func TestCaptionFromRawNodes(t *testing.T) {
	body := []byte(`<html><body><blockquote><p>line one</p><p>line two</p></blockquote></body></html>`)
	got := captionFromRawNodes(body)
	if got != "line one line two" {
		t.Errorf("got %q", got)
	}
}
