package reels

import (
	"context"
	"errors"
	"fmt"
	"strings"

	htmltomarkdown "github.com/JohannesKaufmann/html-to-markdown/v2"
	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"

	"github.com/reelpulse/reelpulse/internal/engine"
)

// PageMeta is reel metadata scraped from the embed page. Used when
// yt-dlp is unavailable or the caller only needs caption/author context.
type PageMeta struct {
	Shortcode    string `json:"shortcode"`
	Author       string `json:"author"`
	Caption      string `json:"caption"`
	ThumbnailURL string `json:"thumbnail_url"`
}

// FetchReelPage fetches the captioned embed page for a reel and extracts
// author, caption, and thumbnail. The embed endpoint renders without a
// login wall, but only for browser-fingerprinted clients.
func FetchReelPage(ctx context.Context, shortcode string) (*PageMeta, error) {
	bc := engine.Cfg.BrowserClient
	if bc == nil {
		return nil, errors.New("browser client not configured")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	engine.IncrPageFetches()

	embedURL := "https://www.instagram.com/p/" + shortcode + "/embed/captioned/"
	headers := engine.ChromeHeaders()
	headers["referer"] = "https://www.instagram.com/"

	body, status, err := bc.Do("GET", embedURL, headers, nil)
	if err != nil {
		engine.IncrPageFetchErrors()
		return nil, fmt.Errorf("reel page %s: %w", shortcode, err)
	}
	if status != 200 {
		engine.IncrPageFetchErrors()
		return nil, fmt.Errorf("reel page %s: status %d", shortcode, status)
	}

	meta, err := parseEmbedPage(body)
	if err != nil {
		engine.IncrPageFetchErrors()
		return nil, fmt.Errorf("reel page %s: %w", shortcode, err)
	}
	meta.Shortcode = shortcode
	return meta, nil
}

// parseEmbedPage extracts metadata from captioned-embed HTML.
func parseEmbedPage(body []byte) (*PageMeta, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(string(body)))
	if err != nil {
		return nil, fmt.Errorf("parse embed html: %w", err)
	}

	meta := &PageMeta{}

	meta.Author = strings.TrimSpace(doc.Find(".UsernameText").First().Text())
	if meta.Author == "" {
		meta.Author = strings.TrimSpace(doc.Find("a.Username span").First().Text())
	}

	if src, ok := doc.Find("img.EmbeddedMediaImage").First().Attr("src"); ok {
		meta.ThumbnailURL = src
	}

	caption := doc.Find(".Caption").First()
	if caption.Length() > 0 {
		// Strip the leading username link and the "View all N comments" footer.
		caption.Find("a.CaptionUsername, .CaptionComments").Remove()
		if inner, err := caption.Html(); err == nil {
			if md, err := htmltomarkdown.ConvertString(inner); err == nil {
				meta.Caption = strings.TrimSpace(md)
			}
		}
		if meta.Caption == "" {
			meta.Caption = strings.TrimSpace(caption.Text())
		}
	}
	if meta.Caption == "" {
		meta.Caption = captionFromRawNodes(body)
	}

	if meta.Author == "" && meta.Caption == "" {
		return nil, errors.New("no embed metadata found (login wall?)")
	}
	return meta, nil
}

// captionFromRawNodes walks the raw HTML tree collecting blockquote text.
// Last-resort path for embed markup variants goquery selectors miss.
func captionFromRawNodes(body []byte) string {
	root, err := html.Parse(strings.NewReader(string(body)))
	if err != nil {
		return ""
	}

	var sb strings.Builder
	var inBlockquote bool
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		entered := false
		if n.Type == html.ElementNode && n.Data == "blockquote" {
			inBlockquote = true
			entered = true
		}
		if n.Type == html.TextNode && inBlockquote {
			text := strings.TrimSpace(n.Data)
			if text != "" {
				if sb.Len() > 0 {
					sb.WriteByte(' ')
				}
				sb.WriteString(text)
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
		if entered {
			inBlockquote = false
		}
	}
	walk(root)
	return sb.String()
}
