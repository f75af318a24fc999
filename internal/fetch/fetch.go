// Package fetch retrieves a web page and extracts its readable text.
package fetch

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
	"unicode"

	"github.com/go-resty/resty/v2"
	"golang.org/x/net/html"
)

// MaxTextRunes caps the extracted text so a large page does not dominate the
// analyzed subject.
const MaxTextRunes = 5000

// Subtrees dropped entirely.
var skipTags = map[string]bool{
	"script":   true,
	"style":    true,
	"noscript": true,
	"iframe":   true,
	"svg":      true,
	"canvas":   true,
	"nav":      true,
	"footer":   true,
	"header":   true,
	"form":     true,
}

var blockTags = map[string]bool{
	"p": true, "h1": true, "h2": true, "h3": true, "h4": true, "h5": true, "h6": true,
	"div": true, "section": true, "article": true, "main": true,
	"blockquote": true, "li": true, "tr": true, "br": true, "figcaption": true,
}

// Fetcher downloads pages over HTTP.
type Fetcher struct {
	http     *resty.Client
	maxBytes int64
}

// New creates a fetcher. maxBytes <= 0 leaves the body size unbounded.
func New(timeout time.Duration, maxBytes int64) *Fetcher {
	client := resty.New().
		SetTimeout(timeout).
		SetRedirectPolicy(resty.FlexibleRedirectPolicy(5)).
		SetHeader("User-Agent", "Mozilla/5.0 (compatible; TruthLens/1.0)").
		SetHeader("Accept", "text/html,application/xhtml+xml;q=0.9,*/*;q=0.8")

	return &Fetcher{http: client, maxBytes: maxBytes}
}

// FetchText downloads url and returns the visible text of the page.
func (f *Fetcher) FetchText(ctx context.Context, url string) (string, error) {
	resp, err := f.http.R().
		SetContext(ctx).
		SetDoNotParseResponse(true).
		Get(url)
	if err != nil {
		return "", fmt.Errorf("failed to fetch %s: %w", url, err)
	}
	body := resp.RawBody()
	defer body.Close()

	if resp.StatusCode() != http.StatusOK {
		return "", fmt.Errorf("failed to fetch %s: status %d", url, resp.StatusCode())
	}

	var r io.Reader = body
	if f.maxBytes > 0 {
		r = io.LimitReader(body, f.maxBytes)
	}
	var buf bytes.Buffer
	if _, err := buf.ReadFrom(r); err != nil {
		return "", fmt.Errorf("failed to read %s: %w", url, err)
	}

	text, err := ExtractText(buf.String())
	if err != nil {
		return "", err
	}
	if text == "" {
		return "", fmt.Errorf("no text content found at %s", url)
	}
	return text, nil
}

// ExtractText parses an HTML document and returns its readable text with
// whitespace collapsed. The <article> or <main> element is preferred when
// present.
func ExtractText(document string) (string, error) {
	doc, err := html.Parse(strings.NewReader(document))
	if err != nil {
		return "", fmt.Errorf("failed to parse HTML: %w", err)
	}

	root := findFirst(doc, "article")
	if root == nil {
		root = findFirst(doc, "main")
	}
	if root == nil {
		root = doc
	}

	var sb strings.Builder
	collect(root, &sb)

	lines := strings.Split(sb.String(), "\n")
	kept := lines[:0]
	for _, line := range lines {
		line = strings.Join(strings.Fields(line), " ")
		if line != "" {
			kept = append(kept, line)
		}
	}
	return truncateRunes(strings.Join(kept, "\n"), MaxTextRunes), nil
}

func findFirst(n *html.Node, tag string) *html.Node {
	if n.Type == html.ElementNode && n.Data == tag {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found := findFirst(c, tag); found != nil {
			return found
		}
	}
	return nil
}

func collect(n *html.Node, sb *strings.Builder) {
	switch n.Type {
	case html.TextNode:
		// Line breaks come only from block elements.
		sb.WriteString(strings.Map(func(r rune) rune {
			if unicode.IsSpace(r) {
				return ' '
			}
			return r
		}, n.Data))
		return
	case html.ElementNode:
		if skipTags[n.Data] {
			return
		}
		for _, a := range n.Attr {
			if a.Key == "aria-hidden" && a.Val == "true" {
				return
			}
		}
	}

	for c := n.FirstChild; c != nil; c = c.NextSibling {
		collect(c, sb)
	}

	if n.Type == html.ElementNode && blockTags[n.Data] {
		sb.WriteByte('\n')
	}
}

func truncateRunes(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}
