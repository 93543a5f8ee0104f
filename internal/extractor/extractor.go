// Package extractor turns rendered HTML into structured pages.
package extractor

import (
	"bytes"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
	"golang.org/x/net/html/charset"

	"github.com/gcbaptista/go-site-index/model"
	"github.com/gcbaptista/go-site-index/services"
)

var whitespaceRe = regexp.MustCompile(`\s+`)

// boilerplateSelector lists elements that never contribute page text.
const boilerplateSelector = "script,noscript,style,template,svg,nav,footer,header"

// HTMLExtractor extracts title, description, text and metadata from an HTML document.
type HTMLExtractor struct{}

var _ services.Extractor = (*HTMLExtractor)(nil)

// New creates an extractor.
func New() *HTMLExtractor { return &HTMLExtractor{} }

// Extract parses markup. It returns nil, nil when the document has neither a title nor body text.
func (e *HTMLExtractor) Extract(markup string) (*model.StructuredPage, error) {
	if strings.TrimSpace(markup) == "" {
		return nil, nil
	}

	data := []byte(markup)
	enc, _, _ := charset.DetermineEncoding(data, "text/html")
	utf8data, err := enc.NewDecoder().Bytes(data)
	if err != nil {
		// fallback: if already utf-8, continue
		if !utf8.Valid(data) {
			return nil, err
		}
		utf8data = data
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(utf8data))
	if err != nil {
		return nil, err
	}

	meta := extractMetadata(doc)

	title := clean(doc.Find("title").First().Text())
	if title == "" {
		title = clean(doc.Find(`meta[property="og:title"]`).AttrOr("content", ""))
	}
	if title == "" {
		title = clean(doc.Find("h1").First().Text())
	}

	desc := clean(doc.Find(`meta[name="description"]`).AttrOr("content", ""))
	if desc == "" {
		desc = clean(doc.Find(`meta[property="og:description"]`).AttrOr("content", ""))
	}

	root := contentRoot(doc)
	root.Find(boilerplateSelector).Remove()
	text := textOf(root)

	if title == "" && text == "" {
		return nil, nil
	}

	rendered, err := goquery.OuterHtml(root)
	if err != nil {
		rendered = ""
	}

	return &model.StructuredPage{
		Title:       title,
		Description: desc,
		Content:     text,
		HTML:        rendered,
		Metadata:    meta,
	}, nil
}

// contentRoot picks the element holding the page's main content.
func contentRoot(doc *goquery.Document) *goquery.Selection {
	for _, selector := range []string{"main", "article", "body"} {
		if sel := doc.Find(selector).First(); sel.Length() > 0 {
			return sel
		}
	}
	return doc.Selection
}

func extractMetadata(doc *goquery.Document) *model.PageMetadata {
	meta := &model.PageMetadata{
		Author:        clean(doc.Find(`meta[name="author"]`).AttrOr("content", "")),
		Language:      strings.TrimSpace(doc.Find("html").AttrOr("lang", "")),
		Direction:     strings.TrimSpace(doc.Find("html").AttrOr("dir", "")),
		SiteName:      clean(doc.Find(`meta[property="og:site_name"]`).AttrOr("content", "")),
		PublishedTime: strings.TrimSpace(doc.Find(`meta[property="article:published_time"]`).AttrOr("content", "")),
		OpenGraph:     map[string]string{},
	}

	// OG tags
	doc.Find(`meta[property^="og:"]`).Each(func(i int, s *goquery.Selection) {
		prop, _ := s.Attr("property")
		content, _ := s.Attr("content")
		if prop != "" && content != "" {
			meta.OpenGraph[prop] = content
		}
	})
	if meta.Language == "" {
		meta.Language = meta.OpenGraph["og:locale"]
	}

	if kw := doc.Find(`meta[name="keywords"]`).AttrOr("content", ""); kw != "" {
		for _, k := range strings.Split(kw, ",") {
			if trim := strings.TrimSpace(k); trim != "" {
				meta.Keywords = append(meta.Keywords, trim)
			}
		}
	}

	doc.Find("h1,h2,h3").Each(func(i int, s *goquery.Selection) {
		if t := clean(s.Text()); t != "" {
			meta.Headings = append(meta.Headings, model.Heading{Level: headingLevel(goquery.NodeName(s)), Text: t})
		}
	})

	doc.Find("a[href]").Each(func(i int, s *goquery.Selection) {
		href := strings.TrimSpace(s.AttrOr("href", ""))
		link := model.Link{Href: href, Text: clean(s.Text())}
		switch {
		case href == "" || strings.HasPrefix(href, "#"),
			strings.HasPrefix(href, "mailto:"), strings.HasPrefix(href, "tel:"), strings.HasPrefix(href, "javascript:"):
		case strings.HasPrefix(href, "http://"), strings.HasPrefix(href, "https://"), strings.HasPrefix(href, "//"):
			meta.ExternalLinks = append(meta.ExternalLinks, link)
		default:
			meta.InternalLinks = append(meta.InternalLinks, link)
		}
	})

	doc.Find("img[src]").Each(func(i int, s *goquery.Selection) {
		meta.Images = append(meta.Images, model.Image{
			Src: strings.TrimSpace(s.AttrOr("src", "")),
			Alt: clean(s.AttrOr("alt", "")),
		})
	})

	return meta
}

func headingLevel(name string) int {
	switch name {
	case "h1":
		return 1
	case "h2":
		return 2
	default:
		return 3
	}
}

// textOf joins the text nodes under sel with single spaces, so adjacent blocks do not run together.
func textOf(sel *goquery.Selection) string {
	var parts []string
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			if t := strings.TrimSpace(n.Data); t != "" {
				parts = append(parts, t)
			}
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	for _, n := range sel.Nodes {
		walk(n)
	}
	return clean(strings.Join(parts, " "))
}

func clean(s string) string {
	return strings.TrimSpace(whitespaceRe.ReplaceAllString(s, " "))
}
