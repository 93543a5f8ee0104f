package model

// PageSource records where a candidate page was discovered.
type PageSource string

const (
	// SourcePrerender marks candidates produced from prerender route descriptors.
	SourcePrerender PageSource = "prerender"
	// SourceFile marks candidates found by scanning a build output directory.
	SourceFile PageSource = "file"
)

// PageCandidate is a discovered page that has not been filtered or indexed yet.
// Path is the canonical URL pathname and the deduplication key.
// Content holds inline markup; when empty the markup is read from FilePath.
type PageCandidate struct {
	Path     string     `json:"path"`
	Content  string     `json:"content,omitempty"`
	FilePath string     `json:"file_path,omitempty"`
	Source   PageSource `json:"source"`
}

// HasInlineContent reports whether the candidate carries its markup in memory.
func (c PageCandidate) HasInlineContent() bool {
	return c.Content != ""
}

// StructuredPage is the normalized content produced by an Extractor.
// Only Title, Description and Content take part in indexing; the rest is enrichment.
type StructuredPage struct {
	Title       string        `json:"title"`
	Description string        `json:"description"`
	Content     string        `json:"content"`
	HTML        string        `json:"html,omitempty"`
	Metadata    *PageMetadata `json:"metadata,omitempty"`
}

// PageMetadata is optional enrichment extracted from the markup.
type PageMetadata struct {
	Author        string            `json:"author,omitempty"`
	Language      string            `json:"language,omitempty"`
	Direction     string            `json:"direction,omitempty"`
	SiteName      string            `json:"site_name,omitempty"`
	PublishedTime string            `json:"published_time,omitempty"`
	OpenGraph     map[string]string `json:"open_graph,omitempty"`
	Keywords      []string          `json:"keywords,omitempty"`
	Headings      []Heading         `json:"headings,omitempty"`
	InternalLinks []Link            `json:"internal_links,omitempty"`
	ExternalLinks []Link            `json:"external_links,omitempty"`
	Images        []Image           `json:"images,omitempty"`
}

// Heading is a section heading found in the page.
type Heading struct {
	Level int    `json:"level"`
	Text  string `json:"text"`
}

// Link is an anchor found in the page.
type Link struct {
	Href string `json:"href"`
	Text string `json:"text,omitempty"`
}

// Image is an <img> element found in the page.
type Image struct {
	Src string `json:"src"`
	Alt string `json:"alt,omitempty"`
}
