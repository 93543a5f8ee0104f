package model

import "strings"

// Field names of an IndexedDocument that can be searched.
const (
	FieldTitle       = "title"
	FieldDescription = "description"
	FieldContent     = "content"
	FieldAuthor      = "author"
	FieldKeywords    = "keywords"
)

// IndexedDocument is the record stored and returned by the search engine.
// ID always equals Path.
type IndexedDocument struct {
	ID      string          `json:"id"`
	Path    string          `json:"path"`
	Content DocumentContent `json:"content"`
}

// DocumentContent is the indexable subset of a StructuredPage.
type DocumentContent struct {
	Title         string   `json:"title"`
	Description   string   `json:"description"`
	Content       string   `json:"content"`
	Author        string   `json:"author,omitempty"`
	Keywords      []string `json:"keywords,omitempty"`
	Language      string   `json:"language,omitempty"`
	PublishedTime string   `json:"published_time,omitempty"`
}

// NewIndexedDocument maps a structured page onto the document stored under path.
func NewIndexedDocument(path string, page StructuredPage) IndexedDocument {
	doc := IndexedDocument{
		ID:   path,
		Path: path,
		Content: DocumentContent{
			Title:       page.Title,
			Description: page.Description,
			Content:     page.Content,
		},
	}
	if meta := page.Metadata; meta != nil {
		doc.Content.Author = meta.Author
		doc.Content.Language = meta.Language
		doc.Content.PublishedTime = meta.PublishedTime
		if len(meta.Keywords) > 0 {
			doc.Content.Keywords = append([]string(nil), meta.Keywords...)
		}
	}
	return doc
}

// FieldText returns the text indexed for the named field, or "" for unknown fields.
func (d IndexedDocument) FieldText(field string) string {
	switch field {
	case FieldTitle:
		return d.Content.Title
	case FieldDescription:
		return d.Content.Description
	case FieldContent:
		return d.Content.Content
	case FieldAuthor:
		return d.Content.Author
	case FieldKeywords:
		return strings.Join(d.Content.Keywords, " ")
	default:
		return ""
	}
}
