// Package models defines data structures shared by the fetcher, classifier and reporter.
package models

import "strings"

// NotAvailable is the display placeholder for absent fields and unknown tickers.
const NotAvailable = "N/A"

// noTitle replaces an absent title inside the derived summary.
const noTitle = "No Title"

// ArticleSource identifies the publisher of an article.
type ArticleSource struct {
	ID   *string `json:"id"`
	Name *string `json:"name"`
}

// Article is a news article as returned by the provider. Every field is optional.
type Article struct {
	Source      *ArticleSource `json:"source,omitempty"`
	Title       *string        `json:"title,omitempty"`
	Description *string        `json:"description,omitempty"`
	Content     *string        `json:"content,omitempty"`
	URL         *string        `json:"url,omitempty"`
	PublishedAt *string        `json:"publishedAt,omitempty"`
}

// Text joins title, description and content with single spaces.
// Absent fields contribute an empty string.
func (a Article) Text() string {
	return strings.Join([]string{
		textOrEmpty(a.Title),
		textOrEmpty(a.Description),
		textOrEmpty(a.Content),
	}, " ")
}

// Summary returns "<title>. <description>".
func (a Article) Summary() string {
	title := noTitle
	if a.Title != nil {
		title = *a.Title
	}

	return title + ". " + textOrEmpty(a.Description)
}

// DisplayTitle returns the title or the N/A placeholder.
func (a Article) DisplayTitle() string {
	return textOrNA(a.Title)
}

// DisplayURL returns the link or the N/A placeholder.
func (a Article) DisplayURL() string {
	return textOrNA(a.URL)
}

// DisplayPublishedAt returns the provider timestamp verbatim or the N/A placeholder.
func (a Article) DisplayPublishedAt() string {
	return textOrNA(a.PublishedAt)
}

// DisplaySource returns the publisher name or the N/A placeholder.
func (a Article) DisplaySource() string {
	if a.Source == nil {
		return NotAvailable
	}

	return textOrNA(a.Source.Name)
}

func textOrEmpty(s *string) string {
	if s == nil {
		return ""
	}

	return *s
}

func textOrNA(s *string) string {
	if s == nil {
		return NotAvailable
	}

	return *s
}

// StringPtr returns a pointer to s. Handy for building articles in code and tests.
func StringPtr(s string) *string {
	return &s
}
