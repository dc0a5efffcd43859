package news

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"marketreport/internal/models"
)

// AllQuery is the query name used to replay a document that has no per-query lists.
const AllQuery = "all"

// Document is a NewsAPI-shaped response, optionally with per-query article lists.
// It is the format FileSource reads and Capture produces.
// Order records the sequence in which Queries were captured.
type Document struct {
	CapturedAt *time.Time                  `json:"capturedAt,omitempty"`
	Queries    map[string][]models.Article `json:"queries,omitempty"`
	Status     string                      `json:"status,omitempty"`
	Articles   []models.Article            `json:"articles"`
	Order      []string                    `json:"order,omitempty"`
}

// ReplayQueries returns the queries to run to reproduce the captured run.
// Captured order comes first; keys missing from Order follow in sorted order.
// A document without per-query lists replays as the single query AllQuery.
func (d *Document) ReplayQueries() []string {
	if len(d.Queries) == 0 {
		return []string{AllQuery}
	}

	queries := make([]string, 0, len(d.Queries))
	seen := make(map[string]bool, len(d.Queries))

	for _, q := range d.Order {
		if _, ok := d.Queries[q]; ok && !seen[q] {
			seen[q] = true
			queries = append(queries, q)
		}
	}

	var rest []string

	for q := range d.Queries {
		if !seen[q] {
			rest = append(rest, q)
		}
	}

	sort.Strings(rest)

	return append(queries, rest...)
}

// MaxArticles returns the length of the longest article list in the document.
func (d *Document) MaxArticles() int {
	n := len(d.Articles)

	for _, articles := range d.Queries {
		if len(articles) > n {
			n = len(articles)
		}
	}

	return n
}

// LoadDocument reads and parses a document file.
func LoadDocument(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read local file %s: %w", path, err)
	}

	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}

	return &doc, nil
}

// Save writes the document as indented JSON, creating parent directories.
func (d *Document) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	data, err := json.MarshalIndent(d, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal document: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}

	return nil
}

// Capture fetches every query once from src and files the results under
// their query. Queries that yield nothing are kept with an empty list so a
// replay reproduces the miss.
func Capture(ctx context.Context, src Source, queries []string, language string, pageSize int) *Document {
	now := time.Now().UTC()

	doc := &Document{
		Status:     "ok",
		CapturedAt: &now,
		Queries:    make(map[string][]models.Article, len(queries)),
		Articles:   []models.Article{},
	}

	for _, q := range queries {
		if ctx.Err() != nil {
			break
		}

		articles := src.Fetch(ctx, q, language, pageSize)
		if articles == nil {
			articles = []models.Article{}
		}

		if _, dup := doc.Queries[q]; !dup {
			doc.Order = append(doc.Order, q)
		}

		doc.Queries[q] = articles
	}

	return doc
}
