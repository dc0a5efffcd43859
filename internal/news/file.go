package news

import (
	"context"
	"fmt"
	"sync"
	"time"

	"marketreport/internal/logger"
	"marketreport/internal/models"
)

// FileSource serves articles from a local JSON file instead of the network.
// A query listed under "queries" gets its own articles; any other query gets
// the top-level "articles" list.
type FileSource struct {
	logger   *logger.Logger
	attempts *AttemptLog
	doc      *Document
	loadErr  error
	path     string
	once     sync.Once
}

// NewFileSource creates a source reading path on first use.
func NewFileSource(path string, l *logger.Logger) *FileSource {
	if l == nil {
		l = logger.NewDiscardLogger()
	}

	return &FileSource{
		path:     path,
		logger:   l.With("component", "filesource"),
		attempts: NewAttemptLog(),
	}
}

// Name identifies the source in logs.
func (f *FileSource) Name() string {
	return "file:" + f.path
}

// Attempts exposes the fetch attempt log.
func (f *FileSource) Attempts() *AttemptLog {
	return f.attempts
}

// Fetch returns up to pageSize articles for query, or nil when the file cannot be used.
// language is ignored: the file holds whatever was captured.
func (f *FileSource) Fetch(_ context.Context, query, _ string, pageSize int) []models.Article {
	start := time.Now()

	if pageSize <= 0 {
		err := fmt.Errorf("%w: page size must be positive, got %d", ErrSourceUnavailable, pageSize)
		f.attempts.Record(query, err, 0, 0, time.Since(start))
		f.logger.Error("invalid page size", "query", query, "page_size", pageSize)

		return nil
	}

	doc, err := f.load()
	if err != nil {
		f.attempts.Record(query, err, 0, 0, time.Since(start))
		f.logger.Error("failed to read articles", "query", query, "error", err)

		return nil
	}

	articles, ok := doc.Queries[query]
	if !ok {
		articles = doc.Articles
	}

	if len(articles) > pageSize {
		f.logger.Debug("truncated to page size", "query", query, "available", len(articles), "page_size", pageSize)
		articles = articles[:pageSize]
	}

	out := make([]models.Article, len(articles))
	copy(out, articles)

	f.attempts.Record(query, nil, 0, len(out), time.Since(start))

	return out
}

func (f *FileSource) load() (*Document, error) {
	f.once.Do(func() {
		doc, err := LoadDocument(f.path)
		if err != nil {
			f.loadErr = fmt.Errorf("%w: %w", ErrSourceUnavailable, err)
			return
		}

		f.doc = doc
	})

	return f.doc, f.loadErr
}
