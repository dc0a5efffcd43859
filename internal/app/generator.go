// Package app wires the report pipeline: source, classifier, aggregator and writer.
package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"marketreport/internal/aggregator"
	"marketreport/internal/classifier"
	"marketreport/internal/config"
	"marketreport/internal/logger"
	"marketreport/internal/news"
	"marketreport/internal/report"
)

// ErrEmptyDataset is re-exported so callers need not import the aggregator.
var ErrEmptyDataset = aggregator.ErrEmptyDataset

// attemptSource is a source that keeps a log of its fetch attempts.
type attemptSource interface {
	news.Source
	Attempts() *news.AttemptLog
}

// Generator produces one dated report per call.
type Generator struct {
	source     news.Source
	aggregator *aggregator.Aggregator
	writer     *report.Writer
	logger     *logger.Logger
	newRunID   func() string
	request    aggregator.Request
}

// Option configures a Generator.
type Option func(*Generator)

// WithRunID overrides run ID generation.
func WithRunID(fn func() string) Option {
	return func(g *Generator) {
		g.newRunID = fn
	}
}

// NewGenerator builds a generator around source using the queries, lexicon
// and output settings of cfg.
func NewGenerator(cfg *config.Config, source news.Source, w *report.Writer, l *logger.Logger, opts ...Option) *Generator {
	if l == nil {
		l = logger.NewDiscardLogger()
	}

	g := &Generator{
		source:     source,
		aggregator: aggregator.New(source, classifier.New(cfg.Lexicon), l),
		writer:     w,
		logger:     l.With("component", "generator"),
		newRunID:   func() string { return uuid.New().String() },
		request: aggregator.Request{
			Language: cfg.News.Language,
			Queries:  cfg.Queries,
			PageSize: cfg.News.PageSize,
		},
	}

	for _, opt := range opts {
		opt(g)
	}

	return g
}

// NewSource picks the article source described by cfg: a local file when
// news.file is set, otherwise the NewsAPI client.
func NewSource(cfg config.NewsConfig, l *logger.Logger) news.Source {
	if cfg.IsLocalFile() {
		return news.NewFileSource(cfg.File, l)
	}

	return news.NewClientFromConfig(cfg, l)
}

// Generate runs every query, classifies the results and writes the report.
// When no article was retrieved it returns ErrEmptyDataset and writes nothing.
func (g *Generator) Generate(ctx context.Context) (*report.Result, error) {
	runID := g.newRunID()
	start := time.Now()

	l := g.logger.With("run_id", runID)
	l.Info("starting report run", "queries", len(g.request.Queries), "source", g.source.Name())

	if as, ok := g.source.(attemptSource); ok {
		as.Attempts().Reset()
		defer as.Attempts().LogSummary(l)
	}

	dataset, err := g.aggregator.Run(ctx, g.request)
	if err != nil {
		if errors.Is(err, aggregator.ErrEmptyDataset) {
			l.Warn("no articles retrieved, report not generated")
		}

		return nil, err
	}

	result, err := g.writer.Write(dataset, runID)
	if err != nil {
		return nil, fmt.Errorf("failed to write report: %w", err)
	}

	l.Info("report run complete", "records", len(dataset), "dir", result.Dir, "duration", time.Since(start))

	return result, nil
}
