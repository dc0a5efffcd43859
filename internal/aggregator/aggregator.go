// Package aggregator runs every configured query through an article source,
// classifies the results and collects them into a Dataset.
package aggregator

import (
	"context"
	"errors"
	"fmt"

	"marketreport/internal/classifier"
	"marketreport/internal/logger"
	"marketreport/internal/models"
	"marketreport/internal/news"
)

// ErrEmptyDataset is returned when no query produced a single article.
// It is a terminal outcome: nothing should be rendered or written.
var ErrEmptyDataset = errors.New("no articles to report")

// Request describes one aggregation run.
type Request struct {
	Language string
	Queries  []string
	PageSize int
}

// Aggregator drives queries through a source, one at a time, in order.
type Aggregator struct {
	source     news.Source
	classifier *classifier.Classifier
	logger     *logger.Logger
}

// New creates an aggregator.
func New(source news.Source, c *classifier.Classifier, l *logger.Logger) *Aggregator {
	if l == nil {
		l = logger.NewDiscardLogger()
	}

	return &Aggregator{
		source:     source,
		classifier: c,
		logger:     l.With("component", "aggregator"),
	}
}

// Run fetches and classifies every query. Records keep query order, then provider order.
// A query that yields nothing is skipped. If the whole run yields nothing,
// Run returns ErrEmptyDataset.
func (a *Aggregator) Run(ctx context.Context, req Request) (models.Dataset, error) {
	var dataset models.Dataset

	for i, q := range req.Queries {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("aggregation interrupted before query %q: %w", q, err)
		}

		a.logger.Info("fetching articles", "query", q, "n", i+1, "of", len(req.Queries))

		articles := a.source.Fetch(ctx, q, req.Language, req.PageSize)
		if len(articles) == 0 {
			a.logger.Warn("no articles retrieved", "query", q, "source", a.source.Name())

			continue
		}

		for _, article := range articles {
			dataset = append(dataset, a.Record(article, q))
		}
	}

	if len(dataset) == 0 {
		return nil, ErrEmptyDataset
	}

	a.logger.Info("aggregation complete", "records", len(dataset), "queries", len(req.Queries))

	return dataset, nil
}

// Record classifies one article and builds its report row.
func (a *Aggregator) Record(article models.Article, query string) models.ClassifiedRecord {
	result := a.classifier.Classify(article)

	return models.ClassifiedRecord{
		Title:       article.DisplayTitle(),
		Link:        article.DisplayURL(),
		Summary:     article.Summary(),
		Impact:      result.Impact,
		Sentiment:   result.Sentiment,
		Ticker:      result.Ticker,
		PublishedAt: article.DisplayPublishedAt(),
		Source:      article.DisplaySource(),
		Query:       query,
	}
}
