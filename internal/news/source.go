// Package news provides the article sources the report pipeline pulls from.
//
// A Source never returns an error: transport, authentication and provider
// failures are logged, recorded in the source's AttemptLog and reported to the
// caller as an empty result.
package news

import (
	"context"
	"errors"

	"marketreport/internal/models"
)

// DefaultLanguage is the article language requested when none is configured.
const DefaultLanguage = "en"

// ErrSourceUnavailable wraps every failure to obtain articles for a query.
var ErrSourceUnavailable = errors.New("article source unavailable")

// Source fetches one page of articles for a query.
type Source interface {
	Fetch(ctx context.Context, query, language string, pageSize int) []models.Article
	Name() string
}
