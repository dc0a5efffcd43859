// Package classifier derives impact category, sentiment and ticker for a news article.
//
// Every function is pure: the same article and lexicon always produce the same
// result. Matching is plain substring containment on lowercased text, so a
// keyword such as "ether" also matches inside "together". That is accepted
// behaviour and must not be replaced with word-boundary matching.
package classifier

import (
	"strings"

	"marketreport/internal/lexicon"
	"marketreport/internal/models"
)

// Result is the classification of a single article.
type Result struct {
	Ticker    string
	Impact    models.Impact
	Sentiment models.Sentiment
}

// Classifier applies a lexicon to articles.
type Classifier struct {
	lex lexicon.Lexicon
}

// New creates a classifier over a lowercased copy of lex.
func New(lex lexicon.Lexicon) *Classifier {
	return &Classifier{lex: lex.Normalize()}
}

// Classify returns impact, sentiment and ticker for a.
func (c *Classifier) Classify(a models.Article) Result {
	text := a.Text()
	impact := c.Impact(a)

	return Result{
		Impact:    impact,
		Sentiment: c.Sentiment(text),
		Ticker:    c.Ticker(text, impact),
	}
}

// Impact checks crypto keywords before stocks keywords; crypto wins when both match.
func (c *Classifier) Impact(a models.Article) models.Impact {
	text := strings.ToLower(a.Text())

	switch {
	case containsAny(text, c.lex.Impact.Crypto):
		return models.ImpactCrypto
	case containsAny(text, c.lex.Impact.Stocks):
		return models.ImpactStocks
	default:
		return models.ImpactGeneral
	}
}

// Sentiment checks bullish keywords before bearish keywords; bullish wins when both match.
func (c *Classifier) Sentiment(text string) models.Sentiment {
	text = strings.ToLower(text)

	switch {
	case containsAny(text, c.lex.Sentiment.Bullish):
		return models.SentimentBullish
	case containsAny(text, c.lex.Sentiment.Bearish):
		return models.SentimentBearish
	default:
		return models.SentimentNeutral
	}
}

// Ticker returns the symbol of the first alias, in table order, found in text.
// General articles are never searched.
func (c *Classifier) Ticker(text string, impact models.Impact) string {
	var aliases []lexicon.TickerAlias

	switch impact {
	case models.ImpactStocks:
		aliases = c.lex.StockTickers
	case models.ImpactCrypto:
		aliases = c.lex.CryptoTickers
	case models.ImpactGeneral:
		return models.NotAvailable
	}

	text = strings.ToLower(text)
	for _, alias := range aliases {
		if strings.Contains(text, alias.Name) {
			return alias.Symbol
		}
	}

	return models.NotAvailable
}

func containsAny(text string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(text, kw) {
			return true
		}
	}

	return false
}
