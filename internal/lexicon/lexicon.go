// Package lexicon holds the keyword and name-to-ticker tables that drive classification.
//
// A Lexicon is a plain value. Callers get a fresh copy from Default, may override
// any table through configuration, and hand the result to the classifier.
// Matching is case-insensitive substring containment; Normalize lowercases
// every entry once so the classifier only has to lowercase the article text.
package lexicon

import (
	"errors"
	"fmt"
	"strings"
)

// Lexicon validation errors.
var (
	ErrEmptyKeyword      = errors.New("keyword must not be blank")
	ErrNoKeywords        = errors.New("keyword list must not be empty")
	ErrTickerMissingName = errors.New("ticker alias name must not be blank")
	ErrTickerMissingSym  = errors.New("ticker alias symbol must not be blank")
)

// ImpactKeywords are the keyword sets that mark an article as crypto or stocks related.
type ImpactKeywords struct {
	Crypto []string `yaml:"crypto"`
	Stocks []string `yaml:"stocks"`
}

// SentimentKeywords are the keyword sets for bullish and bearish tone.
type SentimentKeywords struct {
	Bullish []string `yaml:"bullish"`
	Bearish []string `yaml:"bearish"`
}

// TickerAlias maps a company or asset name to its trading symbol.
// Several aliases may share one symbol.
type TickerAlias struct {
	Name   string `yaml:"name"`
	Symbol string `yaml:"symbol"`
}

// Lexicon is the full set of classification tables.
// Ticker tables are ordered: the first alias found in the text wins.
type Lexicon struct {
	Impact        ImpactKeywords    `yaml:"impact"`
	Sentiment     SentimentKeywords `yaml:"sentiment"`
	StockTickers  []TickerAlias     `yaml:"stock_tickers"`
	CryptoTickers []TickerAlias     `yaml:"crypto_tickers"`
}

// Default returns a fresh copy of the built-in tables.
func Default() Lexicon {
	return Lexicon{
		Impact: ImpactKeywords{
			Crypto: []string{
				"bitcoin", "btc", "ether", "ethereum", "cryptocurrency", "crypto",
				"blockchain", "bnb", "ripple", "dogecoin", "doge", "litecoin", "solana",
			},
			Stocks: []string{
				"stock", "stocks", "shares", "market", "nasdaq", "dow jones",
				"s&p", "equities", "bond", "ipo", "wall street",
				"apple", "tesla", "amazon", "microsoft", "google", "nvidia",
			},
		},
		Sentiment: SentimentKeywords{
			Bullish: []string{"rise", "rises", "soar", "soars", "gain", "gains", "bullish", "positive", "surge"},
			Bearish: []string{"fall", "falls", "drop", "drops", "bearish", "negative", "plummet", "decline"},
		},
		StockTickers: []TickerAlias{
			{Name: "apple", Symbol: "AAPL"},
			{Name: "tesla", Symbol: "TSLA"},
			{Name: "microsoft", Symbol: "MSFT"},
			{Name: "google", Symbol: "GOOGL"},
			{Name: "alphabet", Symbol: "GOOGL"},
			{Name: "amazon", Symbol: "AMZN"},
			{Name: "meta", Symbol: "META"},
			{Name: "facebook", Symbol: "META"},
			{Name: "nvidia", Symbol: "NVDA"},
			{Name: "berkshire", Symbol: "BRK.A"},
		},
		CryptoTickers: []TickerAlias{
			{Name: "bitcoin", Symbol: "BTC"},
			{Name: "btc", Symbol: "BTC"},
			{Name: "ethereum", Symbol: "ETH"},
			{Name: "ether", Symbol: "ETH"},
			{Name: "dogecoin", Symbol: "DOGE"},
			{Name: "doge", Symbol: "DOGE"},
			{Name: "litecoin", Symbol: "LTC"},
			{Name: "xrp", Symbol: "XRP"},
			{Name: "ripple", Symbol: "XRP"},
			{Name: "solana", Symbol: "SOL"},
		},
	}
}

// Normalize returns a copy with every keyword and alias name lowercased.
// Symbols keep their case.
func (l Lexicon) Normalize() Lexicon {
	return Lexicon{
		Impact: ImpactKeywords{
			Crypto: lowerAll(l.Impact.Crypto),
			Stocks: lowerAll(l.Impact.Stocks),
		},
		Sentiment: SentimentKeywords{
			Bullish: lowerAll(l.Sentiment.Bullish),
			Bearish: lowerAll(l.Sentiment.Bearish),
		},
		StockTickers:  lowerAliases(l.StockTickers),
		CryptoTickers: lowerAliases(l.CryptoTickers),
	}
}

// Validate reports the first malformed table entry.
func (l Lexicon) Validate() error {
	lists := []struct {
		name  string
		words []string
	}{
		{"impact.crypto", l.Impact.Crypto},
		{"impact.stocks", l.Impact.Stocks},
		{"sentiment.bullish", l.Sentiment.Bullish},
		{"sentiment.bearish", l.Sentiment.Bearish},
	}

	for _, list := range lists {
		if len(list.words) == 0 {
			return fmt.Errorf("%w: %s", ErrNoKeywords, list.name)
		}

		for i, w := range list.words {
			if strings.TrimSpace(w) == "" {
				return fmt.Errorf("%w: %s[%d]", ErrEmptyKeyword, list.name, i)
			}
		}
	}

	if err := validateAliases("stock_tickers", l.StockTickers); err != nil {
		return err
	}

	return validateAliases("crypto_tickers", l.CryptoTickers)
}

func validateAliases(name string, aliases []TickerAlias) error {
	for i, a := range aliases {
		if strings.TrimSpace(a.Name) == "" {
			return fmt.Errorf("%w: %s[%d]", ErrTickerMissingName, name, i)
		}

		if strings.TrimSpace(a.Symbol) == "" {
			return fmt.Errorf("%w: %s[%d]", ErrTickerMissingSym, name, i)
		}
	}

	return nil
}

func lowerAll(words []string) []string {
	out := make([]string, len(words))
	for i, w := range words {
		out[i] = strings.ToLower(w)
	}

	return out
}

func lowerAliases(aliases []TickerAlias) []TickerAlias {
	out := make([]TickerAlias, len(aliases))
	for i, a := range aliases {
		out[i] = TickerAlias{Name: strings.ToLower(a.Name), Symbol: a.Symbol}
	}

	return out
}
