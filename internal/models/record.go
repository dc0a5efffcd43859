package models

// Impact is the market category an article most likely concerns.
type Impact int

// Impact categories. The zero value is ImpactGeneral.
const (
	ImpactGeneral Impact = iota
	ImpactStocks
	ImpactCrypto
)

// String returns the report label of the impact category.
func (i Impact) String() string {
	switch i {
	case ImpactStocks:
		return "Stocks"
	case ImpactCrypto:
		return "Crypto"
	case ImpactGeneral:
		return "General"
	}

	return "General"
}

// MarshalText implements encoding.TextMarshaler.
func (i Impact) MarshalText() ([]byte, error) {
	return []byte(i.String()), nil
}

// Impacts lists every impact category in report order.
func Impacts() []Impact {
	return []Impact{ImpactStocks, ImpactCrypto, ImpactGeneral}
}

// Sentiment is the coarse directional tone of an article.
type Sentiment int

// Sentiment labels. The zero value is SentimentNeutral.
const (
	SentimentNeutral Sentiment = iota
	SentimentBullish
	SentimentBearish
)

// String returns the report label of the sentiment.
func (s Sentiment) String() string {
	switch s {
	case SentimentBullish:
		return "Bullish"
	case SentimentBearish:
		return "Bearish"
	case SentimentNeutral:
		return "Neutral"
	}

	return "Neutral"
}

// MarshalText implements encoding.TextMarshaler.
func (s Sentiment) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// Sentiments lists every sentiment in the fixed chart order: Bullish, Bearish, Neutral.
func Sentiments() []Sentiment {
	return []Sentiment{SentimentBullish, SentimentBearish, SentimentNeutral}
}

// ClassifiedRecord is one classified article, tagged with the query that produced it.
type ClassifiedRecord struct {
	Title       string
	Link        string
	Summary     string
	Ticker      string
	PublishedAt string
	Source      string
	Query       string
	Impact      Impact
	Sentiment   Sentiment
}

// Dataset is the ordered collection of records produced by one run.
type Dataset []ClassifiedRecord

// SentimentCounts counts records per sentiment. Every sentiment has an entry.
func (d Dataset) SentimentCounts() map[Sentiment]int {
	counts := make(map[Sentiment]int, 3)
	for _, s := range Sentiments() {
		counts[s] = 0
	}

	for _, rec := range d {
		counts[rec.Sentiment]++
	}

	return counts
}

// ImpactCounts counts records per impact category. Every category has an entry.
func (d Dataset) ImpactCounts() map[Impact]int {
	counts := make(map[Impact]int, 3)
	for _, i := range Impacts() {
		counts[i] = 0
	}

	for _, rec := range d {
		counts[rec.Impact]++
	}

	return counts
}

// QueryCount is the number of records a single query contributed.
type QueryCount struct {
	Query    string
	Articles int
}

// QueryCounts returns per-query record counts in first-seen order.
func (d Dataset) QueryCounts() []QueryCount {
	var result []QueryCount

	index := make(map[string]int)

	for _, rec := range d {
		i, ok := index[rec.Query]
		if !ok {
			index[rec.Query] = len(result)
			result = append(result, QueryCount{Query: rec.Query})
			i = len(result) - 1
		}

		result[i].Articles++
	}

	return result
}
