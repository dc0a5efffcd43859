package report

import (
	"strings"

	"marketreport/internal/models"
)

// TableColumns are the columns of the human-readable table.
var TableColumns = []string{"Title", "Ticker", "Impact", "Sentiment", "Summary", "Link", "Published_At", "Source"}

// Section headings of the text report.
const (
	ReportHeading = "=== DAILY MARKET REPORT (ASCII) ==="
	TableHeading  = "TABLE OF ARTICLES:"
	ChartHeading  = "SENTIMENT DISTRIBUTION (ASCII BAR CHART):"
)

// RenderText builds the text report: the framed article table followed by the sentiment bar chart.
func RenderText(dataset models.Dataset) string {
	rows := make([][]string, 0, len(dataset))

	for _, rec := range dataset {
		rows = append(rows, []string{
			rec.Title,
			rec.Ticker,
			rec.Impact.String(),
			rec.Sentiment.String(),
			rec.Summary,
			rec.Link,
			rec.PublishedAt,
			rec.Source,
		})
	}

	parts := []string{
		ReportHeading + "\n",
		TableHeading + "\n",
		RenderTable(TableColumns, rows) + "\n\n",
		ChartHeading + "\n",
		RenderBarChart(dataset.SentimentCounts()) + "\n",
	}

	return strings.Join(parts, "\n")
}
