// Package report renders a classified Dataset as a CSV export, a framed text
// report with a sentiment bar chart, and an optional PNG chart, and persists
// them under a dated report folder.
package report

import (
	"encoding/csv"
	"fmt"
	"io"

	"marketreport/internal/models"
)

// CSVColumns is the exact header of the structured export.
var CSVColumns = []string{"Title", "Link", "Summary", "Impact", "Sentiment", "Ticker", "Published_At", "Source", "Query"}

// WriteCSV writes the header and one row per record, in Dataset order.
func WriteCSV(w io.Writer, dataset models.Dataset) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(CSVColumns); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}

	for i, rec := range dataset {
		row := []string{
			rec.Title,
			rec.Link,
			rec.Summary,
			rec.Impact.String(),
			rec.Sentiment.String(),
			rec.Ticker,
			rec.PublishedAt,
			rec.Source,
			rec.Query,
		}

		if err := cw.Write(row); err != nil {
			return fmt.Errorf("failed to write CSV row %d: %w", i, err)
		}
	}

	cw.Flush()

	if err := cw.Error(); err != nil {
		return fmt.Errorf("failed to flush CSV: %w", err)
	}

	return nil
}
