package report

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"marketreport/internal/config"
	"marketreport/internal/models"
	"marketreport/pkg/metadata"
)

func sampleDataset() models.Dataset {
	return models.Dataset{
		{
			Title:       "Bitcoin surges past $50k",
			Link:        "https://example.com/btc",
			Summary:     "Bitcoin surges past $50k. crypto markets rally",
			Impact:      models.ImpactCrypto,
			Sentiment:   models.SentimentBullish,
			Ticker:      "BTC",
			PublishedAt: "2026-10-19T08:00:00Z",
			Source:      "Reuters",
			Query:       "crypto",
		},
		{
			Title:       "Markets fall, again",
			Link:        models.NotAvailable,
			Summary:     "Markets fall, again. stocks drop \"sharply\"",
			Impact:      models.ImpactStocks,
			Sentiment:   models.SentimentBearish,
			Ticker:      "AAPL",
			PublishedAt: models.NotAvailable,
			Source:      models.NotAvailable,
			Query:       "stock market",
		},
	}
}

func TestWriteCSV(t *testing.T) {
	var buf bytes.Buffer

	require.NoError(t, WriteCSV(&buf, sampleDataset()))

	rows, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 3)

	assert.Equal(t, []string{"Title", "Link", "Summary", "Impact", "Sentiment", "Ticker", "Published_At", "Source", "Query"}, rows[0])
	assert.Equal(t, []string{
		"Bitcoin surges past $50k", "https://example.com/btc", "Bitcoin surges past $50k. crypto markets rally",
		"Crypto", "Bullish", "BTC", "2026-10-19T08:00:00Z", "Reuters", "crypto",
	}, rows[1])
	assert.Equal(t, "Markets fall, again. stocks drop \"sharply\"", rows[2][2])
	assert.Equal(t, "stock market", rows[2][8])
}

func TestWriteCSV_HeaderOnlyForEmptyDataset(t *testing.T) {
	var buf bytes.Buffer

	require.NoError(t, WriteCSV(&buf, nil))
	assert.Equal(t, strings.Join(CSVColumns, ",")+"\n", buf.String())
}

func TestRenderBarChart(t *testing.T) {
	got := RenderBarChart(map[models.Sentiment]int{
		models.SentimentNeutral: 1,
		models.SentimentBullish: 3,
	})

	want := "Bullish : --- (3)\n" +
		"Bearish :  (0)\n" +
		"Neutral : - (1)"

	assert.Equal(t, want, got)
}

func TestRenderBarChart_OrderAndLengths(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	all := models.Sentiments()

	for iter := 0; iter < 50; iter++ {
		var d models.Dataset
		for i := rng.Intn(30); i > 0; i-- {
			d = append(d, models.ClassifiedRecord{Sentiment: all[rng.Intn(len(all))]})
		}

		counts := d.SentimentCounts()
		lines := strings.Split(RenderBarChart(counts), "\n")
		require.Len(t, lines, 3)

		for i, s := range all {
			n := counts[s]
			assert.True(t, strings.HasPrefix(lines[i], fmt.Sprintf("%-8s: ", s)), lines[i])
			assert.Equal(t, n, strings.Count(lines[i], BarChar))
			assert.True(t, strings.HasSuffix(lines[i], fmt.Sprintf(" (%d)", n)), lines[i])
		}
	}
}

func TestRenderText(t *testing.T) {
	text := RenderText(sampleDataset())

	assert.True(t, strings.HasPrefix(text, ReportHeading+"\n\n"+TableHeading+"\n\n╒"))
	assert.Contains(t, text, "│ Title ")
	assert.Contains(t, text, "│ Published_At ")
	assert.Contains(t, text, "│ Bitcoin surges past $50k │ BTC ")
	assert.NotContains(t, text, "│ Query")
	assert.True(t, strings.HasSuffix(text, ChartHeading+"\n\n"+
		"Bullish : - (1)\n"+
		"Bearish : - (1)\n"+
		"Neutral :  (0)\n"))

	tableIdx := strings.Index(text, TableHeading)
	chartIdx := strings.Index(text, ChartHeading)
	assert.Less(t, tableIdx, chartIdx)
}

func TestRenderChartPNG(t *testing.T) {
	var buf bytes.Buffer

	err := RenderChartPNG(&buf, "test", map[models.Sentiment]int{models.SentimentBullish: 2, models.SentimentBearish: 1})
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("\x89PNG")))

	err = RenderChartPNG(&buf, "test", map[models.Sentiment]int{})
	assert.ErrorIs(t, err, ErrNothingToChart)
}

func fixedClock() time.Time {
	return time.Date(2026, 10, 19, 7, 30, 0, 0, time.UTC)
}

func TestWriter_Write(t *testing.T) {
	base := t.TempDir()
	w := NewWriter(config.OutputConfig{BasePath: base, ChartPNG: true, Manifest: true}, nil, WithClock(fixedClock))

	result, err := w.Write(sampleDataset(), "run-123")
	require.NoError(t, err)

	dir := filepath.Join(base, "reports_2026-10-19")
	assert.Equal(t, dir, result.Dir)
	assert.Equal(t, filepath.Join(dir, "market_report_2026-10-19.csv"), result.CSVPath)
	assert.Equal(t, filepath.Join(dir, "market_report_2026-10-19.txt"), result.TextPath)
	assert.Equal(t, filepath.Join(dir, "sentiment_chart_2026-10-19.png"), result.ChartPath)
	assert.Equal(t, filepath.Join(dir, metadata.FileName), result.ManifestPath)

	text, err := os.ReadFile(result.TextPath)
	require.NoError(t, err)
	assert.Equal(t, RenderText(sampleDataset()), string(text))

	m, err := metadata.Load(dir)
	require.NoError(t, err)
	assert.Equal(t, "run-123", m.RunID)
	assert.Equal(t, "2026-10-19", m.ReportDate)
	assert.Equal(t, 2, m.Records)
	assert.Equal(t, 1, m.Sentiment["Bullish"])
	assert.Equal(t, 0, m.Sentiment["Neutral"])
	assert.Equal(t, 1, m.Impact["Crypto"])
	assert.Equal(t, []metadata.QueryEntry{{Query: "crypto", Articles: 1}, {Query: "stock market", Articles: 1}}, m.Queries)
	assert.Len(t, m.Files, 3)

	ok, err := metadata.Verify(dir)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestWriter_Write_OptionalOutputsDisabled(t *testing.T) {
	base := t.TempDir()
	w := NewWriter(config.OutputConfig{BasePath: base}, nil, WithClock(fixedClock))

	result, err := w.Write(sampleDataset(), "run")
	require.NoError(t, err)

	assert.Empty(t, result.ChartPath)
	assert.Empty(t, result.ManifestPath)

	entries, err := os.ReadDir(result.Dir)
	require.NoError(t, err)
	assert.Len(t, entries, 2)
}

func TestWriter_Write_EmptyDataset(t *testing.T) {
	base := t.TempDir()
	w := NewWriter(config.OutputConfig{BasePath: base, ChartPNG: true, Manifest: true}, nil, WithClock(fixedClock))

	result, err := w.Write(nil, "run")

	assert.ErrorIs(t, err, ErrEmptyReport)
	assert.Nil(t, result)

	entries, err := os.ReadDir(base)
	require.NoError(t, err)
	assert.Empty(t, entries, "no folder or files for an empty dataset")
}
