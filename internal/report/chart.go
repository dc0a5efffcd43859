package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"marketreport/internal/models"
)

// BarChar is the character repeated to draw a text bar.
const BarChar = "-"

// RenderBarChart draws one line per sentiment in the order Bullish, Bearish, Neutral.
// Each bar is exactly as long as that sentiment's count; zero counts still get a line.
func RenderBarChart(counts map[models.Sentiment]int) string {
	lines := make([]string, 0, 3)

	for _, s := range models.Sentiments() {
		n := counts[s]
		lines = append(lines, fmt.Sprintf("%-8s: %s (%d)", s, strings.Repeat(BarChar, n), n))
	}

	return strings.Join(lines, "\n")
}

var sentimentColors = map[models.Sentiment]drawing.Color{
	models.SentimentBullish: drawing.ColorFromHex("10b981"), // green
	models.SentimentBearish: drawing.ColorFromHex("ef4444"), // red
	models.SentimentNeutral: drawing.ColorFromHex("9ca3af"), // gray
}

// RenderChartPNG renders the sentiment distribution as a PNG bar chart.
func RenderChartPNG(w io.Writer, title string, counts map[models.Sentiment]int) error {
	bars := make([]chart.Value, 0, 3)
	maxCount := 0

	for _, s := range models.Sentiments() {
		n := counts[s]
		if n > maxCount {
			maxCount = n
		}

		bars = append(bars, chart.Value{
			Label: fmt.Sprintf("%s (%d)", s, n),
			Value: float64(n),
			Style: chart.Style{
				FillColor:   sentimentColors[s],
				StrokeColor: sentimentColors[s],
				StrokeWidth: 1,
			},
		})
	}

	if maxCount == 0 {
		return fmt.Errorf("%w: all sentiment counts are zero", ErrNothingToChart)
	}

	graph := chart.BarChart{
		Title:    title,
		Width:    720,
		Height:   400,
		BarWidth: 100,
		Background: chart.Style{
			Padding: chart.Box{Top: 40, Left: 10, Right: 10, Bottom: 10},
		},
		YAxis: chart.YAxis{
			Range: &chart.ContinuousRange{Min: 0, Max: float64(maxCount)},
			ValueFormatter: func(v interface{}) string {
				if f, ok := v.(float64); ok {
					return fmt.Sprintf("%.0f", f)
				}
				return ""
			},
		},
		Bars: bars,
	}

	if err := graph.Render(chart.PNG, w); err != nil {
		return fmt.Errorf("failed to render chart: %w", err)
	}

	return nil
}
