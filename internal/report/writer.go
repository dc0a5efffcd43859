package report

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"marketreport/internal/config"
	"marketreport/internal/logger"
	"marketreport/internal/models"
	"marketreport/pkg/metadata"
)

// Report writer errors.
var (
	ErrEmptyReport    = errors.New("refusing to write a report with no records")
	ErrNothingToChart = errors.New("nothing to chart")
)

// DateLayout formats the report date in folder and file names.
const DateLayout = "2006-01-02"

// Result lists the files written for one report. Optional outputs are empty when skipped.
type Result struct {
	Dir          string
	CSVPath      string
	TextPath     string
	ChartPath    string
	ManifestPath string
}

// Writer persists reports under <base_path>/reports_<date>/.
type Writer struct {
	logger   *logger.Logger
	now      func() time.Time
	basePath string
	chartPNG bool
	manifest bool
}

// WriterOption configures a Writer.
type WriterOption func(*Writer)

// WithClock overrides the clock used for the report date.
func WithClock(now func() time.Time) WriterOption {
	return func(w *Writer) {
		w.now = now
	}
}

// NewWriter creates a writer from the output section of the configuration.
func NewWriter(cfg config.OutputConfig, l *logger.Logger, opts ...WriterOption) *Writer {
	if l == nil {
		l = logger.NewDiscardLogger()
	}

	w := &Writer{
		basePath: cfg.BasePath,
		chartPNG: cfg.ChartPNG,
		manifest: cfg.Manifest,
		logger:   l.With("component", "report"),
		now:      time.Now,
	}

	for _, opt := range opts {
		opt(w)
	}

	return w
}

// Write renders and persists the dataset. runID is recorded in the manifest.
func (w *Writer) Write(dataset models.Dataset, runID string) (*Result, error) {
	if len(dataset) == 0 {
		return nil, ErrEmptyReport
	}

	generatedAt := w.now()
	date := generatedAt.Format(DateLayout)

	dir := filepath.Join(w.basePath, "reports_"+date)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create report folder: %w", err)
	}

	w.logger.Info("using output folder", "dir", dir)

	result := &Result{Dir: dir}

	csvName := fmt.Sprintf("market_report_%s.csv", date)
	if err := writeCSVFile(filepath.Join(dir, csvName), dataset); err != nil {
		return nil, err
	}

	result.CSVPath = filepath.Join(dir, csvName)
	w.logger.Info("CSV report generated", "path", result.CSVPath)

	textName := fmt.Sprintf("market_report_%s.txt", date)
	if err := os.WriteFile(filepath.Join(dir, textName), []byte(RenderText(dataset)), 0644); err != nil {
		return nil, fmt.Errorf("failed to write text report: %w", err)
	}

	result.TextPath = filepath.Join(dir, textName)
	w.logger.Info("text report generated", "path", result.TextPath)

	files := []string{csvName, textName}

	if w.chartPNG {
		chartName := fmt.Sprintf("sentiment_chart_%s.png", date)
		title := fmt.Sprintf("Sentiment distribution %s", date)

		// The chart is optional; a render failure does not fail the report.
		if err := writeChartFile(filepath.Join(dir, chartName), title, dataset.SentimentCounts()); err != nil {
			w.logger.Warn("skipping sentiment chart", "error", err)
		} else {
			result.ChartPath = filepath.Join(dir, chartName)
			files = append(files, chartName)
			w.logger.Info("sentiment chart generated", "path", result.ChartPath)
		}
	}

	if w.manifest {
		path, err := writeManifest(dir, files, dataset, runID, generatedAt)
		if err != nil {
			return nil, err
		}

		result.ManifestPath = path
	}

	return result, nil
}

func writeCSVFile(path string, dataset models.Dataset) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create CSV report: %w", err)
	}

	defer func() {
		if closeErr := f.Close(); closeErr != nil && err == nil {
			err = fmt.Errorf("failed to close CSV report: %w", closeErr)
		}
	}()

	return WriteCSV(f, dataset)
}

func writeChartFile(path, title string, counts map[models.Sentiment]int) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create chart file: %w", err)
	}

	renderErr := RenderChartPNG(f, title, counts)
	closeErr := f.Close()

	if renderErr != nil {
		_ = os.Remove(path)
		return renderErr
	}

	return closeErr
}

func writeManifest(dir string, files []string, dataset models.Dataset, runID string, generatedAt time.Time) (string, error) {
	m := &metadata.Manifest{
		RunID:       runID,
		GeneratedAt: generatedAt.UTC(),
		ReportDate:  generatedAt.Format(DateLayout),
		Records:     len(dataset),
		Sentiment:   make(map[string]int),
		Impact:      make(map[string]int),
	}

	for s, n := range dataset.SentimentCounts() {
		m.Sentiment[s.String()] = n
	}

	for i, n := range dataset.ImpactCounts() {
		m.Impact[i.String()] = n
	}

	for _, qc := range dataset.QueryCounts() {
		m.Queries = append(m.Queries, metadata.QueryEntry{Query: qc.Query, Articles: qc.Articles})
	}

	for _, name := range files {
		if err := m.AddFile(dir, name); err != nil {
			return "", fmt.Errorf("failed to hash %s: %w", name, err)
		}
	}

	return m.Write(dir)
}
