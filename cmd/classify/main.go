// Package main provides the classify command: it classifies articles from a
// local JSON file and prints the report to stdout without writing any files.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"

	"marketreport/internal/aggregator"
	"marketreport/internal/classifier"
	"marketreport/internal/config"
	"marketreport/internal/logger"
	"marketreport/internal/news"
	"marketreport/internal/report"
)

func main() {
	inputPath := flag.String("input", "", "Path to articles JSON (NewsAPI response or fetch output)")
	configFile := flag.String("config", "", "Path to YAML configuration file (queries and lexicon)")
	asCSV := flag.Bool("csv", false, "Print CSV instead of the text report")
	verbose := flag.Bool("v", false, "Log every fetch and classification step")
	flag.Parse()

	if *inputPath == "" {
		fmt.Println("Usage: classify -input <articles.json> [-config <file>] [-csv]")
		flag.PrintDefaults()
		os.Exit(1)
	}

	cfg := config.Default()

	if *configFile != "" {
		var err error

		cfg, err = config.LoadConfig(*configFile)
		if err != nil {
			log.Fatalf("Failed to load config: %v\n", err)
		}
	}

	// Without a config, replay exactly what the file holds: captured query
	// order and every article, however long the lists are.
	if *configFile == "" {
		doc, err := news.LoadDocument(*inputPath)
		if err != nil {
			log.Fatalf("Error reading input: %v\n", err)
		}

		cfg.Queries = doc.ReplayQueries()
		cfg.News.PageSize = max(doc.MaxArticles(), 1)
	}

	l := logger.NewLogger("warn")
	if *verbose {
		l.SetLevel("debug")
	}
	source := news.NewFileSource(*inputPath, l)
	agg := aggregator.New(source, classifier.New(cfg.Lexicon), l)

	dataset, err := agg.Run(context.Background(), aggregator.Request{
		Language: cfg.News.Language,
		Queries:  cfg.Queries,
		PageSize: cfg.News.PageSize,
	})
	if errors.Is(err, aggregator.ErrEmptyDataset) {
		fmt.Fprintln(os.Stderr, "No articles matched any query.")
		os.Exit(0)
	}

	if err != nil {
		log.Fatalf("Classification failed: %v\n", err)
	}

	if *asCSV {
		if err := report.WriteCSV(os.Stdout, dataset); err != nil {
			log.Fatalf("Failed to write CSV: %v\n", err)
		}

		return
	}

	fmt.Print(report.RenderText(dataset))
}
