// Package main provides the fetch command: it runs every configured query
// against NewsAPI once and saves the raw articles for offline replay.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/joho/godotenv"

	"marketreport/internal/config"
	"marketreport/internal/logger"
	"marketreport/internal/news"
	"marketreport/pkg/utils"
)

func main() {
	configFile := flag.String("config", "", "Path to YAML configuration file")
	output := flag.String("output", "", "Output JSON file path")
	queries := flag.String("queries", "", "Comma-separated queries (overrides config)")
	pageSize := flag.Int("page-size", 0, "Articles per query (overrides config)")
	flag.Parse()

	if *output == "" {
		fmt.Println("Usage: fetch -output <articles.json> [-config <file>] [-queries a,b]")
		flag.PrintDefaults()
		os.Exit(1)
	}

	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.Printf("Warning: failed to read .env: %v", err)
	}

	cfg := config.Default()

	if *configFile != "" {
		var err error

		cfg, err = config.LoadConfig(*configFile)
		if err != nil {
			log.Fatalf("Failed to load config: %v\n", err)
		}
	}

	if *queries != "" {
		cfg.Queries = splitQueries(*queries)
	}

	if *pageSize > 0 {
		cfg.News.PageSize = *pageSize
	}

	cfg.News.File = ""
	cfg.ApplyEnv()

	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid configuration: %v\n", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	l := logger.NewLogger(cfg.Logging.Level)
	console := logger.NewConsole(os.Stdout)

	client := news.NewClientFromConfig(cfg.News, l)

	console.Info("Fetching %d queries from %s (page size %d)", len(cfg.Queries), cfg.News.BaseURL, cfg.News.PageSize)

	doc := news.Capture(ctx, client, cfg.Queries, cfg.News.Language, cfg.News.PageSize)

	for _, q := range cfg.Queries {
		if articles, ok := doc.Queries[q]; ok {
			console.Info("%-30s %d articles", q, len(articles))
		}
	}

	stats := client.Attempts().Stats()
	console.Info("%s", stats)

	if err := doc.Save(*output); err != nil {
		console.Error("%v", err)
		os.Exit(1)
	}

	if stats.Failed > 0 {
		console.Warning("%d queries failed; they are saved as empty lists", stats.Failed)
	}

	console.Success("Saved to: %s", *output)
}

func splitQueries(s string) []string {
	var out []string

	strs := utils.NewStringHelper()

	for _, q := range strings.Split(s, ",") {
		if q = strs.TrimWhitespace(q); q != "" {
			out = append(out, q)
		}
	}

	return out
}
