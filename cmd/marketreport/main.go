// Package main provides the market report command: an interactive menu, a
// single run, or a cron-scheduled daily run.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/joho/godotenv"

	"marketreport/internal/aggregator"
	"marketreport/internal/app"
	"marketreport/internal/config"
	"marketreport/internal/logger"
	"marketreport/internal/menu"
	"marketreport/internal/report"
	"marketreport/internal/scheduler"
)

const (
	defaultConfig  = "configs/marketreport.yaml"
	defaultMenuLog = "marketreport.log"
)

// Run modes.
const (
	modeMenu     = "menu"
	modeOnce     = "once"
	modeSchedule = "schedule"
)

func main() {
	// Define command-line flags
	configFile := flag.String("config", "", "Path to YAML configuration file (default: "+defaultConfig+" if present)")
	mode := flag.String("mode", modeMenu, "Run mode: menu, once or schedule")
	localFile := flag.String("file", "", "Read articles from a local JSON file instead of NewsAPI")
	output := flag.String("output", "", "Base directory for report folders (overrides config)")
	logLevel := flag.String("log-level", "", "Log level: debug, info, warn, error (overrides config)")
	writeConfig := flag.String("write-config", "", "Write the effective configuration to this path and exit")
	showUsage := flag.Bool("help", false, "Show usage information")

	flag.Parse()

	if *showUsage {
		printUsage()
		os.Exit(0)
	}

	console := logger.NewConsole(os.Stdout)

	// .env is optional; a real environment variable always wins.
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		console.Warning("Failed to read .env: %v", err)
	}

	cfg, err := loadConfig(*configFile, console)
	if err != nil {
		console.Error("Failed to load config: %v", err)
		os.Exit(1)
	}

	applyFlags(cfg, *localFile, *output, *logLevel)
	cfg.ApplyEnv()

	if err := cfg.Validate(); err != nil {
		console.Error("Invalid configuration: %v", err)
		os.Exit(1)
	}

	if *writeConfig != "" {
		if err := cfg.SaveConfig(*writeConfig); err != nil {
			console.Error("%v", err)
			os.Exit(1)
		}

		console.Success("Configuration written to: %s", *writeConfig)

		return
	}

	if !cfg.News.IsLocalFile() && cfg.News.APIKey == "" {
		console.Warning("%s is not set; every NewsAPI query will fail", config.APIKeyEnv)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// The menu owns the terminal, so its logs go to a file.
	if *mode == modeMenu && cfg.Logging.File == "" {
		cfg.Logging.File = defaultMenuLog
	}

	log, closeLog, err := newLogger(cfg.Logging)
	if err != nil {
		console.Error("Failed to open log file: %v", err)
		os.Exit(1)
	}
	defer closeLog()

	log.Info("configuration loaded", "config", cfg.String(), "mode", *mode)

	source := app.NewSource(cfg.News, log)
	writer := report.NewWriter(cfg.Output, log)
	generator := app.NewGenerator(cfg, source, writer, log)

	switch *mode {
	case modeMenu:
		err = runMenu(ctx, generator)
	case modeOnce:
		err = runOnce(ctx, generator, console)
	case modeSchedule:
		err = runSchedule(ctx, cfg, generator, log, console)
	default:
		err = fmt.Errorf("unknown mode %q", *mode)
	}

	if err != nil {
		console.Error("%v", err)
		closeLog()
		stop()
		os.Exit(1)
	}
}

func loadConfig(path string, console *logger.Console) (*config.Config, error) {
	if path == "" {
		if _, statErr := os.Stat(defaultConfig); statErr != nil {
			return config.Default(), nil
		}

		path = defaultConfig
	}

	console.Info("Loading configuration from: %s", path)

	return config.LoadConfig(path)
}

func applyFlags(cfg *config.Config, localFile, output, logLevel string) {
	if localFile != "" {
		cfg.News.File = localFile
	}

	if output != "" {
		cfg.Output.BasePath = output
	}

	if logLevel != "" {
		cfg.Logging.Level = logLevel
	}
}

func newLogger(cfg config.LoggingConfig) (*logger.Logger, func(), error) {
	if cfg.File == "" {
		return logger.NewLogger(cfg.Level), func() {}, nil
	}

	f, err := os.OpenFile(cfg.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, nil, err
	}

	return logger.NewLoggerWithWriter(cfg.Level, f), func() { _ = f.Close() }, nil
}

func runMenu(ctx context.Context, g *app.Generator) error {
	p := tea.NewProgram(menu.NewModel(ctx, g), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return fmt.Errorf("menu: %w", err)
	}

	return nil
}

func runOnce(ctx context.Context, g *app.Generator, console *logger.Console) error {
	console.Info("Generating today's market report...")

	result, err := g.Generate(ctx)
	if errors.Is(err, aggregator.ErrEmptyDataset) {
		console.Warning("No articles retrieved. Report not generated.")

		return nil
	}

	if err != nil {
		return err
	}

	console.Success("CSV report generated: %s", result.CSVPath)
	console.Success("ASCII text report generated: %s", result.TextPath)

	if result.ChartPath != "" {
		console.Success("Sentiment chart generated: %s", result.ChartPath)
	}

	if result.ManifestPath != "" {
		console.Info("Manifest written: %s", result.ManifestPath)
	}

	return nil
}

func runSchedule(ctx context.Context, cfg *config.Config, g *app.Generator, log *logger.Logger, console *logger.Console) error {
	s, err := scheduler.New(cfg.Schedule, g, log)
	if err != nil {
		return err
	}

	console.Info("Scheduled daily report: %q (%s). Press Ctrl+C to stop.", cfg.Schedule.Cron, cfg.Schedule.Timezone)

	return s.Run(ctx)
}

func printUsage() {
	fmt.Println("Stock & Crypto Market Report Generator")
	fmt.Println()
	fmt.Println("Usage:")
	fmt.Println("  marketreport [flags]")
	fmt.Println()
	fmt.Println("Modes:")
	fmt.Println("  menu      Interactive menu (default)")
	fmt.Println("  once      Generate today's report and exit")
	fmt.Println("  schedule  Generate a report at every tick of schedule.cron")
	fmt.Println()
	fmt.Println("Environment:")
	fmt.Printf("  %s  NewsAPI key (also read from .env)\n", config.APIKeyEnv)
	fmt.Println()
	fmt.Println("Flags:")
	flag.PrintDefaults()
}
