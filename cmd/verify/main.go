// Package main provides the verify command: it checks a report folder
// against the SHA-256 digests in its manifest.
package main

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"marketreport/internal/logger"
	"marketreport/pkg/metadata"
)

var errNoReports = errors.New("no reports_* folders found")

func main() {
	dir := flag.String("dir", "", "Report folder to verify (e.g., reports_2026-10-19)")
	all := flag.String("all", "", "Verify every reports_* folder under this base path")
	flag.Parse()

	if *dir == "" && *all == "" {
		fmt.Println("Usage: verify -dir <report folder> | -all <base path>")
		flag.PrintDefaults()
		os.Exit(1)
	}

	console := logger.NewConsole(os.Stdout)

	dirs, err := reportDirs(*dir, *all)
	if err != nil {
		console.Error("%v", err)
		os.Exit(1)
	}

	failed := 0

	for _, d := range dirs {
		if !verify(console, d) {
			failed++
		}
	}

	if failed > 0 {
		console.Error("%d of %d report folders failed verification", failed, len(dirs))
		os.Exit(1)
	}
}

// reportDirs resolves the folders to check. -all must match at least one folder.
func reportDirs(dir, all string) ([]string, error) {
	if all == "" {
		return []string{dir}, nil
	}

	matches, err := filepath.Glob(filepath.Join(all, "reports_*"))
	if err != nil {
		return nil, fmt.Errorf("invalid base path: %w", err)
	}

	if len(matches) == 0 {
		return nil, fmt.Errorf("%w under %s", errNoReports, all)
	}

	sort.Strings(matches)

	return matches, nil
}

func verify(console *logger.Console, dir string) bool {
	m, err := metadata.Load(dir)
	if err != nil {
		console.Error("%s: %v", dir, err)
		return false
	}

	console.Info("%s: run %s, %d records, %d files", dir, m.RunID, m.Records, len(m.Files))

	ok, err := metadata.Verify(dir)
	if err != nil || !ok {
		console.Error("%s: %v", dir, err)
		return false
	}

	console.Success("%s: all files match their manifest digests", dir)

	return true
}
