// Package metadata builds and verifies the run manifest written next to each report.
//
// The manifest records who produced a report folder and a SHA-256 digest of
// every file in it, so a report can later be checked for tampering or
// truncation with Verify.
package metadata

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// FileName is the manifest's name inside a report folder.
const FileName = "manifest.yaml"

// Manifest verification errors.
var (
	ErrNoManifest   = errors.New("no manifest found")
	ErrNoHashFound  = errors.New("no hash found in manifest entry")
	ErrHashMismatch = errors.New("hash mismatch")
)

// FileDigest identifies one file of the report folder by name and content hash.
type FileDigest struct {
	Name   string `yaml:"name"`
	SHA256 string `yaml:"sha256"`
	Bytes  int64  `yaml:"bytes"`
}

// QueryEntry is the number of records one query contributed.
type QueryEntry struct {
	Query    string `yaml:"query"`
	Articles int    `yaml:"articles"`
}

// Manifest describes one report run.
type Manifest struct {
	GeneratedAt time.Time      `yaml:"generated_at"`
	Sentiment   map[string]int `yaml:"sentiment"`
	Impact      map[string]int `yaml:"impact"`
	RunID       string         `yaml:"run_id"`
	ReportDate  string         `yaml:"report_date"`
	Version     string         `yaml:"version"`
	Queries     []QueryEntry   `yaml:"queries"`
	Files       []FileDigest   `yaml:"files"`
	Records     int            `yaml:"records"`
}

// Version is the manifest format version.
const Version = "1"

// HashFile streams path through SHA-256.
func HashFile(path string) (FileDigest, error) {
	f, err := os.Open(path)
	if err != nil {
		return FileDigest{}, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	h := sha256.New()

	n, err := io.Copy(h, f)
	if err != nil {
		return FileDigest{}, fmt.Errorf("failed to hash %s: %w", path, err)
	}

	return FileDigest{
		Name:   filepath.Base(path),
		SHA256: hex.EncodeToString(h.Sum(nil)),
		Bytes:  n,
	}, nil
}

// AddFile hashes dir/name and appends it to the manifest.
func (m *Manifest) AddFile(dir, name string) error {
	digest, err := HashFile(filepath.Join(dir, name))
	if err != nil {
		return err
	}

	m.Files = append(m.Files, digest)

	return nil
}

// Write saves the manifest as YAML at dir/FileName and returns the path.
func (m *Manifest) Write(dir string) (string, error) {
	if m.Version == "" {
		m.Version = Version
	}

	data, err := yaml.Marshal(m)
	if err != nil {
		return "", fmt.Errorf("failed to marshal manifest: %w", err)
	}

	path := filepath.Join(dir, FileName)
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write manifest: %w", err)
	}

	return path, nil
}

// Load reads dir/FileName.
func Load(dir string) (*Manifest, error) {
	data, err := os.ReadFile(filepath.Join(dir, FileName))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w in %s", ErrNoManifest, dir)
		}

		return nil, fmt.Errorf("failed to read manifest: %w", err)
	}

	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("failed to parse manifest: %w", err)
	}

	return &m, nil
}

// Verify loads the manifest in dir and checks every listed file against its hash.
func Verify(dir string) (bool, error) {
	m, err := Load(dir)
	if err != nil {
		return false, err
	}

	for _, f := range m.Files {
		if f.SHA256 == "" {
			return false, fmt.Errorf("%w: %s", ErrNoHashFound, f.Name)
		}

		digest, err := HashFile(filepath.Join(dir, f.Name))
		if err != nil {
			return false, err
		}

		if digest.SHA256 != f.SHA256 {
			return false, fmt.Errorf("%w: %s: expected %s, got %s", ErrHashMismatch, f.Name, f.SHA256, digest.SHA256)
		}
	}

	return true, nil
}
