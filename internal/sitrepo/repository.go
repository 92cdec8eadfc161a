// Package sitrepo orchestrates the history file: staging, committing,
// stashing, resetting, and checkout. It is the only package that touches
// the filesystem path of the history file itself; sittree and sitscan only
// ever see the parsed records or a scanned directory.
package sitrepo

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/rybkr/sit/internal/sithash"
	"github.com/rybkr/sit/internal/sitlog"
)

// Repository holds the parsed history file in memory and the lock state
// guarding it. Per the "log as source of truth" design note, records is the
// only state; every query re-folds it rather than keeping a derived tree
// cached across calls.
type Repository struct {
	historyPath string // absolute path to <dirname>.sit
	rootDir     string // absolute path to the tracked directory (historyPath's parent)
	records     []sitlog.Record

	mu sync.RWMutex
}

// findSitFile returns the first *.sit file (in directory-listing order)
// found directly inside dir — not
// recursively, since the history file always lives beside the files it
// tracks, never nested in a hidden subdirectory the way .git is.
func findSitFile(dir string) (string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return "", fmt.Errorf("sitrepo: reading %s: %w", dir, err)
	}
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if strings.HasSuffix(e.Name(), ".sit") {
			return filepath.Join(dir, e.Name()), nil
		}
	}
	return "", fmt.Errorf("sitrepo: no .sit file in %s: %w", dir, ErrNotARepository)
}

// Open loads the repository rooted at dir, reading and parsing its history
// file in full.
func Open(dir string) (*Repository, error) {
	absDir, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("sitrepo: resolving %s: %w", dir, err)
	}
	historyPath, err := findSitFile(absDir)
	if err != nil {
		return nil, err
	}
	records, err := sitlog.ReadFile(historyPath)
	if err != nil {
		return nil, fmt.Errorf("sitrepo: reading history file %s: %w", historyPath, err)
	}
	return &Repository{historyPath: historyPath, rootDir: absDir, records: records}, nil
}

// Init creates a new history file in dir containing exactly the initial
// commit. It fails if a *.sit file already exists there.
func Init(dir string) (*Repository, error) {
	absDir, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("sitrepo: resolving %s: %w", dir, err)
	}
	if _, err := findSitFile(absDir); err == nil {
		return nil, fmt.Errorf("sitrepo: %s: %w", absDir, ErrAlreadyARepository)
	}
	if err := os.MkdirAll(absDir, 0o755); err != nil {
		return nil, fmt.Errorf("sitrepo: creating %s: %w", absDir, err)
	}

	historyPath := filepath.Join(absDir, filepath.Base(absDir)+".sit")
	author := defaultAuthor()
	timestamp := nowISO8601()
	id := sithash.CommitHash(author, timestamp, "Initial commit", "", "")
	initial := buildCommitRecord(author, timestamp, 1, "", "Initial commit", id)

	if err := sitlog.Append(historyPath, []sitlog.Record{initial}); err != nil {
		return nil, fmt.Errorf("sitrepo: writing initial commit: %w", err)
	}
	return &Repository{historyPath: historyPath, rootDir: absDir, records: []sitlog.Record{initial}}, nil
}

// InitFromRecords creates a new history file in dir from a fully-built
// record sequence instead of synthesizing a fresh initial commit. Used by
// internal/gitimport, which builds its own sequence of operation and commit
// records from an external git repository's history and only needs
// Repository to seal it to disk under the usual naming convention. records
// must begin with a commit record, matching every other history file.
func InitFromRecords(dir string, records []sitlog.Record) (*Repository, error) {
	absDir, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("sitrepo: resolving %s: %w", dir, err)
	}
	if _, err := findSitFile(absDir); err == nil {
		return nil, fmt.Errorf("sitrepo: %s: %w", absDir, ErrAlreadyARepository)
	}
	if len(records) == 0 || records[0].Cue != "commit" {
		return nil, fmt.Errorf("sitrepo: InitFromRecords: records must start with a commit record")
	}
	if err := os.MkdirAll(absDir, 0o755); err != nil {
		return nil, fmt.Errorf("sitrepo: creating %s: %w", absDir, err)
	}

	historyPath := filepath.Join(absDir, filepath.Base(absDir)+".sit")
	if err := sitlog.Append(historyPath, records); err != nil {
		return nil, fmt.Errorf("sitrepo: writing imported history: %w", err)
	}
	return &Repository{historyPath: historyPath, rootDir: absDir, records: records}, nil
}

// lastCommitIndex returns the index of the last "commit" record in
// r.records, or -1 if none exists (which Init never allows, but Open
// tolerates a history file that was hand-crafted without one for testing
// the parser's tolerance).
func (r *Repository) lastCommitIndex() int {
	for i := len(r.records) - 1; i >= 0; i-- {
		if r.records[i].Cue == "commit" {
			return i
		}
	}
	return -1
}

// RootDir returns the absolute path to the directory this repository tracks.
func (r *Repository) RootDir() string {
	return r.rootDir
}

// HistoryPath returns the absolute path to the history file on disk.
func (r *Repository) HistoryPath() string {
	return r.historyPath
}
