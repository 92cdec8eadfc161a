// Package sitscan walks the working directory to build a live Tree State
// (the Scanner), and computes the minimal operation list turning one Tree
// State into another, including rename detection (the Differ).
package sitscan

import (
	"bytes"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/rybkr/sit/internal/sithash"
	"github.com/rybkr/sit/internal/sittree"
)

// Scan walks rootDir (the directory holding the history file) and returns
// the live Tree State. targets restricts the walk to specific files or
// directories relative to rootDir; an empty targets scans the whole tree.
func Scan(rootDir string, targets []string, cfg Config) (sittree.State, error) {
	cfg = cfg.withDefaults()
	matcher := newExtraMatcher(cfg.ExtraIgnores)

	if len(targets) == 0 {
		targets = []string{"."}
	}

	state := sittree.State{}
	seen := map[string]bool{}
	for _, target := range targets {
		abs := filepath.Join(rootDir, target)
		if err := walk(rootDir, abs, matcher, cfg, state, seen); err != nil {
			return nil, err
		}
	}
	return state, nil
}

func walk(rootDir, start string, matcher extraMatcher, cfg Config, state sittree.State, seen map[string]bool) error {
	return filepath.WalkDir(start, func(fsPath string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel, relErr := filepath.Rel(rootDir, fsPath)
		if relErr != nil {
			return relErr
		}
		rel = filepath.ToSlash(rel)
		if rel == "." {
			return nil
		}
		if seen[rel] {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}

		if d.IsDir() {
			if _, ignored := ignoredDirNames[d.Name()]; ignored || matcher.isIgnored(rel) {
				return filepath.SkipDir
			}
			seen[rel] = true
			state[rel] = sittree.Node{Kind: sittree.KindDirectory}
			return nil
		}

		if strings.HasSuffix(d.Name(), ".sit") || matcher.isIgnored(rel) {
			return nil
		}

		data, rerr := os.ReadFile(fsPath) //nolint:gosec // G304: fsPath is derived from a WalkDir callback under rootDir
		if rerr != nil {
			return fmt.Errorf("sitscan: reading %s: %w", fsPath, rerr)
		}
		seen[rel] = true

		if IsBinary(d.Name(), data, cfg) {
			state[rel] = sittree.Node{
				Kind:  sittree.KindBinary,
				Bytes: data,
				Size:  len(data),
				Hash:  sithash.BlobHashBinary(data),
			}
			return nil
		}

		text := string(data)
		state[rel] = sittree.Node{
			Kind:    sittree.KindFile,
			Content: text,
			Hash:    sithash.BlobHashText(text),
		}
		return nil
	})
}

// IsBinary classifies file content as binary: either the
// lowercase extension is in the known-binary set, or the first
// BinaryProbeBytes contain a zero byte. Exported so the Git import adapter
// can classify blobs read from git objects using the same rule the
// Scanner applies to the working directory.
func IsBinary(name string, data []byte, cfg Config) bool {
	ext := strings.ToLower(filepath.Ext(name))
	if _, ok := cfg.BinaryExtensions[ext]; ok {
		return true
	}
	probeLen := cfg.BinaryProbeBytes
	if probeLen > len(data) {
		probeLen = len(data)
	}
	return bytes.IndexByte(data[:probeLen], 0) >= 0
}

// sortedKeys returns a Tree State's paths in lexical order, giving the
// Scanner and Differ a deterministic "path traversal order".
func sortedKeys(s sittree.State) []string {
	keys := make([]string, 0, len(s))
	for k := range s {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
