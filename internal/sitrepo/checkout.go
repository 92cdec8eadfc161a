package sitrepo

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/rybkr/sit/internal/sitlog"
	"github.com/rybkr/sit/internal/sitscan"
	"github.com/rybkr/sit/internal/sittree"
)

// Checkout reconciles the working directory with a target tree: the staged
// tree when query is empty (a "fast-forward" back to the latest state), or
// the Tree Folder's output up to the commit query names. It refuses to run
// over unstaged changes.
func (r *Repository) Checkout(query string) error {
	return r.withExclusiveLock(func() error {
		stagedTree, err := sittree.Fold(r.records, nil)
		if err != nil {
			return fmt.Errorf("sitrepo: folding staged tree: %w", err)
		}

		live, err := sitscan.Scan(r.rootDir, nil, sitscan.DefaultConfig())
		if err != nil {
			return fmt.Errorf("sitrepo: scanning working directory: %w", err)
		}

		clean, err := r.matchesSomeHistoricalTree(live, stagedTree)
		if err != nil {
			return fmt.Errorf("sitrepo: checking working tree cleanliness: %w", err)
		}
		if !clean {
			return ErrDirtyWorkingTree
		}

		target := stagedTree
		if query != "" {
			c, err := r.findCommitLocked(query)
			if err != nil {
				return err
			}
			target, err = sittree.Fold(r.records, func(rec sitlog.Record) bool {
				tc, perr := parseCommit(rec)
				return perr == nil && tc.ID == c.ID
			})
			if err != nil {
				return fmt.Errorf("sitrepo: folding to commit %s: %w", c.ID, err)
			}
		}

		return reconcile(r.rootDir, stagedTree, target)
	})
}

// matchesSomeHistoricalTree reports whether live already corresponds to
// some point in the repository's history — the staged tree itself, or the
// Tree Folder's output at any individual commit. A prior checkout leaves
// the working directory at an older commit's tree without recording that
// anywhere in the log, so a later checkout (including the no-argument
// fast-forward) must not treat that legitimate divergence from stagedTree
// as dirty; only edits that don't correspond to any known tree are.
func (r *Repository) matchesSomeHistoricalTree(live, stagedTree sittree.State) (bool, error) {
	if statesEqual(stagedTree, live) {
		return true, nil
	}
	for i, rec := range r.records {
		if rec.Cue != "commit" {
			continue
		}
		tree, err := sittree.Fold(r.records[:i+1], nil)
		if err != nil {
			return false, err
		}
		if statesEqual(tree, live) {
			return true, nil
		}
	}
	return false, nil
}

func statesEqual(a, b sittree.State) bool {
	if len(a) != len(b) {
		return false
	}
	for p, an := range a {
		bn, ok := b[p]
		if !ok || an.Kind != bn.Kind {
			return false
		}
		if an.Kind != sittree.KindDirectory && an.Hash != bn.Hash {
			return false
		}
	}
	return true
}

// reconcile mutates the working directory so it matches target, given that
// current is already known to match it before any target-specific
// deletions — the tracked-file/tracked-directory sets to prune come from
// current.
func reconcile(rootDir string, current, target sittree.State) error {
	var trackedFiles, trackedDirs []string
	for p, n := range current {
		switch n.Kind {
		case sittree.KindDirectory:
			trackedDirs = append(trackedDirs, p)
		default:
			trackedFiles = append(trackedFiles, p)
		}
	}
	// Deepest-first, so child directories empty out before their parents
	// are considered for removal.
	sort.Slice(trackedDirs, func(i, j int) bool {
		return strings.Count(trackedDirs[i], "/") > strings.Count(trackedDirs[j], "/")
	})

	for _, p := range trackedFiles {
		if _, ok := target[p]; ok {
			continue
		}
		if err := os.Remove(filepath.Join(rootDir, p)); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("sitrepo: removing %s: %w", p, err)
		}
	}

	for _, p := range trackedDirs {
		if _, ok := target[p]; ok {
			continue
		}
		_ = os.Remove(filepath.Join(rootDir, p)) // skip errors: non-empty directories are left in place
	}

	var dirs, files []string
	for p, n := range target {
		if n.Kind == sittree.KindDirectory {
			dirs = append(dirs, p)
		} else {
			files = append(files, p)
		}
	}
	sort.Strings(dirs)
	sort.Strings(files)

	for _, p := range dirs {
		if err := os.MkdirAll(filepath.Join(rootDir, p), 0o755); err != nil {
			return fmt.Errorf("sitrepo: creating directory %s: %w", p, err)
		}
	}
	for _, p := range files {
		n := target[p]
		full := filepath.Join(rootDir, p)
		if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
			return fmt.Errorf("sitrepo: creating parent directory for %s: %w", p, err)
		}
		var data []byte
		if n.Kind == sittree.KindBinary {
			data = n.Bytes
		} else {
			data = []byte(n.Content)
		}
		if err := os.WriteFile(full, data, 0o644); err != nil { //nolint:gosec // G306: matches the working tree's normal file mode
			return fmt.Errorf("sitrepo: writing %s: %w", p, err)
		}
	}

	return nil
}
