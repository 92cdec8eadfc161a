package sitrepo

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/rybkr/sit/internal/sitscan"
	"github.com/rybkr/sit/internal/sittree"
)

var orderQueryPattern = regexp.MustCompile(`^\d+$`)

// findCommitLocked implements FindCommit's lookup without acquiring a lock
// itself, so Checkout can call it while already holding the exclusive lock.
func (r *Repository) findCommitLocked(query string) (Commit, error) {
	if orderQueryPattern.MatchString(query) {
		order, _ := strconv.Atoi(query)
		for _, rec := range r.records {
			if rec.Cue != "commit" {
				continue
			}
			c, err := parseCommit(rec)
			if err != nil {
				return Commit{}, fmt.Errorf("sitrepo: parsing commit record: %w", err)
			}
			if c.Order == order {
				return c, nil
			}
		}
		return Commit{}, fmt.Errorf("sitrepo: no commit with order %s: %w", query, ErrUnknownTarget)
	}

	for _, rec := range r.records {
		if rec.Cue != "commit" {
			continue
		}
		c, err := parseCommit(rec)
		if err != nil {
			return Commit{}, fmt.Errorf("sitrepo: parsing commit record: %w", err)
		}
		if strings.Contains(string(c.ID), query) {
			return c, nil
		}
	}
	return Commit{}, fmt.Errorf("sitrepo: no commit matching %q: %w", query, ErrUnknownTarget)
}

// FindCommit resolves a commit query: a string of digits
// matches a commit's order, anything else matches the first commit whose
// id contains query as a substring.
func (r *Repository) FindCommit(query string) (Commit, error) {
	var c Commit
	err := r.withSharedLock(func() error {
		var ferr error
		c, ferr = r.findCommitLocked(query)
		return ferr
	})
	return c, err
}

// ListCommits returns every commit record in file order, oldest first.
func (r *Repository) ListCommits() ([]Commit, error) {
	var commits []Commit
	err := r.withSharedLock(func() error {
		for _, rec := range r.records {
			if rec.Cue != "commit" {
				continue
			}
			c, err := parseCommit(rec)
			if err != nil {
				return fmt.Errorf("sitrepo: parsing commit record: %w", err)
			}
			commits = append(commits, c)
		}
		return nil
	})
	return commits, err
}

// Status reports staged changes (operations already recorded since the
// last commit) and unstaged changes (live working-directory edits not yet
// captured by any operation record).
func (r *Repository) Status() (staged, unstaged []sitscan.Change, err error) {
	err = r.withSharedLock(func() error {
		lastIdx := r.lastCommitIndex()
		committed, ferr := sittree.Fold(r.records[:lastIdx+1], nil)
		if ferr != nil {
			return fmt.Errorf("sitrepo: folding committed tree: %w", ferr)
		}
		stagedTree, ferr := sittree.Fold(r.records, nil)
		if ferr != nil {
			return fmt.Errorf("sitrepo: folding staged tree: %w", ferr)
		}
		staged = sitscan.Diff(committed, stagedTree, func(string) bool { return true }, sitscan.DefaultConfig())

		live, serr := sitscan.Scan(r.rootDir, nil, sitscan.DefaultConfig())
		if serr != nil {
			return fmt.Errorf("sitrepo: scanning working directory: %w", serr)
		}
		unstaged = sitscan.Diff(stagedTree, live, func(string) bool { return true }, sitscan.DefaultConfig())
		return nil
	})
	return staged, unstaged, err
}

// DiffWorking computes the change list between the staged tree and the
// live working directory, restricted to paths (or the whole tree when
// paths is empty) — the same computation AddFiles would append, without
// writing anything.
func (r *Repository) DiffWorking(paths []string) ([]sitscan.Change, error) {
	var changes []sitscan.Change
	err := r.withSharedLock(func() error {
		stagedTree, ferr := sittree.Fold(r.records, nil)
		if ferr != nil {
			return fmt.Errorf("sitrepo: folding staged tree: %w", ferr)
		}
		live, serr := sitscan.Scan(r.rootDir, paths, sitscan.DefaultConfig())
		if serr != nil {
			return fmt.Errorf("sitrepo: scanning %v: %w", paths, serr)
		}
		old := sittree.State{}
		for p, n := range stagedTree {
			if pathUnderTargets(p, paths) {
				old[p] = n
			}
		}
		changes = sitscan.Diff(old, live, func(string) bool { return true }, sitscan.DefaultConfig())
		return nil
	})
	return changes, err
}

// Tree returns the current staged tree, for callers (such as the `ls` CLI
// verb) that need to list every tracked path rather than a diff.
func (r *Repository) Tree() (sittree.State, error) {
	var tree sittree.State
	err := r.withSharedLock(func() error {
		var ferr error
		tree, ferr = sittree.Fold(r.records, nil)
		return ferr
	})
	return tree, err
}

// Stats is a minimal repository-wide summary used by the CLI's "stats" verb.
type Stats struct {
	CommitCount    int
	FileCount      int
	DirectoryCount int
	TotalBytes     int
}

// Stats summarizes the current staged tree.
func (r *Repository) Stats() (Stats, error) {
	var s Stats
	err := r.withSharedLock(func() error {
		for _, rec := range r.records {
			if rec.Cue == "commit" {
				s.CommitCount++
			}
		}
		tree, ferr := sittree.Fold(r.records, nil)
		if ferr != nil {
			return fmt.Errorf("sitrepo: folding staged tree: %w", ferr)
		}
		for _, n := range tree {
			switch n.Kind {
			case sittree.KindDirectory:
				s.DirectoryCount++
			case sittree.KindBinary:
				s.FileCount++
				s.TotalBytes += n.Size
			default:
				s.FileCount++
				s.TotalBytes += len(n.Content)
			}
		}
		return nil
	})
	return s, err
}
