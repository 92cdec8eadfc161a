package sitrepo

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/rybkr/sit/internal/sithash"
	"github.com/rybkr/sit/internal/sitlog"
	"github.com/rybkr/sit/internal/sitscan"
	"github.com/rybkr/sit/internal/sittree"
)

// AddFiles scans paths (relative to the repository root), diffs the result
// against the staged tree restricted to those same paths, and appends the
// emitted operations. It returns the change list the Differ produced.
func (r *Repository) AddFiles(paths []string) ([]sitscan.Change, error) {
	var changes []sitscan.Change
	err := r.withExclusiveLock(func() error {
		staged, err := sittree.Fold(r.records, nil)
		if err != nil {
			return fmt.Errorf("sitrepo: folding staged tree: %w", err)
		}

		live, err := sitscan.Scan(r.rootDir, paths, sitscan.DefaultConfig())
		if err != nil {
			return fmt.Errorf("sitrepo: scanning %v: %w", paths, err)
		}

		old := sittree.State{}
		for p, n := range staged {
			if pathUnderTargets(p, paths) {
				old[p] = n
			}
		}

		changes = sitscan.Diff(old, live, func(string) bool { return true }, sitscan.DefaultConfig())
		if len(changes) == 0 {
			return nil
		}

		records := make([]sitlog.Record, len(changes))
		for i, c := range changes {
			records[i] = c.Record
		}
		if err := sitlog.Append(r.historyPath, records); err != nil {
			return fmt.Errorf("sitrepo: appending staged operations: %w", err)
		}
		r.records = append(r.records, records...)
		return nil
	})
	return changes, err
}

// pathUnderTargets reports whether p (a repository-relative path) falls
// inside one of targets, including the target itself. An empty targets
// list is treated as "everything" (AddFiles(nil) scans the whole tree).
func pathUnderTargets(p string, targets []string) bool {
	if len(targets) == 0 {
		return true
	}
	for _, t := range targets {
		t = filepath.ToSlash(filepath.Clean(t))
		if t == "." || p == t || strings.HasPrefix(p, t+"/") {
			return true
		}
	}
	return false
}

// Reset drops every staged operation, truncating the file back to the
// record immediately following the last commit.
func (r *Repository) Reset() error {
	return r.withExclusiveLock(func() error {
		keep := r.lastCommitIndex() + 1
		if err := sitlog.Truncate(r.historyPath, r.records, keep); err != nil {
			return fmt.Errorf("sitrepo: resetting: %w", err)
		}
		r.records = r.records[:keep]
		return nil
	})
}

// Stash collects every staged operation into a single stash record,
// removing them from the staged region. It is a no-op (returns nil, nil)
// when there is nothing staged.
func (r *Repository) Stash() ([]sitlog.Record, error) {
	var collected []sitlog.Record
	err := r.withExclusiveLock(func() error {
		start := r.lastCommitIndex() + 1
		if start >= len(r.records) {
			return nil
		}
		collected = append([]sitlog.Record(nil), r.records[start:]...)

		body := trimTrailingNewline(sitlog.SerializeAll(collected))
		stashRec := sitlog.Record{Cue: "stash", Body: body, HasBody: true}

		newRecords := append(append([]sitlog.Record(nil), r.records[:start]...), stashRec)
		if err := sitlog.Rewrite(r.historyPath, newRecords); err != nil {
			return fmt.Errorf("sitrepo: stashing: %w", err)
		}
		r.records = newRecords
		return nil
	})
	if err != nil {
		return nil, err
	}
	return collected, nil
}

// Unstash restores the last stash record's children as top-level staged
// records again, removing the stash record itself. It is a no-op (returns
// nil, nil) when there is no stash in the staged region.
func (r *Repository) Unstash() ([]sitlog.Record, error) {
	var restored []sitlog.Record
	err := r.withExclusiveLock(func() error {
		start := r.lastCommitIndex() + 1

		stashIdx := -1
		for i := len(r.records) - 1; i >= start; i-- {
			if r.records[i].Cue == "stash" {
				stashIdx = i
				break
			}
		}
		if stashIdx == -1 {
			return nil
		}

		children, err := sitlog.Parse([]byte(r.records[stashIdx].Body))
		if err != nil {
			return fmt.Errorf("sitrepo: parsing stash body: %w", err)
		}

		newRecords := make([]sitlog.Record, 0, len(r.records)+len(children)-1)
		newRecords = append(newRecords, r.records[:stashIdx]...)
		newRecords = append(newRecords, children...)
		newRecords = append(newRecords, r.records[stashIdx+1:]...)

		if err := sitlog.Rewrite(r.historyPath, newRecords); err != nil {
			return fmt.Errorf("sitrepo: unstashing: %w", err)
		}
		r.records = newRecords
		restored = children
		return nil
	})
	if err != nil {
		return nil, err
	}
	return restored, nil
}

// Commit seals every staged operation under a new commit record, computing
// its hash over metadata plus the exact serialized bytes of the operations
// being sealed. It requires at least one staged operation.
func (r *Repository) Commit(message string) (sithash.Hash, error) {
	var id sithash.Hash
	err := r.withExclusiveLock(func() error {
		lastIdx := r.lastCommitIndex()
		start := lastIdx + 1
		staged := r.records[start:]
		if len(staged) == 0 {
			return ErrEmptyStage
		}

		var parent sithash.Hash
		order := 0
		if lastIdx >= 0 {
			prev, err := parseCommit(r.records[lastIdx])
			if err != nil {
				return fmt.Errorf("sitrepo: parsing prior commit: %w", err)
			}
			parent = prev.ID
			order = prev.Order
		}

		author := defaultAuthor()
		timestamp := nowISO8601()
		stagedOpsText := trimTrailingNewline(sitlog.SerializeAll(staged))
		newID := sithash.CommitHash(author, timestamp, message, parent, stagedOpsText)
		rec := buildCommitRecord(author, timestamp, order+1, parent, message, newID)

		if err := sitlog.Append(r.historyPath, []sitlog.Record{rec}); err != nil {
			return fmt.Errorf("sitrepo: appending commit: %w", err)
		}
		r.records = append(r.records, rec)
		id = newID
		return nil
	})
	return id, err
}
