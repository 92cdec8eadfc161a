// Package gitimport builds a brand-new Sit history file from an existing
// Git repository's commit log: each Git
// commit becomes one Sit commit, carrying the minimal operation list the
// Differ would have produced walking from the previous commit's tree to
// this one.
package gitimport

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/object"

	"github.com/rybkr/sit/internal/sithash"
	"github.com/rybkr/sit/internal/sitlog"
	"github.com/rybkr/sit/internal/sitrepo"
	"github.com/rybkr/sit/internal/sitscan"
	"github.com/rybkr/sit/internal/sittree"
)

// Import opens the Git repository at srcPath, replays its commit log
// oldest-first, and writes the result as a new Sit history file rooted at
// destDir. destDir must not already contain a history file.
func Import(srcPath, destDir string) (*sitrepo.Repository, error) {
	gitRepo, err := git.PlainOpen(srcPath)
	if err != nil {
		return nil, fmt.Errorf("gitimport: opening %s: %w", srcPath, err)
	}

	commits, err := orderedCommits(gitRepo)
	if err != nil {
		return nil, err
	}
	if len(commits) == 0 {
		return nil, fmt.Errorf("gitimport: %s has no commits", srcPath)
	}

	cfg := sitscan.DefaultConfig()
	var records []sitlog.Record
	prevState := sittree.State{}
	var parent sithash.Hash

	for i, c := range commits {
		tree, err := c.Tree()
		if err != nil {
			return nil, fmt.Errorf("gitimport: reading tree for commit %s: %w", c.Hash, err)
		}
		curState, err := treeToState(tree, cfg)
		if err != nil {
			return nil, fmt.Errorf("gitimport: walking tree for commit %s: %w", c.Hash, err)
		}

		changes := sitscan.Diff(prevState, curState, func(string) bool { return true }, cfg)
		opRecords := make([]sitlog.Record, len(changes))
		for j, ch := range changes {
			opRecords[j] = ch.Record
		}
		records = append(records, opRecords...)

		author := c.Author.Name
		timestamp := c.Author.When.UTC().Format(time.RFC3339)
		message := strings.TrimRight(c.Message, "\n")
		order := i + 1
		stagedOpsText := strings.TrimSuffix(string(sitlog.SerializeAll(opRecords)), "\n")

		commitRec, id := sitrepo.NewCommitRecord(author, timestamp, order, parent, message, stagedOpsText)
		records = append(records, commitRec)

		parent = id
		prevState = curState
	}

	return sitrepo.InitFromRecords(destDir, records)
}

// orderedCommits returns every commit reachable from HEAD, oldest first.
// go-git's Log walks newest-first from the given start point, so the
// result is reversed to oldest-first and then stably sorted by author time,
// which keeps commits with equal timestamps in that oldest-first order.
func orderedCommits(repo *git.Repository) ([]*object.Commit, error) {
	head, err := repo.Head()
	if err != nil {
		return nil, fmt.Errorf("gitimport: resolving HEAD: %w", err)
	}
	iter, err := repo.Log(&git.LogOptions{From: head.Hash()})
	if err != nil {
		return nil, fmt.Errorf("gitimport: reading commit log: %w", err)
	}
	defer iter.Close()

	var commits []*object.Commit
	if err := iter.ForEach(func(c *object.Commit) error {
		commits = append(commits, c)
		return nil
	}); err != nil {
		return nil, fmt.Errorf("gitimport: walking commit log: %w", err)
	}

	for i, j := 0, len(commits)-1; i < j; i, j = i+1, j-1 {
		commits[i], commits[j] = commits[j], commits[i]
	}
	sort.SliceStable(commits, func(i, j int) bool {
		return commits[i].Author.When.Before(commits[j].Author.When)
	})
	return commits, nil
}

// treeToState reads every blob in a Git tree into a Tree State, classifying
// binary content with the same rule sitscan.Scan applies to the working
// directory so imported blob hashes stay comparable to a live scan's.
func treeToState(tree *object.Tree, cfg sitscan.Config) (sittree.State, error) {
	state := sittree.State{}
	files := tree.Files()
	defer files.Close()

	err := files.ForEach(func(f *object.File) error {
		content, err := f.Contents()
		if err != nil {
			return fmt.Errorf("reading %s: %w", f.Name, err)
		}
		data := []byte(content)

		if sitscan.IsBinary(f.Name, data, cfg) {
			state[f.Name] = sittree.Node{
				Kind:  sittree.KindBinary,
				Bytes: data,
				Size:  len(data),
				Hash:  sithash.BlobHashBinary(data),
			}
			return nil
		}
		state[f.Name] = sittree.Node{
			Kind:    sittree.KindFile,
			Content: content,
			Hash:    sithash.BlobHashText(content),
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return state, nil
}
