package sitrepo

import (
	"fmt"
	"strconv"

	"github.com/rybkr/sit/internal/sithash"
	"github.com/rybkr/sit/internal/sitlog"
)

// Commit is the parsed form of a `commit` top-level record: its indented
// child fields of a commit record.
type Commit struct {
	Author    string
	Timestamp string
	Order     int
	ID        sithash.Hash
	Parent    sithash.Hash // empty for the initial commit
	Message   string

	record sitlog.Record // the record this was parsed from
}

// parseCommit decodes a commit record's nested child fields. Field order on
// disk is not enforced; this simply looks each field up by cue.
func parseCommit(r sitlog.Record) (Commit, error) {
	if r.Cue != "commit" {
		return Commit{}, fmt.Errorf("sitrepo: not a commit record: cue %q", r.Cue)
	}
	children, err := sitlog.Parse([]byte(r.Body))
	if err != nil {
		return Commit{}, fmt.Errorf("sitrepo: parsing commit body: %w", err)
	}

	c := Commit{record: r}
	var haveOrder, haveID bool
	for _, child := range children {
		switch child.Cue {
		case "author":
			c.Author = child.Value()
		case "timestamp":
			c.Timestamp = child.Value()
		case "order":
			n, err := strconv.Atoi(child.Value())
			if err != nil {
				return Commit{}, fmt.Errorf("sitrepo: invalid commit order %q: %w", child.Value(), err)
			}
			c.Order = n
			haveOrder = true
		case "id":
			h, err := sithash.NewHash(child.Value())
			if err != nil {
				return Commit{}, fmt.Errorf("sitrepo: invalid commit id: %w", err)
			}
			c.ID = h
			haveID = true
		case "parent":
			h, err := sithash.NewHash(child.Value())
			if err != nil {
				return Commit{}, fmt.Errorf("sitrepo: invalid commit parent: %w", err)
			}
			c.Parent = h
		case "message":
			c.Message = child.Value()
		}
	}
	if !haveOrder || !haveID {
		return Commit{}, fmt.Errorf("sitrepo: commit record missing required order/id field")
	}
	return c, nil
}

// buildCommitRecord serializes a new commit in the canonical field order
// this package has always produced: author, timestamp, order,
// [message,] [parent,] id.
// Parent and message are omitted when empty, since both are optional per
// (an empty message line is still included in the commit hash preamble
// by sithash.CommitHash, independent of whether it is persisted).
func buildCommitRecord(author, timestamp string, order int, parent sithash.Hash, message string, id sithash.Hash) sitlog.Record {
	var children []sitlog.Record
	children = append(children, sitlog.Record{Cue: "author", Atoms: []string{author}})
	children = append(children, sitlog.Record{Cue: "timestamp", Atoms: []string{timestamp}})
	children = append(children, sitlog.Record{Cue: "order", Atoms: []string{strconv.Itoa(order)}})
	if message != "" {
		children = append(children, sitlog.Record{Cue: "message", Atoms: []string{message}})
	}
	if parent != "" {
		children = append(children, sitlog.Record{Cue: "parent", Atoms: []string{string(parent)}})
	}
	children = append(children, sitlog.Record{Cue: "id", Atoms: []string{string(id)}})

	body := trimTrailingNewline(sitlog.SerializeAll(children))
	return sitlog.Record{Cue: "commit", Body: body, HasBody: true}
}

// NewCommitRecord computes a commit's hash and builds its
// on-disk record, returning both. Exported so internal/gitimport can seal
// each imported git commit exactly the way Repository.Commit does, without
// reaching into this package's unexported helpers.
func NewCommitRecord(author, timestamp string, order int, parent sithash.Hash, message, stagedOpsText string) (sitlog.Record, sithash.Hash) {
	id := sithash.CommitHash(author, timestamp, message, parent, stagedOpsText)
	return buildCommitRecord(author, timestamp, order, parent, message, id), id
}
