// Package sittree folds an operation prefix of the history file into a
// Tree State: a snapshot of every known path's content. It is the only
// package that understands what the Operation alphabet in the history file
// grammar means; sitrepo drives it to compute committed and staged views
// and to answer checkout/diff queries.
package sittree

import (
	"encoding/base64"
	"fmt"
	"strconv"

	"github.com/rybkr/sit/internal/sithash"
	"github.com/rybkr/sit/internal/sitlog"
	"github.com/rybkr/sit/internal/sitpatch"
)

// Kind tags a Node's variant.
type Kind int

const (
	KindFile Kind = iota
	KindBinary
	KindDirectory
)

func (k Kind) String() string {
	switch k {
	case KindFile:
		return "file"
	case KindBinary:
		return "binary"
	case KindDirectory:
		return "directory"
	default:
		return "unknown"
	}
}

// Node is a Tree State value: a file (UTF-8 text), a binary blob, or a
// directory marker.
type Node struct {
	Kind    Kind
	Content string // KindFile: text content
	Bytes   []byte // KindBinary: decoded raw bytes
	Size    int    // KindBinary: declared size, from the operation record
	Hash    sithash.Hash
}

// State maps a Path to its Node. Insertion order carries no meaning;
// callers that need deterministic iteration should sort the keys.
type State map[string]Node

// Clone returns a shallow copy safe for independent mutation by a caller
// (Bytes slices are shared, but nodes are never mutated in place by this
// package after being set).
func (s State) Clone() State {
	out := make(State, len(s))
	for k, v := range s {
		out[k] = v
	}
	return out
}

// StructuralError reports an operation the Tree Folder cannot apply
// consistently: a patch or rename targeting a path that does not exist, a
// delete of an absent path, or an unrecognized operation cue. Per
// the failure semantics these operations carry, they are never silently
// skipped.
type StructuralError struct {
	Op   string
	Path string
	Msg  string
}

func (e *StructuralError) Error() string {
	return fmt.Sprintf("sittree: %s %s: %s", e.Op, e.Path, e.Msg)
}

// Fold applies records in order, folding the Operation alphabet into a
// Tree State. stop, if non-nil, is evaluated against every "commit"
// record encountered; the first time it returns true, folding halts
// immediately, before any record past that commit is applied. A nil stop
// folds the entire record sequence (the staged tree).
func Fold(records []sitlog.Record, stop func(sitlog.Record) bool) (State, error) {
	s := State{}
	for _, r := range records {
		switch r.Cue {
		case "commit":
			if stop != nil && stop(r) {
				return s, nil
			}
		case "stash":
			// Inert with respect to the Tree Folder: a stash record's body
			// holds previously-staged operations, not a record to replay.
		default:
			if err := applyOp(s, r); err != nil {
				return nil, err
			}
		}
	}
	return s, nil
}

func applyOp(s State, r sitlog.Record) error {
	switch r.Cue {
	case "touch":
		path, err := onePathAtom(r)
		if err != nil {
			return err
		}
		s[path] = Node{Kind: KindFile, Content: "", Hash: sithash.EmptyBlobHash()}
		return nil

	case "write":
		path, hash, err := pathHashAtoms(r, "write")
		if err != nil {
			return err
		}
		s[path] = Node{Kind: KindFile, Content: r.Body, Hash: hash}
		return nil

	case "binary":
		if len(r.Atoms) < 2 {
			return &StructuralError{Op: "binary", Path: r.Value(), Msg: "expected at least path and hash atoms"}
		}
		path := r.Atoms[0]
		hash, herr := sithash.NewHash(r.Atoms[1])
		if herr != nil {
			return &StructuralError{Op: "binary", Path: path, Msg: fmt.Sprintf("invalid hash: %v", herr)}
		}
		return applyBinary(s, r, path, hash)

	case "delete":
		path, err := onePathAtom(r)
		if err != nil {
			return err
		}
		if _, ok := s[path]; !ok {
			return &StructuralError{Op: "delete", Path: path, Msg: "path does not exist"}
		}
		delete(s, path)
		return nil

	case "mkdir":
		path, err := onePathAtom(r)
		if err != nil {
			return err
		}
		s[path] = Node{Kind: KindDirectory}
		return nil

	case "rename":
		if len(r.Atoms) != 2 {
			return &StructuralError{Op: "rename", Path: r.Value(), Msg: "expected exactly from and to atoms"}
		}
		from, to := r.Atoms[0], r.Atoms[1]
		node, ok := s[from]
		if !ok {
			return &StructuralError{Op: "rename", Path: from, Msg: "rename source does not exist"}
		}
		s[to] = node
		delete(s, from)
		return nil

	case "patch":
		path, hash, err := pathHashAtoms(r, "patch")
		if err != nil {
			return err
		}
		node, ok := s[path]
		if !ok || node.Kind != KindFile {
			return &StructuralError{Op: "patch", Path: path, Msg: "patch target is not an existing text file"}
		}
		ops, err := sitpatch.DecodeBody(r.Body)
		if err != nil {
			return &StructuralError{Op: "patch", Path: path, Msg: fmt.Sprintf("malformed patch body: %v", err)}
		}
		newContent, err := sitpatch.Apply(node.Content, ops)
		if err != nil {
			return &StructuralError{Op: "patch", Path: path, Msg: fmt.Sprintf("patch application failed: %v", err)}
		}
		s[path] = Node{Kind: KindFile, Content: newContent, Hash: hash}
		return nil

	default:
		return &StructuralError{Op: r.Cue, Path: r.Value(), Msg: "unknown operation cue"}
	}
}

func applyBinary(s State, r sitlog.Record, path string, hash sithash.Hash) error {
	raw, err := base64.StdEncoding.DecodeString(r.Body)
	if err != nil {
		return &StructuralError{Op: "binary", Path: path, Msg: fmt.Sprintf("invalid base64 body: %v", err)}
	}
	size := len(raw)
	if len(r.Atoms) >= 3 {
		if n, err := strconv.Atoi(r.Atoms[2]); err == nil {
			size = n
		}
	}
	s[path] = Node{Kind: KindBinary, Bytes: raw, Size: size, Hash: hash}
	return nil
}

func onePathAtom(r sitlog.Record) (string, error) {
	if len(r.Atoms) != 1 {
		return "", &StructuralError{Op: r.Cue, Path: r.Value(), Msg: "expected exactly one path atom"}
	}
	return r.Atoms[0], nil
}

func pathHashAtoms(r sitlog.Record, op string) (path string, hash sithash.Hash, err error) {
	if len(r.Atoms) < 2 {
		return "", "", &StructuralError{Op: op, Path: r.Value(), Msg: "expected path and hash atoms"}
	}
	path = r.Atoms[0]
	hash, herr := sithash.NewHash(r.Atoms[1])
	if herr != nil {
		return "", "", &StructuralError{Op: op, Path: path, Msg: fmt.Sprintf("invalid hash: %v", herr)}
	}
	return path, hash, nil
}
