// Package sitpatch derives, applies, and serializes character-level textual
// patches: the edit scripts a `patch` operation carries as its body instead
// of a full file rewrite. Derivation is built on
// github.com/sergi/go-diff/diffmatchpatch, the same character-diff engine
// go-git wraps for its own line-reconstruction helpers.
package sitpatch

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/sergi/go-diff/diffmatchpatch"

	"github.com/rybkr/sit/internal/sitlog"
)

// OpKind distinguishes the two patch operation forms.
type OpKind int

const (
	OpDelete OpKind = iota
	OpInsert
)

// Op is one position-indexed edit over the pre-patch character stream. Pos
// and Len/Text are byte offsets and byte lengths into the UTF-8 encoding of
// the string being patched.
type Op struct {
	Kind OpKind
	Pos  int
	Len  int    // meaningful for OpDelete
	Text string // meaningful for OpInsert
}

// Diff computes the edit script turning old into new. It walks a
// semantically-cleaned character diff left to right, emitting a delete or
// insert per non-equal run and advancing a cursor that tracks the offset as
// if edits were applied left to right against old: the cursor advances on
// equal runs and on inserts, but not on deletes, since a delete does not
// consume any of the bytes that later operations are still positioned
// against.
func Diff(old, new string) []Op {
	dmp := diffmatchpatch.New()
	diffs := dmp.DiffMain(old, new, false)
	diffs = dmp.DiffCleanupSemantic(diffs)

	var ops []Op
	pos := 0
	for _, d := range diffs {
		switch d.Type {
		case diffmatchpatch.DiffEqual:
			pos += len(d.Text)
		case diffmatchpatch.DiffDelete:
			ops = append(ops, Op{Kind: OpDelete, Pos: pos, Len: len(d.Text)})
		case diffmatchpatch.DiffInsert:
			ops = append(ops, Op{Kind: OpInsert, Pos: pos, Text: d.Text})
			pos += len(d.Text)
		}
	}
	return ops
}

// Apply replays ops, in order, against old and returns the result. Each
// op's Pos is interpreted against the buffer's state at the moment that op
// runs, which is exactly what the non-advancing delete cursor in Diff
// assumes.
func Apply(old string, ops []Op) (string, error) {
	buf := []byte(old)
	for i, op := range ops {
		switch op.Kind {
		case OpDelete:
			if op.Pos < 0 || op.Len < 0 || op.Pos+op.Len > len(buf) {
				return "", fmt.Errorf("sitpatch: op %d: delete %d,%d out of range for %d-byte buffer", i, op.Pos, op.Len, len(buf))
			}
			buf = append(buf[:op.Pos], buf[op.Pos+op.Len:]...)
		case OpInsert:
			if op.Pos < 0 || op.Pos > len(buf) {
				return "", fmt.Errorf("sitpatch: op %d: insert at %d out of range for %d-byte buffer", i, op.Pos, len(buf))
			}
			merged := make([]byte, 0, len(buf)+len(op.Text))
			merged = append(merged, buf[:op.Pos]...)
			merged = append(merged, op.Text...)
			merged = append(merged, buf[op.Pos:]...)
			buf = merged
		default:
			return "", fmt.Errorf("sitpatch: op %d: unknown kind %v", i, op.Kind)
		}
	}
	return string(buf), nil
}

// ShouldUsePatch implements the use-patch heuristic: a patch is preferred
// over a full write iff old is non-empty and the total changed-character
// length is under ratio times old's length.
func ShouldUsePatch(old string, ops []Op, ratio float64) bool {
	if len(old) == 0 {
		return false
	}
	changed := 0
	for _, op := range ops {
		switch op.Kind {
		case OpDelete:
			changed += op.Len
		case OpInsert:
			changed += len(op.Text)
		}
	}
	return float64(changed) < ratio*float64(len(old))
}

// EncodeBody renders ops as the indented body text of a `patch` operation
// record (one level of nesting already stripped — suitable to assign
// directly to a sitlog.Record's Body field with HasBody set).
func EncodeBody(ops []Op) string {
	records := make([]sitlog.Record, len(ops))
	for i, op := range ops {
		records[i] = opToRecord(op)
	}
	return strings.TrimSuffix(string(sitlog.SerializeAll(records)), "\n")
}

// DecodeBody parses a `patch` operation's body text back into its ops.
func DecodeBody(body string) ([]Op, error) {
	records, err := sitlog.Parse([]byte(body))
	if err != nil {
		return nil, fmt.Errorf("sitpatch: decoding patch body: %w", err)
	}
	ops := make([]Op, len(records))
	for i, r := range records {
		op, err := recordToOp(r)
		if err != nil {
			return nil, fmt.Errorf("sitpatch: op %d: %w", i, err)
		}
		ops[i] = op
	}
	return ops, nil
}

func opToRecord(op Op) sitlog.Record {
	switch op.Kind {
	case OpDelete:
		return sitlog.Record{
			Cue:   "delete",
			Atoms: []string{strconv.Itoa(op.Pos), strconv.Itoa(op.Len)},
		}
	case OpInsert:
		if strings.Contains(op.Text, "\n") {
			return sitlog.Record{
				Cue:     "insert",
				Atoms:   []string{strconv.Itoa(op.Pos)},
				Body:    op.Text,
				HasBody: true,
			}
		}
		atoms := append([]string{strconv.Itoa(op.Pos)}, strings.Split(op.Text, " ")...)
		return sitlog.Record{Cue: "insert", Atoms: atoms}
	default:
		panic(fmt.Sprintf("sitpatch: unknown op kind %v", op.Kind))
	}
}

func recordToOp(r sitlog.Record) (Op, error) {
	switch r.Cue {
	case "delete":
		if len(r.Atoms) != 2 {
			return Op{}, fmt.Errorf("delete record wants 2 atoms, got %d", len(r.Atoms))
		}
		pos, err := strconv.Atoi(r.Atoms[0])
		if err != nil {
			return Op{}, fmt.Errorf("invalid delete pos: %w", err)
		}
		length, err := strconv.Atoi(r.Atoms[1])
		if err != nil {
			return Op{}, fmt.Errorf("invalid delete len: %w", err)
		}
		return Op{Kind: OpDelete, Pos: pos, Len: length}, nil
	case "insert":
		if len(r.Atoms) < 1 {
			return Op{}, fmt.Errorf("insert record missing position atom")
		}
		pos, err := strconv.Atoi(r.Atoms[0])
		if err != nil {
			return Op{}, fmt.Errorf("invalid insert pos: %w", err)
		}
		var text string
		if r.HasBody {
			text = r.Body
		} else {
			text = strings.Join(r.Atoms[1:], " ")
		}
		return Op{Kind: OpInsert, Pos: pos, Text: text}, nil
	default:
		return Op{}, fmt.Errorf("unknown patch op cue %q", r.Cue)
	}
}
