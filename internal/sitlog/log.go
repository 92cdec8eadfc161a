// Package sitlog implements the grammar of Sit's append-only history file:
// parsing a byte stream into an ordered sequence of line-oriented,
// indentation-nested records, serializing records back to bytes, and
// appending records to a file with single-write-plus-fsync durability.
//
// The parser is deliberately cue-agnostic: it knows nothing about what
// "commit" or "write" mean. A record is a cue word, its space-separated
// positional atoms, and an optional indented body. Higher layers
// (sittree, sitrepo) interpret cues.
package sitlog

import (
	"bytes"
	"fmt"
	"os"
	"strings"
)

// Record is one top-level entry in the history file: a commit, an
// operation, or a stash. Atoms preserve the exact single-space-delimited
// tokenization of the line's remainder, so that rejoining them with " "
// reconstructs the original text byte-for-byte (used by callers that treat
// a commit child field's atoms as one free-text value, e.g. "author" or
// "message").
type Record struct {
	Cue     string
	Atoms   []string
	Body    string // valid iff HasBody
	HasBody bool
}

// Value joins a record's atoms back into a single string, recovering a
// free-text field (e.g. a commit's "author" or "message" line) that the
// generic atom split would otherwise fragment on internal spaces.
func (r Record) Value() string {
	return strings.Join(r.Atoms, " ")
}

// ParseError reports a malformed record, naming the 1-based source line.
type ParseError struct {
	Line int
	Text string
	Msg  string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("sitlog: line %d: %s: %q", e.Line, e.Msg, e.Text)
}

// Parse decodes a complete history file into its ordered record sequence.
// Blank lines are insignificant and may appear anywhere, including at the
// end of the file. A line beginning with a space that does not follow a
// record is a structural error: an orphaned body line.
func Parse(data []byte) ([]Record, error) {
	text := string(data)
	// A well-formed history file ends with a newline; tolerate its absence
	// and tolerate trailing blank lines either way.
	text = strings.TrimRight(text, "\n")
	if text == "" {
		return nil, nil
	}
	lines := strings.Split(text, "\n")

	var records []Record
	i := 0
	for i < len(lines) {
		line := lines[i]
		if line == "" {
			i++
			continue
		}
		if strings.HasPrefix(line, " ") {
			return nil, &ParseError{Line: i + 1, Text: line, Msg: "orphaned body line (no preceding record)"}
		}

		cue, atoms := splitRecordLine(line)
		if cue == "" {
			return nil, &ParseError{Line: i + 1, Text: line, Msg: "empty cue"}
		}
		i++

		var bodyLines []string
		for i < len(lines) && strings.HasPrefix(lines[i], " ") {
			bodyLines = append(bodyLines, lines[i][1:])
			i++
		}

		rec := Record{Cue: cue, Atoms: atoms}
		if bodyLines != nil {
			rec.Body = strings.Join(bodyLines, "\n")
			rec.HasBody = true
		}
		records = append(records, rec)
	}

	return records, nil
}

// splitRecordLine splits a record's top-level line into its cue and
// positional atoms, preserving single-space delimiting exactly (no run
// collapsing), so Value() can invert it.
func splitRecordLine(line string) (cue string, atoms []string) {
	parts := strings.Split(line, " ")
	cue = parts[0]
	if len(parts) > 1 {
		atoms = parts[1:]
	}
	return cue, atoms
}

// Serialize renders a single record to its exact on-disk byte form: the
// cue line, followed by one space-prefixed line per body line.
func Serialize(r Record) []byte {
	var buf bytes.Buffer
	writeRecord(&buf, r)
	return buf.Bytes()
}

// SerializeAll renders a sequence of records, in order, concatenated.
func SerializeAll(records []Record) []byte {
	var buf bytes.Buffer
	for _, r := range records {
		writeRecord(&buf, r)
	}
	return buf.Bytes()
}

func writeRecord(buf *bytes.Buffer, r Record) {
	buf.WriteString(r.Cue)
	for _, a := range r.Atoms {
		buf.WriteByte(' ')
		buf.WriteString(a)
	}
	buf.WriteByte('\n')

	if r.HasBody {
		for _, line := range strings.Split(r.Body, "\n") {
			buf.WriteByte(' ')
			buf.WriteString(line)
			buf.WriteByte('\n')
		}
	}
}

// Append serializes records fully in memory, then writes them to path in a
// single positional append call and fsyncs before returning: serialize in
// memory, one append call, fsync before acknowledging. Callers are expected
// to hold an exclusive lock on path for the duration of the call (see
// sitrepo's locking).
func Append(path string, records []Record) error {
	data := SerializeAll(records)

	f, err := os.OpenFile(path, os.O_APPEND|os.O_WRONLY|os.O_CREATE, 0o644)
	if err != nil {
		return fmt.Errorf("sitlog: opening %s for append: %w", path, err)
	}
	defer func() { _ = f.Close() }()

	if _, err := f.Write(data); err != nil {
		return fmt.Errorf("sitlog: appending to %s: %w", path, err)
	}
	if err := f.Sync(); err != nil {
		return fmt.Errorf("sitlog: fsyncing %s: %w", path, err)
	}
	return nil
}

// ReadFile reads and parses the history file at path.
func ReadFile(path string) ([]Record, error) {
	data, err := os.ReadFile(path) //nolint:gosec // G304: path is the caller-resolved history file
	if err != nil {
		return nil, err
	}
	return Parse(data)
}

// Rewrite replaces the file's entire contents with records. This is the
// only non-append mutation the Log Model exposes; it backs
// Repository.reset() and the tail-rewrite phases of stash/unstash, both of
// which requires exclusive access. Callers must hold the
// exclusive history-file lock.
func Rewrite(path string, records []Record) error {
	data := SerializeAll(records)

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_TRUNC|os.O_CREATE, 0o644)
	if err != nil {
		return fmt.Errorf("sitlog: opening %s for rewrite: %w", path, err)
	}
	defer func() { _ = f.Close() }()

	if _, err := f.Write(data); err != nil {
		return fmt.Errorf("sitlog: rewriting %s: %w", path, err)
	}
	if err := f.Sync(); err != nil {
		return fmt.Errorf("sitlog: fsyncing %s: %w", path, err)
	}
	return nil
}

// Truncate drops every record after keepCount. A thin convenience over
// Rewrite for the common prefix-keeping case (Repository.reset()).
func Truncate(path string, records []Record, keepCount int) error {
	if keepCount > len(records) {
		return fmt.Errorf("sitlog: keepCount %d exceeds record count %d", keepCount, len(records))
	}
	return Rewrite(path, records[:keepCount])
}
