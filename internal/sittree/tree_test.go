package sittree

import (
	"encoding/base64"
	"strconv"
	"testing"

	"github.com/rybkr/sit/internal/sithash"
	"github.com/rybkr/sit/internal/sitlog"
	"github.com/rybkr/sit/internal/sitpatch"
)

func mustParse(t *testing.T, text string) []sitlog.Record {
	t.Helper()
	recs, err := sitlog.Parse([]byte(text))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	return recs
}

func TestFoldTouchWriteDeleteRename(t *testing.T) {
	text := "touch a.txt\n" +
		"write b.txt " + string(sithash.BlobHashText("hello")) + "\n hello\n" +
		"mkdir sub\n" +
		"rename b.txt sub/b.txt\n" +
		"delete a.txt\n"
	recs := mustParse(t, text)

	s, err := Fold(recs, nil)
	if err != nil {
		t.Fatalf("Fold: %v", err)
	}

	if _, ok := s["a.txt"]; ok {
		t.Error("a.txt should have been deleted")
	}
	if _, ok := s["b.txt"]; ok {
		t.Error("b.txt should have been renamed away")
	}
	node, ok := s["sub/b.txt"]
	if !ok || node.Kind != KindFile || node.Content != "hello" {
		t.Errorf("sub/b.txt = %+v, ok=%v", node, ok)
	}
	dir, ok := s["sub"]
	if !ok || dir.Kind != KindDirectory {
		t.Errorf("sub = %+v, ok=%v", dir, ok)
	}
}

func TestFoldBinary(t *testing.T) {
	raw := []byte{0x00, 0x01, 0x02, 0xFF}
	encoded := base64.StdEncoding.EncodeToString(raw)
	hash := sithash.BlobHashBinary(raw)
	text := "binary img.bin " + string(hash) + " 4\n " + encoded + "\n"
	recs := mustParse(t, text)

	s, err := Fold(recs, nil)
	if err != nil {
		t.Fatalf("Fold: %v", err)
	}
	node, ok := s["img.bin"]
	if !ok || node.Kind != KindBinary || node.Size != 4 {
		t.Fatalf("img.bin = %+v, ok=%v", node, ok)
	}
	if string(node.Bytes) != string(raw) {
		t.Errorf("decoded bytes = %v, want %v", node.Bytes, raw)
	}
}

func TestFoldPatch(t *testing.T) {
	ops := sitpatch.Diff("hello world", "hello there world")
	body := sitpatch.EncodeBody(ops)
	newHash := sithash.BlobHashText("hello there world")

	writeRec := sitlog.Record{
		Cue:     "write",
		Atoms:   []string{"a.txt", string(sithash.BlobHashText("hello world"))},
		Body:    "hello world",
		HasBody: true,
	}
	patchRec := sitlog.Record{
		Cue:     "patch",
		Atoms:   []string{"a.txt", string(newHash)},
		Body:    body,
		HasBody: true,
	}
	recs := []sitlog.Record{writeRec, patchRec}

	s, err := Fold(recs, nil)
	if err != nil {
		t.Fatalf("Fold: %v", err)
	}
	node := s["a.txt"]
	if node.Content != "hello there world" {
		t.Errorf("patched content = %q", node.Content)
	}
	if node.Hash != newHash {
		t.Errorf("patched hash = %s, want %s", node.Hash, newHash)
	}
}

func TestFoldDeleteOfAbsentPathIsStructuralError(t *testing.T) {
	recs := mustParse(t, "delete nope.txt\n")
	_, err := Fold(recs, nil)
	var serr *StructuralError
	if !structuralErrorAs(err, &serr) {
		t.Fatalf("expected *StructuralError, got %T: %v", err, err)
	}
}

func TestFoldRenameOfMissingSourceIsStructuralError(t *testing.T) {
	recs := mustParse(t, "rename a.txt b.txt\n")
	_, err := Fold(recs, nil)
	var serr *StructuralError
	if !structuralErrorAs(err, &serr) {
		t.Fatalf("expected *StructuralError, got %T: %v", err, err)
	}
}

func TestFoldPatchOnMissingFileIsStructuralError(t *testing.T) {
	recs := mustParse(t, "patch a.txt "+string(sithash.BlobHashText("x"))+"\n delete 0 1\n")
	_, err := Fold(recs, nil)
	var serr *StructuralError
	if !structuralErrorAs(err, &serr) {
		t.Fatalf("expected *StructuralError, got %T: %v", err, err)
	}
}

func TestFoldUnknownCueIsStructuralError(t *testing.T) {
	recs := mustParse(t, "frobnicate a.txt\n")
	_, err := Fold(recs, nil)
	var serr *StructuralError
	if !structuralErrorAs(err, &serr) {
		t.Fatalf("expected *StructuralError, got %T: %v", err, err)
	}
}

func TestFoldStashIsInert(t *testing.T) {
	text := "touch a.txt\n" +
		"stash\n write b.txt " + string(sithash.BlobHashText("x")) + "\n  x\n"
	recs := mustParse(t, text)
	s, err := Fold(recs, nil)
	if err != nil {
		t.Fatalf("Fold: %v", err)
	}
	if _, ok := s["b.txt"]; ok {
		t.Error("stashed operations must not affect the folded tree")
	}
	if _, ok := s["a.txt"]; !ok {
		t.Error("a.txt from before the stash should remain")
	}
}

func TestFoldStopsAtMatchingCommit(t *testing.T) {
	text := "commit\n order 1\n id " + string(sithash.BlobHashText("c1")) + "\n" +
		"touch a.txt\n" +
		"commit\n order 2\n id " + string(sithash.BlobHashText("c2")) + "\n" +
		"touch b.txt\n"
	recs := mustParse(t, text)

	s, err := Fold(recs, func(c sitlog.Record) bool {
		return commitOrder(t, c) == 1
	})
	if err != nil {
		t.Fatalf("Fold: %v", err)
	}
	if len(s) != 0 {
		t.Errorf("stopping at the first commit should yield an empty tree, got %+v", s)
	}

	s2, err := Fold(recs, func(c sitlog.Record) bool {
		return commitOrder(t, c) == 2
	})
	if err != nil {
		t.Fatalf("Fold: %v", err)
	}
	if _, ok := s2["a.txt"]; !ok {
		t.Error("stopping at the second commit should include a.txt, sealed by the first")
	}
	if _, ok := s2["b.txt"]; ok {
		t.Error("stopping at the second commit must not include b.txt, which follows it")
	}
}

func commitOrder(t *testing.T, c sitlog.Record) int {
	t.Helper()
	children := mustParse(t, c.Body)
	for _, child := range children {
		if child.Cue == "order" {
			n, err := strconv.Atoi(child.Value())
			if err != nil {
				t.Fatalf("parsing order: %v", err)
			}
			return n
		}
	}
	t.Fatalf("no order field in commit body %q", c.Body)
	return -1
}

func structuralErrorAs(err error, target **StructuralError) bool {
	if se, ok := err.(*StructuralError); ok {
		*target = se
		return true
	}
	return false
}
