package sitscan

import (
	"encoding/base64"
	"strconv"

	"github.com/rybkr/sit/internal/sithash"
	"github.com/rybkr/sit/internal/sitlog"
	"github.com/rybkr/sit/internal/sitpatch"
	"github.com/rybkr/sit/internal/sittree"
)

// ChangeKind classifies one emitted Differ entry for display purposes; it
// has no bearing on how Record is applied by the Tree Folder.
type ChangeKind int

const (
	ChangeCreate ChangeKind = iota
	ChangeUpdate
	ChangeDelete
	ChangeRename
)

func (k ChangeKind) String() string {
	switch k {
	case ChangeCreate:
		return "create"
	case ChangeUpdate:
		return "update"
	case ChangeDelete:
		return "delete"
	case ChangeRename:
		return "rename"
	default:
		return "unknown"
	}
}

// Change is one entry in a Differ result: the operation record to append,
// alongside display metadata. For ChangeRename, From is the old path and
// Path is the new one.
type Change struct {
	Kind   ChangeKind
	Path   string
	From   string
	Record sitlog.Record

	// oldHash carries a delete candidate's pre-removal content hash, used
	// only internally by rename detection.
	oldHash sithash.Hash
}

// Diff computes the minimal change list turning old into new: creates/updates
// in path order (using cfg.PatchThresholdRatio to decide patch-vs-write for
// updated text files), then deletes (restricted to paths selector accepts),
// then renames replacing matched delete/write or delete/binary pairs.
// selector may be nil, meaning every absent path is eligible for deletion.
func Diff(old, new sittree.State, selector func(path string) bool, cfg Config) []Change {
	cfg = cfg.withDefaults()
	var creates []Change

	for _, p := range sortedKeys(new) {
		nn := new[p]
		on, existed := old[p]

		if !existed {
			creates = append(creates, fullChange(ChangeCreate, p, nn))
			continue
		}
		if on.Kind == nn.Kind {
			if nn.Kind == sittree.KindDirectory {
				continue // directories carry no content to compare
			}
			if on.Hash == nn.Hash {
				continue // unchanged
			}
			if nn.Kind == sittree.KindFile {
				creates = append(creates, updateFileChange(p, on, nn, cfg.PatchThresholdRatio))
			} else {
				creates = append(creates, fullChange(ChangeUpdate, p, nn))
			}
			continue
		}
		// Classification changed (e.g. text became binary, or vice versa).
		creates = append(creates, fullChange(ChangeUpdate, p, nn))
	}

	var deletes []Change
	for _, p := range sortedKeys(old) {
		if _, stillPresent := new[p]; stillPresent {
			continue
		}
		if selector != nil && !selector(p) {
			continue
		}
		on := old[p]
		change := Change{Kind: ChangeDelete, Path: p, Record: deleteRecord(p)}
		if on.Kind == sittree.KindFile || on.Kind == sittree.KindBinary {
			change.oldHash = on.Hash
		}
		deletes = append(deletes, change)
	}

	survivingCreates, survivingDeletes, renames := detectRenames(creates, deletes)

	result := make([]Change, 0, len(survivingCreates)+len(survivingDeletes)+len(renames))
	result = append(result, survivingCreates...)
	result = append(result, survivingDeletes...)
	result = append(result, renames...)
	return result
}

// detectRenames pairs each delete whose old content hash matches the new
// content hash of a full write or binary emission, replacing both with a
// single rename. Each delete and each create/update participates in at
// most one pairing; matches are found in new-tree path order, so the
// result is deterministic.
func detectRenames(creates, deletes []Change) (survivingCreates, survivingDeletes, renames []Change) {
	usedDelete := make([]bool, len(deletes))
	usedCreate := make([]bool, len(creates))

	for ci, c := range creates {
		if c.Record.Cue != "write" && c.Record.Cue != "binary" {
			continue
		}
		newHash := c.Record.Atoms[1]
		for di, d := range deletes {
			if usedDelete[di] || d.oldHash == "" {
				continue
			}
			if string(d.oldHash) == newHash {
				usedDelete[di] = true
				usedCreate[ci] = true
				renames = append(renames, Change{
					Kind:   ChangeRename,
					Path:   c.Path,
					From:   d.Path,
					Record: renameRecord(d.Path, c.Path),
				})
				break
			}
		}
	}

	for ci, c := range creates {
		if !usedCreate[ci] {
			survivingCreates = append(survivingCreates, c)
		}
	}
	for di, d := range deletes {
		if !usedDelete[di] {
			survivingDeletes = append(survivingDeletes, d)
		}
	}
	return survivingCreates, survivingDeletes, renames
}

func fullChange(kind ChangeKind, p string, nn sittree.Node) Change {
	switch nn.Kind {
	case sittree.KindDirectory:
		return Change{Kind: kind, Path: p, Record: mkdirRecord(p)}
	case sittree.KindBinary:
		return Change{Kind: kind, Path: p, Record: binaryRecord(p, nn)}
	default: // KindFile
		if nn.Content == "" {
			return Change{Kind: kind, Path: p, Record: touchRecord(p)}
		}
		return Change{Kind: kind, Path: p, Record: writeRecord(p, nn.Content)}
	}
}

func updateFileChange(p string, on, nn sittree.Node, patchThresholdRatio float64) Change {
	ops := sitpatch.Diff(on.Content, nn.Content)
	if sitpatch.ShouldUsePatch(on.Content, ops, patchThresholdRatio) {
		return Change{Kind: ChangeUpdate, Path: p, Record: patchRecord(p, nn.Hash, ops)}
	}
	return Change{Kind: ChangeUpdate, Path: p, Record: writeRecord(p, nn.Content)}
}

func touchRecord(p string) sitlog.Record {
	return sitlog.Record{Cue: "touch", Atoms: []string{p}}
}

func mkdirRecord(p string) sitlog.Record {
	return sitlog.Record{Cue: "mkdir", Atoms: []string{p}}
}

func deleteRecord(p string) sitlog.Record {
	return sitlog.Record{Cue: "delete", Atoms: []string{p}}
}

func renameRecord(from, to string) sitlog.Record {
	return sitlog.Record{Cue: "rename", Atoms: []string{from, to}}
}

func writeRecord(p, content string) sitlog.Record {
	hash := sithash.BlobHashText(content)
	return sitlog.Record{Cue: "write", Atoms: []string{p, string(hash)}, Body: content, HasBody: true}
}

func binaryRecord(p string, nn sittree.Node) sitlog.Record {
	encoded := base64.StdEncoding.EncodeToString(nn.Bytes)
	return sitlog.Record{
		Cue:     "binary",
		Atoms:   []string{p, string(nn.Hash), strconv.Itoa(nn.Size)},
		Body:    encoded,
		HasBody: true,
	}
}

func patchRecord(p string, hash sithash.Hash, ops []sitpatch.Op) sitlog.Record {
	return sitlog.Record{Cue: "patch", Atoms: []string{p, string(hash)}, Body: sitpatch.EncodeBody(ops), HasBody: true}
}
