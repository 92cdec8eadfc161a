// Package sithash computes the two hash spaces Sit relies on: blob hashes
// over file content, and commit hashes over a canonical commit preamble.
// Both are SHA-1, reusing Git's own object-hashing scheme wherever the
// domain allows it.
package sithash

import (
	"crypto/sha1" //nolint:gosec // Sit deliberately mirrors Git's SHA-1 blob convention for import compatibility
	"encoding/hex"
	"fmt"
	"strings"
)

// Hash is a 40-character lowercase hex-encoded SHA-1 digest.
type Hash string

// NewHash validates and wraps a 40-character hex string as a Hash.
func NewHash(s string) (Hash, error) {
	if len(s) != 40 {
		return "", fmt.Errorf("sithash: invalid hash length: %d", len(s))
	}
	if _, err := hex.DecodeString(s); err != nil {
		return "", fmt.Errorf("sithash: invalid hash: %w", err)
	}
	return Hash(s), nil
}

// Short returns the first 7 characters of the hash, or the full hash if shorter.
func (h Hash) Short() string {
	if len(h) < 7 {
		return string(h)
	}
	return string(h)[:7]
}

func sum(parts ...[]byte) Hash {
	h := sha1.New() //nolint:gosec // see package doc
	for _, p := range parts {
		h.Write(p)
	}
	return Hash(hex.EncodeToString(h.Sum(nil)))
}

// BlobHashText computes the Git-compatible blob hash of text content: SHA-1
// over "blob <len>\0<content>", so that hashes produced here match
// `git hash-object` for the same bytes.
func BlobHashText(content string) Hash {
	header := fmt.Sprintf("blob %d\x00", len(content))
	return sum([]byte(header), []byte(content))
}

// BlobHashBinary computes the binary blob hash: plain SHA-1 of the raw
// bytes, with no Git blob header, since binary files in Sit are stored as
// base64-encoded bodies rather than loose objects.
func BlobHashBinary(content []byte) Hash {
	return sum(content)
}

var emptyBlobHash = BlobHashText("")

// EmptyBlobHash returns the blob hash of the empty text file, used by the
// Tree Folder to stamp `touch` operations with a hash uniformly.
func EmptyBlobHash() Hash {
	return emptyBlobHash
}

// CommitHash computes a commit's hash: SHA-1 over lines joined by "\n" in
// a fixed order, with parent and staged-operations lines included only
// when present. message is always emitted, even when empty.
func CommitHash(author, timestamp, message string, parent Hash, stagedOpsText string) Hash {
	lines := []string{
		"author " + author,
		"timestamp " + timestamp,
		"message " + message,
	}
	if parent != "" {
		lines = append(lines, "parent "+string(parent))
	}
	if stagedOpsText != "" {
		lines = append(lines, stagedOpsText)
	}
	return sum([]byte(strings.Join(lines, "\n")))
}
