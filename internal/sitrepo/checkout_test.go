package sitrepo

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func mustCommitFile(t *testing.T, repo *Repository, dir, rel, content, message string) {
	t.Helper()
	writeRepoFile(t, dir, rel, content)
	if _, err := repo.AddFiles([]string{rel}); err != nil {
		t.Fatalf("AddFiles: %v", err)
	}
	if _, err := repo.Commit(message); err != nil {
		t.Fatalf("Commit: %v", err)
	}
}

func TestCheckoutByOrderRemovesLaterFile(t *testing.T) {
	dir := t.TempDir()
	repo, err := Init(dir)
	if err != nil {
		t.Fatalf("Init: %v", err)
	}
	mustCommitFile(t, repo, dir, "favicon.ico", "icon-bytes", "add favicon")

	if err := repo.Checkout("1"); err != nil {
		t.Fatalf("Checkout(1): %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "favicon.ico")); !os.IsNotExist(err) {
		t.Errorf("favicon.ico should have been removed by checking out commit 1, stat err = %v", err)
	}

	if err := repo.Checkout(""); err != nil {
		t.Fatalf("Checkout(\"\"): %v", err)
	}
	data, err := os.ReadFile(filepath.Join(dir, "favicon.ico"))
	if err != nil {
		t.Fatalf("favicon.ico should be restored by fast-forward checkout: %v", err)
	}
	if string(data) != "icon-bytes" {
		t.Errorf("favicon.ico content = %q, want %q", data, "icon-bytes")
	}
}

func TestCheckoutRejectsDirtyWorkingTree(t *testing.T) {
	dir := t.TempDir()
	repo, err := Init(dir)
	if err != nil {
		t.Fatalf("Init: %v", err)
	}
	mustCommitFile(t, repo, dir, "a.txt", "hello", "add a")

	// An uncommitted, unstaged edit makes the working tree dirty.
	writeRepoFile(t, dir, "a.txt", "hello, modified")

	if err := repo.Checkout("1"); !errors.Is(err, ErrDirtyWorkingTree) {
		t.Errorf("Checkout error = %v, want ErrDirtyWorkingTree", err)
	}
}

func TestCheckoutUnknownQueryFails(t *testing.T) {
	dir := t.TempDir()
	repo, err := Init(dir)
	if err != nil {
		t.Fatalf("Init: %v", err)
	}
	if err := repo.Checkout("999"); !errors.Is(err, ErrUnknownTarget) {
		t.Errorf("Checkout error = %v, want ErrUnknownTarget", err)
	}
}
