//go:build e2e

package e2e

import (
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
)

// TestE1InitAddCommit checks that `sit init` creates a history file whose
// first line is "commit".
func TestE1InitAddCommit(t *testing.T) {
	dir := t.TempDir()
	runSit(t, dir, false, "init", dir)

	data, err := os.ReadFile(historyFile(dir))
	if err != nil {
		t.Fatalf("reading history file: %v", err)
	}
	lines := strings.SplitN(string(data), "\n", 2)
	if lines[0] != "commit" {
		t.Errorf("first line = %q, want %q", lines[0], "commit")
	}
}

// TestE2CheckoutByOrderRoundTrips checks that after two commits,
// `checkout 1` removes the later file, and a bare `checkout` restores it.
func TestE2CheckoutByOrderRoundTrips(t *testing.T) {
	dir := t.TempDir()
	runSit(t, dir, false, "init", dir)

	writeFile(t, dir, "favicon.ico", "not actually a png")
	runSit(t, dir, false, "add", "favicon.ico")
	runSit(t, dir, false, "commit", "add favicon")

	if !fileExists(dir, "favicon.ico") {
		t.Fatal("favicon.ico missing after commit")
	}

	runSit(t, dir, false, "checkout", "1")
	if fileExists(dir, "favicon.ico") {
		t.Error("favicon.ico still present after checkout 1")
	}

	runSit(t, dir, false, "checkout")
	if !fileExists(dir, "favicon.ico") {
		t.Error("favicon.ico not restored after checkout")
	}
}

// TestE3PatchHeuristicRoundTrips checks that a small edit to a large text
// file stages as a patch, and checking out and back restores the edited
// content exactly.
func TestE3PatchHeuristicRoundTrips(t *testing.T) {
	dir := t.TempDir()
	runSit(t, dir, false, "init", dir)

	original := strings.Repeat("a", 1000)
	writeFile(t, dir, "big.txt", original)
	runSit(t, dir, false, "add", "big.txt")
	runSit(t, dir, false, "commit", "add big.txt")

	edited := strings.Repeat("b", 100) + strings.Repeat("a", 900)
	writeFile(t, dir, "big.txt", edited)
	runSit(t, dir, false, "add", "big.txt")
	runSit(t, dir, false, "commit", "edit big.txt")

	data, err := os.ReadFile(historyFile(dir))
	if err != nil {
		t.Fatalf("reading history file: %v", err)
	}
	if !strings.Contains(string(data), "\npatch big.txt ") {
		t.Error("history file does not record the edit to big.txt as a patch")
	}

	runSit(t, dir, false, "checkout", "1")
	runSit(t, dir, false, "checkout")

	if got := readFile(t, dir, "big.txt"); got != edited {
		t.Errorf("big.txt after round-trip = %d bytes, want the edited content", len(got))
	}
}

// TestE4BinaryDetection checks that a .png extension is always classified
// as binary, and a zero byte with no recognized extension is also binary.
func TestE4BinaryDetection(t *testing.T) {
	dir := t.TempDir()
	runSit(t, dir, false, "init", dir)

	writeFile(t, dir, "pic.png", "not really png bytes")
	writeFile(t, dir, "mystery.dat", "has a zero byte here: \x00 end")
	runSit(t, dir, false, "add", "pic.png", "mystery.dat")
	runSit(t, dir, false, "commit", "add binaries")

	data, err := os.ReadFile(historyFile(dir))
	if err != nil {
		t.Fatalf("reading history file: %v", err)
	}
	if !strings.Contains(string(data), "binary pic.png") {
		t.Errorf("history file does not record pic.png as binary:\n%s", data)
	}
	if !strings.Contains(string(data), "binary mystery.dat") {
		t.Errorf("history file does not record mystery.dat as binary:\n%s", data)
	}
}

// TestE5RenameDetection checks that a delete+create with identical content
// in the same staging scan is emitted as a single rename record.
func TestE5RenameDetection(t *testing.T) {
	dir := t.TempDir()
	runSit(t, dir, false, "init", dir)

	writeFile(t, dir, "a.txt", "same content")
	runSit(t, dir, false, "add", "a.txt")
	runSit(t, dir, false, "commit", "add a.txt")

	if err := os.Remove(filepath.Join(dir, "a.txt")); err != nil {
		t.Fatalf("removing a.txt: %v", err)
	}
	writeFile(t, dir, "b.txt", "same content")
	runSit(t, dir, false, "stage")

	data, err := os.ReadFile(historyFile(dir))
	if err != nil {
		t.Fatalf("reading history file: %v", err)
	}
	if !strings.Contains(string(data), "rename a.txt b.txt") {
		t.Errorf("history file does not record a rename a.txt -> b.txt:\n%s", data)
	}
}

// TestE6GitImportParity checks that importing a 5-commit git repository
// produces a history file with exactly 5 commits.
func TestE6GitImportParity(t *testing.T) {
	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git not available")
	}

	srcDir := t.TempDir()
	runGit(t, srcDir, "init", "-q")
	runGit(t, srcDir, "config", "user.name", "Tester")
	runGit(t, srcDir, "config", "user.email", "tester@example.com")

	for i := 1; i <= 5; i++ {
		writeFile(t, srcDir, "file.txt", strings.Repeat("x", i))
		runGit(t, srcDir, "add", "file.txt")
		runGit(t, srcDir, "commit", "-q", "-m", "commit "+string(rune('0'+i)))
	}

	destDir := filepath.Join(t.TempDir(), "imported")
	runSit(t, t.TempDir(), false, "from-git", srcDir, destDir)

	data, err := os.ReadFile(historyFile(destDir))
	if err != nil {
		t.Fatalf("reading imported history file: %v", err)
	}
	// Every commit record has exactly one nested "author" field, so
	// counting those lines counts the commits.
	commitCount := strings.Count(string(data), "\n author ")
	if commitCount != 5 {
		t.Errorf("commitCount = %d, want 5", commitCount)
	}
}

func runGit(t *testing.T, dir string, args ...string) {
	t.Helper()
	cmd := exec.Command("git", args...)
	cmd.Dir = dir
	if out, err := cmd.CombinedOutput(); err != nil {
		t.Fatalf("git %s failed: %v\n%s", strings.Join(args, " "), err, out)
	}
}

// TestResetDropsStagedChanges checks that reset discards staged operations
// without touching the working directory.
func TestResetDropsStagedChanges(t *testing.T) {
	dir := t.TempDir()
	runSit(t, dir, false, "init", dir)

	writeFile(t, dir, "a.txt", "hello")
	runSit(t, dir, false, "add", "a.txt")
	runSit(t, dir, false, "reset")

	out, _ := runSit(t, dir, false, "status")
	if strings.Contains(out, "Changes staged for commit") {
		t.Errorf("status after reset = %q, want a clean staged tree", out)
	}
	if !fileExists(dir, "a.txt") {
		t.Error("reset should leave a.txt in the working directory")
	}
}

// TestCommitWithEmptyStageFails checks that committing with nothing staged
// is rejected.
func TestCommitWithEmptyStageFails(t *testing.T) {
	dir := t.TempDir()
	runSit(t, dir, false, "init", dir)
	runSit(t, dir, true, "commit", "nothing to commit")
}
