package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/rybkr/sit/internal/sitrepo"
)

// fatal prints err to stderr, picking a message for each recognized error
// kind, and returns the exit code the caller should propagate via os.Exit.
func fatal(err error) int {
	switch {
	case errors.Is(err, sitrepo.ErrNotARepository):
		fmt.Fprintf(os.Stderr, "sit: not a repository (no .sit file found)\n")
	case errors.Is(err, sitrepo.ErrAlreadyARepository):
		fmt.Fprintf(os.Stderr, "sit: already a repository\n")
	case errors.Is(err, sitrepo.ErrEmptyStage):
		fmt.Fprintf(os.Stderr, "sit: no staged changes\n")
	case errors.Is(err, sitrepo.ErrDirtyWorkingTree):
		fmt.Fprintf(os.Stderr, "sit: working tree has unstaged changes\n")
	case errors.Is(err, sitrepo.ErrUnknownTarget):
		fmt.Fprintf(os.Stderr, "sit: unknown target\n")
	default:
		fmt.Fprintf(os.Stderr, "sit: %v\n", err)
	}
	return 1
}

func loadRepo() (*sitrepo.Repository, int) {
	repo, err := sitrepo.Open(".")
	if err != nil {
		return nil, fatal(err)
	}
	return repo, 0
}
