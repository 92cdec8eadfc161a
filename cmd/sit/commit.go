package main

import (
	"fmt"
	"log/slog"
	"os"
	"strings"
)

func runCommit(args []string) int {
	repo, code := loadRepo()
	if code != 0 {
		return code
	}
	if len(args) == 0 {
		fmt.Fprintln(os.Stderr, "sit: commit requires a message")
		return 1
	}
	message := strings.Join(args, " ")

	id, err := repo.Commit(message)
	if err != nil {
		slog.Error("commit failed", "err", err)
		return fatal(err)
	}
	slog.Info("committed", "id", id.Short())
	fmt.Printf("committed %s\n", id.Short())
	return 0
}

func runReset(args []string) int {
	repo, code := loadRepo()
	if code != 0 {
		return code
	}
	if err := repo.Reset(); err != nil {
		return fatal(err)
	}
	return 0
}
