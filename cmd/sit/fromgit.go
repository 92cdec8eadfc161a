package main

import (
	"fmt"
	"log/slog"

	"github.com/rybkr/sit/internal/gitimport"
	"github.com/rybkr/sit/internal/progress"
)

func runFromGit(args []string) int {
	src, dest, ok := runFromGitArgs(args)
	if !ok {
		return 1
	}

	slog.Info("importing git history", "src", src, "dest", dest)
	sp := progress.New("importing git history")
	sp.Start()
	repo, err := gitimport.Import(src, dest)
	sp.Stop()
	if err != nil {
		slog.Error("git import failed", "src", src, "err", err)
		return fatal(err)
	}
	stats, err := repo.Stats()
	if err != nil {
		return fatal(err)
	}
	slog.Info("git import complete", "commits", stats.CommitCount, "dest", repo.HistoryPath())
	fmt.Printf("Imported %d commits into %s\n", stats.CommitCount, repo.HistoryPath())
	return 0
}
