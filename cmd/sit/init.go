package main

import (
	"fmt"
	"os"

	"github.com/rybkr/sit/internal/sitrepo"
)

func runInit(args []string) int {
	dir := "."
	if len(args) > 0 {
		dir = args[0]
	}
	repo, err := sitrepo.Init(dir)
	if err != nil {
		return fatal(err)
	}
	fmt.Printf("Initialized empty Sit repository in %s\n", repo.HistoryPath())
	return 0
}

func runFromGitArgs(args []string) (src, dest string, ok bool) {
	if len(args) == 0 {
		fmt.Fprintln(os.Stderr, "sit: from-git requires a source repository path")
		return "", "", false
	}
	src = args[0]
	dest = "."
	if len(args) > 1 {
		dest = args[1]
	}
	return src, dest, true
}
