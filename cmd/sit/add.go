package main

import (
	"fmt"
	"os"
)

func runAdd(args []string) int {
	repo, code := loadRepo()
	if code != 0 {
		return code
	}
	if len(args) == 0 {
		fmt.Fprintln(os.Stderr, "sit: add requires at least one path")
		return 1
	}
	changes, err := repo.AddFiles(args)
	if err != nil {
		return fatal(err)
	}
	for _, c := range changes {
		printChangeLine(c)
	}
	return 0
}

// runStage is `stage`: add with no path restriction, staging every change
// currently visible in the working directory.
func runStage(args []string) int {
	repo, code := loadRepo()
	if code != 0 {
		return code
	}
	changes, err := repo.AddFiles(nil)
	if err != nil {
		return fatal(err)
	}
	for _, c := range changes {
		printChangeLine(c)
	}
	return 0
}
