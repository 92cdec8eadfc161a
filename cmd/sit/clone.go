package main

import (
	"fmt"
	"os"

	"github.com/rybkr/sit/internal/sitlog"
	"github.com/rybkr/sit/internal/sitrepo"
)

func runClone(args []string) int {
	if len(args) == 0 {
		fmt.Fprintln(os.Stderr, "sit: clone requires a source repository path")
		return 1
	}
	src := args[0]
	dest := "."
	if len(args) > 1 {
		dest = args[1]
	}

	srcRepo, err := sitrepo.Open(src)
	if err != nil {
		return fatal(err)
	}
	records, err := sitlog.ReadFile(srcRepo.HistoryPath())
	if err != nil {
		return fatal(err)
	}

	repo, err := sitrepo.InitFromRecords(dest, records)
	if err != nil {
		return fatal(err)
	}
	if err := repo.Checkout(""); err != nil {
		return fatal(err)
	}

	fmt.Printf("Cloned into %s\n", repo.RootDir())
	return 0
}
