package main

import (
	"fmt"
	"strings"

	"github.com/rybkr/sit/internal/termcolor"
)

func runLog(args []string, cw *termcolor.Writer) int {
	repo, code := loadRepo()
	if code != 0 {
		return code
	}
	commits, err := repo.ListCommits()
	if err != nil {
		return fatal(err)
	}

	// Newest first, matching `git log`'s default order.
	for i := len(commits) - 1; i >= 0; i-- {
		c := commits[i]
		fmt.Printf("%s %s\n", cw.Yellow("commit"), cw.Yellow(string(c.ID)))
		fmt.Printf("Author: %s\n", c.Author)
		fmt.Printf("Date:   %s\n", c.Timestamp)
		fmt.Println()
		for _, line := range strings.Split(c.Message, "\n") {
			fmt.Printf("    %s\n", line)
		}
		fmt.Println()
	}
	return 0
}
