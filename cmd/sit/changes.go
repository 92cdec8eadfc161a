package main

import (
	"fmt"

	"github.com/rybkr/sit/internal/sitscan"
)

// printChangeLine renders one Differ entry the way `git add -v` reports a
// staged change: a short action word followed by the affected path(s).
func printChangeLine(c sitscan.Change) {
	switch c.Kind {
	case sitscan.ChangeCreate:
		fmt.Printf("add     %s\n", c.Path)
	case sitscan.ChangeUpdate:
		fmt.Printf("update  %s\n", c.Path)
	case sitscan.ChangeDelete:
		fmt.Printf("delete  %s\n", c.Path)
	case sitscan.ChangeRename:
		fmt.Printf("rename  %s -> %s\n", c.From, c.Path)
	}
}
