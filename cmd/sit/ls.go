package main

import (
	"fmt"
	"sort"

	"github.com/rybkr/sit/internal/sittree"
)

func runLs(args []string) int {
	repo, code := loadRepo()
	if code != 0 {
		return code
	}
	tree, err := repo.Tree()
	if err != nil {
		return fatal(err)
	}

	paths := make([]string, 0, len(tree))
	for p, n := range tree {
		if n.Kind == sittree.KindDirectory {
			continue
		}
		paths = append(paths, p)
	}
	sort.Strings(paths)
	for _, p := range paths {
		fmt.Println(p)
	}
	return 0
}
