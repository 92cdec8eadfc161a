package main

import "fmt"

func runStats(args []string) int {
	repo, code := loadRepo()
	if code != 0 {
		return code
	}
	stats, err := repo.Stats()
	if err != nil {
		return fatal(err)
	}
	fmt.Printf("commits:     %d\n", stats.CommitCount)
	fmt.Printf("files:       %d\n", stats.FileCount)
	fmt.Printf("directories: %d\n", stats.DirectoryCount)
	fmt.Printf("total bytes: %d\n", stats.TotalBytes)
	return 0
}
