package main

import "fmt"

func runStash(args []string) int {
	repo, code := loadRepo()
	if code != 0 {
		return code
	}
	records, err := repo.Stash()
	if err != nil {
		return fatal(err)
	}
	if records == nil {
		fmt.Println("no staged changes to stash")
		return 0
	}
	fmt.Printf("stashed %d operation(s)\n", len(records))
	return 0
}

func runUnstash(args []string) int {
	repo, code := loadRepo()
	if code != 0 {
		return code
	}
	records, err := repo.Unstash()
	if err != nil {
		return fatal(err)
	}
	if records == nil {
		fmt.Println("no stash to restore")
		return 0
	}
	fmt.Printf("restored %d operation(s)\n", len(records))
	return 0
}
