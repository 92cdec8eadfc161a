package main

import "fmt"

func runStatus(args []string) int {
	repo, code := loadRepo()
	if code != 0 {
		return code
	}
	staged, unstaged, err := repo.Status()
	if err != nil {
		return fatal(err)
	}

	if len(staged) > 0 {
		fmt.Println("Changes staged for commit:")
		for _, c := range staged {
			printChangeLine(c)
		}
	}
	if len(unstaged) > 0 {
		fmt.Println("Changes not staged:")
		for _, c := range unstaged {
			printChangeLine(c)
		}
	}
	if len(staged) == 0 && len(unstaged) == 0 {
		fmt.Println("nothing to commit, working tree clean")
	}
	return 0
}
