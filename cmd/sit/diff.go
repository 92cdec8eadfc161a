package main

func runDiff(args []string) int {
	repo, code := loadRepo()
	if code != 0 {
		return code
	}
	changes, err := repo.DiffWorking(args)
	if err != nil {
		return fatal(err)
	}
	for _, c := range changes {
		printChangeLine(c)
	}
	return 0
}
