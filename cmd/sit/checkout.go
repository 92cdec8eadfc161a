package main

func runCheckout(args []string) int {
	repo, code := loadRepo()
	if code != 0 {
		return code
	}
	query := ""
	if len(args) > 0 {
		query = args[0]
	}
	if err := repo.Checkout(query); err != nil {
		return fatal(err)
	}
	return 0
}
