package main

import (
	"fmt"
	"log/slog"
	"os"
	"runtime"

	"github.com/rybkr/sit/internal/cli"
	"github.com/rybkr/sit/internal/termcolor"
)

var (
	version   = "dev"
	commit    = "unknown"
	buildDate = "unknown"
)

func main() {
	initLogger()
	gf, args := parseGlobalFlags(os.Args[1:])

	for _, a := range args {
		if a == "--version" {
			printVersion()
			os.Exit(0)
		}
	}

	cw := termcolor.NewWriter(os.Stdout, gf.colorMode)

	app := cli.NewApp("sit", version)
	app.Stderr = os.Stderr

	app.Register(&cli.Command{
		Name:    "init",
		Summary: "Create a new repository",
		Usage:   "sit init [dir]",
		Run:     runInit,
	})
	app.Register(&cli.Command{
		Name:      "add",
		Summary:   "Stage changes for specific paths",
		Usage:     "sit add <paths...>",
		Examples:  []string{"sit add a.txt", "sit add src"},
		NeedsRepo: true,
		Run:       runAdd,
	})
	app.Register(&cli.Command{
		Name:      "stage",
		Summary:   "Stage every change in the working directory",
		Usage:     "sit stage",
		NeedsRepo: true,
		Run:       runStage,
	})
	app.Register(&cli.Command{
		Name:      "status",
		Summary:   "Show staged and unstaged changes",
		Usage:     "sit status",
		NeedsRepo: true,
		Run:       runStatus,
	})
	app.Register(&cli.Command{
		Name:      "stats",
		Summary:   "Show repository summary counts",
		Usage:     "sit stats",
		NeedsRepo: true,
		Run:       runStats,
	})
	app.Register(&cli.Command{
		Name:      "commit",
		Summary:   "Seal staged operations into a new commit",
		Usage:     "sit commit <message...>",
		NeedsRepo: true,
		Run:       runCommit,
	})
	app.Register(&cli.Command{
		Name:      "reset",
		Summary:   "Discard staged operations back to the last commit",
		Usage:     "sit reset",
		NeedsRepo: true,
		Run:       runReset,
	})
	app.Register(&cli.Command{
		Name:      "stash",
		Summary:   "Set staged operations aside",
		Usage:     "sit stash",
		NeedsRepo: true,
		Run:       runStash,
	})
	app.Register(&cli.Command{
		Name:      "unstash",
		Summary:   "Restore the most recently stashed operations",
		Usage:     "sit unstash",
		NeedsRepo: true,
		Run:       runUnstash,
	})
	app.Register(&cli.Command{
		Name:      "checkout",
		Summary:   "Reconcile the working directory with a commit",
		Usage:     "sit checkout [query]",
		Examples:  []string{"sit checkout", "sit checkout 3", "sit checkout a1b2c3"},
		NeedsRepo: true,
		Run:       runCheckout,
	})
	app.Register(&cli.Command{
		Name:      "ls",
		Summary:   "List every tracked file",
		Usage:     "sit ls",
		NeedsRepo: true,
		Run:       runLs,
	})
	app.Register(&cli.Command{
		Name:      "log",
		Summary:   "Show commit history",
		Usage:     "sit log",
		NeedsRepo: true,
		Run:       func(args []string) int { return runLog(args, cw) },
	})
	app.Register(&cli.Command{
		Name:      "diff",
		Summary:   "Show unstaged changes against the staged tree",
		Usage:     "sit diff [paths...]",
		NeedsRepo: true,
		Run:       runDiff,
	})
	app.Register(&cli.Command{
		Name:    "clone",
		Summary: "Copy a repository and check out its latest tree",
		Usage:   "sit clone <src> [dest]",
		Run:     runClone,
	})
	app.Register(&cli.Command{
		Name:    "from-git",
		Summary: "Import a Git repository's history as a new Sit repository",
		Usage:   "sit from-git <src> [dest]",
		Run:     runFromGit,
	})
	app.Register(&cli.Command{
		Name:    "version",
		Summary: "Show version information",
		Usage:   "sit version",
		Run:     func([]string) int { printVersion(); return 0 },
	})

	os.Exit(app.Run(args, cw))
}

func printVersion() {
	fmt.Printf("Sit %s\n", version)
	fmt.Printf("  commit:     %s\n", commit)
	fmt.Printf("  built:      %s\n", buildDate)
	fmt.Printf("  go version: %s\n", runtime.Version())
	fmt.Printf("  platform:   %s/%s\n", runtime.GOOS, runtime.GOARCH)
}

// initLogger reads SIT_LOG_LEVEL and SIT_LOG_FORMAT from the environment,
// constructs the appropriate slog.Handler, and installs it as the default
// logger via slog.SetDefault.
func initLogger() {
	level := slog.LevelInfo
	switch getEnv("SIT_LOG_LEVEL", "info") {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}

	opts := &slog.HandlerOptions{Level: level}

	var handler slog.Handler
	if getEnv("SIT_LOG_FORMAT", "text") == "json" {
		handler = slog.NewJSONHandler(os.Stderr, opts)
	} else {
		handler = slog.NewTextHandler(os.Stderr, opts)
	}

	slog.SetDefault(slog.New(handler))
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
