package sitrepo

import "errors"

// Sentinel errors for the Repository's recognized failure modes.
// Callers distinguish them with errors.Is; each is normally wrapped with
// path or query context via fmt.Errorf's %w.
var (
	// ErrNotARepository is returned when no history file exists where one
	// was expected.
	ErrNotARepository = errors.New("sitrepo: not a repository")

	// ErrAlreadyARepository is returned by Init when a history file
	// already exists in the target directory.
	ErrAlreadyARepository = errors.New("sitrepo: already a repository")

	// ErrEmptyStage is returned by Commit when there are no staged
	// operations to seal.
	ErrEmptyStage = errors.New("sitrepo: no staged changes")

	// ErrDirtyWorkingTree is returned by Checkout when the working
	// directory matches neither the staged tree nor the tree at any commit.
	ErrDirtyWorkingTree = errors.New("sitrepo: unstaged changes present")

	// ErrUnknownTarget is returned when a commit query cannot be resolved.
	ErrUnknownTarget = errors.New("sitrepo: unknown target")
)
