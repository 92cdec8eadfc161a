package sitrepo

import (
	"fmt"

	"github.com/nightlyone/lockfile"
)

// withExclusiveLock serializes a mutating operation against both other
// goroutines in this process (via the in-process RWMutex) and other
// processes (via an advisory PID-file lock beside the history file), per
// The file lock is acquired without blocking: a second process
// racing for the same history file gets an immediate I/O-failure error
// rather than hanging.
func (r *Repository) withExclusiveLock(fn func() error) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	lf, err := lockfile.New(r.historyPath + ".lock")
	if err != nil {
		return fmt.Errorf("sitrepo: creating lock handle: %w", err)
	}
	if err := lf.TryLock(); err != nil {
		return fmt.Errorf("sitrepo: acquiring exclusive lock on %s: %w", r.historyPath, err)
	}
	defer func() { _ = lf.Unlock() }()

	return fn()
}

// withSharedLock serializes a read-only query against concurrent mutators
// in this process. Sit's single-writer model means cross-process
// readers racing a writer mid-append is the only case the file lock would
// add protection for; nightlyone/lockfile exposes only an exclusive mode,
// so cross-process read concurrency is approximated by the in-process
// RWMutex alone.
func (r *Repository) withSharedLock(fn func() error) error {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return fn()
}
