package organize

import "dirsort/pkg/types"

// Organizer defines the interface for file organization operations
// This allows for dependency injection in tests and other parts of the application
type Organizer interface {
	// SetDryRun sets whether operations should be performed or just simulated
	SetDryRun(dryRun bool)

	// IsDryRun returns whether the organizer is in dry run mode
	IsDryRun() bool

	// Organize sorts the direct children of target into category folders
	Organize(target string) (types.Result, error)
}

// Ensure Engine implements the Organizer interface
var _ Organizer = (*Engine)(nil)
