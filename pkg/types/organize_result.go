package types

import (
	"fmt"
	"strings"
)

// OutcomeKind says what happened to a single entry during a run
type OutcomeKind string

const (
	// Moved means the entry was renamed into its category folder
	Moved OutcomeKind = "moved"
	// Planned stands in for Moved when the run is a dry run
	Planned OutcomeKind = "planned"
	// SkippedDirectory means the entry is a directory and was left in place
	SkippedDirectory OutcomeKind = "skipped_directory"
	// SkippedExists means the destination was already occupied
	SkippedExists OutcomeKind = "skipped_exists"
	// Failed means an I/O error stopped this entry only
	Failed OutcomeKind = "error"
)

// Outcome holds the result of organizing a single directory entry
type Outcome struct {
	Entry           string      `json:"entry"`
	Kind            OutcomeKind `json:"outcome"`
	Category        string      `json:"category,omitempty"`
	SourcePath      string      `json:"source_path"`
	DestinationPath string      `json:"destination_path,omitempty"`
	Size            int64       `json:"size,omitempty"`
	CreatedFolder   bool        `json:"created_folder,omitempty"`
	Detail          string      `json:"detail,omitempty"`
	Err             error       `json:"-"`
}

// Line renders the outcome as a single human-readable progress line
func (o Outcome) Line() string {
	switch o.Kind {
	case Moved:
		return fmt.Sprintf("Moved %s → %s/", o.Entry, o.Category)
	case Planned:
		return fmt.Sprintf("Would move %s → %s/", o.Entry, o.Category)
	case SkippedDirectory:
		return fmt.Sprintf("Skipping directory: %s", o.Entry)
	case SkippedExists:
		return fmt.Sprintf("File already exists in %s/: %s", o.Category, o.Entry)
	case Failed:
		return fmt.Sprintf("Error processing %s: %s", o.Entry, o.Detail)
	default:
		return o.Entry
	}
}

// Counts tallies outcomes by kind
type Counts struct {
	Moved            int   `json:"moved"`
	Planned          int   `json:"planned"`
	SkippedDirectory int   `json:"skipped_directory"`
	SkippedExists    int   `json:"skipped_exists"`
	Failed           int   `json:"errors"`
	MovedBytes       int64 `json:"moved_bytes"`
}

// Result is the aggregate outcome of one organize run. OK is false only when
// the run stopped before touching any entry.
type Result struct {
	RunID    string    `json:"run_id"`
	Target   string    `json:"target"`
	OK       bool      `json:"ok"`
	DryRun   bool      `json:"dry_run,omitempty"`
	Message  string    `json:"message"`
	Outcomes []Outcome `json:"outcomes"`
}

// Counts tallies the run's outcomes
func (r *Result) Counts() Counts {
	var c Counts
	for _, o := range r.Outcomes {
		switch o.Kind {
		case Moved:
			c.Moved++
			c.MovedBytes += o.Size
		case Planned:
			c.Planned++
			c.MovedBytes += o.Size
		case SkippedDirectory:
			c.SkippedDirectory++
		case SkippedExists:
			c.SkippedExists++
		case Failed:
			c.Failed++
		}
	}
	return c
}

// HasErrors reports whether any entry failed
func (r *Result) HasErrors() bool {
	return r.Counts().Failed > 0
}

// Summary renders the one-line run summary
func (r *Result) Summary() string {
	if !r.OK {
		return r.Message
	}
	c := r.Counts()
	var parts []string
	if r.DryRun {
		parts = append(parts, fmt.Sprintf("%d would move", c.Planned))
	} else {
		parts = append(parts, fmt.Sprintf("%d moved", c.Moved))
	}
	parts = append(parts,
		fmt.Sprintf("%d skipped", c.SkippedDirectory+c.SkippedExists),
		fmt.Sprintf("%d errors", c.Failed),
	)
	return fmt.Sprintf("Organized %d entries: %s", len(r.Outcomes), strings.Join(parts, ", "))
}
