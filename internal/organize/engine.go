package organize

import (
	"os"
	"path/filepath"

	"dirsort/internal/errors"
	"dirsort/internal/log"
	"dirsort/pkg/types"

	"github.com/google/uuid"
)

// Engine sorts the direct children of a directory into category folders.
// Entries are processed one at a time; the engine holds no state between
// runs and does no locking of its own.
type Engine struct {
	dryRun   bool
	observer func(types.Outcome)
}

// Option configures an Engine
type Option func(*Engine)

// WithDryRun plans moves without creating folders or renaming anything
func WithDryRun(dryRun bool) Option {
	return func(e *Engine) {
		e.dryRun = dryRun
	}
}

// WithObserver registers fn to receive every outcome as soon as it is known
func WithObserver(fn func(types.Outcome)) Option {
	return func(e *Engine) {
		e.observer = fn
	}
}

// New creates a new Organization Engine instance
func New(opts ...Option) *Engine {
	e := &Engine{}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// SetDryRun sets whether operations should be performed or just simulated
func (e *Engine) SetDryRun(dryRun bool) {
	e.dryRun = dryRun
}

// IsDryRun returns whether the engine is in dry run mode
func (e *Engine) IsDryRun() bool {
	return e.dryRun
}

// Organize moves every regular file directly under target into its category
// folder. It returns an error only when target is missing, unreadable, not a
// directory or empty; in that case nothing has been touched and the result
// carries the same message with OK set to false. Per-entry failures are
// recorded in the outcomes and do not stop the run.
func (e *Engine) Organize(target string) (types.Result, error) {
	result := types.Result{
		RunID:  uuid.NewString(),
		Target: target,
		DryRun: e.dryRun,
	}
	logger := log.LogWithFields(log.F("run_id", result.RunID), log.F("target", target))

	entries, err := snapshot(target)
	if err != nil {
		log.LogWithError(err).With(log.F("run_id", result.RunID)).Error("Fatal error")
		result.Message = err.Error()
		return result, err
	}

	logger.With(log.F("entries", len(entries)), log.F("dry_run", e.dryRun)).Info("Starting to organize")

	created := make(map[string]bool)
	result.Outcomes = make([]types.Outcome, 0, len(entries))
	for _, entry := range entries {
		outcome := e.organizeEntry(target, entry.Name(), created)
		result.Outcomes = append(result.Outcomes, outcome)
		e.report(outcome)
	}

	result.OK = true
	result.Message = result.Summary()
	logger.With(log.F("outcomes", len(result.Outcomes))).Info(result.Message)
	return result, nil
}

// snapshot validates target and lists its entries
func snapshot(target string) ([]os.DirEntry, error) {
	info, err := os.Stat(target)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.NewNotFoundError("target folder does not exist", target, err)
		}
		return nil, errors.NewNotFoundError("target folder is not accessible", target, err)
	}
	if !info.IsDir() {
		return nil, errors.NewNotFoundError("target is not a directory", target, nil)
	}

	entries, err := os.ReadDir(target)
	if err != nil {
		return nil, errors.NewNotFoundError("target folder is not readable", target, err)
	}
	if len(entries) == 0 {
		return nil, errors.NewEmptyInputError(target)
	}
	return entries, nil
}

// organizeEntry handles a single entry. created tracks category folders this
// run has made, so only the first entry into a new folder reports it.
func (e *Engine) organizeEntry(target, name string, created map[string]bool) types.Outcome {
	src := filepath.Join(target, name)
	outcome := types.Outcome{Entry: name, SourcePath: src}

	info, err := os.Stat(src)
	if err != nil {
		return failed(outcome, errors.NewEntryIOError("failed to stat entry", src, err))
	}
	if info.IsDir() {
		outcome.Kind = types.SkippedDirectory
		return outcome
	}

	category := Classify(name)
	categoryPath := filepath.Join(target, category)
	outcome.Category = category
	outcome.DestinationPath = filepath.Join(categoryPath, name)
	outcome.Size = info.Size()

	made, err := e.ensureCategory(categoryPath, created[category])
	if err != nil {
		return failed(outcome, err)
	}
	if made {
		created[category] = true
		outcome.CreatedFolder = true
	}

	if _, err := os.Lstat(outcome.DestinationPath); err == nil {
		outcome.Kind = types.SkippedExists
		return outcome
	} else if !os.IsNotExist(err) {
		return failed(outcome, errors.NewEntryIOError("failed to check destination", outcome.DestinationPath, err))
	}

	if e.dryRun {
		outcome.Kind = types.Planned
		return outcome
	}

	if err := renameNoReplace(src, outcome.DestinationPath); err != nil {
		if os.IsExist(err) {
			outcome.Kind = types.SkippedExists
			return outcome
		}
		return failed(outcome, errors.NewEntryIOError("failed to move entry", src, err))
	}

	outcome.Kind = types.Moved
	return outcome
}

// ensureCategory makes sure path is a directory. It reports whether this
// call created it. In dry run mode a missing folder counts as created once.
func (e *Engine) ensureCategory(path string, plannedAlready bool) (bool, error) {
	info, err := os.Stat(path)
	if err == nil {
		if !info.IsDir() {
			return false, errors.NewEntryIOError("category path exists and is not a directory", path, nil)
		}
		return false, nil
	}
	if !os.IsNotExist(err) {
		return false, errors.NewEntryIOError("failed to check category folder", path, err)
	}

	if e.dryRun {
		return !plannedAlready, nil
	}
	if err := os.Mkdir(path, 0755); err != nil {
		return false, errors.NewEntryIOError("failed to create category folder", path, err)
	}
	return true, nil
}

func failed(outcome types.Outcome, err error) types.Outcome {
	outcome.Kind = types.Failed
	outcome.Err = err
	outcome.Detail = err.Error()
	return outcome
}

// report logs the outcome and hands it to the observer
func (e *Engine) report(o types.Outcome) {
	entry := log.LogWithFields(log.F("entry", o.Entry), log.F("outcome", string(o.Kind)))
	if o.Category != "" {
		entry = entry.With(log.F("category", o.Category))
	}

	if o.CreatedFolder {
		if e.dryRun {
			entry.Info("Would create category folder")
		} else {
			entry.Info("Created category folder")
		}
	}

	switch o.Kind {
	case types.Moved:
		entry.Info("Moved entry")
	case types.Planned:
		entry.Info("Would move entry")
	case types.SkippedDirectory:
		entry.Debug("Skipping directory")
	case types.SkippedExists:
		entry.Warn("File already exists at destination, skipping")
	case types.Failed:
		log.LogWithError(o.Err).With(log.F("entry", o.Entry)).Error("Error processing entry")
	}

	if e.observer != nil {
		e.observer(o)
	}
}
