package main

import (
	"fmt"
	"os"

	"dirsort/internal/errors"
	"dirsort/internal/lock"
	"dirsort/internal/organize"
	"dirsort/pkg/types"

	"github.com/spf13/cobra"
)

type organizeOptions struct {
	dryRun  bool
	jsonOut bool
	noLock  bool
	strict  bool
}

func (a *app) organizeCmd() *cobra.Command {
	opts := &organizeOptions{}

	cmd := &cobra.Command{
		Use:   "organize [directory]",
		Short: "Organize files in a directory",
		Long:  `Move every file directly inside the directory into a category subfolder. Subdirectories are left alone and existing files are never overwritten.`,
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			target, err := a.resolveTarget(args)
			if err != nil {
				return err
			}
			rep := newReporter(cmd.OutOrStdout(), a.cfg.Output.Color)
			return a.withLock(target, opts.noLock, func() error {
				return a.runOrganize(target, opts, rep)
			})
		},
	}

	cmd.Flags().BoolVar(&opts.dryRun, "dry-run", false, "Show what would be moved without moving anything")
	cmd.Flags().BoolVar(&opts.jsonOut, "json", false, "Print the run result as JSON")
	cmd.Flags().BoolVar(&opts.noLock, "no-lock", false, "Do not serialize with other runs on the same directory")
	cmd.Flags().BoolVar(&opts.strict, "strict", false, "Exit non-zero when any entry fails")
	return cmd
}

// runOrganize performs one run and prints it
func (a *app) runOrganize(target string, opts *organizeOptions, rep *reporter) error {
	engineOpts := []organize.Option{organize.WithDryRun(opts.dryRun)}
	if !opts.jsonOut {
		engineOpts = append(engineOpts, organize.WithObserver(rep.outcome))
		rep.start(target, opts.dryRun)
	}

	engine := organize.CurrentOrganizerFactory(engineOpts...)
	result, err := engine.Organize(target)

	if opts.jsonOut {
		if jerr := writeJSON(rep.out, result); jerr != nil {
			return jerr
		}
	} else if err == nil {
		rep.summary(result, organize.Categories())
	}
	if err != nil {
		return err
	}

	if opts.strict && result.HasErrors() {
		return errors.Newf("%d entries could not be organized", countFailed(result))
	}
	return nil
}

func countFailed(result types.Result) int {
	return result.Counts().Failed
}

// resolveTarget picks the directory from the argument, the config default or
// the working directory, in that order.
func (a *app) resolveTarget(args []string) (string, error) {
	if len(args) > 0 && args[0] != "" {
		return args[0], nil
	}
	if a.cfg.Directories.Default != "" {
		return a.cfg.Directories.Default, nil
	}
	wd, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("error getting current directory: %w", err)
	}
	return wd, nil
}

// withLock runs fn under the per-target run lock unless locking is off
func (a *app) withLock(target string, noLock bool, fn func() error) error {
	if noLock || !a.cfg.Lock.Enabled {
		return fn()
	}
	l, err := lock.New(target, a.cfg.Lock.Dir)
	if err != nil {
		return err
	}
	return l.Do(fn)
}
