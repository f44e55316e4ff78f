package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"dirsort/internal/watch"

	"github.com/spf13/cobra"
)

func (a *app) watchCmd() *cobra.Command {
	opts := &organizeOptions{}

	cmd := &cobra.Command{
		Use:   "watch [directory]",
		Short: "Organize a directory now and again whenever new files arrive",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			target, err := a.resolveTarget(args)
			if err != nil {
				return err
			}
			rep := newReporter(cmd.OutOrStdout(), a.cfg.Output.Color)

			w, err := watch.New(target, a.cfg.Debounce(), func() error {
				return a.withLock(target, opts.noLock, func() error {
					return a.runOrganize(target, opts, rep)
				})
			})
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			fmt.Fprintf(cmd.OutOrStdout(), "👀 Watching %s (Ctrl+C to stop)\n", w.Directory())
			return w.Run(ctx)
		},
	}

	cmd.Flags().BoolVar(&opts.dryRun, "dry-run", false, "Show what would be moved without moving anything")
	cmd.Flags().BoolVar(&opts.noLock, "no-lock", false, "Do not serialize with other runs on the same directory")
	return cmd
}
