package main

import (
	"fmt"

	"dirsort/internal/config"
	"dirsort/internal/log"

	"github.com/spf13/cobra"
)

// app carries state shared by every subcommand of one invocation
type app struct {
	cfgFile   string
	envFile   string
	logLevel  string
	logFormat string
	debug     bool

	cfg *config.Config
}

func newRootCmd() *cobra.Command {
	a := &app{}

	rootCmd := &cobra.Command{
		Use:     "dirsort",
		Short:   "Sort the files in a folder into category subfolders",
		Long:    `dirsort moves each file directly inside a folder into Images, Videos, Documents, Music, Archives or Others, based on its extension.`,
		Version: version,

		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd)
		},
	}

	rootCmd.PersistentFlags().StringVar(&a.cfgFile, "config", "", "config file (default is $HOME/.config/dirsort/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&a.envFile, "env-file", ".env", "dotenv file with DIRSORT_* overrides")
	rootCmd.PersistentFlags().StringVar(&a.logLevel, "log-level", "", "log level: debug, info, warn, error")
	rootCmd.PersistentFlags().StringVar(&a.logFormat, "log-format", "", "log format: text or json")
	rootCmd.PersistentFlags().BoolVar(&a.debug, "debug", false, "shorthand for --log-level debug")

	rootCmd.AddCommand(a.organizeCmd())
	rootCmd.AddCommand(a.watchCmd())
	rootCmd.AddCommand(a.categoriesCmd())
	rootCmd.AddCommand(a.configCmd())

	return rootCmd
}

// setup loads configuration and configures logging before any subcommand runs
func (a *app) setup(cmd *cobra.Command) error {
	errOut := cmd.ErrOrStderr()

	if err := config.LoadDotEnv(a.envFile); err != nil {
		fmt.Fprintf(errOut, "⚠️ Warning: %v\n", err)
	}

	var err error
	if a.cfgFile != "" {
		a.cfg, err = config.LoadConfigFile(a.cfgFile)
	} else {
		a.cfg, err = config.LoadConfig()
	}
	if err != nil {
		fmt.Fprintf(errOut, "⚠️ Warning: Could not load config: %v. Using default settings.\n", err)
		a.cfg = config.New()
	}

	if a.logLevel != "" {
		a.cfg.Logging.Level = a.logLevel
	}
	if a.logFormat != "" {
		a.cfg.Logging.Format = a.logFormat
	}
	if a.debug {
		a.cfg.Logging.Level = "debug"
	}

	opts := []log.Option{log.WithOutput(errOut), log.WithLevel(a.cfg.Logging.Level)}
	if a.cfg.Logging.Format == "json" {
		opts = append(opts, log.WithJSON())
	}
	if a.cfg.Logging.File != "" {
		opts = append(opts, log.WithFile(a.cfg.Logging.File))
	}
	log.Configure(opts...)
	log.Debugf("Loaded configuration (color=%s, lock=%t)", a.cfg.Output.Color, a.cfg.Lock.Enabled)
	return nil
}
