package main

import (
	"errors"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/five82/auragen/internal/app"
)

var errNotTerminal = errors.New("the meditation client needs an interactive terminal; try `auragen script <location>`")

func newRootCommand() *cobra.Command {
	var configFlag string
	var prefsFlag string

	opts := func() app.Options {
		return app.Options{ConfigPath: configFlag, PrefsPath: prefsFlag}
	}

	rootCmd := &cobra.Command{
		Use:           "auragen",
		Short:         "Guided breathing sessions for any place you can imagine",
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !isTerminal(os.Stdin) || !isTerminal(os.Stdout) {
				return errNotTerminal
			}
			return app.Run(cmd.Context(), opts())
		},
	}

	rootCmd.PersistentFlags().StringVarP(&configFlag, "config", "c", "", "Configuration file path")
	rootCmd.PersistentFlags().StringVar(&prefsFlag, "prefs", "", "Preferences file path")

	rootCmd.AddCommand(newServeCommand(opts))
	rootCmd.AddCommand(newScriptCommand(opts))
	rootCmd.AddCommand(newLogsCommand(opts))

	return rootCmd
}

func isTerminal(f *os.File) bool {
	fd := f.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}
