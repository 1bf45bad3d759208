package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/five82/auragen/internal/app"
	"github.com/five82/auragen/internal/config"
	"github.com/five82/auragen/internal/logtail"
)

func newServeCommand(opts func() app.Options) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the script generation service",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.Serve(cmd.Context(), opts())
		},
	}
}

func newScriptCommand(opts func() app.Options) *cobra.Command {
	return &cobra.Command{
		Use:   "script <location>",
		Short: "Print a six-sentence script for a location",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			location := strings.Join(args, " ")
			return app.PrintScript(cmd.Context(), opts(), location, cmd.OutOrStdout())
		},
	}
}

func newLogsCommand(opts func() app.Options) *cobra.Command {
	var lines int
	var component string
	var grep string

	cmd := &cobra.Command{
		Use:   "logs",
		Short: "Show the tail of a log file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			component = strings.TrimSpace(component)
			if component != "server" && component != "tui" {
				return fmt.Errorf("unknown component %q (want server or tui)", component)
			}
			cfg, err := config.Load(opts().ConfigPath)
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			path := cfg.LogPath(component)
			entries, err := logtail.ReadMatching(path, lines, logtail.Contains(grep))
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if len(entries) == 0 {
				fmt.Fprintf(out, "no log entries in %s\n", path)
				return nil
			}
			if out == os.Stdout {
				entries = logtail.NewHighlighter(lipgloss.NewRenderer(os.Stdout)).Lines(entries)
			}
			for _, line := range entries {
				fmt.Fprintln(out, line)
			}
			return nil
		},
	}

	cmd.Flags().IntVarP(&lines, "lines", "n", 50, "Number of lines to show (0 for all)")
	cmd.Flags().StringVar(&component, "component", "server", "Log to read: server or tui")
	cmd.Flags().StringVar(&grep, "grep", "", "Only show lines containing this text")
	return cmd
}
