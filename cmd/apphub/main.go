// Package main provides the apphub CLI entrypoint.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

var version = "0.1.0"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		stop()
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	f := &globalFlags{}

	rootCmd := &cobra.Command{
		Use:   "apphub",
		Short: "Build a static hub from independently developed tools",
		Long: `apphub clones every tool listed in tools.json, builds or copies its
static output into dist/<slug>/, and writes dist/index.html linking them.

Usage modes:
  apphub             Build the hub (same as 'apphub build')
  apphub <command>   Run a specific command (see below)`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBuild(cmd, f)
		},
	}

	f.register(rootCmd)

	rootCmd.AddGroup(
		&cobra.Group{ID: "build", Title: "Build:"},
		&cobra.Group{ID: "config", Title: "Configuration:"},
	)

	build := buildCmd(f)
	build.GroupID = "build"
	rootCmd.AddCommand(build)

	doctor := doctorCmd(f)
	doctor.GroupID = "build"
	rootCmd.AddCommand(doctor)

	validate := validateCmd(f)
	validate.GroupID = "config"
	rootCmd.AddCommand(validate)

	list := listCmd(f)
	list.GroupID = "config"
	rootCmd.AddCommand(list)

	// Ungrouped
	rootCmd.AddCommand(versionCmd())

	return rootCmd
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show apphub version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "apphub version %s\n", version)
		},
	}
}
