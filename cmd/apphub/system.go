package main

import (
	"errors"
	"strings"

	"github.com/spf13/cobra"

	"github.com/big-mon/app-hub/internal/render"
	"github.com/big-mon/app-hub/internal/selftest"
)

func doctorCmd(f *globalFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "doctor",
		Short: "Diagnose the build environment",
		Long:  "Check git, the shell, tools.json, the index template and hub assets.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			layout, err := f.layout()
			if err != nil {
				return err
			}
			env := selftest.Check(cmd.Context(), layout, selftest.Options{Git: f.git})

			w := render.NewWriter(cmd.OutOrStdout())
			quiet, _ := cmd.Flags().GetBool("quiet")
			if quiet {
				w.Println("%s", env.QuickCheck())
			} else {
				w.Println("%s", strings.TrimRight(env.Summary(), "\n"))
			}
			if !env.IsHealthy() {
				return errors.New("environment unhealthy")
			}
			return nil
		},
	}
	cmd.Flags().BoolP("quiet", "q", false, "One-line output")
	return cmd
}
