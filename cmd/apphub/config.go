package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/big-mon/app-hub/internal/config"
	"github.com/big-mon/app-hub/internal/orchestrator"
	"github.com/big-mon/app-hub/internal/render"
)

func validateCmd(f *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Check tools.json without cloning or building",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			layout, err := f.layout()
			if err != nil {
				return err
			}
			tools, err := config.LoadTools(layout.ToolsFile)
			if err != nil {
				return err
			}

			issues := orchestrator.Validate(tools)
			render.NewWriter(cmd.OutOrStdout()).Issues(issues)
			if len(issues) > 0 {
				return fmt.Errorf("%d of %d tools invalid", len(issues), len(tools))
			}
			return nil
		},
	}
}

func listCmd(f *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List configured tools",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			layout, err := f.layout()
			if err != nil {
				return err
			}
			tools, err := config.LoadTools(layout.ToolsFile)
			if err != nil {
				return err
			}
			render.NewWriter(cmd.OutOrStdout()).Tools(tools)
			return nil
		},
	}
}
