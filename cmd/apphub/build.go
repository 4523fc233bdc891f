package main

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/big-mon/app-hub/internal/audit"
	"github.com/big-mon/app-hub/internal/exec"
	"github.com/big-mon/app-hub/internal/logging"
	"github.com/big-mon/app-hub/internal/orchestrator"
	"github.com/big-mon/app-hub/internal/render"
)

func buildCmd(f *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "build",
		Short: "Clone, build and publish every tool, then write the index",
		Long: `Reset _tmp/ and dist/, then for each tool in order: validate the slug,
shallow-clone the repo, copy (static) or build and copy (node) into
dist/<slug>/. Finally write dist/index.html and copy the hub assets.

The first error stops the run. Output already written stays in dist/.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBuild(cmd, f)
		},
	}
}

func runBuild(cmd *cobra.Command, f *globalFlags) error {
	layout, err := f.layout()
	if err != nil {
		return err
	}
	out, errOut := cmd.OutOrStdout(), cmd.ErrOrStderr()
	colored := f.colored()

	var opts []audit.LoggerOption
	if f.audit {
		opts = append(opts, audit.WithOutput(errOut))
	}
	auditLog := audit.NewLogger(orchestrator.NewRunID(), opts...)

	o := orchestrator.New(orchestrator.Options{
		Layout:   layout,
		Runner:   &exec.OSRunner{Stdout: out, Stderr: errOut},
		Git:      f.git,
		Reporter: render.NewProgress(out, layout.DistDir, colored),
		Audit:    auditLog,
		Log:      logging.New("apphub"),
	})

	res, err := o.Run(cmd.Context())
	if err != nil {
		if !f.audit {
			w := render.NewWriter(errOut)
			w.Line()
			w.Events(auditLog.Events())
		}
		return err
	}

	w := render.NewWriter(out)
	w.Line()
	w.Println("%s", strings.TrimRight(render.Summary(res, auditLog.Events(), colored), "\n"))
	return nil
}
