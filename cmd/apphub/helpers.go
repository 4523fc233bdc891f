package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/big-mon/app-hub/internal/config"
	"github.com/big-mon/app-hub/internal/render"
)

// globalFlags are the persistent flags shared by every command.
type globalFlags struct {
	root     string
	config   string
	dist     string
	tmp      string
	template string
	assets   []string
	git      string
	audit    bool
	noColor  bool
}

func (f *globalFlags) register(cmd *cobra.Command) {
	pf := cmd.PersistentFlags()
	pf.StringVar(&f.root, "root", "", "Project root (default: current directory, $APPHUB_ROOT)")
	pf.StringVar(&f.config, "config", "", "Tools file relative to root (default: tools.json, $APPHUB_CONFIG)")
	pf.StringVar(&f.dist, "dist", "", "Distribution directory (default: dist, $APPHUB_DIST)")
	pf.StringVar(&f.tmp, "tmp", "", "Clone workspace (default: _tmp, $APPHUB_TMP)")
	pf.StringVar(&f.template, "template", "", "Index template (default: index.html)")
	pf.StringArrayVar(&f.assets, "asset", nil, "Hub asset copied into dist, repeatable (default: styles.css)")
	pf.StringVar(&f.git, "git", "", "git binary (default: git on PATH)")
	pf.BoolVar(&f.audit, "audit", false, "Write audit events as JSON lines to stderr")
	pf.BoolVar(&f.noColor, "no-color", false, "Disable colored output ($APPHUB_NO_COLOR)")
}

// layout resolves the paths for this invocation.
func (f *globalFlags) layout() (config.Layout, error) {
	return config.ResolveLayout(config.LayoutOptions{
		Root:      f.root,
		ToolsFile: f.config,
		Template:  f.template,
		TmpDir:    f.tmp,
		DistDir:   f.dist,
		Assets:    f.assets,
	})
}

// colored reports whether stdout output should use ANSI colors.
func (f *globalFlags) colored() bool {
	return render.ColorEnabled(os.Stdout, f.noColor || config.Env().NoColor)
}
