package main

import (
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/ZanzyTHEbar/methodmatch/internal/analysis"
	"github.com/ZanzyTHEbar/methodmatch/internal/config"
	"github.com/ZanzyTHEbar/methodmatch/internal/monitoring"
)

const version = "1.0.0"

func main() {
	if err := newRootCmd(os.Stdout, os.Stderr).Execute(); err != nil {
		os.Exit(1)
	}
}

// newRootCmd builds the command tree writing results to out and logs to errOut
func newRootCmd(out, errOut io.Writer) *cobra.Command {
	root := &cobra.Command{
		Use:          "methodmatch",
		Short:        "Recommend a project delivery method from questionnaire answers",
		Long:         `MethodMatch scores questionnaire responses against a weight table and fits new weights from labelled case studies`,
		Version:      version,
		SilenceUsage: true,
	}
	root.SetOut(out)
	root.SetErr(errOut)

	root.PersistentFlags().String("config", "", "path to a TOML config file")
	root.PersistentFlags().String("data-dir", "", "directory holding the default weight files")
	root.PersistentFlags().String("weights", "", "weight table to load instead of the defaults")
	root.PersistentFlags().String("color", "auto", "colorize output (auto|on|off)")
	root.PersistentFlags().String("log-level", "warn", "log level written to stderr (debug|info|warn|error)")

	root.AddCommand(
		newScoreCmd(),
		newClassifyCmd(),
		newCalibrateCmd(),
		newQuestionsCmd(),
	)

	return root
}

// app is the per-invocation state shared by the subcommands
type app struct {
	cfg      *config.Config
	store    *analysis.WeightStore
	analyzer *analysis.Analyzer
	logger   *monitoring.Logger
}

// newApp loads configuration with flag overrides. The weight table is not
// loaded; callers decide whether a missing table is fatal.
func newApp(cmd *cobra.Command) (*app, error) {
	flags := cmd.Root().PersistentFlags()

	configPath, _ := flags.GetString("config")
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}

	if dir, _ := flags.GetString("data-dir"); dir != "" {
		cfg.Data.Dir = dir
	}
	if w, _ := flags.GetString("weights"); w != "" {
		cfg.Data.WeightsPath = w
	}

	level, _ := flags.GetString("log-level")
	logger := monitoring.NewLoggerTo(cmd.ErrOrStderr(), monitoring.ParseLevel(level))

	catalog, err := cfg.Catalog()
	if err != nil {
		return nil, fmt.Errorf("invalid style catalog: %w", err)
	}

	store := analysis.NewWeightStore(cfg.Data.Dir, cfg.Data.WeightsPath, catalog)
	return &app{
		cfg:      cfg,
		store:    store,
		analyzer: analysis.NewAnalyzer(catalog, store),
		logger:   logger,
	}, nil
}

// loadWeights resolves and installs the weight table
func (a *app) loadWeights() (*analysis.WeightTable, error) {
	if err := a.analyzer.Reload(); err != nil {
		return nil, err
	}
	wt, err := a.analyzer.Weights()
	if err != nil {
		return nil, err
	}
	a.logger.WeightsLogger(wt.Source(), wt.Fingerprint(), wt.Len())
	if missing := wt.MissingStyles(); len(missing) > 0 {
		a.logger.Warn("Weight table lacks style columns, scoring them as zero", "source", wt.Source(), "missing", missing)
	}
	return wt, nil
}

func useColor(cmd *cobra.Command) bool {
	mode, _ := cmd.Root().PersistentFlags().GetString("color")
	switch mode {
	case "on":
		return true
	case "off":
		return false
	}
	f, ok := cmd.OutOrStdout().(*os.File)
	return ok && isTerminal(f)
}

func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

// palette is the set of printers for one invocation
type palette struct {
	heading *color.Color
	winner  *color.Color
	muted   *color.Color
	warn    *color.Color
}

func newPalette(enabled bool) palette {
	p := palette{
		heading: color.New(color.Bold),
		winner:  color.New(color.FgGreen, color.Bold),
		muted:   color.New(color.Faint),
		warn:    color.New(color.FgYellow),
	}
	for _, c := range []*color.Color{p.heading, p.winner, p.muted, p.warn} {
		if enabled {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
	return p
}
