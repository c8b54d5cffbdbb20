package main

import (
	"fmt"
	"io"
	"sort"
	"time"

	"github.com/spf13/cobra"

	"github.com/ZanzyTHEbar/methodmatch/internal/analysis"
	"github.com/ZanzyTHEbar/methodmatch/internal/tabular"
)

func newCalibrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "calibrate --cases cases.csv [--out weights.csv]",
		Short: "Fit new weights from labelled case studies",
		Long: `Calibrate fits one ridge regression per style over one-hot answer features
and writes the fitted weights. Without --out the table is saved as the
calibrated weight file in the data directory, which later runs load first.`,
		Args: cobra.NoArgs,
		RunE: runCalibrate,
	}

	cmd.Flags().String("cases", "", "CSV or XLSX file of case studies with an expected_style column (required)")
	cmd.Flags().String("out", "", "where to write the fitted table (default the calibrated weight file)")
	cmd.Flags().Float64("alpha", 0, "ridge penalty (default from configuration)")
	cmd.Flags().Bool("canonicalize", false, "map free-text case answers onto the option vocabulary")
	cmd.Flags().Bool("keep-unobserved", false, "keep prior weights for options no case selected")
	_ = cmd.MarkFlagRequired("cases")

	return cmd
}

func runCalibrate(cmd *cobra.Command, args []string) error {
	start := time.Now()

	casesPath, _ := cmd.Flags().GetString("cases")
	outPath, _ := cmd.Flags().GetString("out")
	alpha, _ := cmd.Flags().GetFloat64("alpha")
	canonicalize, _ := cmd.Flags().GetBool("canonicalize")
	keepUnobserved, _ := cmd.Flags().GetBool("keep-unobserved")

	a, err := newApp(cmd)
	if err != nil {
		return err
	}
	if _, err := a.loadWeights(); err != nil {
		return err
	}

	// load cases
	t, err := tabular.ReadFile(casesPath)
	if err != nil {
		return &analysis.SchemaError{Source: casesPath, Detail: err.Error()}
	}
	cases, err := analysis.CaseStudiesFromTable(t, casesPath)
	if err != nil {
		return err
	}

	opts := analysis.CalibrateOptions{
		Alpha:             alpha,
		KeepUnobserved:    keepUnobserved,
		CanonicalizeCases: canonicalize,
	}

	// installing writes the calibrated file; an explicit --out is a plain save
	install := outPath == ""
	table, report, err := a.analyzer.Calibrate(cases, opts, install)
	if err != nil {
		return err
	}
	if !install {
		if err := a.store.Save(outPath, table); err != nil {
			return err
		}
	} else {
		outPath = a.store.CalibratedPath()
	}

	a.logger.CalibrationLogger(report.Cases, report.Features, report.Alpha, report.Solver, report.TrainingAccuracy, install, time.Since(start))

	printReport(cmd.OutOrStdout(), newPalette(useColor(cmd)), report)
	fmt.Fprintf(cmd.OutOrStdout(), "Wrote %d weight rows to %s\n", table.Len(), outPath)
	return nil
}

func printReport(w io.Writer, p palette, r analysis.CalibrationReport) {
	p.heading.Fprintln(w, "Calibration")
	fmt.Fprintf(w, "  cases:     %d\n", r.Cases)
	fmt.Fprintf(w, "  features:  %d\n", r.Features)
	fmt.Fprintf(w, "  alpha:     %g\n", r.Alpha)
	fmt.Fprintf(w, "  solver:    %s\n", r.Solver)
	fmt.Fprintf(w, "  accuracy:  %.1f%%\n", r.TrainingAccuracy*100)

	// warnings in question order
	if len(r.Malformed) > 0 {
		questions := make([]int, 0, len(r.Malformed))
		for q := range r.Malformed {
			questions = append(questions, q)
		}
		sort.Ints(questions)
		for _, q := range questions {
			p.warn.Fprintf(w, "  Q%d: %d answers matched no option\n", q, r.Malformed[q])
		}
	}
	if n := len(r.Unobserved); n > 0 {
		p.muted.Fprintf(w, "  %d options never selected by a case\n", n)
	}

	if len(r.Residuals) > 0 {
		p.heading.Fprintln(w, "Residuals")
		for _, res := range r.Residuals {
			fmt.Fprintf(w, "  %-20s mean %+.3f  median %+.3f\n", res.Style, res.Mean, res.Median)
		}
	}
}
