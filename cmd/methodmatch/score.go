package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/ZanzyTHEbar/methodmatch/internal/analysis"
	"github.com/ZanzyTHEbar/methodmatch/internal/tabular"
)

func newScoreCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "score --responses responses.csv [--out scored.csv]",
		Short: "Score a file of questionnaire responses",
		Long:  `Score reads one response per row (columns Q1..Q12), appends a score per style and the recommended style, and writes the result as CSV or XLSX`,
		Args:  cobra.NoArgs,
		RunE:  runScore,
	}

	cmd.Flags().String("responses", "", "CSV or XLSX file of responses (required)")
	cmd.Flags().String("out", "", "output file; the extension selects csv or xlsx (default stdout as CSV)")
	_ = cmd.MarkFlagRequired("responses")

	return cmd
}

func runScore(cmd *cobra.Command, args []string) error {
	start := time.Now()

	responsesPath, _ := cmd.Flags().GetString("responses")
	outPath, _ := cmd.Flags().GetString("out")

	a, err := newApp(cmd)
	if err != nil {
		return err
	}
	if _, err := a.loadWeights(); err != nil {
		return err
	}

	// read
	t, err := tabular.ReadFile(responsesPath)
	if err != nil {
		return &analysis.SchemaError{Source: responsesPath, Detail: err.Error()}
	}
	answers, err := analysis.AnswerVectorsFromTable(t, responsesPath)
	if err != nil {
		return err
	}

	// score
	results, err := a.analyzer.ScoreBatch(answers)
	if err != nil {
		return err
	}

	misses := 0
	for _, r := range results {
		misses += len(r.Misses)
	}
	a.logger.BatchLogger(responsesPath, len(results), time.Since(start))

	// write; stdout is always CSV
	out := analysis.BatchTable(a.analyzer.Catalog().Styles(), answers, results)
	if outPath == "" {
		return tabular.WriteCSV(cmd.OutOrStdout(), out)
	}
	if err := tabular.WriteFileAtomic(outPath, out); err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Scored %d responses (%d unmatched answers) -> %s\n", len(results), misses, outPath)
	return nil
}
