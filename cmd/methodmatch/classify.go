package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/ZanzyTHEbar/methodmatch/internal/analysis"
	"github.com/ZanzyTHEbar/methodmatch/internal/tabular"
	"github.com/ZanzyTHEbar/methodmatch/internal/types"
)

func newClassifyCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "classify --answer 1=Vertical --answer Q2=None ...",
		Short: "Recommend a delivery method for one set of answers",
		Args:  cobra.NoArgs,
		RunE:  runClassify,
	}

	cmd.Flags().StringArray("answer", nil, "answer as question=key, repeatable (question is 1..12 or Q1..Q12)")
	cmd.Flags().String("out", "", "also write a single-row result file (csv or xlsx)")
	cmd.Flags().Bool("json", false, "print the result as JSON")

	return cmd
}

func runClassify(cmd *cobra.Command, args []string) error {
	start := time.Now()

	raw, _ := cmd.Flags().GetStringArray("answer")
	outPath, _ := cmd.Flags().GetString("out")
	asJSON, _ := cmd.Flags().GetBool("json")

	answers, err := parseAnswers(raw)
	if err != nil {
		return err
	}

	a, err := newApp(cmd)
	if err != nil {
		return err
	}
	wt, err := a.loadWeights()
	if err != nil {
		return err
	}

	result, err := a.analyzer.ScoreWith(wt, answers)
	if err != nil {
		return err
	}
	a.logger.ScoreLogger(string(result.Recommended), len(answers), len(result.Misses), wt.Fingerprint(), time.Since(start), false)

	if outPath != "" {
		t := analysis.SingleResultTable(a.analyzer.Catalog().Styles(), time.Now(), answers, result)
		if err := tabular.WriteFileAtomic(outPath, t); err != nil {
			return err
		}
	}

	if asJSON {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(result)
	}

	printResult(cmd.OutOrStdout(), newPalette(useColor(cmd)), result)
	if outPath != "" {
		fmt.Fprintf(cmd.OutOrStdout(), "Saved result to %s\n", outPath)
	}
	return nil
}

// parseAnswers turns question=key pairs into an answer vector; a repeated
// question keeps its last value
func parseAnswers(raw []string) (analysis.AnswerVector, error) {
	answers := make(analysis.AnswerVector, len(raw))
	for _, pair := range raw {
		q, key, ok := strings.Cut(pair, "=")
		if !ok {
			return nil, fmt.Errorf("answer %q must be question=key", pair)
		}
		n, err := types.ParseQuestion(q)
		if err != nil {
			return nil, err
		}
		answers[n] = key
	}
	return answers, nil
}

func printResult(w io.Writer, p palette, result analysis.ScoreResult) {
	p.heading.Fprintln(w, "Scores")
	for _, sc := range result.Scores {
		line := fmt.Sprintf("  %-20s %8.3f", sc.Style, sc.Score)
		if sc.Style == result.Recommended {
			p.winner.Fprintln(w, line)
		} else {
			fmt.Fprintln(w, line)
		}
	}

	fmt.Fprintln(w)
	p.heading.Fprint(w, "Recommended: ")
	p.winner.Fprintln(w, result.Recommended)
	if result.Description != "" {
		p.muted.Fprintln(w, "  "+result.Description)
	}

	for _, m := range result.Misses {
		if m.Key == "" {
			continue
		}
		p.warn.Fprintf(w, "  no weight row for Q%d %q\n", m.Question, m.Key)
	}
}
