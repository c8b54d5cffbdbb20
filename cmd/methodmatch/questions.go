package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
)

func newQuestionsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "questions",
		Short: "List the questionnaire with the options the weight table knows",
		Args:  cobra.NoArgs,
		RunE:  runQuestions,
	}

	cmd.Flags().Bool("json", false, "print the form model as JSON")

	return cmd
}

func runQuestions(cmd *cobra.Command, args []string) error {
	asJSON, _ := cmd.Flags().GetBool("json")

	a, err := newApp(cmd)
	if err != nil {
		return err
	}
	if _, err := a.loadWeights(); err != nil {
		return err
	}

	form, err := a.analyzer.Questions()
	if err != nil {
		return err
	}

	w := cmd.OutOrStdout()
	if asJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(form)
	}

	// default option marked with *
	p := newPalette(useColor(cmd))
	for _, q := range form {
		p.heading.Fprintf(w, "Q%d. %s\n", q.Question, q.Text)
		for _, opt := range q.Options {
			marker := " "
			if opt.Label == q.Default {
				marker = "*"
			}
			fmt.Fprintf(w, "  %s %s\n", marker, opt.Label)
		}
	}
	return nil
}
