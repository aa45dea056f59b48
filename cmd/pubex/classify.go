package main

import (
	"bufio"
	"fmt"
	"os"

	"github.com/matsen/pubex/internal/classifier"
	"github.com/matsen/pubex/internal/corpus"
	"github.com/spf13/cobra"
)

var classifyRules bool

func init() {
	classifyCmd.Flags().BoolVar(&classifyRules, "rules", false, "List the recognition rules in matching order instead of classifying")
	rootCmd.AddCommand(classifyCmd)
}

var classifyCmd = &cobra.Command{
	Use:   "classify [files...]",
	Short: "Show the publication type of each citation line",
	Long: `Classify citation lines without extracting them.

Each recognized line is printed as "Type<TAB>line"; unrecognized lines are
skipped. Rules are tried in order and the first match wins.

Examples:
  pubex classify publications.txt
  pubex classify --rules --human`,
	RunE: runClassify,
}

// RuleResponse describes one recognition rule.
type RuleResponse struct {
	Type    string `json:"type"`
	Pattern string `json:"pattern"`
	Flags   int    `json:"flags"`
}

func runClassify(cmd *cobra.Command, args []string) error {
	c := classifier.Default()

	if classifyRules {
		rules := c.Rules()
		if humanOutput {
			for i, r := range rules {
				fmt.Printf("%d\t%s\t%d\t%s\n", i+1, r.Type.Name(), r.Flags, r.Pattern)
			}
			return nil
		}
		out := make([]RuleResponse, len(rules))
		for i, r := range rules {
			out[i] = RuleResponse{Type: r.Type.Name(), Pattern: r.Pattern, Flags: int(r.Flags)}
		}
		return outputJSON(out)
	}

	w := bufio.NewWriter(os.Stdout)
	n := 0
	for typ, line := range c.Classified(corpus.Concat(inputNames(args), logger)) {
		if _, err := fmt.Fprintf(w, "%s\t%s\n", typ.Name(), line); err != nil {
			exitWithError(ExitError, "writing output: %v", err)
		}
		n++
	}
	if err := w.Flush(); err != nil {
		exitWithError(ExitError, "writing output: %v", err)
	}

	logger.Debug("classify.done", "lines", n)
	return nil
}
