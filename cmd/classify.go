package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pable/clubstats/internal/canon"
	"github.com/pable/clubstats/internal/classify"
)

var (
	classifyEditable bool
	classifyRaw      bool
)

var classifyCmd = &cobra.Command{
	Use:   "classify <field-name> [...]",
	Short: "Show the display category of field names",
	Long: `Print the category, matching rule, and opponent flag for each field name.
Names are canonicalized first unless --raw is set. With --editable, computed
fields (rates, percentages, totals) are omitted.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runClassify,
}

func init() {
	classifyCmd.Flags().BoolVar(&classifyEditable, "editable", false, "omit computed fields")
	classifyCmd.Flags().BoolVar(&classifyRaw, "raw", false, "classify names as given, without canonicalizing")
}

func runClassify(cmd *cobra.Command, args []string) error {
	printClassify(args, classifyRaw, classifyEditable)
	return nil
}

func printClassify(args []string, raw, editable bool) {
	names := make([]string, 0, len(args))
	for _, a := range args {
		if !raw {
			a = canon.Canonicalize(a)
		}
		names = append(names, a)
	}
	if editable {
		names = classify.EditableFields(names)
	}

	fmt.Fprintf(os.Stdout, "%-36s  %-24s  %-22s  %s\n", "FIELD", "CATEGORY", "RULE", "SIDE")
	for _, n := range names {
		side := "team"
		if classify.IsOpponentField(n) {
			side = "opponent"
		}
		fmt.Fprintf(os.Stdout, "%-36s  %-24s  %-22s  %s\n",
			n, classify.Classify(n), classify.MatchedRule(n), side)
	}
}
