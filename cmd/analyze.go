package cmd

import (
	"fmt"

	"github.com/KaramelBytes/crocstat-cli/internal/analysis"
	"github.com/spf13/cobra"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze <number|key>...",
	Short: "Run one or more analyses and print them",
	Example: `  crocstat analyze 3
  crocstat analyze species length largest --data crocs.csv`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		selected := make([]analysis.Analysis, 0, len(args))
		for _, sel := range args {
			a, err := analysis.Lookup(sel)
			if err != nil {
				return err
			}
			selected = append(selected, a)
		}
		c := settings()
		t, err := loadDataset(cmd, c)
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		failed := 0
		for _, a := range selected {
			fmt.Fprintln(out)
			rep, err := a.Run(t, c.AnalysisOptions())
			if err != nil {
				fmt.Fprintf(cmd.ErrOrStderr(), "✗ %s: %v\n", a.Key, err)
				failed++
				continue
			}
			if _, err := rep.WriteTo(out); err != nil {
				return fmt.Errorf("write report: %w", err)
			}
		}
		if failed > 0 {
			return reportedError{fmt.Errorf("%d of %d analyses failed", failed, len(selected))}
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(analyzeCmd)
}
