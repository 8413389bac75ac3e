package cmd

import (
	"fmt"

	"github.com/KaramelBytes/crocstat-cli/internal/analysis"
	"github.com/KaramelBytes/crocstat-cli/internal/utils"
	"github.com/apex/log"
	"github.com/spf13/cobra"
)

var (
	reportOutput string
	reportFormat string
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Run the whole catalog and export it",
	Example: `  crocstat report --format markdown -o crocs.md
  crocstat report --format json`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		format, err := analysis.ParseFormat(reportFormat)
		if err != nil {
			return err
		}
		c := settings()
		t, err := loadDataset(cmd, c)
		if err != nil {
			return err
		}
		doc := analysis.NewDocument(t, analysis.RunAll(t, c.AnalysisOptions()))
		b, err := doc.Encode(format)
		if err != nil {
			return err
		}
		if reportOutput == "" {
			_, err := cmd.OutOrStdout().Write(b)
			return err
		}
		if err := utils.SafeWriteFile(reportOutput, b); err != nil {
			return fmt.Errorf("write report: %w", err)
		}
		log.WithFields(log.Fields{"run_id": doc.RunID, "format": format}).Debug("report written")
		fmt.Fprintf(cmd.OutOrStdout(), "✓ Wrote %s report to %s\n", format, reportOutput)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(reportCmd)
	reportCmd.Flags().StringVarP(&reportOutput, "output", "o", "", "output file (default: stdout)")
	reportCmd.Flags().StringVar(&reportFormat, "format", "text", "output format: text|markdown|yaml|json")
}
