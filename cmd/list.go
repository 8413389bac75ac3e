package cmd

import (
	"fmt"

	"github.com/KaramelBytes/crocstat-cli/internal/analysis"
	"github.com/spf13/cobra"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List the available analyses",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		for _, a := range analysis.Catalog() {
			fmt.Fprintf(out, "%2d. %-13s %s\n", a.Number, a.Key, a.Title)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(listCmd)
}
