package cmd

import (
	"github.com/KaramelBytes/crocstat-cli/internal/notify"
	"github.com/spf13/cobra"
)

var notifyEnvFile string

var notifyCmd = &cobra.Command{
	Use:   "notify [status]",
	Short: "Send the CI pipeline status e-mail",
	Long: `Send the CI pipeline status e-mail configured through PIPELINE_* and
GITHUB_* environment variables. Without PIPELINE_EMAIL_PASSWORD, or when
delivery fails, the message is printed as a simulation instead.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := notify.LoadSettings(notifyEnvFile)
		if err != nil {
			return err
		}
		if len(args) == 1 {
			s = s.WithStatus(args[0])
		}
		n := &notify.Notifier{Settings: s, Out: cmd.OutOrStdout()}
		if err := n.Run(cmd.Context()); err != nil {
			return reportedError{err}
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(notifyCmd)
	notifyCmd.Flags().StringVar(&notifyEnvFile, "env-file", ".env", "dotenv file to load before reading the environment")
}
