package cli

import "github.com/spf13/cobra"

// Execute runs the CLI.
func Execute() error {
	return newRootCmd().Execute()
}

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "session-service",
		Short: "Assessment session controller service",
		Long: "Hosts timed assessment sessions: question normalization, answer capture " +
			"and validation, countdown with auto-submit, and standard/adaptive advancement.",
	}
	cmd.AddCommand(NewServeCmd())
	return cmd
}
