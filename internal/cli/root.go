package cli

import (
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "steady",
	Short: "Adaptive scalar signal filtering and prediction",
	Long:  "Steady tracks named scalar signals, smooths them with adaptive Kalman filters, and predicts where they are heading. Single Go binary.",
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(filterCmd)
	rootCmd.AddCommand(signalsCmd)
	rootCmd.AddCommand(ingestCmd)
}
