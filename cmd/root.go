package cmd

import "github.com/spf13/cobra"

var rootCmd = &cobra.Command{
	Use:   "rsi-sma-trading",
	Short: "MA crossover + RSI signal generator and backtester",
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.AddCommand(startCmd)
	rootCmd.AddCommand(runCmd)
}
