package cmd

import "github.com/spf13/cobra"

var simulateCmd = &cobra.Command{
	Use:   "simulate",
	Short: "Replay the configured demand file through one episode",
	RunE:  run,
}

func init() {
	rootCmd.AddCommand(simulateCmd)
}
