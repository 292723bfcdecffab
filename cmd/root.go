// Package cmd wires the depot CLI.
package cmd

import (
	"github.com/spf13/cobra"
)

var configPath string

var rootCmd = &cobra.Command{
	Use:   "depot",
	Short: "Self-hosted file repository",
	Long: `depot stores uploaded files under unique names, verifies their
content, generates image previews and serves a date-grouped catalog.`,
	SilenceUsage: true,
}

// Execute runs the CLI.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "depot.yaml", "path to configuration file")
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(userCmd)
}
