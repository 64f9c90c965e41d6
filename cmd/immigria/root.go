// cmd/immigria/root.go
package main

import (
	"immigria-site/internal/common/config"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:           "immigria",
	Short:         "Immigria marketing site",
	Long:          "Serves the Immigria site: content pages, the eligibility assessment wizard and the booking and contact forms.",
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runServe,
}

func init() {
	rootCmd.PersistentFlags().String("config", "", "Path to a config file (defaults to configs/config.yaml plus the APP_ENVIRONMENT overlay)")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(catalogCmd)
	rootCmd.AddCommand(recommendCmd)
}

// loadConfig honors --config, falling back to the layered default lookup.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	if path, _ := cmd.Flags().GetString("config"); path != "" {
		return config.LoadFromFile(path)
	}
	return config.Load()
}
