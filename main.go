package main

import (
	"os"

	"github.com/fakhrymubarak/weatherwise/internal/config"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "weatherwise",
	Short: "Answers plain-English weather questions",
	Long: `WeatherWise classifies a free-text weather question, fetches the
forecast it needs and replies in a sentence. Without a subcommand it
starts the HTTP server.`,
	SilenceUsage: true,
	RunE:         runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd, askCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		config.GetLogger().Errorw("Command failed", "error", err)
		os.Exit(1)
	}
}
