package cli

import (
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"blogforge-backend/pkg/logger"
	"blogforge-backend/pkg/validator"
)

var rootCmd = &cobra.Command{
	Use:           "blogctl",
	Short:         "BlogForge management tool",
	Long:          "blogctl manages a BlogForge installation: content generation, seeding, statistics, and cleanup.",
	SilenceUsage:  true,
	SilenceErrors: false,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		logger.Init()
		if err := godotenv.Load(); err != nil {
			logger.Debug("No .env file found, using environment variables", nil)
		}
		validator.Init()
	},
}

func init() {
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(generateCmd)
	rootCmd.AddCommand(testCmd)
	rootCmd.AddCommand(cleanupCmd)
	rootCmd.AddCommand(setupCmd)
	rootCmd.AddCommand(schedulerCmd)
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
