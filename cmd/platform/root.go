package main

import (
	"os"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/opsdesk/platform/internal/pkg/config"
	"github.com/opsdesk/platform/pkg/logger"
)

var rootCmd = &cobra.Command{
	Use:          "platform",
	Short:        "OpsDesk platform services",
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		// A missing .env is normal outside local development.
		_ = loadDotEnv()
	},
}

// loadDotEnv reads .env (or the given files) into the environment. Variables
// already set in the process environment win over the files.
func loadDotEnv(files ...string) error {
	return godotenv.Load(files...)
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func baseLogger(c config.Common) zerolog.Logger {
	return logger.New(logger.Options{
		Level:  c.LogLevel,
		Pretty: c.LogPretty || c.IsDevelopment(),
	})
}

func initLogger(c config.Common, service string) zerolog.Logger {
	return logger.ForService(baseLogger(c), service)
}
