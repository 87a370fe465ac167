package cli

import (
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"ranking-quiz-service/internal/config"
	"ranking-quiz-service/internal/logging"
)

var (
	port       string
	configPath string
	logLevel   string
)

// Execute runs the CLI.
func Execute() error {
	return newRootCmd().Execute()
}

func newRootCmd() *cobra.Command {
	envConfig := os.Getenv("CONFIG_PATH")
	if envConfig == "" {
		envConfig = "config/config.yaml"
	}

	cmd := &cobra.Command{
		Use:          "ranking-quiz",
		Short:        "Drag-and-drop ranking quiz service",
		SilenceUsage: true,
	}

	cmd.PersistentFlags().StringVar(&port, "port", os.Getenv("PORT"), "port to listen on (default: server.port, then 8080)")
	cmd.PersistentFlags().StringVar(&configPath, "config", envConfig, "path to YAML config")
	cmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "override the configured log level")
	cmd.AddCommand(NewStartCmd(&configPath, &port))
	cmd.AddCommand(NewMigrateCmd(&configPath))
	cmd.AddCommand(NewSeedCmd(&configPath))
	cmd.AddCommand(NewCheckCmd(&configPath))
	return cmd
}

// loadConfig reads the config file; a missing file at the default path yields defaults.
func loadConfig(path string) (config.Config, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) && path == "config/config.yaml" {
		return config.Parse(nil)
	}
	return config.Load(path)
}

func newLogger(cfg config.Config) (*zap.Logger, error) {
	level := cfg.Log.Level
	if logLevel != "" {
		level = logLevel
	}
	return logging.New(level, cfg.Log.Debug)
}
