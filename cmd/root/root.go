// Package root contains the root command for the application
package root

import (
	"fmt"

	"fjacquet/tbs-price-summary/internal/config"
	"fjacquet/tbs-price-summary/internal/container"
	"fjacquet/tbs-price-summary/internal/logging"

	"github.com/spf13/cobra"
)

// CommonFlags represents the flags that are common to multiple commands
type CommonFlags struct {
	Input      string
	Output     string
	ConfigFile string
	LogLevel   string
}

var (
	// Log is the shared logger instance for commands
	Log = logging.GetLogger()

	// Cmd is the root command
	Cmd = &cobra.Command{
		Use:   "tbs-price-summary",
		Short: "A CLI tool to turn weekly TBS price change reports into an email-ready summary.",
		Long: `tbs-price-summary reads the weekly TBS price change report (XLSX or CSV),
classifies every price change and renders a plain-text summary grouped by
manufacturer and category, ready to paste into an email.`,
		Run: func(cmd *cobra.Command, args []string) {
			Log.Info("Welcome to tbs-price-summary!")
			Log.Info("Use --help to see available commands")
		},
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return initialize()
		},
		// Save the price history after any command that changed it
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if appContainer == nil || appContainer.GetHistory() == nil {
				return
			}
			if err := appContainer.GetHistory().Save(); err != nil {
				Log.WithError(err).Warn("Failed to save price history")
			}
		},
	}

	// Common flags accessible to all commands
	SharedFlags = CommonFlags{}

	appContainer *container.Container
)

// Init initializes the root command and all flags
func Init() {
	Cmd.PersistentFlags().StringVarP(&SharedFlags.Input, "input", "i", "", "Input report file (or directory for batch)")
	Cmd.PersistentFlags().StringVarP(&SharedFlags.Output, "output", "o", "", "Output directory")
	Cmd.PersistentFlags().StringVar(&SharedFlags.ConfigFile, "config", "", "Config file (default searches ./config.yaml and $HOME/.tbs-price-summary)")
	Cmd.PersistentFlags().StringVar(&SharedFlags.LogLevel, "log-level", "", "Log level: trace, debug, info, warn, error")
}

// initialize loads the configuration and wires the application container.
func initialize() error {
	config.LoadEnv()

	cfg, err := config.InitializeConfig(SharedFlags.ConfigFile)
	if err != nil {
		return err
	}
	if SharedFlags.LogLevel != "" {
		cfg.Log.Level = SharedFlags.LogLevel
	}

	c, err := container.NewContainer(cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize application: %w", err)
	}
	SetContainer(c)
	return nil
}

// GetContainer returns the application container, or nil before the root command ran.
func GetContainer() *container.Container {
	return appContainer
}

// SetContainer replaces the application container and the shared logger.
func SetContainer(c *container.Container) {
	appContainer = c
	if c != nil {
		Log = c.GetLogger()
		logging.SetDefaultLogger(Log)
	}
}

// OutputDir returns the --output flag, falling back to output.directory from the configuration.
func OutputDir() string {
	if SharedFlags.Output != "" {
		return SharedFlags.Output
	}
	if appContainer != nil {
		return appContainer.GetConfig().Output.Directory
	}
	return ""
}
