package main

import (
	"fmt"
	"os"
	"strings"

	"fjacquet/tbs-price-summary/cmd/batch"
	"fjacquet/tbs-price-summary/cmd/history"
	"fjacquet/tbs-price-summary/cmd/root"
	"fjacquet/tbs-price-summary/cmd/summarize"
	"fjacquet/tbs-price-summary/internal/config"

	"github.com/sirupsen/logrus"
)

func init() {
	// 1. Load environment variables silently first (no logging yet)
	config.LoadEnv()

	// 2. Configure the global log level before any logger is created
	configureLogLevelDirectly()

	// 3. Initialize root command
	root.Init()

	// 4. Add all subcommands
	root.Cmd.AddCommand(summarize.Cmd)
	root.Cmd.AddCommand(batch.Cmd)
	root.Cmd.AddCommand(history.Cmd)
}

// configureLogLevelDirectly sets the global logrus level from LOG_LEVEL
func configureLogLevelDirectly() {
	logLevel, err := logrus.ParseLevel(strings.ToLower(config.GetEnv("LOG_LEVEL", "info")))
	if err != nil {
		logLevel = logrus.InfoLevel
	}
	logrus.SetLevel(logLevel)
}

func main() {
	if err := root.Cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
