package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/jamesainslie/sift/pkg/sift/config"
	"github.com/jamesainslie/sift/pkg/sift/logging"
)

// settings is the decoded configuration of the running command.
var settings *config.Config

var logger = logging.Get("cli")

// progressAnnotation marks commands whose info-level log lines are
// progress reports shown on the console by default.
const progressAnnotation = "sift/progress"

// bootstrap decodes configuration and initializes logging before any
// command runs.
func bootstrap(cmd *cobra.Command, _ []string) error {
	if configErr != nil {
		return configErr
	}

	cfg, err := config.Decode(viper.GetViper())
	if err != nil {
		return err
	}
	settings = cfg

	if err := logging.Init(loggingConfig(cfg, getVerbose(), getQuiet(), reportsProgress(cmd))); err != nil {
		return fmt.Errorf("initializing logging: %w", err)
	}

	if used := viper.ConfigFileUsed(); used != "" {
		logger.Debug("config loaded", "file", used)
	}
	return nil
}

func reportsProgress(cmd *cobra.Command) bool {
	return cmd != nil && cmd.Annotations[progressAnnotation] == "true"
}

// loggingConfig maps the logging section of cfg and the verbosity flags
// to a logging.Config. Quiet wins over verbose.
func loggingConfig(cfg *config.Config, verbose, quiet, progress bool) logging.Config {
	console := config.DefaultConsoleLevel
	switch {
	case quiet:
		console = "error"
	case verbose:
		console = "debug"
	case progress:
		console = "info"
	}

	return logging.Config{
		Level:        cfg.Logging.Level,
		Path:         cfg.Logging.Path,
		Components:   cfg.Logging.Components,
		ConsoleLevel: console,
	}
}
