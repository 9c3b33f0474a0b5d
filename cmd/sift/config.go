package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"slices"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/jamesainslie/sift/pkg/sift/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage configuration",
	Long: `Manage sift configuration settings.

Configuration is loaded from:
  1. the file given with --config
  2. $XDG_CONFIG_HOME/sift/config.yaml
  3. ~/.config/sift/config.yaml

Environment variables can override config file settings using the SIFT_ prefix:
  SIFT_OUTPUT=yaml
  SIFT_LIMITS_LARGEST=50
  SIFT_LOGGING_LEVEL=debug

A .env file in the working directory is loaded first.`,
	// Config commands must work while the config file is broken.
	PersistentPreRunE: func(_ *cobra.Command, _ []string) error { return nil },
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current configuration",
	Long:  `Display the current configuration settings from all sources.`,
	RunE:  runConfigShow,
}

var configEditCmd = &cobra.Command{
	Use:   "edit",
	Short: "Edit configuration file",
	Long: `Open the configuration file in your default editor.

The editor is determined by:
  1. $VISUAL environment variable
  2. $EDITOR environment variable
  3. Falls back to 'vi'

If the config file doesn't exist, a default one will be created first.`,
	RunE: runConfigEdit,
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Create default configuration file",
	Long:  `Create a default configuration file if one doesn't exist.`,
	RunE:  runConfigInit,
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Show configuration file path",
	Long:  `Display the path to the configuration file.`,
	RunE:  runConfigPath,
}

func init() {
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configEditCmd)
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configPathCmd)
	rootCmd.AddCommand(configCmd)
}

// configFilePath returns the file named by --config, or the default path.
func configFilePath() string {
	if cfgFile != "" {
		return cfgFile
	}
	return config.ConfigPath()
}

// runConfigShow displays the current configuration.
func runConfigShow(cmd *cobra.Command, _ []string) error {
	out := cmd.OutOrStdout()

	cfg, err := currentConfig()
	if err != nil {
		printError("Failed to load configuration: %v", err)
		// Show defaults anyway
		v := viper.New()
		config.SetDefaults(v)
		if cfg, err = config.Decode(v); err != nil {
			return err
		}
	}

	if configFile := viper.ConfigFileUsed(); configFile != "" {
		fmt.Fprintf(out, "Config file: %s\n\n", configFile)
	} else {
		fmt.Fprintln(out, "Config file: (using defaults, no file found)")
		fmt.Fprintln(out)
	}

	printConfig(out, cfg)

	fmt.Fprintln(out, "\nEnvironment Overrides:")
	fmt.Fprintln(out, "----------------------")
	overrides := environmentOverrides(os.Environ())
	if len(overrides) == 0 {
		fmt.Fprintln(out, "(none)")
	}
	for _, kv := range overrides {
		fmt.Fprintln(out, kv)
	}
	return nil
}

// currentConfig decodes the global viper state, reporting a config file
// read failure first.
func currentConfig() (*config.Config, error) {
	if configErr != nil {
		return nil, configErr
	}
	return config.Decode(viper.GetViper())
}

func printConfig(out io.Writer, cfg *config.Config) {
	fmt.Fprintln(out, "Current Configuration:")
	fmt.Fprintln(out, "----------------------")
	fmt.Fprintf(out, "output:                  %s\n", cfg.Output)
	fmt.Fprintf(out, "rollup:                  %s\n", cfg.Rollup)
	fmt.Fprintf(out, "limits.largest:          %d\n", cfg.Limits.Largest)
	fmt.Fprintf(out, "limits.by_type:          %d\n", cfg.Limits.ByType)
	fmt.Fprintf(out, "limits.top_folders:      %d\n", cfg.Limits.TopFolders)
	fmt.Fprintf(out, "depth.top_folders:       %d\n", cfg.Depth.TopFolders)
	fmt.Fprintf(out, "depth.folder:            %d\n", cfg.Depth.Folder)
	fmt.Fprintf(out, "classify.sample_size:    %d\n", cfg.Classify.SampleSize)

	categories := make([]string, 0, len(cfg.Classify.Safety))
	for category := range cfg.Classify.Safety {
		categories = append(categories, category)
	}
	slices.Sort(categories)
	for _, category := range categories {
		fmt.Fprintf(out, "classify.safety.%-8s %s\n", category+":", cfg.Classify.Safety[category])
	}

	fmt.Fprintf(out, "scan.exclude:            %v\n", cfg.Scan.Exclude)
	fmt.Fprintf(out, "scan.skip_hidden:        %t\n", cfg.Scan.SkipHidden)
	fmt.Fprintf(out, "scan.progress_interval:  %s entries\n", humanize.Comma(int64(cfg.Scan.ProgressInterval)))
	fmt.Fprintf(out, "logging.level:           %s\n", cfg.Logging.Level)
	logPath := cfg.Logging.Path
	if logPath == "" {
		logPath = "(disabled)"
	}
	fmt.Fprintf(out, "logging.path:            %s\n", logPath)
}

// environmentOverrides returns the SIFT_ variables of environ, sorted.
func environmentOverrides(environ []string) []string {
	var out []string
	for _, kv := range environ {
		if strings.HasPrefix(kv, config.EnvPrefix+"_") {
			out = append(out, kv)
		}
	}
	slices.Sort(out)
	return out
}

// runConfigEdit opens the config file in an editor.
func runConfigEdit(_ *cobra.Command, _ []string) error {
	configPath := configFilePath()

	// Ensure config file exists
	if _, err := config.WriteDefault(configPath); err != nil {
		return fmt.Errorf("failed to create config file: %w", err)
	}

	editor := os.Getenv("VISUAL")
	if editor == "" {
		editor = os.Getenv("EDITOR")
	}
	if editor == "" {
		editor = "vi"
	}

	printVerbose("Opening %s with %s", configPath, editor)

	editorCmd := exec.Command(editor, configPath)
	editorCmd.Stdin = os.Stdin
	editorCmd.Stdout = os.Stdout
	editorCmd.Stderr = os.Stderr

	if err := editorCmd.Run(); err != nil {
		return fmt.Errorf("editor command failed: %w", err)
	}
	return nil
}

// runConfigInit creates a default config file.
func runConfigInit(cmd *cobra.Command, _ []string) error {
	configPath := configFilePath()

	written, err := config.WriteDefault(configPath)
	if err != nil {
		return fmt.Errorf("failed to create config file: %w", err)
	}
	if !written {
		fmt.Fprintf(cmd.OutOrStdout(), "Config file already exists: %s\n", configPath)
		printInfo("Use 'sift config edit' to modify it.")
		return nil
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Created default config file: %s\n", configPath)
	return nil
}

// runConfigPath shows the config file path.
func runConfigPath(cmd *cobra.Command, _ []string) error {
	configPath := configFilePath()
	fmt.Fprintln(cmd.OutOrStdout(), configPath)

	if _, err := os.Stat(configPath); err == nil {
		printVerbose("File exists")
	} else if errors.Is(err, os.ErrNotExist) {
		printVerbose("File does not exist (will use defaults)")
	}
	return nil
}
