package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/jamesainslie/sift/pkg/sift/config"
)

var (
	cfgFile string

	// configErr holds a config file read failure from initConfig. It is
	// returned by the first command that runs.
	configErr error

	rootCmd = &cobra.Command{
		Use:   "sift",
		Short: "Analyze disk inventory files",
		Long: `Sift answers "where did my disk space go?" from a CSV inventory of a
file system, without touching the file system itself.

Every analysis command takes the inventory file as its first argument and
prints a JSON (or YAML) document on stdout.

Examples:
  sift scan ~ home.csv               # Produce an inventory of your home directory
  sift summary home.csv              # Totals and top extensions
  sift largest home.csv --limit 50   # Fifty largest files
  sift top-folders home.csv -d 3     # Largest directories, three levels deep
  sift folder home.csv ~/Library     # Drill into one directory
  sift cleanable home.csv            # Reclaimable space by safety tier
  sift search home.csv '*.iso'       # Case-insensitive name search
  sift filter home.csv 'size>=1G,ext=.mov'`,
		SilenceUsage:      true,
		PersistentPreRunE: bootstrap,
	}
)

func init() {
	cobra.OnInitialize(initConfig)

	// Persistent flags (available to all commands)
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: ~/.config/sift/config.yaml)")
	rootCmd.PersistentFlags().StringP("output", "o", config.DefaultOutput, "report format (json, yaml)")
	rootCmd.PersistentFlags().String("rollup", config.DefaultRollup, "directory size rollup (auto, always, never)")
	rootCmd.PersistentFlags().BoolP("quiet", "q", false, "only log errors")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "debug output")

	// Bind flags to viper
	_ = viper.BindPFlag("output", rootCmd.PersistentFlags().Lookup("output"))
	_ = viper.BindPFlag("rollup", rootCmd.PersistentFlags().Lookup("rollup"))
	_ = viper.BindPFlag("quiet", rootCmd.PersistentFlags().Lookup("quiet"))
	_ = viper.BindPFlag("verbose", rootCmd.PersistentFlags().Lookup("verbose"))
}

// initConfig reads in config file and environment variables.
func initConfig() {
	configErr = config.Apply(viper.GetViper(), cfgFile)
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// getVerbose returns true if verbose mode is enabled.
func getVerbose() bool {
	return viper.GetBool("verbose")
}

// getQuiet returns true if quiet mode is enabled.
func getQuiet() bool {
	return viper.GetBool("quiet")
}

// printVerbose prints a message if verbose mode is enabled.
func printVerbose(format string, args ...interface{}) {
	if getVerbose() && !getQuiet() {
		fmt.Fprintf(os.Stderr, "[DEBUG] "+format+"\n", args...)
	}
}

// printInfo prints a message to stderr if quiet mode is not enabled.
// Stdout is reserved for reports.
func printInfo(format string, args ...interface{}) {
	if !getQuiet() {
		fmt.Fprintf(os.Stderr, format+"\n", args...)
	}
}

// printError prints an error message to stderr.
func printError(format string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, "Error: "+format+"\n", args...)
}
