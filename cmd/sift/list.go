package main

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/jamesainslie/sift/pkg/sift/config"
	"github.com/jamesainslie/sift/pkg/sift/query"
	"github.com/jamesainslie/sift/pkg/sift/report"
)

var summaryCmd = &cobra.Command{
	Use:   "summary <inventory>",
	Short: "Show totals and the top extensions",
	Long: `Report the total file size, the number of files and directories, and the
ten extensions holding the most bytes.`,
	Args: cobra.ExactArgs(1),
	RunE: runSummary,
}

var largestCmd = &cobra.Command{
	Use:   "largest <inventory>",
	Short: "List the largest files",
	Long: `List files by size, largest first. Ties keep inventory order.

Directories are never listed.`,
	Args: cobra.ExactArgs(1),
	RunE: runLargest,
}

var byTypeCmd = &cobra.Command{
	Use:   "by-type <inventory>",
	Short: "Group files by extension",
	Long: `Group files by lowercased extension and list the groups holding the most
bytes. Files without an extension are grouped under "(no extension)".`,
	Args: cobra.ExactArgs(1),
	RunE: runByType,
}

func init() {
	largestCmd.Flags().IntP("limit", "l", config.DefaultLargestLimit, "number of files to list")
	_ = viper.BindPFlag("limits.largest", largestCmd.Flags().Lookup("limit"))

	byTypeCmd.Flags().IntP("limit", "l", config.DefaultByTypeLimit, "number of extension groups to list")
	_ = viper.BindPFlag("limits.by_type", byTypeCmd.Flags().Lookup("limit"))

	rootCmd.AddCommand(summaryCmd)
	rootCmd.AddCommand(largestCmd)
	rootCmd.AddCommand(byTypeCmd)
}

func runSummary(cmd *cobra.Command, args []string) error {
	inv, err := loadInventory(args[0])
	if err != nil {
		return err
	}
	return writeReport(cmd, report.NewSummary(query.Summary(inv.Entries)))
}

func runLargest(cmd *cobra.Command, args []string) error {
	inv, err := loadInventory(args[0])
	if err != nil {
		return err
	}
	return writeReport(cmd, report.NewLargest(query.Largest(inv.Entries, settings.Limits.Largest)))
}

func runByType(cmd *cobra.Command, args []string) error {
	inv, err := loadInventory(args[0])
	if err != nil {
		return err
	}
	return writeReport(cmd, report.NewByType(query.ByType(inv.Entries, settings.Limits.ByType)))
}
