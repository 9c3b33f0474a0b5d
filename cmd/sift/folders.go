package main

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/jamesainslie/sift/pkg/sift/config"
	"github.com/jamesainslie/sift/pkg/sift/hierarchy"
	"github.com/jamesainslie/sift/pkg/sift/report"
)

var topFoldersCmd = &cobra.Command{
	Use:   "top-folders <inventory>",
	Short: "List the largest directories per level",
	Long: `List the largest directories at each level below the scan root.

The scan root is the shallowest directory in the inventory. Level 1 holds
its direct subdirectories, level 2 their subdirectories, and so on down to
--depth.`,
	Args: cobra.ExactArgs(1),
	RunE: runTopFolders,
}

var folderCmd = &cobra.Command{
	Use:   "folder <inventory> <path>",
	Short: "Drill into one directory",
	Long: `List the contents of a directory up to --depth levels below it.

Levels above the deepest one list directories only. Paths match by whole
segments, so /Users/ann never matches /Users/anna. Windows inventories
match case-insensitively.`,
	Args: cobra.ExactArgs(2),
	RunE: runFolder,
}

func init() {
	topFoldersCmd.Flags().IntP("depth", "d", config.DefaultTopFoldersDepth, "levels below the scan root")
	topFoldersCmd.Flags().IntP("limit", "l", config.DefaultTopFoldersLimit, "directories per level")
	_ = viper.BindPFlag("depth.top_folders", topFoldersCmd.Flags().Lookup("depth"))
	_ = viper.BindPFlag("limits.top_folders", topFoldersCmd.Flags().Lookup("limit"))

	folderCmd.Flags().IntP("depth", "d", config.DefaultFolderDepth, "levels below the folder")
	_ = viper.BindPFlag("depth.folder", folderCmd.Flags().Lookup("depth"))

	rootCmd.AddCommand(topFoldersCmd)
	rootCmd.AddCommand(folderCmd)
}

func runTopFolders(cmd *cobra.Command, args []string) error {
	inv, err := loadInventory(args[0])
	if err != nil {
		return err
	}
	result := hierarchy.TopFolders(inv.Entries, settings.Depth.TopFolders, settings.Limits.TopFolders)
	return writeReport(cmd, report.NewTopFolders(result))
}

func runFolder(cmd *cobra.Command, args []string) error {
	inv, err := loadInventory(args[0])
	if err != nil {
		return err
	}
	result := hierarchy.Folder(inv.Entries, inv.Sep(), args[1], settings.Depth.Folder)
	if result.TotalMatches == 0 {
		logger.Info("no entries below folder", "path", args[1])
	}
	return writeReport(cmd, report.NewFolder(result))
}
