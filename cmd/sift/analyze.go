package main

import (
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/jamesainslie/sift/pkg/sift/config"
	"github.com/jamesainslie/sift/pkg/sift/hierarchy"
	"github.com/jamesainslie/sift/pkg/sift/inventory"
	"github.com/jamesainslie/sift/pkg/sift/report"
)

// needsRollup reports whether directory sizes of an inventory in dialect
// must be recomputed from its files under policy.
func needsRollup(policy string, dialect inventory.Dialect) bool {
	switch policy {
	case config.RollupAlways:
		return true
	case config.RollupNever:
		return false
	default:
		return !dialect.DirSizesAuthoritative()
	}
}

// loadInventory reads the inventory at path and applies the configured
// rollup policy.
func loadInventory(path string) (*inventory.Inventory, error) {
	inv, err := inventory.Load(path)
	if err != nil {
		return nil, err
	}

	if inv.Skipped > 0 {
		logger.Info("skipped malformed rows", "path", path, "rows", inv.Skipped)
	}
	if needsRollup(settings.Rollup, inv.Dialect) {
		inv.Entries = hierarchy.Rollup(inv.Entries, inv.Sep())
	}

	printVerbose("Loaded %s entries from %s (%s layout)",
		humanize.Comma(int64(len(inv.Entries))), path, inv.Dialect)
	return inv, nil
}

// writeReport renders doc in the configured format to the command output.
func writeReport(cmd *cobra.Command, doc any) error {
	data, err := report.Render(settings.Output, doc)
	if err != nil {
		return err
	}
	if _, err := cmd.OutOrStdout().Write(data); err != nil {
		return fmt.Errorf("writing report: %w", err)
	}
	return nil
}
