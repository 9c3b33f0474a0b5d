package main

import (
	"github.com/spf13/cobra"

	"github.com/jamesainslie/sift/pkg/sift/filter"
	"github.com/jamesainslie/sift/pkg/sift/query"
	"github.com/jamesainslie/sift/pkg/sift/report"
)

var searchCmd = &cobra.Command{
	Use:   "search <inventory> <pattern>",
	Short: "Find entries by name",
	Long: `Find files and directories whose name matches pattern, largest first.

'*' matches any run of characters and '?' a single one. The pattern may
match anywhere in the name and ignores case, so "report" finds
"Q3-Report.pdf". At most 100 matches are listed.`,
	Args: cobra.ExactArgs(2),
	RunE: runSearch,
}

var filterCmd = &cobra.Command{
	Use:   "filter <inventory> <conditions>",
	Short: "Find files by conditions",
	Long: `Find files matching every comma-separated condition, largest first.

Fields: size, ext, path, name, depth
Operators: >= <= > < = and ~ (contains)

Examples:
  sift filter home.csv 'size>=1G'
  sift filter home.csv 'ext=.log,path~/var/'
  sift filter home.csv 'name~backup,depth<=3'`,
	Args: cobra.ExactArgs(2),
	RunE: runFilter,
}

func init() {
	rootCmd.AddCommand(searchCmd)
	rootCmd.AddCommand(filterCmd)
}

func runSearch(cmd *cobra.Command, args []string) error {
	pattern := args[1]
	matcher, err := query.CompileSearch(pattern)
	if err != nil {
		return err
	}

	inv, err := loadInventory(args[0])
	if err != nil {
		return err
	}
	return writeReport(cmd, report.NewSearch(pattern, query.Match(inv.Entries, matcher)))
}

func runFilter(cmd *cobra.Command, args []string) error {
	conditions := args[1]
	f, err := filter.Compile(conditions)
	if err != nil {
		return err
	}
	for _, c := range f.Conditions {
		if c.Always() {
			logger.Warn("condition matches everything", "condition", c.Raw)
		}
	}

	inv, err := loadInventory(args[0])
	if err != nil {
		return err
	}
	return writeReport(cmd, report.NewFilter(conditions, f.Apply(inv.Entries)))
}
