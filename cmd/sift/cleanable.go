package main

import (
	"github.com/spf13/cobra"

	"github.com/jamesainslie/sift/pkg/sift/classify"
	"github.com/jamesainslie/sift/pkg/sift/report"
)

var cleanableCmd = &cobra.Command{
	Use:   "cleanable <inventory>",
	Short: "Find reclaimable space",
	Long: `Classify files into cleanup categories (temp, cache, dev, browser, log,
backup, system, recycle, download, duplicate, windows) and group them by
safety tier:

  safe   regenerated automatically, delete freely
  check  review before deleting
  admin  needs elevated rights or a system tool

Tiers can be overridden per category with classify.safety in the config
file. Nothing is ever deleted.`,
	Args: cobra.ExactArgs(1),
	RunE: runCleanable,
}

func init() {
	rootCmd.AddCommand(cleanableCmd)
}

// newClassifier builds a classifier from the built-in rules and the
// configured safety overrides.
func newClassifier() (*classify.Classifier, error) {
	safety, err := classify.DefaultSafety().With(settings.Classify.Safety)
	if err != nil {
		return nil, err
	}
	return classify.New(classify.DefaultRules(), safety,
		classify.WithSampleSize(settings.Classify.SampleSize)), nil
}

func runCleanable(cmd *cobra.Command, args []string) error {
	classifier, err := newClassifier()
	if err != nil {
		return err
	}

	inv, err := loadInventory(args[0])
	if err != nil {
		return err
	}

	result := classifier.Classify(inv.Entries, inv.Sep())
	return writeReport(cmd, report.NewCleanable(result))
}
