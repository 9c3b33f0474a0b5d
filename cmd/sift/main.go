// Package main is the entry point for the sift CLI.
package main

import (
	"os"

	"github.com/jamesainslie/sift/pkg/sift/logging"
)

func main() {
	err := Execute()
	_ = logging.Close()
	if err != nil {
		os.Exit(1)
	}
}
