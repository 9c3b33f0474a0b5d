// Package config provides configuration management for sift.
package config

// Default configuration values for sift.
const (
	// DefaultOutput is the report format used when none is configured.
	DefaultOutput = "json"

	// DefaultRollup is the directory rollup policy.
	DefaultRollup = RollupAuto

	// DefaultLargestLimit is the number of files returned by largest.
	DefaultLargestLimit = 20

	// DefaultByTypeLimit is the number of extension groups returned by by-type.
	DefaultByTypeLimit = 30

	// DefaultTopFoldersLimit is the number of directories per level returned by top-folders.
	DefaultTopFoldersLimit = 10

	// DefaultTopFoldersDepth is the number of levels below the scan root reported by top-folders.
	DefaultTopFoldersDepth = 2

	// DefaultFolderDepth is the number of levels below the target reported by folder.
	DefaultFolderDepth = 1

	// DefaultSampleSize is the number of largest files kept per cleanable category.
	DefaultSampleSize = 50

	// DefaultProgressInterval is the number of entries between scan progress checks.
	DefaultProgressInterval = 10000

	// DefaultLogLevel is the file log level.
	DefaultLogLevel = "info"

	// DefaultConsoleLevel is the stderr log level without -v or -q.
	DefaultConsoleLevel = "warn"
)

// Rollup policies.
const (
	// RollupAuto recomputes directory sizes only for inventories whose
	// directory sizes are not authoritative.
	RollupAuto = "auto"
	// RollupAlways always recomputes directory sizes from file sizes.
	RollupAlways = "always"
	// RollupNever trusts directory sizes from the inventory.
	RollupNever = "never"
)

// DefaultScanExclusions contains paths that are never worth inventorying.
var DefaultScanExclusions = []string{
	"/proc",
	"/sys",
	"/dev",
}
