//go:build !unix

package scanner

import "io/fs"

// allocatedSize returns the file size. Block counts are not available on
// this platform.
func allocatedSize(_ string, info fs.FileInfo) int64 {
	return info.Size()
}
