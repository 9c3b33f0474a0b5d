//go:build unix

package scanner

import (
	"io/fs"

	"golang.org/x/sys/unix"
)

// allocatedSize returns the bytes allocated on disk for the file at path.
// Sparse and compressed files may allocate less than their size.
func allocatedSize(path string, info fs.FileInfo) int64 {
	var st unix.Stat_t
	if err := unix.Lstat(path, &st); err != nil {
		return info.Size()
	}
	return int64(st.Blocks) * 512
}
