package scanner

import (
	"bufio"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"

	"github.com/jamesainslie/sift/pkg/sift/types"
)

// Header is the column layout written by WriteCSV.
var Header = []string{"path", "size", "allocated", "modified", "is_dir", "files_count", "folders_count"}

// WriteCSV writes entries as an inventory with a header line.
func WriteCSV(w io.Writer, entries []types.Entry) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(Header); err != nil {
		return err
	}

	record := make([]string, len(Header))
	for _, e := range entries {
		isDir := "0"
		if e.IsDir {
			isDir = "1"
		}
		record[0] = e.Path
		record[1] = strconv.FormatInt(e.Size, 10)
		record[2] = strconv.FormatInt(e.Allocated, 10)
		record[3] = e.Modified
		record[4] = isDir
		record[5] = strconv.Itoa(e.FilesCount)
		record[6] = strconv.Itoa(e.FoldersCount)
		if err := cw.Write(record); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}

// WriteFile writes entries to the inventory file at path, creating its
// parent directory if needed.
func WriteFile(path string, entries []types.Entry) (err error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating inventory directory: %w", err)
		}
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating inventory: %w", err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("closing inventory: %w", cerr)
		}
	}()

	bw := bufio.NewWriter(f)
	if err := WriteCSV(bw, entries); err != nil {
		return fmt.Errorf("writing inventory: %w", err)
	}
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("writing inventory: %w", err)
	}

	logger.Debug("inventory written", "path", path, "rows", len(entries))
	return nil
}
