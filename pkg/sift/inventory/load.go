package inventory

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strconv"
	"strings"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"

	"github.com/jamesainslie/sift/pkg/sift/logging"
	"github.com/jamesainslie/sift/pkg/sift/types"
)

var logger = logging.Get("inventory")

// columns maps entry fields to record indexes. -1 marks an absent column.
type columns struct {
	path, size, allocated, modified, isDir, files, folders int
}

// positional is the Windows export column order, used when no header is present.
var positional = columns{path: 0, size: 1, allocated: 2, modified: 3, isDir: -1, files: 5, folders: 6}

// headerFields maps lower-cased header names to the field they populate.
var headerFields = map[string]string{
	"path":          "path",
	"file name":     "path",
	"filename":      "path",
	"name":          "path",
	"size":          "size",
	"allocated":     "allocated",
	"modified":      "modified",
	"is_dir":        "is_dir",
	"files_count":   "files",
	"files":         "files",
	"folders_count": "folders",
	"folders":       "folders",
}

func columnsFromHeader(header []string) columns {
	c := columns{path: -1, size: -1, allocated: -1, modified: -1, isDir: -1, files: -1, folders: -1}
	for i, h := range header {
		field, ok := headerFields[strings.ToLower(strings.TrimSpace(h))]
		if !ok {
			continue
		}
		switch field {
		case "path":
			c.path = i
		case "size":
			c.size = i
		case "allocated":
			c.allocated = i
		case "modified":
			c.modified = i
		case "is_dir":
			c.isDir = i
		case "files":
			c.files = i
		case "folders":
			c.folders = i
		}
	}
	return c
}

// headerDialect classifies the first cell of a record. ok is false for data rows.
func headerDialect(first string) (d Dialect, ok bool) {
	switch first {
	case "path":
		return DialectPOSIX, true
	case "file name", "filename", "name":
		return DialectWindows, true
	default:
		return DialectPOSIX, false
	}
}

// Load reads and enriches the inventory at path.
// Only a file that cannot be opened or read is an error; malformed rows
// are dropped and counted in Inventory.Skipped.
func Load(path string) (*Inventory, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %w", ErrInventoryNotFound, err)
		}
		return nil, fmt.Errorf("opening inventory: %w", err)
	}
	defer f.Close()

	inv, err := Read(f)
	if err != nil {
		return nil, fmt.Errorf("reading inventory %s: %w", path, err)
	}
	inv.Source = path
	return inv, nil
}

// Read parses an inventory from r. A byte-order mark is stripped and
// invalid UTF-8 is replaced rather than rejected.
func Read(r io.Reader) (*Inventory, error) {
	decoded := transform.NewReader(r, transform.Chain(unicode.BOMOverride(transform.Nop), unicode.UTF8.NewDecoder()))
	reader := csv.NewReader(decoded)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	inv := &Inventory{Dialect: DialectPOSIX, Entries: []types.Entry{}}
	var cols *columns

	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			var parseErr *csv.ParseError
			if errors.As(err, &parseErr) {
				logger.Debug("dropping unparsable line", "line", parseErr.Line, "err", parseErr.Err)
				inv.Skipped++
				continue
			}
			return nil, err
		}

		first := strings.ToLower(strings.TrimSpace(record[0]))
		if strings.HasPrefix(first, "generated") {
			continue
		}
		if len(record) < 2 {
			if first != "" {
				inv.Skipped++
			}
			continue
		}
		if dialect, ok := headerDialect(first); ok {
			if cols == nil {
				c := columnsFromHeader(record)
				cols = &c
				inv.Dialect = dialect
			}
			continue
		}
		if cols == nil {
			c := positional
			cols = &c
			inv.Dialect = DialectWindows
			logger.Debug("no header found, assuming positional windows export layout")
		}

		entry, ok := parseRecord(record, *cols, inv.Dialect.Sep())
		if !ok {
			inv.Skipped++
			continue
		}
		inv.Entries = append(inv.Entries, Enrich(entry, inv.Dialect.Sep()))
	}

	logger.Debug("inventory loaded",
		"dialect", inv.Dialect.String(),
		"entries", len(inv.Entries),
		"skipped", inv.Skipped)

	return inv, nil
}

func cell(record []string, i int) string {
	if i < 0 || i >= len(record) {
		return ""
	}
	return record[i]
}

func parseRecord(record []string, c columns, sep byte) (types.Entry, bool) {
	path := strings.TrimSpace(cell(record, c.path))
	if path == "" {
		return types.Entry{}, false
	}

	e := types.Entry{
		Path:         path,
		Size:         types.ParseSizeLenient(cell(record, c.size)),
		Allocated:    types.ParseSizeLenient(cell(record, c.allocated)),
		Modified:     strings.TrimSpace(cell(record, c.modified)),
		FilesCount:   parseCount(cell(record, c.files)),
		FoldersCount: parseCount(cell(record, c.folders)),
	}

	if c.isDir >= 0 {
		e.IsDir = parseFlag(cell(record, c.isDir))
	} else {
		e.IsDir = e.FilesCount > 0 || e.FoldersCount > 0 || path[len(path)-1] == sep
	}

	return e, true
}

// parseFlag accepts 1, true and yes in any case.
func parseFlag(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "1", "true", "yes":
		return true
	default:
		return false
	}
}

// parseCount accepts unsigned decimal digits only; anything else is 0.
func parseCount(s string) int {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return 0
		}
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0
	}
	return n
}
