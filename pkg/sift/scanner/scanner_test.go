package scanner

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jamesainslie/sift/pkg/sift/inventory"
	"github.com/jamesainslie/sift/pkg/sift/types"
)

// makeTree creates a small directory tree and returns its root.
//
//	root/
//	  top.txt            10
//	  a/large.bin       300
//	  a/b/f1.tmp        100
//	  .hidden/x           5
//	  node_modules/pkg/index.js 50
func makeTree(t *testing.T) string {
	t.Helper()
	root := t.TempDir()

	files := map[string]int{
		"top.txt":                   10,
		"a/large.bin":               300,
		"a/b/f1.tmp":                100,
		".hidden/x":                 5,
		"node_modules/pkg/index.js": 50,
	}
	for rel, size := range files {
		p := filepath.Join(root, filepath.FromSlash(rel))
		require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
		require.NoError(t, os.WriteFile(p, bytes.Repeat([]byte("x"), size), 0o644))
	}
	return root
}

func scan(t *testing.T, opts Options) *Result {
	t.Helper()
	s, err := New(opts)
	require.NoError(t, err)
	result, err := s.Scan(context.Background())
	require.NoError(t, err)
	return result
}

func byPath(result *Result) map[string]types.Entry {
	out := make(map[string]types.Entry, len(result.Entries))
	for _, e := range result.Entries {
		out[strings.TrimPrefix(e.Path, result.Root)] = e
	}
	return out
}

func TestDefaultOptions(t *testing.T) {
	opts := DefaultOptions()

	if opts.Root != "." {
		t.Errorf("expected Root='.', got %q", opts.Root)
	}
	if opts.ProgressInterval != 10000 {
		t.Errorf("expected ProgressInterval=10000, got %d", opts.ProgressInterval)
	}
	if opts.ProgressEvery != DefaultProgressEvery {
		t.Errorf("expected ProgressEvery=%v, got %v", DefaultProgressEvery, opts.ProgressEvery)
	}
}

func TestOptionsValidate(t *testing.T) {
	opts := Options{MaxDepth: -3}
	opts.Validate()
	if opts.Root != "." {
		t.Errorf("Root: got %q, want %q", opts.Root, ".")
	}
	if opts.MaxDepth != 0 {
		t.Errorf("MaxDepth: got %d, want 0", opts.MaxDepth)
	}
	if opts.ProgressInterval != 10000 {
		t.Errorf("ProgressInterval: got %d, want 10000", opts.ProgressInterval)
	}
}

func TestNew_AppliesDefaults(t *testing.T) {
	s, err := New(Options{MaxDepth: -1})
	require.NoError(t, err)
	assert.Equal(t, ".", s.opts.Root)
	assert.Equal(t, 0, s.opts.MaxDepth)
	assert.Equal(t, 10000, s.opts.ProgressInterval)
	assert.Equal(t, DefaultProgressEvery, s.opts.ProgressEvery)
}

func TestScan(t *testing.T) {
	root := makeTree(t)
	result := scan(t, Options{Root: root})

	assert.Equal(t, filepath.ToSlash(root), result.Root)
	assert.Equal(t, int64(5), result.FilesScanned)
	assert.Equal(t, int64(6), result.DirsScanned, "root, a, a/b, .hidden, node_modules, node_modules/pkg")
	assert.Empty(t, result.Errors)

	entries := byPath(result)
	require.Contains(t, entries, "")
	assert.Equal(t, int64(465), entries[""].Size)
	assert.Equal(t, int64(465), entries[""].Allocated)
	assert.Equal(t, 1, entries[""].FilesCount)
	assert.Equal(t, 3, entries[""].FoldersCount)

	assert.Equal(t, int64(400), entries["/a"].Size)
	assert.Equal(t, 1, entries["/a"].FilesCount)
	assert.Equal(t, 1, entries["/a"].FoldersCount)
	assert.Equal(t, int64(100), entries["/a/b"].Size)

	f1 := entries["/a/b/f1.tmp"]
	assert.False(t, f1.IsDir)
	assert.Equal(t, int64(100), f1.Size)
	assert.Equal(t, ".tmp", f1.Ext)
	assert.NotEmpty(t, f1.Modified)

	for i := 1; i < len(result.Entries); i++ {
		assert.Less(t, result.Entries[i-1].Path, result.Entries[i].Path, "entries are sorted by path")
	}
}

func TestScan_SkipHidden(t *testing.T) {
	root := makeTree(t)
	entries := byPath(scan(t, Options{Root: root, SkipHidden: true}))

	assert.NotContains(t, entries, "/.hidden")
	assert.NotContains(t, entries, "/.hidden/x")
	assert.Equal(t, int64(460), entries[""].Size)
	assert.Equal(t, 2, entries[""].FoldersCount)
}

func TestScan_Exclude(t *testing.T) {
	root := makeTree(t)

	tests := []struct {
		name     string
		exclude  []string
		gone     []string
		kept     []string
		rootSize int64
	}{
		{name: "by name", exclude: []string{"node_modules"}, gone: []string{"/node_modules", "/node_modules/pkg/index.js"}, rootSize: 415},
		{name: "name glob", exclude: []string{"*.tmp"}, gone: []string{"/a/b/f1.tmp"}, rootSize: 365},
		{name: "path fragment", exclude: []string{"a/b"}, gone: []string{"/a/b", "/a/b/f1.tmp"}, kept: []string{"/a", "/a/large.bin"}, rootSize: 365},
		{name: "absolute prefix", exclude: []string{filepath.ToSlash(filepath.Join(root, "a"))}, gone: []string{"/a", "/a/large.bin"}, rootSize: 65},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			entries := byPath(scan(t, Options{Root: root, Exclude: tt.exclude}))
			for _, p := range tt.gone {
				assert.NotContains(t, entries, p)
			}
			for _, p := range tt.kept {
				assert.Contains(t, entries, p)
			}
			assert.Equal(t, tt.rootSize, entries[""].Size)
		})
	}
}

func TestScan_MaxDepth(t *testing.T) {
	root := makeTree(t)
	entries := byPath(scan(t, Options{Root: root, MaxDepth: 1}))

	assert.Contains(t, entries, "/a")
	assert.Contains(t, entries, "/a/large.bin")
	assert.NotContains(t, entries, "/a/b")
	assert.NotContains(t, entries, "/a/b/f1.tmp")
	assert.NotContains(t, entries, "/node_modules/pkg")
}

func TestScan_NotADirectory(t *testing.T) {
	root := makeTree(t)
	s, err := New(Options{Root: filepath.Join(root, "top.txt")})
	require.NoError(t, err)

	_, err = s.Scan(context.Background())
	assert.ErrorIs(t, err, ErrNotDirectory)
}

func TestScan_MissingRoot(t *testing.T) {
	s, err := New(Options{Root: filepath.Join(t.TempDir(), "missing")})
	require.NoError(t, err)

	_, err = s.Scan(context.Background())
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestScan_Cancelled(t *testing.T) {
	root := makeTree(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	s, err := New(Options{Root: root})
	require.NoError(t, err)

	_, err = s.Scan(ctx)
	require.Error(t, err)
	assert.True(t, IsInterrupted(err))
}

func TestNew_InvalidExclude(t *testing.T) {
	_, err := New(Options{Exclude: []string{"[unterminated"}})
	assert.Error(t, err)
}

func TestWriteFile_RoundTrip(t *testing.T) {
	root := makeTree(t)
	result := scan(t, Options{Root: root})

	out := filepath.Join(t.TempDir(), "nested", "inventory.csv")
	require.NoError(t, WriteFile(out, result.Entries))

	inv, err := inventory.Load(out)
	require.NoError(t, err)

	assert.Equal(t, inventory.DialectPOSIX, inv.Dialect)
	assert.Equal(t, 0, inv.Skipped)
	assert.Equal(t, result.Entries, inv.Entries)
}

func TestWriteCSV_Header(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, []types.Entry{{Path: "/x, y", Size: 3, Allocated: 4096, IsDir: false}}))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "path,size,allocated,modified,is_dir,files_count,folders_count", lines[0])
	assert.Equal(t, `"/x, y",3,4096,,0,0,0`, lines[1])
}
