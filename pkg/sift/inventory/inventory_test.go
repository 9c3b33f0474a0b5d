package inventory

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jamesainslie/sift/pkg/sift/types"
)

func TestDepth(t *testing.T) {
	tests := []struct {
		name string
		path string
		sep  byte
		want int
	}{
		{name: "posix root", path: "/", sep: '/', want: 0},
		{name: "posix file", path: "/a/b/f1.tmp", sep: '/', want: 3},
		{name: "posix trailing separator", path: "/a/b/", sep: '/', want: 2},
		{name: "posix doubled separator", path: "/a//b", sep: '/', want: 2},
		{name: "drive root", path: `C:\`, sep: '\\', want: 0},
		{name: "drive child", path: `C:\Users`, sep: '\\', want: 1},
		{name: "drive directory with trailing separator", path: `C:\Users\ann\`, sep: '\\', want: 2},
		{name: "backslash path without drive", path: `\share\data`, sep: '\\', want: 2},
		{name: "unc share root", path: `\\server\share`, sep: '\\', want: 0},
		{name: "unc share child", path: `\\server\share\x`, sep: '\\', want: 1},
		{name: "unc share directory with trailing separator", path: `\\server\share\x\y\`, sep: '\\', want: 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Depth(tt.path, tt.sep))
		})
	}
}

func TestExt(t *testing.T) {
	tests := []struct {
		name string
		want string
	}{
		{name: "report.PDF", want: ".pdf"},
		{name: "archive.tar.gz", want: ".gz"},
		{name: ".bashrc", want: ""},
		{name: "Makefile", want: ""},
		{name: "trailing.", want: ""},
		{name: "notes~", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Ext(tt.name))
		})
	}
}

func TestEnrich(t *testing.T) {
	file := Enrich(types.Entry{Path: "/a/b/F1.TMP"}, '/')
	assert.Equal(t, 3, file.Depth)
	assert.Equal(t, "F1.TMP", file.Name)
	assert.Equal(t, ".tmp", file.Ext)

	dir := Enrich(types.Entry{Path: `C:\Users\data.d\`, IsDir: true}, '\\')
	assert.Equal(t, 2, dir.Depth)
	assert.Equal(t, "data.d", dir.Name)
	assert.Empty(t, dir.Ext, "directories never carry an extension")
}

func TestTrimPath(t *testing.T) {
	assert.Equal(t, "/a/b", TrimPath("/a/b//", '/'))
	assert.Equal(t, "/", TrimPath("/", '/'))
	assert.Equal(t, `C:`, TrimPath(`C:\`, '\\'))
	assert.Equal(t, "", TrimPath("", '/'))
}

func TestRead_POSIX(t *testing.T) {
	input := "path,size,allocated,modified,is_dir,files_count,folders_count\n" +
		"/a,0,0,2024-01-01T00:00:00,1,0,1\n" +
		"/a/b,0,0,2024-01-01T00:00:00,true,1,0\n" +
		"/a/b/f1.tmp,100,4096,2024-01-02T10:00:00,0,0,0\n"

	inv, err := Read(strings.NewReader(input))
	require.NoError(t, err)

	assert.Equal(t, DialectPOSIX, inv.Dialect)
	assert.Equal(t, byte('/'), inv.Sep())
	require.Len(t, inv.Entries, 3)

	a, b, f := inv.Entries[0], inv.Entries[1], inv.Entries[2]
	assert.True(t, a.IsDir)
	assert.Equal(t, 1, a.FoldersCount)
	assert.True(t, b.IsDir)
	assert.Equal(t, 1, b.FilesCount)
	assert.False(t, f.IsDir)
	assert.Equal(t, int64(100), f.Size)
	assert.Equal(t, int64(4096), f.Allocated)
	assert.Equal(t, "2024-01-02T10:00:00", f.Modified)
	assert.Equal(t, "f1.tmp", f.Name)
	assert.Equal(t, ".tmp", f.Ext)
	assert.Equal(t, 3, f.Depth)
}

func TestRead_HeaderColumnsByName(t *testing.T) {
	input := " PATH ,IS_DIR,Size\n" +
		"/x/y.log,0,2048\n" +
		"/x,Yes,0\n"

	inv, err := Read(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, inv.Entries, 2)

	assert.Equal(t, DialectPOSIX, inv.Dialect)
	assert.False(t, inv.Entries[0].IsDir)
	assert.Equal(t, int64(2048), inv.Entries[0].Size)
	assert.True(t, inv.Entries[1].IsDir)
	assert.Equal(t, 0, inv.Entries[1].FilesCount, "absent columns default to zero")
}

func TestRead_WindowsExport(t *testing.T) {
	input := "Generated by WizTree 4.15 1/02/2024 (You can turn off this line in the options)\n" +
		"File Name,Size,Allocated,Modified,Attributes,Files,Folders\n" +
		`"C:\",1073741824,1073741824,2024/01/02 10:00:00,0,10,2` + "\n" +
		`"C:\Users\ann\",2 GB,2 GB,2024/01/02 10:00:00,16,0,0` + "\n" +
		`"C:\Users\ann\empty\",0,0,2024/01/02 10:00:00,16,0,0` + "\n" +
		`"C:\Users\ann\setup.EXE","1,048,576",1 MB,2024/01/02 10:00:00,32,0,0` + "\n"

	inv, err := Read(strings.NewReader(input))
	require.NoError(t, err)

	assert.Equal(t, DialectWindows, inv.Dialect)
	assert.Equal(t, byte('\\'), inv.Sep())
	require.Len(t, inv.Entries, 4)

	root, ann, empty, setup := inv.Entries[0], inv.Entries[1], inv.Entries[2], inv.Entries[3]
	assert.True(t, root.IsDir)
	assert.Equal(t, 0, root.Depth)

	assert.True(t, ann.IsDir, "trailing separator marks a directory")
	assert.Equal(t, 2*types.GiB, ann.Size)
	assert.Equal(t, "ann", ann.Name)

	assert.True(t, empty.IsDir)
	assert.Equal(t, 3, empty.Depth)

	assert.False(t, setup.IsDir)
	assert.Equal(t, int64(1048576), setup.Size)
	assert.Equal(t, types.MiB, setup.Allocated)
	assert.Equal(t, ".exe", setup.Ext)
	assert.Equal(t, 3, setup.Depth)
}

func TestRead_NoHeaderAssumesPositionalWindowsLayout(t *testing.T) {
	input := `D:\data\movie.mkv,500,512,2024/01/01,0,0,0` + "\n"

	inv, err := Read(strings.NewReader(input))
	require.NoError(t, err)

	assert.Equal(t, DialectWindows, inv.Dialect)
	require.Len(t, inv.Entries, 1)
	assert.Equal(t, int64(500), inv.Entries[0].Size)
	assert.Equal(t, ".mkv", inv.Entries[0].Ext)
}

func TestRead_ToleratesMalformedRows(t *testing.T) {
	input := "path,size,allocated,modified,is_dir,files_count,folders_count\n" +
		",100,100,,0,0,0\n" +
		"lonely-cell\n" +
		"/ok/bad-size.bin,twelve,??,,0,x,-1\n" +
		"/ok/short.txt,7\n"

	inv, err := Read(strings.NewReader(input))
	require.NoError(t, err)

	assert.Equal(t, 2, inv.Skipped)
	require.Len(t, inv.Entries, 2)

	bad := inv.Entries[0]
	assert.Equal(t, int64(0), bad.Size)
	assert.Equal(t, int64(0), bad.Allocated)
	assert.Equal(t, 0, bad.FilesCount)
	assert.Equal(t, 0, bad.FoldersCount)

	short := inv.Entries[1]
	assert.Equal(t, int64(7), short.Size)
	assert.False(t, short.IsDir)
}

func TestRead_ByteOrderMarkAndInvalidUTF8(t *testing.T) {
	input := "\xEF\xBB\xBFpath,size,allocated,modified,is_dir,files_count,folders_count\n" +
		"/music/caf\xE9.mp3,10,10,,0,0,0\n"

	inv, err := Read(strings.NewReader(input))
	require.NoError(t, err)

	assert.Equal(t, DialectPOSIX, inv.Dialect, "BOM must not hide the header")
	require.Len(t, inv.Entries, 1)
	assert.Equal(t, "/music/caf\uFFFD.mp3", inv.Entries[0].Path)
}

func TestRead_InvalidUTF8WithoutByteOrderMark(t *testing.T) {
	input := "path,size,allocated,modified,is_dir,files_count,folders_count\n" +
		"/music/caf\xE9.mp3,10,10,,0,0,0\n"

	inv, err := Read(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, inv.Entries, 1)
	assert.Equal(t, "/music/caf\uFFFD.mp3", inv.Entries[0].Path)
}

func TestRead_Empty(t *testing.T) {
	inv, err := Read(strings.NewReader(""))
	require.NoError(t, err)
	assert.NotNil(t, inv.Entries)
	assert.Empty(t, inv.Entries)
}

func TestRead_Invariants(t *testing.T) {
	input := "path,size,allocated,modified,is_dir,files_count,folders_count\n" +
		"/a,-5,0,,1,0,0\n" +
		"/a/x.log,-1,0,,0,0,0\n" +
		"/a/sub.d,3,0,,1,0,0\n" +
		"/a/huge.bin,99999999999999999999,0,,0,0,0\n" +
		"/a/big.bin,9999999999TB,0,,0,0,0\n"

	inv, err := Read(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, inv.Entries, 5)

	for _, e := range inv.Entries {
		assert.GreaterOrEqual(t, e.Size, int64(0), e.Path)
		if strings.HasSuffix(e.Path, ".bin") {
			assert.Zero(t, e.Size, "out-of-range size cells load as 0: %s", e.Path)
		}
		assert.GreaterOrEqual(t, e.Depth, 0, e.Path)
		if e.IsDir {
			assert.Empty(t, e.Ext, e.Path)
		}
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "inventory.csv")
	require.NoError(t, os.WriteFile(path, []byte("path,size,is_dir\n/a/f,1,0\n"), 0o644))

	inv, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, path, inv.Source)
	assert.Len(t, inv.Entries, 1)
}

func TestLoad_Missing(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.csv"))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInventoryNotFound)
	assert.ErrorIs(t, err, os.ErrNotExist)
}
