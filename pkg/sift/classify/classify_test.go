package classify

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jamesainslie/sift/pkg/sift/types"
)

func file(path string, size int64) types.Entry {
	return types.Entry{Path: path, Size: size}
}

func mustRule(t *testing.T, pattern, category, reason, hint string) Rule {
	t.Helper()
	r, err := NewRule(pattern, category, reason, hint)
	require.NoError(t, err)
	return r
}

func TestDefaultRulesMatch(t *testing.T) {
	c := New(DefaultRules(), DefaultSafety())

	tests := []struct {
		path     string
		sep      byte
		category string
		reason   string
	}{
		{path: "/a/b/f1.tmp", sep: '/', category: CategoryTemp, reason: "Temporary file"},
		{path: "/home/ann/notes.txt~", sep: '/', category: CategoryTemp},
		{path: "/srv/db.BAK", sep: '/', category: CategoryBackup},
		{path: "/Users/ann/.cache/pip/wheels/x.whl", sep: '/', category: CategoryCache, reason: "pip cache"},
		{path: "/Users/ann/.cache/misc/blob", sep: '/', category: CategoryCache, reason: "Cache directory"},
		{path: "/Users/ann/Library/Caches/com.app/data", sep: '/', category: CategoryCache, reason: "Application caches"},
		{path: "/Users/ann/Library/Caches/CloudKit/db", sep: '/', category: CategorySystem},
		{path: `C:\Users\ann\AppData\Local\Google\Chrome\User Data\Default\Cache\Cache_Data\f_0001`, sep: '\\', category: CategoryBrowser},
		{path: `C:\Users\ann\AppData\Local\pip\cache\http\x`, sep: '\\', category: CategoryCache, reason: "pip cache"},
		{path: `C:\Users\ann\go\pkg\mod\cache\download\x.zip`, sep: '\\', category: CategoryCache, reason: "Go modules cache"},
		{path: "/var/log/syslog.log", sep: '/', category: CategoryLog},
		{path: "/var/log/syslog.log.1", sep: '/', category: CategoryLog, reason: "Rotated log file"},
		{path: "/Users/ann/Pictures/.DS_Store", sep: '/', category: CategorySystem},
		{path: `C:\Photos\Thumbs.db`, sep: '\\', category: CategorySystem},
		{path: "/code/app/node_modules/react/index.js", sep: '/', category: CategoryDev},
		{path: `C:\src\App\bin\Debug\App.dll`, sep: '\\', category: CategoryDev, reason: "Debug build output"},
		{path: "/code/rust/target/release/app", sep: '/', category: CategoryDev},
		{path: "/Users/ann/Downloads/installer.dmg", sep: '/', category: CategoryDownload},
		{path: `C:\Users\ann\Downloads\setup.EXE`, sep: '\\', category: CategoryDownload},
		{path: `C:\Windows\SoftwareDistribution\Download\abc\update.cab`, sep: '\\', category: CategoryWindows},
		{path: `C:\hiberfil.sys`, sep: '\\', category: CategoryWindows},
		{path: `C:\$Recycle.Bin\S-1-5\$R1.docx`, sep: '\\', category: CategoryRecycle},
		{path: "/Users/ann/.Trash/old.docx", sep: '/', category: CategoryRecycle},
		{path: "/Users/ann/Pictures/IMG_1 (2).jpg", sep: '/', category: CategoryDuplicate},
		{path: `C:\Pictures\holiday - Copy.png`, sep: '\\', category: CategoryDuplicate},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			rule, ok := c.Match(tt.path, tt.sep)
			require.True(t, ok, "expected a rule to match")
			assert.Equal(t, tt.category, rule.Category)
			if tt.reason != "" {
				assert.Equal(t, tt.reason, rule.Reason)
			}
		})
	}
}

func TestDefaultRulesNoMatch(t *testing.T) {
	c := New(DefaultRules(), DefaultSafety())

	for _, path := range []string{
		"/Users/ann/Documents/report.pdf",
		"/Users/ann/Movies/film.mkv",
		`D:\Games\game.exe`,
	} {
		_, ok := c.Match(path, '/')
		assert.False(t, ok, path)
	}
}

func TestFirstMatchWins(t *testing.T) {
	rules := []Rule{
		mustRule(t, `\.log$`, "first", "first rule", ""),
		mustRule(t, `/var/`, "second", "second rule", ""),
	}
	result := New(rules, DefaultSafety()).Classify([]types.Entry{file("/var/app.log", 10)}, '/')

	require.Len(t, result.Categories, 1)
	assert.Equal(t, "first", result.Categories[0].Name)
	assert.Equal(t, 1, result.Categories[0].FileCount)
}

func TestClassifyRoundTrip(t *testing.T) {
	entries := []types.Entry{
		file("/a/b/f1.tmp", 100),
		{Path: "/a/b", IsDir: true},
		{Path: "/a", IsDir: true},
	}

	result := New(DefaultRules(), DefaultSafety()).Classify(entries, '/')

	require.Len(t, result.Categories, 1)
	temp := result.Categories[0]
	assert.Equal(t, CategoryTemp, temp.Name)
	assert.Equal(t, int64(100), temp.TotalSize)
	assert.Equal(t, 1, temp.FileCount)
	assert.Equal(t, TierSafe, temp.Tier)
	assert.Nil(t, temp.Hints)
	assert.Equal(t, int64(100), result.TotalSize)
}

func TestClassifyIgnoresDirectories(t *testing.T) {
	entries := []types.Entry{
		{Path: "/tmp/cache.tmp", IsDir: true, Size: 1000},
	}
	result := New(DefaultRules(), DefaultSafety()).Classify(entries, '/')
	assert.Empty(t, result.Categories)
	assert.Equal(t, int64(0), result.TotalSize)
}

func TestClassifyAggregates(t *testing.T) {
	entries := []types.Entry{
		file("/x/a.log", 10),
		file("/x/node_modules/m/index.js", 500),
		file("/x/b.log", 30),
		file("/x/.npm/_cacache/x", 5),
		file("/x/node_modules/m/other.js", 500),
		file("/x/yarn/cache/pkg.zip", 7),
		file("/x/README.md", 999),
	}

	result := New(DefaultRules(), DefaultSafety()).Classify(entries, '/')

	require.Len(t, result.Categories, 3)
	names := []string{result.Categories[0].Name, result.Categories[1].Name, result.Categories[2].Name}
	assert.Equal(t, []string{CategoryDev, CategoryLog, CategoryCache}, names)

	dev := result.Categories[0]
	assert.Equal(t, int64(1000), dev.TotalSize)
	assert.Equal(t, 2, dev.FileCount)
	assert.Equal(t, []string{"Run npm install to recreate"}, dev.Hints)
	assert.Equal(t, "/x/node_modules/m/index.js", dev.Sample[0].Path, "ties keep inventory order")

	cache := result.Categories[2]
	assert.Equal(t, "npm cache", cache.Reason, "reason comes from the rule that created the category")
	assert.Equal(t, []string{"Yarn cache", "npm cache"}, cache.Reasons)
	assert.Equal(t, []string{"npm config set cache <dir>", "yarn config set cache-folder <dir>"}, cache.Hints)

	assert.Equal(t, int64(1052), result.TotalSize)

	fileCount := 0
	for _, c := range result.Categories {
		fileCount += c.FileCount
	}
	assert.LessOrEqual(t, fileCount, len(types.Files(entries)))
}

func TestClassifySampleBound(t *testing.T) {
	var entries []types.Entry
	for i := 0; i < 130; i++ {
		entries = append(entries, file(fmt.Sprintf("/t/%03d.tmp", i), int64(i)))
	}

	result := New(DefaultRules(), DefaultSafety(), WithSampleSize(5)).Classify(entries, '/')

	require.Len(t, result.Categories, 1)
	temp := result.Categories[0]
	assert.Equal(t, 130, temp.FileCount, "file count is not limited by the sample")
	require.Len(t, temp.Sample, 5)
	for i, e := range temp.Sample {
		assert.Equal(t, int64(129-i), e.Size)
	}
}

func TestClassifyTierGrouping(t *testing.T) {
	entries := []types.Entry{
		file(`C:\pagefile.sys`, 8000),
		file(`C:\Users\ann\app.log`, 20),
		file(`C:\Users\ann\x.tmp`, 10),
		file(`C:\Users\ann\old.bak`, 40),
	}

	result := New(DefaultRules(), DefaultSafety()).Classify(entries, '\\')

	admin := result.ByTier(TierAdmin)
	require.Len(t, admin, 1)
	assert.Equal(t, CategoryWindows, admin[0].Name)

	check := result.ByTier(TierCheck)
	require.Len(t, check, 2)
	assert.Equal(t, CategoryBackup, check[0].Name)
	assert.Equal(t, CategoryLog, check[1].Name)

	safe := result.ByTier(TierSafe)
	require.Len(t, safe, 1)
	assert.Equal(t, CategoryTemp, safe[0].Name)
}

func TestClassifyUnmappedCategoryNeedsCheck(t *testing.T) {
	rules := []Rule{mustRule(t, `\.iso$`, "images", "Disk image", "")}
	result := New(rules, DefaultSafety()).Classify([]types.Entry{file("/d/x.iso", 1)}, '/')

	require.Len(t, result.Categories, 1)
	assert.Equal(t, TierCheck, result.Categories[0].Tier)
}

func TestSafetyTable(t *testing.T) {
	table := DefaultSafety()
	assert.Equal(t, TierCheck, table.Tier(CategorySystem))
	assert.Equal(t, TierAdmin, table.Tier(CategoryWindows))
	assert.Equal(t, TierCheck, table.Tier("unknown"))

	merged, err := table.With(map[string]string{"System": "safe", "custom": "ADMIN"})
	require.NoError(t, err)
	assert.Equal(t, TierSafe, merged.Tier(CategorySystem))
	assert.Equal(t, TierAdmin, merged.Tier("custom"))
	assert.Equal(t, TierCheck, table.Tier(CategorySystem), "original table is unchanged")

	_, err = table.With(map[string]string{"temp": "sometimes"})
	assert.ErrorIs(t, err, ErrInvalidTier)
}

func TestNewRuleInvalidPattern(t *testing.T) {
	_, err := NewRule(`([`, "broken", "", "")
	assert.Error(t, err)
}

func TestNormalizePath(t *testing.T) {
	assert.Equal(t, "c:/users/ann/file.txt", NormalizePath(`C:\Users\Ann\File.TXT`, '\\'))
	assert.Equal(t, "/users/ann/a\\b", NormalizePath(`/Users/Ann/a\b`, '/'))
}
