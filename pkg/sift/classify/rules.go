package classify

import (
	"fmt"
	"regexp"
)

// Rule assigns matching file paths to a cleanable category.
// Patterns are matched case-insensitively against the path with '/'
// separators, regardless of the inventory dialect.
type Rule struct {
	Pattern  *regexp.Regexp
	Category string
	Reason   string
	Hint     string
}

// NewRule compiles pattern into a case-insensitive rule.
func NewRule(pattern, category, reason, hint string) (Rule, error) {
	re, err := regexp.Compile("(?i)" + pattern)
	if err != nil {
		return Rule{}, fmt.Errorf("compiling rule for %s: %w", category, err)
	}
	return Rule{Pattern: re, Category: category, Reason: reason, Hint: hint}, nil
}

// Category names used by the default rules.
const (
	CategoryTemp      = "temp"
	CategoryBackup    = "backup"
	CategoryCache     = "cache"
	CategoryLog       = "log"
	CategorySystem    = "system"
	CategoryDev       = "dev"
	CategoryBrowser   = "browser"
	CategoryDownload  = "download"
	CategoryWindows   = "windows"
	CategoryRecycle   = "recycle"
	CategoryDuplicate = "duplicate"
)

type ruleSpec struct {
	pattern, category, reason, hint string
}

// defaultRuleSpecs is evaluated top to bottom and the first match wins.
// Tool-specific caches precede the generic cache rules so their hints
// survive, and rules that would otherwise be shadowed by a generic
// "/cache/" match sit ahead of it.
var defaultRuleSpecs = []ruleSpec{
	// Temporary and backup files
	{`\.tmp$`, CategoryTemp, "Temporary file", ""},
	{`\.temp$`, CategoryTemp, "Temporary file", ""},
	{`~$`, CategoryTemp, "Temporary/backup file", ""},
	{`\.bak$`, CategoryBackup, "Backup file", ""},
	{`\.old$`, CategoryBackup, "Old version backup", ""},
	{`\.orig$`, CategoryBackup, "Original backup", ""},

	// Package manager caches
	{`/\.?uv/cache/`, CategoryCache, "uv (Python) cache", "Set UV_CACHE_DIR env var to relocate"},
	{`/\.cache/uv/`, CategoryCache, "uv (Python) cache", "Set UV_CACHE_DIR env var to relocate"},
	{`/pip/cache/`, CategoryCache, "pip cache", "Set PIP_CACHE_DIR env var to relocate"},
	{`/\.cache/pip/`, CategoryCache, "pip cache", "Set PIP_CACHE_DIR env var to relocate"},
	{`npm-cache`, CategoryCache, "npm cache", "npm config set cache <dir>"},
	{`/\.npm/`, CategoryCache, "npm cache", "npm config set cache <dir>"},
	{`/\.?yarn/cache/`, CategoryCache, "Yarn cache", "yarn config set cache-folder <dir>"},
	{`/\.?pnpm/store/`, CategoryCache, "pnpm store", "pnpm config set store-dir <dir>"},
	{`/\.cargo/registry/`, CategoryCache, "Cargo (Rust) cache", "Set CARGO_HOME env var"},
	{`/\.gradle/caches/`, CategoryCache, "Gradle cache", "Set GRADLE_USER_HOME env var"},
	{`/\.m2/repository/`, CategoryCache, "Maven cache", "Set in settings.xml localRepository"},
	{`/\.nuget/packages/`, CategoryCache, "NuGet cache", "Set NUGET_PACKAGES env var"},
	{`/go/pkg/mod/`, CategoryCache, "Go modules cache", "Set GOMODCACHE env var"},
	{`/\.cache/go-build/`, CategoryCache, "Go build cache", "Set GOCACHE env var"},

	// AI/ML caches
	{`/\.cache/huggingface/`, CategoryCache, "HuggingFace models", "Set HF_HOME env var to relocate"},
	{`/\.cache/torch/`, CategoryCache, "PyTorch cache", "Set TORCH_HOME env var"},
	{`/\.ollama/models/`, CategoryCache, "Ollama models", "Set OLLAMA_MODELS env var"},

	// Caches owned by the OS or a browser
	{`library/caches/cloudkit`, CategorySystem, "CloudKit cache", ""},
	{`library/application support/.*/cache`, CategorySystem, "App support cache", ""},
	{`/chrome/.*/cache`, CategoryBrowser, "Chrome cache", ""},
	{`/firefox/.*/cache2/`, CategoryBrowser, "Firefox cache", ""},
	{`/edge/.*/cache`, CategoryBrowser, "Edge cache", ""},
	{`/brave.*/cache`, CategoryBrowser, "Brave cache", ""},
	{`library/safari`, CategoryBrowser, "Safari data", ""},
	{`/docker/.*/cache`, CategoryCache, "Docker build cache", "docker builder prune"},

	// Generic caches
	{`library/caches`, CategoryCache, "Application caches", ""},
	{`\.cache/`, CategoryCache, "Cache directory", ""},
	{`/cache/`, CategoryCache, "Cache directory", ""},
	{`/caches/`, CategoryCache, "Cache directory", ""},
	{`\.cache$`, CategoryCache, "Cache file", ""},

	// Logs
	{`\.log$`, CategoryLog, "Log file", ""},
	{`\.log\.\d+$`, CategoryLog, "Rotated log file", ""},
	{`\.log\.gz$`, CategoryLog, "Compressed log file", ""},
	{`library/logs`, CategoryLog, "Application logs", ""},

	// Thumbnails and folder settings
	{`thumbs\.db$`, CategorySystem, "Windows thumbnail cache", ""},
	{`desktop\.ini$`, CategorySystem, "Windows folder settings", ""},
	{`\.ds_store$`, CategorySystem, "macOS folder settings", ""},

	// Development artifacts
	{`/node_modules/`, CategoryDev, "Node.js dependencies", "Run npm install to recreate"},
	{`/\.git/objects/`, CategoryDev, "Git objects", "Run git gc to optimize"},
	{`/__pycache__/`, CategoryDev, "Python bytecode cache", "Regenerates automatically"},
	{`\.pyc$`, CategoryDev, "Python compiled file", ""},
	{`/\.venv/`, CategoryDev, "Python virtual env", "Recreate with python -m venv"},
	{`/\.vs/`, CategoryDev, "Visual Studio cache", ""},
	{`/\.idea/`, CategoryDev, "JetBrains IDE cache", ""},
	{`/bin/debug/`, CategoryDev, "Debug build output", "Run build to recreate"},
	{`/bin/release/`, CategoryDev, "Release build output", "Run build to recreate"},
	{`/obj/`, CategoryDev, ".NET build intermediates", ""},
	{`/(build|dist|out)/(debug|release|bin|obj|classes)/`, CategoryDev, "Build output", "Run build to recreate"},
	{`/projects?/.*/build/`, CategoryDev, "Project build output", "Run build to recreate"},
	{`/target/debug/`, CategoryDev, "Rust debug build", "cargo build recreates"},
	{`/target/release/`, CategoryDev, "Rust release build", "cargo build --release recreates"},

	// Downloaded installers and archives
	{`/downloads/.*\.(exe|msi|zip|7z|rar|dmg|pkg|tar\.gz|iso)$`, CategoryDownload, "Downloaded installer/archive", ""},

	// System temp directories
	{`/windows/temp/`, CategoryTemp, "Windows temp directory", ""},
	{`/appdata/local/temp/`, CategoryTemp, "User temp directory", ""},

	// Windows system files
	{`/windows/softwaredistribution/download/`, CategoryWindows, "Windows Update downloads", "Run Disk Cleanup as admin"},
	{`hiberfil\.sys$`, CategoryWindows, "Hibernation file", "powercfg /h off (admin) to disable"},
	{`pagefile\.sys$`, CategoryWindows, "Page file", "Reduce in System Properties > Performance"},
	{`swapfile\.sys$`, CategoryWindows, "Swap file", "Managed by Windows"},

	// Trash
	{`/\$recycle\.bin/`, CategoryRecycle, "Recycle bin", "Empty recycle bin"},
	{`/\.trash/`, CategoryRecycle, "Trash", "Empty Trash in Finder"},

	// Likely duplicates of media files
	{`\s*\(\d+\)\.(jpg|png|mp4|mkv|avi|mov)$`, CategoryDuplicate, "Possible duplicate (numbered)", ""},
	{`\s*-?\s*copy\.(jpg|png|mp4|mkv|mov)$`, CategoryDuplicate, "Possible duplicate (copy)", ""},
}

// DefaultRules returns a freshly compiled copy of the built-in rule list.
func DefaultRules() []Rule {
	rules := make([]Rule, 0, len(defaultRuleSpecs))
	for _, spec := range defaultRuleSpecs {
		rule, err := NewRule(spec.pattern, spec.category, spec.reason, spec.hint)
		if err != nil {
			panic(err)
		}
		rules = append(rules, rule)
	}
	return rules
}
