package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/adrg/xdg"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// ErrInvalidConfig indicates a configuration value outside its allowed set.
var ErrInvalidConfig = errors.New("invalid configuration")

// EnvPrefix is the prefix of environment variables that override config keys.
const EnvPrefix = "SIFT"

// DotEnvFile is loaded into the process environment before config is read.
// A missing file is not an error.
var DotEnvFile = ".env"

// LoggingConfig configures application logging.
type LoggingConfig struct {
	Level      string            `mapstructure:"level"`
	Path       string            `mapstructure:"path"`
	Components map[string]string `mapstructure:"components"`
}

// LimitsConfig holds the default result sizes of list commands.
type LimitsConfig struct {
	Largest    int `mapstructure:"largest"`
	ByType     int `mapstructure:"by_type"`
	TopFolders int `mapstructure:"top_folders"`
}

// DepthConfig holds the default depth bounds of hierarchy commands.
type DepthConfig struct {
	TopFolders int `mapstructure:"top_folders"`
	Folder     int `mapstructure:"folder"`
}

// ClassifyConfig tunes the cleanable classifier.
type ClassifyConfig struct {
	// SampleSize is the number of largest files kept per category.
	SampleSize int `mapstructure:"sample_size"`

	// Safety overrides the safety tier of individual categories.
	Safety map[string]string `mapstructure:"safety"`
}

// ScanConfig configures the inventory producer.
type ScanConfig struct {
	Exclude          []string `mapstructure:"exclude"`
	SkipHidden       bool     `mapstructure:"skip_hidden"`
	ProgressInterval int      `mapstructure:"progress_interval"`
}

// Config represents the application configuration.
type Config struct {
	Output   string         `mapstructure:"output"`
	Rollup   string         `mapstructure:"rollup"`
	Limits   LimitsConfig   `mapstructure:"limits"`
	Depth    DepthConfig    `mapstructure:"depth"`
	Classify ClassifyConfig `mapstructure:"classify"`
	Scan     ScanConfig     `mapstructure:"scan"`
	Logging  LoggingConfig  `mapstructure:"logging"`
}

// Apply prepares v to read sift configuration: defaults, environment
// variables with the SIFT_ prefix, and the config file. When cfgFile is
// empty the file is looked up in ConfigDir(). A missing config file is not
// an error; an unreadable or malformed one is.
func Apply(v *viper.Viper, cfgFile string) error {
	_ = godotenv.Load(DotEnvFile)

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(ConfigDir())
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	SetDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return fmt.Errorf("failed to read config file: %w", err)
		}
	}
	return nil
}

// SetDefaults registers every default value on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("output", DefaultOutput)
	v.SetDefault("rollup", DefaultRollup)
	v.SetDefault("limits.largest", DefaultLargestLimit)
	v.SetDefault("limits.by_type", DefaultByTypeLimit)
	v.SetDefault("limits.top_folders", DefaultTopFoldersLimit)
	v.SetDefault("depth.top_folders", DefaultTopFoldersDepth)
	v.SetDefault("depth.folder", DefaultFolderDepth)
	v.SetDefault("classify.sample_size", DefaultSampleSize)
	v.SetDefault("classify.safety", map[string]string{})
	v.SetDefault("scan.exclude", DefaultScanExclusions)
	v.SetDefault("scan.skip_hidden", false)
	v.SetDefault("scan.progress_interval", DefaultProgressInterval)
	v.SetDefault("logging.level", DefaultLogLevel)
	v.SetDefault("logging.path", "")
	v.SetDefault("logging.components", map[string]string{})
}

// Decode unmarshals and validates the configuration held by v.
func Decode(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if cfg.Logging.Path != "" {
		path, err := ExpandPath(cfg.Logging.Path)
		if err != nil {
			return nil, err
		}
		cfg.Logging.Path = path
	}
	return &cfg, nil
}

// Load reads configuration from a fresh viper instance.
func Load(cfgFile string) (*Config, error) {
	v := viper.New()
	if err := Apply(v, cfgFile); err != nil {
		return nil, err
	}
	return Decode(v)
}

// Validate checks enumerated values.
func (c *Config) Validate() error {
	switch c.Rollup {
	case RollupAuto, RollupAlways, RollupNever:
	default:
		return fmt.Errorf("%w: rollup must be auto, always or never, got %q", ErrInvalidConfig, c.Rollup)
	}
	for category, tier := range c.Classify.Safety {
		switch strings.ToLower(tier) {
		case "safe", "check", "admin":
		default:
			return fmt.Errorf("%w: classify.safety.%s must be safe, check or admin, got %q",
				ErrInvalidConfig, category, tier)
		}
	}
	if c.Classify.SampleSize < 0 {
		return fmt.Errorf("%w: classify.sample_size cannot be negative", ErrInvalidConfig)
	}
	return nil
}

// ConfigDir returns $XDG_CONFIG_HOME/sift.
func ConfigDir() string {
	if xdgConfigHome := os.Getenv("XDG_CONFIG_HOME"); xdgConfigHome != "" {
		return filepath.Join(xdgConfigHome, "sift")
	}
	return filepath.Join(xdg.ConfigHome, "sift")
}

// ConfigPath returns the default config file path.
func ConfigPath() string {
	return filepath.Join(ConfigDir(), "config.yaml")
}

// StateDir returns $XDG_STATE_HOME/sift/ for log files.
func StateDir() string {
	return filepath.Join(xdg.StateHome, "sift")
}

// ExpandPath expands ~ in a path to the user's home directory.
func ExpandPath(path string) (string, error) {
	if !strings.HasPrefix(path, "~") {
		return path, nil
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user home directory: %w", err)
	}

	return filepath.Join(homeDir, path[1:]), nil
}

// WriteDefault writes a default config file to path if none exists and
// reports whether a file was written.
func WriteDefault(path string) (bool, error) {
	if _, err := os.Stat(path); err == nil {
		return false, nil
	} else if !os.IsNotExist(err) {
		return false, fmt.Errorf("failed to check config file: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return false, fmt.Errorf("failed to create config directory: %w", err)
	}

	defaultConfig := fmt.Sprintf(`# sift inventory analyzer configuration

# Report format: json or yaml
output: %s

# Directory size rollup: auto, always or never
rollup: %s

# Default result sizes
limits:
  largest: %d
  by_type: %d
  top_folders: %d

# Default depth bounds
depth:
  top_folders: %d
  folder: %d

# Cleanable classification
classify:
  # Largest files kept per category
  sample_size: %d
  # Safety tier overrides (safe, check, admin), e.g.
  #   system: safe
  safety: {}

# Inventory producer (sift scan)
scan:
  exclude:
    - /proc
    - /sys
    - /dev
  skip_hidden: false
  progress_interval: %d

# Logging
logging:
  # File log level: debug, info, warn, error
  level: %s
  # Log file path (empty disables file logging), e.g.
  #   path: %s
  path: ""
`, DefaultOutput, DefaultRollup, DefaultLargestLimit, DefaultByTypeLimit, DefaultTopFoldersLimit,
		DefaultTopFoldersDepth, DefaultFolderDepth, DefaultSampleSize, DefaultProgressInterval, DefaultLogLevel,
		filepath.Join(StateDir(), "sift.log"))

	if err := os.WriteFile(path, []byte(defaultConfig), 0o644); err != nil {
		return false, fmt.Errorf("failed to write default config: %w", err)
	}
	return true, nil
}
