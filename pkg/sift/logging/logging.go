// Package logging provides component loggers for sift.
//
// Loggers are silent until Init is called. After Init, messages at or above
// the console level go to stderr, and optionally every message at or above
// the file level is appended to a log file. Reports are always written to
// stdout by the CLI, so logging never interleaves with command output.
//
// Basic usage:
//
//	if err := logging.Init(logging.Config{Level: "info", ConsoleLevel: "warn"}); err != nil {
//	    return err
//	}
//	defer logging.Close()
//
//	logger := logging.Get("inventory")
//	logger.Debug("inventory loaded", "rows", 1200)
package logging

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"
)

// Level is a log severity.
type Level = log.Level

// Supported levels, least severe first.
const (
	LevelDebug = log.DebugLevel
	LevelInfo  = log.InfoLevel
	LevelWarn  = log.WarnLevel
	LevelError = log.ErrorLevel
)

// ErrInvalidLevel is returned when an invalid log level string is provided.
var ErrInvalidLevel = errors.New("invalid log level")

// ParseLevel parses a level name. It is case-insensitive and accepts
// "warning" for warn.
func ParseLevel(s string) (Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return LevelDebug, nil
	case "info":
		return LevelInfo, nil
	case "warn", "warning":
		return LevelWarn, nil
	case "error":
		return LevelError, nil
	default:
		return LevelInfo, fmt.Errorf("%w: %q", ErrInvalidLevel, s)
	}
}

// Config configures the logging system.
type Config struct {
	// Level is the file log level. Ignored when Path is empty.
	Level string

	// Path is the log file path. Empty disables file logging.
	Path string

	// Components maps component names to file log level overrides.
	Components map[string]string

	// ConsoleLevel is the stderr log level. Empty disables console output.
	ConsoleLevel string

	// Console overrides the console destination. Defaults to os.Stderr.
	Console io.Writer
}

// Logger writes the messages of one component to every configured sink.
type Logger struct {
	component string
	sinks     []*log.Logger
}

// Debug logs a debug message.
func (l *Logger) Debug(msg string, keyvals ...interface{}) {
	for _, s := range l.sinks {
		s.Debug(msg, keyvals...)
	}
}

// Info logs an info message.
func (l *Logger) Info(msg string, keyvals ...interface{}) {
	for _, s := range l.sinks {
		s.Info(msg, keyvals...)
	}
}

// Warn logs a warning message.
func (l *Logger) Warn(msg string, keyvals ...interface{}) {
	for _, s := range l.sinks {
		s.Warn(msg, keyvals...)
	}
}

// Error logs an error message.
func (l *Logger) Error(msg string, keyvals ...interface{}) {
	for _, s := range l.sinks {
		s.Error(msg, keyvals...)
	}
}

// Component returns the component name the logger was created for.
func (l *Logger) Component() string {
	return l.component
}

// settings is a parsed Config.
type settings struct {
	fileLevel    Level
	components   map[string]Level
	console      io.Writer
	consoleLevel Level
	consoleOn    bool
}

func parse(cfg Config) (settings, error) {
	s := settings{
		fileLevel:  LevelInfo,
		components: make(map[string]Level, len(cfg.Components)),
		console:    cfg.Console,
	}
	if s.console == nil {
		s.console = os.Stderr
	}

	if cfg.Level != "" {
		level, err := ParseLevel(cfg.Level)
		if err != nil {
			return s, fmt.Errorf("parsing log level: %w", err)
		}
		s.fileLevel = level
	}
	for component, value := range cfg.Components {
		level, err := ParseLevel(value)
		if err != nil {
			return s, fmt.Errorf("parsing level for component %s: %w", component, err)
		}
		s.components[component] = level
	}
	if cfg.ConsoleLevel != "" {
		level, err := ParseLevel(cfg.ConsoleLevel)
		if err != nil {
			return s, fmt.Errorf("parsing console level: %w", err)
		}
		s.consoleLevel = level
		s.consoleOn = true
	}
	return s, nil
}

// registry owns the log file and every logger handed out by Get.
type registry struct {
	mu      sync.RWMutex
	active  bool
	current settings
	file    *os.File
	loggers map[string]*Logger
}

var loggers = &registry{loggers: make(map[string]*Logger)}

// sinks builds the outputs of component. Must be called with mu held.
func (r *registry) sinks(component string) []*log.Logger {
	if !r.active {
		return nil
	}

	var out []*log.Logger
	if r.file != nil {
		level, ok := r.current.components[component]
		if !ok {
			level = r.current.fileLevel
		}
		out = append(out, log.NewWithOptions(r.file, log.Options{
			Level:           level,
			ReportTimestamp: true,
			TimeFormat:      time.RFC3339,
			Prefix:          component,
		}))
	}
	if r.current.consoleOn {
		out = append(out, log.NewWithOptions(r.current.console, log.Options{
			Level:           r.current.consoleLevel,
			ReportTimestamp: true,
			TimeFormat:      time.TimeOnly,
			Prefix:          component,
		}))
	}
	return out
}

// rewire points every existing logger at the current sinks. Must be
// called with mu held.
func (r *registry) rewire() {
	for component, logger := range r.loggers {
		logger.sinks = r.sinks(component)
	}
}

func (r *registry) closeFile() error {
	if r.file == nil {
		return nil
	}
	err := r.file.Close()
	r.file = nil
	if err != nil {
		return fmt.Errorf("closing log file: %w", err)
	}
	return nil
}

func openLogFile(path string) (*os.File, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("creating log directory: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("opening log file: %w", err)
	}
	return f, nil
}

// Init configures the logging system. It may be called again to
// reconfigure; loggers handed out earlier follow the new configuration.
// An invalid Config leaves the previous configuration in place.
func Init(cfg Config) error {
	parsed, err := parse(cfg)
	if err != nil {
		return err
	}

	var file *os.File
	if cfg.Path != "" {
		if file, err = openLogFile(cfg.Path); err != nil {
			return err
		}
	}

	loggers.mu.Lock()
	defer loggers.mu.Unlock()

	closeErr := loggers.closeFile()
	loggers.file = file
	loggers.current = parsed
	loggers.active = true
	loggers.rewire()
	return closeErr
}

// Get returns the logger for the given component.
// Before Init is called, the returned logger discards everything.
func Get(component string) *Logger {
	loggers.mu.RLock()
	logger, ok := loggers.loggers[component]
	loggers.mu.RUnlock()
	if ok {
		return logger
	}

	loggers.mu.Lock()
	defer loggers.mu.Unlock()

	if logger, ok := loggers.loggers[component]; ok {
		return logger
	}
	logger = &Logger{component: component, sinks: loggers.sinks(component)}
	loggers.loggers[component] = logger
	return logger
}

// Close closes the log file and returns loggers to the silent state.
func Close() error {
	loggers.mu.Lock()
	defer loggers.mu.Unlock()

	if !loggers.active {
		return nil
	}
	err := loggers.closeFile()
	loggers.active = false
	loggers.current = settings{}
	loggers.rewire()
	return err
}
