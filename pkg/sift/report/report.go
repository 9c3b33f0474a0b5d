// Package report renders analysis results as structured documents.
//
// Every command produces exactly one document. Document types are plain
// tagged structs built from the analysis results by the New* functions,
// so the key names are defined once and shared by every formatter. Every
// size is reported twice: as a human-readable string and as raw bytes.
//
// The package uses a registry pattern so the output format can be chosen
// at runtime:
//
//	formatter, err := report.Get("json")
//	if err != nil {
//	    return err
//	}
//	var buf bytes.Buffer
//	if err := formatter.Format(&buf, report.NewSummary(result)); err != nil {
//	    return err
//	}
//	os.Stdout.Write(buf.Bytes())
package report

import (
	"bytes"
	"errors"
	"fmt"
	"maps"
	"slices"
	"strings"
	"sync"

	"github.com/jamesainslie/sift/pkg/sift/logging"
)

// logger is the package-level logger for report operations.
var logger = logging.Get("report")

// DefaultFormat is the format used when none is configured.
const DefaultFormat = "json"

// ErrUnknownFormat indicates that no formatter is registered under a name.
var ErrUnknownFormat = errors.New("unknown output format")

// Formatter is the interface that all document formatters must implement.
type Formatter interface {
	// Format writes doc to the buffer.
	// It returns an error if encoding fails.
	Format(w *bytes.Buffer, doc any) error
}

// FormatterFactory is a function that creates a new Formatter instance.
type FormatterFactory func() Formatter

// Registry manages formatter registration and lookup.
type Registry struct {
	mu        sync.RWMutex
	factories map[string]FormatterFactory
}

// NewRegistry creates a new formatter registry.
func NewRegistry() *Registry {
	return &Registry{
		factories: make(map[string]FormatterFactory),
	}
}

// Register adds a formatter factory under one or more names.
// It will replace any existing formatter with the same name.
func (r *Registry) Register(name string, factory FormatterFactory, aliases ...string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, n := range append([]string{name}, aliases...) {
		r.factories[normalize(n)] = factory
	}
}

// Get returns a new formatter instance by name. Names are
// case-insensitive. It returns ErrUnknownFormat if the formatter is not
// found.
func (r *Registry) Get(name string) (Formatter, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	factory, ok := r.factories[normalize(name)]
	if !ok {
		return nil, fmt.Errorf("%w: %q (available: %s)", ErrUnknownFormat, name, strings.Join(r.available(), ", "))
	}
	return factory(), nil
}

func normalize(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// Available returns a sorted list of all registered formatter names.
func (r *Registry) Available() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.available()
}

func (r *Registry) available() []string {
	return slices.Sorted(maps.Keys(r.factories))
}

// DefaultRegistry is the global formatter registry.
var DefaultRegistry = NewRegistry()

// Register adds a formatter factory to the default registry.
func Register(name string, factory FormatterFactory, aliases ...string) {
	DefaultRegistry.Register(name, factory, aliases...)
}

// Get returns a new formatter instance from the default registry.
func Get(name string) (Formatter, error) {
	return DefaultRegistry.Get(name)
}

// Available returns all formatter names from the default registry.
func Available() []string {
	return DefaultRegistry.Available()
}

// Render formats doc with the named formatter from the default registry.
// An empty format selects DefaultFormat.
func Render(format string, doc any) ([]byte, error) {
	if format == "" {
		format = DefaultFormat
	}
	formatter, err := Get(format)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := formatter.Format(&buf, doc); err != nil {
		return nil, fmt.Errorf("rendering %s document: %w", format, err)
	}
	logger.Debug("document rendered", "format", format, "bytes", buf.Len())
	return buf.Bytes(), nil
}
