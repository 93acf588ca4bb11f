// Package schema holds the ordered feature column vocabulary the forecast models were
// trained against. A Schema is immutable once created.
package schema

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/goccy/go-json"
)

// DefaultFileName is the file name searched for in the default model directories
const DefaultFileName = "feature_schema.json"

var (
	ErrSchemaNotFound  = errors.New("feature schema not found")
	ErrEmptySchema     = errors.New("feature schema has no columns")
	ErrDuplicateColumn = errors.New("duplicate column in feature schema")
	ErrBlankColumn     = errors.New("blank column name in feature schema")
)

// Schema is an ordered, duplicate free set of feature column names
type Schema struct {
	names []string
	idx   map[string]int
}

// New validates the column names and returns a schema preserving their order
func New(names []string) (*Schema, error) {
	if len(names) == 0 {
		return nil, ErrEmptySchema
	}

	idx := make(map[string]int, len(names))
	for i, name := range names {
		if strings.TrimSpace(name) == "" {
			return nil, fmt.Errorf("at position %d, %w", i, ErrBlankColumn)
		}
		if _, exists := idx[name]; exists {
			return nil, fmt.Errorf("%s, %w", name, ErrDuplicateColumn)
		}
		idx[name] = i
	}

	cols := make([]string, len(names))
	copy(cols, names)
	return &Schema{names: cols, idx: idx}, nil
}

// Parse decodes a JSON array of column names
func Parse(r io.Reader) (*Schema, error) {
	var names []string
	if err := json.NewDecoder(r).Decode(&names); err != nil {
		return nil, fmt.Errorf("unable to decode feature schema, %w", err)
	}
	return New(names)
}

// ReadFile parses the schema stored at path
func ReadFile(path string) (*Schema, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Parse(f)
}

// Load tries each candidate path in order and returns the first schema that parses
// together with the path it was read from. Candidates that are missing or invalid are
// skipped.
func Load(candidates ...string) (*Schema, string, error) {
	for _, path := range candidates {
		if path == "" {
			continue
		}
		if _, err := os.Stat(path); err != nil {
			continue
		}
		s, err := ReadFile(path)
		if err != nil {
			slog.Warn("unable to load feature schema", "path", path, "error", err.Error())
			continue
		}
		if abs, err := filepath.Abs(path); err == nil {
			path = abs
		}
		return s, path, nil
	}
	return nil, "", fmt.Errorf("tried %d locations, %w", len(candidates), ErrSchemaNotFound)
}

// DefaultCandidates returns the search order for the schema file. An explicitly configured
// path is tried first, then the model directory relative to the working directory, its
// parent, and the executable.
func DefaultCandidates(configured string) []string {
	var candidates []string
	if configured != "" {
		candidates = append(candidates, configured)
	}
	candidates = append(candidates,
		filepath.Join("model", DefaultFileName),
		filepath.Join("..", "model", DefaultFileName),
	)
	if exe, err := os.Executable(); err == nil {
		candidates = append(candidates, filepath.Join(filepath.Dir(exe), "..", "model", DefaultFileName))
	}
	return candidates
}

// Names returns a copy of the column names in schema order
func (s *Schema) Names() []string {
	if s == nil {
		return nil
	}
	out := make([]string, len(s.names))
	copy(out, s.names)
	return out
}

// Len returns the number of columns
func (s *Schema) Len() int {
	if s == nil {
		return 0
	}
	return len(s.names)
}

// Contains reports whether name is a schema column
func (s *Schema) Contains(name string) bool {
	if s == nil {
		return false
	}
	_, exists := s.idx[name]
	return exists
}

// Missing returns, in schema order, the columns that are not keys of provided
func Missing[V any](s *Schema, provided map[string]V) []string {
	missing := make([]string, 0)
	if s == nil {
		return missing
	}
	for _, name := range s.names {
		if _, exists := provided[name]; !exists {
			missing = append(missing, name)
		}
	}
	return missing
}

// MarshalJSON encodes the schema as the same array format it is read from
func (s *Schema) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.Names())
}
