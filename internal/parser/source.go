// Package parser adapts the tree-sitter Objective-C grammar into the
// translation pipeline: it enumerates sources, produces CSTs, locates
// assume-nonnull regions, and reports parse errors as diagnostics.
package parser

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Source is one translation input.
type Source interface {
	// Name identifies the source; for file sources it is the path relative
	// to the translation root.
	Name() string
	// Text returns the source bytes.
	Text() ([]byte, error)
}

// FileSource reads a source from disk lazily.
type FileSource struct {
	Root string
	Rel  string
}

func (f FileSource) Name() string { return f.Rel }

func (f FileSource) Text() ([]byte, error) {
	data, err := os.ReadFile(filepath.Join(f.Root, f.Rel))
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", f.Rel, err)
	}
	return data, nil
}

// StringSource is an in-memory source, used by tests and the server.
type StringSource struct {
	SourceName string
	Contents   string
}

func (s StringSource) Name() string          { return s.SourceName }
func (s StringSource) Text() ([]byte, error) { return []byte(s.Contents), nil }

// IsObjcFile reports whether a path is a translation input (.h or .m).
func IsObjcFile(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".h", ".m":
		return true
	}
	return false
}
