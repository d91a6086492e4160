package intentions

import (
	"path/filepath"
	"strings"
)

// FileIntention is one output Swift file, assembled from a header, an
// implementation, or (after File Grouping) both.
type FileIntention struct {
	BaseIntention
	Path string

	Types       []TypeIntention
	GlobalVars  []*GlobalVariableIntention
	GlobalFuncs []*GlobalFunctionIntention
	Typealiases []*TypealiasIntention
	// Directives preserves preprocessor lines (#import, #define, ...) as
	// comment text.
	Directives []string
}

// NewFileIntention creates a file intention with its creation record.
func NewFileIntention(path string) *FileIntention {
	return &FileIntention{
		BaseIntention: newBase("file "+path, SourceRef{File: path}, false),
		Path:          path,
	}
}

// IsHeader reports whether the file came from a .h source.
func (f *FileIntention) IsHeader() bool {
	return strings.EqualFold(filepath.Ext(f.Path), ".h")
}

// Basename is the path without directory or extension, used to pair headers
// with implementations.
func (f *FileIntention) Basename() string {
	base := filepath.Base(f.Path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// SwiftPath is the output path for the emitted Swift file.
func (f *FileIntention) SwiftPath() string {
	ext := filepath.Ext(f.Path)
	return strings.TrimSuffix(f.Path, ext) + ".swift"
}

// AddType moves a type under this file.
func (f *FileIntention) AddType(t TypeIntention) {
	detach(t)
	t.setParent(f)
	f.Types = append(f.Types, t)
}

// RemoveType unlinks a type from this file.
func (f *FileIntention) RemoveType(t TypeIntention) bool {
	for i, existing := range f.Types {
		if existing == t {
			f.Types = append(f.Types[:i], f.Types[i+1:]...)
			t.setParent(nil)
			return true
		}
	}
	return false
}

// AddGlobalVar moves a global variable under this file.
func (f *FileIntention) AddGlobalVar(g *GlobalVariableIntention) {
	detach(g)
	g.setParent(f)
	f.GlobalVars = append(f.GlobalVars, g)
}

// AddGlobalFunc moves a global function under this file.
func (f *FileIntention) AddGlobalFunc(g *GlobalFunctionIntention) {
	detach(g)
	g.setParent(f)
	f.GlobalFuncs = append(f.GlobalFuncs, g)
}

// AddTypealias moves a typealias under this file.
func (f *FileIntention) AddTypealias(t *TypealiasIntention) {
	detach(t)
	t.setParent(f)
	f.Typealiases = append(f.Typealiases, t)
}

// removeChild implements the unlink half of a move operation.
func (f *FileIntention) removeChild(child Intention) bool {
	switch n := child.(type) {
	case TypeIntention:
		return f.RemoveType(n)
	case *GlobalVariableIntention:
		for i, g := range f.GlobalVars {
			if g == n {
				f.GlobalVars = append(f.GlobalVars[:i], f.GlobalVars[i+1:]...)
				n.setParent(nil)
				return true
			}
		}
	case *GlobalFunctionIntention:
		for i, g := range f.GlobalFuncs {
			if g == n {
				f.GlobalFuncs = append(f.GlobalFuncs[:i], f.GlobalFuncs[i+1:]...)
				n.setParent(nil)
				return true
			}
		}
	case *TypealiasIntention:
		for i, t := range f.Typealiases {
			if t == n {
				f.Typealiases = append(f.Typealiases[:i], f.Typealiases[i+1:]...)
				n.setParent(nil)
				return true
			}
		}
	}
	return false
}

// ClassByName finds a class (or extension) by type name within this file.
func (f *FileIntention) ClassByName(name string) *ClassIntention {
	for _, t := range f.Types {
		switch c := t.(type) {
		case *ClassExtensionIntention:
			if c.TypeName == name {
				return &c.ClassIntention
			}
		case *ClassIntention:
			if c.TypeName == name {
				return c
			}
		}
	}
	return nil
}
