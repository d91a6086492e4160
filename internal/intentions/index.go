package intentions

import (
	"strings"
	"sync"
)

// Summary is a flattened, query-friendly view of one intention, built for
// the server's query tool. The intention graph itself stays mutable and
// unlocked; the index is an immutable snapshot guarded for concurrent reads.
type Summary struct {
	Kind    string   `json:"kind"`
	Name    string   `json:"name"`
	File    string   `json:"file,omitempty"`
	Line    int      `json:"line,omitempty"`
	Parent  string   `json:"parent,omitempty"`
	History []string `json:"history,omitempty"`
}

// Summary kind constants.
const (
	KindFile        = "file"
	KindClass       = "class"
	KindExtension   = "extension"
	KindProtocol    = "protocol"
	KindStruct      = "struct"
	KindEnum        = "enum"
	KindEnumCase    = "enum_case"
	KindMethod      = "method"
	KindInitializer = "initializer"
	KindProperty    = "property"
	KindIVar        = "ivar"
	KindGlobalVar   = "global_var"
	KindGlobalFunc  = "global_func"
	KindTypealias   = "typealias"
)

// Index provides filtered lookups over intention summaries.
type Index struct {
	mu      sync.RWMutex
	entries []Summary

	byKind map[string][]int
	byFile map[string][]int
	byName map[string][]int
}

// BuildIndex flattens the collection into a fresh index.
func BuildIndex(col *Collection) *Index {
	idx := &Index{
		byKind: make(map[string][]int),
		byFile: make(map[string][]int),
		byName: make(map[string][]int),
	}
	for _, f := range col.Files() {
		idx.add(summarize(KindFile, f.Path, "", f))
		for _, g := range f.GlobalVars {
			idx.add(summarize(KindGlobalVar, g.Name, f.Path, g))
		}
		for _, g := range f.GlobalFuncs {
			idx.add(summarize(KindGlobalFunc, g.Signature.Name, f.Path, g))
		}
		for _, t := range f.Typealiases {
			idx.add(summarize(KindTypealias, t.Name, f.Path, t))
		}
		for _, t := range f.Types {
			idx.addType(f.Path, t)
		}
	}
	return idx
}

func (idx *Index) addType(file string, t TypeIntention) {
	typeName := t.Name()
	switch n := t.(type) {
	case *ClassExtensionIntention:
		idx.add(summarize(KindExtension, typeName, file, t))
		idx.addClassMembers(file, typeName, &n.ClassIntention)
	case *ClassIntention:
		idx.add(summarize(KindClass, typeName, file, t))
		idx.addClassMembers(file, typeName, n)
	case *ProtocolIntention:
		idx.add(summarize(KindProtocol, typeName, file, t))
		for _, m := range n.Methods {
			idx.add(member(KindMethod, m.Selector().String(), file, typeName, m))
		}
		for _, p := range n.Properties {
			idx.add(member(KindProperty, p.Name, file, typeName, p))
		}
	case *StructIntention:
		idx.add(summarize(KindStruct, typeName, file, t))
		for _, fld := range n.Fields {
			idx.add(member(KindIVar, fld.Name, file, typeName, fld))
		}
	case *EnumIntention:
		idx.add(summarize(KindEnum, typeName, file, t))
		for _, c := range n.Cases {
			idx.add(member(KindEnumCase, c.Name, file, typeName, c))
		}
	}
}

func (idx *Index) addClassMembers(file, typeName string, c *ClassIntention) {
	for _, v := range c.IVars {
		idx.add(member(KindIVar, v.Name, file, typeName, v))
	}
	for _, p := range c.Properties {
		idx.add(member(KindProperty, p.Name, file, typeName, p))
	}
	for _, ini := range c.Initializers {
		idx.add(member(KindInitializer, ini.Selector().String(), file, typeName, ini))
	}
	for _, m := range c.Methods {
		idx.add(member(KindMethod, m.Selector().String(), file, typeName, m))
	}
}

func summarize(kind, name, file string, in Intention) Summary {
	s := Summary{Kind: kind, Name: name, File: file}
	if src := in.Source(); !src.IsZero() {
		if s.File == "" {
			s.File = src.File
		}
		s.Line = src.Line
	}
	for _, r := range in.History().Records() {
		s.History = append(s.History, r.String())
	}
	return s
}

func member(kind, name, file, parent string, in Intention) Summary {
	s := summarize(kind, parent+"."+name, file, in)
	s.Parent = parent
	return s
}

func (idx *Index) add(s Summary) {
	i := len(idx.entries)
	idx.entries = append(idx.entries, s)
	idx.byKind[s.Kind] = append(idx.byKind[s.Kind], i)
	if s.File != "" {
		idx.byFile[s.File] = append(idx.byFile[s.File], i)
	}
	idx.byName[s.Name] = append(idx.byName[s.Name], i)
}

// Count returns the number of indexed summaries.
func (idx *Index) Count() int {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	return len(idx.entries)
}

// ByKind returns all summaries of the given kind.
func (idx *Index) ByKind(kind string) []Summary {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	return idx.collect(idx.byKind[kind])
}

// ByName returns all summaries with the exact name.
func (idx *Index) ByName(name string) []Summary {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	return idx.collect(idx.byName[name])
}

func (idx *Index) collect(indices []int) []Summary {
	result := make([]Summary, 0, len(indices))
	for _, i := range indices {
		result = append(result, idx.entries[i])
	}
	return result
}

// QueryOpts are the index query filters. Filters across dimensions combine
// with AND; empty filters match everything.
type QueryOpts struct {
	Kind   string
	File   string
	Name   string // substring match
	Parent string
	Offset int
	Limit  int // 0 = default 100, max 500
}

// Query returns summaries matching the filters plus the total count before
// offset/limit.
func (idx *Index) Query(opts QueryOpts) ([]Summary, int) {
	idx.mu.RLock()
	defer idx.mu.RUnlock()

	var matched []Summary
	for _, s := range idx.entries {
		if opts.Kind != "" && s.Kind != opts.Kind {
			continue
		}
		if opts.File != "" && s.File != opts.File {
			continue
		}
		if opts.Name != "" && !strings.Contains(s.Name, opts.Name) {
			continue
		}
		if opts.Parent != "" && s.Parent != opts.Parent {
			continue
		}
		matched = append(matched, s)
	}

	total := len(matched)
	if opts.Offset > 0 {
		if opts.Offset >= len(matched) {
			return nil, total
		}
		matched = matched[opts.Offset:]
	}
	limit := opts.Limit
	if limit <= 0 {
		limit = 100
	}
	if limit > 500 {
		limit = 500
	}
	if len(matched) > limit {
		matched = matched[:limit]
	}
	return matched, total
}
