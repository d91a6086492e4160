// Package passes holds the structural intention passes. The pipeline order
// is fixed; later passes rely on invariants established by earlier ones.
package passes

import (
	"github.com/dejo1307/objc2swift/internal/diag"
	"github.com/dejo1307/objc2swift/internal/intentions"
)

// Context carries the shared state a pass may read or refresh.
type Context struct {
	Bag *diag.Bag
	// Graph is the type adjacency index; override detection rebuilds it
	// before use.
	Graph *intentions.TypeGraph
	// Usage is populated by the usage-analysis pass and consumed by the
	// body passes.
	Usage *Usage
}

// Pass mutates the intention collection. Every mutation appends a history
// record prefixed by the pass name.
type Pass interface {
	Name() string
	Apply(ctx *Context, col *intentions.Collection) error
}

// Registry holds registered passes in pipeline order.
type Registry struct {
	passes []Pass
}

// NewRegistry creates an empty pass registry.
func NewRegistry() *Registry {
	return &Registry{}
}

// Register appends a pass to the pipeline.
func (r *Registry) Register(p Pass) {
	r.passes = append(r.passes, p)
}

// Get returns the pass with the given name, or nil.
func (r *Registry) Get(name string) Pass {
	for _, p := range r.passes {
		if p.Name() == name {
			return p
		}
	}
	return nil
}

// All returns all registered passes in order.
func (r *Registry) All() []Pass {
	return r.passes
}

// DefaultPipeline returns the canonical pass pipeline in its documented
// order.
func DefaultPipeline() []Pass {
	return []Pass{
		&FileGrouping{},
		&DuplicateTypeRemoval{},
		&PropertyMerge{},
		&SynthesizeBackingField{},
		&OverrideDetection{},
		&UsageAnalysis{},
	}
}
