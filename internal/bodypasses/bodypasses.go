// Package bodypasses holds the expression passes that run over drained
// function-body queue items after the structural pipeline: type resolution,
// nil-coalescing insertion, numeric cast insertion, and if-let rewriting.
package bodypasses

import (
	"github.com/dejo1307/objc2swift/internal/intentions"
	"github.com/dejo1307/objc2swift/internal/passes"
	"github.com/dejo1307/objc2swift/internal/queue"
	"github.com/dejo1307/objc2swift/internal/typesys"
)

// BodyContext is the per-item context produced by the queue delegate.
type BodyContext struct {
	Graph *intentions.TypeGraph
	Usage *passes.Usage
	// Locals maps in-scope names (parameters, then local declarations as
	// they are encountered) to their declared types.
	Locals map[string]typesys.Type
	// SelfType is the enclosing nominal type, empty in global functions.
	SelfType string
	// ReturnType is the body's declared return type.
	ReturnType typesys.Type
}

// BodyPass rewrites one body in place.
type BodyPass interface {
	Name() string
	Rewrite(ctx *BodyContext, item queue.Item)
}

// DefaultPipeline returns the body passes in their documented order: types
// resolve first, the rewriters consume the annotations.
func DefaultPipeline() []BodyPass {
	return []BodyPass{
		&TypeResolution{},
		&NilCoalescing{},
		&CastInsertion{},
		&IfLetRewrite{},
	}
}

// MakeDelegate builds the queue's context delegate: each item gets a
// BodyContext seeded with the carrier's parameters.
func MakeDelegate(graph *intentions.TypeGraph, usage *passes.Usage) queue.ContextDelegate {
	return func(c queue.Carrier) any {
		ctx := &BodyContext{
			Graph:      graph,
			Usage:      usage,
			Locals:     make(map[string]typesys.Type),
			SelfType:   c.TypeName,
			ReturnType: typesys.Void,
		}
		var params []intentions.Parameter
		switch c.Kind {
		case queue.CarrierGlobalFunction:
			params = c.Function.Signature.Params
			ctx.ReturnType = c.Function.Signature.ReturnType
		case queue.CarrierInitializer:
			params = c.Initializer.Signature.Params
		case queue.CarrierMethod:
			params = c.Method.Signature.Params
			ctx.ReturnType = c.Method.Signature.ReturnType
		case queue.CarrierPropertyAccessor:
			if c.IsSetter {
				ctx.Locals["newValue"] = c.Property.Storage.Type
			} else {
				ctx.ReturnType = c.Property.Storage.Type
			}
		}
		for _, p := range params {
			if p.Name != "" {
				ctx.Locals[p.Name] = p.Type
			}
		}
		return ctx
	}
}

// Run drains the queue through the pass pipeline.
func Run(q *queue.FunctionBodyQueue, pipeline []BodyPass) {
	for _, item := range q.Drain() {
		ctx, _ := item.Context.(*BodyContext)
		if ctx == nil {
			continue
		}
		for _, p := range pipeline {
			p.Rewrite(ctx, item)
		}
	}
}

// carrierHistory returns the history of the intention owning an item's body.
func carrierHistory(item queue.Item) *intentions.History {
	switch item.Carrier.Kind {
	case queue.CarrierGlobalFunction:
		return item.Carrier.Function.History()
	case queue.CarrierInitializer:
		return item.Carrier.Initializer.History()
	case queue.CarrierMethod:
		return item.Carrier.Method.History()
	case queue.CarrierPropertyAccessor:
		return item.Carrier.Property.History()
	}
	return nil
}
