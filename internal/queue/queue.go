// Package queue collects every function body in a collection, pairing each
// with its carrier and a caller-supplied context, for the downstream body
// passes. Collection runs in parallel workers; the append path is the only
// shared mutation and holds the queue mutex per append.
package queue

import (
	"sync"

	"github.com/dejo1307/objc2swift/internal/intentions"
	"github.com/dejo1307/objc2swift/internal/swift"
)

// CarrierKind discriminates the body's owner.
type CarrierKind int

const (
	CarrierGlobalFunction CarrierKind = iota
	CarrierInitializer
	CarrierMethod
	CarrierPropertyAccessor
)

// Carrier identifies the intention owning a body.
type Carrier struct {
	Kind CarrierKind
	// TypeName is the enclosing type, empty for global functions.
	TypeName string

	Function    *intentions.GlobalFunctionIntention
	Initializer *intentions.InitializerIntention
	Method      *intentions.MethodIntention
	Property    *intentions.PropertyIntention
	// IsSetter distinguishes the two accessor bodies of a property carrier.
	IsSetter bool
}

// Item is one unit of body-rewriting work.
type Item struct {
	Body    *swift.CompoundStmt
	Carrier Carrier
	Context any
}

// ContextDelegate produces the per-item context handed to the body passes.
type ContextDelegate func(Carrier) any

// FunctionBodyQueue accumulates work items under a mutex.
type FunctionBodyQueue struct {
	mu    sync.Mutex
	items []Item
}

// New creates an empty queue.
func New() *FunctionBodyQueue {
	return &FunctionBodyQueue{}
}

// Append adds one item. Safe for concurrent use.
func (q *FunctionBodyQueue) Append(item Item) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.items = append(q.items, item)
}

// Len returns the current item count.
func (q *FunctionBodyQueue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.items)
}

// Drain removes and returns all items.
func (q *FunctionBodyQueue) Drain() []Item {
	q.mu.Lock()
	defer q.mu.Unlock()
	items := q.items
	q.items = nil
	return items
}

// Collect visits every body-carrying intention in the collection and fills
// the queue, one worker per file up to the given bound. The structural
// pipeline has completed by the time this runs, so the collection itself is
// read-only here.
func Collect(col *intentions.Collection, delegate ContextDelegate, workers int) *FunctionBodyQueue {
	if workers < 1 {
		workers = 1
	}
	q := New()

	files := make(chan *intentions.FileIntention)
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for f := range files {
				collectFile(q, f, delegate)
			}
		}()
	}
	for _, f := range col.Files() {
		files <- f
	}
	close(files)
	wg.Wait()
	return q
}

func collectFile(q *FunctionBodyQueue, f *intentions.FileIntention, delegate ContextDelegate) {
	emit := func(body *swift.CompoundStmt, carrier Carrier) {
		if body == nil {
			return
		}
		item := Item{Body: body, Carrier: carrier}
		if delegate != nil {
			item.Context = delegate(carrier)
		}
		q.Append(item)
	}

	for _, fn := range f.GlobalFuncs {
		emit(fn.Body, Carrier{Kind: CarrierGlobalFunction, Function: fn})
	}
	for _, t := range f.Types {
		var cls *intentions.ClassIntention
		switch n := t.(type) {
		case *intentions.ClassExtensionIntention:
			cls = &n.ClassIntention
		case *intentions.ClassIntention:
			cls = n
		default:
			continue
		}
		for _, ini := range cls.Initializers {
			emit(ini.Body, Carrier{Kind: CarrierInitializer, TypeName: cls.TypeName, Initializer: ini})
		}
		for _, m := range cls.Methods {
			emit(m.Body, Carrier{Kind: CarrierMethod, TypeName: cls.TypeName, Method: m})
		}
		for _, prop := range cls.Properties {
			emit(prop.Getter, Carrier{Kind: CarrierPropertyAccessor, TypeName: cls.TypeName, Property: prop})
			emit(prop.Setter, Carrier{Kind: CarrierPropertyAccessor, TypeName: cls.TypeName, Property: prop, IsSetter: true})
		}
	}
}
