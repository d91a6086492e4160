package intentions

import "github.com/dejo1307/objc2swift/internal/typesys"

// TypeGraph is a derived adjacency index over the collection's type
// intentions: superclass edges and protocol conformance edges. It is rebuilt
// after the structural passes that can change type membership and consumed
// by override detection and the body passes.
type TypeGraph struct {
	classes   map[string]*ClassIntention
	protocols map[string]*ProtocolIntention
	enums     map[string]*EnumIntention
	// conformances maps a class name to the protocols it declares, including
	// those contributed by its extensions.
	conformances map[string][]string
}

// NewTypeGraph builds the graph in a single pass over the collection.
func NewTypeGraph(col *Collection) *TypeGraph {
	g := &TypeGraph{
		classes:      make(map[string]*ClassIntention),
		protocols:    make(map[string]*ProtocolIntention),
		enums:        make(map[string]*EnumIntention),
		conformances: make(map[string][]string),
	}
	col.EachType(func(_ *FileIntention, t TypeIntention) {
		switch n := t.(type) {
		case *ClassExtensionIntention:
			g.conformances[n.TypeName] = append(g.conformances[n.TypeName], n.Protocols...)
		case *ClassIntention:
			if _, exists := g.classes[n.TypeName]; !exists {
				g.classes[n.TypeName] = n
			}
			g.conformances[n.TypeName] = append(g.conformances[n.TypeName], n.Protocols...)
		case *ProtocolIntention:
			if _, exists := g.protocols[n.TypeName]; !exists {
				g.protocols[n.TypeName] = n
			}
		case *EnumIntention:
			if _, exists := g.enums[n.TypeName]; !exists {
				g.enums[n.TypeName] = n
			}
		}
	})
	return g
}

// Class resolves a class intention by name.
func (g *TypeGraph) Class(name string) *ClassIntention {
	return g.classes[name]
}

// Protocol resolves a protocol intention by name.
func (g *TypeGraph) Protocol(name string) *ProtocolIntention {
	return g.protocols[name]
}

// Enum resolves an enum intention by name.
func (g *TypeGraph) Enum(name string) *EnumIntention {
	return g.enums[name]
}

// EnumWithCase finds the enum declaring the given case name.
func (g *TypeGraph) EnumWithCase(caseName string) (*EnumIntention, *EnumCaseIntention) {
	for _, e := range g.enums {
		if c := e.CaseByName(caseName); c != nil {
			return e, c
		}
	}
	return nil, nil
}

// SuperclassChain returns the resolved superclass names of a class, nearest
// first, stopping at unknown types and guarding against cycles.
func (g *TypeGraph) SuperclassChain(name string) []string {
	var chain []string
	seen := map[string]bool{name: true}
	cur := g.classes[name]
	for cur != nil && cur.SuperclassName != "" {
		super := cur.SuperclassName
		if seen[super] {
			break
		}
		seen[super] = true
		chain = append(chain, super)
		cur = g.classes[super]
	}
	return chain
}

// MethodInSuperclassChain finds a same-selector method declared anywhere up
// the superclass chain, returning it and the declaring class name.
func (g *TypeGraph) MethodInSuperclassChain(name string, sel typesys.Selector) (*MethodIntention, string) {
	for _, super := range g.SuperclassChain(name) {
		cls := g.classes[super]
		if cls == nil {
			continue
		}
		if m := cls.MethodBySelector(sel); m != nil {
			return m, super
		}
	}
	return nil, ""
}

// InitializerInSuperclassChain finds a same-selector initializer up the
// chain.
func (g *TypeGraph) InitializerInSuperclassChain(name string, sel typesys.Selector) (*InitializerIntention, string) {
	for _, super := range g.SuperclassChain(name) {
		cls := g.classes[super]
		if cls == nil {
			continue
		}
		if i := cls.InitializerBySelector(sel); i != nil {
			return i, super
		}
	}
	return nil, ""
}

// PropertyInSuperclassChain finds a same-name property up the chain.
func (g *TypeGraph) PropertyInSuperclassChain(name, propertyName string) (*PropertyIntention, string) {
	for _, super := range g.SuperclassChain(name) {
		cls := g.classes[super]
		if cls == nil {
			continue
		}
		if p := cls.PropertyByName(propertyName); p != nil {
			return p, super
		}
	}
	return nil, ""
}

// ConformedProtocols returns the protocols a class conforms to, directly or
// through its superclass chain, transitively expanding refined protocols.
func (g *TypeGraph) ConformedProtocols(name string) []*ProtocolIntention {
	var result []*ProtocolIntention
	seen := make(map[string]bool)

	var expand func(protoName string)
	expand = func(protoName string) {
		if seen[protoName] {
			return
		}
		seen[protoName] = true
		p := g.protocols[protoName]
		if p == nil {
			return
		}
		result = append(result, p)
		for _, refined := range p.Protocols {
			expand(refined)
		}
	}

	for _, protoName := range g.conformances[name] {
		expand(protoName)
	}
	for _, super := range g.SuperclassChain(name) {
		for _, protoName := range g.conformances[super] {
			expand(protoName)
		}
	}
	return result
}

// ProtocolRequirement finds a same-selector requirement among the protocols
// a class conforms to. The override pass uses it to inherit a requirement's
// nullability into the conforming method.
func (g *TypeGraph) ProtocolRequirement(name string, sel typesys.Selector) (*MethodIntention, string) {
	for _, p := range g.ConformedProtocols(name) {
		if m := p.MethodBySelector(sel); m != nil {
			return m, p.TypeName
		}
	}
	return nil, ""
}
