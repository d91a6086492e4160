package passes

import (
	"github.com/dejo1307/objc2swift/internal/intentions"
	"github.com/dejo1307/objc2swift/internal/swift"
	"github.com/dejo1307/objc2swift/internal/typemap"
	"github.com/dejo1307/objc2swift/internal/typesys"
)

// OverrideDetection marks a method override when a same-selector member
// exists up the resolved superclass chain, or when the body calls
// super.<selector>(...). A selector reachable only through a protocol
// conformance is not an override; instead the conforming method inherits
// the requirement's nullability where its own is unspecified.
type OverrideDetection struct{}

func (*OverrideDetection) Name() string { return "override-detection" }

func (p *OverrideDetection) Apply(ctx *Context, col *intentions.Collection) error {
	ctx.Graph = intentions.NewTypeGraph(col)

	col.EachType(func(_ *intentions.FileIntention, t intentions.TypeIntention) {
		var cls *intentions.ClassIntention
		isExtension := false
		switch n := t.(type) {
		case *intentions.ClassExtensionIntention:
			cls = &n.ClassIntention
			isExtension = true
		case *intentions.ClassIntention:
			cls = n
		default:
			return
		}
		for _, m := range cls.Methods {
			p.inheritProtocolNullability(ctx.Graph, cls, m)
			if isExtension {
				continue
			}
			if p.isOverride(ctx.Graph, cls, m.Selector(), m.Signature.Name, m.Body) {
				m.SetIsOverride(p.Name(), true)
			}
		}
		if isExtension {
			return
		}
		for _, ini := range cls.Initializers {
			if p.isInitOverride(ctx.Graph, cls, ini) {
				ini.SetIsOverride(p.Name(), true)
			}
		}
	})
	return nil
}

// inheritProtocolNullability backfills a conforming method's unspecified
// nullability slots from the matching protocol requirement, the same way
// file grouping reconciles a declaration into its definition: the
// requirement contributes nullability only where the method's own is
// unspecified.
func (p *OverrideDetection) inheritProtocolNullability(g *intentions.TypeGraph, cls *intentions.ClassIntention, m *intentions.MethodIntention) {
	req, _ := g.ProtocolRequirement(cls.TypeName, m.Selector())
	if req == nil {
		return
	}
	for i := range m.Signature.Params {
		if i >= len(req.Signature.Params) {
			break
		}
		in := req.Signature.Params[i].Nullability
		if in.Specified() && !m.Signature.Params[i].Nullability.Specified() {
			m.SetParamNullability(p.Name(), i, in)
			m.Signature.Params[i].Type = typemap.WithNullability(m.Signature.Params[i].Type, in)
		}
	}
	if req.Signature.ReturnNullability.Specified() && !m.Signature.ReturnNullability.Specified() {
		m.SetReturnNullability(p.Name(), req.Signature.ReturnNullability)
		m.Signature.ReturnType = typemap.WithNullability(m.Signature.ReturnType, req.Signature.ReturnNullability)
	}
}

func (p *OverrideDetection) isOverride(g *intentions.TypeGraph, cls *intentions.ClassIntention, sel typesys.Selector, name string, body *swift.CompoundStmt) bool {
	if m, _ := g.MethodInSuperclassChain(cls.TypeName, sel); m != nil {
		return true
	}
	// A super call is sufficient evidence on its own, even without a
	// visible supertype declaration.
	return callsSuper(body, name)
}

func (p *OverrideDetection) isInitOverride(g *intentions.TypeGraph, cls *intentions.ClassIntention, ini *intentions.InitializerIntention) bool {
	if found, _ := g.InitializerInSuperclassChain(cls.TypeName, ini.Selector()); found != nil {
		return true
	}
	return callsSuper(ini.Body, ini.Signature.Name)
}

// callsSuper reports whether the body contains super.name(...).
func callsSuper(body *swift.CompoundStmt, name string) bool {
	if body == nil {
		return false
	}
	found := false
	swift.WalkExprs(body, func(e swift.Expr) {
		call, ok := e.(*swift.MethodCallExpr)
		if !ok || call.Name != name {
			return
		}
		if base, ok := call.Base.(*swift.IdentifierExpr); ok && base.Name == "super" {
			found = true
		}
	})
	return found
}
