package bodypasses

import (
	"github.com/dejo1307/objc2swift/internal/queue"
	"github.com/dejo1307/objc2swift/internal/swift"
	"github.com/dejo1307/objc2swift/internal/typemap"
	"github.com/dejo1307/objc2swift/internal/typesys"
)

// NilCoalescing inserts "?? default" where a chained optional access flows
// into a non-optional target: declarations and assignments whose declared
// type is non-optional but whose value resolves optional.
type NilCoalescing struct{}

func (*NilCoalescing) Name() string { return "nil-coalescing" }

func (p *NilCoalescing) Rewrite(ctx *BodyContext, item queue.Item) {
	changed := false
	eachStmt(item.Body, func(s swift.Stmt) {
		switch n := s.(type) {
		case *swift.VarDeclStmt:
			for i := range n.Decls {
				d := &n.Decls[i]
				if d.Initial == nil || !d.HasType || d.Type.IsOptional() {
					continue
				}
				if coalesced := p.coalesce(d.Initial, d.Type); coalesced != nil {
					d.Initial = coalesced
					changed = true
				}
			}
		case *swift.ExprStmt:
			assign, ok := n.Expr.(*swift.AssignmentExpr)
			if !ok || assign.Op != "=" {
				return
			}
			targetType := resolvedOf(assign.Target)
			if targetType == nil || targetType.IsOptional() {
				return
			}
			if coalesced := p.coalesce(assign.Value, *targetType); coalesced != nil {
				assign.Value = coalesced
				changed = true
			}
		}
	})
	if changed {
		if h := carrierHistory(item); h != nil {
			h.Record(p.Name(), "inserted nil-coalescing default on optional access")
		}
	}
}

// coalesce wraps value in "?? default" when it resolves optional and the
// target type has a zero default.
func (p *NilCoalescing) coalesce(value swift.Expr, target typesys.Type) swift.Expr {
	vt := resolvedOf(value)
	if vt == nil || !vt.IsOptional() {
		return nil
	}
	if _, already := value.(*swift.NilCoalesceExpr); already {
		return nil
	}
	def := zeroValue(target)
	if def == nil {
		return nil
	}
	return &swift.NilCoalesceExpr{LHS: value, RHS: def}
}

// zeroValue is the coalescing default for a non-optional target type.
func zeroValue(t typesys.Type) swift.Expr {
	switch t.Kind {
	case typesys.KindNominal:
		switch {
		case typemap.IsNumeric(t.Name):
			return swift.IntLit("0")
		case t.Name == "String":
			return &swift.LiteralExpr{Kind: swift.LiteralString, Text: `""`}
		case t.Name == "Bool":
			return &swift.LiteralExpr{Kind: swift.LiteralBool, Text: "false"}
		}
	case typesys.KindArray:
		return &swift.ArrayLiteralExpr{}
	case typesys.KindDictionary:
		return &swift.DictLiteralExpr{}
	}
	return nil
}

// CastInsertion wraps an expression in T(...) when its inferred numeric type
// differs from the numeric type of its use site.
type CastInsertion struct{}

func (*CastInsertion) Name() string { return "cast-insertion" }

func (p *CastInsertion) Rewrite(ctx *BodyContext, item queue.Item) {
	changed := false
	eachStmt(item.Body, func(s swift.Stmt) {
		switch n := s.(type) {
		case *swift.VarDeclStmt:
			for i := range n.Decls {
				d := &n.Decls[i]
				if d.Initial == nil || !d.HasType {
					continue
				}
				if cast := numericCast(d.Initial, d.Type); cast != nil {
					d.Initial = cast
					changed = true
				}
			}
		case *swift.ExprStmt:
			assign, ok := n.Expr.(*swift.AssignmentExpr)
			if !ok || assign.Op != "=" {
				return
			}
			targetType := resolvedOf(assign.Target)
			if targetType == nil {
				return
			}
			if cast := numericCast(assign.Value, *targetType); cast != nil {
				assign.Value = cast
				changed = true
			}
		case *swift.ReturnStmt:
			if n.Value == nil {
				return
			}
			if cast := numericCast(n.Value, ctx.ReturnType); cast != nil {
				n.Value = cast
				changed = true
			}
		}
	})
	if changed {
		if h := carrierHistory(item); h != nil {
			h.Record(p.Name(), "inserted numeric conversion at use site")
		}
	}
}

// numericCast returns value wrapped in target(...) when both sides are
// numeric nominals that disagree.
func numericCast(value swift.Expr, target typesys.Type) swift.Expr {
	if target.Kind != typesys.KindNominal || !typemap.IsNumeric(target.Name) {
		return nil
	}
	vt := resolvedOf(value)
	if vt == nil {
		return nil
	}
	source := vt.DeepUnwrapped()
	if source.Kind != typesys.KindNominal || !typemap.IsNumeric(source.Name) {
		return nil
	}
	if source.Name == target.Name {
		return nil
	}
	// Literals adapt to their context without a conversion.
	if lit, ok := value.(*swift.LiteralExpr); ok && (lit.Kind == swift.LiteralInt || lit.Kind == swift.LiteralFloat) {
		return nil
	}
	return &swift.CastExpr{Expr: value, Type: target, Numeric: true}
}

// IfLetRewrite wraps a statement in "if let" when an optional local is
// passed where the enclosing type's method declares a non-optional
// parameter.
type IfLetRewrite struct{}

func (*IfLetRewrite) Name() string { return "if-let" }

func (p *IfLetRewrite) Rewrite(ctx *BodyContext, item queue.Item) {
	if item.Body == nil || ctx.Graph == nil {
		return
	}
	changed := false
	for i, s := range item.Body.Items {
		exprStmt, ok := s.(*swift.ExprStmt)
		if !ok {
			continue
		}
		call, ok := exprStmt.Expr.(*swift.MethodCallExpr)
		if !ok {
			continue
		}
		name := p.optionalArgToNonnullParam(ctx, call)
		if name == "" {
			continue
		}
		item.Body.Items[i] = &swift.IfStmt{
			Binding: name,
			Cond:    swift.Ident(name),
			Then:    &swift.CompoundStmt{Items: []swift.Stmt{exprStmt}},
		}
		changed = true
	}
	if changed {
		if h := carrierHistory(item); h != nil {
			h.Record(p.Name(), "wrapped nullable argument in if let")
		}
	}
}

// optionalArgToNonnullParam finds an optional identifier argument bound to a
// non-optional parameter of a resolvable self-method call.
func (p *IfLetRewrite) optionalArgToNonnullParam(ctx *BodyContext, call *swift.MethodCallExpr) string {
	base, ok := call.Base.(*swift.IdentifierExpr)
	if !ok || base.Name != "self" || ctx.SelfType == "" {
		return ""
	}
	cls := ctx.Graph.Class(ctx.SelfType)
	if cls == nil {
		return ""
	}
	for _, m := range cls.Methods {
		if m.Signature.Name != call.Name || len(m.Signature.Params) != len(call.Args) {
			continue
		}
		for i, arg := range call.Args {
			ident, ok := arg.Value.(*swift.IdentifierExpr)
			if !ok {
				continue
			}
			argType := resolvedOf(ident)
			if argType == nil || argType.Kind != typesys.KindOptional {
				continue
			}
			if !m.Signature.Params[i].Type.IsOptional() {
				return ident.Name
			}
		}
		return ""
	}
	return ""
}

// eachStmt visits every statement in a tree, recursing through nested
// bodies.
func eachStmt(s swift.Stmt, visit func(swift.Stmt)) {
	if s == nil {
		return
	}
	visit(s)
	switch n := s.(type) {
	case *swift.CompoundStmt:
		for _, item := range n.Items {
			eachStmt(item, visit)
		}
	case *swift.IfStmt:
		eachStmt(n.Then, visit)
		if n.Else != nil {
			eachStmt(n.Else, visit)
		}
	case *swift.WhileStmt:
		eachStmt(n.Body, visit)
	case *swift.RepeatWhileStmt:
		eachStmt(n.Body, visit)
	case *swift.ForInStmt:
		eachStmt(n.Body, visit)
	case *swift.SwitchStmt:
		for i := range n.Cases {
			for _, body := range n.Cases[i].Body {
				eachStmt(body, visit)
			}
		}
	}
}
