package bodypasses

import (
	"github.com/dejo1307/objc2swift/internal/intentions"
	"github.com/dejo1307/objc2swift/internal/queue"
	"github.com/dejo1307/objc2swift/internal/swift"
	"github.com/dejo1307/objc2swift/internal/typemap"
	"github.com/dejo1307/objc2swift/internal/typesys"
)

// TypeResolution annotates identifiers, member accesses, calls, and
// operators with their inferred types, and marks optional chaining on
// accesses through optional receivers. Unresolvable expressions stay
// unannotated; later passes skip them.
type TypeResolution struct{}

func (*TypeResolution) Name() string { return "type-resolution" }

func (p *TypeResolution) Rewrite(ctx *BodyContext, item queue.Item) {
	p.resolveCompound(ctx, item.Body)
}

// resolveCompound walks items in order so local declarations become visible
// to the statements after them.
func (p *TypeResolution) resolveCompound(ctx *BodyContext, body *swift.CompoundStmt) {
	if body == nil {
		return
	}
	for _, item := range body.Items {
		switch n := item.(type) {
		case *swift.VarDeclStmt:
			for i := range n.Decls {
				if n.Decls[i].Initial != nil {
					n.Decls[i].Initial = swift.RewriteExpr(n.Decls[i].Initial, p.annotate(ctx))
				}
				if n.Decls[i].HasType {
					ctx.Locals[n.Decls[i].Name] = n.Decls[i].Type
				}
			}
		case *swift.CompoundStmt:
			p.resolveCompound(ctx, n)
		case *swift.IfStmt:
			n.Cond = swift.RewriteExpr(n.Cond, p.annotate(ctx))
			p.resolveCompound(ctx, n.Then)
			if elseBody, ok := n.Else.(*swift.CompoundStmt); ok {
				p.resolveCompound(ctx, elseBody)
			} else if elif, ok := n.Else.(*swift.IfStmt); ok {
				p.resolveCompound(ctx, &swift.CompoundStmt{Items: []swift.Stmt{elif}})
			}
		case *swift.WhileStmt:
			n.Cond = swift.RewriteExpr(n.Cond, p.annotate(ctx))
			p.resolveCompound(ctx, n.Body)
		case *swift.RepeatWhileStmt:
			p.resolveCompound(ctx, n.Body)
			n.Cond = swift.RewriteExpr(n.Cond, p.annotate(ctx))
		case *swift.ForInStmt:
			n.Sequence = swift.RewriteExpr(n.Sequence, p.annotate(ctx))
			if seq, ok := n.Sequence.(swift.Typed); ok {
				if t := seq.ResolvedType(); t != nil && t.Kind == typesys.KindArray {
					ctx.Locals[n.Item] = *t.Elem
				}
			}
			if _, ok := ctx.Locals[n.Item]; !ok {
				ctx.Locals[n.Item] = typesys.Nominal("Int")
			}
			p.resolveCompound(ctx, n.Body)
		case *swift.SwitchStmt:
			n.Subject = swift.RewriteExpr(n.Subject, p.annotate(ctx))
			for i := range n.Cases {
				for j := range n.Cases[i].Patterns {
					n.Cases[i].Patterns[j] = swift.RewriteExpr(n.Cases[i].Patterns[j], p.annotate(ctx))
				}
				p.resolveCompound(ctx, &swift.CompoundStmt{Items: n.Cases[i].Body})
			}
		default:
			swift.RewriteStmtExprs(item, p.annotate(ctx))
		}
	}
}

// annotate is the post-order resolver: children carry their annotations by
// the time the parent is visited.
func (p *TypeResolution) annotate(ctx *BodyContext) swift.RewriteFunc {
	return func(e swift.Expr) swift.Expr {
		switch n := e.(type) {
		case *swift.IdentifierExpr:
			if t, ok := ctx.Locals[n.Name]; ok {
				n.SetResolvedType(&t)
				return n
			}
			if n.Name == "self" && ctx.SelfType != "" {
				t := typesys.Nominal(ctx.SelfType)
				n.SetResolvedType(&t)
				return n
			}
			if ctx.Graph != nil {
				if enum, _ := ctx.Graph.EnumWithCase(n.Name); enum != nil {
					t := typesys.Nominal(enum.TypeName)
					n.SetResolvedType(&t)
					return n
				}
				if cls := p.enclosingClass(ctx); cls != nil {
					if v := cls.IVarByName(n.Name); v != nil {
						t := v.Storage.Type
						n.SetResolvedType(&t)
					}
				}
			}

		case *swift.LiteralExpr:
			var t typesys.Type
			switch n.Kind {
			case swift.LiteralInt:
				t = typesys.Nominal("Int")
			case swift.LiteralFloat:
				t = typesys.Nominal("Double")
			case swift.LiteralString:
				t = typesys.Nominal("String")
			case swift.LiteralBool:
				t = typesys.Nominal("Bool")
			default:
				return n
			}
			n.SetResolvedType(&t)

		case *swift.MemberAccessExpr:
			p.resolveMember(ctx, n)

		case *swift.MethodCallExpr:
			p.resolveCall(ctx, n)

		case *swift.BinaryExpr:
			p.resolveBinary(n)

		case *swift.PrefixExpr:
			if n.Op == "!" {
				t := typesys.Nominal("Bool")
				n.SetResolvedType(&t)
			} else if inner := resolvedOf(n.Operand); inner != nil {
				n.SetResolvedType(inner)
			}

		case *swift.ParenExpr:
			if inner := resolvedOf(n.Inner); inner != nil {
				n.SetResolvedType(inner)
			}

		case *swift.TernaryExpr:
			if t := resolvedOf(n.Then); t != nil {
				n.SetResolvedType(t)
			}

		case *swift.NilCoalesceExpr:
			if t := resolvedOf(n.LHS); t != nil {
				unwrapped := t.Unwrapped()
				n.SetResolvedType(&unwrapped)
			}

		case *swift.AssignmentExpr:
			if t := resolvedOf(n.Target); t != nil {
				n.SetResolvedType(t)
			}

		case *swift.CastExpr:
			t := n.Type
			n.SetResolvedType(&t)

		case *swift.SubscriptExpr:
			if t := resolvedOf(n.Base); t != nil {
				base := t.Unwrapped()
				switch base.Kind {
				case typesys.KindArray:
					n.SetResolvedType(base.Elem)
				case typesys.KindDictionary:
					opt := typesys.OptionalOf(*base.Value)
					n.SetResolvedType(&opt)
				}
			}
		}
		return e
	}
}

func (p *TypeResolution) enclosingClass(ctx *BodyContext) *intentions.ClassIntention {
	if ctx.Graph == nil || ctx.SelfType == "" {
		return nil
	}
	return ctx.Graph.Class(ctx.SelfType)
}

// resolveMember types base.name, marking optional chaining when the base is
// optional.
func (p *TypeResolution) resolveMember(ctx *BodyContext, n *swift.MemberAccessExpr) {
	baseType := resolvedOf(n.Base)
	if baseType == nil || ctx.Graph == nil {
		return
	}
	if baseType.IsOptional() {
		n.Optional = true
	}
	nominal := baseType.DeepUnwrapped()
	if nominal.Kind == typesys.KindArray && n.Name == "count" {
		t := typesys.Nominal("Int")
		n.SetResolvedType(&t)
		return
	}
	if nominal.Kind != typesys.KindNominal {
		return
	}
	cls := ctx.Graph.Class(nominal.Name)
	for cls != nil {
		if prop := cls.PropertyByName(n.Name); prop != nil {
			t := prop.Storage.Type
			if n.Optional {
				t = typesys.OptionalOf(t)
			}
			n.SetResolvedType(&t)
			return
		}
		if v := cls.IVarByName(n.Name); v != nil {
			t := v.Storage.Type
			n.SetResolvedType(&t)
			return
		}
		cls = ctx.Graph.Class(cls.SuperclassName)
	}
	if enum := ctx.Graph.Enum(nominal.Name); enum != nil {
		if enum.CaseByName(n.Name) != nil {
			t := typesys.Nominal(enum.TypeName)
			n.SetResolvedType(&t)
		}
	}
}

// resolveCall types base.method(...) against the receiver's declared
// methods.
func (p *TypeResolution) resolveCall(ctx *BodyContext, n *swift.MethodCallExpr) {
	if ctx.Graph == nil {
		return
	}
	receiverName := ""
	if base, ok := n.Base.(*swift.IdentifierExpr); ok && (base.Name == "self" || base.Name == "super") {
		receiverName = ctx.SelfType
		if base.Name == "super" {
			if cls := ctx.Graph.Class(ctx.SelfType); cls != nil {
				receiverName = cls.SuperclassName
			}
		}
	} else if t := resolvedOf(n.Base); t != nil {
		if t.IsOptional() {
			n.Optional = true
		}
		nominal := t.DeepUnwrapped()
		if nominal.Kind == typesys.KindNominal {
			receiverName = nominal.Name
		}
	}
	if receiverName == "" {
		return
	}
	cls := ctx.Graph.Class(receiverName)
	for cls != nil {
		for _, m := range cls.Methods {
			if m.Signature.Name == n.Name && len(m.Signature.Params) == len(n.Args) {
				t := m.Signature.ReturnType
				if n.Optional && !t.IsOptional() && t.Kind != typesys.KindVoid {
					t = typesys.OptionalOf(t)
				}
				n.SetResolvedType(&t)
				return
			}
		}
		cls = ctx.Graph.Class(cls.SuperclassName)
	}
}

func (p *TypeResolution) resolveBinary(n *swift.BinaryExpr) {
	switch n.Op {
	case "==", "!=", "<", ">", "<=", ">=", "&&", "||":
		t := typesys.Nominal("Bool")
		n.SetResolvedType(&t)
	case "+", "-", "*", "/", "%", "<<", ">>", "&", "|", "^":
		lt, rt := resolvedOf(n.LHS), resolvedOf(n.RHS)
		if t := widerNumeric(lt, rt); t != nil {
			n.SetResolvedType(t)
		}
	}
}

// widerNumeric picks the wider of two numeric operand types.
func widerNumeric(a, b *typesys.Type) *typesys.Type {
	rank := func(t *typesys.Type) int {
		if t == nil || t.Kind != typesys.KindNominal || !typemap.IsNumeric(t.Name) {
			return -1
		}
		switch t.Name {
		case "Double", "CGFloat", "TimeInterval":
			return 3
		case "Float":
			return 2
		}
		return 1
	}
	ra, rb := rank(a), rank(b)
	if ra < 0 && rb < 0 {
		return nil
	}
	if ra >= rb {
		if ra < 0 {
			return b
		}
		return a
	}
	return b
}

func resolvedOf(e swift.Expr) *typesys.Type {
	if typed, ok := e.(swift.Typed); ok {
		return typed.ResolvedType()
	}
	return nil
}
