package swift

import (
	"fmt"
	"strings"
)

// Printer renders expression and statement trees as Swift source text.
type Printer struct {
	Indent string
}

// NewPrinter returns a printer using four-space indentation.
func NewPrinter() *Printer {
	return &Printer{Indent: "    "}
}

// Expr renders a single expression.
func (p *Printer) Expr(e Expr) string {
	switch n := e.(type) {
	case nil:
		return ""
	case *IdentifierExpr:
		return n.Name
	case *MemberAccessExpr:
		return p.Expr(n.Base) + chain(n.Optional) + n.Name
	case *MethodCallExpr:
		var sb strings.Builder
		if n.Base != nil {
			sb.WriteString(p.Expr(n.Base))
			sb.WriteString(chain(n.Optional))
		}
		sb.WriteString(n.Name)
		sb.WriteByte('(')
		for i, a := range n.Args {
			if i > 0 {
				sb.WriteString(", ")
			}
			if a.Label != "" {
				sb.WriteString(a.Label)
				sb.WriteString(": ")
			}
			sb.WriteString(p.Expr(a.Value))
		}
		sb.WriteByte(')')
		return sb.String()
	case *BinaryExpr:
		return p.Expr(n.LHS) + " " + n.Op + " " + p.Expr(n.RHS)
	case *PrefixExpr:
		return n.Op + p.Expr(n.Operand)
	case *AssignmentExpr:
		return p.Expr(n.Target) + " " + n.Op + " " + p.Expr(n.Value)
	case *TernaryExpr:
		return p.Expr(n.Cond) + " ? " + p.Expr(n.Then) + " : " + p.Expr(n.Else)
	case *NilCoalesceExpr:
		return p.Expr(n.LHS) + " ?? " + p.Expr(n.RHS)
	case *LiteralExpr:
		return n.Text
	case *ArrayLiteralExpr:
		elems := make([]string, len(n.Elements))
		for i, el := range n.Elements {
			elems[i] = p.Expr(el)
		}
		return "[" + strings.Join(elems, ", ") + "]"
	case *DictLiteralExpr:
		if len(n.Keys) == 0 {
			return "[:]"
		}
		pairs := make([]string, len(n.Keys))
		for i := range n.Keys {
			pairs[i] = p.Expr(n.Keys[i]) + ": " + p.Expr(n.Values[i])
		}
		return "[" + strings.Join(pairs, ", ") + "]"
	case *CastExpr:
		if n.Numeric {
			return n.Type.String() + "(" + p.Expr(n.Expr) + ")"
		}
		return p.Expr(n.Expr) + " as? " + n.Type.String()
	case *ClosureExpr:
		var sb strings.Builder
		sb.WriteString("{ ")
		if len(n.Params) > 0 {
			params := make([]string, len(n.Params))
			for i, prm := range n.Params {
				params[i] = prm.Name + ": " + prm.Type.String()
			}
			sb.WriteString("(" + strings.Join(params, ", ") + ")")
		} else {
			sb.WriteString("()")
		}
		sb.WriteString(" -> " + n.Return.String() + " in\n")
		sb.WriteString(p.block(n.Body, 1))
		sb.WriteString("}")
		return sb.String()
	case *SelectorExpr:
		return fmt.Sprintf("Selector(%q)", n.Name)
	case *SubscriptExpr:
		return p.Expr(n.Base) + "[" + p.Expr(n.Index) + "]"
	case *ParenExpr:
		return "(" + p.Expr(n.Inner) + ")"
	case *UnknownExpr:
		return "/* unknown */ " + n.Text
	}
	return "/* unknown */"
}

func chain(optional bool) string {
	if optional {
		return "?."
	}
	return "."
}

// Block renders a compound statement's items at the given indent depth,
// without the surrounding braces.
func (p *Printer) Block(body *CompoundStmt, depth int) string {
	return p.block(body, depth)
}

func (p *Printer) block(body *CompoundStmt, depth int) string {
	if body == nil {
		return ""
	}
	var sb strings.Builder
	for _, item := range body.Items {
		p.stmt(&sb, item, depth)
	}
	return sb.String()
}

func (p *Printer) stmt(sb *strings.Builder, s Stmt, depth int) {
	ind := strings.Repeat(p.Indent, depth)
	switch n := s.(type) {
	case *CompoundStmt:
		sb.WriteString(ind + "do {\n")
		sb.WriteString(p.block(n, depth+1))
		sb.WriteString(ind + "}\n")
	case *ExprStmt:
		sb.WriteString(ind + p.Expr(n.Expr) + "\n")
	case *VarDeclStmt:
		for _, d := range n.Decls {
			kw := "var"
			if d.Constant {
				kw = "let"
			}
			line := ind + kw + " " + d.Name
			if d.HasType {
				line += ": " + d.Type.String()
			}
			if d.Initial != nil {
				line += " = " + p.Expr(d.Initial)
			}
			sb.WriteString(line + "\n")
		}
	case *IfStmt:
		cond := p.Expr(n.Cond)
		if n.Binding != "" {
			cond = "let " + n.Binding + " = " + cond
		}
		sb.WriteString(ind + "if " + cond + " {\n")
		sb.WriteString(p.block(n.Then, depth+1))
		if n.Else != nil {
			if elif, ok := n.Else.(*IfStmt); ok {
				sb.WriteString(ind + "} else ")
				nested := &strings.Builder{}
				p.stmt(nested, elif, depth)
				sb.WriteString(strings.TrimPrefix(nested.String(), ind))
				return
			}
			sb.WriteString(ind + "} else {\n")
			if body, ok := n.Else.(*CompoundStmt); ok {
				sb.WriteString(p.block(body, depth+1))
			} else {
				p.stmt(sb, n.Else, depth+1)
			}
		}
		sb.WriteString(ind + "}\n")
	case *WhileStmt:
		sb.WriteString(ind + "while " + p.Expr(n.Cond) + " {\n")
		sb.WriteString(p.block(n.Body, depth+1))
		sb.WriteString(ind + "}\n")
	case *RepeatWhileStmt:
		sb.WriteString(ind + "repeat {\n")
		sb.WriteString(p.block(n.Body, depth+1))
		sb.WriteString(ind + "} while " + p.Expr(n.Cond) + "\n")
	case *ForInStmt:
		sb.WriteString(ind + "for " + n.Item + " in " + p.Expr(n.Sequence) + " {\n")
		sb.WriteString(p.block(n.Body, depth+1))
		sb.WriteString(ind + "}\n")
	case *SwitchStmt:
		sb.WriteString(ind + "switch " + p.Expr(n.Subject) + " {\n")
		for _, c := range n.Cases {
			if c.Patterns == nil {
				sb.WriteString(ind + "default:\n")
			} else {
				patterns := make([]string, len(c.Patterns))
				for i, pt := range c.Patterns {
					patterns[i] = p.Expr(pt)
				}
				sb.WriteString(ind + "case " + strings.Join(patterns, ", ") + ":\n")
			}
			if len(c.Body) == 0 {
				sb.WriteString(ind + p.Indent + "break\n")
				continue
			}
			for _, bodyStmt := range c.Body {
				p.stmt(sb, bodyStmt, depth+1)
			}
		}
		sb.WriteString(ind + "}\n")
	case *ReturnStmt:
		if n.Value == nil {
			sb.WriteString(ind + "return\n")
		} else {
			sb.WriteString(ind + "return " + p.Expr(n.Value) + "\n")
		}
	case *BreakStmt:
		sb.WriteString(ind + "break\n")
	case *ContinueStmt:
		sb.WriteString(ind + "continue\n")
	case *CommentStmt:
		sb.WriteString(ind + "// " + n.Text + "\n")
	case *UnknownStmt:
		sb.WriteString(ind + "/* unknown */ // " + strings.ReplaceAll(n.Text, "\n", " ") + "\n")
	}
}
