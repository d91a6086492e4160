package swift

// RewriteFunc transforms one expression node. Returning the input unchanged
// is the identity.
type RewriteFunc func(Expr) Expr

// RewriteExpr applies fn to every expression in post-order: children first,
// then the node itself. The body passes are built on this.
func RewriteExpr(e Expr, fn RewriteFunc) Expr {
	if e == nil {
		return nil
	}
	switch n := e.(type) {
	case *MemberAccessExpr:
		n.Base = RewriteExpr(n.Base, fn)
	case *MethodCallExpr:
		n.Base = RewriteExpr(n.Base, fn)
		for i := range n.Args {
			n.Args[i].Value = RewriteExpr(n.Args[i].Value, fn)
		}
	case *BinaryExpr:
		n.LHS = RewriteExpr(n.LHS, fn)
		n.RHS = RewriteExpr(n.RHS, fn)
	case *PrefixExpr:
		n.Operand = RewriteExpr(n.Operand, fn)
	case *AssignmentExpr:
		n.Target = RewriteExpr(n.Target, fn)
		n.Value = RewriteExpr(n.Value, fn)
	case *TernaryExpr:
		n.Cond = RewriteExpr(n.Cond, fn)
		n.Then = RewriteExpr(n.Then, fn)
		n.Else = RewriteExpr(n.Else, fn)
	case *NilCoalesceExpr:
		n.LHS = RewriteExpr(n.LHS, fn)
		n.RHS = RewriteExpr(n.RHS, fn)
	case *ArrayLiteralExpr:
		for i := range n.Elements {
			n.Elements[i] = RewriteExpr(n.Elements[i], fn)
		}
	case *DictLiteralExpr:
		for i := range n.Keys {
			n.Keys[i] = RewriteExpr(n.Keys[i], fn)
			n.Values[i] = RewriteExpr(n.Values[i], fn)
		}
	case *CastExpr:
		n.Expr = RewriteExpr(n.Expr, fn)
	case *ClosureExpr:
		RewriteStmtExprs(n.Body, fn)
	case *SubscriptExpr:
		n.Base = RewriteExpr(n.Base, fn)
		n.Index = RewriteExpr(n.Index, fn)
	case *ParenExpr:
		n.Inner = RewriteExpr(n.Inner, fn)
	}
	return fn(e)
}

// RewriteStmtExprs applies an expression rewriter to every expression
// embedded in a statement tree, in place.
func RewriteStmtExprs(s Stmt, fn RewriteFunc) {
	if s == nil {
		return
	}
	switch n := s.(type) {
	case *CompoundStmt:
		for _, item := range n.Items {
			RewriteStmtExprs(item, fn)
		}
	case *ExprStmt:
		n.Expr = RewriteExpr(n.Expr, fn)
	case *VarDeclStmt:
		for i := range n.Decls {
			if n.Decls[i].Initial != nil {
				n.Decls[i].Initial = RewriteExpr(n.Decls[i].Initial, fn)
			}
		}
	case *IfStmt:
		n.Cond = RewriteExpr(n.Cond, fn)
		RewriteStmtExprs(n.Then, fn)
		if n.Else != nil {
			RewriteStmtExprs(n.Else, fn)
		}
	case *WhileStmt:
		n.Cond = RewriteExpr(n.Cond, fn)
		RewriteStmtExprs(n.Body, fn)
	case *RepeatWhileStmt:
		n.Cond = RewriteExpr(n.Cond, fn)
		RewriteStmtExprs(n.Body, fn)
	case *ForInStmt:
		n.Sequence = RewriteExpr(n.Sequence, fn)
		RewriteStmtExprs(n.Body, fn)
	case *SwitchStmt:
		n.Subject = RewriteExpr(n.Subject, fn)
		for i := range n.Cases {
			for j := range n.Cases[i].Patterns {
				n.Cases[i].Patterns[j] = RewriteExpr(n.Cases[i].Patterns[j], fn)
			}
			for _, body := range n.Cases[i].Body {
				RewriteStmtExprs(body, fn)
			}
		}
	case *ReturnStmt:
		if n.Value != nil {
			n.Value = RewriteExpr(n.Value, fn)
		}
	}
}

// WalkExprs visits every expression in a statement tree without rewriting.
func WalkExprs(s Stmt, visit func(Expr)) {
	RewriteStmtExprs(s, func(e Expr) Expr {
		visit(e)
		return e
	})
}
