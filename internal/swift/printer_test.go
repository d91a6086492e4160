package swift

import (
	"strings"
	"testing"

	"github.com/dejo1307/objc2swift/internal/typesys"
)

func TestPrinterExpressions(t *testing.T) {
	p := NewPrinter()
	tests := []struct {
		name string
		expr Expr
		want string
	}{
		{"identifier", Ident("x"), "x"},
		{"member", Member(Ident("self"), "title"), "self.title"},
		{"optional chain", &MemberAccessExpr{Base: Ident("o"), Name: "title", Optional: true}, "o?.title"},
		{"unary call", &MethodCallExpr{Base: Ident("self"), Name: "reload"}, "self.reload()"},
		{"labeled call", &MethodCallExpr{
			Base: Ident("list"),
			Name: "insert",
			Args: []Arg{{Value: Ident("x")}, {Label: "at", Value: IntLit("0")}},
		}, "list.insert(x, at: 0)"},
		{"free call", &MethodCallExpr{Name: "max", Args: []Arg{{Value: Ident("a")}, {Value: Ident("b")}}}, "max(a, b)"},
		{"binary", &BinaryExpr{Op: "+", LHS: Ident("a"), RHS: Ident("b")}, "a + b"},
		{"shift", &BinaryExpr{Op: "<<", LHS: Ident("a"), RHS: IntLit("2")}, "a << 2"},
		{"compound assign", &AssignmentExpr{Op: "+=", Target: Ident("i"), Value: IntLit("1")}, "i += 1"},
		{"ternary", &TernaryExpr{Cond: Ident("c"), Then: Ident("a"), Else: Ident("b")}, "c ? a : b"},
		{"nil coalesce", &NilCoalesceExpr{LHS: Ident("a"), RHS: Ident("b")}, "a ?? b"},
		{"selector", &SelectorExpr{Name: "tap:"}, `Selector("tap:")`},
		{"numeric cast", &CastExpr{Expr: Ident("x"), Type: typesys.Nominal("Int"), Numeric: true}, "Int(x)"},
		{"reference cast", &CastExpr{Expr: Ident("x"), Type: typesys.Nominal("UIView")}, "x as? UIView"},
		{"subscript", &SubscriptExpr{Base: Ident("xs"), Index: IntLit("0")}, "xs[0]"},
		{"array literal", &ArrayLiteralExpr{Elements: []Expr{IntLit("1"), IntLit("2")}}, "[1, 2]"},
		{"empty dict", &DictLiteralExpr{}, "[:]"},
		{"dict literal", &DictLiteralExpr{
			Keys:   []Expr{&LiteralExpr{Kind: LiteralString, Text: `"k"`}},
			Values: []Expr{IntLit("1")},
		}, `["k": 1]`},
		{"paren", &ParenExpr{Inner: Ident("x")}, "(x)"},
		{"unknown", &UnknownExpr{Text: "va_arg(ap)"}, "/* unknown */ va_arg(ap)"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := p.Expr(tt.expr); got != tt.want {
				t.Errorf("Expr = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestPrinterStatementOrderPreserved(t *testing.T) {
	p := NewPrinter()
	body := &CompoundStmt{Items: []Stmt{
		&ExprStmt{Expr: &MethodCallExpr{Base: Ident("self"), Name: "first"}},
		&VarDeclStmt{Decls: []VarDecl{{Name: "x", Type: typesys.Nominal("Int"), HasType: true, Initial: IntLit("1")}}},
		&ExprStmt{Expr: &MethodCallExpr{Base: Ident("self"), Name: "second"}},
		&VarDeclStmt{Decls: []VarDecl{{Name: "y", Type: typesys.Nominal("Int"), HasType: true}}},
	}}
	got := p.Block(body, 0)

	idxFirst := strings.Index(got, "self.first()")
	idxX := strings.Index(got, "var x")
	idxSecond := strings.Index(got, "self.second()")
	idxY := strings.Index(got, "var y")
	if !(idxFirst >= 0 && idxFirst < idxX && idxX < idxSecond && idxSecond < idxY) {
		t.Errorf("statement/declaration order not preserved:\n%s", got)
	}
}

func TestPrinterControlFlow(t *testing.T) {
	p := NewPrinter()

	ifStmt := &IfStmt{
		Cond: Ident("ready"),
		Then: &CompoundStmt{Items: []Stmt{&ReturnStmt{Value: Ident("a")}}},
		Else: &CompoundStmt{Items: []Stmt{&ReturnStmt{Value: Ident("b")}}},
	}
	got := p.Block(&CompoundStmt{Items: []Stmt{ifStmt}}, 0)
	if !strings.Contains(got, "if ready {") || !strings.Contains(got, "} else {") {
		t.Errorf("if/else rendering wrong:\n%s", got)
	}

	ifLet := &IfStmt{Binding: "s", Cond: Ident("s"), Then: &CompoundStmt{}}
	got = p.Block(&CompoundStmt{Items: []Stmt{ifLet}}, 0)
	if !strings.Contains(got, "if let s = s {") {
		t.Errorf("if let rendering wrong:\n%s", got)
	}

	repeat := &RepeatWhileStmt{Cond: Ident("more"), Body: &CompoundStmt{}}
	got = p.Block(&CompoundStmt{Items: []Stmt{repeat}}, 0)
	if !strings.Contains(got, "repeat {") || !strings.Contains(got, "} while more") {
		t.Errorf("repeat/while rendering wrong:\n%s", got)
	}

	forIn := &ForInStmt{
		Item:     "i",
		Sequence: &BinaryExpr{Op: "..<", LHS: IntLit("0"), RHS: Ident("n")},
		Body:     &CompoundStmt{},
	}
	got = p.Block(&CompoundStmt{Items: []Stmt{forIn}}, 0)
	if !strings.Contains(got, "for i in 0 ..< n {") {
		t.Errorf("for-in rendering wrong:\n%s", got)
	}

	sw := &SwitchStmt{
		Subject: Ident("e"),
		Cases: []SwitchCase{
			{Patterns: []Expr{Ident("a")}, Body: []Stmt{&ExprStmt{Expr: &MethodCallExpr{Base: Ident("self"), Name: "onA"}}}},
			{Patterns: nil, Body: nil},
		},
	}
	got = p.Block(&CompoundStmt{Items: []Stmt{sw}}, 0)
	if !strings.Contains(got, "switch e {") || !strings.Contains(got, "case a:") {
		t.Errorf("switch rendering wrong:\n%s", got)
	}
	if !strings.Contains(got, "default:") {
		t.Errorf("default arm missing:\n%s", got)
	}
	// An empty Swift case needs an explicit break.
	if !strings.Contains(got, "break") {
		t.Errorf("empty case should render break:\n%s", got)
	}
}

func TestRewriteExprPostOrder(t *testing.T) {
	// Children must be visited before parents.
	expr := &BinaryExpr{Op: "+", LHS: Ident("a"), RHS: &BinaryExpr{Op: "*", LHS: Ident("b"), RHS: Ident("c")}}
	var order []string
	RewriteExpr(expr, func(e Expr) Expr {
		switch n := e.(type) {
		case *IdentifierExpr:
			order = append(order, n.Name)
		case *BinaryExpr:
			order = append(order, n.Op)
		}
		return e
	})
	want := []string{"a", "b", "c", "*", "+"}
	if len(order) != len(want) {
		t.Fatalf("order = %v, want %v", order, want)
	}
	for i := range want {
		if order[i] != want[i] {
			t.Fatalf("order = %v, want %v", order, want)
		}
	}
}

func TestRewriteReplacesNodes(t *testing.T) {
	p := NewPrinter()
	stmt := &ExprStmt{Expr: Ident("old")}
	body := &CompoundStmt{Items: []Stmt{stmt}}
	RewriteStmtExprs(body, func(e Expr) Expr {
		if ident, ok := e.(*IdentifierExpr); ok && ident.Name == "old" {
			return Ident("new")
		}
		return e
	})
	if got := p.Expr(stmt.Expr); got != "new" {
		t.Errorf("rewrite result = %q, want new", got)
	}
}

func TestWalkExprsVisitsClosures(t *testing.T) {
	closure := &ClosureExpr{
		Return: typesys.Void,
		Body: &CompoundStmt{Items: []Stmt{
			&ExprStmt{Expr: Ident("inner")},
		}},
	}
	body := &CompoundStmt{Items: []Stmt{&ExprStmt{Expr: closure}}}
	found := false
	WalkExprs(body, func(e Expr) {
		if ident, ok := e.(*IdentifierExpr); ok && ident.Name == "inner" {
			found = true
		}
	})
	if !found {
		t.Error("walk should descend into closure bodies")
	}
}
