package bodypasses

import (
	"testing"

	"github.com/dejo1307/objc2swift/internal/intentions"
	"github.com/dejo1307/objc2swift/internal/queue"
	"github.com/dejo1307/objc2swift/internal/swift"
	"github.com/dejo1307/objc2swift/internal/typesys"
)

// --- helpers ---

func graphWith(types ...intentions.TypeIntention) *intentions.TypeGraph {
	col := intentions.NewCollection()
	f := intentions.NewFileIntention("all.m")
	for _, t := range types {
		f.AddType(t)
	}
	col.AddFile(f)
	return intentions.NewTypeGraph(col)
}

func classWithProperty(name, propName string, propType typesys.Type) *intentions.ClassIntention {
	cls := intentions.NewClassIntention(name, intentions.FromImplementation, intentions.SourceRef{}, false)
	cls.AddProperty(intentions.NewPropertyIntention(propName, intentions.Storage{Type: propType}, intentions.SourceRef{}, false))
	return cls
}

func methodItem(cls *intentions.ClassIntention, m *intentions.MethodIntention, g *intentions.TypeGraph) queue.Item {
	carrier := queue.Carrier{Kind: queue.CarrierMethod, TypeName: cls.TypeName, Method: m}
	ctx := MakeDelegate(g, nil)(carrier)
	return queue.Item{Body: m.Body, Carrier: carrier, Context: ctx}
}

func run(item queue.Item, pipeline ...BodyPass) {
	ctx := item.Context.(*BodyContext)
	for _, p := range pipeline {
		p.Rewrite(ctx, item)
	}
}

// --- type resolution ---

func TestTypeResolution_LocalsAndLiterals(t *testing.T) {
	cls := intentions.NewClassIntention("C", intentions.FromImplementation, intentions.SourceRef{}, false)
	m := intentions.NewMethodIntention(intentions.FunctionSignature{
		Name:       "m",
		ReturnType: typesys.Void,
		Params:     []intentions.Parameter{{Name: "x", Type: typesys.Nominal("Int")}},
	}, intentions.SourceRef{}, false)

	use := swift.Ident("x")
	lit := swift.IntLit("2")
	sum := &swift.BinaryExpr{Op: "+", LHS: use, RHS: lit}
	m.Body = &swift.CompoundStmt{Items: []swift.Stmt{&swift.ExprStmt{Expr: sum}}}
	cls.AddMethod(m)

	run(methodItem(cls, m, graphWith(cls)), &TypeResolution{})

	if got := use.ResolvedType(); got == nil || got.String() != "Int" {
		t.Errorf("parameter use resolved to %v, want Int", got)
	}
	if got := lit.ResolvedType(); got == nil || got.String() != "Int" {
		t.Errorf("literal resolved to %v, want Int", got)
	}
	if got := sum.ResolvedType(); got == nil || got.String() != "Int" {
		t.Errorf("sum resolved to %v, want Int", got)
	}
}

func TestTypeResolution_OptionalChainMarked(t *testing.T) {
	other := classWithProperty("Other", "name", typesys.Nominal("String"))
	cls := intentions.NewClassIntention("C", intentions.FromImplementation, intentions.SourceRef{}, false)
	m := intentions.NewMethodIntention(intentions.FunctionSignature{
		Name:       "m",
		ReturnType: typesys.Void,
		Params:     []intentions.Parameter{{Name: "o", Type: typesys.OptionalOf(typesys.Nominal("Other"))}},
	}, intentions.SourceRef{}, false)

	access := swift.Member(swift.Ident("o"), "name")
	m.Body = &swift.CompoundStmt{Items: []swift.Stmt{&swift.ExprStmt{Expr: access}}}
	cls.AddMethod(m)

	run(methodItem(cls, m, graphWith(cls, other)), &TypeResolution{})

	if !access.Optional {
		t.Error("access through optional receiver should chain with ?.")
	}
	if got := access.ResolvedType(); got == nil || got.String() != "String?" {
		t.Errorf("chained access resolved to %v, want String?", got)
	}
}

func TestTypeResolution_SelfPropertyAndWiderNumeric(t *testing.T) {
	cls := classWithProperty("C", "scale", typesys.Nominal("CGFloat"))
	m := intentions.NewMethodIntention(intentions.FunctionSignature{
		Name:       "m",
		ReturnType: typesys.Void,
		Params:     []intentions.Parameter{{Name: "n", Type: typesys.Nominal("Int")}},
	}, intentions.SourceRef{}, false)

	div := &swift.BinaryExpr{
		Op:  "/",
		LHS: swift.Member(swift.Ident("self"), "scale"),
		RHS: swift.Ident("n"),
	}
	m.Body = &swift.CompoundStmt{Items: []swift.Stmt{&swift.ExprStmt{Expr: div}}}
	cls.AddMethod(m)

	run(methodItem(cls, m, graphWith(cls)), &TypeResolution{})

	if got := div.ResolvedType(); got == nil || got.String() != "CGFloat" {
		t.Errorf("CGFloat / Int resolved to %v, want CGFloat", got)
	}
}

// --- nil-coalescing ---

func TestNilCoalescing_InsertsDefault(t *testing.T) {
	other := classWithProperty("Other", "name", typesys.OptionalOf(typesys.Nominal("String")))
	cls := intentions.NewClassIntention("C", intentions.FromImplementation, intentions.SourceRef{}, false)
	m := intentions.NewMethodIntention(intentions.FunctionSignature{
		Name:       "m",
		ReturnType: typesys.Void,
		Params:     []intentions.Parameter{{Name: "o", Type: typesys.Nominal("Other")}},
	}, intentions.SourceRef{}, false)

	decl := &swift.VarDeclStmt{Decls: []swift.VarDecl{{
		Name:    "n",
		Type:    typesys.Nominal("String"),
		HasType: true,
		Initial: swift.Member(swift.Ident("o"), "name"),
	}}}
	m.Body = &swift.CompoundStmt{Items: []swift.Stmt{decl}}
	cls.AddMethod(m)

	run(methodItem(cls, m, graphWith(cls, other)), &TypeResolution{}, &NilCoalescing{})

	coalesce, ok := decl.Decls[0].Initial.(*swift.NilCoalesceExpr)
	if !ok {
		t.Fatalf("initializer = %T, want NilCoalesceExpr", decl.Decls[0].Initial)
	}
	def, ok := coalesce.RHS.(*swift.LiteralExpr)
	if !ok || def.Text != `""` {
		t.Errorf("default = %v, want empty string literal", coalesce.RHS)
	}
}

func TestNilCoalescing_LeavesOptionalTargetsAlone(t *testing.T) {
	other := classWithProperty("Other", "name", typesys.OptionalOf(typesys.Nominal("String")))
	cls := intentions.NewClassIntention("C", intentions.FromImplementation, intentions.SourceRef{}, false)
	m := intentions.NewMethodIntention(intentions.FunctionSignature{
		Name:       "m",
		ReturnType: typesys.Void,
		Params:     []intentions.Parameter{{Name: "o", Type: typesys.Nominal("Other")}},
	}, intentions.SourceRef{}, false)

	decl := &swift.VarDeclStmt{Decls: []swift.VarDecl{{
		Name:    "n",
		Type:    typesys.OptionalOf(typesys.Nominal("String")),
		HasType: true,
		Initial: swift.Member(swift.Ident("o"), "name"),
	}}}
	m.Body = &swift.CompoundStmt{Items: []swift.Stmt{decl}}
	cls.AddMethod(m)

	run(methodItem(cls, m, graphWith(cls, other)), &TypeResolution{}, &NilCoalescing{})

	if _, ok := decl.Decls[0].Initial.(*swift.NilCoalesceExpr); ok {
		t.Error("optional target must not gain a coalescing default")
	}
}

// --- cast insertion ---

func TestCastInsertion_WrapsNumericMismatch(t *testing.T) {
	cls := classWithProperty("C", "scale", typesys.Nominal("CGFloat"))
	m := intentions.NewMethodIntention(intentions.FunctionSignature{
		Name:       "m",
		ReturnType: typesys.Void,
		Params:     []intentions.Parameter{{Name: "n", Type: typesys.Nominal("Int")}},
	}, intentions.SourceRef{}, false)

	decl := &swift.VarDeclStmt{Decls: []swift.VarDecl{{
		Name:    "count",
		Type:    typesys.Nominal("Int"),
		HasType: true,
		Initial: &swift.BinaryExpr{
			Op:  "/",
			LHS: swift.Member(swift.Ident("self"), "scale"),
			RHS: swift.Ident("n"),
		},
	}}}
	m.Body = &swift.CompoundStmt{Items: []swift.Stmt{decl}}
	cls.AddMethod(m)

	run(methodItem(cls, m, graphWith(cls)), &TypeResolution{}, &CastInsertion{})

	cast, ok := decl.Decls[0].Initial.(*swift.CastExpr)
	if !ok {
		t.Fatalf("initializer = %T, want CastExpr", decl.Decls[0].Initial)
	}
	if !cast.Numeric || cast.Type.String() != "Int" {
		t.Errorf("cast = numeric=%v type=%s, want numeric Int", cast.Numeric, cast.Type)
	}
}

func TestCastInsertion_NoCastWhenTypesAgree(t *testing.T) {
	cls := intentions.NewClassIntention("C", intentions.FromImplementation, intentions.SourceRef{}, false)
	m := intentions.NewMethodIntention(intentions.FunctionSignature{
		Name:       "m",
		ReturnType: typesys.Void,
		Params:     []intentions.Parameter{{Name: "n", Type: typesys.Nominal("Int")}},
	}, intentions.SourceRef{}, false)

	decl := &swift.VarDeclStmt{Decls: []swift.VarDecl{{
		Name:    "copy",
		Type:    typesys.Nominal("Int"),
		HasType: true,
		Initial: swift.Ident("n"),
	}}}
	m.Body = &swift.CompoundStmt{Items: []swift.Stmt{decl}}
	cls.AddMethod(m)

	run(methodItem(cls, m, graphWith(cls)), &TypeResolution{}, &CastInsertion{})

	if _, ok := decl.Decls[0].Initial.(*swift.CastExpr); ok {
		t.Error("matching numeric types must not be cast")
	}
}

// --- if-let ---

func TestIfLet_WrapsOptionalArgToNonnullParam(t *testing.T) {
	cls := intentions.NewClassIntention("C", intentions.FromImplementation, intentions.SourceRef{}, false)
	callee := intentions.NewMethodIntention(intentions.FunctionSignature{
		Name:       "use",
		ReturnType: typesys.Void,
		Params:     []intentions.Parameter{{Name: "s", Type: typesys.Nominal("String")}},
	}, intentions.SourceRef{}, false)
	cls.AddMethod(callee)

	m := intentions.NewMethodIntention(intentions.FunctionSignature{
		Name:       "m",
		ReturnType: typesys.Void,
		Params:     []intentions.Parameter{{Name: "s", Type: typesys.OptionalOf(typesys.Nominal("String"))}},
	}, intentions.SourceRef{}, false)
	m.Body = &swift.CompoundStmt{Items: []swift.Stmt{
		&swift.ExprStmt{Expr: &swift.MethodCallExpr{
			Base: swift.Ident("self"),
			Name: "use",
			Args: []swift.Arg{{Value: swift.Ident("s")}},
		}},
	}}
	cls.AddMethod(m)

	run(methodItem(cls, m, graphWith(cls)), &TypeResolution{}, &IfLetRewrite{})

	ifStmt, ok := m.Body.Items[0].(*swift.IfStmt)
	if !ok {
		t.Fatalf("statement = %T, want IfStmt", m.Body.Items[0])
	}
	if ifStmt.Binding != "s" {
		t.Errorf("binding = %q, want s", ifStmt.Binding)
	}
	if len(ifStmt.Then.Items) != 1 {
		t.Error("call should move into the if let body")
	}
}
