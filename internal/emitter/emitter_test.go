package emitter

import (
	"strings"
	"testing"

	"github.com/dejo1307/objc2swift/internal/intentions"
	"github.com/dejo1307/objc2swift/internal/swift"
	"github.com/dejo1307/objc2swift/internal/typesys"
)

// --- helpers ---

func renderClass(opts Options, cls *intentions.ClassIntention) string {
	f := intentions.NewFileIntention("C.m")
	f.AddType(cls)
	return New(opts).RenderFile(f)
}

func makeClass(name string) *intentions.ClassIntention {
	return intentions.NewClassIntention(name, intentions.FromImplementation, intentions.SourceRef{}, false)
}

// --- end-to-end declaration scenarios ---

func TestEmptyClassDefaultOptions(t *testing.T) {
	got := renderClass(Options{}, makeClass("C"))
	if !strings.Contains(got, "class C: NSObject {") {
		t.Errorf("default options should emit NSObject base:\n%s", got)
	}
	if !strings.Contains(got, "@objc") {
		t.Errorf("default options should emit @objc:\n%s", got)
	}
}

func TestEmptyClassOmitObjcCompatibility(t *testing.T) {
	got := renderClass(Options{OmitObjcCompatibility: true}, makeClass("C"))
	if !strings.Contains(got, "class C {") {
		t.Errorf("omit mode should drop the NSObject base:\n%s", got)
	}
	if strings.Contains(got, "@objc") {
		t.Errorf("omit mode should drop @objc:\n%s", got)
	}
}

func TestNullablePropertyRendering(t *testing.T) {
	cls := makeClass("C")
	prop := intentions.NewPropertyIntention("s", intentions.Storage{
		Type:        typesys.OptionalOf(typesys.Nominal("String")),
		Nullability: typesys.Nullable,
	}, intentions.SourceRef{}, false)
	cls.AddProperty(prop)

	got := renderClass(Options{}, cls)
	if !strings.Contains(got, "@objc var s: String?") {
		t.Errorf("nullable NSString property should render as String? with @objc:\n%s", got)
	}
}

func TestMethodBodyCallingSelf(t *testing.T) {
	cls := makeClass("C")
	m := intentions.NewMethodIntention(intentions.FunctionSignature{
		Name:       "m",
		ReturnType: typesys.Void,
	}, intentions.SourceRef{}, false)
	m.Body = &swift.CompoundStmt{Items: []swift.Stmt{
		&swift.ExprStmt{Expr: &swift.MethodCallExpr{Base: swift.Ident("self"), Name: "m"}},
	}}
	cls.AddMethod(m)

	got := renderClass(Options{}, cls)
	if !strings.Contains(got, "func m() {") {
		t.Errorf("method declaration missing:\n%s", got)
	}
	if !strings.Contains(got, "self.m()") {
		t.Errorf("body should call self.m():\n%s", got)
	}
}

func TestEnumRendering(t *testing.T) {
	f := intentions.NewFileIntention("E.m")
	e := intentions.NewEnumIntention("E", typesys.Nominal("Int"), intentions.SourceRef{}, false)
	e.AddCase(intentions.NewEnumCaseIntention("E_a", intentions.SourceRef{}, false))
	b := intentions.NewEnumCaseIntention("E_b", intentions.SourceRef{}, false)
	b.RawValue = swift.IntLit("3")
	e.AddCase(b)
	f.AddType(e)

	got := New(Options{}).RenderFile(f)
	if !strings.Contains(got, "enum E: Int {") {
		t.Errorf("enum header missing:\n%s", got)
	}
	if !strings.Contains(got, "case E_a") || !strings.Contains(got, "case E_b = 3") {
		t.Errorf("enum cases missing:\n%s", got)
	}
}

func TestReadonlyBackingFieldScenario(t *testing.T) {
	cls := makeClass("C")
	backing := intentions.NewInstanceVariableIntention("_a", intentions.Storage{
		Type: typesys.Nominal("Int"),
	}, intentions.AccessPrivate, intentions.SourceRef{}, false)
	cls.AddIVar(backing)

	prop := intentions.NewPropertyIntention("a", intentions.Storage{
		Type: typesys.Nominal("Int"),
	}, intentions.SourceRef{}, false)
	prop.Attributes.ReadOnly = true
	prop.Mode = intentions.ModeComputed
	prop.Getter = &swift.CompoundStmt{Items: []swift.Stmt{
		&swift.ReturnStmt{Value: swift.Ident("_a")},
	}}
	cls.AddProperty(prop)

	got := renderClass(Options{}, cls)
	if !strings.Contains(got, "private var _a: Int = 0") {
		t.Errorf("private backing field missing:\n%s", got)
	}
	if !strings.Contains(got, "var a: Int {") {
		t.Errorf("computed property missing:\n%s", got)
	}
	if !strings.Contains(got, "return _a") {
		t.Errorf("getter should return the backing field:\n%s", got)
	}
}

// --- structure and options ---

func TestDeclarationOrderWithinFile(t *testing.T) {
	f := intentions.NewFileIntention("M.m")
	f.AddTypealias(intentions.NewTypealiasIntention("Alias", typesys.Nominal("Int"), intentions.SourceRef{}, false))
	f.AddGlobalVar(intentions.NewGlobalVariableIntention("kG", intentions.Storage{
		Type: typesys.Nominal("Int"), Constant: true,
	}, intentions.SourceRef{}, false))
	f.AddType(makeClass("C"))

	got := New(Options{}).RenderFile(f)
	aliasIdx := strings.Index(got, "typealias Alias")
	globalIdx := strings.Index(got, "kG")
	classIdx := strings.Index(got, "class C")
	if aliasIdx < 0 || globalIdx < 0 || classIdx < 0 {
		t.Fatalf("missing declarations:\n%s", got)
	}
	if !(aliasIdx < globalIdx && globalIdx < classIdx) {
		t.Errorf("order should be typealiases, globals, types:\n%s", got)
	}
}

func TestMemberOrderWithinType(t *testing.T) {
	cls := makeClass("C")
	cls.AddMethod(intentions.NewMethodIntention(intentions.FunctionSignature{Name: "m", ReturnType: typesys.Void}, intentions.SourceRef{}, false))
	ini := intentions.NewInitializerIntention(intentions.FunctionSignature{Name: "init"}, intentions.SourceRef{}, false)
	ini.Body = &swift.CompoundStmt{}
	cls.AddInitializer(ini)
	cls.AddProperty(intentions.NewPropertyIntention("p", intentions.Storage{Type: typesys.Nominal("Int")}, intentions.SourceRef{}, false))
	cls.AddIVar(intentions.NewInstanceVariableIntention("v", intentions.Storage{Type: typesys.Nominal("Int")}, intentions.AccessPrivate, intentions.SourceRef{}, false))

	got := renderClass(Options{}, cls)
	ivarIdx := strings.Index(got, "var v:")
	propIdx := strings.Index(got, "var p:")
	initIdx := strings.Index(got, "init(")
	methodIdx := strings.Index(got, "func m(")
	if !(ivarIdx < propIdx && propIdx < initIdx && initIdx < methodIdx) {
		t.Errorf("member order should be ivars, properties, initializers, methods:\n%s", got)
	}
}

func TestCategoryEmitsMarkComment(t *testing.T) {
	f := intentions.NewFileIntention("C.m")
	ext := intentions.NewClassExtensionIntention("C", "Helpers", intentions.SourceRef{}, false)
	f.AddType(ext)

	got := New(Options{}).RenderFile(f)
	if !strings.Contains(got, "// MARK: - C (Helpers)") {
		t.Errorf("category should emit a MARK comment:\n%s", got)
	}
	if !strings.Contains(got, "extension C {") {
		t.Errorf("category should emit an extension:\n%s", got)
	}
}

func TestHistoryComments(t *testing.T) {
	cls := makeClass("C")
	cls.History().Record("file-grouping", "merged declaration from C.h")

	got := renderClass(Options{PrintIntentionHistory: true}, cls)
	if !strings.Contains(got, "// History:") {
		t.Errorf("history block missing:\n%s", got)
	}
	if !strings.Contains(got, "// [file-grouping] merged declaration from C.h") {
		t.Errorf("history record missing:\n%s", got)
	}

	// History stays silent without the option.
	plain := renderClass(Options{}, makeClass("C"))
	if strings.Contains(plain, "// History:") {
		t.Error("history must not render when the option is off")
	}
}

func TestOverrideAndClassMethodModifiers(t *testing.T) {
	cls := makeClass("C")
	m := intentions.NewMethodIntention(intentions.FunctionSignature{Name: "update", ReturnType: typesys.Void}, intentions.SourceRef{}, false)
	m.IsOverride = true
	m.Body = &swift.CompoundStmt{}
	cls.AddMethod(m)
	cm := intentions.NewMethodIntention(intentions.FunctionSignature{Name: "shared", ReturnType: typesys.Nominal("C"), IsStatic: true}, intentions.SourceRef{}, false)
	cm.IsClassMethod = true
	cm.Body = &swift.CompoundStmt{}
	cls.AddMethod(cm)

	got := renderClass(Options{OmitObjcCompatibility: true}, cls)
	if !strings.Contains(got, "override func update()") {
		t.Errorf("override modifier missing:\n%s", got)
	}
	if !strings.Contains(got, "class func shared() -> C") {
		t.Errorf("class method modifier missing:\n%s", got)
	}
}

func TestProtocolRendering(t *testing.T) {
	f := intentions.NewFileIntention("P.h")
	proto := intentions.NewProtocolIntention("P", intentions.SourceRef{}, false)
	m := intentions.NewMethodIntention(intentions.FunctionSignature{Name: "run", ReturnType: typesys.Void}, intentions.SourceRef{}, false)
	m.IsOptional = true
	proto.AddMethod(m)
	f.AddType(proto)

	got := New(Options{}).RenderFile(f)
	if !strings.Contains(got, "protocol P: NSObjectProtocol {") {
		t.Errorf("protocol should refine NSObjectProtocol by default:\n%s", got)
	}
	if !strings.Contains(got, "optional func run()") {
		t.Errorf("@optional member should render optional:\n%s", got)
	}

	omitted := New(Options{OmitObjcCompatibility: true}).RenderFile(f)
	if strings.Contains(omitted, "NSObjectProtocol") {
		t.Errorf("omit mode should drop NSObjectProtocol:\n%s", omitted)
	}
}

func TestUnknownExprRendersMarker(t *testing.T) {
	cls := makeClass("C")
	m := intentions.NewMethodIntention(intentions.FunctionSignature{Name: "m", ReturnType: typesys.Void}, intentions.SourceRef{}, false)
	m.Body = &swift.CompoundStmt{Items: []swift.Stmt{
		&swift.ExprStmt{Expr: &swift.UnknownExpr{Text: "va_arg(ap, int)"}},
	}}
	cls.AddMethod(m)

	got := renderClass(Options{}, cls)
	if !strings.Contains(got, "/* unknown */") {
		t.Errorf("unknown constructs should keep their marker:\n%s", got)
	}
}

func TestInitializerLabelFromSelector(t *testing.T) {
	cls := makeClass("C")
	ini := intentions.NewInitializerIntention(intentions.FunctionSignature{
		Name:   "initWithName",
		Params: []intentions.Parameter{{Name: "name", Type: typesys.Nominal("String")}},
	}, intentions.SourceRef{}, false)
	ini.Body = &swift.CompoundStmt{}
	cls.AddInitializer(ini)

	got := renderClass(Options{OmitObjcCompatibility: true}, cls)
	if !strings.Contains(got, "init(name name: String)") && !strings.Contains(got, "init(name: String)") {
		t.Errorf("initWithName: should become init(name:):\n%s", got)
	}
}
