package passes

import (
	"testing"

	"github.com/dejo1307/objc2swift/internal/diag"
	"github.com/dejo1307/objc2swift/internal/intentions"
	"github.com/dejo1307/objc2swift/internal/swift"
	"github.com/dejo1307/objc2swift/internal/typesys"
)

// --- helpers ---

func newCtx() *Context {
	return &Context{Bag: diag.NewBag()}
}

func makeClass(name string, kind intentions.DeclarationKind) *intentions.ClassIntention {
	return intentions.NewClassIntention(name, kind, intentions.SourceRef{File: name, Line: 1}, false)
}

func makeMethod(name string, paramLabels ...string) *intentions.MethodIntention {
	sig := intentions.FunctionSignature{Name: name, ReturnType: typesys.Void}
	for i, l := range paramLabels {
		p := intentions.Parameter{Label: l, Name: l, Type: typesys.ImplicitlyUnwrappedOf(typesys.AnyObject)}
		if i == 0 {
			p.Label = ""
		}
		sig.Params = append(sig.Params, p)
	}
	return intentions.NewMethodIntention(sig, intentions.SourceRef{}, false)
}

func makeProperty(name string, readonly bool) *intentions.PropertyIntention {
	p := intentions.NewPropertyIntention(name, intentions.Storage{
		Type: typesys.ImplicitlyUnwrappedOf(typesys.Nominal("String")),
	}, intentions.SourceRef{}, false)
	p.Attributes.ReadOnly = readonly
	return p
}

func makeFiles(col *intentions.Collection, paths ...string) []*intentions.FileIntention {
	files := make([]*intentions.FileIntention, 0, len(paths))
	for _, path := range paths {
		f := intentions.NewFileIntention(path)
		col.AddFile(f)
		files = append(files, f)
	}
	return files
}

func body(items ...swift.Stmt) *swift.CompoundStmt {
	return &swift.CompoundStmt{Items: items}
}

func historyContains(in intentions.Intention, tag string) bool {
	for _, r := range in.History().Records() {
		if r.Tag == tag {
			return true
		}
	}
	return false
}

// --- file grouping ---

func TestFileGrouping_MergesHeaderIntoImplementation(t *testing.T) {
	col := intentions.NewCollection()
	files := makeFiles(col, "C.h", "C.m")

	headerCls := makeClass("C", intentions.FromInterface)
	headerCls.SuperclassName = "NSObject"
	headerCls.AddProtocol("P")
	headerMethod := makeMethod("run", "with")
	headerMethod.Signature.Params[0].Nullability = typesys.Nullable
	headerMethod.Signature.Params[0].Type = typesys.OptionalOf(typesys.AnyObject)
	headerCls.AddMethod(headerMethod)
	files[0].AddType(headerCls)

	implCls := makeClass("C", intentions.FromImplementation)
	implMethod := makeMethod("run", "with")
	implMethod.Body = body(&swift.ReturnStmt{})
	implCls.AddMethod(implMethod)
	files[1].AddType(implCls)

	if err := (&FileGrouping{}).Apply(newCtx(), col); err != nil {
		t.Fatalf("Apply: %v", err)
	}

	if len(col.Files()) != 1 {
		t.Fatalf("header file should be dropped, have %d files", len(col.Files()))
	}
	if col.Files()[0].Path != "C.m" {
		t.Errorf("surviving file = %s, want C.m", col.Files()[0].Path)
	}

	// Declaration nullability copied onto the definition.
	if got := implMethod.Signature.Params[0].Nullability; got != typesys.Nullable {
		t.Errorf("param nullability = %s, want nullable", got)
	}
	if got := implMethod.Signature.Params[0].Type.String(); got != "AnyObject?" {
		t.Errorf("param type = %q, want AnyObject?", got)
	}
	// The implementation's body survives.
	if implMethod.Body == nil {
		t.Error("implementation body lost in merge")
	}
	// Superclass and protocol arrive from the declaration.
	if implCls.SuperclassName != "NSObject" {
		t.Errorf("superclass = %q, want NSObject", implCls.SuperclassName)
	}
	if len(implCls.Protocols) != 1 || implCls.Protocols[0] != "P" {
		t.Errorf("protocols = %v, want [P]", implCls.Protocols)
	}
	if !historyContains(implCls, "file-grouping") {
		t.Error("merge should record history on the class")
	}
}

func TestFileGrouping_MergeIsNoOpOnAnnotatedSide(t *testing.T) {
	col := intentions.NewCollection()
	files := makeFiles(col, "C.h", "C.m")

	headerCls := makeClass("C", intentions.FromInterface)
	headerMethod := makeMethod("f", "with")
	headerMethod.Signature.Params[0].Nullability = typesys.Nonnull
	headerCls.AddMethod(headerMethod)
	files[0].AddType(headerCls)

	implCls := makeClass("C", intentions.FromImplementation)
	implMethod := makeMethod("f", "with")
	implMethod.Signature.Params[0].Nullability = typesys.Nullable
	implMethod.Signature.Params[0].Type = typesys.OptionalOf(typesys.AnyObject)
	implCls.AddMethod(implMethod)
	files[1].AddType(implCls)

	if err := (&FileGrouping{}).Apply(newCtx(), col); err != nil {
		t.Fatalf("Apply: %v", err)
	}
	// The already-annotated definition keeps its own annotation.
	if got := implMethod.Signature.Params[0].Nullability; got != typesys.Nullable {
		t.Errorf("param nullability = %s, want nullable (impl side wins when specified)", got)
	}
}

func TestFileGrouping_HeaderWithoutImplementationSurvives(t *testing.T) {
	col := intentions.NewCollection()
	makeFiles(col, "Lone.h")
	if err := (&FileGrouping{}).Apply(newCtx(), col); err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if len(col.Files()) != 1 {
		t.Errorf("lone header should survive, have %d files", len(col.Files()))
	}
}

// --- duplicate type removal ---

func TestDuplicateTypeRemoval(t *testing.T) {
	col := intentions.NewCollection()
	files := makeFiles(col, "C.m")
	files[0].AddType(makeClass("C", intentions.FromInterface))
	files[0].AddType(makeClass("C", intentions.FromImplementation))

	if err := (&DuplicateTypeRemoval{}).Apply(newCtx(), col); err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if len(files[0].Types) != 1 {
		t.Fatalf("expected 1 type after dedup, got %d", len(files[0].Types))
	}
	cls := files[0].Types[0].(*intentions.ClassIntention)
	if cls.DeclKind != intentions.FromImplementation {
		t.Error("the implementation-sourced class must survive")
	}
}

func TestGroupingThenDedup_OneClassPerTypeName(t *testing.T) {
	col := intentions.NewCollection()
	files := makeFiles(col, "C.h", "C.m")
	files[0].AddType(makeClass("C", intentions.FromInterface))
	files[1].AddType(makeClass("C", intentions.FromImplementation))

	ctx := newCtx()
	if err := (&FileGrouping{}).Apply(ctx, col); err != nil {
		t.Fatalf("grouping: %v", err)
	}
	if err := (&DuplicateTypeRemoval{}).Apply(ctx, col); err != nil {
		t.Fatalf("dedup: %v", err)
	}

	count := 0
	col.EachType(func(_ *intentions.FileIntention, ti intentions.TypeIntention) {
		if ti.Name() == "C" {
			count++
		}
	})
	if count != 1 {
		t.Errorf("expected exactly one intention named C, got %d", count)
	}
}

// --- property merge ---

func TestPropertyMerge_FoldsAccessors(t *testing.T) {
	col := intentions.NewCollection()
	files := makeFiles(col, "C.m")
	cls := makeClass("C", intentions.FromImplementation)

	prop := makeProperty("name", false)
	cls.AddProperty(prop)

	getter := makeMethod("name")
	getter.Body = body(&swift.ReturnStmt{Value: swift.Ident("_name")})
	setter := makeMethod("setName", "setName")
	setter.Body = body(&swift.ExprStmt{Expr: &swift.AssignmentExpr{Op: "=", Target: swift.Ident("_name"), Value: swift.Ident("newValue")}})
	other := makeMethod("unrelated")
	cls.AddMethod(getter)
	cls.AddMethod(setter)
	cls.AddMethod(other)

	files[0].AddType(cls)
	if err := (&PropertyMerge{}).Apply(newCtx(), col); err != nil {
		t.Fatalf("Apply: %v", err)
	}

	// The accessor methods no longer exist as independent intentions.
	if len(cls.Methods) != 1 || cls.Methods[0] != other {
		t.Fatalf("expected only the unrelated method to remain, got %d", len(cls.Methods))
	}
	if cls.MethodBySelector(prop.GetterSelector()) != nil {
		t.Error("getter selector still resolvable on the type")
	}
	if cls.MethodBySelector(prop.SetterSelector()) != nil {
		t.Error("setter selector still resolvable on the type")
	}
	// Their bodies moved into the property.
	if prop.Getter == nil || prop.Setter == nil {
		t.Fatal("accessor bodies not moved into the property")
	}
	if prop.Mode != intentions.ModeGetterSetter {
		t.Errorf("mode = %s, want getter+setter", prop.Mode)
	}
	if !historyContains(prop, "property-merge") {
		t.Error("property should record the fusion")
	}
	if !historyContains(getter, "property-merge") {
		t.Error("removed getter should record the fusion")
	}
}

func TestPropertyMerge_ReadonlyGetterBecomesComputed(t *testing.T) {
	col := intentions.NewCollection()
	files := makeFiles(col, "C.m")
	cls := makeClass("C", intentions.FromImplementation)

	prop := makeProperty("count", true)
	cls.AddProperty(prop)
	getter := makeMethod("count")
	getter.Body = body(&swift.ReturnStmt{Value: swift.IntLit("1")})
	cls.AddMethod(getter)
	files[0].AddType(cls)

	if err := (&PropertyMerge{}).Apply(newCtx(), col); err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if prop.Mode != intentions.ModeComputed {
		t.Errorf("mode = %s, want computed", prop.Mode)
	}
	if prop.Getter == nil {
		t.Error("computed property needs a getter body")
	}
}

func TestPropertyMerge_CustomGetterName(t *testing.T) {
	col := intentions.NewCollection()
	files := makeFiles(col, "C.m")
	cls := makeClass("C", intentions.FromImplementation)

	prop := makeProperty("enabled", true)
	prop.Attributes.GetterName = "isEnabled"
	cls.AddProperty(prop)
	getter := makeMethod("isEnabled")
	getter.Body = body(&swift.ReturnStmt{Value: swift.Ident("_enabled")})
	cls.AddMethod(getter)
	files[0].AddType(cls)

	if err := (&PropertyMerge{}).Apply(newCtx(), col); err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if len(cls.Methods) != 0 {
		t.Error("custom-named getter should be folded")
	}
}

// --- synthesize ---

func TestSynthesize_CollapseSameName(t *testing.T) {
	col := intentions.NewCollection()
	files := makeFiles(col, "C.m")
	cls := makeClass("C", intentions.FromImplementation)

	prop := makeProperty("title", true)
	cls.AddProperty(prop)
	ivar := intentions.NewInstanceVariableIntention("title", prop.Storage, intentions.AccessPrivate, intentions.SourceRef{}, false)
	cls.AddIVar(ivar)
	cls.Synthesizes = append(cls.Synthesizes, &intentions.SynthesizeDirective{PropertyName: "title", IVarName: "title"})
	files[0].AddType(cls)

	if err := (&SynthesizeBackingField{}).Apply(newCtx(), col); err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if len(cls.IVars) != 0 {
		t.Error("collapsed ivar should be removed")
	}
	if prop.Mode != intentions.ModeStored {
		t.Errorf("mode = %s, want stored", prop.Mode)
	}
	if prop.SetterAccess != intentions.AccessPrivate {
		t.Error("readonly + private ivar should downgrade to private(set)")
	}
}

func TestSynthesize_ExplicitBacking(t *testing.T) {
	col := intentions.NewCollection()
	files := makeFiles(col, "C.m")
	cls := makeClass("C", intentions.FromImplementation)

	prop := makeProperty("value", false)
	cls.AddProperty(prop)
	cls.Synthesizes = append(cls.Synthesizes, &intentions.SynthesizeDirective{PropertyName: "value", IVarName: "storedValue"})
	files[0].AddType(cls)

	if err := (&SynthesizeBackingField{}).Apply(newCtx(), col); err != nil {
		t.Fatalf("Apply: %v", err)
	}
	backing := cls.IVarByName("storedValue")
	if backing == nil {
		t.Fatal("explicit backing ivar not created")
	}
	if backing.AccessLevel != intentions.AccessPrivate {
		t.Error("backing ivar should be private")
	}
	if prop.Mode != intentions.ModeGetterSetter {
		t.Errorf("mode = %s, want getter+setter", prop.Mode)
	}
	if prop.Getter == nil || prop.Setter == nil {
		t.Error("computed accessors not built")
	}
}

func TestSynthesize_ReadonlyExplicitBackingOmitsSetter(t *testing.T) {
	col := intentions.NewCollection()
	files := makeFiles(col, "C.m")
	cls := makeClass("C", intentions.FromImplementation)

	prop := makeProperty("value", true)
	cls.AddProperty(prop)
	cls.Synthesizes = append(cls.Synthesizes, &intentions.SynthesizeDirective{PropertyName: "value", IVarName: "_v"})
	files[0].AddType(cls)

	if err := (&SynthesizeBackingField{}).Apply(newCtx(), col); err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if prop.Mode != intentions.ModeComputed {
		t.Errorf("mode = %s, want computed", prop.Mode)
	}
	if prop.Setter != nil {
		t.Error("readonly property must not gain a setter")
	}
}

func TestSynthesize_DynamicDoesNothing(t *testing.T) {
	col := intentions.NewCollection()
	files := makeFiles(col, "C.m")
	cls := makeClass("C", intentions.FromImplementation)
	prop := makeProperty("value", false)
	cls.AddProperty(prop)
	cls.Synthesizes = append(cls.Synthesizes, &intentions.SynthesizeDirective{PropertyName: "value", IVarName: "value", IsDynamic: true})
	files[0].AddType(cls)

	if err := (&SynthesizeBackingField{}).Apply(newCtx(), col); err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if prop.Mode != intentions.ModeStored || len(cls.IVars) != 0 {
		t.Error("@dynamic must leave the property untouched")
	}
}

func TestSynthesize_ImplicitUnderscoreBacking(t *testing.T) {
	col := intentions.NewCollection()
	files := makeFiles(col, "C.m")
	cls := makeClass("C", intentions.FromImplementation)

	prop := makeProperty("a", true)
	cls.AddProperty(prop)
	m := makeMethod("m")
	m.Body = body(&swift.ExprStmt{Expr: &swift.AssignmentExpr{
		Op:     "=",
		Target: swift.Member(swift.Ident("self"), "_a"),
		Value:  swift.IntLit("0"),
	}})
	cls.AddMethod(m)
	files[0].AddType(cls)

	if err := (&SynthesizeBackingField{}).Apply(newCtx(), col); err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if cls.IVarByName("_a") == nil {
		t.Fatal("implicit backing field _a not synthesized")
	}
	if prop.Mode != intentions.ModeComputed {
		t.Errorf("mode = %s, want computed", prop.Mode)
	}
	ret, ok := prop.Getter.Items[0].(*swift.ReturnStmt)
	if !ok {
		t.Fatal("getter should return the backing field")
	}
	if ident, ok := ret.Value.(*swift.IdentifierExpr); !ok || ident.Name != "_a" {
		t.Error("getter should reference _a")
	}
}

// --- override detection ---

func TestOverrideDetection_SuperclassChain(t *testing.T) {
	col := intentions.NewCollection()
	files := makeFiles(col, "all.m")
	base := makeClass("Base", intentions.FromImplementation)
	base.AddMethod(makeMethod("update"))
	derived := makeClass("Derived", intentions.FromImplementation)
	derived.SuperclassName = "Base"
	m := makeMethod("update")
	derived.AddMethod(m)
	other := makeMethod("unrelated")
	derived.AddMethod(other)
	files[0].AddType(base)
	files[0].AddType(derived)

	if err := (&OverrideDetection{}).Apply(newCtx(), col); err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if !m.IsOverride {
		t.Error("same-selector method up the chain must be override")
	}
	if other.IsOverride {
		t.Error("unmatched method must not be override")
	}
}

func TestOverrideDetection_ProtocolConformanceIsNotOverride(t *testing.T) {
	col := intentions.NewCollection()
	files := makeFiles(col, "all.m")
	proto := intentions.NewProtocolIntention("P", intentions.SourceRef{}, false)
	proto.AddMethod(makeMethod("update"))
	cls := makeClass("C", intentions.FromImplementation)
	cls.AddProtocol("P")
	m := makeMethod("update")
	cls.AddMethod(m)
	files[0].AddType(proto)
	files[0].AddType(cls)

	if err := (&OverrideDetection{}).Apply(newCtx(), col); err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if m.IsOverride {
		t.Error("a selector reached only via conformance must not be override")
	}
}

func TestOverrideDetection_SuperCallIsSufficient(t *testing.T) {
	col := intentions.NewCollection()
	files := makeFiles(col, "all.m")
	cls := makeClass("C", intentions.FromImplementation)
	cls.SuperclassName = "UnknownBase"
	m := makeMethod("viewDidLoad")
	m.Body = body(&swift.ExprStmt{Expr: &swift.MethodCallExpr{
		Base: swift.Ident("super"),
		Name: "viewDidLoad",
	}})
	cls.AddMethod(m)
	files[0].AddType(cls)

	if err := (&OverrideDetection{}).Apply(newCtx(), col); err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if !m.IsOverride {
		t.Error("a super call is sufficient evidence of override")
	}
}

func TestOverrideDetection_InheritsProtocolNullability(t *testing.T) {
	// @protocol P -(nonnull NSString*)f:(nullable NSObject*)o; @end
	// @interface C : NSObject <P> -(NSString*)f:(NSObject*)o; @end
	// After the pass, C.f's signature is (NSObject?) -> String.
	col := intentions.NewCollection()
	files := makeFiles(col, "all.m")

	proto := intentions.NewProtocolIntention("P", intentions.SourceRef{}, false)
	req := intentions.NewMethodIntention(intentions.FunctionSignature{
		Name:              "f",
		ReturnType:        typesys.Nominal("String"),
		ReturnNullability: typesys.Nonnull,
		Params: []intentions.Parameter{{
			Name:        "o",
			Type:        typesys.OptionalOf(typesys.Nominal("NSObject")),
			Nullability: typesys.Nullable,
		}},
	}, intentions.SourceRef{}, false)
	proto.AddMethod(req)
	files[0].AddType(proto)

	cls := makeClass("C", intentions.FromImplementation)
	cls.SuperclassName = "NSObject"
	cls.AddProtocol("P")
	m := intentions.NewMethodIntention(intentions.FunctionSignature{
		Name:       "f",
		ReturnType: typesys.ImplicitlyUnwrappedOf(typesys.Nominal("String")),
		Params: []intentions.Parameter{{
			Name: "o",
			Type: typesys.ImplicitlyUnwrappedOf(typesys.Nominal("NSObject")),
		}},
	}, intentions.SourceRef{}, false)
	cls.AddMethod(m)
	files[0].AddType(cls)

	if err := (&OverrideDetection{}).Apply(newCtx(), col); err != nil {
		t.Fatalf("Apply: %v", err)
	}

	if got := m.Signature.Params[0].Nullability; got != typesys.Nullable {
		t.Errorf("param nullability = %s, want nullable (inherited from P)", got)
	}
	if got := m.Signature.Params[0].Type.String(); got != "NSObject?" {
		t.Errorf("param type = %q, want NSObject?", got)
	}
	if got := m.Signature.ReturnNullability; got != typesys.Nonnull {
		t.Errorf("return nullability = %s, want nonnull (inherited from P)", got)
	}
	if got := m.Signature.ReturnType.String(); got != "String" {
		t.Errorf("return type = %q, want String", got)
	}
	// Conformance is not an override.
	if m.IsOverride {
		t.Error("a method matched only via conformance must not be override")
	}
	if !historyContains(m, "override-detection") {
		t.Error("inherited nullability should be recorded in history")
	}
}

func TestOverrideDetection_InheritanceKeepsSpecifiedSlots(t *testing.T) {
	col := intentions.NewCollection()
	files := makeFiles(col, "all.m")

	proto := intentions.NewProtocolIntention("P", intentions.SourceRef{}, false)
	req := intentions.NewMethodIntention(intentions.FunctionSignature{
		Name:       "f",
		ReturnType: typesys.Void,
		Params: []intentions.Parameter{{
			Name:        "o",
			Type:        typesys.Nominal("NSObject"),
			Nullability: typesys.Nonnull,
		}},
	}, intentions.SourceRef{}, false)
	proto.AddMethod(req)
	files[0].AddType(proto)

	cls := makeClass("C", intentions.FromImplementation)
	cls.AddProtocol("P")
	m := intentions.NewMethodIntention(intentions.FunctionSignature{
		Name:       "f",
		ReturnType: typesys.Void,
		Params: []intentions.Parameter{{
			Name:        "o",
			Type:        typesys.OptionalOf(typesys.Nominal("NSObject")),
			Nullability: typesys.Nullable,
		}},
	}, intentions.SourceRef{}, false)
	cls.AddMethod(m)
	files[0].AddType(cls)

	if err := (&OverrideDetection{}).Apply(newCtx(), col); err != nil {
		t.Fatalf("Apply: %v", err)
	}
	// The method's own annotation wins; inheritance fills gaps only.
	if got := m.Signature.Params[0].Nullability; got != typesys.Nullable {
		t.Errorf("param nullability = %s, want nullable (own annotation kept)", got)
	}
	if got := m.Signature.Params[0].Type.String(); got != "NSObject?" {
		t.Errorf("param type = %q, want NSObject?", got)
	}
}

// --- usage analysis ---

func TestUsageAnalysis_RecordsReferences(t *testing.T) {
	col := intentions.NewCollection()
	files := makeFiles(col, "all.m")

	enum := intentions.NewEnumIntention("E", typesys.Nominal("Int"), intentions.SourceRef{}, false)
	enum.AddCase(intentions.NewEnumCaseIntention("E_a", intentions.SourceRef{}, false))
	files[0].AddType(enum)

	cls := makeClass("C", intentions.FromImplementation)
	cls.AddProperty(makeProperty("title", false))
	m := makeMethod("m")
	m.Body = body(
		&swift.ExprStmt{Expr: swift.Member(swift.Ident("self"), "title")},
		&swift.ExprStmt{Expr: swift.Ident("E_a")},
		&swift.ExprStmt{Expr: &swift.MethodCallExpr{Base: swift.Ident("self"), Name: "m"}},
	)
	cls.AddMethod(m)
	files[0].AddType(cls)

	ctx := newCtx()
	if err := (&UsageAnalysis{}).Apply(ctx, col); err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if ctx.Usage == nil {
		t.Fatal("usage table not built")
	}
	if got := ctx.Usage.Count("property:C.title"); got != 1 {
		t.Errorf("property refs = %d, want 1", got)
	}
	if got := ctx.Usage.Count("enum:E.E_a"); got != 1 {
		t.Errorf("enum refs = %d, want 1", got)
	}
	if got := ctx.Usage.Count("method:C.m"); got != 1 {
		t.Errorf("method refs = %d, want 1", got)
	}
	sites := ctx.Usage.Sites("property:C.title")
	if len(sites) != 1 || sites[0].Owner != "C.m" {
		t.Errorf("site owner = %v, want C.m", sites)
	}
}
