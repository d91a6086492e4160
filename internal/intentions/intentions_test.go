package intentions

import (
	"strings"
	"testing"

	"github.com/dejo1307/objc2swift/internal/typesys"
)

// --- helpers ---

func makeClass(name string, kind DeclarationKind) *ClassIntention {
	return NewClassIntention(name, kind, SourceRef{File: name + ".m", Line: 1}, false)
}

// makeMethod builds a method from its selector parts: makeMethod("count")
// is unary, makeMethod("valueFor", "at") takes two parameters.
func makeMethod(labels ...string) *MethodIntention {
	sig := FunctionSignature{Name: labels[0], ReturnType: typesys.Void}
	if len(labels) > 1 {
		for i, l := range labels {
			p := Parameter{Label: l, Name: l, Type: typesys.AnyObject}
			if i == 0 {
				// The method name absorbs the first keyword.
				p.Label = ""
				p.Name = "arg"
			}
			sig.Params = append(sig.Params, p)
		}
	}
	return NewMethodIntention(sig, SourceRef{}, false)
}

// --- tests ---

func TestCreationRecordsHistory(t *testing.T) {
	cls := makeClass("Foo", FromInterface)
	records := cls.History().Records()
	if len(records) != 1 {
		t.Fatalf("expected 1 creation record, got %d", len(records))
	}
	if records[0].Tag != "Creation" {
		t.Errorf("tag = %q, want Creation", records[0].Tag)
	}
	if !strings.Contains(records[0].Summary, "Foo.m:1") {
		t.Errorf("creation record should carry the source location, got %q", records[0].Summary)
	}
}

func TestHistoryChronologicalOrder(t *testing.T) {
	m := makeMethod("doThing")
	m.History().Record("pass-a", "first")
	m.History().Record("pass-b", "second")
	m.History().Record("pass-c", "third")

	records := m.History().Records()
	if len(records) != 4 { // creation + 3
		t.Fatalf("expected 4 records, got %d", len(records))
	}
	for i := 1; i < len(records); i++ {
		if records[i].Seq < records[i-1].Seq {
			t.Errorf("record %d produced earlier than record %d", i, i-1)
		}
		if records[i].Time.Before(records[i-1].Time) {
			t.Errorf("record %d timestamped earlier than record %d", i, i-1)
		}
	}
}

func TestHistoryMergeKeepsOrder(t *testing.T) {
	a := makeMethod("one")
	b := makeMethod("two")
	a.History().Record("x", "from a")
	b.History().Record("y", "from b")

	a.History().MergeFrom(b.History())
	records := a.History().Records()
	for i := 1; i < len(records); i++ {
		if records[i].Seq < records[i-1].Seq {
			t.Fatalf("merged history out of order at %d", i)
		}
	}
}

func TestReparentUnlinksFromOldParent(t *testing.T) {
	a := makeClass("A", FromImplementation)
	b := makeClass("B", FromImplementation)
	m := makeMethod("shared")

	a.AddMethod(m)
	if m.Parent() != a {
		t.Fatal("method should be parented to A")
	}
	if len(a.Methods) != 1 {
		t.Fatalf("A should own 1 method, has %d", len(a.Methods))
	}

	b.AddMethod(m)
	if m.Parent() != b {
		t.Error("method should be parented to B after move")
	}
	if len(a.Methods) != 0 {
		t.Errorf("A should no longer own the method, has %d", len(a.Methods))
	}
	if len(b.Methods) != 1 {
		t.Errorf("B should own 1 method, has %d", len(b.Methods))
	}
}

func TestRemoveMethodClearsParent(t *testing.T) {
	a := makeClass("A", FromImplementation)
	m := makeMethod("gone")
	a.AddMethod(m)

	if !a.RemoveMethod(m) {
		t.Fatal("RemoveMethod should report true")
	}
	if m.Parent() != nil {
		t.Error("removed method should have nil parent")
	}
	if a.RemoveMethod(m) {
		t.Error("second removal should report false")
	}
}

func TestMethodBySelector(t *testing.T) {
	a := makeClass("A", FromImplementation)
	a.AddMethod(makeMethod("valueFor", "at"))
	a.AddMethod(makeMethod("count"))

	sel := typesys.NewSelector([]string{"valueFor", "at"}, 2)
	if got := a.MethodBySelector(sel); got == nil {
		t.Fatal("selector lookup failed")
	}
	if got := a.MethodBySelector(typesys.UnarySelector("missing")); got != nil {
		t.Error("lookup of missing selector should be nil")
	}
}

func TestSignatureSelector(t *testing.T) {
	sig := FunctionSignature{
		Name: "insertObject",
		Params: []Parameter{
			{Name: "obj", Type: typesys.AnyObject},
			{Label: "atIndex", Name: "index", Type: typesys.Nominal("Int")},
		},
	}
	sel := sig.Selector()
	if got := sel.String(); got != "insertObject:atIndex:" {
		t.Errorf("selector = %q, want insertObject:atIndex:", got)
	}
	if sel.Arity != 2 {
		t.Errorf("arity = %d, want 2", sel.Arity)
	}
}

func TestFileIntentionPaths(t *testing.T) {
	f := NewFileIntention("Views/MyView.m")
	if f.IsHeader() {
		t.Error(".m should not be a header")
	}
	if got := f.Basename(); got != "MyView" {
		t.Errorf("Basename = %q, want MyView", got)
	}
	if got := f.SwiftPath(); got != "Views/MyView.swift" {
		t.Errorf("SwiftPath = %q, want Views/MyView.swift", got)
	}
	h := NewFileIntention("Views/MyView.h")
	if !h.IsHeader() {
		t.Error(".h should be a header")
	}
}

func TestCollectionLookup(t *testing.T) {
	col := NewCollection()
	f := NewFileIntention("A.m")
	cls := makeClass("A", FromImplementation)
	f.AddType(cls)
	proto := NewProtocolIntention("P", SourceRef{}, false)
	f.AddType(proto)
	col.AddFile(f)

	if got := col.ClassByName("A"); got != cls {
		t.Error("ClassByName should find A")
	}
	if got := col.ClassByName("B"); got != nil {
		t.Error("ClassByName for missing class should be nil")
	}
	if got := col.ProtocolByName("P"); got != proto {
		t.Error("ProtocolByName should find P")
	}

	count := 0
	col.EachType(func(_ *FileIntention, _ TypeIntention) { count++ })
	if count != 2 {
		t.Errorf("EachType visited %d, want 2", count)
	}
}

func TestClassByNameExcludesExtensions(t *testing.T) {
	col := NewCollection()
	f := NewFileIntention("A.m")
	ext := NewClassExtensionIntention("A", "Helpers", SourceRef{}, false)
	f.AddType(ext)
	col.AddFile(f)

	if got := col.ClassByName("A"); got != nil {
		t.Error("an extension must not satisfy ClassByName")
	}
}

func TestSetterHistoryRecordsOldAndNew(t *testing.T) {
	m := makeMethod("f", "with")
	m.SetParamNullability("test-pass", 0, typesys.Nullable)

	records := m.History().Records()
	last := records[len(records)-1]
	if last.Tag != "test-pass" {
		t.Errorf("tag = %q, want test-pass", last.Tag)
	}
	if !strings.Contains(last.Summary, "unspecified") || !strings.Contains(last.Summary, "nullable") {
		t.Errorf("record should describe old and new value, got %q", last.Summary)
	}

	// Setting the same value again must not append a record.
	before := len(m.History().Records())
	m.SetParamNullability("test-pass", 0, typesys.Nullable)
	if got := len(m.History().Records()); got != before {
		t.Errorf("no-op setter appended a record: %d -> %d", before, got)
	}
}

func TestTypeGraphSuperclassChain(t *testing.T) {
	col := NewCollection()
	f := NewFileIntention("all.m")
	a := makeClass("A", FromImplementation)
	b := makeClass("B", FromImplementation)
	b.SuperclassName = "A"
	c := makeClass("C", FromImplementation)
	c.SuperclassName = "B"
	f.AddType(a)
	f.AddType(b)
	f.AddType(c)
	col.AddFile(f)

	g := NewTypeGraph(col)
	chain := g.SuperclassChain("C")
	if len(chain) != 2 || chain[0] != "B" || chain[1] != "A" {
		t.Errorf("chain = %v, want [B A]", chain)
	}

	m := makeMethod("update")
	a.AddMethod(m)
	found, owner := g.MethodInSuperclassChain("C", typesys.UnarySelector("update"))
	if found != m || owner != "A" {
		t.Errorf("MethodInSuperclassChain = %v/%s, want m/A", found, owner)
	}
}

func TestTypeGraphCycleGuard(t *testing.T) {
	col := NewCollection()
	f := NewFileIntention("all.m")
	a := makeClass("A", FromImplementation)
	a.SuperclassName = "B"
	b := makeClass("B", FromImplementation)
	b.SuperclassName = "A"
	f.AddType(a)
	f.AddType(b)
	col.AddFile(f)

	g := NewTypeGraph(col)
	chain := g.SuperclassChain("A")
	if len(chain) > 2 {
		t.Errorf("cyclic chain should terminate, got %v", chain)
	}
}

func TestTypeGraphConformances(t *testing.T) {
	col := NewCollection()
	f := NewFileIntention("all.m")
	base := NewProtocolIntention("Base", SourceRef{}, false)
	refined := NewProtocolIntention("Refined", SourceRef{}, false)
	refined.Protocols = []string{"Base"}
	cls := makeClass("C", FromImplementation)
	cls.AddProtocol("Refined")
	f.AddType(base)
	f.AddType(refined)
	f.AddType(cls)
	col.AddFile(f)

	g := NewTypeGraph(col)
	protos := g.ConformedProtocols("C")
	if len(protos) != 2 {
		t.Fatalf("expected transitive conformances [Refined Base], got %d", len(protos))
	}
}
