package typesys

import "testing"

func TestTypeString(t *testing.T) {
	tests := []struct {
		name string
		typ  Type
		want string
	}{
		{"nominal", Nominal("NSView"), "NSView"},
		{"generic nominal", Nominal("Box", Nominal("Int")), "Box<Int>"},
		{"array", ArrayOf(Nominal("String")), "[String]"},
		{"dictionary", DictionaryOf(Nominal("String"), Nominal("Int")), "[String: Int]"},
		{"optional", OptionalOf(Nominal("String")), "String?"},
		{"iuo", ImplicitlyUnwrappedOf(Nominal("String")), "String!"},
		{"optional array", OptionalOf(ArrayOf(Nominal("Int"))), "[Int]?"},
		{"block", Block(Void, Nominal("Int")), "(Int) -> Void"},
		{"optional block parenthesized", OptionalOf(Block(Void)), "(() -> Void)?"},
		{"composition", Composition("P", "Q"), "P & Q"},
		{"optional composition parenthesized", OptionalOf(Composition("P", "Q")), "(P & Q)?"},
		{"any object", AnyObject, "AnyObject"},
		{"void", Void, "Void"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.typ.String(); got != tt.want {
				t.Errorf("String() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestOptionalWrapping(t *testing.T) {
	// Wrapping an optional is a no-op; wrapping an IUO re-wraps the inner.
	once := OptionalOf(Nominal("A"))
	if got := OptionalOf(once).String(); got != "A?" {
		t.Errorf("double optional = %q, want A?", got)
	}
	if got := OptionalOf(ImplicitlyUnwrappedOf(Nominal("A"))).String(); got != "A?" {
		t.Errorf("optional of IUO = %q, want A?", got)
	}
}

func TestUnwrapped(t *testing.T) {
	// OptionalOf collapses nesting, so the outer layer is built directly.
	inner := OptionalOf(Nominal("A"))
	opt := Type{Kind: KindOptional, Elem: &inner}
	if got := opt.Unwrapped().String(); got != "A?" {
		t.Errorf("Unwrapped = %q, want A?", got)
	}
	if got := opt.DeepUnwrapped().String(); got != "A" {
		t.Errorf("DeepUnwrapped = %q, want A", got)
	}
	if got := Nominal("A").Unwrapped().String(); got != "A" {
		t.Errorf("Unwrapped non-optional = %q, want A", got)
	}
}

func TestTypeEqual(t *testing.T) {
	tests := []struct {
		name string
		a, b Type
		want bool
	}{
		{"same nominal", Nominal("A"), Nominal("A"), true},
		{"different nominal", Nominal("A"), Nominal("B"), false},
		{"optional vs plain", OptionalOf(Nominal("A")), Nominal("A"), false},
		{"same array", ArrayOf(Nominal("A")), ArrayOf(Nominal("A")), true},
		{"different elem", ArrayOf(Nominal("A")), ArrayOf(Nominal("B")), false},
		{"same block", Block(Void, Nominal("Int")), Block(Void, Nominal("Int")), true},
		{"different arity", Block(Void, Nominal("Int")), Block(Void), false},
		{"same composition", Composition("P", "Q"), Composition("P", "Q"), true},
		{"reordered composition", Composition("P", "Q"), Composition("Q", "P"), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.a.Equal(tt.b); got != tt.want {
				t.Errorf("Equal = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestSelectorEqual(t *testing.T) {
	a := NewSelector([]string{"initWith", "and"}, 2)
	b := NewSelector([]string{"initWith", "and"}, 2)
	c := NewSelector([]string{"initWith", "or"}, 2)
	d := NewSelector([]string{"initWith"}, 1)

	if !a.Equal(b) {
		t.Error("identical selectors should be equal")
	}
	if a.Equal(c) {
		t.Error("different labels should not be equal")
	}
	if a.Equal(d) {
		t.Error("different arity should not be equal")
	}
	if !UnarySelector("description").Equal(UnarySelector("description")) {
		t.Error("unary selectors should be equal")
	}
}

func TestSelectorString(t *testing.T) {
	if got := UnarySelector("count").String(); got != "count" {
		t.Errorf("unary = %q, want count", got)
	}
	if got := NewSelector([]string{"setName"}, 1).String(); got != "setName:" {
		t.Errorf("one arg = %q, want setName:", got)
	}
	if got := NewSelector([]string{"a", "b"}, 2).String(); got != "a:b:" {
		t.Errorf("two args = %q, want a:b:", got)
	}
}

func TestSetterSelector(t *testing.T) {
	got := SetterSelector("name")
	if got.String() != "setName:" || got.Arity != 1 {
		t.Errorf("SetterSelector(name) = %q arity %d, want setName: arity 1", got.String(), got.Arity)
	}
	if got := GetterSelector("name"); got.String() != "name" {
		t.Errorf("GetterSelector(name) = %q, want name", got.String())
	}
}
