package typesys

import "strings"

// Kind discriminates the arms of the Type variant.
type Kind int

const (
	KindNominal Kind = iota
	KindArray
	KindDictionary
	KindPointer
	KindBlock
	KindOptional
	KindImplicitlyUnwrapped
	KindProtocolComposition
	KindAnyObject
	KindVoid
	KindGenericParam
)

// Type is the shared type descriptor used on both sides of the translation.
// Objective-C types arrive as pointer/nominal/block forms; the mapper rewrites
// them into Swift forms (array, dictionary, optional, composition).
// Optionality is carried by the descriptor itself, never by its holder.
type Type struct {
	Kind Kind

	// Name is the nominal type name or the generic parameter name.
	Name string
	// GenericArgs are the type arguments of a nominal type (NSArray<T>, etc.).
	GenericArgs []Type

	// Elem is the array element, pointer pointee, or optional/IUO inner type.
	Elem *Type

	// Key and Value are the dictionary key/value types.
	Key   *Type
	Value *Type

	// Return and Params describe a block / function type.
	Return *Type
	Params []Type

	// Protocols are the members of a protocol composition (id<P, Q>).
	Protocols []string
}

// Nominal builds a named type, optionally with generic arguments.
func Nominal(name string, args ...Type) Type {
	return Type{Kind: KindNominal, Name: name, GenericArgs: args}
}

// ArrayOf builds a Swift array type [elem].
func ArrayOf(elem Type) Type {
	return Type{Kind: KindArray, Elem: &elem}
}

// DictionaryOf builds a Swift dictionary type [key: value].
func DictionaryOf(key, value Type) Type {
	return Type{Kind: KindDictionary, Key: &key, Value: &value}
}

// PointerTo builds an Objective-C pointer type (NSString *, struct CGPoint *).
func PointerTo(elem Type) Type {
	return Type{Kind: KindPointer, Elem: &elem}
}

// Block builds a block / function type.
func Block(ret Type, params ...Type) Type {
	return Type{Kind: KindBlock, Return: &ret, Params: params}
}

// OptionalOf wraps a type as T?. Wrapping an optional is a no-op.
func OptionalOf(inner Type) Type {
	if inner.Kind == KindOptional {
		return inner
	}
	if inner.Kind == KindImplicitlyUnwrapped {
		inner = *inner.Elem
	}
	return Type{Kind: KindOptional, Elem: &inner}
}

// ImplicitlyUnwrappedOf wraps a type as T!.
func ImplicitlyUnwrappedOf(inner Type) Type {
	if inner.Kind == KindOptional || inner.Kind == KindImplicitlyUnwrapped {
		inner = *inner.Elem
	}
	return Type{Kind: KindImplicitlyUnwrapped, Elem: &inner}
}

// Composition builds a protocol composition P1 & P2.
func Composition(protocols ...string) Type {
	return Type{Kind: KindProtocolComposition, Protocols: protocols}
}

// GenericParam builds a generic placeholder type.
func GenericParam(name string) Type {
	return Type{Kind: KindGenericParam, Name: name}
}

// AnyObject is the Swift AnyObject type.
var AnyObject = Type{Kind: KindAnyObject}

// Void is the Swift Void type.
var Void = Type{Kind: KindVoid}

// IsOptional reports whether the type is optional or implicitly unwrapped.
func (t Type) IsOptional() bool {
	return t.Kind == KindOptional || t.Kind == KindImplicitlyUnwrapped
}

// Unwrapped strips one optional / IUO layer, if present.
func (t Type) Unwrapped() Type {
	if t.IsOptional() {
		return *t.Elem
	}
	return t
}

// DeepUnwrapped strips all optional / IUO layers.
func (t Type) DeepUnwrapped() Type {
	for t.IsOptional() {
		t = *t.Elem
	}
	return t
}

// Equal reports structural equality of two types.
func (t Type) Equal(o Type) bool {
	if t.Kind != o.Kind || t.Name != o.Name {
		return false
	}
	if len(t.GenericArgs) != len(o.GenericArgs) || len(t.Params) != len(o.Params) || len(t.Protocols) != len(o.Protocols) {
		return false
	}
	for i := range t.GenericArgs {
		if !t.GenericArgs[i].Equal(o.GenericArgs[i]) {
			return false
		}
	}
	for i := range t.Params {
		if !t.Params[i].Equal(o.Params[i]) {
			return false
		}
	}
	for i := range t.Protocols {
		if t.Protocols[i] != o.Protocols[i] {
			return false
		}
	}
	if !ptrEqual(t.Elem, o.Elem) || !ptrEqual(t.Key, o.Key) || !ptrEqual(t.Value, o.Value) || !ptrEqual(t.Return, o.Return) {
		return false
	}
	return true
}

func ptrEqual(a, b *Type) bool {
	if (a == nil) != (b == nil) {
		return false
	}
	if a == nil {
		return true
	}
	return a.Equal(*b)
}

// String renders the type in Swift syntax.
func (t Type) String() string {
	switch t.Kind {
	case KindNominal:
		if len(t.GenericArgs) == 0 {
			return t.Name
		}
		args := make([]string, len(t.GenericArgs))
		for i, a := range t.GenericArgs {
			args[i] = a.String()
		}
		return t.Name + "<" + strings.Join(args, ", ") + ">"
	case KindArray:
		return "[" + t.Elem.String() + "]"
	case KindDictionary:
		return "[" + t.Key.String() + ": " + t.Value.String() + "]"
	case KindPointer:
		// An unmapped Objective-C pointer. Rendered as its pointee; the
		// mapper is expected to have rewritten these before emission.
		return t.Elem.String()
	case KindBlock:
		params := make([]string, len(t.Params))
		for i, p := range t.Params {
			params[i] = p.String()
		}
		return "(" + strings.Join(params, ", ") + ") -> " + t.Return.String()
	case KindOptional:
		return wrapIfComposite(*t.Elem) + "?"
	case KindImplicitlyUnwrapped:
		return wrapIfComposite(*t.Elem) + "!"
	case KindProtocolComposition:
		return strings.Join(t.Protocols, " & ")
	case KindAnyObject:
		return "AnyObject"
	case KindVoid:
		return "Void"
	case KindGenericParam:
		return t.Name
	}
	return "<invalid>"
}

// wrapIfComposite parenthesizes block and composition types before suffixing
// ? or !.
func wrapIfComposite(t Type) string {
	if t.Kind == KindBlock || t.Kind == KindProtocolComposition {
		return "(" + t.String() + ")"
	}
	return t.String()
}
