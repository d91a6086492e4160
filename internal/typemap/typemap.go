// Package typemap converts Objective-C type descriptors into their Swift
// equivalents under a nullability context.
package typemap

import (
	"github.com/dejo1307/objc2swift/internal/typesys"
)

// Context carries the nullability environment for one mapping.
type Context struct {
	// InNonnullRegion is true between NS_ASSUME_NONNULL_BEGIN/END.
	InNonnullRegion bool
	// Explicit is the annotation written directly on the declaration, if any.
	Explicit typesys.Nullability
	// AlwaysNonnull forces a non-optional result regardless of annotations.
	// Used for receiver types and enum raw types.
	AlwaysNonnull bool
}

// scalarTypes maps C / Foundation scalar spellings to Swift value types.
// Scalars are always non-optional.
var scalarTypes = map[string]string{
	"BOOL":               "Bool",
	"bool":               "Bool",
	"NSInteger":          "Int",
	"NSUInteger":         "UInt",
	"CGFloat":            "CGFloat",
	"float":              "Float",
	"double":             "Double",
	"int":                "Int",
	"unsigned":           "UInt",
	"unsigned int":       "UInt",
	"long":               "Int",
	"unsigned long":      "UInt",
	"long long":          "Int64",
	"unsigned long long": "UInt64",
	"short":              "Int16",
	"unsigned short":     "UInt16",
	"char":               "Int8",
	"unsigned char":      "UInt8",
	"int8_t":             "Int8",
	"uint8_t":            "UInt8",
	"int16_t":            "Int16",
	"uint16_t":           "UInt16",
	"int32_t":            "Int32",
	"uint32_t":           "UInt32",
	"int64_t":            "Int64",
	"uint64_t":           "UInt64",
	"size_t":             "Int",
	"NSTimeInterval":     "TimeInterval",
}

// bridgedClasses maps Foundation class names to their Swift bridged types.
// Classes not in this table keep their name.
var bridgedClasses = map[string]string{
	"NSString": "String",
	"NSDate":   "Date",
	"NSData":   "Data",
	"NSURL":    "URL",
	"NSError":  "Error",
}

// collectionClasses are the generic Foundation containers that map to Swift
// collection syntax when parameterized.
const (
	classArray      = "NSArray"
	classMutableArr = "NSMutableArray"
	classDictionary = "NSDictionary"
	classMutableDic = "NSMutableDictionary"
)

// IsScalar reports whether a nominal name is a C scalar spelling.
func IsScalar(name string) bool {
	_, ok := scalarTypes[name]
	return ok
}

// IsNumeric reports whether a Swift nominal name is a numeric value type,
// which the cast-insertion pass converts with T(...) instead of as?.
func IsNumeric(name string) bool {
	switch name {
	case "Int", "UInt", "Int8", "UInt8", "Int16", "UInt16", "Int32", "UInt32",
		"Int64", "UInt64", "Float", "Double", "CGFloat", "TimeInterval":
		return true
	}
	return false
}

// Map converts an Objective-C type descriptor into its Swift form.
func Map(t typesys.Type, ctx Context) typesys.Type {
	switch t.Kind {
	case typesys.KindVoid:
		return typesys.Void

	case typesys.KindNominal:
		// Bare nominal (no pointer): scalar, enum, or struct value.
		if swiftName, ok := scalarTypes[t.Name]; ok {
			return typesys.Nominal(swiftName)
		}
		if t.Name == "instancetype" || t.Name == "id" {
			return applyNullability(typesys.AnyObject, ctx)
		}
		if t.Name == "SEL" {
			return typesys.Nominal("Selector")
		}
		return typesys.Nominal(t.Name)

	case typesys.KindPointer:
		return mapPointer(*t.Elem, ctx)

	case typesys.KindBlock:
		ret := Map(*t.Return, blockMemberContext(ctx))
		params := make([]typesys.Type, len(t.Params))
		for i, p := range t.Params {
			params[i] = Map(p, blockMemberContext(ctx))
		}
		return applyNullability(typesys.Block(ret, params...), ctx)

	case typesys.KindProtocolComposition:
		return applyNullability(typesys.Composition(t.Protocols...), ctx)

	case typesys.KindAnyObject:
		return applyNullability(typesys.AnyObject, ctx)

	case typesys.KindGenericParam:
		return t

	case typesys.KindOptional, typesys.KindImplicitlyUnwrapped,
		typesys.KindArray, typesys.KindDictionary:
		// Already in Swift form; pass through.
		return t
	}
	return typesys.AnyObject
}

// mapPointer maps a pointee under the reference-type rules.
func mapPointer(pointee typesys.Type, ctx Context) typesys.Type {
	switch pointee.Kind {
	case typesys.KindAnyObject:
		// id
		return applyNullability(typesys.AnyObject, ctx)

	case typesys.KindProtocolComposition:
		// id<P1, P2>
		return applyNullability(typesys.Composition(pointee.Protocols...), ctx)

	case typesys.KindNominal:
		name := pointee.Name
		switch name {
		case classArray, classMutableArr:
			if len(pointee.GenericArgs) == 1 {
				elem := Map(pointee.GenericArgs[0], elementContext())
				return applyNullability(typesys.ArrayOf(elem), ctx)
			}
			return applyNullability(typesys.Nominal(name), ctx)
		case classDictionary, classMutableDic:
			if len(pointee.GenericArgs) == 2 {
				key := Map(pointee.GenericArgs[0], elementContext())
				val := Map(pointee.GenericArgs[1], elementContext())
				return applyNullability(typesys.DictionaryOf(key, val), ctx)
			}
			return applyNullability(typesys.Nominal(name), ctx)
		}
		if bridged, ok := bridgedClasses[name]; ok {
			name = bridged
		}
		args := make([]typesys.Type, len(pointee.GenericArgs))
		for i, a := range pointee.GenericArgs {
			args[i] = Map(a, elementContext())
		}
		return applyNullability(typesys.Nominal(name, args...), ctx)

	case typesys.KindPointer:
		// Pointer-to-pointer (NSError **): map the inner pointer and keep
		// it optional; these normally surface as inout parameters upstream.
		inner := mapPointer(*pointee.Elem, Context{Explicit: typesys.Nullable})
		return inner

	case typesys.KindVoid:
		// void *
		return applyNullability(typesys.Nominal("UnsafeMutableRawPointer"), ctx)
	}
	return applyNullability(typesys.AnyObject, ctx)
}

// applyNullability resolves the final optionality of a reference type:
// an explicit modifier wins; otherwise a nonnull region makes the type
// non-optional; otherwise the type is implicitly unwrapped. AlwaysNonnull
// overrides everything.
func applyNullability(t typesys.Type, ctx Context) typesys.Type {
	if ctx.AlwaysNonnull {
		return t
	}
	switch ctx.Explicit {
	case typesys.Nonnull:
		return t
	case typesys.Nullable:
		return typesys.OptionalOf(t)
	case typesys.NullResettable:
		return typesys.ImplicitlyUnwrappedOf(t)
	}
	if ctx.InNonnullRegion {
		return t
	}
	return typesys.ImplicitlyUnwrappedOf(t)
}

// WithNullability re-applies a nullability annotation to an already mapped
// Swift type. The merge passes use it after copying an annotation from a
// declaration onto a definition.
func WithNullability(t typesys.Type, n typesys.Nullability) typesys.Type {
	base := t.DeepUnwrapped()
	switch n {
	case typesys.Nonnull:
		return base
	case typesys.Nullable:
		return typesys.OptionalOf(base)
	case typesys.NullResettable:
		return typesys.ImplicitlyUnwrappedOf(base)
	}
	return t
}

// elementContext is the context for collection element types: generic
// arguments of NSArray/NSDictionary are non-optional in Swift.
func elementContext() Context {
	return Context{AlwaysNonnull: true}
}

// blockMemberContext maps a block's parameter and return types under the
// same region rules as the block itself, minus any explicit modifier that
// applied to the block as a whole.
func blockMemberContext(ctx Context) Context {
	return Context{InNonnullRegion: ctx.InNonnullRegion}
}
