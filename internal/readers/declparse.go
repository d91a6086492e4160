package readers

import (
	"fmt"
	"strings"

	"github.com/dejo1307/objc2swift/internal/intentions"
	"github.com/dejo1307/objc2swift/internal/typesys"
)

// RawMethodHeader is the parsed form of a method declaration line, before
// type mapping.
type RawMethodHeader struct {
	IsClassMethod     bool
	ReturnText        string
	ReturnType        typesys.Type
	ReturnNullability typesys.Nullability
	// SelectorParts are the keyword labels; a unary method has one part and
	// no parameters.
	SelectorParts []string
	Params        []RawParam
}

// RawParam is one parsed method parameter.
type RawParam struct {
	Name        string
	Type        typesys.Type
	Nullability typesys.Nullability
}

// ParseMethodHeader parses an Objective-C method header like
// "- (nullable NSString *)valueFor:(NSObject *)key at:(NSInteger)index".
// The trailing ";" or "{" is ignored.
func ParseMethodHeader(text string) (RawMethodHeader, error) {
	var h RawMethodHeader

	text = strings.TrimSpace(text)
	text = strings.TrimSuffix(text, ";")
	if brace := strings.IndexByte(text, '{'); brace >= 0 {
		text = text[:brace]
	}
	text = strings.TrimSpace(text)

	if strings.HasPrefix(text, "+") {
		h.IsClassMethod = true
		text = strings.TrimSpace(text[1:])
	} else if strings.HasPrefix(text, "-") {
		text = strings.TrimSpace(text[1:])
	}

	// Return type group.
	if strings.HasPrefix(text, "(") {
		close := matchParen(text, 0)
		if close < 0 {
			return h, fmt.Errorf("unbalanced return type in %q", text)
		}
		h.ReturnText = strings.TrimSpace(text[1:close])
		h.ReturnType, h.ReturnNullability = ParseTypeText(h.ReturnText)
		text = strings.TrimSpace(text[close+1:])
	} else {
		h.ReturnType = typesys.AnyObject
	}

	// Selector parts.
	for text != "" {
		nameEnd := 0
		for nameEnd < len(text) && isIdentChar(text[nameEnd]) {
			nameEnd++
		}
		if nameEnd == 0 {
			return h, fmt.Errorf("expected selector keyword in %q", text)
		}
		label := text[:nameEnd]
		h.SelectorParts = append(h.SelectorParts, label)
		text = strings.TrimSpace(text[nameEnd:])

		if !strings.HasPrefix(text, ":") {
			break
		}
		text = strings.TrimSpace(text[1:])

		var param RawParam
		if strings.HasPrefix(text, "(") {
			close := matchParen(text, 0)
			if close < 0 {
				return h, fmt.Errorf("unbalanced parameter type in %q", text)
			}
			param.Type, param.Nullability = ParseTypeText(text[1:close])
			text = strings.TrimSpace(text[close+1:])
		} else {
			param.Type = typesys.AnyObject
		}

		pnEnd := 0
		for pnEnd < len(text) && isIdentChar(text[pnEnd]) {
			pnEnd++
		}
		param.Name = text[:pnEnd]
		text = strings.TrimSpace(text[pnEnd:])

		h.Params = append(h.Params, param)
	}

	if len(h.SelectorParts) == 0 {
		return h, fmt.Errorf("no selector found")
	}
	return h, nil
}

// Selector derives the selector identity of the parsed header.
func (h RawMethodHeader) Selector() typesys.Selector {
	if len(h.Params) == 0 {
		return typesys.UnarySelector(h.SelectorParts[0])
	}
	return typesys.NewSelector(h.SelectorParts, len(h.Params))
}

// IsInitializer reports whether the header declares an init-family method.
func (h RawMethodHeader) IsInitializer() bool {
	name := h.SelectorParts[0]
	return name == "init" || strings.HasPrefix(name, "initWith") || strings.HasPrefix(name, "init_")
}

// RawProperty is the parsed form of an @property line.
type RawProperty struct {
	Name        string
	TypeText    string
	Type        typesys.Type
	Nullability typesys.Nullability
	Attributes  intentions.PropertyAttributes
	Ownership   intentions.Ownership
}

// ParsePropertyHeader parses "@property (nonatomic, copy, nullable)
// NSString *name;".
func ParsePropertyHeader(text string) (RawProperty, error) {
	var p RawProperty
	p.Ownership = intentions.OwnershipStrong

	text = strings.TrimSpace(text)
	text = strings.TrimSuffix(text, ";")
	if !strings.HasPrefix(text, "@property") {
		return p, fmt.Errorf("not a property declaration: %q", text)
	}
	text = strings.TrimSpace(strings.TrimPrefix(text, "@property"))

	if strings.HasPrefix(text, "(") {
		close := matchParen(text, 0)
		if close < 0 {
			return p, fmt.Errorf("unbalanced attribute list in %q", text)
		}
		for _, attr := range splitTopLevel(text[1:close], ',') {
			applyPropertyAttribute(&p, strings.TrimSpace(attr))
		}
		text = strings.TrimSpace(text[close+1:])
	}

	// The declarator name is the trailing identifier; everything before it
	// is the type spelling.
	nameStart := len(text)
	for nameStart > 0 && isIdentChar(text[nameStart-1]) {
		nameStart--
	}
	p.Name = text[nameStart:]
	if p.Name == "" {
		return p, fmt.Errorf("no property name in %q", text)
	}
	p.TypeText = strings.TrimSpace(text[:nameStart])
	var inline typesys.Nullability
	p.Type, inline = ParseTypeText(p.TypeText)
	if inline.Specified() && !p.Nullability.Specified() {
		p.Nullability = inline
	}
	return p, nil
}

func applyPropertyAttribute(p *RawProperty, attr string) {
	switch {
	case attr == "readonly":
		p.Attributes.ReadOnly = true
	case attr == "class":
		p.Attributes.Class = true
	case attr == "weak":
		p.Attributes.Weak = true
		p.Ownership = intentions.OwnershipWeak
	case attr == "assign" || attr == "unsafe_unretained":
		p.Attributes.Assign = true
		p.Ownership = intentions.OwnershipUnownedUnsafe
	case attr == "copy":
		p.Attributes.Copy = true
		p.Ownership = intentions.OwnershipCopy
	case attr == "nullable":
		p.Nullability = typesys.Nullable
	case attr == "nonnull":
		p.Nullability = typesys.Nonnull
	case attr == "null_resettable":
		p.Nullability = typesys.NullResettable
	case strings.HasPrefix(attr, "getter"):
		if eq := strings.IndexByte(attr, '='); eq >= 0 {
			p.Attributes.GetterName = strings.TrimSpace(attr[eq+1:])
		}
	case strings.HasPrefix(attr, "setter"):
		if eq := strings.IndexByte(attr, '='); eq >= 0 {
			p.Attributes.SetterName = strings.TrimSpace(strings.TrimSuffix(attr[eq+1:], ":"))
		}
	}
	// nonatomic, atomic, strong, readwrite, retain need no representation.
}

// RawSynthesize is one parsed @synthesize / @dynamic entry.
type RawSynthesize struct {
	PropertyName string
	IVarName     string
	IsDynamic    bool
}

// ParseSynthesize parses "@synthesize a = _a, b;" or "@dynamic c;" into its
// entries.
func ParseSynthesize(text string) []RawSynthesize {
	text = strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(text), ";"))
	isDynamic := false
	switch {
	case strings.HasPrefix(text, "@synthesize"):
		text = strings.TrimPrefix(text, "@synthesize")
	case strings.HasPrefix(text, "@dynamic"):
		text = strings.TrimPrefix(text, "@dynamic")
		isDynamic = true
	default:
		return nil
	}

	var result []RawSynthesize
	for _, entry := range strings.Split(text, ",") {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}
		raw := RawSynthesize{IsDynamic: isDynamic}
		if eq := strings.IndexByte(entry, '='); eq >= 0 {
			raw.PropertyName = strings.TrimSpace(entry[:eq])
			raw.IVarName = strings.TrimSpace(entry[eq+1:])
		} else {
			raw.PropertyName = entry
			raw.IVarName = entry
		}
		result = append(result, raw)
	}
	return result
}

// ParseInterfaceHeader parses "@interface Name : Super <P, Q>" returning
// the type name, superclass, category name ("" when absent), and protocol
// list. It also accepts "@interface Name (Category) <P>".
func ParseInterfaceHeader(text string) (name, superclass, category string, protocols []string) {
	text = strings.TrimSpace(text)
	for _, prefix := range []string{"@interface", "@implementation", "@protocol"} {
		if strings.HasPrefix(text, prefix) {
			text = strings.TrimSpace(strings.TrimPrefix(text, prefix))
			break
		}
	}
	if idx := strings.Index(text, "@end"); idx >= 0 {
		text = strings.TrimSpace(text[:idx])
	}

	// Protocol list.
	if lt := strings.IndexByte(text, '<'); lt >= 0 {
		if gt := strings.LastIndexByte(text, '>'); gt > lt {
			for _, p := range splitTopLevel(text[lt+1:gt], ',') {
				if p = strings.TrimSpace(p); p != "" {
					protocols = append(protocols, p)
				}
			}
			text = strings.TrimSpace(text[:lt])
		}
	}

	// Category.
	if open := strings.IndexByte(text, '('); open >= 0 {
		if close := strings.IndexByte(text, ')'); close > open {
			category = strings.TrimSpace(text[open+1 : close])
			text = strings.TrimSpace(text[:open] + text[close+1:])
		}
	}

	// Superclass.
	if colon := strings.IndexByte(text, ':'); colon >= 0 {
		superclass = strings.TrimSpace(text[colon+1:])
		text = strings.TrimSpace(text[:colon])
	}

	name = text
	return name, superclass, category, protocols
}
