// Package readers lowers the parsed Objective-C CST into intentions and
// Swift-shaped expression/statement trees.
package readers

import (
	"strings"

	"github.com/dejo1307/objc2swift/internal/typesys"
)

// nullabilityKeywords maps every source spelling of a nullability annotation
// to its canonical value.
var nullabilityKeywords = map[string]typesys.Nullability{
	"nullable":          typesys.Nullable,
	"nonnull":           typesys.Nonnull,
	"null_resettable":   typesys.NullResettable,
	"null_unspecified":  typesys.NullabilityUnspecified,
	"_Nullable":         typesys.Nullable,
	"_Nonnull":          typesys.Nonnull,
	"_Null_unspecified": typesys.NullabilityUnspecified,
	"__nullable":        typesys.Nullable,
	"__nonnull":         typesys.Nonnull,
}

// ignoredTypeKeywords are qualifiers that do not affect the mapped type.
var ignoredTypeKeywords = map[string]bool{
	"const":              true,
	"volatile":           true,
	"__strong":           true,
	"__block":            true,
	"__autoreleasing":    true,
	"__unsafe_unretained": true,
	"struct":             true,
	"enum":               true,
	"IBOutlet":           true,
	"IBAction":           true,
}

// multiWordScalars are the C scalar spellings built from several keywords.
// Longest match wins.
var multiWordScalars = []string{
	"unsigned long long",
	"unsigned long",
	"unsigned short",
	"unsigned char",
	"unsigned int",
	"long long",
	"signed char",
	"signed int",
}

// ParseTypeText parses an Objective-C type spelling ("nullable NSString *",
// "NSArray<NSString *> *", "void (^)(NSInteger)") into the descriptor's
// Objective-C form plus any inline nullability annotation. The result still
// carries pointer arms; the type mapper rewrites those into Swift forms.
func ParseTypeText(text string) (typesys.Type, typesys.Nullability) {
	text = strings.TrimSpace(text)
	nullability := typesys.NullabilityUnspecified
	isWeak := false

	// Strip qualifiers and record annotations, wherever they appear.
	for {
		stripped := false
		for word, n := range nullabilityKeywords {
			if rest, ok := stripWord(text, word); ok {
				nullability = n
				text = rest
				stripped = true
			}
		}
		for word := range ignoredTypeKeywords {
			if rest, ok := stripWord(text, word); ok {
				text = rest
				stripped = true
			}
		}
		if rest, ok := stripWord(text, "__weak"); ok {
			isWeak = true
			text = rest
			stripped = true
		}
		if !stripped {
			break
		}
	}
	_ = isWeak // ownership is carried on the declaration, not the type

	text = strings.TrimSpace(text)
	if text == "" {
		return typesys.AnyObject, nullability
	}

	// Block types: "ret (^)(params)" or "ret (^name)(params)".
	if caretIdx := strings.Index(text, "(^"); caretIdx >= 0 {
		if t, ok := parseBlockType(text, caretIdx); ok {
			return t, nullability
		}
	}

	// Count and strip trailing pointer stars.
	stars := 0
	for strings.HasSuffix(text, "*") {
		stars++
		text = strings.TrimSpace(strings.TrimSuffix(text, "*"))
	}

	base := parseBaseType(text)
	for i := 0; i < stars; i++ {
		base = typesys.PointerTo(base)
	}
	return base, nullability
}

// parseBaseType parses a star-free type spelling.
func parseBaseType(text string) typesys.Type {
	text = strings.TrimSpace(text)

	switch text {
	case "void":
		return typesys.Void
	case "id":
		return typesys.AnyObject
	case "instancetype":
		return typesys.Nominal("instancetype")
	}

	for _, scalar := range multiWordScalars {
		if text == scalar {
			return typesys.Nominal(scalar)
		}
	}

	// id<P1, P2> and Name<Args>.
	if lt := strings.Index(text, "<"); lt >= 0 && strings.HasSuffix(text, ">") {
		name := strings.TrimSpace(text[:lt])
		inner := text[lt+1 : len(text)-1]
		if name == "id" || name == "" {
			var protocols []string
			for _, p := range splitTopLevel(inner, ',') {
				if p = strings.TrimSpace(p); p != "" {
					protocols = append(protocols, p)
				}
			}
			return typesys.Composition(protocols...)
		}
		var args []typesys.Type
		for _, argText := range splitTopLevel(inner, ',') {
			arg, _ := ParseTypeText(argText)
			args = append(args, arg)
		}
		return typesys.Nominal(name, args...)
	}

	return typesys.Nominal(text)
}

// parseBlockType parses "ret (^[name])(params)" starting at the caret group.
func parseBlockType(text string, caretIdx int) (typesys.Type, bool) {
	retText := strings.TrimSpace(text[:caretIdx])
	rest := text[caretIdx:]

	closeCaret := matchParen(rest, 0)
	if closeCaret < 0 {
		return typesys.Type{}, false
	}
	paramsPart := strings.TrimSpace(rest[closeCaret+1:])
	if !strings.HasPrefix(paramsPart, "(") || !strings.HasSuffix(paramsPart, ")") {
		return typesys.Type{}, false
	}
	paramsInner := paramsPart[1 : len(paramsPart)-1]

	retType, _ := ParseTypeText(retText)
	var params []typesys.Type
	if inner := strings.TrimSpace(paramsInner); inner != "" && inner != "void" {
		for _, paramText := range splitTopLevel(inner, ',') {
			params = append(params, parseParamType(paramText))
		}
	}
	return typesys.Block(retType, params...), true
}

// parseParamType parses one "T name" or bare "T" parameter spelling.
func parseParamType(text string) typesys.Type {
	text = strings.TrimSpace(text)
	// Drop a trailing identifier (the parameter name) when the text before
	// it still forms a type.
	if idx := strings.LastIndexAny(text, " *>"); idx >= 0 && idx < len(text)-1 {
		tail := text[idx+1:]
		if isIdentifier(tail) && text[idx] != '>' {
			head := strings.TrimSpace(text[:idx+1])
			if head != "" && !isIdentifier(head) || strings.ContainsAny(head, "* <") || isKnownTypeWord(head) {
				text = head
			}
		}
	}
	t, _ := ParseTypeText(text)
	return t
}

func isKnownTypeWord(s string) bool {
	if _, ok := nullabilityKeywords[s]; ok {
		return false
	}
	switch s {
	case "void", "id", "instancetype", "BOOL", "NSInteger", "NSUInteger",
		"CGFloat", "float", "double", "int", "long", "short", "char":
		return true
	}
	// Uppercase initial suggests a class name.
	return s != "" && s[0] >= 'A' && s[0] <= 'Z'
}

// splitTopLevel splits on sep outside <>, (), [] nesting.
func splitTopLevel(text string, sep byte) []string {
	var parts []string
	depth := 0
	start := 0
	for i := 0; i < len(text); i++ {
		switch text[i] {
		case '<', '(', '[':
			depth++
		case '>', ')', ']':
			depth--
		case sep:
			if depth == 0 {
				parts = append(parts, text[start:i])
				start = i + 1
			}
		}
	}
	parts = append(parts, text[start:])
	return parts
}

// matchParen returns the index of the ')' closing the '(' at open, or -1.
func matchParen(text string, open int) int {
	depth := 0
	for i := open; i < len(text); i++ {
		switch text[i] {
		case '(':
			depth++
		case ')':
			depth--
			if depth == 0 {
				return i
			}
		}
	}
	return -1
}

// stripWord removes a whole-word occurrence of word from text.
func stripWord(text, word string) (string, bool) {
	idx := 0
	for {
		i := strings.Index(text[idx:], word)
		if i < 0 {
			return text, false
		}
		i += idx
		end := i + len(word)
		beforeOK := i == 0 || !isIdentChar(text[i-1])
		afterOK := end == len(text) || !isIdentChar(text[end])
		if beforeOK && afterOK {
			return strings.TrimSpace(text[:i] + " " + text[end:]), true
		}
		idx = end
	}
}

func isIdentChar(c byte) bool {
	return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9')
}

func isIdentifier(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if !isIdentChar(s[i]) {
			return false
		}
		if i == 0 && s[i] >= '0' && s[i] <= '9' {
			return false
		}
	}
	return true
}
