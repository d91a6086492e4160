package readers

import (
	"strings"

	"github.com/dejo1307/objc2swift/internal/intentions"
	"github.com/dejo1307/objc2swift/internal/parser"
	"github.com/dejo1307/objc2swift/internal/swift"
	"github.com/dejo1307/objc2swift/internal/typemap"
	"github.com/dejo1307/objc2swift/internal/typesys"

	sitter "github.com/tree-sitter/go-tree-sitter"
)

// readTypedef handles type_definition nodes: NS_ENUM/NS_OPTIONS, block
// typedefs, struct typedefs, and plain aliases.
func (w *walker) readTypedef(node *sitter.Node) {
	text := strings.TrimSpace(w.text(node))

	if strings.Contains(text, "NS_ENUM") || strings.Contains(text, "NS_OPTIONS") {
		w.readNSEnum(node, text)
		return
	}

	if enum := parser.FindChildByKind(node, kindEnumSpecifier); enum != nil {
		w.readEnumSpecifier(enum, trailingTypedefName(text))
		return
	}
	if st := parser.FindChildByKind(node, kindStructSpecifier); st != nil {
		w.readStructSpecifier(st, trailingTypedefName(text))
		return
	}

	// Block typedef: typedef void (^Handler)(NSInteger);
	if caret := strings.Index(text, "(^"); caret >= 0 {
		body := strings.TrimSuffix(strings.TrimPrefix(text, "typedef"), ";")
		close := strings.IndexByte(body[strings.Index(body, "(^"):], ')')
		if close >= 0 {
			caretIdx := strings.Index(body, "(^")
			name := strings.TrimSpace(body[caretIdx+2 : caretIdx+close])
			spelled := body[:caretIdx+2] + body[caretIdx+close:]
			aliased, _ := ParseTypeText(strings.TrimSpace(spelled))
			if name != "" {
				mapped := typemap.Map(aliased, typemap.Context{AlwaysNonnull: true})
				w.file.AddTypealias(intentions.NewTypealiasIntention(name, mapped, w.src(node), w.inNonnull(node)))
				return
			}
		}
	}

	// Plain alias: typedef NSString *Alias;
	body := strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(strings.TrimPrefix(text, "typedef")), ";"))
	nameStart := len(body)
	for nameStart > 0 && isIdentChar(body[nameStart-1]) {
		nameStart--
	}
	name := body[nameStart:]
	if name == "" {
		return
	}
	objcType, nullability := ParseTypeText(body[:nameStart])
	mapped := typemap.Map(objcType, typemap.Context{
		InNonnullRegion: w.inNonnull(node),
		Explicit:        nullability,
		AlwaysNonnull:   !nullability.Specified(),
	})
	w.file.AddTypealias(intentions.NewTypealiasIntention(name, mapped, w.src(node), w.inNonnull(node)))
}

// readNSEnum parses "typedef NS_ENUM(NSInteger, Name) { a, b = 2 };" from
// source text. The macro form is parsed textually: the grammar cannot expand
// it.
func (w *walker) readNSEnum(node *sitter.Node, text string) {
	macroIdx := strings.Index(text, "NS_ENUM")
	if macroIdx < 0 {
		macroIdx = strings.Index(text, "NS_OPTIONS")
	}
	open := strings.IndexByte(text[macroIdx:], '(')
	if open < 0 {
		return
	}
	open += macroIdx
	close := matchParen(text, open)
	if close < 0 {
		return
	}
	args := splitTopLevel(text[open+1:close], ',')
	if len(args) != 2 {
		return
	}
	rawTypeText := strings.TrimSpace(args[0])
	name := strings.TrimSpace(args[1])

	rawObjc, _ := ParseTypeText(rawTypeText)
	rawType := typemap.Map(rawObjc, typemap.Context{AlwaysNonnull: true})

	e := intentions.NewEnumIntention(name, rawType, w.src(node), w.inNonnull(node))

	braceOpen := strings.IndexByte(text[close:], '{')
	braceClose := strings.LastIndexByte(text, '}')
	if braceOpen >= 0 && braceClose > close+braceOpen {
		body := text[close+braceOpen+1 : braceClose]
		for _, entry := range splitTopLevel(body, ',') {
			entry = strings.TrimSpace(entry)
			if entry == "" {
				continue
			}
			caseName := entry
			var rawValue swift.Expr
			if eq := strings.IndexByte(entry, '='); eq >= 0 {
				caseName = strings.TrimSpace(entry[:eq])
				valueText := strings.TrimSpace(entry[eq+1:])
				rawValue = literalFromText(valueText)
			}
			c := intentions.NewEnumCaseIntention(caseName, w.src(node), w.inNonnull(node))
			c.RawValue = rawValue
			e.AddCase(c)
		}
	}
	w.file.AddType(e)
}

// readEnumSpecifier reads a C enum, optionally renamed by a typedef.
func (w *walker) readEnumSpecifier(node *sitter.Node, typedefName string) {
	name := typedefName
	if nameNode := node.ChildByFieldName("name"); nameNode != nil && name == "" {
		name = w.text(nameNode)
	}
	if name == "" {
		return
	}
	e := intentions.NewEnumIntention(name, typesys.Nominal("Int"), w.src(node), w.inNonnull(node))

	if list := parser.FindChildByKind(node, kindEnumeratorList); list != nil {
		for _, en := range parser.ChildrenByKind(list, kindEnumerator) {
			caseName := ""
			if n := en.ChildByFieldName("name"); n != nil {
				caseName = w.text(n)
			} else if n := parser.FindChildByKind(en, kindIdentifier); n != nil {
				caseName = w.text(n)
			}
			if caseName == "" {
				continue
			}
			c := intentions.NewEnumCaseIntention(caseName, w.src(en), w.inNonnull(en))
			if v := en.ChildByFieldName("value"); v != nil {
				c.RawValue = w.exprs.Read(v)
			}
			e.AddCase(c)
		}
	}
	w.file.AddType(e)
}

// readStructSpecifier reads a C struct with a field list.
func (w *walker) readStructSpecifier(node *sitter.Node, typedefName string) {
	name := typedefName
	if nameNode := node.ChildByFieldName("name"); nameNode != nil && name == "" {
		name = w.text(nameNode)
	}
	if name == "" {
		return
	}
	s := intentions.NewStructIntention(name, w.src(node), w.inNonnull(node))
	if list := parser.FindChildByKind(node, kindFieldDeclList); list != nil {
		for _, fd := range parser.ChildrenByKind(list, kindFieldDeclaration) {
			w.readField(fd, intentions.AccessInternal, func(v *intentions.InstanceVariableIntention) {
				s.AddField(v)
			})
		}
	}
	w.file.AddType(s)
}

func trailingTypedefName(text string) string {
	body := strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(text), ";"))
	nameStart := len(body)
	for nameStart > 0 && isIdentChar(body[nameStart-1]) {
		nameStart--
	}
	return body[nameStart:]
}

// literalFromText wraps a raw case value. Plain integers become literals;
// anything else is preserved verbatim.
func literalFromText(text string) swift.Expr {
	if lit, ok := parseNumericLiteral(text); ok {
		return lit
	}
	return &swift.UnknownExpr{Text: text}
}
