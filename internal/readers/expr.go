package readers

import (
	"strconv"
	"strings"

	"github.com/dejo1307/objc2swift/internal/parser"
	"github.com/dejo1307/objc2swift/internal/swift"
	"github.com/dejo1307/objc2swift/internal/typemap"
	"github.com/dejo1307/objc2swift/internal/typesys"

	sitter "github.com/tree-sitter/go-tree-sitter"
)

// ExprReader lowers Objective-C expression CST nodes into Swift-shaped
// expressions.
type ExprReader struct {
	w *walker
}

// Read lowers one expression node. Unmappable constructs become unknown
// expressions carrying the original text.
func (r *ExprReader) Read(node *sitter.Node) swift.Expr {
	if node == nil {
		return nil
	}
	w := r.w
	switch node.Kind() {
	case kindIdentifier:
		return r.readIdentifier(w.text(node))
	case kindSelf:
		return swift.Ident("self")
	case kindSuper:
		return swift.Ident("super")
	case kindNil, kindNull:
		return swift.NilLit()
	case kindTrue:
		return &swift.LiteralExpr{Kind: swift.LiteralBool, Text: "true"}
	case kindFalse:
		return &swift.LiteralExpr{Kind: swift.LiteralBool, Text: "false"}

	case kindNumberLiteral:
		if lit, ok := parseNumericLiteral(w.text(node)); ok {
			return lit
		}
		return &swift.LiteralExpr{Kind: swift.LiteralRaw, Text: w.text(node)}

	case kindStringLiteral:
		return &swift.LiteralExpr{Kind: swift.LiteralString, Text: w.text(node)}
	case kindStringExpression:
		// @"..." drops the @.
		text := strings.TrimPrefix(w.text(node), "@")
		return &swift.LiteralExpr{Kind: swift.LiteralString, Text: text}
	case kindCharLiteral:
		return &swift.LiteralExpr{Kind: swift.LiteralRaw, Text: w.text(node)}

	case kindNumberExpression:
		// @(x) and @1 box a value; Swift drops the boxing.
		for i := uint(0); i < node.ChildCount(); i++ {
			child := node.Child(i)
			if child.IsNamed() {
				return r.Read(child)
			}
		}
		text := strings.TrimPrefix(w.text(node), "@")
		if lit, ok := parseNumericLiteral(strings.Trim(text, "()")); ok {
			return lit
		}
		return &swift.UnknownExpr{Text: w.text(node)}

	case kindParenExpression:
		inner := firstNamedChild(node)
		if inner == nil {
			return &swift.UnknownExpr{Text: w.text(node)}
		}
		return &swift.ParenExpr{Inner: r.Read(inner)}

	case kindBinaryExpression:
		return r.readBinary(node)

	case kindUnaryExpression:
		operand := node.ChildByFieldName("argument")
		op := node.ChildByFieldName("operator")
		if operand == nil || op == nil {
			return r.unknown(node)
		}
		return &swift.PrefixExpr{Op: w.text(op), Operand: r.Read(operand)}

	case kindPointerExpression:
		// *p and &v have no direct Swift spelling; dereference is dropped,
		// address-of becomes an inout marker the emitter renders as-is.
		operand := node.ChildByFieldName("argument")
		if operand == nil {
			operand = firstNamedChild(node)
		}
		if operand == nil {
			return r.unknown(node)
		}
		op := strings.TrimSpace(strings.TrimSuffix(w.text(node), w.text(operand)))
		if op == "&" {
			return &swift.PrefixExpr{Op: "&", Operand: r.Read(operand)}
		}
		return r.Read(operand)

	case kindUpdateExpression:
		// ++x / x-- become compound assignment.
		operand := node.ChildByFieldName("argument")
		if operand == nil {
			operand = firstNamedChild(node)
		}
		if operand == nil {
			return r.unknown(node)
		}
		op := "+="
		if strings.Contains(w.text(node), "--") {
			op = "-="
		}
		return &swift.AssignmentExpr{Op: op, Target: r.Read(operand), Value: swift.IntLit("1")}

	case kindAssignExpression:
		left := node.ChildByFieldName("left")
		right := node.ChildByFieldName("right")
		op := node.ChildByFieldName("operator")
		if left == nil || right == nil {
			return r.unknown(node)
		}
		opText := "="
		if op != nil {
			opText = w.text(op)
		}
		return &swift.AssignmentExpr{Op: opText, Target: r.Read(left), Value: r.Read(right)}

	case kindCondExpression:
		cond := node.ChildByFieldName("condition")
		cons := node.ChildByFieldName("consequence")
		alt := node.ChildByFieldName("alternative")
		if cond == nil || alt == nil {
			return r.unknown(node)
		}
		if cons == nil {
			// GCC extension a ?: b collapses to nil-coalescing.
			return &swift.NilCoalesceExpr{LHS: r.Read(cond), RHS: r.Read(alt)}
		}
		return &swift.TernaryExpr{Cond: r.Read(cond), Then: r.Read(cons), Else: r.Read(alt)}

	case kindCastExpression:
		return r.readCast(node)

	case kindCallExpression:
		return r.readCall(node)

	case kindFieldExpression:
		base := node.ChildByFieldName("argument")
		field := node.ChildByFieldName("field")
		if base == nil || field == nil {
			return r.unknown(node)
		}
		return swift.Member(r.Read(base), w.text(field))

	case kindSubscriptExpr:
		base := node.ChildByFieldName("argument")
		index := node.ChildByFieldName("index")
		if base == nil || index == nil {
			return r.unknown(node)
		}
		return &swift.SubscriptExpr{Base: r.Read(base), Index: r.Read(index)}

	case kindMessageExpression:
		return r.readMessage(node)

	case kindSelectorExpr:
		// @selector(x:) keeps the selector spelling.
		text := w.text(node)
		if open := strings.IndexByte(text, '('); open >= 0 {
			if close := strings.LastIndexByte(text, ')'); close > open {
				return &swift.SelectorExpr{Name: strings.TrimSpace(text[open+1 : close])}
			}
		}
		return r.unknown(node)

	case kindArrayExpression:
		var elems []swift.Expr
		for i := uint(0); i < node.ChildCount(); i++ {
			child := node.Child(i)
			if child.IsNamed() {
				elems = append(elems, r.Read(child))
			}
		}
		return &swift.ArrayLiteralExpr{Elements: elems}

	case kindDictExpression:
		var keys, values []swift.Expr
		var pending []swift.Expr
		for i := uint(0); i < node.ChildCount(); i++ {
			child := node.Child(i)
			if child.IsNamed() {
				pending = append(pending, r.Read(child))
			}
		}
		for i := 0; i+1 < len(pending); i += 2 {
			keys = append(keys, pending[i])
			values = append(values, pending[i+1])
		}
		return &swift.DictLiteralExpr{Keys: keys, Values: values}

	case kindBlockExpression, kindBlockLiteral:
		return r.readBlock(node)

	case kindCommaExpression:
		// A comma expression in value position keeps its last operand.
		var last swift.Expr
		for i := uint(0); i < node.ChildCount(); i++ {
			child := node.Child(i)
			if child.IsNamed() {
				last = r.Read(child)
			}
		}
		if last == nil {
			return r.unknown(node)
		}
		return last
	}
	return r.unknown(node)
}

func (r *ExprReader) unknown(node *sitter.Node) swift.Expr {
	pos := node.StartPosition()
	r.w.bag.Warnf(r.w.name, int(pos.Row)+1, int(pos.Column)+1, "unrecognized expression %q", node.Kind())
	return &swift.UnknownExpr{Text: r.w.text(node)}
}

func (r *ExprReader) readIdentifier(name string) swift.Expr {
	switch name {
	case "YES":
		return &swift.LiteralExpr{Kind: swift.LiteralBool, Text: "true"}
	case "NO":
		return &swift.LiteralExpr{Kind: swift.LiteralBool, Text: "false"}
	case "nil", "Nil", "NULL":
		return swift.NilLit()
	}
	return swift.Ident(name)
}

// readBinary lowers a binary expression, merging the adjacent "<" "<" and
// ">" ">" token pairs some grammars produce for shifts.
func (r *ExprReader) readBinary(node *sitter.Node) swift.Expr {
	left := node.ChildByFieldName("left")
	right := node.ChildByFieldName("right")
	op := node.ChildByFieldName("operator")
	if left == nil || right == nil || op == nil {
		return r.unknown(node)
	}
	opText := r.w.text(op)
	if opText == "<" || opText == ">" {
		end := int(op.EndByte())
		if end < len(r.w.content) && r.w.content[end] == opText[0] {
			opText += opText
		}
	}
	return &swift.BinaryExpr{Op: opText, LHS: r.Read(left), RHS: r.Read(right)}
}

// readCast lowers (T)expr: reference types become expr as? T, numeric value
// types become T(expr).
func (r *ExprReader) readCast(node *sitter.Node) swift.Expr {
	typeNode := node.ChildByFieldName("type")
	value := node.ChildByFieldName("value")
	if typeNode == nil || value == nil {
		return r.unknown(node)
	}
	objcType, nullability := ParseTypeText(r.w.text(typeNode))
	mapped := typemap.Map(objcType, typemap.Context{
		InNonnullRegion: r.w.inNonnull(node),
		Explicit:        nullability,
		AlwaysNonnull:   true,
	})
	numeric := mapped.Kind == typesys.KindNominal && typemap.IsNumeric(mapped.Name)
	return &swift.CastExpr{Expr: r.Read(value), Type: mapped, Numeric: numeric}
}

func (r *ExprReader) readCall(node *sitter.Node) swift.Expr {
	fn := node.ChildByFieldName("function")
	args := node.ChildByFieldName("arguments")
	if fn == nil {
		return r.unknown(node)
	}
	call := &swift.MethodCallExpr{}
	switch fn.Kind() {
	case kindIdentifier:
		call.Name = r.w.text(fn)
	case kindFieldExpression:
		base := fn.ChildByFieldName("argument")
		field := fn.ChildByFieldName("field")
		if base == nil || field == nil {
			return r.unknown(node)
		}
		call.Base = r.Read(base)
		call.Name = r.w.text(field)
	default:
		return r.unknown(node)
	}
	if args != nil {
		for i := uint(0); i < args.ChildCount(); i++ {
			child := args.Child(i)
			if child.IsNamed() {
				call.Args = append(call.Args, swift.Arg{Value: r.Read(child)})
			}
		}
	}
	return call
}

// readMessage lowers [receiver keyword:arg with:arg2] into
// receiver.keyword(arg, with: arg2). The first keyword becomes the method
// name; later keywords become argument labels; extra comma-separated
// expressions inside one keyword argument become unlabeled positional
// arguments.
func (r *ExprReader) readMessage(node *sitter.Node) swift.Expr {
	var named []*sitter.Node
	for i := uint(0); i < node.ChildCount(); i++ {
		child := node.Child(i)
		if child.IsNamed() {
			named = append(named, child)
		}
	}
	if len(named) == 0 {
		return r.unknown(node)
	}

	receiver := r.Read(named[0])
	rest := named[1:]

	// Some grammar versions wrap the selector in a message_selector node.
	if len(rest) == 1 && rest[0].Kind() == kindMessageSelector {
		sel := rest[0]
		rest = nil
		for i := uint(0); i < sel.ChildCount(); i++ {
			child := sel.Child(i)
			if child.IsNamed() {
				rest = append(rest, child)
			}
		}
	}

	// Unary message: [receiver name].
	if len(rest) == 1 && rest[0].Kind() == kindIdentifier {
		return &swift.MethodCallExpr{Base: receiver, Name: r.w.text(rest[0])}
	}

	call := &swift.MethodCallExpr{Base: receiver}
	for i, part := range rest {
		keyword, argExprs := r.readKeywordArgument(part)
		if keyword == "" && len(argExprs) == 0 {
			continue
		}
		if i == 0 {
			call.Name = keyword
			for _, a := range argExprs {
				call.Args = append(call.Args, swift.Arg{Value: a})
			}
			continue
		}
		for j, a := range argExprs {
			label := ""
			if j == 0 {
				label = keyword
			}
			call.Args = append(call.Args, swift.Arg{Label: label, Value: a})
		}
	}
	if call.Name == "" {
		return r.unknown(node)
	}
	return call
}

// readKeywordArgument extracts the keyword and argument expressions from one
// "keyword:expr[, expr...]" selector part.
func (r *ExprReader) readKeywordArgument(node *sitter.Node) (string, []swift.Expr) {
	if node.Kind() == kindIdentifier {
		return r.w.text(node), nil
	}
	if node.Kind() != kindKeywordArgument {
		// Tolerate bare expressions (grammar flattening).
		return "", []swift.Expr{r.Read(node)}
	}

	keyword := ""
	var args []swift.Expr
	if k := node.ChildByFieldName("keyword"); k != nil {
		keyword = r.w.text(k)
	}
	for i := uint(0); i < node.ChildCount(); i++ {
		child := node.Child(i)
		if !child.IsNamed() {
			continue
		}
		if keyword == "" && child.Kind() == kindIdentifier && len(args) == 0 && int(child.EndByte()) < int(node.EndByte()) {
			// First identifier before the colon is the keyword.
			keyword = r.w.text(child)
			continue
		}
		if child.Kind() == kindCommaExpression {
			for j := uint(0); j < child.ChildCount(); j++ {
				sub := child.Child(j)
				if sub.IsNamed() {
					args = append(args, r.Read(sub))
				}
			}
			continue
		}
		args = append(args, r.Read(child))
	}
	return keyword, args
}

// readBlock lowers a block literal ^(T a, U b){ ... } into a closure with
// explicit parameter and return types.
func (r *ExprReader) readBlock(node *sitter.Node) swift.Expr {
	body := parser.FindChildByKind(node, kindCompoundStatement)
	if body == nil {
		return r.unknown(node)
	}
	closure := &swift.ClosureExpr{Return: typesys.Void}

	if retNode := node.ChildByFieldName("return_type"); retNode != nil {
		objcType, n := ParseTypeText(r.w.text(retNode))
		closure.Return = typemap.Map(objcType, typemap.Context{
			InNonnullRegion: r.w.inNonnull(node),
			Explicit:        n,
		})
	}
	if params := parser.FindChildByKind(node, kindParameterList); params != nil {
		for _, pd := range parser.ChildrenByKind(params, kindParameterDecl) {
			text := strings.TrimSpace(r.w.text(pd))
			nameStart := len(text)
			for nameStart > 0 && isIdentChar(text[nameStart-1]) {
				nameStart--
			}
			paramName := text[nameStart:]
			objcType, n := ParseTypeText(text[:nameStart])
			closure.Params = append(closure.Params, swift.ClosureParam{
				Name: paramName,
				Type: typemap.Map(objcType, typemap.Context{InNonnullRegion: r.w.inNonnull(node), Explicit: n}),
			})
		}
	}
	closure.Body = r.w.stmts.ReadCompound(body)
	return closure
}

func firstNamedChild(node *sitter.Node) *sitter.Node {
	for i := uint(0); i < node.ChildCount(); i++ {
		child := node.Child(i)
		if child.IsNamed() {
			return child
		}
	}
	return nil
}

// parseNumericLiteral parses an Objective-C numeric literal into a Swift
// literal, stripping the u/U/l/L/f/F/d/D suffixes and tagging the base.
// Float spellings Swift cannot parse come back as raw constants.
func parseNumericLiteral(text string) (*swift.LiteralExpr, bool) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, false
	}
	trimmed := strings.TrimRight(text, "uUlLfFdD")
	if trimmed == "" {
		return nil, false
	}

	base := 10
	digits := trimmed
	lower := strings.ToLower(trimmed)
	switch {
	case strings.HasPrefix(lower, "0x"):
		base = 16
	case strings.HasPrefix(lower, "0b"):
		base = 2
	case len(trimmed) > 1 && trimmed[0] == '0' && !strings.ContainsAny(trimmed, ".eE"):
		base = 8
		digits = "0o" + trimmed[1:]
	}

	if base == 10 && strings.ContainsAny(trimmed, ".eE") {
		if _, err := strconv.ParseFloat(trimmed, 64); err != nil {
			return &swift.LiteralExpr{Kind: swift.LiteralRaw, Text: text}, true
		}
		return &swift.LiteralExpr{Kind: swift.LiteralFloat, Text: trimmed, Base: 10}, true
	}

	checked := trimmed
	switch base {
	case 16, 2:
		checked = trimmed[2:]
	case 8:
		checked = trimmed[1:]
	}
	if checked == "" {
		checked = "0"
	}
	if _, err := strconv.ParseUint(checked, base, 64); err != nil {
		return nil, false
	}
	return &swift.LiteralExpr{Kind: swift.LiteralInt, Text: digits, Base: base}, true
}
