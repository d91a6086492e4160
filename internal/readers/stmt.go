package readers

import (
	"strings"

	"github.com/dejo1307/objc2swift/internal/parser"
	"github.com/dejo1307/objc2swift/internal/swift"
	"github.com/dejo1307/objc2swift/internal/typemap"

	sitter "github.com/tree-sitter/go-tree-sitter"
)

// StmtReader lowers Objective-C statement CST nodes into Swift-shaped
// statements. Statement and local-declaration order within a compound is
// preserved exactly.
type StmtReader struct {
	w *walker
}

// ReadCompound lowers a compound statement, keeping item source order.
func (r *StmtReader) ReadCompound(node *sitter.Node) *swift.CompoundStmt {
	body := &swift.CompoundStmt{}
	for i := uint(0); i < node.ChildCount(); i++ {
		child := node.Child(i)
		if !child.IsNamed() {
			continue
		}
		if s := r.readStmt(child); s != nil {
			body.Items = append(body.Items, s)
		}
	}
	return body
}

func (r *StmtReader) readStmt(node *sitter.Node) swift.Stmt {
	w := r.w
	switch node.Kind() {
	case kindComment:
		text := strings.TrimSpace(strings.TrimPrefix(strings.TrimPrefix(w.text(node), "//"), "/*"))
		text = strings.TrimSuffix(text, "*/")
		return &swift.CommentStmt{Text: strings.TrimSpace(text)}

	case kindDeclaration:
		return r.readLocalDeclaration(node)

	case kindExpressionStatement:
		inner := firstNamedChild(node)
		if inner == nil {
			return nil
		}
		return &swift.ExprStmt{Expr: w.exprs.Read(inner)}

	case kindCompoundStatement:
		return r.ReadCompound(node)

	case kindIfStatement:
		return r.readIf(node)

	case kindWhileStatement:
		cond := r.condition(node)
		body := r.bodyOf(node, "body")
		return &swift.WhileStmt{Cond: cond, Body: body}

	case kindDoStatement:
		body := r.bodyOf(node, "body")
		cond := r.condition(node)
		return &swift.RepeatWhileStmt{Cond: cond, Body: body}

	case kindForStatement:
		return r.readFor(node)

	case kindForInStatement:
		return r.readForIn(node)

	case kindSwitchStatement:
		return r.readSwitch(node)

	case kindReturnStatement:
		ret := &swift.ReturnStmt{}
		if v := firstNamedChild(node); v != nil {
			ret.Value = w.exprs.Read(v)
		}
		return ret

	case kindBreakStatement:
		return &swift.BreakStmt{}
	case kindContinueStatement:
		return &swift.ContinueStmt{}
	}

	pos := node.StartPosition()
	w.bag.Warnf(w.name, int(pos.Row)+1, int(pos.Column)+1, "unrecognized statement %q", node.Kind())
	return &swift.UnknownStmt{Text: w.text(node)}
}

// readLocalDeclaration lowers "NSString *s = x, *t;" preserving declarator
// order.
func (r *StmtReader) readLocalDeclaration(node *sitter.Node) swift.Stmt {
	w := r.w
	decl := &swift.VarDeclStmt{}

	// The type spelling is everything before the first declarator.
	firstDecl := parser.FindChildByKind(node, kindInitDeclarator)
	if firstDecl == nil {
		firstDecl = parser.FindChildByKind(node, kindIdentifier)
	}
	typeEnd := node.EndByte()
	if firstDecl != nil {
		typeEnd = firstDecl.StartByte()
	}
	typeText := strings.TrimSpace(string(w.content[node.StartByte():typeEnd]))
	constant := strings.Contains(typeText, "const")

	readOne := func(name string, stars int, value *sitter.Node) {
		objcType, nullability := ParseTypeText(typeText + strings.Repeat(" *", stars))
		mapped := typemap.Map(objcType, typemap.Context{
			InNonnullRegion: w.inNonnull(node),
			Explicit:        nullability,
			AlwaysNonnull:   value != nil,
		})
		vd := swift.VarDecl{Name: name, Type: mapped, HasType: true, Constant: constant}
		if value != nil {
			vd.Initial = w.exprs.Read(value)
		}
		decl.Decls = append(decl.Decls, vd)
	}

	for i := uint(0); i < node.ChildCount(); i++ {
		child := node.Child(i)
		switch child.Kind() {
		case kindInitDeclarator:
			declarator := child.ChildByFieldName("declarator")
			value := child.ChildByFieldName("value")
			name, stars := declaratorName(w, declarator)
			if name != "" {
				readOne(name, stars, value)
			}
		case kindIdentifier:
			readOne(w.text(child), 0, nil)
		case "pointer_declarator":
			name, stars := declaratorName(w, child)
			if name != "" {
				readOne(name, stars, nil)
			}
		}
	}
	if len(decl.Decls) == 0 {
		return &swift.UnknownStmt{Text: w.text(node)}
	}
	return decl
}

// declaratorName unwraps pointer declarators ("*s") down to the identifier,
// counting the stars.
func declaratorName(w *walker, node *sitter.Node) (string, int) {
	stars := 0
	for node != nil {
		switch node.Kind() {
		case kindIdentifier:
			return w.text(node), stars
		case "pointer_declarator":
			stars++
			node = node.ChildByFieldName("declarator")
			if node == nil {
				return "", stars
			}
		default:
			if inner := parser.FindChildByKind(node, kindIdentifier); inner != nil {
				return w.text(inner), stars
			}
			return "", stars
		}
	}
	return "", stars
}

// condition extracts and unwraps a statement's parenthesized condition.
func (r *StmtReader) condition(node *sitter.Node) swift.Expr {
	cond := node.ChildByFieldName("condition")
	if cond == nil {
		return &swift.LiteralExpr{Kind: swift.LiteralBool, Text: "true"}
	}
	if cond.Kind() == kindParenExpression {
		if inner := firstNamedChild(cond); inner != nil {
			return r.w.exprs.Read(inner)
		}
	}
	return r.w.exprs.Read(cond)
}

// bodyOf reads a loop/branch body, wrapping single statements in a compound.
func (r *StmtReader) bodyOf(node *sitter.Node, field string) *swift.CompoundStmt {
	body := node.ChildByFieldName(field)
	if body == nil {
		body = parser.FindChildByKind(node, kindCompoundStatement)
	}
	if body == nil {
		return &swift.CompoundStmt{}
	}
	if body.Kind() == kindCompoundStatement {
		return r.ReadCompound(body)
	}
	s := r.readStmt(body)
	if s == nil {
		return &swift.CompoundStmt{}
	}
	return &swift.CompoundStmt{Items: []swift.Stmt{s}}
}

func (r *StmtReader) readIf(node *sitter.Node) swift.Stmt {
	stmt := &swift.IfStmt{
		Cond: r.condition(node),
		Then: r.bodyOf(node, "consequence"),
	}
	if alt := node.ChildByFieldName("alternative"); alt != nil {
		elseNode := alt
		if alt.Kind() == kindElseClause {
			elseNode = firstNamedChild(alt)
		}
		if elseNode != nil {
			switch elseNode.Kind() {
			case kindIfStatement:
				stmt.Else = r.readIf(elseNode)
			case kindCompoundStatement:
				stmt.Else = r.ReadCompound(elseNode)
			default:
				if s := r.readStmt(elseNode); s != nil {
					stmt.Else = &swift.CompoundStmt{Items: []swift.Stmt{s}}
				}
			}
		}
	}
	return stmt
}

// readFor lowers the classic C for. The counting pattern
// for (T i = a; i < b; i++) becomes for i in a..<b; anything else becomes
// the initializer followed by a while loop with the step appended.
func (r *StmtReader) readFor(node *sitter.Node) swift.Stmt {
	w := r.w
	initNode := node.ChildByFieldName("initializer")
	condNode := node.ChildByFieldName("condition")
	updateNode := node.ChildByFieldName("update")
	body := r.bodyOf(node, "body")

	var initStmt swift.Stmt
	if initNode != nil {
		if initNode.Kind() == kindDeclaration {
			initStmt = r.readLocalDeclaration(initNode)
		} else {
			initStmt = &swift.ExprStmt{Expr: w.exprs.Read(initNode)}
		}
	}
	var cond swift.Expr
	if condNode != nil {
		cond = w.exprs.Read(condNode)
	} else {
		cond = &swift.LiteralExpr{Kind: swift.LiteralBool, Text: "true"}
	}
	var update swift.Stmt
	if updateNode != nil {
		update = &swift.ExprStmt{Expr: w.exprs.Read(updateNode)}
	}

	if forIn := countingLoop(initStmt, cond, update, body); forIn != nil {
		return forIn
	}

	loop := &swift.WhileStmt{Cond: cond, Body: body}
	if update != nil {
		loop.Body.Items = append(loop.Body.Items, update)
	}
	if initStmt == nil {
		return loop
	}
	return &swift.CompoundStmt{Items: []swift.Stmt{initStmt, loop}}
}

// countingLoop recognizes for (T i = a; i < b; i++) and rewrites it as
// for i in a..<b. The loop variable must be declared in the initializer.
func countingLoop(initStmt swift.Stmt, cond swift.Expr, update swift.Stmt, body *swift.CompoundStmt) swift.Stmt {
	decl, ok := initStmt.(*swift.VarDeclStmt)
	if !ok || len(decl.Decls) != 1 || decl.Decls[0].Initial == nil {
		return nil
	}
	name := decl.Decls[0].Name

	binary, ok := cond.(*swift.BinaryExpr)
	if !ok || binary.Op != "<" {
		return nil
	}
	lhs, ok := binary.LHS.(*swift.IdentifierExpr)
	if !ok || lhs.Name != name {
		return nil
	}

	updExpr, ok := update.(*swift.ExprStmt)
	if !ok {
		return nil
	}
	assign, ok := updExpr.Expr.(*swift.AssignmentExpr)
	if !ok || assign.Op != "+=" {
		return nil
	}
	target, ok := assign.Target.(*swift.IdentifierExpr)
	if !ok || target.Name != name {
		return nil
	}
	step, ok := assign.Value.(*swift.LiteralExpr)
	if !ok || step.Text != "1" {
		return nil
	}

	return &swift.ForInStmt{
		Item:     name,
		Sequence: &swift.BinaryExpr{Op: "..<", LHS: decl.Decls[0].Initial, RHS: binary.RHS},
		Body:     body,
	}
}

// readForIn lowers fast enumeration: for (T x in xs).
func (r *StmtReader) readForIn(node *sitter.Node) swift.Stmt {
	w := r.w
	body := r.bodyOf(node, "body")

	item := ""
	if left := node.ChildByFieldName("left"); left != nil {
		item, _ = declaratorName(w, left)
		if item == "" {
			item = w.text(left)
		}
	}
	var seq swift.Expr
	if right := node.ChildByFieldName("right"); right != nil {
		seq = w.exprs.Read(right)
	}
	if item == "" || seq == nil {
		// Fall back to scanning named children around the "in" keyword.
		var named []*sitter.Node
		for i := uint(0); i < node.ChildCount(); i++ {
			child := node.Child(i)
			if child.IsNamed() && child.Kind() != kindCompoundStatement {
				named = append(named, child)
			}
		}
		if len(named) >= 2 {
			if item == "" {
				item, _ = declaratorName(w, named[len(named)-2])
			}
			if seq == nil {
				seq = w.exprs.Read(named[len(named)-1])
			}
		}
	}
	if item == "" || seq == nil {
		return &swift.UnknownStmt{Text: w.text(node)}
	}
	return &swift.ForInStmt{Item: item, Sequence: seq, Body: body}
}

// readSwitch lowers switch/case/default, dropping each case's trailing
// break (Swift cases do not fall through).
func (r *StmtReader) readSwitch(node *sitter.Node) swift.Stmt {
	w := r.w
	stmt := &swift.SwitchStmt{Subject: r.condition(node)}

	body := node.ChildByFieldName("body")
	if body == nil {
		body = parser.FindChildByKind(node, kindCompoundStatement)
	}
	if body == nil {
		return stmt
	}
	for _, caseNode := range parser.ChildrenByKind(body, kindCaseStatement) {
		c := swift.SwitchCase{}
		isDefault := strings.HasPrefix(strings.TrimSpace(w.text(caseNode)), "default")
		if v := caseNode.ChildByFieldName("value"); v != nil && !isDefault {
			c.Patterns = []swift.Expr{w.exprs.Read(v)}
		} else if !isDefault {
			if v := firstNamedChild(caseNode); v != nil {
				c.Patterns = []swift.Expr{w.exprs.Read(v)}
			}
		}

		skippedValue := false
		for i := uint(0); i < caseNode.ChildCount(); i++ {
			child := caseNode.Child(i)
			if !child.IsNamed() {
				continue
			}
			if !skippedValue && !isDefault {
				// The first named child is the case value.
				skippedValue = true
				continue
			}
			if s := r.readStmt(child); s != nil {
				c.Body = append(c.Body, s)
			}
		}
		if n := len(c.Body); n > 0 {
			if _, isBreak := c.Body[n-1].(*swift.BreakStmt); isBreak {
				c.Body = c.Body[:n-1]
			}
		}
		stmt.Cases = append(stmt.Cases, c)
	}
	return stmt
}
