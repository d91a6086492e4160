package readers

import (
	"strings"

	"github.com/dejo1307/objc2swift/internal/diag"
	"github.com/dejo1307/objc2swift/internal/intentions"
	"github.com/dejo1307/objc2swift/internal/parser"
	"github.com/dejo1307/objc2swift/internal/typemap"
	"github.com/dejo1307/objc2swift/internal/typesys"

	sitter "github.com/tree-sitter/go-tree-sitter"
)

// StructuralReader walks the top-level CST of one source and produces a file
// intention. It is stateless across files; per-file traversal state lives on
// the walker.
type StructuralReader struct {
	bag *diag.Bag
}

// NewStructuralReader creates a reader reporting into the given bag.
func NewStructuralReader(bag *diag.Bag) *StructuralReader {
	return &StructuralReader{bag: bag}
}

// ReadFile produces the file intention for one parsed source.
func (r *StructuralReader) ReadFile(res *parser.Result) *intentions.FileIntention {
	w := &walker{
		res:     res,
		content: res.Content,
		name:    res.Source.Name(),
		bag:     r.bag,
		file:    intentions.NewFileIntention(res.Source.Name()),
	}
	w.exprs = &ExprReader{w: w}
	w.stmts = &StmtReader{w: w}

	root := res.Root()
	for i := uint(0); i < root.ChildCount(); i++ {
		w.topLevel(root.Child(i))
	}
	return w.file
}

// walker owns the per-traversal state: the file being built, the current
// ivar access level, and the readers for embedded bodies.
type walker struct {
	res     *parser.Result
	content []byte
	name    string
	bag     *diag.Bag
	file    *intentions.FileIntention

	exprs *ExprReader
	stmts *StmtReader

	// ivarAccess is the access level applied to the ivars being read; it
	// resets to private at each ivar list and switches on visibility
	// keywords.
	ivarAccess intentions.AccessLevel
}

func (w *walker) text(node *sitter.Node) string {
	return parser.NodeText(node, w.content)
}

func (w *walker) src(node *sitter.Node) intentions.SourceRef {
	pos := node.StartPosition()
	return intentions.SourceRef{File: w.name, Line: int(pos.Row) + 1, Column: int(pos.Column) + 1}
}

func (w *walker) inNonnull(node *sitter.Node) bool {
	return w.res.InNonnullRegion(int(node.StartByte()))
}

func (w *walker) topLevel(node *sitter.Node) {
	kind := node.Kind()
	switch {
	case preprocKinds[kind]:
		line := w.text(node)
		if nl := strings.IndexByte(line, '\n'); nl >= 0 {
			line = line[:nl]
		}
		w.file.Directives = append(w.file.Directives, strings.TrimSpace(line))

	case kind == kindClassInterface:
		w.readClassLike(node, intentions.FromInterface)
	case kind == kindClassImplementation:
		w.readClassLike(node, intentions.FromImplementation)
	case kind == kindCategoryInterface, kind == kindCategoryImpl:
		w.readCategory(node)
	case kind == kindProtocolDecl:
		w.readProtocol(node)
	case kind == kindTypeDefinition:
		w.readTypedef(node)
	case kind == kindDeclaration:
		w.readTopLevelDeclaration(node)
	case kind == kindFunctionDefinition:
		w.readFunctionDefinition(node)
	case kind == kindComment:
	default:
		// Stray tokens (e.g. lone "@end") are harmless; anything with
		// structure we could not place is worth a note.
		if node.ChildCount() > 0 {
			pos := node.StartPosition()
			w.bag.Warnf(w.name, int(pos.Row)+1, int(pos.Column)+1, "unhandled top-level node %q", kind)
		}
	}
}

// memberKinds are the node kinds that terminate a type declaration header.
var memberKinds = map[string]bool{
	kindInstanceVariables: true,
	kindPropertyDecl:      true,
	kindMethodDeclaration: true,
	kindMethodDefinition:  true,
	kindSynthesizeDef:     true,
	kindDynamicDef:        true,
	kindDeclaration:       true,
	kindFunctionDefinition: true,
}

// headerText returns the declaration header of a type node: the text before
// its first member child.
func (w *walker) headerText(node *sitter.Node) string {
	end := node.EndByte()
	for i := uint(0); i < node.ChildCount(); i++ {
		child := node.Child(i)
		if memberKinds[child.Kind()] {
			end = child.StartByte()
			break
		}
	}
	header := string(w.content[node.StartByte():end])
	if idx := strings.Index(header, "@end"); idx >= 0 {
		header = header[:idx]
	}
	return header
}

func (w *walker) readClassLike(node *sitter.Node, declKind intentions.DeclarationKind) {
	name, superclass, category, protocols := ParseInterfaceHeader(w.headerText(node))
	if name == "" {
		w.bag.Warnf(w.name, w.src(node).Line, 0, "type declaration with no name")
		return
	}
	if category != "" || strings.Contains(w.headerText(node), "()") {
		w.readCategoryNamed(node, name, category)
		return
	}

	cls := intentions.NewClassIntention(name, declKind, w.src(node), w.inNonnull(node))
	cls.SuperclassName = superclass
	for _, p := range protocols {
		cls.AddProtocol(p)
	}
	w.readClassMembers(node, cls)
	w.file.AddType(cls)
}

func (w *walker) readCategory(node *sitter.Node) {
	name, _, category, protocols := ParseInterfaceHeader(w.headerText(node))
	if name == "" {
		return
	}
	ext := intentions.NewClassExtensionIntention(name, category, w.src(node), w.inNonnull(node))
	for _, p := range protocols {
		ext.AddProtocol(p)
	}
	w.readClassMembers(node, &ext.ClassIntention)
	w.file.AddType(ext)
}

func (w *walker) readCategoryNamed(node *sitter.Node, name, category string) {
	ext := intentions.NewClassExtensionIntention(name, category, w.src(node), w.inNonnull(node))
	_, _, _, protocols := ParseInterfaceHeader(w.headerText(node))
	for _, p := range protocols {
		ext.AddProtocol(p)
	}
	w.readClassMembers(node, &ext.ClassIntention)
	w.file.AddType(ext)
}

func (w *walker) readClassMembers(node *sitter.Node, cls *intentions.ClassIntention) {
	for i := uint(0); i < node.ChildCount(); i++ {
		child := node.Child(i)
		switch child.Kind() {
		case kindInstanceVariables:
			w.readIVars(child, func(v *intentions.InstanceVariableIntention) {
				cls.AddIVar(v)
			})
		case kindPropertyDecl:
			if p := w.readProperty(child); p != nil {
				cls.AddProperty(p)
			}
		case kindMethodDeclaration, kindMethodDefinition:
			w.readMethod(child, cls)
		case kindSynthesizeDef, kindDynamicDef:
			for _, raw := range ParseSynthesize(w.text(child)) {
				cls.Synthesizes = append(cls.Synthesizes, &intentions.SynthesizeDirective{
					PropertyName: raw.PropertyName,
					IVarName:     raw.IVarName,
					IsDynamic:    raw.IsDynamic,
					Source:       w.src(child),
				})
			}
		case kindFunctionDefinition:
			// C functions occasionally sit inside @implementation blocks.
			w.readFunctionDefinition(child)
		}
	}
}

// readIVars reads an instance-variable list. The access level starts private
// and switches on visibility keywords.
func (w *walker) readIVars(node *sitter.Node, add func(*intentions.InstanceVariableIntention)) {
	w.ivarAccess = intentions.AccessPrivate
	for i := uint(0); i < node.ChildCount(); i++ {
		child := node.Child(i)
		switch child.Kind() {
		case kindFieldDeclaration:
			w.readField(child, w.ivarAccess, add)
		default:
			switch strings.TrimSpace(w.text(child)) {
			case "@private":
				w.ivarAccess = intentions.AccessPrivate
			case "@protected", "@package":
				w.ivarAccess = intentions.AccessInternal
			case "@public":
				w.ivarAccess = intentions.AccessPublic
			}
		}
	}
}

func (w *walker) readField(node *sitter.Node, access intentions.AccessLevel, add func(*intentions.InstanceVariableIntention)) {
	text := strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(w.text(node)), ";"))
	nameStart := len(text)
	for nameStart > 0 && isIdentChar(text[nameStart-1]) {
		nameStart--
	}
	name := text[nameStart:]
	if name == "" {
		return
	}
	objcType, nullability := ParseTypeText(text[:nameStart])
	mapped := typemap.Map(objcType, typemap.Context{
		InNonnullRegion: w.inNonnull(node),
		Explicit:        nullability,
	})
	storage := intentions.Storage{Type: mapped, Nullability: nullability}
	add(intentions.NewInstanceVariableIntention(name, storage, access, w.src(node), w.inNonnull(node)))
}

func (w *walker) readProperty(node *sitter.Node) *intentions.PropertyIntention {
	raw, err := ParsePropertyHeader(w.text(node))
	if err != nil {
		pos := node.StartPosition()
		w.bag.Warnf(w.name, int(pos.Row)+1, int(pos.Column)+1, "unparseable property: %v", err)
		return nil
	}
	mapped := typemap.Map(raw.Type, typemap.Context{
		InNonnullRegion: w.inNonnull(node),
		Explicit:        raw.Nullability,
	})
	p := intentions.NewPropertyIntention(raw.Name, intentions.Storage{
		Type:        mapped,
		Nullability: raw.Nullability,
		Ownership:   raw.Ownership,
	}, w.src(node), w.inNonnull(node))
	p.Attributes = raw.Attributes
	return p
}

// readMethod reads a method declaration or definition into the class,
// routing init-family selectors to initializer intentions.
func (w *walker) readMethod(node *sitter.Node, cls *intentions.ClassIntention) {
	body := parser.FindChildByKind(node, kindCompoundStatement)
	headerEnd := node.EndByte()
	if body != nil {
		headerEnd = body.StartByte()
	}
	header, err := ParseMethodHeader(string(w.content[node.StartByte():headerEnd]))
	if err != nil {
		pos := node.StartPosition()
		w.bag.Warnf(w.name, int(pos.Row)+1, int(pos.Column)+1, "unparseable method: %v", err)
		return
	}

	sig := w.buildSignature(node, header, cls.TypeName)

	if header.IsInitializer() && !header.IsClassMethod {
		ini := intentions.NewInitializerIntention(sig, w.src(node), w.inNonnull(node))
		if body != nil {
			ini.Body = w.stmts.ReadCompound(body)
		}
		cls.AddInitializer(ini)
		return
	}

	m := intentions.NewMethodIntention(sig, w.src(node), w.inNonnull(node))
	m.IsClassMethod = header.IsClassMethod
	if body != nil {
		m.Body = w.stmts.ReadCompound(body)
	}
	cls.AddMethod(m)
}

// buildSignature maps a raw header into the Swift-facing signature.
func (w *walker) buildSignature(node *sitter.Node, header RawMethodHeader, enclosingType string) intentions.FunctionSignature {
	nonnull := w.inNonnull(node)

	ret := header.ReturnType
	if ret.Kind == typesys.KindNominal && ret.Name == "instancetype" && enclosingType != "" {
		ret = typesys.PointerTo(typesys.Nominal(enclosingType))
	}
	sig := intentions.FunctionSignature{
		Name:              header.SelectorParts[0],
		ReturnType:        typemap.Map(ret, typemap.Context{InNonnullRegion: nonnull, Explicit: header.ReturnNullability}),
		ReturnNullability: header.ReturnNullability,
		IsStatic:          header.IsClassMethod,
	}
	for i, raw := range header.Params {
		label := ""
		if i > 0 && i < len(header.SelectorParts) {
			label = header.SelectorParts[i]
		}
		sig.Params = append(sig.Params, intentions.Parameter{
			Label:       label,
			Name:        raw.Name,
			Type:        typemap.Map(raw.Type, typemap.Context{InNonnullRegion: nonnull, Explicit: raw.Nullability}),
			Nullability: raw.Nullability,
		})
	}
	return sig
}

func (w *walker) readProtocol(node *sitter.Node) {
	name, _, _, refined := ParseInterfaceHeader(w.headerText(node))
	if name == "" {
		return
	}
	proto := intentions.NewProtocolIntention(name, w.src(node), w.inNonnull(node))
	proto.Protocols = refined

	// isOptional applies to members declared after @optional, until the
	// next @required.
	isOptional := false
	for i := uint(0); i < node.ChildCount(); i++ {
		child := node.Child(i)
		switch child.Kind() {
		case kindPropertyDecl:
			if p := w.readProperty(child); p != nil {
				p.IsOptional = isOptional
				proto.AddProperty(p)
			}
		case kindMethodDeclaration, kindMethodDefinition:
			header, err := ParseMethodHeader(w.text(child))
			if err != nil {
				continue
			}
			m := intentions.NewMethodIntention(w.buildSignature(child, header, name), w.src(child), w.inNonnull(child))
			m.IsClassMethod = header.IsClassMethod
			m.IsOptional = isOptional
			proto.AddMethod(m)
		default:
			switch strings.TrimSpace(w.text(child)) {
			case "@optional":
				isOptional = true
			case "@required":
				isOptional = false
			}
		}
	}
	w.file.AddType(proto)
}

func (w *walker) readFunctionDefinition(node *sitter.Node) {
	declarator := parser.FindChildByKind(node, kindFunctionDeclarator)
	body := parser.FindChildByKind(node, kindCompoundStatement)
	if declarator == nil {
		return
	}

	nameNode := parser.FindChildByKind(declarator, kindIdentifier)
	if nameNode == nil {
		return
	}
	retEnd := declarator.StartByte()
	retText := strings.TrimSpace(string(w.content[node.StartByte():retEnd]))
	retText = strings.TrimPrefix(retText, "static ")
	retType, retNullability := ParseTypeText(retText)

	nonnull := w.inNonnull(node)
	sig := intentions.FunctionSignature{
		Name:              w.text(nameNode),
		ReturnType:        typemap.Map(retType, typemap.Context{InNonnullRegion: nonnull, Explicit: retNullability}),
		ReturnNullability: retNullability,
	}
	if params := parser.FindChildByKind(declarator, kindParameterList); params != nil {
		for _, pd := range parser.ChildrenByKind(params, kindParameterDecl) {
			text := strings.TrimSpace(w.text(pd))
			nameStart := len(text)
			for nameStart > 0 && isIdentChar(text[nameStart-1]) {
				nameStart--
			}
			paramName := text[nameStart:]
			objcType, n := ParseTypeText(text[:nameStart])
			sig.Params = append(sig.Params, intentions.Parameter{
				Name:        paramName,
				Type:        typemap.Map(objcType, typemap.Context{InNonnullRegion: nonnull, Explicit: n}),
				Nullability: n,
			})
		}
	}

	fn := intentions.NewGlobalFunctionIntention(sig, w.src(node), nonnull)
	if body != nil {
		fn.Body = w.stmts.ReadCompound(body)
	}
	w.file.AddGlobalFunc(fn)
}

// readTopLevelDeclaration handles file-scope declarations: global variables,
// enums, structs. Function prototypes are skipped; their definitions carry
// the signature.
func (w *walker) readTopLevelDeclaration(node *sitter.Node) {
	if parser.FindChildByKind(node, kindFunctionDeclarator) != nil {
		return
	}
	if enum := parser.FindChildByKind(node, kindEnumSpecifier); enum != nil {
		w.readEnumSpecifier(enum, "")
		return
	}
	if st := parser.FindChildByKind(node, kindStructSpecifier); st != nil && parser.FindChildByKind(st, kindFieldDeclList) != nil {
		w.readStructSpecifier(st, "")
		return
	}

	text := strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(w.text(node)), ";"))
	var initExpr *sitter.Node
	if initDecl := parser.FindChildByKind(node, kindInitDeclarator); initDecl != nil {
		initExpr = initDecl.ChildByFieldName("value")
		text = strings.TrimSpace(string(w.content[node.StartByte():initDecl.StartByte()])) + " " +
			strings.TrimSpace(w.text(initDecl.ChildByFieldName("declarator")))
	}

	text = strings.TrimPrefix(text, "static ")
	text = strings.TrimPrefix(text, "extern ")
	text = strings.TrimSpace(text)

	nameStart := len(text)
	for nameStart > 0 && isIdentChar(text[nameStart-1]) {
		nameStart--
	}
	name := text[nameStart:]
	if name == "" {
		return
	}
	typeText := strings.TrimSpace(text[:nameStart])
	constant := strings.Contains(typeText, "const")
	objcType, nullability := ParseTypeText(typeText)

	nonnull := w.inNonnull(node)
	g := intentions.NewGlobalVariableIntention(name, intentions.Storage{
		Type:        typemap.Map(objcType, typemap.Context{InNonnullRegion: nonnull, Explicit: nullability}),
		Nullability: nullability,
		Constant:    constant,
	}, w.src(node), nonnull)
	if initExpr != nil {
		g.Initializer = w.exprs.Read(initExpr)
	}
	w.file.AddGlobalVar(g)
}
