// Package emitter renders the finalized intention graph as Swift source
// files. Declaration order per file is typealiases, globals, types; member
// order per type is ivars, properties, initializers, methods.
package emitter

import (
	"strings"

	"github.com/dejo1307/objc2swift/internal/intentions"
	"github.com/dejo1307/objc2swift/internal/swift"
	"github.com/dejo1307/objc2swift/internal/typesys"
)

// Options are the emitter's configuration switches.
type Options struct {
	// OmitObjcCompatibility suppresses @objc attributes, the NSObject base,
	// and NSObjectProtocol refinement.
	OmitObjcCompatibility bool
	// PrintIntentionHistory emits each intention's history as a comment
	// block preceding its declaration.
	PrintIntentionHistory bool
}

// OutputFile is one rendered Swift file.
type OutputFile struct {
	Path    string
	Content []byte
}

// SwiftRenderer renders intentions to Swift text.
type SwiftRenderer struct {
	opts    Options
	printer *swift.Printer
}

// New creates a renderer with the given options.
func New(opts Options) *SwiftRenderer {
	return &SwiftRenderer{opts: opts, printer: swift.NewPrinter()}
}

func (r *SwiftRenderer) Name() string { return "swift" }

// Render emits every file intention in the collection.
func (r *SwiftRenderer) Render(col *intentions.Collection) []OutputFile {
	var outputs []OutputFile
	for _, f := range col.Files() {
		outputs = append(outputs, OutputFile{
			Path:    f.SwiftPath(),
			Content: []byte(r.RenderFile(f)),
		})
	}
	return outputs
}

// RenderFile emits one file intention.
func (r *SwiftRenderer) RenderFile(f *intentions.FileIntention) string {
	var sb strings.Builder

	for _, directive := range f.Directives {
		sb.WriteString("// " + directive + "\n")
	}
	if len(f.Directives) > 0 {
		sb.WriteString("\n")
	}

	for _, alias := range f.Typealiases {
		r.history(&sb, alias, "")
		sb.WriteString("typealias " + alias.Name + " = " + alias.Aliased.String() + "\n")
	}
	if len(f.Typealiases) > 0 {
		sb.WriteString("\n")
	}

	for _, g := range f.GlobalVars {
		r.renderGlobalVar(&sb, g)
	}
	for _, fn := range f.GlobalFuncs {
		r.renderGlobalFunc(&sb, fn)
	}

	for _, t := range f.Types {
		r.renderType(&sb, t)
		sb.WriteString("\n")
	}

	return strings.TrimRight(sb.String(), "\n") + "\n"
}

func (r *SwiftRenderer) history(sb *strings.Builder, in intentions.Intention, indent string) {
	if !r.opts.PrintIntentionHistory {
		return
	}
	records := in.History().Records()
	if len(records) == 0 {
		return
	}
	sb.WriteString(indent + "// History:\n")
	for _, rec := range records {
		sb.WriteString(indent + "// " + rec.String() + "\n")
	}
}

func (r *SwiftRenderer) objcAttr(indent string) string {
	if r.opts.OmitObjcCompatibility {
		return ""
	}
	return indent + "@objc\n"
}

func (r *SwiftRenderer) renderGlobalVar(sb *strings.Builder, g *intentions.GlobalVariableIntention) {
	r.history(sb, g, "")
	kw := "var"
	if g.Storage.Constant {
		kw = "let"
	}
	line := kw + " " + g.Name
	if g.Initializer != nil && g.Storage.Constant {
		line += " = " + r.printer.Expr(g.Initializer)
	} else {
		line += ": " + g.Storage.Type.String()
		if g.Initializer != nil {
			line += " = " + r.printer.Expr(g.Initializer)
		}
	}
	sb.WriteString(line + "\n\n")
}

func (r *SwiftRenderer) renderGlobalFunc(sb *strings.Builder, fn *intentions.GlobalFunctionIntention) {
	r.history(sb, fn, "")
	sb.WriteString("func " + fn.Signature.Name + "(" + r.paramList(fn.Signature.Params, true) + ")" + r.returnClause(fn.Signature.ReturnType) + " {\n")
	if fn.Body != nil {
		sb.WriteString(r.printer.Block(fn.Body, 1))
	}
	sb.WriteString("}\n\n")
}

func (r *SwiftRenderer) renderType(sb *strings.Builder, t intentions.TypeIntention) {
	switch n := t.(type) {
	case *intentions.ClassExtensionIntention:
		r.renderExtension(sb, n)
	case *intentions.ClassIntention:
		r.renderClass(sb, n)
	case *intentions.ProtocolIntention:
		r.renderProtocol(sb, n)
	case *intentions.StructIntention:
		r.renderStruct(sb, n)
	case *intentions.EnumIntention:
		r.renderEnum(sb, n)
	}
}

func (r *SwiftRenderer) renderClass(sb *strings.Builder, cls *intentions.ClassIntention) {
	r.history(sb, cls, "")
	sb.WriteString(r.objcAttr(""))

	var supertypes []string
	switch {
	case cls.SuperclassName != "":
		supertypes = append(supertypes, cls.SuperclassName)
	case !r.opts.OmitObjcCompatibility:
		supertypes = append(supertypes, "NSObject")
	}
	supertypes = append(supertypes, cls.Protocols...)

	decl := "class " + cls.TypeName
	if len(supertypes) > 0 {
		decl += ": " + strings.Join(supertypes, ", ")
	}
	sb.WriteString(decl + " {\n")
	r.renderClassBody(sb, cls)
	sb.WriteString("}\n")
}

func (r *SwiftRenderer) renderExtension(sb *strings.Builder, ext *intentions.ClassExtensionIntention) {
	mark := ext.CategoryName
	if mark == "" {
		mark = "ext"
	}
	sb.WriteString("// MARK: - " + ext.TypeName + " (" + mark + ")\n")
	r.history(sb, ext, "")
	decl := "extension " + ext.TypeName
	if len(ext.Protocols) > 0 {
		decl += ": " + strings.Join(ext.Protocols, ", ")
	}
	sb.WriteString(decl + " {\n")
	r.renderClassBody(sb, &ext.ClassIntention)
	sb.WriteString("}\n")
}

func (r *SwiftRenderer) renderClassBody(sb *strings.Builder, cls *intentions.ClassIntention) {
	ind := r.printer.Indent
	for _, v := range cls.IVars {
		r.history(sb, v, ind)
		line := ind
		if v.AccessLevel != intentions.AccessInternal {
			line += v.AccessLevel.String() + " "
		}
		line += "var " + v.Name + ": " + v.Storage.Type.String()
		if dv := storedDefault(v.Storage.Type); dv != "" {
			line += " = " + dv
		}
		sb.WriteString(line + "\n")
	}
	if len(cls.IVars) > 0 {
		sb.WriteString("\n")
	}

	for _, prop := range cls.Properties {
		r.renderProperty(sb, prop, false)
	}
	if len(cls.Properties) > 0 {
		sb.WriteString("\n")
	}

	for _, ini := range cls.Initializers {
		r.renderInitializer(sb, ini)
	}
	for _, m := range cls.Methods {
		r.renderMethod(sb, m, false)
	}
}

func (r *SwiftRenderer) renderProperty(sb *strings.Builder, prop *intentions.PropertyIntention, inProtocol bool) {
	ind := r.printer.Indent
	r.history(sb, prop, ind)

	line := ind
	if !r.opts.OmitObjcCompatibility && !inProtocol {
		line += "@objc "
	}
	if prop.IsOptional && inProtocol {
		line += "optional "
	}
	if prop.Attributes.Weak {
		line += "weak "
	}
	if prop.Attributes.Class {
		line += "class "
	}
	if prop.SetterAccess == intentions.AccessPrivate && prop.Mode == intentions.ModeStored {
		line += "private(set) "
	}
	line += "var " + prop.Name + ": " + prop.Storage.Type.String()

	switch {
	case inProtocol:
		if prop.Attributes.ReadOnly {
			line += " { get }"
		} else {
			line += " { get set }"
		}
		sb.WriteString(line + "\n")

	case prop.Mode == intentions.ModeComputed && prop.Getter != nil:
		sb.WriteString(line + " {\n")
		sb.WriteString(r.printer.Block(prop.Getter, 2))
		sb.WriteString(ind + "}\n")

	case prop.Mode == intentions.ModeGetterSetter:
		sb.WriteString(line + " {\n")
		if prop.Getter != nil {
			sb.WriteString(ind + ind + "get {\n")
			sb.WriteString(r.printer.Block(prop.Getter, 3))
			sb.WriteString(ind + ind + "}\n")
		}
		if prop.Setter != nil {
			sb.WriteString(ind + ind + "set {\n")
			sb.WriteString(r.printer.Block(prop.Setter, 3))
			sb.WriteString(ind + ind + "}\n")
		}
		sb.WriteString(ind + "}\n")

	default:
		if dv := storedDefault(prop.Storage.Type); dv != "" && !prop.Storage.Type.IsOptional() {
			line += " = " + dv
		}
		sb.WriteString(line + "\n")
	}
}

func (r *SwiftRenderer) renderInitializer(sb *strings.Builder, ini *intentions.InitializerIntention) {
	ind := r.printer.Indent
	r.history(sb, ini, ind)
	line := ind
	if ini.IsOverride {
		line += "override "
	}
	line += "init"
	if ini.IsFailable {
		line += "?"
	}
	line += "(" + r.paramList(initParams(ini), false) + ") {\n"
	sb.WriteString(line)
	if ini.Body != nil {
		sb.WriteString(r.printer.Block(ini.Body, 2))
	}
	sb.WriteString(ind + "}\n\n")
}

// initParams labels initializer parameters from the selector: initWithName:
// becomes init(name:).
func initParams(ini *intentions.InitializerIntention) []intentions.Parameter {
	params := append([]intentions.Parameter(nil), ini.Signature.Params...)
	if len(params) > 0 && params[0].Label == "" {
		first := strings.TrimPrefix(ini.Signature.Name, "initWith")
		if first != "" && first != ini.Signature.Name {
			params[0].Label = strings.ToLower(first[:1]) + first[1:]
		}
	}
	return params
}

func (r *SwiftRenderer) renderMethod(sb *strings.Builder, m *intentions.MethodIntention, inProtocol bool) {
	ind := r.printer.Indent
	r.history(sb, m, ind)

	line := ind
	if !r.opts.OmitObjcCompatibility && !inProtocol {
		line += "@objc "
	}
	if m.IsOptional && inProtocol {
		line += "optional "
	}
	if m.IsOverride {
		line += "override "
	}
	if m.IsClassMethod {
		line += "class "
	}
	line += "func " + m.Signature.Name + "(" + r.paramList(m.Signature.Params, false) + ")" + r.returnClause(m.Signature.ReturnType)

	if inProtocol || m.Body == nil {
		sb.WriteString(line + "\n")
		return
	}
	sb.WriteString(line + " {\n")
	sb.WriteString(r.printer.Block(m.Body, 2))
	sb.WriteString(ind + "}\n\n")
}

func (r *SwiftRenderer) renderProtocol(sb *strings.Builder, proto *intentions.ProtocolIntention) {
	r.history(sb, proto, "")
	sb.WriteString(r.objcAttr(""))

	refined := append([]string(nil), proto.Protocols...)
	if len(refined) == 0 && !r.opts.OmitObjcCompatibility {
		refined = append(refined, "NSObjectProtocol")
	}
	decl := "protocol " + proto.TypeName
	if len(refined) > 0 {
		decl += ": " + strings.Join(refined, ", ")
	}
	sb.WriteString(decl + " {\n")
	for _, prop := range proto.Properties {
		r.renderProperty(sb, prop, true)
	}
	for _, m := range proto.Methods {
		r.renderMethod(sb, m, true)
	}
	sb.WriteString("}\n")
}

func (r *SwiftRenderer) renderStruct(sb *strings.Builder, s *intentions.StructIntention) {
	r.history(sb, s, "")
	sb.WriteString("struct " + s.TypeName + " {\n")
	for _, f := range s.Fields {
		sb.WriteString(r.printer.Indent + "var " + f.Name + ": " + f.Storage.Type.String() + "\n")
	}
	sb.WriteString("}\n")
}

func (r *SwiftRenderer) renderEnum(sb *strings.Builder, e *intentions.EnumIntention) {
	r.history(sb, e, "")
	sb.WriteString(r.objcAttr(""))
	raw := e.RawType.String()
	if raw == "" {
		raw = "Int"
	}
	sb.WriteString("enum " + e.TypeName + ": " + raw + " {\n")
	for _, c := range e.Cases {
		line := r.printer.Indent + "case " + c.Name
		if c.RawValue != nil {
			line += " = " + r.printer.Expr(c.RawValue)
		}
		sb.WriteString(line + "\n")
	}
	sb.WriteString("}\n")
}

// paramList renders a signature's parameters. Objective-C first parameters
// have no label and render as "_ name"; global functions keep bare names.
func (r *SwiftRenderer) paramList(params []intentions.Parameter, bareFirst bool) string {
	parts := make([]string, 0, len(params))
	for i, p := range params {
		name := p.Name
		if name == "" {
			name = "arg" + itoa(i)
		}
		entry := ""
		switch {
		case p.Label == "" && !bareFirst:
			entry = "_ " + name
		case p.Label == "" || p.Label == name:
			entry = name
		default:
			entry = p.Label + " " + name
		}
		parts = append(parts, entry+": "+p.Type.String())
	}
	return strings.Join(parts, ", ")
}

func (r *SwiftRenderer) returnClause(t typesys.Type) string {
	if t.Kind == typesys.KindVoid {
		return ""
	}
	return " -> " + t.String()
}

// storedDefault is the initializer a stored declaration needs so the emitted
// class remains initializable; reference types default to nil only when
// optional.
func storedDefault(t typesys.Type) string {
	switch t.Kind {
	case typesys.KindNominal:
		switch t.Name {
		case "Int", "UInt", "Int8", "UInt8", "Int16", "UInt16", "Int32",
			"UInt32", "Int64", "UInt64":
			return "0"
		case "Float", "Double", "CGFloat", "TimeInterval":
			return "0.0"
		case "Bool":
			return "false"
		case "String":
			return `""`
		}
	case typesys.KindArray:
		return "[]"
	case typesys.KindDictionary:
		return "[:]"
	case typesys.KindOptional, typesys.KindImplicitlyUnwrapped:
		return ""
	}
	return ""
}

func itoa(n int) string {
	if n == 0 {
		return "0"
	}
	var buf [8]byte
	i := len(buf)
	for n > 0 {
		i--
		buf[i] = byte('0' + n%10)
		n /= 10
	}
	return string(buf[i:])
}
