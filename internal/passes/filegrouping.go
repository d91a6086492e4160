package passes

import (
	"github.com/dejo1307/objc2swift/internal/intentions"
	"github.com/dejo1307/objc2swift/internal/typemap"
)

// FileGrouping merges each header's intentions into the implementation file
// with the same basename, reconciling selector-matched methods, then drops
// the header file.
type FileGrouping struct{}

func (*FileGrouping) Name() string { return "file-grouping" }

func (p *FileGrouping) Apply(ctx *Context, col *intentions.Collection) error {
	headers := make(map[string]*intentions.FileIntention)
	var impls []*intentions.FileIntention
	for _, f := range col.Files() {
		if f.IsHeader() {
			headers[f.Basename()] = f
		} else {
			impls = append(impls, f)
		}
	}

	for _, impl := range impls {
		header, ok := headers[impl.Basename()]
		if !ok {
			continue
		}
		p.mergeFile(impl, header)
		col.RemoveFile(header)
		impl.History().Record(p.Name(), "merged header %s", header.Path)
	}
	return nil
}

// mergeFile moves the header's content into the implementation file, fusing
// same-named types.
func (p *FileGrouping) mergeFile(impl, header *intentions.FileIntention) {
	for _, directive := range header.Directives {
		impl.Directives = append(impl.Directives, directive)
	}
	for _, alias := range append([]*intentions.TypealiasIntention(nil), header.Typealiases...) {
		impl.AddTypealias(alias)
	}
	for _, g := range append([]*intentions.GlobalVariableIntention(nil), header.GlobalVars...) {
		impl.AddGlobalVar(g)
	}
	for _, fn := range append([]*intentions.GlobalFunctionIntention(nil), header.GlobalFuncs...) {
		if existing := implFuncByName(impl, fn.Signature.Name); existing != nil {
			p.mergeFunction(existing, fn)
			continue
		}
		impl.AddGlobalFunc(fn)
	}

	for _, t := range append([]intentions.TypeIntention(nil), header.Types...) {
		switch src := t.(type) {
		case *intentions.ClassExtensionIntention:
			impl.AddType(src)
		case *intentions.ClassIntention:
			if dst := impl.ClassByName(src.TypeName); dst != nil {
				p.mergeClass(dst, src, header.Path)
				impl.AddType(src) // kept until duplicate-type-removal runs
				continue
			}
			impl.AddType(src)
		default:
			impl.AddType(t)
		}
	}
}

func implFuncByName(f *intentions.FileIntention, name string) *intentions.GlobalFunctionIntention {
	for _, fn := range f.GlobalFuncs {
		if fn.Signature.Name == name {
			return fn
		}
	}
	return nil
}

// mergeClass fuses the header's class declaration into the implementation's.
// Merge order: protocols, ivars, properties, methods; each deduplicated.
func (p *FileGrouping) mergeClass(dst, src *intentions.ClassIntention, headerPath string) {
	if dst.SuperclassName == "" && src.SuperclassName != "" {
		dst.SuperclassName = src.SuperclassName
		dst.History().Record(p.Name(), "superclass %s taken from declaration", src.SuperclassName)
	}
	for _, proto := range src.Protocols {
		dst.AddProtocol(proto)
	}
	for _, v := range append([]*intentions.InstanceVariableIntention(nil), src.IVars...) {
		if dst.IVarByName(v.Name) == nil {
			dst.AddIVar(v)
		}
	}
	for _, prop := range append([]*intentions.PropertyIntention(nil), src.Properties...) {
		existing := dst.PropertyByName(prop.Name)
		if existing == nil {
			dst.AddProperty(prop)
			continue
		}
		if prop.Storage.Nullability.Specified() && !existing.Storage.Nullability.Specified() {
			existing.SetNullability(p.Name(), prop.Storage.Nullability)
			existing.Storage.Type = typemap.WithNullability(existing.Storage.Type, prop.Storage.Nullability)
		}
	}
	for _, m := range append([]*intentions.MethodIntention(nil), src.Methods...) {
		existing := dst.MethodBySelector(m.Selector())
		if existing == nil {
			dst.AddMethod(m)
			continue
		}
		p.mergeMethod(existing, m)
	}
	for _, ini := range append([]*intentions.InitializerIntention(nil), src.Initializers...) {
		existing := dst.InitializerBySelector(ini.Selector())
		if existing == nil {
			dst.AddInitializer(ini)
			continue
		}
		p.mergeInitializer(existing, ini)
	}
	dst.Synthesizes = append(dst.Synthesizes, src.Synthesizes...)
	dst.History().Record(p.Name(), "merged declaration from %s", headerPath)
}

// mergeMethod reconciles a declaration (src) into its definition (dst):
// the definition keeps its body and parameter names; the declaration
// contributes nullability where the definition's is unspecified.
func (p *FileGrouping) mergeMethod(dst, src *intentions.MethodIntention) {
	for i := range dst.Signature.Params {
		if i >= len(src.Signature.Params) {
			break
		}
		in := src.Signature.Params[i].Nullability
		if in.Specified() && !dst.Signature.Params[i].Nullability.Specified() {
			dst.SetParamNullability(p.Name(), i, in)
			dst.Signature.Params[i].Type = typemap.WithNullability(dst.Signature.Params[i].Type, in)
		}
	}
	if src.Signature.ReturnNullability.Specified() && !dst.Signature.ReturnNullability.Specified() {
		dst.SetReturnNullability(p.Name(), src.Signature.ReturnNullability)
		dst.Signature.ReturnType = typemap.WithNullability(dst.Signature.ReturnType, src.Signature.ReturnNullability)
	}
	if dst.Body == nil && src.Body != nil {
		dst.Body = src.Body
		dst.History().Record(p.Name(), "body taken from declaration side")
	}
	dst.History().Record(p.Name(), "merged declaration of %s", src.Selector())
}

func (p *FileGrouping) mergeInitializer(dst, src *intentions.InitializerIntention) {
	for i := range dst.Signature.Params {
		if i >= len(src.Signature.Params) {
			break
		}
		in := src.Signature.Params[i].Nullability
		if in.Specified() && !dst.Signature.Params[i].Nullability.Specified() {
			old := dst.Signature.Params[i].Nullability
			dst.Signature.Params[i].Nullability = in
			dst.Signature.Params[i].Type = typemap.WithNullability(dst.Signature.Params[i].Type, in)
			dst.History().Record(p.Name(), "parameter %d nullability changed %s -> %s", i, old, in)
		}
	}
	if dst.Body == nil && src.Body != nil {
		dst.Body = src.Body
		dst.History().Record(p.Name(), "body taken from declaration side")
	}
	dst.History().Record(p.Name(), "merged declaration of %s", src.Selector())
}

func (p *FileGrouping) mergeFunction(dst, src *intentions.GlobalFunctionIntention) {
	if dst.Body == nil && src.Body != nil {
		dst.Body = src.Body
	}
	dst.History().Record(p.Name(), "merged declaration of %s", src.Signature.Name)
}
