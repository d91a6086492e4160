package intentions

import (
	"github.com/dejo1307/objc2swift/internal/typesys"
)

// DeclarationKind records which Objective-C construct produced a type
// intention. Duplicate Type Removal keys on it.
type DeclarationKind int

const (
	FromInterface DeclarationKind = iota
	FromImplementation
	FromCategory
)

func (k DeclarationKind) String() string {
	switch k {
	case FromImplementation:
		return "@implementation"
	case FromCategory:
		return "category"
	}
	return "@interface"
}

// TypeIntention is the common surface of class, extension, protocol, struct
// and enum intentions.
type TypeIntention interface {
	Intention
	Name() string
}

// ClassIntention is a translated class: the fusion of an @interface and its
// @implementation.
type ClassIntention struct {
	BaseIntention
	TypeName       string
	SuperclassName string
	Protocols      []string
	DeclKind       DeclarationKind

	IVars        []*InstanceVariableIntention
	Properties   []*PropertyIntention
	Methods      []*MethodIntention
	Initializers []*InitializerIntention
	Synthesizes  []*SynthesizeDirective
}

// NewClassIntention creates a class with its creation record.
func NewClassIntention(name string, kind DeclarationKind, src SourceRef, inNonnull bool) *ClassIntention {
	c := &ClassIntention{
		BaseIntention: newBase("class "+name, src, inNonnull),
		TypeName:      name,
		DeclKind:      kind,
	}
	return c
}

func (c *ClassIntention) Name() string { return c.TypeName }

// AddProtocol records a conformance, deduplicating by name.
func (c *ClassIntention) AddProtocol(name string) {
	for _, p := range c.Protocols {
		if p == name {
			return
		}
	}
	c.Protocols = append(c.Protocols, name)
}

// AddIVar moves an ivar under this class.
func (c *ClassIntention) AddIVar(v *InstanceVariableIntention) {
	detach(v)
	v.setParent(c)
	c.IVars = append(c.IVars, v)
}

// AddProperty moves a property under this class.
func (c *ClassIntention) AddProperty(p *PropertyIntention) {
	detach(p)
	p.setParent(c)
	c.Properties = append(c.Properties, p)
}

// AddMethod moves a method under this class.
func (c *ClassIntention) AddMethod(m *MethodIntention) {
	detach(m)
	m.setParent(c)
	c.Methods = append(c.Methods, m)
}

// AddInitializer moves an initializer under this class.
func (c *ClassIntention) AddInitializer(i *InitializerIntention) {
	detach(i)
	i.setParent(c)
	c.Initializers = append(c.Initializers, i)
}

// RemoveMethod unlinks a method from this class.
func (c *ClassIntention) RemoveMethod(m *MethodIntention) bool {
	for i, existing := range c.Methods {
		if existing == m {
			c.Methods = append(c.Methods[:i], c.Methods[i+1:]...)
			m.setParent(nil)
			return true
		}
	}
	return false
}

// RemoveIVar unlinks an ivar from this class.
func (c *ClassIntention) RemoveIVar(v *InstanceVariableIntention) bool {
	for i, existing := range c.IVars {
		if existing == v {
			c.IVars = append(c.IVars[:i], c.IVars[i+1:]...)
			v.setParent(nil)
			return true
		}
	}
	return false
}

// RemoveProperty unlinks a property from this class.
func (c *ClassIntention) RemoveProperty(p *PropertyIntention) bool {
	for i, existing := range c.Properties {
		if existing == p {
			c.Properties = append(c.Properties[:i], c.Properties[i+1:]...)
			p.setParent(nil)
			return true
		}
	}
	return false
}

// removeChild implements the unlink half of a move operation.
func (c *ClassIntention) removeChild(child Intention) bool {
	switch n := child.(type) {
	case *MethodIntention:
		return c.RemoveMethod(n)
	case *InstanceVariableIntention:
		return c.RemoveIVar(n)
	case *PropertyIntention:
		return c.RemoveProperty(n)
	case *InitializerIntention:
		for i, existing := range c.Initializers {
			if existing == n {
				c.Initializers = append(c.Initializers[:i], c.Initializers[i+1:]...)
				n.setParent(nil)
				return true
			}
		}
	}
	return false
}

// MethodBySelector finds a method by selector identity.
func (c *ClassIntention) MethodBySelector(sel typesys.Selector) *MethodIntention {
	for _, m := range c.Methods {
		if m.Selector().Equal(sel) {
			return m
		}
	}
	return nil
}

// InitializerBySelector finds an initializer by selector identity.
func (c *ClassIntention) InitializerBySelector(sel typesys.Selector) *InitializerIntention {
	for _, i := range c.Initializers {
		if i.Selector().Equal(sel) {
			return i
		}
	}
	return nil
}

// PropertyByName finds a property by name.
func (c *ClassIntention) PropertyByName(name string) *PropertyIntention {
	for _, p := range c.Properties {
		if p.Name == name {
			return p
		}
	}
	return nil
}

// IVarByName finds an ivar by name.
func (c *ClassIntention) IVarByName(name string) *InstanceVariableIntention {
	for _, v := range c.IVars {
		if v.Name == name {
			return v
		}
	}
	return nil
}

// ClassExtensionIntention is a category or anonymous class extension.
type ClassExtensionIntention struct {
	ClassIntention
	CategoryName string
}

// NewClassExtensionIntention creates a category with its creation record.
func NewClassExtensionIntention(typeName, categoryName string, src SourceRef, inNonnull bool) *ClassExtensionIntention {
	e := &ClassExtensionIntention{
		ClassIntention: ClassIntention{
			BaseIntention: newBase("extension "+typeName, src, inNonnull),
			TypeName:      typeName,
			DeclKind:      FromCategory,
		},
		CategoryName: categoryName,
	}
	return e
}

// ProtocolIntention is a translated @protocol.
type ProtocolIntention struct {
	BaseIntention
	TypeName   string
	Protocols  []string // refined protocols
	Properties []*PropertyIntention
	Methods    []*MethodIntention
}

// NewProtocolIntention creates a protocol with its creation record.
func NewProtocolIntention(name string, src SourceRef, inNonnull bool) *ProtocolIntention {
	return &ProtocolIntention{
		BaseIntention: newBase("protocol "+name, src, inNonnull),
		TypeName:      name,
	}
}

func (p *ProtocolIntention) Name() string { return p.TypeName }

// AddMethod moves a method requirement under this protocol.
func (p *ProtocolIntention) AddMethod(m *MethodIntention) {
	detach(m)
	m.setParent(p)
	p.Methods = append(p.Methods, m)
}

// AddProperty moves a property requirement under this protocol.
func (p *ProtocolIntention) AddProperty(prop *PropertyIntention) {
	detach(prop)
	prop.setParent(p)
	p.Properties = append(p.Properties, prop)
}

// removeChild implements the unlink half of a move operation.
func (p *ProtocolIntention) removeChild(child Intention) bool {
	switch n := child.(type) {
	case *MethodIntention:
		for i, existing := range p.Methods {
			if existing == n {
				p.Methods = append(p.Methods[:i], p.Methods[i+1:]...)
				n.setParent(nil)
				return true
			}
		}
	case *PropertyIntention:
		for i, existing := range p.Properties {
			if existing == n {
				p.Properties = append(p.Properties[:i], p.Properties[i+1:]...)
				n.setParent(nil)
				return true
			}
		}
	}
	return false
}

// MethodBySelector finds a method requirement by selector identity.
func (p *ProtocolIntention) MethodBySelector(sel typesys.Selector) *MethodIntention {
	for _, m := range p.Methods {
		if m.Selector().Equal(sel) {
			return m
		}
	}
	return nil
}

// StructIntention is a translated C struct.
type StructIntention struct {
	BaseIntention
	TypeName string
	Fields   []*InstanceVariableIntention
}

// NewStructIntention creates a struct with its creation record.
func NewStructIntention(name string, src SourceRef, inNonnull bool) *StructIntention {
	return &StructIntention{
		BaseIntention: newBase("struct "+name, src, inNonnull),
		TypeName:      name,
	}
}

func (s *StructIntention) Name() string { return s.TypeName }

// AddField moves a field under this struct.
func (s *StructIntention) AddField(f *InstanceVariableIntention) {
	detach(f)
	f.setParent(s)
	s.Fields = append(s.Fields, f)
}

// removeChild implements the unlink half of a move operation.
func (s *StructIntention) removeChild(child Intention) bool {
	if f, ok := child.(*InstanceVariableIntention); ok {
		for i, existing := range s.Fields {
			if existing == f {
				s.Fields = append(s.Fields[:i], s.Fields[i+1:]...)
				f.setParent(nil)
				return true
			}
		}
	}
	return false
}

// EnumIntention is a translated NS_ENUM / NS_OPTIONS / C enum.
type EnumIntention struct {
	BaseIntention
	TypeName string
	RawType  typesys.Type
	Cases    []*EnumCaseIntention
}

// NewEnumIntention creates an enum with its creation record.
func NewEnumIntention(name string, rawType typesys.Type, src SourceRef, inNonnull bool) *EnumIntention {
	return &EnumIntention{
		BaseIntention: newBase("enum "+name, src, inNonnull),
		TypeName:      name,
		RawType:       rawType,
	}
}

func (e *EnumIntention) Name() string { return e.TypeName }

// AddCase moves a case under this enum.
func (e *EnumIntention) AddCase(c *EnumCaseIntention) {
	detach(c)
	c.setParent(e)
	e.Cases = append(e.Cases, c)
}

// CaseByName finds a case by name.
func (e *EnumIntention) CaseByName(name string) *EnumCaseIntention {
	for _, c := range e.Cases {
		if c.Name == name {
			return c
		}
	}
	return nil
}

// removeChild implements the unlink half of a move operation.
func (e *EnumIntention) removeChild(child Intention) bool {
	if c, ok := child.(*EnumCaseIntention); ok {
		for i, existing := range e.Cases {
			if existing == c {
				e.Cases = append(e.Cases[:i], e.Cases[i+1:]...)
				c.setParent(nil)
				return true
			}
		}
	}
	return false
}
