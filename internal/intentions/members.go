package intentions

import (
	"github.com/dejo1307/objc2swift/internal/swift"
	"github.com/dejo1307/objc2swift/internal/typesys"
)

// AccessLevel is the Swift-side access level of a member.
type AccessLevel int

const (
	AccessInternal AccessLevel = iota
	AccessPrivate
	AccessFilePrivate
	AccessPublic
)

func (a AccessLevel) String() string {
	switch a {
	case AccessPrivate:
		return "private"
	case AccessFilePrivate:
		return "fileprivate"
	case AccessPublic:
		return "public"
	}
	return "internal"
}

// Ownership is the memory-management attribute of a stored declaration.
type Ownership int

const (
	OwnershipStrong Ownership = iota
	OwnershipWeak
	OwnershipUnownedUnsafe // assign / unsafe_unretained applied to objects
	OwnershipCopy
)

func (o Ownership) String() string {
	switch o {
	case OwnershipWeak:
		return "weak"
	case OwnershipUnownedUnsafe:
		return "unowned(unsafe)"
	case OwnershipCopy:
		return "copy"
	}
	return "strong"
}

// Storage describes the type, ownership, and constness of a stored
// declaration (ivar, property, global).
type Storage struct {
	Type        typesys.Type
	Nullability typesys.Nullability
	Ownership   Ownership
	Constant    bool
}

// Parameter is one function parameter. The first parameter of an
// Objective-C method has no label (the method name absorbs the first
// keyword); later parameters carry their keyword as the label.
type Parameter struct {
	Label       string
	Name        string
	Type        typesys.Type
	Nullability typesys.Nullability
}

// FunctionSignature is the Swift-facing shape of a method or function.
type FunctionSignature struct {
	Name              string
	Params            []Parameter
	ReturnType        typesys.Type
	ReturnNullability typesys.Nullability
	IsStatic          bool
}

// Selector derives the Objective-C selector identity of the signature: the
// method name contributes the first keyword, each parameter past the first
// contributes its label.
func (s FunctionSignature) Selector() typesys.Selector {
	if len(s.Params) == 0 {
		return typesys.UnarySelector(s.Name)
	}
	labels := make([]string, 0, len(s.Params))
	labels = append(labels, s.Name)
	for _, p := range s.Params[1:] {
		labels = append(labels, p.Label)
	}
	return typesys.NewSelector(labels, len(s.Params))
}

// MethodIntention is a translated method.
type MethodIntention struct {
	BaseIntention
	Signature     FunctionSignature
	Body          *swift.CompoundStmt
	IsOptional    bool // protocol members declared under @optional
	IsOverride    bool
	IsClassMethod bool
	AccessLevel   AccessLevel
}

// NewMethodIntention creates a method with its creation record.
func NewMethodIntention(sig FunctionSignature, src SourceRef, inNonnull bool) *MethodIntention {
	return &MethodIntention{
		BaseIntention: newBase("method "+sig.Selector().String(), src, inNonnull),
		Signature:     sig,
	}
}

// Selector returns the method's selector identity.
func (m *MethodIntention) Selector() typesys.Selector {
	return m.Signature.Selector()
}

// SetIsOverride flips the override flag, recording the change.
func (m *MethodIntention) SetIsOverride(tag string, override bool) {
	if m.IsOverride == override {
		return
	}
	m.IsOverride = override
	m.History().Record(tag, "override changed %v -> %v", !override, override)
}

// SetReturnNullability changes the return annotation, recording old and new.
func (m *MethodIntention) SetReturnNullability(tag string, n typesys.Nullability) {
	old := m.Signature.ReturnNullability
	if old == n {
		return
	}
	m.Signature.ReturnNullability = n
	m.History().Record(tag, "return nullability changed %s -> %s", old, n)
}

// SetParamNullability changes one parameter's annotation, recording old and
// new.
func (m *MethodIntention) SetParamNullability(tag string, i int, n typesys.Nullability) {
	if i < 0 || i >= len(m.Signature.Params) {
		return
	}
	old := m.Signature.Params[i].Nullability
	if old == n {
		return
	}
	m.Signature.Params[i].Nullability = n
	m.History().Record(tag, "parameter %d nullability changed %s -> %s", i, old, n)
}

// PropertyMode describes how a property is implemented.
type PropertyMode int

const (
	// ModeStored is a plain stored property.
	ModeStored PropertyMode = iota
	// ModeComputed is a get-only computed property.
	ModeComputed
	// ModeGetterSetter has explicit getter and setter bodies.
	ModeGetterSetter
)

func (m PropertyMode) String() string {
	switch m {
	case ModeComputed:
		return "computed"
	case ModeGetterSetter:
		return "getter+setter"
	}
	return "stored"
}

// PropertyAttributes are the @property(...) attributes that survive into
// Swift.
type PropertyAttributes struct {
	ReadOnly   bool
	Class      bool
	Weak       bool
	Assign     bool
	Copy       bool
	Dynamic    bool
	GetterName string
	SetterName string
}

// PropertyIntention is a translated @property.
type PropertyIntention struct {
	BaseIntention
	Name        string
	Storage     Storage
	Attributes  PropertyAttributes
	Mode        PropertyMode
	IsOptional  bool // protocol members declared under @optional
	AccessLevel AccessLevel
	// SetterAccess allows the private(set) downgrade produced by the
	// synthesize pass.
	SetterAccess AccessLevel

	// Getter and Setter hold bodies folded in by Property Merge or built by
	// Synthesize Backing Field. Mode governs which are meaningful.
	Getter *swift.CompoundStmt
	Setter *swift.CompoundStmt

	// BackingFieldName is set when @synthesize introduced an explicitly
	// named backing ivar.
	BackingFieldName string
}

// NewPropertyIntention creates a property with its creation record.
func NewPropertyIntention(name string, storage Storage, src SourceRef, inNonnull bool) *PropertyIntention {
	return &PropertyIntention{
		BaseIntention: newBase("property "+name, src, inNonnull),
		Name:          name,
		Storage:       storage,
		SetterAccess:  AccessInternal,
	}
}

// GetterSelector is the selector a matching getter method must have.
func (p *PropertyIntention) GetterSelector() typesys.Selector {
	if p.Attributes.GetterName != "" {
		return typesys.UnarySelector(p.Attributes.GetterName)
	}
	return typesys.GetterSelector(p.Name)
}

// SetterSelector is the selector a matching setter method must have.
func (p *PropertyIntention) SetterSelector() typesys.Selector {
	if p.Attributes.SetterName != "" {
		return typesys.NewSelector([]string{p.Attributes.SetterName}, 1)
	}
	return typesys.SetterSelector(p.Name)
}

// SetMode changes the implementation mode, recording old and new.
func (p *PropertyIntention) SetMode(tag string, mode PropertyMode) {
	if p.Mode == mode {
		return
	}
	old := p.Mode
	p.Mode = mode
	p.History().Record(tag, "mode changed %s -> %s", old, mode)
}

// SetNullability changes the storage annotation, recording old and new.
func (p *PropertyIntention) SetNullability(tag string, n typesys.Nullability) {
	old := p.Storage.Nullability
	if old == n {
		return
	}
	p.Storage.Nullability = n
	p.History().Record(tag, "nullability changed %s -> %s", old, n)
}

// InstanceVariableIntention is a translated ivar.
type InstanceVariableIntention struct {
	BaseIntention
	Name        string
	Storage     Storage
	AccessLevel AccessLevel
}

// NewInstanceVariableIntention creates an ivar with its creation record.
func NewInstanceVariableIntention(name string, storage Storage, access AccessLevel, src SourceRef, inNonnull bool) *InstanceVariableIntention {
	return &InstanceVariableIntention{
		BaseIntention: newBase("ivar "+name, src, inNonnull),
		Name:          name,
		Storage:       storage,
		AccessLevel:   access,
	}
}

// InitializerIntention is a translated init method.
type InitializerIntention struct {
	BaseIntention
	Signature  FunctionSignature
	Body       *swift.CompoundStmt
	IsOverride bool
	IsFailable bool
}

// NewInitializerIntention creates an initializer with its creation record.
func NewInitializerIntention(sig FunctionSignature, src SourceRef, inNonnull bool) *InitializerIntention {
	return &InitializerIntention{
		BaseIntention: newBase("initializer "+sig.Selector().String(), src, inNonnull),
		Signature:     sig,
	}
}

// Selector returns the initializer's selector identity.
func (i *InitializerIntention) Selector() typesys.Selector {
	return i.Signature.Selector()
}

// SetIsOverride flips the override flag, recording the change.
func (i *InitializerIntention) SetIsOverride(tag string, override bool) {
	if i.IsOverride == override {
		return
	}
	i.IsOverride = override
	i.History().Record(tag, "override changed %v -> %v", !override, override)
}

// GlobalVariableIntention is a file-scope variable or constant.
type GlobalVariableIntention struct {
	BaseIntention
	Name        string
	Storage     Storage
	Initializer swift.Expr
}

// NewGlobalVariableIntention creates a global with its creation record.
func NewGlobalVariableIntention(name string, storage Storage, src SourceRef, inNonnull bool) *GlobalVariableIntention {
	return &GlobalVariableIntention{
		BaseIntention: newBase("global "+name, src, inNonnull),
		Name:          name,
		Storage:       storage,
	}
}

// GlobalFunctionIntention is a file-scope C function.
type GlobalFunctionIntention struct {
	BaseIntention
	Signature FunctionSignature
	Body      *swift.CompoundStmt
}

// NewGlobalFunctionIntention creates a global function with its creation
// record.
func NewGlobalFunctionIntention(sig FunctionSignature, src SourceRef, inNonnull bool) *GlobalFunctionIntention {
	return &GlobalFunctionIntention{
		BaseIntention: newBase("function "+sig.Name, src, inNonnull),
		Signature:     sig,
	}
}

// TypealiasIntention is a translated typedef.
type TypealiasIntention struct {
	BaseIntention
	Name    string
	Aliased typesys.Type
}

// NewTypealiasIntention creates a typealias with its creation record.
func NewTypealiasIntention(name string, aliased typesys.Type, src SourceRef, inNonnull bool) *TypealiasIntention {
	return &TypealiasIntention{
		BaseIntention: newBase("typealias "+name, src, inNonnull),
		Name:          name,
		Aliased:       aliased,
	}
}

// EnumCaseIntention is one case of an enum intention.
type EnumCaseIntention struct {
	BaseIntention
	Name     string
	RawValue swift.Expr
}

// NewEnumCaseIntention creates an enum case with its creation record.
func NewEnumCaseIntention(name string, src SourceRef, inNonnull bool) *EnumCaseIntention {
	return &EnumCaseIntention{
		BaseIntention: newBase("enum case "+name, src, inNonnull),
		Name:          name,
	}
}

// SynthesizeDirective records one @synthesize or @dynamic entry found in an
// implementation, consumed by the synthesize-backing-field pass.
type SynthesizeDirective struct {
	PropertyName string
	IVarName     string
	IsDynamic    bool
	Source       SourceRef
}
