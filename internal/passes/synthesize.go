package passes

import (
	"github.com/dejo1307/objc2swift/internal/intentions"
	"github.com/dejo1307/objc2swift/internal/swift"
)

// SynthesizeBackingField translates @synthesize directives and implicit
// underscore-ivar references into stored backing fields plus computed
// properties.
type SynthesizeBackingField struct{}

func (*SynthesizeBackingField) Name() string { return "synthesize-backing-field" }

func (p *SynthesizeBackingField) Apply(ctx *Context, col *intentions.Collection) error {
	col.EachType(func(_ *intentions.FileIntention, t intentions.TypeIntention) {
		switch n := t.(type) {
		case *intentions.ClassExtensionIntention:
			p.applyType(&n.ClassIntention)
		case *intentions.ClassIntention:
			p.applyType(n)
		}
	})
	return nil
}

func (p *SynthesizeBackingField) applyType(cls *intentions.ClassIntention) {
	handled := make(map[string]bool)

	for _, directive := range cls.Synthesizes {
		if directive.IsDynamic {
			handled[directive.PropertyName] = true
			continue
		}
		prop := cls.PropertyByName(directive.PropertyName)
		if prop == nil {
			continue
		}
		handled[directive.PropertyName] = true
		if directive.IVarName == directive.PropertyName {
			p.collapse(cls, prop)
		} else {
			p.explicitBacking(cls, prop, directive.IVarName)
		}
	}

	// Implicit synthesis: a body referencing _name for a property with no
	// directive gets the default underscore backing field.
	for _, prop := range cls.Properties {
		if handled[prop.Name] || prop.Mode != intentions.ModeStored {
			continue
		}
		backing := "_" + prop.Name
		if p.typeReferences(cls, backing) {
			p.explicitBacking(cls, prop, backing)
		}
	}
}

// collapse fuses @synthesize name = name into a single stored property,
// downgrading the setter to private(set) when the property is readonly and
// the ivar was private.
func (p *SynthesizeBackingField) collapse(cls *intentions.ClassIntention, prop *intentions.PropertyIntention) {
	if ivar := cls.IVarByName(prop.Name); ivar != nil {
		if prop.Attributes.ReadOnly && ivar.AccessLevel == intentions.AccessPrivate {
			prop.SetterAccess = intentions.AccessPrivate
			prop.History().Record(p.Name(), "setter access downgraded to private(set)")
		}
		cls.RemoveIVar(ivar)
		ivar.History().Record(p.Name(), "collapsed into stored property %s", prop.Name)
	}
	prop.SetMode(p.Name(), intentions.ModeStored)
	prop.History().Record(p.Name(), "synthesized as stored property")
}

// explicitBacking creates a stored ivar for the backing name and rewrites
// the property as computed over it.
func (p *SynthesizeBackingField) explicitBacking(cls *intentions.ClassIntention, prop *intentions.PropertyIntention, backing string) {
	if cls.IVarByName(backing) == nil {
		ivar := intentions.NewInstanceVariableIntention(backing, prop.Storage, intentions.AccessPrivate, intentions.SourceRef{}, prop.InNonnullContext())
		ivar.History().Record(p.Name(), "backing field for property %s", prop.Name)
		cls.AddIVar(ivar)
	}
	prop.BackingFieldName = backing

	if prop.Getter == nil {
		prop.Getter = &swift.CompoundStmt{Items: []swift.Stmt{
			&swift.ReturnStmt{Value: swift.Ident(backing)},
		}}
	}
	if prop.Attributes.ReadOnly {
		prop.SetMode(p.Name(), intentions.ModeComputed)
	} else {
		if prop.Setter == nil {
			prop.Setter = &swift.CompoundStmt{Items: []swift.Stmt{
				&swift.ExprStmt{Expr: &swift.AssignmentExpr{
					Op:     "=",
					Target: swift.Ident(backing),
					Value:  swift.Ident("newValue"),
				}},
			}}
		}
		prop.SetMode(p.Name(), intentions.ModeGetterSetter)
	}
	prop.History().Record(p.Name(), "backed by explicit field %s", backing)
}

// typeReferences reports whether any body in the class references the given
// identifier (directly or through self->).
func (p *SynthesizeBackingField) typeReferences(cls *intentions.ClassIntention, name string) bool {
	found := false
	check := func(e swift.Expr) {
		switch n := e.(type) {
		case *swift.IdentifierExpr:
			if n.Name == name {
				found = true
			}
		case *swift.MemberAccessExpr:
			if n.Name == name {
				if base, ok := n.Base.(*swift.IdentifierExpr); ok && base.Name == "self" {
					found = true
				}
			}
		}
	}
	for _, m := range cls.Methods {
		if m.Body != nil {
			swift.WalkExprs(m.Body, check)
		}
	}
	for _, ini := range cls.Initializers {
		if ini.Body != nil {
			swift.WalkExprs(ini.Body, check)
		}
	}
	for _, prop := range cls.Properties {
		if prop.Getter != nil {
			swift.WalkExprs(prop.Getter, check)
		}
		if prop.Setter != nil {
			swift.WalkExprs(prop.Setter, check)
		}
	}
	return found
}
