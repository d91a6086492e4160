package passes

import (
	"github.com/dejo1307/objc2swift/internal/intentions"
)

// PropertyMerge pairs explicit -name / -setName: methods with their property
// and folds the method bodies into the property's getter/setter slots. The
// folded methods no longer exist as independent intentions afterwards.
type PropertyMerge struct{}

func (*PropertyMerge) Name() string { return "property-merge" }

func (p *PropertyMerge) Apply(ctx *Context, col *intentions.Collection) error {
	col.EachType(func(_ *intentions.FileIntention, t intentions.TypeIntention) {
		switch n := t.(type) {
		case *intentions.ClassExtensionIntention:
			p.mergeType(&n.ClassIntention)
		case *intentions.ClassIntention:
			p.mergeType(n)
		}
	})
	return nil
}

func (p *PropertyMerge) mergeType(cls *intentions.ClassIntention) {
	for _, prop := range cls.Properties {
		getter := cls.MethodBySelector(prop.GetterSelector())
		setter := cls.MethodBySelector(prop.SetterSelector())
		if getter == nil && setter == nil {
			continue
		}

		if getter != nil {
			prop.Getter = getter.Body
			getter.History().Record(p.Name(), "folded into property %s as getter", prop.Name)
			cls.RemoveMethod(getter)
		}
		if setter != nil {
			prop.Setter = setter.Body
			setter.History().Record(p.Name(), "folded into property %s as setter", prop.Name)
			cls.RemoveMethod(setter)
		}

		switch {
		case getter != nil && setter != nil:
			prop.SetMode(p.Name(), intentions.ModeGetterSetter)
		case getter != nil && prop.Attributes.ReadOnly:
			prop.SetMode(p.Name(), intentions.ModeComputed)
		default:
			prop.SetMode(p.Name(), intentions.ModeGetterSetter)
		}
		prop.History().Record(p.Name(), "accessor methods folded in (getter=%v setter=%v)", getter != nil, setter != nil)
	}
}
