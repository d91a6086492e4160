package passes

import (
	"github.com/dejo1307/objc2swift/internal/intentions"
)

// DuplicateTypeRemoval drops the @interface-sourced class when the same file
// also holds the @implementation-sourced one: its content was already merged
// during File Grouping. Duplicate protocol declarations are deduplicated by
// name the same way.
type DuplicateTypeRemoval struct{}

func (*DuplicateTypeRemoval) Name() string { return "duplicate-type-removal" }

func (p *DuplicateTypeRemoval) Apply(ctx *Context, col *intentions.Collection) error {
	for _, f := range col.Files() {
		p.dedupeFile(f)
	}
	return nil
}

func (p *DuplicateTypeRemoval) dedupeFile(f *intentions.FileIntention) {
	hasImpl := make(map[string]bool)
	seenProtocols := make(map[string]bool)
	for _, t := range f.Types {
		if cls, ok := t.(*intentions.ClassIntention); ok && cls.DeclKind == intentions.FromImplementation {
			hasImpl[cls.TypeName] = true
		}
	}

	var removed []intentions.TypeIntention
	for _, t := range f.Types {
		switch n := t.(type) {
		case *intentions.ClassExtensionIntention:
		case *intentions.ClassIntention:
			if n.DeclKind == intentions.FromInterface && hasImpl[n.TypeName] {
				removed = append(removed, t)
			}
		case *intentions.ProtocolIntention:
			if seenProtocols[n.TypeName] {
				removed = append(removed, t)
			}
			seenProtocols[n.TypeName] = true
		}
	}
	for _, t := range removed {
		f.RemoveType(t)
		f.History().Record(p.Name(), "removed duplicate %s (already merged)", t.Name())
	}
}
