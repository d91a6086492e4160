package passes

import (
	"strings"
	"sync"

	"github.com/dejo1307/objc2swift/internal/intentions"
	"github.com/dejo1307/objc2swift/internal/swift"
)

// UsageSite records one reference to a declaration.
type UsageSite struct {
	// Owner describes the body holding the reference ("Type.selector" or a
	// function name).
	Owner string
	// Kind is the expression form of the reference.
	Kind string
}

// Usage maps declaration keys ("method:Type.sel", "property:Type.name",
// "enum:E.case", "global:name", "ivar:Type.name", "selector:name") to their
// reference sites. It is the data later body passes consume.
type Usage struct {
	mu    sync.RWMutex
	sites map[string][]UsageSite
}

// NewUsage creates an empty usage table.
func NewUsage() *Usage {
	return &Usage{sites: make(map[string][]UsageSite)}
}

// Record appends one reference site.
func (u *Usage) Record(key string, site UsageSite) {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.sites[key] = append(u.sites[key], site)
}

// Sites returns the reference sites for a declaration key.
func (u *Usage) Sites(key string) []UsageSite {
	u.mu.RLock()
	defer u.mu.RUnlock()
	return u.sites[key]
}

// Count returns the number of sites recorded for a key.
func (u *Usage) Count(key string) int {
	return len(u.Sites(key))
}

// Keys returns every recorded declaration key.
func (u *Usage) Keys() []string {
	u.mu.RLock()
	defer u.mu.RUnlock()
	keys := make([]string, 0, len(u.sites))
	for k := range u.sites {
		keys = append(keys, k)
	}
	return keys
}

// UsageAnalysis walks every function body and records, for each referenced
// declaration, the call or reference sites.
type UsageAnalysis struct{}

func (*UsageAnalysis) Name() string { return "usage-analysis" }

func (p *UsageAnalysis) Apply(ctx *Context, col *intentions.Collection) error {
	if ctx.Graph == nil {
		ctx.Graph = intentions.NewTypeGraph(col)
	}
	usage := NewUsage()
	ctx.Usage = usage

	col.EachType(func(_ *intentions.FileIntention, t intentions.TypeIntention) {
		switch n := t.(type) {
		case *intentions.ClassExtensionIntention:
			p.analyzeClass(ctx, usage, &n.ClassIntention)
		case *intentions.ClassIntention:
			p.analyzeClass(ctx, usage, n)
		}
	})
	for _, f := range col.Files() {
		for _, fn := range f.GlobalFuncs {
			if fn.Body != nil {
				p.analyzeBody(ctx, usage, fn.Signature.Name, "", fn.Body)
				fn.History().Record(p.Name(), "usage analyzed")
			}
		}
	}
	return nil
}

func (p *UsageAnalysis) analyzeClass(ctx *Context, usage *Usage, cls *intentions.ClassIntention) {
	for _, m := range cls.Methods {
		if m.Body != nil {
			owner := cls.TypeName + "." + m.Selector().String()
			p.analyzeBody(ctx, usage, owner, cls.TypeName, m.Body)
		}
	}
	for _, ini := range cls.Initializers {
		if ini.Body != nil {
			owner := cls.TypeName + "." + ini.Selector().String()
			p.analyzeBody(ctx, usage, owner, cls.TypeName, ini.Body)
		}
	}
	for _, prop := range cls.Properties {
		owner := cls.TypeName + "." + prop.Name
		if prop.Getter != nil {
			p.analyzeBody(ctx, usage, owner+".get", cls.TypeName, prop.Getter)
		}
		if prop.Setter != nil {
			p.analyzeBody(ctx, usage, owner+".set", cls.TypeName, prop.Setter)
		}
	}
}

func (p *UsageAnalysis) analyzeBody(ctx *Context, usage *Usage, owner, enclosingType string, body *swift.CompoundStmt) {
	g := ctx.Graph
	cls := g.Class(enclosingType)
	swift.WalkExprs(body, func(e swift.Expr) {
		switch n := e.(type) {
		case *swift.IdentifierExpr:
			name := n.Name
			if name == "self" || name == "super" {
				return
			}
			if enum, c := g.EnumWithCase(name); enum != nil {
				usage.Record("enum:"+enum.TypeName+"."+c.Name, UsageSite{Owner: owner, Kind: "identifier"})
				return
			}
			if cls != nil && strings.HasPrefix(name, "_") && cls.IVarByName(name) != nil {
				usage.Record("ivar:"+enclosingType+"."+name, UsageSite{Owner: owner, Kind: "identifier"})
				return
			}
			usage.Record("global:"+name, UsageSite{Owner: owner, Kind: "identifier"})

		case *swift.MemberAccessExpr:
			if base, ok := n.Base.(*swift.IdentifierExpr); ok && base.Name == "self" && cls != nil {
				switch {
				case cls.PropertyByName(n.Name) != nil:
					usage.Record("property:"+enclosingType+"."+n.Name, UsageSite{Owner: owner, Kind: "member"})
				case cls.IVarByName(n.Name) != nil:
					usage.Record("ivar:"+enclosingType+"."+n.Name, UsageSite{Owner: owner, Kind: "member"})
				}
			}

		case *swift.MethodCallExpr:
			if base, ok := n.Base.(*swift.IdentifierExpr); ok && cls != nil && (base.Name == "self" || base.Name == "super") {
				sel := selectorOfCall(n)
				usage.Record("method:"+enclosingType+"."+sel, UsageSite{Owner: owner, Kind: "call"})
				return
			}
			usage.Record("selector:"+selectorOfCall(n), UsageSite{Owner: owner, Kind: "call"})
		}
	})
}

// selectorOfCall reconstructs the selector spelling of a lowered call.
func selectorOfCall(call *swift.MethodCallExpr) string {
	if len(call.Args) == 0 {
		return call.Name
	}
	var sb strings.Builder
	sb.WriteString(call.Name)
	sb.WriteByte(':')
	for _, a := range call.Args[1:] {
		sb.WriteString(a.Label)
		sb.WriteByte(':')
	}
	return sb.String()
}
