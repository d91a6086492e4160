// Package swift defines the Swift-shaped expression and statement trees that
// the readers lower Objective-C bodies into, together with a rewriting
// visitor and a source printer.
package swift

import "github.com/dejo1307/objc2swift/internal/typesys"

// Expr is an expression node.
type Expr interface {
	isExpr()
}

// Typed is implemented by expressions that the type-resolution pass can
// annotate with an inferred type.
type Typed interface {
	ResolvedType() *typesys.Type
	SetResolvedType(t *typesys.Type)
}

// typeInfo carries the inferred type annotation set by the body passes.
type typeInfo struct {
	resolved *typesys.Type
}

func (t *typeInfo) ResolvedType() *typesys.Type     { return t.resolved }
func (t *typeInfo) SetResolvedType(ty *typesys.Type) { t.resolved = ty }

// IdentifierExpr references a declaration by name.
type IdentifierExpr struct {
	typeInfo
	Name string
}

// MemberAccessExpr is base.Name.
type MemberAccessExpr struct {
	typeInfo
	Base Expr
	Name string
	// Optional marks optional chaining (base?.name), inserted by the body
	// passes when the base's resolved type is optional.
	Optional bool
}

// Arg is one call argument with an optional label.
type Arg struct {
	Label string
	Value Expr
}

// MethodCallExpr is base.Name(args...). A nil Base is a free function call.
type MethodCallExpr struct {
	typeInfo
	Base Expr
	Name string
	Args []Arg
	// Optional marks optional chaining on the receiver (base?.name(...)).
	Optional bool
}

// BinaryExpr is lhs op rhs.
type BinaryExpr struct {
	typeInfo
	Op  string
	LHS Expr
	RHS Expr
}

// PrefixExpr is op operand (!x, -x).
type PrefixExpr struct {
	typeInfo
	Op      string
	Operand Expr
}

// AssignmentExpr is target op value, where op is "=", "+=", "-=", etc.
type AssignmentExpr struct {
	typeInfo
	Op     string
	Target Expr
	Value  Expr
}

// TernaryExpr is cond ? then : else.
type TernaryExpr struct {
	typeInfo
	Cond Expr
	Then Expr
	Else Expr
}

// NilCoalesceExpr is lhs ?? rhs.
type NilCoalesceExpr struct {
	typeInfo
	LHS Expr
	RHS Expr
}

// LiteralKind discriminates literal constants.
type LiteralKind int

const (
	LiteralInt LiteralKind = iota
	LiteralFloat
	LiteralString
	LiteralBool
	LiteralNil
	// LiteralRaw preserves a constant that could not be reparsed (e.g. a
	// float spelling Swift rejects); emitted verbatim.
	LiteralRaw
)

// LiteralExpr is a constant.
type LiteralExpr struct {
	typeInfo
	Kind LiteralKind
	// Text is the Swift spelling of the constant.
	Text string
	// Base is the numeric base of an integer literal (10, 8, 2 or 16).
	Base int
}

// ArrayLiteralExpr is [a, b, c].
type ArrayLiteralExpr struct {
	typeInfo
	Elements []Expr
}

// DictLiteralExpr is [k: v, ...].
type DictLiteralExpr struct {
	typeInfo
	Keys   []Expr
	Values []Expr
}

// CastExpr converts an expression to a type. Numeric casts render as
// T(expr); reference casts render as expr as? T.
type CastExpr struct {
	typeInfo
	Expr    Expr
	Type    typesys.Type
	Numeric bool
}

// ClosureParam is one closure parameter with its explicit type.
type ClosureParam struct {
	Name string
	Type typesys.Type
}

// ClosureExpr is a block literal lowered to a Swift closure.
type ClosureExpr struct {
	typeInfo
	Params []ClosureParam
	Return typesys.Type
	Body   *CompoundStmt
}

// SelectorExpr is Selector("name:").
type SelectorExpr struct {
	typeInfo
	Name string
}

// SubscriptExpr is base[index].
type SubscriptExpr struct {
	typeInfo
	Base  Expr
	Index Expr
}

// ParenExpr preserves explicit grouping.
type ParenExpr struct {
	typeInfo
	Inner Expr
}

// UnknownExpr preserves a construct the readers could not map. The original
// source text is kept for human review.
type UnknownExpr struct {
	typeInfo
	Text string
}

func (*IdentifierExpr) isExpr()   {}
func (*MemberAccessExpr) isExpr() {}
func (*MethodCallExpr) isExpr()   {}
func (*BinaryExpr) isExpr()       {}
func (*PrefixExpr) isExpr()       {}
func (*AssignmentExpr) isExpr()   {}
func (*TernaryExpr) isExpr()      {}
func (*NilCoalesceExpr) isExpr()  {}
func (*LiteralExpr) isExpr()      {}
func (*ArrayLiteralExpr) isExpr() {}
func (*DictLiteralExpr) isExpr()  {}
func (*CastExpr) isExpr()         {}
func (*ClosureExpr) isExpr()      {}
func (*SelectorExpr) isExpr()     {}
func (*SubscriptExpr) isExpr()    {}
func (*ParenExpr) isExpr()        {}
func (*UnknownExpr) isExpr()      {}

// Ident is a convenience constructor for IdentifierExpr.
func Ident(name string) *IdentifierExpr {
	return &IdentifierExpr{Name: name}
}

// Member is a convenience constructor for MemberAccessExpr.
func Member(base Expr, name string) *MemberAccessExpr {
	return &MemberAccessExpr{Base: base, Name: name}
}

// IntLit is a convenience constructor for a decimal integer literal.
func IntLit(text string) *LiteralExpr {
	return &LiteralExpr{Kind: LiteralInt, Text: text, Base: 10}
}

// NilLit is the nil literal.
func NilLit() *LiteralExpr {
	return &LiteralExpr{Kind: LiteralNil, Text: "nil"}
}
