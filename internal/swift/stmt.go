package swift

import "github.com/dejo1307/objc2swift/internal/typesys"

// Stmt is a statement node.
type Stmt interface {
	isStmt()
}

// CompoundStmt is a braced block. Items holds statements and local variable
// declarations interleaved in source order; that order is an invariant the
// readers guard and the emitter preserves.
type CompoundStmt struct {
	Items []Stmt
}

// ExprStmt is an expression used as a statement.
type ExprStmt struct {
	Expr Expr
}

// VarDeclStmt declares one or more local variables in a single statement.
type VarDeclStmt struct {
	Decls []VarDecl
}

// VarDecl is a single local variable declaration.
type VarDecl struct {
	Name     string
	Type     typesys.Type
	HasType  bool
	Constant bool
	Initial  Expr
}

// IfStmt is if cond { } else { }. Else may be a CompoundStmt or another
// IfStmt (else-if chain).
type IfStmt struct {
	Cond Expr
	Then *CompoundStmt
	Else Stmt
	// Binding, when non-empty, renders the condition as "if let Binding =
	// cond". Set by the if-let body pass.
	Binding string
}

// WhileStmt is while cond { }.
type WhileStmt struct {
	Cond Expr
	Body *CompoundStmt
}

// RepeatWhileStmt is repeat { } while cond (do-while).
type RepeatWhileStmt struct {
	Cond Expr
	Body *CompoundStmt
}

// ForInStmt is for item in sequence { }. Fast enumeration and countable
// C loops both lower to this form.
type ForInStmt struct {
	Item     string
	Sequence Expr
	Body     *CompoundStmt
}

// SwitchCase is one case arm. A nil Patterns slice marks default.
type SwitchCase struct {
	Patterns []Expr
	Body     []Stmt
}

// SwitchStmt is switch subject { case ... }.
type SwitchStmt struct {
	Subject Expr
	Cases   []SwitchCase
}

// ReturnStmt returns an optional value.
type ReturnStmt struct {
	Value Expr
}

// BreakStmt breaks the enclosing loop or switch.
type BreakStmt struct{}

// ContinueStmt continues the enclosing loop.
type ContinueStmt struct{}

// CommentStmt preserves a comment or preprocessor directive in a body.
type CommentStmt struct {
	Text string
}

// UnknownStmt preserves a statement the readers could not map.
type UnknownStmt struct {
	Text string
}

func (*CompoundStmt) isStmt()    {}
func (*ExprStmt) isStmt()        {}
func (*VarDeclStmt) isStmt()     {}
func (*IfStmt) isStmt()          {}
func (*WhileStmt) isStmt()       {}
func (*RepeatWhileStmt) isStmt() {}
func (*ForInStmt) isStmt()       {}
func (*SwitchStmt) isStmt()      {}
func (*ReturnStmt) isStmt()      {}
func (*BreakStmt) isStmt()       {}
func (*ContinueStmt) isStmt()    {}
func (*CommentStmt) isStmt()     {}
func (*UnknownStmt) isStmt()     {}
