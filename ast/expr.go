package ast

import "github.com/cmdneo/loxwalk/token"

// Expr is the interface implemented by every expression AST node.
type Expr interface {
	Accept(ExprVisitor) any
}

type ExprVisitor interface {
	VisitLiteralExpr(e *Literal) any
	VisitGroupingExpr(e *Grouping) any
	VisitUnaryExpr(e *Unary) any
	VisitBinaryExpr(e *Binary) any
	VisitLogicalExpr(e *Logical) any
	VisitVariableExpr(e *Variable) any
	VisitAssignExpr(e *Assign) any
	VisitCallExpr(e *Call) any
	VisitGetExpr(e *Get) any
	VisitSetExpr(e *Set) any
	VisitThisExpr(e *This) any
	VisitSuperExpr(e *Super) any
}

// Literal is a literal nil/bool/number/string value.
type Literal struct {
	Value any
}

// Grouping is a parenthesized expression.
type Grouping struct {
	Expr Expr
}

// Unary is a prefix operator expression: !right or -right.
type Unary struct {
	Operator token.Token
	Right    Expr
}

// Binary is an infix arithmetic/comparison/equality expression.
type Binary struct {
	Left     Expr
	Operator token.Token
	Right    Expr
}

// Logical is 'and'/'or', which short-circuit and yield the
// determining operand's value rather than a coerced boolean.
type Logical struct {
	Left     Expr
	Operator token.Token
	Right    Expr
}

// Variable is a reference to a name. Depth is filled in by the
// resolver: -1 means "look it up in globals", >= 0 is the number of
// enclosing environment links to hop.
type Variable struct {
	Name  token.Token
	Depth int
}

// Assign stores Value into the variable named Name. Depth has the
// same meaning as on Variable and is filled in by the resolver.
type Assign struct {
	Name  token.Token
	Value Expr
	Depth int
}

// Call is a function/class/native invocation.
type Call struct {
	Callee Expr
	Paren  token.Token // used for error line reporting
	Args   []Expr
}

// Get reads a property (field or bound method) off an instance.
type Get struct {
	Object Expr
	Name   token.Token
}

// Set writes a field on an instance.
type Set struct {
	Object Expr
	Name   token.Token
	Value  Expr
}

// This resolves like a local variable named "this"; Depth is filled
// in by the resolver.
type This struct {
	Keyword token.Token
	Depth   int
}

// Super resolves "super" like a local variable one scope outside
// "this"; Depth is filled in by the resolver and refers to the scope
// holding "super" itself.
type Super struct {
	Keyword token.Token
	Method  token.Token
	Depth   int
}

func (e *Literal) Accept(v ExprVisitor) any  { return v.VisitLiteralExpr(e) }
func (e *Grouping) Accept(v ExprVisitor) any { return v.VisitGroupingExpr(e) }
func (e *Unary) Accept(v ExprVisitor) any    { return v.VisitUnaryExpr(e) }
func (e *Binary) Accept(v ExprVisitor) any   { return v.VisitBinaryExpr(e) }
func (e *Logical) Accept(v ExprVisitor) any  { return v.VisitLogicalExpr(e) }
func (e *Variable) Accept(v ExprVisitor) any { return v.VisitVariableExpr(e) }
func (e *Assign) Accept(v ExprVisitor) any   { return v.VisitAssignExpr(e) }
func (e *Call) Accept(v ExprVisitor) any     { return v.VisitCallExpr(e) }
func (e *Get) Accept(v ExprVisitor) any      { return v.VisitGetExpr(e) }
func (e *Set) Accept(v ExprVisitor) any      { return v.VisitSetExpr(e) }
func (e *This) Accept(v ExprVisitor) any     { return v.VisitThisExpr(e) }
func (e *Super) Accept(v ExprVisitor) any    { return v.VisitSuperExpr(e) }
