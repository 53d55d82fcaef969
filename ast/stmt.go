package ast

import "github.com/cmdneo/loxwalk/token"

// Stmt is the interface implemented by every statement AST node.
type Stmt interface {
	Accept(StmtVisitor)
}

type StmtVisitor interface {
	VisitExprStmt(s *ExprStmt)
	VisitPrintStmt(s *PrintStmt)
	VisitVarStmt(s *VarStmt)
	VisitBlockStmt(s *BlockStmt)
	VisitIfStmt(s *IfStmt)
	VisitWhileStmt(s *WhileStmt)
	VisitFunctionStmt(s *FunctionStmt)
	VisitReturnStmt(s *ReturnStmt)
	VisitClassStmt(s *ClassStmt)
}

// ExprStmt evaluates an expression for its side effect and discards
// the value.
type ExprStmt struct {
	Expr Expr
}

// PrintStmt evaluates an expression and writes its stringified value
// followed by a newline to stdout.
type PrintStmt struct {
	Expr Expr
}

// VarStmt declares (and optionally initializes) a variable.
type VarStmt struct {
	Name        token.Token
	Initializer Expr // nil if no initializer was given; defaults to nil at runtime
}

// BlockStmt is a lexical block: its own child environment, executed
// top to bottom.
type BlockStmt struct {
	Statements []Stmt
}

type IfStmt struct {
	Condition  Expr
	ThenBranch Stmt
	ElseBranch Stmt // nil if there is no else branch
}

// WhileStmt is also the desugared target of 'for': the parser lowers
// for-loops into a Block containing the initializer followed by a
// While whose body is itself a Block of [original body, increment].
type WhileStmt struct {
	Condition Expr
	Body      Stmt
}

// FunctionStmt declares a named function or (inside a ClassStmt)
// method. Params is an ordered list of parameter names.
type FunctionStmt struct {
	Name   token.Token
	Params []token.Token
	Body   []Stmt
}

// ReturnStmt triggers a non-local exit out of the nearest enclosing
// function call, carrying Value (nil literal if omitted).
type ReturnStmt struct {
	Keyword token.Token
	Value   Expr // nil if no value was given; evaluates to nil at runtime
}

// ClassStmt declares a class. Superclass, if present, is always a
// Variable expression (resolved like any other name). Methods is an
// ordered list, matching declaration order in the source.
type ClassStmt struct {
	Name       token.Token
	Superclass *Variable
	Methods    []*FunctionStmt
}

func (s *ExprStmt) Accept(v StmtVisitor)     { v.VisitExprStmt(s) }
func (s *PrintStmt) Accept(v StmtVisitor)    { v.VisitPrintStmt(s) }
func (s *VarStmt) Accept(v StmtVisitor)      { v.VisitVarStmt(s) }
func (s *BlockStmt) Accept(v StmtVisitor)    { v.VisitBlockStmt(s) }
func (s *IfStmt) Accept(v StmtVisitor)       { v.VisitIfStmt(s) }
func (s *WhileStmt) Accept(v StmtVisitor)    { v.VisitWhileStmt(s) }
func (s *FunctionStmt) Accept(v StmtVisitor) { v.VisitFunctionStmt(s) }
func (s *ReturnStmt) Accept(v StmtVisitor)   { v.VisitReturnStmt(s) }
func (s *ClassStmt) Accept(v StmtVisitor)    { v.VisitClassStmt(s) }
