// Package resolver performs the static scope pass: it walks the AST
// the parser produced and fills in every Depth field (on Variable,
// Assign, This and Super nodes) with the number of environment links
// an evaluator must hop to find the binding. It also performs the
// purely static checks the parser cannot: self-reference in an
// initializer, top-level return, and the this/super misuse cases.
package resolver

import (
	"github.com/cmdneo/loxwalk/ast"
	"github.com/cmdneo/loxwalk/loxerr"
	"github.com/cmdneo/loxwalk/token"
	"github.com/cmdneo/loxwalk/util"
)

type functionKind uint8

const (
	kindNoFunction functionKind = iota
	kindFunction
	kindMethod
	kindInitializer
)

type classKind uint8

const (
	kindNoClass classKind = iota
	kindClass
	kindSubclass
)

// state tracks whether a name has been declared (put in scope but not
// yet initialized) or defined (safe to read).
type state struct {
	defined bool
}

type scope = map[string]*state

type Resolver struct {
	scopes []scope

	currentFunction functionKind
	currentClass    classKind
}

func New() *Resolver {
	return &Resolver{}
}

// Resolve walks stmts in order, mutating their Depth fields in
// place. It stops and returns the first error encountered: unlike
// the scanner and parser, resolution errors are not accumulated,
// since a single scope mistake tends to cascade into spurious
// follow-on ones.
func (r *Resolver) Resolve(stmts []ast.Stmt) error {
	var err error
	func() {
		defer func() {
			if rec := recover(); rec != nil {
				e, ok := rec.(*loxerr.Error)
				if !ok {
					panic(rec)
				}
				err = e
			}
		}()
		r.resolveStmts(stmts)
	}()
	return err
}

func (r *Resolver) resolveStmts(stmts []ast.Stmt) {
	for _, s := range stmts {
		r.resolveStmt(s)
	}
}

func (r *Resolver) resolveStmt(s ast.Stmt) { s.Accept(r) }
func (r *Resolver) resolveExpr(e ast.Expr) { e.Accept(r) }

// Stmt visitors
// --------------------------------------------------------
func (r *Resolver) VisitExprStmt(s *ast.ExprStmt) { r.resolveExpr(s.Expr) }

func (r *Resolver) VisitPrintStmt(s *ast.PrintStmt) { r.resolveExpr(s.Expr) }

func (r *Resolver) VisitVarStmt(s *ast.VarStmt) {
	r.declare(s.Name)
	if s.Initializer != nil {
		r.resolveExpr(s.Initializer)
	}
	r.define(s.Name)
}

func (r *Resolver) VisitBlockStmt(s *ast.BlockStmt) {
	r.pushScope()
	defer r.popScope()
	r.resolveStmts(s.Statements)
}

func (r *Resolver) VisitIfStmt(s *ast.IfStmt) {
	r.resolveExpr(s.Condition)
	r.resolveStmt(s.ThenBranch)
	if s.ElseBranch != nil {
		r.resolveStmt(s.ElseBranch)
	}
}

func (r *Resolver) VisitWhileStmt(s *ast.WhileStmt) {
	r.resolveExpr(s.Condition)
	r.resolveStmt(s.Body)
}

func (r *Resolver) VisitFunctionStmt(s *ast.FunctionStmt) {
	r.declare(s.Name)
	r.define(s.Name)
	r.resolveFunction(s, kindFunction)
}

func (r *Resolver) resolveFunction(s *ast.FunctionStmt, kind functionKind) {
	enclosingFunction := r.currentFunction
	r.currentFunction = kind
	defer func() { r.currentFunction = enclosingFunction }()

	r.pushScope()
	defer r.popScope()

	for _, param := range s.Params {
		r.declare(param)
		r.define(param)
	}
	r.resolveStmts(s.Body)
}

func (r *Resolver) VisitReturnStmt(s *ast.ReturnStmt) {
	if r.currentFunction == kindNoFunction {
		r.errorAt(s.Keyword, "Can't return from top-level code.")
	}

	if s.Value != nil {
		if r.currentFunction == kindInitializer {
			r.errorAt(s.Keyword, "Can't return a value from an initializer.")
		}
		r.resolveExpr(s.Value)
	}
}

func (r *Resolver) VisitClassStmt(s *ast.ClassStmt) {
	enclosingClass := r.currentClass
	r.currentClass = kindClass
	defer func() { r.currentClass = enclosingClass }()

	r.declare(s.Name)
	r.define(s.Name)

	if s.Superclass != nil {
		if s.Superclass.Name.Lexeme == s.Name.Lexeme {
			r.errorAt(s.Superclass.Name, "A class can't inherit from itself.")
		}
		r.currentClass = kindSubclass
		r.resolveExpr(s.Superclass)

		r.pushScope()
		defer r.popScope()
		r.defineName("super")
	}

	r.pushScope()
	defer r.popScope()
	r.defineName("this")

	for _, method := range s.Methods {
		kind := kindMethod
		if method.Name.Lexeme == "init" {
			kind = kindInitializer
		}
		r.resolveFunction(method, kind)
	}
}

// Expr visitors
// --------------------------------------------------------
func (r *Resolver) VisitLiteralExpr(e *ast.Literal) any { return nil }

func (r *Resolver) VisitGroupingExpr(e *ast.Grouping) any {
	r.resolveExpr(e.Expr)
	return nil
}

func (r *Resolver) VisitUnaryExpr(e *ast.Unary) any {
	r.resolveExpr(e.Right)
	return nil
}

func (r *Resolver) VisitBinaryExpr(e *ast.Binary) any {
	r.resolveExpr(e.Left)
	r.resolveExpr(e.Right)
	return nil
}

func (r *Resolver) VisitLogicalExpr(e *ast.Logical) any {
	r.resolveExpr(e.Left)
	r.resolveExpr(e.Right)
	return nil
}

func (r *Resolver) VisitVariableExpr(e *ast.Variable) any {
	if len(r.scopes) > 0 {
		if st, ok := (*util.Last(r.scopes))[e.Name.Lexeme]; ok && !st.defined {
			r.errorAt(e.Name, "Can't read local variable '%s' in its own initializer.", e.Name.Lexeme)
		}
	}
	e.Depth = r.resolveLocal(e.Name)
	return nil
}

func (r *Resolver) VisitAssignExpr(e *ast.Assign) any {
	r.resolveExpr(e.Value)
	e.Depth = r.resolveLocal(e.Name)
	return nil
}

func (r *Resolver) VisitCallExpr(e *ast.Call) any {
	r.resolveExpr(e.Callee)
	for _, arg := range e.Args {
		r.resolveExpr(arg)
	}
	return nil
}

func (r *Resolver) VisitGetExpr(e *ast.Get) any {
	r.resolveExpr(e.Object)
	return nil
}

func (r *Resolver) VisitSetExpr(e *ast.Set) any {
	r.resolveExpr(e.Value)
	r.resolveExpr(e.Object)
	return nil
}

func (r *Resolver) VisitThisExpr(e *ast.This) any {
	if r.currentClass == kindNoClass {
		r.errorAt(e.Keyword, "Can't use 'this' outside of a class.")
	}
	e.Depth = r.resolveLocal(e.Keyword)
	return nil
}

func (r *Resolver) VisitSuperExpr(e *ast.Super) any {
	switch r.currentClass {
	case kindNoClass:
		r.errorAt(e.Keyword, "Can't use 'super' outside of a class.")
	case kindClass:
		r.errorAt(e.Keyword, "Can't use 'super' in a class with no superclass.")
	}
	e.Depth = r.resolveLocal(e.Keyword)
	return nil
}

// Scope management
// --------------------------------------------------------
func (r *Resolver) pushScope() { r.scopes = append(r.scopes, make(scope)) }

func (r *Resolver) popScope() { util.Pop(&r.scopes) }

func (r *Resolver) declare(name token.Token) {
	if len(r.scopes) == 0 {
		return
	}
	sc := util.Last(r.scopes)
	if _, ok := (*sc)[name.Lexeme]; ok {
		r.errorAt(name, "Already a variable with this name in this scope.")
	}
	(*sc)[name.Lexeme] = &state{defined: false}
}

func (r *Resolver) define(name token.Token) { r.defineName(name.Lexeme) }

func (r *Resolver) defineName(name string) {
	if len(r.scopes) == 0 {
		return
	}
	(*util.Last(r.scopes))[name] = &state{defined: true}
}

// resolveLocal returns the number of environment hops from the
// innermost scope out to the one declaring name, or -1 if name was
// never found in a local scope (global lookup at runtime).
func (r *Resolver) resolveLocal(name token.Token) int {
	for i := len(r.scopes) - 1; i >= 0; i-- {
		if _, ok := r.scopes[i][name.Lexeme]; ok {
			return len(r.scopes) - 1 - i
		}
	}
	return -1
}

// Error reporting
// --------------------------------------------------------
func (r *Resolver) errorAt(tok token.Token, format string, args ...any) {
	if tok.Kind == token.END_OF_FILE {
		panic(loxerr.AtEnd(format, args...))
	}
	panic(loxerr.New(tok.Line, format, args...))
}
