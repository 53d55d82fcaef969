// Package interpreter is the tree-walking evaluator: it executes the
// statement list the parser and resolver produced, against a chain
// of object.Environment frames rooted at a persistent set of globals.
package interpreter

import (
	"fmt"
	"io"
	"os"

	"github.com/cmdneo/loxwalk/ast"
	"github.com/cmdneo/loxwalk/loxerr"
	"github.com/cmdneo/loxwalk/object"
	"github.com/cmdneo/loxwalk/token"
	"github.com/cmdneo/loxwalk/value"
)

// controlReturn unwinds the Go call stack back to the function
// activation's call site, carrying the returned value.
type controlReturn struct{ value value.Value }

type Interpreter struct {
	globals *object.Environment
	env     *object.Environment

	stdout io.Writer
}

func New() *Interpreter {
	globals := object.NewEnvironment()
	for _, n := range object.Natives() {
		globals.Define(n.Name, n)
	}

	return &Interpreter{globals: globals, env: globals, stdout: os.Stdout}
}

// SetOutput redirects Print statements away from os.Stdout; tests use
// this to capture output, the REPL/file driver leaves it unset.
func (i *Interpreter) SetOutput(w io.Writer) { i.stdout = w }

// Interpret executes statements against the interpreter's persistent
// environment and returns the first runtime error, if any. Globals
// (and any top-level locals, since top-level code runs in globals'
// own frame) survive across calls, so a REPL can build up state one
// line at a time.
func (i *Interpreter) Interpret(statements []ast.Stmt) (err error) {
	defer func() {
		if r := recover(); r != nil {
			e, ok := r.(*loxerr.Error)
			if !ok {
				panic(r)
			}
			err = e
		}
	}()

	for _, stmt := range statements {
		i.execute(stmt)
	}
	return nil
}

// Statement visitors
// --------------------------------------------------------
func (i *Interpreter) VisitExprStmt(s *ast.ExprStmt) { i.evaluate(s.Expr) }

func (i *Interpreter) VisitPrintStmt(s *ast.PrintStmt) {
	fmt.Fprintln(i.stdout, i.evaluate(s.Expr).String())
}

func (i *Interpreter) VisitVarStmt(s *ast.VarStmt) {
	var v value.Value = value.Nil{}
	if s.Initializer != nil {
		v = i.evaluate(s.Initializer)
	}
	i.env.Define(s.Name.Lexeme, v)
}

func (i *Interpreter) VisitBlockStmt(s *ast.BlockStmt) {
	i.executeBlock(s.Statements, object.NewChildEnvironment(i.env))
}

func (i *Interpreter) VisitIfStmt(s *ast.IfStmt) {
	if value.Truthy(i.evaluate(s.Condition)) {
		i.execute(s.ThenBranch)
	} else if s.ElseBranch != nil {
		i.execute(s.ElseBranch)
	}
}

func (i *Interpreter) VisitWhileStmt(s *ast.WhileStmt) {
	for value.Truthy(i.evaluate(s.Condition)) {
		i.execute(s.Body)
	}
}

func (i *Interpreter) VisitFunctionStmt(s *ast.FunctionStmt) {
	fn := object.NewLoxFn(s, i.env, false)
	i.env.Define(s.Name.Lexeme, fn)
}

func (i *Interpreter) VisitReturnStmt(s *ast.ReturnStmt) {
	var v value.Value = value.Nil{}
	if s.Value != nil {
		v = i.evaluate(s.Value)
	}
	panic(controlReturn{value: v})
}

func (i *Interpreter) VisitClassStmt(s *ast.ClassStmt) {
	var superclass *object.LoxClass
	if s.Superclass != nil {
		sv := i.evaluate(s.Superclass)
		sc, ok := sv.(*object.LoxClass)
		if !ok {
			panic(i.runtimeError(s.Superclass.Name, "Superclass must be a class."))
		}
		superclass = sc
	}

	// The class's own name is declared ahead of its body so methods
	// can refer to the class recursively; defined once evaluation of
	// the class (and a possible superclass expression) is complete.
	i.env.Define(s.Name.Lexeme, value.Nil{})

	env := i.env
	if s.Superclass != nil {
		env = object.NewChildEnvironment(i.env)
		env.Define("super", superclass)
	}

	methods := make(map[string]*object.LoxFn, len(s.Methods))
	for _, m := range s.Methods {
		methods[m.Name.Lexeme] = object.NewLoxFn(m, env, m.Name.Lexeme == "init")
	}

	class := object.NewLoxClass(s.Name.Lexeme, methods, superclass)
	i.env.Assign(s.Name.Lexeme, class)
}

// Expression visitors
// --------------------------------------------------------
func (i *Interpreter) VisitLiteralExpr(e *ast.Literal) any {
	return literalValue(e.Value)
}

func literalValue(v any) value.Value {
	switch t := v.(type) {
	case nil:
		return value.Nil{}
	case bool:
		return value.Bool(t)
	case float64:
		return value.Number(t)
	case string:
		return value.String(t)
	default:
		panic(fmt.Sprintf("internal error: unexpected literal type %T", v))
	}
}

func (i *Interpreter) VisitGroupingExpr(e *ast.Grouping) any {
	return i.evaluate(e.Expr)
}

func (i *Interpreter) VisitUnaryExpr(e *ast.Unary) any {
	right := i.evaluate(e.Right)

	switch e.Operator.Kind {
	case token.BANG:
		return value.Bool(!value.Truthy(right))
	case token.MINUS:
		n, ok := right.(value.Number)
		if !ok {
			panic(i.runtimeError(e.Operator, "Operand must be a number."))
		}
		return -n
	default:
		panic("internal error: invalid unary operator")
	}
}

func (i *Interpreter) VisitBinaryExpr(e *ast.Binary) any {
	left := i.evaluate(e.Left)
	right := i.evaluate(e.Right)

	switch e.Operator.Kind {
	case token.PLUS:
		if ln, lok := left.(value.Number); lok {
			if rn, rok := right.(value.Number); rok {
				return ln + rn
			}
		}
		if ls, lok := left.(value.String); lok {
			if rs, rok := right.(value.String); rok {
				return ls + rs
			}
		}
		panic(i.runtimeError(e.Operator, "Operands must be two numbers or two strings."))

	case token.MINUS:
		l, r := i.bothNumbers(e.Operator, left, right)
		return l - r
	case token.STAR:
		l, r := i.bothNumbers(e.Operator, left, right)
		return l * r
	case token.SLASH:
		l, r := i.bothNumbers(e.Operator, left, right)
		return l / r

	case token.GREATER:
		l, r := i.bothNumbers(e.Operator, left, right)
		return value.Bool(l > r)
	case token.GREATER_EQUAL:
		l, r := i.bothNumbers(e.Operator, left, right)
		return value.Bool(l >= r)
	case token.LESS:
		l, r := i.bothNumbers(e.Operator, left, right)
		return value.Bool(l < r)
	case token.LESS_EQUAL:
		l, r := i.bothNumbers(e.Operator, left, right)
		return value.Bool(l <= r)

	case token.EQUAL_EQUAL:
		return value.Bool(value.Equal(left, right))
	case token.BANG_EQUAL:
		return value.Bool(!value.Equal(left, right))

	default:
		panic("internal error: invalid binary operator")
	}
}

func (i *Interpreter) bothNumbers(op token.Token, left, right value.Value) (value.Number, value.Number) {
	l, lok := left.(value.Number)
	r, rok := right.(value.Number)
	if !lok || !rok {
		panic(i.runtimeError(op, "Operands must be numbers."))
	}
	return l, r
}

func (i *Interpreter) VisitLogicalExpr(e *ast.Logical) any {
	left := i.evaluate(e.Left)

	switch e.Operator.Kind {
	case token.OR:
		if value.Truthy(left) {
			return left
		}
	case token.AND:
		if !value.Truthy(left) {
			return left
		}
	default:
		panic("internal error: invalid logical operator")
	}

	return i.evaluate(e.Right)
}

func (i *Interpreter) VisitVariableExpr(e *ast.Variable) any {
	return i.lookUpVariable(e.Name, e.Depth)
}

func (i *Interpreter) lookUpVariable(name token.Token, depth int) value.Value {
	if depth >= 0 {
		return i.env.GetAt(depth, name.Lexeme)
	}
	if v, ok := i.globals.Get(name.Lexeme); ok {
		return v
	}
	panic(i.runtimeError(name, "Undefined variable '%s'.", name.Lexeme))
}

func (i *Interpreter) VisitAssignExpr(e *ast.Assign) any {
	v := i.evaluate(e.Value)

	if e.Depth >= 0 {
		i.env.AssignAt(e.Depth, e.Name.Lexeme, v)
		return v
	}
	if i.globals.Assign(e.Name.Lexeme, v) {
		return v
	}
	panic(i.runtimeError(e.Name, "Undefined variable '%s'.", e.Name.Lexeme))
}

func (i *Interpreter) VisitCallExpr(e *ast.Call) any {
	callee := i.evaluate(e.Callee)

	args := make([]value.Value, len(e.Args))
	for idx, a := range e.Args {
		args[idx] = i.evaluate(a)
	}

	return i.call(callee, e.Paren, args)
}

type callable interface {
	Arity() int
}

func (i *Interpreter) call(callee value.Value, paren token.Token, args []value.Value) value.Value {
	switch fn := callee.(type) {
	case *object.LoxFn:
		return i.callLoxFn(fn, paren, args)
	case *object.NativeFn:
		i.checkArity(fn, paren, args)
		return i.callNative(fn, paren, args)
	case *object.LoxClass:
		i.checkArity(fn, paren, args)
		instance := object.NewLoxInstance(fn)
		if init := fn.FindMethod("init"); init != nil {
			i.callLoxFn(init.Bind(instance), paren, args)
		}
		return instance
	default:
		panic(i.runtimeError(paren, "Can only call functions and classes."))
	}
}

func (i *Interpreter) checkArity(fn callable, paren token.Token, args []value.Value) {
	if fn.Arity() != len(args) {
		panic(i.runtimeError(paren, "Expected %d arguments but got %d.", fn.Arity(), len(args)))
	}
}

func (i *Interpreter) callLoxFn(fn *object.LoxFn, paren token.Token, args []value.Value) (result value.Value) {
	i.checkArity(fn, paren, args)

	env := object.NewChildEnvironment(fn.Closure)
	for idx, param := range fn.Declaration.Params {
		env.Define(param.Lexeme, args[idx])
	}

	result = value.Nil{}
	if fn.IsInitializer {
		result = fn.Closure.GetAt(0, "this")
	}

	func() {
		defer func() {
			if r := recover(); r != nil {
				ret, ok := r.(controlReturn)
				if !ok {
					panic(r)
				}
				if fn.IsInitializer {
					result = fn.Closure.GetAt(0, "this")
				} else {
					result = ret.value
				}
			}
		}()
		i.executeBlock(fn.Declaration.Body, env)
	}()

	return result
}

func (i *Interpreter) callNative(fn *object.NativeFn, paren token.Token, args []value.Value) value.Value {
	defer func() {
		if r := recover(); r != nil {
			if ne, ok := r.(object.NativeError); ok {
				panic(i.runtimeError(paren, "%s", ne.Error()))
			}
			panic(r)
		}
	}()
	return fn.Fn(args)
}

func (i *Interpreter) VisitGetExpr(e *ast.Get) any {
	obj := i.evaluate(e.Object)

	inst, ok := obj.(*object.LoxInstance)
	if !ok {
		panic(i.runtimeError(e.Name, "Only instances have properties."))
	}

	v, ok := inst.Get(e.Name.Lexeme)
	if !ok {
		panic(i.runtimeError(e.Name, "Undefined property '%s'.", e.Name.Lexeme))
	}
	return v
}

func (i *Interpreter) VisitSetExpr(e *ast.Set) any {
	obj := i.evaluate(e.Object)

	inst, ok := obj.(*object.LoxInstance)
	if !ok {
		panic(i.runtimeError(e.Name, "Only instances have fields."))
	}

	v := i.evaluate(e.Value)
	inst.Set(e.Name.Lexeme, v)
	return v
}

func (i *Interpreter) VisitThisExpr(e *ast.This) any {
	return i.lookUpVariable(e.Keyword, e.Depth)
}

func (i *Interpreter) VisitSuperExpr(e *ast.Super) any {
	superAny := i.env.GetAt(e.Depth, "super")
	super := superAny.(*object.LoxClass)

	// "this" always lives one environment frame closer than "super".
	thisAny := i.env.GetAt(e.Depth-1, "this")
	this := thisAny.(*object.LoxInstance)

	method := super.FindMethod(e.Method.Lexeme)
	if method == nil {
		panic(i.runtimeError(e.Method, "Undefined property '%s'.", e.Method.Lexeme))
	}
	return method.Bind(this)
}

// Utilities
// --------------------------------------------------------
func (i *Interpreter) execute(s ast.Stmt) { s.Accept(i) }

func (i *Interpreter) evaluate(e ast.Expr) value.Value {
	return e.Accept(i).(value.Value)
}

func (i *Interpreter) executeBlock(statements []ast.Stmt, env *object.Environment) {
	previous := i.env
	i.env = env
	defer func() { i.env = previous }()

	for _, stmt := range statements {
		i.execute(stmt)
	}
}

func (i *Interpreter) runtimeError(tok token.Token, format string, args ...any) *loxerr.Error {
	return loxerr.New(tok.Line, format, args...)
}
