package object

import (
	"fmt"

	"github.com/cmdneo/loxwalk/ast"
	"github.com/cmdneo/loxwalk/value"
)

// LoxFn is a Lox function or method value: its declaration plus the
// environment captured at the point of definition (its closure).
type LoxFn struct {
	Declaration   *ast.FunctionStmt
	Closure       *Environment
	IsInitializer bool
}

func NewLoxFn(decl *ast.FunctionStmt, closure *Environment, isInitializer bool) *LoxFn {
	return &LoxFn{Declaration: decl, Closure: closure, IsInitializer: isInitializer}
}

func (*LoxFn) LoxValueMarkerFunc() {}

func (f *LoxFn) String() string {
	return fmt.Sprintf("<fn/%d>", f.Arity())
}

func (f *LoxFn) Arity() int { return len(f.Declaration.Params) }

// Bind returns a new LoxFn whose closure is a fresh child of the
// current closure, in which "this" is bound to instance. Used when a
// method is looked up off an instance (Instance.Get) or off a
// superclass (the Super expression).
func (f *LoxFn) Bind(instance *LoxInstance) *LoxFn {
	env := NewChildEnvironment(f.Closure)
	env.Define("this", instance)
	return &LoxFn{Declaration: f.Declaration, Closure: env, IsInitializer: f.IsInitializer}
}

// NativeFn wraps a host-language builtin (clock, char, string,
// number, ...) so it can be called like any other Lox callable.
type NativeFn struct {
	Name string
	Arit int
	Fn   func(args []value.Value) value.Value
}

func (*NativeFn) LoxValueMarkerFunc() {}

func (n *NativeFn) String() string { return "<fn>" }

func (n *NativeFn) Arity() int { return n.Arit }
