package resolver

import (
	"testing"

	"github.com/cmdneo/loxwalk/ast"
	"github.com/cmdneo/loxwalk/parser"
	"github.com/cmdneo/loxwalk/scanner"
)

func resolve(t *testing.T, source string) ([]ast.Stmt, error) {
	t.Helper()
	toks, err := scanner.New(source).Scan()
	if err != nil {
		t.Fatalf("scan error: %v", err)
	}
	stmts, err := parser.New(toks).Parse()
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}
	return stmts, New().Resolve(stmts)
}

func TestResolveGlobalStaysUnresolved(t *testing.T) {
	stmts, err := resolve(t, `var a = 1; print a;`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	exprStmt := stmts[1].(*ast.PrintStmt)
	v := exprStmt.Expr.(*ast.Variable)
	if v.Depth != -1 {
		t.Fatalf("expected global depth -1, got %d", v.Depth)
	}
}

func TestResolveLocalGetsDepthZero(t *testing.T) {
	stmts, err := resolve(t, `{ var a = 1; print a; }`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	block := stmts[0].(*ast.BlockStmt)
	printStmt := block.Statements[1].(*ast.PrintStmt)
	v := printStmt.Expr.(*ast.Variable)
	if v.Depth != 0 {
		t.Fatalf("expected depth 0, got %d", v.Depth)
	}
}

func TestResolveNestedBlockDepth(t *testing.T) {
	stmts, err := resolve(t, `{ var a = 1; { print a; } }`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	outer := stmts[0].(*ast.BlockStmt)
	inner := outer.Statements[1].(*ast.BlockStmt)
	printStmt := inner.Statements[0].(*ast.PrintStmt)
	v := printStmt.Expr.(*ast.Variable)
	if v.Depth != 1 {
		t.Fatalf("expected depth 1, got %d", v.Depth)
	}
}

func TestResolveSelfReferenceInInitializerErrors(t *testing.T) {
	_, err := resolve(t, `{ var a = a; }`)
	if err == nil {
		t.Fatalf("expected an error")
	}
	if err.Error() != "[line 1] Error: Can't read local variable 'a' in its own initializer." {
		t.Fatalf("got %q", err.Error())
	}
}

func TestResolveDuplicateLocalDeclarationErrors(t *testing.T) {
	_, err := resolve(t, `{ var a = 1; var a = 2; }`)
	if err == nil {
		t.Fatalf("expected an error")
	}
	if err.Error() != "[line 1] Error: Already a variable with this name in this scope." {
		t.Fatalf("got %q", err.Error())
	}
}

func TestResolveDuplicateGlobalDeclarationIsFine(t *testing.T) {
	_, err := resolve(t, `var a = 1; var a = 2;`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestResolveTopLevelReturnErrors(t *testing.T) {
	_, err := resolve(t, `return 1;`)
	if err == nil {
		t.Fatalf("expected an error")
	}
	if err.Error() != "[line 1] Error: Can't return from top-level code." {
		t.Fatalf("got %q", err.Error())
	}
}

func TestResolveReturnValueFromInitializerErrors(t *testing.T) {
	_, err := resolve(t, `class C { init() { return 1; } }`)
	if err == nil {
		t.Fatalf("expected an error")
	}
	if err.Error() != "[line 1] Error: Can't return a value from an initializer." {
		t.Fatalf("got %q", err.Error())
	}
}

func TestResolveClassInheritingFromItselfErrors(t *testing.T) {
	_, err := resolve(t, `class C < C {}`)
	if err == nil {
		t.Fatalf("expected an error")
	}
	if err.Error() != "[line 1] Error: A class can't inherit from itself." {
		t.Fatalf("got %q", err.Error())
	}
}

func TestResolveThisOutsideClassErrors(t *testing.T) {
	_, err := resolve(t, `print this;`)
	if err == nil {
		t.Fatalf("expected an error")
	}
	if err.Error() != "[line 1] Error: Can't use 'this' outside of a class." {
		t.Fatalf("got %q", err.Error())
	}
}

func TestResolveSuperOutsideClassErrors(t *testing.T) {
	_, err := resolve(t, `print super.foo;`)
	if err == nil {
		t.Fatalf("expected an error")
	}
	if err.Error() != "[line 1] Error: Can't use 'super' outside of a class." {
		t.Fatalf("got %q", err.Error())
	}
}

func TestResolveSuperWithNoSuperclassErrors(t *testing.T) {
	_, err := resolve(t, `class C { m() { super.foo(); } }`)
	if err == nil {
		t.Fatalf("expected an error")
	}
	if err.Error() != "[line 1] Error: Can't use 'super' in a class with no superclass." {
		t.Fatalf("got %q", err.Error())
	}
}

func TestResolveThisInMethodGetsDepth(t *testing.T) {
	stmts, err := resolve(t, `class C { m() { return this; } }`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	cls := stmts[0].(*ast.ClassStmt)
	method := cls.Methods[0]
	ret := method.Body[0].(*ast.ReturnStmt)
	this := ret.Value.(*ast.This)
	if this.Depth != 1 {
		t.Fatalf("expected depth 1 for 'this' (one hop past the parameter scope), got %d", this.Depth)
	}
}
