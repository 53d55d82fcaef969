package interpreter

import (
	"bytes"
	"strings"
	"testing"

	"github.com/cmdneo/loxwalk/parser"
	"github.com/cmdneo/loxwalk/resolver"
	"github.com/cmdneo/loxwalk/scanner"
)

func run(t *testing.T, source string) (string, error) {
	t.Helper()

	toks, err := scanner.New(source).Scan()
	if err != nil {
		t.Fatalf("scan error: %v", err)
	}
	stmts, err := parser.New(toks).Parse()
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}
	if err := resolver.New().Resolve(stmts); err != nil {
		return "", err
	}

	interp := New()
	var out bytes.Buffer
	interp.SetOutput(&out)

	if err := interp.Interpret(stmts); err != nil {
		return "", err
	}
	return out.String(), nil
}

func TestArithmeticAndPrint(t *testing.T) {
	out, err := run(t, `print 1 + 2 * 3;`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if strings.TrimSpace(out) != "7" {
		t.Fatalf("got %q", out)
	}
}

func TestGroupingChangesPrecedence(t *testing.T) {
	out, err := run(t, `print (1 + 2) * 3;`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if strings.TrimSpace(out) != "9" {
		t.Fatalf("got %q", out)
	}
}

func TestStringConcatenation(t *testing.T) {
	out, err := run(t, `print "a" + "b";`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if strings.TrimSpace(out) != "ab" {
		t.Fatalf("got %q", out)
	}
}

func TestMixedAddTypeErrorMessage(t *testing.T) {
	_, err := run(t, `print 1 + "a";`)
	if err == nil {
		t.Fatalf("expected a runtime error")
	}
	if err.Error() != "[line 1] Error: Operands must be two numbers or two strings." {
		t.Fatalf("got %q", err.Error())
	}
}

func TestClosuresCaptureByReference(t *testing.T) {
	out, err := run(t, `
var a = "global";
{
  fun show() { print a; }
  show();
  var a = "local";
  show();
}`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(out), "\n")
	if len(lines) != 2 || lines[0] != "global" || lines[1] != "global" {
		t.Fatalf("got %v", lines)
	}
}

func TestClassInitializerAndMethod(t *testing.T) {
	out, err := run(t, `
class Bacon {
  init(kind) { this.kind = kind; }
  eat() { print "Crunch " + this.kind + "!"; }
}
Bacon("veggie").eat();`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if strings.TrimSpace(out) != "Crunch veggie!" {
		t.Fatalf("got %q", out)
	}
}

func TestInheritanceAndSuper(t *testing.T) {
	out, err := run(t, `
class A { greet() { print "A"; } }
class B < A { greet() { super.greet(); print "B"; } }
B().greet();`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(out), "\n")
	if len(lines) != 2 || lines[0] != "A" || lines[1] != "B" {
		t.Fatalf("got %v", lines)
	}
}

func TestInitializerAlwaysReturnsThisEvenOnEarlyReturn(t *testing.T) {
	out, err := run(t, `
class Foo { init() { return; } }
var f = Foo();
print f;`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if strings.TrimSpace(out) != "Foo instance" {
		t.Fatalf("got %q", out)
	}
}

func TestResolverCatchesSelfReferenceInInitializer(t *testing.T) {
	toks, err := scanner.New(`{ var a = a; }`).Scan()
	if err != nil {
		t.Fatalf("scan error: %v", err)
	}
	stmts, err := parser.New(toks).Parse()
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}
	err = resolver.New().Resolve(stmts)
	if err == nil {
		t.Fatalf("expected a resolver error")
	}
	if err.Error() != "[line 1] Error: Can't read local variable 'a' in its own initializer." {
		t.Fatalf("got %q", err.Error())
	}
}

func TestForLoopDesugaring(t *testing.T) {
	out, err := run(t, `
var s = "";
for (var i = 0; i < 3; i = i + 1) s = s + "." ;
print s;`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if strings.TrimSpace(out) != "..." {
		t.Fatalf("got %q", out)
	}
}

func TestGlobalsPersistAcrossInterpretCalls(t *testing.T) {
	toks1, _ := scanner.New(`var count = 0;`).Scan()
	stmts1, _ := parser.New(toks1).Parse()
	resolver.New().Resolve(stmts1)

	interp := New()
	var out bytes.Buffer
	interp.SetOutput(&out)

	if err := interp.Interpret(stmts1); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	toks2, _ := scanner.New(`count = count + 1; print count;`).Scan()
	stmts2, _ := parser.New(toks2).Parse()
	resolver.New().Resolve(stmts2)

	if err := interp.Interpret(stmts2); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if strings.TrimSpace(out.String()) != "1" {
		t.Fatalf("got %q", out.String())
	}
}
