package object

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/cmdneo/loxwalk/value"
)

// NativeError is panicked by a NativeFn's Fn on a domain/type error;
// the evaluator's call dispatch catches it and reports it as a
// runtime error at the call site, the same way any other runtime
// error is reported.
type NativeError struct{ Message string }

func (e NativeError) Error() string { return e.Message }

func nativeErrorf(format string, args ...any) NativeError {
	return NativeError{Message: fmt.Sprintf(format, args...)}
}

var stdin = bufio.NewReader(os.Stdin)

// Natives returns the table of built-in functions installed into
// globals before any source is evaluated: clock, char, string, number,
// plus a handful of reflective helpers (getattr, setattr, delattr,
// isinstance).
func Natives() []*NativeFn {
	return []*NativeFn{
		{Name: "clock", Arit: 0, Fn: clock},
		{Name: "char", Arit: 0, Fn: readChar},
		{Name: "string", Arit: 0, Fn: readString},
		{Name: "number", Arit: 0, Fn: readNumber},
		{Name: "getattr", Arit: 2, Fn: getattr},
		{Name: "setattr", Arit: 3, Fn: setattr},
		{Name: "delattr", Arit: 2, Fn: delattr},
		{Name: "isinstance", Arit: 2, Fn: isinstance},
	}
}

func clock(args []value.Value) value.Value {
	return value.Number(float64(time.Now().UnixNano()) / 1e9)
}

func readChar(args []value.Value) value.Value {
	b, err := stdin.ReadByte()
	if err != nil {
		return value.Nil{}
	}
	return value.String(string(b))
}

func readString(args []value.Value) value.Value {
	line, err := stdin.ReadString('\n')
	if err != nil && line == "" {
		return value.Nil{}
	}
	return value.String(strings.TrimRight(line, "\r\n"))
}

func readNumber(args []value.Value) value.Value {
	line, err := stdin.ReadString('\n')
	if err != nil && line == "" {
		return value.Nil{}
	}
	n, err := strconv.ParseFloat(strings.TrimSpace(line), 64)
	if err != nil {
		return value.Nil{}
	}
	return value.Number(n)
}

func getattr(args []value.Value) value.Value {
	inst := extractArg[*LoxInstance](args[0], "First argument to 'getattr' must be an instance.")
	field := extractArg[value.String](args[1], "Second argument to 'getattr' must be a string.")

	if v, ok := inst.Get(string(field)); ok {
		return v
	}
	panic(nativeErrorf("Instance has no attribute '%s'.", field))
}

func setattr(args []value.Value) value.Value {
	inst := extractArg[*LoxInstance](args[0], "First argument to 'setattr' must be an instance.")
	field := extractArg[value.String](args[1], "Second argument to 'setattr' must be a string.")

	inst.Set(string(field), args[2])
	return args[2]
}

func delattr(args []value.Value) value.Value {
	inst := extractArg[*LoxInstance](args[0], "First argument to 'delattr' must be an instance.")
	field := extractArg[value.String](args[1], "Second argument to 'delattr' must be a string.")

	if _, ok := inst.Fields[string(field)]; !ok {
		panic(nativeErrorf("Instance has no attribute '%s'.", field))
	}
	delete(inst.Fields, string(field))
	return value.Nil{}
}

func isinstance(args []value.Value) value.Value {
	inst := extractArg[*LoxInstance](args[0], "First argument to 'isinstance' must be an instance.")
	class := extractArg[*LoxClass](args[1], "Second argument to 'isinstance' must be a class.")

	for c := inst.Class; c != nil; c = c.Superclass {
		if c == class {
			return value.Bool(true)
		}
	}
	return value.Bool(false)
}

func extractArg[T value.Value](arg value.Value, message string) T {
	if v, ok := arg.(T); ok {
		return v
	}
	panic(nativeErrorf(message))
}
