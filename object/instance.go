package object

import (
	"fmt"

	"github.com/cmdneo/loxwalk/value"
)

// LoxInstance is an instance of a LoxClass: its own mutable field
// map plus a reference to its class for method lookup.
type LoxInstance struct {
	Class  *LoxClass
	Fields map[string]value.Value
}

func NewLoxInstance(class *LoxClass) *LoxInstance {
	return &LoxInstance{Class: class, Fields: make(map[string]value.Value)}
}

func (*LoxInstance) LoxValueMarkerFunc() {}

func (i *LoxInstance) String() string {
	return fmt.Sprintf("%s instance", i.Class.Name)
}

// Get returns a field if present, otherwise the class's method bound
// to this instance, otherwise reports failure.
func (i *LoxInstance) Get(name string) (value.Value, bool) {
	if v, ok := i.Fields[name]; ok {
		return v, true
	}
	if m := i.Class.FindMethod(name); m != nil {
		return m.Bind(i), true
	}
	return nil, false
}

// Set inserts or overwrites a field.
func (i *LoxInstance) Set(name string, v value.Value) {
	i.Fields[name] = v
}
