package object

// LoxClass is a Lox class: its methods and, optionally, the
// superclass it inherits from.
type LoxClass struct {
	Name       string
	Methods    map[string]*LoxFn
	Superclass *LoxClass
}

func NewLoxClass(name string, methods map[string]*LoxFn, superclass *LoxClass) *LoxClass {
	return &LoxClass{Name: name, Methods: methods, Superclass: superclass}
}

func (*LoxClass) LoxValueMarkerFunc() {}

func (c *LoxClass) String() string { return c.Name }

// FindMethod looks up name in this class's own methods, falling back
// to the superclass chain.
func (c *LoxClass) FindMethod(name string) *LoxFn {
	if m, ok := c.Methods[name]; ok {
		return m
	}
	if c.Superclass != nil {
		return c.Superclass.FindMethod(name)
	}
	return nil
}

// Arity is the arity of the "init" method if the class has one,
// otherwise zero.
func (c *LoxClass) Arity() int {
	if init := c.FindMethod("init"); init != nil {
		return init.Arity()
	}
	return 0
}

