// Package ir models the object-oriented intermediate representation consumed
// by the analyses in this module: classes with single-inheritance, fields,
// methods and their statement lists, and the class hierarchy with virtual
// dispatch.
//
// A [World] is immutable once built. Programs are constructed from a
// [ProgramSpec], either programmatically or via [LoadYAML].
package ir

import "fmt"

// Class is a class or interface declaration.
type Class struct {
	Name       string
	Super      *Class
	Interfaces []*Class
	Interface  bool

	Fields  []*Field
	Methods []*Method
}

func (c *Class) String() string { return c.Name }

// DeclaredMethod returns the method with the given subsignature declared
// directly on c, or nil.
func (c *Class) DeclaredMethod(subsig string) *Method {
	for _, m := range c.Methods {
		if m.Subsignature == subsig {
			return m
		}
	}
	return nil
}

// DeclaredField returns the field with the given name declared directly on c,
// or nil.
func (c *Class) DeclaredField(name string) *Field {
	for _, f := range c.Fields {
		if f.Name == name {
			return f
		}
	}
	return nil
}

// Field is a field declaration. Static fields belong to the class itself,
// instance fields to each object of the class.
type Field struct {
	Class  *Class
	Name   string
	Static bool
}

func (f *Field) String() string { return f.Class.Name + "." + f.Name }

// FieldRef is an unresolved reference to a field, as it appears in a
// load/store statement.
type FieldRef struct {
	Class  *Class
	Name   string
	Static bool
}

// Resolve finds the referenced field declaration, searching the superclass
// chain starting at the referenced class. A reference that resolves nowhere
// is malformed input and panics.
func (r FieldRef) Resolve() *Field {
	for c := r.Class; c != nil; c = c.Super {
		if f := c.DeclaredField(r.Name); f != nil && f.Static == r.Static {
			return f
		}
	}
	panic(fmt.Sprintf("ir: unresolvable field reference %s.%s", r.Class, r.Name))
}

func (r FieldRef) String() string { return r.Class.Name + "." + r.Name }

// MethodRef is the statically declared target of a call site.
type MethodRef struct {
	Class        *Class
	Subsignature string
}

func (r MethodRef) String() string { return "<" + r.Class.Name + ": " + r.Subsignature + ">" }

// Method is a method declaration together with its body.
type Method struct {
	Class        *Class
	Name         string
	Subsignature string
	Static       bool
	Abstract     bool

	// This is the implicit receiver parameter. Nil for static methods.
	This   *Var
	Params []*Var
	Stmts  []Stmt

	retVars []*Var
	vars    map[string]*Var
}

func (m *Method) String() string {
	return "<" + m.Class.Name + ": " + m.Subsignature + ">"
}

// ReturnVars returns the variables returned by the method body, one per
// return statement with a value.
func (m *Method) ReturnVars() []*Var { return m.retVars }

// Var looks up a local variable (including parameters and the receiver) by
// name, or returns nil.
func (m *Method) Var(name string) *Var { return m.vars[name] }

// Vars returns all local variables of the method in an unspecified order.
func (m *Method) Vars() []*Var {
	vars := make([]*Var, 0, len(m.vars))
	for _, v := range m.vars {
		vars = append(vars, v)
	}
	return vars
}

// Var is a local variable of a method. Besides its identity a variable keeps
// the lists of statements that access the heap through it; the solver
// re-scans exactly these when the variable's points-to set grows.
type Var struct {
	Method *Method
	Name   string

	storeFields []*StoreField
	loadFields  []*LoadField
	storeArrays []*StoreArray
	loadArrays  []*LoadArray
	invokes     []*Invoke
}

func (v *Var) String() string {
	return v.Method.Class.Name + "." + v.Method.Name + "/" + v.Name
}

// StoreFields returns the instance field stores whose base is v.
func (v *Var) StoreFields() []*StoreField { return v.storeFields }

// LoadFields returns the instance field loads whose base is v.
func (v *Var) LoadFields() []*LoadField { return v.loadFields }

// StoreArrays returns the array stores whose base is v.
func (v *Var) StoreArrays() []*StoreArray { return v.storeArrays }

// LoadArrays returns the array loads whose base is v.
func (v *Var) LoadArrays() []*LoadArray { return v.loadArrays }

// Invokes returns the instance call sites whose receiver is v.
func (v *Var) Invokes() []*Invoke { return v.invokes }
