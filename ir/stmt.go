package ir

import "fmt"

// Stmt is a statement of a method body. The variants form a closed set; the
// solver switches exhaustively over them.
type Stmt interface {
	// method used to tag statement variants
	stmtTag()
	fmt.Stringer
}

type stag struct{}

func (stag) stmtTag() {}

// New is an object allocation: Result = new Type. The *New value itself is
// the allocation site identity.
type New struct {
	stag
	Result *Var
	Type   *Class

	site string
}

// Site returns a human-readable identifier for the allocation site, unique
// within the program.
func (s *New) Site() string { return s.site }

func (s *New) String() string { return fmt.Sprintf("%s = new %s", s.Result.Name, s.Type) }

// Copy is a local assignment: Result = Source.
type Copy struct {
	stag
	Result *Var
	Source *Var
}

func (s *Copy) String() string { return s.Result.Name + " = " + s.Source.Name }

// StoreField writes a variable into a field: Base.Field = Value, or
// Class.Field = Value when the reference is static (Base is nil).
type StoreField struct {
	stag
	Base  *Var // nil for static stores
	Field FieldRef
	Value *Var
}

// IsStatic reports whether the store targets a static field.
func (s *StoreField) IsStatic() bool { return s.Base == nil }

func (s *StoreField) String() string {
	if s.IsStatic() {
		return fmt.Sprintf("%s = %s", s.Field, s.Value.Name)
	}
	return fmt.Sprintf("%s.%s = %s", s.Base.Name, s.Field.Name, s.Value.Name)
}

// LoadField reads a field into a variable: Result = Base.Field, or
// Result = Class.Field for static loads (Base is nil).
type LoadField struct {
	stag
	Result *Var
	Base   *Var // nil for static loads
	Field  FieldRef
}

// IsStatic reports whether the load reads a static field.
func (s *LoadField) IsStatic() bool { return s.Base == nil }

func (s *LoadField) String() string {
	if s.IsStatic() {
		return fmt.Sprintf("%s = %s", s.Result.Name, s.Field)
	}
	return fmt.Sprintf("%s = %s.%s", s.Result.Name, s.Base.Name, s.Field.Name)
}

// StoreArray writes into an array: Base[*] = Value. Indices are not
// distinguished.
type StoreArray struct {
	stag
	Base  *Var
	Value *Var
}

func (s *StoreArray) String() string { return s.Base.Name + "[*] = " + s.Value.Name }

// LoadArray reads from an array: Result = Base[*].
type LoadArray struct {
	stag
	Result *Var
	Base   *Var
}

func (s *LoadArray) String() string { return s.Result.Name + " = " + s.Base.Name + "[*]" }

// Return exits the method, optionally yielding Value.
type Return struct {
	stag
	Value *Var // may be nil
}

func (s *Return) String() string {
	if s.Value == nil {
		return "return"
	}
	return "return " + s.Value.Name
}

// CallKind classifies a call site by its invocation form. The kind is
// structural: it is fixed when the IR is built and independent of how (or
// whether) the site resolves.
type CallKind uint8

const (
	CallStatic CallKind = iota
	CallSpecial
	CallVirtual
	CallInterface
	CallDynamic
	CallOther
)

var callKindNames = [...]string{
	CallStatic:    "static",
	CallSpecial:   "special",
	CallVirtual:   "virtual",
	CallInterface: "interface",
	CallDynamic:   "dynamic",
	CallOther:     "other",
}

func (k CallKind) String() string {
	if int(k) < len(callKindNames) {
		return callKindNames[k]
	}
	return fmt.Sprintf("CallKind(%d)", k)
}

// IsInstance reports whether call sites of this kind carry a receiver.
func (k CallKind) IsInstance() bool {
	return k == CallSpecial || k == CallVirtual || k == CallInterface
}

// Invoke is a call site: [Result =] [Base.]method(Args...). The *Invoke
// value itself is the call site identity.
type Invoke struct {
	stag
	Kind   CallKind
	Ref    MethodRef
	Base   *Var // receiver; nil for static and dynamic calls
	Args   []*Var
	Result *Var // nil when the result is discarded

	site string
}

// Site returns a human-readable identifier for the call site, unique within
// the program.
func (s *Invoke) Site() string { return s.site }

func (s *Invoke) String() string {
	callee := s.Ref.String()
	if s.Base != nil {
		callee = s.Base.Name + "." + s.Ref.Subsignature
	}
	if s.Result != nil {
		return fmt.Sprintf("%s = %s %s", s.Result.Name, s.Kind, callee)
	}
	return fmt.Sprintf("%s %s", s.Kind, callee)
}
