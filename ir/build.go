package ir

import (
	"fmt"
	"io"
	"strings"

	"gopkg.in/yaml.v3"
)

// ProgramSpec is a declarative description of a program. It is the yaml
// schema for world files and doubles as a programmatic builder input.
type ProgramSpec struct {
	// Entry names the entry method as "Class.method". The method must be
	// unambiguous within its class.
	Entry   string      `yaml:"entry"`
	Classes []ClassSpec `yaml:"classes"`
}

type ClassSpec struct {
	Name       string       `yaml:"name"`
	Extends    string       `yaml:"extends,omitempty"`
	Implements []string     `yaml:"implements,omitempty"`
	Interface  bool         `yaml:"interface,omitempty"`
	Fields     []FieldSpec  `yaml:"fields,omitempty"`
	Methods    []MethodSpec `yaml:"methods,omitempty"`
}

type FieldSpec struct {
	Name   string `yaml:"name"`
	Static bool   `yaml:"static,omitempty"`
}

type MethodSpec struct {
	Name     string     `yaml:"name"`
	Params   []string   `yaml:"params,omitempty"`
	Static   bool       `yaml:"static,omitempty"`
	Abstract bool       `yaml:"abstract,omitempty"`
	Body     []StmtSpec `yaml:"body,omitempty"`
}

// StmtSpec describes one statement. Exactly one field must be set.
type StmtSpec struct {
	New        *NewSpec        `yaml:"new,omitempty"`
	Copy       *CopySpec       `yaml:"copy,omitempty"`
	StoreField *StoreFieldSpec `yaml:"storefield,omitempty"`
	LoadField  *LoadFieldSpec  `yaml:"loadfield,omitempty"`
	StoreArray *StoreArraySpec `yaml:"storearray,omitempty"`
	LoadArray  *LoadArraySpec  `yaml:"loadarray,omitempty"`
	Invoke     *InvokeSpec     `yaml:"invoke,omitempty"`
	Return     *ReturnSpec     `yaml:"return,omitempty"`
}

type NewSpec struct {
	To   string `yaml:"to"`
	Type string `yaml:"type"`
}

type CopySpec struct {
	To   string `yaml:"to"`
	From string `yaml:"from"`
}

// StoreFieldSpec stores Value into Base.Field, or into the static field
// Class.Field when Base is empty.
type StoreFieldSpec struct {
	Base  string `yaml:"base,omitempty"`
	Class string `yaml:"class,omitempty"`
	Field string `yaml:"field"`
	Value string `yaml:"value"`
}

type LoadFieldSpec struct {
	To    string `yaml:"to"`
	Base  string `yaml:"base,omitempty"`
	Class string `yaml:"class,omitempty"`
	Field string `yaml:"field"`
}

type StoreArraySpec struct {
	Base  string `yaml:"base"`
	Value string `yaml:"value"`
}

type LoadArraySpec struct {
	To   string `yaml:"to"`
	Base string `yaml:"base"`
}

// InvokeSpec calls Class.Name with Args. Kind is one of static, special,
// virtual, interface, dynamic, other; instance kinds require Base.
type InvokeSpec struct {
	Kind  string   `yaml:"kind"`
	Base  string   `yaml:"base,omitempty"`
	Class string   `yaml:"class"`
	Name  string   `yaml:"name"`
	Args  []string `yaml:"args,omitempty"`
	To    string   `yaml:"to,omitempty"`
}

type ReturnSpec struct {
	Value string `yaml:"value,omitempty"`
}

// subsigOf derives a method's dispatch key. Overloads are distinguished by
// arity.
func subsigOf(name string, arity int) string {
	return fmt.Sprintf("%s/%d", name, arity)
}

// LoadYAML reads a yaml [ProgramSpec] and builds the world it describes.
func LoadYAML(r io.Reader) (*World, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var spec ProgramSpec
	if err := dec.Decode(&spec); err != nil {
		return nil, fmt.Errorf("ir: decoding program: %w", err)
	}
	return Build(spec)
}

// Build constructs an immutable [World] from a program description.
func Build(spec ProgramSpec) (*World, error) {
	w := &World{
		classes:         make(map[string]*Class),
		subclasses:      make(map[*Class][]*Class),
		subinterfaces:   make(map[*Class][]*Class),
		implementors:    make(map[*Class][]*Class),
		allSubclasses:   make(map[*Class][]*Class),
		allImplementors: make(map[*Class][]*Class),
	}

	// First pass: register classes so later passes can resolve names in any
	// order.
	for _, cs := range spec.Classes {
		if cs.Name == "" {
			return nil, fmt.Errorf("ir: class with empty name")
		}
		if w.classes[cs.Name] != nil {
			return nil, fmt.Errorf("ir: duplicate class %s", cs.Name)
		}
		c := &Class{Name: cs.Name, Interface: cs.Interface}
		w.classes[cs.Name] = c
		w.order = append(w.order, c)
	}

	// Second pass: link the hierarchy and declare fields and method
	// signatures.
	for _, cs := range spec.Classes {
		c := w.classes[cs.Name]

		if cs.Extends != "" {
			super := w.classes[cs.Extends]
			if super == nil {
				return nil, fmt.Errorf("ir: %s extends unknown class %s", c, cs.Extends)
			}
			c.Super = super
			if c.Interface {
				w.subinterfaces[super] = append(w.subinterfaces[super], c)
			} else {
				w.subclasses[super] = append(w.subclasses[super], c)
			}
		}

		for _, name := range cs.Implements {
			itf := w.classes[name]
			if itf == nil {
				return nil, fmt.Errorf("ir: %s implements unknown interface %s", c, name)
			}
			c.Interfaces = append(c.Interfaces, itf)
			w.implementors[itf] = append(w.implementors[itf], c)
		}

		for _, fs := range cs.Fields {
			if c.DeclaredField(fs.Name) != nil {
				return nil, fmt.Errorf("ir: duplicate field %s.%s", c, fs.Name)
			}
			c.Fields = append(c.Fields, &Field{Class: c, Name: fs.Name, Static: fs.Static})
		}

		for _, ms := range cs.Methods {
			subsig := subsigOf(ms.Name, len(ms.Params))
			if c.DeclaredMethod(subsig) != nil {
				return nil, fmt.Errorf("ir: duplicate method %s in %s", subsig, c)
			}
			if ms.Abstract && len(ms.Body) > 0 {
				return nil, fmt.Errorf("ir: abstract method %s.%s has a body", c, ms.Name)
			}

			m := &Method{
				Class:        c,
				Name:         ms.Name,
				Subsignature: subsig,
				Static:       ms.Static,
				Abstract:     ms.Abstract,
				vars:         make(map[string]*Var),
			}
			if !ms.Static {
				m.This = m.getVar("this")
			}
			for _, p := range ms.Params {
				m.Params = append(m.Params, m.getVar(p))
			}
			c.Methods = append(c.Methods, m)
		}
	}

	if err := checkHierarchyAcyclic(w); err != nil {
		return nil, err
	}

	// Third pass: build method bodies. All classes and signatures exist now.
	for _, cs := range spec.Classes {
		c := w.classes[cs.Name]
		for _, ms := range cs.Methods {
			m := c.DeclaredMethod(subsigOf(ms.Name, len(ms.Params)))
			if err := buildBody(w, m, ms.Body); err != nil {
				return nil, err
			}
		}
	}

	entry, err := resolveEntry(w, spec.Entry)
	if err != nil {
		return nil, err
	}
	w.entry = entry
	return w, nil
}

func checkHierarchyAcyclic(w *World) error {
	limit := len(w.order)
	for _, c := range w.order {
		super := c.Super
		for steps := 0; super != nil; steps++ {
			if steps > limit {
				return fmt.Errorf("ir: cyclic superclass chain through %s", c)
			}
			super = super.Super
		}
	}
	return nil
}

func (m *Method) getVar(name string) *Var {
	if v, ok := m.vars[name]; ok {
		return v
	}
	v := &Var{Method: m, Name: name}
	m.vars[name] = v
	return v
}

func buildBody(w *World, m *Method, body []StmtSpec) error {
	for i, ss := range body {
		stmt, err := buildStmt(w, m, ss)
		if err != nil {
			return fmt.Errorf("ir: %s statement %d: %w", m, i, err)
		}

		site := fmt.Sprintf("%s.%s/%d", m.Class.Name, m.Name, i)
		switch s := stmt.(type) {
		case *New:
			s.site = site
		case *Invoke:
			s.site = site
			if s.Base != nil {
				s.Base.invokes = append(s.Base.invokes, s)
			}
		case *StoreField:
			if s.Base != nil {
				s.Base.storeFields = append(s.Base.storeFields, s)
			}
		case *LoadField:
			if s.Base != nil {
				s.Base.loadFields = append(s.Base.loadFields, s)
			}
		case *StoreArray:
			s.Base.storeArrays = append(s.Base.storeArrays, s)
		case *LoadArray:
			s.Base.loadArrays = append(s.Base.loadArrays, s)
		case *Return:
			if s.Value != nil {
				m.retVars = append(m.retVars, s.Value)
			}
		}

		m.Stmts = append(m.Stmts, stmt)
	}
	return nil
}

func buildStmt(w *World, m *Method, ss StmtSpec) (Stmt, error) {
	switch {
	case ss.New != nil:
		typ := w.classes[ss.New.Type]
		if typ == nil {
			return nil, fmt.Errorf("new of unknown class %s", ss.New.Type)
		}
		return &New{Result: m.getVar(ss.New.To), Type: typ}, nil

	case ss.Copy != nil:
		return &Copy{Result: m.getVar(ss.Copy.To), Source: m.getVar(ss.Copy.From)}, nil

	case ss.StoreField != nil:
		s := ss.StoreField
		ref, base, err := fieldRef(w, m, s.Base, s.Class, s.Field)
		if err != nil {
			return nil, err
		}
		return &StoreField{Base: base, Field: ref, Value: m.getVar(s.Value)}, nil

	case ss.LoadField != nil:
		s := ss.LoadField
		ref, base, err := fieldRef(w, m, s.Base, s.Class, s.Field)
		if err != nil {
			return nil, err
		}
		return &LoadField{Result: m.getVar(s.To), Base: base, Field: ref}, nil

	case ss.StoreArray != nil:
		s := ss.StoreArray
		return &StoreArray{Base: m.getVar(s.Base), Value: m.getVar(s.Value)}, nil

	case ss.LoadArray != nil:
		s := ss.LoadArray
		return &LoadArray{Result: m.getVar(s.To), Base: m.getVar(s.Base)}, nil

	case ss.Invoke != nil:
		return buildInvoke(w, m, ss.Invoke)

	case ss.Return != nil:
		var v *Var
		if ss.Return.Value != "" {
			v = m.getVar(ss.Return.Value)
		}
		return &Return{Value: v}, nil

	default:
		return nil, fmt.Errorf("empty statement")
	}
}

// fieldRef resolves the partially redundant base/class pair of a field
// access spec. Instance accesses name a base variable; the declaring class
// defaults to the base's static type, which this IR does not track, so it
// must be given explicitly.
func fieldRef(w *World, m *Method, baseName, className, fieldName string) (FieldRef, *Var, error) {
	cls := w.classes[className]
	if cls == nil {
		return FieldRef{}, nil, fmt.Errorf("field access on unknown class %q", className)
	}

	var base *Var
	if baseName != "" {
		base = m.getVar(baseName)
	}
	return FieldRef{Class: cls, Name: fieldName, Static: base == nil}, base, nil
}

func buildInvoke(w *World, m *Method, s *InvokeSpec) (Stmt, error) {
	var kind CallKind
	switch strings.ToLower(s.Kind) {
	case "static":
		kind = CallStatic
	case "special":
		kind = CallSpecial
	case "virtual":
		kind = CallVirtual
	case "interface":
		kind = CallInterface
	case "dynamic":
		kind = CallDynamic
	case "other":
		kind = CallOther
	default:
		return nil, fmt.Errorf("unknown call kind %q", s.Kind)
	}

	cls := w.classes[s.Class]
	if cls == nil {
		return nil, fmt.Errorf("call to unknown class %s", s.Class)
	}

	if kind.IsInstance() && s.Base == "" {
		return nil, fmt.Errorf("%s call without a receiver", kind)
	}
	if !kind.IsInstance() && s.Base != "" {
		return nil, fmt.Errorf("%s call with a receiver", kind)
	}

	inv := &Invoke{
		Kind: kind,
		Ref:  MethodRef{Class: cls, Subsignature: subsigOf(s.Name, len(s.Args))},
	}
	if s.Base != "" {
		inv.Base = m.getVar(s.Base)
	}
	for _, a := range s.Args {
		inv.Args = append(inv.Args, m.getVar(a))
	}
	if s.To != "" {
		inv.Result = m.getVar(s.To)
	}
	return inv, nil
}

func resolveEntry(w *World, entry string) (*Method, error) {
	clsName, methName, ok := strings.Cut(entry, ".")
	if !ok {
		return nil, fmt.Errorf("ir: entry %q is not of the form Class.method", entry)
	}

	cls := w.classes[clsName]
	if cls == nil {
		return nil, fmt.Errorf("ir: entry class %s not found", clsName)
	}

	var found *Method
	for _, m := range cls.Methods {
		if m.Name == methName {
			if found != nil {
				return nil, fmt.Errorf("ir: entry %s is ambiguous", entry)
			}
			found = m
		}
	}
	if found == nil {
		return nil, fmt.Errorf("ir: entry method %s not found", entry)
	}
	return found, nil
}
