package pta

import (
	"fmt"

	"github.com/gungnir479/pta/ir"
)

// Pointer is a node of the pointer flow graph. The variants form a closed
// set: [*CSVar], [*StaticField], [*InstanceField] and [*ArrayIndex].
//
// Pointers are canonical: the manager hands out at most one instance per
// structural key, so the same logical pointer always resolves to the same
// node and identity comparison is sound.
type Pointer interface {
	// method used to tag pointer variants
	pointerTag()
	fmt.Stringer

	// PointsTo returns the pointer's points-to set. It is never nil; during
	// solving it grows monotonically.
	PointsTo() *PointsToSet
}

type ptag struct {
	pts PointsToSet
}

func (p *ptag) pointerTag() {}

func (p *ptag) PointsTo() *PointsToSet { return &p.pts }

// CSVar is a local variable under a context.
type CSVar struct {
	ptag
	ctx Context
	v   *ir.Var
}

func (p *CSVar) Context() Context { return p.ctx }
func (p *CSVar) Var() *ir.Var     { return p.v }

func (p *CSVar) String() string { return p.ctx.String() + p.v.String() }

// StaticField is the single pointer holding a static field's values.
type StaticField struct {
	ptag
	field *ir.Field
}

func (p *StaticField) Field() *ir.Field { return p.field }

func (p *StaticField) String() string { return p.field.String() }

// InstanceField is the pointer (object, field): one node per abstract object
// and field, shared by every access path reaching that object.
type InstanceField struct {
	ptag
	base  *CSObj
	field *ir.Field
}

func (p *InstanceField) Base() *CSObj     { return p.base }
func (p *InstanceField) Field() *ir.Field { return p.field }

func (p *InstanceField) String() string { return p.base.String() + "." + p.field.Name }

// ArrayIndex merges all index positions of one abstract array object into a
// single pointer.
type ArrayIndex struct {
	ptag
	base *CSObj
}

func (p *ArrayIndex) Base() *CSObj { return p.base }

func (p *ArrayIndex) String() string { return p.base.String() + "[*]" }

// CSObj is an abstract object under a heap context.
type CSObj struct {
	id  int
	ctx Context
	obj *Obj
}

func (o *CSObj) Context() Context { return o.ctx }
func (o *CSObj) Object() *Obj     { return o.obj }

func (o *CSObj) String() string { return o.ctx.String() + o.obj.String() }

// CSMethod is a method under a context.
type CSMethod struct {
	ctx Context
	m   *ir.Method
}

func (m *CSMethod) Context() Context   { return m.ctx }
func (m *CSMethod) Method() *ir.Method { return m.m }

func (m *CSMethod) String() string { return m.ctx.String() + m.m.String() }

// CSCallSite is a call site under the caller's context.
type CSCallSite struct {
	ctx  Context
	site *ir.Invoke
}

func (s *CSCallSite) Context() Context { return s.ctx }
func (s *CSCallSite) Site() *ir.Invoke { return s.site }

func (s *CSCallSite) String() string { return s.ctx.String() + s.site.Site() }

type varKey struct {
	ctx Context
	v   *ir.Var
}

type instanceFieldKey struct {
	base  *CSObj
	field *ir.Field
}

type objKey struct {
	ctx Context
	obj *Obj
}

type methodKey struct {
	ctx Context
	m   *ir.Method
}

type siteKey struct {
	ctx  Context
	site *ir.Invoke
}

// manager interns every contextualized entity. Interning by structural key
// is what makes identity comparison (and the sparse object ids) sound.
type manager struct {
	vars      map[varKey]*CSVar
	varsByVar map[*ir.Var][]*CSVar
	statics   map[*ir.Field]*StaticField
	fields    map[instanceFieldKey]*InstanceField
	arrays    map[*CSObj]*ArrayIndex
	objs      map[objKey]*CSObj
	methods   map[methodKey]*CSMethod
	sites     map[siteKey]*CSCallSite

	pointers []Pointer
}

func newManager() *manager {
	return &manager{
		vars:      make(map[varKey]*CSVar),
		varsByVar: make(map[*ir.Var][]*CSVar),
		statics:   make(map[*ir.Field]*StaticField),
		fields:    make(map[instanceFieldKey]*InstanceField),
		arrays:    make(map[*CSObj]*ArrayIndex),
		objs:      make(map[objKey]*CSObj),
		methods:   make(map[methodKey]*CSMethod),
		sites:     make(map[siteKey]*CSCallSite),
	}
}

func (mgr *manager) csVar(ctx Context, v *ir.Var) *CSVar {
	key := varKey{ctx, v}
	if p, ok := mgr.vars[key]; ok {
		return p
	}
	p := &CSVar{ctx: ctx, v: v}
	mgr.vars[key] = p
	mgr.varsByVar[v] = append(mgr.varsByVar[v], p)
	mgr.pointers = append(mgr.pointers, p)
	return p
}

func (mgr *manager) staticField(f *ir.Field) *StaticField {
	if p, ok := mgr.statics[f]; ok {
		return p
	}
	p := &StaticField{field: f}
	mgr.statics[f] = p
	mgr.pointers = append(mgr.pointers, p)
	return p
}

func (mgr *manager) instanceField(base *CSObj, f *ir.Field) *InstanceField {
	key := instanceFieldKey{base, f}
	if p, ok := mgr.fields[key]; ok {
		return p
	}
	p := &InstanceField{base: base, field: f}
	mgr.fields[key] = p
	mgr.pointers = append(mgr.pointers, p)
	return p
}

func (mgr *manager) arrayIndex(base *CSObj) *ArrayIndex {
	if p, ok := mgr.arrays[base]; ok {
		return p
	}
	p := &ArrayIndex{base: base}
	mgr.arrays[base] = p
	mgr.pointers = append(mgr.pointers, p)
	return p
}

func (mgr *manager) csObj(ctx Context, obj *Obj) *CSObj {
	key := objKey{ctx, obj}
	if o, ok := mgr.objs[key]; ok {
		return o
	}
	o := &CSObj{id: len(mgr.objs), ctx: ctx, obj: obj}
	mgr.objs[key] = o
	return o
}

func (mgr *manager) csMethod(ctx Context, m *ir.Method) *CSMethod {
	key := methodKey{ctx, m}
	if cm, ok := mgr.methods[key]; ok {
		return cm
	}
	cm := &CSMethod{ctx: ctx, m: m}
	mgr.methods[key] = cm
	return cm
}

func (mgr *manager) csCallSite(ctx Context, site *ir.Invoke) *CSCallSite {
	key := siteKey{ctx, site}
	if cs, ok := mgr.sites[key]; ok {
		return cs
	}
	cs := &CSCallSite{ctx: ctx, site: site}
	mgr.sites[key] = cs
	return cs
}
