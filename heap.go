package pta

import "github.com/gungnir479/pta/ir"

// Obj is an abstract heap object: it stands for every concrete object a
// given allocation site ever creates. Objects are interned by their heap
// model, so two queries for the same site return the same *Obj.
type Obj struct {
	site *ir.New
	typ  *ir.Class
}

// Site returns the allocation site the object abstracts.
func (o *Obj) Site() *ir.New { return o.site }

// Type returns the dynamic class of the allocated objects.
func (o *Obj) Type() *ir.Class { return o.typ }

func (o *Obj) String() string { return "new " + o.typ.Name + "@" + o.site.Site() }

// HeapModel abstracts concrete allocations into abstract objects.
type HeapModel interface {
	// ObjOf returns the abstract object for an allocation site. Repeated
	// calls with the same site return the identical object.
	ObjOf(site *ir.New) *Obj
}

// allocationSiteModel is the default heap abstraction: one abstract object
// per allocation site.
type allocationSiteModel struct {
	objs map[*ir.New]*Obj
}

// NewAllocationSiteModel returns a heap model that merges all objects
// created at one allocation site into a single abstract object.
func NewAllocationSiteModel() HeapModel {
	return &allocationSiteModel{objs: make(map[*ir.New]*Obj)}
}

func (h *allocationSiteModel) ObjOf(site *ir.New) *Obj {
	if obj, ok := h.objs[site]; ok {
		return obj
	}
	obj := &Obj{site: site, typ: site.Type}
	h.objs[site] = obj
	return obj
}
