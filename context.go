package pta

import (
	"strings"

	"github.com/gungnir479/pta/ir"
)

// Context is an opaque calling-context token. Contexts are plain values:
// two contexts are equal iff they carry the same element sequence, so they
// can be used directly as map keys. The zero value is the empty context.
type Context struct {
	rep string
}

// EmptyContext returns the context entry methods run in.
func EmptyContext() Context { return Context{} }

func (c Context) String() string { return "[" + c.rep + "]" }

const ctxSep = " > "

// push appends elem to the context and truncates it to the last k elements.
// k <= 0 always yields the empty context.
func (c Context) push(elem string, k int) Context {
	if k <= 0 {
		return Context{}
	}
	elems := c.elements()
	elems = append(elems, elem)
	if len(elems) > k {
		elems = elems[len(elems)-k:]
	}
	return Context{rep: strings.Join(elems, ctxSep)}
}

// truncate keeps the last k elements of the context.
func (c Context) truncate(k int) Context {
	elems := c.elements()
	if len(elems) <= k {
		return c
	}
	if k <= 0 {
		return Context{}
	}
	return Context{rep: strings.Join(elems[len(elems)-k:], ctxSep)}
}

func (c Context) elements() []string {
	if c.rep == "" {
		return nil
	}
	return strings.Split(c.rep, ctxSep)
}

// ContextSelector is the pluggable context policy: it decides which context
// a callee runs in and which context newly allocated objects are tagged
// with. The solver treats contexts as opaque beyond equality.
type ContextSelector interface {
	// EmptyContext returns the context of entry methods.
	EmptyContext() Context

	// SelectContext picks the context for callee invoked from site. recv is
	// the receiver object for instance calls and nil for static calls.
	SelectContext(site *CSCallSite, recv *CSObj, callee *ir.Method) Context

	// SelectHeapContext picks the heap context for obj, allocated while
	// executing m.
	SelectHeapContext(m *CSMethod, obj *Obj) Context
}

// insensitive is the trivial policy: every context is empty. Running the
// solver under it yields the context-insensitive analysis.
type insensitive struct{}

// Insensitive returns the context-insensitive policy.
func Insensitive() ContextSelector { return insensitive{} }

func (insensitive) EmptyContext() Context { return Context{} }

func (insensitive) SelectContext(*CSCallSite, *CSObj, *ir.Method) Context {
	return Context{}
}

func (insensitive) SelectHeapContext(*CSMethod, *Obj) Context { return Context{} }

// kCallSelector implements k-limited call-site sensitivity: a context is the
// string of the last k call sites, and objects carry the last k-1.
type kCallSelector struct {
	k int
}

// KCallSite returns a k-call-string context policy.
func KCallSite(k int) ContextSelector { return kCallSelector{k: k} }

func (s kCallSelector) EmptyContext() Context { return Context{} }

func (s kCallSelector) SelectContext(site *CSCallSite, _ *CSObj, _ *ir.Method) Context {
	return site.Context().push(site.Site().Site(), s.k)
}

func (s kCallSelector) SelectHeapContext(m *CSMethod, _ *Obj) Context {
	return m.Context().truncate(s.k - 1)
}

// kObjSelector implements k-limited object sensitivity: instance callees run
// in the context of their receiver's allocation history.
type kObjSelector struct {
	k int
}

// KObject returns a k-object-sensitive context policy.
func KObject(k int) ContextSelector { return kObjSelector{k: k} }

func (s kObjSelector) EmptyContext() Context { return Context{} }

func (s kObjSelector) SelectContext(site *CSCallSite, recv *CSObj, _ *ir.Method) Context {
	if recv == nil {
		// Static call: stay in the caller's context.
		return site.Context()
	}
	return recv.Context().push(recv.Object().Site().Site(), s.k)
}

func (s kObjSelector) SelectHeapContext(m *CSMethod, _ *Obj) Context {
	return m.Context().truncate(s.k - 1)
}
