package ir_test

import (
	"testing"

	"github.com/gungnir479/pta/ir"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// hierarchyWorld builds
//
//	interface I { m() }
//	interface J extends I {}
//	class A implements I { m() }
//	class B extends A { m() }
//	class C extends B {}
//	class D implements J {}  // m inherited nowhere: abstract-free but no m
func hierarchyWorld(t *testing.T) *ir.World {
	t.Helper()
	return load(t, `
entry: A.main
classes:
  - name: I
    interface: true
    methods:
      - {name: m, abstract: true}
  - name: J
    interface: true
    extends: I
  - name: A
    implements: [I]
    methods:
      - name: m
      - name: main
        static: true
  - name: B
    extends: A
    methods:
      - name: m
  - name: C
    extends: B
  - name: D
    implements: [J]
`)
}

func TestDispatch(t *testing.T) {
	w := hierarchyWorld(t)
	a, b, c, d := w.Class("A"), w.Class("B"), w.Class("C"), w.Class("D")

	assert.Equal(t, a.DeclaredMethod("m/0"), w.Dispatch(a, "m/0"))
	assert.Equal(t, b.DeclaredMethod("m/0"), w.Dispatch(b, "m/0"))
	// C inherits B's override.
	assert.Equal(t, b.DeclaredMethod("m/0"), w.Dispatch(c, "m/0"))
	// D declares nothing and has no superclass chain to m.
	assert.Nil(t, w.Dispatch(d, "m/0"))
	// Abstract declarations are never dispatch targets.
	assert.Nil(t, w.Dispatch(w.Class("I"), "m/0"))
}

func TestAllSubclassesOf(t *testing.T) {
	w := hierarchyWorld(t)
	a, b, c := w.Class("A"), w.Class("B"), w.Class("C")

	subs := w.AllSubclassesOf(a)
	assert.ElementsMatch(t, []*ir.Class{b, c}, subs)
	assert.ElementsMatch(t, []*ir.Class{c}, w.AllSubclassesOf(b))
	assert.Empty(t, w.AllSubclassesOf(c))

	// Memoized: the same slice is returned on repeat queries.
	again := w.AllSubclassesOf(a)
	assert.Equal(t, subs, again)
}

func TestAllImplementorsOf(t *testing.T) {
	w := hierarchyWorld(t)

	impls := w.AllImplementorsOf(w.Class("I"))
	assert.ElementsMatch(t,
		[]*ir.Class{w.Class("A"), w.Class("B"), w.Class("C"), w.Class("D")},
		impls)

	// J is only implemented by D.
	assert.ElementsMatch(t, []*ir.Class{w.Class("D")},
		w.AllImplementorsOf(w.Class("J")))
}

func TestResolveCallee(t *testing.T) {
	w := load(t, `
entry: Main.main
classes:
  - name: A
    methods:
      - name: m
      - {name: helper, static: true}
  - name: B
    extends: A
    methods:
      - name: m
  - name: Main
    methods:
      - name: main
        static: true
        body:
          - new: {to: a, type: A}
          - invoke: {kind: virtual, base: a, class: A, name: m}
          - invoke: {kind: static, class: A, name: helper}
`)

	a, b := w.Class("A"), w.Class("B")
	virt := w.Entry().Stmts[1].(*ir.Invoke)
	static := w.Entry().Stmts[2].(*ir.Invoke)

	// Virtual resolution follows the runtime class of the receiver.
	assert.Equal(t, a.DeclaredMethod("m/0"), w.ResolveCallee(a, virt))
	assert.Equal(t, b.DeclaredMethod("m/0"), w.ResolveCallee(b, virt))

	// Static resolution ignores the receiver class entirely.
	assert.Equal(t, a.DeclaredMethod("helper/0"), w.ResolveCallee(nil, static))
	assert.Equal(t, a.DeclaredMethod("helper/0"), w.ResolveCallee(b, static))

	assert.Panics(t, func() { w.ResolveCallee(nil, virt) })
}

func TestFieldRefResolve(t *testing.T) {
	w := load(t, `
entry: B.main
classes:
  - name: A
    fields:
      - {name: f}
  - name: B
    extends: A
    methods:
      - {name: main, static: true}
`)

	a, b := w.Class("A"), w.Class("B")

	// A reference through the subclass resolves to the superclass field.
	ref := ir.FieldRef{Class: b, Name: "f"}
	require.Equal(t, a.DeclaredField("f"), ref.Resolve())

	assert.Panics(t, func() {
		ir.FieldRef{Class: b, Name: "nope"}.Resolve()
	})
}
