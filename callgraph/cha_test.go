package callgraph_test

import (
	"strings"
	"testing"

	"github.com/gungnir479/pta/callgraph"
	"github.com/gungnir479/pta/ir"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func load(t *testing.T, src string) *ir.World {
	t.Helper()
	w, err := ir.LoadYAML(strings.NewReader(src))
	require.NoError(t, err)
	return w
}

func TestBuildCHA(t *testing.T) {
	w := load(t, `
entry: Main.main
classes:
  - name: A
    methods:
      - name: m
  - name: B
    extends: A
    methods:
      - name: m
  - name: C
    extends: B
  - name: Main
    methods:
      - name: main
        static: true
        body:
          - new: {to: a, type: A}
          - invoke: {kind: virtual, base: a, class: A, name: m}
`)

	g := callgraph.BuildCHA(w)

	// CHA resolves against the whole hierarchy below the declared class: A.m
	// and B's override (inherited by C, deduplicated).
	site := w.Entry().Stmts[1].(*ir.Invoke)
	assert.ElementsMatch(t,
		[]*ir.Method{
			w.Class("A").DeclaredMethod("m/0"),
			w.Class("B").DeclaredMethod("m/0"),
		},
		g.CalleesOf(site))

	assert.True(t, g.Contains(w.Entry()))
	assert.True(t, g.Contains(w.Class("A").DeclaredMethod("m/0")))
	assert.True(t, g.Contains(w.Class("B").DeclaredMethod("m/0")))
}

func TestCHAInterface(t *testing.T) {
	w := load(t, `
entry: Main.main
classes:
  - name: I
    interface: true
    methods:
      - {name: m, abstract: true}
  - name: X
    implements: [I]
    methods:
      - name: m
  - name: Y
    implements: [I]
    methods:
      - name: m
  - name: Main
    methods:
      - name: main
        static: true
        body:
          - new: {to: x, type: X}
          - invoke: {kind: interface, base: x, class: I, name: m}
`)

	g := callgraph.BuildCHA(w)
	site := w.Entry().Stmts[1].(*ir.Invoke)
	assert.ElementsMatch(t,
		[]*ir.Method{
			w.Class("X").DeclaredMethod("m/0"),
			w.Class("Y").DeclaredMethod("m/0"),
		},
		g.CalleesOf(site))
}

func TestCHAStaticChain(t *testing.T) {
	w := load(t, `
entry: Main.main
classes:
  - name: Util
    methods:
      - name: help
        static: true
  - name: Main
    methods:
      - name: main
        static: true
        body:
          - invoke: {kind: static, class: Util, name: help}
`)

	g := callgraph.BuildCHA(w)
	require.Len(t, g.Edges(), 1)
	e := g.Edges()[0]
	assert.Equal(t, ir.CallStatic, e.Kind)
	assert.Equal(t, w.Class("Util").DeclaredMethod("help/0"), e.Callee)
}
