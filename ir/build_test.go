package ir_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

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

func TestLoadYAML(t *testing.T) {
	f, err := os.Open(filepath.Join("testdata", "linkedlist.yaml"))
	require.NoError(t, err)
	defer f.Close()

	w, err := ir.LoadYAML(f)
	require.NoError(t, err)

	main := w.Entry()
	require.NotNil(t, main)
	assert.Equal(t, "main", main.Name)
	assert.True(t, main.Static)

	node := w.Class("Node")
	require.NotNil(t, node)
	assert.NotNil(t, node.DeclaredField("next"))

	list := w.Class("List")
	require.NotNil(t, list)
	add := list.DeclaredMethod("add/1")
	require.NotNil(t, add)
	assert.Len(t, add.Params, 1)
	assert.NotNil(t, add.This)
}

func TestUseLists(t *testing.T) {
	w := load(t, `
entry: Main.main
classes:
  - name: A
    fields:
      - {name: f}
    methods:
      - name: m
  - name: Main
    methods:
      - name: main
        static: true
        body:
          - new: {to: a, type: A}
          - new: {to: v, type: A}
          - storefield: {base: a, class: A, field: f, value: v}
          - loadfield: {to: x, base: a, class: A, field: f}
          - storearray: {base: a, value: v}
          - loadarray: {to: y, base: a}
          - invoke: {kind: virtual, base: a, class: A, name: m}
`)

	a := w.Entry().Var("a")
	require.NotNil(t, a)
	assert.Len(t, a.StoreFields(), 1)
	assert.Len(t, a.LoadFields(), 1)
	assert.Len(t, a.StoreArrays(), 1)
	assert.Len(t, a.LoadArrays(), 1)
	assert.Len(t, a.Invokes(), 1)

	// Static accesses are not indexed on any variable.
	v := w.Entry().Var("v")
	require.NotNil(t, v)
	assert.Empty(t, v.StoreFields())
}

func TestReturnVars(t *testing.T) {
	w := load(t, `
entry: A.main
classes:
  - name: A
    methods:
      - name: main
        static: true
        body:
          - new: {to: a, type: A}
          - return: {value: a}
          - return: {}
`)

	require.Len(t, w.Entry().ReturnVars(), 1)
	assert.Equal(t, "a", w.Entry().ReturnVars()[0].Name)
}

func TestBuildErrors(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want string
	}{
		{
			"duplicate class",
			`{entry: A.m, classes: [{name: A}, {name: A}]}`,
			"duplicate class",
		},
		{
			"unknown superclass",
			`{entry: A.m, classes: [{name: A, extends: B}]}`,
			"unknown class",
		},
		{
			"cyclic hierarchy",
			`{entry: A.m, classes: [{name: A, extends: B}, {name: B, extends: A}]}`,
			"cyclic",
		},
		{
			"abstract with body",
			`{entry: A.m, classes: [{name: A, methods: [{name: m, abstract: true, body: [{return: {}}]}]}]}`,
			"abstract",
		},
		{
			"virtual call without receiver",
			`{entry: A.m, classes: [{name: A, methods: [{name: m, body: [{invoke: {kind: virtual, class: A, name: m}}]}]}]}`,
			"without a receiver",
		},
		{
			"static call with receiver",
			`{entry: A.m, classes: [{name: A, methods: [{name: m, body: [{invoke: {kind: static, base: this, class: A, name: m}}]}]}]}`,
			"with a receiver",
		},
		{
			"missing entry",
			`{entry: A.main, classes: [{name: A}]}`,
			"entry method",
		},
		{
			"malformed entry",
			`{entry: nodot, classes: [{name: A}]}`,
			"not of the form",
		},
		{
			"unknown call kind",
			`{entry: A.m, classes: [{name: A, methods: [{name: m, body: [{invoke: {kind: wat, class: A, name: m}}]}]}]}`,
			"unknown call kind",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ir.LoadYAML(strings.NewReader(tt.src))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestSites(t *testing.T) {
	w := load(t, `
entry: A.main
classes:
  - name: A
    methods:
      - name: main
        static: true
        body:
          - new: {to: a, type: A}
          - invoke: {kind: virtual, base: a, class: A, name: main}
`)

	alloc := w.Entry().Stmts[0].(*ir.New)
	call := w.Entry().Stmts[1].(*ir.Invoke)
	assert.Equal(t, "A.main/0", alloc.Site())
	assert.Equal(t, "A.main/1", call.Site())
}
