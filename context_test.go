package pta

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestContextPush(t *testing.T) {
	c := EmptyContext()
	c = c.push("a", 2)
	c = c.push("b", 2)
	assert.Equal(t, []string{"a", "b"}, c.elements())

	// Pushing beyond the limit drops the oldest element.
	c = c.push("c", 2)
	assert.Equal(t, []string{"b", "c"}, c.elements())

	assert.Equal(t, EmptyContext(), c.push("d", 0))
}

func TestContextTruncate(t *testing.T) {
	c := EmptyContext().push("a", 3).push("b", 3).push("c", 3)

	assert.Equal(t, []string{"b", "c"}, c.truncate(2).elements())
	assert.Equal(t, c, c.truncate(3))
	assert.Equal(t, EmptyContext(), c.truncate(0))
}

func TestContextEquality(t *testing.T) {
	a := EmptyContext().push("x", 2).push("y", 2)
	b := EmptyContext().push("x", 2).push("y", 2)

	// Contexts are values: structural equality makes them usable as map
	// keys without interning.
	assert.Equal(t, a, b)
	seen := map[Context]bool{a: true}
	assert.True(t, seen[b])

	assert.NotEqual(t, a, EmptyContext().push("y", 2).push("x", 2))
}

func TestSelectorPolicies(t *testing.T) {
	assert.Equal(t, EmptyContext(), Insensitive().EmptyContext())
	assert.Equal(t, EmptyContext(), Insensitive().SelectContext(nil, nil, nil))
	assert.Equal(t, EmptyContext(), Insensitive().SelectHeapContext(nil, nil))

	// A 1-call-site policy keeps no heap context.
	m := &CSMethod{ctx: EmptyContext().push("A.m/0", 1)}
	assert.Equal(t, EmptyContext(), KCallSite(1).SelectHeapContext(m, nil))

	// A static call under object sensitivity stays in the caller's context.
	site := &CSCallSite{ctx: EmptyContext().push("A.m/0", 2)}
	assert.Equal(t, site.Context(), KObject(2).SelectContext(site, nil, nil))
}
