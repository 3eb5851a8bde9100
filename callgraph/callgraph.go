// Package callgraph provides a whole-program call graph: the set of
// reachable methods plus typed call edges. The graph is generic over the
// call-site and method types so the same structure serves both the
// class-hierarchy builder (plain IR sites and methods) and the pointer
// analysis (contextualized sites and methods).
//
// All graph state is monotone: methods and edges are only ever added, and
// both insert operations report whether they changed the graph.
package callgraph

import "github.com/gungnir479/pta/ir"

// Edge is a call edge from a call site to a callee, typed by the site's
// structural call kind.
type Edge[S, M comparable] struct {
	Kind   ir.CallKind
	Site   S
	Callee M
}

// Graph is an append-only call graph.
type Graph[S, M comparable] struct {
	entries   []M
	reachable map[M]bool
	methods   []M

	edgeSet   map[Edge[S, M]]bool
	edges     []Edge[S, M]
	calleesOf map[S][]M
	callersOf map[M][]Edge[S, M]
}

func New[S, M comparable]() *Graph[S, M] {
	return &Graph[S, M]{
		reachable: make(map[M]bool),
		edgeSet:   make(map[Edge[S, M]]bool),
		calleesOf: make(map[S][]M),
		callersOf: make(map[M][]Edge[S, M]),
	}
}

// AddEntry records m as an entry method of the program.
func (g *Graph[S, M]) AddEntry(m M) {
	g.entries = append(g.entries, m)
}

// Entries returns the entry methods.
func (g *Graph[S, M]) Entries() []M { return g.entries }

// AddReachableMethod marks m reachable and reports whether it was new.
func (g *Graph[S, M]) AddReachableMethod(m M) bool {
	if g.reachable[m] {
		return false
	}
	g.reachable[m] = true
	g.methods = append(g.methods, m)
	return true
}

// Contains reports whether m is reachable.
func (g *Graph[S, M]) Contains(m M) bool { return g.reachable[m] }

// ReachableMethods returns the reachable methods in discovery order.
func (g *Graph[S, M]) ReachableMethods() []M { return g.methods }

// AddEdge inserts a call edge and reports whether it was new. Inserting an
// existing edge has no effect.
func (g *Graph[S, M]) AddEdge(e Edge[S, M]) bool {
	if g.edgeSet[e] {
		return false
	}
	g.edgeSet[e] = true
	g.edges = append(g.edges, e)
	g.calleesOf[e.Site] = append(g.calleesOf[e.Site], e.Callee)
	g.callersOf[e.Callee] = append(g.callersOf[e.Callee], e)
	return true
}

// Edges returns all call edges in insertion order.
func (g *Graph[S, M]) Edges() []Edge[S, M] { return g.edges }

// CalleesOf returns the resolved targets of a call site.
func (g *Graph[S, M]) CalleesOf(site S) []M { return g.calleesOf[site] }

// CallersOf returns the edges targeting m.
func (g *Graph[S, M]) CallersOf(m M) []Edge[S, M] { return g.callersOf[m] }
