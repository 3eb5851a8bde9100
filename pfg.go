package pta

// pointerFlowGraph records may-flow edges between pointers: an edge s→t
// means whatever s may point to, t may point to. The graph is append-only
// for the lifetime of one analysis run.
type pointerFlowGraph struct {
	succs map[Pointer][]Pointer
	edges map[pfgEdge]bool
}

type pfgEdge struct {
	src, dst Pointer
}

func newPointerFlowGraph() *pointerFlowGraph {
	return &pointerFlowGraph{
		succs: make(map[Pointer][]Pointer),
		edges: make(map[pfgEdge]bool),
	}
}

// addEdge inserts src→dst and reports whether it was new. Re-inserting an
// existing edge has no effect.
func (g *pointerFlowGraph) addEdge(src, dst Pointer) bool {
	e := pfgEdge{src, dst}
	if g.edges[e] {
		return false
	}
	g.edges[e] = true
	g.succs[src] = append(g.succs[src], dst)
	return true
}

// succsOf returns the targets of all edges out of p.
func (g *pointerFlowGraph) succsOf(p Pointer) []Pointer { return g.succs[p] }

func (g *pointerFlowGraph) numEdges() int { return len(g.edges) }
