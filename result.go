package pta

import (
	"github.com/gungnir479/pta/callgraph"
	"github.com/gungnir479/pta/ir"
)

// CallGraph is the call graph produced by the analysis: contextualized call
// sites to contextualized methods.
type CallGraph = callgraph.Graph[*CSCallSite, *CSMethod]

// Result is the immutable view of a converged analysis: the final points-to
// relation and the call graph built on the fly. Nothing in it is mutated
// after [Analyze] returns.
type Result struct {
	mgr *manager
	cg  *CallGraph
}

// CallGraph returns the on-the-fly call graph.
func (r *Result) CallGraph() *CallGraph { return r.cg }

// Pointers returns every pointer the analysis created, with its final
// points-to set.
func (r *Result) Pointers() []Pointer { return r.mgr.pointers }

// PointsTo returns the points-to set of variable v under ctx, or nil when
// the analysis never reached that pointer.
func (r *Result) PointsTo(ctx Context, v *ir.Var) *PointsToSet {
	p, ok := r.mgr.vars[varKey{ctx, v}]
	if !ok {
		return nil
	}
	return p.PointsTo()
}

// PointsToVar aggregates the points-to sets of v over every context it was
// analyzed in. Objects are deduplicated by abstract object identity,
// dropping heap contexts.
func (r *Result) PointsToVar(v *ir.Var) []*Obj {
	seen := make(map[*Obj]bool)
	var res []*Obj
	for _, p := range r.mgr.varsByVar[v] {
		for _, o := range p.PointsTo().Objects() {
			if !seen[o.obj] {
				seen[o.obj] = true
				res = append(res, o.obj)
			}
		}
	}
	return res
}

// MayAlias reports whether a and b may refer to the same object in any pair
// of contexts.
func (r *Result) MayAlias(a, b *ir.Var) bool {
	for _, pa := range r.mgr.varsByVar[a] {
		for _, pb := range r.mgr.varsByVar[b] {
			sa, sb := pa.PointsTo(), pb.PointsTo()
			if sb.Len() < sa.Len() {
				sa, sb = sb, sa
			}
			for _, o := range sa.Objects() {
				if sb.Contains(o) {
					return true
				}
			}
		}
	}
	return false
}

// ReachableMethods returns the reachable methods with contexts collapsed,
// in discovery order.
func (r *Result) ReachableMethods() []*ir.Method {
	seen := make(map[*ir.Method]bool)
	var res []*ir.Method
	for _, csm := range r.cg.ReachableMethods() {
		if !seen[csm.m] {
			seen[csm.m] = true
			res = append(res, csm.m)
		}
	}
	return res
}

// CallEdges returns the call edges with contexts collapsed: one entry per
// distinct (kind, site, callee method) triple.
func (r *Result) CallEdges() []callgraph.Edge[*ir.Invoke, *ir.Method] {
	type key struct {
		kind   ir.CallKind
		site   *ir.Invoke
		callee *ir.Method
	}
	seen := make(map[key]bool)
	var res []callgraph.Edge[*ir.Invoke, *ir.Method]
	for _, e := range r.cg.Edges() {
		k := key{e.Kind, e.Site.site, e.Callee.m}
		if !seen[k] {
			seen[k] = true
			res = append(res, callgraph.Edge[*ir.Invoke, *ir.Method]{
				Kind:   e.Kind,
				Site:   e.Site.site,
				Callee: e.Callee.m,
			})
		}
	}
	return res
}
