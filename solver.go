// Package pta implements a whole-program Andersen-style pointer analysis
// with on-the-fly call graph construction for the object-oriented IR of
// [github.com/gungnir479/pta/ir].
//
// The analysis is flow-insensitive and field-sensitive; arrays are modeled
// with a single merged index per abstract object. Context sensitivity is
// pluggable through [ContextSelector]: the context-insensitive variant is
// the same solver run under the [Insensitive] policy.
package pta

import (
	"fmt"

	"github.com/gungnir479/pta/callgraph"
	"github.com/gungnir479/pta/ir"
	"github.com/sirupsen/logrus"
)

// Config configures one analysis run.
type Config struct {
	// World is the program under analysis. Required.
	World *ir.World

	// Selector is the context policy. Nil selects [Insensitive].
	Selector ContextSelector

	// Heap overrides the heap abstraction. Nil selects
	// [NewAllocationSiteModel].
	Heap HeapModel

	// Log receives progress output. Nil selects the logrus standard logger.
	Log *logrus.Logger
}

// solver runs the worklist fixpoint. It advances through a fixed sequence
// of phases: created → initializing (seeding the entry method) →
// propagating (worklist loop) → converged. All state is private to one run.
type solver struct {
	world *ir.World
	heap  HeapModel
	sel   ContextSelector
	log   *logrus.Logger

	mgr  *manager
	cg   *callgraph.Graph[*CSCallSite, *CSMethod]
	pfg  *pointerFlowGraph
	work workList

	phase solverPhase
}

type solverPhase uint8

const (
	phaseCreated solverPhase = iota
	phaseInitializing
	phasePropagating
	phaseConverged
)

// Analyze runs the pointer analysis to its fixpoint and returns the
// immutable result. A config without a world, or a world whose IR violates
// the preconditions of the algorithm (for example argument/parameter arity
// mismatches), panics: such input defects must not be absorbed silently.
func Analyze(config Config) *Result {
	if config.World == nil {
		panic("pta: Config.World is nil")
	}

	s := &solver{
		world: config.World,
		heap:  config.Heap,
		sel:   config.Selector,
		log:   config.Log,
	}
	if s.heap == nil {
		s.heap = NewAllocationSiteModel()
	}
	if s.sel == nil {
		s.sel = Insensitive()
	}
	if s.log == nil {
		s.log = logrus.StandardLogger()
	}

	s.initialize()
	s.analyze()
	return &Result{mgr: s.mgr, cg: s.cg}
}

// AnalyzeCI runs the context-insensitive variant on world.
func AnalyzeCI(world *ir.World) *Result {
	return Analyze(Config{World: world})
}

// initialize seeds the analysis with the entry method under the empty
// context.
func (s *solver) initialize() {
	if s.phase != phaseCreated {
		panic("pta: solver cannot be reused")
	}
	s.phase = phaseInitializing
	s.mgr = newManager()
	s.cg = callgraph.New[*CSCallSite, *CSMethod]()
	s.pfg = newPointerFlowGraph()

	entry := s.world.Entry()
	if entry == nil {
		panic("pta: world has no entry method")
	}

	csEntry := s.mgr.csMethod(s.sel.EmptyContext(), entry)
	s.cg.AddEntry(csEntry)
	s.addReachable(csEntry)
}

// addReachable marks a contextualized method reachable and scans its body.
// The scan runs exactly once per (method, context): allocations seed the
// worklist, copies and static field accesses become PFG edges, and static
// calls are resolved immediately. Instance field/array accesses and
// instance calls need the base variable's objects and are handled later,
// per discovered object, in the worklist loop.
func (s *solver) addReachable(csm *CSMethod) {
	if !s.cg.AddReachableMethod(csm) {
		return
	}
	s.log.Debugf("pta: reachable %v", csm)

	c := csm.ctx
	for _, stmt := range csm.m.Stmts {
		switch t := stmt.(type) {
		case *ir.New:
			obj := s.heap.ObjOf(t)
			hctx := s.sel.SelectHeapContext(csm, obj)
			cso := s.mgr.csObj(hctx, obj)
			s.work.addEntry(s.mgr.csVar(c, t.Result), singleton(cso))

		case *ir.Copy:
			s.addPFGEdge(s.mgr.csVar(c, t.Source), s.mgr.csVar(c, t.Result))

		case *ir.StoreField:
			if t.IsStatic() {
				s.addPFGEdge(s.mgr.csVar(c, t.Value), s.mgr.staticField(t.Field.Resolve()))
			}

		case *ir.LoadField:
			if t.IsStatic() {
				s.addPFGEdge(s.mgr.staticField(t.Field.Resolve()), s.mgr.csVar(c, t.Result))
			}

		case *ir.Invoke:
			if t.Kind != ir.CallStatic {
				continue
			}
			callee := s.world.ResolveCallee(nil, t)
			if callee == nil {
				s.log.Debugf("pta: static call %v resolves to no target", t)
				continue
			}
			csSite := s.mgr.csCallSite(c, t)
			ct := s.sel.SelectContext(csSite, nil, callee)
			s.processCallEdge(csSite, s.mgr.csMethod(ct, callee))
		}
	}
}

// addPFGEdge inserts a pointer-flow edge. A new edge must retroactively
// carry the source's existing facts, not just future ones, so the source's
// current set is enqueued for the target on first insertion.
func (s *solver) addPFGEdge(src, dst Pointer) {
	if !s.pfg.addEdge(src, dst) {
		return
	}
	if pts := src.PointsTo(); !pts.Empty() {
		s.work.addEntry(dst, pts)
	}
}

// analyze is the main fixpoint loop.
func (s *solver) analyze() {
	if s.phase != phaseInitializing {
		panic("pta: analyze before initialize")
	}
	s.phase = phasePropagating

	for !s.work.isEmpty() {
		e := s.work.pollEntry()
		diff := s.propagate(e.ptr, e.pts)

		v, ok := e.ptr.(*CSVar)
		if !ok {
			continue
		}

		// Each newly discovered object at a variable unlocks the variable's
		// deferred statements: field/array accesses against that concrete
		// base object, and dispatch of calls on that receiver.
		c := v.ctx
		for _, obj := range diff.Objects() {
			for _, st := range v.v.StoreFields() {
				s.addPFGEdge(s.mgr.csVar(c, st.Value), s.mgr.instanceField(obj, st.Field.Resolve()))
			}
			for _, ld := range v.v.LoadFields() {
				s.addPFGEdge(s.mgr.instanceField(obj, ld.Field.Resolve()), s.mgr.csVar(c, ld.Result))
			}
			for _, st := range v.v.StoreArrays() {
				s.addPFGEdge(s.mgr.csVar(c, st.Value), s.mgr.arrayIndex(obj))
			}
			for _, ld := range v.v.LoadArrays() {
				s.addPFGEdge(s.mgr.arrayIndex(obj), s.mgr.csVar(c, ld.Result))
			}
			s.processCall(v, obj)
		}
	}

	s.phase = phaseConverged
	s.log.Infof("pta: converged: %d reachable methods, %d call edges, %d pointers, %d flow edges",
		len(s.cg.ReachableMethods()), len(s.cg.Edges()), len(s.mgr.pointers), s.pfg.numEdges())
}

// propagate folds a delta into pts(ptr) and forwards the true diff to the
// pointer's PFG successors. The diff computation is what bounds total work:
// already-known objects are never re-propagated.
func (s *solver) propagate(ptr Pointer, pts *PointsToSet) *PointsToSet {
	diff := ptr.PointsTo().addAll(pts)
	if !diff.Empty() {
		for _, succ := range s.pfg.succsOf(ptr) {
			s.work.addEntry(succ, diff)
		}
	}
	return diff
}

// processCall dispatches the instance calls whose receiver is recv against
// a newly discovered receiver object.
func (s *solver) processCall(recv *CSVar, recvObj *CSObj) {
	c := recv.ctx
	for _, site := range recv.v.Invokes() {
		callee := s.world.ResolveCallee(recvObj.obj.typ, site)
		if callee == nil {
			// Modeling gap: the hierarchy has no concrete override.
			s.log.Debugf("pta: %v does not dispatch on %v", site, recvObj.obj.typ)
			continue
		}
		if callee.This == nil {
			panic(fmt.Sprintf("pta: instance call %v dispatched to static method %v", site, callee))
		}

		csSite := s.mgr.csCallSite(c, site)
		ct := s.sel.SelectContext(csSite, recvObj, callee)

		// The receiver flows into the callee's implicit this-parameter via
		// the worklist, not via a PFG edge: only this one object belongs to
		// this dispatch.
		s.work.addEntry(s.mgr.csVar(ct, callee.This), singleton(recvObj))
		s.processCallEdge(csSite, s.mgr.csMethod(ct, callee))
	}
}

// processCallEdge records a resolved call edge. On first insertion the
// callee becomes reachable and the argument/result bindings become PFG
// edges.
func (s *solver) processCallEdge(csSite *CSCallSite, csCallee *CSMethod) {
	site := csSite.site
	edge := callgraph.Edge[*CSCallSite, *CSMethod]{
		Kind:   site.Kind,
		Site:   csSite,
		Callee: csCallee,
	}
	if !s.cg.AddEdge(edge) {
		return
	}

	s.addReachable(csCallee)

	callee := csCallee.m
	if len(site.Args) != len(callee.Params) {
		panic(fmt.Sprintf("pta: call %v passes %d arguments to %v expecting %d",
			site, len(site.Args), callee, len(callee.Params)))
	}

	c, ct := csSite.ctx, csCallee.ctx
	for i, arg := range site.Args {
		s.addPFGEdge(s.mgr.csVar(c, arg), s.mgr.csVar(ct, callee.Params[i]))
	}
	if site.Result != nil {
		for _, ret := range callee.ReturnVars() {
			s.addPFGEdge(s.mgr.csVar(ct, ret), s.mgr.csVar(c, site.Result))
		}
	}
}
