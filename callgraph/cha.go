package callgraph

import (
	"github.com/gungnir479/pta/internal/queue"
	"github.com/gungnir479/pta/ir"
)

// BuildCHA builds a call graph using class-hierarchy analysis only: virtual
// and interface sites resolve against every subclass (implementor) of the
// declared receiver class, without any points-to information.
func BuildCHA(w *ir.World) *Graph[*ir.Invoke, *ir.Method] {
	g := New[*ir.Invoke, *ir.Method]()
	g.AddEntry(w.Entry())

	var work queue.Queue[*ir.Method]
	work.Push(w.Entry())

	for !work.Empty() {
		m := work.Pop()
		if !g.AddReachableMethod(m) {
			continue
		}

		for _, stmt := range m.Stmts {
			site, ok := stmt.(*ir.Invoke)
			if !ok {
				continue
			}
			for _, callee := range ResolveCHA(w, site) {
				g.AddEdge(Edge[*ir.Invoke, *ir.Method]{
					Kind:   site.Kind,
					Site:   site,
					Callee: callee,
				})
				work.Push(callee)
			}
		}
	}

	return g
}

// ResolveCHA returns the possible targets of a call site under
// class-hierarchy analysis. Sites that dispatch nowhere (abstract-only
// chains, dynamic sites) yield no targets.
func ResolveCHA(w *ir.World, site *ir.Invoke) []*ir.Method {
	switch site.Kind {
	case ir.CallStatic, ir.CallSpecial:
		if m := w.Dispatch(site.Ref.Class, site.Ref.Subsignature); m != nil {
			return []*ir.Method{m}
		}
		return nil

	case ir.CallVirtual:
		decl := site.Ref.Class
		classes := append([]*ir.Class{decl}, w.AllSubclassesOf(decl)...)
		return dispatchAll(w, classes, site.Ref.Subsignature)

	case ir.CallInterface:
		return dispatchAll(w, w.AllImplementorsOf(site.Ref.Class), site.Ref.Subsignature)

	default:
		return nil
	}
}

func dispatchAll(w *ir.World, classes []*ir.Class, subsig string) []*ir.Method {
	seen := make(map[*ir.Method]bool)
	var res []*ir.Method
	for _, c := range classes {
		if m := w.Dispatch(c, subsig); m != nil && !seen[m] {
			seen[m] = true
			res = append(res, m)
		}
	}
	return res
}
