package ir

import "fmt"

// World is the closed program under analysis: the class hierarchy and the
// entry method. It is immutable after [Build] returns and is passed
// explicitly to every analysis that needs it.
type World struct {
	classes map[string]*Class
	order   []*Class
	entry   *Method

	subclasses    map[*Class][]*Class // direct subclasses of a class
	subinterfaces map[*Class][]*Class // direct subinterfaces of an interface
	implementors  map[*Class][]*Class // direct implementors of an interface

	allSubclasses   map[*Class][]*Class
	allImplementors map[*Class][]*Class
}

// Entry returns the program's entry method.
func (w *World) Entry() *Method { return w.entry }

// Class looks up a class by name, or returns nil.
func (w *World) Class(name string) *Class { return w.classes[name] }

// Classes returns all classes in declaration order.
func (w *World) Classes() []*Class { return w.order }

// DirectSubclassesOf returns the classes that extend c directly.
func (w *World) DirectSubclassesOf(c *Class) []*Class { return w.subclasses[c] }

// DirectSubinterfacesOf returns the interfaces that extend interface c
// directly.
func (w *World) DirectSubinterfacesOf(c *Class) []*Class { return w.subinterfaces[c] }

// DirectImplementorsOf returns the classes that implement interface c
// directly.
func (w *World) DirectImplementorsOf(c *Class) []*Class { return w.implementors[c] }

// AllSubclassesOf returns every direct and transitive subclass of c, not
// including c itself. The traversal keeps an explicit frontier instead of
// recursing and memoizes its result per class.
func (w *World) AllSubclassesOf(c *Class) []*Class {
	if memo, ok := w.allSubclasses[c]; ok {
		return memo
	}

	res := w.expand(c, func(d *Class) []*Class { return w.subclasses[d] })
	w.allSubclasses[c] = res
	return res
}

// AllImplementorsOf returns every class that implements interface c, directly
// or through a subinterface or superclass.
func (w *World) AllImplementorsOf(c *Class) []*Class {
	if memo, ok := w.allImplementors[c]; ok {
		return memo
	}

	// Collect c and all its subinterfaces, then all direct implementors of
	// those, then all subclasses of the implementors.
	itfs := append([]*Class{c},
		w.expand(c, func(d *Class) []*Class { return w.subinterfaces[d] })...)

	seen := make(map[*Class]bool)
	var res []*Class
	add := func(d *Class) {
		if !seen[d] {
			seen[d] = true
			res = append(res, d)
		}
	}

	for _, itf := range itfs {
		for _, impl := range w.implementors[itf] {
			add(impl)
			for _, sub := range w.AllSubclassesOf(impl) {
				add(sub)
			}
		}
	}

	w.allImplementors[c] = res
	return res
}

// expand computes the transitive closure of succs starting from (but not
// including) root.
func (w *World) expand(root *Class, succs func(*Class) []*Class) []*Class {
	seen := map[*Class]bool{root: true}
	frontier := []*Class{root}
	var res []*Class

	for len(frontier) > 0 {
		c := frontier[len(frontier)-1]
		frontier = frontier[:len(frontier)-1]

		for _, sub := range succs(c) {
			if !seen[sub] {
				seen[sub] = true
				res = append(res, sub)
				frontier = append(frontier, sub)
			}
		}
	}

	return res
}

// Dispatch performs single-inheritance virtual dispatch: it finds the first
// non-abstract method with the given subsignature on the chain from c up to
// the hierarchy root. It returns nil when no such method exists.
func (w *World) Dispatch(c *Class, subsig string) *Method {
	for ; c != nil; c = c.Super {
		if m := c.DeclaredMethod(subsig); m != nil && !m.Abstract {
			return m
		}
	}
	return nil
}

// ResolveCallee resolves the unique target of a call site. Static and special
// calls resolve from the declared method reference alone; virtual and
// interface calls dispatch on the runtime class of the receiver, which must
// be supplied. Dynamic and other call sites have no unique target and
// resolve to nil, as do virtual dispatches with no matching override.
func (w *World) ResolveCallee(recv *Class, site *Invoke) *Method {
	switch site.Kind {
	case CallStatic, CallSpecial:
		return w.Dispatch(site.Ref.Class, site.Ref.Subsignature)
	case CallVirtual, CallInterface:
		if recv == nil {
			panic(fmt.Sprintf("ir: resolving %s call %v without a receiver class", site.Kind, site))
		}
		return w.Dispatch(recv, site.Ref.Subsignature)
	default:
		return nil
	}
}
