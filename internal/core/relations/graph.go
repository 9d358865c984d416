package relations

type set[T comparable] map[T]struct{}

// Graph indexes entity -> parent edges in both directions. Explicit and
// inherited edges are kept apart so either kind can be removed on its own.
// A Graph is not safe for concurrent use.
type Graph[E, P comparable] struct {
	explicitParents   map[E]set[P]
	inheritedParents  map[E]set[P]
	explicitChildren  map[P]set[E]
	inheritedChildren map[P]set[E]
}

func NewGraph[E, P comparable]() *Graph[E, P] {
	return &Graph[E, P]{
		explicitParents:   make(map[E]set[P]),
		inheritedParents:  make(map[E]set[P]),
		explicitChildren:  make(map[P]set[E]),
		inheritedChildren: make(map[P]set[E]),
	}
}

// AddExplicitParent reports false when the edge already exists.
func (g *Graph[E, P]) AddExplicitParent(e E, p P) bool {
	return link(g.explicitParents, g.explicitChildren, e, p)
}

// AddInheritedParent reports false when the edge already exists.
func (g *Graph[E, P]) AddInheritedParent(e E, p P) bool {
	return link(g.inheritedParents, g.inheritedChildren, e, p)
}

func (g *Graph[E, P]) RemoveExplicitParent(e E, p P) bool {
	return unlink(g.explicitParents, g.explicitChildren, e, p)
}

func (g *Graph[E, P]) RemoveInheritedParent(e E, p P) bool {
	return unlink(g.inheritedParents, g.inheritedChildren, e, p)
}

// PruneEntity drops every edge of e. It reports whether anything was removed.
func (g *Graph[E, P]) PruneEntity(e E) bool {
	a := prune(g.explicitParents, g.explicitChildren, e)
	b := prune(g.inheritedParents, g.inheritedChildren, e)
	return a || b
}

// PruneParent drops every edge into p. It reports whether anything was removed.
func (g *Graph[E, P]) PruneParent(p P) bool {
	a := prune(g.explicitChildren, g.explicitParents, p)
	b := prune(g.inheritedChildren, g.inheritedParents, p)
	return a || b
}

// HasParent is true when either edge kind connects e to p.
func (g *Graph[E, P]) HasParent(e E, p P) bool {
	return has(g.explicitParents, e, p) || has(g.inheritedParents, e, p)
}

func (g *Graph[E, P]) HasExplicitParent(e E, p P) bool  { return has(g.explicitParents, e, p) }
func (g *Graph[E, P]) HasInheritedParent(e E, p P) bool { return has(g.inheritedParents, e, p) }

// IsParent is true when p has at least one child of either kind.
func (g *Graph[E, P]) IsParent(p P) bool {
	return len(g.explicitChildren[p]) > 0 || len(g.inheritedChildren[p]) > 0
}

// Parents returns e's parents of both kinds, each once, in no particular order.
func (g *Graph[E, P]) Parents(e E) []P {
	return union(g.explicitParents[e], g.inheritedParents[e])
}

func (g *Graph[E, P]) ExplicitParents(e E) []P  { return union(g.explicitParents[e], nil) }
func (g *Graph[E, P]) InheritedParents(e E) []P { return union(g.inheritedParents[e], nil) }

// Children returns p's children of both kinds, each once, in no particular order.
func (g *Graph[E, P]) Children(p P) []E {
	return union(g.explicitChildren[p], g.inheritedChildren[p])
}

// Entities lists every entity holding at least one explicit edge.
func (g *Graph[E, P]) Entities() []E {
	out := make([]E, 0, len(g.explicitParents))
	for e := range g.explicitParents {
		out = append(out, e)
	}
	return out
}

// ClearInherited drops every inherited edge.
func (g *Graph[E, P]) ClearInherited() {
	clear(g.inheritedParents)
	clear(g.inheritedChildren)
}

// Size reports how many entities and parents hold any bookkeeping.
func (g *Graph[E, P]) Size() (entities, parents int) {
	seenE := make(set[E])
	for e := range g.explicitParents {
		seenE[e] = struct{}{}
	}
	for e := range g.inheritedParents {
		seenE[e] = struct{}{}
	}
	seenP := make(set[P])
	for p := range g.explicitChildren {
		seenP[p] = struct{}{}
	}
	for p := range g.inheritedChildren {
		seenP[p] = struct{}{}
	}
	return len(seenE), len(seenP)
}

func link[A, B comparable](forward map[A]set[B], backward map[B]set[A], a A, b B) bool {
	if has(forward, a, b) {
		return false
	}
	add(forward, a, b)
	add(backward, b, a)
	return true
}

func unlink[A, B comparable](forward map[A]set[B], backward map[B]set[A], a A, b B) bool {
	if !has(forward, a, b) {
		return false
	}
	remove(forward, a, b)
	remove(backward, b, a)
	return true
}

func prune[A, B comparable](forward map[A]set[B], backward map[B]set[A], a A) bool {
	targets, ok := forward[a]
	if !ok {
		return false
	}
	for b := range targets {
		remove(backward, b, a)
	}
	delete(forward, a)
	return true
}

func has[A, B comparable](m map[A]set[B], a A, b B) bool {
	_, ok := m[a][b]
	return ok
}

func add[A, B comparable](m map[A]set[B], a A, b B) {
	s, ok := m[a]
	if !ok {
		s = make(set[B])
		m[a] = s
	}
	s[b] = struct{}{}
}

// remove drops the edge and the record once it holds nothing.
func remove[A, B comparable](m map[A]set[B], a A, b B) {
	s, ok := m[a]
	if !ok {
		return
	}
	delete(s, b)
	if len(s) == 0 {
		delete(m, a)
	}
}

func union[T comparable](a, b set[T]) []T {
	out := make([]T, 0, len(a)+len(b))
	for v := range a {
		out = append(out, v)
	}
	for v := range b {
		if _, dup := a[v]; !dup {
			out = append(out, v)
		}
	}
	return out
}
