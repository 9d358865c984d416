package interaction

import (
	"slices"

	"github.com/zeusync/locomotion/internal/core/relations"
)

// Groups tracks which interactors belong to which groups and lets at most one
// member of a group hold a selection at a time. A group can itself be a member
// of another group; its members then inherit the outer membership.
type Groups struct {
	graph    *relations.Graph[string, string]
	selected map[string]struct{}
}

func NewGroups() *Groups {
	return &Groups{
		graph:    relations.NewGraph[string, string](),
		selected: make(map[string]struct{}),
	}
}

// Add makes member an explicit member of group. member may name another group.
func (g *Groups) Add(group, member string) bool {
	if group == "" || member == "" || group == member {
		return false
	}
	if !g.graph.AddExplicitParent(member, group) {
		return false
	}
	g.rebuild()
	return true
}

func (g *Groups) Remove(group, member string) bool {
	if !g.graph.RemoveExplicitParent(member, group) {
		return false
	}
	g.rebuild()
	return true
}

// RemoveGroup drops the group, its memberships and everything inherited through it.
func (g *Groups) RemoveGroup(group string) bool {
	a := g.graph.PruneParent(group)
	b := g.graph.PruneEntity(group)
	if !a && !b {
		return false
	}
	g.rebuild()
	return true
}

// Forget drops a member from every group and releases its selection.
func (g *Groups) Forget(member string) {
	delete(g.selected, member)
	if g.graph.PruneEntity(member) {
		g.rebuild()
	}
}

// GroupsOf lists every group member belongs to, directly or through nesting.
func (g *Groups) GroupsOf(member string) []string {
	out := g.graph.Parents(member)
	slices.Sort(out)
	return out
}

// Members lists a group's direct and inherited members.
func (g *Groups) Members(group string) []string {
	out := g.graph.Children(group)
	slices.Sort(out)
	return out
}

func (g *Groups) IsMember(group, member string) bool {
	return g.graph.HasParent(member, group)
}

// TrySelect grants member the selection unless another member of one of its
// groups already holds one.
func (g *Groups) TrySelect(member string) bool {
	if _, ok := g.selected[member]; ok {
		return true
	}
	for _, group := range g.graph.Parents(member) {
		if holder, ok := g.ActiveMember(group); ok && holder != member {
			return false
		}
	}
	g.selected[member] = struct{}{}
	return true
}

// Release reports whether member held a selection.
func (g *Groups) Release(member string) bool {
	if _, ok := g.selected[member]; !ok {
		return false
	}
	delete(g.selected, member)
	return true
}

func (g *Groups) IsSelecting(member string) bool {
	_, ok := g.selected[member]
	return ok
}

// ActiveMember returns the member of group holding a selection, if any.
func (g *Groups) ActiveMember(group string) (string, bool) {
	for _, member := range g.Members(group) {
		if _, ok := g.selected[member]; ok {
			return member, true
		}
	}
	return "", false
}

// rebuild recomputes inherited membership from the explicit edges.
func (g *Groups) rebuild() {
	g.graph.ClearInherited()
	for _, member := range g.graph.Entities() {
		visited := make(map[string]struct{})
		queue := g.graph.ExplicitParents(member)
		for len(queue) > 0 {
			group := queue[0]
			queue = queue[1:]
			for _, outer := range g.graph.ExplicitParents(group) {
				if _, seen := visited[outer]; seen || outer == member {
					continue
				}
				visited[outer] = struct{}{}
				if !g.graph.HasExplicitParent(member, outer) {
					g.graph.AddInheritedParent(member, outer)
				}
				queue = append(queue, outer)
			}
		}
	}
}
