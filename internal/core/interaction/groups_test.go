package interaction

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSelectionIsExclusiveWithinGroup(t *testing.T) {
	g := NewGroups()
	require.True(t, g.Add("hands", "left"))
	require.True(t, g.Add("hands", "right"))
	assert.False(t, g.Add("hands", "left"))

	assert.True(t, g.TrySelect("left"))
	assert.True(t, g.TrySelect("left"))
	assert.False(t, g.TrySelect("right"))

	active, ok := g.ActiveMember("hands")
	assert.True(t, ok)
	assert.Equal(t, "left", active)

	assert.True(t, g.Release("left"))
	assert.False(t, g.Release("left"))
	assert.True(t, g.TrySelect("right"))
}

func TestUngroupedMembersSelectFreely(t *testing.T) {
	g := NewGroups()
	assert.True(t, g.TrySelect("left"))
	assert.True(t, g.TrySelect("right"))
	assert.True(t, g.IsSelecting("right"))
}

func TestNestedGroupsInheritMembership(t *testing.T) {
	g := NewGroups()
	g.Add("left-hand", "left-ray")
	g.Add("left-hand", "left-direct")
	g.Add("rig", "left-hand")
	g.Add("rig", "head-gaze")

	assert.Equal(t, []string{"left-hand", "rig"}, g.GroupsOf("left-ray"))
	assert.True(t, g.IsMember("rig", "left-direct"))
	assert.ElementsMatch(t, []string{"left-hand", "head-gaze", "left-ray", "left-direct"}, g.Members("rig"))

	require.True(t, g.TrySelect("head-gaze"))
	assert.False(t, g.TrySelect("left-ray"))

	g.Remove("rig", "left-hand")
	assert.False(t, g.IsMember("rig", "left-ray"))
	assert.True(t, g.TrySelect("left-ray"))
}

func TestRemoveGroupDropsInheritedEdges(t *testing.T) {
	g := NewGroups()
	g.Add("inner", "a")
	g.Add("outer", "inner")
	require.True(t, g.IsMember("outer", "a"))

	assert.True(t, g.RemoveGroup("inner"))
	assert.False(t, g.IsMember("outer", "a"))
	assert.Empty(t, g.GroupsOf("a"))
	assert.False(t, g.RemoveGroup("inner"))
}

func TestCyclicNestingTerminates(t *testing.T) {
	g := NewGroups()
	g.Add("a", "b")
	g.Add("b", "a")
	g.Add("a", "m")
	assert.ElementsMatch(t, []string{"a", "b"}, g.GroupsOf("m"))
}

func TestForgetReleasesSelection(t *testing.T) {
	g := NewGroups()
	g.Add("hands", "left")
	g.Add("hands", "right")
	g.TrySelect("left")
	g.Forget("left")

	assert.False(t, g.IsSelecting("left"))
	assert.Equal(t, []string{"right"}, g.Members("hands"))
	assert.True(t, g.TrySelect("right"))
}
