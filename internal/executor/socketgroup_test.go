package executor

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Jerry-Shen0527/rznode/internal/graphmodel"
	"github.com/Jerry-Shen0527/rznode/internal/nodekind"
)

// registerMerge3 registers a kind with a three-socket dynamic input group
// "items", always required so tests can wire/unwire group members and
// observe re-execution.
func (f *execFixture) registerMerge3(idName string) *int {
	count := new(int)
	f.kinds.Register(&nodekind.TypeInfo{
		IDName:         idName,
		AlwaysRequired: true,
		Declare: func(b *nodekind.DeclarationBuilder) {
			b.AddSocketGroup(nodekind.SocketGroupDecl{Identifier: "items", Direction: nodekind.Input, ElemType: f.number, Optional: true})
		},
		Execute: func(p *nodekind.ExecParams) bool {
			*count++
			return true
		},
	})
	return count
}

func TestSocketGroup_DeletingOneLinkStillRunsWithRemainingMembers(t *testing.T) {
	f := newExecFixture()
	tree := f.newTree()

	mergeCount := f.registerMerge3("merge")
	s0Count, setS0 := f.registerSource("s0", 1)
	s1Count, setS1 := f.registerSource("s1", 2)
	s2Count, setS2 := f.registerSource("s2", 3)
	_ = s1Count

	merge, err := tree.AddNode("merge")
	require.NoError(t, err)
	group := merge.SocketGroups[0]
	created := group.AddSocket(tree, "item0", "Item 0")
	created = append(created, group.AddSocket(tree, "item1", "Item 1")...)
	created = append(created, group.AddSocket(tree, "item2", "Item 2")...)
	require.Len(t, created, 3)
	for _, s := range created {
		require.True(t, s.Optional, "socket group declared Optional: true, so every member it creates must inherit it")
	}

	src0, _ := tree.AddNode("s0")
	src1, _ := tree.AddNode("s1")
	src2, _ := tree.AddNode("s2")
	setS0(src0, 1)
	setS1(src1, 2)
	setS2(src2, 3)

	l0, err := tree.AddLink(src0.Outputs[0], merge.Inputs[0], graphmodel.AddLinkOptions{RefreshTopology: true})
	require.NoError(t, err)
	_, err = tree.AddLink(src1.Outputs[0], merge.Inputs[1], graphmodel.AddLinkOptions{RefreshTopology: true})
	require.NoError(t, err)
	_, err = tree.AddLink(src2.Outputs[0], merge.Inputs[2], graphmodel.AddLinkOptions{RefreshTopology: true})
	require.NoError(t, err)

	e := New()
	e.Execute(testContext(), tree, nil)
	require.Equal(t, 1, *mergeCount)
	require.Equal(t, 1, *s0Count)
	require.Equal(t, 1, *s2Count)

	// Drop the link feeding item0, notify the merge node dirty directly
	// (the editor-level hook, rather than a full structure-changed reset),
	// and confirm it re-runs: item0 is now unwired, optional and has no
	// default, so the callback sees it as absent, next to the two
	// still-wired members.
	require.NoError(t, tree.DeleteLink(l0.ID, graphmodel.DeleteLinkOptions{RefreshTopology: true}))
	e.NotifyNodeDirty(merge)
	e.Execute(testContext(), tree, nil)

	assert.Equal(t, 2, *mergeCount, "merge must re-run after notify_node_dirty even with a member unlinked")
	assert.Equal(t, 1, *s0Count, "s0 is no longer linked downstream of anything required, so it must not re-run")
	assert.Equal(t, 1, *s2Count, "s2's own value and cache are untouched, so it must not re-run either")
}
