package graphmodel

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSerializeDeserialize_RoundTripsPlainGraph(t *testing.T) {
	f := newFixture()
	tree := f.newTree()

	c, _ := tree.AddNode("const")
	add, _ := tree.AddNode("add")
	sink, _ := tree.AddNode("sink")
	_, err := tree.AddLink(c.Outputs[0], add.Inputs[0], AddLinkOptions{})
	require.NoError(t, err)
	_, err = tree.AddLink(add.Outputs[0], sink.Inputs[0], AddLinkOptions{})
	require.NoError(t, err)

	blob, err := tree.Serialize()
	require.NoError(t, err)

	out := f.newTree()
	require.NoError(t, out.Deserialize(blob))

	assert.Len(t, out.Nodes, 3)
	assert.Len(t, out.Links, 2)

	kinds := map[string]int{}
	for _, n := range out.Nodes {
		kinds[n.TypeInfo.IDName]++
	}
	assert.Equal(t, 1, kinds["const"])
	assert.Equal(t, 1, kinds["add"])
	assert.Equal(t, 1, kinds["sink"])

	order := out.LeftToRight()
	require.Len(t, order, 3)
}

func TestSerializeDeserialize_InsertsConversionNodeOnReplay(t *testing.T) {
	f := newFixture()
	tree := f.newTree()

	c, _ := tree.AddNode("const")
	sink, _ := tree.AddNode("str_sink")
	_, err := tree.AddLink(c.Outputs[0], sink.Inputs[0], AddLinkOptions{})
	require.NoError(t, err)

	blob, err := tree.Serialize()
	require.NoError(t, err)

	out := f.newTree()
	require.NoError(t, out.Deserialize(blob))

	var convCount, visibleCount int
	for _, n := range out.Nodes {
		if n.TypeInfo.Invisible {
			convCount++
		} else {
			visibleCount++
		}
	}
	assert.Equal(t, 1, convCount, "deserialize must reinsert the invisible conversion node via AddLink")
	assert.Equal(t, 2, visibleCount)
}

func TestDeserialize_UnknownKindFailsAndClearsTree(t *testing.T) {
	f := newFixture()
	tree := f.newTree()
	tree.AddNode("const")

	out := f.newTree()
	out.AddNode("sink")

	err := out.Deserialize([]byte(`{"nodes":{"n1":{"type":"no_such_kind","inputs":{},"outputs":{}}},"links":[]}`))
	assert.Error(t, err)
	assert.Empty(t, out.Nodes, "a failed deserialize must leave the tree empty, not half-populated")
}

func TestDeserialize_UnknownTypeNameFailsAndClearsTree(t *testing.T) {
	f := newFixture()
	out := f.newTree()
	out.AddNode("sink")

	doc := `{"nodes":{"n1":{"type":"const","inputs":{},"outputs":{"value":{"ID":"s1","type_name":"no_such_type","ui_name":"","direction":"output","optional":false}}}},"links":[]}`
	err := out.Deserialize([]byte(doc))
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "type_name")
	assert.Empty(t, out.Nodes, "a failed deserialize must leave the tree empty, not half-populated")
}

func TestDeserialize_MalformedJSONFails(t *testing.T) {
	f := newFixture()
	out := f.newTree()
	out.AddNode("const")

	err := out.Deserialize([]byte(`not json`))
	assert.Error(t, err)
	assert.Empty(t, out.Nodes)
}
