package executor

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zclconf/go-cty/cty"

	"github.com/Jerry-Shen0527/rznode/internal/graphmodel"
	"github.com/Jerry-Shen0527/rznode/internal/typed"
)

func TestSyncNodeFromExternalStorage_InvalidatesOnlyDownstream(t *testing.T) {
	f := newExecFixture()
	tree := f.newTree()

	srcCount, setSrc := f.registerSource("source", 1)
	midCount := f.registerPassthrough("mid")
	sinkCount := f.registerSink("sink")

	src, _ := tree.AddNode("source")
	mid, _ := tree.AddNode("mid")
	sink, _ := tree.AddNode("sink")
	_, err := tree.AddLink(src.Outputs[0], mid.Inputs[0], graphmodel.AddLinkOptions{})
	require.NoError(t, err)
	_, err = tree.AddLink(mid.Outputs[0], sink.Inputs[0], graphmodel.AddLinkOptions{})
	require.NoError(t, err)
	setSrc(src, 1)

	e := New()
	e.Execute(testContext(), tree, nil)
	require.Equal(t, 1, *srcCount)
	require.Equal(t, 1, *midCount)
	require.Equal(t, 1, *sinkCount)

	// Push a new value directly into mid's input socket, as an editor would
	// after dragging a slider. source itself is untouched and upstream of
	// the change, so it must not re-execute; mid and sink are downstream of
	// the edited socket and must.
	e.SyncNodeFromExternalStorage(mid.Inputs[0], typed.New(f.number, cty.NumberFloatVal(99)))
	e.Execute(testContext(), tree, nil)

	assert.Equal(t, 1, *srcCount, "source is upstream of the edited socket and must not re-run")
	assert.Equal(t, 2, *midCount)
	assert.Equal(t, 2, *sinkCount)

	v, ok := e.GetSocketValue(sink.Inputs[0])
	require.True(t, ok)
	assert.Equal(t, 99.0, asFloat(v))
}

func TestReconnectLink_SinkPicksUpNewSourceAfterStructureChange(t *testing.T) {
	f := newExecFixture()
	tree := f.newTree()

	f.registerSource("sourceA", 1)
	f.registerSource("sourceB", 2)
	f.registerSink("sink")

	a, _ := tree.AddNode("sourceA")
	b, _ := tree.AddNode("sourceB")
	sink, _ := tree.AddNode("sink")

	_, err := tree.AddLink(a.Outputs[0], sink.Inputs[0], graphmodel.AddLinkOptions{})
	require.NoError(t, err)

	e := New()
	e.Execute(testContext(), tree, nil)
	v, ok := e.GetSocketValue(sink.Inputs[0])
	require.True(t, ok)
	assert.Equal(t, 1.0, asFloat(v))

	_, err = tree.AddLink(b.Outputs[0], sink.Inputs[0], graphmodel.AddLinkOptions{AllowRelinkToOutput: true})
	require.NoError(t, err)
	e.MarkTreeStructureChanged()

	e.Execute(testContext(), tree, nil)
	v, ok = e.GetSocketValue(sink.Inputs[0])
	require.True(t, ok)
	assert.Equal(t, 2.0, asFloat(v), "sink must reflect sourceB's value after being relinked to it")
}

func TestAddLink_TypeConversionIsExercisedDuringExecution(t *testing.T) {
	f := newExecFixture()
	tree := f.newTree()

	numCount, setSrc := f.registerSource("numSource", 3)
	convCount := f.registerNumToStr("num_to_str")
	strSinkCount := f.registerStrSink("str_sink")

	src, _ := tree.AddNode("numSource")
	sink, _ := tree.AddNode("str_sink")
	link, err := tree.AddLink(src.Outputs[0], sink.Inputs[0], graphmodel.AddLinkOptions{})
	require.NoError(t, err)
	require.NotNil(t, link.ConversionNode)
	setSrc(src, 3)

	e := New()
	e.Execute(testContext(), tree, nil)

	assert.Equal(t, 1, *numCount)
	assert.Equal(t, 1, *convCount)
	assert.Equal(t, 1, *strSinkCount)

	v, ok := e.GetSocketValue(sink.Inputs[0])
	require.True(t, ok)
	assert.Equal(t, "3", v.Value().AsString())
}
