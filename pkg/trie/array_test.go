package trie

import (
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nainya/triedict/internal/metrics"
	"github.com/nainya/triedict/pkg/buffer"
	"github.com/nainya/triedict/pkg/codec"
)

func TestReadPtNodeArrayWithMovedNode(t *testing.T) {
	var b body
	b.arraySize(3)
	a := b.node(codec.NodeFields{Flags: notMoved, ParentPos: codec.NotADictPos, CodePoints: word("a"), ChildrenPos: codec.NotADictPos})
	stub := len(b.data)
	// original segment: array(1) + 3 nodes of 8 bytes + forward link(3)
	target := 1 + 3*8 + 3
	b.node(codec.NodeFields{Flags: codec.FlagIsMoved, ParentPos: target, CodePoints: word("b"), ChildrenPos: codec.NotADictPos})
	c := b.node(codec.NodeFields{Flags: notMoved, ParentPos: codec.NotADictPos, CodePoints: word("c"), ChildrenPos: codec.NotADictPos})
	b.forwardLink(codec.NotADictPos)
	require.Len(t, b.data, target)

	buf := buffer.New(b.data, 64)
	moved := appendNode(t, buf, codec.NodeFields{Flags: notMoved, ParentPos: codec.NotADictPos, CodePoints: word("bee"), ChildrenPos: codec.NotADictPos})

	f := newFixture(t, buf, nil)
	arr, err := f.reader.ReadPtNodeArray(0)
	require.NoError(t, err)
	require.Len(t, arr.Nodes, 3)

	assert.Equal(t, a, arr.Nodes[0].HeadPos)
	assert.Equal(t, moved, arr.Nodes[1].HeadPos)
	assert.Equal(t, "bee", arr.Nodes[1].Word())
	assert.Equal(t, stub+8, arr.Nodes[1].SiblingPos)
	assert.Equal(t, c, arr.Nodes[2].HeadPos)
	assert.False(t, arr.HasForwardLink())
}

func TestReadPtNodeArrayForwardLink(t *testing.T) {
	var b body
	b.arraySize(1)
	b.node(codec.NodeFields{Flags: notMoved, ParentPos: codec.NotADictPos, CodePoints: word("a"), ChildrenPos: codec.NotADictPos})
	next := len(b.data) + 3
	b.forwardLink(next)
	b.arraySize(1)
	last := b.node(codec.NodeFields{Flags: notMoved, ParentPos: codec.NotADictPos, CodePoints: word("z"), ChildrenPos: codec.NotADictPos})

	f := newFixture(t, buffer.New(b.data, 0), nil)
	arr, err := f.reader.ReadPtNodeArray(0)
	require.NoError(t, err)
	require.True(t, arr.HasForwardLink())
	assert.Equal(t, next, arr.ForwardLink)

	// the second array ends at the tail without a link
	arr, err = f.reader.ReadPtNodeArray(arr.ForwardLink)
	require.NoError(t, err)
	require.Len(t, arr.Nodes, 1)
	assert.Equal(t, last, arr.Nodes[0].HeadPos)
	assert.False(t, arr.HasForwardLink())
}

func TestReadPtNodeArrayInvalid(t *testing.T) {
	var b body
	b.arraySize(4)
	b.node(codec.NodeFields{Flags: notMoved, ParentPos: codec.NotADictPos, CodePoints: word("a"), ChildrenPos: codec.NotADictPos})

	f := newFixture(t, buffer.New(b.data, 0), nil)

	_, err := f.reader.ReadPtNodeArray(-3)
	assert.True(t, errors.Is(err, ErrInvalidArray))

	arr, err := f.reader.ReadPtNodeArray(0)
	assert.True(t, errors.Is(err, ErrInvalidArray))
	assert.Len(t, arr.Nodes, 1)
	assert.Equal(t, 1.0, testutil.ToFloat64(f.metrics.CorruptionsTotal.WithLabelValues(metrics.ReasonBadArray)))
}
