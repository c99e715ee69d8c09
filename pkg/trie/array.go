package trie

import (
	"fmt"

	"github.com/nainya/triedict/internal/metrics"
	"github.com/nainya/triedict/pkg/codec"
)

// NodeArray is a run of sibling nodes: a count, the packed records and a
// forward link to the array continuing the same sibling list
type NodeArray struct {
	Pos         int
	Nodes       []NodeParams
	ForwardLink int
}

// HasForwardLink reports whether more siblings follow in another array
func (a NodeArray) HasForwardLink() bool {
	return a.ForwardLink != codec.NotADictPos
}

// ReadPtNodeArray reads the node array starting at pos. Siblings are found
// through SiblingPos, so moved nodes keep their slot in the array.
func (r *NodeReader) ReadPtNodeArray(pos int) (NodeArray, error) {
	view := r.buf.Snapshot()
	tail := view.TailPosition()
	arr := NodeArray{Pos: pos, ForwardLink: codec.NotADictPos}

	if pos < 0 || pos >= tail {
		r.corrupt(metrics.ReasonBadArray, pos, tail, nil)
		return arr, fmt.Errorf("array at %d, tail %d: %w", pos, tail, ErrInvalidArray)
	}

	c := codec.NewCursor(view, pos)
	n, err := r.decoder.ArraySize(c)
	if err != nil {
		r.corrupt(metrics.ReasonBadArray, pos, tail, err)
		return arr, fmt.Errorf("array at %d: %w", pos, ErrInvalidArray)
	}

	arr.Nodes = make([]NodeParams, 0, n)
	next := c.Pos
	for i := 0; i < n; i++ {
		node := r.resolve(view, next, codec.NotADictPos, 0)
		if !node.IsValid() {
			return arr, fmt.Errorf("node %d of array at %d: %w", i, pos, ErrInvalidArray)
		}
		arr.Nodes = append(arr.Nodes, node)
		next = node.SiblingPos
	}

	// the last array of a dictionary may end exactly at the tail
	if next == tail {
		return arr, nil
	}
	c.Pos = next
	arr.ForwardLink, err = r.decoder.ForwardLink(c)
	if err != nil {
		r.corrupt(metrics.ReasonBadArray, next, tail, err)
		return arr, fmt.Errorf("forward link of array at %d: %w", pos, ErrInvalidArray)
	}
	return arr, nil
}
