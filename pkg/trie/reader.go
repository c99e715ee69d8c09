// ABOUTME: Node reader for the dynamic patricia trie dictionary
// ABOUTME: Decodes node records and follows moved-node forwards to their targets

package trie

import (
	"fmt"

	"github.com/nainya/triedict/internal/logger"
	"github.com/nainya/triedict/internal/metrics"
	"github.com/nainya/triedict/pkg/buffer"
	"github.com/nainya/triedict/pkg/codec"
	"github.com/nainya/triedict/pkg/forgetting"
	"github.com/nainya/triedict/pkg/probability"
)

// DefaultMaxMoveHops bounds the forwards followed for one resolution
const DefaultMaxMoveHops = 16

// Snapshotter provides point-in-time views of a dictionary buffer
type Snapshotter interface {
	Snapshot() buffer.View
}

// NodeReaderConfig wires the reader to its collaborators
type NodeReaderConfig struct {
	Buffer        Snapshotter
	Decoder       codec.FieldDecoder
	Probabilities probability.Store
	Curve         forgetting.Decoder
	MaxMoveHops   int
	Logger        *logger.Logger
	Metrics       *metrics.Metrics // optional
}

// NodeReader resolves node records. It holds no mutable state and is safe
// for concurrent use.
type NodeReader struct {
	buf         Snapshotter
	decoder     codec.FieldDecoder
	probs       probability.Store
	curve       forgetting.Decoder
	maxMoveHops int
	log         *logger.Logger
	metrics     *metrics.Metrics
}

// NewNodeReader creates a reader from cfg
func NewNodeReader(cfg NodeReaderConfig) (*NodeReader, error) {
	if cfg.Buffer == nil || cfg.Decoder == nil || cfg.Probabilities == nil {
		return nil, fmt.Errorf("buffer, decoder and probabilities are required: %w", ErrInvalidConfig)
	}

	r := &NodeReader{
		buf:         cfg.Buffer,
		decoder:     cfg.Decoder,
		probs:       cfg.Probabilities,
		curve:       cfg.Curve,
		maxMoveHops: cfg.MaxMoveHops,
		log:         cfg.Logger,
		metrics:     cfg.Metrics,
	}
	if r.curve == nil {
		r.curve = forgetting.NewCurve()
	}
	if r.maxMoveHops <= 0 {
		r.maxMoveHops = DefaultMaxMoveHops
	}
	if r.log == nil {
		r.log = logger.Nop()
	}
	return r, nil
}

// ResolveNode reads the node whose record starts at pos. Moved nodes are
// followed to their final position. Unreadable positions yield the record
// from NewNodeParams; check IsValid.
func (r *NodeReader) ResolveNode(pos int) NodeParams {
	return r.resolve(r.buf.Snapshot(), pos, codec.NotADictPos, 0)
}

// resolve carries siblingPos unchanged through a chain of moved nodes.
// It is NotADictPos only for the outermost record.
func (r *NodeReader) resolve(view buffer.View, pos, siblingPos, hops int) NodeParams {
	tail := view.TailPosition()
	if pos < 0 || pos >= tail {
		r.corrupt(metrics.ReasonOutOfRange, pos, tail, nil)
		return NewNodeParams()
	}
	if hops > r.maxMoveHops {
		r.corrupt(metrics.ReasonMoveChain, pos, tail,
			fmt.Errorf("more than %d moved nodes", r.maxMoveHops))
		return NewNodeParams()
	}

	p, err := r.readNode(view, pos, siblingPos)
	if err != nil {
		r.corrupt(metrics.ReasonTruncated, pos, tail, err)
		return NewNodeParams()
	}

	if p.IsMoved() {
		// moved records store the destination in the parent field
		return r.resolve(view, p.ParentPos, p.SiblingPos, hops+1)
	}

	if r.metrics != nil {
		r.metrics.RecordNodeRead(hops)
	}
	return p
}

// readNode decodes the single record at pos without following moves
func (r *NodeReader) readNode(view buffer.View, pos, siblingPos int) (NodeParams, error) {
	p := NewNodeParams()
	p.HeadPos = pos
	c := codec.NewCursor(view, pos)

	flags, err := r.decoder.Flags(c)
	if err != nil {
		return p, err
	}
	p.Flags = flags

	parentOffset, err := r.decoder.ParentOffset(c)
	if err != nil {
		return p, err
	}
	p.ParentPos = codec.ParentPos(parentOffset, pos)

	chars := codec.NewCodePoints(codec.MaxWordLength)
	if err := r.decoder.CodePoints(c, flags, chars); err != nil {
		return p, err
	}
	if chars.Truncated() {
		r.log.Warn("node characters exceed maximum word length").
			Int("position", pos).
			Int("max_word_length", codec.MaxWordLength).
			Send()
		if r.metrics != nil {
			r.metrics.TruncatedWordsTotal.Inc()
		}
	}
	p.CodePoints = chars.Points()

	if flags.IsTerminal() {
		p.TerminalIDFieldPos = c.Pos
		p.TerminalID, err = r.decoder.TerminalID(c)
		if err != nil {
			return p, err
		}
		p.Probability = r.probabilityOf(pos, p.TerminalID)
	}

	p.ChildrenPosFieldPos = c.Pos
	p.ChildrenPos, err = r.decoder.ChildrenPos(c)
	if err != nil {
		return p, err
	}

	// records are packed, so the end of this one is the next sibling's head
	p.SiblingPos = siblingPos
	if siblingPos == codec.NotADictPos {
		p.SiblingPos = c.Pos
	}

	if addr := view.Translate(pos); addr.Segment == buffer.SegmentAdditional {
		r.log.Debug("decoded node from additional segment").
			Int("position", addr.Logical()).
			Int("offset", addr.Offset).
			Send()
	}
	return p, nil
}

// probabilityOf leaves the node readable when the store fails; the failure
// is reported and the probability is NotAProbability
func (r *NodeReader) probabilityOf(pos, terminalID int) int {
	entry, err := r.probs.GetEntry(terminalID)
	if err != nil {
		r.log.LogStoreFailure(terminalID, pos, err)
		if r.metrics != nil {
			r.metrics.RecordCorruption(metrics.ReasonProbability)
		}
		return codec.NotAProbability
	}
	if !entry.HasHistoricalInfo() {
		return entry.Probability
	}
	if r.metrics != nil {
		r.metrics.DecayedLookupsTotal.Inc()
	}
	return r.curve.DecodeProbability(entry.HistoricalInfo)
}

func (r *NodeReader) corrupt(reason string, pos, tail int, err error) {
	r.log.LogCorruption(reason, pos, tail, err)
	if r.metrics != nil {
		r.metrics.RecordCorruption(reason)
	}
}
