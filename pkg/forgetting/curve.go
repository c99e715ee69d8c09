// Package forgetting converts word usage history into a current probability
package forgetting

import (
	"math"
	"time"

	"github.com/nainya/triedict/pkg/codec"
	"github.com/nainya/triedict/pkg/probability"
)

const (
	// MaxLevel is the highest usage level a word can reach
	MaxLevel = 3

	DefaultLevelDownDuration = 24 * time.Hour
	DefaultMaxElapsedSteps   = 15
)

// Decoder turns historical info into an effective probability
type Decoder interface {
	DecodeProbability(info probability.HistoricalInfo) int
}

// Curve decays probability with the time elapsed since the last use.
// Higher levels start from a higher probability.
type Curve struct {
	LevelDownDuration time.Duration
	MaxElapsedSteps   int
	Now               func() time.Time
}

var _ Decoder = (*Curve)(nil)

// NewCurve creates a curve with the default durations and the wall clock
func NewCurve() *Curve {
	return &Curve{
		LevelDownDuration: DefaultLevelDownDuration,
		MaxElapsedSteps:   DefaultMaxElapsedSteps,
		Now:               time.Now,
	}
}

// ElapsedSteps returns the number of decay steps since timestamp
func (c *Curve) ElapsedSteps(timestamp int) int {
	steps := c.maxSteps()
	step := c.LevelDownDuration / time.Duration(steps)
	if step <= 0 {
		return steps
	}
	elapsed := c.now().Sub(time.Unix(int64(timestamp), 0))
	if elapsed <= 0 {
		return 0
	}
	n := int(elapsed / step)
	if n > steps {
		return steps
	}
	return n
}

func (c *Curve) DecodeProbability(info probability.HistoricalInfo) int {
	if !info.IsValid() {
		return codec.NotAProbability
	}
	level := info.Level
	if level < 0 {
		level = 0
	}
	if level > MaxLevel {
		level = MaxLevel
	}

	steps := c.ElapsedSteps(info.Timestamp)
	weight := float64(level+1) / float64(MaxLevel+1)
	decay := math.Exp2(-float64(steps) / float64(c.maxSteps()))

	p := int(math.Round(codec.MaxProbability * weight * decay))
	if p < 1 {
		return 1
	}
	return p
}

func (c *Curve) maxSteps() int {
	if c.MaxElapsedSteps <= 0 {
		return DefaultMaxElapsedSteps
	}
	return c.MaxElapsedSteps
}

func (c *Curve) now() time.Time {
	if c.Now == nil {
		return time.Now()
	}
	return c.Now()
}
