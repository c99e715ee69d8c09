package forgetting

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/nainya/triedict/pkg/codec"
	"github.com/nainya/triedict/pkg/probability"
)

func fixedCurve(now time.Time) *Curve {
	c := NewCurve()
	c.Now = func() time.Time { return now }
	return c
}

func TestDecodeProbabilityFresh(t *testing.T) {
	now := time.Unix(1700000000, 0)
	c := fixedCurve(now)

	info := probability.HistoricalInfo{Timestamp: int(now.Unix()), Level: MaxLevel, Count: 1}
	assert.Equal(t, codec.MaxProbability, c.DecodeProbability(info))
	assert.Equal(t, 0, c.ElapsedSteps(info.Timestamp))
}

func TestDecodeProbabilityMonotoneInTime(t *testing.T) {
	start := time.Unix(1700000000, 0)
	info := probability.HistoricalInfo{Timestamp: int(start.Unix()), Level: 2}

	prev := codec.MaxProbability + 1
	for h := 0; h <= 48; h += 2 {
		p := fixedCurve(start.Add(time.Duration(h) * time.Hour)).DecodeProbability(info)
		assert.LessOrEqual(t, p, prev, "hour %d", h)
		assert.GreaterOrEqual(t, p, 1)
		prev = p
	}

	fresh := fixedCurve(start).DecodeProbability(info)
	stale := fixedCurve(start.Add(48 * time.Hour)).DecodeProbability(info)
	assert.Less(t, stale, fresh)
}

func TestDecodeProbabilityLevels(t *testing.T) {
	now := time.Unix(1700000000, 0)
	c := fixedCurve(now.Add(3 * time.Hour))

	prev := 0
	for level := 0; level <= MaxLevel+2; level++ {
		p := c.DecodeProbability(probability.HistoricalInfo{Timestamp: int(now.Unix()), Level: level})
		assert.GreaterOrEqual(t, p, prev, "level %d", level)
		prev = p
	}
}

func TestDecodeProbabilityNoHistory(t *testing.T) {
	c := NewCurve()
	info := probability.HistoricalInfo{Timestamp: probability.NotATimestamp}
	assert.Equal(t, codec.NotAProbability, c.DecodeProbability(info))
}

func TestElapsedStepsClamped(t *testing.T) {
	now := time.Unix(1700000000, 0)
	c := fixedCurve(now)
	assert.Equal(t, DefaultMaxElapsedSteps, c.ElapsedSteps(int(now.Add(-30*24*time.Hour).Unix())))
	assert.Equal(t, 0, c.ElapsedSteps(int(now.Add(time.Hour).Unix())))
}
