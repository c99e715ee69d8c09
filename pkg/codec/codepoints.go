package codec

// CodePoints is a bounded sequence of decoded characters.
// Appends beyond the capacity are dropped and recorded as truncation.
type CodePoints struct {
	points    []int
	max       int
	truncated bool
}

// NewCodePoints creates an empty sequence holding at most max code points
func NewCodePoints(max int) *CodePoints {
	return &CodePoints{points: make([]int, 0, max), max: max}
}

// Append adds cp and reports whether it fit
func (s *CodePoints) Append(cp int) bool {
	if len(s.points) >= s.max {
		s.truncated = true
		return false
	}
	s.points = append(s.points, cp)
	return true
}

// Len returns the number of stored code points
func (s *CodePoints) Len() int {
	return len(s.points)
}

// Truncated reports whether any code point was dropped
func (s *CodePoints) Truncated() bool {
	return s.truncated
}

// Points returns a copy of the stored code points
func (s *CodePoints) Points() []int {
	out := make([]int, len(s.points))
	copy(out, s.points)
	return out
}

// String renders the code points as text
func (s *CodePoints) String() string {
	runes := make([]rune, len(s.points))
	for i, cp := range s.points {
		runes[i] = rune(cp)
	}
	return string(runes)
}
