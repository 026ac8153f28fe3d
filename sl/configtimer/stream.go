package configtimer

// CompareValueStream is a cursor over a table of compare values, such as a
// duty cycle ramp. Each DMA transfer takes the next value.
type CompareValueStream struct {
	values []uint32
	pos    int
}

func NewCompareValueStream(values []uint32) *CompareValueStream {
	return &CompareValueStream{values: values}
}

// Next returns the next value and advances the cursor. It returns false once
// every value has been taken.
func (s *CompareValueStream) Next() (uint32, bool) {
	if s.pos >= len(s.values) {
		return 0, false
	}
	v := s.values[s.pos]
	s.pos++
	return v, true
}

// Remaining returns the number of values not taken yet.
func (s *CompareValueStream) Remaining() int { return len(s.values) - s.pos }

// Reset rewinds the cursor to the first value.
func (s *CompareValueStream) Reset() { s.pos = 0 }
