package bitstream

// Splitter lazily walks an Annex B buffer and produces the NAL units
// between start codes. It recognizes the 3-byte start code 0x000001 and
// treats the 4-byte form 0x00000001 as the 3-byte code preceded by one
// padding byte, which is never emitted as unit payload. Empty intervals
// between consecutive start codes are suppressed.
//
// The Splitter holds no copy of the input; returned Units alias the
// source buffer and the caller must not mutate it while units are live.
type Splitter struct {
	data []byte
	pos  int
	// payload is the index just past the last start code seen,
	// or -1 before the first start code is found.
	payload int
	done    bool
}

// Split returns a Splitter over data. The same buffer can be re-walked
// after Reset.
func Split(data []byte) *Splitter {
	return &Splitter{data: data, payload: -1}
}

// Reset rewinds the Splitter to the start of the buffer.
func (s *Splitter) Reset() {
	s.pos = 0
	s.payload = -1
	s.done = false
}

// Next returns the next non-empty unit and true, or a zero Unit and
// false once the buffer is exhausted. A buffer without any start code
// yields no units.
func (s *Splitter) Next() (Unit, bool) {
	for !s.done {
		i := findStartCode(s.data, s.pos)
		if i < 0 {
			s.done = true
			// Everything after the last start code is the final unit.
			if s.payload >= 0 && s.payload < len(s.data) {
				return Unit{src: s.data, Offset: s.payload, Length: len(s.data) - s.payload}, true
			}
			return Unit{}, false
		}

		start := s.payload
		end := i
		// One trailing zero belongs to a 4-byte start code, not the unit.
		if start >= 0 && end > start && s.data[end-1] == 0 {
			end--
		}

		s.payload = i + 3
		s.pos = i + 3

		if start >= 0 && end > start {
			return Unit{src: s.data, Offset: start, Length: end - start}, true
		}
	}
	return Unit{}, false
}

// Units eagerly collects every unit in data.
func Units(data []byte) []Unit {
	var units []Unit
	s := Split(data)
	for u, ok := s.Next(); ok; u, ok = s.Next() {
		units = append(units, u)
	}
	return units
}

// findStartCode returns the index of the next 0x000001 sequence at or
// after from, or -1 if none remains.
func findStartCode(data []byte, from int) int {
	for i := from; i+2 < len(data); i++ {
		if data[i] == 0 && data[i+1] == 0 && data[i+2] == 1 {
			return i
		}
	}
	return -1
}
