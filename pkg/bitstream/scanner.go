package bitstream

// Scanner splits an incrementally arriving Annex B stream into NAL unit
// payloads, handling start codes that straddle chunk boundaries. Feed
// appends data; Next pops complete units. Units returned by Next are
// owned copies, valid independently of later Feed calls.
type Scanner struct {
	buf []byte
	// payload is the index just past the last start code in buf,
	// or -1 before the first start code is found.
	payload int
	// searchFrom avoids rescanning bytes already known to hold no
	// start code; up to 2 trailing bytes are always rechecked.
	searchFrom int
}

// NewScanner creates an empty Scanner.
func NewScanner() *Scanner {
	return &Scanner{payload: -1}
}

// Feed appends a chunk of stream data. Call Next repeatedly afterwards
// until it reports no further unit.
func (s *Scanner) Feed(p []byte) {
	s.buf = append(s.buf, p...)
}

// Next returns the next complete unit payload, or nil and false if no
// complete unit is buffered yet. A unit is complete once the start code
// of its successor has arrived.
func (s *Scanner) Next() ([]byte, bool) {
	for {
		i := findStartCode(s.buf, s.searchFrom)
		if i < 0 {
			if n := len(s.buf) - 2; n > 0 {
				s.searchFrom = n
			}
			// Discard bytes that can never become unit payload.
			if s.payload < 0 && len(s.buf) > 2 {
				s.buf = s.buf[len(s.buf)-2:]
				s.searchFrom = 0
			}
			return nil, false
		}

		start := s.payload
		end := i
		if start >= 0 && end > start && s.buf[end-1] == 0 {
			end--
		}

		var unit []byte
		if start >= 0 && end > start {
			unit = append([]byte(nil), s.buf[start:end]...)
		}

		s.buf = s.buf[i+3:]
		s.payload = 0
		s.searchFrom = 0

		if unit != nil {
			return unit, true
		}
	}
}

// Flush returns the final unit at end of stream: the bytes between the
// last start code and the end of the buffered data. It resets the
// Scanner for reuse.
func (s *Scanner) Flush() ([]byte, bool) {
	var unit []byte
	if s.payload >= 0 && s.payload < len(s.buf) {
		unit = append([]byte(nil), s.buf[s.payload:]...)
	}
	s.buf = nil
	s.payload = -1
	s.searchFrom = 0
	return unit, unit != nil
}
