package bitstream

import (
	"bytes"
	"testing"
)

func TestScannerCrossBoundary(t *testing.T) {
	s := NewScanner()

	if _, ok := s.Next(); ok {
		t.Fatal("empty scanner should have no unit")
	}

	// The start code of the second unit straddles all three chunks.
	s.Feed([]byte{1, 2, 3, 0})
	if _, ok := s.Next(); ok {
		t.Fatal("no unit expected before any start code completes")
	}

	s.Feed([]byte{0, 1, 104, 238, 56, 127})
	if _, ok := s.Next(); ok {
		t.Fatal("unit is not complete until the next start code arrives")
	}

	s.Feed([]byte{0, 0, 1, 104, 238, 56, 128})
	unit, ok := s.Next()
	if !ok {
		t.Fatal("expected a complete unit")
	}
	if want := []byte{104, 238, 56, 127}; !bytes.Equal(unit, want) {
		t.Errorf("unit = %v, want %v", unit, want)
	}
	if _, ok := s.Next(); ok {
		t.Error("no further complete unit expected")
	}
}

func TestScannerMultipleUnitsOneChunk(t *testing.T) {
	s := NewScanner()
	s.Feed([]byte{1, 2, 3, 0, 0, 1, 22, 33, 44, 0, 0, 0, 1, 9, 5, 6, 7, 0, 0, 1, 7, 8, 9})

	first, ok := s.Next()
	if !ok || !bytes.Equal(first, []byte{22, 33, 44}) {
		t.Fatalf("first unit = %v, %v", first, ok)
	}
	second, ok := s.Next()
	if !ok || !bytes.Equal(second, []byte{9, 5, 6, 7}) {
		t.Fatalf("second unit = %v, %v", second, ok)
	}
	if _, ok := s.Next(); ok {
		t.Fatal("third unit must wait for end of stream")
	}

	tail, ok := s.Flush()
	if !ok || !bytes.Equal(tail, []byte{7, 8, 9}) {
		t.Fatalf("Flush = %v, %v", tail, ok)
	}
}

func TestScannerOwnedCopies(t *testing.T) {
	s := NewScanner()
	chunk := []byte{0, 0, 1, 5, 6, 0, 0, 1}
	s.Feed(chunk)

	unit, ok := s.Next()
	if !ok {
		t.Fatal("expected a unit")
	}

	// Mutating source and feeding more data must not corrupt the unit.
	chunk[3] = 0xFF
	s.Feed(bytes.Repeat([]byte{0xAA}, 64))

	if want := []byte{5, 6}; !bytes.Equal(unit, want) {
		t.Errorf("unit mutated: %v, want %v", unit, want)
	}
}

func TestScannerFlushResets(t *testing.T) {
	s := NewScanner()
	s.Feed([]byte{0, 0, 1, 1, 2})

	if unit, ok := s.Flush(); !ok || !bytes.Equal(unit, []byte{1, 2}) {
		t.Fatalf("Flush = %v, %v", unit, ok)
	}
	if unit, ok := s.Flush(); ok {
		t.Fatalf("second Flush should be empty, got %v", unit)
	}

	// Scanner is reusable after Flush.
	s.Feed([]byte{0, 0, 1, 9, 0, 0, 1})
	if unit, ok := s.Next(); !ok || !bytes.Equal(unit, []byte{9}) {
		t.Fatalf("unit after reuse = %v, %v", unit, ok)
	}
}
