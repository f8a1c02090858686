// Package bitstream splits H.264 Annex B elementary streams into
// individual NAL units. Splitting is tolerant by design: malformed input
// yields fewer (or no) units, never an error.
package bitstream

// H.264 NAL unit type constants as defined in ITU-T H.264 Table 7-1.
const (
	TypeSlice      = 1
	TypeIDR        = 5
	TypeSEI        = 6
	TypeSPS        = 7
	TypePPS        = 8
	TypeAUD        = 9
	TypeFillerData = 12
)

// Unit is a non-owning view of one NAL unit inside a source buffer,
// excluding the start code. It stays valid only as long as the source
// buffer is neither freed nor mutated.
type Unit struct {
	src []byte

	// Offset is the index of the first payload byte in the source buffer.
	Offset int
	// Length is the payload length in bytes.
	Length int
}

// Bytes returns the unit payload as a sub-slice of the source buffer.
// The returned slice is not a copy.
func (u Unit) Bytes() []byte {
	return u.src[u.Offset : u.Offset+u.Length]
}

// Type returns the NAL unit type, read from the low 5 bits of the first
// payload byte. No further parsing is performed; the payload is opaque
// to this package.
func (u Unit) Type() byte {
	return u.src[u.Offset] & 0x1F
}

// IsKeyframe reports whether the unit is an IDR slice (type 5).
func (u Unit) IsKeyframe() bool {
	return u.Type() == TypeIDR
}

// IsParameterSet reports whether the unit is an SPS or PPS.
func (u Unit) IsParameterSet() bool {
	t := u.Type()
	return t == TypeSPS || t == TypePPS
}
