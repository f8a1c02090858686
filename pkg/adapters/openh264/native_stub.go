//go:build !cgo || noopenh264

package openh264

// Builds without cgo, or with the noopenh264 tag, carry no native codec.
// Session constructors fail up front; everything else in the module still
// works.

func newNativeDecoder(DecoderConfig) (nativeDecoder, error) {
	return nil, ErrNotSupported
}

func newNativeEncoder(EncoderConfig) (nativeEncoder, error) {
	return nil, ErrNotSupported
}
