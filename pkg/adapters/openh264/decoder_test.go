package openh264

import (
	"bytes"
	"errors"
	"testing"

	"github.com/user/h264kit/pkg/mocks"
	"github.com/user/h264kit/pkg/ports"
)

type fakeDecodeStep struct {
	pic    nativePicture
	status int64
}

// fakeDecoder scripts native responses and records every call, so tests
// can assert that faulted sessions never reach the native layer.
type fakeDecoder struct {
	script []fakeDecodeStep
	drains []fakeDecodeStep

	decodeCalls int
	drainCalls  int
	closeCalls  int
	lastInput   []byte
}

func (f *fakeDecoder) decode(annexb []byte) (nativePicture, int64) {
	f.lastInput = append([]byte(nil), annexb...)
	i := f.decodeCalls
	f.decodeCalls++
	if i < len(f.script) {
		return f.script[i].pic, f.script[i].status
	}
	return nativePicture{}, dsErrorFree
}

func (f *fakeDecoder) drain() (nativePicture, int64) {
	i := f.drainCalls
	f.drainCalls++
	if i < len(f.drains) {
		return f.drains[i].pic, f.drains[i].status
	}
	return nativePicture{}, dsErrorFree
}

func (f *fakeDecoder) close() { f.closeCalls++ }

// testPicture builds a scratch picture with padded strides, the shape the
// native decoder hands out.
func testPicture(w, h int) nativePicture {
	sy := w + 16
	sc := (w+1)/2 + 8
	ch := (h + 1) / 2
	pic := nativePicture{
		valid: true, width: w, height: h, strideY: sy, strideC: sc,
		y:  make([]byte, sy*h),
		cb: make([]byte, sc*ch),
		cr: make([]byte, sc*ch),
	}
	for r := 0; r < h; r++ {
		for x := 0; x < w; x++ {
			pic.y[r*sy+x] = byte(x + r)
		}
	}
	for r := 0; r < ch; r++ {
		for x := 0; x < (w+1)/2; x++ {
			pic.cb[r*sc+x] = byte(x)
			pic.cr[r*sc+x] = byte(r)
		}
	}
	return pic
}

func TestFeedFramesUnitForNative(t *testing.T) {
	fake := &fakeDecoder{}
	d := newDecoder(fake, DecoderConfig{})

	pic, err := d.Feed([]byte{0x65, 0x88, 0x84})
	if err != nil {
		t.Fatalf("Feed failed: %v", err)
	}
	if pic != nil {
		t.Fatal("expected no picture while reordering")
	}
	want := []byte{0x00, 0x00, 0x00, 0x01, 0x65, 0x88, 0x84}
	if !bytes.Equal(fake.lastInput, want) {
		t.Fatalf("native input = %v, want %v", fake.lastInput, want)
	}
}

func TestFeedReturnsCopiedPicture(t *testing.T) {
	src := testPicture(512, 512)
	fake := &fakeDecoder{script: []fakeDecodeStep{{pic: src}}}
	d := newDecoder(fake, DecoderConfig{})

	pic, err := d.Feed([]byte{0x65, 0x01})
	if err != nil {
		t.Fatalf("Feed failed: %v", err)
	}
	if pic == nil {
		t.Fatal("expected a picture")
	}
	if pic.Width != 512 || pic.Height != 512 {
		t.Fatalf("picture is %dx%d, want 512x512", pic.Width, pic.Height)
	}
	if pic.StrideY < 512 {
		t.Fatalf("luma stride = %d, want >= 512", pic.StrideY)
	}
	if got := pic.Luma(5, 9); got != byte(5+9) {
		t.Fatalf("Luma(5, 9) = %d, want %d", got, 5+9)
	}
	if got := pic.ChromaB(10, 4); got != byte(10/2) {
		t.Fatalf("ChromaB(10, 4) = %d, want %d", got, 10/2)
	}

	// The copy must not alias native scratch memory.
	src.y[9*src.strideY+5] = 0xEE
	if got := pic.Luma(5, 9); got != byte(5+9) {
		t.Fatal("picture aliases native scratch memory")
	}

	if w, h := d.Resolution(); w != 512 || h != 512 {
		t.Fatalf("Resolution() = %dx%d, want 512x512", w, h)
	}
}

func TestFeedInvalidUnitIsRecoverable(t *testing.T) {
	fake := &fakeDecoder{script: []fakeDecodeStep{
		{status: dsBitstreamError},
		{pic: testPicture(64, 48)},
	}}
	d := newDecoder(fake, DecoderConfig{})

	_, err := d.Feed([]byte{0x65, 0xFF})
	if !errors.Is(err, ErrInvalidUnit) {
		t.Fatalf("got %v, want ErrInvalidUnit", err)
	}
	var nerr *NativeError
	if !errors.As(err, &nerr) || nerr.Status != dsBitstreamError || nerr.Op != "decode" {
		t.Fatalf("unexpected native error detail: %+v", nerr)
	}

	pic, err := d.Feed([]byte{0x65, 0x01})
	if err != nil {
		t.Fatalf("session should stay usable, got %v", err)
	}
	if pic == nil {
		t.Fatal("expected a picture after recovery")
	}
	if fake.decodeCalls != 2 {
		t.Fatalf("decode calls = %d, want 2", fake.decodeCalls)
	}
}

func TestFeedFatalStatusFaultsSession(t *testing.T) {
	fake := &fakeDecoder{script: []fakeDecodeStep{{status: dsInvalidArgument}}}
	d := newDecoder(fake, DecoderConfig{})

	if _, err := d.Feed([]byte{0x65}); !errors.Is(err, ErrFaulted) {
		t.Fatalf("got %v, want ErrFaulted", err)
	}

	// Every later operation short-circuits without a native call.
	if _, err := d.Feed([]byte{0x65}); !errors.Is(err, ErrFaulted) {
		t.Fatalf("got %v, want ErrFaulted", err)
	}
	if _, err := d.Flush(); !errors.Is(err, ErrFaulted) {
		t.Fatalf("got %v, want ErrFaulted", err)
	}
	if fake.decodeCalls != 1 {
		t.Fatalf("decode calls = %d, want 1", fake.decodeCalls)
	}
	if fake.drainCalls != 0 {
		t.Fatalf("drain calls = %d, want 0", fake.drainCalls)
	}
}

func TestFeedAllocationFailureDoesNotFault(t *testing.T) {
	fake := &fakeDecoder{script: []fakeDecodeStep{{status: dsOutOfMemory}}}
	d := newDecoder(fake, DecoderConfig{})

	if _, err := d.Feed([]byte{0x65}); !errors.Is(err, ErrAllocationFailure) {
		t.Fatalf("got %v, want ErrAllocationFailure", err)
	}
	if _, err := d.Feed([]byte{0x65}); err != nil {
		t.Fatalf("session should stay usable, got %v", err)
	}
	if fake.decodeCalls != 2 {
		t.Fatalf("decode calls = %d, want 2", fake.decodeCalls)
	}
}

func TestDecodeWithoutStartCodesNeverTouchesNative(t *testing.T) {
	fake := &fakeDecoder{}
	d := newDecoder(fake, DecoderConfig{})

	pics, err := d.Decode([]byte{0x01, 0x02, 0x03, 0x00, 0x00})
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	if len(pics) != 0 {
		t.Fatalf("got %d pictures, want 0", len(pics))
	}
	if fake.decodeCalls != 0 {
		t.Fatalf("decode calls = %d, want 0", fake.decodeCalls)
	}
}

func TestDecodeSkipsRejectedUnits(t *testing.T) {
	fake := &fakeDecoder{script: []fakeDecodeStep{
		{status: dsNoParamSets},
		{},
		{pic: testPicture(16, 16)},
	}}
	d := newDecoder(fake, DecoderConfig{})

	data := []byte{
		0x00, 0x00, 0x01, 0x65, 0x10,
		0x00, 0x00, 0x01, 0x67, 0x42,
		0x00, 0x00, 0x01, 0x68, 0xCE,
	}
	pics, err := d.Decode(data)
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	if len(pics) != 1 {
		t.Fatalf("got %d pictures, want 1", len(pics))
	}
	if fake.decodeCalls != 3 {
		t.Fatalf("decode calls = %d, want 3", fake.decodeCalls)
	}
}

func TestResolutionRederivedPerPicture(t *testing.T) {
	fake := &fakeDecoder{script: []fakeDecodeStep{
		{pic: testPicture(64, 48)},
		{pic: testPicture(128, 96)},
	}}
	d := newDecoder(fake, DecoderConfig{})

	if w, h := d.Resolution(); w != 0 || h != 0 {
		t.Fatalf("Resolution() = %dx%d before first picture", w, h)
	}
	if _, err := d.Feed([]byte{0x65}); err != nil {
		t.Fatal(err)
	}
	if w, h := d.Resolution(); w != 64 || h != 48 {
		t.Fatalf("Resolution() = %dx%d, want 64x48", w, h)
	}
	if _, err := d.Feed([]byte{0x65}); err != nil {
		t.Fatal(err)
	}
	if w, h := d.Resolution(); w != 128 || h != 96 {
		t.Fatalf("Resolution() = %dx%d, want 128x96", w, h)
	}
}

func TestFlushDrainsBufferedPictures(t *testing.T) {
	fake := &fakeDecoder{drains: []fakeDecodeStep{
		{pic: testPicture(32, 32)},
		{pic: testPicture(32, 32)},
		{},
	}}
	d := newDecoder(fake, DecoderConfig{})

	pics, err := d.Flush()
	if err != nil {
		t.Fatalf("Flush failed: %v", err)
	}
	if len(pics) != 2 {
		t.Fatalf("got %d pictures, want 2", len(pics))
	}
	if fake.drainCalls != 3 {
		t.Fatalf("drain calls = %d, want 3", fake.drainCalls)
	}
}

func TestDecoderCloseDestroysOnce(t *testing.T) {
	fake := &fakeDecoder{}
	d := newDecoder(fake, DecoderConfig{})

	if err := d.Close(); err != nil {
		t.Fatal(err)
	}
	if err := d.Close(); err != nil {
		t.Fatal(err)
	}
	if fake.closeCalls != 1 {
		t.Fatalf("close calls = %d, want 1", fake.closeCalls)
	}
	if _, err := d.Feed([]byte{0x65}); !errors.Is(err, ErrClosed) {
		t.Fatalf("got %v, want ErrClosed", err)
	}
	if _, err := d.Flush(); !errors.Is(err, ErrClosed) {
		t.Fatalf("got %v, want ErrClosed", err)
	}
}

func TestDecoderLogsRejectionAndFault(t *testing.T) {
	fake := &fakeDecoder{script: []fakeDecodeStep{
		{status: dsBitstreamError},
		{status: dsInvalidArgument},
	}}
	rec := &mocks.Logger{}
	d := newDecoder(fake, DecoderConfig{Logger: rec})

	if _, err := d.Feed([]byte{0x65, 0x01}); !errors.Is(err, ErrInvalidUnit) {
		t.Fatalf("got %v, want ErrInvalidUnit", err)
	}
	if _, err := d.Feed([]byte{0x65, 0x02}); !errors.Is(err, ErrFaulted) {
		t.Fatalf("got %v, want ErrFaulted", err)
	}

	warns := rec.Messages(ports.LevelWarn)
	if len(warns) != 1 || warns[0] != "Coded unit rejected with native status 0x4" {
		t.Errorf("recorded warnings = %v", warns)
	}
	errs := rec.Messages(ports.LevelError)
	if len(errs) != 1 || errs[0] != "Decoder faulted with native status 0x1000" {
		t.Errorf("recorded errors = %v", errs)
	}
	for _, e := range rec.Entries {
		if e.Component != "h264-decoder" {
			t.Errorf("entry %q tagged %q, want h264-decoder", e.Message, e.Component)
		}
	}
}
