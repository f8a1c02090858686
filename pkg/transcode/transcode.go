// Package transcode pumps an elementary stream through a decode session
// and re-encodes every picture that becomes ready.
package transcode

import (
	"github.com/user/h264kit/pkg/adapters/logger"
	"github.com/user/h264kit/pkg/bitstream"
	"github.com/user/h264kit/pkg/frame"
	"github.com/user/h264kit/pkg/ports"
)

// Options adjust a transcode run.
type Options struct {
	// ForceKeyframe requests an IDR for the first re-encoded picture so
	// the output stream is independently decodable.
	ForceKeyframe bool

	// Logger receives run diagnostics. Defaults to no output.
	Logger ports.Logger
}

// Run feeds an Annex-B buffer through dec unit by unit, re-encodes every
// picture that becomes ready with enc, then drains both sessions. Packets
// are returned in encode order. Errors from either session stop the run
// with the packets produced so far; the caller owns both session
// lifecycles.
func Run(dec ports.VideoDecoder, enc ports.VideoEncoder, data []byte, opts Options) ([]ports.Packet, error) {
	log := opts.Logger
	if log == nil {
		log = logger.NewNoop()
	}
	log = log.WithComponent("transcode")

	var out []ports.Packet
	pictures := 0
	first := true

	encodeOne := func(pic *frame.Plane) error {
		eopts := ports.EncodeOptions{TimestampMs: pic.TimestampMs}
		if first {
			eopts.ForceKeyframe = opts.ForceKeyframe
			first = false
		}
		pkts, err := enc.Encode(pic, eopts)
		if err != nil {
			return err
		}
		pictures++
		out = append(out, pkts...)
		return nil
	}

	s := bitstream.Split(data)
	for {
		u, ok := s.Next()
		if !ok {
			break
		}
		pic, err := dec.Feed(u.Bytes())
		if err != nil {
			return out, err
		}
		if pic == nil {
			continue
		}
		if err := encodeOne(pic); err != nil {
			return out, err
		}
	}

	buffered, err := dec.Flush()
	if err != nil {
		return out, err
	}
	for _, pic := range buffered {
		if err := encodeOne(pic); err != nil {
			return out, err
		}
	}

	tail, err := enc.Flush()
	if err != nil {
		return out, err
	}
	out = append(out, tail...)

	log.Info("Transcoded %d pictures into %d packets", pictures, len(out))
	return out, nil
}
