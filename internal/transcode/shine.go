package transcode

import (
	"bytes"

	shine "github.com/braheezy/shine-mp3/pkg/mp3"
)

// shineEncoder adapts the pure-Go shine encoder to the block Encoder
// interface. Shine encodes at a fixed 128kbps CBR, which is exactly the
// pipeline's bitrate.
type shineEncoder struct {
	enc      *shine.Encoder
	channels int
	buf      bytes.Buffer
	scratch  []int16
}

func newShineEncoder(channels, sampleRate int) (Encoder, error) {
	return &shineEncoder{
		enc:      shine.NewEncoder(sampleRate, channels),
		channels: channels,
	}, nil
}

// EncodeBlock interleaves the channel blocks and feeds them through
// shine, returning whatever complete frames came out.
func (s *shineEncoder) EncodeBlock(left, right []int16) ([]byte, error) {
	var data []int16
	if s.channels > 1 {
		if cap(s.scratch) < len(left)*2 {
			s.scratch = make([]int16, len(left)*2)
		}
		data = s.scratch[:len(left)*2]
		for i := range left {
			data[2*i] = left[i]
			data[2*i+1] = right[i]
		}
	} else {
		data = left
	}

	s.buf.Reset()
	if err := s.enc.Write(&s.buf, data); err != nil {
		return nil, err
	}

	frame := make([]byte, s.buf.Len())
	copy(frame, s.buf.Bytes())
	return frame, nil
}

// Flush is a no-op: the pipeline feeds whole frames, so shine never
// buffers across Write calls.
func (s *shineEncoder) Flush() ([]byte, error) {
	return nil, nil
}
