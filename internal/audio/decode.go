package audio

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"github.com/gopxl/beep/v2/mp3"
)

// ErrUnsupported is returned when the blob is not a format this player
// can decode.
var ErrUnsupported = errors.New("audio: unsupported format")

// maxFrameSamples covers the largest packet either codec produces per
// channel (Opus caps at 5760 samples at 48kHz; Vorbis blocks are smaller).
const maxFrameSamples = 8192

// Decode sniffs the blob format and decodes it fully into PCM.
func Decode(data []byte) (*PCM, error) {
	switch {
	case len(data) >= 4 && string(data[:4]) == "OggS":
		return decodeOgg(data)
	case looksLikeMP3(data):
		return decodeMP3(data)
	}
	return nil, ErrUnsupported
}

// decodeOgg decodes an Ogg Opus or Ogg Vorbis stream.
func decodeOgg(data []byte) (*PCM, error) {
	packets, err := splitOggPackets(data)
	if err != nil {
		return nil, fmt.Errorf("parse ogg: %w", err)
	}
	if len(packets) == 0 {
		return nil, ErrUnsupported
	}

	codec, err := detectOggCodec(packets[0])
	if err != nil {
		return nil, err
	}

	// Consume header packets until the codec is ready.
	i := 1
	for {
		if i >= len(packets) {
			return nil, errHeadersIncomplete
		}
		done, err := codec.readHeader(packets[i])
		i++
		if err != nil {
			return nil, fmt.Errorf("read headers: %w", err)
		}
		if done {
			break
		}
	}

	chans := codec.channels()
	pcm := &PCM{
		SampleRate: codec.sampleRate(),
		Channels:   chans,
	}

	buf := make([]float32, maxFrameSamples*chans)
	for ; i < len(packets); i++ {
		n, err := codec.decode(packets[i], buf)
		if err != nil {
			continue // skip damaged packets, keep the rest of the stream
		}
		appendInterleaved(pcm, buf[:n*chans], chans)
	}

	// Drop decoder-priming samples (Opus pre-skip).
	if skip := codec.preSkip(); skip > 0 && skip < len(pcm.Left) {
		pcm.Left = pcm.Left[skip:]
		if chans > 1 {
			pcm.Right = pcm.Right[skip:]
		}
	}

	if chans == 1 {
		pcm.Right = pcm.Left
	}
	return pcm, nil
}

// decodeMP3 decodes an MP3 stream via beep. beep's MP3 decoder always
// produces stereo output, so Channels reports 2.
func decodeMP3(data []byte) (*PCM, error) {
	streamer, format, err := mp3.Decode(io.NopCloser(bytes.NewReader(data)))
	if err != nil {
		return nil, fmt.Errorf("decode mp3: %w", err)
	}
	defer streamer.Close()

	pcm := &PCM{
		SampleRate: int(format.SampleRate),
		Channels:   2,
	}

	frame := make([][2]float64, 2048)
	for {
		n, ok := streamer.Stream(frame)
		for _, s := range frame[:n] {
			pcm.Left = append(pcm.Left, float32(s[0]))
			pcm.Right = append(pcm.Right, float32(s[1]))
		}
		if !ok {
			break
		}
	}
	if err := streamer.Err(); err != nil {
		return nil, fmt.Errorf("decode mp3: %w", err)
	}
	return pcm, nil
}

// appendInterleaved de-interleaves one decoded frame into the PCM
// channel buffers.
func appendInterleaved(pcm *PCM, samples []float32, chans int) {
	if chans == 1 {
		pcm.Left = append(pcm.Left, samples...)
		return
	}
	for i := 0; i+1 < len(samples); i += 2 {
		pcm.Left = append(pcm.Left, samples[i])
		pcm.Right = append(pcm.Right, samples[i+1])
	}
}

// looksLikeMP3 checks for an ID3v2 tag or an MPEG frame sync.
func looksLikeMP3(data []byte) bool {
	if len(data) >= 3 && string(data[:3]) == "ID3" {
		return true
	}
	return len(data) >= 2 && data[0] == 0xFF && data[1]&0xE0 == 0xE0
}
