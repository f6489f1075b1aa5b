// Package transcode converts fetched audio blobs into MP3 byte streams,
// block by block, with progress reporting and cooperative cancellation.
package transcode

import (
	"bytes"
	"errors"
	"fmt"
	"runtime"

	"github.com/sangeet-player/sangeet/internal/audio"
)

// ErrCancelled reports that the owner of the cancellation token aborted
// the encode. It is an expected outcome, not a failure: callers must
// distinguish it from fetch/decode errors so the host can show a
// "cancelled" notice instead of an error one. Partial output is never
// exposed.
var ErrCancelled = errors.New("transcode: cancelled")

const (
	// blockSize is the per-channel sample count fed to the encoder per
	// block, matching one MPEG-1 layer III frame.
	blockSize = 1152
	// checkEvery is how many blocks pass between cancellation and
	// progress checks. At 48kHz that is ~1.2s of audio per batch, far
	// less than that in wall time.
	checkEvery = 100
	// bitrateKbps is the fixed encode bitrate.
	bitrateKbps = 128
)

// Encoder turns 16-bit PCM blocks into MP3 frames. Implementations are
// stateful and seeded with channel count and sample rate.
type Encoder interface {
	// EncodeBlock encodes one block. left and right have equal length;
	// for mono sources they alias the same data.
	EncodeBlock(left, right []int16) ([]byte, error)
	// Flush drains any internally buffered trailing frames.
	Flush() ([]byte, error)
}

// NewEncoderFunc builds an Encoder for a stream's channel layout.
type NewEncoderFunc func(channels, sampleRate int) (Encoder, error)

// Options configure an encode run.
type Options struct {
	// WantMP3 false short-circuits the pipeline: the source bytes come
	// back unchanged, no decoding at all.
	WantMP3 bool
	// OnProgress, when set, receives the whole-percent progress. It is
	// only invoked when the rounded percentage changes.
	OnProgress func(percent int)
	// Token allows the caller to abort mid-flight. Nil means
	// non-cancellable.
	Token *Token
	// NewEncoder overrides the MP3 encoder; defaults to the shine
	// encoder. Mainly for tests.
	NewEncoder NewEncoderFunc
}

// EncodeToMP3 runs the full pipeline on an in-memory source blob:
// decode to PCM, convert to 16-bit, encode in blocks, flush.
func EncodeToMP3(source []byte, opts Options) ([]byte, error) {
	if !opts.WantMP3 {
		return source, nil
	}

	pcm, err := audio.Decode(source)
	if err != nil {
		return nil, fmt.Errorf("decode source: %w", err)
	}

	return EncodePCM(pcm, opts)
}

// EncodePCM encodes already-decoded PCM into an MP3 byte stream.
func EncodePCM(pcm *audio.PCM, opts Options) ([]byte, error) {
	newEncoder := opts.NewEncoder
	if newEncoder == nil {
		newEncoder = newShineEncoder
	}

	enc, err := newEncoder(pcm.Channels, pcm.SampleRate)
	if err != nil {
		return nil, fmt.Errorf("init encoder: %w", err)
	}

	var out bytes.Buffer
	total := pcm.Samples()
	lastPercent := -1

	for i, block := 0, 0; i < total; i, block = i+blockSize, block+1 {
		if block%checkEvery == 0 {
			if opts.Token.Cancelled() {
				return nil, ErrCancelled
			}
			percent := i * 100 / total
			if percent != lastPercent {
				if opts.OnProgress != nil {
					opts.OnProgress(percent)
				}
				lastPercent = percent
			}
		}

		end := min(i+blockSize, total)
		left := ToInt16(pcm.Left[i:end])
		right := left
		if pcm.Channels > 1 {
			right = ToInt16(pcm.Right[i:end])
		}

		frame, err := enc.EncodeBlock(left, right)
		if err != nil {
			return nil, fmt.Errorf("encode block %d: %w", block, err)
		}
		if len(frame) > 0 {
			out.Write(frame)
		}

		// Yield once per block so the host stays responsive; this is a
		// scheduling point, not a correctness requirement.
		runtime.Gosched()
	}

	trailer, err := enc.Flush()
	if err != nil {
		return nil, fmt.Errorf("flush encoder: %w", err)
	}
	if len(trailer) > 0 {
		out.Write(trailer)
	}

	return out.Bytes(), nil
}
