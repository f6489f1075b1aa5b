package audio

import (
	"encoding/binary"
	"errors"

	"github.com/jfreymuth/vorbis"
	"github.com/jj11hh/opus"
)

// Opus always decodes at 48kHz regardless of the source rate.
const opusSampleRate = 48000

var (
	errUnknownOggCodec     = errors.New("ogg: unknown codec (not Opus or Vorbis)")
	errInvalidOpusHead     = errors.New("opus: invalid identification header")
	errUnsupportedOpus     = errors.New("opus: unsupported header version")
	errInvalidVorbisHeader = errors.New("vorbis: invalid identification header")
	errHeadersIncomplete   = errors.New("ogg: decoder headers incomplete")
)

// oggCodec handles codec-specific headers and packet decoding.
type oggCodec interface {
	sampleRate() int
	channels() int
	// preSkip returns decoder-priming samples to drop at stream start.
	preSkip() int
	// readHeader consumes one header packet; done reports when the codec
	// is ready to decode audio packets.
	readHeader(packet []byte) (done bool, err error)
	// decode decodes one packet into interleaved float PCM, returning the
	// per-channel sample count.
	decode(packet []byte, pcm []float32) (int, error)
}

// detectOggCodec identifies the codec from the stream's first packet.
func detectOggCodec(first []byte) (oggCodec, error) {
	if len(first) >= 8 && string(first[:8]) == "OpusHead" {
		return newOpusCodec(first)
	}
	if len(first) >= 7 && first[0] == 0x01 && string(first[1:7]) == "vorbis" {
		return newVorbisCodec(first)
	}
	return nil, errUnknownOggCodec
}

// opusCodec decodes Ogg Opus packets.
type opusCodec struct {
	decoder  *opus.Decoder
	chans    int
	skip     int
	tagsSeen bool
}

func newOpusCodec(head []byte) (*opusCodec, error) {
	if len(head) < 19 {
		return nil, errInvalidOpusHead
	}
	if head[8] != 1 {
		return nil, errUnsupportedOpus
	}

	chans := int(head[9])
	decoder, err := opus.NewDecoder(opusSampleRate, chans)
	if err != nil {
		return nil, err
	}

	return &opusCodec{
		decoder: decoder,
		chans:   chans,
		skip:    int(binary.LittleEndian.Uint16(head[10:12])),
	}, nil
}

func (c *opusCodec) sampleRate() int { return opusSampleRate }
func (c *opusCodec) channels() int   { return c.chans }
func (c *opusCodec) preSkip() int    { return c.skip }

// readHeader consumes the OpusTags packet that follows OpusHead.
func (c *opusCodec) readHeader(_ []byte) (bool, error) {
	c.tagsSeen = true
	return true, nil
}

func (c *opusCodec) decode(packet []byte, pcm []float32) (int, error) {
	return c.decoder.DecodeFloat32(packet, pcm)
}

// vorbisCodec decodes Ogg Vorbis packets. Vorbis needs three header
// packets (identification, comment, setup) before audio can decode.
type vorbisCodec struct {
	decoder *vorbis.Decoder
	chans   int
	rate    int
	headers [][]byte
}

func newVorbisCodec(ident []byte) (*vorbisCodec, error) {
	// [0] packet type, [1:7] "vorbis", [7:11] version, [11] channels,
	// [12:16] sample rate.
	if len(ident) < 16 {
		return nil, errInvalidVorbisHeader
	}
	if binary.LittleEndian.Uint32(ident[7:11]) != 0 {
		return nil, errInvalidVorbisHeader
	}

	identCopy := make([]byte, len(ident))
	copy(identCopy, ident)

	return &vorbisCodec{
		chans:   int(ident[11]),
		rate:    int(binary.LittleEndian.Uint32(ident[12:16])),
		headers: [][]byte{identCopy},
	}, nil
}

func (c *vorbisCodec) sampleRate() int { return c.rate }
func (c *vorbisCodec) channels() int   { return c.chans }
func (c *vorbisCodec) preSkip() int    { return 0 }

func (c *vorbisCodec) readHeader(packet []byte) (bool, error) {
	if c.decoder != nil {
		return true, nil
	}

	cp := make([]byte, len(packet))
	copy(cp, packet)
	c.headers = append(c.headers, cp)

	if len(c.headers) < 3 {
		return false, nil
	}

	decoder := &vorbis.Decoder{}
	for _, hdr := range c.headers {
		if err := decoder.ReadHeader(hdr); err != nil {
			return false, err
		}
	}
	c.decoder = decoder
	c.headers = nil
	return true, nil
}

func (c *vorbisCodec) decode(packet []byte, pcm []float32) (int, error) {
	if c.decoder == nil {
		return 0, errHeadersIncomplete
	}
	samples, err := c.decoder.Decode(packet)
	if err != nil {
		return 0, err
	}
	n := copy(pcm, samples)
	return n / c.chans, nil
}
