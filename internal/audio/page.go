package audio

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
)

var (
	errInvalidOggMagic   = errors.New("ogg: invalid capture pattern")
	errInvalidOggVersion = errors.New("ogg: unsupported version")
)

// oggPageHeader is the fixed part of an Ogg page plus its segment table.
type oggPageHeader struct {
	granulePos   int64
	serialNumber uint32
	sequenceNum  uint32
	segmentTable []uint8
}

// parseOggPageHeader reads one page header. The 27-byte fixed header is
// followed by the segment (lacing) table.
func parseOggPageHeader(r io.Reader) (*oggPageHeader, error) {
	var buf [27]byte
	if _, err := io.ReadFull(r, buf[:]); err != nil {
		return nil, err
	}

	if string(buf[0:4]) != "OggS" {
		return nil, errInvalidOggMagic
	}
	if buf[4] != 0 {
		return nil, errInvalidOggVersion
	}

	hdr := &oggPageHeader{
		granulePos:   int64(binary.LittleEndian.Uint64(buf[6:14])),
		serialNumber: binary.LittleEndian.Uint32(buf[14:18]),
		sequenceNum:  binary.LittleEndian.Uint32(buf[18:22]),
		// checksum at buf[22:26] is not validated; a corrupt packet
		// surfaces as a codec decode error instead.
	}

	numSegments := int(buf[26])
	if numSegments > 0 {
		hdr.segmentTable = make([]uint8, numSegments)
		if _, err := io.ReadFull(r, hdr.segmentTable); err != nil {
			return nil, err
		}
	}

	return hdr, nil
}

// splitOggPackets parses a complete in-memory Ogg stream into codec
// packets. A packet ends on any lacing value below 255; packets may span
// pages, so a trailing 255-lacing run carries over to the next page.
func splitOggPackets(data []byte) ([][]byte, error) {
	r := bytes.NewReader(data)
	var packets [][]byte
	var partial []byte

	for {
		hdr, err := parseOggPageHeader(r)
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read page %d: %w", len(packets), err)
		}

		for _, lace := range hdr.segmentTable {
			seg := make([]byte, int(lace))
			if _, err := io.ReadFull(r, seg); err != nil {
				return nil, fmt.Errorf("read segment: %w", err)
			}
			partial = append(partial, seg...)
			if lace < 255 {
				packets = append(packets, partial)
				partial = nil
			}
		}
	}

	// A dangling partial means the stream was truncated mid-packet; keep
	// what decoded cleanly and let the caller work with it.
	return packets, nil
}
