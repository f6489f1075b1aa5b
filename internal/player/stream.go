package player

import (
	"github.com/gopxl/beep/v2"

	"github.com/sangeet-player/sangeet/internal/audio"
)

// pcmStreamer adapts decoded in-memory PCM to beep's streamer contract.
// Seeking is trivial since the whole track is resident.
type pcmStreamer struct {
	pcm *audio.PCM
	pos int
}

func newPCMStreamer(pcm *audio.PCM) *pcmStreamer {
	return &pcmStreamer{pcm: pcm}
}

func (s *pcmStreamer) Stream(samples [][2]float64) (int, bool) {
	if s.pos >= s.pcm.Samples() {
		return 0, false
	}
	n := min(len(samples), s.pcm.Samples()-s.pos)
	for i := 0; i < n; i++ {
		samples[i][0] = float64(s.pcm.Left[s.pos+i])
		samples[i][1] = float64(s.pcm.Right[s.pos+i])
	}
	s.pos += n
	return n, true
}

func (s *pcmStreamer) Err() error { return nil }

func (s *pcmStreamer) Len() int { return s.pcm.Samples() }

func (s *pcmStreamer) Position() int { return s.pos }

func (s *pcmStreamer) Seek(p int) error {
	if p < 0 {
		p = 0
	}
	if p > s.pcm.Samples() {
		p = s.pcm.Samples()
	}
	s.pos = p
	return nil
}

func (s *pcmStreamer) Close() error { return nil }

var _ beep.StreamSeekCloser = (*pcmStreamer)(nil)
