// Package audio decodes compressed audio blobs into PCM.
package audio

import "time"

// PCM holds fully decoded audio as per-channel float samples in [-1, 1].
// Mono sources are dual-mono: Right aliases Left.
type PCM struct {
	SampleRate int
	Channels   int // channel count of the source (1 or 2)
	Left       []float32
	Right      []float32
}

// Samples returns the per-channel sample count.
func (p *PCM) Samples() int {
	return len(p.Left)
}

// Duration returns the decoded audio length.
func (p *PCM) Duration() time.Duration {
	if p.SampleRate == 0 {
		return 0
	}
	return time.Duration(p.Samples()) * time.Second / time.Duration(p.SampleRate)
}
