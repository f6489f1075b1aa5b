// Package player plays decoded PCM through the system speaker.
package player

import (
	"fmt"
	"sync"
	"time"

	"github.com/gopxl/beep/v2"
	"github.com/gopxl/beep/v2/speaker"

	"github.com/sangeet-player/sangeet/internal/audio"
)

type State int

const (
	Stopped State = iota
	Playing
	Paused
)

func (s State) String() string {
	switch s {
	case Playing:
		return "playing"
	case Paused:
		return "paused"
	default:
		return "stopped"
	}
}

// speakerSampleRate is the fixed mixer rate. Tracks at other rates are
// resampled on the fly.
const speakerSampleRate = beep.SampleRate(48000)

var (
	speakerOnce sync.Once
	speakerErr  error
)

func initSpeaker() error {
	speakerOnce.Do(func() {
		speakerErr = speaker.Init(speakerSampleRate, speakerSampleRate.N(time.Second/10))
	})
	return speakerErr
}

// Player owns the speaker and plays one track at a time.
type Player struct {
	mu         sync.Mutex
	state      State
	ctrl       *beep.Ctrl
	streamer   *pcmStreamer
	rate       beep.SampleRate
	onFinished func()
}

func New() *Player {
	return &Player{state: Stopped}
}

// Play replaces whatever is playing with the given track and starts it.
func (p *Player) Play(pcm *audio.PCM) error {
	if err := initSpeaker(); err != nil {
		return fmt.Errorf("init speaker: %w", err)
	}

	p.Stop()

	p.mu.Lock()
	p.streamer = newPCMStreamer(pcm)
	p.rate = beep.SampleRate(pcm.SampleRate)
	p.ctrl = &beep.Ctrl{Streamer: p.streamer, Paused: false}
	p.state = Playing

	var stream beep.Streamer = p.ctrl
	if p.rate != speakerSampleRate {
		stream = beep.Resample(4, p.rate, speakerSampleRate, p.ctrl)
	}
	p.mu.Unlock()

	// The callback fires on the speaker goroutine with the speaker lock
	// held; hop to a fresh goroutine before touching p.mu so lock order
	// never inverts against Position/Pause.
	speaker.Play(beep.Seq(stream, beep.Callback(func() {
		go func() {
			p.mu.Lock()
			fn := p.onFinished
			p.state = Stopped
			p.mu.Unlock()
			if fn != nil {
				fn()
			}
		}()
	})))

	return nil
}

// Stop halts playback and drops the current track.
func (p *Player) Stop() {
	p.mu.Lock()
	if p.state == Stopped {
		p.mu.Unlock()
		return
	}
	p.ctrl = nil
	p.streamer = nil
	p.state = Stopped
	p.mu.Unlock()

	speaker.Clear()
}

func (p *Player) Pause() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.state != Playing || p.ctrl == nil {
		return
	}
	speaker.Lock()
	p.ctrl.Paused = true
	speaker.Unlock()
	p.state = Paused
}

func (p *Player) Resume() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.state != Paused || p.ctrl == nil {
		return
	}
	speaker.Lock()
	p.ctrl.Paused = false
	speaker.Unlock()
	p.state = Playing
}

// Toggle flips between playing and paused. A stopped player stays
// stopped.
func (p *Player) Toggle() {
	p.mu.Lock()
	state := p.state
	p.mu.Unlock()

	switch state {
	case Playing:
		p.Pause()
	case Paused:
		p.Resume()
	}
}

func (p *Player) State() State {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.state
}

// Position returns the playback position in the current track.
func (p *Player) Position() time.Duration {
	p.mu.Lock()
	streamer, rate := p.streamer, p.rate
	p.mu.Unlock()
	if streamer == nil {
		return 0
	}
	speaker.Lock()
	pos := rate.D(streamer.Position())
	speaker.Unlock()
	return pos
}

// Duration returns the length of the current track.
func (p *Player) Duration() time.Duration {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.streamer == nil {
		return 0
	}
	return p.rate.D(p.streamer.Len())
}

// Seek moves the position by delta, clamped to the track bounds.
func (p *Player) Seek(delta time.Duration) {
	p.mu.Lock()
	streamer, rate, state := p.streamer, p.rate, p.state
	p.mu.Unlock()
	if streamer == nil || state == Stopped {
		return
	}
	speaker.Lock()
	newPos := streamer.Position() + rate.N(delta)
	_ = streamer.Seek(newPos)
	speaker.Unlock()
}

// SeekTo moves to an absolute position, clamped to the track bounds.
func (p *Player) SeekTo(pos time.Duration) {
	p.mu.Lock()
	streamer, rate, state := p.streamer, p.rate, p.state
	p.mu.Unlock()
	if streamer == nil || state == Stopped {
		return
	}
	speaker.Lock()
	_ = streamer.Seek(rate.N(pos))
	speaker.Unlock()
}

// OnFinished registers a callback invoked when a track plays to the
// end. It runs on the speaker goroutine; keep it short.
func (p *Player) OnFinished(fn func()) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.onFinished = fn
}
