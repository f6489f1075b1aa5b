// Package mpris exposes playback control over D-Bus using the MPRIS
// media player interface.
package mpris

import (
	"time"

	"github.com/sangeet-player/sangeet/internal/catalog"
	"github.com/sangeet-player/sangeet/internal/player"
)

// Controller is the slice of the application the MPRIS surface drives.
type Controller interface {
	PlayPause() error
	Next() error
	Prev() error
	Stop()
	Seek(delta time.Duration)
	SeekTo(pos time.Duration)
	State() player.State
	Position() time.Duration
	Duration() time.Duration
	CurrentSong() *catalog.Song
}
