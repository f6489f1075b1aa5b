// Package share builds deep-link URLs for songs and copies them out.
package share

import (
	"errors"
	"fmt"
	"net/url"

	"github.com/atotto/clipboard"

	"github.com/sangeet-player/sangeet/internal/catalog"
)

// ErrUnavailable reports that no clipboard mechanism exists on this
// system.
var ErrUnavailable = errors.New("share: clipboard unavailable")

// Payload is what gets handed to the share target.
type Payload struct {
	Title string
	Text  string
	URL   string
}

// BuildPayload creates a share payload deep-linking to the song. origin
// is the scheme://host[:port] prefix and basePath the app's path. The
// share text names the song and carries its lyric in the given
// language when one exists.
func BuildPayload(song catalog.Song, lang catalog.Language, origin, basePath string) Payload {
	link := fmt.Sprintf("%s%s?type=song_id&data=%s", origin, basePath, url.QueryEscape(song.ID))
	text := fmt.Sprintf("Check out this song: %s by %s", song.Title, song.Artist)
	if lyric := song.Lyrics.In(lang); lyric != "" {
		text += "\n\nLyrics:-\n" + lyric
	}
	return Payload{
		Title: song.Title,
		Text:  text,
		URL:   link,
	}
}

// Sharer delivers a payload to the user's environment.
type Sharer interface {
	Share(p Payload) error
}

// ClipboardSharer copies the share URL to the system clipboard.
type ClipboardSharer struct{}

func (ClipboardSharer) Share(p Payload) error {
	if clipboard.Unsupported {
		return ErrUnavailable
	}
	if err := clipboard.WriteAll(p.URL); err != nil {
		return fmt.Errorf("copy share link: %w", err)
	}
	return nil
}
