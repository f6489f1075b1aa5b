package share

import (
	"testing"

	"github.com/sangeet-player/sangeet/internal/catalog"
)

func TestBuildPayload(t *testing.T) {
	song := catalog.Song{
		ID:     "42",
		Title:  "Bhakti Geet",
		Artist: "Saiyam The Real Life",
		Lyrics: catalog.Lyrics{English: "english text", Gujarati: "ગુજરાતી"},
	}

	p := BuildPayload(song, catalog.LanguageGujarati, "https://example.com", "/player")

	if want := "https://example.com/player?type=song_id&data=42"; p.URL != want {
		t.Errorf("URL = %q, want %q", p.URL, want)
	}
	if p.Title != "Bhakti Geet" {
		t.Errorf("Title = %q", p.Title)
	}
	want := "Check out this song: Bhakti Geet by Saiyam The Real Life\n\nLyrics:-\nગુજરાતી"
	if p.Text != want {
		t.Errorf("Text = %q, want title, artist and the gujarati lyric", p.Text)
	}
}

func TestBuildPayloadEscapesID(t *testing.T) {
	song := catalog.Song{ID: "a b&c"}
	p := BuildPayload(song, catalog.LanguageEnglish, "https://example.com", "/")
	if want := "https://example.com/?type=song_id&data=a+b%26c"; p.URL != want {
		t.Errorf("URL = %q, want %q", p.URL, want)
	}
}

func TestBuildPayloadNoLyric(t *testing.T) {
	song := catalog.Song{ID: "1", Title: "T", Artist: "A"}
	p := BuildPayload(song, catalog.LanguageEnglish, "https://example.com", "/")
	if p.Text != "Check out this song: T by A" {
		t.Errorf("Text = %q, want no lyrics block when the song has none", p.Text)
	}
}
