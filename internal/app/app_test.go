package app

import (
	"context"
	"math/rand"
	"testing"

	"github.com/sangeet-player/sangeet/internal/catalog"
	"github.com/sangeet-player/sangeet/internal/notify"
	"github.com/sangeet-player/sangeet/internal/player"
	"github.com/sangeet-player/sangeet/internal/playlist"
	"github.com/sangeet-player/sangeet/internal/search"
	"github.com/sangeet-player/sangeet/internal/share"
	"github.com/sangeet-player/sangeet/internal/state"
)

type fakeSharer struct {
	payloads []share.Payload
	err      error
}

func (f *fakeSharer) Share(p share.Payload) error {
	f.payloads = append(f.payloads, p)
	return f.err
}

type recordingNotifier struct {
	notes []notify.Notification
}

func (r *recordingNotifier) Notify(n notify.Notification) (uint32, error) {
	r.notes = append(r.notes, n)
	return uint32(len(r.notes)), nil
}

func (r *recordingNotifier) Close(uint32) error { return nil }

func testSongs() []catalog.Song {
	return []catalog.Song{
		{ID: "1", Title: "One", Artist: "A", AudioURL: "u1", Lyrics: catalog.Lyrics{English: "le", Gujarati: "lg"}},
		{ID: "2", Title: "Two", Artist: "B", AudioURL: "u2"},
		{ID: "3", Title: "Three", Artist: "A", AudioURL: "u3"},
	}
}

func newTestApp(t *testing.T) (*App, *fakeSharer, *recordingNotifier) {
	t.Helper()

	engine := search.NewEngine(nil, nil)
	sel := playlist.New(testSongs(), engine, playlist.Options{
		Rand: rand.New(rand.NewSource(1)),
	})
	sel.LoadInitial(context.Background(), playlist.DeepLink{Type: playlist.DeepLinkArtist, Data: "A"})

	st, err := state.OpenPath(t.TempDir() + "/state.db")
	if err != nil {
		t.Fatalf("state.OpenPath() error: %v", err)
	}
	t.Cleanup(func() { st.Close() })

	sharer := &fakeSharer{}
	notifier := &recordingNotifier{}

	a, err := New(Deps{
		Selection: sel,
		Player:    player.New(),
		State:     st,
		Notifier:  notifier,
		Sharer:    sharer,
	})
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}
	return a, sharer, notifier
}

func TestCurrentSongIsCopy(t *testing.T) {
	a, _, _ := newTestApp(t)

	song := a.CurrentSong()
	if song == nil || song.ID != "1" {
		t.Fatalf("CurrentSong() = %v, want song 1", song)
	}

	song.Title = "mutated"
	if got := a.CurrentSong(); got.Title == "mutated" {
		t.Error("CurrentSong() returned a live reference")
	}
}

func TestShareBuildsDeepLink(t *testing.T) {
	a, sharer, _ := newTestApp(t)

	if err := a.Share(); err != nil {
		t.Fatalf("Share() error: %v", err)
	}
	if len(sharer.payloads) != 1 {
		t.Fatalf("shared %d payloads, want 1", len(sharer.payloads))
	}

	p := sharer.payloads[0]
	want := ShareOrigin + "/?type=song_id&data=1"
	if p.URL != want {
		t.Errorf("share URL = %q, want %q", p.URL, want)
	}
	// Default language is gujarati; the gujarati lyric rides along.
	if want := "Check out this song: One by A\n\nLyrics:-\nlg"; p.Text != want {
		t.Errorf("share text = %q, want %q", p.Text, want)
	}
}

func TestShareClipboardUnavailableIsNotFatal(t *testing.T) {
	a, sharer, notifier := newTestApp(t)
	sharer.err = share.ErrUnavailable

	if err := a.Share(); err != nil {
		t.Fatalf("Share() error = %v, want nil when clipboard missing", err)
	}
	if len(notifier.notes) == 0 {
		t.Error("no notification emitted for unavailable clipboard")
	}
}

func TestToggleLikeAndFavorites(t *testing.T) {
	a, _, _ := newTestApp(t)

	liked, err := a.ToggleLike()
	if err != nil {
		t.Fatalf("ToggleLike() error: %v", err)
	}
	if !liked {
		t.Error("first ToggleLike() = false, want true")
	}

	favs, err := a.Favorites()
	if err != nil {
		t.Fatalf("Favorites() error: %v", err)
	}
	if len(favs) != 1 || favs[0].ID != "1" {
		t.Errorf("Favorites() = %v, want just song 1", favs)
	}

	if _, err := a.ToggleLike(); err != nil {
		t.Fatalf("second ToggleLike() error: %v", err)
	}
	favs, err = a.Favorites()
	if err != nil {
		t.Fatalf("Favorites() error: %v", err)
	}
	if len(favs) != 0 {
		t.Errorf("Favorites() after unlike = %v, want empty", favs)
	}
}

func TestSetLanguageChangesLyrics(t *testing.T) {
	a, _, _ := newTestApp(t)

	a.SetLanguage(catalog.LanguageEnglish)
	if got := a.CurrentLyrics(); got != "le" {
		t.Errorf("CurrentLyrics() = %q, want english lyric", got)
	}

	// Unknown language is ignored.
	a.SetLanguage(catalog.Language("klingon"))
	if got := a.UIState().Language; got != catalog.LanguageEnglish {
		t.Errorf("language = %q, want english retained", got)
	}
}

func TestSetThemeValidation(t *testing.T) {
	a, _, _ := newTestApp(t)

	a.SetTheme(state.ThemeOcean)
	if got := a.UIState().Theme; got != state.ThemeOcean {
		t.Errorf("theme = %q, want ocean", got)
	}

	a.SetTheme(state.Theme("plaid"))
	if got := a.UIState().Theme; got != state.ThemeOcean {
		t.Errorf("theme = %q, want ocean retained", got)
	}
}

func TestActiveSetNavigation(t *testing.T) {
	a, _, _ := newTestApp(t)

	active := a.ActiveSet()
	if len(active) != 2 {
		t.Fatalf("ActiveSet() = %d songs, want 2 (artist A)", len(active))
	}
	if active[0].ID != "1" || active[1].ID != "3" {
		t.Errorf("ActiveSet() ids = [%s %s], want [1 3]", active[0].ID, active[1].ID)
	}
}
