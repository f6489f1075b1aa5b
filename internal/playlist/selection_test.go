package playlist

import (
	"context"
	"math/rand"
	"testing"
	"time"

	"github.com/sangeet-player/sangeet/internal/catalog"
	"github.com/sangeet-player/sangeet/internal/search"
)

func testCatalog() []catalog.Song {
	return []catalog.Song{
		{ID: "1", Title: "Bhakti Geet", Artist: "Saiyam The Real Life", AudioURL: "a1.opus"},
		{ID: "2", Title: "Morning Song", Artist: "Another Artist", AudioURL: "a2.opus"},
		{ID: "3", Title: "Evening Song", Artist: "Saiyam The Real Life", AudioURL: "a3.opus"},
		{ID: "4", Title: "Stavan", Artist: "Third Artist", AudioURL: "a4.opus"},
		{ID: "5", Title: "Aarti", Artist: "Another Artist", AudioURL: "a5.opus"},
	}
}

func newTestSelection(t *testing.T, opts Options) *Selection {
	t.Helper()
	if opts.Rand == nil {
		opts.Rand = rand.New(rand.NewSource(1))
	}
	engine := search.NewEngine(nil, nil)
	return New(testCatalog(), engine, opts)
}

func TestLoadInitialDefaultSample(t *testing.T) {
	s := newTestSelection(t, Options{SampleSize: 3})
	s.LoadInitial(context.Background(), DeepLink{})

	got := s.DefaultSet()
	if len(got) != 3 {
		t.Fatalf("default set size = %d, want 3", len(got))
	}

	// No duplicates in the sample.
	seen := map[string]bool{}
	for _, song := range got {
		if seen[song.ID] {
			t.Errorf("duplicate song %s in sample", song.ID)
		}
		seen[song.ID] = true
	}

	if s.Current() == nil {
		t.Fatal("current is nil after LoadInitial")
	}
	if s.Current().ID != got[0].ID {
		t.Errorf("current = %s, want first of default set %s", s.Current().ID, got[0].ID)
	}
}

func TestLoadInitialSampleLargerThanCatalog(t *testing.T) {
	s := newTestSelection(t, Options{SampleSize: 50})
	s.LoadInitial(context.Background(), DeepLink{})

	if got := len(s.DefaultSet()); got != 5 {
		t.Errorf("default set size = %d, want full catalog of 5", got)
	}
}

func TestLoadInitialArtistDeepLink(t *testing.T) {
	s := newTestSelection(t, Options{})
	s.LoadInitial(context.Background(), DeepLink{Type: DeepLinkArtist, Data: "Saiyam The Real Life"})

	got := s.DefaultSet()
	if len(got) != 2 {
		t.Fatalf("default set size = %d, want 2", len(got))
	}
	if got[0].ID != "1" || got[1].ID != "3" {
		t.Errorf("default set ids = [%s %s], want [1 3]", got[0].ID, got[1].ID)
	}
	if s.Current() == nil || s.Current().ID != "1" {
		t.Errorf("current = %v, want song 1", s.Current())
	}
}

func TestLoadInitialSongIDDeepLink(t *testing.T) {
	s := newTestSelection(t, Options{})
	s.LoadInitial(context.Background(), DeepLink{Type: DeepLinkSongID, Data: "4"})

	got := s.DefaultSet()
	if len(got) != 1 || got[0].ID != "4" {
		t.Fatalf("default set = %v, want exactly song 4", got)
	}
	if s.Current() == nil || s.Current().ID != "4" {
		t.Errorf("current = %v, want song 4", s.Current())
	}
}

func TestLoadInitialUnknownSongID(t *testing.T) {
	s := newTestSelection(t, Options{})
	s.LoadInitial(context.Background(), DeepLink{Type: DeepLinkSongID, Data: "999"})

	if got := s.DefaultSet(); len(got) != 0 {
		t.Errorf("default set = %v, want empty for unknown id", got)
	}
	if s.Current() != nil {
		t.Errorf("current = %v, want nil", s.Current())
	}
}

func TestNextPrevCircular(t *testing.T) {
	s := newTestSelection(t, Options{})
	s.LoadInitial(context.Background(), DeepLink{Type: DeepLinkArtist, Data: "Saiyam The Real Life"})

	// Active set is [1, 3]; current is 1.
	if got := s.Next(); got == nil || got.ID != "3" {
		t.Fatalf("Next() = %v, want song 3", got)
	}
	if got := s.Next(); got == nil || got.ID != "1" {
		t.Errorf("Next() wrapped to %v, want song 1", got)
	}
	if got := s.Prev(); got == nil || got.ID != "3" {
		t.Errorf("Prev() wrapped to %v, want song 3", got)
	}
}

func TestNextPrevInverse(t *testing.T) {
	s := newTestSelection(t, Options{})
	s.LoadInitial(context.Background(), DeepLink{})

	start := s.Current().ID
	s.Next()
	if got := s.Prev(); got == nil || got.ID != start {
		t.Errorf("Prev(Next()) = %v, want %s", got, start)
	}
}

func TestNextOnEmptySet(t *testing.T) {
	s := newTestSelection(t, Options{})
	s.LoadInitial(context.Background(), DeepLink{Type: DeepLinkSongID, Data: "999"})

	if got := s.Next(); got != nil {
		t.Errorf("Next() on empty set = %v, want nil", got)
	}
	if s.Current() != nil {
		t.Error("Next() on empty set changed current")
	}
}

func TestNextWithCurrentOutsideActiveSet(t *testing.T) {
	s := newTestSelection(t, Options{})
	s.LoadInitial(context.Background(), DeepLink{Type: DeepLinkArtist, Data: "Saiyam The Real Life"})

	// Jump to a song outside the active set, then Next should land on
	// the set's first song.
	if got := s.SelectByID("2"); got == nil || got.ID != "2" {
		t.Fatalf("SelectByID(2) = %v", got)
	}
	if got := s.Next(); got == nil || got.ID != "1" {
		t.Errorf("Next() = %v, want first of active set (song 1)", got)
	}
}

func TestSelectByIDUnknown(t *testing.T) {
	s := newTestSelection(t, Options{})
	s.LoadInitial(context.Background(), DeepLink{})

	before := s.Current().ID
	if got := s.SelectByID("999"); got != nil {
		t.Errorf("SelectByID(999) = %v, want nil", got)
	}
	if s.Current().ID != before {
		t.Error("SelectByID with unknown id changed current")
	}
}

func TestQueryOverridesArtistFilter(t *testing.T) {
	s := newTestSelection(t, Options{Debounce: -1}) // -1 -> default; use Now control below
	now := time.Now()
	s.opts.Now = func() time.Time { return now }

	s.LoadInitial(context.Background(), DeepLink{})
	s.SetArtistFilter("Another Artist")

	active := s.ActiveSet()
	if len(active) != 2 {
		t.Fatalf("artist-filtered set size = %d, want 2", len(active))
	}

	// A title-mode query takes over while applied.
	s.SetMode(search.ModeTitle)
	s.SetQuery("stavan")
	now = now.Add(DefaultDebounce + time.Millisecond)

	active = s.ActiveSet()
	if len(active) != 1 || active[0].ID != "4" {
		t.Fatalf("query set = %v, want just song 4", active)
	}

	// Clearing the query re-exposes the stored filter.
	s.SetQuery("")
	now = now.Add(DefaultDebounce + time.Millisecond)

	active = s.ActiveSet()
	if len(active) != 2 {
		t.Errorf("after clearing query, set size = %d, want 2 (artist filter)", len(active))
	}
}

func TestQueryDebounce(t *testing.T) {
	now := time.Now()
	s := newTestSelection(t, Options{
		Debounce: 100 * time.Millisecond,
		Now:      func() time.Time { return now },
	})
	s.LoadInitial(context.Background(), DeepLink{})
	defaultSize := len(s.ActiveSet())

	s.SetMode(search.ModeTitle)
	s.SetQuery("stavan")

	// Inside the debounce window the edit is not applied yet.
	if got := len(s.ActiveSet()); got != defaultSize {
		t.Errorf("active set changed before debounce: size %d, want %d", got, defaultSize)
	}

	now = now.Add(150 * time.Millisecond)
	if got := s.ActiveSet(); len(got) != 1 || got[0].ID != "4" {
		t.Errorf("after debounce, active set = %v, want just song 4", got)
	}
}

func TestResetToDefaultIdempotent(t *testing.T) {
	s := newTestSelection(t, Options{Debounce: 0})
	s.LoadInitial(context.Background(), DeepLink{})
	def := s.DefaultSet()
	cur := s.Current().ID

	s.SetMode(search.ModeTitle)
	s.SetQuery("song")
	s.SetArtistFilter("Third Artist")
	s.ActiveSet()

	s.ResetToDefault()
	first := s.ActiveSet()
	if len(first) != len(def) {
		t.Fatalf("reset set size = %d, want %d", len(first), len(def))
	}
	for i := range def {
		if first[i].ID != def[i].ID {
			t.Errorf("reset set[%d] = %s, want %s (no re-randomize)", i, first[i].ID, def[i].ID)
		}
	}
	if s.Current().ID != cur {
		t.Errorf("reset changed current from %s to %s", cur, s.Current().ID)
	}

	// Second reset changes nothing.
	s.ResetToDefault()
	second := s.ActiveSet()
	for i := range first {
		if second[i].ID != first[i].ID {
			t.Error("ResetToDefault is not idempotent")
			break
		}
	}
}
