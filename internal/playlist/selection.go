// Package playlist owns the selection state machine: the current song,
// the active song set and the transitions between them.
package playlist

import (
	"context"
	"math/rand"
	"strings"
	"time"

	"github.com/sangeet-player/sangeet/internal/catalog"
	"github.com/sangeet-player/sangeet/internal/search"
)

// DefaultSampleSize is how many songs the random default set holds when
// no deep link seeds the session.
const DefaultSampleSize = 15

// DefaultDebounce bounds how often query edits trigger a re-search.
const DefaultDebounce = 500 * time.Millisecond

// Options configure a Selection. Zero SampleSize selects
// DefaultSampleSize. A negative Debounce selects DefaultDebounce;
// zero applies query edits immediately.
type Options struct {
	SampleSize int
	Debounce   time.Duration
	// Rand drives default-set sampling; defaults to a time-seeded source.
	Rand *rand.Rand
	// Now is the clock used for query debouncing; defaults to time.Now.
	// Injected so tests can control debounce expiry.
	Now func() time.Time
}

// Selection is the playlist state machine. All mutation happens on the
// caller's goroutine; wrap it in a mutex (or confine it to one goroutine)
// if shared.
//
// The active set is a pure function of (catalog, applied query, mode,
// artist filter, default set): when a free-text query is applied it wins
// over the artist filter, which stays stored but inert until the query
// clears.
type Selection struct {
	songs  []catalog.Song // full catalog snapshot, load order
	engine *search.Engine
	opts   Options

	defaultSet []catalog.Song
	current    *catalog.Song

	mode         search.Mode
	filterArtist string

	// pendingQuery becomes appliedQuery once the debounce interval has
	// elapsed since the last edit.
	pendingQuery string
	appliedQuery string
	editedAt     time.Time

	active      []catalog.Song
	activeDirty bool
}

// New creates a Selection over a catalog snapshot. The snapshot is not
// copied; callers must treat it as immutable.
func New(songs []catalog.Song, engine *search.Engine, opts Options) *Selection {
	if opts.SampleSize <= 0 {
		opts.SampleSize = DefaultSampleSize
	}
	if opts.Debounce < 0 {
		opts.Debounce = DefaultDebounce
	}
	if opts.Rand == nil {
		opts.Rand = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Selection{
		songs:       songs,
		engine:      engine,
		opts:        opts,
		mode:        search.ModeAll,
		activeDirty: true,
	}
}

// LoadInitial seeds the default set and current song, once, from a deep
// link or from a random catalog sample. Search-type links run the ranked
// search with remote transliteration enabled.
func (s *Selection) LoadInitial(ctx context.Context, link DeepLink) {
	switch {
	case link.Type == DeepLinkSearch && link.Data != "":
		s.defaultSet = s.engine.SearchRemote(ctx, s.songs, link.Data, search.ModeAll)
	case link.Type == DeepLinkArtist && link.Data != "":
		s.defaultSet = filterByArtist(s.songs, link.Data, 0)
	case link.Type == DeepLinkSongID && link.Data != "":
		s.defaultSet = filterByID(s.songs, link.Data)
	default:
		s.defaultSet = sample(s.songs, s.opts.SampleSize, s.opts.Rand)
	}

	if len(s.defaultSet) > 0 {
		song := s.defaultSet[0]
		s.current = &song
	} else {
		s.current = nil
	}
	s.activeDirty = true
}

// SetQuery records a query edit. The edit only affects the active set
// after the debounce interval elapses with no further edits.
func (s *Selection) SetQuery(q string) {
	s.pendingQuery = q
	s.editedAt = s.opts.Now()
	s.activeDirty = true
}

// SetMode switches the search mode.
func (s *Selection) SetMode(m search.Mode) {
	s.mode = m
	s.activeDirty = true
}

// SetArtistFilter constrains the active set to one artist (exact match).
func (s *Selection) SetArtistFilter(artist string) {
	s.filterArtist = artist
	s.activeDirty = true
}

// ClearArtistFilter removes the artist constraint.
func (s *Selection) ClearArtistFilter() {
	s.filterArtist = ""
	s.activeDirty = true
}

// ResetToDefault clears the query and artist filter, returning the view
// to the original default set without re-randomizing. Idempotent.
func (s *Selection) ResetToDefault() {
	s.pendingQuery = ""
	s.appliedQuery = ""
	s.filterArtist = ""
	s.activeDirty = true
}

// Query returns the most recent query edit (possibly not yet applied).
func (s *Selection) Query() string { return s.pendingQuery }

// Mode returns the active search mode.
func (s *Selection) Mode() search.Mode { return s.mode }

// ArtistFilter returns the stored artist constraint.
func (s *Selection) ArtistFilter() string { return s.filterArtist }

// Catalog returns the full catalog snapshot.
func (s *Selection) Catalog() []catalog.Song { return s.songs }

// DefaultSet returns the seeded default set.
func (s *Selection) DefaultSet() []catalog.Song { return s.defaultSet }

// Current returns the current song, or nil if none.
func (s *Selection) Current() *catalog.Song { return s.current }

// ActiveSet recomputes (if needed) and returns the song set driving
// next/prev navigation: the search results when a query is applied, the
// artist-filtered catalog when only a filter is set, else the default set.
func (s *Selection) ActiveSet() []catalog.Song {
	s.flushQuery()
	if !s.activeDirty {
		return s.active
	}

	query := strings.TrimSpace(s.appliedQuery)
	switch {
	case query != "":
		s.active = s.engine.Search(s.songs, query, s.mode)
	case s.filterArtist != "":
		s.active = filterByArtist(s.songs, s.filterArtist, 30)
	default:
		s.active = s.defaultSet
	}
	s.activeDirty = false
	return s.active
}

// flushQuery promotes the pending query once the debounce interval has
// passed since the last edit.
func (s *Selection) flushQuery() {
	if s.pendingQuery == s.appliedQuery {
		return
	}
	if s.opts.Now().Sub(s.editedAt) < s.opts.Debounce {
		return
	}
	s.appliedQuery = s.pendingQuery
	s.activeDirty = true
}

// Next advances circularly through the active set and returns the new
// current song. Returns nil (no state change) when the set is empty.
// A current song absent from the set counts as index -1, so Next lands
// on the set's first song.
func (s *Selection) Next() *catalog.Song {
	return s.step(1)
}

// Prev moves circularly backwards through the active set.
func (s *Selection) Prev() *catalog.Song {
	return s.step(-1)
}

func (s *Selection) step(delta int) *catalog.Song {
	active := s.ActiveSet()
	n := len(active)
	if n == 0 {
		return nil
	}

	idx := -1
	if s.current != nil {
		idx = indexByID(active, s.current.ID)
	}

	song := active[((idx+delta)%n+n)%n]
	s.current = &song
	return s.current
}

// SelectByID makes the song with the given id current, looking first in
// the default set and then in the full catalog. Returns nil without any
// state change when the id is unknown.
func (s *Selection) SelectByID(id string) *catalog.Song {
	idx := indexByID(s.defaultSet, id)
	if idx >= 0 {
		song := s.defaultSet[idx]
		s.current = &song
		return s.current
	}
	if idx = indexByID(s.songs, id); idx >= 0 {
		song := s.songs[idx]
		s.current = &song
		return s.current
	}
	return nil
}

func indexByID(songs []catalog.Song, id string) int {
	for i := range songs {
		if songs[i].ID == id {
			return i
		}
	}
	return -1
}

func filterByArtist(songs []catalog.Song, artist string, limit int) []catalog.Song {
	var out []catalog.Song
	for _, song := range songs {
		if song.Artist == artist {
			out = append(out, song)
			if limit > 0 && len(out) == limit {
				break
			}
		}
	}
	return out
}

func filterByID(songs []catalog.Song, id string) []catalog.Song {
	if idx := indexByID(songs, id); idx >= 0 {
		return []catalog.Song{songs[idx]}
	}
	return nil
}

// sample draws k songs uniformly without replacement using a partial
// Fisher-Yates shuffle over a copy of the catalog.
func sample(songs []catalog.Song, k int, rng *rand.Rand) []catalog.Song {
	if k > len(songs) {
		k = len(songs)
	}
	pool := make([]catalog.Song, len(songs))
	copy(pool, songs)
	for i := 0; i < k; i++ {
		j := i + rng.Intn(len(pool)-i)
		pool[i], pool[j] = pool[j], pool[i]
	}
	return pool[:k]
}
