// Package search ranks and filters the in-memory song index.
package search

import (
	"context"
	"sort"
	"strings"

	fuzzy "github.com/paul-mannino/go-fuzzywuzzy"

	"github.com/sangeet-player/sangeet/internal/catalog"
	"github.com/sangeet-player/sangeet/internal/translit"
)

// Mode selects which song fields a query is matched against.
type Mode int

const (
	// ModeAll fuzzily ranks against title, artist, source title, English
	// lyric and description combined.
	ModeAll Mode = iota
	// ModeTitle substring-filters on the title.
	ModeTitle
	// ModeArtist substring-filters on the artist.
	ModeArtist
	// ModeInfo substring-filters on title + source title + description.
	ModeInfo
	// ModeLyrics fuzzily ranks against the English-script lyric only.
	ModeLyrics
)

// String returns the mode name.
func (m Mode) String() string {
	switch m {
	case ModeAll:
		return "all"
	case ModeTitle:
		return "title"
	case ModeArtist:
		return "artist"
	case ModeInfo:
		return "info"
	case ModeLyrics:
		return "lyrics"
	default:
		return "unknown"
	}
}

// Ranked reports whether the mode scores candidates instead of
// substring-filtering them.
func (m Mode) Ranked() bool {
	return m == ModeAll || m == ModeLyrics
}

// ParseMode maps a mode name to its Mode. Unknown names fall back to All.
func ParseMode(s string) Mode {
	switch strings.ToLower(s) {
	case "title":
		return ModeTitle
	case "artist":
		return ModeArtist
	case "info":
		return ModeInfo
	case "lyrics":
		return ModeLyrics
	default:
		return ModeAll
	}
}

const (
	// scoreThreshold is the minimum partial token-sort ratio (0-100)
	// a song must exceed to appear in ranked results.
	scoreThreshold = 50
	rankedLimit    = 10
	substringLimit = 30
)

// RemoteTransliterator resolves Latin text to Gujarati script via an
// external service. Implemented by translit.GoogleClient.
type RemoteTransliterator interface {
	Transliterate(ctx context.Context, text string) (string, error)
}

// Engine matches queries against a song corpus. It holds no corpus state;
// the corpus is passed to each call and never mutated.
type Engine struct {
	translit translit.Func
	remote   RemoteTransliterator
}

// NewEngine creates a search engine. remote may be nil, in which case the
// remote transliteration step is skipped.
func NewEngine(t translit.Func, remote RemoteTransliterator) *Engine {
	if t == nil {
		t = translit.Identity
	}
	return &Engine{translit: t, remote: remote}
}

// NormalizeQuery prepares a raw query for a ranked search: whitelist
// stripping, the optional remote transliteration lookup, then the local
// script round trip. This is the only part of a search that performs I/O;
// Search itself stays pure. When the remote lookup fails the query is
// normalized locally instead, so search degrades rather than erroring.
func (e *Engine) NormalizeQuery(ctx context.Context, query string, useRemote bool) string {
	query = translit.CleanQuery(query)
	if query == "" {
		return ""
	}
	if useRemote && e.remote != nil && translit.HasLatin(query) {
		if resolved, err := e.remote.Transliterate(ctx, query); err == nil {
			query = resolved
		}
	}
	return translit.NormalizeQuery(query, e.translit)
}

// SearchRemote runs the full query pipeline including the remote
// transliteration lookup for ranked modes. Substring modes never
// transliterate and behave exactly like Search.
func (e *Engine) SearchRemote(ctx context.Context, corpus []catalog.Song, query string, mode Mode) []catalog.Song {
	if mode.Ranked() {
		return e.rank(corpus, e.NormalizeQuery(ctx, query, true), mode)
	}
	return filterSubstring(corpus, query, mode)
}

// Search matches corpus against the query under the given mode. Ranked
// modes normalize the query locally only; the result preserves catalog
// order among equal scores and never exceeds the per-mode cap.
func (e *Engine) Search(corpus []catalog.Song, query string, mode Mode) []catalog.Song {
	if mode.Ranked() {
		return e.rank(corpus, e.NormalizeQuery(context.Background(), query, false), mode)
	}
	return filterSubstring(corpus, query, mode)
}

// rank scores every song against an already-normalized query and keeps
// the matches above the threshold, best first.
func (e *Engine) rank(corpus []catalog.Song, normalized string, mode Mode) []catalog.Song {
	// The similarity ratio on empty strings is implementation-defined, so
	// an empty normalized query returns nothing instead of relying on it.
	if normalized == "" {
		return nil
	}

	type scored struct {
		song  catalog.Song
		score int
	}

	matches := make([]scored, 0, len(corpus))
	for i := range corpus {
		score := fuzzy.PartialTokenSortRatio(searchText(&corpus[i], mode), normalized)
		if score > scoreThreshold {
			matches = append(matches, scored{song: corpus[i], score: score})
		}
	}

	// Stable sort keeps catalog order for equal scores.
	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].score > matches[j].score
	})

	if len(matches) > rankedLimit {
		matches = matches[:rankedLimit]
	}
	results := make([]catalog.Song, len(matches))
	for i, m := range matches {
		results[i] = m.song
	}
	return results
}

// searchText builds the candidate text a song is scored on. By this point
// every field is in the Latin scheme, so stripping down to ASCII
// alphanumerics loses nothing the scorer would use.
func searchText(song *catalog.Song, mode Mode) string {
	var fields []string
	if mode == ModeLyrics {
		fields = []string{song.Lyrics.English}
	} else {
		fields = []string{song.Title, song.Artist, song.SourceTitle, song.Lyrics.English, song.Description}
	}
	text := strings.TrimSpace(strings.Join(fields, " "))
	return strings.ToLower(stripNonAlnum(text))
}

// filterSubstring applies the case-insensitive containment modes. Result
// order is catalog order, capped at substringLimit.
func filterSubstring(corpus []catalog.Song, query string, mode Mode) []catalog.Song {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return nil
	}

	var results []catalog.Song
	for _, song := range corpus {
		var haystack string
		switch mode {
		case ModeTitle:
			haystack = song.Title
		case ModeArtist:
			haystack = song.Artist
		case ModeInfo:
			haystack = song.Title + " " + song.SourceTitle + " " + song.Description
		default:
			continue
		}
		if strings.Contains(strings.ToLower(haystack), query) {
			results = append(results, song)
			if len(results) == substringLimit {
				break
			}
		}
	}
	return results
}

func stripNonAlnum(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == ' ':
			b.WriteRune(r)
		}
	}
	return b.String()
}
