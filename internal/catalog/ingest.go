package catalog

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/sangeet-player/sangeet/internal/translit"
)

// Manifest tuple field order. Each record in the remote manifest is a
// fixed-order JSON array, not an object.
const (
	fieldTitle = iota
	fieldLyrics
	fieldVideoID
	fieldSourceTitle
	fieldViewCount
	fieldChannelName
	fieldChannelID
	fieldAudioAvailable
	fieldDescription
	fieldPublishDateMillis
	fieldLikeCount
	fieldTagsCSV
	fieldCount
)

// IngestOptions control how manifest tuples are mapped to Songs.
type IngestOptions struct {
	// AssetHost is the base URL audio assets are served from.
	AssetHost string
	// FallbackArtist is used when a record carries no channel name.
	FallbackArtist string
	// Transliterate derives the per-script lyric variants. Nil leaves
	// the source text unchanged across scripts.
	Transliterate translit.Func
}

// Ingest maps raw manifest records to Songs, assigning ids from the
// 1-based record index. Records shorter than the full tuple are padded
// with empty fields so older manifests keep loading.
func Ingest(records [][]any, opts IngestOptions) []Song {
	if opts.Transliterate == nil {
		opts.Transliterate = translit.Identity
	}
	songs := make([]Song, 0, len(records))
	for i, rec := range records {
		songs = append(songs, ingestOne(rec, strconv.Itoa(i+1), opts))
	}
	return songs
}

func ingestOne(rec []any, id string, opts IngestOptions) Song {
	if len(rec) < fieldCount {
		padded := make([]any, fieldCount)
		copy(padded, rec)
		rec = padded
	}

	title := asString(rec[fieldTitle])
	artist := asString(rec[fieldChannelName])
	if artist == "" {
		artist = opts.FallbackArtist
	}

	var cover string
	if videoID := asString(rec[fieldVideoID]); videoID != "" {
		cover = fmt.Sprintf("https://img.youtube.com/vi/%s/maxresdefault.jpg", videoID)
	}

	var audioURL string
	if asBool(rec[fieldAudioAvailable]) && title != "" {
		audioURL = fmt.Sprintf("%s/%s.opus", strings.TrimSuffix(opts.AssetHost, "/"), url.PathEscape(title))
	}

	return Song{
		ID:                 id,
		Title:              title,
		SourceTitle:        asString(rec[fieldSourceTitle]),
		Artist:             artist,
		Cover:              cover,
		AudioURL:           audioURL,
		Description:        buildDescription(asString(rec[fieldDescription]), asString(rec[fieldTagsCSV])),
		PublishDateSeconds: int64(asFloat(rec[fieldPublishDateMillis]) / 1000),
		Lyrics:             deriveLyrics(asString(rec[fieldLyrics]), opts.Transliterate),
	}
}

// deriveLyrics produces the three script variants from the canonical
// Devanagari source text. The Gujarati rendering is the pivot: English and
// Hindi are both derived from it so the variants stay mutually consistent.
func deriveLyrics(source string, t translit.Func) Lyrics {
	guj := t(source, translit.Devanagari, translit.Gujarati)
	return Lyrics{
		English:  t(guj, translit.Gujarati, translit.Latin),
		Hindi:    t(guj, translit.Gujarati, translit.Devanagari),
		Gujarati: guj,
	}
}

// buildDescription concatenates the source description and tag list into
// the free-text blob the Info search mode matches against.
func buildDescription(desc, tagsCSV string) string {
	var parts []string
	if desc = strings.TrimSpace(desc); desc != "" {
		parts = append(parts, desc)
	}
	for _, tag := range strings.Split(tagsCSV, ",") {
		if tag = strings.TrimSpace(tag); tag != "" {
			parts = append(parts, tag)
		}
	}
	return strings.Join(parts, " ")
}

func asString(v any) string {
	s, _ := v.(string)
	return s
}

func asFloat(v any) float64 {
	switch n := v.(type) {
	case float64:
		return n
	case int:
		return float64(n)
	case string:
		f, _ := strconv.ParseFloat(n, 64)
		return f
	}
	return 0
}

// asBool accepts the manifest's loose truthiness: JSON booleans, nonzero
// numbers and non-empty flag strings all count as set.
func asBool(v any) bool {
	switch b := v.(type) {
	case bool:
		return b
	case float64:
		return b != 0
	case int:
		return b != 0
	case string:
		return b != "" && b != "0" && !strings.EqualFold(b, "false")
	}
	return false
}
