// Package catalog defines the Song record and loads it from the remote
// song manifest.
package catalog

// Language identifies one of the three lyric scripts.
type Language string

const (
	LanguageEnglish  Language = "english"
	LanguageHindi    Language = "hindi"
	LanguageGujarati Language = "gujarati"
)

// Valid reports whether l is one of the supported languages.
func (l Language) Valid() bool {
	switch l {
	case LanguageEnglish, LanguageHindi, LanguageGujarati:
		return true
	}
	return false
}

// Lyrics holds the same lyric text rendered in each supported script.
// All three variants derive from one canonical source text at ingest time
// and are never edited independently afterwards.
type Lyrics struct {
	English  string
	Hindi    string
	Gujarati string
}

// In returns the lyric text for the given language.
// Unknown languages fall back to Gujarati, the canonical display script.
func (l Lyrics) In(lang Language) string {
	switch lang {
	case LanguageEnglish:
		return l.English
	case LanguageHindi:
		return l.Hindi
	case LanguageGujarati:
		return l.Gujarati
	default:
		return l.Gujarati
	}
}

// Song is an immutable catalog record.
type Song struct {
	ID                 string // 1-based ingest index, stable across sessions
	Title              string
	SourceTitle        string // title of the upstream video the track came from
	Artist             string
	Cover              string // thumbnail URL, empty if absent
	AudioURL           string // compressed audio asset URL, empty if absent
	Description        string
	PublishDateSeconds int64 // 0 if absent
	Lyrics             Lyrics
}

// HasAudio reports whether the song has a playable audio asset.
func (s *Song) HasAudio() bool {
	return s.AudioURL != ""
}
