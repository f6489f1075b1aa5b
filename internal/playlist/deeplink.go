package playlist

import "net/url"

// DeepLinkType discriminates the deep-link payload.
type DeepLinkType string

const (
	DeepLinkNone   DeepLinkType = ""
	DeepLinkSearch DeepLinkType = "search"
	DeepLinkArtist DeepLinkType = "artist"
	DeepLinkSongID DeepLinkType = "song_id"
)

// DeepLink seeds the initial playlist state from URL query parameters.
type DeepLink struct {
	Type DeepLinkType
	Data string
}

// IsZero reports whether the link carries no payload.
func (d DeepLink) IsZero() bool {
	return d.Type == DeepLinkNone || d.Data == ""
}

// ParseDeepLink extracts type/data parameters from a raw query string
// ("type=song_id&data=2"). Unknown types and missing data parse as the
// zero link.
func ParseDeepLink(rawQuery string) DeepLink {
	values, err := url.ParseQuery(rawQuery)
	if err != nil {
		return DeepLink{}
	}

	var link DeepLink
	switch DeepLinkType(values.Get("type")) {
	case DeepLinkSearch:
		link.Type = DeepLinkSearch
	case DeepLinkArtist:
		link.Type = DeepLinkArtist
	case DeepLinkSongID:
		link.Type = DeepLinkSongID
	default:
		return DeepLink{}
	}

	link.Data = values.Get("data")
	if link.Data == "" {
		return DeepLink{}
	}
	return link
}
