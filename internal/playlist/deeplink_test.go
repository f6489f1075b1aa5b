package playlist

import "testing"

func TestParseDeepLink(t *testing.T) {
	tests := []struct {
		name     string
		rawQuery string
		want     DeepLink
	}{
		{"song id", "type=song_id&data=42", DeepLink{Type: DeepLinkSongID, Data: "42"}},
		{"search", "type=search&data=bhakti+geet", DeepLink{Type: DeepLinkSearch, Data: "bhakti geet"}},
		{"artist", "type=artist&data=Some%20Artist", DeepLink{Type: DeepLinkArtist, Data: "Some Artist"}},
		{"empty", "", DeepLink{}},
		{"unknown type", "type=album&data=x", DeepLink{}},
		{"type without data", "type=search", DeepLink{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParseDeepLink(tt.rawQuery)
			if got != tt.want {
				t.Errorf("ParseDeepLink(%q) = %+v, want %+v", tt.rawQuery, got, tt.want)
			}
		})
	}
}

func TestDeepLinkIsZero(t *testing.T) {
	if !(DeepLink{}).IsZero() {
		t.Error("zero DeepLink reports not zero")
	}
	if (DeepLink{Type: DeepLinkSearch, Data: "x"}).IsZero() {
		t.Error("populated DeepLink reports zero")
	}
}
