package translit

import "testing"

func TestCleanQuery(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"ascii passes", "bhakti geet 108", "bhakti geet 108"},
		{"punctuation stripped", "bhakti-geet! (live)", "bhaktigeet live"},
		{"devanagari kept", "भक्ति geet", "भक्ति geet"},
		{"gujarati kept", "ભક્તિ geet", "ભક્તિ geet"},
		{"emoji stripped", "song 🎵 two", "song  two"},
		{"empty", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CleanQuery(tt.in); got != tt.want {
				t.Errorf("CleanQuery(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestHasLatin(t *testing.T) {
	tests := []struct {
		in   string
		want bool
	}{
		{"bhakti", true},
		{"BHAKTI", true},
		{"ભક્તિ", false},
		{"123 456", false},
		{"", false},
		{"ભક્તિ b", true},
	}
	for _, tt := range tests {
		if got := HasLatin(tt.in); got != tt.want {
			t.Errorf("HasLatin(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestNormalizeQueryWithIdentity(t *testing.T) {
	if got := NormalizeQuery("Bhakti GEET", Identity); got != "bhakti geet" {
		t.Errorf("NormalizeQuery() = %q, want %q", got, "bhakti geet")
	}
}

func TestNormalizeQueryHopOrder(t *testing.T) {
	var hops []string
	track := func(text string, from, to Script) string {
		hops = append(hops, string(from)+">"+string(to))
		return text
	}

	NormalizeQuery("x", track)

	want := []string{"optitrans>devanagari", "devanagari>gujarati", "gujarati>optitrans"}
	if len(hops) != len(want) {
		t.Fatalf("hops = %v, want %v", hops, want)
	}
	for i := range want {
		if hops[i] != want[i] {
			t.Errorf("hop[%d] = %q, want %q", i, hops[i], want[i])
		}
	}
}
