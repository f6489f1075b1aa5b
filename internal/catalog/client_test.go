package catalog

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFetchManifest(t *testing.T) {
	manifest := `[
		["Song One", "lyrics", "vid1", "src", 10, "Chan", "c1", true, "desc", 1700000000000, 3, "a,b"],
		["Song Two", "", "", "", 0, "", "", false, "", 0, 0, ""]
	]`

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, userAgent, r.Header.Get("User-Agent"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(manifest))
	}))
	defer srv.Close()

	records, err := NewClient(srv.URL).FetchManifest(context.Background())
	require.NoError(t, err)
	require.Len(t, records, 2)

	require.Len(t, records[0], 12)
	assert.Equal(t, "Song One", records[0][fieldTitle])
	assert.Equal(t, "Chan", records[0][fieldChannelName])
	assert.Equal(t, true, records[0][fieldAudioAvailable])
	assert.Equal(t, float64(1700000000000), records[0][fieldPublishDateMillis])

	// Feed through ingest to confirm the records round-trip.
	songs := Ingest(records, IngestOptions{AssetHost: "https://h", FallbackArtist: "FB"})
	require.Len(t, songs, 2)
	assert.Equal(t, "Chan", songs[0].Artist)
	assert.Equal(t, "FB", songs[1].Artist)
	assert.True(t, songs[0].HasAudio())
	assert.False(t, songs[1].HasAudio())
}

func TestFetchManifestServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusInternalServerError)
	}))
	defer srv.Close()

	_, err := NewClient(srv.URL).FetchManifest(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unexpected status")
}

func TestFetchManifestBadJSON(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("{not an array"))
	}))
	defer srv.Close()

	_, err := NewClient(srv.URL).FetchManifest(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "decode catalog")
}
