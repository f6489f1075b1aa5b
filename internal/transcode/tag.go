package transcode

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/jpeg"
	_ "image/png" // cover thumbnails may be PNG
	"net/http"
	"time"

	"github.com/bogem/id3v2/v2"
	"github.com/nfnt/resize"
)

// Tag is the metadata embedded into an encoded MP3 download.
type Tag struct {
	Title  string
	Artist string
	Lyrics string
	Cover  []byte // JPEG bytes, optional
}

// WriteID3 prepends an ID3v2 tag with title, artist, lyrics and cover art
// to an encoded MP3 stream.
func WriteID3(mp3Data []byte, t Tag) ([]byte, error) {
	tag := id3v2.NewEmptyTag()
	tag.SetTitle(t.Title)
	tag.SetArtist(t.Artist)

	if t.Lyrics != "" {
		tag.AddUnsynchronisedLyricsFrame(id3v2.UnsynchronisedLyricsFrame{
			Encoding:          id3v2.EncodingUTF8,
			Language:          "eng",
			ContentDescriptor: "Lyrics",
			Lyrics:            t.Lyrics,
		})
	}

	if len(t.Cover) > 0 {
		tag.AddAttachedPicture(id3v2.PictureFrame{
			Encoding:    id3v2.EncodingUTF8,
			MimeType:    "image/jpeg",
			PictureType: id3v2.PTFrontCover,
			Description: "Front cover",
			Picture:     t.Cover,
		})
	}

	var buf bytes.Buffer
	if _, err := tag.WriteTo(&buf); err != nil {
		return nil, fmt.Errorf("write id3 tag: %w", err)
	}
	buf.Write(mp3Data)
	return buf.Bytes(), nil
}

// coverMaxDim bounds embedded artwork so tags stay small.
const coverMaxDim = 500

// FetchCover downloads cover art and scales it down for embedding.
// Failures here should not fail a download; callers treat an error as
// "no cover".
func FetchCover(ctx context.Context, url string) ([]byte, error) {
	client := &http.Client{Timeout: 15 * time.Second}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch cover: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch cover: unexpected status: %s", resp.Status)
	}

	img, _, err := image.Decode(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("decode cover: %w", err)
	}

	thumb := resize.Thumbnail(coverMaxDim, coverMaxDim, img, resize.Lanczos3)

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, thumb, &jpeg.Options{Quality: 85}); err != nil {
		return nil, fmt.Errorf("encode cover: %w", err)
	}
	return buf.Bytes(), nil
}
