// Package app wires the catalog, selection machine, player, downloads
// and preferences into one controller the shell surfaces drive.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"sync"
	"time"

	"github.com/sangeet-player/sangeet/internal/audio"
	"github.com/sangeet-player/sangeet/internal/blobcache"
	"github.com/sangeet-player/sangeet/internal/catalog"
	"github.com/sangeet-player/sangeet/internal/downloads"
	"github.com/sangeet-player/sangeet/internal/errmsg"
	"github.com/sangeet-player/sangeet/internal/notify"
	"github.com/sangeet-player/sangeet/internal/player"
	"github.com/sangeet-player/sangeet/internal/playlist"
	"github.com/sangeet-player/sangeet/internal/search"
	"github.com/sangeet-player/sangeet/internal/share"
	"github.com/sangeet-player/sangeet/internal/state"
	"github.com/sangeet-player/sangeet/internal/transcode"
)

// ShareOrigin is the public web origin deep links point at.
const ShareOrigin = "https://sangeet-player.github.io"

// Deps are the constructed collaborators the App coordinates.
type Deps struct {
	Selection *playlist.Selection
	Player    *player.Player
	Cache     *blobcache.Cache
	Downloads *downloads.Manager
	State     *state.Manager
	Notifier  notify.Notifier
	Sharer    share.Sharer
	Log       *slog.Logger
}

// App is the orchestrator. Selection access is serialized behind mu;
// playback and downloads manage their own locking.
type App struct {
	mu  sync.Mutex
	sel *playlist.Selection

	player    *player.Player
	cache     *blobcache.Cache
	downloads *downloads.Manager
	state     *state.Manager
	notifier  notify.Notifier
	sharer    share.Sharer
	log       *slog.Logger

	ui state.UIState
}

func New(d Deps) (*App, error) {
	if d.Selection == nil || d.Player == nil {
		return nil, errors.New("app: selection and player are required")
	}
	if d.Log == nil {
		d.Log = slog.Default()
	}
	if d.Notifier == nil {
		d.Notifier, _ = notify.New()
	}
	if d.Sharer == nil {
		d.Sharer = share.ClipboardSharer{}
	}

	a := &App{
		sel:       d.Selection,
		player:    d.Player,
		cache:     d.Cache,
		downloads: d.Downloads,
		state:     d.State,
		notifier:  d.Notifier,
		sharer:    d.Sharer,
		log:       d.Log,
		ui:        state.DefaultUIState(),
	}

	if a.state != nil {
		if ui, err := a.state.GetUI(); err == nil {
			a.ui = ui
		} else {
			a.log.Warn(errmsg.Format(errmsg.OpStateLoad, err))
		}
	}

	// Track finished: advance and keep playing.
	a.player.OnFinished(func() {
		go func() {
			if err := a.Next(); err != nil {
				a.log.Warn(errmsg.Format(errmsg.OpPlaybackStart, err))
			}
		}()
	})

	return a, nil
}

// CurrentSong returns a copy of the current selection, nil if none.
func (a *App) CurrentSong() *catalog.Song {
	a.mu.Lock()
	defer a.mu.Unlock()
	cur := a.sel.Current()
	if cur == nil {
		return nil
	}
	song := *cur
	return &song
}

// ActiveSet returns the songs next/prev navigates over.
func (a *App) ActiveSet() []catalog.Song {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.sel.ActiveSet()
}

// SetQuery forwards a query edit to the selection machine.
func (a *App) SetQuery(q string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.sel.SetQuery(q)
}

// SetMode switches the search mode.
func (a *App) SetMode(m search.Mode) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.sel.SetMode(m)
}

// SetArtistFilter constrains navigation to one artist.
func (a *App) SetArtistFilter(artist string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.sel.SetArtistFilter(artist)
}

// ResetToDefault returns the view to the session's default set.
func (a *App) ResetToDefault() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.sel.ResetToDefault()
}

// PlayCurrent fetches, decodes and starts the current song.
func (a *App) PlayCurrent(ctx context.Context) error {
	song := a.CurrentSong()
	if song == nil {
		return errors.New("no song selected")
	}
	return a.playSong(ctx, song)
}

// PlaySong makes the song with the given id current and plays it.
func (a *App) PlaySong(ctx context.Context, id string) error {
	a.mu.Lock()
	song := a.sel.SelectByID(id)
	a.mu.Unlock()
	if song == nil {
		return fmt.Errorf("unknown song id %q", id)
	}
	return a.playSong(ctx, song)
}

func (a *App) playSong(ctx context.Context, song *catalog.Song) error {
	if !song.HasAudio() {
		return fmt.Errorf("%q has no audio", song.Title)
	}

	localPath, err := a.cache.Get(ctx, song.AudioURL)
	if err != nil {
		return fmt.Errorf("fetch audio: %w", err)
	}
	data, err := os.ReadFile(localPath)
	if err != nil {
		return fmt.Errorf("read cached audio: %w", err)
	}
	pcm, err := audio.Decode(data)
	if err != nil {
		return fmt.Errorf("decode %q: %w", song.Title, err)
	}

	if err := a.player.Play(pcm); err != nil {
		return err
	}

	a.notifyNowPlaying(song)
	return nil
}

// PlayPause toggles playback, starting the current song when stopped.
func (a *App) PlayPause() error {
	if a.player.State() == player.Stopped {
		return a.PlayCurrent(context.Background())
	}
	a.player.Toggle()
	return nil
}

// Next advances the selection and plays the new current song.
func (a *App) Next() error {
	a.mu.Lock()
	song := a.sel.Next()
	a.mu.Unlock()
	if song == nil {
		return nil
	}
	return a.playSong(context.Background(), song)
}

// Prev steps the selection back and plays the new current song.
func (a *App) Prev() error {
	a.mu.Lock()
	song := a.sel.Prev()
	a.mu.Unlock()
	if song == nil {
		return nil
	}
	return a.playSong(context.Background(), song)
}

// Stop halts playback.
func (a *App) Stop() {
	a.player.Stop()
}

// Seek moves playback by delta.
func (a *App) Seek(delta time.Duration) {
	a.player.Seek(delta)
}

// SeekTo moves playback to an absolute position.
func (a *App) SeekTo(pos time.Duration) {
	a.player.SeekTo(pos)
}

// State reports the playback state.
func (a *App) State() player.State {
	return a.player.State()
}

// Position reports the playback position.
func (a *App) Position() time.Duration {
	return a.player.Position()
}

// Duration reports the current track length.
func (a *App) Duration() time.Duration {
	return a.player.Duration()
}

// Download starts exporting the current song. asMP3 selects the tagged
// MP3 pipeline; false saves the source blob as-is.
func (a *App) Download(ctx context.Context, asMP3 bool) (int, error) {
	song := a.CurrentSong()
	if song == nil {
		return 0, errors.New("no song selected")
	}

	id, err := a.downloads.Start(ctx, *song, asMP3)
	if err != nil {
		return 0, err
	}

	a.downloads.WatchETA(id, time.Second, func(text string) {
		a.notifyProgress(song.Title, text)
	})
	return id, nil
}

// CancelDownload aborts a running download. The job lands in the
// cancelled state, never the failed one.
func (a *App) CancelDownload(id int) {
	a.downloads.Cancel(id)
}

// Share copies a deep link for the current song, with its lyric in the
// active language as the share text. Clipboard absence is reported via
// a notification, not an error.
func (a *App) Share() error {
	song := a.CurrentSong()
	if song == nil {
		return errors.New("no song selected")
	}

	a.mu.Lock()
	lang := a.ui.Language
	a.mu.Unlock()

	payload := share.BuildPayload(*song, lang, ShareOrigin, "/")
	err := a.sharer.Share(payload)
	if errors.Is(err, share.ErrUnavailable) {
		a.notifyText("Share", "Clipboard unavailable; link: "+payload.URL)
		return nil
	}
	if err != nil {
		return fmt.Errorf("%s", errmsg.Format(errmsg.OpShareCopy, err))
	}
	a.notifyText("Share", "Link copied to clipboard")
	return nil
}

// ToggleLike flips the liked flag on the current song.
func (a *App) ToggleLike() (bool, error) {
	song := a.CurrentSong()
	if song == nil {
		return false, errors.New("no song selected")
	}
	liked, err := a.state.ToggleLike(song.ID)
	if err != nil {
		return false, fmt.Errorf("%s", errmsg.Format(errmsg.OpFavoriteToggle, err))
	}
	return liked, nil
}

// Favorites returns the liked songs, most recently liked first.
func (a *App) Favorites() ([]catalog.Song, error) {
	ids, err := a.state.LikedIDs()
	if err != nil {
		return nil, err
	}

	a.mu.Lock()
	songs := a.sel.Catalog()
	a.mu.Unlock()

	byID := make(map[string]catalog.Song, len(songs))
	for _, song := range songs {
		byID[song.ID] = song
	}

	var out []catalog.Song
	for _, id := range ids {
		if song, ok := byID[id]; ok {
			out = append(out, song)
		}
	}
	return out, nil
}

// UIState returns the active display preferences.
func (a *App) UIState() state.UIState {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.ui
}

// SetTheme switches the color scheme and persists it (debounced).
func (a *App) SetTheme(t state.Theme) {
	if !t.Valid() {
		return
	}
	a.mu.Lock()
	a.ui.Theme = t
	ui := a.ui
	a.mu.Unlock()
	a.state.SaveUI(ui)
}

// SetLanguage switches the lyrics script and persists it (debounced).
func (a *App) SetLanguage(lang catalog.Language) {
	if !lang.Valid() {
		return
	}
	a.mu.Lock()
	a.ui.Language = lang
	ui := a.ui
	a.mu.Unlock()
	a.state.SaveUI(ui)
}

// CurrentLyrics returns the current song's lyric in the active language.
func (a *App) CurrentLyrics() string {
	song := a.CurrentSong()
	if song == nil {
		return ""
	}
	a.mu.Lock()
	lang := a.ui.Language
	a.mu.Unlock()
	return song.Lyrics.In(lang)
}

// Close flushes pending state and stops playback.
func (a *App) Close() {
	a.player.Stop()
	if a.state != nil {
		if err := a.state.FlushUI(); err != nil {
			a.log.Warn(errmsg.Format(errmsg.OpStateSave, err))
		}
	}
}

func (a *App) notifyNowPlaying(song *catalog.Song) {
	_, err := a.notifier.Notify(notify.Notification{
		Title:   song.Title,
		Body:    song.Artist,
		Timeout: 3000,
		Urgency: notify.UrgencyLow,
	})
	if err != nil {
		a.log.Debug("notification failed", "error", err)
	}
}

func (a *App) notifyText(title, body string) {
	_, err := a.notifier.Notify(notify.Notification{
		Title:   title,
		Body:    body,
		Timeout: 3000,
		Urgency: notify.UrgencyNormal,
	})
	if err != nil {
		a.log.Debug("notification failed", "error", err)
	}
}

func (a *App) notifyProgress(title, text string) {
	a.notifyText("Download: "+title, text)
}

// DownloadOutcome renders a finished job for notification, mapping
// cancellation to a notice rather than a failure.
func DownloadOutcome(j downloads.Job) string {
	switch j.Status {
	case downloads.StatusCancelled:
		return fmt.Sprintf("Download of %q cancelled", j.Song.Title)
	case downloads.StatusFailed:
		if errors.Is(j.Err, transcode.ErrCancelled) {
			return fmt.Sprintf("Download of %q cancelled", j.Song.Title)
		}
		return errmsg.FormatWith(errmsg.OpDownloadEncode, j.Song.Title, j.Err)
	case downloads.StatusCompleted:
		return fmt.Sprintf("Saved %s", j.Path)
	default:
		return ""
	}
}
