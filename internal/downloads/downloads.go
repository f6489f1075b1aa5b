// Package downloads runs song exports: fetch the audio blob, optionally
// transcode to tagged MP3, and write the result to the download folder.
package downloads

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/sangeet-player/sangeet/internal/blobcache"
	"github.com/sangeet-player/sangeet/internal/catalog"
	"github.com/sangeet-player/sangeet/internal/transcode"
)

// Status of a download job.
type Status int

const (
	StatusPending Status = iota
	StatusRunning
	StatusCompleted
	StatusCancelled
	StatusFailed
)

func (s Status) String() string {
	switch s {
	case StatusPending:
		return "pending"
	case StatusRunning:
		return "running"
	case StatusCompleted:
		return "completed"
	case StatusCancelled:
		return "cancelled"
	case StatusFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Job is a snapshot of one download's state.
type Job struct {
	ID       int
	Song     catalog.Song
	AsMP3    bool
	Status   Status
	Percent  int
	Path     string
	Err      error
	Started  time.Time
	Finished time.Time
}

// Remaining estimates time left from elapsed wall time and percent done.
// Zero percent means no estimate yet.
func (j Job) Remaining(now time.Time) (time.Duration, bool) {
	if j.Status != StatusRunning || j.Percent <= 0 {
		return 0, false
	}
	elapsed := now.Sub(j.Started)
	estimated := time.Duration(float64(elapsed) / (float64(j.Percent) / 100))
	remaining := estimated - elapsed
	if remaining < 0 {
		remaining = 0
	}
	return remaining, true
}

// Event reports a job state change.
type Event struct {
	Job Job
}

// Manager runs download jobs and tracks their progress.
type Manager struct {
	cache  *blobcache.Cache
	folder string
	log    *slog.Logger

	mu     sync.Mutex
	nextID int
	jobs   map[int]*job
	events chan Event
}

type job struct {
	snapshot Job
	token    *transcode.Token
}

// New creates a manager writing finished files under folder.
func New(cache *blobcache.Cache, folder string, log *slog.Logger) *Manager {
	if log == nil {
		log = slog.Default()
	}
	return &Manager{
		cache:  cache,
		folder: folder,
		log:    log,
		nextID: 1,
		jobs:   make(map[int]*job),
		events: make(chan Event, 64),
	}
}

// Events exposes job state changes. Sends never block, so a slow
// consumer can miss updates; Job(id) always has the authoritative
// snapshot.
func (m *Manager) Events() <-chan Event {
	return m.events
}

// Start queues a download for song and runs it on its own goroutine.
// asMP3 selects transcode-and-tag output; false copies the source blob.
func (m *Manager) Start(ctx context.Context, song catalog.Song, asMP3 bool) (int, error) {
	if !song.HasAudio() {
		return 0, fmt.Errorf("download %q: no audio available", song.Title)
	}
	if err := os.MkdirAll(m.folder, 0o755); err != nil {
		return 0, fmt.Errorf("create download folder: %w", err)
	}

	m.mu.Lock()
	id := m.nextID
	m.nextID++
	j := &job{
		snapshot: Job{
			ID:     id,
			Song:   song,
			AsMP3:  asMP3,
			Status: StatusPending,
		},
		token: transcode.NewToken(),
	}
	m.jobs[id] = j
	m.mu.Unlock()

	go m.run(ctx, id)
	return id, nil
}

// Cancel requests cancellation of a running job. Completed jobs are
// unaffected.
func (m *Manager) Cancel(id int) {
	m.mu.Lock()
	j, ok := m.jobs[id]
	m.mu.Unlock()
	if ok {
		j.token.Cancel()
	}
}

// Job returns the current snapshot for id.
func (m *Manager) Job(id int) (Job, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	j, ok := m.jobs[id]
	if !ok {
		return Job{}, false
	}
	return j.snapshot, true
}

// Jobs returns snapshots of all known jobs.
func (m *Manager) Jobs() []Job {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Job, 0, len(m.jobs))
	for _, j := range m.jobs {
		out = append(out, j.snapshot)
	}
	return out
}

func (m *Manager) run(ctx context.Context, id int) {
	m.update(id, func(j *Job) {
		j.Status = StatusRunning
		j.Started = time.Now()
	})

	path, err := m.export(ctx, id)

	switch {
	case errors.Is(err, transcode.ErrCancelled):
		m.update(id, func(j *Job) {
			j.Status = StatusCancelled
			j.Finished = time.Now()
		})
	case err != nil:
		m.log.Error("download failed", "id", id, "error", err)
		m.update(id, func(j *Job) {
			j.Status = StatusFailed
			j.Err = err
			j.Finished = time.Now()
		})
	default:
		m.update(id, func(j *Job) {
			j.Status = StatusCompleted
			j.Percent = 100
			j.Path = path
			j.Finished = time.Now()
		})
	}
}

func (m *Manager) export(ctx context.Context, id int) (string, error) {
	m.mu.Lock()
	j, ok := m.jobs[id]
	if !ok {
		m.mu.Unlock()
		return "", fmt.Errorf("unknown job %d", id)
	}
	song := j.snapshot.Song
	asMP3 := j.snapshot.AsMP3
	token := j.token
	m.mu.Unlock()

	localPath, err := m.cache.Get(ctx, song.AudioURL)
	if err != nil {
		return "", fmt.Errorf("fetch audio: %w", err)
	}
	source, err := os.ReadFile(localPath)
	if err != nil {
		return "", fmt.Errorf("read cached audio: %w", err)
	}

	data, err := transcode.EncodeToMP3(source, transcode.Options{
		WantMP3: asMP3,
		Token:   token,
		OnProgress: func(percent int) {
			m.update(id, func(j *Job) { j.Percent = percent })
		},
	})
	if err != nil {
		return "", err
	}

	if asMP3 {
		tag := transcode.Tag{
			Title:  song.Title,
			Artist: song.Artist,
			Lyrics: song.Lyrics.English,
		}
		if cover, err := transcode.FetchCover(ctx, song.Cover); err == nil {
			tag.Cover = cover
		} else {
			m.log.Debug("cover fetch failed", "song", song.ID, "error", err)
		}
		data, err = transcode.WriteID3(data, tag)
		if err != nil {
			return "", err
		}
	}

	out := filepath.Join(m.folder, Filename(song, asMP3))
	if err := os.WriteFile(out, data, 0o644); err != nil {
		return "", fmt.Errorf("write download: %w", err)
	}
	return out, nil
}

func (m *Manager) update(id int, fn func(*Job)) {
	m.mu.Lock()
	j, ok := m.jobs[id]
	if !ok {
		m.mu.Unlock()
		return
	}
	fn(&j.snapshot)
	snap := j.snapshot
	m.mu.Unlock()

	select {
	case m.events <- Event{Job: snap}:
	default:
	}
}

// Filename builds the output name "{title} - {artist}.{ext}", with
// path-hostile characters stripped.
func Filename(song catalog.Song, asMP3 bool) string {
	ext := ".opus"
	if asMP3 {
		ext = ".mp3"
	}
	name := song.Title + " - " + song.Artist
	return sanitize(name) + ext
}

func sanitize(name string) string {
	return strings.Map(func(r rune) rune {
		switch r {
		case '/', '\\', ':', '*', '?', '"', '<', '>', '|':
			return '_'
		}
		return r
	}, name)
}
