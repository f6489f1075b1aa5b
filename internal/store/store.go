// Package store caches the ingested song catalog in SQLite so the app
// can start without refetching the manifest.
package store

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	"github.com/adrg/xdg"
	_ "modernc.org/sqlite" // SQLite driver

	"github.com/sangeet-player/sangeet/internal/catalog"
	dbutil "github.com/sangeet-player/sangeet/internal/db"
)

const (
	appName    = "sangeet"
	dbFileName = "catalog.db"
)

// Store is a song catalog repository backed by SQLite.
type Store struct {
	db *sql.DB
}

// Open opens (or creates) the catalog database in the XDG data dir.
func Open() (*Store, error) {
	dbPath, err := xdg.DataFile(filepath.Join(appName, dbFileName))
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, err
	}
	return OpenPath(dbPath)
}

// OpenPath opens the catalog database at an explicit path.
func OpenPath(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, err
	}
	if err := initSchema(db); err != nil {
		db.Close()
		return nil, err
	}
	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

func initSchema(db *sql.DB) error {
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS songs (
			id TEXT PRIMARY KEY,
			title TEXT NOT NULL,
			source_title TEXT NOT NULL,
			artist TEXT NOT NULL,
			cover TEXT NOT NULL,
			audio_url TEXT NOT NULL,
			description TEXT NOT NULL,
			publish_date_seconds INTEGER NOT NULL,
			lyrics_english TEXT NOT NULL,
			lyrics_hindi TEXT NOT NULL,
			lyrics_gujarati TEXT NOT NULL
		);
	`)
	return err
}

// Count returns the number of cached songs.
func (s *Store) Count() (int, error) {
	var n int
	err := s.db.QueryRow(`SELECT COUNT(*) FROM songs`).Scan(&n)
	return n, err
}

// GetAll returns the cached catalog in ingest order.
func (s *Store) GetAll() ([]catalog.Song, error) {
	rows, err := s.db.Query(`
		SELECT id, title, source_title, artist, cover, audio_url,
		       description, publish_date_seconds,
		       lyrics_english, lyrics_hindi, lyrics_gujarati
		FROM songs
		ORDER BY CAST(id AS INTEGER)
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var songs []catalog.Song
	for rows.Next() {
		var song catalog.Song
		if err := rows.Scan(
			&song.ID, &song.Title, &song.SourceTitle, &song.Artist,
			&song.Cover, &song.AudioURL, &song.Description,
			&song.PublishDateSeconds,
			&song.Lyrics.English, &song.Lyrics.Hindi, &song.Lyrics.Gujarati,
		); err != nil {
			return nil, err
		}
		songs = append(songs, song)
	}
	return songs, rows.Err()
}

// Put inserts the given songs, replacing any cached rows with the same
// id.
func (s *Store) Put(songs []catalog.Song) error {
	return dbutil.WithTx(s.db, func(tx *sql.Tx) error {
		return putTx(tx, songs)
	})
}

// Clear drops every cached song.
func (s *Store) Clear() error {
	return dbutil.WithTx(s.db, clearTx)
}

// ReplaceAll swaps the cached catalog for the given songs in one
// transaction.
func (s *Store) ReplaceAll(songs []catalog.Song) error {
	return dbutil.WithTx(s.db, func(tx *sql.Tx) error {
		if err := clearTx(tx); err != nil {
			return err
		}
		return putTx(tx, songs)
	})
}

func clearTx(tx *sql.Tx) error {
	_, err := tx.Exec(`DELETE FROM songs`)
	return err
}

func putTx(tx *sql.Tx, songs []catalog.Song) error {
	stmt, err := tx.Prepare(`
		INSERT OR REPLACE INTO songs (
			id, title, source_title, artist, cover, audio_url,
			description, publish_date_seconds,
			lyrics_english, lyrics_hindi, lyrics_gujarati
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, song := range songs {
		if _, err := stmt.Exec(
			song.ID, song.Title, song.SourceTitle, song.Artist,
			song.Cover, song.AudioURL, song.Description,
			song.PublishDateSeconds,
			song.Lyrics.English, song.Lyrics.Hindi, song.Lyrics.Gujarati,
		); err != nil {
			return fmt.Errorf("insert song %s: %w", song.ID, err)
		}
	}
	return nil
}
