package state

import "time"

// Like marks a song as liked. Liking an already-liked song refreshes
// its timestamp.
func (m *Manager) Like(songID string) error {
	_, err := m.db.Exec(`
		INSERT INTO liked_songs (song_id, liked_at)
		VALUES (?, ?)
		ON CONFLICT(song_id) DO UPDATE SET liked_at = excluded.liked_at
	`, songID, time.Now().Unix())
	return err
}

// Unlike removes a song from the liked set. Unliking an unknown song is
// a no-op.
func (m *Manager) Unlike(songID string) error {
	_, err := m.db.Exec(`DELETE FROM liked_songs WHERE song_id = ?`, songID)
	return err
}

// ToggleLike flips the liked flag and returns the new value.
func (m *Manager) ToggleLike(songID string) (bool, error) {
	liked, err := m.IsLiked(songID)
	if err != nil {
		return false, err
	}
	if liked {
		return false, m.Unlike(songID)
	}
	return true, m.Like(songID)
}

// IsLiked reports whether a song is in the liked set.
func (m *Manager) IsLiked(songID string) (bool, error) {
	var n int
	err := m.db.QueryRow(`SELECT COUNT(*) FROM liked_songs WHERE song_id = ?`, songID).Scan(&n)
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// LikedIDs returns all liked song ids, most recently liked first.
func (m *Manager) LikedIDs() ([]string, error) {
	rows, err := m.db.Query(`SELECT song_id FROM liked_songs ORDER BY liked_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}
