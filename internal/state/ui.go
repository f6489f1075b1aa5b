package state

import (
	"database/sql"

	"github.com/sangeet-player/sangeet/internal/catalog"
)

// Theme names the UI color scheme.
type Theme string

const (
	ThemeMidnight Theme = "midnight"
	ThemeOcean    Theme = "ocean"
	ThemeSunset   Theme = "sunset"
	ThemeForest   Theme = "forest"
	ThemeCandy    Theme = "candy"
)

// Themes lists all selectable themes in display order.
func Themes() []Theme {
	return []Theme{ThemeMidnight, ThemeOcean, ThemeSunset, ThemeForest, ThemeCandy}
}

// Valid reports whether t is a known theme.
func (t Theme) Valid() bool {
	switch t {
	case ThemeMidnight, ThemeOcean, ThemeSunset, ThemeForest, ThemeCandy:
		return true
	}
	return false
}

// UIState is the persisted display preferences.
type UIState struct {
	Theme    Theme
	Language catalog.Language
}

// DefaultUIState is what a fresh install starts with.
func DefaultUIState() UIState {
	return UIState{Theme: ThemeCandy, Language: catalog.LanguageGujarati}
}

// GetUI returns the saved UI state, falling back to defaults when
// nothing has been saved yet or the saved values are unknown.
func (m *Manager) GetUI() (UIState, error) {
	var theme, language string

	row := m.db.QueryRow(`SELECT theme, language FROM ui_state WHERE id = 1`)
	err := row.Scan(&theme, &language)
	if err == sql.ErrNoRows {
		return DefaultUIState(), nil
	}
	if err != nil {
		return UIState{}, err
	}

	s := UIState{Theme: Theme(theme), Language: catalog.Language(language)}
	if !s.Theme.Valid() {
		s.Theme = ThemeCandy
	}
	if !s.Language.Valid() {
		s.Language = catalog.LanguageGujarati
	}
	return s, nil
}

func saveUI(db *sql.DB, s UIState) error {
	_, err := db.Exec(`
		INSERT INTO ui_state (id, theme, language)
		VALUES (1, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			theme = excluded.theme,
			language = excluded.language
	`, string(s.Theme), string(s.Language))
	return err
}
