package state

import (
	"testing"

	"github.com/sangeet-player/sangeet/internal/catalog"
)

func setupTestManager(t *testing.T) *Manager {
	t.Helper()
	m, err := OpenPath(t.TempDir() + "/test.db")
	if err != nil {
		t.Fatalf("OpenPath() error: %v", err)
	}
	t.Cleanup(func() { m.Close() })
	return m
}

func TestGetUIDefaults(t *testing.T) {
	m := setupTestManager(t)

	ui, err := m.GetUI()
	if err != nil {
		t.Fatalf("GetUI() error: %v", err)
	}
	if ui.Theme != ThemeCandy {
		t.Errorf("default theme = %q, want candy", ui.Theme)
	}
	if ui.Language != catalog.LanguageGujarati {
		t.Errorf("default language = %q, want gujarati", ui.Language)
	}
}

func TestUIStateRoundTrip(t *testing.T) {
	m := setupTestManager(t)

	m.SaveUI(UIState{Theme: ThemeOcean, Language: catalog.LanguageHindi})
	if err := m.FlushUI(); err != nil {
		t.Fatalf("FlushUI() error: %v", err)
	}

	ui, err := m.GetUI()
	if err != nil {
		t.Fatalf("GetUI() error: %v", err)
	}
	if ui.Theme != ThemeOcean {
		t.Errorf("theme = %q, want ocean", ui.Theme)
	}
	if ui.Language != catalog.LanguageHindi {
		t.Errorf("language = %q, want hindi", ui.Language)
	}
}

func TestSaveUIDebounceKeepsLatest(t *testing.T) {
	m := setupTestManager(t)

	m.SaveUI(UIState{Theme: ThemeMidnight, Language: catalog.LanguageEnglish})
	m.SaveUI(UIState{Theme: ThemeForest, Language: catalog.LanguageGujarati})
	if err := m.FlushUI(); err != nil {
		t.Fatalf("FlushUI() error: %v", err)
	}

	ui, err := m.GetUI()
	if err != nil {
		t.Fatalf("GetUI() error: %v", err)
	}
	if ui.Theme != ThemeForest {
		t.Errorf("theme = %q, want the last saved value", ui.Theme)
	}
}

func TestGetUIUnknownValuesFallBack(t *testing.T) {
	m := setupTestManager(t)

	if _, err := m.db.Exec(
		`INSERT INTO ui_state (id, theme, language) VALUES (1, 'plaid', 'latin')`,
	); err != nil {
		t.Fatalf("seeding row: %v", err)
	}

	ui, err := m.GetUI()
	if err != nil {
		t.Fatalf("GetUI() error: %v", err)
	}
	if ui.Theme != ThemeCandy || ui.Language != catalog.LanguageGujarati {
		t.Errorf("unknown values mapped to %+v, want defaults", ui)
	}
}

func TestLikeToggleAndList(t *testing.T) {
	m := setupTestManager(t)

	liked, err := m.ToggleLike("5")
	if err != nil {
		t.Fatalf("ToggleLike() error: %v", err)
	}
	if !liked {
		t.Error("first toggle = false, want true")
	}

	if got, _ := m.IsLiked("5"); !got {
		t.Error("IsLiked(5) = false after like")
	}

	liked, err = m.ToggleLike("5")
	if err != nil {
		t.Fatalf("second ToggleLike() error: %v", err)
	}
	if liked {
		t.Error("second toggle = true, want false")
	}
	if got, _ := m.IsLiked("5"); got {
		t.Error("IsLiked(5) = true after unlike")
	}
}

func TestLikedIDsOrder(t *testing.T) {
	m := setupTestManager(t)

	// Insert with explicit timestamps so ordering is deterministic.
	for i, id := range []string{"1", "2", "3"} {
		if _, err := m.db.Exec(
			`INSERT INTO liked_songs (song_id, liked_at) VALUES (?, ?)`, id, 100+i,
		); err != nil {
			t.Fatalf("seeding likes: %v", err)
		}
	}

	ids, err := m.LikedIDs()
	if err != nil {
		t.Fatalf("LikedIDs() error: %v", err)
	}
	want := []string{"3", "2", "1"}
	if len(ids) != len(want) {
		t.Fatalf("LikedIDs() = %v, want %v", ids, want)
	}
	for i := range want {
		if ids[i] != want[i] {
			t.Errorf("LikedIDs()[%d] = %s, want %s (most recent first)", i, ids[i], want[i])
		}
	}
}

func TestUnlikeUnknownIsNoop(t *testing.T) {
	m := setupTestManager(t)
	if err := m.Unlike("nope"); err != nil {
		t.Errorf("Unlike(unknown) error: %v", err)
	}
}
