package main

import (
	"testing"
	"time"

	"github.com/sangeet-player/sangeet/internal/config"
)

func TestSelectionOptionsWiresDebounce(t *testing.T) {
	cfg := &config.Config{Search: config.SearchConfig{DebounceMs: 250}}
	if got := selectionOptions(cfg).Debounce; got != 250*time.Millisecond {
		t.Errorf("Debounce = %v, want 250ms", got)
	}

	cfg.Search.DebounceMs = 0
	if got := selectionOptions(cfg).Debounce; got != 0 {
		t.Errorf("Debounce = %v, want 0 (edits apply immediately)", got)
	}
}
