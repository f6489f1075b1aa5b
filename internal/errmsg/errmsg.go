// Package errmsg provides consistent error formatting for user-facing messages.
package errmsg

import "fmt"

// Op represents an operation that can fail.
type Op string

// Operation constants - grouped by domain.
const (
	// Catalog operations
	OpCatalogFetch   Op = "fetch song catalog"
	OpCatalogLoad    Op = "load cached catalog"
	OpCatalogRefresh Op = "refresh song catalog"

	// Search operations
	OpSearch        Op = "search songs"
	OpTransliterate Op = "transliterate query"

	// Playback operations
	OpPlaybackStart Op = "start playback"
	OpPlaybackFetch Op = "fetch audio"
	OpPlaybackSeek  Op = "seek"

	// Download operations
	OpDownloadStart  Op = "start download"
	OpDownloadEncode Op = "encode download"
	OpDownloadWrite  Op = "save download"

	// Share operations
	OpShareCopy Op = "copy share link"

	// Favorites
	OpFavoriteToggle Op = "update favorites"

	// Preferences
	OpStateSave Op = "save preferences"
	OpStateLoad Op = "load preferences"

	// Initialization
	OpInitialize Op = "initialize application"
)

// Format creates a user-friendly error message.
func Format(op Op, err error) string {
	if err == nil {
		return ""
	}
	return fmt.Sprintf("Failed to %s: %v", op, err)
}

// FormatWith creates an error message with additional context.
func FormatWith(op Op, context string, err error) string {
	if err == nil {
		return ""
	}
	if context == "" {
		return Format(op, err)
	}
	return fmt.Sprintf("Failed to %s '%s': %v", op, context, err)
}
