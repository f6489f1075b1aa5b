package transcode

import "sync/atomic"

// Token signals cooperative cancellation of a single encode operation.
// Each download owns its own token, so concurrent encodes never cancel
// each other. The pipeline polls it; the owner flips it.
type Token struct {
	cancelled atomic.Bool
}

// NewToken creates an un-cancelled token.
func NewToken() *Token {
	return &Token{}
}

// Cancel requests cancellation. Safe to call from any goroutine and more
// than once.
func (t *Token) Cancel() {
	t.cancelled.Store(true)
}

// Cancelled reports whether cancellation was requested.
func (t *Token) Cancelled() bool {
	return t != nil && t.cancelled.Load()
}
