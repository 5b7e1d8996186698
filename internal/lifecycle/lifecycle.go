// Package lifecycle decides token validity and whether a fresh extraction
// is required.
package lifecycle

import (
	"time"

	"github.com/mdMaikon/Mesa-Premium-sub001/internal/core"
)

// Manager computes expiry against an injectable clock. It holds no other
// state; all methods are pure functions of wall-clock time.
type Manager struct {
	now func() time.Time
}

func New() *Manager {
	return &Manager{now: time.Now}
}

func NewWithClock(now func() time.Time) *Manager {
	return &Manager{now: now}
}

// IsExpired reports whether the token is no longer valid. A token whose
// expiry equals the current instant counts as expired; only a strictly
// future expiry is valid.
func (m *Manager) IsExpired(tok *core.Token) bool {
	return !tok.ExpiresAt.After(m.now())
}

// TimeUntilExpiry returns the remaining validity, or nil when the token is
// already expired.
func (m *Manager) TimeUntilExpiry(tok *core.Token) *time.Duration {
	if m.IsExpired(tok) {
		return nil
	}
	d := tok.ExpiresAt.Sub(m.now())
	return &d
}

// NeedsRefresh reports whether a fresh extraction is required: forced by the
// caller, no token on record, or the recorded token has expired.
func (m *Manager) NeedsRefresh(tok *core.Token, forceRefresh bool) bool {
	if forceRefresh || tok == nil {
		return true
	}
	return m.IsExpired(tok)
}
