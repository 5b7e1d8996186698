package core

import (
	"context"
	"time"
)

// Automator runs the blocking browser automation against the hub portal.
// Implementations: command (external automation runner), stub.
type Automator interface {
	// Name returns the identifier of this automator (as used in config).
	Name() string

	// RunBlocking logs into the hub and extracts a session token. It is
	// slow (seconds to tens of seconds), non-cancellable and single-tenant;
	// the orchestrator guarantees it is never called concurrently.
	RunBlocking(userLogin, password, mfaCode string) (*AutomationArtifact, error)
}

// TokenStore persists extracted tokens.
type TokenStore interface {
	// SaveToken records a new token and returns its ID.
	SaveToken(ctx context.Context, tok Token) (string, error)

	// LatestToken returns the most recent active token for a login,
	// or nil if none exists.
	LatestToken(ctx context.Context, userLogin string) (*Token, error)

	// DeactivateTokens marks all active tokens for a login inactive.
	DeactivateTokens(ctx context.Context, userLogin string) error
}

// ExtractionLogStore records automation attempts.
type ExtractionLogStore interface {
	// AppendLog records a new entry and returns its ID.
	AppendLog(ctx context.Context, entry ExtractionLog) (string, error)

	// UpdateLog moves an entry to a new status. Implementations must
	// reject transitions out of a terminal status.
	UpdateLog(ctx context.Context, id string, status LogStatus, completedAt *time.Time, errorMessage string) error

	// RecentLogs returns up to limit entries, newest last.
	RecentLogs(ctx context.Context, limit int) ([]ExtractionLog, error)
}
