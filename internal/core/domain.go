package core

import "time"

// Token is a hub session token extracted for a user. It is immutable after
// creation except for deactivation.
type Token struct {
	// ID uniquely identifies the stored token record.
	ID string `json:"id"`

	// UserLogin is the hub login the token was extracted for.
	UserLogin string `json:"user_login"`

	// SecretValue is the raw session token. Never log this directly;
	// run it through redact.MaskToken first.
	SecretValue string `json:"-"`

	// ExpiresAt is when the hub invalidates the session.
	ExpiresAt time.Time `json:"expires_at"`

	// ExtractedAt is when the automation obtained the token from the hub.
	ExtractedAt time.Time `json:"extracted_at"`

	// CreatedAt is when the record was persisted.
	CreatedAt time.Time `json:"created_at"`

	// IsActive is false once a newer token for the same login supersedes
	// this one.
	IsActive bool `json:"is_active"`
}

// ExtractionResult is the outcome of one extraction attempt. Immutable once
// constructed; produced by the orchestrator and recorded by the guard.
type ExtractionResult struct {
	Success   bool   `json:"success"`
	Message   string `json:"message"`
	UserLogin string `json:"user_login"`

	// TokenID is set on success and references the persisted Token.
	TokenID string `json:"token_id,omitempty"`

	// ExpiresAt is set on success.
	ExpiresAt *time.Time `json:"expires_at,omitempty"`

	// ErrorDetails carries the (redacted) failure cause.
	ErrorDetails string `json:"error_details,omitempty"`
}

// ProcessingState tracks whether an extraction is currently running.
// It is mutated exclusively by the guard under its lock; callers only ever
// see copies.
type ProcessingState struct {
	IsProcessing bool       `json:"is_processing"`
	StartTime    *time.Time `json:"start_time,omitempty"`
	ProcessID    string     `json:"process_id,omitempty"`

	// LastResult is the outcome of the previous run. It is cleared when a
	// new run starts, so a set LastResult together with IsProcessing=false
	// always describes the most recent completed run.
	LastResult *ExtractionResult `json:"last_result,omitempty"`
}

// Clone returns a deep copy so callers cannot mutate guard-owned state.
func (s ProcessingState) Clone() ProcessingState {
	out := s
	if s.StartTime != nil {
		t := *s.StartTime
		out.StartTime = &t
	}
	if s.LastResult != nil {
		r := *s.LastResult
		if s.LastResult.ExpiresAt != nil {
			e := *s.LastResult.ExpiresAt
			r.ExpiresAt = &e
		}
		out.LastResult = &r
	}
	return out
}

// LogStatus is the state of an extraction log entry.
type LogStatus string

const (
	StatusPending    LogStatus = "pending"
	StatusInProgress LogStatus = "in_progress"
	StatusSuccess    LogStatus = "success"
	StatusFailed     LogStatus = "failed"
	StatusCancelled  LogStatus = "cancelled"
)

// Terminal reports whether no further transition is allowed from this status.
func (s LogStatus) Terminal() bool {
	switch s {
	case StatusSuccess, StatusFailed, StatusCancelled:
		return true
	}
	return false
}

// CanTransitionTo enforces the linear state machine:
// pending -> in_progress -> {success | failed | cancelled}.
func (s LogStatus) CanTransitionTo(next LogStatus) bool {
	if s.Terminal() {
		return false
	}
	switch s {
	case StatusPending:
		return next == StatusInProgress || next == StatusCancelled
	case StatusInProgress:
		return next.Terminal()
	}
	return false
}

// ExtractionLog is one automation attempt as recorded by the storage
// collaborator.
type ExtractionLog struct {
	ID           string     `json:"id"`
	HubLogin     string     `json:"hub_login"`
	Status       LogStatus  `json:"status"`
	StartedAt    time.Time  `json:"started_at"`
	CompletedAt  *time.Time `json:"completed_at,omitempty"`
	ErrorMessage string     `json:"error_message,omitempty"`
}

// AutomationArtifact is what the automation collaborator hands back on a
// successful portal login.
type AutomationArtifact struct {
	Token     string
	ExpiresAt time.Time
}
