package service

import "time"

type ExtractRequest struct {
	// UserLogin is the hub login to extract a token for.
	UserLogin string

	// Password for the hub portal.
	Password string

	// MFACode is the optional six digit second factor.
	MFACode string

	// ForceRefresh skips token reuse and always runs a fresh extraction.
	ForceRefresh bool

	// ProcessID labels the run; the API layer passes the request's
	// correlation ID so an extraction can be traced back to the request
	// that started it. Empty means the guard generates one.
	ProcessID string
}

// TokenView is the caller-facing shape of a stored token. The secret value
// only ever leaves the service masked.
type TokenView struct {
	ID              string    `json:"id"`
	UserLogin       string    `json:"user_login"`
	MaskedValue     string    `json:"masked_value"`
	ExpiresAt       time.Time `json:"expires_at"`
	ExtractedAt     time.Time `json:"extracted_at"`
	IsActive        bool      `json:"is_active"`
	IsExpired       bool      `json:"is_expired"`
	TimeUntilExpiry string    `json:"time_until_expiry,omitempty"`
}
