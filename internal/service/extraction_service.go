package service

import (
	"context"
	"fmt"
	"net/http"
	"regexp"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/mdMaikon/Mesa-Premium-sub001/internal/admission"
	"github.com/mdMaikon/Mesa-Premium-sub001/internal/core"
	"github.com/mdMaikon/Mesa-Premium-sub001/internal/lifecycle"
	"github.com/mdMaikon/Mesa-Premium-sub001/internal/orchestrator"
	"github.com/mdMaikon/Mesa-Premium-sub001/internal/redact"
)

// ExtractionService is the use-case layer in front of the orchestrator:
// input validation, admission control and token reuse live here, so the
// orchestrator only ever sees requests that genuinely need automation.
type ExtractionService struct {
	orch      *orchestrator.Orchestrator
	tokens    core.TokenStore
	logs      core.ExtractionLogStore
	lifecycle *lifecycle.Manager
	admission *admission.Controller

	// waitTimeout caps how long a caller's request blocks on an
	// extraction before it is handed the run-continues-in-background
	// result.
	waitTimeout time.Duration
}

func New(
	orch *orchestrator.Orchestrator,
	tokens core.TokenStore,
	logs core.ExtractionLogStore,
	lc *lifecycle.Manager,
	adm *admission.Controller,
	waitTimeout time.Duration,
) *ExtractionService {
	if waitTimeout <= 0 {
		waitTimeout = 2 * time.Minute
	}
	return &ExtractionService{
		orch:        orch,
		tokens:      tokens,
		logs:        logs,
		lifecycle:   lc,
		admission:   adm,
		waitTimeout: waitTimeout,
	}
}

var mfaCodeShape = regexp.MustCompile(`^\d{6}$`)

// Extract validates and admits the request, reuses a still-valid token when
// possible, and otherwise runs a fresh extraction. Validation and admission
// failures come back as HTTPError; every other outcome is a structured
// result.
func (s *ExtractionService) Extract(ctx context.Context, req ExtractRequest) (*core.ExtractionResult, error) {
	if req.UserLogin == "" {
		return nil, httpError(http.StatusBadRequest,
			&core.ExtractionError{Kind: core.KindValidation, Wrapped: fmt.Errorf("user_login is required")})
	}
	if req.Password == "" {
		return nil, httpError(http.StatusBadRequest,
			&core.ExtractionError{Kind: core.KindValidation, Wrapped: fmt.Errorf("password is required")})
	}
	if req.MFACode != "" && !mfaCodeShape.MatchString(req.MFACode) {
		return nil, httpError(http.StatusBadRequest,
			&core.ExtractionError{Kind: core.KindValidation, Wrapped: fmt.Errorf("mfa_code must be six digits")})
	}

	if !s.admission.Allow(req.UserLogin) {
		log.Info().
			Str("user", redact.MaskUsername(req.UserLogin)).
			Msg("extraction request rate-limited")
		return nil, httpError(http.StatusTooManyRequests,
			fmt.Errorf("extraction request rate limit exceeded, retry later"))
	}

	existing, err := s.tokens.LatestToken(ctx, req.UserLogin)
	if err != nil {
		// storage failure checking for reuse: distinct error kind, but a
		// fresh extraction may still succeed, so only log it
		log.Error().Err(err).Msg("failed to read latest token; proceeding with extraction")
		existing = nil
	}
	if !s.lifecycle.NeedsRefresh(existing, req.ForceRefresh) {
		expires := existing.ExpiresAt
		log.Info().
			Str("user", redact.MaskUsername(req.UserLogin)).
			Str("token_id", existing.ID).
			Msg("existing token still valid; skipping extraction")
		return &core.ExtractionResult{
			Success:   true,
			Message:   "existing token still valid",
			UserLogin: req.UserLogin,
			TokenID:   existing.ID,
			ExpiresAt: &expires,
		}, nil
	}

	waitCtx, cancel := context.WithTimeout(ctx, s.waitTimeout)
	defer cancel()

	result := s.orch.ExtractToken(waitCtx, orchestrator.Request{
		UserLogin: req.UserLogin,
		Password:  req.Password,
		MFACode:   req.MFACode,
		ProcessID: req.ProcessID,
	})
	return &result, nil
}

// Status returns a snapshot of the processing guard.
func (s *ExtractionService) Status() core.ProcessingState {
	return s.orch.Guard().Status()
}

// ForceStop clears a wedged guard. Operator recovery only.
func (s *ExtractionService) ForceStop() bool {
	return s.orch.Guard().ForceStop()
}

// LatestTokenView returns a redacted view of the newest active token for a
// login, or nil when none exists.
func (s *ExtractionService) LatestTokenView(ctx context.Context, userLogin string) (*TokenView, error) {
	tok, err := s.tokens.LatestToken(ctx, userLogin)
	if err != nil {
		return nil, httpError(http.StatusInternalServerError, fmt.Errorf("reading token: %w", err))
	}
	if tok == nil {
		return nil, nil
	}

	view := &TokenView{
		ID:          tok.ID,
		UserLogin:   tok.UserLogin,
		MaskedValue: redact.MaskToken(tok.SecretValue),
		ExpiresAt:   tok.ExpiresAt,
		ExtractedAt: tok.ExtractedAt,
		IsActive:    tok.IsActive,
		IsExpired:   s.lifecycle.IsExpired(tok),
	}
	if remaining := s.lifecycle.TimeUntilExpiry(tok); remaining != nil {
		view.TimeUntilExpiry = remaining.Round(time.Second).String()
	}
	return view, nil
}

// RecentExtractions lists extraction log entries, newest last.
func (s *ExtractionService) RecentExtractions(ctx context.Context, limit int) ([]core.ExtractionLog, error) {
	entries, err := s.logs.RecentLogs(ctx, limit)
	if err != nil {
		return nil, httpError(http.StatusInternalServerError, fmt.Errorf("reading extraction logs: %w", err))
	}
	for i := range entries {
		entries[i].HubLogin = redact.MaskUsername(entries[i].HubLogin)
		entries[i].ErrorMessage = redact.Sanitize(entries[i].ErrorMessage)
	}
	return entries, nil
}
