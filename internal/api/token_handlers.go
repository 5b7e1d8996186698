package api

import (
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/mdMaikon/Mesa-Premium-sub001/internal/api/middleware"
	"github.com/mdMaikon/Mesa-Premium-sub001/internal/api/presenter"
	"github.com/mdMaikon/Mesa-Premium-sub001/internal/redact"
	"github.com/mdMaikon/Mesa-Premium-sub001/internal/service"
)

type ExtractPayload struct {
	// UserLogin is the hub login to extract a token for.
	UserLogin string `json:"user_login"`

	// Password for the hub portal. Only ever passed through to the
	// automation collaborator; never logged.
	Password string `json:"password"`

	// MFACode is the optional six digit second factor.
	MFACode string `json:"mfa_code"`

	// ForceRefresh skips token reuse.
	ForceRefresh bool `json:"force_refresh"`
}

// handleExtract processes token extraction requests.
func (s *Server) handleExtract(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := log.Ctx(ctx)

	var payload ExtractPayload
	if err := DecodePayload(r, &payload, false); err != nil {
		logger.Warn().Err(err).Msg("failed to decode extract request payload")
		presenter.Error(w, r, "invalid request payload", http.StatusBadRequest)
		return
	}

	result, err := s.extraction.Extract(ctx, service.ExtractRequest{
		UserLogin:    payload.UserLogin,
		Password:     payload.Password,
		MFACode:      payload.MFACode,
		ForceRefresh: payload.ForceRefresh,
		ProcessID:    middleware.CorrelationCtx(ctx),
	})
	if err != nil {
		logger.Warn().Err(err).Msg("extraction request refused")
		presenter.Err(w, r, err, "extraction refused")
		return
	}

	logger.Info().
		Str("user", redact.MaskUsername(result.UserLogin)).
		Bool("success", result.Success).
		Msg("extraction request handled")

	presenter.Result(w, r, result)
}

// handleLatestToken returns a redacted view of the newest token for a login.
func (s *Server) handleLatestToken(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := log.Ctx(ctx)

	user := r.PathValue("user")
	if user == "" {
		presenter.Error(w, r, "user is required", http.StatusBadRequest)
		return
	}

	view, err := s.extraction.LatestTokenView(ctx, user)
	if err != nil {
		logger.Error().Err(err).Msg("failed to read latest token")
		presenter.Err(w, r, err, "reading token failed")
		return
	}
	if view == nil {
		presenter.Error(w, r, "no token found", http.StatusNotFound)
		return
	}

	presenter.JSON(w, r, view, http.StatusOK)
}

// handleStatus returns a snapshot of the processing guard.
func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	presenter.JSON(w, r, s.extraction.Status(), http.StatusOK)
}
