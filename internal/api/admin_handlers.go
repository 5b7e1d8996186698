package api

import (
	"net/http"
	"strconv"

	"github.com/rs/zerolog/log"

	"github.com/mdMaikon/Mesa-Premium-sub001/internal/api/presenter"
)

type ForceStopResponse struct {
	// Stopped is true when a run was actually cleared.
	Stopped bool `json:"stopped"`
}

// handleForceStop clears a wedged extraction guard. Operator recovery only;
// the in-flight automation, if any, keeps running to completion.
func (s *Server) handleForceStop(w http.ResponseWriter, r *http.Request) {
	logger := log.Ctx(r.Context())

	stopped := s.extraction.ForceStop()
	logger.Warn().Bool("stopped", stopped).Msg("force-stop invoked")

	presenter.JSON(w, r, ForceStopResponse{Stopped: stopped}, http.StatusOK)
}

// handleListExtractions returns recent extraction log entries.
func (s *Server) handleListExtractions(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := log.Ctx(ctx)

	limit := 50
	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		v, err := strconv.Atoi(limitStr)
		if err != nil {
			logger.Warn().Err(err).Str("limit", limitStr).Msg("invalid limit parameter")
			presenter.Error(w, r, "invalid limit parameter", http.StatusBadRequest)
			return
		}
		limit = v
	}

	entries, err := s.extraction.RecentExtractions(ctx, limit)
	if err != nil {
		logger.Error().Err(err).Msg("failed to retrieve extraction logs")
		presenter.Err(w, r, err, "retrieving extraction logs failed")
		return
	}

	presenter.JSON(w, r, entries, http.StatusOK)
}
