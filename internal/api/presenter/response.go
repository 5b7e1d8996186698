// Package presenter renders service outcomes as HTTP responses. Extraction
// results carry their own success/message semantics, so the presenter owns
// the mapping from result shape to status code.
package presenter

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/mdMaikon/Mesa-Premium-sub001/internal/core"
	"github.com/mdMaikon/Mesa-Premium-sub001/internal/orchestrator"
	"github.com/mdMaikon/Mesa-Premium-sub001/internal/service"
)

type ErrorResponse struct {
	Error         string `json:"error"`
	CorrelationID string `json:"correlation_id"`
}

func JSON(w http.ResponseWriter, r *http.Request, data any, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Ctx(r.Context()).Error().Err(err).Msg("failed to write json response")
	}
}

// Result writes an extraction result. The body is authoritative either way;
// the status code is a convenience for plain HTTP callers: 200 on success,
// 409 when another run holds the guard, 504 when the caller's wait expired
// while the run continues, 502 for automation/storage failures.
func Result(w http.ResponseWriter, r *http.Request, result *core.ExtractionResult) {
	status := http.StatusBadGateway
	switch {
	case result.Success:
		status = http.StatusOK
	case result.Message == orchestrator.MsgAlreadyInProgress:
		status = http.StatusConflict
	case result.Message == orchestrator.MsgWaitTimeout:
		status = http.StatusGatewayTimeout
	}
	JSON(w, r, result, status)
}

func Error(w http.ResponseWriter, r *http.Request, msg string, status int) {
	correlationID, _ := r.Context().Value("correlation_id").(string)
	resp := ErrorResponse{
		Error:         msg,
		CorrelationID: correlationID,
	}
	JSON(w, r, resp, status)
}

func Err(w http.ResponseWriter, r *http.Request, err error, short string) {
	status := http.StatusBadRequest // generic default status
	var httpError *service.HTTPError
	if errors.As(err, &httpError) {
		status = httpError.StatusCode
	}
	Error(w, r, short+": "+err.Error(), status)
}
