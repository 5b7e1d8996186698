package presenter

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/mdMaikon/Mesa-Premium-sub001/internal/core"
	"github.com/mdMaikon/Mesa-Premium-sub001/internal/orchestrator"
)

func TestResultStatusMapping(t *testing.T) {
	tests := []struct {
		name   string
		result core.ExtractionResult
		want   int
	}{
		{"success", core.ExtractionResult{Success: true, Message: "token extracted"}, http.StatusOK},
		{"guard held", core.ExtractionResult{Message: orchestrator.MsgAlreadyInProgress}, http.StatusConflict},
		{"wait expired", core.ExtractionResult{Message: orchestrator.MsgWaitTimeout}, http.StatusGatewayTimeout},
		{"automation failure", core.ExtractionResult{Message: "automation failed"}, http.StatusBadGateway},
		{"storage failure", core.ExtractionResult{Message: "storage failed"}, http.StatusBadGateway},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			req := httptest.NewRequest("POST", "/v1/token/extract", nil)

			Result(rec, req, &tt.result)

			if rec.Code != tt.want {
				t.Errorf("status = %d, want %d", rec.Code, tt.want)
			}

			// the body carries the full result regardless of status
			var body core.ExtractionResult
			if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
				t.Fatalf("decoding body: %v", err)
			}
			if body.Message != tt.result.Message {
				t.Errorf("body message = %q, want %q", body.Message, tt.result.Message)
			}
		})
	}
}
