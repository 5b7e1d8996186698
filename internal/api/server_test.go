package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/mdMaikon/Mesa-Premium-sub001/internal/admission"
	"github.com/mdMaikon/Mesa-Premium-sub001/internal/api/middleware"
	"github.com/mdMaikon/Mesa-Premium-sub001/internal/core"
	"github.com/mdMaikon/Mesa-Premium-sub001/internal/guard"
	"github.com/mdMaikon/Mesa-Premium-sub001/internal/lifecycle"
	"github.com/mdMaikon/Mesa-Premium-sub001/internal/orchestrator"
	"github.com/mdMaikon/Mesa-Premium-sub001/internal/service"
	"github.com/mdMaikon/Mesa-Premium-sub001/internal/store"
)

var testSigningKey = []byte("test-signing-key")

type instantAutomator struct{}

func (instantAutomator) Name() string { return "instant" }

func (instantAutomator) RunBlocking(userLogin, _, _ string) (*core.AutomationArtifact, error) {
	return &core.AutomationArtifact{
		Token:     "hub_session_token_for_" + userLogin + "_0123456789",
		ExpiresAt: time.Now().Add(time.Hour),
	}, nil
}

func newTestHandler(t *testing.T) http.Handler {
	t.Helper()

	mem := store.NewMemory()
	adm := admission.New(admission.Config{RequestsPerMinute: 6000, Burst: 100, IdleTTL: time.Minute})
	t.Cleanup(adm.Stop)

	orch := orchestrator.New(guard.New(), instantAutomator{}, mem, mem, nil, 1)
	extraction := service.New(orch, mem, mem, lifecycle.New(), adm, time.Minute)
	return NewServer(extraction).Routes(testSigningKey)
}

func operatorToken(t *testing.T) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":   "test",
		"roles": []string{"operator"},
		"exp":   time.Now().Add(time.Hour).Unix(),
	})
	signed, err := token.SignedString(testSigningKey)
	if err != nil {
		t.Fatalf("signing operator token: %v", err)
	}
	return signed
}

func TestExtractEndpoint(t *testing.T) {
	handler := newTestHandler(t)

	body := `{"user_login":"maria.trader","password":"secret","mfa_code":"123456"}`
	req := httptest.NewRequest("POST", ExtractTokenRoute, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if rec.Header().Get(middleware.CorrelationIDHeader) == "" {
		t.Error("expected a correlation ID header")
	}

	var result core.ExtractionResult
	if err := json.Unmarshal(rec.Body.Bytes(), &result); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if !result.Success {
		t.Fatalf("expected success, got: %s", result.Message)
	}
	if result.TokenID == "" {
		t.Error("expected a token ID in the result")
	}
}

func TestExtractEndpointValidation(t *testing.T) {
	handler := newTestHandler(t)

	req := httptest.NewRequest("POST", ExtractTokenRoute, strings.NewReader(`{"user_login":"maria.trader"}`))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestExtractEndpointRejectsUnknownFields(t *testing.T) {
	handler := newTestHandler(t)

	req := httptest.NewRequest("POST", ExtractTokenRoute, strings.NewReader(`{"user_login":"x","password":"y","bogus":1}`))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for unknown field, got %d", rec.Code)
	}
}

func TestLatestTokenEndpoint(t *testing.T) {
	handler := newTestHandler(t)

	body := `{"user_login":"maria.trader","password":"secret"}`
	req := httptest.NewRequest("POST", ExtractTokenRoute, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("seeding extraction failed: %d", rec.Code)
	}

	req = httptest.NewRequest("GET", "/v1/token/maria.trader", nil)
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var view service.TokenView
	if err := json.Unmarshal(rec.Body.Bytes(), &view); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if strings.Contains(view.MaskedValue, "hub_session_token_for") {
		t.Errorf("token value is not masked: %q", view.MaskedValue)
	}
}

func TestLatestTokenEndpointNotFound(t *testing.T) {
	handler := newTestHandler(t)

	req := httptest.NewRequest("GET", "/v1/token/nobody", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}

func TestStatusEndpoint(t *testing.T) {
	handler := newTestHandler(t)

	req := httptest.NewRequest("GET", StatusRoute, nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var state core.ProcessingState
	if err := json.Unmarshal(rec.Body.Bytes(), &state); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if state.IsProcessing {
		t.Error("fresh server should be idle")
	}
}

func TestExtractProcessIDFollowsCorrelationID(t *testing.T) {
	handler := newTestHandler(t)

	body := `{"user_login":"maria.trader","password":"secret"}`
	req := httptest.NewRequest("POST", ExtractTokenRoute, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(middleware.CorrelationIDHeader, "trace-abc-123")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("extraction failed: %d", rec.Code)
	}

	req = httptest.NewRequest("GET", StatusRoute, nil)
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	var state core.ProcessingState
	if err := json.Unmarshal(rec.Body.Bytes(), &state); err != nil {
		t.Fatalf("decoding status: %v", err)
	}
	if state.ProcessID != "trace-abc-123" {
		t.Errorf("process ID = %q, want the request's correlation ID", state.ProcessID)
	}
}

func TestAdminRoutesRequireOperatorToken(t *testing.T) {
	handler := newTestHandler(t)

	req := httptest.NewRequest("POST", ForceStopRoute, nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without token, got %d", rec.Code)
	}

	req = httptest.NewRequest("POST", ForceStopRoute, nil)
	req.Header.Set("Authorization", "Bearer "+operatorToken(t))
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 with operator token, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp ForceStopResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if resp.Stopped {
		t.Error("nothing was running, stopped should be false")
	}
}
