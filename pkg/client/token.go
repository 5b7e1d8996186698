package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/mdMaikon/Mesa-Premium-sub001/internal/api"
	"github.com/mdMaikon/Mesa-Premium-sub001/internal/core"
	"github.com/mdMaikon/Mesa-Premium-sub001/internal/service"
)

// ExtractTokenOptions contains optional parameters for an extraction.
type ExtractTokenOptions struct {
	// MFACode is the six digit second factor, when the hub account
	// requires one.
	MFACode string

	// ForceRefresh runs a fresh extraction even when a valid token is on
	// record.
	ForceRefresh bool
}

// ExtractToken requests a token extraction. The server answers with a
// structured result for rejection, timeout and failure outcomes as well;
// those come back as a result with Success=false, not as an error.
func (c *Client) ExtractToken(
	ctx context.Context,
	userLogin, password string,
	opts ExtractTokenOptions,
) (*core.ExtractionResult, string, error) {
	payload := api.ExtractPayload{
		UserLogin:    userLogin,
		Password:     password,
		MFACode:      opts.MFACode,
		ForceRefresh: opts.ForceRefresh,
	}
	marshalled, err := json.Marshal(payload)
	if err != nil {
		return nil, "", fmt.Errorf("marshalling payload: %w", err)
	}

	// done manually: the extract endpoint answers with a structured
	// result body on conflict/timeout/failure statuses, which the shared
	// helper would treat as a plain error response.
	req, err := http.NewRequestWithContext(ctx, "POST", c.baseURL+api.ExtractTokenRoute, bytes.NewReader(marshalled))
	if err != nil {
		return nil, "", fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.authToken != "" {
		req.Header.Set("Authorization", "Bearer "+c.authToken)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, "", fmt.Errorf("connection failed: %w", err)
	}
	defer func(body io.ReadCloser) {
		_ = body.Close()
	}(resp.Body)

	switch resp.StatusCode {
	case http.StatusOK, http.StatusConflict, http.StatusGatewayTimeout, http.StatusBadGateway:
		var result core.ExtractionResult
		if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
			return nil, correlationFromResponse(resp), fmt.Errorf("decoding response: %w", err)
		}
		return &result, correlationFromResponse(resp), nil
	default:
		return nil, correlationFromResponse(resp), parseErrorResponse(resp)
	}
}

// LatestToken fetches the redacted view of the newest token for a login.
func (c *Client) LatestToken(ctx context.Context, userLogin string) (*service.TokenView, string, error) {
	var view service.TokenView
	correlationID, err := c.get(ctx, "/v1/token/"+userLogin, &view)
	if err != nil {
		return nil, correlationID, err
	}
	return &view, correlationID, nil
}
