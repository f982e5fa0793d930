package ors

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
)

func (o *Provider) newRequest(ctx context.Context, url string, payload []byte) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("Authorization", o.apiKey)
	req.Header.Set("Accept", "application/json, application/geo+json")
	req.Header.Set("Content-Type", "application/json")

	return req, nil
}

// post marshals body once and sends it with retry, decoding the response into out.
func (o *Provider) post(ctx context.Context, endpoint string, body any, out any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("marshal request: %w", err)
	}

	resp, err := o.http.DoWithRetry(ctx, func() (*http.Request, error) {
		return o.newRequest(ctx, endpoint, payload)
	})
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// apiError is the error envelope ORS returns with 4xx statuses.
type apiError struct {
	Error struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func parseAPIError(body string) (apiError, bool) {
	var e apiError
	if err := json.Unmarshal([]byte(body), &e); err != nil || e.Error.Code == 0 {
		return apiError{}, false
	}
	return e, true
}
