// Package rest is the SDK's HTTP collaborator: authenticated JSON requests
// against the platform API. It reads the bearer token from the shared
// session slot on every call, so a credential rotated mid-session is picked
// up without any replumbing. Rate-limit queueing and retries are deliberately
// not handled here.
package rest

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/aussiebroadwan/bartab-sdk/internal/client/state"
	"github.com/aussiebroadwan/bartab-sdk/pkg/slogx"
)

const defaultTimeout = 10 * time.Second

type Client struct {
	BaseURL    string
	HTTPClient *http.Client
	UserAgent  string

	session *state.Session
}

// New creates an API client that authenticates from session. The HTTP client
// logs outbound requests through the slogx transport.
func New(baseURL string, session *state.Session) *Client {
	return &Client{
		BaseURL: strings.TrimSuffix(baseURL, "/"),
		HTTPClient: &http.Client{
			Timeout:   defaultTimeout,
			Transport: &slogx.Transport{},
		},
		UserAgent: "bartab-sdk",
		session:   session,
	}
}

// do performs one JSON round trip. A nil body sends no payload; a nil out
// discards the response body. Non-2xx responses decode into *APIError.
func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, out any) error {
	var reader io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request body: %w", err)
		}
		reader = bytes.NewReader(buf)
	}

	u := c.BaseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, method, u, reader)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("Authorization", "Bearer "+c.session.Token())
	req.Header.Set("User-Agent", c.UserAgent)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return parseAPIError(resp, respBody)
	}

	if out == nil || len(respBody) == 0 {
		return nil
	}
	if err := json.Unmarshal(respBody, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
