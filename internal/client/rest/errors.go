package rest

import (
	"encoding/json"
	"fmt"
	"net/http"
)

// APIError is the platform's JSON error body plus the HTTP status it arrived
// with. Every non-2xx response surfaces as one of these so callers can branch
// on code or status without string matching.
type APIError struct {
	Status  int    `json:"-"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (e *APIError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("api error %d (%s): %s", e.Status, e.Code, e.Message)
	}
	return fmt.Sprintf("api error %d: %s", e.Status, e.Message)
}

// parseAPIError builds a typed error from a non-2xx response body, falling
// back to the status text when the body is not the platform's error shape.
func parseAPIError(resp *http.Response, body []byte) error {
	apiErr := &APIError{Status: resp.StatusCode}
	if err := json.Unmarshal(body, apiErr); err == nil && (apiErr.Code != "" || apiErr.Message != "") {
		return apiErr
	}

	apiErr.Message = http.StatusText(resp.StatusCode)
	return apiErr
}
