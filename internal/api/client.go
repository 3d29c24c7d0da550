package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Client wraps HTTP calls to the Pricewatch REST API.
type Client struct {
	baseURL    string
	csrfToken  string
	httpClient *http.Client
}

// NewClient creates a new API client. The csrfToken is the anti-forgery
// credential the backend expects on every mutating request; the client treats
// it as opaque.
func NewClient(baseURL, csrfToken string, timeout ...time.Duration) *Client {
	httpTimeout := 30 * time.Second
	if len(timeout) > 0 && timeout[0] > 0 {
		httpTimeout = timeout[0]
	}
	return &Client{
		baseURL:   strings.TrimRight(baseURL, "/"),
		csrfToken: csrfToken,
		httpClient: &http.Client{
			Timeout: httpTimeout,
		},
	}
}

// do executes an HTTP request and returns the raw response body. Failures are
// classified: connection and decode problems become *TransportError, 404
// becomes *NotFoundError, 409 becomes *ConflictError. Any other error status
// is reported as a *TransportError carrying the server message.
func (c *Client) do(method, path string, body any) ([]byte, error) {
	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, &TransportError{Op: method + " " + path, Err: fmt.Errorf("marshal body: %w", err)}
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequest(method, c.baseURL+path, reqBody)
	if err != nil {
		return nil, &TransportError{Op: method + " " + path, Err: fmt.Errorf("create request: %w", err)}
	}

	req.Header.Set("Content-Type", "application/json")
	if method != http.MethodGet && c.csrfToken != "" {
		req.Header.Set("X-CSRFToken", c.csrfToken)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &TransportError{Op: method + " " + path, Err: err}
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &TransportError{Op: method + " " + path, Err: fmt.Errorf("read response: %w", err)}
	}

	if resp.StatusCode >= 400 {
		msg := extractErrorMessage(respBody)
		switch resp.StatusCode {
		case http.StatusNotFound:
			return nil, &NotFoundError{Message: msg}
		case http.StatusConflict:
			return nil, &ConflictError{Message: msg}
		default:
			if msg == "" {
				msg = fmt.Sprintf("HTTP %d", resp.StatusCode)
			}
			return nil, &TransportError{Op: method + " " + path, Err: fmt.Errorf("%s", msg)}
		}
	}

	return respBody, nil
}

// get performs a GET request.
func (c *Client) get(path string) ([]byte, error) {
	return c.do(http.MethodGet, path, nil)
}

// post performs a POST request with the anti-forgery header attached.
func (c *Client) post(path string, body any) ([]byte, error) {
	return c.do(http.MethodPost, path, body)
}

// decode unmarshals a response body, reporting parse failures as transport
// errors so callers can apply the read-path fail-soft policy uniformly.
func decode(data []byte, out any) error {
	if err := json.Unmarshal(data, out); err != nil {
		return &TransportError{Op: "decode response", Err: err}
	}
	return nil
}

// buildQuery appends query params to a path.
func buildQuery(path string, params map[string]string) string {
	if len(params) == 0 {
		return path
	}
	q := url.Values{}
	for k, v := range params {
		if v != "" {
			q.Set(k, v)
		}
	}
	return path + "?" + q.Encode()
}

// extractErrorMessage pulls the server's {"error": "..."} message out of an
// error body, tolerating nested {"error": {"message": ...}} shapes.
func extractErrorMessage(body []byte) string {
	if len(body) == 0 {
		return ""
	}
	var payload map[string]any
	if err := json.Unmarshal(body, &payload); err != nil {
		return ""
	}
	switch value := payload["error"].(type) {
	case string:
		return strings.TrimSpace(value)
	case map[string]any:
		if msg, ok := value["message"].(string); ok {
			return strings.TrimSpace(msg)
		}
	}
	if msg, ok := payload["detail"].(string); ok {
		return strings.TrimSpace(msg)
	}
	return ""
}
