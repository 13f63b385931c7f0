// Package httpapi implements the remote resource gateways over the
// backend's REST API. Every call carries a bearer credential obtained from
// the session; the gateway performs no retries, callers decide what a
// failure means for them.
package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/geniotutoring/studenttrack/core"
	"github.com/geniotutoring/studenttrack/core/session"
)

// APIError is a non-2xx response from the backend.
type APIError struct {
	StatusCode int
	Msg        string
}

func (e *APIError) Error() string {
	if e.Msg != "" {
		return fmt.Sprintf("api: %s (HTTP %d)", e.Msg, e.StatusCode)
	}
	return fmt.Sprintf("api: HTTP %d", e.StatusCode)
}

// IsNotFound reports whether err is a 404 from the backend.
func IsNotFound(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusNotFound
}

type Client struct {
	baseURL string
	sess    *session.Session
	http    *http.Client
}

func NewClient(conf *core.Config, sess *session.Session) *Client {
	return &Client{
		baseURL: strings.TrimSuffix(conf.APIBaseURL, "/"),
		sess:    sess,
		http:    &http.Client{Timeout: conf.APITimeout},
	}
}

// do issues one request/response call. The bearer token is acquired from the
// session (which renews it transparently when needed) and attached here, not
// by the caller. `out`, when non-nil, receives the decoded JSON payload.
func (c *Client) do(ctx context.Context, method, path string, body, out interface{}) error {
	token, err := c.sess.Token(ctx)
	if err != nil {
		return errors.Wrap(err, "acquiring token")
	}

	var buf io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return errors.Wrap(err, "encoding request body")
		}
		buf = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, buf)
	if err != nil {
		return errors.Wrap(err, "building request")
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("X-Request-ID", uuid.NewString())
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return errors.Wrapf(err, "%s %s", method, path)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &APIError{StatusCode: resp.StatusCode, Msg: decodeErrorMsg(resp.Body)}
	}
	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return errors.Wrapf(err, "decoding %s %s response", method, path)
		}
	}
	return nil
}

// decodeErrorMsg pulls the backend's {"error": "..."} message, if any.
func decodeErrorMsg(body io.Reader) string {
	var payload struct {
		Error   string `json:"error"`
		Message string `json:"message"`
	}
	if err := json.NewDecoder(body).Decode(&payload); err != nil {
		return ""
	}
	if payload.Error != "" {
		return payload.Error
	}
	return payload.Message
}
