package lostfound

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const defaultTimeout = 30 * time.Second

// Client talks to the remote lost-and-found service.
type Client struct {
	httpClient *http.Client
	baseURL    string
}

// New creates a client for the service at baseURL.
func New(baseURL string) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: defaultTimeout},
		baseURL:    strings.TrimSuffix(baseURL, "/"),
	}
}

// getJSON issues a GET and decodes the JSON body into out. Listings and
// detail fetches must always reflect current server state, so response
// caching is disabled on every read.
func (c *Client) getJSON(ctx context.Context, path string, query url.Values, out any) error {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return fmt.Errorf("building request: %w", err)
	}
	req.Header.Set("Cache-Control", "no-store")

	return c.do(req, path, out)
}

// postJSON issues a POST with a JSON body and optionally decodes the
// response into out.
func (c *Client) postJSON(ctx context.Context, path string, body, out any) error {
	data, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("encoding request body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("building request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	return c.do(req, path, out)
}

// deleteReq issues a DELETE.
func (c *Client) deleteReq(ctx context.Context, path string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("building request: %w", err)
	}
	return c.do(req, path, nil)
}

// do sends the request and normalizes failures into the package's error
// contract. Every failure is logged here before propagating; errors are
// never swallowed.
func (c *Client) do(req *http.Request, path string, out any) error {
	err := c.send(req, out)
	if err != nil {
		slog.Error("lost-and-found request failed",
			"method", req.Method, "path", path, "error", err)
	}
	return err
}

func (c *Client) send(req *http.Request, out any) error {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		// Network-level failures surface as the same error kind as
		// rejected requests, with a zero status.
		return &RequestError{Message: unwrapURLError(err).Error()}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &RequestError{Status: resp.StatusCode, Message: serverMessage(resp.Body)}
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("decoding response: %w", err)
		}
	}
	return nil
}

// serverMessage extracts the optional message field from an error body.
// Non-2xx responses carry a JSON body whose message is surfaced verbatim.
func serverMessage(r io.Reader) string {
	var body struct {
		Message string `json:"message"`
	}
	if err := json.NewDecoder(r).Decode(&body); err != nil {
		return ""
	}
	return body.Message
}

// unwrapURLError strips the noisy url.Error envelope so logs and user
// messages carry the transport cause directly.
func unwrapURLError(err error) error {
	var urlErr *url.Error
	if errors.As(err, &urlErr) && urlErr.Err != nil {
		return urlErr.Err
	}
	return err
}
