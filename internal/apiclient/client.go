// Package apiclient is the console's thin wrapper over the storefront API.
// Every call returns the normalized {status, data} envelope; transport and
// non-2xx failures surface as a Response with status "error" so pages can
// leave their state untouched instead of branching on error types.
package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
	"time"
)

const (
	// StatusSuccess and StatusError are the only envelope statuses the API
	// emits.
	StatusSuccess = "success"
	StatusError   = "error"
)

// Response is the normalized API envelope.
type Response struct {
	Status    string          `json:"status"`
	Message   string          `json:"message,omitempty"`
	RequestID string          `json:"request_id,omitempty"`
	Data      json.RawMessage `json:"data,omitempty"`
}

// OK reports whether the call succeeded.
func (r Response) OK() bool { return r.Status == StatusSuccess }

// DecodeData unmarshals the data payload into dst.
func (r Response) DecodeData(dst any) error {
	if len(r.Data) == 0 {
		return errors.New("apiclient: response has no data")
	}
	return json.Unmarshal(r.Data, dst)
}

// TokenSource supplies the raw bearer token for authenticated calls. It may
// return "" for anonymous requests.
type TokenSource func() string

// Client issues authenticated JSON and multipart requests to the API.
type Client struct {
	baseURL string
	http    *http.Client
	token   TokenSource
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient overrides the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.http = hc
		}
	}
}

// WithTokenSource sets the bearer token supplier.
func WithTokenSource(src TokenSource) Option {
	return func(c *Client) {
		if src != nil {
			c.token = src
		}
	}
}

// New returns a client for the API at baseURL.
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: 30 * time.Second},
		token:   func() string { return "" },
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Get issues an authenticated GET to path.
func (c *Client) Get(ctx context.Context, path string) (Response, error) {
	return c.do(ctx, http.MethodGet, path, "", nil)
}

// Post issues an authenticated POST with a JSON body.
func (c *Client) Post(ctx context.Context, path string, body any) (Response, error) {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return errorResponse(err), err
		}
		reader = bytes.NewReader(payload)
	}
	return c.do(ctx, http.MethodPost, path, "application/json", reader)
}

// Put issues an authenticated PUT with a JSON body.
func (c *Client) Put(ctx context.Context, path string, body any) (Response, error) {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return errorResponse(err), err
		}
		reader = bytes.NewReader(payload)
	}
	return c.do(ctx, http.MethodPut, path, "application/json", reader)
}

// Delete issues an authenticated DELETE to path.
func (c *Client) Delete(ctx context.Context, path string) (Response, error) {
	return c.do(ctx, http.MethodDelete, path, "", nil)
}

// PostForm issues an authenticated multipart POST. Fields become text parts;
// when file is non-nil it is attached under fileField/fileName.
func (c *Client) PostForm(ctx context.Context, path string, fields map[string]string, fileField, fileName string, file io.Reader) (Response, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for k, v := range fields {
		if err := mw.WriteField(k, v); err != nil {
			return errorResponse(err), err
		}
	}
	if file != nil {
		part, err := mw.CreateFormFile(fileField, fileName)
		if err != nil {
			return errorResponse(err), err
		}
		if _, err := io.Copy(part, file); err != nil {
			return errorResponse(err), err
		}
	}
	if err := mw.Close(); err != nil {
		return errorResponse(err), err
	}
	return c.do(ctx, http.MethodPost, path, mw.FormDataContentType(), &buf)
}

func (c *Client) do(ctx context.Context, method, path, contentType string, body io.Reader) (Response, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return errorResponse(err), err
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if token := c.token(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return errorResponse(err), err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return errorResponse(err), err
	}

	var envelope Response
	if err := json.Unmarshal(raw, &envelope); err != nil || envelope.Status == "" {
		// Not every failure mode speaks the envelope (proxies, panics).
		// Normalize instead of leaking a decode error to the page.
		if resp.StatusCode >= 200 && resp.StatusCode < 300 {
			return Response{Status: StatusSuccess, Data: raw}, nil
		}
		return Response{
			Status:  StatusError,
			Message: fmt.Sprintf("unexpected response (%d)", resp.StatusCode),
		}, nil
	}
	return envelope, nil
}

func errorResponse(err error) Response {
	return Response{Status: StatusError, Message: err.Error()}
}
