// Package apiclient talks to the oncology backend. Client routes every call
// through the session's bearer token and transparent refresh; AuthClient is
// the bare client used for the login and refresh endpoints themselves.
package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"sort"
	"time"

	"oncology-dashboard/internal/models"
)

const maxErrorBody = 64 << 10

type requester struct {
	baseURL    string
	httpClient *http.Client
}

// Client is the session-aware backend client.
type Client struct {
	requester
}

// New creates a Client whose requests carry the keeper's access token and
// refresh it through auth on a 401.
func New(baseURL string, timeout time.Duration, keeper TokenKeeper, auth Refresher) *Client {
	return &Client{requester{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout:   timeout,
			Transport: newAuthTransport(http.DefaultTransport, keeper, auth),
		},
	}}
}

// do sends req as JSON (or as-is when it is a *multipartBody) and decodes a
// 2xx body into res. Non-2xx answers come back as *APIError.
func (r *requester) do(ctx context.Context, method, path string, params url.Values, req, res any) error {
	var body io.Reader
	headers := http.Header{}
	headers.Set("Accept", "application/json")
	switch b := req.(type) {
	case nil:
	case *multipartBody:
		headers.Set("Content-Type", b.contentType)
		body = bytes.NewReader(b.buf.Bytes())
	default:
		buf := &bytes.Buffer{}
		if err := json.NewEncoder(buf).Encode(req); err != nil {
			return fmt.Errorf("apiclient: failed to encode %s request: %w", path, err)
		}
		headers.Set("Content-Type", "application/json")
		body = bytes.NewReader(buf.Bytes())
	}

	u := r.baseURL + path
	if len(params) != 0 {
		u += "?" + params.Encode()
	}
	httpReq, err := http.NewRequestWithContext(ctx, method, u, body)
	if err != nil {
		return err
	}
	for k, v := range headers {
		httpReq.Header[k] = v
	}

	httpRes, err := r.httpClient.Do(httpReq)
	if err != nil {
		return err
	}
	defer httpRes.Body.Close()

	if httpRes.StatusCode < 200 || httpRes.StatusCode > 299 {
		b, _ := io.ReadAll(io.LimitReader(httpRes.Body, maxErrorBody))
		return &APIError{StatusCode: httpRes.StatusCode, Method: method, Path: path, Body: b}
	}
	if res == nil || httpRes.StatusCode == http.StatusNoContent {
		return nil
	}
	if err := json.NewDecoder(httpRes.Body).Decode(res); err != nil {
		return fmt.Errorf("%w: %s %s: %v", ErrMalformedResponse, method, path, err)
	}
	return nil
}

type multipartBody struct {
	buf         bytes.Buffer
	contentType string
}

// newMultipart encodes fields in sorted key order followed by the uploads,
// so the same input always produces the same body.
func newMultipart(fields map[string]string, uploads ...models.Upload) (*multipartBody, error) {
	mb := &multipartBody{}
	w := multipart.NewWriter(&mb.buf)

	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		if err := w.WriteField(k, fields[k]); err != nil {
			return nil, err
		}
	}

	for _, up := range uploads {
		fw, err := w.CreateFormFile(up.FieldName, up.FileName)
		if err != nil {
			return nil, err
		}
		if _, err := fw.Write(up.Data); err != nil {
			return nil, err
		}
	}
	if err := w.Close(); err != nil {
		return nil, err
	}
	mb.contentType = w.FormDataContentType()
	return mb, nil
}

// Get fetches path and decodes the JSON answer into res.
func (c *Client) Get(ctx context.Context, path string, params url.Values, res any) error {
	return c.do(ctx, http.MethodGet, path, params, nil, res)
}

// PostJSON posts body as JSON to path and decodes the answer into res.
func (c *Client) PostJSON(ctx context.Context, path string, body, res any) error {
	return c.do(ctx, http.MethodPost, path, nil, body, res)
}

// PostMultipart posts a multipart form to path and decodes the answer into res.
func (c *Client) PostMultipart(ctx context.Context, path string, fields map[string]string, uploads []models.Upload, res any) error {
	body, err := newMultipart(fields, uploads...)
	if err != nil {
		return fmt.Errorf("apiclient: failed to build multipart body: %w", err)
	}
	return c.do(ctx, http.MethodPost, path, nil, body, res)
}
