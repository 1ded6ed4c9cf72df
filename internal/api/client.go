package api

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

	"github.com/carelog/carelog/internal/logging"
)

func logRequest(method, url string, status int, err error) {
	logging.LogRequest(method, url, status, err)
}

// Per-call time budgets. Reads are cheap list/detail fetches; writes carry
// the full record payload; the photo upload carries an encoded image and
// gets a much larger budget.
const (
	ReadTimeout   = 3 * time.Second
	WriteTimeout  = 5 * time.Second
	UploadTimeout = 30 * time.Second
)

// Client is an HTTP client for the profile records API. All persistence
// and business logic live behind the API; the client only maps requests
// and responses. No call is ever retried: every failure is surfaced to
// the calling view as a status message.
type Client struct {
	// BaseURL is the base URL for the API (e.g., "http://192.168.1.20:5000")
	BaseURL string

	// HTTPClient is the underlying HTTP client. Timeouts are applied
	// per call via context, not on the client itself.
	HTTPClient *http.Client
}

// NewClient creates a new records API client.
// baseURL: full base URL (e.g., "http://192.168.1.20:5000")
func NewClient(baseURL string) *Client {
	return &Client{
		BaseURL:    strings.TrimRight(baseURL, "/"),
		HTTPClient: &http.Client{},
	}
}

// statusBody is the error/result envelope the API uses for mutating calls.
type statusBody struct {
	Status  string `json:"status"`
	Message string `json:"message"`
	UserID  int64  `json:"user_id"`
	ID      int64  `json:"id"`
}

// ListRecords fetches summaries of all registered records.
// An empty result is valid, not an error.
func (c *Client) ListRecords(ctx context.Context) ([]Summary, error) {
	var out []Summary
	if err := c.getJSON(ctx, ReadTimeout, "/get_users", &out); err != nil {
		return nil, err
	}
	if out == nil {
		out = []Summary{}
	}
	return out, nil
}

// SearchRecords fetches summaries whose name matches the query.
// An empty query is equivalent to ListRecords.
func (c *Client) SearchRecords(ctx context.Context, query string) ([]Summary, error) {
	if query == "" {
		return c.ListRecords(ctx)
	}
	path := "/search_users?q=" + url.QueryEscape(query)
	var out []Summary
	if err := c.getJSON(ctx, ReadTimeout, path, &out); err != nil {
		return nil, err
	}
	if out == nil {
		out = []Summary{}
	}
	return out, nil
}

// GetRecord fetches one full record by id.
func (c *Client) GetRecord(ctx context.Context, id int64) (Record, error) {
	path := fmt.Sprintf("/get_user/%d", id)

	resp, err := c.do(ctx, ReadTimeout, http.MethodGet, path, nil)
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode == http.StatusNotFound {
		return nil, NewNotFoundError("利用者が見つかりません。")
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, NewAPIError(resp.StatusCode, readErrorMessage(resp.Body))
	}

	var rec Record
	if err := json.NewDecoder(resp.Body).Decode(&rec); err != nil {
		return nil, NewAPIError(resp.StatusCode, "サーバー応答を解析できません")
	}
	return rec, nil
}

// CreateRecord registers a new record and returns the server-assigned id.
func (c *Client) CreateRecord(ctx context.Context, rec Record) (int64, error) {
	var out statusBody
	if err := c.sendJSON(ctx, WriteTimeout, http.MethodPost, "/register_user", rec, &out); err != nil {
		return 0, err
	}
	if out.UserID != 0 {
		return out.UserID, nil
	}
	return out.ID, nil
}

// UpdateRecord replaces the record with the given id.
func (c *Client) UpdateRecord(ctx context.Context, id int64, rec Record) error {
	path := fmt.Sprintf("/update_user/%d", id)
	return c.sendJSON(ctx, WriteTimeout, http.MethodPut, path, rec, nil)
}

// DeleteRecord deletes the record with the given id.
func (c *Client) DeleteRecord(ctx context.Context, id int64) error {
	path := fmt.Sprintf("/delete_user/%d", id)

	resp, err := c.do(ctx, WriteTimeout, http.MethodDelete, path, nil)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return NewAPIError(resp.StatusCode, readErrorMessage(resp.Body))
	}
	return nil
}

// UploadPhoto sends an encoded image and returns the server-assigned
// photo reference used to replace the local preview.
func (c *Client) UploadPhoto(ctx context.Context, imageData string) (string, error) {
	payload := map[string]string{"image": imageData}

	var out struct {
		PhotoURL string `json:"photo_url"`
	}
	if err := c.sendJSON(ctx, UploadTimeout, http.MethodPost, "/upload_photo", payload, &out); err != nil {
		return "", err
	}
	return out.PhotoURL, nil
}

// do issues one request with the given time budget and classifies
// transport failures. The caller owns the response body.
func (c *Client) do(ctx context.Context, timeout time.Duration, method, path string, body io.Reader) (*http.Response, error) {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	resp, err := c.doWithCancel(ctx, cancel, method, path, body)
	return resp, err
}

func (c *Client) doWithCancel(ctx context.Context, cancel context.CancelFunc, method, path string, body io.Reader) (*http.Response, error) {
	fullURL := c.BaseURL + path

	req, err := http.NewRequestWithContext(ctx, method, fullURL, body)
	if err != nil {
		cancel()
		return nil, NewNetworkError("リクエストを作成できません", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		cancel()
		logRequest(method, fullURL, 0, err)
		return nil, ClassifyNetworkError(err)
	}

	// Tie the context's lifetime to the body: cancel when the body closes.
	resp.Body = &cancelOnClose{ReadCloser: resp.Body, cancel: cancel}
	logRequest(method, fullURL, resp.StatusCode, nil)
	return resp, nil
}

// getJSON fetches and decodes a JSON response.
func (c *Client) getJSON(ctx context.Context, timeout time.Duration, path string, out any) error {
	resp, err := c.do(ctx, timeout, http.MethodGet, path, nil)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return NewAPIError(resp.StatusCode, readErrorMessage(resp.Body))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return NewAPIError(resp.StatusCode, "サーバー応答を解析できません")
	}
	return nil
}

// sendJSON marshals a JSON body, issues the request, and optionally
// decodes a JSON response into out.
func (c *Client) sendJSON(ctx context.Context, timeout time.Duration, method, path string, body any, out any) error {
	data, err := json.Marshal(body)
	if err != nil {
		return NewNetworkError("リクエストを作成できません", err)
	}

	resp, err := c.do(ctx, timeout, method, path, bytes.NewReader(data))
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return NewAPIError(resp.StatusCode, readErrorMessage(resp.Body))
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return NewAPIError(resp.StatusCode, "サーバー応答を解析できません")
		}
	}
	return nil
}

// readErrorMessage extracts the server-supplied message from an error
// body, or returns "" when none is present.
func readErrorMessage(body io.Reader) string {
	data, err := io.ReadAll(io.LimitReader(body, 64*1024))
	if err != nil {
		return ""
	}
	var sb statusBody
	if err := json.Unmarshal(data, &sb); err != nil {
		return ""
	}
	return sb.Message
}

// cancelOnClose releases a per-call context when the response body is closed.
type cancelOnClose struct {
	io.ReadCloser
	cancel context.CancelFunc
}

func (c *cancelOnClose) Close() error {
	err := c.ReadCloser.Close()
	c.cancel()
	return err
}
