// Package client talks to the tutor server's /upload and /chat endpoints.
package client

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

	"github.com/mansimran2992/ai-tutor-bot/internal/models"
)

var (
	// ErrStatus is returned for any non-2xx response.
	ErrStatus = errors.New("unexpected response status")
	// ErrMalformedResponse is returned when a 2xx body is not the expected JSON.
	ErrMalformedResponse = errors.New("malformed response")
)

// maxResponseBytes bounds how much of a response body is read.
const maxResponseBytes = 1 << 20

// Client is an HTTP client for the tutor API.
type Client struct {
	baseURL string
	http    *http.Client
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithTimeout sets a per-request timeout. Zero means requests never time out.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.http.Timeout = d }
}

// New returns a client for the server at baseURL.
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Upload posts one file as the multipart field "file".
func (c *Client) Upload(ctx context.Context, name string, r io.Reader) (models.UploadResponse, error) {
	body := new(bytes.Buffer)
	writer := multipart.NewWriter(body)
	part, err := writer.CreateFormFile("file", name)
	if err != nil {
		return models.UploadResponse{}, fmt.Errorf("creating form file: %w", err)
	}
	if _, err := io.Copy(part, r); err != nil {
		return models.UploadResponse{}, fmt.Errorf("reading %s: %w", name, err)
	}
	if err := writer.Close(); err != nil {
		return models.UploadResponse{}, fmt.Errorf("closing form: %w", err)
	}

	var out struct {
		Status *string          `json:"status"`
		File   *models.FileInfo `json:"file"`
		Lines  int              `json:"lines"`
	}
	if err := c.post(ctx, "/upload", writer.FormDataContentType(), body, &out); err != nil {
		return models.UploadResponse{}, err
	}
	if out.Status == nil {
		return models.UploadResponse{}, fmt.Errorf("%w: missing status field", ErrMalformedResponse)
	}
	return models.UploadResponse{Status: *out.Status, File: out.File, Lines: out.Lines}, nil
}

// Chat posts {"message": message} and returns the reply.
func (c *Client) Chat(ctx context.Context, message string) (models.ChatResponse, error) {
	payload, err := json.Marshal(models.ChatRequest{Message: message})
	if err != nil {
		return models.ChatResponse{}, fmt.Errorf("marshal request: %w", err)
	}

	var out struct {
		Reply *string `json:"reply"`
	}
	if err := c.post(ctx, "/chat", "application/json", bytes.NewReader(payload), &out); err != nil {
		return models.ChatResponse{}, err
	}
	if out.Reply == nil {
		return models.ChatResponse{}, fmt.Errorf("%w: missing reply field", ErrMalformedResponse)
	}
	return models.ChatResponse{Reply: *out.Reply}, nil
}

// Study asks the server to run a study action over uploaded notes.
func (c *Client) Study(ctx context.Context, fileID string, action models.StudyAction) (models.StudyResponse, error) {
	payload, err := json.Marshal(models.StudyRequest{FileID: fileID, Action: action})
	if err != nil {
		return models.StudyResponse{}, fmt.Errorf("marshal request: %w", err)
	}

	var out models.StudyResponse
	if err := c.post(ctx, "/api/study", "application/json", bytes.NewReader(payload), &out); err != nil {
		return models.StudyResponse{}, err
	}
	return out, nil
}

func (c *Client) post(ctx context.Context, path, contentType string, body io.Reader, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("POST %s: %w", path, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &StatusError{Code: resp.StatusCode, Body: strings.TrimSpace(string(data))}
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	return nil
}

// StatusError carries the code and body of a non-2xx response.
type StatusError struct {
	Code int
	Body string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s %d: %s", ErrStatus, e.Code, e.Body)
}

func (e *StatusError) Unwrap() error { return ErrStatus }
