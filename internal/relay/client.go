// Package relay delivers relevant text and file references to the local
// bridge service over HTTP.
package relay

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"path/filepath"
	"time"

	"jobrelay/internal/domain"
)

const (
	// Text payloads are small; file delivery gets a longer budget because the
	// bridge reads the file from disk before acknowledging.
	DefaultTextTimeout = 10 * time.Second
	DefaultFileTimeout = 20 * time.Second

	maxErrorBody = 512
)

// Config configures the relay client.
type Config struct {
	TextURL     string
	FileURL     string
	TextTimeout time.Duration
	FileTimeout time.Duration
	Logger      *slog.Logger
}

// Client posts JSON payloads to the bridge endpoints. Each operation gets its
// own bounded-timeout HTTP client. Delivery is at-most-once: no retry, no
// queueing, and outcomes are returned as domain.Result values rather than
// errors so a failed delivery can never escape into the ingestion path.
type Client struct {
	textURL    string
	fileURL    string
	textClient *http.Client
	fileClient *http.Client
	logger     *slog.Logger
}

// NewClient creates a relay client for the given bridge endpoints.
func NewClient(cfg Config) *Client {
	if cfg.TextTimeout <= 0 {
		cfg.TextTimeout = DefaultTextTimeout
	}
	if cfg.FileTimeout <= 0 {
		cfg.FileTimeout = DefaultFileTimeout
	}
	return &Client{
		textURL:    cfg.TextURL,
		fileURL:    cfg.FileURL,
		textClient: &http.Client{Timeout: cfg.TextTimeout},
		fileClient: &http.Client{Timeout: cfg.FileTimeout},
		logger:     cfg.Logger,
	}
}

type textPayload struct {
	Text string `json:"text"`
}

type filePayload struct {
	Path     string `json:"path"`
	Filename string `json:"filename"`
}

// SendText posts {"text": ...} to the text endpoint.
func (c *Client) SendText(ctx context.Context, text string) domain.Result {
	return c.post(ctx, c.textClient, c.textURL, textPayload{Text: text})
}

// SendFile posts {"path": ..., "filename": ...} to the file endpoint. The
// path is resolved to absolute form; the bridge reads the bytes from the
// shared filesystem, they are never transmitted.
func (c *Client) SendFile(ctx context.Context, path, filename string) domain.Result {
	abs, err := filepath.Abs(path)
	if err != nil {
		return domain.Result{Reason: fmt.Sprintf("resolve path: %v", err)}
	}
	return c.post(ctx, c.fileClient, c.fileURL, filePayload{Path: abs, Filename: filename})
}

// post issues one JSON POST and maps the outcome to a Result. Any 2xx status
// counts as delivered; the response body is not consumed beyond error detail.
func (c *Client) post(ctx context.Context, client *http.Client, url string, payload any) domain.Result {
	body, err := json.Marshal(payload)
	if err != nil {
		return domain.Result{Reason: fmt.Sprintf("marshal: %v", err)}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return domain.Result{Reason: fmt.Sprintf("build request: %v", err)}
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		return domain.Result{Reason: fmt.Sprintf("send: %v", err)}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return domain.Result{
			Status: resp.StatusCode,
			Reason: fmt.Sprintf("bridge %d: %s", resp.StatusCode, string(detail)),
		}
	}

	c.logger.Debug("relay delivered", "url", url, "status", resp.StatusCode)
	return domain.Result{Delivered: true, Status: resp.StatusCode}
}
