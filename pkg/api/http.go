package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/google/uuid"
	"github.com/jwebster45206/adventure-console/pkg/game"
)

const (
	APIKeyHeader    = "X-API-Key"
	RequestIDHeader = "X-Request-ID"
)

// ErrorResponse is the body the game API sends with a non-2xx status.
type ErrorResponse struct {
	Error string `json:"error"`
}

// MessageResponse wraps narration and description text.
type MessageResponse struct {
	Message string `json:"message"`
}

type moveRequest struct {
	Direction string `json:"direction"`
}

type useOtherRequest struct {
	Target string `json:"target"`
}

type noteRequest struct {
	Text string `json:"text"`
}

// HTTPClient talks to the game API over JSON/HTTP.
type HTTPClient struct {
	baseURL string
	apiKey  string
	client  *http.Client
	logger  *slog.Logger
}

// Ensure HTTPClient implements Client interface
var _ Client = (*HTTPClient)(nil)

// NewHTTPClient creates a client for the API rooted at baseURL.
func NewHTTPClient(baseURL, apiKey string, client *http.Client, logger *slog.Logger) *HTTPClient {
	if client == nil {
		client = http.DefaultClient
	}
	return &HTTPClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		client:  client,
		logger:  logger,
	}
}

func (c *HTTPClient) LookRoom(ctx context.Context) (*game.Room, error) {
	var room game.Room
	if err := c.do(ctx, http.MethodGet, "/v1/room", nil, &room); err != nil {
		return nil, err
	}
	return &room, nil
}

func (c *HTTPClient) Move(ctx context.Context, direction string) (string, error) {
	return c.message(ctx, http.MethodPost, "/v1/room/move", moveRequest{Direction: direction})
}

func (c *HTTPClient) LookDirection(ctx context.Context, direction string) (string, error) {
	return c.message(ctx, http.MethodGet, "/v1/room/look/"+url.PathEscape(direction), nil)
}

func (c *HTTPClient) Inventory(ctx context.Context) ([]game.InventoryItem, error) {
	var items []game.InventoryItem
	if err := c.do(ctx, http.MethodGet, "/v1/character/inventory", nil, &items); err != nil {
		return nil, err
	}
	if items == nil {
		items = []game.InventoryItem{}
	}
	return items, nil
}

func (c *HTTPClient) Origin(ctx context.Context) (string, error) {
	return c.message(ctx, http.MethodPost, "/v1/character/origin", nil)
}

func (c *HTTPClient) Inspect(ctx context.Context, slug string) (string, error) {
	return c.message(ctx, http.MethodGet, "/v1/doodads/"+url.PathEscape(slug), nil)
}

func (c *HTTPClient) Get(ctx context.Context, slug string) (string, error) {
	return c.message(ctx, http.MethodPost, "/v1/doodads/"+url.PathEscape(slug)+"/get", nil)
}

func (c *HTTPClient) UseOnSelf(ctx context.Context, slug string) (string, error) {
	return c.message(ctx, http.MethodPost, "/v1/doodads/"+url.PathEscape(slug)+"/use", nil)
}

func (c *HTTPClient) UseOnOther(ctx context.Context, slug, otherSlug string) (string, error) {
	return c.message(ctx, http.MethodPost, "/v1/doodads/"+url.PathEscape(slug)+"/use", useOtherRequest{Target: otherSlug})
}

func (c *HTTPClient) WriteNote(ctx context.Context, text string) (string, error) {
	return c.message(ctx, http.MethodPost, "/v1/notes", noteRequest{Text: text})
}

func (c *HTTPClient) message(ctx context.Context, method, path string, body interface{}) (string, error) {
	var msg MessageResponse
	if err := c.do(ctx, method, path, body, &msg); err != nil {
		return "", err
	}
	return msg.Message, nil
}

// do sends one request and decodes a JSON response into out. An empty
// success body, such as 204 No Content, leaves out untouched.
func (c *HTTPClient) do(ctx context.Context, method, path string, body interface{}, out interface{}) error {
	var reader io.Reader
	if body != nil {
		jsonData, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request: %w", err)
		}
		reader = bytes.NewBuffer(jsonData)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	requestID := uuid.New().String()
	req.Header.Set("Accept", "application/json")
	req.Header.Set(RequestIDHeader, requestID)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.apiKey != "" {
		req.Header.Set(APIKeyHeader, c.apiKey)
	}

	c.logger.Debug("Sending API request", "method", method, "path", path, "request_id", requestID)

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send request: %w", err)
	}
	defer func() {
		_ = resp.Body.Close() // Ignore error in defer
	}()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var errorResp ErrorResponse
		if err := json.Unmarshal(respBody, &errorResp); err != nil || errorResp.Error == "" {
			return &StatusError{Code: resp.StatusCode, Message: strings.TrimSpace(string(respBody))}
		}
		return &StatusError{Code: resp.StatusCode, Message: errorResp.Error}
	}

	if resp.StatusCode == http.StatusNoContent || len(bytes.TrimSpace(respBody)) == 0 {
		c.logger.Debug("API response has no body", "path", path, "status", resp.StatusCode, "request_id", requestID)
		return nil
	}

	if err := json.Unmarshal(respBody, out); err != nil {
		return fmt.Errorf("failed to parse response: %w", err)
	}
	return nil
}

// StatusError is returned when the API answers with a non-2xx status.
type StatusError struct {
	Code    int
	Message string
}

func (e *StatusError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("API returned status %d", e.Code)
	}
	return fmt.Sprintf("API returned status %d: %s", e.Code, e.Message)
}
