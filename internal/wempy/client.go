package wempy

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/wempy/storefront/internal/config"
	apperrors "github.com/wempy/storefront/pkg/errors"
)

type Client struct {
	baseURL    string
	timeout    time.Duration
	httpClient *http.Client
	validate   *validator.Validate
	logger     *zap.Logger
}

// NewClient creates a new client for the storefront REST API
func NewClient(cfg config.APIConfig, logger *zap.Logger) *Client {
	return NewClientWithHTTP(cfg, &http.Client{Timeout: 30 * time.Second}, logger)
}

// NewClientWithHTTP is NewClient with a caller supplied transport
func NewClientWithHTTP(cfg config.APIConfig, httpClient *http.Client, logger *zap.Logger) *Client {
	timeout := cfg.CallTimeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}

	return &Client{
		baseURL:    strings.TrimSuffix(cfg.BaseURL, "/"),
		timeout:    timeout,
		httpClient: httpClient,
		validate:   validator.New(),
		logger:     logger,
	}
}

// BaseURL returns the API root, also used to resolve relative image paths
func (c *Client) BaseURL() string {
	return c.baseURL
}

// errorBody is the error envelope of the remote API
type errorBody struct {
	Detail json.RawMessage `json:"detail"`
}

// do executes one request bounded by the per-call timeout.
// A nil out discards the response body.
func (c *Client) do(ctx context.Context, op, method, path string, body, out interface{}) error {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	var reader io.Reader
	if body != nil {
		jsonData, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal %s request: %w", op, err)
		}
		reader = bytes.NewReader(jsonData)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("failed to create %s request: %w", op, err)
	}

	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Warn("API request failed",
			zap.String("op", op),
			zap.String("path", path),
			zap.Error(err),
		)
		return &apperrors.ErrNetwork{Op: op, Err: err}
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return &apperrors.ErrNetwork{Op: op, Err: fmt.Errorf("failed to read response: %w", err)}
	}

	c.logger.Debug("API request",
		zap.String("op", op),
		zap.String("method", method),
		zap.String("path", path),
		zap.Int("status", resp.StatusCode),
		zap.Duration("latency", time.Since(start)),
	)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &apperrors.ErrAPI{
			Op:         op,
			StatusCode: resp.StatusCode,
			Detail:     parseDetail(respBody),
		}
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(respBody, out); err != nil {
		return &apperrors.ErrDecode{Resource: op, Err: err}
	}
	return nil
}

// parseDetail reads the "detail" member, either a message or a list of
// field errors each carrying "msg".
func parseDetail(body []byte) string {
	var envelope errorBody
	if err := json.Unmarshal(body, &envelope); err != nil || len(envelope.Detail) == 0 {
		return ""
	}

	var message string
	if err := json.Unmarshal(envelope.Detail, &message); err == nil {
		return message
	}

	var fieldErrors []struct {
		Msg string `json:"msg"`
	}
	if err := json.Unmarshal(envelope.Detail, &fieldErrors); err == nil {
		msgs := make([]string, 0, len(fieldErrors))
		for _, fe := range fieldErrors {
			if fe.Msg != "" {
				msgs = append(msgs, fe.Msg)
			}
		}
		return strings.Join(msgs, "; ")
	}
	return ""
}

func (c *Client) validateOne(resource string, v interface{}) error {
	if err := c.validate.Struct(v); err != nil {
		return &apperrors.ErrDecode{Resource: resource, Err: err}
	}
	return nil
}

func validateEach[T any](c *Client, resource string, items []T) error {
	for i := range items {
		if err := c.validate.Struct(items[i]); err != nil {
			return &apperrors.ErrDecode{Resource: resource, Err: fmt.Errorf("item %d: %w", i, err)}
		}
	}
	return nil
}
