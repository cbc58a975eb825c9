// Package http wraps net/http with the request/response shape the rest of
// the module works in: a flat RequestOptions in, raw status and body bytes
// out. Response status codes are returned to the caller as data, never
// turned into errors here; the Zoho API reports its structured errors in
// the response body, so classification belongs to the caller. The client
// performs no retries.
package http

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type Client struct {
	httpClient *http.Client
	logger     *zap.Logger
}

type RequestOptions struct {
	Method  string
	URL     string
	Headers map[string]string
	Body    interface{}
	Context context.Context
	// Timeout bounds the whole request/response exchange. Zero means no
	// deadline beyond what the context already carries.
	Timeout time.Duration
}

type Response struct {
	StatusCode int
	Headers    http.Header
	Body       []byte
}

func NewClient() *Client {
	logger, _ := zap.NewProduction()
	return &Client{
		httpClient: &http.Client{},
		logger:     logger,
	}
}

// NewClientWithLogger creates a new HTTP client with a custom logger
func NewClientWithLogger(logger *zap.Logger) *Client {
	return &Client{
		httpClient: &http.Client{},
		logger:     logger,
	}
}

func (c *Client) Do(opts RequestOptions) (*Response, error) {
	ctx := opts.Context
	if ctx == nil {
		ctx = context.Background()
	}
	if opts.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, opts.Timeout)
		defer cancel()
	}

	requestID := uuid.NewString()

	req, err := c.buildRequest(ctx, opts, requestID)
	if err != nil {
		c.logger.Error("Failed to build request",
			zap.Error(err),
			zap.String("method", opts.Method),
			zap.String("url", opts.URL))
		return nil, err
	}

	c.logger.Debug("Making HTTP request",
		zap.String("method", opts.Method),
		zap.String("url", opts.URL),
		zap.String("request_id", requestID))

	httpResp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Error("HTTP request failed",
			zap.Error(err),
			zap.String("method", opts.Method),
			zap.String("url", opts.URL),
			zap.String("request_id", requestID))
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer httpResp.Body.Close()

	body, err := io.ReadAll(httpResp.Body)
	if err != nil {
		c.logger.Error("Failed to read response body",
			zap.Error(err),
			zap.String("request_id", requestID))
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	if httpResp.StatusCode >= 400 {
		c.logger.Warn("HTTP request returned error status",
			zap.Int("status_code", httpResp.StatusCode),
			zap.String("method", opts.Method),
			zap.String("url", opts.URL),
			zap.String("request_id", requestID))
	} else {
		c.logger.Debug("HTTP request successful",
			zap.Int("status_code", httpResp.StatusCode),
			zap.String("method", opts.Method),
			zap.String("url", opts.URL),
			zap.String("request_id", requestID))
	}

	return &Response{
		StatusCode: httpResp.StatusCode,
		Headers:    httpResp.Header,
		Body:       body,
	}, nil
}

func (c *Client) buildRequest(ctx context.Context, opts RequestOptions, requestID string) (*http.Request, error) {
	var bodyReader io.Reader
	if opts.Body != nil {
		if bodyBytes, ok := opts.Body.([]byte); ok {
			bodyReader = bytes.NewReader(bodyBytes)
		} else {
			bodyJSON, err := json.Marshal(opts.Body)
			if err != nil {
				return nil, fmt.Errorf("failed to marshal request body: %w", err)
			}
			bodyReader = bytes.NewReader(bodyJSON)
		}
	}

	req, err := http.NewRequestWithContext(ctx, opts.Method, opts.URL, bodyReader)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	// Set default headers
	if opts.Body != nil && opts.Headers["Content-Type"] == "" && opts.Headers["content-type"] == "" {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-Id", requestID)

	// Set custom headers
	for key, value := range opts.Headers {
		req.Header.Set(key, value)
	}

	return req, nil
}

func (c *Client) Get(ctx context.Context, url string, headers map[string]string, timeout time.Duration) (*Response, error) {
	return c.Do(RequestOptions{
		Method:  http.MethodGet,
		URL:     url,
		Headers: headers,
		Context: ctx,
		Timeout: timeout,
	})
}

func (c *Client) Post(ctx context.Context, url string, headers map[string]string, body interface{}, timeout time.Duration) (*Response, error) {
	return c.Do(RequestOptions{
		Method:  http.MethodPost,
		URL:     url,
		Headers: headers,
		Body:    body,
		Context: ctx,
		Timeout: timeout,
	})
}

func (c *Client) Put(ctx context.Context, url string, headers map[string]string, body interface{}, timeout time.Duration) (*Response, error) {
	return c.Do(RequestOptions{
		Method:  http.MethodPut,
		URL:     url,
		Headers: headers,
		Body:    body,
		Context: ctx,
		Timeout: timeout,
	})
}
