package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/truckline/dispatchdesk/pkg/api/interfaces"
)

// maxErrorBody bounds how much of a failed response body ends up in errors.
const maxErrorBody = 512

// HTTPClient wraps http.Client with backend-specific functionality: bearer
// authentication, request IDs and retries for idempotent requests.
type HTTPClient struct {
	client     *http.Client
	baseURL    string
	token      string
	logger     interfaces.Logger
	maxRetries int
	retryDelay time.Duration
}

// NewHTTPClient creates a new backend HTTP client. baseURL already includes
// the API path prefix.
func NewHTTPClient(httpClient *http.Client, baseURL, token string, logger interfaces.Logger) *HTTPClient {
	if logger == nil {
		logger = &interfaces.NoOpLogger{}
	}

	return &HTTPClient{
		client:     httpClient,
		baseURL:    strings.TrimRight(baseURL, "/"),
		token:      token,
		logger:     logger,
		maxRetries: DefaultMaxRetries,
		retryDelay: DefaultRetryDelay,
	}
}

// SetRetryPolicy overrides the attempt count and backoff step used for GET
// and DELETE requests.
func (hc *HTTPClient) SetRetryPolicy(maxRetries int, delay time.Duration) {
	if maxRetries < 1 {
		maxRetries = 1
	}

	hc.maxRetries = maxRetries
	hc.retryDelay = delay
}

// Get performs a GET request and returns the raw response body.
func (hc *HTTPClient) Get(ctx context.Context, path string, query url.Values) ([]byte, error) {
	return hc.doRequestWithRetry(ctx, HTTPMethodGET, path, query, nil, hc.maxRetries)
}

// GetJSON performs a GET request and decodes the body into result.
func (hc *HTTPClient) GetJSON(ctx context.Context, path string, query url.Values, result interface{}) error {
	body, err := hc.Get(ctx, path, query)
	if err != nil {
		return err
	}

	if err := json.Unmarshal(body, result); err != nil {
		return fmt.Errorf("failed to parse response JSON: %w", err)
	}

	return nil
}

// Post performs a POST request. Creates are not idempotent so they are
// attempted exactly once.
func (hc *HTTPClient) Post(ctx context.Context, path string, data interface{}, result interface{}) error {
	body, err := hc.doRequestWithRetry(ctx, HTTPMethodPOST, path, nil, data, 1)
	if err != nil {
		return err
	}

	if result != nil && len(body) > 0 {
		if err := json.Unmarshal(body, result); err != nil {
			return fmt.Errorf("failed to parse response JSON: %w", err)
		}
	}

	return nil
}

// Delete performs a DELETE request.
func (hc *HTTPClient) Delete(ctx context.Context, path string) error {
	_, err := hc.doRequestWithRetry(ctx, HTTPMethodDELETE, path, nil, nil, hc.maxRetries)

	return err
}

// URL returns the absolute URL for path.
func (hc *HTTPClient) URL(path string) string {
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}

	return hc.baseURL + path
}

// doRequestWithRetry performs an HTTP request with retry logic
func (hc *HTTPClient) doRequestWithRetry(ctx context.Context, method, path string, query url.Values, data interface{}, maxRetries int) ([]byte, error) {
	var lastErr error

	for attempt := 1; attempt <= maxRetries; attempt++ {
		if attempt > 1 {
			backoff := time.Duration(attempt-1) * hc.retryDelay
			hc.logger.Debug("Retrying %s %s after %v (attempt %d/%d)", method, path, backoff, attempt, maxRetries)

			select {
			case <-time.After(backoff):
			case <-ctx.Done():
				return nil, ctx.Err()
			}
		}

		body, err := hc.executeRequest(ctx, method, path, query, data)
		if err == nil {
			return body, nil
		}

		lastErr = err

		if !hc.shouldRetry(ctx, err, attempt, maxRetries) {
			break
		}

		hc.logger.Debug("Request failed, will retry: %v", err)
	}

	if maxRetries > 1 {
		return nil, fmt.Errorf("request failed after %d attempts: %w", maxRetries, lastErr)
	}

	return nil, lastErr
}

// executeRequest performs a single HTTP request
func (hc *HTTPClient) executeRequest(ctx context.Context, method, path string, query url.Values, data interface{}) ([]byte, error) {
	fullURL := hc.URL(path)
	if len(query) > 0 {
		fullURL += "?" + query.Encode()
	}

	var body io.Reader
	if data != nil {
		jsonData, err := json.Marshal(data)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal request data: %w", err)
		}
		body = bytes.NewReader(jsonData)
	}

	req, err := http.NewRequestWithContext(ctx, method, fullURL, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	requestID := uuid.NewString()
	req.Header.Set("User-Agent", UserAgent)
	req.Header.Set("Accept", "application/json")
	req.Header.Set(HeaderRequestID, requestID)

	if hc.token != "" {
		req.Header.Set(HeaderAuthorization, "Bearer "+hc.token)
	}

	if data != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	hc.logger.Debug("API %s: %s [%s]", method, path, requestID)

	resp, err := hc.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		snippet := strings.TrimSpace(string(respBody))
		if len(snippet) > maxErrorBody {
			snippet = snippet[:maxErrorBody]
		}

		return nil, &StatusError{Method: method, Path: path, Code: resp.StatusCode, Body: snippet}
	}

	return respBody, nil
}

// shouldRetry determines if a request should be retried
func (hc *HTTPClient) shouldRetry(ctx context.Context, err error, attempt, maxRetries int) bool {
	if attempt >= maxRetries || ctx.Err() != nil {
		return false
	}

	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}

	var statusErr *StatusError
	if errors.As(err, &statusErr) {
		return statusErr.Retryable()
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		return true
	}

	var urlErr *url.Error
	return errors.As(err, &urlErr)
}
