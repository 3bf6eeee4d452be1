package api

import (
	"context"
	"crypto/tls"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/truckline/dispatchdesk/pkg/api/interfaces"
)

// Client is a dispatch backend API client with dependency injection for
// logging and caching.
type Client struct {
	httpClient *HTTPClient

	// Dependencies
	logger interfaces.Logger
	cache  interfaces.Cache

	// API settings
	baseURL  string
	apiPath  string
	token    string
	insecure bool
	fetchCap int
}

// ListQuery carries the query parameters of a collection request.
// PageNumber is 1-based on the wire; zero means the first page.
type ListQuery struct {
	PageNumber int
	PageSize   int
	Search     string
	Status     string
}

// Values encodes q as collection query parameters.
func (q ListQuery) Values() url.Values {
	values := url.Values{}

	page := q.PageNumber
	if page < 1 {
		page = 1
	}
	values.Set(ParamPageNumber, strconv.Itoa(page))

	if q.PageSize > 0 {
		values.Set(ParamPageSize, strconv.Itoa(q.PageSize))
	}

	if s := strings.TrimSpace(q.Search); s != "" {
		values.Set(ParamSearchKeyword, s)
	}

	if q.Status != "" {
		values.Set(ParamStatus, q.Status)
	}

	return values
}

// NewClient creates a new API client with dependency injection.
func NewClient(config interfaces.Config, options ...ClientOption) (*Client, error) {
	opts := defaultOptions()
	for _, option := range options {
		option(opts)
	}

	if config.GetAddr() == "" {
		return nil, fmt.Errorf("backend address cannot be empty")
	}

	baseURL := strings.TrimRight(config.GetAddr(), "/")
	if !strings.HasPrefix(baseURL, "http://") && !strings.HasPrefix(baseURL, "https://") {
		baseURL = "https://" + baseURL
	}

	if _, err := url.Parse(baseURL); err != nil {
		return nil, fmt.Errorf("invalid backend address %q: %w", config.GetAddr(), err)
	}

	apiPath := "/" + strings.Trim(config.GetAPIPath(), "/")
	if apiPath == "/" {
		apiPath = ""
	}

	fetchCap := config.GetFetchCap()
	if fetchCap <= 0 {
		fetchCap = DefaultFetchCap
	}

	transport := http.DefaultTransport.(*http.Transport).Clone()
	transport.TLSClientConfig = &tls.Config{InsecureSkipVerify: config.GetInsecure()} //nolint:gosec // opt-in via config

	httpClient := opts.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{
			Transport: transport,
			Timeout:   DefaultTimeout,
		}
	}

	opts.Logger.Debug("Backend API base URL: %s", baseURL+apiPath)

	wrapper := NewHTTPClient(httpClient, baseURL+apiPath, config.GetToken(), opts.Logger)
	wrapper.SetRetryPolicy(opts.MaxRetries, opts.RetryDelay)

	return &Client{
		httpClient: wrapper,
		logger:     opts.Logger,
		cache:      opts.Cache,
		baseURL:    baseURL,
		apiPath:    apiPath,
		token:      config.GetToken(),
		insecure:   config.GetInsecure(),
		fetchCap:   fetchCap,
	}, nil
}

// BaseURL returns the backend origin without the API path.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Logger returns the logger the client reports to.
func (c *Client) Logger() interfaces.Logger {
	return c.logger
}

// FetchCap returns the page size used when loading a full collection.
func (c *Client) FetchCap() int {
	return c.fetchCap
}

// ListCollection fetches one page of a collection and normalizes the
// response envelope. The returned error wraps ErrShapeMismatch when the
// payload is not a supported shape.
func (c *Client) ListCollection(ctx context.Context, path string, q ListQuery) ([]json.RawMessage, int, error) {
	if q.PageSize <= 0 {
		q.PageSize = c.fetchCap
	}

	raw, err := c.httpClient.Get(ctx, path, q.Values())
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list %s: %w", path, err)
	}

	items, total, err := NormalizeCollection(raw)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list %s: %w", path, err)
	}

	c.logger.Debug("Listed %s: %d items (total %d)", path, len(items), total)

	return items, total, nil
}

// List fetches a collection and decodes it into T. An unrecognized payload
// is logged as a warning and treated as an empty collection.
func List[T any](ctx context.Context, c *Client, path string, q ListQuery) ([]T, int, error) {
	if q.PageSize <= 0 {
		q.PageSize = c.fetchCap
	}

	raw, err := c.httpClient.Get(ctx, path, q.Values())
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list %s: %w", path, err)
	}

	items, total, err := DecodeCollection[T](raw)
	if errors.Is(err, ErrShapeMismatch) {
		c.logger.Warn("Discarding %s response: %v", path, err)

		return []T{}, 0, nil
	}

	if err != nil {
		return nil, 0, fmt.Errorf("failed to decode %s: %w", path, err)
	}

	return items, total, nil
}

// FetchAll returns a loader for the full collection at path, capped at the
// configured fetch cap.
func FetchAll[T any](c *Client, path string) func(ctx context.Context) ([]T, error) {
	return func(ctx context.Context) ([]T, error) {
		items, _, err := List[T](ctx, c, path, ListQuery{PageSize: c.fetchCap})

		return items, err
	}
}

// Create posts body to a collection and decodes the created entity into
// result when non-nil.
func (c *Client) Create(ctx context.Context, path string, body interface{}, result interface{}) error {
	c.logger.Debug("API POST: %s", path)

	if err := c.httpClient.Post(ctx, path, body, result); err != nil {
		return fmt.Errorf("failed to create in %s: %w", path, err)
	}

	return nil
}

// Delete removes the entity id from the collection at path.
func (c *Client) Delete(ctx context.Context, path, id string) error {
	if id == "" {
		return fmt.Errorf("delete from %s: empty id", path)
	}

	target := strings.TrimRight(path, "/") + "/" + url.PathEscape(id)
	c.logger.Debug("API DELETE: %s", target)

	if err := c.httpClient.Delete(ctx, target); err != nil {
		return fmt.Errorf("failed to delete %s: %w", target, err)
	}

	return nil
}

// GetWithCache performs a GET and stores the raw body in the cache for ttl.
func (c *Client) GetWithCache(ctx context.Context, path string, ttl time.Duration) ([]byte, error) {
	cacheKey := c.cacheKey(path)

	var cached []byte
	found, err := c.cache.Get(cacheKey, &cached)
	if err != nil {
		c.logger.Debug("Cache error for %s: %v", path, err)
	} else if found {
		c.logger.Debug("Cache hit for: %s", path)

		return cached, nil
	}

	c.logger.Debug("Cache miss for: %s", path)

	raw, err := c.httpClient.Get(ctx, path, nil)
	if err != nil {
		return nil, err
	}

	if err := c.cache.Set(cacheKey, raw, ttl); err != nil {
		c.logger.Debug("Failed to cache API result for %s: %v", path, err)
	}

	return raw, nil
}

// forgetCached drops the cached body of path.
func (c *Client) forgetCached(path string) {
	if err := c.cache.Delete(c.cacheKey(path)); err != nil {
		c.logger.Debug("Failed to evict cached %s: %v", path, err)
	}
}

func (c *Client) cacheKey(path string) string {
	return strings.ReplaceAll(fmt.Sprintf("dispatchdesk_api_%s%s_%s", c.baseURL, c.apiPath, path), "/", "_")
}
