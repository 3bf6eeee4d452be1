package api

import (
	"net/http"
	"time"

	"github.com/truckline/dispatchdesk/pkg/api/interfaces"
)

// ClientOptions holds optional dependencies for the API client.
type ClientOptions struct {
	Logger     interfaces.Logger
	Cache      interfaces.Cache
	HTTPClient *http.Client
	MaxRetries int
	RetryDelay time.Duration
}

// ClientOption is a function that configures ClientOptions.
type ClientOption func(*ClientOptions)

// WithLogger sets a custom logger for the client.
func WithLogger(logger interfaces.Logger) ClientOption {
	return func(opts *ClientOptions) {
		opts.Logger = logger
	}
}

// WithCache sets a custom cache for the client.
func WithCache(cache interfaces.Cache) ClientOption {
	return func(opts *ClientOptions) {
		opts.Cache = cache
	}
}

// WithHTTPClient replaces the underlying *http.Client.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(opts *ClientOptions) {
		opts.HTTPClient = hc
	}
}

// WithRetry sets how many attempts a GET makes and the base backoff step.
func WithRetry(maxRetries int, delay time.Duration) ClientOption {
	return func(opts *ClientOptions) {
		opts.MaxRetries = maxRetries
		opts.RetryDelay = delay
	}
}

// defaultOptions returns ClientOptions with sensible defaults.
func defaultOptions() *ClientOptions {
	return &ClientOptions{
		Logger:     &interfaces.NoOpLogger{},
		Cache:      &interfaces.NoOpCache{},
		MaxRetries: DefaultMaxRetries,
		RetryDelay: DefaultRetryDelay,
	}
}
