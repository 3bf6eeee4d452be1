// Package interfaces defines the core interfaces shared by the dispatchdesk
// API client and the console.
//
// These abstractions cover logging, caching and configuration so the API
// client can be constructed with real implementations in the application and
// with no-op or mock implementations in tests.
package interfaces

import "time"

// Logger defines the interface for leveled logging.
//
// Implementations must be safe for concurrent use. The format parameter
// follows fmt.Printf conventions.
//
// Example usage:
//
//	logger.Debug("Fetching %s page size %d", path, size)
//	logger.Warn("Unrecognized response shape for %s", path)
//	logger.Error("Fetch failed: %v", err)
type Logger interface {
	// Debug logs debug-level messages, shown only when debug logging is on.
	Debug(format string, args ...interface{})

	// Info logs informational messages about normal application flow.
	Info(format string, args ...interface{})

	// Warn logs recoverable anomalies, e.g. a backend payload that had to be
	// discarded.
	Warn(format string, args ...interface{})

	// Error logs error messages for conditions operators should investigate.
	Error(format string, args ...interface{})
}

// Cache defines the interface for key-value caching with TTL expiry.
//
// The dest parameter in Get must be a pointer to the type to unmarshal into.
type Cache interface {
	// Get retrieves a value and unmarshals it into dest. Returns true if the
	// key was found and not expired.
	Get(key string, dest interface{}) (bool, error)

	// Set stores a value with the given TTL. A zero TTL never expires.
	Set(key string, value interface{}, ttl time.Duration) error

	// Delete removes a specific key.
	Delete(key string) error

	// Clear removes all items.
	Clear() error
}

// Config defines the interface for accessing backend connection settings.
type Config interface {
	// GetAddr returns the backend base URL (e.g. "https://ops.example.com").
	GetAddr() string

	// GetAPIPath returns the path prefix for REST endpoints (e.g. "/api").
	GetAPIPath() string

	// GetToken returns the bearer token, or an empty string for anonymous
	// access.
	GetToken() string

	// GetInsecure returns true if TLS certificate verification is skipped.
	GetInsecure() bool

	// GetFetchCap returns the maximum number of rows requested when a list
	// view loads a full collection.
	GetFetchCap() int
}

// NoOpLogger discards all log messages.
//
// Example usage:
//
//	client, err := api.NewClient(cfg, api.WithLogger(&interfaces.NoOpLogger{}))
type NoOpLogger struct{}

// Debug discards the debug message.
func (n *NoOpLogger) Debug(format string, args ...interface{}) {}

// Info discards the info message.
func (n *NoOpLogger) Info(format string, args ...interface{}) {}

// Warn discards the warning message.
func (n *NoOpLogger) Warn(format string, args ...interface{}) {}

// Error discards the error message.
func (n *NoOpLogger) Error(format string, args ...interface{}) {}

// NoOpCache is a cache that never stores anything. Get always misses.
type NoOpCache struct{}

// Get always returns false (not found) and no error.
func (n *NoOpCache) Get(key string, dest interface{}) (bool, error) { return false, nil }

// Set always succeeds without storing anything.
func (n *NoOpCache) Set(key string, value interface{}, ttl time.Duration) error { return nil }

// Delete always succeeds.
func (n *NoOpCache) Delete(key string) error { return nil }

// Clear always succeeds.
func (n *NoOpCache) Clear() error { return nil }
