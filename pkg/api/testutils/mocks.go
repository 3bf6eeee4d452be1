package testutils

import (
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"
)

// MockLogger is a mock implementation of the Logger interface
type MockLogger struct {
	mock.Mock
}

func (m *MockLogger) Debug(format string, args ...interface{}) {
	m.Called(format, args)
}

func (m *MockLogger) Info(format string, args ...interface{}) {
	m.Called(format, args)
}

func (m *MockLogger) Warn(format string, args ...interface{}) {
	m.Called(format, args)
}

func (m *MockLogger) Error(format string, args ...interface{}) {
	m.Called(format, args)
}

// MockCache is a mock implementation of the Cache interface
type MockCache struct {
	mock.Mock
}

func (m *MockCache) Get(key string, dest interface{}) (bool, error) {
	args := m.Called(key, dest)
	return args.Bool(0), args.Error(1)
}

func (m *MockCache) Set(key string, value interface{}, ttl time.Duration) error {
	args := m.Called(key, value, ttl)
	return args.Error(0)
}

func (m *MockCache) Delete(key string) error {
	args := m.Called(key)
	return args.Error(0)
}

func (m *MockCache) Clear() error {
	args := m.Called()
	return args.Error(0)
}

// TestConfig is a simple test implementation of the Config interface
type TestConfig struct {
	Addr     string
	APIPath  string
	Token    string
	Insecure bool
	FetchCap int
}

func (c *TestConfig) GetAddr() string    { return c.Addr }
func (c *TestConfig) GetAPIPath() string { return c.APIPath }
func (c *TestConfig) GetToken() string   { return c.Token }
func (c *TestConfig) GetInsecure() bool  { return c.Insecure }
func (c *TestConfig) GetFetchCap() int   { return c.FetchCap }

// NewTestConfig creates a test configuration pointing at addr.
func NewTestConfig(addr string) *TestConfig {
	return &TestConfig{
		Addr:     addr,
		APIPath:  "/api",
		Token:    "test-token",
		FetchCap: 1000,
	}
}

// TestLogger is a simple test logger that captures log messages. It is safe
// for concurrent use because list views log from fetch goroutines.
type TestLogger struct {
	mu            sync.Mutex
	DebugMessages []string
	InfoMessages  []string
	WarnMessages  []string
	ErrorMessages []string
}

func (l *TestLogger) Debug(format string, args ...interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.DebugMessages = append(l.DebugMessages, fmt.Sprintf(format, args...))
}

func (l *TestLogger) Info(format string, args ...interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.InfoMessages = append(l.InfoMessages, fmt.Sprintf(format, args...))
}

func (l *TestLogger) Warn(format string, args ...interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.WarnMessages = append(l.WarnMessages, fmt.Sprintf(format, args...))
}

func (l *TestLogger) Error(format string, args ...interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.ErrorMessages = append(l.ErrorMessages, fmt.Sprintf(format, args...))
}

// Messages returns a copy of the messages logged at level.
func (l *TestLogger) Messages(level string) []string {
	l.mu.Lock()
	defer l.mu.Unlock()

	var src []string
	switch level {
	case "debug":
		src = l.DebugMessages
	case "info":
		src = l.InfoMessages
	case "warn":
		src = l.WarnMessages
	case "error":
		src = l.ErrorMessages
	}
	return append([]string(nil), src...)
}

func (l *TestLogger) Reset() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.DebugMessages = nil
	l.InfoMessages = nil
	l.WarnMessages = nil
	l.ErrorMessages = nil
}

// NewTestLogger creates a new test logger
func NewTestLogger() *TestLogger {
	return &TestLogger{}
}

// InMemoryCache is a simple in-memory cache for testing. Values round-trip
// through JSON so any destination type works.
type InMemoryCache struct {
	mu   sync.Mutex
	data map[string][]byte
}

func (c *InMemoryCache) Get(key string, dest interface{}) (bool, error) {
	c.mu.Lock()
	raw, exists := c.data[key]
	c.mu.Unlock()
	if !exists {
		return false, nil
	}
	if err := json.Unmarshal(raw, dest); err != nil {
		return false, err
	}
	return true, nil
}

func (c *InMemoryCache) Set(key string, value interface{}, ttl time.Duration) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	c.mu.Lock()
	c.data[key] = raw
	c.mu.Unlock()
	return nil
}

func (c *InMemoryCache) Delete(key string) error {
	c.mu.Lock()
	delete(c.data, key)
	c.mu.Unlock()
	return nil
}

func (c *InMemoryCache) Clear() error {
	c.mu.Lock()
	c.data = make(map[string][]byte)
	c.mu.Unlock()
	return nil
}

// Len returns the number of stored keys.
func (c *InMemoryCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.data)
}

// NewInMemoryCache creates a new in-memory cache for testing
func NewInMemoryCache() *InMemoryCache {
	return &InMemoryCache{
		data: make(map[string][]byte),
	}
}

// AssertLogContains checks if a log message contains the expected text
func AssertLogContains(t *testing.T, logger *TestLogger, level string, expectedText string) {
	t.Helper()

	messages := logger.Messages(level)
	for _, msg := range messages {
		if strings.Contains(msg, expectedText) {
			return
		}
	}

	t.Errorf("Expected %s log to contain '%s', but it was not found. Messages: %v", level, expectedText, messages)
}
