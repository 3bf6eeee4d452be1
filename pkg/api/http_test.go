package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/truckline/dispatchdesk/pkg/api/testutils"
)

func TestNewHTTPClient(t *testing.T) {
	httpClient := &http.Client{}
	logger := testutils.NewTestLogger()

	client := NewHTTPClient(httpClient, "https://ops.example.com/api/", "secret", logger)

	assert.Equal(t, httpClient, client.client)
	assert.Equal(t, "https://ops.example.com/api", client.baseURL)
	assert.Equal(t, "secret", client.token)
	assert.Equal(t, DefaultMaxRetries, client.maxRetries)
}

func TestHTTPClient_Get_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/api/orders", r.URL.Path)
		assert.Equal(t, "2", r.URL.Query().Get(ParamPageSize))
		assert.Equal(t, UserAgent, r.Header.Get("User-Agent"))
		assert.Equal(t, "application/json", r.Header.Get("Accept"))
		assert.Equal(t, "Bearer secret", r.Header.Get(HeaderAuthorization))
		assert.NotEmpty(t, r.Header.Get(HeaderRequestID))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[{"id":"1"}]`))
	}))
	defer server.Close()

	client := NewHTTPClient(server.Client(), server.URL+"/api", "secret", testutils.NewTestLogger())

	body, err := client.Get(context.Background(), "orders", url.Values{ParamPageSize: {"2"}})
	require.NoError(t, err)
	assert.JSONEq(t, `[{"id":"1"}]`, string(body))
}

func TestHTTPClient_AnonymousHasNoAuthorization(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Empty(t, r.Header.Get(HeaderAuthorization))
		w.WriteHeader(http.StatusNoContent)
	}))
	defer server.Close()

	client := NewHTTPClient(server.Client(), server.URL, "", nil)
	require.NoError(t, client.Delete(context.Background(), "/orders/1"))
}

func TestHTTPClient_Post_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var payload map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
		assert.Equal(t, "Hoang Long", payload["name"])

		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"id":"c-1","name":"Hoang Long"}`))
	}))
	defer server.Close()

	client := NewHTTPClient(server.Client(), server.URL, "", testutils.NewTestLogger())

	var created Customer
	err := client.Post(context.Background(), "/customers", map[string]string{"name": "Hoang Long"}, &created)
	require.NoError(t, err)
	assert.Equal(t, "c-1", created.ID)
}

func TestHTTPClient_PostIsNotRetried(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	client := NewHTTPClient(server.Client(), server.URL, "", nil)
	client.SetRetryPolicy(3, time.Millisecond)

	err := client.Post(context.Background(), "/orders", map[string]string{}, nil)
	require.Error(t, err)
	assert.Equal(t, int32(1), calls.Load())
}

func TestHTTPClient_HTTPErrors(t *testing.T) {
	tests := []struct {
		name     string
		status   int
		sentinel error
	}{
		{name: "not found", status: http.StatusNotFound, sentinel: ErrNotFound},
		{name: "unauthorized", status: http.StatusUnauthorized, sentinel: ErrUnauthorized},
		{name: "forbidden", status: http.StatusForbidden, sentinel: ErrUnauthorized},
		{name: "bad request", status: http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				http.Error(w, "nope", tt.status)
			}))
			defer server.Close()

			client := NewHTTPClient(server.Client(), server.URL, "", nil)
			client.SetRetryPolicy(3, time.Millisecond)

			_, err := client.Get(context.Background(), "/orders", nil)
			require.Error(t, err)

			var statusErr *StatusError
			require.ErrorAs(t, err, &statusErr)
			assert.Equal(t, tt.status, statusErr.Code)
			assert.Equal(t, "nope", statusErr.Body)
			assert.False(t, statusErr.Retryable())

			if tt.sentinel != nil {
				assert.ErrorIs(t, err, tt.sentinel)
			} else {
				assert.NotErrorIs(t, err, ErrNotFound)
			}
		})
	}
}

func TestHTTPClient_RetriesServerErrors(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		_, _ = w.Write([]byte(`{"data":[]}`))
	}))
	defer server.Close()

	logger := testutils.NewTestLogger()
	client := NewHTTPClient(server.Client(), server.URL, "", logger)
	client.SetRetryPolicy(3, time.Millisecond)

	body, err := client.Get(context.Background(), "/trips", nil)
	require.NoError(t, err)
	assert.JSONEq(t, `{"data":[]}`, string(body))
	assert.Equal(t, int32(3), calls.Load())
	testutils.AssertLogContains(t, logger, "debug", "Retrying GET /trips")
}

func TestHTTPClient_GivesUpAfterMaxRetries(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	client := NewHTTPClient(server.Client(), server.URL, "", nil)
	client.SetRetryPolicy(2, time.Millisecond)

	_, err := client.Get(context.Background(), "/trips", nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "after 2 attempts")
	assert.Equal(t, int32(2), calls.Load())
}

func TestHTTPClient_NetworkError(t *testing.T) {
	client := NewHTTPClient(&http.Client{Timeout: time.Second}, "http://127.0.0.1:1", "", nil)
	client.SetRetryPolicy(2, time.Millisecond)

	_, err := client.Get(context.Background(), "/orders", nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "request failed")
}

func TestHTTPClient_ContextCancellation(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	}))
	defer server.Close()

	client := NewHTTPClient(server.Client(), server.URL, "", nil)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	start := time.Now()
	_, err := client.Get(ctx, "/orders", nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Less(t, time.Since(start), time.Second)
}
