// Package mockbackend serves the dispatchdesk collections from memory. It is
// used by the mock API command and by tests that need a real HTTP backend.
package mockbackend

import (
	"context"
	_ "embed"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/getkin/kin-openapi/openapi3filter"
	"github.com/getkin/kin-openapi/routers"
	"github.com/getkin/kin-openapi/routers/gorillamux"
	"github.com/gorilla/mux"

	"github.com/truckline/dispatchdesk/internal/status"
	"github.com/truckline/dispatchdesk/pkg/api"
	"github.com/truckline/dispatchdesk/pkg/api/interfaces"
)

//go:embed openapi.yaml
var openapiSpec []byte

const maxBodySize = 1 << 20

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the request logger.
func WithLogger(logger interfaces.Logger) Option {
	return func(s *Server) { s.logger = logger }
}

// WithAPIPath mounts the collections under path instead of /api.
func WithAPIPath(path string) Option {
	return func(s *Server) { s.apiPath = "/" + strings.Trim(path, "/") }
}

// WithToken requires "Authorization: Bearer <token>" on every request.
func WithToken(token string) Option {
	return func(s *Server) { s.token = token }
}

// WithLatency delays every response by d.
func WithLatency(d time.Duration) Option {
	return func(s *Server) { s.latency = d }
}

// WithValidation toggles OpenAPI request validation. It is on by default.
func WithValidation(enabled bool) Option {
	return func(s *Server) { s.validate = enabled }
}

// Server is an http.Handler backed by a State.
type Server struct {
	state    *State
	hub      *Hub
	logger   interfaces.Logger
	apiPath  string
	token    string
	latency  time.Duration
	validate bool

	router  routers.Router
	handler http.Handler
}

// New builds the server and its routes.
func New(state *State, opts ...Option) (*Server, error) {
	s := &Server{
		state:    state,
		logger:   &interfaces.NoOpLogger{},
		apiPath:  "/api",
		validate: true,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.hub = NewHub(s.logger)

	loader := openapi3.NewLoader()
	doc, err := loader.LoadFromData(openapiSpec)
	if err != nil {
		return nil, fmt.Errorf("failed to load openapi document: %w", err)
	}

	doc.Servers = openapi3.Servers{{URL: s.apiPath}}
	if err := doc.Validate(context.Background()); err != nil {
		return nil, fmt.Errorf("invalid openapi document: %w", err)
	}

	s.router, err = gorillamux.NewRouter(doc)
	if err != nil {
		return nil, fmt.Errorf("failed to create openapi router: %w", err)
	}

	r := mux.NewRouter()
	sub := r.PathPrefix(s.apiPath).Subrouter()

	sub.Handle(api.EndpointChanges, s.hub).Methods(http.MethodGet)
	sub.HandleFunc("/statuses/{entity}", s.handleStatuses).Methods(http.MethodGet)
	sub.HandleFunc("/{collection}", s.handleList).Methods(http.MethodGet)
	sub.HandleFunc("/{collection}", s.handleCreate).Methods(http.MethodPost)
	sub.HandleFunc("/{collection}/{id}", s.handleDelete).Methods(http.MethodDelete)

	r.Use(s.logRequests, s.authenticate, s.delay, s.validateRequests)

	s.handler = r

	return s, nil
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.handler.ServeHTTP(w, r)
}

// State returns the backing store.
func (s *Server) State() *State {
	return s.state
}

// Publish broadcasts a change event to change feed subscribers.
func (s *Server) Publish(collection, action, id string) {
	s.hub.Publish(api.ChangeEvent{Collection: collection, Action: action, ID: id})
}

// Close disconnects change feed subscribers.
func (s *Server) Close() {
	s.hub.Close()
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.logger.Debug("%s %s", r.Method, r.URL.RequestURI())
		next.ServeHTTP(w, r)
	})
}

func (s *Server) authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.token != "" && r.Header.Get(api.HeaderAuthorization) != "Bearer "+s.token {
			writeError(w, http.StatusUnauthorized, "invalid or missing token")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) delay(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.latency > 0 && !strings.HasSuffix(r.URL.Path, api.EndpointChanges) {
			select {
			case <-time.After(s.latency):
			case <-r.Context().Done():
				return
			}
		}
		next.ServeHTTP(w, r)
	})
}

// validateRequests checks requests against the OpenAPI document. Paths the
// document does not describe, such as the change feed, pass through.
func (s *Server) validateRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !s.validate {
			next.ServeHTTP(w, r)
			return
		}

		route, pathParams, err := s.router.FindRoute(r)
		if err != nil {
			next.ServeHTTP(w, r)
			return
		}

		r.Body = http.MaxBytesReader(w, r.Body, maxBodySize)
		input := &openapi3filter.RequestValidationInput{
			Request:    r,
			PathParams: pathParams,
			Route:      route,
			Options: &openapi3filter.Options{
				AuthenticationFunc: openapi3filter.NoopAuthenticationFunc,
			},
		}
		if err := openapi3filter.ValidateRequest(r.Context(), input); err != nil {
			s.logger.Warn("Rejected %s %s: %v", r.Method, r.URL.Path, err)
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}

		next.ServeHTTP(w, r)
	})
}

func (s *Server) handleList(w http.ResponseWriter, r *http.Request) {
	collection := mux.Vars(r)["collection"]
	if !s.state.HasCollection(collection) {
		writeError(w, http.StatusNotFound, "unknown collection "+collection)
		return
	}

	query := r.URL.Query()
	q := Query{
		Search: query.Get(api.ParamSearchKeyword),
		Status: query.Get(api.ParamStatus),
	}
	q.PageNumber, _ = strconv.Atoi(query.Get(api.ParamPageNumber))
	q.PageSize, _ = strconv.Atoi(query.Get(api.ParamPageSize))

	items, total := s.state.List(collection, q)

	var body interface{}
	switch s.state.Shape(collection) {
	case ShapeArray:
		body = items
	case ShapePaged:
		body = map[string]interface{}{
			"data": map[string]interface{}{
				"items":      items,
				"totalCount": total,
			},
		}
	case ShapeBroken:
		body = map[string]interface{}{"foo": 1}
	default:
		body = map[string]interface{}{"data": items}
	}

	writeJSON(w, http.StatusOK, body)
}

func (s *Server) handleCreate(w http.ResponseWriter, r *http.Request) {
	collection := mux.Vars(r)["collection"]
	if !s.state.HasCollection(collection) {
		writeError(w, http.StatusNotFound, "unknown collection "+collection)
		return
	}

	raw, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodySize))
	if err != nil {
		writeError(w, http.StatusBadRequest, "failed to read body")
		return
	}

	created, err := s.state.AddRaw(collection, raw)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	var head struct {
		ID string `json:"id"`
	}
	_ = json.Unmarshal(created, &head)
	s.Publish(collection, api.ChangeCreated, head.ID)

	writeJSON(w, http.StatusCreated, created)
}

func (s *Server) handleDelete(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	collection, id := vars["collection"], vars["id"]

	if !s.state.Delete(collection, id) {
		writeError(w, http.StatusNotFound, fmt.Sprintf("%s %s not found", collection, id))
		return
	}

	s.Publish(collection, api.ChangeDeleted, id)
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleStatuses(w http.ResponseWriter, r *http.Request) {
	entity := mux.Vars(r)["entity"]
	if !s.state.HasCollection(entity) {
		writeError(w, http.StatusNotFound, "unknown entity "+entity)
		return
	}

	defs := make([]api.StatusDef, 0)
	for _, e := range status.Fallback(entity) {
		defs = append(defs, api.StatusDef{Key: e.Key, Label: e.Label, Color: e.Color})
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"data": defs})
}

// Churn flips the status of a random entity every interval and publishes
// an update, until ctx is done.
func (s *Server) Churn(ctx context.Context, every time.Duration, pick func(n int) int) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}

		collection := Collections[pick(len(Collections))]
		ids := s.state.IDs(collection)
		statuses := status.Fallback(collection)
		if len(ids) == 0 || len(statuses) == 0 {
			continue
		}

		id := ids[pick(len(ids))]
		next := statuses[pick(len(statuses))].Key
		if s.state.SetStatus(collection, id, next) {
			s.logger.Debug("Churn: %s %s -> %s", collection, id, next)
			s.Publish(collection, api.ChangeUpdated, id)
		}
	}
}

func writeJSON(w http.ResponseWriter, code int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, code int, message string) {
	writeJSON(w, code, map[string]string{"error": message})
}
