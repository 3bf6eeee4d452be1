package models

import (
	"sync"

	"github.com/truckline/dispatchdesk/internal/logger"
	"github.com/truckline/dispatchdesk/pkg/api/interfaces"
)

// State tracks UI work that outlives a single draw, such as deletes that are
// still in flight on the backend.
type State struct {
	pendingMu      sync.RWMutex
	pendingDeletes map[string]string // key: "view:id", value: description
}

// GlobalState is the singleton instance for UI state.
var GlobalState = NewState()

// NewState returns an empty State.
func NewState() *State {
	return &State{pendingDeletes: make(map[string]string)}
}

// UI logger instance - will be set by the main application.
var uiLogger interfaces.Logger

// SetUILogger sets the shared logger instance for UI components.
func SetUILogger(logger interfaces.Logger) {
	uiLogger = logger
}

// GetUILogger returns the UI logger, with fallback if not set.
func GetUILogger() interfaces.Logger {
	if uiLogger != nil {
		return uiLogger
	}

	return logger.GetGlobalLogger()
}

func pendingKey(view, id string) string { return view + ":" + id }

// SetDeletePending marks the entity as being deleted. It returns false if a
// delete for it is already running.
func (s *State) SetDeletePending(view, id, description string) bool {
	s.pendingMu.Lock()
	defer s.pendingMu.Unlock()

	key := pendingKey(view, id)
	if _, exists := s.pendingDeletes[key]; exists {
		return false
	}

	s.pendingDeletes[key] = description

	return true
}

// ClearDeletePending removes the pending mark for the entity.
func (s *State) ClearDeletePending(view, id string) {
	s.pendingMu.Lock()
	defer s.pendingMu.Unlock()

	delete(s.pendingDeletes, pendingKey(view, id))
}

// IsDeletePending reports whether a delete is running for the entity.
func (s *State) IsDeletePending(view, id string) (bool, string) {
	s.pendingMu.RLock()
	defer s.pendingMu.RUnlock()

	description, exists := s.pendingDeletes[pendingKey(view, id)]

	return exists, description
}

// HasPendingOperations reports whether any delete is still running.
func (s *State) HasPendingOperations() bool {
	s.pendingMu.RLock()
	defer s.pendingMu.RUnlock()

	return len(s.pendingDeletes) > 0
}
