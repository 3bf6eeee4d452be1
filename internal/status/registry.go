// Package status resolves status keys to display labels and colors. The
// backend registry wins; the built-in Vietnamese tables fill the gaps.
package status

import (
	"context"
	"strings"
	"sync"
	"unicode"
	"unicode/utf8"

	"github.com/iancoleman/strcase"

	"github.com/truckline/dispatchdesk/pkg/api"
	"github.com/truckline/dispatchdesk/pkg/api/interfaces"
)

// Entry is the display form of one status.
type Entry struct {
	Key   string
	Label string
	Color string
}

// Source provides backend status definitions. *api.Client implements it.
type Source interface {
	GetStatuses(ctx context.Context, entity string) ([]api.StatusDef, error)
}

// Registry maps (entity, status key) to an Entry.
type Registry struct {
	mu      sync.RWMutex
	source  Source
	logger  interfaces.Logger
	entries map[string]map[string]Entry
}

// NewRegistry creates a registry. A nil source means fallback only.
func NewRegistry(source Source, logger interfaces.Logger) *Registry {
	if logger == nil {
		logger = &interfaces.NoOpLogger{}
	}

	return &Registry{
		source:  source,
		logger:  logger,
		entries: make(map[string]map[string]Entry),
	}
}

// Load fetches the registry for each entity. Failures are logged and leave
// that entity on the fallback table; Load itself never fails.
func (r *Registry) Load(ctx context.Context, entities ...string) {
	if r.source == nil {
		return
	}

	for _, entity := range entities {
		defs, err := r.source.GetStatuses(ctx, entity)
		if err != nil {
			r.logger.Warn("Status registry for %s unavailable, using built-in labels: %v", entity, err)
			continue
		}

		table := make(map[string]Entry, len(defs))
		for _, def := range defs {
			key := normalizeKey(def.Key)
			table[key] = Entry{Key: key, Label: def.Label, Color: def.Color}
		}

		r.mu.Lock()
		r.entries[entity] = table
		r.mu.Unlock()

		r.logger.Debug("Loaded %d statuses for %s", len(table), entity)
	}
}

// Lookup resolves key for entity. Missing label or color fields of a backend
// entry are completed from the fallback table.
func (r *Registry) Lookup(entity, key string) Entry {
	key = normalizeKey(key)

	fb, hasFallback := fallback[entity][key]

	r.mu.RLock()
	entry, ok := r.entries[entity][key]
	r.mu.RUnlock()

	if !ok {
		if hasFallback {
			return fb
		}

		return Entry{Key: key, Label: humanize(key), Color: ColorGray}
	}

	if entry.Label == "" {
		entry.Label = fb.Label
		if entry.Label == "" {
			entry.Label = humanize(key)
		}
	}

	if entry.Color == "" {
		entry.Color = fb.Color
		if entry.Color == "" {
			entry.Color = ColorGray
		}
	}

	return entry
}

// Label is shorthand for Lookup(entity, key).Label.
func (r *Registry) Label(entity, key string) string {
	return r.Lookup(entity, key).Label
}

// Color is shorthand for Lookup(entity, key).Color.
func (r *Registry) Color(entity, key string) string {
	return r.Lookup(entity, key).Color
}

func normalizeKey(key string) string {
	return strings.ToLower(strings.TrimSpace(key))
}

// humanize turns "on_hold" into "On hold".
func humanize(key string) string {
	if key == "" {
		return "-"
	}

	words := strcase.ToDelimited(key, ' ')
	r, size := utf8.DecodeRuneInString(words)

	return string(unicode.ToUpper(r)) + words[size:]
}
