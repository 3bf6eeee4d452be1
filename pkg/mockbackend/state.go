package mockbackend

import (
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/google/uuid"

	"github.com/truckline/dispatchdesk/pkg/api"
)

// Shape selects the envelope a collection is served in.
type Shape string

const (
	ShapeArray Shape = "array"
	ShapeData  Shape = "data"
	ShapePaged Shape = "paged"
	// ShapeBroken serves {"foo": 1} to exercise client tolerance.
	ShapeBroken Shape = "broken"
)

// ParseShape validates a shape name.
func ParseShape(s string) (Shape, error) {
	switch Shape(strings.ToLower(strings.TrimSpace(s))) {
	case ShapeArray:
		return ShapeArray, nil
	case ShapeData:
		return ShapeData, nil
	case ShapePaged:
		return ShapePaged, nil
	case ShapeBroken:
		return ShapeBroken, nil
	default:
		return "", fmt.Errorf("unknown response shape %q", s)
	}
}

// Collections served by the mock backend.
var Collections = []string{"orders", "trips", "incidents", "customers", "trailers", "contracts"}

// record is one stored entity. Raw is the JSON form served to clients.
type record struct {
	ID     string
	Status string
	Raw    json.RawMessage
	Search string
}

// State is the in-memory backend store.
type State struct {
	mu     sync.RWMutex
	data   map[string][]record
	shapes map[string]Shape
}

// NewState returns an empty store. Collections default to a mix of shapes
// so every client code path is exercised.
func NewState() *State {
	s := &State{
		data: make(map[string][]record, len(Collections)),
		shapes: map[string]Shape{
			"orders":    ShapePaged,
			"trips":     ShapeData,
			"incidents": ShapeArray,
			"customers": ShapePaged,
			"trailers":  ShapeData,
			"contracts": ShapeArray,
		},
	}
	for _, c := range Collections {
		s.data[c] = nil
	}

	return s
}

// HasCollection reports whether name is served.
func (s *State) HasCollection(name string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	_, ok := s.data[name]
	return ok
}

// SetShape changes the envelope of collection.
func (s *State) SetShape(collection string, shape Shape) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.shapes[collection] = shape
}

// Shape returns the envelope of collection.
func (s *State) Shape(collection string) Shape {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if shape, ok := s.shapes[collection]; ok {
		return shape
	}
	return ShapeData
}

// Count returns the number of stored entities in collection.
func (s *State) Count(collection string) int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.data[collection])
}

// Add stores an entity. v must marshal to an object with "id" and
// "status" fields; a missing id is generated.
func (s *State) Add(collection string, v interface{}) (json.RawMessage, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("marshal %s entity: %w", collection, err)
	}

	return s.AddRaw(collection, raw)
}

// AddRaw stores a JSON object.
func (s *State) AddRaw(collection string, raw []byte) (json.RawMessage, error) {
	var fields map[string]interface{}
	if err := json.Unmarshal(raw, &fields); err != nil {
		return nil, fmt.Errorf("decode %s entity: %w", collection, err)
	}

	id, _ := fields["id"].(string)
	if id == "" {
		id = uuid.NewString()
		fields["id"] = id
	}

	if created, _ := fields["createdAt"].(string); created == "" && (collection == "orders" || collection == "customers") {
		fields["createdAt"] = time.Now().UTC().Format(time.RFC3339)
	}

	normalized, err := json.Marshal(fields)
	if err != nil {
		return nil, fmt.Errorf("encode %s entity: %w", collection, err)
	}

	status, _ := fields["status"].(string)
	rec := record{ID: id, Status: status, Raw: normalized, Search: strings.ToLower(string(normalized))}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.data[collection]; !ok {
		return nil, fmt.Errorf("unknown collection %q", collection)
	}
	s.data[collection] = append(s.data[collection], rec)

	return normalized, nil
}

// Delete removes id from collection and reports whether it existed.
func (s *State) Delete(collection, id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	records := s.data[collection]
	for i, rec := range records {
		if rec.ID == id {
			s.data[collection] = append(records[:i:i], records[i+1:]...)
			return true
		}
	}

	return false
}

// SetStatus changes the status of one entity.
func (s *State) SetStatus(collection, id, status string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, rec := range s.data[collection] {
		if rec.ID != id {
			continue
		}

		var fields map[string]interface{}
		if err := json.Unmarshal(rec.Raw, &fields); err != nil {
			return false
		}
		fields["status"] = status

		raw, err := json.Marshal(fields)
		if err != nil {
			return false
		}

		s.data[collection][i] = record{ID: id, Status: status, Raw: raw, Search: strings.ToLower(string(raw))}
		return true
	}

	return false
}

// IDs returns the ids stored in collection, in insertion order.
func (s *State) IDs(collection string) []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ids := make([]string, 0, len(s.data[collection]))
	for _, rec := range s.data[collection] {
		ids = append(ids, rec.ID)
	}

	return ids
}

// Query is a server-side list request.
type Query struct {
	PageNumber int
	PageSize   int
	Search     string
	Status     string
}

// List returns the page of collection matching q and the matching total.
func (s *State) List(collection string, q Query) ([]json.RawMessage, int) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	needle := strings.ToLower(strings.TrimSpace(q.Search))
	matched := make([]json.RawMessage, 0, len(s.data[collection]))
	for _, rec := range s.data[collection] {
		if q.Status != "" && !strings.EqualFold(rec.Status, q.Status) {
			continue
		}
		if needle != "" && !strings.Contains(rec.Search, needle) {
			continue
		}
		matched = append(matched, rec.Raw)
	}

	total := len(matched)
	if q.PageSize <= 0 {
		return matched, total
	}

	page := q.PageNumber
	if page < 1 {
		page = 1
	}

	if total == 0 || page-1 > (total-1)/q.PageSize {
		return []json.RawMessage{}, total
	}

	start := (page - 1) * q.PageSize

	end := total
	if q.PageSize < end-start {
		end = start + q.PageSize
	}

	return matched[start:end], total
}

// Seed fills every collection with n fake entities generated from seed.
func (s *State) Seed(seed uint64, n int) error {
	f := gofakeit.New(seed)
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	end := base.AddDate(1, 0, 0)

	date := func() string { return f.DateRange(base, end).Format(time.RFC3339) }
	plate := func() string { return f.Numerify("##") + strings.ToUpper(f.Lexify("?")) + "-" + f.Numerify("###.##") }
	party := func() *api.PartyRef {
		if f.IntRange(0, 9) == 0 {
			return nil
		}
		return &api.PartyRef{ID: f.UUID(), Name: f.Name(), Phone: f.Phone()}
	}

	orderStatuses := []string{api.OrderStatusPending, api.OrderStatusInTransit, api.OrderStatusCompleted, api.OrderStatusCanceled}
	tripStatuses := []string{
		api.TripStatusNotStarted, api.TripStatusInProgress, api.TripStatusLoading, api.TripStatusUnloading,
		api.TripStatusDelivering, api.TripStatusCompleted, api.TripStatusCanceled, api.TripStatusDelaying,
	}
	incidentTypes := []string{"breakdown", "accident", "delay", "damage", "documents"}
	severities := []string{"low", "medium", "high"}

	for i := 0; i < n; i++ {
		tracking := fmt.Sprintf("DD%s%04d", strings.ToUpper(f.Lexify("???")), i)
		tripCode := fmt.Sprintf("TRIP-%05d", i)

		entities := []struct {
			collection string
			value      interface{}
		}{
			{"orders", api.Order{
				TrackingCode:    tracking,
				Customer:        party(),
				Origin:          f.City(),
				Destination:     f.City(),
				ContainerNumber: strings.ToUpper(f.Lexify("????")) + f.Numerify("#######"),
				Status:          f.RandomString(orderStatuses),
				CreatedAt:       date(),
				DeliveryDate:    date(),
			}},
			{"trips", api.Trip{
				TripCode:          tripCode,
				OrderTrackingCode: tracking,
				Driver:            party(),
				TruckPlate:        plate(),
				TrailerPlate:      plate(),
				Origin:            f.City(),
				Destination:       f.City(),
				Status:            f.RandomString(tripStatuses),
				DepartureTime:     date(),
				ArrivalTime:       date(),
			}},
			{"incidents", api.Incident{
				Code:        fmt.Sprintf("INC-%05d", i),
				TripCode:    tripCode,
				Type:        f.RandomString(incidentTypes),
				Description: f.Company() + " reported at " + f.Street(),
				Severity:    f.RandomString(severities),
				Status:      f.RandomString([]string{api.IncidentStatusPending, api.IncidentStatusProcessing, api.IncidentStatusResolved}),
				ReportedBy:  party(),
				ReportedAt:  date(),
			}},
			{"customers", api.Customer{
				Code:      fmt.Sprintf("KH%05d", i),
				Name:      f.Company(),
				Phone:     f.Phone(),
				Email:     f.Email(),
				TaxCode:   f.Numerify("##########"),
				Address:   f.Street() + ", " + f.City(),
				Status:    f.RandomString([]string{api.CustomerStatusActive, api.CustomerStatusInactive}),
				CreatedAt: date(),
			}},
			{"trailers", api.Trailer{
				PlateNumber:    plate(),
				Type:           f.RandomString([]string{"flatbed 40ft", "skeletal 20ft", "skeletal 40ft", "tank"}),
				CapacityTons:   float64(f.IntRange(20, 40)),
				Status:         f.RandomString([]string{api.TrailerStatusAvailable, api.TrailerStatusInUse, api.TrailerStatusMaintenance}),
				LastInspection: date(),
			}},
			{"contracts", api.Contract{
				ContractNumber: fmt.Sprintf("HD-%d-%04d", 2024, i),
				Customer:       party(),
				Status:         f.RandomString([]string{api.ContractStatusDraft, api.ContractStatusActive, api.ContractStatusExpired, api.ContractStatusTerminated}),
				StartDate:      date(),
				EndDate:        date(),
				Value:          float64(f.IntRange(50, 5000)) * 1_000_000,
			}},
		}

		for _, e := range entities {
			if _, err := s.Add(e.collection, e.value); err != nil {
				return err
			}
		}
	}

	return nil
}
