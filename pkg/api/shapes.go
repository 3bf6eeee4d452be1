package api

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// pagedEnvelope is the {data: {items, totalCount}} variant.
type pagedEnvelope struct {
	Items      *[]json.RawMessage `json:"items"`
	TotalCount *int               `json:"totalCount"`
}

// NormalizeCollection accepts the three payload shapes the backend uses for
// collections and returns the raw items plus the reported total:
//
//	[ ... ]
//	{"data": [ ... ]}
//	{"data": {"items": [ ... ], "totalCount": N}}
//
// Any other payload yields ErrShapeMismatch. The total falls back to the item
// count when the backend does not report one.
func NormalizeCollection(raw []byte) ([]json.RawMessage, int, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return nil, 0, fmt.Errorf("%w: empty body", ErrShapeMismatch)
	}

	switch trimmed[0] {
	case '[':
		var items []json.RawMessage
		if err := json.Unmarshal(trimmed, &items); err != nil {
			return nil, 0, fmt.Errorf("%w: %v", ErrShapeMismatch, err)
		}

		return items, len(items), nil
	case '{':
		var envelope map[string]json.RawMessage
		if err := json.Unmarshal(trimmed, &envelope); err != nil {
			return nil, 0, fmt.Errorf("%w: %v", ErrShapeMismatch, err)
		}

		data, ok := envelope["data"]
		if !ok {
			return nil, 0, fmt.Errorf("%w: missing data field", ErrShapeMismatch)
		}

		return normalizeData(bytes.TrimSpace(data))
	default:
		return nil, 0, fmt.Errorf("%w: unexpected %q", ErrShapeMismatch, trimmed[0])
	}
}

func normalizeData(data []byte) ([]json.RawMessage, int, error) {
	if len(data) == 0 {
		return nil, 0, fmt.Errorf("%w: empty data field", ErrShapeMismatch)
	}

	switch data[0] {
	case '[':
		var items []json.RawMessage
		if err := json.Unmarshal(data, &items); err != nil {
			return nil, 0, fmt.Errorf("%w: %v", ErrShapeMismatch, err)
		}

		return items, len(items), nil
	case '{':
		var paged pagedEnvelope
		if err := json.Unmarshal(data, &paged); err != nil {
			return nil, 0, fmt.Errorf("%w: %v", ErrShapeMismatch, err)
		}

		if paged.Items == nil {
			return nil, 0, fmt.Errorf("%w: data object without items", ErrShapeMismatch)
		}

		items := *paged.Items
		total := len(items)
		if paged.TotalCount != nil {
			total = *paged.TotalCount
		}

		return items, total, nil
	default:
		return nil, 0, fmt.Errorf("%w: data is %s", ErrShapeMismatch, string(data))
	}
}

// DecodeCollection normalizes raw and decodes every item into T. Items that
// do not decode into T are reported as a shape mismatch as well.
func DecodeCollection[T any](raw []byte) ([]T, int, error) {
	items, total, err := NormalizeCollection(raw)
	if err != nil {
		return nil, 0, err
	}

	out := make([]T, 0, len(items))
	for i, item := range items {
		var v T
		if err := json.Unmarshal(item, &v); err != nil {
			return nil, 0, fmt.Errorf("%w: item %d: %v", ErrShapeMismatch, i, err)
		}
		out = append(out, v)
	}

	return out, total, nil
}
