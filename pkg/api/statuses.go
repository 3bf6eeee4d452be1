package api

import (
	"context"
	"fmt"
	"net/url"
)

// StatusDef is one entry of the backend status registry.
type StatusDef struct {
	Key   string `json:"key"`
	Label string `json:"label"`
	Color string `json:"color"`
}

// GetStatuses returns the status registry for entity (e.g. "orders").
// Results are cached for StatusCacheTTL; a body that does not decode is
// evicted so the next call asks the backend again.
func (c *Client) GetStatuses(ctx context.Context, entity string) ([]StatusDef, error) {
	path := EndpointStatuses + "/" + url.PathEscape(entity)

	raw, err := c.GetWithCache(ctx, path, StatusCacheTTL)
	if err != nil {
		return nil, fmt.Errorf("failed to get statuses for %s: %w", entity, err)
	}

	all, _, err := DecodeCollection[StatusDef](raw)
	if err != nil {
		c.forgetCached(path)

		return nil, fmt.Errorf("failed to get statuses for %s: %w", entity, err)
	}

	defs := make([]StatusDef, 0, len(all))
	for _, def := range all {
		if def.Key != "" {
			defs = append(defs, def)
		}
	}

	return defs, nil
}
