package views

import (
	"strconv"

	"github.com/truckline/dispatchdesk/internal/listview"
	"github.com/truckline/dispatchdesk/pkg/api"
)

func trailerStatus(t api.Trailer) string { return t.Status }

// Trailers is the fleet trailer list view.
func Trailers() *Definition[api.Trailer] {
	return &Definition[api.Trailer]{
		Entity:  "trailers",
		Heading: "Trailers",
		Path:    api.EndpointTrailers,
		Buckets: []listview.Bucket[api.Trailer]{
			listview.All[api.Trailer]("All"),
			listview.StatusBucket("available", "Available", trailerStatus, api.TrailerStatusAvailable),
			listview.StatusBucket("in_use", "In use", trailerStatus, api.TrailerStatusInUse),
			listview.StatusBucket("maintenance", "Maintenance", trailerStatus, api.TrailerStatusMaintenance),
		},
		Extractors: []listview.Extractor[api.Trailer]{
			func(t api.Trailer) string { return t.PlateNumber },
			func(t api.Trailer) string { return t.Type },
		},
		SortKeys: []listview.SortKey[api.Trailer]{
			{Key: "lastInspection", Label: "Inspected", Kind: listview.SortDate, Value: func(t api.Trailer) string { return t.LastInspection }},
			{Key: "plateNumber", Label: "Plate", Kind: listview.SortText, Value: func(t api.Trailer) string { return t.PlateNumber }},
		},
		Columns: []Column[api.Trailer]{
			{Title: "Plate", Value: func(t api.Trailer) string { return t.PlateNumber }, SortKey: "plateNumber"},
			{Title: "Type", Value: func(t api.Trailer) string { return t.Type }},
			{Title: "Capacity (t)", Value: func(t api.Trailer) string { return strconv.FormatFloat(t.CapacityTons, 'f', -1, 64) }},
			{Title: "Status", Kind: ColStatus, Value: trailerStatus},
			{Title: "Inspected", Kind: ColDate, Value: func(t api.Trailer) string { return t.LastInspection }, SortKey: "lastInspection"},
		},
		ID:       func(t api.Trailer) string { return t.ID },
		Describe: func(t api.Trailer) string { return "trailer " + t.PlateNumber },
	}
}
