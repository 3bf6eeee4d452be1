package views

import (
	"github.com/truckline/dispatchdesk/internal/listview"
	"github.com/truckline/dispatchdesk/pkg/api"
)

func tripStatus(t api.Trip) string { return t.Status }

// OngoingTripStatuses make up the composite "ongoing" bucket.
var OngoingTripStatuses = []string{
	api.TripStatusInProgress,
	api.TripStatusLoading,
	api.TripStatusUnloading,
	api.TripStatusDelivering,
}

// Trips is the trip list view.
func Trips() *Definition[api.Trip] {
	return &Definition[api.Trip]{
		Entity:  "trips",
		Heading: "Trips",
		Path:    api.EndpointTrips,
		Buckets: []listview.Bucket[api.Trip]{
			listview.All[api.Trip]("All"),
			listview.StatusBucket("not_started", "Not started", tripStatus, api.TripStatusNotStarted),
			listview.StatusBucket("ongoing", "Ongoing", tripStatus, OngoingTripStatuses...),
			listview.StatusBucket("completed", "Completed", tripStatus, api.TripStatusCompleted),
			listview.StatusBucket("canceled", "Canceled", tripStatus, api.TripStatusCanceled),
			listview.StatusBucket("delaying", "Delaying", tripStatus, api.TripStatusDelaying),
		},
		Extractors: []listview.Extractor[api.Trip]{
			func(t api.Trip) string { return t.TripCode },
			func(t api.Trip) string { return t.OrderTrackingCode },
			func(t api.Trip) string { return api.PartyName(t.Driver) },
			func(t api.Trip) string { return api.PartyPhone(t.Driver) },
			func(t api.Trip) string { return t.TruckPlate },
			func(t api.Trip) string { return t.TrailerPlate },
		},
		SortKeys: []listview.SortKey[api.Trip]{
			{Key: "departureTime", Label: "Departure", Kind: listview.SortDate, Value: func(t api.Trip) string { return t.DepartureTime }},
			{Key: "arrivalTime", Label: "Arrival", Kind: listview.SortDate, Value: func(t api.Trip) string { return t.ArrivalTime }},
		},
		Columns: []Column[api.Trip]{
			{Title: "Trip", Value: func(t api.Trip) string { return t.TripCode }},
			{Title: "Order", Value: func(t api.Trip) string { return t.OrderTrackingCode }},
			{Title: "Driver", Value: func(t api.Trip) string { return api.PartyName(t.Driver) }, MaxWidth: 22},
			{Title: "Truck", Value: func(t api.Trip) string { return t.TruckPlate }},
			{Title: "Trailer", Value: func(t api.Trip) string { return t.TrailerPlate }},
			{Title: "Status", Kind: ColStatus, Value: tripStatus},
			{Title: "Departure", Kind: ColDate, Value: func(t api.Trip) string { return t.DepartureTime }, SortKey: "departureTime"},
			{Title: "Arrival", Kind: ColDate, Value: func(t api.Trip) string { return t.ArrivalTime }, SortKey: "arrivalTime"},
		},
		ID:       func(t api.Trip) string { return t.ID },
		Describe: func(t api.Trip) string { return "trip " + t.TripCode },
	}
}
