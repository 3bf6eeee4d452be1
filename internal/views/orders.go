package views

import (
	"github.com/truckline/dispatchdesk/internal/listview"
	"github.com/truckline/dispatchdesk/pkg/api"
)

func orderStatus(o api.Order) string { return o.Status }

// Orders is the order list view.
func Orders() *Definition[api.Order] {
	return &Definition[api.Order]{
		Entity:  "orders",
		Heading: "Orders",
		Path:    api.EndpointOrders,
		Buckets: []listview.Bucket[api.Order]{
			listview.All[api.Order]("All"),
			listview.StatusBucket("pending", "Pending", orderStatus, api.OrderStatusPending),
			listview.StatusBucket("in_transit", "In transit", orderStatus, api.OrderStatusInTransit),
			listview.StatusBucket("completed", "Completed", orderStatus, api.OrderStatusCompleted),
			listview.StatusBucket("canceled", "Canceled", orderStatus, api.OrderStatusCanceled),
		},
		Extractors: []listview.Extractor[api.Order]{
			func(o api.Order) string { return o.TrackingCode },
			func(o api.Order) string { return api.PartyName(o.Customer) },
			func(o api.Order) string { return api.PartyPhone(o.Customer) },
			func(o api.Order) string { return o.ContainerNumber },
			func(o api.Order) string { return o.Origin },
			func(o api.Order) string { return o.Destination },
		},
		SortKeys: []listview.SortKey[api.Order]{
			{Key: "createdAt", Label: "Created", Kind: listview.SortDate, Value: func(o api.Order) string { return o.CreatedAt }},
			{Key: "deliveryDate", Label: "Delivery", Kind: listview.SortDate, Value: func(o api.Order) string { return o.DeliveryDate }},
			{Key: "trackingCode", Label: "Tracking", Kind: listview.SortText, Value: func(o api.Order) string { return o.TrackingCode }},
		},
		Columns: []Column[api.Order]{
			{Title: "Tracking", Value: func(o api.Order) string { return o.TrackingCode }, SortKey: "trackingCode"},
			{Title: "Customer", Value: func(o api.Order) string { return api.PartyName(o.Customer) }, MaxWidth: 24},
			{Title: "Route", Value: func(o api.Order) string { return route(o.Origin, o.Destination) }, MaxWidth: 32},
			{Title: "Container", Value: func(o api.Order) string { return o.ContainerNumber }},
			{Title: "Status", Kind: ColStatus, Value: orderStatus},
			{Title: "Created", Kind: ColDate, Value: func(o api.Order) string { return o.CreatedAt }, SortKey: "createdAt"},
			{Title: "Delivery", Kind: ColDate, Value: func(o api.Order) string { return o.DeliveryDate }, SortKey: "deliveryDate"},
		},
		ID:       func(o api.Order) string { return o.ID },
		Describe: func(o api.Order) string { return "order " + o.TrackingCode },
	}
}

func route(origin, destination string) string {
	switch {
	case origin == "" && destination == "":
		return ""
	case origin == "":
		return "-> " + destination
	case destination == "":
		return origin + " ->"
	default:
		return origin + " -> " + destination
	}
}
