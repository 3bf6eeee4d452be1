package views

import (
	"github.com/truckline/dispatchdesk/internal/listview"
	"github.com/truckline/dispatchdesk/pkg/api"
)

func customerStatus(c api.Customer) string { return c.Status }

// Customers is the customer list view.
func Customers() *Definition[api.Customer] {
	return &Definition[api.Customer]{
		Entity:  "customers",
		Heading: "Customers",
		Path:    api.EndpointCustomers,
		Buckets: []listview.Bucket[api.Customer]{
			listview.All[api.Customer]("All"),
			listview.StatusBucket("active", "Active", customerStatus, api.CustomerStatusActive),
			listview.StatusBucket("inactive", "Inactive", customerStatus, api.CustomerStatusInactive),
		},
		Extractors: []listview.Extractor[api.Customer]{
			func(c api.Customer) string { return c.Code },
			func(c api.Customer) string { return c.Name },
			func(c api.Customer) string { return c.Phone },
			func(c api.Customer) string { return c.Email },
			func(c api.Customer) string { return c.TaxCode },
		},
		SortKeys: []listview.SortKey[api.Customer]{
			{Key: "createdAt", Label: "Created", Kind: listview.SortDate, Value: func(c api.Customer) string { return c.CreatedAt }},
			{Key: "name", Label: "Name", Kind: listview.SortText, Value: func(c api.Customer) string { return c.Name }},
		},
		Columns: []Column[api.Customer]{
			{Title: "Code", Value: func(c api.Customer) string { return c.Code }},
			{Title: "Name", Value: func(c api.Customer) string { return c.Name }, SortKey: "name", MaxWidth: 28},
			{Title: "Phone", Value: func(c api.Customer) string { return c.Phone }},
			{Title: "Email", Value: func(c api.Customer) string { return c.Email }, MaxWidth: 28},
			{Title: "Tax code", Value: func(c api.Customer) string { return c.TaxCode }},
			{Title: "Status", Kind: ColStatus, Value: customerStatus},
			{Title: "Created", Kind: ColDate, Value: func(c api.Customer) string { return c.CreatedAt }, SortKey: "createdAt"},
		},
		ID:       func(c api.Customer) string { return c.ID },
		Describe: func(c api.Customer) string { return "customer " + c.Name },
	}
}
