package views

import (
	"github.com/dustin/go-humanize"

	"github.com/truckline/dispatchdesk/internal/listview"
	"github.com/truckline/dispatchdesk/pkg/api"
)

func contractStatus(c api.Contract) string { return c.Status }

// Contracts is the contract list view.
func Contracts() *Definition[api.Contract] {
	return &Definition[api.Contract]{
		Entity:  "contracts",
		Heading: "Contracts",
		Path:    api.EndpointContracts,
		Buckets: []listview.Bucket[api.Contract]{
			listview.All[api.Contract]("All"),
			listview.StatusBucket("draft", "Draft", contractStatus, api.ContractStatusDraft),
			listview.StatusBucket("active", "Active", contractStatus, api.ContractStatusActive),
			listview.StatusBucket("expired", "Expired", contractStatus, api.ContractStatusExpired),
			listview.StatusBucket("terminated", "Terminated", contractStatus, api.ContractStatusTerminated),
		},
		Extractors: []listview.Extractor[api.Contract]{
			func(c api.Contract) string { return c.ContractNumber },
			func(c api.Contract) string { return api.PartyName(c.Customer) },
		},
		SortKeys: []listview.SortKey[api.Contract]{
			{Key: "startDate", Label: "Start", Kind: listview.SortDate, Value: func(c api.Contract) string { return c.StartDate }},
			{Key: "endDate", Label: "End", Kind: listview.SortDate, Value: func(c api.Contract) string { return c.EndDate }},
		},
		Columns: []Column[api.Contract]{
			{Title: "Number", Value: func(c api.Contract) string { return c.ContractNumber }},
			{Title: "Customer", Value: func(c api.Contract) string { return api.PartyName(c.Customer) }, MaxWidth: 28},
			{Title: "Value (VND)", Value: func(c api.Contract) string { return humanize.Commaf(c.Value) }},
			{Title: "Status", Kind: ColStatus, Value: contractStatus},
			{Title: "Start", Kind: ColDate, Value: func(c api.Contract) string { return c.StartDate }, SortKey: "startDate"},
			{Title: "End", Kind: ColDate, Value: func(c api.Contract) string { return c.EndDate }, SortKey: "endDate"},
		},
		ID:       func(c api.Contract) string { return c.ID },
		Describe: func(c api.Contract) string { return "contract " + c.ContractNumber },
	}
}
