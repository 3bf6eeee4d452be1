package views

import (
	"github.com/truckline/dispatchdesk/internal/listview"
	"github.com/truckline/dispatchdesk/pkg/api"
)

func incidentStatus(i api.Incident) string { return i.Status }

// Incidents is the incident list view.
func Incidents() *Definition[api.Incident] {
	return &Definition[api.Incident]{
		Entity:  "incidents",
		Heading: "Incidents",
		Path:    api.EndpointIncidents,
		Buckets: []listview.Bucket[api.Incident]{
			listview.All[api.Incident]("All"),
			listview.StatusBucket("pending", "Pending", incidentStatus, api.IncidentStatusPending),
			listview.StatusBucket("processing", "Processing", incidentStatus, api.IncidentStatusProcessing),
			listview.StatusBucket("resolved", "Resolved", incidentStatus, api.IncidentStatusResolved),
		},
		Extractors: []listview.Extractor[api.Incident]{
			func(i api.Incident) string { return i.Code },
			func(i api.Incident) string { return i.TripCode },
			func(i api.Incident) string { return i.Type },
			func(i api.Incident) string { return i.Description },
			func(i api.Incident) string { return api.PartyName(i.ReportedBy) },
		},
		SortKeys: []listview.SortKey[api.Incident]{
			{Key: "reportedAt", Label: "Reported", Kind: listview.SortDate, Value: func(i api.Incident) string { return i.ReportedAt }},
			{Key: "resolvedAt", Label: "Resolved", Kind: listview.SortDate, Value: func(i api.Incident) string { return i.ResolvedAt }},
		},
		Columns: []Column[api.Incident]{
			{Title: "Code", Value: func(i api.Incident) string { return i.Code }},
			{Title: "Trip", Value: func(i api.Incident) string { return i.TripCode }},
			{Title: "Type", Value: func(i api.Incident) string { return i.Type }},
			{Title: "Severity", Value: func(i api.Incident) string { return i.Severity }},
			{Title: "Description", Value: func(i api.Incident) string { return i.Description }, MaxWidth: 36},
			{Title: "Status", Kind: ColStatus, Value: incidentStatus},
			{Title: "Reported", Kind: ColDate, Value: func(i api.Incident) string { return i.ReportedAt }, SortKey: "reportedAt"},
		},
		ID:       func(i api.Incident) string { return i.ID },
		Describe: func(i api.Incident) string { return "incident " + i.Code },
	}
}
