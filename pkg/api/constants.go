package api

import "time"

// Order statuses.
const (
	OrderStatusPending   = "pending"
	OrderStatusInTransit = "in_transit"
	OrderStatusCompleted = "completed"
	OrderStatusCanceled  = "canceled"
)

// Trip statuses.
const (
	TripStatusNotStarted = "not_started"
	TripStatusInProgress = "in_progress"
	TripStatusLoading    = "loading"
	TripStatusUnloading  = "unloading"
	TripStatusDelivering = "delivering"
	TripStatusCompleted  = "completed"
	TripStatusCanceled   = "canceled"
	TripStatusDelaying   = "delaying"
)

// Incident statuses.
const (
	IncidentStatusPending    = "pending"
	IncidentStatusProcessing = "processing"
	IncidentStatusResolved   = "resolved"
)

// Customer statuses.
const (
	CustomerStatusActive   = "active"
	CustomerStatusInactive = "inactive"
)

// Trailer statuses.
const (
	TrailerStatusAvailable   = "available"
	TrailerStatusInUse       = "in_use"
	TrailerStatusMaintenance = "maintenance"
)

// Contract statuses.
const (
	ContractStatusDraft      = "draft"
	ContractStatusActive     = "active"
	ContractStatusExpired    = "expired"
	ContractStatusTerminated = "terminated"
)

// Collection endpoints, relative to the API path.
const (
	EndpointOrders    = "/orders"
	EndpointTrips     = "/trips"
	EndpointIncidents = "/incidents"
	EndpointCustomers = "/customers"
	EndpointTrailers  = "/trailers"
	EndpointContracts = "/contracts"
	EndpointStatuses  = "/statuses"
	EndpointChanges   = "/ws/changes"
)

// Query parameters understood by collection endpoints.
const (
	ParamPageNumber    = "pageNumber"
	ParamPageSize      = "pageSize"
	ParamSearchKeyword = "searchKeyword"
	ParamStatus        = "status"
)

// HTTP Methods.
const (
	HTTPMethodGET    = "GET"
	HTTPMethodPOST   = "POST"
	HTTPMethodDELETE = "DELETE"
)

// Client defaults.
const (
	DefaultTimeout      = 30 * time.Second
	DefaultMaxRetries   = 3
	DefaultRetryDelay   = 500 * time.Millisecond
	DefaultFetchCap     = 1000
	StatusCacheTTL      = 10 * time.Minute
	UserAgent           = "dispatchdesk"
	HeaderRequestID     = "X-Request-ID"
	HeaderAuthorization = "Authorization"
)
