package api

// PartyRef is the embedded reference the backend uses for customers and
// drivers attached to another entity. It is frequently null.
type PartyRef struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Phone string `json:"phone,omitempty"`
}

// Order is a transport order for one container.
type Order struct {
	ID              string    `json:"id"`
	TrackingCode    string    `json:"trackingCode"`
	Customer        *PartyRef `json:"customer"`
	Origin          string    `json:"origin"`
	Destination     string    `json:"destination"`
	ContainerNumber string    `json:"containerNumber"`
	Status          string    `json:"status"`
	CreatedAt       string    `json:"createdAt"`
	DeliveryDate    string    `json:"deliveryDate"`
}

// Trip is one truck run serving an order.
type Trip struct {
	ID                string    `json:"id"`
	TripCode          string    `json:"tripCode"`
	OrderTrackingCode string    `json:"orderTrackingCode"`
	Driver            *PartyRef `json:"driver"`
	TruckPlate        string    `json:"truckPlate"`
	TrailerPlate      string    `json:"trailerPlate"`
	Origin            string    `json:"origin"`
	Destination       string    `json:"destination"`
	Status            string    `json:"status"`
	DepartureTime     string    `json:"departureTime"`
	ArrivalTime       string    `json:"arrivalTime"`
}

// Incident is a problem reported during a trip.
type Incident struct {
	ID          string    `json:"id"`
	Code        string    `json:"code"`
	TripCode    string    `json:"tripCode"`
	Type        string    `json:"type"`
	Description string    `json:"description"`
	Severity    string    `json:"severity"`
	Status      string    `json:"status"`
	ReportedBy  *PartyRef `json:"reportedBy"`
	ReportedAt  string    `json:"reportedAt"`
	ResolvedAt  string    `json:"resolvedAt,omitempty"`
}

// Customer is a shipper account.
type Customer struct {
	ID        string `json:"id"`
	Code      string `json:"code"`
	Name      string `json:"name"`
	Phone     string `json:"phone"`
	Email     string `json:"email"`
	TaxCode   string `json:"taxCode"`
	Address   string `json:"address"`
	Status    string `json:"status"`
	CreatedAt string `json:"createdAt"`
}

// Trailer is a fleet trailer (romooc).
type Trailer struct {
	ID             string  `json:"id"`
	PlateNumber    string  `json:"plateNumber"`
	Type           string  `json:"type"`
	CapacityTons   float64 `json:"capacityTons"`
	Status         string  `json:"status"`
	LastInspection string  `json:"lastInspection"`
}

// Contract is a service agreement with a customer.
type Contract struct {
	ID             string    `json:"id"`
	ContractNumber string    `json:"contractNumber"`
	Customer       *PartyRef `json:"customer"`
	Status         string    `json:"status"`
	StartDate      string    `json:"startDate"`
	EndDate        string    `json:"endDate"`
	Value          float64   `json:"value"`
}

// PartyName returns the name of p, or "" when p is nil.
func PartyName(p *PartyRef) string {
	if p == nil {
		return ""
	}

	return p.Name
}

// PartyPhone returns the phone of p, or "" when p is nil.
func PartyPhone(p *PartyRef) string {
	if p == nil {
		return ""
	}

	return p.Phone
}
