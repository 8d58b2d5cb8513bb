// Package catalog holds the storefront inventory: fleet vehicles (armada),
// tour packages, the orders placed against them and the geo lookups backing
// address forms.
package catalog

import (
	"errors"
	"time"
)

var (
	ErrNotFound     = errors.New("catalog: not found")
	ErrInvalidInput = errors.New("catalog: invalid input")
	ErrConflict     = errors.New("catalog: conflict")
)

// Order kinds. Fleet orders rent a vehicle; package orders book a tour.
const (
	OrderKindFleet   = "fleet"
	OrderKindPackage = "package"
)

// Order statuses.
const (
	OrderStatusPending   = "pending"
	OrderStatusPaid      = "paid"
	OrderStatusCompleted = "completed"
	OrderStatusCancelled = "cancelled"
)

// Armada is one fleet vehicle owned by an organization.
type Armada struct {
	ID             string    `json:"id"`
	OrganizationID string    `json:"organization_id"`
	Name           string    `json:"name"`
	PlateNumber    string    `json:"plate_number"`
	TypeID         string    `json:"type_id"`
	BodyID         string    `json:"body_id"`
	EngineID       string    `json:"engine_id"`
	Capacity       int       `json:"capacity"`
	PricePerDay    int64     `json:"price_per_day"` // minor units (rupiah)
	Status         string    `json:"status"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// MetadataItem is one entry of the armada type/body/engine lookups.
type MetadataItem struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// TourPackage is a sellable tour owned by an organization.
type TourPackage struct {
	ID             string    `json:"id"`
	OrganizationID string    `json:"organization_id"`
	Name           string    `json:"name"`
	Destination    string    `json:"destination"`
	DurationDays   int       `json:"duration_days"`
	Price          int64     `json:"price"` // minor units per participant
	Facilities     []string  `json:"facilities,omitempty"`
	Status         string    `json:"status"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// LineItem is one priced row of an order.
type LineItem struct {
	Description string `json:"description"`
	Quantity    int    `json:"quantity"`
	UnitPrice   int64  `json:"unit_price"` // minor units
}

// Amount returns the line total.
func (li LineItem) Amount() int64 {
	return int64(li.Quantity) * li.UnitPrice
}

// Order is a checkout result for either kind. Total is always recomputed from
// the line items server-side; the storefront shows a client-side figure for
// display only and it is never trusted.
type Order struct {
	ID             string     `json:"id"`
	OrganizationID string     `json:"organization_id"`
	Kind           string     `json:"kind"`
	CustomerName   string     `json:"customer_name"`
	CustomerEmail  string     `json:"customer_email"`
	CustomerPhone  string     `json:"customer_phone,omitempty"`
	StartDate      string     `json:"start_date"` // YYYY-MM-DD
	EndDate        string     `json:"end_date,omitempty"`
	Participants   int        `json:"participants"`
	Items          []LineItem `json:"items"`
	Total          int64      `json:"total"`
	Status         string     `json:"status"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

// ComputeTotal sums the line items.
func (o *Order) ComputeTotal() int64 {
	var total int64
	for _, item := range o.Items {
		total += item.Amount()
	}
	return total
}

// Province and City back the address dropdowns.
type Province struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type City struct {
	ID         string `json:"id"`
	ProvinceID string `json:"province_id"`
	Name       string `json:"name"`
}

// OrderFilter narrows order listings.
type OrderFilter struct {
	OrganizationID string
	Kind           string // "" means both kinds
	Status         string // "" means any status
}

// NewOrderInput is the checkout submission.
type NewOrderInput struct {
	OrganizationID string     `json:"organization_id"`
	Kind           string     `json:"kind"`
	CustomerName   string     `json:"customer_name"`
	CustomerEmail  string     `json:"customer_email"`
	CustomerPhone  string     `json:"customer_phone"`
	StartDate      string     `json:"start_date"`
	EndDate        string     `json:"end_date"`
	Participants   int        `json:"participants"`
	Items          []LineItem `json:"items"`
}
