package catalog

import (
	"context"
	"fmt"
	"strings"
	"time"
)

// Service defines catalog operations.
type Service interface {
	// Fleet.
	CreateArmada(ctx context.Context, a Armada) (Armada, error)
	Armada(ctx context.Context, id string) (Armada, error)
	ListArmada(ctx context.Context, organizationID string) ([]Armada, error)
	UpdateArmada(ctx context.Context, a Armada) (Armada, error)
	DeleteArmada(ctx context.Context, organizationID, id string) error

	// Fleet metadata lookups.
	ArmadaTypes(ctx context.Context) ([]MetadataItem, error)
	ArmadaBodies(ctx context.Context) ([]MetadataItem, error)
	ArmadaEngines(ctx context.Context) ([]MetadataItem, error)

	// Tour packages.
	CreateTourPackage(ctx context.Context, p TourPackage) (TourPackage, error)
	TourPackage(ctx context.Context, id string) (TourPackage, error)
	ListTourPackages(ctx context.Context, organizationID string) ([]TourPackage, error)
	UpdateTourPackage(ctx context.Context, p TourPackage) (TourPackage, error)
	DeleteTourPackage(ctx context.Context, organizationID, id string) error

	// Orders.
	CreateOrder(ctx context.Context, in NewOrderInput) (Order, error)
	Order(ctx context.Context, id string) (Order, error)
	ListOrders(ctx context.Context, f OrderFilter) ([]Order, error)
	UpdateOrderStatus(ctx context.Context, organizationID, id, status string) (Order, error)

	// Geo lookups.
	Provinces(ctx context.Context) ([]Province, error)
	Cities(ctx context.Context, provinceID string) ([]City, error)
}

func validOrderKind(kind string) bool {
	return kind == OrderKindFleet || kind == OrderKindPackage
}

// ValidOrderStatus reports whether status is one of the known order states.
func ValidOrderStatus(status string) bool {
	switch status {
	case OrderStatusPending, OrderStatusPaid, OrderStatusCompleted, OrderStatusCancelled:
		return true
	}
	return false
}

// orderTransitions lists the allowed status moves. Terminal states have no
// outgoing edges.
var orderTransitions = map[string][]string{
	OrderStatusPending: {OrderStatusPaid, OrderStatusCancelled},
	OrderStatusPaid:    {OrderStatusCompleted, OrderStatusCancelled},
}

// CanTransition reports whether an order may move from one status to another.
func CanTransition(from, to string) bool {
	for _, next := range orderTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// ValidateOrderInput checks a checkout submission before any store touches it.
func ValidateOrderInput(in NewOrderInput) error {
	if strings.TrimSpace(in.OrganizationID) == "" {
		return fmt.Errorf("%w: organization_id required", ErrInvalidInput)
	}
	if !validOrderKind(in.Kind) {
		return fmt.Errorf("%w: kind must be %q or %q", ErrInvalidInput, OrderKindFleet, OrderKindPackage)
	}
	if strings.TrimSpace(in.CustomerName) == "" {
		return fmt.Errorf("%w: customer_name required", ErrInvalidInput)
	}
	if strings.TrimSpace(in.CustomerEmail) == "" {
		return fmt.Errorf("%w: customer_email required", ErrInvalidInput)
	}
	if _, err := time.Parse("2006-01-02", in.StartDate); err != nil {
		return fmt.Errorf("%w: start_date must be YYYY-MM-DD", ErrInvalidInput)
	}
	if in.EndDate != "" {
		end, err := time.Parse("2006-01-02", in.EndDate)
		if err != nil {
			return fmt.Errorf("%w: end_date must be YYYY-MM-DD", ErrInvalidInput)
		}
		start, _ := time.Parse("2006-01-02", in.StartDate)
		if end.Before(start) {
			return fmt.Errorf("%w: end_date before start_date", ErrInvalidInput)
		}
	}
	if in.Participants <= 0 {
		return fmt.Errorf("%w: participants must be positive", ErrInvalidInput)
	}
	if len(in.Items) == 0 {
		return fmt.Errorf("%w: at least one line item required", ErrInvalidInput)
	}
	for i, item := range in.Items {
		if item.Quantity <= 0 || item.UnitPrice < 0 {
			return fmt.Errorf("%w: line item %d has invalid quantity or price", ErrInvalidInput, i)
		}
	}
	return nil
}

// ValidateArmada checks required fleet fields.
func ValidateArmada(a Armada) error {
	if strings.TrimSpace(a.OrganizationID) == "" {
		return fmt.Errorf("%w: organization_id required", ErrInvalidInput)
	}
	if strings.TrimSpace(a.Name) == "" {
		return fmt.Errorf("%w: name required", ErrInvalidInput)
	}
	if strings.TrimSpace(a.PlateNumber) == "" {
		return fmt.Errorf("%w: plate_number required", ErrInvalidInput)
	}
	if a.Capacity <= 0 {
		return fmt.Errorf("%w: capacity must be positive", ErrInvalidInput)
	}
	if a.PricePerDay < 0 {
		return fmt.Errorf("%w: price_per_day must not be negative", ErrInvalidInput)
	}
	return nil
}

// ValidateTourPackage checks required package fields.
func ValidateTourPackage(p TourPackage) error {
	if strings.TrimSpace(p.OrganizationID) == "" {
		return fmt.Errorf("%w: organization_id required", ErrInvalidInput)
	}
	if strings.TrimSpace(p.Name) == "" {
		return fmt.Errorf("%w: name required", ErrInvalidInput)
	}
	if strings.TrimSpace(p.Destination) == "" {
		return fmt.Errorf("%w: destination required", ErrInvalidInput)
	}
	if p.DurationDays <= 0 {
		return fmt.Errorf("%w: duration_days must be positive", ErrInvalidInput)
	}
	if p.Price < 0 {
		return fmt.Errorf("%w: price must not be negative", ErrInvalidInput)
	}
	return nil
}
