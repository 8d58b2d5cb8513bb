package catalog

import (
	"context"
	"sort"
	"sync"
	"time"

	"wisatara.id/internal/ids"
)

// InMemory implements Service with in-process concurrency safety. The API
// wires the Postgres-backed store in production; this backs tests and the
// smoke console.
type InMemory struct {
	mu        sync.RWMutex
	armada    map[string]*Armada
	packages  map[string]*TourPackage
	orders    map[string]*Order
	types     []MetadataItem
	bodies    []MetadataItem
	engines   []MetadataItem
	provinces []Province
	cities    []City
	now       func() time.Time
}

// NewInMemory creates an empty catalog pre-loaded with the static metadata
// and geo lookups.
func NewInMemory() *InMemory {
	return &InMemory{
		armada:    make(map[string]*Armada),
		packages:  make(map[string]*TourPackage),
		orders:    make(map[string]*Order),
		types:     seedArmadaTypes(),
		bodies:    seedArmadaBodies(),
		engines:   seedArmadaEngines(),
		provinces: seedProvinces(),
		cities:    seedCities(),
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// WithClock overrides the timestamp source. Test helper.
func (s *InMemory) WithClock(now func() time.Time) *InMemory {
	s.now = now
	return s
}

func (s *InMemory) CreateArmada(ctx context.Context, a Armada) (Armada, error) {
	if err := ValidateArmada(a); err != nil {
		return Armada{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.armada {
		if existing.PlateNumber == a.PlateNumber {
			return Armada{}, ErrConflict
		}
	}
	a.ID = ids.New()
	if a.Status == "" {
		a.Status = "available"
	}
	a.CreatedAt = s.now()
	a.UpdatedAt = a.CreatedAt
	s.armada[a.ID] = &a
	return a, nil
}

func (s *InMemory) Armada(ctx context.Context, id string) (Armada, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	a, ok := s.armada[id]
	if !ok {
		return Armada{}, ErrNotFound
	}
	return *a, nil
}

func (s *InMemory) ListArmada(ctx context.Context, organizationID string) ([]Armada, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Armada, 0)
	for _, a := range s.armada {
		if organizationID == "" || a.OrganizationID == organizationID {
			out = append(out, *a)
		}
	}
	sortByCreated(out, func(a Armada) (time.Time, string) { return a.CreatedAt, a.ID })
	return out, nil
}

func (s *InMemory) UpdateArmada(ctx context.Context, a Armada) (Armada, error) {
	if err := ValidateArmada(a); err != nil {
		return Armada{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	existing, ok := s.armada[a.ID]
	if !ok || existing.OrganizationID != a.OrganizationID {
		return Armada{}, ErrNotFound
	}
	a.CreatedAt = existing.CreatedAt
	a.UpdatedAt = s.now()
	s.armada[a.ID] = &a
	return a, nil
}

func (s *InMemory) DeleteArmada(ctx context.Context, organizationID, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	existing, ok := s.armada[id]
	if !ok || existing.OrganizationID != organizationID {
		return ErrNotFound
	}
	delete(s.armada, id)
	return nil
}

func (s *InMemory) ArmadaTypes(ctx context.Context) ([]MetadataItem, error) {
	return append([]MetadataItem(nil), s.types...), nil
}

func (s *InMemory) ArmadaBodies(ctx context.Context) ([]MetadataItem, error) {
	return append([]MetadataItem(nil), s.bodies...), nil
}

func (s *InMemory) ArmadaEngines(ctx context.Context) ([]MetadataItem, error) {
	return append([]MetadataItem(nil), s.engines...), nil
}

func (s *InMemory) CreateTourPackage(ctx context.Context, p TourPackage) (TourPackage, error) {
	if err := ValidateTourPackage(p); err != nil {
		return TourPackage{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	p.ID = ids.New()
	if p.Status == "" {
		p.Status = "published"
	}
	p.CreatedAt = s.now()
	p.UpdatedAt = p.CreatedAt
	p.Facilities = append([]string(nil), p.Facilities...)
	s.packages[p.ID] = &p
	return copyTourPackage(&p), nil
}

func (s *InMemory) TourPackage(ctx context.Context, id string) (TourPackage, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.packages[id]
	if !ok {
		return TourPackage{}, ErrNotFound
	}
	return copyTourPackage(p), nil
}

func (s *InMemory) ListTourPackages(ctx context.Context, organizationID string) ([]TourPackage, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]TourPackage, 0)
	for _, p := range s.packages {
		if organizationID == "" || p.OrganizationID == organizationID {
			out = append(out, copyTourPackage(p))
		}
	}
	sortByCreated(out, func(p TourPackage) (time.Time, string) { return p.CreatedAt, p.ID })
	return out, nil
}

func (s *InMemory) UpdateTourPackage(ctx context.Context, p TourPackage) (TourPackage, error) {
	if err := ValidateTourPackage(p); err != nil {
		return TourPackage{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	existing, ok := s.packages[p.ID]
	if !ok || existing.OrganizationID != p.OrganizationID {
		return TourPackage{}, ErrNotFound
	}
	p.CreatedAt = existing.CreatedAt
	p.UpdatedAt = s.now()
	p.Facilities = append([]string(nil), p.Facilities...)
	s.packages[p.ID] = &p
	return copyTourPackage(&p), nil
}

func (s *InMemory) DeleteTourPackage(ctx context.Context, organizationID, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	existing, ok := s.packages[id]
	if !ok || existing.OrganizationID != organizationID {
		return ErrNotFound
	}
	delete(s.packages, id)
	return nil
}

func (s *InMemory) CreateOrder(ctx context.Context, in NewOrderInput) (Order, error) {
	if err := ValidateOrderInput(in); err != nil {
		return Order{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.now()
	o := Order{
		ID:             ids.New(),
		OrganizationID: in.OrganizationID,
		Kind:           in.Kind,
		CustomerName:   in.CustomerName,
		CustomerEmail:  in.CustomerEmail,
		CustomerPhone:  in.CustomerPhone,
		StartDate:      in.StartDate,
		EndDate:        in.EndDate,
		Participants:   in.Participants,
		Items:          append([]LineItem(nil), in.Items...),
		Status:         OrderStatusPending,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	o.Total = o.ComputeTotal()
	s.orders[o.ID] = &o
	return copyOrder(&o), nil
}

func (s *InMemory) Order(ctx context.Context, id string) (Order, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	o, ok := s.orders[id]
	if !ok {
		return Order{}, ErrNotFound
	}
	return copyOrder(o), nil
}

func (s *InMemory) ListOrders(ctx context.Context, f OrderFilter) ([]Order, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Order, 0)
	for _, o := range s.orders {
		if f.OrganizationID != "" && o.OrganizationID != f.OrganizationID {
			continue
		}
		if f.Kind != "" && o.Kind != f.Kind {
			continue
		}
		if f.Status != "" && o.Status != f.Status {
			continue
		}
		out = append(out, copyOrder(o))
	}
	sortByCreated(out, func(o Order) (time.Time, string) { return o.CreatedAt, o.ID })
	return out, nil
}

func (s *InMemory) UpdateOrderStatus(ctx context.Context, organizationID, id, status string) (Order, error) {
	if !ValidOrderStatus(status) {
		return Order{}, ErrInvalidInput
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	o, ok := s.orders[id]
	if !ok || o.OrganizationID != organizationID {
		return Order{}, ErrNotFound
	}
	if !CanTransition(o.Status, status) {
		return Order{}, ErrConflict
	}
	o.Status = status
	o.UpdatedAt = s.now()
	return copyOrder(o), nil
}

func (s *InMemory) Provinces(ctx context.Context) ([]Province, error) {
	return append([]Province(nil), s.provinces...), nil
}

func (s *InMemory) Cities(ctx context.Context, provinceID string) ([]City, error) {
	out := make([]City, 0)
	for _, c := range s.cities {
		if provinceID == "" || c.ProvinceID == provinceID {
			out = append(out, c)
		}
	}
	return out, nil
}

func copyOrder(o *Order) Order {
	out := *o
	out.Items = append([]LineItem(nil), o.Items...)
	return out
}

func copyTourPackage(p *TourPackage) TourPackage {
	out := *p
	out.Facilities = append([]string(nil), p.Facilities...)
	return out
}

func sortByCreated[T any](items []T, key func(T) (time.Time, string)) {
	sort.Slice(items, func(i, j int) bool {
		ti, idi := key(items[i])
		tj, idj := key(items[j])
		if !ti.Equal(tj) {
			return ti.Before(tj)
		}
		return idi < idj
	})
}
