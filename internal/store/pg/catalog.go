package pg

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"wisatara.id/internal/catalog"
	"wisatara.id/internal/ids"
)

const armadaColumns = `id, organization_id, name, plate_number, type_id, body_id, engine_id, capacity, price_per_day, status, created_at, updated_at`

func scanArmada(row interface{ Scan(...any) error }) (catalog.Armada, error) {
	var a catalog.Armada
	err := row.Scan(&a.ID, &a.OrganizationID, &a.Name, &a.PlateNumber, &a.TypeID, &a.BodyID, &a.EngineID, &a.Capacity, &a.PricePerDay, &a.Status, &a.CreatedAt, &a.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return catalog.Armada{}, catalog.ErrNotFound
	}
	if err != nil {
		return catalog.Armada{}, err
	}
	return a, nil
}

func (s *Store) CreateArmada(ctx context.Context, a catalog.Armada) (catalog.Armada, error) {
	if err := catalog.ValidateArmada(a); err != nil {
		return catalog.Armada{}, err
	}
	a.ID = ids.New()
	if a.Status == "" {
		a.Status = "available"
	}
	now := time.Now().UTC()
	a.CreatedAt, a.UpdatedAt = now, now

	_, err := s.db.ExecContext(ctx, `
		insert into armada (id, organization_id, name, plate_number, type_id, body_id, engine_id, capacity, price_per_day, status, created_at, updated_at)
		values ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`, a.ID, a.OrganizationID, a.Name, a.PlateNumber, a.TypeID, a.BodyID, a.EngineID, a.Capacity, a.PricePerDay, a.Status, a.CreatedAt, a.UpdatedAt)
	if isUniqueViolation(err) {
		return catalog.Armada{}, catalog.ErrConflict
	}
	if err != nil {
		return catalog.Armada{}, err
	}
	return a, nil
}

func (s *Store) Armada(ctx context.Context, id string) (catalog.Armada, error) {
	return scanArmada(s.db.QueryRowContext(ctx, `select `+armadaColumns+` from armada where id = $1`, id))
}

func (s *Store) ListArmada(ctx context.Context, organizationID string) ([]catalog.Armada, error) {
	rows, err := s.db.QueryContext(ctx, `
		select `+armadaColumns+` from armada
		where ($1 = '' or organization_id = $1)
		order by created_at, id
	`, organizationID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]catalog.Armada, 0)
	for rows.Next() {
		a, err := scanArmada(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

func (s *Store) UpdateArmada(ctx context.Context, a catalog.Armada) (catalog.Armada, error) {
	if err := catalog.ValidateArmada(a); err != nil {
		return catalog.Armada{}, err
	}
	a.UpdatedAt = time.Now().UTC()
	err := s.db.QueryRowContext(ctx, `
		update armada
		set name = $3, plate_number = $4, type_id = $5, body_id = $6, engine_id = $7,
		    capacity = $8, price_per_day = $9, status = $10, updated_at = $11
		where id = $1 and organization_id = $2
		returning created_at
	`, a.ID, a.OrganizationID, a.Name, a.PlateNumber, a.TypeID, a.BodyID, a.EngineID, a.Capacity, a.PricePerDay, a.Status, a.UpdatedAt).Scan(&a.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return catalog.Armada{}, catalog.ErrNotFound
	}
	if isUniqueViolation(err) {
		return catalog.Armada{}, catalog.ErrConflict
	}
	if err != nil {
		return catalog.Armada{}, err
	}
	return a, nil
}

func (s *Store) DeleteArmada(ctx context.Context, organizationID, id string) error {
	res, err := s.db.ExecContext(ctx, `delete from armada where id = $1 and organization_id = $2`, id, organizationID)
	if err != nil {
		return err
	}
	return requireCatalogRow(res)
}

func (s *Store) ArmadaTypes(ctx context.Context) ([]catalog.MetadataItem, error) {
	return s.metadata(ctx, "armada_types")
}

func (s *Store) ArmadaBodies(ctx context.Context) ([]catalog.MetadataItem, error) {
	return s.metadata(ctx, "armada_bodies")
}

func (s *Store) ArmadaEngines(ctx context.Context) ([]catalog.MetadataItem, error) {
	return s.metadata(ctx, "armada_engines")
}

// metadata reads one of the fixed lookup tables; the table name is always one
// of our own constants, never caller input.
func (s *Store) metadata(ctx context.Context, table string) ([]catalog.MetadataItem, error) {
	rows, err := s.db.QueryContext(ctx, `select id, name from `+table+` order by id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]catalog.MetadataItem, 0)
	for rows.Next() {
		var m catalog.MetadataItem
		if err := rows.Scan(&m.ID, &m.Name); err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

const tourPackageColumns = `id, organization_id, name, destination, duration_days, price, facilities, status, created_at, updated_at`

func scanTourPackage(row interface{ Scan(...any) error }) (catalog.TourPackage, error) {
	var (
		p   catalog.TourPackage
		fac []byte
	)
	err := row.Scan(&p.ID, &p.OrganizationID, &p.Name, &p.Destination, &p.DurationDays, &p.Price, &fac, &p.Status, &p.CreatedAt, &p.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return catalog.TourPackage{}, catalog.ErrNotFound
	}
	if err != nil {
		return catalog.TourPackage{}, err
	}
	if len(fac) > 0 {
		if err := json.Unmarshal(fac, &p.Facilities); err != nil {
			return catalog.TourPackage{}, fmt.Errorf("decode facilities: %w", err)
		}
	}
	return p, nil
}

func (s *Store) CreateTourPackage(ctx context.Context, p catalog.TourPackage) (catalog.TourPackage, error) {
	if err := catalog.ValidateTourPackage(p); err != nil {
		return catalog.TourPackage{}, err
	}
	p.ID = ids.New()
	if p.Status == "" {
		p.Status = "published"
	}
	now := time.Now().UTC()
	p.CreatedAt, p.UpdatedAt = now, now

	fac, err := json.Marshal(p.Facilities)
	if err != nil {
		return catalog.TourPackage{}, fmt.Errorf("encode facilities: %w", err)
	}
	_, err = s.db.ExecContext(ctx, `
		insert into tour_packages (id, organization_id, name, destination, duration_days, price, facilities, status, created_at, updated_at)
		values ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`, p.ID, p.OrganizationID, p.Name, p.Destination, p.DurationDays, p.Price, fac, p.Status, p.CreatedAt, p.UpdatedAt)
	if err != nil {
		return catalog.TourPackage{}, err
	}
	return p, nil
}

func (s *Store) TourPackage(ctx context.Context, id string) (catalog.TourPackage, error) {
	return scanTourPackage(s.db.QueryRowContext(ctx, `select `+tourPackageColumns+` from tour_packages where id = $1`, id))
}

func (s *Store) ListTourPackages(ctx context.Context, organizationID string) ([]catalog.TourPackage, error) {
	rows, err := s.db.QueryContext(ctx, `
		select `+tourPackageColumns+` from tour_packages
		where ($1 = '' or organization_id = $1)
		order by created_at, id
	`, organizationID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]catalog.TourPackage, 0)
	for rows.Next() {
		p, err := scanTourPackage(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (s *Store) UpdateTourPackage(ctx context.Context, p catalog.TourPackage) (catalog.TourPackage, error) {
	if err := catalog.ValidateTourPackage(p); err != nil {
		return catalog.TourPackage{}, err
	}
	p.UpdatedAt = time.Now().UTC()
	fac, err := json.Marshal(p.Facilities)
	if err != nil {
		return catalog.TourPackage{}, fmt.Errorf("encode facilities: %w", err)
	}
	err = s.db.QueryRowContext(ctx, `
		update tour_packages
		set name = $3, destination = $4, duration_days = $5, price = $6, facilities = $7, status = $8, updated_at = $9
		where id = $1 and organization_id = $2
		returning created_at
	`, p.ID, p.OrganizationID, p.Name, p.Destination, p.DurationDays, p.Price, fac, p.Status, p.UpdatedAt).Scan(&p.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return catalog.TourPackage{}, catalog.ErrNotFound
	}
	if err != nil {
		return catalog.TourPackage{}, err
	}
	return p, nil
}

func (s *Store) DeleteTourPackage(ctx context.Context, organizationID, id string) error {
	res, err := s.db.ExecContext(ctx, `delete from tour_packages where id = $1 and organization_id = $2`, id, organizationID)
	if err != nil {
		return err
	}
	return requireCatalogRow(res)
}

const orderColumns = `id, organization_id, kind, customer_name, customer_email, customer_phone, start_date, coalesce(end_date,''), participants, items, total, status, created_at, updated_at`

func scanOrder(row interface{ Scan(...any) error }) (catalog.Order, error) {
	var (
		o     catalog.Order
		items []byte
	)
	err := row.Scan(&o.ID, &o.OrganizationID, &o.Kind, &o.CustomerName, &o.CustomerEmail, &o.CustomerPhone, &o.StartDate, &o.EndDate, &o.Participants, &items, &o.Total, &o.Status, &o.CreatedAt, &o.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return catalog.Order{}, catalog.ErrNotFound
	}
	if err != nil {
		return catalog.Order{}, err
	}
	if len(items) > 0 {
		if err := json.Unmarshal(items, &o.Items); err != nil {
			return catalog.Order{}, fmt.Errorf("decode line items: %w", err)
		}
	}
	return o, nil
}

func (s *Store) CreateOrder(ctx context.Context, in catalog.NewOrderInput) (catalog.Order, error) {
	if err := catalog.ValidateOrderInput(in); err != nil {
		return catalog.Order{}, err
	}
	now := time.Now().UTC()
	o := catalog.Order{
		ID:             ids.New(),
		OrganizationID: in.OrganizationID,
		Kind:           in.Kind,
		CustomerName:   in.CustomerName,
		CustomerEmail:  in.CustomerEmail,
		CustomerPhone:  in.CustomerPhone,
		StartDate:      in.StartDate,
		EndDate:        in.EndDate,
		Participants:   in.Participants,
		Items:          append([]catalog.LineItem(nil), in.Items...),
		Status:         catalog.OrderStatusPending,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	o.Total = o.ComputeTotal()

	items, err := json.Marshal(o.Items)
	if err != nil {
		return catalog.Order{}, fmt.Errorf("encode line items: %w", err)
	}
	_, err = s.db.ExecContext(ctx, `
		insert into orders (id, organization_id, kind, customer_name, customer_email, customer_phone, start_date, end_date, participants, items, total, status, created_at, updated_at)
		values ($1, $2, $3, $4, $5, $6, $7, nullif($8,''), $9, $10, $11, $12, $13, $14)
	`, o.ID, o.OrganizationID, o.Kind, o.CustomerName, o.CustomerEmail, o.CustomerPhone, o.StartDate, o.EndDate, o.Participants, items, o.Total, o.Status, o.CreatedAt, o.UpdatedAt)
	if err != nil {
		return catalog.Order{}, err
	}
	return o, nil
}

func (s *Store) Order(ctx context.Context, id string) (catalog.Order, error) {
	return scanOrder(s.db.QueryRowContext(ctx, `select `+orderColumns+` from orders where id = $1`, id))
}

func (s *Store) ListOrders(ctx context.Context, f catalog.OrderFilter) ([]catalog.Order, error) {
	rows, err := s.db.QueryContext(ctx, `
		select `+orderColumns+` from orders
		where ($1 = '' or organization_id = $1)
		  and ($2 = '' or kind = $2)
		  and ($3 = '' or status = $3)
		order by created_at, id
	`, f.OrganizationID, f.Kind, f.Status)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]catalog.Order, 0)
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, o)
	}
	return out, rows.Err()
}

func (s *Store) UpdateOrderStatus(ctx context.Context, organizationID, id, status string) (catalog.Order, error) {
	if !catalog.ValidOrderStatus(status) {
		return catalog.Order{}, catalog.ErrInvalidInput
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return catalog.Order{}, err
	}
	defer func() { _ = tx.Rollback() }()

	order, err := scanOrder(tx.QueryRowContext(ctx, `
		select `+orderColumns+` from orders
		where id = $1 and organization_id = $2
		for update
	`, id, organizationID))
	if err != nil {
		return catalog.Order{}, err
	}
	if !catalog.CanTransition(order.Status, status) {
		return catalog.Order{}, catalog.ErrConflict
	}

	order.Status = status
	order.UpdatedAt = time.Now().UTC()
	if _, err := tx.ExecContext(ctx, `
		update orders set status = $2, updated_at = $3 where id = $1
	`, order.ID, order.Status, order.UpdatedAt); err != nil {
		return catalog.Order{}, err
	}
	if err := tx.Commit(); err != nil {
		return catalog.Order{}, err
	}
	return order, nil
}

func (s *Store) Provinces(ctx context.Context) ([]catalog.Province, error) {
	rows, err := s.db.QueryContext(ctx, `select id, name from provinces order by name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]catalog.Province, 0)
	for rows.Next() {
		var p catalog.Province
		if err := rows.Scan(&p.ID, &p.Name); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (s *Store) Cities(ctx context.Context, provinceID string) ([]catalog.City, error) {
	rows, err := s.db.QueryContext(ctx, `
		select id, province_id, name from cities
		where ($1 = '' or province_id = $1)
		order by name
	`, provinceID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]catalog.City, 0)
	for rows.Next() {
		var c catalog.City
		if err := rows.Scan(&c.ID, &c.ProvinceID, &c.Name); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func requireCatalogRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return catalog.ErrNotFound
	}
	return nil
}
