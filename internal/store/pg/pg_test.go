package pg

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"

	"wisatara.id/internal/auth"
	"wisatara.id/internal/catalog"
)

func newMockStore(t *testing.T) (*Store, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return NewWithDB(db), mock
}

func TestUsersFindNotFound(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectQuery(`select .* from users where id = \$1`).
		WithArgs("missing").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err := s.Users().Find(context.Background(), "missing")
	if !errors.Is(err, auth.ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatal(err)
	}
}

func TestUsersCreateMapsUniqueViolation(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectExec(`insert into users`).
		WillReturnError(&pgconn.PgError{Code: pgErrUniqueViolation})

	now := time.Now().UTC()
	err := s.Users().Create(context.Background(), &auth.User{
		ID: "u1", Name: "Budi", Email: "budi@example.com",
		PasswordHash: "x", Status: auth.UserStatusPending,
		CreatedAt: now, UpdatedAt: now,
	})
	if !errors.Is(err, auth.ErrAlreadyExists) {
		t.Fatalf("err = %v, want ErrAlreadyExists", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatal(err)
	}
}

func TestOrganizationsFindByCode(t *testing.T) {
	s, mock := newMockStore(t)

	now := time.Now().UTC()
	rows := sqlmock.NewRows([]string{
		"id", "code", "name", "type", "address", "province_id", "city_id", "phone", "email", "created_at", "updated_at",
	}).AddRow("org-1", "ABC234", "Wisata Bahagia", "travel-agency", "", "", "", "", "", now, now)

	mock.ExpectQuery(`select .* from organizations where code = \$1`).
		WithArgs("ABC234").
		WillReturnRows(rows)

	org, err := s.Organizations().FindByCode(context.Background(), "ABC234")
	if err != nil {
		t.Fatalf("FindByCode: %v", err)
	}
	if org.ID != "org-1" || org.Name != "Wisata Bahagia" {
		t.Fatalf("org = %+v", org)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatal(err)
	}
}

func TestBankAccountDeleteMissingRow(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectExec(`delete from bank_accounts where id = \$1`).
		WithArgs("missing").
		WillReturnResult(sqlmock.NewResult(0, 0))

	if err := s.BankAccounts().Delete(context.Background(), "missing"); !errors.Is(err, auth.ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatal(err)
	}
}

func TestCreateOrderPersistsComputedTotal(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectExec(`insert into orders`).
		WillReturnResult(sqlmock.NewResult(0, 1))

	order, err := s.CreateOrder(context.Background(), catalog.NewOrderInput{
		OrganizationID: "org-1",
		Kind:           catalog.OrderKindFleet,
		CustomerName:   "Budi",
		CustomerEmail:  "budi@example.com",
		StartDate:      "2025-10-14",
		Participants:   40,
		Items: []catalog.LineItem{
			{Description: "Bus Besar", Quantity: 3, UnitPrice: 2_500_000},
		},
	})
	if err != nil {
		t.Fatalf("CreateOrder: %v", err)
	}
	if order.Total != 7_500_000 {
		t.Fatalf("total = %d", order.Total)
	}
	if order.Status != catalog.OrderStatusPending {
		t.Fatalf("status = %q", order.Status)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatal(err)
	}
}

func TestCreateOrderRejectsInvalidInputBeforeSQL(t *testing.T) {
	s, mock := newMockStore(t)

	_, err := s.CreateOrder(context.Background(), catalog.NewOrderInput{Kind: "rental"})
	if !errors.Is(err, catalog.ErrInvalidInput) {
		t.Fatalf("err = %v, want ErrInvalidInput", err)
	}
	// No SQL statement may have been issued.
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatal(err)
	}
}

func TestUpdateOrderStatusRejectsBadTransition(t *testing.T) {
	s, mock := newMockStore(t)

	now := time.Now().UTC()
	rows := sqlmock.NewRows([]string{
		"id", "organization_id", "kind", "customer_name", "customer_email", "customer_phone",
		"start_date", "end_date", "participants", "items", "total", "status", "created_at", "updated_at",
	}).AddRow("ord-1", "org-1", "fleet", "Budi", "budi@example.com", "",
		"2025-10-14", "", 40, []byte(`[]`), 0, catalog.OrderStatusCompleted, now, now)

	mock.ExpectBegin()
	mock.ExpectQuery(`select .* from orders`).
		WithArgs("ord-1", "org-1").
		WillReturnRows(rows)
	mock.ExpectRollback()

	_, err := s.UpdateOrderStatus(context.Background(), "org-1", "ord-1", catalog.OrderStatusPaid)
	if !errors.Is(err, catalog.ErrConflict) {
		t.Fatalf("err = %v, want ErrConflict", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatal(err)
	}
}

func TestArmadaCreateMapsPlateConflict(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectExec(`insert into armada`).
		WillReturnError(&pgconn.PgError{Code: pgErrUniqueViolation})

	_, err := s.CreateArmada(context.Background(), catalog.Armada{
		OrganizationID: "org-1",
		Name:           "Jetbus 3+",
		PlateNumber:    "AB 7214 CD",
		Capacity:       50,
	})
	if !errors.Is(err, catalog.ErrConflict) {
		t.Fatalf("err = %v, want ErrConflict", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatal(err)
	}
}
