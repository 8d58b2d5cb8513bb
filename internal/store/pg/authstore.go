package pg

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"wisatara.id/internal/auth"
)

// Aggregate views share the Store's handle, mirroring the in-memory layout.
type (
	pgUsers          Store
	pgOrganizations  Store
	pgBankAccounts   Store
	pgRegisterTokens Store
)

func (s *Store) Users() auth.UserStore                   { return (*pgUsers)(s) }
func (s *Store) Organizations() auth.OrganizationStore   { return (*pgOrganizations)(s) }
func (s *Store) BankAccounts() auth.BankAccountStore     { return (*pgBankAccounts)(s) }
func (s *Store) RegisterTokens() auth.RegisterTokenStore { return (*pgRegisterTokens)(s) }

func (s *pgUsers) Create(ctx context.Context, u *auth.User) error {
	_, err := s.db.ExecContext(ctx, `
		insert into users (id, organization_id, name, email, password_hash, is_admin, status, created_at, updated_at)
		values ($1, nullif($2,''), $3, $4, $5, $6, $7, $8, $9)
	`, u.ID, u.OrganizationID, u.Name, u.Email, u.PasswordHash, u.IsAdmin, u.Status, u.CreatedAt, u.UpdatedAt)
	if isUniqueViolation(err) {
		return auth.ErrAlreadyExists
	}
	return err
}

const userColumns = `id, coalesce(organization_id,''), name, email, password_hash, is_admin, status, created_at, updated_at`

func scanUser(row interface{ Scan(...any) error }) (*auth.User, error) {
	var u auth.User
	err := row.Scan(&u.ID, &u.OrganizationID, &u.Name, &u.Email, &u.PasswordHash, &u.IsAdmin, &u.Status, &u.CreatedAt, &u.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, auth.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (s *pgUsers) Find(ctx context.Context, id string) (*auth.User, error) {
	return scanUser(s.db.QueryRowContext(ctx, `select `+userColumns+` from users where id = $1`, id))
}

func (s *pgUsers) FindByEmail(ctx context.Context, email string) (*auth.User, error) {
	return scanUser(s.db.QueryRowContext(ctx, `select `+userColumns+` from users where email = $1`, email))
}

func (s *pgUsers) Update(ctx context.Context, u *auth.User) error {
	res, err := s.db.ExecContext(ctx, `
		update users
		set organization_id = nullif($2,''), name = $3, email = $4, password_hash = $5,
		    is_admin = $6, status = $7, updated_at = $8
		where id = $1
	`, u.ID, u.OrganizationID, u.Name, u.Email, u.PasswordHash, u.IsAdmin, u.Status, u.UpdatedAt)
	if isUniqueViolation(err) {
		return auth.ErrAlreadyExists
	}
	if err != nil {
		return err
	}
	return requireRow(res)
}

func (s *pgOrganizations) Create(ctx context.Context, org *auth.Organization) error {
	_, err := s.db.ExecContext(ctx, `
		insert into organizations (id, code, name, type, address, province_id, city_id, phone, email, created_at, updated_at)
		values ($1, $2, $3, $4, $5, nullif($6,''), nullif($7,''), $8, $9, $10, $11)
	`, org.ID, org.Code, org.Name, org.Type, org.Address, org.ProvinceID, org.CityID, org.Phone, org.Email, org.CreatedAt, org.UpdatedAt)
	if isUniqueViolation(err) {
		return auth.ErrAlreadyExists
	}
	return err
}

const orgColumns = `id, code, name, type, address, coalesce(province_id,''), coalesce(city_id,''), phone, email, created_at, updated_at`

func scanOrganization(row interface{ Scan(...any) error }) (*auth.Organization, error) {
	var org auth.Organization
	err := row.Scan(&org.ID, &org.Code, &org.Name, &org.Type, &org.Address, &org.ProvinceID, &org.CityID, &org.Phone, &org.Email, &org.CreatedAt, &org.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, auth.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &org, nil
}

func (s *pgOrganizations) Find(ctx context.Context, id string) (*auth.Organization, error) {
	return scanOrganization(s.db.QueryRowContext(ctx, `select `+orgColumns+` from organizations where id = $1`, id))
}

func (s *pgOrganizations) FindByCode(ctx context.Context, code string) (*auth.Organization, error) {
	return scanOrganization(s.db.QueryRowContext(ctx, `select `+orgColumns+` from organizations where code = $1`, code))
}

func (s *pgOrganizations) Update(ctx context.Context, org *auth.Organization) error {
	res, err := s.db.ExecContext(ctx, `
		update organizations
		set name = $2, type = $3, address = $4, province_id = nullif($5,''), city_id = nullif($6,''),
		    phone = $7, email = $8, updated_at = $9
		where id = $1
	`, org.ID, org.Name, org.Type, org.Address, org.ProvinceID, org.CityID, org.Phone, org.Email, org.UpdatedAt)
	if err != nil {
		return err
	}
	return requireRow(res)
}

func (s *pgBankAccounts) Create(ctx context.Context, acc *auth.BankAccount) error {
	_, err := s.db.ExecContext(ctx, `
		insert into bank_accounts (id, organization_id, bank_name, account_name, account_number, created_at, updated_at)
		values ($1, $2, $3, $4, $5, $6, $7)
	`, acc.ID, acc.OrganizationID, acc.BankName, acc.AccountName, acc.AccountNumber, acc.CreatedAt, acc.UpdatedAt)
	if isUniqueViolation(err) {
		return auth.ErrAlreadyExists
	}
	return err
}

const bankColumns = `id, organization_id, bank_name, account_name, account_number, created_at, updated_at`

func scanBankAccount(row interface{ Scan(...any) error }) (*auth.BankAccount, error) {
	var acc auth.BankAccount
	err := row.Scan(&acc.ID, &acc.OrganizationID, &acc.BankName, &acc.AccountName, &acc.AccountNumber, &acc.CreatedAt, &acc.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, auth.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &acc, nil
}

func (s *pgBankAccounts) Find(ctx context.Context, id string) (*auth.BankAccount, error) {
	return scanBankAccount(s.db.QueryRowContext(ctx, `select `+bankColumns+` from bank_accounts where id = $1`, id))
}

func (s *pgBankAccounts) ListByOrg(ctx context.Context, orgID string) ([]*auth.BankAccount, error) {
	rows, err := s.db.QueryContext(ctx, `
		select `+bankColumns+` from bank_accounts
		where organization_id = $1
		order by created_at, id
	`, orgID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []*auth.BankAccount
	for rows.Next() {
		acc, err := scanBankAccount(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, acc)
	}
	return result, rows.Err()
}

func (s *pgBankAccounts) Update(ctx context.Context, acc *auth.BankAccount) error {
	res, err := s.db.ExecContext(ctx, `
		update bank_accounts
		set bank_name = $2, account_name = $3, account_number = $4, updated_at = $5
		where id = $1
	`, acc.ID, acc.BankName, acc.AccountName, acc.AccountNumber, acc.UpdatedAt)
	if err != nil {
		return err
	}
	return requireRow(res)
}

func (s *pgBankAccounts) Delete(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `delete from bank_accounts where id = $1`, id)
	if err != nil {
		return err
	}
	return requireRow(res)
}

func (s *pgRegisterTokens) Create(ctx context.Context, tok *auth.RegisterToken) error {
	_, err := s.db.ExecContext(ctx, `
		insert into register_tokens (token, user_id, email, expires_at)
		values ($1, $2, $3, $4)
	`, tok.Token, tok.UserID, tok.Email, tok.ExpiresAt)
	if isUniqueViolation(err) {
		return auth.ErrAlreadyExists
	}
	return err
}

func (s *pgRegisterTokens) Find(ctx context.Context, token string) (*auth.RegisterToken, error) {
	var (
		tok      auth.RegisterToken
		consumed sql.NullTime
	)
	err := s.db.QueryRowContext(ctx, `
		select token, user_id, email, expires_at, consumed_at
		from register_tokens where token = $1
	`, token).Scan(&tok.Token, &tok.UserID, &tok.Email, &tok.ExpiresAt, &consumed)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, auth.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	if consumed.Valid {
		t := consumed.Time
		tok.ConsumedAt = &t
	}
	return &tok, nil
}

func (s *pgRegisterTokens) MarkConsumed(ctx context.Context, token string) error {
	res, err := s.db.ExecContext(ctx, `
		update register_tokens set consumed_at = $2 where token = $1 and consumed_at is null
	`, token, time.Now().UTC())
	if err != nil {
		return err
	}
	return requireRow(res)
}

func requireRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return auth.ErrNotFound
	}
	return nil
}
