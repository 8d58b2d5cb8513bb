package auth

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
	"time"

	"wisatara.id/internal/ids"
)

const (
	defaultAccessTTL    = 12 * time.Hour
	defaultRegisterTTL  = 48 * time.Hour
	organizationCodeLen = 6
)

// Service implements accounts, organizations and token issuance.
type Service struct {
	store  Store
	secret []byte
	issuer string

	accessTTL   time.Duration
	registerTTL time.Duration
	now         func() time.Time
}

// Option configures Service behavior.
type Option func(*Service) error

// WithIssuer overrides the token issuer claim.
func WithIssuer(issuer string) Option {
	return func(s *Service) error {
		s.issuer = strings.TrimSpace(issuer)
		return nil
	}
}

// WithAccessTTL configures access token lifetime.
func WithAccessTTL(ttl time.Duration) Option {
	return func(s *Service) error {
		if ttl > 0 {
			s.accessTTL = ttl
		}
		return nil
	}
}

// WithRegisterTTL configures how long an activation token stays valid.
func WithRegisterTTL(ttl time.Duration) Option {
	return func(s *Service) error {
		if ttl > 0 {
			s.registerTTL = ttl
		}
		return nil
	}
}

// WithClock overrides the time source, useful in tests.
func WithClock(fn func() time.Time) Option {
	return func(s *Service) error {
		if fn != nil {
			s.now = fn
		}
		return nil
	}
}

// NewService constructs a Service. The secret signs HS256 access tokens.
func NewService(store Store, secret string, opts ...Option) (*Service, error) {
	if store == nil {
		return nil, errors.New("auth: store is required")
	}
	if strings.TrimSpace(secret) == "" {
		return nil, errors.New("auth: signing secret is required")
	}
	svc := &Service{
		store:       store,
		secret:      []byte(secret),
		accessTTL:   defaultAccessTTL,
		registerTTL: defaultRegisterTTL,
		now:         time.Now,
	}
	for _, opt := range opts {
		if err := opt(svc); err != nil {
			return nil, err
		}
	}
	return svc, nil
}

// Register creates a pending account and returns its activation token. The
// token would be emailed out of band; it is returned here so the verify step
// can consume it.
func (s *Service) Register(ctx context.Context, name, email, password string) (*User, *RegisterToken, error) {
	name = strings.TrimSpace(name)
	email = normalizeEmail(email)
	if name == "" || email == "" {
		return nil, nil, fmt.Errorf("%w: name and email are required", ErrInvalidInput)
	}
	if existing, err := s.store.Users().FindByEmail(ctx, email); err == nil && existing != nil {
		return nil, nil, ErrAlreadyExists
	}
	hash, err := HashPassword(password)
	if err != nil {
		return nil, nil, err
	}

	now := s.now().UTC()
	user := &User{
		ID:           ids.New(),
		Name:         name,
		Email:        email,
		PasswordHash: hash,
		Status:       UserStatusPending,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.store.Users().Create(ctx, user); err != nil {
		return nil, nil, err
	}

	tok := &RegisterToken{
		Token:     randomToken(),
		UserID:    user.ID,
		Email:     email,
		ExpiresAt: now.Add(s.registerTTL),
	}
	if err := s.store.RegisterTokens().Create(ctx, tok); err != nil {
		return nil, nil, err
	}
	return user, tok, nil
}

// Verify consumes an activation token and activates the account.
func (s *Service) Verify(ctx context.Context, token string) (*User, error) {
	rec, err := s.store.RegisterTokens().Find(ctx, strings.TrimSpace(token))
	if err != nil {
		return nil, ErrInvalidToken
	}
	if rec.ConsumedAt != nil || s.now().After(rec.ExpiresAt) {
		return nil, ErrInvalidToken
	}
	user, err := s.store.Users().Find(ctx, rec.UserID)
	if err != nil {
		return nil, ErrInvalidToken
	}
	if err := s.store.RegisterTokens().MarkConsumed(ctx, rec.Token); err != nil {
		return nil, err
	}
	user.Status = UserStatusActive
	user.UpdatedAt = s.now().UTC()
	if err := s.store.Users().Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// Login checks credentials and issues an access token.
func (s *Service) Login(ctx context.Context, email, password string) (string, time.Time, *User, error) {
	email = normalizeEmail(email)
	if email == "" || password == "" {
		return "", time.Time{}, nil, ErrUnauthorized
	}
	user, err := s.store.Users().FindByEmail(ctx, email)
	if err != nil {
		return "", time.Time{}, nil, ErrUnauthorized
	}
	if user.Status != UserStatusActive {
		return "", time.Time{}, nil, ErrUnauthorized
	}
	if err := VerifyPassword(user.PasswordHash, password); err != nil {
		return "", time.Time{}, nil, ErrUnauthorized
	}
	return s.issueToken(ctx, user)
}

// Refresh re-issues a token for a still-active user, picking up organization
// changes made since the previous issue.
func (s *Service) Refresh(ctx context.Context, token string) (string, time.Time, *User, error) {
	claims, err := parseToken(token, s.secret, s.issuer)
	if err != nil {
		return "", time.Time{}, nil, ErrInvalidToken
	}
	user, err := s.store.Users().Find(ctx, claims.Subject)
	if err != nil {
		return "", time.Time{}, nil, ErrInvalidToken
	}
	if user.Status != UserStatusActive {
		return "", time.Time{}, nil, ErrUnauthorized
	}
	return s.issueToken(ctx, user)
}

func (s *Service) issueToken(ctx context.Context, user *User) (string, time.Time, *User, error) {
	var orgName string
	if user.OrganizationID != "" {
		if org, err := s.store.Organizations().Find(ctx, user.OrganizationID); err == nil {
			orgName = org.Name
		}
	}
	token, expiresAt, err := signToken(user, orgName, s.secret, s.issuer, s.accessTTL, s.now().UTC())
	if err != nil {
		return "", time.Time{}, nil, err
	}
	return token, expiresAt, user, nil
}

// Authenticate verifies an access token and loads the account behind it.
func (s *Service) Authenticate(ctx context.Context, token string) (*User, error) {
	claims, err := parseToken(token, s.secret, s.issuer)
	if err != nil {
		return nil, ErrInvalidToken
	}
	user, err := s.store.Users().Find(ctx, claims.Subject)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, ErrInvalidToken
		}
		return nil, err
	}
	if user.Status != UserStatusActive {
		return nil, ErrInvalidToken
	}
	return user, nil
}

// Profile returns the account for the given id.
func (s *Service) Profile(ctx context.Context, userID string) (*User, error) {
	return s.store.Users().Find(ctx, userID)
}

// UpdateProfile applies the non-nil fields of upd.
func (s *Service) UpdateProfile(ctx context.Context, userID string, upd UserUpdate) (*User, error) {
	user, err := s.store.Users().Find(ctx, userID)
	if err != nil {
		return nil, err
	}
	if upd.Name != nil {
		name := strings.TrimSpace(*upd.Name)
		if name == "" {
			return nil, fmt.Errorf("%w: name cannot be empty", ErrInvalidInput)
		}
		user.Name = name
	}
	if upd.Email != nil {
		email := normalizeEmail(*upd.Email)
		if email == "" {
			return nil, fmt.Errorf("%w: email cannot be empty", ErrInvalidInput)
		}
		if other, err := s.store.Users().FindByEmail(ctx, email); err == nil && other.ID != user.ID {
			return nil, ErrAlreadyExists
		}
		user.Email = email
	}
	if upd.Password != nil {
		hash, err := HashPassword(*upd.Password)
		if err != nil {
			return nil, err
		}
		user.PasswordHash = hash
	}
	user.UpdatedAt = s.now().UTC()
	if err := s.store.Users().Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// CreateOrganization registers a tenant and attaches the creating user to it.
// The generated join code lets co-workers attach themselves during onboarding.
func (s *Service) CreateOrganization(ctx context.Context, userID, name, orgType string) (*Organization, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("%w: organization name is required", ErrInvalidInput)
	}
	if !validOrganizationType(orgType) {
		return nil, fmt.Errorf("%w: unknown organization type %q", ErrInvalidInput, orgType)
	}
	user, err := s.store.Users().Find(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user.OrganizationID != "" {
		return nil, fmt.Errorf("%w: user already belongs to an organization", ErrAlreadyExists)
	}

	now := s.now().UTC()
	org := &Organization{
		ID:        ids.New(),
		Code:      organizationCode(),
		Name:      name,
		Type:      orgType,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.store.Organizations().Create(ctx, org); err != nil {
		return nil, err
	}
	user.OrganizationID = org.ID
	user.UpdatedAt = now
	if err := s.store.Users().Update(ctx, user); err != nil {
		return nil, err
	}
	return org, nil
}

// JoinOrganization attaches a user to an existing tenant by join code.
func (s *Service) JoinOrganization(ctx context.Context, userID, code string) (*Organization, error) {
	org, err := s.store.Organizations().FindByCode(ctx, strings.ToUpper(strings.TrimSpace(code)))
	if err != nil {
		return nil, err
	}
	user, err := s.store.Users().Find(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user.OrganizationID != "" {
		return nil, fmt.Errorf("%w: user already belongs to an organization", ErrAlreadyExists)
	}
	user.OrganizationID = org.ID
	user.UpdatedAt = s.now().UTC()
	if err := s.store.Users().Update(ctx, user); err != nil {
		return nil, err
	}
	return org, nil
}

// Organization returns the tenant for the given id.
func (s *Service) Organization(ctx context.Context, id string) (*Organization, error) {
	return s.store.Organizations().Find(ctx, id)
}

// OrganizationByCode resolves a tenant by its public code. Storefront pages
// address a partner this way.
func (s *Service) OrganizationByCode(ctx context.Context, code string) (*Organization, error) {
	return s.store.Organizations().FindByCode(ctx, strings.ToUpper(strings.TrimSpace(code)))
}

// UpdateOrganization applies the non-nil fields of upd.
func (s *Service) UpdateOrganization(ctx context.Context, id string, upd OrganizationUpdate) (*Organization, error) {
	org, err := s.store.Organizations().Find(ctx, id)
	if err != nil {
		return nil, err
	}
	if upd.Name != nil {
		name := strings.TrimSpace(*upd.Name)
		if name == "" {
			return nil, fmt.Errorf("%w: organization name cannot be empty", ErrInvalidInput)
		}
		org.Name = name
	}
	if upd.Type != nil {
		if !validOrganizationType(*upd.Type) {
			return nil, fmt.Errorf("%w: unknown organization type %q", ErrInvalidInput, *upd.Type)
		}
		org.Type = *upd.Type
	}
	if upd.Address != nil {
		org.Address = strings.TrimSpace(*upd.Address)
	}
	if upd.ProvinceID != nil {
		org.ProvinceID = *upd.ProvinceID
	}
	if upd.CityID != nil {
		org.CityID = *upd.CityID
	}
	if upd.Phone != nil {
		org.Phone = strings.TrimSpace(*upd.Phone)
	}
	if upd.Email != nil {
		org.Email = normalizeEmail(*upd.Email)
	}
	org.UpdatedAt = s.now().UTC()
	if err := s.store.Organizations().Update(ctx, org); err != nil {
		return nil, err
	}
	return org, nil
}

// Bank account CRUD, scoped to the owning organization.

func (s *Service) CreateBankAccount(ctx context.Context, orgID, bankName, accountName, accountNumber string) (*BankAccount, error) {
	bankName = strings.TrimSpace(bankName)
	accountName = strings.TrimSpace(accountName)
	accountNumber = strings.TrimSpace(accountNumber)
	if bankName == "" || accountName == "" || accountNumber == "" {
		return nil, fmt.Errorf("%w: bank, account name and number are required", ErrInvalidInput)
	}
	if _, err := s.store.Organizations().Find(ctx, orgID); err != nil {
		return nil, err
	}
	now := s.now().UTC()
	acc := &BankAccount{
		ID:             ids.New(),
		OrganizationID: orgID,
		BankName:       bankName,
		AccountName:    accountName,
		AccountNumber:  accountNumber,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := s.store.BankAccounts().Create(ctx, acc); err != nil {
		return nil, err
	}
	return acc, nil
}

func (s *Service) ListBankAccounts(ctx context.Context, orgID string) ([]*BankAccount, error) {
	return s.store.BankAccounts().ListByOrg(ctx, orgID)
}

func (s *Service) DeleteBankAccount(ctx context.Context, orgID, id string) error {
	acc, err := s.store.BankAccounts().Find(ctx, id)
	if err != nil {
		return err
	}
	if acc.OrganizationID != orgID {
		return ErrUnauthorized
	}
	return s.store.BankAccounts().Delete(ctx, id)
}

// Helpers ------------------------------------------------------------------

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func validOrganizationType(t string) bool {
	for _, known := range OrganizationTypes {
		if t == known {
			return true
		}
	}
	return false
}

func randomToken() string {
	buf := make([]byte, 32)
	_, _ = rand.Read(buf)
	return base64.RawURLEncoding.EncodeToString(buf)
}

// organizationCode generates a short human-readable join code.
func organizationCode() string {
	const alphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"
	buf := make([]byte, organizationCodeLen)
	_, _ = rand.Read(buf)
	for i, b := range buf {
		buf[i] = alphabet[int(b)%len(alphabet)]
	}
	return string(buf)
}
