package auth

import "context"

// Store describes persistence operations required by the auth subsystem.
type Store interface {
	Users() UserStore
	Organizations() OrganizationStore
	BankAccounts() BankAccountStore
	RegisterTokens() RegisterTokenStore
}

// UserStore manages accounts.
type UserStore interface {
	Create(ctx context.Context, u *User) error
	Find(ctx context.Context, id string) (*User, error)
	FindByEmail(ctx context.Context, email string) (*User, error)
	Update(ctx context.Context, u *User) error
}

// OrganizationStore manages tenants.
type OrganizationStore interface {
	Create(ctx context.Context, org *Organization) error
	Find(ctx context.Context, id string) (*Organization, error)
	FindByCode(ctx context.Context, code string) (*Organization, error)
	Update(ctx context.Context, org *Organization) error
}

// BankAccountStore manages payout destinations.
type BankAccountStore interface {
	Create(ctx context.Context, acc *BankAccount) error
	Find(ctx context.Context, id string) (*BankAccount, error)
	ListByOrg(ctx context.Context, orgID string) ([]*BankAccount, error)
	Update(ctx context.Context, acc *BankAccount) error
	Delete(ctx context.Context, id string) error
}

// RegisterTokenStore manages activation tokens.
type RegisterTokenStore interface {
	Create(ctx context.Context, tok *RegisterToken) error
	Find(ctx context.Context, token string) (*RegisterToken, error)
	MarkConsumed(ctx context.Context, token string) error
}
