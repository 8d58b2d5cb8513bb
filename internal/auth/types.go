package auth

import "time"

// User statuses. Registration creates a pending user; verifying the register
// token activates it.
const (
	UserStatusPending  = "pending"
	UserStatusActive   = "active"
	UserStatusDisabled = "disabled"
)

// User is a storefront or console account. Partner users belong to an
// organization once onboarding completes; admins never do.
type User struct {
	ID             string    `json:"id"`
	OrganizationID string    `json:"organization_id,omitempty"`
	Name           string    `json:"name"`
	Email          string    `json:"email"`
	PasswordHash   string    `json:"-"`
	IsAdmin        bool      `json:"is_admin"`
	Status         string    `json:"status"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// Organization is the tenant a partner operates: a travel agency renting out
// fleet vehicles and selling tour packages.
type Organization struct {
	ID         string    `json:"id"`
	Code       string    `json:"code"`
	Name       string    `json:"name"`
	Type       string    `json:"type"`
	Address    string    `json:"address,omitempty"`
	ProvinceID string    `json:"province_id,omitempty"`
	CityID     string    `json:"city_id,omitempty"`
	Phone      string    `json:"phone,omitempty"`
	Email      string    `json:"email,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// OrganizationTypes is the fixed catalog the onboarding form offers.
var OrganizationTypes = []string{
	"travel-agency",
	"fleet-owner",
	"tour-operator",
}

// BankAccount is a payout destination owned by an organization.
type BankAccount struct {
	ID             string    `json:"id"`
	OrganizationID string    `json:"organization_id"`
	BankName       string    `json:"bank_name"`
	AccountName    string    `json:"account_name"`
	AccountNumber  string    `json:"account_number"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// RegisterToken gates account activation: issued on register, consumed on
// verify.
type RegisterToken struct {
	Token      string     `json:"token"`
	UserID     string     `json:"user_id"`
	Email      string     `json:"email"`
	ExpiresAt  time.Time  `json:"expires_at"`
	ConsumedAt *time.Time `json:"consumed_at,omitempty"`
}

// UserUpdate carries optional profile changes; nil fields are untouched.
type UserUpdate struct {
	Name     *string
	Email    *string
	Password *string
}

// OrganizationUpdate carries optional organization changes.
type OrganizationUpdate struct {
	Name       *string
	Type       *string
	Address    *string
	ProvinceID *string
	CityID     *string
	Phone      *string
	Email      *string
}
