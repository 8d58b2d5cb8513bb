package session

import "encoding/json"

// Storage keys. Everything the console persists between page loads goes
// through these; nothing else reads the underlying Storage directly.
const (
	KeyToken            = "token"
	KeyUser             = "user"
	KeyOrganizationID   = "organization_id"
	KeyOrganizationName = "organization_name"
	KeyOrganizationCode = "organization_code"
	KeyRegisterToken    = "register_token"
	KeyRegisterEmail    = "register_email"
)

// CachedUser is the identity snapshot persisted under KeyUser after the first
// successful token decode, so renders do not re-derive it.
type CachedUser struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

// Store is the single typed session module for the console: token, cached
// identity and the handful of onboarding keys, with explicit get/set/clear
// operations instead of scattered raw storage reads.
type Store struct {
	storage Storage
}

// NewStore wraps the given storage.
func NewStore(storage Storage) *Store {
	return &Store{storage: storage}
}

// Token returns the raw bearer token, or "" when not logged in.
func (s *Store) Token() string {
	v, _ := s.storage.Get(KeyToken)
	return v
}

// SetToken stores a new bearer token. The cached identity is dropped at the
// same time: the cache is cleared on explicit login/logout, never merely
// overwritten, so a re-login under a different account cannot surface the
// previous user's name.
func (s *Store) SetToken(token string) error {
	if err := s.storage.Delete(KeyUser); err != nil {
		return err
	}
	return s.storage.Set(KeyToken, token)
}

// Clear wipes the whole session (logout).
func (s *Store) Clear() error {
	return s.storage.Clear()
}

// Resolve decodes the stored token into an Identity. On the first successful
// decode it persists the {name,email,role} snapshot under KeyUser; an existing
// snapshot is never overwritten. A missing or malformed token resolves to the
// zero Identity without error.
func (s *Store) Resolve() Identity {
	id := DecodeIdentity(s.Token())
	if id.IsZero() {
		return id
	}
	if _, ok := s.storage.Get(KeyUser); !ok {
		raw, err := json.Marshal(CachedUser{Name: id.Name, Email: id.Email, Role: id.Role})
		if err == nil {
			_ = s.storage.Set(KeyUser, string(raw))
		}
	}
	return id
}

// CachedUser returns the persisted identity snapshot, if any.
func (s *Store) CachedUser() (CachedUser, bool) {
	raw, ok := s.storage.Get(KeyUser)
	if !ok {
		return CachedUser{}, false
	}
	var u CachedUser
	if err := json.Unmarshal([]byte(raw), &u); err != nil {
		return CachedUser{}, false
	}
	return u, true
}

// Organization onboarding state.

func (s *Store) SetOrganization(id, name, code string) error {
	if err := s.storage.Set(KeyOrganizationID, id); err != nil {
		return err
	}
	if err := s.storage.Set(KeyOrganizationName, name); err != nil {
		return err
	}
	return s.storage.Set(KeyOrganizationCode, code)
}

func (s *Store) OrganizationID() string {
	v, _ := s.storage.Get(KeyOrganizationID)
	return v
}

func (s *Store) OrganizationName() string {
	v, _ := s.storage.Get(KeyOrganizationName)
	return v
}

func (s *Store) OrganizationCode() string {
	v, _ := s.storage.Get(KeyOrganizationCode)
	return v
}

// Registration flow state, kept only between the register and verify steps.

func (s *Store) SetRegistration(token, email string) error {
	if err := s.storage.Set(KeyRegisterToken, token); err != nil {
		return err
	}
	return s.storage.Set(KeyRegisterEmail, email)
}

func (s *Store) Registration() (token, email string) {
	token, _ = s.storage.Get(KeyRegisterToken)
	email, _ = s.storage.Get(KeyRegisterEmail)
	return token, email
}

// ClearRegistration removes the transient registration keys after the account
// is verified.
func (s *Store) ClearRegistration() error {
	if err := s.storage.Delete(KeyRegisterToken); err != nil {
		return err
	}
	return s.storage.Delete(KeyRegisterEmail)
}
