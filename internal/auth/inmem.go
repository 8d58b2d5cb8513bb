package auth

import (
	"context"
	"sort"
	"sync"
	"time"
)

// InMemoryStore implements Store for tests and single-process deployments.
type InMemoryStore struct {
	mu       sync.RWMutex
	users    map[string]*User
	orgs     map[string]*Organization
	banks    map[string]*BankAccount
	regToken map[string]*RegisterToken
}

// NewInMemoryStore returns an empty store.
func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{
		users:    make(map[string]*User),
		orgs:     make(map[string]*Organization),
		banks:    make(map[string]*BankAccount),
		regToken: make(map[string]*RegisterToken),
	}
}

func (s *InMemoryStore) Users() UserStore                   { return (*memUsers)(s) }
func (s *InMemoryStore) Organizations() OrganizationStore   { return (*memOrgs)(s) }
func (s *InMemoryStore) BankAccounts() BankAccountStore     { return (*memBanks)(s) }
func (s *InMemoryStore) RegisterTokens() RegisterTokenStore { return (*memRegTokens)(s) }

type memUsers InMemoryStore

func (m *memUsers) Create(ctx context.Context, u *User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.users {
		if existing.Email == u.Email {
			return ErrAlreadyExists
		}
	}
	cp := *u
	m.users[u.ID] = &cp
	return nil
}

func (m *memUsers) Find(ctx context.Context, id string) (*User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	u, ok := m.users[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (m *memUsers) FindByEmail(ctx context.Context, email string) (*User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, u := range m.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, ErrNotFound
}

func (m *memUsers) Update(ctx context.Context, u *User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.users[u.ID]; !ok {
		return ErrNotFound
	}
	cp := *u
	m.users[u.ID] = &cp
	return nil
}

type memOrgs InMemoryStore

func (m *memOrgs) Create(ctx context.Context, org *Organization) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.orgs {
		if existing.Code == org.Code {
			return ErrAlreadyExists
		}
	}
	cp := *org
	m.orgs[org.ID] = &cp
	return nil
}

func (m *memOrgs) Find(ctx context.Context, id string) (*Organization, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	org, ok := m.orgs[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *org
	return &cp, nil
}

func (m *memOrgs) FindByCode(ctx context.Context, code string) (*Organization, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, org := range m.orgs {
		if org.Code == code {
			cp := *org
			return &cp, nil
		}
	}
	return nil, ErrNotFound
}

func (m *memOrgs) Update(ctx context.Context, org *Organization) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.orgs[org.ID]; !ok {
		return ErrNotFound
	}
	cp := *org
	m.orgs[org.ID] = &cp
	return nil
}

type memBanks InMemoryStore

func (m *memBanks) Create(ctx context.Context, acc *BankAccount) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *acc
	m.banks[acc.ID] = &cp
	return nil
}

func (m *memBanks) Find(ctx context.Context, id string) (*BankAccount, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	acc, ok := m.banks[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *acc
	return &cp, nil
}

func (m *memBanks) ListByOrg(ctx context.Context, orgID string) ([]*BankAccount, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []*BankAccount
	for _, acc := range m.banks {
		if acc.OrganizationID == orgID {
			cp := *acc
			out = append(out, &cp)
		}
	}
	sortBankAccounts(out)
	return out, nil
}

func (m *memBanks) Update(ctx context.Context, acc *BankAccount) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.banks[acc.ID]; !ok {
		return ErrNotFound
	}
	cp := *acc
	m.banks[acc.ID] = &cp
	return nil
}

func (m *memBanks) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.banks[id]; !ok {
		return ErrNotFound
	}
	delete(m.banks, id)
	return nil
}

type memRegTokens InMemoryStore

func (m *memRegTokens) Create(ctx context.Context, tok *RegisterToken) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *tok
	m.regToken[tok.Token] = &cp
	return nil
}

func (m *memRegTokens) Find(ctx context.Context, token string) (*RegisterToken, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	tok, ok := m.regToken[token]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *tok
	return &cp, nil
}

func (m *memRegTokens) MarkConsumed(ctx context.Context, token string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	tok, ok := m.regToken[token]
	if !ok {
		return ErrNotFound
	}
	now := time.Now().UTC()
	tok.ConsumedAt = &now
	return nil
}

// sortBankAccounts orders by creation time so listings are stable.
func sortBankAccounts(accs []*BankAccount) {
	sort.Slice(accs, func(i, j int) bool {
		if accs[i].CreatedAt.Equal(accs[j].CreatedAt) {
			return accs[i].ID < accs[j].ID
		}
		return accs[i].CreatedAt.Before(accs[j].CreatedAt)
	})
}
