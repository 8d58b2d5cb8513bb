package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"wisatara.id/internal/session"
)

const testSecret = "test-secret"

func newTestService(t *testing.T, opts ...Option) *Service {
	t.Helper()
	svc, err := NewService(NewInMemoryStore(), testSecret, opts...)
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}
	return svc
}

func registerActive(t *testing.T, svc *Service, name, email, password string) *User {
	t.Helper()
	ctx := context.Background()
	_, tok, err := svc.Register(ctx, name, email, password)
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	user, err := svc.Verify(ctx, tok.Token)
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	return user
}

func TestRegisterVerifyLogin(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	user, tok, err := svc.Register(ctx, "Ayu Lestari", "Ayu@Example.com", "rahasia-123")
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	if user.Status != UserStatusPending {
		t.Fatalf("expected pending status, got %s", user.Status)
	}
	if user.Email != "ayu@example.com" {
		t.Fatalf("email not normalized: %s", user.Email)
	}

	// Pending accounts cannot log in.
	if _, _, _, err := svc.Login(ctx, "ayu@example.com", "rahasia-123"); !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized before verify, got %v", err)
	}

	if _, err := svc.Verify(ctx, tok.Token); err != nil {
		t.Fatalf("Verify: %v", err)
	}

	token, expiresAt, logged, err := svc.Login(ctx, "ayu@example.com", "rahasia-123")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if logged.ID != user.ID {
		t.Fatalf("unexpected user: %s", logged.ID)
	}
	if !expiresAt.After(time.Now()) {
		t.Fatalf("token already expired: %v", expiresAt)
	}

	// The issued token must round-trip through the console resolver.
	id := session.DecodeIdentity(token)
	if id.Name != "Ayu Lestari" || id.Email != "ayu@example.com" {
		t.Fatalf("resolver mismatch: %+v", id)
	}
	if id.IsAdmin || id.OrganizationID != "" {
		t.Fatalf("fresh account should have no org and no admin flag: %+v", id)
	}
	if id.Role != "user" {
		t.Fatalf("unexpected role claim: %q", id.Role)
	}
}

func TestVerifyRejectsConsumedAndExpiredTokens(t *testing.T) {
	now := time.Now()
	svc := newTestService(t, WithClock(func() time.Time { return now }))
	ctx := context.Background()

	_, tok, err := svc.Register(ctx, "Budi", "budi@example.com", "rahasia-123")
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	if _, err := svc.Verify(ctx, tok.Token); err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if _, err := svc.Verify(ctx, tok.Token); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected consumed token rejection, got %v", err)
	}

	_, tok2, err := svc.Register(ctx, "Citra", "citra@example.com", "rahasia-123")
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	now = now.Add(72 * time.Hour)
	if _, err := svc.Verify(ctx, tok2.Token); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected expired token rejection, got %v", err)
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()
	registerActive(t, svc, "Ayu", "ayu@example.com", "rahasia-123")
	if _, _, err := svc.Register(ctx, "Other", "ayu@example.com", "rahasia-456"); !errors.Is(err, ErrAlreadyExists) {
		t.Fatalf("expected ErrAlreadyExists, got %v", err)
	}
}

func TestLoginWrongPassword(t *testing.T) {
	svc := newTestService(t)
	registerActive(t, svc, "Ayu", "ayu@example.com", "rahasia-123")
	if _, _, _, err := svc.Login(context.Background(), "ayu@example.com", "wrong-pass"); !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}
}

func TestAuthenticateRoundTrip(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()
	user := registerActive(t, svc, "Ayu", "ayu@example.com", "rahasia-123")

	token, _, _, err := svc.Login(ctx, "ayu@example.com", "rahasia-123")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	got, err := svc.Authenticate(ctx, token)
	if err != nil {
		t.Fatalf("Authenticate: %v", err)
	}
	if got.ID != user.ID {
		t.Fatalf("unexpected user: %s", got.ID)
	}

	if _, err := svc.Authenticate(ctx, "garbage.token.here"); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}

func TestCreateOrganizationAttachesUserAndClaims(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()
	user := registerActive(t, svc, "Ayu", "ayu@example.com", "rahasia-123")

	org, err := svc.CreateOrganization(ctx, user.ID, "Tirta Wisata", "travel-agency")
	if err != nil {
		t.Fatalf("CreateOrganization: %v", err)
	}
	if len(org.Code) != organizationCodeLen {
		t.Fatalf("unexpected join code: %q", org.Code)
	}

	token, _, _, err := svc.Login(ctx, "ayu@example.com", "rahasia-123")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	id := session.DecodeIdentity(token)
	if id.OrganizationID != org.ID || id.OrganizationName != "Tirta Wisata" {
		t.Fatalf("organization claims missing: %+v", id)
	}
	if id.Role != "partner" {
		t.Fatalf("expected partner role, got %q", id.Role)
	}

	if _, err := svc.CreateOrganization(ctx, user.ID, "Second", "travel-agency"); !errors.Is(err, ErrAlreadyExists) {
		t.Fatalf("expected single-org constraint, got %v", err)
	}
}

func TestJoinOrganizationByCode(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()
	owner := registerActive(t, svc, "Owner", "owner@example.com", "rahasia-123")
	org, err := svc.CreateOrganization(ctx, owner.ID, "Tirta Wisata", "travel-agency")
	if err != nil {
		t.Fatalf("CreateOrganization: %v", err)
	}

	member := registerActive(t, svc, "Member", "member@example.com", "rahasia-123")
	joined, err := svc.JoinOrganization(ctx, member.ID, org.Code)
	if err != nil {
		t.Fatalf("JoinOrganization: %v", err)
	}
	if joined.ID != org.ID {
		t.Fatalf("joined wrong org: %s", joined.ID)
	}

	if _, err := svc.JoinOrganization(ctx, member.ID, "XXXXXX"); err == nil {
		t.Fatalf("expected unknown code rejection")
	}
}

func TestUpdateProfile(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()
	user := registerActive(t, svc, "Ayu", "ayu@example.com", "rahasia-123")

	newName := "Ayu Kusuma"
	updated, err := svc.UpdateProfile(ctx, user.ID, UserUpdate{Name: &newName})
	if err != nil {
		t.Fatalf("UpdateProfile: %v", err)
	}
	if updated.Name != newName {
		t.Fatalf("name not applied: %s", updated.Name)
	}

	empty := " "
	if _, err := svc.UpdateProfile(ctx, user.ID, UserUpdate{Name: &empty}); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestBankAccountLifecycle(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()
	user := registerActive(t, svc, "Ayu", "ayu@example.com", "rahasia-123")
	org, err := svc.CreateOrganization(ctx, user.ID, "Tirta Wisata", "travel-agency")
	if err != nil {
		t.Fatalf("CreateOrganization: %v", err)
	}

	acc, err := svc.CreateBankAccount(ctx, org.ID, "BCA", "PT Tirta Wisata", "1234567890")
	if err != nil {
		t.Fatalf("CreateBankAccount: %v", err)
	}
	list, err := svc.ListBankAccounts(ctx, org.ID)
	if err != nil || len(list) != 1 {
		t.Fatalf("ListBankAccounts: %v len=%d", err, len(list))
	}

	if err := svc.DeleteBankAccount(ctx, "other-org", acc.ID); !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("expected cross-org delete rejection, got %v", err)
	}
	if err := svc.DeleteBankAccount(ctx, org.ID, acc.ID); err != nil {
		t.Fatalf("DeleteBankAccount: %v", err)
	}
	list, _ = svc.ListBankAccounts(ctx, org.ID)
	if len(list) != 0 {
		t.Fatalf("expected empty list, got %d", len(list))
	}
}

func TestContextHelpers(t *testing.T) {
	ctx := context.Background()
	user := &User{ID: "u-1", Name: "Ayu"}
	ctx = ContextWithUser(ctx, user)
	ctx = ContextWithToken(ctx, "raw-token")

	got, ok := UserFromContext(ctx)
	if !ok || got.ID != "u-1" {
		t.Fatalf("user not in context: %+v ok=%v", got, ok)
	}
	tok, ok := TokenFromContext(ctx)
	if !ok || tok != "raw-token" {
		t.Fatalf("token not in context: %q ok=%v", tok, ok)
	}

	if _, ok := UserFromContext(context.Background()); ok {
		t.Fatalf("unexpected user in empty context")
	}
}
