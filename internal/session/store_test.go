package session

import (
	"path/filepath"
	"testing"
)

func TestStoreResolveWritesCacheOnce(t *testing.T) {
	store := NewStore(NewMemory())
	if err := store.SetToken(tokenWithPayload(t, map[string]any{
		"name":  "Ayu",
		"email": "ayu@example.com",
		"role":  "partner",
	})); err != nil {
		t.Fatalf("set token: %v", err)
	}

	id := store.Resolve()
	if id.Name != "Ayu" {
		t.Fatalf("unexpected identity: %+v", id)
	}
	cached, ok := store.CachedUser()
	if !ok || cached.Name != "Ayu" || cached.Role != "partner" {
		t.Fatalf("expected cached snapshot, got %+v ok=%v", cached, ok)
	}

	// A second resolve with a mutated cache must not overwrite it.
	_ = store.storage.Set(KeyUser, `{"name":"Edited","email":"e@example.com","role":"user"}`)
	_ = store.Resolve()
	cached, _ = store.CachedUser()
	if cached.Name != "Edited" {
		t.Fatalf("cache was overwritten: %+v", cached)
	}
}

func TestStoreSetTokenDropsCachedUser(t *testing.T) {
	store := NewStore(NewMemory())
	_ = store.SetToken(tokenWithPayload(t, map[string]any{"name": "First"}))
	_ = store.Resolve()

	if err := store.SetToken(tokenWithPayload(t, map[string]any{"name": "Second"})); err != nil {
		t.Fatalf("set token: %v", err)
	}
	id := store.Resolve()
	if id.Name != "Second" {
		t.Fatalf("unexpected identity after relogin: %+v", id)
	}
	cached, ok := store.CachedUser()
	if !ok || cached.Name != "Second" {
		t.Fatalf("expected fresh cache after relogin, got %+v ok=%v", cached, ok)
	}
}

func TestStoreResolveMissingToken(t *testing.T) {
	store := NewStore(NewMemory())
	id := store.Resolve()
	if !id.IsZero() {
		t.Fatalf("expected zero identity, got %+v", id)
	}
	if _, ok := store.CachedUser(); ok {
		t.Fatalf("no cache expected for missing token")
	}
}

func TestStoreRegistrationLifecycle(t *testing.T) {
	store := NewStore(NewMemory())
	if err := store.SetRegistration("reg-token", "new@example.com"); err != nil {
		t.Fatalf("set registration: %v", err)
	}
	token, email := store.Registration()
	if token != "reg-token" || email != "new@example.com" {
		t.Fatalf("unexpected registration state: %q %q", token, email)
	}
	if err := store.ClearRegistration(); err != nil {
		t.Fatalf("clear registration: %v", err)
	}
	token, email = store.Registration()
	if token != "" || email != "" {
		t.Fatalf("registration keys survived clear: %q %q", token, email)
	}
}

func TestFileStorageRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "console", "session.json")
	fs := NewFile(path)

	if err := fs.Set(KeyToken, "abc"); err != nil {
		t.Fatalf("set: %v", err)
	}
	if err := fs.Set(KeyOrganizationID, "org-1"); err != nil {
		t.Fatalf("set: %v", err)
	}

	// A fresh handle over the same file sees the persisted values.
	reopened := NewFile(path)
	if v, ok := reopened.Get(KeyToken); !ok || v != "abc" {
		t.Fatalf("expected persisted token, got %q ok=%v", v, ok)
	}
	if err := reopened.Delete(KeyToken); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, ok := reopened.Get(KeyToken); ok {
		t.Fatalf("token survived delete")
	}
	if v, ok := reopened.Get(KeyOrganizationID); !ok || v != "org-1" {
		t.Fatalf("unrelated key lost: %q ok=%v", v, ok)
	}
	if err := reopened.Clear(); err != nil {
		t.Fatalf("clear: %v", err)
	}
	if _, ok := reopened.Get(KeyOrganizationID); ok {
		t.Fatalf("key survived clear")
	}
}
