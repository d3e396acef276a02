package session

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoginLogoutRoundTrip(t *testing.T) {
	storage := NewMemoryStorage()
	store := NewStore(storage)

	if st := store.Snapshot(); st.IsAuthenticated || st.User != nil {
		t.Fatalf("expected logged-out initial state, got %+v", st)
	}

	store.LoginSuccess(Profile{ID: "u1", Role: "customer", Token: "tok"})

	st := store.Snapshot()
	if !st.IsAuthenticated || st.User == nil || st.User.ID != "u1" {
		t.Fatalf("unexpected state after login: %+v", st)
	}
	if store.Token() != "tok" {
		t.Fatalf("unexpected token: %q", store.Token())
	}
	if v, ok := storage.Get("isAuthenticated"); !ok || v != "true" {
		t.Fatalf("isAuthenticated not persisted: %q %v", v, ok)
	}
	if _, ok := storage.Get("user"); !ok {
		t.Fatalf("user not persisted")
	}

	store.LogoutSuccess()

	st = store.Snapshot()
	if st.IsAuthenticated || st.User != nil {
		t.Fatalf("expected logged-out state, got %+v", st)
	}
	if store.Token() != "" {
		t.Fatalf("token should be empty after logout")
	}
	if _, ok := storage.Get("isAuthenticated"); ok {
		t.Fatalf("isAuthenticated key should be removed")
	}
	if _, ok := storage.Get("user"); ok {
		t.Fatalf("user key should be removed")
	}
}

func TestHydrateFromStorage(t *testing.T) {
	storage := NewMemoryStorage()
	storage.Set("isAuthenticated", "true")
	storage.Set("user", `{"id":"u1","role":"admin","token":"tok","wishlist":["p1"]}`)

	store := NewStore(storage)

	st := store.Snapshot()
	if !st.IsAuthenticated || st.User == nil {
		t.Fatalf("expected hydrated session, got %+v", st)
	}
	if st.User.Role != "admin" || len(st.User.Wishlist) != 1 {
		t.Fatalf("unexpected profile: %+v", st.User)
	}
}

func TestHydrateMalformedUser(t *testing.T) {
	storage := NewMemoryStorage()
	storage.Set("isAuthenticated", "true")
	storage.Set("user", `{not json`)

	store := NewStore(storage)

	if st := store.Snapshot(); st.IsAuthenticated || st.User != nil {
		t.Fatalf("malformed stored user should hydrate logged out, got %+v", st)
	}
}

func TestHydrateFlagWithoutUser(t *testing.T) {
	storage := NewMemoryStorage()
	storage.Set("isAuthenticated", "true")

	store := NewStore(storage)

	if st := store.Snapshot(); st.IsAuthenticated {
		t.Fatalf("flag without user should hydrate logged out")
	}
}

func TestSubscribeSeesMutations(t *testing.T) {
	store := NewStore(NewMemoryStorage())

	var seen []State
	unsubscribe := store.Subscribe(func(st State) {
		seen = append(seen, st)
	})

	store.LoginSuccess(Profile{ID: "u1"})
	store.LogoutSuccess()

	if len(seen) != 2 {
		t.Fatalf("expected 2 notifications, got %d", len(seen))
	}
	if !seen[0].IsAuthenticated || seen[1].IsAuthenticated {
		t.Fatalf("unexpected notification order: %+v", seen)
	}

	unsubscribe()
	store.LoginSuccess(Profile{ID: "u2"})
	if len(seen) != 2 {
		t.Fatalf("unsubscribed listener still notified")
	}
}

func TestUpdateWishlist(t *testing.T) {
	storage := NewMemoryStorage()
	store := NewStore(storage)
	store.LoginSuccess(Profile{ID: "u1"})

	store.UpdateWishlist([]string{"p1", "p2"})

	st := store.Snapshot()
	if len(st.User.Wishlist) != 2 {
		t.Fatalf("unexpected wishlist: %v", st.User.Wishlist)
	}
	persisted, ok := storage.Get("user")
	if !ok {
		t.Fatalf("profile not re-persisted")
	}

	// Repeating the same update must leave store and storage unchanged.
	store.UpdateWishlist([]string{"p1", "p2"})

	again := store.Snapshot()
	if len(again.User.Wishlist) != 2 || again.User.Wishlist[0] != "p1" || again.User.Wishlist[1] != "p2" {
		t.Fatalf("repeat update changed wishlist: %v", again.User.Wishlist)
	}
	if v, _ := storage.Get("user"); v != persisted {
		t.Fatalf("repeat update changed persisted profile: %q vs %q", v, persisted)
	}
}

func TestUpdateWishlistLoggedOut(t *testing.T) {
	store := NewStore(NewMemoryStorage())

	notified := false
	store.Subscribe(func(State) { notified = true })

	store.UpdateWishlist([]string{"p1"})

	if notified {
		t.Fatalf("logged-out wishlist update should be a no-op")
	}
	if st := store.Snapshot(); st.User != nil {
		t.Fatalf("unexpected state: %+v", st)
	}
}

func TestSnapshotIsACopy(t *testing.T) {
	store := NewStore(NewMemoryStorage())
	store.LoginSuccess(Profile{ID: "u1", Wishlist: []string{"p1"}})

	st := store.Snapshot()
	st.User.Wishlist[0] = "mutated"
	st.User.ID = "mutated"

	fresh := store.Snapshot()
	if fresh.User.ID != "u1" || fresh.User.Wishlist[0] != "p1" {
		t.Fatalf("snapshot aliases internal state: %+v", fresh.User)
	}
}

func TestFileStoragePersistsAcrossStores(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")

	first := NewStore(NewFileStorage(path))
	first.LoginSuccess(Profile{ID: "u1", Role: "customer", Token: "tok"})

	second := NewStore(NewFileStorage(path))
	st := second.Snapshot()
	if !st.IsAuthenticated || st.User == nil || st.User.ID != "u1" {
		t.Fatalf("session did not survive restart: %+v", st)
	}

	second.LogoutSuccess()

	third := NewStore(NewFileStorage(path))
	if st := third.Snapshot(); st.IsAuthenticated {
		t.Fatalf("logout did not clear persisted session")
	}
}

func TestFileStorageMalformedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")
	if err := os.WriteFile(path, []byte("{broken"), 0o600); err != nil {
		t.Fatalf("write file: %v", err)
	}

	store := NewStore(NewFileStorage(path))
	if st := store.Snapshot(); st.IsAuthenticated {
		t.Fatalf("malformed file should hydrate logged out")
	}
}
