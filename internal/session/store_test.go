package session

import (
	"context"
	"testing"
	"time"

	"github.com/erazemk/najdeno/internal/db"
	"github.com/erazemk/najdeno/internal/model"
)

var testUser = model.User{
	UserID: "u1", FirstName: "Ana", LastName: "Kovač", Email: "ana@uni.si",
}

func TestCreateAndGet(t *testing.T) {
	store := New(db.NewTestDB(t))
	ctx := context.Background()

	sid, err := store.Create(ctx, testUser)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if sid == "" {
		t.Fatal("expected non-empty session id")
	}

	sess, err := store.Get(ctx, sid)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if sess == nil {
		t.Fatal("expected session")
	}
	if sess.UserID != "u1" {
		t.Errorf("expected user u1, got %q", sess.UserID)
	}

	profile := sess.Profile()
	if profile == nil {
		t.Fatal("expected complete profile")
	}
	if profile.Email != "ana@uni.si" {
		t.Errorf("unexpected email %q", profile.Email)
	}
}

func TestIncompleteProfile(t *testing.T) {
	store := New(db.NewTestDB(t))
	ctx := context.Background()

	sid, _ := store.Create(ctx, model.User{UserID: "u2", FirstName: "Ana"})
	sess, _ := store.Get(ctx, sid)
	if sess == nil {
		t.Fatal("expected session")
	}
	if sess.Profile() != nil {
		t.Error("expected nil profile when fields are missing")
	}
}

func TestLogoutClearsAtomically(t *testing.T) {
	store := New(db.NewTestDB(t))
	ctx := context.Background()

	sid, _ := store.Create(ctx, testUser)
	if err := store.Delete(ctx, sid); err != nil {
		t.Fatalf("Delete: %v", err)
	}

	// A subsequent read observes no session at all, never a partial one.
	sess, err := store.Get(ctx, sid)
	if err != nil {
		t.Fatalf("Get after delete: %v", err)
	}
	if sess != nil {
		t.Errorf("expected nil session after logout, got %+v", sess)
	}

	// Deleting again is a no-op.
	if err := store.Delete(ctx, sid); err != nil {
		t.Errorf("second Delete: %v", err)
	}
}

func TestWatchReceivesLoginAndLogout(t *testing.T) {
	store := New(db.NewTestDB(t))
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	events := store.Watch(ctx)

	sid, _ := store.Create(context.Background(), testUser)

	select {
	case ev := <-events:
		if ev.Kind != EventLogin || ev.UserID != "u1" {
			t.Errorf("unexpected event %+v", ev)
		}
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for login event")
	}

	store.Delete(context.Background(), sid)

	select {
	case ev := <-events:
		if ev.Kind != EventLogout {
			t.Errorf("expected logout event, got %+v", ev)
		}
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for logout event")
	}
}

func TestNilStoreAnswersNotAuthenticated(t *testing.T) {
	var store *Store
	ctx := context.Background()

	sess, err := store.Get(ctx, "anything")
	if err != nil || sess != nil {
		t.Errorf("nil store Get = (%v, %v), want (nil, nil)", sess, err)
	}
	if _, err := store.Create(ctx, testUser); err != ErrNoStore {
		t.Errorf("nil store Create err = %v, want ErrNoStore", err)
	}
	if err := store.Delete(ctx, "anything"); err != ErrNoStore {
		t.Errorf("nil store Delete err = %v, want ErrNoStore", err)
	}
	if ch := store.Watch(ctx); ch != nil {
		t.Error("nil store Watch should return nil channel")
	}
}
