package store_test

import (
	"context"
	"errors"
	"testing"

	"github.com/shortlist-app/shortlist/internal/store"
	"github.com/shortlist-app/shortlist/internal/testutil"
)

func TestUserStore_CreateAndGet(t *testing.T) {
	db := testutil.NewTestDB(t)
	users := store.NewUserStore(db)
	ctx := context.Background()

	u, err := users.Create(ctx, "alice", "alice@example.com", "hash")
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if u.ID == "" {
		t.Error("expected generated id")
	}

	byID, err := users.GetByID(ctx, u.ID)
	if err != nil {
		t.Fatalf("get by id: %v", err)
	}
	if byID.Username != "alice" {
		t.Errorf("username = %q, want alice", byID.Username)
	}

	byEmail, err := users.GetByEmail(ctx, "alice@example.com")
	if err != nil {
		t.Fatalf("get by email: %v", err)
	}
	if byEmail.ID != u.ID {
		t.Errorf("id mismatch: %q != %q", byEmail.ID, u.ID)
	}

	byName, err := users.GetByUsername(ctx, "alice")
	if err != nil {
		t.Fatalf("get by username: %v", err)
	}
	if byName.ID != u.ID {
		t.Errorf("id mismatch: %q != %q", byName.ID, u.ID)
	}
}

func TestUserStore_Get_NotFound(t *testing.T) {
	db := testutil.NewTestDB(t)
	users := store.NewUserStore(db)
	ctx := context.Background()

	if _, err := users.GetByID(ctx, "no-such-id"); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("by id: err = %v, want ErrNotFound", err)
	}
	if _, err := users.GetByEmail(ctx, "nobody@example.com"); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("by email: err = %v, want ErrNotFound", err)
	}
}

func TestUserStore_Create_Duplicates(t *testing.T) {
	db := testutil.NewTestDB(t)
	users := store.NewUserStore(db)
	ctx := context.Background()

	if _, err := users.Create(ctx, "alice", "alice@example.com", "hash"); err != nil {
		t.Fatalf("create: %v", err)
	}

	if _, err := users.Create(ctx, "alice", "other@example.com", "hash"); !errors.Is(err, store.ErrUsernameTaken) {
		t.Errorf("duplicate username: err = %v, want ErrUsernameTaken", err)
	}
	if _, err := users.Create(ctx, "alice2", "alice@example.com", "hash"); !errors.Is(err, store.ErrEmailTaken) {
		t.Errorf("duplicate email: err = %v, want ErrEmailTaken", err)
	}
}
