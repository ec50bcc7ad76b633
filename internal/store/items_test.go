package store_test

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/shortlist-app/shortlist/internal/store"
	"github.com/shortlist-app/shortlist/internal/testutil"
)

func seedOwner(t *testing.T, s *store.UserStore, username, email string) *store.User {
	t.Helper()
	u, err := s.Create(context.Background(), username, email, "x")
	if err != nil {
		t.Fatalf("seed user: %v", err)
	}
	return u
}

func TestItemStore_CreateTodo(t *testing.T) {
	db := testutil.NewTestDB(t)
	items := store.NewItemStore(db)
	owner := seedOwner(t, store.NewUserStore(db), "alice", "alice@example.com")

	item, err := items.CreateTodo(context.Background(), owner.ID, "walk the dog")
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if item.ID == 0 {
		t.Error("expected generated id")
	}
	if item.Title != "walk the dog" || item.IsComplete {
		t.Errorf("got %+v, want fresh incomplete todo", item)
	}
	if item.IsLink() {
		t.Error("todo must not be link-shaped")
	}
}

func TestItemStore_CreateLink(t *testing.T) {
	db := testutil.NewTestDB(t)
	items := store.NewItemStore(db)
	owner := seedOwner(t, store.NewUserStore(db), "alice", "alice@example.com")

	item, err := items.CreateLink(context.Background(), owner.ID, "https://example.com/page", "notes")
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if !item.IsLink() {
		t.Fatal("expected link-shaped item")
	}
	if len(item.ShortCode.String) != 6 {
		t.Errorf("short_code = %q, want 6 characters", item.ShortCode.String)
	}
	if item.Visits != 0 {
		t.Errorf("visits = %d, want 0", item.Visits)
	}
	if item.Body != "notes" {
		t.Errorf("body = %q, want notes", item.Body)
	}
}

func TestItemStore_CreateLink_InvalidURL(t *testing.T) {
	db := testutil.NewTestDB(t)
	items := store.NewItemStore(db)
	owner := seedOwner(t, store.NewUserStore(db), "alice", "alice@example.com")

	for _, u := range []string{"", "not-a-url", "ftp://example.com/x", "https://"} {
		_, err := items.CreateLink(context.Background(), owner.ID, u, "")
		if !errors.Is(err, store.ErrURLInvalid) {
			t.Errorf("%q: err = %v, want ErrURLInvalid", u, err)
		}
	}
}

func TestItemStore_CreateLink_DuplicateURL(t *testing.T) {
	db := testutil.NewTestDB(t)
	items := store.NewItemStore(db)
	users := store.NewUserStore(db)
	alice := seedOwner(t, users, "alice", "alice@example.com")
	bob := seedOwner(t, users, "bob", "bob@example.com")

	ctx := context.Background()
	if _, err := items.CreateLink(ctx, alice.ID, "https://example.com/dup", ""); err != nil {
		t.Fatalf("first create: %v", err)
	}

	// Uniqueness is global across users.
	_, err := items.CreateLink(ctx, bob.ID, "https://example.com/dup", "")
	if !errors.Is(err, store.ErrURLTaken) {
		t.Fatalf("err = %v, want ErrURLTaken", err)
	}
}

func TestItemStore_GetByOwner_Scoping(t *testing.T) {
	db := testutil.NewTestDB(t)
	items := store.NewItemStore(db)
	users := store.NewUserStore(db)
	alice := seedOwner(t, users, "alice", "alice@example.com")
	bob := seedOwner(t, users, "bob", "bob@example.com")

	ctx := context.Background()
	item, err := items.CreateTodo(ctx, alice.ID, "private")
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if _, err := items.GetByOwner(ctx, alice.ID, item.ID); err != nil {
		t.Errorf("owner read: %v", err)
	}
	if _, err := items.GetByOwner(ctx, bob.ID, item.ID); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("cross-user read: err = %v, want ErrNotFound", err)
	}
	if _, err := items.GetByOwner(ctx, alice.ID, 999999); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("missing id: err = %v, want ErrNotFound", err)
	}
}

func TestItemStore_ListByOwner(t *testing.T) {
	db := testutil.NewTestDB(t)
	items := store.NewItemStore(db)
	users := store.NewUserStore(db)
	alice := seedOwner(t, users, "alice", "alice@example.com")
	bob := seedOwner(t, users, "bob", "bob@example.com")

	ctx := context.Background()
	for i := 0; i < 7; i++ {
		if _, err := items.CreateTodo(ctx, alice.ID, fmt.Sprintf("todo %d", i)); err != nil {
			t.Fatalf("seed %d: %v", i, err)
		}
	}
	if _, err := items.CreateTodo(ctx, bob.ID, "bob's"); err != nil {
		t.Fatalf("seed bob: %v", err)
	}

	page1, total, err := items.ListByOwner(ctx, alice.ID, 1, 5)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if total != 7 {
		t.Errorf("total = %d, want 7", total)
	}
	if len(page1) != 5 {
		t.Errorf("len(page 1) = %d, want 5", len(page1))
	}
	if page1[0].Title != "todo 0" {
		t.Errorf("first = %q, want oldest first", page1[0].Title)
	}

	page2, _, err := items.ListByOwner(ctx, alice.ID, 2, 5)
	if err != nil {
		t.Fatalf("list page 2: %v", err)
	}
	if len(page2) != 2 {
		t.Errorf("len(page 2) = %d, want 2", len(page2))
	}
	if page2[0].Title != "todo 5" {
		t.Errorf("page 2 first = %q, want todo 5", page2[0].Title)
	}
}

func TestItemStore_UpdateTodo(t *testing.T) {
	db := testutil.NewTestDB(t)
	items := store.NewItemStore(db)
	owner := seedOwner(t, store.NewUserStore(db), "alice", "alice@example.com")

	ctx := context.Background()
	item, err := items.CreateTodo(ctx, owner.ID, "before")
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	got, err := items.UpdateTodo(ctx, owner.ID, item.ID, "after", true)
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if got.Title != "after" || !got.IsComplete {
		t.Errorf("got %+v, want updated", got)
	}
}

func TestItemStore_UpdateLink_UniquenessExcludesSelf(t *testing.T) {
	db := testutil.NewTestDB(t)
	items := store.NewItemStore(db)
	owner := seedOwner(t, store.NewUserStore(db), "alice", "alice@example.com")

	ctx := context.Background()
	if _, err := items.CreateLink(ctx, owner.ID, "https://example.com/taken", ""); err != nil {
		t.Fatalf("create: %v", err)
	}
	mine, err := items.CreateLink(ctx, owner.ID, "https://example.com/mine", "")
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if _, err := items.UpdateLink(ctx, owner.ID, mine.ID, "https://example.com/taken", ""); !errors.Is(err, store.ErrURLTaken) {
		t.Errorf("err = %v, want ErrURLTaken", err)
	}

	// Keeping the current URL is not a conflict, and the code survives.
	got, err := items.UpdateLink(ctx, owner.ID, mine.ID, "https://example.com/mine", "note")
	if err != nil {
		t.Fatalf("self update: %v", err)
	}
	if got.ShortCode.String != mine.ShortCode.String {
		t.Errorf("short_code changed from %q to %q", mine.ShortCode.String, got.ShortCode.String)
	}
	if got.Body != "note" {
		t.Errorf("body = %q, want note", got.Body)
	}
}

func TestItemStore_Delete(t *testing.T) {
	db := testutil.NewTestDB(t)
	items := store.NewItemStore(db)
	users := store.NewUserStore(db)
	alice := seedOwner(t, users, "alice", "alice@example.com")
	bob := seedOwner(t, users, "bob", "bob@example.com")

	ctx := context.Background()
	item, err := items.CreateTodo(ctx, alice.ID, "doomed")
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if err := items.Delete(ctx, bob.ID, item.ID); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("cross-user delete: err = %v, want ErrNotFound", err)
	}
	if err := items.Delete(ctx, alice.ID, item.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := items.Delete(ctx, alice.ID, item.ID); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("double delete: err = %v, want ErrNotFound", err)
	}
}

func TestItemStore_Stats(t *testing.T) {
	db := testutil.NewTestDB(t)
	items := store.NewItemStore(db)
	owner := seedOwner(t, store.NewUserStore(db), "alice", "alice@example.com")

	ctx := context.Background()
	if _, err := items.CreateTodo(ctx, owner.ID, "not a link"); err != nil {
		t.Fatalf("seed todo: %v", err)
	}
	link, err := items.CreateLink(ctx, owner.ID, "https://example.com/tracked", "")
	if err != nil {
		t.Fatalf("seed link: %v", err)
	}
	for i := 0; i < 2; i++ {
		if _, err := items.ResolveShortCode(ctx, link.ShortCode.String); err != nil {
			t.Fatalf("resolve: %v", err)
		}
	}

	stats, err := items.Stats(ctx, owner.ID)
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	if len(stats) != 1 {
		t.Fatalf("len(stats) = %d, want 1", len(stats))
	}
	if stats[0].Visits != 2 {
		t.Errorf("visits = %d, want 2", stats[0].Visits)
	}
	if stats[0].URL != "https://example.com/tracked" {
		t.Errorf("url = %q", stats[0].URL)
	}
}

func TestItemStore_ResolveShortCode(t *testing.T) {
	db := testutil.NewTestDB(t)
	items := store.NewItemStore(db)
	owner := seedOwner(t, store.NewUserStore(db), "alice", "alice@example.com")

	ctx := context.Background()
	link, err := items.CreateLink(ctx, owner.ID, "https://example.com/target", "")
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	got, err := items.ResolveShortCode(ctx, link.ShortCode.String)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if got.URL.String != "https://example.com/target" {
		t.Errorf("url = %q", got.URL.String)
	}
	if got.Visits != 1 {
		t.Errorf("visits = %d, want 1", got.Visits)
	}

	if _, err := items.ResolveShortCode(ctx, "zzzzzz"); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("unknown code: err = %v, want ErrNotFound", err)
	}
}

func TestItemStore_ResolveShortCode_ConcurrentCounts(t *testing.T) {
	db := testutil.NewTestDB(t)
	items := store.NewItemStore(db)
	owner := seedOwner(t, store.NewUserStore(db), "alice", "alice@example.com")

	ctx := context.Background()
	link, err := items.CreateLink(ctx, owner.ID, "https://example.com/hot", "")
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	const n = 20
	var wg sync.WaitGroup
	errs := make(chan error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := items.ResolveShortCode(ctx, link.ShortCode.String); err != nil {
				errs <- err
			}
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		t.Fatalf("concurrent resolve: %v", err)
	}

	got, err := items.GetByOwner(ctx, owner.ID, link.ID)
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if got.Visits != n {
		t.Errorf("visits = %d, want %d (no lost updates)", got.Visits, n)
	}
}

func TestItemStore_UserDeletionCascades(t *testing.T) {
	db := testutil.NewTestDB(t)
	items := store.NewItemStore(db)
	users := store.NewUserStore(db)
	owner := seedOwner(t, users, "alice", "alice@example.com")

	ctx := context.Background()
	link, err := items.CreateLink(ctx, owner.ID, "https://example.com/orphan", "")
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if _, err := db.ExecContext(ctx, "DELETE FROM users WHERE id = ?", owner.ID); err != nil {
		t.Fatalf("delete user: %v", err)
	}

	if _, err := items.ResolveShortCode(ctx, link.ShortCode.String); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("resolve after cascade: err = %v, want ErrNotFound", err)
	}
}
