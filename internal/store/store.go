package store

import (
	"context"
	"errors"
	"strings"
)

var (
	// ErrNotFound is returned when a requested entity does not exist or is
	// not owned by the caller. The two cases are deliberately indistinguishable.
	ErrNotFound = errors.New("not found")

	// ErrURLTaken is returned when a destination URL has already been
	// shortened, by any user.
	ErrURLTaken = errors.New("url already exists")

	// ErrUsernameTaken is returned when a username is already registered.
	ErrUsernameTaken = errors.New("username is taken")

	// ErrEmailTaken is returned when an email is already registered.
	ErrEmailTaken = errors.New("email is taken")
)

// ItemStoreIface exposes all item data operations.
// No handler queries the DB directly; all access goes through this interface.
type ItemStoreIface interface {
	CreateTodo(ctx context.Context, ownerID, title string) (*Item, error)
	CreateLink(ctx context.Context, ownerID, url, body string) (*Item, error)
	ListByOwner(ctx context.Context, ownerID string, page, perPage int) ([]*Item, int, error)
	GetByOwner(ctx context.Context, ownerID string, id int64) (*Item, error)
	UpdateTodo(ctx context.Context, ownerID string, id int64, title string, isComplete bool) (*Item, error)
	UpdateLink(ctx context.Context, ownerID string, id int64, url, body string) (*Item, error)
	Delete(ctx context.Context, ownerID string, id int64) error
	Stats(ctx context.Context, ownerID string) ([]LinkStat, error)
	IncrementVisits(ctx context.Context, code string) error
	ResolveShortCode(ctx context.Context, code string) (*Item, error)
}

// isUniqueConstraintError reports whether err is a unique-constraint violation
// from any of the supported drivers (sqlite, postgres, mysql).
func isUniqueConstraintError(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "UNIQUE constraint failed") || // sqlite
		strings.Contains(msg, "duplicate key value") || // postgres
		strings.Contains(msg, "Duplicate entry") // mysql
}
