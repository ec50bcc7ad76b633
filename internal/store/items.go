package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/shortlist-app/shortlist/internal/shortcode"
)

// Item represents a row in the items table. One table carries both shapes:
// to-do rows leave url and short_code NULL, link rows carry them plus the
// visit counter. The unique indexes on url and short_code are global, not
// per-user.
type Item struct {
	ID         int64          `db:"id"`
	UserID     string         `db:"user_id"`
	Title      string         `db:"title"`
	IsComplete bool           `db:"is_complete"`
	URL        sql.NullString `db:"url"`
	ShortCode  sql.NullString `db:"short_code"`
	Body       string         `db:"body"`
	Visits     int64          `db:"visits"`
	CreatedAt  time.Time      `db:"created_at"`
	UpdatedAt  time.Time      `db:"updated_at"`
}

// IsLink reports whether the item is link-shaped.
func (i *Item) IsLink() bool { return i.ShortCode.Valid }

// LinkStat is one row of the per-owner visit stats.
type LinkStat struct {
	ID        int64  `db:"id"`
	URL       string `db:"url"`
	ShortCode string `db:"short_code"`
	Visits    int64  `db:"visits"`
}

// shortCodeLength is the length of generated short codes. 62^6 codes make
// collisions rare; inserts still retry on the unique index.
const (
	shortCodeLength   = 6
	shortCodeAttempts = 5
)

// ItemStore is the sqlx-backed implementation of ItemStoreIface.
type ItemStore struct {
	db *sqlx.DB
}

func NewItemStore(db *sqlx.DB) *ItemStore {
	return &ItemStore{db: db}
}

// q rebinds ? placeholders to the driver's native format.
func (s *ItemStore) q(query string) string { return s.db.Rebind(query) }

// insert runs an item INSERT and returns the generated id. PostgreSQL does
// not support LastInsertId, so that driver goes through RETURNING.
func (s *ItemStore) insert(ctx context.Context, item *Item) (int64, error) {
	if s.db.DriverName() == "postgres" {
		var id int64
		err := s.db.QueryRowxContext(ctx, s.q(`
			INSERT INTO items (user_id, title, is_complete, url, short_code, body, visits, created_at, updated_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?) RETURNING id
		`), item.UserID, item.Title, item.IsComplete, item.URL, item.ShortCode,
			item.Body, item.Visits, item.CreatedAt, item.UpdatedAt).Scan(&id)
		return id, err
	}

	res, err := s.db.ExecContext(ctx, s.q(`
		INSERT INTO items (user_id, title, is_complete, url, short_code, body, visits, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`), item.UserID, item.Title, item.IsComplete, item.URL, item.ShortCode,
		item.Body, item.Visits, item.CreatedAt, item.UpdatedAt)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

// CreateTodo inserts a to-do item. An absent title is stored as the empty
// string; there is no uniqueness check for to-do items.
func (s *ItemStore) CreateTodo(ctx context.Context, ownerID, title string) (*Item, error) {
	now := time.Now().UTC()
	id, err := s.insert(ctx, &Item{
		UserID:    ownerID,
		Title:     title,
		CreatedAt: now,
		UpdatedAt: now,
	})
	if err != nil {
		return nil, err
	}
	return s.GetByOwner(ctx, ownerID, id)
}

// CreateLink inserts a link item. The URL must be well-formed and not yet
// shortened by anyone; the short code is generated here and retried on the
// unlikely collision.
func (s *ItemStore) CreateLink(ctx context.Context, ownerID, url, body string) (*Item, error) {
	if err := ValidateURL(url); err != nil {
		return nil, err
	}

	taken, err := s.urlExists(ctx, url, 0)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, ErrURLTaken
	}

	now := time.Now().UTC()
	for attempt := 0; attempt < shortCodeAttempts; attempt++ {
		code, err := shortcode.Generate(shortCodeLength)
		if err != nil {
			return nil, err
		}

		id, err := s.insert(ctx, &Item{
			UserID:    ownerID,
			URL:       sql.NullString{String: url, Valid: true},
			ShortCode: sql.NullString{String: code, Valid: true},
			Body:      body,
			CreatedAt: now,
			UpdatedAt: now,
		})
		if err == nil {
			return s.GetByOwner(ctx, ownerID, id)
		}
		if !isUniqueConstraintError(err) {
			return nil, err
		}

		// The violation is either a short-code collision (retry) or a
		// concurrent insert of the same URL (conflict).
		taken, uerr := s.urlExists(ctx, url, 0)
		if uerr != nil {
			return nil, uerr
		}
		if taken {
			return nil, ErrURLTaken
		}
	}
	return nil, fmt.Errorf("generate short code: %d collisions in a row", shortCodeAttempts)
}

// urlExists reports whether url is already stored on an item other than excludeID.
func (s *ItemStore) urlExists(ctx context.Context, url string, excludeID int64) (bool, error) {
	var count int
	err := s.db.GetContext(ctx, &count,
		s.q(`SELECT COUNT(*) FROM items WHERE url = ? AND id != ?`), url, excludeID)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// ListByOwner returns one page of the owner's items in insertion order, plus
// the total count for pagination metadata. Pages past the end yield an empty
// slice, not an error.
func (s *ItemStore) ListByOwner(ctx context.Context, ownerID string, page, perPage int) ([]*Item, int, error) {
	var total int
	err := s.db.GetContext(ctx, &total,
		s.q(`SELECT COUNT(*) FROM items WHERE user_id = ?`), ownerID)
	if err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * perPage
	items := []*Item{}
	err = s.db.SelectContext(ctx, &items, s.q(`
		SELECT * FROM items WHERE user_id = ? ORDER BY id ASC LIMIT ? OFFSET ?
	`), ownerID, perPage, offset)
	if err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

// GetByOwner returns the item if it exists and belongs to ownerID. A missing
// row and someone else's row both come back as ErrNotFound so callers cannot
// probe other users' ids.
func (s *ItemStore) GetByOwner(ctx context.Context, ownerID string, id int64) (*Item, error) {
	var item Item
	err := s.db.GetContext(ctx, &item,
		s.q(`SELECT * FROM items WHERE id = ? AND user_id = ?`), id, ownerID)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &item, nil
}

// UpdateTodo sets title and is_complete on a to-do item and refreshes updated_at.
func (s *ItemStore) UpdateTodo(ctx context.Context, ownerID string, id int64, title string, isComplete bool) (*Item, error) {
	if _, err := s.GetByOwner(ctx, ownerID, id); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	_, err := s.db.ExecContext(ctx, s.q(`
		UPDATE items SET title = ?, is_complete = ?, updated_at = ? WHERE id = ? AND user_id = ?
	`), title, isComplete, now, id, ownerID)
	if err != nil {
		return nil, err
	}
	return s.GetByOwner(ctx, ownerID, id)
}

// UpdateLink sets url and body on a link item and refreshes updated_at. The
// URL is re-validated and re-checked for global uniqueness against every
// other item; the short code is immutable.
func (s *ItemStore) UpdateLink(ctx context.Context, ownerID string, id int64, url, body string) (*Item, error) {
	if _, err := s.GetByOwner(ctx, ownerID, id); err != nil {
		return nil, err
	}
	if err := ValidateURL(url); err != nil {
		return nil, err
	}

	taken, err := s.urlExists(ctx, url, id)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, ErrURLTaken
	}

	now := time.Now().UTC()
	_, err = s.db.ExecContext(ctx, s.q(`
		UPDATE items SET url = ?, body = ?, updated_at = ? WHERE id = ? AND user_id = ?
	`), url, body, now, id, ownerID)
	if err != nil {
		if isUniqueConstraintError(err) {
			return nil, ErrURLTaken
		}
		return nil, err
	}
	return s.GetByOwner(ctx, ownerID, id)
}

// Delete removes the item under the same ownership rule as GetByOwner.
func (s *ItemStore) Delete(ctx context.Context, ownerID string, id int64) error {
	res, err := s.db.ExecContext(ctx,
		s.q(`DELETE FROM items WHERE id = ? AND user_id = ?`), id, ownerID)
	if err != nil {
		return err
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return ErrNotFound
	}
	return nil
}

// Stats returns visit counts for all of the owner's link items.
func (s *ItemStore) Stats(ctx context.Context, ownerID string) ([]LinkStat, error) {
	stats := []LinkStat{}
	err := s.db.SelectContext(ctx, &stats, s.q(`
		SELECT id, url, short_code, visits FROM items
		WHERE user_id = ? AND short_code IS NOT NULL
		ORDER BY id ASC
	`), ownerID)
	if err != nil {
		return nil, err
	}
	return stats, nil
}

// IncrementVisits bumps the visit counter for a short code. The increment is
// a single relative UPDATE so concurrent resolutions of the same code never
// lose counts. Returns ErrNotFound if no item carries the code.
func (s *ItemStore) IncrementVisits(ctx context.Context, code string) error {
	res, err := s.db.ExecContext(ctx, s.q(`
		UPDATE items SET visits = visits + 1, updated_at = ? WHERE short_code = ?
	`), time.Now().UTC(), code)
	if err != nil {
		return err
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return ErrNotFound
	}
	return nil
}

// ResolveShortCode looks up an item by short code across all users and bumps
// its visit counter via IncrementVisits.
func (s *ItemStore) ResolveShortCode(ctx context.Context, code string) (*Item, error) {
	if err := s.IncrementVisits(ctx, code); err != nil {
		return nil, err
	}

	var item Item
	err := s.db.GetContext(ctx, &item,
		s.q(`SELECT * FROM items WHERE short_code = ?`), code)
	if err == sql.ErrNoRows {
		// Deleted between the update and the read.
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &item, nil
}
