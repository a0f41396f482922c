package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/iliyamo/vehicle-advertisement/internal/model"
)

// ListingRepo stores listings in the MySQL `listings` table.  Reads join
// `dealers` so each listing comes back with its dealer snapshot.  All
// timestamps are written and read in UTC.
type ListingRepo struct {
	db *sql.DB
}

// NewListingRepo returns a new ListingRepo bound to the given database.
func NewListingRepo(db *sql.DB) *ListingRepo { return &ListingRepo{db: db} }

const listingSelect = `SELECT l.id, l.dealer_id, COALESCE(d.name, ''), l.vehicle, l.price, l.state,
                              l.created_at, l.updated_at, l.published_at
                       FROM listings l
                       LEFT JOIN dealers d ON d.id = l.dealer_id`

// Save upserts every listing inside a single transaction so that an
// eviction and the publish that caused it commit together.
func (r *ListingRepo) Save(ctx context.Context, listings ...*model.Listing) error {
	if len(listings) == 0 {
		return nil
	}
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	const q = `INSERT INTO listings (id, dealer_id, vehicle, price, state, created_at, updated_at, published_at)
	           VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	           ON DUPLICATE KEY UPDATE dealer_id = VALUES(dealer_id), vehicle = VALUES(vehicle),
	               price = VALUES(price), state = VALUES(state), updated_at = VALUES(updated_at),
	               published_at = VALUES(published_at)`
	for _, l := range listings {
		if _, err := tx.ExecContext(ctx, q,
			l.ID.String(), l.Dealer.ID.String(), l.Vehicle, l.Price, string(l.State),
			l.CreatedAt.UTC(), nullTime(l.UpdatedAt), nullTime(l.PublishedAt),
		); err != nil {
			return translateMySQLError(err)
		}
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	committed = true
	return nil
}

// FindAll returns all listings ordered by creation time.
func (r *ListingRepo) FindAll(ctx context.Context) ([]*model.Listing, error) {
	rows, err := r.db.QueryContext(ctx, listingSelect+` ORDER BY l.created_at, l.id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*model.Listing
	for rows.Next() {
		l, err := scanListing(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, l)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// FindByID fetches one listing.  It returns ErrNotFound if no row is found.
func (r *ListingRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Listing, error) {
	l, err := scanListing(r.db.QueryRowContext(ctx, listingSelect+` WHERE l.id = ?`, id.String()))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return l, nil
}

// rowScanner is satisfied by both *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanListing(s rowScanner) (*model.Listing, error) {
	var (
		l         model.Listing
		state     string
		updated   sql.NullTime
		published sql.NullTime
	)
	if err := s.Scan(&l.ID, &l.Dealer.ID, &l.Dealer.Name, &l.Vehicle, &l.Price, &state,
		&l.CreatedAt, &updated, &published); err != nil {
		return nil, err
	}
	l.State = model.ListingState(state)
	l.CreatedAt = l.CreatedAt.UTC()
	if updated.Valid {
		t := updated.Time.UTC()
		l.UpdatedAt = &t
	}
	if published.Valid {
		t := published.Time.UTC()
		l.PublishedAt = &t
	}
	return &l, nil
}

func nullTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: t.UTC(), Valid: true}
}
