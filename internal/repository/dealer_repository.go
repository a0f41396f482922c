package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/go-sql-driver/mysql"
	"github.com/google/uuid"

	"github.com/iliyamo/vehicle-advertisement/internal/model"
)

// mysqlDuplicateEntry is the server error number for unique key violations.
const mysqlDuplicateEntry = 1062

// DealerRepo stores dealers in the MySQL `dealers` table.  The
// name_key column holds the lower-cased name and carries a unique index
// so the database backs up the case-insensitive uniqueness rule.
type DealerRepo struct {
	db *sql.DB // db is the underlying database connection pool
}

// NewDealerRepo constructs a DealerRepo with the provided DB handle.
func NewDealerRepo(db *sql.DB) *DealerRepo {
	return &DealerRepo{db: db}
}

// Save inserts the dealer or overwrites the row with the same id.
func (r *DealerRepo) Save(ctx context.Context, d *model.Dealer) error {
	const q = `INSERT INTO dealers (id, name, name_key, tier_limit) VALUES (?, ?, ?, ?)
	           ON DUPLICATE KEY UPDATE name = VALUES(name), name_key = VALUES(name_key), tier_limit = VALUES(tier_limit)`
	_, err := r.db.ExecContext(ctx, q, d.ID.String(), d.Name, strings.ToLower(d.Name), d.TierLimit)
	return translateMySQLError(err)
}

// FindAll returns all dealers ordered by insertion time.
func (r *DealerRepo) FindAll(ctx context.Context) ([]*model.Dealer, error) {
	const q = `SELECT id, name, tier_limit FROM dealers ORDER BY created_at, id`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*model.Dealer
	for rows.Next() {
		d := new(model.Dealer)
		if err := rows.Scan(&d.ID, &d.Name, &d.TierLimit); err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// FindByID fetches a dealer by id.  It returns ErrNotFound if no row is found.
func (r *DealerRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Dealer, error) {
	const q = `SELECT id, name, tier_limit FROM dealers WHERE id = ?`
	var d model.Dealer
	if err := r.db.QueryRowContext(ctx, q, id.String()).Scan(&d.ID, &d.Name, &d.TierLimit); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &d, nil
}

// translateMySQLError maps duplicate key violations onto ErrDuplicate and
// passes every other error through unchanged.
func translateMySQLError(err error) error {
	var me *mysql.MySQLError
	if errors.As(err, &me) && me.Number == mysqlDuplicateEntry {
		return ErrDuplicate
	}
	return err
}
