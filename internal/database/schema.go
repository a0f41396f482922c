package database

import (
	"context"
	"database/sql"
	"fmt"
)

// schema lists the DDL statements applied by Migrate, in order.  Every
// statement is idempotent so Migrate can run on each start.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS dealers (
		id         CHAR(36)     NOT NULL,
		name       VARCHAR(255) NOT NULL,
		name_key   VARCHAR(255) NOT NULL,
		tier_limit INT UNSIGNED NOT NULL,
		created_at DATETIME(6)  NOT NULL DEFAULT CURRENT_TIMESTAMP(6),
		PRIMARY KEY (id),
		UNIQUE KEY uq_dealers_name_key (name_key)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4 COLLATE=utf8mb4_bin`,
	`CREATE TABLE IF NOT EXISTS listings (
		id           CHAR(36)                   NOT NULL,
		dealer_id    CHAR(36)                   NOT NULL,
		vehicle      VARCHAR(512)               NOT NULL,
		price        DOUBLE                     NOT NULL,
		state        ENUM('draft', 'published') NOT NULL DEFAULT 'draft',
		created_at   DATETIME(6)                NOT NULL,
		updated_at   DATETIME(6)                NULL,
		published_at DATETIME(6)                NULL,
		PRIMARY KEY (id),
		KEY idx_listings_dealer_state (dealer_id, state),
		CONSTRAINT fk_listings_dealer FOREIGN KEY (dealer_id) REFERENCES dealers (id)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4 COLLATE=utf8mb4_bin`,
}

// Migrate creates the dealers and listings tables when they are missing.
func Migrate(ctx context.Context, db *sql.DB) error {
	for i, stmt := range schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migrate step %d: %w", i+1, err)
		}
	}
	return nil
}
