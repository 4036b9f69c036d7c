package database

import (
	"context"
	"database/sql"
	"fmt"
)

// schema holds the three flat collections of the service.  There are no
// foreign keys; the booking engine checks occupancy at booking time.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS accounts (
		username      VARCHAR(64)  NOT NULL PRIMARY KEY,
		password_hash VARCHAR(255) NOT NULL,
		email         VARCHAR(255) NOT NULL,
		mobile        CHAR(10)     NOT NULL,
		created_at    DATETIME     NOT NULL
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
	`CREATE TABLE IF NOT EXISTS movies (
		movie_id    VARCHAR(128) NOT NULL PRIMARY KEY,
		title       VARCHAR(255) NOT NULL,
		genre       VARCHAR(128) NOT NULL,
		theaters    TEXT         NOT NULL,
		showtimes   TEXT         NOT NULL,
		price_cents BIGINT       NOT NULL,
		rating      VARCHAR(16)  NOT NULL DEFAULT '',
		poster      VARCHAR(512) NOT NULL DEFAULT '',
		trailer     VARCHAR(512) NOT NULL DEFAULT '',
		created_at  DATETIME     NOT NULL DEFAULT CURRENT_TIMESTAMP
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
	`CREATE TABLE IF NOT EXISTS bookings (
		booking_id     VARCHAR(36)  NOT NULL PRIMARY KEY,
		username       VARCHAR(64)  NOT NULL,
		movie_id       VARCHAR(128) NOT NULL,
		movie_title    VARCHAR(255) NOT NULL,
		theater        VARCHAR(255) NOT NULL,
		show_date      VARCHAR(10)  NOT NULL,
		show_time      VARCHAR(16)  NOT NULL,
		seats          TEXT         NOT NULL,
		price_cents    BIGINT       NOT NULL,
		payment_method VARCHAR(8)   NOT NULL,
		created_at     DATETIME     NOT NULL,
		KEY idx_bookings_showing (movie_title, theater, show_date, show_time),
		KEY idx_bookings_user (username)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
}

// Migrate creates the tables when they do not exist yet.
func Migrate(ctx context.Context, db *sql.DB) error {
	for _, stmt := range schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
	}
	return nil
}
