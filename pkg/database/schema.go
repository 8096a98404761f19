package database

import (
	"context"

	errs "lostfound-matching/pkg/errors"
)

// The unique key on (lost_item_id, found_item_id) is what enforces the
// one-match-per-pair invariant under concurrent creates; CreateMatchCtx
// maps the duplicate-key error to a Conflict.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS items (
		id            VARCHAR(64)  NOT NULL,
		kind          VARCHAR(8)   NOT NULL,
		category      VARCHAR(16)  NOT NULL,
		title         VARCHAR(255) NOT NULL,
		description   TEXT         NOT NULL,
		tags          TEXT         NOT NULL,
		location_name VARCHAR(255) NOT NULL DEFAULT '',
		lat           DOUBLE       NULL,
		lng           DOUBLE       NULL,
		status        VARCHAR(16)  NOT NULL DEFAULT 'active',
		created_at    TIMESTAMP    NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at    TIMESTAMP    NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
		PRIMARY KEY (id),
		KEY idx_items_kind_status (kind, status)
	)`,
	`CREATE TABLE IF NOT EXISTS matches (
		id             CHAR(36)    NOT NULL,
		lost_item_id   VARCHAR(64) NOT NULL,
		found_item_id  VARCHAR(64) NOT NULL,
		similarity     DOUBLE      NOT NULL,
		matched_fields TEXT        NOT NULL,
		status         VARCHAR(16) NOT NULL DEFAULT 'pending',
		notes          TEXT        NULL,
		created_at     TIMESTAMP   NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at     TIMESTAMP   NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
		PRIMARY KEY (id),
		UNIQUE KEY uq_matches_pair (lost_item_id, found_item_id),
		KEY idx_matches_lost (lost_item_id),
		KEY idx_matches_found (found_item_id)
	)`,
}

// EnsureSchema creates the items and matches tables if absent.
func (db *DB) EnsureSchema(ctx context.Context) error {
	ctx, cancel := db.withWriteTimeout(ctx)
	defer cancel()
	for _, stmt := range schema {
		if _, err := db.conn.ExecContext(ctx, stmt); err != nil {
			return errs.NewDB("database.EnsureSchema", "create table failed", err)
		}
	}
	return nil
}
