package postgres

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
)

const schema = `
CREATE TABLE IF NOT EXISTS spec_rows (
	id          BIGSERIAL PRIMARY KEY,
	run_id      TEXT        NOT NULL,
	label       TEXT        NOT NULL,
	locator     TEXT        NOT NULL,
	fields      TEXT[]      NOT NULL,
	created_at  TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE TABLE IF NOT EXISTS failed_items (
	id            BIGSERIAL PRIMARY KEY,
	run_id        TEXT        NOT NULL,
	label         TEXT        NOT NULL,
	locator       TEXT        NOT NULL,
	stage         TEXT        NOT NULL,
	reason        TEXT        NOT NULL,
	attempted_at  TIMESTAMPTZ NOT NULL
);

CREATE INDEX IF NOT EXISTS failed_items_run_id_idx ON failed_items (run_id);
`

// EnsureSchema creates the tables used by the row mirror and the failure log.
func EnsureSchema(ctx context.Context, db *pgxpool.Pool) error {
	_, err := db.Exec(ctx, schema)
	return err
}
