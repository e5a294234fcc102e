// Package postgres owns the database handle and the schema. Constraint
// names in the DDL are explicit because the stores classify storage
// failures by them; renaming a constraint is a breaking change.
package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/lib/pq"

	"subhub/pkg/outcome"
)

const (
	codeUniqueViolation     = "23505"
	codeForeignKeyViolation = "23503"
)

// Open connects to Postgres and verifies the connection.
func Open(databaseURL string) (*sql.DB, error) {
	db, err := sql.Open("postgres", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	db.SetMaxOpenConns(25)
	db.SetConnMaxIdleTime(5 * time.Minute)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	return db, nil
}

// Migrate creates the schema. The seq columns exist only to give reads a
// stable insertion order; they never surface in domain values.
func Migrate(ctx context.Context, db *sql.DB) error {
	const schema = `
CREATE TABLE IF NOT EXISTS users (
	seq   BIGSERIAL,
	id    UUID NOT NULL,
	email TEXT NOT NULL,
	CONSTRAINT users_pkey PRIMARY KEY (id),
	CONSTRAINT users_email_key UNIQUE (email)
);

CREATE TABLE IF NOT EXISTS products (
	seq               BIGSERIAL,
	id                UUID   NOT NULL,
	name              TEXT   NOT NULL,
	monthly_fee_cents BIGINT NOT NULL CHECK (monthly_fee_cents >= 0),
	status            TEXT   NOT NULL,
	CONSTRAINT products_pkey PRIMARY KEY (id),
	CONSTRAINT products_name_key UNIQUE (name)
);

CREATE TABLE IF NOT EXISTS subscriptions (
	seq        BIGSERIAL,
	id         UUID    NOT NULL,
	is_active  BOOLEAN NOT NULL,
	user_id    UUID    NOT NULL,
	product_id UUID    NOT NULL,
	CONSTRAINT subscriptions_pkey PRIMARY KEY (id),
	CONSTRAINT subscriptions_user_id_fkey FOREIGN KEY (user_id) REFERENCES users (id),
	CONSTRAINT subscriptions_product_id_fkey FOREIGN KEY (product_id) REFERENCES products (id)
);
`
	if _, err := db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("migrate schema: %w", err)
	}
	return nil
}

// ConstraintTag classifies a uniqueness or foreign-key violation into the
// failure tag registered for its constraint. Returns false for any other
// error, including violations on constraints absent from byConstraint —
// those are programming errors and must propagate as faults, never be
// coerced into a known tag.
func ConstraintTag(err error, byConstraint map[string]outcome.Tag) (outcome.Tag, bool) {
	var pqErr *pq.Error
	if !errors.As(err, &pqErr) {
		return 0, false
	}
	switch pqErr.Code {
	case codeUniqueViolation, codeForeignKeyViolation:
		tag, ok := byConstraint[pqErr.Constraint]
		return tag, ok
	}
	return 0, false
}
