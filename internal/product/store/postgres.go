package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"subhub/internal/platform/postgres"
	"subhub/internal/product/models"
	"subhub/pkg/domain"
	"subhub/pkg/outcome"
)

var productConstraints = map[string]outcome.Tag{
	"products_pkey":     outcome.TagIDExists,
	"products_name_key": outcome.TagNameExists,
}

// Postgres persists products.
type Postgres struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *Postgres {
	return &Postgres{db: db}
}

func (s *Postgres) Create(ctx context.Context, product models.Product) (outcome.Result[outcome.Unit], error) {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO products (id, name, monthly_fee_cents, status) VALUES ($1, $2, $3, $4)`,
		uuid.UUID(product.ID), product.Name, product.MonthlyFeeCents, string(product.Status),
	)
	if err != nil {
		if tag, ok := postgres.ConstraintTag(err, productConstraints); ok {
			return outcome.Fail[outcome.Unit](tag), nil
		}
		return outcome.Result[outcome.Unit]{}, fmt.Errorf("create product: %w", err)
	}
	return outcome.Ok(outcome.Unit{}), nil
}

func (s *Postgres) ReadByID(ctx context.Context, id domain.ProductID) (outcome.Result[models.Product], error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, name, monthly_fee_cents, status FROM products WHERE id = $1`,
		uuid.UUID(id),
	)
	return scanProduct(row, "read product by id")
}

func (s *Postgres) ReadByName(ctx context.Context, name string) (outcome.Result[models.Product], error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, name, monthly_fee_cents, status FROM products WHERE name = $1`,
		name,
	)
	return scanProduct(row, "read product by name")
}

func (s *Postgres) ReadAll(ctx context.Context) ([]models.Product, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, name, monthly_fee_cents, status FROM products ORDER BY seq`,
	)
	if err != nil {
		return nil, fmt.Errorf("read products: %w", err)
	}
	defer rows.Close()

	out := []models.Product{}
	for rows.Next() {
		var product models.Product
		var id uuid.UUID
		var status string
		if err := rows.Scan(&id, &product.Name, &product.MonthlyFeeCents, &status); err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		product.ID = domain.ProductID(id)
		product.Status = models.Status(status)
		out = append(out, product)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("read products: %w", err)
	}
	return out, nil
}

func (s *Postgres) Update(ctx context.Context, product models.Product) (outcome.Result[models.Product], error) {
	row := s.db.QueryRowContext(ctx,
		`UPDATE products SET name = $2, monthly_fee_cents = $3, status = $4
		 WHERE id = $1
		 RETURNING id, name, monthly_fee_cents, status`,
		uuid.UUID(product.ID), product.Name, product.MonthlyFeeCents, string(product.Status),
	)
	res, err := scanProduct(row, "update product")
	if err != nil {
		if tag, ok := postgres.ConstraintTag(err, productConstraints); ok {
			return outcome.Fail[models.Product](tag), nil
		}
		return outcome.Result[models.Product]{}, err
	}
	return res, nil
}

func (s *Postgres) Delete(ctx context.Context, id domain.ProductID) (outcome.Result[outcome.Unit], error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM products WHERE id = $1`, uuid.UUID(id))
	if err != nil {
		return outcome.Result[outcome.Unit]{}, fmt.Errorf("delete product: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return outcome.Result[outcome.Unit]{}, fmt.Errorf("delete product: %w", err)
	}
	if affected == 0 {
		return outcome.Fail[outcome.Unit](outcome.TagProductNotFound), nil
	}
	return outcome.Ok(outcome.Unit{}), nil
}

// scanProduct translates a single-row read: no row means the product
// does not exist, constraint violations stay wrapped for the caller to
// classify, anything else is a fault.
func scanProduct(row *sql.Row, op string) (outcome.Result[models.Product], error) {
	var product models.Product
	var id uuid.UUID
	var status string
	if err := row.Scan(&id, &product.Name, &product.MonthlyFeeCents, &status); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return outcome.Fail[models.Product](outcome.TagProductNotFound), nil
		}
		return outcome.Result[models.Product]{}, fmt.Errorf("%s: %w", op, err)
	}
	product.ID = domain.ProductID(id)
	product.Status = models.Status(status)
	return outcome.Ok(product), nil
}
