package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"subhub/internal/platform/postgres"
	productmodels "subhub/internal/product/models"
	"subhub/internal/subscription/models"
	"subhub/pkg/domain"
	"subhub/pkg/outcome"
)

// subscriptionConstraints also classifies foreign-key violations: the
// service pre-validates references, but a concurrent delete can still
// surface as a constraint violation at insert time, and callers must see
// the same tag the pre-check would have produced.
var subscriptionConstraints = map[string]outcome.Tag{
	"subscriptions_pkey":            outcome.TagIDExists,
	"subscriptions_user_id_fkey":    outcome.TagUserNotFound,
	"subscriptions_product_id_fkey": outcome.TagProductNotFound,
}

// Postgres persists subscriptions. Reads materialize the referenced
// product.
type Postgres struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *Postgres {
	return &Postgres{db: db}
}

func (s *Postgres) Create(ctx context.Context, sub models.Subscription) (outcome.Result[outcome.Unit], error) {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO subscriptions (id, is_active, user_id, product_id) VALUES ($1, $2, $3, $4)`,
		uuid.UUID(sub.ID), sub.IsActive, uuid.UUID(sub.UserID), uuid.UUID(sub.ProductID),
	)
	if err != nil {
		if tag, ok := postgres.ConstraintTag(err, subscriptionConstraints); ok {
			return outcome.Fail[outcome.Unit](tag), nil
		}
		return outcome.Result[outcome.Unit]{}, fmt.Errorf("create subscription: %w", err)
	}
	return outcome.Ok(outcome.Unit{}), nil
}

func (s *Postgres) ReadByID(ctx context.Context, id domain.SubscriptionID) (outcome.Result[models.WithProduct], error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT s.id, s.is_active, p.id, p.name, p.monthly_fee_cents, p.status
		 FROM subscriptions s
		 JOIN products p ON p.id = s.product_id
		 WHERE s.id = $1`,
		uuid.UUID(id),
	)
	return scanWithProduct(row, "read subscription by id")
}

func (s *Postgres) ReadAll(ctx context.Context) ([]models.WithProduct, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT s.id, s.is_active, p.id, p.name, p.monthly_fee_cents, p.status
		 FROM subscriptions s
		 JOIN products p ON p.id = s.product_id
		 ORDER BY s.seq`,
	)
	if err != nil {
		return nil, fmt.Errorf("read subscriptions: %w", err)
	}
	defer rows.Close()

	out := []models.WithProduct{}
	for rows.Next() {
		var sub models.WithProduct
		var subID, productID uuid.UUID
		var status string
		if err := rows.Scan(&subID, &sub.IsActive, &productID, &sub.Product.Name, &sub.Product.MonthlyFeeCents, &status); err != nil {
			return nil, fmt.Errorf("scan subscription: %w", err)
		}
		sub.ID = domain.SubscriptionID(subID)
		sub.Product.ID = domain.ProductID(productID)
		sub.Product.Status = productmodels.Status(status)
		out = append(out, sub)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("read subscriptions: %w", err)
	}
	return out, nil
}

func (s *Postgres) Update(ctx context.Context, sub models.Subscription) (outcome.Result[models.WithProduct], error) {
	res, err := s.db.ExecContext(ctx,
		`UPDATE subscriptions SET is_active = $2, user_id = $3, product_id = $4 WHERE id = $1`,
		uuid.UUID(sub.ID), sub.IsActive, uuid.UUID(sub.UserID), uuid.UUID(sub.ProductID),
	)
	if err != nil {
		if tag, ok := postgres.ConstraintTag(err, subscriptionConstraints); ok {
			return outcome.Fail[models.WithProduct](tag), nil
		}
		return outcome.Result[models.WithProduct]{}, fmt.Errorf("update subscription: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return outcome.Result[models.WithProduct]{}, fmt.Errorf("update subscription: %w", err)
	}
	if affected == 0 {
		return outcome.Fail[models.WithProduct](outcome.TagSubscriptionNotFound), nil
	}
	return s.ReadByID(ctx, sub.ID)
}

func (s *Postgres) Delete(ctx context.Context, id domain.SubscriptionID) (outcome.Result[outcome.Unit], error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM subscriptions WHERE id = $1`, uuid.UUID(id))
	if err != nil {
		return outcome.Result[outcome.Unit]{}, fmt.Errorf("delete subscription: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return outcome.Result[outcome.Unit]{}, fmt.Errorf("delete subscription: %w", err)
	}
	if affected == 0 {
		return outcome.Fail[outcome.Unit](outcome.TagSubscriptionNotFound), nil
	}
	return outcome.Ok(outcome.Unit{}), nil
}

func scanWithProduct(row *sql.Row, op string) (outcome.Result[models.WithProduct], error) {
	var sub models.WithProduct
	var subID, productID uuid.UUID
	var status string
	if err := row.Scan(&subID, &sub.IsActive, &productID, &sub.Product.Name, &sub.Product.MonthlyFeeCents, &status); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return outcome.Fail[models.WithProduct](outcome.TagSubscriptionNotFound), nil
		}
		return outcome.Result[models.WithProduct]{}, fmt.Errorf("%s: %w", op, err)
	}
	sub.ID = domain.SubscriptionID(subID)
	sub.Product.ID = domain.ProductID(productID)
	sub.Product.Status = productmodels.Status(status)
	return outcome.Ok(sub), nil
}
