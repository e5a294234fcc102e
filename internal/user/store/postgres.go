package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"subhub/internal/platform/postgres"
	productmodels "subhub/internal/product/models"
	subscriptionmodels "subhub/internal/subscription/models"
	"subhub/internal/user/models"
	"subhub/pkg/domain"
	"subhub/pkg/outcome"
)

// userConstraints maps schema constraint names to the failure tags their
// violations represent. Violations on any other constraint are faults.
var userConstraints = map[string]outcome.Tag{
	"users_pkey":      outcome.TagIDExists,
	"users_email_key": outcome.TagEmailExists,
}

// Postgres persists users. Read shapes materialize the user's
// subscriptions with their products in subscription insertion order.
type Postgres struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *Postgres {
	return &Postgres{db: db}
}

func (s *Postgres) Create(ctx context.Context, user models.User) (outcome.Result[outcome.Unit], error) {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO users (id, email) VALUES ($1, $2)`,
		uuid.UUID(user.ID), user.Email,
	)
	if err != nil {
		if tag, ok := postgres.ConstraintTag(err, userConstraints); ok {
			return outcome.Fail[outcome.Unit](tag), nil
		}
		return outcome.Result[outcome.Unit]{}, fmt.Errorf("create user: %w", err)
	}
	return outcome.Ok(outcome.Unit{}), nil
}

func (s *Postgres) ReadByID(ctx context.Context, id domain.UserID) (outcome.Result[models.UserWithSubscriptions], error) {
	row := s.db.QueryRowContext(ctx, `SELECT id, email FROM users WHERE id = $1`, uuid.UUID(id))
	return s.scanUser(ctx, row, "read user by id")
}

func (s *Postgres) ReadByEmail(ctx context.Context, email string) (outcome.Result[models.UserWithSubscriptions], error) {
	row := s.db.QueryRowContext(ctx, `SELECT id, email FROM users WHERE email = $1`, email)
	return s.scanUser(ctx, row, "read user by email")
}

func (s *Postgres) ReadAll(ctx context.Context) ([]models.UserWithSubscriptions, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, email FROM users ORDER BY seq`)
	if err != nil {
		return nil, fmt.Errorf("read users: %w", err)
	}
	defer rows.Close()

	var users []models.User
	for rows.Next() {
		var user models.User
		var id uuid.UUID
		if err := rows.Scan(&id, &user.Email); err != nil {
			return nil, fmt.Errorf("scan user: %w", err)
		}
		user.ID = domain.UserID(id)
		users = append(users, user)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("read users: %w", err)
	}

	grouped, err := s.subscriptionsByUser(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]models.UserWithSubscriptions, 0, len(users))
	for _, user := range users {
		subs := grouped[user.ID]
		if subs == nil {
			subs = []subscriptionmodels.WithProduct{}
		}
		out = append(out, models.UserWithSubscriptions{User: user, Subscriptions: subs})
	}
	return out, nil
}

func (s *Postgres) Update(ctx context.Context, user models.User) (outcome.Result[models.UserWithSubscriptions], error) {
	res, err := s.db.ExecContext(ctx,
		`UPDATE users SET email = $2 WHERE id = $1`,
		uuid.UUID(user.ID), user.Email,
	)
	if err != nil {
		if tag, ok := postgres.ConstraintTag(err, userConstraints); ok {
			return outcome.Fail[models.UserWithSubscriptions](tag), nil
		}
		return outcome.Result[models.UserWithSubscriptions]{}, fmt.Errorf("update user: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return outcome.Result[models.UserWithSubscriptions]{}, fmt.Errorf("update user: %w", err)
	}
	if affected == 0 {
		return outcome.Fail[models.UserWithSubscriptions](outcome.TagUserNotFound), nil
	}

	subs, err := s.subscriptionsForUser(ctx, user.ID)
	if err != nil {
		return outcome.Result[models.UserWithSubscriptions]{}, err
	}
	return outcome.Ok(models.UserWithSubscriptions{User: user, Subscriptions: subs}), nil
}

func (s *Postgres) Delete(ctx context.Context, id domain.UserID) (outcome.Result[outcome.Unit], error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM users WHERE id = $1`, uuid.UUID(id))
	if err != nil {
		return outcome.Result[outcome.Unit]{}, fmt.Errorf("delete user: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return outcome.Result[outcome.Unit]{}, fmt.Errorf("delete user: %w", err)
	}
	if affected == 0 {
		return outcome.Fail[outcome.Unit](outcome.TagUserNotFound), nil
	}
	return outcome.Ok(outcome.Unit{}), nil
}

func (s *Postgres) scanUser(ctx context.Context, row *sql.Row, op string) (outcome.Result[models.UserWithSubscriptions], error) {
	var user models.User
	var id uuid.UUID
	if err := row.Scan(&id, &user.Email); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return outcome.Fail[models.UserWithSubscriptions](outcome.TagUserNotFound), nil
		}
		return outcome.Result[models.UserWithSubscriptions]{}, fmt.Errorf("%s: %w", op, err)
	}
	user.ID = domain.UserID(id)

	subs, err := s.subscriptionsForUser(ctx, user.ID)
	if err != nil {
		return outcome.Result[models.UserWithSubscriptions]{}, err
	}
	return outcome.Ok(models.UserWithSubscriptions{User: user, Subscriptions: subs}), nil
}

const subscriptionColumns = `s.id, s.is_active, p.id, p.name, p.monthly_fee_cents, p.status`

func (s *Postgres) subscriptionsForUser(ctx context.Context, id domain.UserID) ([]subscriptionmodels.WithProduct, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+subscriptionColumns+`
		 FROM subscriptions s
		 JOIN products p ON p.id = s.product_id
		 WHERE s.user_id = $1
		 ORDER BY s.seq`,
		uuid.UUID(id),
	)
	if err != nil {
		return nil, fmt.Errorf("read subscriptions for user: %w", err)
	}
	defer rows.Close()
	return scanSubscriptions(rows)
}

// subscriptionsByUser loads every subscription read shape grouped by
// owning user, two queries total for ReadAll.
func (s *Postgres) subscriptionsByUser(ctx context.Context) (map[domain.UserID][]subscriptionmodels.WithProduct, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT s.user_id, `+subscriptionColumns+`
		 FROM subscriptions s
		 JOIN products p ON p.id = s.product_id
		 ORDER BY s.seq`,
	)
	if err != nil {
		return nil, fmt.Errorf("read subscriptions: %w", err)
	}
	defer rows.Close()

	grouped := make(map[domain.UserID][]subscriptionmodels.WithProduct)
	for rows.Next() {
		var userID uuid.UUID
		sub, err := scanSubscription(rows, &userID)
		if err != nil {
			return nil, err
		}
		grouped[domain.UserID(userID)] = append(grouped[domain.UserID(userID)], sub)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("read subscriptions: %w", err)
	}
	return grouped, nil
}

func scanSubscriptions(rows *sql.Rows) ([]subscriptionmodels.WithProduct, error) {
	out := []subscriptionmodels.WithProduct{}
	for rows.Next() {
		sub, err := scanSubscription(rows, nil)
		if err != nil {
			return nil, err
		}
		out = append(out, sub)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("scan subscriptions: %w", err)
	}
	return out, nil
}

// scanSubscription reads one joined subscription+product row. When
// userID is non-nil the row is expected to lead with s.user_id.
func scanSubscription(rows *sql.Rows, userID *uuid.UUID) (subscriptionmodels.WithProduct, error) {
	var sub subscriptionmodels.WithProduct
	var subID, productID uuid.UUID
	var status string

	dest := []any{&subID, &sub.IsActive, &productID, &sub.Product.Name, &sub.Product.MonthlyFeeCents, &status}
	if userID != nil {
		dest = append([]any{userID}, dest...)
	}
	if err := rows.Scan(dest...); err != nil {
		return subscriptionmodels.WithProduct{}, fmt.Errorf("scan subscription: %w", err)
	}
	sub.ID = domain.SubscriptionID(subID)
	sub.Product.ID = domain.ProductID(productID)
	sub.Product.Status = productmodels.Status(status)
	return sub, nil
}
