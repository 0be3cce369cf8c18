package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/payloop/adyen-gateway/internal/application"
)

// queryEngine is the subset of pgx shared by a pool and an open transaction,
// so a repository can run against either.
type queryEngine interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Begin(ctx context.Context) (pgx.Tx, error)
}

// TransactionCoordinator runs work spanning multiple repositories inside one
// database transaction.
type TransactionCoordinator struct {
	pool *pgxpool.Pool
}

func NewTransactionCoordinator(db *DB) *TransactionCoordinator {
	return &TransactionCoordinator{pool: db.Pool}
}

// WithTransaction executes fn with transaction-scoped repositories. Every
// write fn performs commits together or not at all; an error from fn rolls
// all of them back.
func (tc *TransactionCoordinator) WithTransaction(
	ctx context.Context,
	fn func(ctx context.Context, payments application.PaymentRepository, notifications application.NotificationStore) error,
) error {
	tx, err := tc.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	txPaymentRepo := &PaymentRepository{q: tx}
	txNotificationRepo := &NotificationRepository{q: tx}

	if err := fn(ctx, txPaymentRepo, txNotificationRepo); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}
