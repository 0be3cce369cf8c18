package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/payloop/adyen-gateway/internal/domain"
)

type PaymentRepository struct {
	q queryEngine
}

func NewPaymentRepository(db *DB) *PaymentRepository {
	return &PaymentRepository{q: db.Pool}
}

const paymentColumns = `
	id, merchant_reference, amount_minor, currency, status,
	method, psp_reference, failure_reason, raw_response, return_url,
	created_at, updated_at`

func (r *PaymentRepository) Create(ctx context.Context, payment *domain.Payment) error {
	query := `
		INSERT INTO payments (
			id, merchant_reference, amount_minor, currency, status,
			method, psp_reference, failure_reason, raw_response, return_url,
			created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`

	p := toDBModel(payment)
	_, err := r.q.Exec(ctx, query,
		p.ID,
		p.MerchantReference,
		p.AmountMinor,
		p.Currency,
		p.Status,
		p.Method,
		p.PSPReference,
		p.FailureReason,
		p.RawResponse,
		p.ReturnURL,
		p.CreatedAt,
		p.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create payment: %w", err)
	}

	return nil
}

// FindByID retrieves a payment with its audit notes
func (r *PaymentRepository) FindByID(ctx context.Context, id string) (*domain.Payment, error) {
	query := `SELECT` + paymentColumns + ` FROM payments WHERE id = $1`
	return r.findOne(ctx, query, id)
}

// FindByMerchantReference retrieves the payment a provider callback refers to
func (r *PaymentRepository) FindByMerchantReference(ctx context.Context, ref string) (*domain.Payment, error) {
	query := `SELECT` + paymentColumns + ` FROM payments WHERE merchant_reference = $1`
	return r.findOne(ctx, query, ref)
}

func (r *PaymentRepository) findOne(ctx context.Context, query string, arg any) (*domain.Payment, error) {
	row := r.q.QueryRow(ctx, query, arg)

	p, err := scanPayment(row)
	if err != nil {
		return nil, err
	}

	notes, err := r.loadNotes(ctx, p.ID)
	if err != nil {
		return nil, err
	}

	return toDomain(p, notes), nil
}

// Update persists the payment row and appends any new audit notes in one
// transaction. Note inserts are keyed by the note id, so re-persisting an
// already stored note is a no-op. Under a coordinator transaction Begin
// opens a savepoint instead of a new transaction.
func (r *PaymentRepository) Update(ctx context.Context, payment *domain.Payment) error {
	tx, err := r.q.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	query := `
		UPDATE payments SET
			status = $2,
			method = $3,
			psp_reference = $4,
			failure_reason = $5,
			raw_response = $6,
			updated_at = $7
		WHERE id = $1
	`

	p := toDBModel(payment)
	tag, err := tx.Exec(ctx, query,
		p.ID,
		p.Status,
		p.Method,
		p.PSPReference,
		p.FailureReason,
		p.RawResponse,
		p.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to update payment: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.NewPaymentNotFoundError(payment.ID)
	}

	noteQuery := `
		INSERT INTO payment_notes (id, payment_id, kind, body, created_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (id) DO NOTHING
	`
	for _, note := range payment.Notes {
		if _, err := tx.Exec(ctx, noteQuery, note.ID, payment.ID, note.Kind, []byte(note.Body), note.CreatedAt); err != nil {
			return fmt.Errorf("failed to insert payment note: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit payment update: %w", err)
	}

	return nil
}

// FindOpenOlderThan lists OPEN payments that have not been touched for the
// given duration, oldest first, for the status poller.
func (r *PaymentRepository) FindOpenOlderThan(ctx context.Context, age time.Duration, limit int) ([]*domain.Payment, error) {
	query := `SELECT` + paymentColumns + `
		FROM payments
		WHERE status = $1 AND updated_at < $2
		ORDER BY updated_at ASC
		LIMIT $3`

	cutoff := time.Now().Add(-age)
	rows, err := r.q.Query(ctx, query, string(domain.StatusOpen), cutoff, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query open payments: %w", err)
	}
	defer rows.Close()

	var payments []*domain.Payment
	for rows.Next() {
		p, err := scanPayment(rows)
		if err != nil {
			return nil, err
		}
		// The poller only needs the row fields; notes are loaded lazily
		// when a payment is reconciled.
		payments = append(payments, toDomain(p, nil))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate open payments: %w", err)
	}

	return payments, nil
}

func (r *PaymentRepository) loadNotes(ctx context.Context, paymentID string) ([]noteRow, error) {
	query := `
		SELECT id, payment_id, kind, body, created_at
		FROM payment_notes
		WHERE payment_id = $1
		ORDER BY created_at ASC
	`

	rows, err := r.q.Query(ctx, query, paymentID)
	if err != nil {
		return nil, fmt.Errorf("failed to query payment notes: %w", err)
	}
	defer rows.Close()

	var notes []noteRow
	for rows.Next() {
		var n noteRow
		if err := rows.Scan(&n.ID, &n.PaymentID, &n.Kind, &n.Body, &n.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan payment note: %w", err)
		}
		notes = append(notes, n)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate payment notes: %w", err)
	}

	return notes, nil
}

func scanPayment(row pgx.Row) (paymentRow, error) {
	var p paymentRow
	err := row.Scan(
		&p.ID,
		&p.MerchantReference,
		&p.AmountMinor,
		&p.Currency,
		&p.Status,
		&p.Method,
		&p.PSPReference,
		&p.FailureReason,
		&p.RawResponse,
		&p.ReturnURL,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return paymentRow{}, domain.NewPaymentNotFoundError("")
		}
		return paymentRow{}, fmt.Errorf("failed to scan payment: %w", err)
	}
	return p, nil
}
