package worker

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/payloop/adyen-gateway/internal/application"
	"github.com/payloop/adyen-gateway/internal/domain"
)

// StatusWorker sweeps OPEN payments the shopper abandoned. The provider
// only pushes status over webhooks, so a payment whose notifications never
// arrive would stay OPEN forever; after the expiry deadline the sweep
// closes it as EXPIRED. A later AUTHORISATION webhook can still flip an
// expired payment to SUCCESS through the normal non-regression rules.
type StatusWorker struct {
	payments    application.PaymentRepository
	interval    time.Duration
	batchSize   int
	gracePeriod time.Duration
	expireAfter time.Duration
	logger      *slog.Logger
}

func NewStatusWorker(
	payments application.PaymentRepository,
	interval time.Duration,
	batchSize int,
	gracePeriod time.Duration,
	expireAfter time.Duration,
	logger *slog.Logger,
) *StatusWorker {
	return &StatusWorker{
		payments:    payments,
		interval:    interval,
		batchSize:   batchSize,
		gracePeriod: gracePeriod,
		expireAfter: expireAfter,
		logger:      logger,
	}
}

func (w *StatusWorker) Start(ctx context.Context) {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	w.logger.Info("starting payment status worker",
		"interval", w.interval,
		"batch_size", w.batchSize,
		"expire_after", w.expireAfter,
	)

	for {
		select {
		case <-ctx.Done():
			w.logger.Info("stopping payment status worker")
			return
		case <-ticker.C:
			w.RunOnce(ctx)
		}
	}
}

// RunOnce executes a single sweep cycle.
func (w *StatusWorker) RunOnce(ctx context.Context) {
	stale, err := w.payments.FindOpenOlderThan(ctx, w.gracePeriod, w.batchSize)
	if err != nil {
		w.logger.Error("failed to fetch stale open payments", "error", err)
		return
	}

	if len(stale) == 0 {
		return
	}

	w.logger.Info("sweeping stale open payments", "count", len(stale))

	deadline := time.Now().Add(-w.expireAfter)
	for _, p := range stale {
		if p.UpdatedAt.After(deadline) {
			// Still inside the expiry window; a webhook may yet arrive.
			w.logger.Info("payment still pending",
				"payment_id", p.ID,
				"open_since", p.UpdatedAt,
			)
			continue
		}

		w.expire(ctx, p)
	}
}

func (w *StatusWorker) expire(ctx context.Context, p *domain.Payment) {
	if !p.AdvanceTo(domain.StatusExpired) {
		return
	}

	note, _ := json.Marshal(map[string]string{
		"reason": "no provider notification before expiry deadline",
	})
	p.AppendNote("expired", note)

	if err := w.payments.Update(ctx, p); err != nil {
		w.logger.Error("failed to expire payment",
			"payment_id", p.ID,
			"error", err,
		)
		return
	}

	w.logger.Info("payment expired",
		"payment_id", p.ID,
		"merchant_reference", p.MerchantReference,
	)
}
