// File: internal/infra/sched/settlement_reconciler.go
package sched

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"society-maintenance-platform/internal/domain/ports/adapter"
	"society-maintenance-platform/internal/domain/ports/repository"
	"society-maintenance-platform/internal/infra/metrics"
	"society-maintenance-platform/internal/usecase"
)

// SettlementReconciler periodically scans for attempts that verified but never
// settled and retries settlement with the service credential. This covers the
// crash window between a positive verification and the backend write, where
// the resident has paid but the bill still reads unpaid.
type SettlementReconciler struct {
	settle      usecase.SettlementUseCase
	payments    repository.PaymentRepository
	serviceCred adapter.Credential
	interval    time.Duration // how often to scan
	staleAfter  time.Duration // how old a verified attempt must be to retry
	log         *zerolog.Logger
}

func NewSettlementReconciler(
	settle usecase.SettlementUseCase,
	payments repository.PaymentRepository,
	serviceCred adapter.Credential,
	interval, staleAfter time.Duration,
	logger *zerolog.Logger,
) *SettlementReconciler {
	if interval <= 0 {
		interval = time.Minute
	}
	if staleAfter <= 0 {
		staleAfter = 10 * time.Minute
	}
	wLog := logger.With().Str("component", "SettlementReconciler").Logger()
	return &SettlementReconciler{
		settle:      settle,
		payments:    payments,
		serviceCred: serviceCred,
		interval:    interval,
		staleAfter:  staleAfter,
		log:         &wLog,
	}
}

func (w *SettlementReconciler) Start(ctx context.Context) {
	t := time.NewTicker(w.interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			w.tick(ctx)
		}
	}
}

func (w *SettlementReconciler) tick(ctx context.Context) {
	metrics.IncReconcilerSweep()

	cutoff := time.Now().Add(-w.staleAfter)
	stuck, err := w.payments.ListVerifiedOlderThan(ctx, cutoff, 200)
	if err != nil {
		w.log.Error().Err(err).Msg("listing verified attempts failed")
		return
	}

	recovered := 0
	for _, p := range stuck {
		if p.BillID == "" {
			continue
		}
		if err := w.settle.SettleVerified(ctx, w.serviceCred, p); err != nil {
			w.log.Warn().Err(err).
				Str("payment", p.ID).
				Str("bill_id", p.BillID).
				Msg("retry settlement failed")
			continue
		}
		recovered++
		w.log.Info().Str("payment", p.ID).Str("bill_id", p.BillID).Msg("reconciled stuck payment")
	}
	if recovered > 0 {
		metrics.AddReconcilerRecovered(recovered)
	}
}
