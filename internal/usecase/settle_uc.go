// File: internal/usecase/settle_uc.go
package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"society-maintenance-platform/internal/domain"
	"society-maintenance-platform/internal/domain/model"
	"society-maintenance-platform/internal/domain/ports/adapter"
	"society-maintenance-platform/internal/domain/ports/repository"
	"society-maintenance-platform/internal/infra/logging"
	"society-maintenance-platform/internal/infra/metrics"
)

// Compile-time check
var _ SettlementUseCase = (*settleUC)(nil)

// SettlementUseCase finishes a verified attempt by flipping the bill's paid
// flag in the society backend. Invoked only after a successful verification,
// by the orchestrator on the live path and by the reconciler for stuck
// attempts.
type SettlementUseCase interface {
	SettleVerified(ctx context.Context, cred adapter.Credential, p *model.Payment) error
}

type settleUC struct {
	backend  adapter.SettlementClient
	payments repository.PaymentRepository
	timeout  time.Duration
	log      *zerolog.Logger
}

func NewSettlementUseCase(backend adapter.SettlementClient, payments repository.PaymentRepository, timeout time.Duration, logger *zerolog.Logger) *settleUC {
	ucLog := logger.With().Str("component", "SettleUC").Logger()
	return &settleUC{backend: backend, payments: payments, timeout: timeout, log: &ucLog}
}

func (u *settleUC) SettleVerified(ctx context.Context, cred adapter.Credential, p *model.Payment) error {
	settleCtx, cancel := context.WithTimeout(ctx, u.timeout)
	defer cancel()

	log := logging.With(ctx, u.log)
	if err := u.backend.MarkPaid(settleCtx, cred, p.BillID); err != nil {
		metrics.IncSettlementCall("error")
		log.Error().Err(err).
			Str("bill_id", p.BillID).
			Str("order_id", p.OrderID).
			Str("payment_id", p.PaymentID).
			Msg("settlement failed after verified payment")
		return fmt.Errorf("%w: bill=%s order=%s payment=%s: %v",
			domain.ErrSettlement, p.BillID, p.OrderID, p.PaymentID, err)
	}
	metrics.IncSettlementCall("ok")

	if p.ID != "" {
		now := time.Now()
		if err := u.payments.UpdateStatus(ctx, p.ID, model.PaymentStatusSettled, nil, &now); err != nil {
			log.Error().Err(err).Str("payment", p.ID).Msg("failed to mark payment settled")
		}
	}
	metrics.IncPayment(string(model.PaymentStatusSettled))
	metrics.AddPaymentRevenue(p.Currency, p.Amount)
	return nil
}
