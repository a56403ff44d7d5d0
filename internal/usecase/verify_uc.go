// File: internal/usecase/verify_uc.go
package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"society-maintenance-platform/internal/domain"
	"society-maintenance-platform/internal/domain/model"
	"society-maintenance-platform/internal/domain/ports/repository"
	"society-maintenance-platform/internal/infra/logging"
	"society-maintenance-platform/internal/infra/metrics"
	"society-maintenance-platform/internal/signature"
)

// Compile-time check
var _ VerifyUseCase = (*verifyUC)(nil)

type VerifyUseCase interface {
	// Verify authenticates a client-submitted completion. A mismatch or a
	// replay is a negative verdict with a nil error; errors are reserved for
	// malformed input and server faults. No bill mutation happens here.
	Verify(ctx context.Context, completion model.PaymentCompletion) (model.VerificationResult, error)
}

type verifyUC struct {
	payments repository.PaymentRepository
	guard    repository.CompletionGuard
	secret   string
	guardTTL time.Duration
	log      *zerolog.Logger
}

func NewVerifyUseCase(payments repository.PaymentRepository, guard repository.CompletionGuard, secret string, guardTTL time.Duration, logger *zerolog.Logger) *verifyUC {
	ucLog := logger.With().Str("component", "VerifyUC").Logger()
	return &verifyUC{payments: payments, guard: guard, secret: secret, guardTTL: guardTTL, log: &ucLog}
}

func (u *verifyUC) Verify(ctx context.Context, c model.PaymentCompletion) (model.VerificationResult, error) {
	if c.OrderID == "" || c.PaymentID == "" || c.Signature == "" {
		return model.VerificationResult{}, fmt.Errorf("%w: order id, payment id and signature are all required", domain.ErrInvalidArgument)
	}

	log := logging.With(ctx, u.log)
	if !signature.Verify(c.OrderID, c.PaymentID, c.Signature, u.secret) {
		log.Warn().Str("order_id", c.OrderID).Str("payment_id", c.PaymentID).Msg("signature mismatch")
		metrics.PaymentVerifyRequests.WithLabelValues("fail", "mismatch").Inc()
		return model.VerificationResult{Success: false, Message: "Payment verification failed"}, nil
	}

	// Signature checked first so a forged request cannot burn the
	// consumption key of the genuine completion.
	fresh, err := u.guard.Consume(ctx, c.OrderID, c.PaymentID, u.guardTTL)
	if err != nil {
		return model.VerificationResult{}, fmt.Errorf("completion guard: %w", err)
	}
	if !fresh {
		log.Warn().Str("order_id", c.OrderID).Msg("completion replayed")
		metrics.PaymentVerifyRequests.WithLabelValues("fail", "replayed").Inc()
		return model.VerificationResult{Success: false, Message: "Payment completion already processed"}, nil
	}

	u.markVerified(ctx, c)
	metrics.PaymentVerifyRequests.WithLabelValues("ok", "").Inc()
	return model.VerificationResult{Success: true, Message: "Payment verified successfully"}, nil
}

// markVerified records the verdict on the attempt trail. The verdict stands
// even if the trail write fails; that only costs reconciler visibility.
func (u *verifyUC) markVerified(ctx context.Context, c model.PaymentCompletion) {
	log := logging.With(ctx, u.log)
	p, err := u.payments.FindByOrderID(ctx, c.OrderID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			log.Warn().Str("order_id", c.OrderID).Msg("verified completion for unrecorded order")
		} else {
			log.Error().Err(err).Str("order_id", c.OrderID).Msg("payment lookup failed")
		}
		return
	}
	paymentID := c.PaymentID
	if err := u.payments.UpdateStatus(ctx, p.ID, model.PaymentStatusVerified, &paymentID, nil); err != nil {
		log.Error().Err(err).Str("payment", p.ID).Msg("failed to mark payment verified")
		return
	}
	metrics.IncPayment(string(model.PaymentStatusVerified))
}
