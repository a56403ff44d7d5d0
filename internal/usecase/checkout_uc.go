// File: internal/usecase/checkout_uc.go
package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"society-maintenance-platform/internal/domain"
	"society-maintenance-platform/internal/domain/model"
	"society-maintenance-platform/internal/domain/ports/adapter"
	"society-maintenance-platform/internal/domain/ports/repository"
	"society-maintenance-platform/internal/infra/logging"
)

// CheckoutState labels where a payment attempt ended up.
type CheckoutState string

const (
	StateIdle                  CheckoutState = "idle"
	StateOrderRequested        CheckoutState = "order_requested"
	StateCheckoutOpen          CheckoutState = "checkout_open"
	StateVerificationRequested CheckoutState = "verification_requested"
	StateSettlementRequested   CheckoutState = "settlement_requested"
	StateSettled               CheckoutState = "settled"
	StateFailed                CheckoutState = "failed"
)

// PaymentResult is the terminal outcome of one attempt. Message is the
// user-visible notification; State is where the attempt stopped.
type PaymentResult struct {
	State   CheckoutState
	Order   *model.PaymentOrder
	Message string
}

// Compile-time check
var _ CheckoutUseCase = (*checkoutUC)(nil)

// CheckoutUseCase sequences a full payment attempt: order, checkout,
// verification, settlement. One shared module for every bill-bearing view
// rather than a per-page copy of the flow.
type CheckoutUseCase interface {
	Pay(ctx context.Context, cred adapter.Credential, bill *model.Bill, payer *model.ResidentProfile) (*PaymentResult, error)
}

type checkoutUC struct {
	orders        OrderUseCase
	verify        VerifyUseCase
	settle        SettlementUseCase
	widget        adapter.CheckoutWidget
	payments      repository.PaymentRepository
	verifyTimeout time.Duration
	log           *zerolog.Logger
}

func NewCheckoutUseCase(
	orders OrderUseCase,
	verify VerifyUseCase,
	settle SettlementUseCase,
	widget adapter.CheckoutWidget,
	payments repository.PaymentRepository,
	verifyTimeout time.Duration,
	logger *zerolog.Logger,
) *checkoutUC {
	ucLog := logger.With().Str("component", "CheckoutUC").Logger()
	return &checkoutUC{
		orders:        orders,
		verify:        verify,
		settle:        settle,
		widget:        widget,
		payments:      payments,
		verifyTimeout: verifyTimeout,
		log:           &ucLog,
	}
}

func (u *checkoutUC) Pay(ctx context.Context, cred adapter.Credential, bill *model.Bill, payer *model.ResidentProfile) (*PaymentResult, error) {
	if bill == nil || payer == nil {
		return nil, fmt.Errorf("%w: bill and payer are required", domain.ErrInvalidArgument)
	}

	ctx = logging.WithUserID(ctx, payer.UserID)
	ctx = logging.WithBillID(ctx, bill.BillID)
	log := logging.With(ctx, u.log)

	// OrderRequested
	order, err := u.orders.Create(ctx, OrderInput{
		Amount: float64(bill.Amount),
		BillID: bill.BillID,
		UserID: payer.UserID,
	})
	if err != nil {
		return &PaymentResult{State: StateFailed, Message: "Failed to initiate payment. Please try again later."}, err
	}

	// CheckoutOpen. No deadline here: the resident may sit in the widget as
	// long as they like; only dismissal or completion moves the machine.
	completion, err := u.widget.Open(ctx, adapter.CheckoutOptions{
		Order:       *order,
		Title:       "Society Maintenance",
		Description: "Maintenance payment for " + bill.BillID,
		PayerName:   payer.Name,
		PayerEmail:  payer.Email,
		PayerPhone:  payer.Phone,
	})
	if err != nil {
		if errors.Is(err, domain.ErrCheckoutDismissed) {
			// Deliberate cancellation, not a failure. The stale order is
			// simply abandoned; a retry mints a fresh one.
			log.Debug().Str("order_id", order.OrderID).Msg("checkout dismissed")
			return &PaymentResult{State: StateIdle, Order: order, Message: "Payment cancelled"}, nil
		}
		return &PaymentResult{State: StateFailed, Order: order, Message: "Failed to open checkout. Please try again."}, err
	}

	// VerificationRequested
	verifyCtx, cancel := context.WithTimeout(ctx, u.verifyTimeout)
	verdict, err := u.verify.Verify(verifyCtx, *completion)
	cancel()
	if err != nil {
		return &PaymentResult{State: StateFailed, Order: order, Message: "Error processing payment verification"}, err
	}
	if !verdict.Success {
		// A mismatch may indicate tampering; never silently retried.
		return &PaymentResult{State: StateFailed, Order: order, Message: "Payment verification failed. Please contact support."},
			domain.ErrSignatureMismatch
	}

	// SettlementRequested
	p, err := u.payments.FindByOrderID(ctx, order.OrderID)
	if err != nil {
		// Trail lost; settle from what we hold in hand.
		p = &model.Payment{
			BillID:    bill.BillID,
			UserID:    payer.UserID,
			OrderID:   order.OrderID,
			PaymentID: completion.PaymentID,
			Amount:    order.Amount,
			Currency:  order.Currency,
			Status:    model.PaymentStatusVerified,
		}
	}
	if err := u.settle.SettleVerified(ctx, cred, p); err != nil {
		// The resident has paid; only our backend does not reflect it yet.
		// The attempt stays verified so the reconciler can finish it.
		return &PaymentResult{
			State: StateFailed,
			Order: order,
			Message: fmt.Sprintf("Payment received but recording failed. Contact support with payment ID %s.",
				completion.PaymentID),
		}, err
	}

	return &PaymentResult{State: StateSettled, Order: order, Message: "Payment successful"}, nil
}
