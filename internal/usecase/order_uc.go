// File: internal/usecase/order_uc.go
package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"society-maintenance-platform/internal/domain"
	"society-maintenance-platform/internal/domain/model"
	"society-maintenance-platform/internal/domain/ports/adapter"
	"society-maintenance-platform/internal/domain/ports/repository"
	"society-maintenance-platform/internal/infra/logging"
	"society-maintenance-platform/internal/infra/metrics"
)

// Compile-time check
var _ OrderUseCase = (*orderUC)(nil)

const (
	orderCurrency    = "INR"
	receiptPrefix    = "maint_"
	receiptMaxLen    = 40 // gateway-imposed limit on receipt strings
	receiptBillChars = 8
)

// OrderInput is one payment attempt request. Amount is in major currency
// units (rupees); conversion to paise happens here.
type OrderInput struct {
	Amount float64
	BillID string
	UserID string
}

type OrderUseCase interface {
	// Create mints a gateway order for a bill. No partial state is left on
	// failure; the gateway order itself is the only artifact.
	Create(ctx context.Context, in OrderInput) (*model.PaymentOrder, error)
}

type orderUC struct {
	payments  repository.PaymentRepository
	gateway   adapter.OrderGateway
	publicKey string
	log       *zerolog.Logger
}

func NewOrderUseCase(payments repository.PaymentRepository, gateway adapter.OrderGateway, publicKey string, logger *zerolog.Logger) *orderUC {
	ucLog := logger.With().Str("component", "OrderUC").Logger()
	return &orderUC{payments: payments, gateway: gateway, publicKey: publicKey, log: &ucLog}
}

func (u *orderUC) Create(ctx context.Context, in OrderInput) (*model.PaymentOrder, error) {
	if in.Amount <= 0 {
		return nil, fmt.Errorf("%w: amount must be positive", domain.ErrInvalidArgument)
	}
	if in.BillID == "" {
		return nil, fmt.Errorf("%w: bill identifier is required", domain.ErrInvalidArgument)
	}
	if in.UserID == "" {
		return nil, fmt.Errorf("%w: user identifier is required", domain.ErrInvalidArgument)
	}

	paise, err := toPaise(in.Amount)
	if err != nil {
		return nil, err
	}

	ctx = logging.WithBillID(ctx, in.BillID)
	log := logging.With(ctx, u.log)

	req := adapter.OrderRequest{
		Amount:   paise,
		Currency: orderCurrency,
		Receipt:  receiptFor(in.BillID),
		Notes: map[string]string{
			"user_id": in.UserID,
			"bill_id": in.BillID,
		},
	}
	orderID, err := u.gateway.CreateOrder(ctx, req)
	if err != nil {
		log.Error().Err(err).Msg("gateway order creation failed")
		return nil, err
	}

	now := time.Now()
	p := &model.Payment{
		ID:        uuid.NewString(),
		BillID:    in.BillID,
		UserID:    in.UserID,
		OrderID:   orderID,
		Amount:    paise,
		Currency:  orderCurrency,
		Receipt:   req.Receipt,
		Status:    model.PaymentStatusCreated,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := u.payments.Save(ctx, p); err != nil {
		// The order already exists gateway-side and stays usable; losing the
		// trail only costs the reconciler visibility into this attempt.
		log.Error().Err(err).Str("order_id", orderID).Msg("failed to record payment attempt")
	}
	metrics.IncPayment(string(model.PaymentStatusCreated))

	return &model.PaymentOrder{
		OrderID:   orderID,
		Amount:    paise,
		Currency:  orderCurrency,
		PublicKey: u.publicKey,
	}, nil
}

// toPaise converts a major-unit amount to paise without float drift.
func toPaise(amount float64) (int64, error) {
	paise := decimal.NewFromFloat(amount).Mul(decimal.NewFromInt(100))
	if !paise.IsInteger() {
		return 0, fmt.Errorf("%w: amount has sub-paise precision", domain.ErrInvalidArgument)
	}
	return paise.IntPart(), nil
}

// receiptFor derives a deterministic receipt from the bill identifier,
// bounded to the gateway's 40-char limit whatever the source length.
// Truncation is rune-based so a multibyte identifier is never cut mid-rune.
func receiptFor(billID string) string {
	id := billID
	if r := []rune(id); len(r) > receiptBillChars {
		id = string(r[:receiptBillChars])
	}
	receipt := receiptPrefix + id
	if r := []rune(receipt); len(r) > receiptMaxLen {
		receipt = string(r[:receiptMaxLen])
	}
	return receipt
}
