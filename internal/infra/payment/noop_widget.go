// File: internal/infra/payment/noop_widget.go
package payment

import (
	"context"
	"strconv"
	"sync/atomic"

	"society-maintenance-platform/internal/domain"
	"society-maintenance-platform/internal/domain/model"
	"society-maintenance-platform/internal/domain/ports/adapter"
	"society-maintenance-platform/internal/signature"
)

// NoopCheckoutWidget stands in for the hosted checkout UI in dev and tests.
// With a secret configured it behaves like a resident who pays immediately,
// returning a correctly signed completion; without one every open is a
// dismissal.
type NoopCheckoutWidget struct {
	secret string
	seq    atomic.Int64
}

func NewNoopCheckoutWidget(secret string) *NoopCheckoutWidget {
	return &NoopCheckoutWidget{secret: secret}
}

func (w *NoopCheckoutWidget) Open(ctx context.Context, opts adapter.CheckoutOptions) (*model.PaymentCompletion, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if w.secret == "" {
		return nil, domain.ErrCheckoutDismissed
	}
	paymentID := "pay_noop" + strconv.FormatInt(w.seq.Add(1), 10) + "_" + opts.Order.OrderID
	return &model.PaymentCompletion{
		OrderID:   opts.Order.OrderID,
		PaymentID: paymentID,
		Signature: signature.Sign(opts.Order.OrderID, paymentID, w.secret),
	}, nil
}

var _ adapter.CheckoutWidget = (*NoopCheckoutWidget)(nil)
