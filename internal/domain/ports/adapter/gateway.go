package adapter

import (
	"context"

	"society-maintenance-platform/internal/domain/model"
)

// OrderRequest is what we send to the gateway's order-creation API.
type OrderRequest struct {
	Amount   int64             // smallest currency unit (paise)
	Currency string            // "INR"
	Receipt  string            // must satisfy the gateway's 40-char limit
	Notes    map[string]string // bill/user identifiers echoed back by the gateway
}

// OrderGateway mints payment orders on the external gateway.
type OrderGateway interface {
	CreateOrder(ctx context.Context, req OrderRequest) (orderID string, err error)
	Name() string
}

// CheckoutOptions is the bundle handed to the hosted checkout UI.
type CheckoutOptions struct {
	Order       model.PaymentOrder
	Title       string // display name shown in the widget
	Description string
	// Prefill for the payer form.
	PayerName  string
	PayerEmail string
	PayerPhone string
}

// CheckoutWidget abstracts the gateway's hosted checkout surface as a
// single-shot result: Open blocks until the resident completes checkout
// (returning the completion) or dismisses it (domain.ErrCheckoutDismissed).
type CheckoutWidget interface {
	Open(ctx context.Context, opts CheckoutOptions) (*model.PaymentCompletion, error)
}
