package repository

import (
	"context"
	"time"

	"society-maintenance-platform/internal/domain/model"
)

// PaymentRepository is the durable trail of payment attempts. The
// reconciler leans on ListVerifiedOlderThan to finish attempts whose
// settlement call never landed.
type PaymentRepository interface {
	Save(ctx context.Context, p *model.Payment) error
	FindByOrderID(ctx context.Context, orderID string) (*model.Payment, error)
	UpdateStatus(ctx context.Context, id string, status model.PaymentStatus, paymentID *string, settledAt *time.Time) error
	ListVerifiedOlderThan(ctx context.Context, olderThan time.Time, limit int) ([]*model.Payment, error)
}

// CompletionGuard enforces single consumption of a gateway completion.
// Consume returns true exactly once per (orderID, paymentID) pair.
type CompletionGuard interface {
	Consume(ctx context.Context, orderID, paymentID string, ttl time.Duration) (bool, error)
}
