// File: internal/infra/redis/completion_guard.go
package redis

import (
	"context"
	"time"

	"github.com/google/uuid"

	"society-maintenance-platform/internal/domain/ports/repository"
)

var _ repository.CompletionGuard = (*CompletionGuard)(nil)

// CompletionGuard marks gateway completions as consumed via SetNX, so a
// replayed (orderID, paymentID) pair is rejected for the key's lifetime.
type CompletionGuard struct {
	cli *Client
}

func NewCompletionGuard(c *Client) *CompletionGuard {
	return &CompletionGuard{cli: c}
}

func (g *CompletionGuard) Consume(ctx context.Context, orderID, paymentID string, ttl time.Duration) (bool, error) {
	key := "payment:completion:" + orderID + ":" + paymentID
	return g.cli.cli.SetNX(ctx, key, uuid.NewString(), ttl).Result()
}
