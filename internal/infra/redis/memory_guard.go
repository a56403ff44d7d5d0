package redis

import (
	"context"
	"sync"
	"time"

	"society-maintenance-platform/internal/domain/ports/repository"
)

var _ repository.CompletionGuard = (*MemoryGuard)(nil)

// MemoryGuard is an in-process CompletionGuard for dev mode and tests.
type MemoryGuard struct {
	mu   sync.Mutex
	seen map[string]time.Time // key -> expiry
}

func NewMemoryGuard() *MemoryGuard {
	return &MemoryGuard{seen: make(map[string]time.Time)}
}

func (g *MemoryGuard) Consume(ctx context.Context, orderID, paymentID string, ttl time.Duration) (bool, error) {
	key := orderID + ":" + paymentID
	now := time.Now()

	g.mu.Lock()
	defer g.mu.Unlock()
	if exp, ok := g.seen[key]; ok && now.Before(exp) {
		return false, nil
	}
	g.seen[key] = now.Add(ttl)
	return true, nil
}
