package payment

import (
	"context"
	"fmt"
	"sync"

	"society-maintenance-platform/internal/domain/ports/adapter"
)

var _ adapter.OrderGateway = (*NoopOrderGateway)(nil)

// NoopOrderGateway is a simple in-memory gateway to use in dev mode and tests.
type NoopOrderGateway struct {
	mu     sync.Mutex
	seq    int64
	orders map[string]adapter.OrderRequest // orderID -> minted request
}

func NewNoopOrderGateway() *NoopOrderGateway {
	return &NoopOrderGateway{orders: make(map[string]adapter.OrderRequest)}
}

func (g *NoopOrderGateway) Name() string { return "noop" }

func (g *NoopOrderGateway) CreateOrder(ctx context.Context, req adapter.OrderRequest) (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.seq++
	orderID := fmt.Sprintf("order_noop%d", g.seq)
	g.orders[orderID] = req
	return orderID, nil
}

// Minted reports the request an order was created with, for assertions.
func (g *NoopOrderGateway) Minted(orderID string) (adapter.OrderRequest, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	req, ok := g.orders[orderID]
	return req, ok
}
