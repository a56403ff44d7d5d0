//go:build !integration

package usecase_test

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"society-maintenance-platform/internal/domain"
	"society-maintenance-platform/internal/domain/model"
	"society-maintenance-platform/internal/domain/ports/adapter"
	"society-maintenance-platform/internal/domain/ports/repository"
)

func newTestLogger() *zerolog.Logger {
	l := zerolog.Nop()
	return &l
}

// --- Payment repository ---

type MockPaymentRepo struct {
	mu    sync.Mutex
	store map[string]*model.Payment // by ID

	SaveFunc         func(ctx context.Context, p *model.Payment) error
	FindByOrderFunc  func(ctx context.Context, orderID string) (*model.Payment, error)
	UpdateStatusFunc func(ctx context.Context, id string, status model.PaymentStatus, paymentID *string, settledAt *time.Time) error
}

func NewMockPaymentRepo() *MockPaymentRepo {
	return &MockPaymentRepo{store: make(map[string]*model.Payment)}
}

func (m *MockPaymentRepo) Save(ctx context.Context, p *model.Payment) error {
	if m.SaveFunc != nil {
		return m.SaveFunc(ctx, p)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *p
	m.store[p.ID] = &cp
	return nil
}

func (m *MockPaymentRepo) FindByOrderID(ctx context.Context, orderID string) (*model.Payment, error) {
	if m.FindByOrderFunc != nil {
		return m.FindByOrderFunc(ctx, orderID)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, p := range m.store {
		if p.OrderID == orderID {
			cp := *p
			return &cp, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (m *MockPaymentRepo) UpdateStatus(ctx context.Context, id string, status model.PaymentStatus, paymentID *string, settledAt *time.Time) error {
	if m.UpdateStatusFunc != nil {
		return m.UpdateStatusFunc(ctx, id, status, paymentID, settledAt)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.store[id]
	if !ok {
		return domain.ErrNotFound
	}
	p.Status = status
	if paymentID != nil {
		p.PaymentID = *paymentID
	}
	if settledAt != nil {
		p.SettledAt = settledAt
	}
	p.UpdatedAt = time.Now()
	return nil
}

func (m *MockPaymentRepo) ListVerifiedOlderThan(ctx context.Context, olderThan time.Time, limit int) ([]*model.Payment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*model.Payment
	for _, p := range m.store {
		if p.Status == model.PaymentStatusVerified && p.UpdatedAt.Before(olderThan) {
			cp := *p
			out = append(out, &cp)
		}
		if len(out) == limit {
			break
		}
	}
	return out, nil
}

// Get returns a copy of a stored payment for assertions.
func (m *MockPaymentRepo) Get(id string) (*model.Payment, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.store[id]
	if !ok {
		return nil, false
	}
	cp := *p
	return &cp, true
}

// --- Order gateway ---

type MockOrderGateway struct {
	mu       sync.Mutex
	seq      int
	Requests []adapter.OrderRequest

	CreateOrderFunc func(ctx context.Context, req adapter.OrderRequest) (string, error)
}

func (m *MockOrderGateway) Name() string { return "mock" }

func (m *MockOrderGateway) CreateOrder(ctx context.Context, req adapter.OrderRequest) (string, error) {
	if m.CreateOrderFunc != nil {
		return m.CreateOrderFunc(ctx, req)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.seq++
	m.Requests = append(m.Requests, req)
	return "order_mock" + string(rune('A'+m.seq-1)), nil
}

// --- Completion guard ---

type MockGuard struct {
	mu   sync.Mutex
	seen map[string]bool

	ConsumeFunc func(ctx context.Context, orderID, paymentID string, ttl time.Duration) (bool, error)
}

func NewMockGuard() *MockGuard {
	return &MockGuard{seen: make(map[string]bool)}
}

func (m *MockGuard) Consume(ctx context.Context, orderID, paymentID string, ttl time.Duration) (bool, error) {
	if m.ConsumeFunc != nil {
		return m.ConsumeFunc(ctx, orderID, paymentID, ttl)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	key := orderID + ":" + paymentID
	if m.seen[key] {
		return false, nil
	}
	m.seen[key] = true
	return true, nil
}

// --- Checkout widget ---

type MockWidget struct {
	Opened   []adapter.CheckoutOptions
	OpenFunc func(ctx context.Context, opts adapter.CheckoutOptions) (*model.PaymentCompletion, error)
}

func (m *MockWidget) Open(ctx context.Context, opts adapter.CheckoutOptions) (*model.PaymentCompletion, error) {
	m.Opened = append(m.Opened, opts)
	if m.OpenFunc != nil {
		return m.OpenFunc(ctx, opts)
	}
	return nil, domain.ErrCheckoutDismissed
}

// --- Settlement client ---

type MockSettlement struct {
	mu         sync.Mutex
	MarkedPaid []string

	MarkPaidFunc func(ctx context.Context, cred adapter.Credential, billID string) error
}

func (m *MockSettlement) MarkPaid(ctx context.Context, cred adapter.Credential, billID string) error {
	if m.MarkPaidFunc != nil {
		return m.MarkPaidFunc(ctx, cred, billID)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.MarkedPaid = append(m.MarkedPaid, billID)
	return nil
}

func (m *MockSettlement) ListUnpaid(ctx context.Context, cred adapter.Credential) ([]*model.Bill, error) {
	return nil, nil
}

func (m *MockSettlement) ListPaid(ctx context.Context, cred adapter.Credential) ([]*model.Bill, error) {
	return nil, nil
}

func (m *MockSettlement) Profile(ctx context.Context, cred adapter.Credential) (*model.ResidentProfile, error) {
	return &model.ResidentProfile{UserID: "user_1", Name: "A Resident"}, nil
}

// MarkPaidCount reports how many mark-paid calls were recorded.
func (m *MockSettlement) MarkPaidCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.MarkedPaid)
}

// Interface checks
var (
	_ repository.PaymentRepository = (*MockPaymentRepo)(nil)
	_ repository.CompletionGuard   = (*MockGuard)(nil)
	_ adapter.OrderGateway         = (*MockOrderGateway)(nil)
	_ adapter.CheckoutWidget       = (*MockWidget)(nil)
	_ adapter.SettlementClient     = (*MockSettlement)(nil)
)
