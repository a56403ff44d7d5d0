//go:build !integration

package web

import (
	"context"
	"sync"
	"time"

	"society-maintenance-platform/internal/domain"
	"society-maintenance-platform/internal/domain/model"
	"society-maintenance-platform/internal/domain/ports/adapter"
	"society-maintenance-platform/internal/domain/ports/repository"
	"society-maintenance-platform/internal/usecase"
)

// --- Mock use cases and ports ---

type mockOrderUC struct {
	CreateFunc func(ctx context.Context, in usecase.OrderInput) (*model.PaymentOrder, error)
	mu         sync.Mutex
	Inputs     []usecase.OrderInput
}

func (m *mockOrderUC) Create(ctx context.Context, in usecase.OrderInput) (*model.PaymentOrder, error) {
	m.mu.Lock()
	m.Inputs = append(m.Inputs, in)
	m.mu.Unlock()
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, in)
	}
	return &model.PaymentOrder{OrderID: "order_web1", Amount: 50000, Currency: "INR", PublicKey: "rzp_test_pub"}, nil
}

type mockVerifyUC struct {
	VerifyFunc func(ctx context.Context, c model.PaymentCompletion) (model.VerificationResult, error)
}

func (m *mockVerifyUC) Verify(ctx context.Context, c model.PaymentCompletion) (model.VerificationResult, error) {
	if m.VerifyFunc != nil {
		return m.VerifyFunc(ctx, c)
	}
	return model.VerificationResult{Success: true, Message: "Payment verified successfully"}, nil
}

type mockSettleUC struct {
	SettleFunc func(ctx context.Context, cred adapter.Credential, p *model.Payment) error
	mu         sync.Mutex
	Creds      []adapter.Credential
	Settled    []string
}

func (m *mockSettleUC) SettleVerified(ctx context.Context, cred adapter.Credential, p *model.Payment) error {
	m.mu.Lock()
	m.Creds = append(m.Creds, cred)
	m.Settled = append(m.Settled, p.BillID)
	m.mu.Unlock()
	if m.SettleFunc != nil {
		return m.SettleFunc(ctx, cred, p)
	}
	return nil
}

type mockPaymentRepo struct {
	byOrder map[string]*model.Payment
	FindErr error
}

func newMockPaymentRepo() *mockPaymentRepo {
	return &mockPaymentRepo{byOrder: map[string]*model.Payment{}}
}

func (m *mockPaymentRepo) Save(ctx context.Context, p *model.Payment) error {
	m.byOrder[p.OrderID] = p
	return nil
}

func (m *mockPaymentRepo) FindByOrderID(ctx context.Context, orderID string) (*model.Payment, error) {
	if m.FindErr != nil {
		return nil, m.FindErr
	}
	p, ok := m.byOrder[orderID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *p
	return &cp, nil
}

func (m *mockPaymentRepo) UpdateStatus(ctx context.Context, id string, status model.PaymentStatus, paymentID *string, settledAt *time.Time) error {
	return nil
}

func (m *mockPaymentRepo) ListVerifiedOlderThan(ctx context.Context, olderThan time.Time, limit int) ([]*model.Payment, error) {
	return nil, nil
}

type mockBackend struct {
	ProfileFunc    func(ctx context.Context, cred adapter.Credential) (*model.ResidentProfile, error)
	ListUnpaidFunc func(ctx context.Context, cred adapter.Credential) ([]*model.Bill, error)
	ListPaidFunc   func(ctx context.Context, cred adapter.Credential) ([]*model.Bill, error)
}

func (m *mockBackend) MarkPaid(ctx context.Context, cred adapter.Credential, billID string) error {
	return nil
}

func (m *mockBackend) ListUnpaid(ctx context.Context, cred adapter.Credential) ([]*model.Bill, error) {
	if m.ListUnpaidFunc != nil {
		return m.ListUnpaidFunc(ctx, cred)
	}
	return []*model.Bill{{BillID: "maint_u1", Amount: 500}}, nil
}

func (m *mockBackend) ListPaid(ctx context.Context, cred adapter.Credential) ([]*model.Bill, error) {
	if m.ListPaidFunc != nil {
		return m.ListPaidFunc(ctx, cred)
	}
	return []*model.Bill{{BillID: "maint_p1", Amount: 500, Paid: true}}, nil
}

func (m *mockBackend) Profile(ctx context.Context, cred adapter.Credential) (*model.ResidentProfile, error) {
	if m.ProfileFunc != nil {
		return m.ProfileFunc(ctx, cred)
	}
	return &model.ResidentProfile{UserID: "user_1", Name: "A Resident", Email: "a@b.c", Phone: "9999999999"}, nil
}

// Interface compliance checks.
var (
	_ usecase.OrderUseCase         = (*mockOrderUC)(nil)
	_ usecase.VerifyUseCase        = (*mockVerifyUC)(nil)
	_ usecase.SettlementUseCase    = (*mockSettleUC)(nil)
	_ repository.PaymentRepository = (*mockPaymentRepo)(nil)
	_ adapter.SettlementClient     = (*mockBackend)(nil)
)
