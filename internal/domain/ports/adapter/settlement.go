package adapter

import (
	"context"

	"society-maintenance-platform/internal/domain/model"
)

// Credential is the bearer token for the society backend. It is passed
// explicitly into every call instead of being read from ambient storage,
// so each collaborator's dependency on the resident identity is visible.
type Credential string

// SettlementClient talks to the society backend that owns billing records.
// MarkPaid is only ever invoked after a successful verification.
type SettlementClient interface {
	MarkPaid(ctx context.Context, cred Credential, billID string) error
	ListUnpaid(ctx context.Context, cred Credential) ([]*model.Bill, error)
	ListPaid(ctx context.Context, cred Credential) ([]*model.Bill, error)
	Profile(ctx context.Context, cred Credential) (*model.ResidentProfile, error)
}
