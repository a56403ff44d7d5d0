// Package settlement is the client for the society backend that owns
// billing records. Credentials are passed per call, never stored.
package settlement

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/rs/zerolog"

	"society-maintenance-platform/internal/domain"
	"society-maintenance-platform/internal/domain/model"
	"society-maintenance-platform/internal/domain/ports/adapter"
)

var _ adapter.SettlementClient = (*RestClient)(nil)

type RestClient struct {
	http *resty.Client
	log  *zerolog.Logger
}

func NewRestClient(baseURL string, timeout time.Duration, logger *zerolog.Logger) *RestClient {
	cliLog := logger.With().Str("component", "SettlementClient").Logger()
	cli := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(timeout).
		SetHeader("Content-Type", "application/json")
	return &RestClient{http: cli, log: &cliLog}
}

// MarkPaid flips the bill's paid flag in the backend. Called only after a
// successful verification, never from a client-side success callback alone.
func (c *RestClient) MarkPaid(ctx context.Context, cred adapter.Credential, billID string) error {
	if billID == "" {
		return domain.ErrInvalidArgument
	}
	resp, err := c.http.R().
		SetContext(ctx).
		SetAuthToken(string(cred)).
		SetBody(map[string]string{"maintenanceId": billID}).
		Patch("/api/maintenance/update")
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrSettlement, err)
	}
	if resp.StatusCode() != http.StatusOK {
		c.log.Error().Str("bill_id", billID).Int("status", resp.StatusCode()).Msg("mark paid rejected by backend")
		return fmt.Errorf("%w: backend returned %d", domain.ErrSettlement, resp.StatusCode())
	}
	return nil
}

func (c *RestClient) ListUnpaid(ctx context.Context, cred adapter.Credential) ([]*model.Bill, error) {
	return c.listBills(ctx, cred, "/api/maintenance/userUnpaid")
}

func (c *RestClient) ListPaid(ctx context.Context, cred adapter.Credential) ([]*model.Bill, error) {
	return c.listBills(ctx, cred, "/api/maintenance/userPaid")
}

func (c *RestClient) listBills(ctx context.Context, cred adapter.Credential, path string) ([]*model.Bill, error) {
	var bills []*model.Bill
	resp, err := c.http.R().
		SetContext(ctx).
		SetAuthToken(string(cred)).
		SetResult(&bills).
		Get(path)
	if err != nil {
		return nil, fmt.Errorf("list bills: %w", err)
	}
	if resp.StatusCode() == http.StatusUnauthorized {
		return nil, domain.ErrUnauthorized
	}
	if resp.StatusCode() != http.StatusOK {
		return nil, fmt.Errorf("list bills: backend returned %d", resp.StatusCode())
	}
	return bills, nil
}

// Profile fetches the resident identity behind a credential. Also serves as
// the credential check when minting a local session.
func (c *RestClient) Profile(ctx context.Context, cred adapter.Credential) (*model.ResidentProfile, error) {
	var profile model.ResidentProfile
	resp, err := c.http.R().
		SetContext(ctx).
		SetAuthToken(string(cred)).
		SetResult(&profile).
		Get("/api/user/my")
	if err != nil {
		return nil, fmt.Errorf("fetch profile: %w", err)
	}
	if resp.StatusCode() == http.StatusUnauthorized {
		return nil, domain.ErrUnauthorized
	}
	if resp.StatusCode() != http.StatusOK {
		return nil, fmt.Errorf("fetch profile: backend returned %d", resp.StatusCode())
	}
	if profile.UserID == "" {
		return nil, domain.ErrUnauthorized
	}
	return &profile, nil
}
