package payment

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"society-maintenance-platform/internal/domain"
	"society-maintenance-platform/internal/domain/ports/adapter"
)

var _ adapter.OrderGateway = (*RazorpayGateway)(nil)

// RazorpayGateway implements OrderGateway using direct HTTP calls against
// the Razorpay Orders API. Authentication is basic auth with the key pair.
type RazorpayGateway struct {
	keyID     string
	keySecret string
	baseURL   string
	client    *http.Client
}

// NewRazorpayGateway creates a gateway client. baseURL is overridable for tests.
func NewRazorpayGateway(keyID, keySecret, baseURL string) *RazorpayGateway {
	if baseURL == "" {
		baseURL = "https://api.razorpay.com/v1"
	}
	return &RazorpayGateway{
		keyID:     keyID,
		keySecret: keySecret,
		baseURL:   baseURL,
		client:    &http.Client{},
	}
}

func (g *RazorpayGateway) Name() string { return "razorpay" }

// razorpayOrderResponse represents the response from the order-creation API.
type razorpayOrderResponse struct {
	ID       string `json:"id"`
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
	Receipt  string `json:"receipt"`
	Status   string `json:"status"`
	Error    struct {
		Code        string `json:"code"`
		Description string `json:"description"`
	} `json:"error"`
}

// CreateOrder implements OrderGateway.CreateOrder.
func (g *RazorpayGateway) CreateOrder(ctx context.Context, req adapter.OrderRequest) (string, error) {
	requestData := map[string]interface{}{
		"amount":   req.Amount,
		"currency": req.Currency,
		"receipt":  req.Receipt,
	}
	if req.Notes != nil {
		requestData["notes"] = req.Notes
	}

	jsonData, err := json.Marshal(requestData)
	if err != nil {
		return "", fmt.Errorf("failed to marshal request data: %w", err)
	}

	url := g.baseURL + "/orders"
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewBuffer(jsonData))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.SetBasicAuth(g.keyID, g.keySecret)
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")

	resp, err := g.client.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrGateway, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response body: %w", err)
	}

	var response razorpayOrderResponse
	if err := json.Unmarshal(body, &response); err != nil {
		return "", fmt.Errorf("failed to unmarshal response: %w, body: %s", err, string(body))
	}

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("%w: %s (%s)", domain.ErrGateway, response.Error.Description, response.Error.Code)
	}
	if response.ID == "" {
		return "", fmt.Errorf("%w: order id missing in response, body: %s", domain.ErrGateway, string(body))
	}

	return response.ID, nil
}
