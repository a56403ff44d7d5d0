package model

import "time"

type PaymentStatus string

const (
	PaymentStatusCreated  PaymentStatus = "created"  // order minted at the gateway; awaiting checkout
	PaymentStatusVerified PaymentStatus = "verified" // signature checked OK; settlement still pending
	PaymentStatusSettled  PaymentStatus = "settled"  // backend bill flipped to paid
	PaymentStatusFailed   PaymentStatus = "failed"   // gateway or verification failure
)

// Payment records one payment attempt against a maintenance bill.
type Payment struct {
	ID        string        // UUID, ours
	BillID    string        // backend maintenance identifier
	UserID    string        // backend resident identifier
	OrderID   string        // gateway-assigned order id
	PaymentID string        // gateway-assigned payment id, set on verification
	Amount    int64         // stored in paise (integer), to avoid float errors
	Currency  string        // "INR"
	Receipt   string        // short receipt string sent to the gateway
	Status    PaymentStatus // see constants above
	CreatedAt time.Time
	UpdatedAt time.Time
	SettledAt *time.Time // set when the backend acknowledged the bill as paid
}

// PaymentOrder is the transient order handle returned to the checkout side.
// It is never persisted as such; the durable trail lives in Payment.
type PaymentOrder struct {
	OrderID  string `json:"orderId"`
	Amount   int64  `json:"amount"` // paise
	Currency string `json:"currency"`
	// PublicKey is the gateway's publishable client key.
	// Safe to expose; distinct from the server-held signing secret.
	PublicKey string `json:"publicKey"`
}

// PaymentCompletion is what the gateway hands back after the resident
// finishes checkout. Consumed exactly once by verification.
type PaymentCompletion struct {
	OrderID   string `json:"gatewayOrderId"`
	PaymentID string `json:"gatewayPaymentId"`
	Signature string `json:"signature"` // hex-encoded HMAC over "orderID|paymentID"
}

// VerificationResult is the verdict on a submitted completion.
// A mismatch is a well-formed negative result, not an error.
type VerificationResult struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}
