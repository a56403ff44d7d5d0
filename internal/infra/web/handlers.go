// File: internal/infra/web/handlers.go
package web

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"society-maintenance-platform/internal/domain"
	"society-maintenance-platform/internal/domain/model"
	"society-maintenance-platform/internal/domain/ports/adapter"
	"society-maintenance-platform/internal/domain/ports/repository"
	"society-maintenance-platform/internal/infra/logging"
	"society-maintenance-platform/internal/infra/metrics"
	"society-maintenance-platform/internal/usecase"
)

// Expected JSON request body for creating a payment order.
type orderCreateRequest struct {
	Amount         float64 `json:"amount"`
	BillIdentifier string  `json:"billIdentifier"`
	UserIdentifier string  `json:"userIdentifier"`
}

type verifyResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
}

type sessionRequest struct {
	Token string `json:"token"`
}

type sessionResponse struct {
	Token     string                 `json:"token"`
	ExpiresAt time.Time              `json:"expiresAt"`
	User      *model.ResidentProfile `json:"user"`
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

// writeError emits the {error} failure body every non-verify endpoint uses.
func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// Handler for exchanging a society-backend token for a local session.
func sessionHandler(backend adapter.SettlementClient, auth *AuthManager, log *zerolog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		var req sessionRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Token == "" {
			writeError(w, http.StatusBadRequest, "Invalid request body")
			return
		}

		cred := adapter.Credential(req.Token)
		profile, err := backend.Profile(ctx, cred)
		if err != nil {
			if errors.Is(err, domain.ErrUnauthorized) {
				writeError(w, http.StatusUnauthorized, "Unauthorized")
				return
			}
			logging.With(ctx, log).Error().Err(err).Msg("profile lookup failed during session mint")
			writeError(w, http.StatusInternalServerError, "Failed to create session")
			return
		}

		signed, expires, err := auth.Mint(w, profile, cred)
		if err != nil {
			logging.With(ctx, log).Error().Err(err).Msg("session mint failed")
			writeError(w, http.StatusInternalServerError, "Failed to create session")
			return
		}

		writeJSON(w, http.StatusOK, sessionResponse{Token: signed, ExpiresAt: expires, User: profile})
	}
}

// Handler for creating a gateway order for a maintenance bill.
func orderCreateHandler(orders usecase.OrderUseCase, log *zerolog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		var req orderCreateRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "Invalid request body")
			return
		}
		if claims := ClaimsFromContext(ctx); claims != nil && req.UserIdentifier == "" {
			req.UserIdentifier = claims.UserID
		}
		ctx = logging.WithBillID(ctx, req.BillIdentifier)

		order, err := orders.Create(ctx, usecase.OrderInput{
			Amount: req.Amount,
			BillID: req.BillIdentifier,
			UserID: req.UserIdentifier,
		})
		if err != nil {
			if errors.Is(err, domain.ErrInvalidArgument) {
				writeError(w, http.StatusBadRequest, err.Error())
				return
			}
			logging.With(ctx, log).Error().Err(err).Msg("order creation failed")
			writeError(w, http.StatusInternalServerError, "Error creating payment order")
			return
		}

		writeJSON(w, http.StatusOK, order)
	}
}

// Handler for verifying a checkout completion and settling the bill.
// Verification is authentication only; a positive verdict is then carried to
// the society backend with the resident's own credential.
func verifyHandler(verify usecase.VerifyUseCase, settle usecase.SettlementUseCase, payments repository.PaymentRepository, log *zerolog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		start := time.Now()
		result := "fail"
		defer func() {
			metrics.PaymentVerifyDuration.WithLabelValues(result).Observe(time.Since(start).Seconds())
		}()

		var completion model.PaymentCompletion
		if err := json.NewDecoder(r.Body).Decode(&completion); err != nil {
			metrics.PaymentVerifyRequests.WithLabelValues("fail", "bad_json").Inc()
			writeJSON(w, http.StatusBadRequest, verifyResponse{Success: false, Message: "Invalid request body"})
			return
		}

		verdict, err := verify.Verify(ctx, completion)
		if err != nil {
			if errors.Is(err, domain.ErrInvalidArgument) {
				metrics.PaymentVerifyRequests.WithLabelValues("fail", "missing_field").Inc()
				writeJSON(w, http.StatusBadRequest, verifyResponse{Success: false, Message: err.Error()})
				return
			}
			metrics.PaymentVerifyRequests.WithLabelValues("fail", "internal").Inc()
			logging.With(ctx, log).Error().Err(err).Str("order_id", completion.OrderID).Msg("verification errored")
			writeJSON(w, http.StatusInternalServerError, verifyResponse{Success: false, Message: "Error processing payment verification"})
			return
		}
		if !verdict.Success {
			writeJSON(w, http.StatusBadRequest, verifyResponse{Success: false, Message: verdict.Message})
			return
		}

		claims := ClaimsFromContext(ctx)
		if claims == nil {
			// Route is behind the auth guard, so this is a wiring fault.
			logging.With(ctx, log).Error().Str("order_id", completion.OrderID).Msg("verified completion without session claims")
			writeJSON(w, http.StatusInternalServerError, verifyResponse{Success: false, Message: "Error processing payment verification"})
			return
		}

		recordingFailed := fmt.Sprintf("Payment verified but recording failed. Contact support with payment ID %s.", completion.PaymentID)
		p, err := payments.FindByOrderID(ctx, completion.OrderID)
		if err != nil {
			logging.With(ctx, log).Error().Err(err).Str("order_id", completion.OrderID).Msg("verified completion has no attempt record")
			writeJSON(w, http.StatusInternalServerError, verifyResponse{Success: false, Message: recordingFailed})
			return
		}
		if err := settle.SettleVerified(ctx, claims.Credential(), p); err != nil {
			// The attempt stays verified; the reconciler will retry it.
			writeJSON(w, http.StatusInternalServerError, verifyResponse{Success: false, Message: recordingFailed})
			return
		}

		result = "ok"
		writeJSON(w, http.StatusOK, verifyResponse{Success: true, Message: verdict.Message})
	}
}

type checkoutRequest struct {
	Amount         int64  `json:"amount"`
	BillIdentifier string `json:"billIdentifier"`
}

type checkoutResponse struct {
	State   string              `json:"state"`
	Message string              `json:"message"`
	Order   *model.PaymentOrder `json:"order,omitempty"`
}

// Handler that runs a full payment attempt server-side: order, checkout
// widget, verification, settlement. Registered only when a checkout widget is
// configured (dev mode); production clients drive the widget themselves and
// use POST/PUT /payment.
func checkoutHandler(checkout usecase.CheckoutUseCase, log *zerolog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		claims := ClaimsFromContext(ctx)
		if claims == nil {
			writeError(w, http.StatusUnauthorized, "Unauthorized")
			return
		}

		var req checkoutRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "Invalid request body")
			return
		}

		bill := &model.Bill{BillID: req.BillIdentifier, Amount: req.Amount}
		payer := &model.ResidentProfile{
			UserID: claims.UserID,
			Name:   claims.Name,
			Email:  claims.Email,
			Phone:  claims.Phone,
		}
		res, err := checkout.Pay(ctx, claims.Credential(), bill, payer)
		if err != nil {
			status := http.StatusInternalServerError
			if errors.Is(err, domain.ErrInvalidArgument) {
				status = http.StatusBadRequest
			}
			if res == nil {
				writeError(w, status, err.Error())
				return
			}
			logging.With(ctx, log).Error().Err(err).Str("state", string(res.State)).Msg("checkout attempt failed")
			writeJSON(w, status, checkoutResponse{State: string(res.State), Message: res.Message, Order: res.Order})
			return
		}

		writeJSON(w, http.StatusOK, checkoutResponse{State: string(res.State), Message: res.Message, Order: res.Order})
	}
}

// Handler for listing the resident's bills straight from the society backend.
func billsHandler(backend adapter.SettlementClient, paid bool, log *zerolog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		claims := ClaimsFromContext(ctx)
		if claims == nil {
			writeError(w, http.StatusUnauthorized, "Unauthorized")
			return
		}

		list := backend.ListUnpaid
		if paid {
			list = backend.ListPaid
		}
		bills, err := list(ctx, claims.Credential())
		if err != nil {
			if errors.Is(err, domain.ErrUnauthorized) {
				writeError(w, http.StatusUnauthorized, "Unauthorized")
				return
			}
			logging.With(ctx, log).Error().Err(err).Bool("paid", paid).Msg("bill listing failed")
			writeError(w, http.StatusInternalServerError, "Failed to list bills")
			return
		}

		response := struct {
			Data []*model.Bill `json:"data"`
		}{Data: bills}
		writeJSON(w, http.StatusOK, response)
	}
}
