package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"server/internal/domain"
)

type paymentSuccessRequest struct {
	PaymentID  string `json:"razorpay_payment_id"`
	UserID     string `json:"userId"`
	Plan       string `json:"plan"`
	PlanExpiry string `json:"planExpiry,omitempty"`
}

// PaymentSuccess settles a confirmed payment: the purchased plan is merged
// onto the user together with the payment id. Premium purchases carry an
// expiry after which the quota ledger downgrades the user back to free.
func (a *App) PaymentSuccess(w http.ResponseWriter, r *http.Request) {
	var req paymentSuccessRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.error(w, http.StatusBadRequest, "Missing required fields")
		return
	}
	plan := domain.Plan(req.Plan)
	if req.PaymentID == "" || req.UserID == "" || !plan.ValidPurchase() {
		a.error(w, http.StatusBadRequest, "Missing required fields")
		return
	}

	var expiry *time.Time
	if plan == domain.PlanPremium && req.PlanExpiry != "" {
		parsed, err := time.Parse(time.RFC3339, req.PlanExpiry)
		if err != nil {
			a.error(w, http.StatusBadRequest, "Invalid planExpiry")
			return
		}
		expiry = &parsed
	}

	if err := a.Users.SettlePayment(r.Context(), req.UserID, plan, expiry, req.PaymentID); err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			a.error(w, http.StatusNotFound, "User not found")
			return
		}
		a.Logger.Error().Err(err).Str("user_id", req.UserID).Msg("payment: settle")
		a.error(w, http.StatusInternalServerError, "Server error")
		return
	}

	a.Logger.Info().Str("user_id", req.UserID).Str("plan", string(plan)).Msg("plan updated after payment")
	a.json(w, http.StatusOK, map[string]string{"message": "Plan updated successfully"})
}
