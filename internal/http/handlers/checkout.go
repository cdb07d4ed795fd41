package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"server/internal/domain"
	"server/internal/providers/razorpay"
)

// Plan prices in the smallest currency unit (paise / cents).
var checkoutPrices = map[string]map[domain.Plan]int64{
	"INR": {
		domain.PlanDownload: 5000,
		domain.PlanExtra:    7500,
		domain.PlanPremium:  15000,
	},
	"USD": {
		domain.PlanDownload: 499,
		domain.PlanExtra:    699,
		domain.PlanPremium:  1399,
	},
}

type checkoutRequest struct {
	UserID string `json:"userId"`
	Plan   string `json:"plan"`
	// IsINR forces the currency; when absent the client country decides.
	IsINR *bool `json:"isINR"`
}

type checkoutResponse struct {
	ID       string `json:"id"`
	Currency string `json:"currency"`
	Amount   int64  `json:"amount"`
	Key      string `json:"key"`
}

// CreateCheckout opens a payment order for a plan purchase.
func (a *App) CreateCheckout(w http.ResponseWriter, r *http.Request) {
	if a.Checkout == nil {
		a.error(w, http.StatusServiceUnavailable, "Payments are not configured")
		return
	}
	var req checkoutRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.error(w, http.StatusBadRequest, "Missing or invalid userId or plan.")
		return
	}
	plan := domain.Plan(req.Plan)
	if req.UserID == "" || !plan.ValidPurchase() {
		a.error(w, http.StatusBadRequest, "Missing or invalid userId or plan.")
		return
	}

	currency := a.checkoutCurrency(r, req.IsINR)
	amount := checkoutPrices[currency][plan]

	order, err := a.Checkout.CreateOrder(r.Context(), razorpay.OrderRequest{
		Amount:   amount,
		Currency: currency,
		Receipt:  uuid.NewString(),
		Notes: map[string]string{
			"userId": req.UserID,
			"plan":   string(plan),
		},
	})
	if err != nil {
		a.Logger.Error().Err(err).Str("user_id", req.UserID).Str("plan", string(plan)).Msg("checkout: create order")
		a.error(w, http.StatusInternalServerError, "Failed to create Razorpay order")
		return
	}

	a.json(w, http.StatusOK, checkoutResponse{
		ID:       order.ID,
		Currency: order.Currency,
		Amount:   order.Amount,
		Key:      a.Checkout.KeyID(),
	})
}

// checkoutCurrency prefers the client's explicit choice, then the GeoIP
// country, then falls back to USD.
func (a *App) checkoutCurrency(r *http.Request, isINR *bool) string {
	if isINR != nil {
		if *isINR {
			return "INR"
		}
		return "USD"
	}
	if a.GeoIP != nil {
		if code, err := a.GeoIP.CountryCode(clientIP(r)); err == nil && code == "IN" {
			return "INR"
		}
	}
	return "USD"
}

func clientIP(r *http.Request) string {
	if xf := r.Header.Get("X-Forwarded-For"); xf != "" {
		if first, _, found := strings.Cut(xf, ","); found || first != "" {
			return strings.TrimSpace(first)
		}
	}
	return r.RemoteAddr
}
