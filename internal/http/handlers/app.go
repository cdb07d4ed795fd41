package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/rs/zerolog"

	"server/internal/domain"
	"server/internal/infra"
	"server/internal/infra/geoip"
	"server/internal/providers/razorpay"
)

// GenerationRunner runs one prompt-to-website generation end to end.
type GenerationRunner interface {
	Run(ctx context.Context, req domain.GenerationRequest) (*domain.GenerationResult, error)
}

// OrderCreator registers checkout orders with the payment provider.
type OrderCreator interface {
	CreateOrder(ctx context.Context, req razorpay.OrderRequest) (*razorpay.Order, error)
	KeyID() string
}

type App struct {
	Config   *infra.Config
	Logger   zerolog.Logger
	Users    domain.UserStore
	Projects domain.ProjectStore
	Pipeline GenerationRunner
	Checkout OrderCreator
	GeoIP    geoip.CountryResolver
}

func (a *App) json(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func (a *App) error(w http.ResponseWriter, code int, message string) {
	a.json(w, code, map[string]string{"error": message})
}
