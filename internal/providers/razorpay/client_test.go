package razorpay

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestCreateOrder(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/orders" {
			t.Errorf("path = %s", r.URL.Path)
		}
		user, pass, ok := r.BasicAuth()
		if !ok || user != "rzp_test_key" || pass != "secret" {
			t.Errorf("basic auth = %q %q %v", user, pass, ok)
		}
		var req OrderRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		if req.Amount != 5000 || req.Currency != "INR" {
			t.Errorf("request = %+v", req)
		}
		if req.Notes["plan"] != "download" {
			t.Errorf("notes = %v", req.Notes)
		}
		json.NewEncoder(w).Encode(Order{
			ID:       "order_123",
			Amount:   req.Amount,
			Currency: req.Currency,
			Receipt:  req.Receipt,
			Status:   "created",
		})
	}))
	defer srv.Close()

	client, err := New(Options{KeyID: "rzp_test_key", KeySecret: "secret", BaseURL: srv.URL})
	if err != nil {
		t.Fatalf("New error: %v", err)
	}

	order, err := client.CreateOrder(context.Background(), OrderRequest{
		Amount:   5000,
		Currency: "INR",
		Receipt:  "rcpt-1",
		Notes:    map[string]string{"userId": "user-1", "plan": "download"},
	})
	if err != nil {
		t.Fatalf("CreateOrder error: %v", err)
	}
	if order.ID != "order_123" || order.Status != "created" {
		t.Errorf("order = %+v", order)
	}
}

func TestCreateOrderAPIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"error":{"code":"BAD_REQUEST_ERROR","description":"amount is not valid"}}`))
	}))
	defer srv.Close()

	client, err := New(Options{KeyID: "k", KeySecret: "s", BaseURL: srv.URL})
	if err != nil {
		t.Fatalf("New error: %v", err)
	}
	_, err = client.CreateOrder(context.Background(), OrderRequest{Amount: -1, Currency: "INR"})
	if err == nil || !strings.Contains(err.Error(), "amount is not valid") {
		t.Fatalf("expected API error description, got %v", err)
	}
}

func TestCreateOrderMissingID(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	client, err := New(Options{KeyID: "k", KeySecret: "s", BaseURL: srv.URL})
	if err != nil {
		t.Fatalf("New error: %v", err)
	}
	if _, err := client.CreateOrder(context.Background(), OrderRequest{Amount: 100, Currency: "USD"}); err == nil {
		t.Fatal("expected error for response without order id")
	}
}

func TestNewRequiresCredentials(t *testing.T) {
	if _, err := New(Options{KeyID: " ", KeySecret: ""}); err != ErrMissingCredentials {
		t.Fatalf("expected ErrMissingCredentials, got %v", err)
	}
}
