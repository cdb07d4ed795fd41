package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"server/internal/domain"
	"server/internal/providers/razorpay"
)

type stubUserStore struct {
	user          *domain.User
	err           error
	downloadIncs  int
	settledPlan   domain.Plan
	settledExpiry *time.Time
	settledPayID  string
	settleErr     error
}

func (s *stubUserStore) Get(ctx context.Context, userID string) (*domain.User, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.user, nil
}

func (s *stubUserStore) ResetDailyUsage(ctx context.Context, userID, date string) error { return nil }
func (s *stubUserStore) IncrementDailyUsage(ctx context.Context, userID string) error   { return nil }
func (s *stubUserStore) SetPlan(ctx context.Context, userID string, plan domain.Plan, expiry *time.Time) error {
	return nil
}

func (s *stubUserStore) IncrementDownloadUsed(ctx context.Context, userID string) error {
	s.downloadIncs++
	return nil
}

func (s *stubUserStore) SettlePayment(ctx context.Context, userID string, plan domain.Plan, expiry *time.Time, paymentID string) error {
	if s.settleErr != nil {
		return s.settleErr
	}
	s.settledPlan = plan
	s.settledExpiry = expiry
	s.settledPayID = paymentID
	return nil
}

type stubProjectStore struct {
	project *domain.Project
	err     error
}

func (s *stubProjectStore) Get(ctx context.Context, userID, projectID string) (*domain.Project, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.project, nil
}

func (s *stubProjectStore) SaveGeneration(ctx context.Context, userID, projectID string, page domain.Page, backendCode string) error {
	return nil
}

func (s *stubProjectStore) AppendTrace(ctx context.Context, userID, projectID string, msg domain.ChatMessage) error {
	return nil
}

type stubPipeline struct {
	result *domain.GenerationResult
	err    error
	calls  int
}

func (s *stubPipeline) Run(ctx context.Context, req domain.GenerationRequest) (*domain.GenerationResult, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	return s.result, nil
}

type stubCheckout struct {
	order *razorpay.Order
	err   error
	last  razorpay.OrderRequest
}

func (s *stubCheckout) CreateOrder(ctx context.Context, req razorpay.OrderRequest) (*razorpay.Order, error) {
	s.last = req
	if s.err != nil {
		return nil, s.err
	}
	if s.order != nil {
		return s.order, nil
	}
	return &razorpay.Order{ID: "order_test", Amount: req.Amount, Currency: req.Currency, Status: "created"}, nil
}

func (s *stubCheckout) KeyID() string { return "rzp_test_key" }

type stubGeoIP struct {
	code string
	err  error
}

func (s stubGeoIP) CountryCode(ip string) (string, error) { return s.code, s.err }

func newTestApp() *App {
	return &App{
		Logger: zerolog.Nop(),
	}
}

func postJSON(t *testing.T, handler http.HandlerFunc, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	raw, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("marshal body: %v", err)
	}
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(raw))
	rec := httptest.NewRecorder()
	handler(rec, req)
	return rec
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var body map[string]string
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decode error body: %v", err)
	}
	return body["error"]
}

func TestGenerateMissingFields(t *testing.T) {
	app := newTestApp()
	pipeline := &stubPipeline{}
	app.Pipeline = pipeline

	rec := postJSON(t, app.Generate, "/api/generate", map[string]string{"prompt": "", "userId": "u", "projectId": "p"})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d", rec.Code)
	}
	if msg := decodeError(t, rec); msg != "Missing prompt, userId, or projectId" {
		t.Errorf("error = %q", msg)
	}
	if pipeline.calls != 0 {
		t.Errorf("pipeline should not run on invalid input")
	}
}

func TestGenerateErrorMapping(t *testing.T) {
	cases := []struct {
		name       string
		err        error
		wantStatus int
		wantError  string
	}{
		{"user missing", domain.ErrUserNotFound, http.StatusNotFound, "User not found"},
		{"project missing", domain.ErrProjectNotFound, http.StatusNotFound, "Project not found"},
		{"quota", domain.ErrQuotaExceeded, http.StatusForbidden, "Daily prompt limit reached for your plan."},
		{"rate limited", domain.ErrRateLimited, http.StatusTooManyRequests, "Our servers are in maintenance mode. Please come back after 12:00 AM IST."},
		{"provider down", domain.ErrProviderFailure, http.StatusInternalServerError, "Internal Server Error"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			app := newTestApp()
			app.Pipeline = &stubPipeline{err: tc.err}
			rec := postJSON(t, app.Generate, "/api/generate", map[string]string{
				"prompt": "a cafe site", "userId": "u", "projectId": "p",
			})
			if rec.Code != tc.wantStatus {
				t.Fatalf("status = %d, want %d", rec.Code, tc.wantStatus)
			}
			if msg := decodeError(t, rec); msg != tc.wantError {
				t.Errorf("error = %q, want %q", msg, tc.wantError)
			}
		})
	}
}

func TestGenerateSuccess(t *testing.T) {
	app := newTestApp()
	app.Pipeline = &stubPipeline{result: &domain.GenerationResult{
		Message:        "Website generated successfully",
		HTML:           "<html></html>",
		CSS:            "body{}",
		JS:             "console.log(1)",
		EnhancedPrompt: "a refined prompt",
		BackendCode:    "export {}",
	}}

	rec := postJSON(t, app.Generate, "/api/generate", map[string]string{
		"prompt": "a cafe site", "userId": "u", "projectId": "p",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	var resp generateResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.HTML != "<html></html>" || resp.EnhancedPrompt != "a refined prompt" || resp.BackendCode != "export {}" {
		t.Errorf("response = %+v", resp)
	}
}

func TestGenerateNoContentOmitsBackend(t *testing.T) {
	app := newTestApp()
	app.Pipeline = &stubPipeline{result: &domain.GenerationResult{
		Message:        "No valid content generated",
		EnhancedPrompt: "a refined prompt",
		NoContent:      true,
	}}

	rec := postJSON(t, app.Generate, "/api/generate", map[string]string{
		"prompt": "a cafe site", "userId": "u", "projectId": "p",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if strings.Contains(rec.Body.String(), "backend_code") {
		t.Errorf("empty backend code should be omitted: %s", rec.Body.String())
	}
}

func downloadRequest(userID, projectID string) *http.Request {
	return httptest.NewRequest(http.MethodGet, "/api/download?userId="+userID+"&projectId="+projectID, nil)
}

func testProject() *domain.Project {
	return &domain.Project{
		ID:     "p",
		UserID: "u",
		Pages: map[string]domain.Page{
			"home": {HTML: "<html><body>hi</body></html>", CSS: "body{}"},
		},
	}
}

func TestDownloadFreeUserRefused(t *testing.T) {
	app := newTestApp()
	app.Users = &stubUserStore{user: &domain.User{ID: "u", Plan: domain.PlanFree}}
	app.Projects = &stubProjectStore{project: testProject()}

	rec := httptest.NewRecorder()
	app.Download(rec, downloadRequest("u", "p"))
	if rec.Code != http.StatusForbidden {
		t.Fatalf("status = %d", rec.Code)
	}
	if msg := decodeError(t, rec); msg != "Free users cannot download projects" {
		t.Errorf("error = %q", msg)
	}
}

func TestDownloadMeteredLimit(t *testing.T) {
	users := &stubUserStore{user: &domain.User{ID: "u", Plan: domain.PlanDownload, DownloadUsed: 1}}
	app := newTestApp()
	app.Users = users
	app.Projects = &stubProjectStore{project: testProject()}

	rec := httptest.NewRecorder()
	app.Download(rec, downloadRequest("u", "p"))
	if rec.Code != http.StatusForbidden {
		t.Fatalf("status = %d", rec.Code)
	}
	if msg := decodeError(t, rec); msg != "Download limit reached for your plan" {
		t.Errorf("error = %q", msg)
	}
	if users.downloadIncs != 0 {
		t.Errorf("usage should not be recorded on refusal")
	}
}

func TestDownloadMeteredSuccessRecordsUsage(t *testing.T) {
	users := &stubUserStore{user: &domain.User{ID: "u", Plan: domain.PlanExtra}}
	app := newTestApp()
	app.Users = users
	app.Projects = &stubProjectStore{project: testProject()}

	rec := httptest.NewRecorder()
	app.Download(rec, downloadRequest("u", "p"))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	if got := rec.Header().Get("Content-Type"); got != "application/zip" {
		t.Errorf("content type = %q", got)
	}
	if users.downloadIncs != 1 {
		t.Errorf("downloadIncs = %d", users.downloadIncs)
	}
}

func TestDownloadPremiumUnmetered(t *testing.T) {
	users := &stubUserStore{user: &domain.User{ID: "u", Plan: domain.PlanPremium, DownloadUsed: 7}}
	app := newTestApp()
	app.Users = users
	app.Projects = &stubProjectStore{project: testProject()}

	rec := httptest.NewRecorder()
	app.Download(rec, downloadRequest("u", "p"))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if users.downloadIncs != 0 {
		t.Errorf("premium downloads must not be metered")
	}
}

func TestDownloadProjectWithoutPages(t *testing.T) {
	app := newTestApp()
	app.Users = &stubUserStore{user: &domain.User{ID: "u", Plan: domain.PlanPremium}}
	app.Projects = &stubProjectStore{project: &domain.Project{ID: "p", UserID: "u", Pages: map[string]domain.Page{}}}

	rec := httptest.NewRecorder()
	app.Download(rec, downloadRequest("u", "p"))
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d", rec.Code)
	}
}

func TestCheckoutInvalidPlan(t *testing.T) {
	app := newTestApp()
	app.Checkout = &stubCheckout{}

	rec := postJSON(t, app.CreateCheckout, "/api/checkout", map[string]any{"userId": "u", "plan": "free"})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d", rec.Code)
	}
}

func TestCheckoutExplicitINR(t *testing.T) {
	checkout := &stubCheckout{}
	app := newTestApp()
	app.Checkout = checkout

	rec := postJSON(t, app.CreateCheckout, "/api/checkout", map[string]any{
		"userId": "u", "plan": "download", "isINR": true,
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	if checkout.last.Currency != "INR" || checkout.last.Amount != 5000 {
		t.Errorf("order = %+v", checkout.last)
	}
	var resp checkoutResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Key != "rzp_test_key" || resp.ID != "order_test" {
		t.Errorf("response = %+v", resp)
	}
}

func TestCheckoutGeoIPCurrency(t *testing.T) {
	checkout := &stubCheckout{}
	app := newTestApp()
	app.Checkout = checkout
	app.GeoIP = stubGeoIP{code: "IN"}

	rec := postJSON(t, app.CreateCheckout, "/api/checkout", map[string]any{
		"userId": "u", "plan": "premium",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if checkout.last.Currency != "INR" || checkout.last.Amount != 15000 {
		t.Errorf("order = %+v", checkout.last)
	}
}

func TestCheckoutDefaultsToUSD(t *testing.T) {
	checkout := &stubCheckout{}
	app := newTestApp()
	app.Checkout = checkout

	rec := postJSON(t, app.CreateCheckout, "/api/checkout", map[string]any{
		"userId": "u", "plan": "extra",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if checkout.last.Currency != "USD" || checkout.last.Amount != 699 {
		t.Errorf("order = %+v", checkout.last)
	}
}

func TestPaymentSuccessMissingFields(t *testing.T) {
	app := newTestApp()
	app.Users = &stubUserStore{}

	rec := postJSON(t, app.PaymentSuccess, "/api/payment-success", map[string]string{
		"userId": "u", "plan": "premium",
	})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d", rec.Code)
	}
}

func TestPaymentSuccessSettlesPlan(t *testing.T) {
	users := &stubUserStore{}
	app := newTestApp()
	app.Users = users

	expiry := time.Date(2026, 7, 1, 0, 0, 0, 0, time.UTC)
	rec := postJSON(t, app.PaymentSuccess, "/api/payment-success", map[string]string{
		"razorpay_payment_id": "pay_123",
		"userId":              "u",
		"plan":                "premium",
		"planExpiry":          expiry.Format(time.RFC3339),
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	if users.settledPlan != domain.PlanPremium || users.settledPayID != "pay_123" {
		t.Errorf("settled = %v %q", users.settledPlan, users.settledPayID)
	}
	if users.settledExpiry == nil || !users.settledExpiry.Equal(expiry) {
		t.Errorf("expiry = %v", users.settledExpiry)
	}
}

func TestPaymentSuccessNonPremiumIgnoresExpiry(t *testing.T) {
	users := &stubUserStore{}
	app := newTestApp()
	app.Users = users

	rec := postJSON(t, app.PaymentSuccess, "/api/payment-success", map[string]string{
		"razorpay_payment_id": "pay_456",
		"userId":              "u",
		"plan":                "download",
		"planExpiry":          "2026-07-01T00:00:00Z",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if users.settledExpiry != nil {
		t.Errorf("expiry should be ignored for one-time plans, got %v", users.settledExpiry)
	}
}

func TestPaymentSuccessUserMissing(t *testing.T) {
	app := newTestApp()
	app.Users = &stubUserStore{settleErr: domain.ErrUserNotFound}

	rec := postJSON(t, app.PaymentSuccess, "/api/payment-success", map[string]string{
		"razorpay_payment_id": "pay_789",
		"userId":              "ghost",
		"plan":                "extra",
	})
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d", rec.Code)
	}
}
