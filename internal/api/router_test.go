package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/bazaar/marketplace-api/internal/core/domain"
	"github.com/bazaar/marketplace-api/internal/core/service"
	"github.com/bazaar/marketplace-api/internal/infrastructure/db/memory"
	"github.com/bazaar/marketplace-api/internal/infrastructure/queue"
)

type testServer struct {
	e          *echo.Echo
	dispatcher *queue.Dispatcher
	tokens     *service.TokenService
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	log := zerolog.Nop()

	users := memory.NewUserRepository()
	products := memory.NewProductRepository()
	hasher := service.NewBcryptHasher(bcrypt.MinCost)
	tokens := service.NewTokenService("test-secret", time.Hour)

	notifications := service.NewNotificationService(memory.NewNotificationRepository(), log)
	dispatcher := queue.NewDispatcher(2, notifications, log)
	dispatcher.Start()
	t.Cleanup(func() { _ = dispatcher.Stop(context.Background()) })

	if _, err := service.NewSeeder(users, products, hasher, log).Seed(context.Background()); err != nil {
		t.Fatalf("seed: %v", err)
	}

	reg := prometheus.NewRegistry()
	e := NewRouter(Dependencies{
		Auth: service.NewAuthService(service.AuthDeps{
			Users:       users,
			Tokens:      tokens,
			Credentials: service.DemoCredentials{},
			Hasher:      hasher,
			Locker:      memory.NewKeyLocker(),
			Notifier:    dispatcher,
			Logger:      log,
		}),
		Products:      service.NewProductService(products, users, log),
		Vendors:       service.NewVendorService(users, dispatcher, log),
		Notifications: notifications,
		Tokens:        tokens,
		Logger:        log,
		Registerer:    reg,
		Gatherer:      reg,
	})
	return &testServer{e: e, dispatcher: dispatcher, tokens: tokens}
}

type apiResponse struct {
	Success    bool            `json:"success"`
	Data       json.RawMessage `json:"data"`
	Error      string          `json:"error"`
	Message    string          `json:"message"`
	Pagination *struct {
		Page       int   `json:"page"`
		Limit      int   `json:"limit"`
		Total      int64 `json:"total"`
		TotalPages int   `json:"totalPages"`
	} `json:"pagination"`
}

func (s *testServer) do(t *testing.T, method, path, token, body string) (int, apiResponse) {
	t.Helper()
	var r *http.Request
	if body != "" {
		r = httptest.NewRequest(method, path, strings.NewReader(body))
		r.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	} else {
		r = httptest.NewRequest(method, path, nil)
	}
	if token != "" {
		r.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	s.e.ServeHTTP(rec, r)

	var resp apiResponse
	if strings.HasPrefix(rec.Header().Get(echo.HeaderContentType), echo.MIMEApplicationJSON) {
		if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
			t.Fatalf("%s %s: invalid json: %v (%s)", method, path, err, rec.Body.String())
		}
	}
	return rec.Code, resp
}

type authData struct {
	Token string `json:"token"`
	User  struct {
		ID         string `json:"id"`
		Email      string `json:"email"`
		Role       string `json:"role"`
		IsApproved *bool  `json:"isApproved"`
	} `json:"user"`
}

func (s *testServer) login(t *testing.T, email, password string) authData {
	t.Helper()
	code, resp := s.do(t, http.MethodPost, "/auth/login", "", `{"email":"`+email+`","password":"`+password+`"}`)
	if code != http.StatusOK {
		t.Fatalf("login %s: expected 200, got %d (%s)", email, code, resp.Error)
	}
	var d authData
	if err := json.Unmarshal(resp.Data, &d); err != nil {
		t.Fatalf("decode login data: %v", err)
	}
	return d
}

func TestRouter_RegisterCustomerThenProfile(t *testing.T) {
	s := newTestServer(t)

	code, resp := s.do(t, http.MethodPost, "/auth/register", "", `{"name":"Ann","email":"ann@x.com","password":"p1","role":"customer"}`)
	if code != http.StatusCreated || !resp.Success {
		t.Fatalf("expected 201, got %d (%s)", code, resp.Error)
	}
	var d authData
	_ = json.Unmarshal(resp.Data, &d)
	if d.User.Role != "customer" || d.Token == "" {
		t.Fatalf("unexpected data %s", resp.Data)
	}

	code, resp = s.do(t, http.MethodGet, "/auth/profile", d.Token, "")
	if code != http.StatusOK || !strings.Contains(string(resp.Data), `"email":"ann@x.com"`) {
		t.Fatalf("profile: %d %s", code, resp.Data)
	}

	code, resp = s.do(t, http.MethodPost, "/auth/register", "", `{"name":"Ann2","email":"ann@x.com","password":"p","role":"customer"}`)
	if code != http.StatusConflict || resp.Error != "User already exists with this email" || resp.Success {
		t.Fatalf("duplicate: expected 409, got %d %q", code, resp.Error)
	}
}

func TestRouter_OverlongPasswordIsBadRequest(t *testing.T) {
	s := newTestServer(t)
	body := `{"name":"Ann","email":"ann@x.com","password":"` + strings.Repeat("p", 80) + `","role":"customer"}`
	code, resp := s.do(t, http.MethodPost, "/auth/register", "", body)
	if code != http.StatusBadRequest || resp.Error != "Invalid input" {
		t.Fatalf("expected 400 invalid input, got %d %q", code, resp.Error)
	}
}

func TestRouter_VendorWithoutStoreNameLeavesNoAccount(t *testing.T) {
	s := newTestServer(t)

	code, resp := s.do(t, http.MethodPost, "/auth/register", "", `{"name":"Bo","email":"bo@x.com","password":"p2","role":"vendor"}`)
	if code != http.StatusBadRequest || resp.Error != "Store name is required for vendors" {
		t.Fatalf("expected 400, got %d %q", code, resp.Error)
	}
	if code, _ := s.do(t, http.MethodPost, "/auth/login", "", `{"email":"bo@x.com","password":"password123"}`); code != http.StatusUnauthorized {
		t.Fatalf("no account should exist, login returned %d", code)
	}
}

func TestRouter_MissingFields(t *testing.T) {
	s := newTestServer(t)
	code, resp := s.do(t, http.MethodPost, "/auth/register", "", `{"email":"x@x.com"}`)
	if code != http.StatusBadRequest || resp.Error != "Missing required fields" {
		t.Fatalf("expected 400 missing fields, got %d %q", code, resp.Error)
	}
	if code, _ := s.do(t, http.MethodPost, "/auth/login", "", `{"email":"x@x.com"}`); code != http.StatusBadRequest {
		t.Fatalf("login without password: expected 400, got %d", code)
	}
}

func TestRouter_VendorApprovalGatesLogin(t *testing.T) {
	s := newTestServer(t)

	// Seeded vendor is approved.
	s.login(t, "vendor@example.com", "vendor123")

	code, resp := s.do(t, http.MethodPost, "/auth/register", "", `{"name":"Bo","email":"bo@x.com","password":"p2","role":"vendor","storeName":"Bo Shop"}`)
	if code != http.StatusCreated {
		t.Fatalf("vendor register: %d %s", code, resp.Error)
	}
	var reg authData
	_ = json.Unmarshal(resp.Data, &reg)

	code, resp = s.do(t, http.MethodPost, "/auth/login", "", `{"email":"bo@x.com","password":"password123"}`)
	if code != http.StatusForbidden || resp.Error != "Vendor account pending approval" {
		t.Fatalf("unapproved vendor: expected 403, got %d %q", code, resp.Error)
	}

	admin := s.login(t, "admin@ecommerce.com", "admin123")
	customer := s.login(t, "customer@example.com", "customer123")

	if code, _ := s.do(t, http.MethodGet, "/admin/vendors/pending", customer.Token, ""); code != http.StatusForbidden {
		t.Fatalf("customer on admin route: expected 403, got %d", code)
	}
	code, resp = s.do(t, http.MethodGet, "/admin/vendors/pending", admin.Token, "")
	if code != http.StatusOK || !strings.Contains(string(resp.Data), reg.User.ID) {
		t.Fatalf("pending list should include the new vendor: %d %s", code, resp.Data)
	}

	if code, _ := s.do(t, http.MethodPost, "/admin/vendors/customer-1/approve", admin.Token, ""); code != http.StatusBadRequest {
		t.Fatalf("approving a customer: expected 400, got %d", code)
	}
	if code, _ := s.do(t, http.MethodPost, "/admin/vendors/nobody/approve", admin.Token, ""); code != http.StatusNotFound {
		t.Fatalf("approving unknown user: expected 404, got %d", code)
	}
	if code, _ := s.do(t, http.MethodPost, "/admin/vendors/"+reg.User.ID+"/approve", admin.Token, ""); code != http.StatusOK {
		t.Fatalf("approve: expected 200, got %d", code)
	}

	s.login(t, "bo@x.com", "password123")

	if err := s.dispatcher.Stop(context.Background()); err != nil {
		t.Fatalf("drain notifications: %v", err)
	}
	code, resp = s.do(t, http.MethodGet, "/notifications", admin.Token, "")
	if code != http.StatusOK || !strings.Contains(string(resp.Data), "New vendor awaiting approval") {
		t.Fatalf("admin should be told about the new vendor: %d %s", code, resp.Data)
	}
	code, resp = s.do(t, http.MethodGet, "/notifications", reg.Token, "")
	if code != http.StatusOK || !strings.Contains(string(resp.Data), "Your store is live") {
		t.Fatalf("vendor should be told about approval: %d %s", code, resp.Data)
	}
}

func TestRouter_ProductListPagination(t *testing.T) {
	s := newTestServer(t)

	code, resp := s.do(t, http.MethodGet, "/products?category=Electronics&page=1&limit=1", "", "")
	if code != http.StatusOK || resp.Pagination == nil {
		t.Fatalf("expected paginated 200, got %d", code)
	}
	var items []map[string]any
	_ = json.Unmarshal(resp.Data, &items)
	if len(items) != 1 || resp.Pagination.Total != 2 || resp.Pagination.TotalPages != 2 || resp.Pagination.Page != 1 {
		t.Fatalf("unexpected page: %d items, %+v", len(items), resp.Pagination)
	}

	for _, q := range []string{"page=2305843009213693953&limit=12", "page=9223372036854775807&limit=100"} {
		code, resp = s.do(t, http.MethodGet, "/products?"+q, "", "")
		if code != http.StatusOK || string(resp.Data) != "[]" || resp.Pagination.Total != 2 {
			t.Fatalf("%s: expected empty 200 page, got %d %s", q, code, resp.Data)
		}
	}

	code, resp = s.do(t, http.MethodGet, "/products?category=Books", "", "")
	if code != http.StatusOK || string(resp.Data) != "[]" || resp.Pagination.TotalPages != 0 {
		t.Fatalf("empty category: %d %s %+v", code, resp.Data, resp.Pagination)
	}
}

func TestRouter_ProductCreateGate(t *testing.T) {
	s := newTestServer(t)
	body := `{"name":"USB-C Cable","description":"1m braided","price":9.99,"category":"Electronics","stock":100}`

	code, resp := s.do(t, http.MethodPost, "/products", "", body)
	if code != http.StatusUnauthorized || resp.Error != "Authorization token required" {
		t.Fatalf("no token: expected 401, got %d %q", code, resp.Error)
	}
	if code, _ := s.do(t, http.MethodPost, "/products", "garbage", body); code != http.StatusUnauthorized {
		t.Fatalf("bad token: expected 401, got %d", code)
	}

	customer := s.login(t, "customer@example.com", "customer123")
	if code, resp := s.do(t, http.MethodPost, "/products", customer.Token, body); code != http.StatusForbidden || resp.Error != "Insufficient permissions" {
		t.Fatalf("customer: expected 403, got %d %q", code, resp.Error)
	}

	vendor := s.login(t, "vendor@example.com", "vendor123")
	if code, _ := s.do(t, http.MethodPost, "/products", vendor.Token, `{"name":"X"}`); code != http.StatusBadRequest {
		t.Fatalf("missing fields: expected 400, got %d", code)
	}
	code, resp = s.do(t, http.MethodPost, "/products", vendor.Token, body)
	if code != http.StatusCreated {
		t.Fatalf("vendor create: expected 201, got %d %q", code, resp.Error)
	}
	var p struct {
		ID       string `json:"id"`
		Slug     string `json:"slug"`
		VendorID string `json:"vendorId"`
	}
	_ = json.Unmarshal(resp.Data, &p)
	if p.Slug != "usb-c-cable" || p.VendorID != "vendor-1" {
		t.Fatalf("unexpected product %s", resp.Data)
	}

	if code, _ := s.do(t, http.MethodGet, "/products/slug/usb-c-cable", "", ""); code != http.StatusOK {
		t.Fatalf("slug lookup: expected 200, got %d", code)
	}
	if code, _ := s.do(t, http.MethodGet, "/products/"+p.ID, "", ""); code != http.StatusOK {
		t.Fatalf("id lookup: expected 200, got %d", code)
	}
	if code, _ := s.do(t, http.MethodGet, "/products/missing", "", ""); code != http.StatusNotFound {
		t.Fatalf("unknown product: expected 404, got %d", code)
	}

	if code, _ := s.do(t, http.MethodPatch, "/products/"+p.ID, vendor.Token, `{"price":7.5}`); code != http.StatusOK {
		t.Fatalf("owner update: expected 200, got %d", code)
	}
	admin := s.login(t, "admin@ecommerce.com", "admin123")
	if code, _ := s.do(t, http.MethodDelete, "/products/"+p.ID, admin.Token, ""); code != http.StatusOK {
		t.Fatalf("admin delete: expected 200, got %d", code)
	}
}

func TestRouter_TokenForUnknownUserIsNotFound(t *testing.T) {
	s := newTestServer(t)
	token, err := s.tokens.Issue(&domain.User{ID: "ghost", Role: domain.RoleCustomer})
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	if code, resp := s.do(t, http.MethodGet, "/auth/profile", token, ""); code != http.StatusNotFound || resp.Error != "User not found" {
		t.Fatalf("expected 404, got %d %q", code, resp.Error)
	}
}

func TestRouter_OperationalEndpoints(t *testing.T) {
	s := newTestServer(t)

	if code, _ := s.do(t, http.MethodGet, "/health", "", ""); code != http.StatusOK {
		t.Fatalf("health: %d", code)
	}
	if code, _ := s.do(t, http.MethodGet, "/health/ready", "", ""); code != http.StatusOK {
		t.Fatalf("readiness: %d", code)
	}
	if code, resp := s.do(t, http.MethodGet, "/categories", "", ""); code != http.StatusOK || !strings.Contains(string(resp.Data), "Electronics") {
		t.Fatalf("categories: %d %s", code, resp.Data)
	}

	s.do(t, http.MethodGet, "/products", "", "")
	rec := httptest.NewRecorder()
	s.e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), "requests_total") {
		t.Fatalf("metrics: %d", rec.Code)
	}

	code, resp := s.do(t, http.MethodGet, "/nope", "", "")
	if code != http.StatusNotFound || resp.Success {
		t.Fatalf("unknown route: expected 404 envelope, got %d", code)
	}
}
