package httpx

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/stockdesk/stockdesk/internal/inventory"
)

// authAs injects a fixed user id so handlers can be exercised without a
// session backend.
func authAs(userID int) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			next.ServeHTTP(w, r.WithContext(WithUserID(r.Context(), userID)))
		})
	}
}

func newTestServer(t *testing.T) (*inventory.MemStore, http.Handler) {
	t.Helper()
	store := inventory.NewMemStore(nil)
	r := chi.NewRouter()
	h := &Handler{Store: store}
	h.Register(r, authAs(1))
	return store, r
}

func do(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func decodeBody[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.NewDecoder(w.Body).Decode(&v); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return v
}

func TestProductEndpoints(t *testing.T) {
	_, srv := newTestServer(t)

	w := do(t, srv, http.MethodPost, "/api/products",
		`{"name":"Widget A","sku":"PRD-001","category":"Widgets","quantity":5,"minQuantity":25,"price":"29.99","cost":"15.00"}`)
	if w.Code != http.StatusCreated {
		t.Fatalf("create: status %d, body %s", w.Code, w.Body)
	}
	created := decodeBody[inventory.Product](t, w)
	if created.ID == 0 || created.Name != "Widget A" {
		t.Fatalf("unexpected create payload: %+v", created)
	}

	w = do(t, srv, http.MethodGet, "/api/products/1", "")
	if w.Code != http.StatusOK {
		t.Fatalf("get: status %d", w.Code)
	}
	got := decodeBody[inventory.Product](t, w)
	if !got.Price.Equal(decimal.RequireFromString("29.99")) {
		t.Errorf("price = %s, want 29.99", got.Price)
	}

	w = do(t, srv, http.MethodPut, "/api/products/1", `{"quantity":40}`)
	if w.Code != http.StatusOK {
		t.Fatalf("update: status %d, body %s", w.Code, w.Body)
	}
	patched := decodeBody[inventory.Product](t, w)
	if patched.Quantity != 40 || patched.SKU != "PRD-001" {
		t.Errorf("patch not merged: %+v", patched)
	}

	w = do(t, srv, http.MethodDelete, "/api/products/1", "")
	if w.Code != http.StatusOK {
		t.Fatalf("delete: status %d", w.Code)
	}
	if w := do(t, srv, http.MethodGet, "/api/products/1", ""); w.Code != http.StatusNotFound {
		t.Errorf("get after delete: status %d, want 404", w.Code)
	}
	if w := do(t, srv, http.MethodDelete, "/api/products/1", ""); w.Code != http.StatusNotFound {
		t.Errorf("second delete: status %d, want 404", w.Code)
	}
}

func TestErrorMapping(t *testing.T) {
	_, srv := newTestServer(t)

	tests := []struct {
		name         string
		method, path string
		body         string
		want         int
	}{
		{"unknown product", http.MethodGet, "/api/products/42", "", http.StatusNotFound},
		{"invalid id", http.MethodGet, "/api/products/abc", "", http.StatusBadRequest},
		{"zero id", http.MethodGet, "/api/products/0", "", http.StatusBadRequest},
		{"malformed json", http.MethodPost, "/api/products", `{"name":`, http.StatusBadRequest},
		{"missing fields", http.MethodPost, "/api/products", `{"name":"X"}`, http.StatusBadRequest},
		{"unknown client fk", http.MethodPost, "/api/orders", `{"clientId":99,"total":"10"}`, http.StatusBadRequest},
		{"bad limit", http.MethodGet, "/api/activities?limit=-1", "", http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := do(t, srv, tt.method, tt.path, tt.body)
			if w.Code != tt.want {
				t.Errorf("status %d, want %d (body %s)", w.Code, tt.want, w.Body)
			}
		})
	}
}

func TestOrderItemEndpoint(t *testing.T) {
	store, srv := newTestServer(t)
	ctx := context.Background()

	qty := 20
	p, err := store.CreateProduct(ctx, inventory.NewProduct{Name: "P", SKU: "S-1", Category: "C", Quantity: &qty})
	if err != nil {
		t.Fatal(err)
	}
	c, err := store.CreateClient(ctx, inventory.NewClient{Name: "Acme"})
	if err != nil {
		t.Fatal(err)
	}
	o, err := store.CreateOrder(ctx, inventory.NewOrder{ClientID: c.ID, Total: decimal.RequireFromString("100")})
	if err != nil {
		t.Fatal(err)
	}

	w := do(t, srv, http.MethodPost, "/api/orders/1/items",
		`{"productId":1,"quantity":8,"price":"5.00"}`)
	if w.Code != http.StatusCreated {
		t.Fatalf("create item: status %d, body %s", w.Code, w.Body)
	}
	item := decodeBody[inventory.OrderItem](t, w)
	if item.OrderID != o.ID || item.Quantity != 8 {
		t.Errorf("unexpected item: %+v", item)
	}

	after, _ := store.GetProduct(ctx, p.ID)
	if after.Quantity != 12 {
		t.Errorf("stock after item = %d, want 12", after.Quantity)
	}

	w = do(t, srv, http.MethodGet, "/api/orders/1/items", "")
	items := decodeBody[[]inventory.OrderItem](t, w)
	if len(items) != 1 {
		t.Errorf("listed %d items, want 1", len(items))
	}
}

func TestCreateRequest_UsesSessionUser(t *testing.T) {
	store, srv := newTestServer(t)

	// body claims user 99; the session user must win
	w := do(t, srv, http.MethodPost, "/api/inventory-requests",
		`{"productName":"Widget A","quantity":50,"userId":99}`)
	if w.Code != http.StatusCreated {
		t.Fatalf("create request: status %d, body %s", w.Code, w.Body)
	}
	req := decodeBody[inventory.InventoryRequest](t, w)
	if req.UserID != 1 {
		t.Errorf("userId = %d, want session user 1", req.UserID)
	}
	if req.Status != inventory.RequestPending {
		t.Errorf("status = %s, want pending", req.Status)
	}

	w = do(t, srv, http.MethodPut, "/api/inventory-requests/1", `{"status":"approved"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("approve: status %d, body %s", w.Code, w.Body)
	}
	w = do(t, srv, http.MethodPut, "/api/inventory-requests/1", `{"status":"rejected"}`)
	if w.Code != http.StatusBadRequest {
		t.Errorf("approved->rejected: status %d, want 400", w.Code)
	}

	got, err := store.GetInventoryRequest(context.Background(), 1)
	if err != nil || got.Status != inventory.RequestApproved {
		t.Errorf("final state = %+v, %v", got, err)
	}
}

func TestLowStockEndpoint(t *testing.T) {
	_, srv := newTestServer(t)

	do(t, srv, http.MethodPost, "/api/products",
		`{"name":"Widget A","sku":"PRD-001","category":"W","quantity":5,"minQuantity":25,"price":"29.99","cost":"15.00"}`)
	do(t, srv, http.MethodPost, "/api/products",
		`{"name":"Gadget B","sku":"PRD-002","category":"G","quantity":100,"minQuantity":10,"price":"9.99","cost":"5.00"}`)

	w := do(t, srv, http.MethodGet, "/api/low-stock", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status %d", w.Code)
	}
	var out []struct {
		Name       string  `json:"name"`
		StockLevel string  `json:"stockLevel"`
		Ratio      float64 `json:"depletionRatio"`
	}
	if err := json.NewDecoder(w.Body).Decode(&out); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(out) != 1 {
		t.Fatalf("got %d low items, want 1", len(out))
	}
	if out[0].Name != "Widget A" || out[0].StockLevel != "critical" || out[0].Ratio != 0.2 {
		t.Errorf("unexpected entry: %+v", out[0])
	}
}

func TestDashboardEndpoint(t *testing.T) {
	_, srv := newTestServer(t)

	do(t, srv, http.MethodPost, "/api/products",
		`{"name":"P","sku":"S-1","category":"C","quantity":10,"minQuantity":5,"price":"2.00","cost":"1.00"}`)
	do(t, srv, http.MethodPost, "/api/clients", `{"name":"Acme"}`)
	do(t, srv, http.MethodPost, "/api/orders", `{"clientId":1,"total":"150.00"}`)
	do(t, srv, http.MethodPost, "/api/expenses", `{"category":"Rent","amount":"100.00"}`)

	w := do(t, srv, http.MethodGet, "/api/dashboard", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status %d, body %s", w.Code, w.Body)
	}
	d := decodeBody[inventory.Dashboard](t, w)
	if !d.Synthetic {
		t.Error("synthetic flag missing")
	}
	if d.Stats.TotalInventory != 10 || d.Stats.TotalClients != 1 {
		t.Errorf("unexpected stats: %+v", d.Stats)
	}
	if !d.Stats.Profit.Equal(decimal.RequireFromString("50.00")) {
		t.Errorf("profit = %s, want 50.00", d.Stats.Profit)
	}
	if len(d.InventoryTrends) != 12 || len(d.FinanceTrends) != 12 {
		t.Errorf("trend lengths = %d, %d", len(d.InventoryTrends), len(d.FinanceTrends))
	}
}

func TestActivitiesEndpoint(t *testing.T) {
	_, srv := newTestServer(t)

	do(t, srv, http.MethodPost, "/api/products",
		`{"name":"Widget A","sku":"PRD-001","category":"W"}`)
	do(t, srv, http.MethodPost, "/api/clients", `{"name":"Acme"}`)

	w := do(t, srv, http.MethodGet, "/api/activities", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status %d", w.Code)
	}
	acts := decodeBody[[]inventory.Activity](t, w)
	if len(acts) != 2 {
		t.Fatalf("got %d activities, want 2", len(acts))
	}
	if acts[0].Type != "client" {
		t.Errorf("newest first violated: %+v", acts[0])
	}

	w = do(t, srv, http.MethodGet, "/api/activities?limit=1", "")
	acts = decodeBody[[]inventory.Activity](t, w)
	if len(acts) != 1 {
		t.Errorf("limit ignored: got %d", len(acts))
	}
}

func TestRequireAuth_NoCookie(t *testing.T) {
	sessions := &Sessions{}
	called := false
	h := sessions.RequireAuth(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))

	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/products", nil))
	if w.Code != http.StatusUnauthorized {
		t.Errorf("status %d, want 401", w.Code)
	}
	if called {
		t.Error("handler reached without a session")
	}
}
