package inventory

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"
)

func newTestStore() *MemStore {
	return NewMemStore(nil)
}

func mustProduct(t *testing.T, s *MemStore, in NewProduct) Product {
	t.Helper()
	p, err := s.CreateProduct(context.Background(), in)
	if err != nil {
		t.Fatalf("CreateProduct: %v", err)
	}
	return p
}

func mustClient(t *testing.T, s *MemStore, name string) Client {
	t.Helper()
	c, err := s.CreateClient(context.Background(), NewClient{Name: name})
	if err != nil {
		t.Fatalf("CreateClient: %v", err)
	}
	return c
}

func mustOrder(t *testing.T, s *MemStore, clientID int, total string) Order {
	t.Helper()
	o, err := s.CreateOrder(context.Background(), NewOrder{ClientID: clientID, Total: dec(total)})
	if err != nil {
		t.Fatalf("CreateOrder: %v", err)
	}
	return o
}

func TestMemStore_ProductRoundTrip(t *testing.T) {
	ctx := context.Background()
	s := newTestStore()

	created := mustProduct(t, s, NewProduct{
		Name: "Widget A", SKU: "PRD-001", Category: "Widgets",
		Quantity: intp(5), MinQuantity: intp(25),
		Price: dec("29.99"), Cost: dec("15.00"),
	})
	if created.ID == 0 {
		t.Fatal("expected an assigned id")
	}

	got, err := s.GetProduct(ctx, created.ID)
	if err != nil {
		t.Fatalf("GetProduct: %v", err)
	}
	if got.Name != "Widget A" || got.SKU != "PRD-001" || got.Quantity != 5 || got.MinQuantity != 25 {
		t.Errorf("round-trip mismatch: %+v", got)
	}
	if !got.Price.Equal(dec("29.99")) {
		t.Errorf("expected price 29.99, got %s", got.Price)
	}

	name := "Widget A2"
	qty := 30
	updated, err := s.UpdateProduct(ctx, created.ID, ProductPatch{Name: &name, Quantity: &qty})
	if err != nil {
		t.Fatalf("UpdateProduct: %v", err)
	}
	if updated.Name != "Widget A2" || updated.Quantity != 30 {
		t.Errorf("patch not merged: %+v", updated)
	}
	if updated.SKU != "PRD-001" {
		t.Errorf("untouched field changed: sku=%s", updated.SKU)
	}

	deleted, err := s.DeleteProduct(ctx, created.ID)
	if err != nil || !deleted {
		t.Fatalf("DeleteProduct = %v, %v; want true, nil", deleted, err)
	}
	if _, err := s.GetProduct(ctx, created.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound after delete, got %v", err)
	}
	deleted, err = s.DeleteProduct(ctx, created.ID)
	if err != nil || deleted {
		t.Errorf("second delete = %v, %v; want false, nil", deleted, err)
	}
}

func TestMemStore_ProductDefaults(t *testing.T) {
	s := newTestStore()
	p := mustProduct(t, s, NewProduct{Name: "X", SKU: "SKU-1", Category: "C", Price: dec("1"), Cost: dec("1")})
	if p.Quantity != 0 {
		t.Errorf("default quantity = %d, want 0", p.Quantity)
	}
	if p.MinQuantity != 10 {
		t.Errorf("default minQuantity = %d, want 10", p.MinQuantity)
	}
	if p.Status != ProductActive {
		t.Errorf("default status = %q, want active", p.Status)
	}
}

func TestMemStore_CreateProduct_Validation(t *testing.T) {
	neg := -1
	tests := []struct {
		name string
		in   NewProduct
	}{
		{"missing name", NewProduct{SKU: "S", Category: "C"}},
		{"missing sku", NewProduct{Name: "N", Category: "C"}},
		{"missing category", NewProduct{Name: "N", SKU: "S"}},
		{"negative quantity", NewProduct{Name: "N", SKU: "S", Category: "C", Quantity: &neg}},
		{"negative minQuantity", NewProduct{Name: "N", SKU: "S", Category: "C", MinQuantity: &neg}},
		{"negative price", NewProduct{Name: "N", SKU: "S", Category: "C", Price: dec("-1")}},
		{"bad status", NewProduct{Name: "N", SKU: "S", Category: "C", Status: "archived"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestStore()
			if _, err := s.CreateProduct(context.Background(), tt.in); !IsValidation(err) {
				t.Errorf("expected ValidationError, got %v", err)
			}
		})
	}
}

func TestMemStore_DuplicateSKU(t *testing.T) {
	s := newTestStore()
	mustProduct(t, s, NewProduct{Name: "A", SKU: "DUP", Category: "C"})
	if _, err := s.CreateProduct(context.Background(), NewProduct{Name: "B", SKU: "DUP", Category: "C"}); !IsValidation(err) {
		t.Errorf("expected ValidationError for duplicate sku, got %v", err)
	}
}

func TestMemStore_CreateOrderItem_DecrementsStock(t *testing.T) {
	tests := []struct {
		name      string
		start     int
		qtys      []int
		wantFinal int
	}{
		{"single item", 20, []int{5}, 15},
		{"several items", 20, []int{5, 10}, 5},
		{"exact depletion", 20, []int{20}, 0},
		{"clamped at zero", 20, []int{15, 15}, 0},
		{"over-draw once", 3, []int{10}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			s := newTestStore()
			p := mustProduct(t, s, NewProduct{Name: "P", SKU: "SKU-1", Category: "C", Quantity: &tt.start})
			c := mustClient(t, s, "Acme")
			o := mustOrder(t, s, c.ID, "100")

			for _, q := range tt.qtys {
				if _, err := s.CreateOrderItem(ctx, NewOrderItem{OrderID: o.ID, ProductID: p.ID, Quantity: q, Price: dec("1")}); err != nil {
					t.Fatalf("CreateOrderItem(%d): %v", q, err)
				}
			}
			got, err := s.GetProduct(ctx, p.ID)
			if err != nil {
				t.Fatalf("GetProduct: %v", err)
			}
			if got.Quantity != tt.wantFinal {
				t.Errorf("final quantity = %d, want %d", got.Quantity, tt.wantFinal)
			}

			items, err := s.ListOrderItems(ctx, o.ID)
			if err != nil {
				t.Fatalf("ListOrderItems: %v", err)
			}
			if len(items) != len(tt.qtys) {
				t.Errorf("stored %d items, want %d", len(items), len(tt.qtys))
			}
		})
	}
}

func TestMemStore_UnknownReferencesRejected(t *testing.T) {
	ctx := context.Background()
	s := newTestStore()
	p := mustProduct(t, s, NewProduct{Name: "P", SKU: "SKU-1", Category: "C", Quantity: intp(10)})
	c := mustClient(t, s, "Acme")
	o := mustOrder(t, s, c.ID, "10")

	if _, err := s.CreateOrder(ctx, NewOrder{ClientID: 999, Total: dec("1")}); !IsValidation(err) {
		t.Errorf("order with unknown client: expected ValidationError, got %v", err)
	}
	if _, err := s.CreateOrderItem(ctx, NewOrderItem{OrderID: 999, ProductID: p.ID, Quantity: 1}); !IsValidation(err) {
		t.Errorf("item with unknown order: expected ValidationError, got %v", err)
	}
	if _, err := s.CreateOrderItem(ctx, NewOrderItem{OrderID: o.ID, ProductID: 999, Quantity: 1}); !IsValidation(err) {
		t.Errorf("item with unknown product: expected ValidationError, got %v", err)
	}
	unknown := 999
	if _, err := s.CreateInventoryRequest(ctx, NewInventoryRequest{ProductID: &unknown, ProductName: "X", Quantity: 1, UserID: 1}); !IsValidation(err) {
		t.Errorf("request with unknown product: expected ValidationError, got %v", err)
	}

	// a rejected reference never touches stock
	got, _ := s.GetProduct(ctx, p.ID)
	if got.Quantity != 10 {
		t.Errorf("stock changed on rejected insert: %d", got.Quantity)
	}
}

func TestMemStore_CreateEmitsActivity(t *testing.T) {
	ctx := context.Background()
	s := newTestStore()
	mustProduct(t, s, NewProduct{Name: "Widget A", SKU: "PRD-001", Category: "Widgets"})

	acts, err := s.RecentActivities(ctx, 10)
	if err != nil {
		t.Fatalf("RecentActivities: %v", err)
	}
	if len(acts) != 1 {
		t.Fatalf("expected 1 activity, got %d", len(acts))
	}
	a := acts[0]
	if a.Type != ActivityInventory {
		t.Errorf("type = %q, want inventory", a.Type)
	}
	if a.Description != "Product Widget A added to inventory" {
		t.Errorf("unexpected description %q", a.Description)
	}
	if a.RelatedType != "product" || a.RelatedID == nil {
		t.Errorf("related fields not set: %+v", a)
	}
}

func TestMemStore_RecentActivities(t *testing.T) {
	ctx := context.Background()
	s := newTestStore()

	for i := 0; i < 15; i++ {
		if _, err := s.RecordActivity(ctx, NewActivity{Type: "test", Description: "entry"}); err != nil {
			t.Fatalf("RecordActivity: %v", err)
		}
	}

	acts, err := s.RecentActivities(ctx, 10)
	if err != nil {
		t.Fatalf("RecentActivities: %v", err)
	}
	if len(acts) != 10 {
		t.Fatalf("limit not applied: got %d", len(acts))
	}
	for i := 1; i < len(acts); i++ {
		if acts[i].Timestamp.After(acts[i-1].Timestamp) {
			t.Fatalf("not ordered newest-first at index %d", i)
		}
	}

	// default limit
	acts, _ = s.RecentActivities(ctx, 0)
	if len(acts) != 10 {
		t.Errorf("default limit = %d entries, want 10", len(acts))
	}

	// monotonic: a fresh append always surfaces first
	latest, err := s.RecordActivity(ctx, NewActivity{Type: "test", Description: "newest"})
	if err != nil {
		t.Fatalf("RecordActivity: %v", err)
	}
	acts, _ = s.RecentActivities(ctx, 10)
	if acts[0].ID != latest.ID {
		t.Errorf("newest entry not first: got id %d, want %d", acts[0].ID, latest.ID)
	}
}

func TestMemStore_RequestWorkflow(t *testing.T) {
	ctx := context.Background()
	s := newTestStore()

	req, err := s.CreateInventoryRequest(ctx, NewInventoryRequest{
		ProductName: "Widget A", Quantity: 50, Priority: PriorityHigh, UserID: 1,
	})
	if err != nil {
		t.Fatalf("CreateInventoryRequest: %v", err)
	}
	if req.Status != RequestPending {
		t.Fatalf("initial status = %s, want pending", req.Status)
	}

	approved := RequestApproved
	got, err := s.UpdateInventoryRequest(ctx, req.ID, InventoryRequestPatch{Status: &approved})
	if err != nil {
		t.Fatalf("approve: %v", err)
	}
	if got.Status != RequestApproved {
		t.Fatalf("status = %s, want approved", got.Status)
	}

	acts, _ := s.RecentActivities(ctx, 10)
	found := false
	for _, a := range acts {
		if a.Type == ActivityRequest && strings.Contains(a.Description, "approved") {
			found = true
		}
	}
	if !found {
		t.Error("no request activity mentioning the approval")
	}

	// terminal state is closed
	pending := RequestPending
	if _, err := s.UpdateInventoryRequest(ctx, req.ID, InventoryRequestPatch{Status: &pending}); !IsValidation(err) {
		t.Errorf("re-open: expected ValidationError, got %v", err)
	}
	rejected := RequestRejected
	if _, err := s.UpdateInventoryRequest(ctx, req.ID, InventoryRequestPatch{Status: &rejected}); !IsValidation(err) {
		t.Errorf("approved->rejected: expected ValidationError, got %v", err)
	}
}

func TestMemStore_RejectEmitsActivity(t *testing.T) {
	ctx := context.Background()
	s := newTestStore()
	req, err := s.CreateInventoryRequest(ctx, NewInventoryRequest{ProductName: "Gadget B", Quantity: 5, UserID: 1})
	if err != nil {
		t.Fatalf("CreateInventoryRequest: %v", err)
	}
	rejected := RequestRejected
	if _, err := s.UpdateInventoryRequest(ctx, req.ID, InventoryRequestPatch{Status: &rejected}); err != nil {
		t.Fatalf("reject: %v", err)
	}
	acts, _ := s.RecentActivities(ctx, 10)
	found := false
	for _, a := range acts {
		if a.Type == ActivityRequest && strings.Contains(a.Description, "rejected") {
			found = true
		}
	}
	if !found {
		t.Error("no request activity mentioning the rejection")
	}
}

func TestMemStore_RequestDefaults(t *testing.T) {
	s := newTestStore()
	req, err := s.CreateInventoryRequest(context.Background(), NewInventoryRequest{ProductName: "X", Quantity: 1, UserID: 1})
	if err != nil {
		t.Fatalf("CreateInventoryRequest: %v", err)
	}
	if req.Priority != PriorityMedium {
		t.Errorf("default priority = %s, want medium", req.Priority)
	}
	if req.CreatedAt.IsZero() {
		t.Error("createdAt not set")
	}
}

func TestMemStore_Users(t *testing.T) {
	ctx := context.Background()
	s := newTestStore()

	u, err := s.CreateUser(ctx, NewUser{Username: "admin", Password: "hash", Name: "John", Email: "a@b.c"})
	if err != nil {
		t.Fatalf("CreateUser: %v", err)
	}
	if u.Role != "user" {
		t.Errorf("default role = %q, want user", u.Role)
	}

	byName, err := s.GetUserByUsername(ctx, "admin")
	if err != nil || byName.ID != u.ID {
		t.Errorf("GetUserByUsername = %+v, %v", byName, err)
	}
	if _, err := s.GetUserByUsername(ctx, "ghost"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
	if _, err := s.CreateUser(ctx, NewUser{Username: "admin", Password: "h", Name: "N", Email: "e@x.y"}); !IsValidation(err) {
		t.Errorf("duplicate username: expected ValidationError, got %v", err)
	}
}

func TestMemStore_HookRunsOutsideLock(t *testing.T) {
	s := newTestStore()
	entered := make(chan struct{})
	release := make(chan struct{})
	s.SetActivityHook(func(Activity) {
		close(entered)
		<-release
	})

	createDone := make(chan error, 1)
	go func() {
		_, err := s.CreateProduct(context.Background(), NewProduct{Name: "P", SKU: "S-1", Category: "C"})
		createDone <- err
	}()
	<-entered

	// the hook is blocked; reads must still get through
	readDone := make(chan error, 1)
	go func() {
		_, err := s.ListProducts(context.Background())
		readDone <- err
	}()
	select {
	case err := <-readDone:
		if err != nil {
			t.Fatalf("ListProducts: %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("store blocked while the activity hook was running")
	}

	close(release)
	if err := <-createDone; err != nil {
		t.Fatalf("CreateProduct: %v", err)
	}
}

func TestSeedDemoData(t *testing.T) {
	ctx := context.Background()
	s := newTestStore()
	if err := SeedDemoData(ctx, s, "hash"); err != nil {
		t.Fatalf("SeedDemoData: %v", err)
	}

	products, _ := s.ListProducts(ctx)
	if len(products) != 6 {
		t.Errorf("seeded %d products, want 6", len(products))
	}
	clients, _ := s.ListClients(ctx)
	if len(clients) != 3 {
		t.Errorf("seeded %d clients, want 3", len(clients))
	}
	orders, _ := s.ListOrders(ctx)
	if len(orders) != 3 {
		t.Errorf("seeded %d orders, want 3", len(orders))
	}
	expenses, _ := s.ListExpenses(ctx)
	if len(expenses) != 5 {
		t.Errorf("seeded %d expenses, want 5", len(expenses))
	}
	requests, _ := s.ListInventoryRequests(ctx)
	if len(requests) != 2 {
		t.Errorf("seeded %d requests, want 2", len(requests))
	}
}
