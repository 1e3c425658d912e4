package httpx

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/redis/go-redis/v9"

	"github.com/stockdesk/stockdesk/internal/inventory"
	"github.com/stockdesk/stockdesk/internal/redisx"
)

// Handler serves the entity REST API. Redis is optional; when present it
// caches the dashboard payload and serves the recent-activity fast path.
type Handler struct {
	Store inventory.Store
	Redis *redis.Client
}

func (h *Handler) Register(r chi.Router, requireAuth func(http.Handler) http.Handler) {
	r.Group(func(r chi.Router) {
		r.Use(requireAuth)

		r.Get("/api/dashboard", h.dashboard)
		r.Get("/api/activities", h.listActivities)
		r.Get("/api/low-stock", h.lowStock)

		r.Get("/api/products", h.listProducts)
		r.Get("/api/products/{id}", h.getProduct)
		r.Post("/api/products", h.createProduct)
		r.Put("/api/products/{id}", h.updateProduct)
		r.Delete("/api/products/{id}", h.deleteProduct)

		r.Get("/api/clients", h.listClients)
		r.Get("/api/clients/{id}", h.getClient)
		r.Post("/api/clients", h.createClient)
		r.Put("/api/clients/{id}", h.updateClient)
		r.Delete("/api/clients/{id}", h.deleteClient)

		r.Get("/api/orders", h.listOrders)
		r.Get("/api/orders/{id}", h.getOrder)
		r.Post("/api/orders", h.createOrder)
		r.Put("/api/orders/{id}", h.updateOrder)
		r.Get("/api/orders/{id}/items", h.listOrderItems)
		r.Post("/api/orders/{id}/items", h.createOrderItem)

		r.Get("/api/expenses", h.listExpenses)
		r.Get("/api/expenses/{id}", h.getExpense)
		r.Post("/api/expenses", h.createExpense)
		r.Put("/api/expenses/{id}", h.updateExpense)
		r.Delete("/api/expenses/{id}", h.deleteExpense)

		r.Get("/api/inventory-requests", h.listRequests)
		r.Get("/api/inventory-requests/{id}", h.getRequest)
		r.Post("/api/inventory-requests", h.createRequest)
		r.Put("/api/inventory-requests/{id}", h.updateRequest)
	})
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

// fail maps domain errors onto transport codes: NotFound -> 404,
// ValidationError -> 400, anything else -> 500.
func fail(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, inventory.ErrNotFound):
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "not found"})
	case inventory.IsValidation(err):
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
	default:
		log.Printf("internal error: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal error"})
	}
}

func urlID(r *http.Request) (int, bool) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	return id, err == nil && id > 0
}

func decode(r *http.Request, v any) bool {
	return json.NewDecoder(r.Body).Decode(v) == nil
}

// Dashboard

func (h *Handler) dashboard(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if h.Redis != nil {
		if s, err := h.Redis.Get(ctx, redisx.KeyDashboard).Result(); err == nil && s != "" {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write([]byte(s))
			return
		}
	}

	products, err := h.Store.ListProducts(ctx)
	if err != nil {
		fail(w, err)
		return
	}
	clients, err := h.Store.ListClients(ctx)
	if err != nil {
		fail(w, err)
		return
	}
	orders, err := h.Store.ListOrders(ctx)
	if err != nil {
		fail(w, err)
		return
	}
	expenses, err := h.Store.ListExpenses(ctx)
	if err != nil {
		fail(w, err)
		return
	}

	d := inventory.BuildDashboard(products, clients, orders, expenses)
	b, _ := json.Marshal(d)
	if h.Redis != nil {
		_ = h.Redis.Set(ctx, redisx.KeyDashboard, b, redisx.TTLDashboard).Err()
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(b)
}

// Activities

func (h *Handler) listActivities(w http.ResponseWriter, r *http.Request) {
	limit := 10
	if q := r.URL.Query().Get("limit"); q != "" {
		n, err := strconv.Atoi(q)
		if err != nil || n <= 0 {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid limit"})
			return
		}
		limit = n
	}

	// fast path: capped list kept warm by the feed consumer. The list holds
	// at most RecentActivityMax entries in delivery order, which can differ
	// slightly from timestamp order across feed workers; requests over the
	// cap go to the store, which has the full history.
	if h.Redis != nil && limit <= redisx.RecentActivityMax {
		if entries, err := h.Redis.LRange(r.Context(), redisx.KeyRecentActivity, 0, int64(limit-1)).Result(); err == nil && len(entries) > 0 {
			out := make([]json.RawMessage, len(entries))
			for i, e := range entries {
				out[i] = json.RawMessage(e)
			}
			writeJSON(w, http.StatusOK, out)
			return
		}
	}

	acts, err := h.Store.RecentActivities(r.Context(), limit)
	if err != nil {
		fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, acts)
}

// Low stock

type lowStockItem struct {
	inventory.Product
	StockLevel string  `json:"stockLevel"`
	Ratio      float64 `json:"depletionRatio"`
}

func (h *Handler) lowStock(w http.ResponseWriter, r *http.Request) {
	products, err := h.Store.ListProducts(r.Context())
	if err != nil {
		fail(w, err)
		return
	}
	low := inventory.EvaluateLowStock(products)
	out := make([]lowStockItem, len(low))
	for i, p := range low {
		out[i] = lowStockItem{Product: p, StockLevel: inventory.StockLevel(p), Ratio: inventory.DepletionRatio(p)}
	}
	writeJSON(w, http.StatusOK, out)
}

// Products

func (h *Handler) listProducts(w http.ResponseWriter, r *http.Request) {
	products, err := h.Store.ListProducts(r.Context())
	if err != nil {
		fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, products)
}

func (h *Handler) getProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(r)
	if !ok {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid id"})
		return
	}
	p, err := h.Store.GetProduct(r.Context(), id)
	if err != nil {
		fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (h *Handler) createProduct(w http.ResponseWriter, r *http.Request) {
	var in inventory.NewProduct
	if !decode(r, &in) {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid json"})
		return
	}
	p, err := h.Store.CreateProduct(r.Context(), in)
	if err != nil {
		fail(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, p)
}

func (h *Handler) updateProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(r)
	if !ok {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid id"})
		return
	}
	var patch inventory.ProductPatch
	if !decode(r, &patch) {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid json"})
		return
	}
	p, err := h.Store.UpdateProduct(r.Context(), id, patch)
	if err != nil {
		fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (h *Handler) deleteProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(r)
	if !ok {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid id"})
		return
	}
	deleted, err := h.Store.DeleteProduct(r.Context(), id)
	if err != nil {
		fail(w, err)
		return
	}
	if !deleted {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "not found"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "deleted"})
}

// Clients

func (h *Handler) listClients(w http.ResponseWriter, r *http.Request) {
	clients, err := h.Store.ListClients(r.Context())
	if err != nil {
		fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, clients)
}

func (h *Handler) getClient(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(r)
	if !ok {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid id"})
		return
	}
	c, err := h.Store.GetClient(r.Context(), id)
	if err != nil {
		fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, c)
}

func (h *Handler) createClient(w http.ResponseWriter, r *http.Request) {
	var in inventory.NewClient
	if !decode(r, &in) {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid json"})
		return
	}
	c, err := h.Store.CreateClient(r.Context(), in)
	if err != nil {
		fail(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, c)
}

func (h *Handler) updateClient(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(r)
	if !ok {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid id"})
		return
	}
	var patch inventory.ClientPatch
	if !decode(r, &patch) {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid json"})
		return
	}
	c, err := h.Store.UpdateClient(r.Context(), id, patch)
	if err != nil {
		fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, c)
}

func (h *Handler) deleteClient(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(r)
	if !ok {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid id"})
		return
	}
	deleted, err := h.Store.DeleteClient(r.Context(), id)
	if err != nil {
		fail(w, err)
		return
	}
	if !deleted {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "not found"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "deleted"})
}

// Orders

func (h *Handler) listOrders(w http.ResponseWriter, r *http.Request) {
	orders, err := h.Store.ListOrders(r.Context())
	if err != nil {
		fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, orders)
}

func (h *Handler) getOrder(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(r)
	if !ok {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid id"})
		return
	}
	o, err := h.Store.GetOrder(r.Context(), id)
	if err != nil {
		fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, o)
}

func (h *Handler) createOrder(w http.ResponseWriter, r *http.Request) {
	var in inventory.NewOrder
	if !decode(r, &in) {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid json"})
		return
	}
	o, err := h.Store.CreateOrder(r.Context(), in)
	if err != nil {
		fail(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, o)
}

func (h *Handler) updateOrder(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(r)
	if !ok {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid id"})
		return
	}
	var patch inventory.OrderPatch
	if !decode(r, &patch) {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid json"})
		return
	}
	o, err := h.Store.UpdateOrder(r.Context(), id, patch)
	if err != nil {
		fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, o)
}

func (h *Handler) listOrderItems(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(r)
	if !ok {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid id"})
		return
	}
	items, err := h.Store.ListOrderItems(r.Context(), id)
	if err != nil {
		fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, items)
}

func (h *Handler) createOrderItem(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(r)
	if !ok {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid id"})
		return
	}
	var in inventory.NewOrderItem
	if !decode(r, &in) {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid json"})
		return
	}
	in.OrderID = id
	it, err := h.Store.CreateOrderItem(r.Context(), in)
	if err != nil {
		fail(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, it)
}

// Expenses

func (h *Handler) listExpenses(w http.ResponseWriter, r *http.Request) {
	expenses, err := h.Store.ListExpenses(r.Context())
	if err != nil {
		fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, expenses)
}

func (h *Handler) getExpense(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(r)
	if !ok {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid id"})
		return
	}
	e, err := h.Store.GetExpense(r.Context(), id)
	if err != nil {
		fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, e)
}

func (h *Handler) createExpense(w http.ResponseWriter, r *http.Request) {
	var in inventory.NewExpense
	if !decode(r, &in) {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid json"})
		return
	}
	e, err := h.Store.CreateExpense(r.Context(), in)
	if err != nil {
		fail(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, e)
}

func (h *Handler) updateExpense(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(r)
	if !ok {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid id"})
		return
	}
	var patch inventory.ExpensePatch
	if !decode(r, &patch) {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid json"})
		return
	}
	e, err := h.Store.UpdateExpense(r.Context(), id, patch)
	if err != nil {
		fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, e)
}

func (h *Handler) deleteExpense(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(r)
	if !ok {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid id"})
		return
	}
	deleted, err := h.Store.DeleteExpense(r.Context(), id)
	if err != nil {
		fail(w, err)
		return
	}
	if !deleted {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "not found"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "deleted"})
}

// Inventory requests

func (h *Handler) listRequests(w http.ResponseWriter, r *http.Request) {
	requests, err := h.Store.ListInventoryRequests(r.Context())
	if err != nil {
		fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, requests)
}

func (h *Handler) getRequest(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(r)
	if !ok {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid id"})
		return
	}
	req, err := h.Store.GetInventoryRequest(r.Context(), id)
	if err != nil {
		fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, req)
}

func (h *Handler) createRequest(w http.ResponseWriter, r *http.Request) {
	var in inventory.NewInventoryRequest
	if !decode(r, &in) {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid json"})
		return
	}
	// the submitter is always the session user
	if userID, ok := UserIDFrom(r.Context()); ok {
		in.UserID = userID
	}
	req, err := h.Store.CreateInventoryRequest(r.Context(), in)
	if err != nil {
		fail(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, req)
}

func (h *Handler) updateRequest(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(r)
	if !ok {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid id"})
		return
	}
	var patch inventory.InventoryRequestPatch
	if !decode(r, &patch) {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid json"})
		return
	}
	req, err := h.Store.UpdateInventoryRequest(r.Context(), id, patch)
	if err != nil {
		fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, req)
}
