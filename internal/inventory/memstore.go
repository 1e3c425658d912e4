package inventory

import (
	"context"
	"sort"
	"sync"
	"time"
)

// CounterAllocator hands out ids from per-kind incrementing counters. It is
// the default allocator for MemStore.
type CounterAllocator struct {
	mu       sync.Mutex
	counters map[string]int
}

func NewCounterAllocator() *CounterAllocator {
	return &CounterAllocator{counters: make(map[string]int)}
}

func (a *CounterAllocator) NextID(kind string) int {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.counters[kind]++
	return a.counters[kind]
}

// MemStore keeps everything in process memory. Useful for demos and tests;
// a restart loses all state.
type MemStore struct {
	mu  sync.RWMutex
	ids IDAllocator

	users      map[int]User
	products   map[int]Product
	clients    map[int]Client
	orders     map[int]Order
	orderItems map[int]OrderItem
	expenses   map[int]Expense
	requests   map[int]InventoryRequest
	activities map[int]Activity

	// onActivity, when set, observes every recorded entry. Wired to the
	// event producer by cmd/api.
	onActivity func(Activity)
}

var _ Store = (*MemStore)(nil)

func NewMemStore(ids IDAllocator) *MemStore {
	if ids == nil {
		ids = NewCounterAllocator()
	}
	return &MemStore{
		ids:        ids,
		users:      make(map[int]User),
		products:   make(map[int]Product),
		clients:    make(map[int]Client),
		orders:     make(map[int]Order),
		orderItems: make(map[int]OrderItem),
		expenses:   make(map[int]Expense),
		requests:   make(map[int]InventoryRequest),
		activities: make(map[int]Activity),
	}
}

func (s *MemStore) SetActivityHook(fn func(Activity)) {
	s.mu.Lock()
	s.onActivity = fn
	s.mu.Unlock()
}

// record appends an activity entry and returns it along with a delivery
// func for the hook. Caller must hold s.mu, and must run the delivery func
// only after releasing it: the hook may block, and a stalled hook must not
// stall the whole store.
func (s *MemStore) record(in NewActivity) (Activity, func()) {
	a := Activity{
		ID:          s.ids.NextID(KindActivity),
		Type:        in.Type,
		Description: in.Description,
		Timestamp:   time.Now().UTC(),
		UserID:      in.UserID,
		RelatedID:   in.RelatedID,
		RelatedType: in.RelatedType,
	}
	s.activities[a.ID] = a
	fn := s.onActivity
	if fn == nil {
		return a, func() {}
	}
	return a, func() { fn(a) }
}

// Users

func (s *MemStore) GetUser(ctx context.Context, id int) (User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	u, ok := s.users[id]
	if !ok {
		return User{}, ErrNotFound
	}
	return u, nil
}

func (s *MemStore) GetUserByUsername(ctx context.Context, username string) (User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, u := range s.users {
		if u.Username == username {
			return u, nil
		}
	}
	return User{}, ErrNotFound
}

func (s *MemStore) CreateUser(ctx context.Context, in NewUser) (User, error) {
	if err := in.validate(); err != nil {
		return User{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.Username == in.Username {
			return User{}, invalidf("username", "already taken")
		}
	}
	u := User{
		ID:       s.ids.NextID(KindUser),
		Username: in.Username,
		Password: in.Password,
		Name:     in.Name,
		Role:     in.Role,
		Email:    in.Email,
	}
	s.users[u.ID] = u
	return u, nil
}

// Products

func (s *MemStore) ListProducts(ctx context.Context) ([]Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Product, 0, len(s.products))
	for _, p := range s.products {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *MemStore) GetProduct(ctx context.Context, id int) (Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.products[id]
	if !ok {
		return Product{}, ErrNotFound
	}
	return p, nil
}

func (s *MemStore) CreateProduct(ctx context.Context, in NewProduct) (Product, error) {
	if err := in.validate(); err != nil {
		return Product{}, err
	}
	emit := func() {}
	defer func() { emit() }() // after unlock
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, p := range s.products {
		if p.SKU == in.SKU {
			return Product{}, invalidf("sku", "already exists")
		}
	}
	p := Product{
		ID:          s.ids.NextID(KindProduct),
		Name:        in.Name,
		SKU:         in.SKU,
		Description: in.Description,
		Category:    in.Category,
		Quantity:    *in.Quantity,
		MinQuantity: *in.MinQuantity,
		Price:       in.Price,
		Cost:        in.Cost,
		Status:      in.Status,
	}
	s.products[p.ID] = p
	_, emit = s.record(productAdded(p))
	return p, nil
}

func (s *MemStore) UpdateProduct(ctx context.Context, id int, patch ProductPatch) (Product, error) {
	if err := patch.validate(); err != nil {
		return Product{}, err
	}
	emit := func() {}
	defer func() { emit() }()
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.products[id]
	if !ok {
		return Product{}, ErrNotFound
	}
	if patch.Name != nil {
		p.Name = *patch.Name
	}
	if patch.SKU != nil {
		for _, other := range s.products {
			if other.ID != id && other.SKU == *patch.SKU {
				return Product{}, invalidf("sku", "already exists")
			}
		}
		p.SKU = *patch.SKU
	}
	if patch.Description != nil {
		p.Description = *patch.Description
	}
	if patch.Category != nil {
		p.Category = *patch.Category
	}
	if patch.Quantity != nil {
		p.Quantity = *patch.Quantity
	}
	if patch.MinQuantity != nil {
		p.MinQuantity = *patch.MinQuantity
	}
	if patch.Price != nil {
		p.Price = *patch.Price
	}
	if patch.Cost != nil {
		p.Cost = *patch.Cost
	}
	if patch.Status != nil {
		p.Status = *patch.Status
	}
	s.products[id] = p
	_, emit = s.record(productUpdated(p))
	return p, nil
}

func (s *MemStore) DeleteProduct(ctx context.Context, id int) (bool, error) {
	emit := func() {}
	defer func() { emit() }()
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.products[id]
	if !ok {
		return false, nil
	}
	delete(s.products, id)
	_, emit = s.record(productDeleted(p))
	return true, nil
}

// Clients

func (s *MemStore) ListClients(ctx context.Context) ([]Client, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Client, 0, len(s.clients))
	for _, c := range s.clients {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *MemStore) GetClient(ctx context.Context, id int) (Client, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.clients[id]
	if !ok {
		return Client{}, ErrNotFound
	}
	return c, nil
}

func (s *MemStore) CreateClient(ctx context.Context, in NewClient) (Client, error) {
	if err := in.validate(); err != nil {
		return Client{}, err
	}
	emit := func() {}
	defer func() { emit() }()
	s.mu.Lock()
	defer s.mu.Unlock()
	c := Client{
		ID:       s.ids.NextID(KindClient),
		Name:     in.Name,
		Email:    in.Email,
		Phone:    in.Phone,
		Address:  in.Address,
		Company:  in.Company,
		IsActive: *in.IsActive,
	}
	s.clients[c.ID] = c
	_, emit = s.record(clientRegistered(c))
	return c, nil
}

func (s *MemStore) UpdateClient(ctx context.Context, id int, patch ClientPatch) (Client, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.clients[id]
	if !ok {
		return Client{}, ErrNotFound
	}
	if patch.Name != nil {
		c.Name = *patch.Name
	}
	if patch.Email != nil {
		c.Email = *patch.Email
	}
	if patch.Phone != nil {
		c.Phone = *patch.Phone
	}
	if patch.Address != nil {
		c.Address = *patch.Address
	}
	if patch.Company != nil {
		c.Company = *patch.Company
	}
	if patch.IsActive != nil {
		c.IsActive = *patch.IsActive
	}
	s.clients[id] = c
	return c, nil
}

func (s *MemStore) DeleteClient(ctx context.Context, id int) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.clients[id]; !ok {
		return false, nil
	}
	delete(s.clients, id)
	return true, nil
}

// Orders

func (s *MemStore) ListOrders(ctx context.Context) ([]Order, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Order, 0, len(s.orders))
	for _, o := range s.orders {
		out = append(out, o)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *MemStore) GetOrder(ctx context.Context, id int) (Order, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	o, ok := s.orders[id]
	if !ok {
		return Order{}, ErrNotFound
	}
	return o, nil
}

func (s *MemStore) CreateOrder(ctx context.Context, in NewOrder) (Order, error) {
	if err := in.validate(); err != nil {
		return Order{}, err
	}
	emit := func() {}
	defer func() { emit() }()
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.clients[in.ClientID]; !ok {
		return Order{}, invalidf("clientId", "unknown client %d", in.ClientID)
	}
	date := in.Date
	if date.IsZero() {
		date = time.Now().UTC()
	}
	o := Order{
		ID:       s.ids.NextID(KindOrder),
		ClientID: in.ClientID,
		Date:     date,
		Status:   in.Status,
		Total:    in.Total,
	}
	s.orders[o.ID] = o
	_, emit = s.record(orderCreated(o))
	return o, nil
}

func (s *MemStore) UpdateOrder(ctx context.Context, id int, patch OrderPatch) (Order, error) {
	if err := patch.validate(); err != nil {
		return Order{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	o, ok := s.orders[id]
	if !ok {
		return Order{}, ErrNotFound
	}
	if patch.ClientID != nil {
		if _, ok := s.clients[*patch.ClientID]; !ok {
			return Order{}, invalidf("clientId", "unknown client %d", *patch.ClientID)
		}
		o.ClientID = *patch.ClientID
	}
	if patch.Date != nil {
		o.Date = *patch.Date
	}
	if patch.Status != nil {
		o.Status = *patch.Status
	}
	if patch.Total != nil {
		o.Total = *patch.Total
	}
	s.orders[id] = o
	return o, nil
}

// Order items

func (s *MemStore) ListOrderItems(ctx context.Context, orderID int) ([]OrderItem, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []OrderItem
	for _, it := range s.orderItems {
		if it.OrderID == orderID {
			out = append(out, it)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *MemStore) CreateOrderItem(ctx context.Context, in NewOrderItem) (OrderItem, error) {
	if err := in.validate(); err != nil {
		return OrderItem{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.orders[in.OrderID]; !ok {
		return OrderItem{}, invalidf("orderId", "unknown order %d", in.OrderID)
	}
	p, ok := s.products[in.ProductID]
	if !ok {
		return OrderItem{}, invalidf("productId", "unknown product %d", in.ProductID)
	}
	it := OrderItem{
		ID:        s.ids.NextID(KindOrderItem),
		OrderID:   in.OrderID,
		ProductID: in.ProductID,
		Quantity:  in.Quantity,
		Price:     in.Price,
	}
	s.orderItems[it.ID] = it

	// stock never goes negative
	p.Quantity -= in.Quantity
	if p.Quantity < 0 {
		p.Quantity = 0
	}
	s.products[p.ID] = p
	return it, nil
}

// Expenses

func (s *MemStore) ListExpenses(ctx context.Context) ([]Expense, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Expense, 0, len(s.expenses))
	for _, e := range s.expenses {
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *MemStore) GetExpense(ctx context.Context, id int) (Expense, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.expenses[id]
	if !ok {
		return Expense{}, ErrNotFound
	}
	return e, nil
}

func (s *MemStore) CreateExpense(ctx context.Context, in NewExpense) (Expense, error) {
	if err := in.validate(); err != nil {
		return Expense{}, err
	}
	emit := func() {}
	defer func() { emit() }()
	s.mu.Lock()
	defer s.mu.Unlock()
	date := in.Date
	if date.IsZero() {
		date = time.Now().UTC()
	}
	e := Expense{
		ID:          s.ids.NextID(KindExpense),
		Category:    in.Category,
		Amount:      in.Amount,
		Date:        date,
		Description: in.Description,
	}
	s.expenses[e.ID] = e
	_, emit = s.record(expenseAdded(e))
	return e, nil
}

func (s *MemStore) UpdateExpense(ctx context.Context, id int, patch ExpensePatch) (Expense, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.expenses[id]
	if !ok {
		return Expense{}, ErrNotFound
	}
	if patch.Category != nil {
		e.Category = *patch.Category
	}
	if patch.Amount != nil {
		if patch.Amount.IsNegative() {
			return Expense{}, invalidf("amount", "must not be negative")
		}
		e.Amount = *patch.Amount
	}
	if patch.Date != nil {
		e.Date = *patch.Date
	}
	if patch.Description != nil {
		e.Description = *patch.Description
	}
	s.expenses[id] = e
	return e, nil
}

func (s *MemStore) DeleteExpense(ctx context.Context, id int) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.expenses[id]; !ok {
		return false, nil
	}
	delete(s.expenses, id)
	return true, nil
}

// Inventory requests

func (s *MemStore) ListInventoryRequests(ctx context.Context) ([]InventoryRequest, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]InventoryRequest, 0, len(s.requests))
	for _, r := range s.requests {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *MemStore) GetInventoryRequest(ctx context.Context, id int) (InventoryRequest, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	r, ok := s.requests[id]
	if !ok {
		return InventoryRequest{}, ErrNotFound
	}
	return r, nil
}

func (s *MemStore) CreateInventoryRequest(ctx context.Context, in NewInventoryRequest) (InventoryRequest, error) {
	if err := in.validate(); err != nil {
		return InventoryRequest{}, err
	}
	emit := func() {}
	defer func() { emit() }()
	s.mu.Lock()
	defer s.mu.Unlock()
	if in.ProductID != nil {
		if _, ok := s.products[*in.ProductID]; !ok {
			return InventoryRequest{}, invalidf("productId", "unknown product %d", *in.ProductID)
		}
	}
	r := InventoryRequest{
		ID:          s.ids.NextID(KindRequest),
		ProductID:   in.ProductID,
		ProductName: in.ProductName,
		Quantity:    in.Quantity,
		Priority:    in.Priority,
		Notes:       in.Notes,
		Status:      RequestPending,
		UserID:      in.UserID,
		CreatedAt:   time.Now().UTC(),
	}
	s.requests[r.ID] = r
	_, emit = s.record(requestSubmitted(r))
	return r, nil
}

func (s *MemStore) UpdateInventoryRequest(ctx context.Context, id int, patch InventoryRequestPatch) (InventoryRequest, error) {
	if err := patch.validate(); err != nil {
		return InventoryRequest{}, err
	}
	emit := func() {}
	defer func() { emit() }()
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.requests[id]
	if !ok {
		return InventoryRequest{}, ErrNotFound
	}
	if patch.ProductID != nil {
		if _, ok := s.products[*patch.ProductID]; !ok {
			return InventoryRequest{}, invalidf("productId", "unknown product %d", *patch.ProductID)
		}
		r.ProductID = patch.ProductID
	}
	if patch.ProductName != nil {
		r.ProductName = *patch.ProductName
	}
	if patch.Quantity != nil {
		r.Quantity = *patch.Quantity
	}
	if patch.Priority != nil {
		r.Priority = *patch.Priority
	}
	if patch.Notes != nil {
		r.Notes = *patch.Notes
	}
	if patch.Status != nil && *patch.Status != r.Status {
		if !CanTransition(r.Status, *patch.Status) {
			return InventoryRequest{}, invalidf("status", "cannot transition from %s to %s", r.Status, *patch.Status)
		}
		r.Status = *patch.Status
		s.requests[id] = r
		_, emit = s.record(requestResolved(r, r.Status))
		return r, nil
	}
	s.requests[id] = r
	return r, nil
}

// Activities

func (s *MemStore) RecordActivity(ctx context.Context, in NewActivity) (Activity, error) {
	if err := in.validate(); err != nil {
		return Activity{}, err
	}
	emit := func() {}
	defer func() { emit() }()
	s.mu.Lock()
	defer s.mu.Unlock()
	a, e := s.record(in)
	emit = e
	return a, nil
}

func (s *MemStore) RecentActivities(ctx context.Context, limit int) ([]Activity, error) {
	if limit <= 0 {
		limit = 10
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Activity, 0, len(s.activities))
	for _, a := range s.activities {
		out = append(out, a)
	}
	// newest first; ids break timestamp ties so a fresh append always
	// surfaces on top
	sort.Slice(out, func(i, j int) bool {
		if out[i].Timestamp.Equal(out[j].Timestamp) {
			return out[i].ID > out[j].ID
		}
		return out[i].Timestamp.After(out[j].Timestamp)
	})
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}
