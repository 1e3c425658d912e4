package inventory

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// Store is the authoritative collection of all entities. Two implementations
// exist: MemStore (maps + injected id allocation) and PgStore (Postgres,
// ids from sequences). Mutating creates also record an Activity entry.
type Store interface {
	GetUser(ctx context.Context, id int) (User, error)
	GetUserByUsername(ctx context.Context, username string) (User, error)
	CreateUser(ctx context.Context, in NewUser) (User, error)

	ListProducts(ctx context.Context) ([]Product, error)
	GetProduct(ctx context.Context, id int) (Product, error)
	CreateProduct(ctx context.Context, in NewProduct) (Product, error)
	UpdateProduct(ctx context.Context, id int, patch ProductPatch) (Product, error)
	DeleteProduct(ctx context.Context, id int) (bool, error)

	ListClients(ctx context.Context) ([]Client, error)
	GetClient(ctx context.Context, id int) (Client, error)
	CreateClient(ctx context.Context, in NewClient) (Client, error)
	UpdateClient(ctx context.Context, id int, patch ClientPatch) (Client, error)
	DeleteClient(ctx context.Context, id int) (bool, error)

	ListOrders(ctx context.Context) ([]Order, error)
	GetOrder(ctx context.Context, id int) (Order, error)
	CreateOrder(ctx context.Context, in NewOrder) (Order, error)
	UpdateOrder(ctx context.Context, id int, patch OrderPatch) (Order, error)

	ListOrderItems(ctx context.Context, orderID int) ([]OrderItem, error)
	// CreateOrderItem inserts the line item and decrements the referenced
	// product's quantity by the item quantity, floored at zero.
	CreateOrderItem(ctx context.Context, in NewOrderItem) (OrderItem, error)

	ListExpenses(ctx context.Context) ([]Expense, error)
	GetExpense(ctx context.Context, id int) (Expense, error)
	CreateExpense(ctx context.Context, in NewExpense) (Expense, error)
	UpdateExpense(ctx context.Context, id int, patch ExpensePatch) (Expense, error)
	DeleteExpense(ctx context.Context, id int) (bool, error)

	ListInventoryRequests(ctx context.Context) ([]InventoryRequest, error)
	GetInventoryRequest(ctx context.Context, id int) (InventoryRequest, error)
	CreateInventoryRequest(ctx context.Context, in NewInventoryRequest) (InventoryRequest, error)
	UpdateInventoryRequest(ctx context.Context, id int, patch InventoryRequestPatch) (InventoryRequest, error)

	RecordActivity(ctx context.Context, in NewActivity) (Activity, error)
	// RecentActivities returns entries newest-first, truncated to limit
	// (default 10 when limit <= 0).
	RecentActivities(ctx context.Context, limit int) ([]Activity, error)
}

// IDAllocator hands out identifiers for a given entity kind. MemStore uses
// per-kind counters; a persisted store delegates to its native sequences
// instead of taking an allocator.
type IDAllocator interface {
	NextID(kind string) int
}

// Entity kinds passed to IDAllocator.NextID.
const (
	KindUser      = "user"
	KindProduct   = "product"
	KindClient    = "client"
	KindOrder     = "order"
	KindOrderItem = "order_item"
	KindExpense   = "expense"
	KindRequest   = "request"
	KindActivity  = "activity"
)

type NewUser struct {
	Username string `json:"username"`
	Password string `json:"password"` // already hashed by the caller
	Name     string `json:"name"`
	Role     string `json:"role"`
	Email    string `json:"email"`
}

type NewProduct struct {
	Name        string          `json:"name"`
	SKU         string          `json:"sku"`
	Description string          `json:"description"`
	Category    string          `json:"category"`
	Quantity    *int            `json:"quantity"`    // default 0
	MinQuantity *int            `json:"minQuantity"` // default 10
	Price       decimal.Decimal `json:"price"`
	Cost        decimal.Decimal `json:"cost"`
	Status      string          `json:"status"` // default active
}

type ProductPatch struct {
	Name        *string          `json:"name"`
	SKU         *string          `json:"sku"`
	Description *string          `json:"description"`
	Category    *string          `json:"category"`
	Quantity    *int             `json:"quantity"`
	MinQuantity *int             `json:"minQuantity"`
	Price       *decimal.Decimal `json:"price"`
	Cost        *decimal.Decimal `json:"cost"`
	Status      *string          `json:"status"`
}

type NewClient struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Address  string `json:"address"`
	Company  string `json:"company"`
	IsActive *bool  `json:"isActive"` // default true
}

type ClientPatch struct {
	Name     *string `json:"name"`
	Email    *string `json:"email"`
	Phone    *string `json:"phone"`
	Address  *string `json:"address"`
	Company  *string `json:"company"`
	IsActive *bool   `json:"isActive"`
}

type NewOrder struct {
	ClientID int             `json:"clientId"`
	Date     time.Time       `json:"date"`
	Status   string          `json:"status"` // default pending
	Total    decimal.Decimal `json:"total"`
}

type OrderPatch struct {
	ClientID *int             `json:"clientId"`
	Date     *time.Time       `json:"date"`
	Status   *string          `json:"status"`
	Total    *decimal.Decimal `json:"total"`
}

type NewOrderItem struct {
	OrderID   int             `json:"orderId"`
	ProductID int             `json:"productId"`
	Quantity  int             `json:"quantity"`
	Price     decimal.Decimal `json:"price"`
}

type NewExpense struct {
	Category    string          `json:"category"`
	Amount      decimal.Decimal `json:"amount"`
	Date        time.Time       `json:"date"`
	Description string          `json:"description"`
}

type ExpensePatch struct {
	Category    *string          `json:"category"`
	Amount      *decimal.Decimal `json:"amount"`
	Date        *time.Time       `json:"date"`
	Description *string          `json:"description"`
}

type NewInventoryRequest struct {
	ProductID   *int     `json:"productId"`
	ProductName string   `json:"productName"`
	Quantity    int      `json:"quantity"`
	Priority    Priority `json:"priority"` // default medium
	Notes       string   `json:"notes"`
	UserID      int      `json:"userId"`
}

type InventoryRequestPatch struct {
	ProductID   *int           `json:"productId"`
	ProductName *string        `json:"productName"`
	Quantity    *int           `json:"quantity"`
	Priority    *Priority      `json:"priority"`
	Notes       *string        `json:"notes"`
	Status      *RequestStatus `json:"status"`
}

type NewActivity struct {
	Type        string `json:"type"`
	Description string `json:"description"`
	UserID      *int   `json:"userId"`
	RelatedID   *int   `json:"relatedId"`
	RelatedType string `json:"relatedType"`
}
