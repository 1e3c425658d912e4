package inventory

import (
	"time"

	"github.com/shopspring/decimal"
)

type Product struct {
	ID          int             `json:"id"`
	Name        string          `json:"name"`
	SKU         string          `json:"sku"`
	Description string          `json:"description,omitempty"`
	Category    string          `json:"category"`
	Quantity    int             `json:"quantity"`
	MinQuantity int             `json:"minQuantity"`
	Price       decimal.Decimal `json:"price"`
	Cost        decimal.Decimal `json:"cost"`
	Status      string          `json:"status"` // active | inactive
}

const (
	ProductActive   = "active"
	ProductInactive = "inactive"
)

type Client struct {
	ID       int    `json:"id"`
	Name     string `json:"name"`
	Email    string `json:"email,omitempty"`
	Phone    string `json:"phone,omitempty"`
	Address  string `json:"address,omitempty"`
	Company  string `json:"company,omitempty"`
	IsActive bool   `json:"isActive"`
}

type Order struct {
	ID       int             `json:"id"`
	ClientID int             `json:"clientId"`
	Date     time.Time       `json:"date"`
	Status   string          `json:"status"` // pending | processing | completed
	Total    decimal.Decimal `json:"total"`
}

const (
	OrderPending    = "pending"
	OrderProcessing = "processing"
	OrderCompleted  = "completed"
)

type OrderItem struct {
	ID        int             `json:"id"`
	OrderID   int             `json:"orderId"`
	ProductID int             `json:"productId"`
	Quantity  int             `json:"quantity"`
	Price     decimal.Decimal `json:"price"`
}

type Expense struct {
	ID          int             `json:"id"`
	Category    string          `json:"category"`
	Amount      decimal.Decimal `json:"amount"`
	Date        time.Time       `json:"date"`
	Description string          `json:"description,omitempty"`
}

// RequestStatus is the lifecycle state of an InventoryRequest. See status.go
// for the allowed transitions.
type RequestStatus string

const (
	RequestPending  RequestStatus = "pending"
	RequestApproved RequestStatus = "approved"
	RequestRejected RequestStatus = "rejected"
)

type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
	PriorityUrgent Priority = "urgent"
)

// InventoryRequest is a user-submitted ask to replenish stock. ProductID is
// nil for ad-hoc items that are not registered products.
type InventoryRequest struct {
	ID          int           `json:"id"`
	ProductID   *int          `json:"productId,omitempty"`
	ProductName string        `json:"productName"`
	Quantity    int           `json:"quantity"`
	Priority    Priority      `json:"priority"`
	Notes       string        `json:"notes,omitempty"`
	Status      RequestStatus `json:"status"`
	UserID      int           `json:"userId"`
	CreatedAt   time.Time     `json:"createdAt"`
}

// Activity is an append-only audit entry; once written it is never mutated
// or deleted.
type Activity struct {
	ID          int       `json:"id"`
	Type        string    `json:"type"`
	Description string    `json:"description"`
	Timestamp   time.Time `json:"timestamp"`
	UserID      *int      `json:"userId,omitempty"`
	RelatedID   *int      `json:"relatedId,omitempty"`
	RelatedType string    `json:"relatedType,omitempty"`
}

// User carries the stored password hash; it is never serialized.
type User struct {
	ID       int    `json:"id"`
	Username string `json:"username"`
	Password string `json:"-"`
	Name     string `json:"name"`
	Role     string `json:"role"`
	Email    string `json:"email"`
}
