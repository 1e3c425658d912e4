package inventory

import (
	"math/rand"

	"github.com/shopspring/decimal"
)

// Stats is the dashboard summary. Revenue is the sum of order totals and
// profit is revenue minus expenses; the stats are the same regardless of
// which store backs the service.
type Stats struct {
	TotalInventory      int             `json:"totalInventory"`
	TotalInventoryValue decimal.Decimal `json:"totalInventoryValue"`
	MonthlyRevenue      decimal.Decimal `json:"monthlyRevenue"`
	TotalClients        int             `json:"totalClients"`
	LowStockCount       int             `json:"lowStockCount"`
	Profit              decimal.Decimal `json:"profit"`
}

type InventoryTrendPoint struct {
	Month     string `json:"month"`
	Inventory int    `json:"inventory"`
	Sold      int    `json:"sold"`
}

type FinanceTrendPoint struct {
	Month    string `json:"month"`
	Revenue  int    `json:"revenue"`
	Expenses int    `json:"expenses"`
}

// Dashboard is the full dashboard payload. No historical time series is
// kept anywhere in the system, so the trend curves are synthesized on every
// call; Synthetic marks them so clients cannot mistake them for analytics.
type Dashboard struct {
	Stats           Stats                 `json:"stats"`
	InventoryTrends []InventoryTrendPoint `json:"inventoryTrends"`
	FinanceTrends   []FinanceTrendPoint   `json:"financeTrends"`
	Synthetic       bool                  `json:"synthetic"`
	LowStock        []Product             `json:"lowStock"`
}

// BuildStats computes the summary over a snapshot of the store's contents.
func BuildStats(products []Product, clients []Client, orders []Order, expenses []Expense) Stats {
	var totalInventory int
	inventoryValue := decimal.Zero
	for _, p := range products {
		totalInventory += p.Quantity
		inventoryValue = inventoryValue.Add(p.Price.Mul(decimal.NewFromInt(int64(p.Quantity))))
	}

	revenue := decimal.Zero
	for _, o := range orders {
		revenue = revenue.Add(o.Total)
	}

	totalExpenses := decimal.Zero
	for _, e := range expenses {
		totalExpenses = totalExpenses.Add(e.Amount)
	}

	return Stats{
		TotalInventory:      totalInventory,
		TotalInventoryValue: inventoryValue,
		MonthlyRevenue:      revenue,
		TotalClients:        len(clients),
		LowStockCount:       len(EvaluateLowStock(products)),
		Profit:              revenue.Sub(totalExpenses),
	}
}

var trendMonths = []string{"Jan", "Feb", "Mar", "Apr", "May", "Jun", "Jul", "Aug", "Sep", "Oct", "Nov", "Dec"}

// SyntheticInventoryTrends fabricates twelve illustrative points within
// fixed bounds (inventory 4000-5500, sold 300-800).
func SyntheticInventoryTrends() []InventoryTrendPoint {
	out := make([]InventoryTrendPoint, len(trendMonths))
	for i, m := range trendMonths {
		out[i] = InventoryTrendPoint{
			Month:     m,
			Inventory: 4000 + rand.Intn(1500),
			Sold:      300 + rand.Intn(500),
		}
	}
	return out
}

// SyntheticFinanceTrends fabricates twelve illustrative points within fixed
// bounds (revenue 20000-35000, expenses 15000-23000).
func SyntheticFinanceTrends() []FinanceTrendPoint {
	out := make([]FinanceTrendPoint, len(trendMonths))
	for i, m := range trendMonths {
		out[i] = FinanceTrendPoint{
			Month:    m,
			Revenue:  20000 + rand.Intn(15000),
			Expenses: 15000 + rand.Intn(8000),
		}
	}
	return out
}

// BuildDashboard assembles the dashboard payload from a snapshot.
func BuildDashboard(products []Product, clients []Client, orders []Order, expenses []Expense) Dashboard {
	return Dashboard{
		Stats:           BuildStats(products, clients, orders, expenses),
		InventoryTrends: SyntheticInventoryTrends(),
		FinanceTrends:   SyntheticFinanceTrends(),
		Synthetic:       true,
		LowStock:        EvaluateLowStock(products),
	}
}
