package inventory

import "sort"

// Stock levels for display; never stored.
const (
	StockCritical = "critical"
	StockLow      = "low"
	StockNormal   = "normal"
)

// DepletionRatio divides quantity by the configured minimum. A product with
// MinQuantity zero only shows up low-stock when it is fully out, so its
// ratio is pinned to zero.
func DepletionRatio(p Product) float64 {
	if p.MinQuantity == 0 {
		return 0
	}
	return float64(p.Quantity) / float64(p.MinQuantity)
}

// EvaluateLowStock returns the products at or below their minimum quantity,
// most urgent (lowest depletion ratio) first. The input is not mutated.
func EvaluateLowStock(products []Product) []Product {
	var low []Product
	for _, p := range products {
		if p.Quantity <= p.MinQuantity {
			low = append(low, p)
		}
	}
	sort.SliceStable(low, func(i, j int) bool {
		return DepletionRatio(low[i]) < DepletionRatio(low[j])
	})
	return low
}

// StockLevel classifies a low-stock product for display.
func StockLevel(p Product) string {
	switch r := DepletionRatio(p); {
	case r < 0.25:
		return StockCritical
	case r < 0.5:
		return StockLow
	default:
		return StockNormal
	}
}
