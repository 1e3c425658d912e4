package inventory

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func intp(v int) *int { return &v }

// SeedDemoData loads the demo dataset into an empty store: one admin user
// (password hash supplied by the caller), a small catalog, three clients
// with historical orders, a month of expenses, and two open requests.
// Errors out on a non-empty store only implicitly, via the unique sku and
// username constraints.
func SeedDemoData(ctx context.Context, s Store, adminPasswordHash string) error {
	admin, err := s.CreateUser(ctx, NewUser{
		Username: "admin",
		Password: adminPasswordHash,
		Name:     "John Smith",
		Role:     "administrator",
		Email:    "admin@example.com",
	})
	if err != nil {
		return err
	}

	products := []NewProduct{
		{Name: "Widget A", SKU: "PRD-001", Description: "Standard widget", Category: "Widgets", Quantity: intp(5), MinQuantity: intp(25), Price: dec("29.99"), Cost: dec("15.00")},
		{Name: "Gadget B", SKU: "PRD-042", Description: "Premium gadget", Category: "Gadgets", Quantity: intp(12), MinQuantity: intp(20), Price: dec("49.99"), Cost: dec("25.00")},
		{Name: "Component C", SKU: "PRD-108", Description: "Essential component", Category: "Components", Quantity: intp(8), MinQuantity: intp(15), Price: dec("19.99"), Cost: dec("8.50")},
		{Name: "Product D", SKU: "PRD-219", Description: "Specialized product", Category: "Products", Quantity: intp(3), MinQuantity: intp(25), Price: dec("89.99"), Cost: dec("45.00")},
		{Name: "Tool E", SKU: "PRD-333", Description: "Professional tool", Category: "Tools", Quantity: intp(45), MinQuantity: intp(10), Price: dec("129.99"), Cost: dec("65.00")},
		{Name: "Material F", SKU: "PRD-444", Description: "Raw material", Category: "Materials", Quantity: intp(120), MinQuantity: intp(50), Price: dec("9.99"), Cost: dec("3.75")},
	}
	productIDs := make([]int, 0, len(products))
	for _, in := range products {
		p, err := s.CreateProduct(ctx, in)
		if err != nil {
			return err
		}
		productIDs = append(productIDs, p.ID)
	}

	clients := []NewClient{
		{Name: "Acme Corp", Email: "contact@acme.com", Phone: "555-1234", Address: "123 Main St", Company: "Acme Corporation"},
		{Name: "Beta Industries", Email: "info@beta.com", Phone: "555-5678", Address: "456 Oak Ave", Company: "Beta Industries Ltd"},
		{Name: "Gamma Tech", Email: "sales@gammatech.com", Phone: "555-9012", Address: "789 Pine Rd", Company: "Gamma Technologies"},
	}
	clientIDs := make([]int, 0, len(clients))
	for _, in := range clients {
		c, err := s.CreateClient(ctx, in)
		if err != nil {
			return err
		}
		clientIDs = append(clientIDs, c.ID)
	}

	orders := []NewOrder{
		{ClientID: clientIDs[0], Date: time.Date(2023, 5, 15, 0, 0, 0, 0, time.UTC), Status: OrderCompleted, Total: dec("599.95")},
		{ClientID: clientIDs[1], Date: time.Date(2023, 6, 20, 0, 0, 0, 0, time.UTC), Status: OrderCompleted, Total: dec("1249.75")},
		{ClientID: clientIDs[2], Date: time.Date(2023, 7, 10, 0, 0, 0, 0, time.UTC), Status: OrderProcessing, Total: dec("349.85")},
	}
	orderIDs := make([]int, 0, len(orders))
	for _, in := range orders {
		o, err := s.CreateOrder(ctx, in)
		if err != nil {
			return err
		}
		orderIDs = append(orderIDs, o.ID)
	}

	items := []NewOrderItem{
		{OrderID: orderIDs[0], ProductID: productIDs[0], Quantity: 10, Price: dec("299.90")},
		{OrderID: orderIDs[0], ProductID: productIDs[1], Quantity: 6, Price: dec("299.94")},
		{OrderID: orderIDs[1], ProductID: productIDs[4], Quantity: 8, Price: dec("1039.92")},
		{OrderID: orderIDs[1], ProductID: productIDs[2], Quantity: 10, Price: dec("199.90")},
		{OrderID: orderIDs[2], ProductID: productIDs[3], Quantity: 2, Price: dec("179.98")},
		{OrderID: orderIDs[2], ProductID: productIDs[0], Quantity: 5, Price: dec("149.95")},
	}
	for _, in := range items {
		if _, err := s.CreateOrderItem(ctx, in); err != nil {
			return err
		}
	}

	expenses := []NewExpense{
		{Category: "Rent", Amount: dec("2500.00"), Date: time.Date(2023, 6, 1, 0, 0, 0, 0, time.UTC), Description: "Monthly rent payment"},
		{Category: "Utilities", Amount: dec("450.00"), Date: time.Date(2023, 6, 5, 0, 0, 0, 0, time.UTC), Description: "Electricity and water"},
		{Category: "Salaries", Amount: dec("8500.00"), Date: time.Date(2023, 6, 15, 0, 0, 0, 0, time.UTC), Description: "Staff salaries"},
		{Category: "Inventory", Amount: dec("3750.00"), Date: time.Date(2023, 6, 20, 0, 0, 0, 0, time.UTC), Description: "Stock purchase"},
		{Category: "Marketing", Amount: dec("1200.00"), Date: time.Date(2023, 6, 25, 0, 0, 0, 0, time.UTC), Description: "Online ads campaign"},
	}
	for _, in := range expenses {
		if _, err := s.CreateExpense(ctx, in); err != nil {
			return err
		}
	}

	requests := []NewInventoryRequest{
		{ProductID: &productIDs[0], ProductName: "Widget A", Quantity: 50, Priority: PriorityHigh, Notes: "Running low on stock", UserID: admin.ID},
		{ProductID: &productIDs[3], ProductName: "Product D", Quantity: 30, Priority: PriorityUrgent, Notes: "Critical for current project", UserID: admin.ID},
	}
	for _, in := range requests {
		if _, err := s.CreateInventoryRequest(ctx, in); err != nil {
			return err
		}
	}
	return nil
}
