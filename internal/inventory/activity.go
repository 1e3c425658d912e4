package inventory

import "fmt"

// Activity types shown in the recent-activity feed.
const (
	ActivityInventory = "inventory"
	ActivityClient    = "client"
	ActivitySale      = "sale"
	ActivityExpense   = "expense"
	ActivityRequest   = "request"
)

// Canonical feed descriptions. Both store implementations build their
// entries through these so the wording stays identical regardless of
// backend.

func productAdded(p Product) NewActivity {
	return NewActivity{
		Type:        ActivityInventory,
		Description: fmt.Sprintf("Product %s added to inventory", p.Name),
		RelatedID:   &p.ID,
		RelatedType: "product",
	}
}

func productUpdated(p Product) NewActivity {
	return NewActivity{
		Type:        ActivityInventory,
		Description: fmt.Sprintf("Product %s updated", p.Name),
		RelatedID:   &p.ID,
		RelatedType: "product",
	}
}

func productDeleted(p Product) NewActivity {
	return NewActivity{
		Type:        ActivityInventory,
		Description: fmt.Sprintf("Product %s deleted from inventory", p.Name),
		RelatedID:   &p.ID,
		RelatedType: "product",
	}
}

func clientRegistered(c Client) NewActivity {
	return NewActivity{
		Type:        ActivityClient,
		Description: fmt.Sprintf("New client %s registered", c.Name),
		RelatedID:   &c.ID,
		RelatedType: "client",
	}
}

func orderCreated(o Order) NewActivity {
	return NewActivity{
		Type:        ActivitySale,
		Description: fmt.Sprintf("New order #%d created with total $%s", o.ID, o.Total),
		RelatedID:   &o.ID,
		RelatedType: "order",
	}
}

func expenseAdded(e Expense) NewActivity {
	return NewActivity{
		Type:        ActivityExpense,
		Description: fmt.Sprintf("New expense of $%s for %s", e.Amount, e.Category),
		RelatedID:   &e.ID,
		RelatedType: "expense",
	}
}

func requestSubmitted(r InventoryRequest) NewActivity {
	return NewActivity{
		Type:        ActivityRequest,
		Description: fmt.Sprintf("New inventory request for %d units of %s", r.Quantity, r.ProductName),
		UserID:      &r.UserID,
		RelatedID:   &r.ID,
		RelatedType: "request",
	}
}

func requestResolved(r InventoryRequest, status RequestStatus) NewActivity {
	return NewActivity{
		Type:        ActivityRequest,
		Description: fmt.Sprintf("Inventory request #%d for %d units of %s %s", r.ID, r.Quantity, r.ProductName, status),
		UserID:      &r.UserID,
		RelatedID:   &r.ID,
		RelatedType: "request",
	}
}
