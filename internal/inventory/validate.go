package inventory

// Input validation is centralized here; both store implementations call these
// before mutating so the HTTP layer never has to duplicate the checks.

func (in *NewUser) validate() error {
	if in.Username == "" {
		return invalidf("username", "required")
	}
	if in.Password == "" {
		return invalidf("password", "required")
	}
	if in.Name == "" {
		return invalidf("name", "required")
	}
	if in.Email == "" {
		return invalidf("email", "required")
	}
	if in.Role == "" {
		in.Role = "user"
	}
	return nil
}

func (in *NewProduct) validate() error {
	if in.Name == "" {
		return invalidf("name", "required")
	}
	if in.SKU == "" {
		return invalidf("sku", "required")
	}
	if in.Category == "" {
		return invalidf("category", "required")
	}
	if in.Quantity == nil {
		in.Quantity = new(int) // 0
	} else if *in.Quantity < 0 {
		return invalidf("quantity", "must not be negative")
	}
	if in.MinQuantity == nil {
		def := 10
		in.MinQuantity = &def
	} else if *in.MinQuantity < 0 {
		return invalidf("minQuantity", "must not be negative")
	}
	if in.Price.IsNegative() {
		return invalidf("price", "must not be negative")
	}
	if in.Cost.IsNegative() {
		return invalidf("cost", "must not be negative")
	}
	switch in.Status {
	case "":
		in.Status = ProductActive
	case ProductActive, ProductInactive:
	default:
		return invalidf("status", "unknown status %q", in.Status)
	}
	return nil
}

func (p *ProductPatch) validate() error {
	if p.Name != nil && *p.Name == "" {
		return invalidf("name", "must not be empty")
	}
	if p.SKU != nil && *p.SKU == "" {
		return invalidf("sku", "must not be empty")
	}
	if p.Quantity != nil && *p.Quantity < 0 {
		return invalidf("quantity", "must not be negative")
	}
	if p.MinQuantity != nil && *p.MinQuantity < 0 {
		return invalidf("minQuantity", "must not be negative")
	}
	if p.Status != nil && *p.Status != ProductActive && *p.Status != ProductInactive {
		return invalidf("status", "unknown status %q", *p.Status)
	}
	return nil
}

func (in *NewClient) validate() error {
	if in.Name == "" {
		return invalidf("name", "required")
	}
	if in.IsActive == nil {
		active := true
		in.IsActive = &active
	}
	return nil
}

func (in *NewOrder) validate() error {
	if in.ClientID <= 0 {
		return invalidf("clientId", "required")
	}
	if in.Total.IsNegative() {
		return invalidf("total", "must not be negative")
	}
	switch in.Status {
	case "":
		in.Status = OrderPending
	case OrderPending, OrderProcessing, OrderCompleted:
	default:
		return invalidf("status", "unknown status %q", in.Status)
	}
	return nil
}

func (p *OrderPatch) validate() error {
	if p.Status != nil {
		switch *p.Status {
		case OrderPending, OrderProcessing, OrderCompleted:
		default:
			return invalidf("status", "unknown status %q", *p.Status)
		}
	}
	if p.Total != nil && p.Total.IsNegative() {
		return invalidf("total", "must not be negative")
	}
	return nil
}

func (in *NewOrderItem) validate() error {
	if in.OrderID <= 0 {
		return invalidf("orderId", "required")
	}
	if in.ProductID <= 0 {
		return invalidf("productId", "required")
	}
	if in.Quantity <= 0 {
		return invalidf("quantity", "must be positive")
	}
	if in.Price.IsNegative() {
		return invalidf("price", "must not be negative")
	}
	return nil
}

func (in *NewExpense) validate() error {
	if in.Category == "" {
		return invalidf("category", "required")
	}
	if in.Amount.IsNegative() {
		return invalidf("amount", "must not be negative")
	}
	return nil
}

func (in *NewInventoryRequest) validate() error {
	if in.ProductName == "" {
		return invalidf("productName", "required")
	}
	if in.Quantity <= 0 {
		return invalidf("quantity", "must be positive")
	}
	if in.Priority == "" {
		in.Priority = PriorityMedium
	} else if !validPriority(in.Priority) {
		return invalidf("priority", "unknown priority %q", in.Priority)
	}
	if in.UserID <= 0 {
		return invalidf("userId", "required")
	}
	return nil
}

func (p *InventoryRequestPatch) validate() error {
	if p.ProductName != nil && *p.ProductName == "" {
		return invalidf("productName", "must not be empty")
	}
	if p.Quantity != nil && *p.Quantity <= 0 {
		return invalidf("quantity", "must be positive")
	}
	if p.Priority != nil && !validPriority(*p.Priority) {
		return invalidf("priority", "unknown priority %q", *p.Priority)
	}
	if p.Status != nil && !validStatus(*p.Status) {
		return invalidf("status", "unknown status %q", *p.Status)
	}
	return nil
}

func (in *NewActivity) validate() error {
	if in.Type == "" {
		return invalidf("type", "required")
	}
	if in.Description == "" {
		return invalidf("description", "required")
	}
	return nil
}
