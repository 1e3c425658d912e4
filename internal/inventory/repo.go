package inventory

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

// PgStore backs the Store interface with Postgres. Identifiers come from the
// tables' serial sequences, so concurrent writers never collide.
type PgStore struct {
	DB *pgxpool.Pool

	onActivity func(Activity)
}

var _ Store = (*PgStore)(nil)

func NewPgStore(db *pgxpool.Pool) *PgStore { return &PgStore{DB: db} }

func (s *PgStore) SetActivityHook(fn func(Activity)) { s.onActivity = fn }

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

func parseDec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero
	}
	return d
}

// exists runs a SELECT 1 lookup; used for reference checks before inserts.
func (s *PgStore) exists(ctx context.Context, query string, args ...any) (bool, error) {
	var one int
	err := s.DB.QueryRow(ctx, query, args...).Scan(&one)
	if errors.Is(err, pgx.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func (s *PgStore) record(ctx context.Context, in NewActivity) (Activity, error) {
	a := Activity{
		Type:        in.Type,
		Description: in.Description,
		Timestamp:   time.Now().UTC(),
		UserID:      in.UserID,
		RelatedID:   in.RelatedID,
		RelatedType: in.RelatedType,
	}
	err := s.DB.QueryRow(ctx, `
		INSERT INTO activities(type, description, timestamp, user_id, related_id, related_type)
		VALUES ($1,$2,$3,$4,$5,NULLIF($6,''))
		RETURNING id`,
		a.Type, a.Description, a.Timestamp, a.UserID, a.RelatedID, a.RelatedType,
	).Scan(&a.ID)
	if err != nil {
		return Activity{}, err
	}
	if s.onActivity != nil {
		s.onActivity(a)
	}
	return a, nil
}

// Users

const userCols = `id, username, password, name, role, email`

func scanUser(row pgx.Row) (User, error) {
	var u User
	err := row.Scan(&u.ID, &u.Username, &u.Password, &u.Name, &u.Role, &u.Email)
	if errors.Is(err, pgx.ErrNoRows) {
		return User{}, ErrNotFound
	}
	return u, err
}

func (s *PgStore) GetUser(ctx context.Context, id int) (User, error) {
	return scanUser(s.DB.QueryRow(ctx, `SELECT `+userCols+` FROM users WHERE id=$1`, id))
}

func (s *PgStore) GetUserByUsername(ctx context.Context, username string) (User, error) {
	return scanUser(s.DB.QueryRow(ctx, `SELECT `+userCols+` FROM users WHERE username=$1`, username))
}

func (s *PgStore) CreateUser(ctx context.Context, in NewUser) (User, error) {
	if err := in.validate(); err != nil {
		return User{}, err
	}
	u := User{Username: in.Username, Password: in.Password, Name: in.Name, Role: in.Role, Email: in.Email}
	err := s.DB.QueryRow(ctx, `
		INSERT INTO users(username, password, name, role, email)
		VALUES ($1,$2,$3,$4,$5) RETURNING id`,
		u.Username, u.Password, u.Name, u.Role, u.Email,
	).Scan(&u.ID)
	if isUniqueViolation(err) {
		return User{}, invalidf("username", "already taken")
	}
	if err != nil {
		return User{}, err
	}
	return u, nil
}

// Products

const productCols = `id, name, sku, COALESCE(description,''), category, quantity, min_quantity, price::text, cost::text, status`

func scanProduct(row pgx.Row) (Product, error) {
	var p Product
	var price, cost string
	err := row.Scan(&p.ID, &p.Name, &p.SKU, &p.Description, &p.Category,
		&p.Quantity, &p.MinQuantity, &price, &cost, &p.Status)
	if errors.Is(err, pgx.ErrNoRows) {
		return Product{}, ErrNotFound
	}
	if err != nil {
		return Product{}, err
	}
	p.Price, p.Cost = parseDec(price), parseDec(cost)
	return p, nil
}

func (s *PgStore) ListProducts(ctx context.Context) ([]Product, error) {
	rows, err := s.DB.Query(ctx, `SELECT `+productCols+` FROM products ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (s *PgStore) GetProduct(ctx context.Context, id int) (Product, error) {
	return scanProduct(s.DB.QueryRow(ctx, `SELECT `+productCols+` FROM products WHERE id=$1`, id))
}

func (s *PgStore) CreateProduct(ctx context.Context, in NewProduct) (Product, error) {
	if err := in.validate(); err != nil {
		return Product{}, err
	}
	p := Product{
		Name: in.Name, SKU: in.SKU, Description: in.Description, Category: in.Category,
		Quantity: *in.Quantity, MinQuantity: *in.MinQuantity,
		Price: in.Price, Cost: in.Cost, Status: in.Status,
	}
	err := s.DB.QueryRow(ctx, `
		INSERT INTO products(name, sku, description, category, quantity, min_quantity, price, cost, status)
		VALUES ($1,$2,NULLIF($3,''),$4,$5,$6,$7,$8,$9) RETURNING id`,
		p.Name, p.SKU, p.Description, p.Category, p.Quantity, p.MinQuantity,
		p.Price.String(), p.Cost.String(), p.Status,
	).Scan(&p.ID)
	if isUniqueViolation(err) {
		return Product{}, invalidf("sku", "already exists")
	}
	if err != nil {
		return Product{}, err
	}
	if _, err := s.record(ctx, productAdded(p)); err != nil {
		return Product{}, err
	}
	return p, nil
}

// setClause collects SET fragments and positional args for partial updates.
type setClause struct {
	sets []string
	args []any
}

func (c *setClause) add(col string, v any) {
	c.args = append(c.args, v)
	c.sets = append(c.sets, fmt.Sprintf("%s=$%d", col, len(c.args)))
}

func (c *setClause) clause() string {
	out := ""
	for i, s := range c.sets {
		if i > 0 {
			out += ", "
		}
		out += s
	}
	return out
}

func (s *PgStore) UpdateProduct(ctx context.Context, id int, patch ProductPatch) (Product, error) {
	if err := patch.validate(); err != nil {
		return Product{}, err
	}
	var c setClause
	if patch.Name != nil {
		c.add("name", *patch.Name)
	}
	if patch.SKU != nil {
		c.add("sku", *patch.SKU)
	}
	if patch.Description != nil {
		c.add("description", *patch.Description)
	}
	if patch.Category != nil {
		c.add("category", *patch.Category)
	}
	if patch.Quantity != nil {
		c.add("quantity", *patch.Quantity)
	}
	if patch.MinQuantity != nil {
		c.add("min_quantity", *patch.MinQuantity)
	}
	if patch.Price != nil {
		c.add("price", patch.Price.String())
	}
	if patch.Cost != nil {
		c.add("cost", patch.Cost.String())
	}
	if patch.Status != nil {
		c.add("status", *patch.Status)
	}
	if len(c.sets) == 0 {
		return s.GetProduct(ctx, id)
	}
	c.args = append(c.args, id)
	p, err := scanProduct(s.DB.QueryRow(ctx,
		fmt.Sprintf(`UPDATE products SET %s WHERE id=$%d RETURNING `+productCols, c.clause(), len(c.args)),
		c.args...))
	if isUniqueViolation(err) {
		return Product{}, invalidf("sku", "already exists")
	}
	if err != nil {
		return Product{}, err
	}
	if _, err := s.record(ctx, productUpdated(p)); err != nil {
		return Product{}, err
	}
	return p, nil
}

func (s *PgStore) DeleteProduct(ctx context.Context, id int) (bool, error) {
	p, err := s.GetProduct(ctx, id)
	if errors.Is(err, ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	ct, err := s.DB.Exec(ctx, `DELETE FROM products WHERE id=$1`, id)
	if err != nil {
		return false, err
	}
	if ct.RowsAffected() == 0 {
		return false, nil
	}
	if _, err := s.record(ctx, productDeleted(p)); err != nil {
		return false, err
	}
	return true, nil
}

// Clients

const clientCols = `id, name, COALESCE(email,''), COALESCE(phone,''), COALESCE(address,''), COALESCE(company,''), is_active`

func scanClient(row pgx.Row) (Client, error) {
	var cl Client
	err := row.Scan(&cl.ID, &cl.Name, &cl.Email, &cl.Phone, &cl.Address, &cl.Company, &cl.IsActive)
	if errors.Is(err, pgx.ErrNoRows) {
		return Client{}, ErrNotFound
	}
	return cl, err
}

func (s *PgStore) ListClients(ctx context.Context) ([]Client, error) {
	rows, err := s.DB.Query(ctx, `SELECT `+clientCols+` FROM clients ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Client
	for rows.Next() {
		cl, err := scanClient(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, cl)
	}
	return out, rows.Err()
}

func (s *PgStore) GetClient(ctx context.Context, id int) (Client, error) {
	return scanClient(s.DB.QueryRow(ctx, `SELECT `+clientCols+` FROM clients WHERE id=$1`, id))
}

func (s *PgStore) CreateClient(ctx context.Context, in NewClient) (Client, error) {
	if err := in.validate(); err != nil {
		return Client{}, err
	}
	cl := Client{
		Name: in.Name, Email: in.Email, Phone: in.Phone,
		Address: in.Address, Company: in.Company, IsActive: *in.IsActive,
	}
	err := s.DB.QueryRow(ctx, `
		INSERT INTO clients(name, email, phone, address, company, is_active)
		VALUES ($1,NULLIF($2,''),NULLIF($3,''),NULLIF($4,''),NULLIF($5,''),$6) RETURNING id`,
		cl.Name, cl.Email, cl.Phone, cl.Address, cl.Company, cl.IsActive,
	).Scan(&cl.ID)
	if err != nil {
		return Client{}, err
	}
	if _, err := s.record(ctx, clientRegistered(cl)); err != nil {
		return Client{}, err
	}
	return cl, nil
}

func (s *PgStore) UpdateClient(ctx context.Context, id int, patch ClientPatch) (Client, error) {
	var c setClause
	if patch.Name != nil {
		c.add("name", *patch.Name)
	}
	if patch.Email != nil {
		c.add("email", *patch.Email)
	}
	if patch.Phone != nil {
		c.add("phone", *patch.Phone)
	}
	if patch.Address != nil {
		c.add("address", *patch.Address)
	}
	if patch.Company != nil {
		c.add("company", *patch.Company)
	}
	if patch.IsActive != nil {
		c.add("is_active", *patch.IsActive)
	}
	if len(c.sets) == 0 {
		return s.GetClient(ctx, id)
	}
	c.args = append(c.args, id)
	return scanClient(s.DB.QueryRow(ctx,
		fmt.Sprintf(`UPDATE clients SET %s WHERE id=$%d RETURNING `+clientCols, c.clause(), len(c.args)),
		c.args...))
}

func (s *PgStore) DeleteClient(ctx context.Context, id int) (bool, error) {
	ct, err := s.DB.Exec(ctx, `DELETE FROM clients WHERE id=$1`, id)
	if err != nil {
		return false, err
	}
	return ct.RowsAffected() > 0, nil
}

// Orders

const orderCols = `id, client_id, date, status, total::text`

func scanOrder(row pgx.Row) (Order, error) {
	var o Order
	var total string
	err := row.Scan(&o.ID, &o.ClientID, &o.Date, &o.Status, &total)
	if errors.Is(err, pgx.ErrNoRows) {
		return Order{}, ErrNotFound
	}
	if err != nil {
		return Order{}, err
	}
	o.Total = parseDec(total)
	return o, nil
}

func (s *PgStore) ListOrders(ctx context.Context) ([]Order, error) {
	rows, err := s.DB.Query(ctx, `SELECT `+orderCols+` FROM orders ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Order
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, o)
	}
	return out, rows.Err()
}

func (s *PgStore) GetOrder(ctx context.Context, id int) (Order, error) {
	return scanOrder(s.DB.QueryRow(ctx, `SELECT `+orderCols+` FROM orders WHERE id=$1`, id))
}

func (s *PgStore) CreateOrder(ctx context.Context, in NewOrder) (Order, error) {
	if err := in.validate(); err != nil {
		return Order{}, err
	}
	ok, err := s.exists(ctx, `SELECT 1 FROM clients WHERE id=$1`, in.ClientID)
	if err != nil {
		return Order{}, err
	}
	if !ok {
		return Order{}, invalidf("clientId", "unknown client %d", in.ClientID)
	}
	o := Order{ClientID: in.ClientID, Date: in.Date, Status: in.Status, Total: in.Total}
	if o.Date.IsZero() {
		o.Date = time.Now().UTC()
	}
	err = s.DB.QueryRow(ctx, `
		INSERT INTO orders(client_id, date, status, total)
		VALUES ($1,$2,$3,$4) RETURNING id`,
		o.ClientID, o.Date, o.Status, o.Total.String(),
	).Scan(&o.ID)
	if err != nil {
		return Order{}, err
	}
	if _, err := s.record(ctx, orderCreated(o)); err != nil {
		return Order{}, err
	}
	return o, nil
}

func (s *PgStore) UpdateOrder(ctx context.Context, id int, patch OrderPatch) (Order, error) {
	if err := patch.validate(); err != nil {
		return Order{}, err
	}
	if patch.ClientID != nil {
		ok, err := s.exists(ctx, `SELECT 1 FROM clients WHERE id=$1`, *patch.ClientID)
		if err != nil {
			return Order{}, err
		}
		if !ok {
			return Order{}, invalidf("clientId", "unknown client %d", *patch.ClientID)
		}
	}
	var c setClause
	if patch.ClientID != nil {
		c.add("client_id", *patch.ClientID)
	}
	if patch.Date != nil {
		c.add("date", *patch.Date)
	}
	if patch.Status != nil {
		c.add("status", *patch.Status)
	}
	if patch.Total != nil {
		c.add("total", patch.Total.String())
	}
	if len(c.sets) == 0 {
		return s.GetOrder(ctx, id)
	}
	c.args = append(c.args, id)
	return scanOrder(s.DB.QueryRow(ctx,
		fmt.Sprintf(`UPDATE orders SET %s WHERE id=$%d RETURNING `+orderCols, c.clause(), len(c.args)),
		c.args...))
}

// Order items

func (s *PgStore) ListOrderItems(ctx context.Context, orderID int) ([]OrderItem, error) {
	rows, err := s.DB.Query(ctx, `
		SELECT id, order_id, product_id, quantity, price::text
		FROM order_items WHERE order_id=$1 ORDER BY id`, orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []OrderItem
	for rows.Next() {
		var it OrderItem
		var price string
		if err := rows.Scan(&it.ID, &it.OrderID, &it.ProductID, &it.Quantity, &price); err != nil {
			return nil, err
		}
		it.Price = parseDec(price)
		out = append(out, it)
	}
	return out, rows.Err()
}

// CreateOrderItem inserts the line item and decrements stock in one
// transaction; GREATEST keeps the quantity from going negative.
func (s *PgStore) CreateOrderItem(ctx context.Context, in NewOrderItem) (OrderItem, error) {
	if err := in.validate(); err != nil {
		return OrderItem{}, err
	}
	tx, err := s.DB.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return OrderItem{}, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	var one int
	if err := tx.QueryRow(ctx, `SELECT 1 FROM orders WHERE id=$1`, in.OrderID).Scan(&one); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return OrderItem{}, invalidf("orderId", "unknown order %d", in.OrderID)
		}
		return OrderItem{}, err
	}

	ct, err := tx.Exec(ctx, `
		UPDATE products SET quantity = GREATEST(quantity - $2, 0) WHERE id=$1`,
		in.ProductID, in.Quantity)
	if err != nil {
		return OrderItem{}, err
	}
	if ct.RowsAffected() == 0 {
		return OrderItem{}, invalidf("productId", "unknown product %d", in.ProductID)
	}

	it := OrderItem{OrderID: in.OrderID, ProductID: in.ProductID, Quantity: in.Quantity, Price: in.Price}
	err = tx.QueryRow(ctx, `
		INSERT INTO order_items(order_id, product_id, quantity, price)
		VALUES ($1,$2,$3,$4) RETURNING id`,
		it.OrderID, it.ProductID, it.Quantity, it.Price.String(),
	).Scan(&it.ID)
	if err != nil {
		return OrderItem{}, err
	}
	if err := tx.Commit(ctx); err != nil {
		return OrderItem{}, err
	}
	return it, nil
}

// Expenses

const expenseCols = `id, category, amount::text, date, COALESCE(description,'')`

func scanExpense(row pgx.Row) (Expense, error) {
	var e Expense
	var amount string
	err := row.Scan(&e.ID, &e.Category, &amount, &e.Date, &e.Description)
	if errors.Is(err, pgx.ErrNoRows) {
		return Expense{}, ErrNotFound
	}
	if err != nil {
		return Expense{}, err
	}
	e.Amount = parseDec(amount)
	return e, nil
}

func (s *PgStore) ListExpenses(ctx context.Context) ([]Expense, error) {
	rows, err := s.DB.Query(ctx, `SELECT `+expenseCols+` FROM expenses ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Expense
	for rows.Next() {
		e, err := scanExpense(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

func (s *PgStore) GetExpense(ctx context.Context, id int) (Expense, error) {
	return scanExpense(s.DB.QueryRow(ctx, `SELECT `+expenseCols+` FROM expenses WHERE id=$1`, id))
}

func (s *PgStore) CreateExpense(ctx context.Context, in NewExpense) (Expense, error) {
	if err := in.validate(); err != nil {
		return Expense{}, err
	}
	e := Expense{Category: in.Category, Amount: in.Amount, Date: in.Date, Description: in.Description}
	if e.Date.IsZero() {
		e.Date = time.Now().UTC()
	}
	err := s.DB.QueryRow(ctx, `
		INSERT INTO expenses(category, amount, date, description)
		VALUES ($1,$2,$3,NULLIF($4,'')) RETURNING id`,
		e.Category, e.Amount.String(), e.Date, e.Description,
	).Scan(&e.ID)
	if err != nil {
		return Expense{}, err
	}
	if _, err := s.record(ctx, expenseAdded(e)); err != nil {
		return Expense{}, err
	}
	return e, nil
}

func (s *PgStore) UpdateExpense(ctx context.Context, id int, patch ExpensePatch) (Expense, error) {
	if patch.Amount != nil && patch.Amount.IsNegative() {
		return Expense{}, invalidf("amount", "must not be negative")
	}
	var c setClause
	if patch.Category != nil {
		c.add("category", *patch.Category)
	}
	if patch.Amount != nil {
		c.add("amount", patch.Amount.String())
	}
	if patch.Date != nil {
		c.add("date", *patch.Date)
	}
	if patch.Description != nil {
		c.add("description", *patch.Description)
	}
	if len(c.sets) == 0 {
		return s.GetExpense(ctx, id)
	}
	c.args = append(c.args, id)
	return scanExpense(s.DB.QueryRow(ctx,
		fmt.Sprintf(`UPDATE expenses SET %s WHERE id=$%d RETURNING `+expenseCols, c.clause(), len(c.args)),
		c.args...))
}

func (s *PgStore) DeleteExpense(ctx context.Context, id int) (bool, error) {
	ct, err := s.DB.Exec(ctx, `DELETE FROM expenses WHERE id=$1`, id)
	if err != nil {
		return false, err
	}
	return ct.RowsAffected() > 0, nil
}

// Inventory requests

const requestCols = `id, product_id, product_name, quantity, priority, COALESCE(notes,''), status, user_id, created_at`

func scanRequest(row pgx.Row) (InventoryRequest, error) {
	var r InventoryRequest
	err := row.Scan(&r.ID, &r.ProductID, &r.ProductName, &r.Quantity, &r.Priority,
		&r.Notes, &r.Status, &r.UserID, &r.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return InventoryRequest{}, ErrNotFound
	}
	return r, err
}

func (s *PgStore) ListInventoryRequests(ctx context.Context) ([]InventoryRequest, error) {
	rows, err := s.DB.Query(ctx, `SELECT `+requestCols+` FROM inventory_requests ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []InventoryRequest
	for rows.Next() {
		r, err := scanRequest(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

func (s *PgStore) GetInventoryRequest(ctx context.Context, id int) (InventoryRequest, error) {
	return scanRequest(s.DB.QueryRow(ctx, `SELECT `+requestCols+` FROM inventory_requests WHERE id=$1`, id))
}

func (s *PgStore) CreateInventoryRequest(ctx context.Context, in NewInventoryRequest) (InventoryRequest, error) {
	if err := in.validate(); err != nil {
		return InventoryRequest{}, err
	}
	if in.ProductID != nil {
		ok, err := s.exists(ctx, `SELECT 1 FROM products WHERE id=$1`, *in.ProductID)
		if err != nil {
			return InventoryRequest{}, err
		}
		if !ok {
			return InventoryRequest{}, invalidf("productId", "unknown product %d", *in.ProductID)
		}
	}
	r := InventoryRequest{
		ProductID: in.ProductID, ProductName: in.ProductName, Quantity: in.Quantity,
		Priority: in.Priority, Notes: in.Notes, Status: RequestPending,
		UserID: in.UserID, CreatedAt: time.Now().UTC(),
	}
	err := s.DB.QueryRow(ctx, `
		INSERT INTO inventory_requests(product_id, product_name, quantity, priority, notes, status, user_id, created_at)
		VALUES ($1,$2,$3,$4,NULLIF($5,''),$6,$7,$8) RETURNING id`,
		r.ProductID, r.ProductName, r.Quantity, r.Priority, r.Notes, r.Status, r.UserID, r.CreatedAt,
	).Scan(&r.ID)
	if err != nil {
		return InventoryRequest{}, err
	}
	if _, err := s.record(ctx, requestSubmitted(r)); err != nil {
		return InventoryRequest{}, err
	}
	return r, nil
}

func (s *PgStore) UpdateInventoryRequest(ctx context.Context, id int, patch InventoryRequestPatch) (InventoryRequest, error) {
	if err := patch.validate(); err != nil {
		return InventoryRequest{}, err
	}
	cur, err := s.GetInventoryRequest(ctx, id)
	if err != nil {
		return InventoryRequest{}, err
	}
	transitioned := false
	if patch.Status != nil && *patch.Status != cur.Status {
		if !CanTransition(cur.Status, *patch.Status) {
			return InventoryRequest{}, invalidf("status", "cannot transition from %s to %s", cur.Status, *patch.Status)
		}
		transitioned = true
	}
	if patch.ProductID != nil {
		ok, err := s.exists(ctx, `SELECT 1 FROM products WHERE id=$1`, *patch.ProductID)
		if err != nil {
			return InventoryRequest{}, err
		}
		if !ok {
			return InventoryRequest{}, invalidf("productId", "unknown product %d", *patch.ProductID)
		}
	}
	var c setClause
	if patch.ProductID != nil {
		c.add("product_id", *patch.ProductID)
	}
	if patch.ProductName != nil {
		c.add("product_name", *patch.ProductName)
	}
	if patch.Quantity != nil {
		c.add("quantity", *patch.Quantity)
	}
	if patch.Priority != nil {
		c.add("priority", *patch.Priority)
	}
	if patch.Notes != nil {
		c.add("notes", *patch.Notes)
	}
	if patch.Status != nil {
		c.add("status", *patch.Status)
	}
	if len(c.sets) == 0 {
		return cur, nil
	}
	c.args = append(c.args, id)
	r, err := scanRequest(s.DB.QueryRow(ctx,
		fmt.Sprintf(`UPDATE inventory_requests SET %s WHERE id=$%d RETURNING `+requestCols, c.clause(), len(c.args)),
		c.args...))
	if err != nil {
		return InventoryRequest{}, err
	}
	if transitioned {
		if _, err := s.record(ctx, requestResolved(r, r.Status)); err != nil {
			return InventoryRequest{}, err
		}
	}
	return r, nil
}

// Activities

func (s *PgStore) RecordActivity(ctx context.Context, in NewActivity) (Activity, error) {
	if err := in.validate(); err != nil {
		return Activity{}, err
	}
	return s.record(ctx, in)
}

func (s *PgStore) RecentActivities(ctx context.Context, limit int) ([]Activity, error) {
	if limit <= 0 {
		limit = 10
	}
	rows, err := s.DB.Query(ctx, `
		SELECT id, type, description, timestamp, user_id, related_id, COALESCE(related_type,'')
		FROM activities ORDER BY timestamp DESC, id DESC LIMIT $1`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Activity
	for rows.Next() {
		var a Activity
		if err := rows.Scan(&a.ID, &a.Type, &a.Description, &a.Timestamp, &a.UserID, &a.RelatedID, &a.RelatedType); err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}
