// Package fallback persists orders and loyalty profiles in a local rqlite
// node when DynamoDB is unreachable. Orders written here carry a local order
// number and store_path "rqlite"; they are never reconciled back into the
// primary store.
package fallback

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/rqlite/gorqlite"

	"github.com/imrishuroy/go-storefront/internal/loyalty"
	"github.com/imrishuroy/go-storefront/internal/orders"
)

var schema = []string{
	`CREATE TABLE IF NOT EXISTS orders (
		order_id TEXT PRIMARY KEY,
		order_number TEXT NOT NULL UNIQUE,
		user_id TEXT NOT NULL DEFAULT '',
		customer_name TEXT NOT NULL DEFAULT '',
		customer_phone TEXT NOT NULL DEFAULT '',
		customer_email TEXT NOT NULL DEFAULT '',
		total REAL NOT NULL,
		status TEXT NOT NULL,
		points_earned INTEGER NOT NULL DEFAULT 0,
		points_used INTEGER NOT NULL DEFAULT 0,
		offline INTEGER NOT NULL DEFAULT 0,
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS order_items (
		order_id TEXT NOT NULL,
		product_id TEXT NOT NULL,
		name TEXT NOT NULL,
		price REAL NOT NULL,
		quantity INTEGER NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS profiles (
		user_id TEXT PRIMARY KEY,
		email TEXT NOT NULL DEFAULT '',
		name TEXT NOT NULL DEFAULT '',
		points INTEGER NOT NULL DEFAULT 0,
		total_orders INTEGER NOT NULL DEFAULT 0,
		total_spent REAL NOT NULL DEFAULT 0,
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS counters (
		name TEXT PRIMARY KEY,
		current_value INTEGER NOT NULL DEFAULT 0
	)`,
}

// executor is the slice of the rqlite client the store uses. Keeping it
// narrow lets the tests run against an in-memory implementation.
type executor interface {
	exec(stmts []gorqlite.ParameterizedStatement) ([]gorqlite.WriteResult, error)
	query(stmt gorqlite.ParameterizedStatement) ([]map[string]interface{}, error)
}

type rqliteExecutor struct {
	conn *gorqlite.Connection
}

func (e rqliteExecutor) exec(stmts []gorqlite.ParameterizedStatement) ([]gorqlite.WriteResult, error) {
	return e.conn.WriteParameterized(stmts)
}

func (e rqliteExecutor) query(stmt gorqlite.ParameterizedStatement) ([]map[string]interface{}, error) {
	qr, err := e.conn.QueryOneParameterized(stmt)
	if err != nil {
		return nil, err
	}
	rows := make([]map[string]interface{}, 0, qr.NumRows())
	for qr.Next() {
		row, err := qr.Map()
		if err != nil {
			return nil, err
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// Store is the local ledger. It satisfies the same persistence contract as
// the DynamoDB path.
type Store struct {
	db      executor
	prefix  string
	nowFunc func() time.Time
}

// Open connects to the rqlite node at url and creates the schema if needed.
func Open(url, prefix string) (*Store, error) {
	conn, err := gorqlite.Open(url)
	if err != nil {
		return nil, fmt.Errorf("connect to rqlite at %s: %w", url, err)
	}
	if _, err := conn.Write(schema); err != nil {
		return nil, fmt.Errorf("create fallback schema: %w", err)
	}
	log.Printf("fallback store ready at %s", url)
	return &Store{db: rqliteExecutor{conn: conn}, prefix: prefix, nowFunc: time.Now}, nil
}

// Path names this store for the order's store_path field.
func (s *Store) Path() string { return orders.StorePathFallback }

// GetOrCreateProfile returns the profile for userID, creating an empty one on
// first sight.
func (s *Store) GetOrCreateProfile(ctx context.Context, userID, email, name string) (*loyalty.Profile, error) {
	p, err := s.getProfile(userID)
	if err == nil {
		return p, nil
	}
	if err != loyalty.ErrNotFound {
		return nil, err
	}

	now := s.nowFunc().UTC().Format(time.RFC3339)
	_, err = s.db.exec([]gorqlite.ParameterizedStatement{{
		Query:     "INSERT OR IGNORE INTO profiles (user_id, email, name, created_at, updated_at) VALUES (?, ?, ?, ?, ?)",
		Arguments: []interface{}{userID, email, name, now, now},
	}})
	if err != nil {
		return nil, fmt.Errorf("create fallback profile: %w", err)
	}
	return s.getProfile(userID)
}

func (s *Store) getProfile(userID string) (*loyalty.Profile, error) {
	rows, err := s.db.query(gorqlite.ParameterizedStatement{
		Query:     "SELECT user_id, email, name, points, total_orders, total_spent, created_at, updated_at FROM profiles WHERE user_id = ?",
		Arguments: []interface{}{userID},
	})
	if err != nil {
		return nil, fmt.Errorf("read fallback profile: %w", err)
	}
	if len(rows) == 0 {
		return nil, loyalty.ErrNotFound
	}
	row := rows[0]
	return &loyalty.Profile{
		UserID:      str(row["user_id"]),
		Email:       str(row["email"]),
		Name:        str(row["name"]),
		Points:      intVal(row["points"]),
		TotalOrders: intVal(row["total_orders"]),
		TotalSpent:  num(row["total_spent"]),
		CreatedAt:   timeVal(row["created_at"]),
		UpdatedAt:   timeVal(row["updated_at"]),
	}, nil
}

// counterAttempts bounds the claim loop under contention.
const counterAttempts = 10

// NextOrderNumber assigns a local order number in the form
// <prefix>-LOCAL-<unix>-<n>. The timestamp keeps local numbers disjoint from
// the primary sequence and from earlier fallback sessions.
//
// rqlite has no ADD/RETURNING primitive the way DynamoDB does, so the counter
// is claimed with a conditional update: read the current value, then bump it
// only if nobody else has in the meantime. Each caller that wins the update
// owns a distinct value.
func (s *Store) NextOrderNumber(ctx context.Context) (string, error) {
	if _, err := s.db.exec([]gorqlite.ParameterizedStatement{{
		Query: "INSERT OR IGNORE INTO counters (name, current_value) VALUES ('orders', 0)",
	}}); err != nil {
		return "", fmt.Errorf("seed fallback counter: %w", err)
	}
	for attempt := 0; attempt < counterAttempts; attempt++ {
		rows, err := s.db.query(gorqlite.ParameterizedStatement{
			Query: "SELECT current_value FROM counters WHERE name = 'orders'",
		})
		if err != nil {
			return "", fmt.Errorf("read fallback counter: %w", err)
		}
		if len(rows) == 0 {
			return "", fmt.Errorf("fallback counter row missing")
		}
		next := intVal(rows[0]["current_value"]) + 1

		wrs, err := s.db.exec([]gorqlite.ParameterizedStatement{{
			Query:     "UPDATE counters SET current_value = ? WHERE name = 'orders' AND current_value = ?",
			Arguments: []interface{}{next, next - 1},
		}})
		if err != nil {
			return "", fmt.Errorf("claim fallback counter: %w", err)
		}
		if len(wrs) == 1 && wrs[0].RowsAffected == 1 {
			return fmt.Sprintf("%s-LOCAL-%d-%d", s.prefix, s.nowFunc().Unix(), next), nil
		}
		// another checkout claimed this value first; re-read and retry
	}
	return "", fmt.Errorf("claim fallback counter: gave up after %d attempts", counterAttempts)
}

// CreateOrder writes the order row and its items in one request. The UNIQUE
// constraint on order_number backstops the counter: a duplicate number fails
// the whole write instead of silently colliding.
func (s *Store) CreateOrder(ctx context.Context, order *orders.Order) error {
	statements := []gorqlite.ParameterizedStatement{{
		Query: "INSERT INTO orders (order_id, order_number, user_id, customer_name, customer_phone, customer_email, " +
			"total, status, points_earned, points_used, offline, created_at, updated_at) " +
			"VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)",
		Arguments: []interface{}{
			order.OrderID, order.OrderNumber, order.UserID,
			order.CustomerName, order.CustomerPhone, order.CustomerEmail,
			order.Total, order.Status, order.PointsEarned, order.PointsUsed,
			boolInt(order.Offline),
			order.CreatedAt.UTC().Format(time.RFC3339),
			order.UpdatedAt.UTC().Format(time.RFC3339),
		},
	}}
	for _, item := range order.Items {
		statements = append(statements, gorqlite.ParameterizedStatement{
			Query:     "INSERT INTO order_items (order_id, product_id, name, price, quantity) VALUES (?, ?, ?, ?, ?)",
			Arguments: []interface{}{order.OrderID, item.ProductID, item.Name, item.Price, item.Quantity},
		})
	}
	if _, err := s.db.exec(statements); err != nil {
		return fmt.Errorf("persist fallback order %s: %w", order.OrderNumber, err)
	}
	return nil
}

// ApplyProfileUpdate applies the loyalty delta for one order. The points
// guard mirrors the primary store: the balance never goes negative.
func (s *Store) ApplyProfileUpdate(ctx context.Context, userID string, upd loyalty.OrderUpdate) error {
	now := s.nowFunc().UTC().Format(time.RFC3339)
	wrs, err := s.db.exec([]gorqlite.ParameterizedStatement{{
		Query: "UPDATE profiles SET points = points + ?, total_orders = total_orders + 1, " +
			"total_spent = total_spent + ?, updated_at = ? WHERE user_id = ? AND points >= ?",
		Arguments: []interface{}{
			upd.PointsEarned - upd.PointsRedeemed, upd.Spent, now, userID, upd.PointsRedeemed,
		},
	}})
	if err != nil {
		return fmt.Errorf("update fallback profile: %w", err)
	}
	if len(wrs) == 0 || wrs[0].RowsAffected == 0 {
		if _, err := s.getProfile(userID); err != nil {
			return err
		}
		return loyalty.ErrInsufficientPoints
	}
	return nil
}

// GetByNumber looks up a locally stored order, so customers keep order
// tracking while the primary store is down.
func (s *Store) GetByNumber(ctx context.Context, orderNumber string) (*orders.Order, error) {
	rows, err := s.db.query(gorqlite.ParameterizedStatement{
		Query: "SELECT order_id, order_number, user_id, customer_name, customer_phone, customer_email, " +
			"total, status, points_earned, points_used, offline, created_at, updated_at " +
			"FROM orders WHERE order_number = ?",
		Arguments: []interface{}{orderNumber},
	})
	if err != nil {
		return nil, fmt.Errorf("read fallback order: %w", err)
	}
	if len(rows) == 0 {
		return nil, orders.ErrNotFound
	}
	order := orderFromRow(rows[0])
	items, err := s.itemsFor(order.OrderID)
	if err != nil {
		return nil, err
	}
	order.Items = items
	return order, nil
}

// ListRecent returns the newest locally stored orders, up to limit.
func (s *Store) ListRecent(ctx context.Context, limit int) ([]*orders.Order, error) {
	rows, err := s.db.query(gorqlite.ParameterizedStatement{
		Query: "SELECT order_id, order_number, user_id, customer_name, customer_phone, customer_email, " +
			"total, status, points_earned, points_used, offline, created_at, updated_at " +
			"FROM orders ORDER BY created_at DESC LIMIT ?",
		Arguments: []interface{}{limit},
	})
	if err != nil {
		return nil, fmt.Errorf("list fallback orders: %w", err)
	}
	var out []*orders.Order
	for _, row := range rows {
		order := orderFromRow(row)
		items, err := s.itemsFor(order.OrderID)
		if err != nil {
			return nil, err
		}
		order.Items = items
		out = append(out, order)
	}
	return out, nil
}

func (s *Store) itemsFor(orderID string) ([]orders.Item, error) {
	rows, err := s.db.query(gorqlite.ParameterizedStatement{
		Query:     "SELECT product_id, name, price, quantity FROM order_items WHERE order_id = ?",
		Arguments: []interface{}{orderID},
	})
	if err != nil {
		return nil, fmt.Errorf("read fallback order items: %w", err)
	}
	var items []orders.Item
	for _, row := range rows {
		items = append(items, orders.Item{
			ProductID: str(row["product_id"]),
			Name:      str(row["name"]),
			Price:     num(row["price"]),
			Quantity:  intVal(row["quantity"]),
		})
	}
	return items, nil
}

func orderFromRow(row map[string]interface{}) *orders.Order {
	return &orders.Order{
		OrderID:       str(row["order_id"]),
		OrderNumber:   str(row["order_number"]),
		UserID:        str(row["user_id"]),
		CustomerName:  str(row["customer_name"]),
		CustomerPhone: str(row["customer_phone"]),
		CustomerEmail: str(row["customer_email"]),
		Total:         num(row["total"]),
		Status:        str(row["status"]),
		PointsEarned:  intVal(row["points_earned"]),
		PointsUsed:    intVal(row["points_used"]),
		Offline:       intVal(row["offline"]) != 0,
		StorePath:     orders.StorePathFallback,
		CreatedAt:     timeVal(row["created_at"]),
		UpdatedAt:     timeVal(row["updated_at"]),
	}
}

// rqlite surfaces SQLite values through JSON, so numeric columns arrive as
// int64 or float64 depending on the stored value.

func str(v interface{}) string {
	s, _ := v.(string)
	return s
}

func num(v interface{}) float64 {
	switch n := v.(type) {
	case float64:
		return n
	case int64:
		return float64(n)
	}
	return 0
}

func intVal(v interface{}) int {
	switch n := v.(type) {
	case int64:
		return int(n)
	case float64:
		return int(n)
	}
	return 0
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

func timeVal(v interface{}) time.Time {
	t, err := time.Parse(time.RFC3339, str(v))
	if err != nil {
		return time.Time{}
	}
	return t
}