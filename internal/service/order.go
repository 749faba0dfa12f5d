package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"preorder/internal/model"
	"preorder/internal/promo"
)

var (
	ErrOrderNotFound = errors.New("order not found")
	ErrEmptyOrder    = errors.New("order must contain at least one item")
)

// CheckoutItem is one requested position at checkout; the unit price is
// snapshotted from the menu inside the checkout transaction.
type CheckoutItem struct {
	MenuItemID string `json:"menu_item_id"`
	Quantity   int    `json:"quantity"`
}

type OrderService struct {
	db *sql.DB
}

func NewOrderService(db *sql.DB) *OrderService {
	return &OrderService{db: db}
}

// Create places an order: it resolves each requested menu item to its
// current price, validates the resulting line items through the
// aggregator, and inserts the order with its immutable item snapshot in
// one transaction.
func (s *OrderService) Create(ctx context.Context, userID, phone string, items []CheckoutItem) (*model.Order, error) {
	if len(items) == 0 {
		return nil, ErrEmptyOrder
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	lineItems := make([]model.LineItem, 0, len(items))
	for _, item := range items {
		li := model.LineItem{MenuItemID: item.MenuItemID, Quantity: item.Quantity}
		err = tx.QueryRowContext(ctx,
			`SELECT price FROM menu_items WHERE id = $1 AND available`,
			item.MenuItemID,
		).Scan(&li.UnitPrice)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return nil, fmt.Errorf("%w: %s", ErrMenuItemNotFound, item.MenuItemID)
			}
			return nil, fmt.Errorf("resolve menu item: %w", err)
		}
		lineItems = append(lineItems, li)
	}

	// Reject malformed quantities before anything is written.
	if _, err = promo.Aggregate(lineItems); err != nil {
		return nil, err
	}

	order := model.Order{
		UserID: userID,
		Phone:  phone,
		Status: model.StatusPending,
	}
	err = tx.QueryRowContext(ctx,
		`INSERT INTO orders (user_id, phone, status) VALUES ($1, $2, $3) RETURNING id, created_at`,
		userID, phone, order.Status,
	).Scan(&order.ID, &order.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("insert order: %w", err)
	}

	for i := range lineItems {
		err = tx.QueryRowContext(ctx,
			`INSERT INTO order_items (order_id, menu_item_id, quantity, unit_price) VALUES ($1, $2, $3, $4) RETURNING id`,
			order.ID, lineItems[i].MenuItemID, lineItems[i].Quantity, lineItems[i].UnitPrice,
		).Scan(&lineItems[i].ID)
		if err != nil {
			return nil, fmt.Errorf("insert order item: %w", err)
		}
	}
	order.Items = lineItems

	if err = tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit tx: %w", err)
	}

	return &order, nil
}

func (s *OrderService) Get(ctx context.Context, id string) (*model.Order, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, user_id, phone, status, estimated_delivery_date, created_at
		FROM orders
		WHERE id = $1
	`, id)

	order, err := scanOrder(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrOrderNotFound
		}
		return nil, fmt.Errorf("get order: %w", err)
	}

	order.Items, err = s.loadItems(ctx, order.ID)
	if err != nil {
		return nil, err
	}

	return order, nil
}

func (s *OrderService) ListByUser(ctx context.Context, userID string) ([]model.Order, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, user_id, phone, status, estimated_delivery_date, created_at
		FROM orders
		WHERE user_id = $1
		ORDER BY created_at DESC
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("query orders: %w", err)
	}
	defer rows.Close()

	var orders []model.Order
	for rows.Next() {
		order, err := scanOrder(rows)
		if err != nil {
			return nil, fmt.Errorf("scan order: %w", err)
		}
		orders = append(orders, *order)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration failed: %w", err)
	}

	for i := range orders {
		orders[i].Items, err = s.loadItems(ctx, orders[i].ID)
		if err != nil {
			return nil, err
		}
	}

	return orders, nil
}

// UpdateStatus applies a lifecycle transition atomically: the current row
// is locked, the transition is validated against the status graph, and the
// status and delivery date are written together or not at all.
func (s *OrderService) UpdateStatus(ctx context.Context, id string, next model.OrderStatus, deliveryDate *time.Time) (*model.Order, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	row := tx.QueryRowContext(ctx, `
		SELECT id, user_id, phone, status, estimated_delivery_date, created_at
		FROM orders
		WHERE id = $1
		FOR UPDATE
	`, id)

	order, err := scanOrder(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrOrderNotFound
		}
		return nil, fmt.Errorf("lock order: %w", err)
	}

	updated, err := order.Transition(next, deliveryDate)
	if err != nil {
		return nil, err
	}

	_, err = tx.ExecContext(ctx,
		`UPDATE orders SET status = $2, estimated_delivery_date = $3 WHERE id = $1`,
		updated.ID, updated.Status, updated.EstimatedDeliveryDate,
	)
	if err != nil {
		return nil, fmt.Errorf("update order: %w", err)
	}

	if err = tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit tx: %w", err)
	}

	updated.Items, err = s.loadItems(ctx, updated.ID)
	if err != nil {
		return nil, err
	}

	return &updated, nil
}

// CancelStale cancels pending orders older than maxAge and returns how
// many were cancelled. Pending orders may always be cancelled, so a single
// statement keeps the sweep atomic. Rows are stamped with the database
// clock, so the cutoff is computed there too.
func (s *OrderService) CancelStale(ctx context.Context, maxAge time.Duration) (int, error) {
	res, err := s.db.ExecContext(ctx,
		`UPDATE orders SET status = $1 WHERE status = $2 AND created_at < NOW() - make_interval(secs => $3)`,
		model.StatusCancelled, model.StatusPending, maxAge.Seconds(),
	)
	if err != nil {
		return 0, fmt.Errorf("cancel stale orders: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("rows affected: %w", err)
	}
	return int(n), nil
}

func (s *OrderService) loadItems(ctx context.Context, orderID string) ([]model.LineItem, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, menu_item_id, quantity, unit_price
		FROM order_items
		WHERE order_id = $1
		ORDER BY id
	`, orderID)
	if err != nil {
		return nil, fmt.Errorf("query order items: %w", err)
	}
	defer rows.Close()

	var items []model.LineItem
	for rows.Next() {
		var li model.LineItem
		if err := rows.Scan(&li.ID, &li.MenuItemID, &li.Quantity, &li.UnitPrice); err != nil {
			return nil, fmt.Errorf("scan order item: %w", err)
		}
		items = append(items, li)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration failed: %w", err)
	}

	return items, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanOrder(row rowScanner) (*model.Order, error) {
	var o model.Order
	var delivery sql.NullTime
	if err := row.Scan(&o.ID, &o.UserID, &o.Phone, &o.Status, &delivery, &o.CreatedAt); err != nil {
		return nil, err
	}
	if delivery.Valid {
		o.EstimatedDeliveryDate = &delivery.Time
	}
	return &o, nil
}
