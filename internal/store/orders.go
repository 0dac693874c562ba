package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"
	"github.com/safar/nava-store/internal/database"
	"github.com/safar/nava-store/internal/models"
)

const orderColumns = `id, user_id, customer_name, customer_email, customer_phone, customer_address,
	total_amount, status, payment_status, account_ref, card_type, created_at, updated_at`

type OrderStore struct {
	db *sql.DB
}

func NewOrderStore(db *sql.DB) *OrderStore {
	return &OrderStore{db: db}
}

func scanOrder(row rowScanner, order *models.Order) error {
	return row.Scan(
		&order.ID,
		&order.UserID,
		&order.CustomerName,
		&order.CustomerEmail,
		&order.CustomerPhone,
		&order.CustomerAddress,
		&order.TotalAmount,
		&order.Status,
		&order.PaymentStatus,
		&order.AccountRef,
		&order.CardType,
		&order.CreatedAt,
		&order.UpdatedAt,
	)
}

// Create writes the order header and all of its lines in one transaction.
// If any line fails to insert, the header is rolled back with it. On success
// the generated ids and timestamps are set on order and order.Items.
func (s *OrderStore) Create(ctx context.Context, order *models.Order) error {
	return database.WithRetry(ctx, s.db, database.DefaultTxOptions(), func(tx *sql.Tx) error {
		err := tx.QueryRowContext(ctx,
			`INSERT INTO orders (user_id, customer_name, customer_email, customer_phone, customer_address,
			                     total_amount, status, payment_status, created_at, updated_at)
			 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, NOW(), NOW())
			 RETURNING id, created_at, updated_at`,
			order.UserID,
			order.CustomerName,
			order.CustomerEmail,
			order.CustomerPhone,
			order.CustomerAddress,
			order.TotalAmount,
			order.Status,
			order.PaymentStatus,
		).Scan(&order.ID, &order.CreatedAt, &order.UpdatedAt)
		if err != nil {
			return fmt.Errorf("create order: %w", err)
		}

		for i := range order.Items {
			item := &order.Items[i]
			item.OrderID = order.ID

			err = tx.QueryRowContext(ctx,
				`INSERT INTO order_items (order_id, product_id, product_name, variant_label, unit_price, quantity, line_total)
				 VALUES ($1, $2, $3, $4, $5, $6, $7)
				 RETURNING id`,
				item.OrderID,
				item.ProductID,
				item.ProductName,
				item.VariantLabel,
				item.UnitPrice,
				item.Quantity,
				item.LineTotal,
			).Scan(&item.ID)
			if err != nil {
				return fmt.Errorf("create order item %d: %w", i, err)
			}
		}

		return nil
	})
}

func (s *OrderStore) Get(ctx context.Context, id int64) (*models.Order, error) {
	order := &models.Order{}

	query := `SELECT ` + orderColumns + ` FROM orders WHERE id = $1`

	if err := scanOrder(s.db.QueryRowContext(ctx, query, id), order); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, database.ErrOrderNotFound
		}
		return nil, fmt.Errorf("get order: %w", err)
	}

	orders := []models.Order{*order}
	if err := attachItems(ctx, s.db, orders); err != nil {
		return nil, err
	}

	return &orders[0], nil
}

// ListByUser returns every order placed by userID, newest first, with items.
func (s *OrderStore) ListByUser(ctx context.Context, userID int64) ([]models.Order, error) {
	query := `
		SELECT ` + orderColumns + `
		FROM orders
		WHERE user_id = $1
		ORDER BY created_at DESC, id DESC`

	orders, err := s.queryOrders(ctx, query, userID)
	if err != nil {
		return nil, err
	}

	if err := attachItems(ctx, s.db, orders); err != nil {
		return nil, err
	}
	return orders, nil
}

// ListCursor pages through all orders, newest first.
func (s *OrderStore) ListCursor(ctx context.Context, cursor string, limit int) (*CursorPage[models.Order], error) {
	cursorData, err := DecodeCursor(cursor)
	if err != nil {
		return nil, fmt.Errorf("decode cursor: %w", err)
	}

	query := `
		SELECT ` + orderColumns + `
		FROM orders
		WHERE (created_at, id) < ($1, $2)
		ORDER BY created_at DESC, id DESC
		LIMIT $3`

	orders, err := s.queryOrders(ctx, query, cursorData.CreatedAt, cursorData.ID, limit+1)
	if err != nil {
		return nil, err
	}

	hasMore := len(orders) > limit
	if hasMore {
		orders = orders[:limit]
	}

	if err := attachItems(ctx, s.db, orders); err != nil {
		return nil, err
	}

	var nextCursor string
	if hasMore && len(orders) > 0 {
		lastOrder := orders[len(orders)-1]
		nextCursor = EncodeCursor(OrderCursor{
			CreatedAt: lastOrder.CreatedAt,
			ID:        lastOrder.ID,
		})
	}

	return &CursorPage[models.Order]{
		Items:      orders,
		NextCursor: nextCursor,
		HasMore:    hasMore,
	}, nil
}

// TransitionStatus sets the order's status to `to`, but only while its current
// status is one of from; an empty from matches any status. It reports whether
// the row changed. A missing order yields database.ErrOrderNotFound.
func (s *OrderStore) TransitionStatus(ctx context.Context, id int64, to models.OrderStatus, from ...models.OrderStatus) (bool, error) {
	query := `UPDATE orders SET status = $1, updated_at = NOW() WHERE id = $2`
	args := []any{to, id}

	if len(from) > 0 {
		allowed := make([]string, len(from))
		for i, status := range from {
			allowed[i] = string(status)
		}
		query += ` AND status = ANY($3)`
		args = append(args, pq.Array(allowed))
	}

	result, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return false, fmt.Errorf("update order status: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("get rows affected: %w", err)
	}
	if rowsAffected > 0 {
		return true, nil
	}

	if err := s.ensureExists(ctx, id); err != nil {
		return false, err
	}
	return false, nil
}

// RecordPayment stores the captured payment metadata and marks the order paid.
func (s *OrderStore) RecordPayment(ctx context.Context, id int64, accountRef, cardType string) error {
	result, err := s.db.ExecContext(ctx,
		`UPDATE orders
		 SET account_ref = $1, card_type = $2, payment_status = $3, updated_at = NOW()
		 WHERE id = $4`,
		accountRef, cardType, models.PaymentStatusSuccessful, id)
	if err != nil {
		return fmt.Errorf("record payment: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return database.ErrOrderNotFound
	}

	return nil
}

func (s *OrderStore) Count(ctx context.Context) (int64, error) {
	var total int64
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM orders`).Scan(&total); err != nil {
		return 0, fmt.Errorf("count orders: %w", err)
	}
	return total, nil
}

func (s *OrderStore) ensureExists(ctx context.Context, id int64) error {
	var exists bool
	err := s.db.QueryRowContext(ctx,
		"SELECT EXISTS(SELECT 1 FROM orders WHERE id = $1)", id).Scan(&exists)
	if err != nil {
		return fmt.Errorf("check order exists: %w", err)
	}
	if !exists {
		return database.ErrOrderNotFound
	}
	return nil
}

func (s *OrderStore) queryOrders(ctx context.Context, query string, args ...any) ([]models.Order, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	defer rows.Close()

	orders := []models.Order{}
	for rows.Next() {
		var order models.Order
		if err := scanOrder(rows, &order); err != nil {
			return nil, fmt.Errorf("scan order: %w", err)
		}
		orders = append(orders, order)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}

	return orders, nil
}

// attachItems loads the lines of every order in one query.
func attachItems(ctx context.Context, q database.Querier, orders []models.Order) error {
	if len(orders) == 0 {
		return nil
	}

	ids := make([]int64, len(orders))
	byID := make(map[int64]int, len(orders))
	for i, order := range orders {
		ids[i] = order.ID
		byID[order.ID] = i
	}

	rows, err := q.QueryContext(ctx,
		`SELECT id, order_id, product_id, product_name, variant_label, unit_price, quantity, line_total
		 FROM order_items
		 WHERE order_id = ANY($1)
		 ORDER BY order_id, id`,
		pq.Array(ids))
	if err != nil {
		return fmt.Errorf("get order items: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var item models.OrderLine
		err := rows.Scan(
			&item.ID,
			&item.OrderID,
			&item.ProductID,
			&item.ProductName,
			&item.VariantLabel,
			&item.UnitPrice,
			&item.Quantity,
			&item.LineTotal,
		)
		if err != nil {
			return fmt.Errorf("scan order item: %w", err)
		}
		i := byID[item.OrderID]
		orders[i].Items = append(orders[i].Items, item)
	}

	if err := rows.Err(); err != nil {
		return fmt.Errorf("rows error: %w", err)
	}

	return nil
}
