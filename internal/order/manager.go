// Package order owns the order lifecycle: creation from a cart snapshot,
// simulated payment capture and the guarded status progression
// Placed -> Confirmed -> Dispatched -> Reached.
package order

import (
	"context"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/safar/nava-store/internal/cart"
	"github.com/safar/nava-store/internal/identity"
	"github.com/safar/nava-store/internal/models"
	"github.com/safar/nava-store/internal/store"
)

// Repository persists orders. Create must write the order and its items
// atomically.
type Repository interface {
	Create(ctx context.Context, order *models.Order) error
	Get(ctx context.Context, id int64) (*models.Order, error)
	ListByUser(ctx context.Context, userID int64) ([]models.Order, error)
	ListCursor(ctx context.Context, cursor string, limit int) (*store.CursorPage[models.Order], error)
	TransitionStatus(ctx context.Context, id int64, to models.OrderStatus, from ...models.OrderStatus) (bool, error)
	RecordPayment(ctx context.Context, id int64, accountRef, cardType string) error
}

// Carts is the session cart access checkout needs.
type Carts interface {
	Lines(ctx context.Context, sessionID string) ([]cart.Line, error)
	Clear(ctx context.Context, sessionID string) error
}

// Customer holds the contact details copied onto an order.
type Customer struct {
	Name    string
	Email   string
	Phone   string
	Address string
}

func (c Customer) validate() error {
	switch {
	case strings.TrimSpace(c.Name) == "":
		return fmt.Errorf("%w: name is required", ErrInvalidCustomer)
	case strings.TrimSpace(c.Email) == "":
		return fmt.Errorf("%w: email is required", ErrInvalidCustomer)
	case strings.TrimSpace(c.Phone) == "":
		return fmt.Errorf("%w: phone is required", ErrInvalidCustomer)
	}
	return nil
}

type Manager struct {
	orders Repository
	carts  Carts
	logger *zap.Logger
}

func NewManager(orders Repository, carts Carts, logger *zap.Logger) *Manager {
	return &Manager{orders: orders, carts: carts, logger: logger}
}

// CreateOrder builds a Placed, unpaid order from lines. Each line is copied by
// value, so later cart or catalog changes never reach the order.
func (m *Manager) CreateOrder(ctx context.Context, userID *int64, customer Customer, lines []cart.Line) (*models.Order, error) {
	if len(lines) == 0 {
		return nil, ErrEmptyCart
	}
	if err := customer.validate(); err != nil {
		return nil, err
	}

	o := &models.Order{
		UserID:          userID,
		CustomerName:    strings.TrimSpace(customer.Name),
		CustomerEmail:   strings.TrimSpace(customer.Email),
		CustomerPhone:   strings.TrimSpace(customer.Phone),
		CustomerAddress: customer.Address,
		TotalAmount:     decimal.Zero,
		Status:          models.OrderStatusPlaced,
		PaymentStatus:   models.PaymentStatusPending,
		Items:           make([]models.OrderLine, 0, len(lines)),
	}

	for _, line := range lines {
		productID := line.ProductID
		o.Items = append(o.Items, models.OrderLine{
			ProductID:    &productID,
			ProductName:  line.ProductName,
			VariantLabel: line.VariantLabel,
			UnitPrice:    line.UnitPrice,
			Quantity:     line.Quantity,
			LineTotal:    line.LineTotal,
		})
		o.TotalAmount = o.TotalAmount.Add(line.LineTotal)
	}

	if err := m.orders.Create(ctx, o); err != nil {
		return nil, err
	}

	m.logger.Info("order created",
		zap.Int64("order_id", o.ID),
		zap.Int("items", len(o.Items)),
		zap.String("total", o.TotalAmount.String()))
	return o, nil
}

// Checkout turns the session's cart into an order and empties the cart.
func (m *Manager) Checkout(ctx context.Context, session identity.Session, customer Customer) (*models.Order, error) {
	lines, err := m.carts.Lines(ctx, session.ID)
	if err != nil {
		return nil, err
	}

	o, err := m.CreateOrder(ctx, session.Actor.UserIDPtr(), customer, lines)
	if err != nil {
		return nil, err
	}

	if err := m.carts.Clear(ctx, session.ID); err != nil {
		return nil, fmt.Errorf("clear cart after order %d: %w", o.ID, err)
	}
	return o, nil
}

func (m *Manager) Get(ctx context.Context, id int64) (*models.Order, error) {
	return m.orders.Get(ctx, id)
}

// GetFor returns the order when actor may see its receipt: its owner or an
// administrator.
func (m *Manager) GetFor(ctx context.Context, id int64, actor identity.Actor) (*models.Order, error) {
	o, err := m.orders.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !actor.IsAdmin() && !o.BelongsTo(actor.UserID) {
		return nil, identity.ErrForbidden
	}
	return o, nil
}

func (m *Manager) OrdersForUser(ctx context.Context, userID int64) ([]models.Order, error) {
	return m.orders.ListByUser(ctx, userID)
}

func (m *Manager) AllOrders(ctx context.Context, cursor string, limit int) (*store.CursorPage[models.Order], error) {
	return m.orders.ListCursor(ctx, cursor, limit)
}

// AdvanceStatus applies an admin action. When the order is not in the
// status the action requires, nothing changes and applied is false.
func (m *Manager) AdvanceStatus(ctx context.Context, id int64, action Action) (applied bool, err error) {
	t, ok := transitions[action]
	if !ok {
		return false, fmt.Errorf("%w: %q", ErrUnknownAction, action)
	}

	applied, err = m.orders.TransitionStatus(ctx, id, t.to, t.from...)
	if err != nil {
		return false, err
	}

	if applied {
		m.logger.Info("order status changed",
			zap.Int64("order_id", id),
			zap.String("action", string(action)),
			zap.String("status", string(t.to)))
	} else {
		m.logger.Debug("order status action ignored",
			zap.Int64("order_id", id),
			zap.String("action", string(action)))
	}
	return applied, nil
}

// MarkReached lets the shopper who placed a dispatched order confirm its
// arrival. Any other actor or status leaves the order unchanged.
func (m *Manager) MarkReached(ctx context.Context, id int64, actor identity.Actor) (bool, error) {
	o, err := m.orders.Get(ctx, id)
	if err != nil {
		return false, err
	}

	if identity.RequireShopper(actor) != nil || !o.BelongsTo(actor.UserID) {
		m.logger.Debug("reached confirmation ignored",
			zap.Int64("order_id", id),
			zap.Int64("user_id", actor.UserID))
		return false, nil
	}

	applied, err := m.orders.TransitionStatus(ctx, id, models.OrderStatusReached, models.OrderStatusDispatched)
	if err != nil {
		return false, err
	}
	if applied {
		m.logger.Info("order reached confirmed by shopper", zap.Int64("order_id", id))
	}
	return applied, nil
}
