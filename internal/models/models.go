package models

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

type User struct {
	ID           int64     `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	IsAdmin      bool      `json:"is_admin"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

type Category string

const (
	CategorySoap     Category = "soap"
	CategoryShampoo  Category = "shampoo"
	CategorySerum    Category = "serum"
	CategoryHaircare Category = "haircare"
)

// Categories lists every category in display order.
var Categories = []Category{CategorySoap, CategoryShampoo, CategorySerum, CategoryHaircare}

func ParseCategory(s string) (Category, error) {
	for _, c := range Categories {
		if string(c) == s {
			return c, nil
		}
	}
	return "", fmt.Errorf("unknown category %q", s)
}

const (
	DefaultProductDescription = "Placeholder description for this herbal product."
	DefaultProductImageURL    = "/static/img/placeholder.png"
)

// Product carries a primary price/volume pair and, for serums, an optional
// secondary tier. SecondaryPrice and SecondaryVolume are both set or both nil.
type Product struct {
	ID              int64            `json:"id"`
	Name            string           `json:"name"`
	Category        Category         `json:"category"`
	Description     string           `json:"description"`
	ImageURL        string           `json:"image_url"`
	BasePrice       decimal.Decimal  `json:"base_price"`
	BaseVolume      string           `json:"base_volume"`
	SecondaryPrice  *decimal.Decimal `json:"secondary_price,omitempty"`
	SecondaryVolume *string          `json:"secondary_volume,omitempty"`
	CreatedAt       time.Time        `json:"created_at"`
	UpdatedAt       time.Time        `json:"updated_at"`
	Version         int              `json:"version"`
}

func (p *Product) HasSecondaryTier() bool {
	return p.SecondaryPrice != nil && p.SecondaryVolume != nil
}

type Offer struct {
	ID              int64     `json:"id"`
	Title           string    `json:"title"`
	Description     string    `json:"description"`
	DiscountPercent *int      `json:"discount_percent,omitempty"`
	IsActive        bool      `json:"is_active"`
	CreatedAt       time.Time `json:"created_at"`
}

type OrderStatus string

const (
	OrderStatusPlaced     OrderStatus = "Order Placed"
	OrderStatusConfirmed  OrderStatus = "Order Confirmed"
	OrderStatusDispatched OrderStatus = "Order Dispatched"
	OrderStatusReached    OrderStatus = "Order Reached"
)

// OrderStatusSteps is the status progression in order.
var OrderStatusSteps = []OrderStatus{
	OrderStatusPlaced,
	OrderStatusConfirmed,
	OrderStatusDispatched,
	OrderStatusReached,
}

// Index returns the position of s in OrderStatusSteps, or 0 when s is not a
// known status.
func (s OrderStatus) Index() int {
	for i, step := range OrderStatusSteps {
		if step == s {
			return i
		}
	}
	return 0
}

type PaymentStatus string

const (
	PaymentStatusPending    PaymentStatus = "Pending"
	PaymentStatusSuccessful PaymentStatus = "Payment Successful"
)

type Order struct {
	ID              int64           `json:"id"`
	UserID          *int64          `json:"user_id,omitempty"`
	CustomerName    string          `json:"customer_name"`
	CustomerEmail   string          `json:"customer_email"`
	CustomerPhone   string          `json:"customer_phone"`
	CustomerAddress string          `json:"customer_address"`
	TotalAmount     decimal.Decimal `json:"total_amount"`
	Status          OrderStatus     `json:"status"`
	PaymentStatus   PaymentStatus   `json:"payment_status"`
	AccountRef      *string         `json:"account_ref,omitempty"`
	CardType        *string         `json:"card_type,omitempty"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
	Items           []OrderLine     `json:"items,omitempty"`
}

// BelongsTo reports whether the order was placed by userID.
func (o *Order) BelongsTo(userID int64) bool {
	return o.UserID != nil && *o.UserID == userID
}

// OrderLine is a frozen copy of a cart line. ProductID becomes nil once the
// originating product is deleted.
type OrderLine struct {
	ID           int64           `json:"id"`
	OrderID      int64           `json:"order_id"`
	ProductID    *int64          `json:"product_id,omitempty"`
	ProductName  string          `json:"product_name"`
	VariantLabel string          `json:"variant_label"`
	UnitPrice    decimal.Decimal `json:"unit_price"`
	Quantity     int             `json:"quantity"`
	LineTotal    decimal.Decimal `json:"line_total"`
}
