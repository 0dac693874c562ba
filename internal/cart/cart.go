// Package cart holds the per-session shopping cart. Cart lines are price
// snapshots: later catalog edits never change a line already in a cart.
package cart

import (
	"errors"
	"strings"

	"github.com/safar/nava-store/internal/models"
	"github.com/shopspring/decimal"
)

var ErrInvalidQuantity = errors.New("quantity must be at least 1")

// Variant selects a product's price tier.
type Variant string

const (
	VariantPrimary   Variant = "primary"
	VariantSecondary Variant = "secondary"
)

const defaultSecondaryLabel = "30 ml"

// ParseVariant maps a form value to a Variant. Anything that is not an
// explicit request for the secondary tier selects the primary tier.
func ParseVariant(s string) Variant {
	switch strings.ToLower(strings.ReplaceAll(strings.TrimSpace(s), " ", "")) {
	case "secondary", "30ml":
		return VariantSecondary
	default:
		return VariantPrimary
	}
}

type Line struct {
	ProductID    int64           `json:"product_id"`
	ProductName  string          `json:"product_name"`
	VariantLabel string          `json:"variant_label"`
	UnitPrice    decimal.Decimal `json:"unit_price"`
	Quantity     int             `json:"quantity"`
	LineTotal    decimal.Decimal `json:"line_total"`
}

func (l *Line) setQuantity(q int) {
	if q < 1 {
		q = 1
	}
	l.Quantity = q
	l.LineTotal = l.UnitPrice.Mul(decimal.NewFromInt(int64(q)))
}

// Cart is the state of one session's cart.
type Cart struct {
	Lines []Line `json:"lines"`
}

// Add appends a new line for product. Repeated adds of the same product
// produce separate lines.
func (c *Cart) Add(product models.Product, quantity int, variant Variant) (Line, error) {
	if quantity < 1 {
		return Line{}, ErrInvalidQuantity
	}

	unitPrice, label := resolveTier(product, variant)
	line := Line{
		ProductID:    product.ID,
		ProductName:  product.Name,
		VariantLabel: label,
		UnitPrice:    unitPrice,
	}
	line.setQuantity(quantity)

	c.Lines = append(c.Lines, line)
	return line, nil
}

func resolveTier(product models.Product, variant Variant) (decimal.Decimal, string) {
	if product.Category != models.CategorySerum || variant != VariantSecondary {
		return product.BasePrice, product.BaseVolume
	}

	price := product.BasePrice
	if product.SecondaryPrice != nil {
		price = *product.SecondaryPrice
	}
	label := defaultSecondaryLabel
	if product.SecondaryVolume != nil {
		label = *product.SecondaryVolume
	}
	return price, label
}

// Remove drops the line at index. It reports false, and changes nothing,
// when index is out of range.
func (c *Cart) Remove(index int) bool {
	if index < 0 || index >= len(c.Lines) {
		return false
	}
	c.Lines = append(c.Lines[:index], c.Lines[index+1:]...)
	return true
}

type opKind int

const (
	opSet opKind = iota
	opIncrement
	opDecrement
)

// QuantityOp is an absolute or relative quantity change.
type QuantityOp struct {
	kind  opKind
	value int
}

func SetQuantity(n int) QuantityOp { return QuantityOp{kind: opSet, value: n} }
func Increment() QuantityOp       { return QuantityOp{kind: opIncrement} }
func Decrement() QuantityOp       { return QuantityOp{kind: opDecrement} }

// UpdateQuantity applies op to the line at index. Quantities never drop below
// 1. It reports false when index is out of range.
func (c *Cart) UpdateQuantity(index int, op QuantityOp) bool {
	if index < 0 || index >= len(c.Lines) {
		return false
	}

	line := &c.Lines[index]
	switch op.kind {
	case opIncrement:
		line.setQuantity(line.Quantity + 1)
	case opDecrement:
		line.setQuantity(line.Quantity - 1)
	default:
		line.setQuantity(op.value)
	}
	return true
}

func (c *Cart) Total() decimal.Decimal {
	total := decimal.Zero
	for _, line := range c.Lines {
		total = total.Add(line.LineTotal)
	}
	return total
}

func (c *Cart) IsEmpty() bool {
	return len(c.Lines) == 0
}

// Clone returns a copy that shares no backing array with c.
func (c Cart) Clone() Cart {
	if c.Lines == nil {
		return Cart{}
	}
	lines := make([]Line, len(c.Lines))
	copy(lines, c.Lines)
	return Cart{Lines: lines}
}
