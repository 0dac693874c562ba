package order

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/safar/nava-store/internal/models"
)

const (
	accountRefDigits = 12
	pinDigits        = 4
	defaultCardType  = "Card"
	maxCardTypeLen   = 20
)

// PaymentDetails is the simulated card form. PIN is validated and dropped.
type PaymentDetails struct {
	AccountRef string
	CardType   string
	PIN        string
}

func (p PaymentDetails) validate() error {
	if !isDigits(p.AccountRef, accountRefDigits) {
		return fmt.Errorf("%w: account number must be exactly %d digits", ErrInvalidPaymentDetails, accountRefDigits)
	}
	if !isDigits(p.PIN, pinDigits) {
		return fmt.Errorf("%w: PIN must be exactly %d digits", ErrInvalidPaymentDetails, pinDigits)
	}
	if len(p.CardType) > maxCardTypeLen {
		return fmt.Errorf("%w: card type is too long", ErrInvalidPaymentDetails)
	}
	return nil
}

func isDigits(s string, n int) bool {
	if len(s) != n {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

// MaskAccountRef keeps only the last four digits of an account reference.
func MaskAccountRef(ref string) string {
	if len(ref) <= 4 {
		return ref
	}
	return strings.Repeat("*", len(ref)-4) + ref[len(ref)-4:]
}

// CapturePayment records a successful simulated payment against the order.
// There is no gateway and no dependency on the order's status; invalid
// details leave the order untouched.
func (m *Manager) CapturePayment(ctx context.Context, id int64, details PaymentDetails) (*models.Order, error) {
	if _, err := m.orders.Get(ctx, id); err != nil {
		return nil, err
	}

	details.AccountRef = strings.TrimSpace(details.AccountRef)
	details.PIN = strings.TrimSpace(details.PIN)
	details.CardType = strings.TrimSpace(details.CardType)
	if err := details.validate(); err != nil {
		return nil, err
	}

	cardType := details.CardType
	if cardType == "" {
		cardType = defaultCardType
	}

	if err := m.orders.RecordPayment(ctx, id, MaskAccountRef(details.AccountRef), cardType); err != nil {
		return nil, err
	}

	m.logger.Info("payment captured",
		zap.Int64("order_id", id),
		zap.String("card_type", cardType))

	return m.orders.Get(ctx, id)
}

// IsPaid reports whether a payment has been captured for o.
func IsPaid(o *models.Order) bool {
	return o.PaymentStatus == models.PaymentStatusSuccessful
}
