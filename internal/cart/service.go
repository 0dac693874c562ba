package cart

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/safar/nava-store/internal/models"
)

// ProductLookup resolves the product a line is added for.
type ProductLookup interface {
	Get(ctx context.Context, id int64) (*models.Product, error)
}

// Service applies cart operations to the cart of an explicit session and
// saves the result immediately.
type Service struct {
	store    Store
	products ProductLookup
	logger   *zap.Logger
}

func NewService(store Store, products ProductLookup, logger *zap.Logger) *Service {
	return &Service{store: store, products: products, logger: logger}
}

func (s *Service) Get(ctx context.Context, sessionID string) (Cart, error) {
	c, err := s.store.Load(ctx, sessionID)
	if err != nil {
		return Cart{}, fmt.Errorf("load cart: %w", err)
	}
	return c, nil
}

// Lines returns a snapshot of the session's cart lines.
func (s *Service) Lines(ctx context.Context, sessionID string) ([]Line, error) {
	c, err := s.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	return c.Lines, nil
}

func (s *Service) Add(ctx context.Context, sessionID string, productID int64, quantity int, variant Variant) (Cart, error) {
	product, err := s.products.Get(ctx, productID)
	if err != nil {
		return Cart{}, err
	}

	return s.mutate(ctx, sessionID, func(c *Cart) error {
		line, err := c.Add(*product, quantity, variant)
		if err != nil {
			return err
		}
		s.logger.Debug("cart line added",
			zap.Int64("product_id", line.ProductID),
			zap.String("variant", line.VariantLabel),
			zap.Int("quantity", line.Quantity))
		return nil
	})
}

func (s *Service) Remove(ctx context.Context, sessionID string, index int) (Cart, error) {
	return s.mutate(ctx, sessionID, func(c *Cart) error {
		c.Remove(index)
		return nil
	})
}

func (s *Service) UpdateQuantity(ctx context.Context, sessionID string, index int, op QuantityOp) (Cart, error) {
	return s.mutate(ctx, sessionID, func(c *Cart) error {
		c.UpdateQuantity(index, op)
		return nil
	})
}

func (s *Service) Clear(ctx context.Context, sessionID string) error {
	if err := s.store.Save(ctx, sessionID, Cart{}); err != nil {
		return fmt.Errorf("save cart: %w", err)
	}
	return nil
}

func (s *Service) mutate(ctx context.Context, sessionID string, fn func(*Cart) error) (Cart, error) {
	c, err := s.Get(ctx, sessionID)
	if err != nil {
		return Cart{}, err
	}

	if err := fn(&c); err != nil {
		return Cart{}, err
	}

	if err := s.store.Save(ctx, sessionID, c); err != nil {
		return Cart{}, fmt.Errorf("save cart: %w", err)
	}
	return c, nil
}
