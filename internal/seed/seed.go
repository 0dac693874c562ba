// Package seed loads the default admin account, product range and launch offer
// into an empty store.
package seed

import (
	"context"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/safar/nava-store/internal/catalog"
	"github.com/safar/nava-store/internal/identity"
	"github.com/safar/nava-store/internal/models"
	"github.com/safar/nava-store/internal/store"
)

type Catalog interface {
	ProductPage(ctx context.Context, page, pageSize int) (*store.OffsetPage[models.Product], error)
	CreateProduct(ctx context.Context, in catalog.ProductInput) (*models.Product, error)
	Offers(ctx context.Context) ([]models.Offer, error)
	CreateOffer(ctx context.Context, in catalog.OfferInput) (*models.Offer, error)
}

type Accounts interface {
	CreateAdmin(ctx context.Context, name, email, password string) (*models.User, error)
}

// Result counts what a Run created.
type Result struct {
	AdminCreated bool
	Products     int
	Offers       int
}

func product(name string, category models.Category, price int64, volume string) catalog.ProductInput {
	return catalog.ProductInput{
		Name:       name,
		Category:   string(category),
		BasePrice:  decimal.NewFromInt(price),
		BaseVolume: volume,
	}
}

func serum(name string) catalog.ProductInput {
	p := product(name, models.CategorySerum, 500, "15 ml")
	secondary := decimal.NewFromInt(1000)
	volume := "30 ml"
	p.SecondaryPrice = &secondary
	p.SecondaryVolume = &volume
	return p
}

// DefaultProducts is the launch range.
func DefaultProducts() []catalog.ProductInput {
	soaps := []string{
		"Goat Milk Soap", "Manjistha Soap", "Kuppameni Soap", "Carrot Soap", "Coconut Milk Soap",
		"Papaya Soap", "Charcoal Soap", "Sandal Soap", "Red Sandal Soap", "Gram Flour Soap",
	}
	shampoos := []string{
		"Onion Shampoo", "Hibiscus Shampoo", "Keratin Shampoo",
		"Fenugreek Shampoo", "Herbal Shampoo", "Dandruff Shampoo",
	}

	var out []catalog.ProductInput
	for _, name := range soaps {
		out = append(out, product(name, models.CategorySoap, 200, "Bar"))
	}
	for _, name := range shampoos {
		out = append(out, product(name, models.CategoryShampoo, 300, "100 ml"))
	}
	out = append(out,
		serum("Kumkumadi Serum"),
		serum("Water-Based Serum"),
		product("Rosemary Hydrosol Spray", models.CategoryHaircare, 200, "100 ml"),
	)
	return out
}

func DefaultOffer() catalog.OfferInput {
	discount := 10
	return catalog.OfferInput{
		Title:           "Festive Herbal Glow Offer",
		Description:     "Enjoy special savings on selected Nava Organics essentials.",
		DiscountPercent: &discount,
		IsActive:        true,
	}
}

// Run creates the admin account unless the email is taken, and the default
// products and offer when their tables are empty. It is safe to run again.
func Run(ctx context.Context, accounts Accounts, cat Catalog, adminEmail, adminPassword string, logger *zap.Logger) (Result, error) {
	var res Result

	_, err := accounts.CreateAdmin(ctx, "Admin", adminEmail, adminPassword)
	switch {
	case err == nil:
		res.AdminCreated = true
		logger.Info("admin account created", zap.String("email", adminEmail))
	case errors.Is(err, identity.ErrDuplicateEmail):
		logger.Info("admin account already exists", zap.String("email", adminEmail))
	default:
		return res, fmt.Errorf("create admin: %w", err)
	}

	page, err := cat.ProductPage(ctx, 1, 1)
	if err != nil {
		return res, fmt.Errorf("count products: %w", err)
	}
	if page.Total == 0 {
		for _, in := range DefaultProducts() {
			if _, err := cat.CreateProduct(ctx, in); err != nil {
				return res, fmt.Errorf("create product %q: %w", in.Name, err)
			}
			res.Products++
		}
	}

	offers, err := cat.Offers(ctx)
	if err != nil {
		return res, fmt.Errorf("list offers: %w", err)
	}
	if len(offers) == 0 {
		if _, err := cat.CreateOffer(ctx, DefaultOffer()); err != nil {
			return res, fmt.Errorf("create offer: %w", err)
		}
		res.Offers++
	}

	return res, nil
}
