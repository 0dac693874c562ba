// Package catalog answers product and offer queries and applies the admin
// back-office edits to them.
package catalog

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/safar/nava-store/internal/models"
	"github.com/safar/nava-store/internal/store"
)

// AllCategories is the wildcard category filter.
const AllCategories = "all"

// homeProductsPerCategory caps each category row on the home page.
const homeProductsPerCategory = 4

var (
	ErrInvalidCategory = errors.New("invalid category")
	ErrInvalidProduct  = errors.New("invalid product")
	ErrInvalidOffer    = errors.New("invalid offer")
)

type ProductRepository interface {
	Create(ctx context.Context, product *models.Product) error
	Get(ctx context.Context, id int64) (*models.Product, error)
	Update(ctx context.Context, product *models.Product) error
	Delete(ctx context.Context, id int64) error
	List(ctx context.Context, filter store.ProductFilter) ([]models.Product, error)
	ListPage(ctx context.Context, page, pageSize int) (*store.OffsetPage[models.Product], error)
	Count(ctx context.Context) (int64, error)
}

type OfferRepository interface {
	Create(ctx context.Context, offer *models.Offer) error
	List(ctx context.Context, activeOnly bool) ([]models.Offer, error)
	ToggleActive(ctx context.Context, id int64) (*models.Offer, error)
	Count(ctx context.Context) (int64, error)
}

type FavouriteRepository interface {
	Toggle(ctx context.Context, userID, productID int64) (bool, error)
	ListProducts(ctx context.Context, userID int64) ([]models.Product, error)
}

type Service struct {
	products   ProductRepository
	offers     OfferRepository
	favourites FavouriteRepository
	logger     *zap.Logger
}

func NewService(products ProductRepository, offers OfferRepository, favourites FavouriteRepository, logger *zap.Logger) *Service {
	return &Service{products: products, offers: offers, favourites: favourites, logger: logger}
}

// List returns products in category (or every category for "all" or "")
// whose name contains search, ignoring case.
func (s *Service) List(ctx context.Context, category, search string) ([]models.Product, error) {
	filter := store.ProductFilter{Search: strings.TrimSpace(search)}

	category = strings.TrimSpace(category)
	if category != "" && category != AllCategories {
		c, err := models.ParseCategory(category)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidCategory, err)
		}
		filter.Category = &c
	}

	return s.products.List(ctx, filter)
}

func (s *Service) Get(ctx context.Context, id int64) (*models.Product, error) {
	return s.products.Get(ctx, id)
}

// Home is the landing page content.
type Home struct {
	Offers     []models.Offer                      `json:"offers"`
	Categories map[models.Category][]models.Product `json:"categories"`
}

func (s *Service) Home(ctx context.Context) (*Home, error) {
	offers, err := s.offers.List(ctx, true)
	if err != nil {
		return nil, err
	}

	home := &Home{Offers: offers, Categories: make(map[models.Category][]models.Product, len(models.Categories))}
	for _, c := range models.Categories {
		category := c
		products, err := s.products.List(ctx, store.ProductFilter{Category: &category, Limit: homeProductsPerCategory})
		if err != nil {
			return nil, err
		}
		home.Categories[c] = products
	}
	return home, nil
}

// ProductInput is the admin product form.
type ProductInput struct {
	Name            string           `json:"name"`
	Category        string           `json:"category"`
	Description     string           `json:"description"`
	ImageURL        string           `json:"image_url"`
	BasePrice       decimal.Decimal  `json:"base_price"`
	BaseVolume      string           `json:"base_volume"`
	SecondaryPrice  *decimal.Decimal `json:"secondary_price"`
	SecondaryVolume *string          `json:"secondary_volume"`
}

// apply validates in and writes it onto p. Blank description and image keep
// p's current values, falling back to the catalog placeholders.
func (in ProductInput) apply(p *models.Product) error {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidProduct)
	}
	category, err := models.ParseCategory(strings.TrimSpace(in.Category))
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidProduct, err)
	}
	if !in.BasePrice.IsPositive() {
		return fmt.Errorf("%w: base price must be positive", ErrInvalidProduct)
	}

	secondaryVolume := in.SecondaryVolume
	if secondaryVolume != nil && strings.TrimSpace(*secondaryVolume) == "" {
		secondaryVolume = nil
	}
	if (in.SecondaryPrice == nil) != (secondaryVolume == nil) {
		return fmt.Errorf("%w: secondary price and volume must be set together", ErrInvalidProduct)
	}
	if in.SecondaryPrice != nil && !in.SecondaryPrice.IsPositive() {
		return fmt.Errorf("%w: secondary price must be positive", ErrInvalidProduct)
	}

	p.Name = name
	p.Category = category
	p.BasePrice = in.BasePrice
	p.BaseVolume = strings.TrimSpace(in.BaseVolume)
	p.SecondaryPrice = in.SecondaryPrice
	p.SecondaryVolume = secondaryVolume

	if d := strings.TrimSpace(in.Description); d != "" {
		p.Description = d
	} else if p.Description == "" {
		p.Description = models.DefaultProductDescription
	}
	if u := strings.TrimSpace(in.ImageURL); u != "" {
		p.ImageURL = u
	} else if p.ImageURL == "" {
		p.ImageURL = models.DefaultProductImageURL
	}
	return nil
}

func (s *Service) CreateProduct(ctx context.Context, in ProductInput) (*models.Product, error) {
	product := &models.Product{}
	if err := in.apply(product); err != nil {
		return nil, err
	}
	if err := s.products.Create(ctx, product); err != nil {
		return nil, err
	}

	s.logger.Info("product created", zap.Int64("product_id", product.ID), zap.String("category", string(product.Category)))
	return product, nil
}

func (s *Service) UpdateProduct(ctx context.Context, id int64, in ProductInput) (*models.Product, error) {
	product, err := s.products.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := in.apply(product); err != nil {
		return nil, err
	}
	if err := s.products.Update(ctx, product); err != nil {
		return nil, err
	}

	s.logger.Info("product updated", zap.Int64("product_id", id), zap.Int("version", product.Version))
	return product, nil
}

func (s *Service) DeleteProduct(ctx context.Context, id int64) error {
	if err := s.products.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info("product deleted", zap.Int64("product_id", id))
	return nil
}

func (s *Service) ProductPage(ctx context.Context, page, pageSize int) (*store.OffsetPage[models.Product], error) {
	return s.products.ListPage(ctx, page, pageSize)
}

// OfferInput is the admin offer form.
type OfferInput struct {
	Title           string `json:"title"`
	Description     string `json:"description"`
	DiscountPercent *int   `json:"discount_percent"`
	IsActive        bool   `json:"is_active"`
}

func (s *Service) CreateOffer(ctx context.Context, in OfferInput) (*models.Offer, error) {
	title := strings.TrimSpace(in.Title)
	description := strings.TrimSpace(in.Description)
	if title == "" || description == "" {
		return nil, fmt.Errorf("%w: title and description are required", ErrInvalidOffer)
	}
	if in.DiscountPercent != nil && (*in.DiscountPercent < 0 || *in.DiscountPercent > 100) {
		return nil, fmt.Errorf("%w: discount must be between 0 and 100", ErrInvalidOffer)
	}

	offer := &models.Offer{
		Title:           title,
		Description:     description,
		DiscountPercent: in.DiscountPercent,
		IsActive:        in.IsActive,
	}
	if err := s.offers.Create(ctx, offer); err != nil {
		return nil, err
	}

	s.logger.Info("offer created", zap.Int64("offer_id", offer.ID))
	return offer, nil
}

func (s *Service) Offers(ctx context.Context) ([]models.Offer, error) {
	return s.offers.List(ctx, false)
}

func (s *Service) ToggleOffer(ctx context.Context, id int64) (*models.Offer, error) {
	offer, err := s.offers.ToggleActive(ctx, id)
	if err != nil {
		return nil, err
	}
	s.logger.Info("offer toggled", zap.Int64("offer_id", id), zap.Bool("active", offer.IsActive))
	return offer, nil
}

// ToggleFavourite flips the product's favourite mark for userID and reports
// whether it is now a favourite.
func (s *Service) ToggleFavourite(ctx context.Context, userID, productID int64) (bool, error) {
	return s.favourites.Toggle(ctx, userID, productID)
}

func (s *Service) Favourites(ctx context.Context, userID int64) ([]models.Product, error) {
	return s.favourites.ListProducts(ctx, userID)
}

// OrderCounter is satisfied by the order store.
type OrderCounter interface {
	Count(ctx context.Context) (int64, error)
}

type Dashboard struct {
	ProductCount int64 `json:"product_count"`
	OrderCount   int64 `json:"order_count"`
	OfferCount   int64 `json:"offer_count"`
}

func (s *Service) Dashboard(ctx context.Context, orders OrderCounter) (*Dashboard, error) {
	var (
		d   Dashboard
		err error
	)
	if d.ProductCount, err = s.products.Count(ctx); err != nil {
		return nil, err
	}
	if d.OrderCount, err = orders.Count(ctx); err != nil {
		return nil, err
	}
	if d.OfferCount, err = s.offers.Count(ctx); err != nil {
		return nil, err
	}
	return &d, nil
}
