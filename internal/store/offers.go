package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/safar/nava-store/internal/database"
	"github.com/safar/nava-store/internal/models"
)

const offerColumns = `id, title, description, discount_percent, is_active, created_at`

type OfferStore struct {
	db *sql.DB
}

func NewOfferStore(db *sql.DB) *OfferStore {
	return &OfferStore{db: db}
}

func scanOffer(row rowScanner, offer *models.Offer) error {
	return row.Scan(
		&offer.ID,
		&offer.Title,
		&offer.Description,
		&offer.DiscountPercent,
		&offer.IsActive,
		&offer.CreatedAt,
	)
}

func (s *OfferStore) Create(ctx context.Context, offer *models.Offer) error {
	query := `
		INSERT INTO offers (title, description, discount_percent, is_active, created_at)
		VALUES ($1, $2, $3, $4, NOW())
		RETURNING ` + offerColumns

	err := scanOffer(s.db.QueryRowContext(ctx, query,
		offer.Title, offer.Description, offer.DiscountPercent, offer.IsActive), offer)
	if err != nil {
		return fmt.Errorf("create offer: %w", err)
	}
	return nil
}

// List returns offers newest first.
func (s *OfferStore) List(ctx context.Context, activeOnly bool) ([]models.Offer, error) {
	query := `SELECT ` + offerColumns + ` FROM offers`
	if activeOnly {
		query += ` WHERE is_active`
	}
	query += ` ORDER BY id DESC`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list offers: %w", err)
	}
	defer rows.Close()

	offers := []models.Offer{}
	for rows.Next() {
		var offer models.Offer
		if err := scanOffer(rows, &offer); err != nil {
			return nil, fmt.Errorf("scan offer: %w", err)
		}
		offers = append(offers, offer)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}

	return offers, nil
}

// ToggleActive flips the offer's active flag and returns the updated offer.
func (s *OfferStore) ToggleActive(ctx context.Context, id int64) (*models.Offer, error) {
	offer := &models.Offer{}

	query := `
		UPDATE offers
		SET is_active = NOT is_active
		WHERE id = $1
		RETURNING ` + offerColumns

	if err := scanOffer(s.db.QueryRowContext(ctx, query, id), offer); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, database.ErrOfferNotFound
		}
		return nil, fmt.Errorf("toggle offer: %w", err)
	}

	return offer, nil
}

func (s *OfferStore) Count(ctx context.Context) (int64, error) {
	var total int64
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM offers`).Scan(&total); err != nil {
		return 0, fmt.Errorf("count offers: %w", err)
	}
	return total, nil
}
