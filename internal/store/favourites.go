package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/safar/nava-store/internal/database"
	"github.com/safar/nava-store/internal/models"
)

type FavouriteStore struct {
	db *sql.DB
}

func NewFavouriteStore(db *sql.DB) *FavouriteStore {
	return &FavouriteStore{db: db}
}

// Toggle removes the (user, product) favourite if it exists and adds it
// otherwise. It reports whether the product is a favourite afterwards.
func (s *FavouriteStore) Toggle(ctx context.Context, userID, productID int64) (bool, error) {
	var added bool

	err := database.WithTransaction(ctx, s.db, database.DefaultTxOptions(), func(tx *sql.Tx) error {
		result, err := tx.ExecContext(ctx,
			`DELETE FROM favourites WHERE user_id = $1 AND product_id = $2`,
			userID, productID)
		if err != nil {
			return fmt.Errorf("delete favourite: %w", err)
		}

		rowsAffected, err := result.RowsAffected()
		if err != nil {
			return fmt.Errorf("get rows affected: %w", err)
		}
		if rowsAffected > 0 {
			added = false
			return nil
		}

		_, err = tx.ExecContext(ctx,
			`INSERT INTO favourites (user_id, product_id, created_at) VALUES ($1, $2, NOW())
			 ON CONFLICT (user_id, product_id) DO NOTHING`,
			userID, productID)
		if err != nil {
			if database.IsForeignKeyViolation(err) {
				return database.ErrProductNotFound
			}
			return fmt.Errorf("insert favourite: %w", err)
		}
		added = true
		return nil
	})
	if err != nil {
		return false, err
	}

	return added, nil
}

// ListProducts returns the user's favourite products, oldest favourite first.
func (s *FavouriteStore) ListProducts(ctx context.Context, userID int64) ([]models.Product, error) {
	query := `
		SELECT p.id, p.name, p.category, p.description, p.image_url, p.base_price, p.base_volume,
		       p.secondary_price, p.secondary_volume, p.created_at, p.updated_at, p.version
		FROM favourites f
		JOIN products p ON p.id = f.product_id
		WHERE f.user_id = $1
		ORDER BY f.created_at, p.id`

	rows, err := s.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("list favourites: %w", err)
	}
	defer rows.Close()

	products := []models.Product{}
	for rows.Next() {
		var product models.Product
		if err := scanProduct(rows, &product); err != nil {
			return nil, fmt.Errorf("scan favourite product: %w", err)
		}
		products = append(products, product)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}

	return products, nil
}
