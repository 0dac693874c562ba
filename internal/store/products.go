package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/safar/nava-store/internal/database"
	"github.com/safar/nava-store/internal/models"
)

const productColumns = `id, name, category, description, image_url, base_price, base_volume,
	secondary_price, secondary_volume, created_at, updated_at, version`

// ProductFilter narrows a catalog listing. A nil Category matches every
// category; an empty Search matches every name.
type ProductFilter struct {
	Category *models.Category
	Search   string
	Limit    int
}

type ProductStore struct {
	db *sql.DB
}

func NewProductStore(db *sql.DB) *ProductStore {
	return &ProductStore{db: db}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanProduct(row rowScanner, product *models.Product) error {
	return row.Scan(
		&product.ID,
		&product.Name,
		&product.Category,
		&product.Description,
		&product.ImageURL,
		&product.BasePrice,
		&product.BaseVolume,
		&product.SecondaryPrice,
		&product.SecondaryVolume,
		&product.CreatedAt,
		&product.UpdatedAt,
		&product.Version,
	)
}

func (s *ProductStore) Create(ctx context.Context, product *models.Product) error {
	query := `
		INSERT INTO products (name, category, description, image_url, base_price, base_volume,
		                      secondary_price, secondary_volume, created_at, updated_at, version)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, NOW(), NOW(), 1)
		RETURNING ` + productColumns

	err := scanProduct(s.db.QueryRowContext(ctx, query,
		product.Name,
		product.Category,
		product.Description,
		product.ImageURL,
		product.BasePrice,
		product.BaseVolume,
		product.SecondaryPrice,
		product.SecondaryVolume,
	), product)
	if err != nil {
		return fmt.Errorf("create product: %w", err)
	}

	return nil
}

func (s *ProductStore) Get(ctx context.Context, id int64) (*models.Product, error) {
	product := &models.Product{}

	query := `SELECT ` + productColumns + ` FROM products WHERE id = $1`

	err := scanProduct(s.db.QueryRowContext(ctx, query, id), product)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, database.ErrProductNotFound
		}
		return nil, fmt.Errorf("get product: %w", err)
	}

	return product, nil
}

// Update overwrites every editable column of product and bumps its version.
func (s *ProductStore) Update(ctx context.Context, product *models.Product) error {
	query := `
		UPDATE products
		SET name = $1, category = $2, description = $3, image_url = $4, base_price = $5,
		    base_volume = $6, secondary_price = $7, secondary_volume = $8,
		    updated_at = NOW(), version = version + 1
		WHERE id = $9
		RETURNING ` + productColumns

	err := scanProduct(s.db.QueryRowContext(ctx, query,
		product.Name,
		product.Category,
		product.Description,
		product.ImageURL,
		product.BasePrice,
		product.BaseVolume,
		product.SecondaryPrice,
		product.SecondaryVolume,
		product.ID,
	), product)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return database.ErrProductNotFound
		}
		return fmt.Errorf("update product: %w", err)
	}

	return nil
}

func (s *ProductStore) Delete(ctx context.Context, id int64) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete product: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return database.ErrProductNotFound
	}

	return nil
}

// List returns the products matching filter in insertion order.
func (s *ProductStore) List(ctx context.Context, filter ProductFilter) ([]models.Product, error) {
	var (
		conditions []string
		args       []any
	)

	if filter.Category != nil {
		args = append(args, *filter.Category)
		conditions = append(conditions, fmt.Sprintf("category = $%d", len(args)))
	}
	if filter.Search != "" {
		args = append(args, "%"+escapeLike(filter.Search)+"%")
		conditions = append(conditions, fmt.Sprintf("name ILIKE $%d", len(args)))
	}

	query := `SELECT ` + productColumns + ` FROM products`
	if len(conditions) > 0 {
		query += ` WHERE ` + strings.Join(conditions, " AND ")
	}
	query += ` ORDER BY id`
	if filter.Limit > 0 {
		args = append(args, filter.Limit)
		query += fmt.Sprintf(" LIMIT $%d", len(args))
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	defer rows.Close()

	products := []models.Product{}
	for rows.Next() {
		var product models.Product
		if err := scanProduct(rows, &product); err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		products = append(products, product)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}

	return products, nil
}

// ListPage is the admin listing: newest first, offset paginated.
func (s *ProductStore) ListPage(ctx context.Context, page, pageSize int) (*OffsetPage[models.Product], error) {
	total, err := s.Count(ctx)
	if err != nil {
		return nil, err
	}

	offset := (page - 1) * pageSize
	query := `
		SELECT ` + productColumns + `
		FROM products
		ORDER BY created_at DESC, id DESC
		LIMIT $1 OFFSET $2`

	rows, err := s.db.QueryContext(ctx, query, pageSize, offset)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	defer rows.Close()

	products := []models.Product{}
	for rows.Next() {
		var product models.Product
		if err := scanProduct(rows, &product); err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		products = append(products, product)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}

	return &OffsetPage[models.Product]{
		Items:      products,
		Total:      total,
		Page:       page,
		PageSize:   pageSize,
		TotalPages: totalPages(total, pageSize),
	}, nil
}

func (s *ProductStore) Count(ctx context.Context) (int64, error) {
	var total int64
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM products`).Scan(&total); err != nil {
		return 0, fmt.Errorf("count products: %w", err)
	}
	return total, nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}
