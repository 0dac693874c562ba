//go:build integration

package store

import (
	"context"
	"database/sql"
	"fmt"
	"testing"
	"time"

	_ "github.com/lib/pq"
	"github.com/shopspring/decimal"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/safar/nava-store/internal/database"
	"github.com/safar/nava-store/internal/models"
	"github.com/safar/nava-store/migrations"
)

func setupTestDB(t *testing.T) (*sql.DB, func()) {
	ctx := context.Background()

	req := testcontainers.ContainerRequest{
		Image:        "postgres:14-alpine",
		ExposedPorts: []string{"5432/tcp"},
		Env: map[string]string{
			"POSTGRES_USER":     "testuser",
			"POSTGRES_PASSWORD": "testpass",
			"POSTGRES_DB":       "testdb",
		},
		WaitingFor: wait.ForLog("database system is ready to accept connections").
			WithOccurrence(2).
			WithStartupTimeout(60 * time.Second),
	}

	postgres, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		t.Fatalf("Failed to start postgres container: %v", err)
	}

	host, err := postgres.Host(ctx)
	if err != nil {
		t.Fatalf("Failed to get container host: %v", err)
	}

	port, err := postgres.MappedPort(ctx, "5432")
	if err != nil {
		t.Fatalf("Failed to get container port: %v", err)
	}

	dsn := fmt.Sprintf("postgres://testuser:testpass@%s:%s/testdb?sslmode=disable", host, port.Port())

	db, err := sql.Open("postgres", dsn)
	if err != nil {
		t.Fatalf("Failed to connect to database: %v", err)
	}

	if err := db.Ping(); err != nil {
		t.Fatalf("Failed to ping database: %v", err)
	}

	if _, err := database.Migrate(ctx, db, migrations.FS, database.DirectionUp); err != nil {
		t.Fatalf("Failed to run migrations: %v", err)
	}

	cleanup := func() {
		if err := db.Close(); err != nil {
			t.Logf("Failed to close database: %v", err)
		}
		if err := postgres.Terminate(ctx); err != nil {
			t.Logf("Failed to terminate container: %v", err)
		}
	}

	return db, cleanup
}

func createTestUser(t *testing.T, db *sql.DB, email string) *models.User {
	t.Helper()
	user := &models.User{Name: "Test User", Email: email, PasswordHash: "not-a-real-hash"}
	if err := NewUserStore(db).Create(context.Background(), user); err != nil {
		t.Fatalf("Create user: %v", err)
	}
	return user
}

func createTestProduct(t *testing.T, db *sql.DB, name string, category models.Category, price int64) *models.Product {
	t.Helper()
	product := &models.Product{
		Name:        name,
		Category:    category,
		Description: models.DefaultProductDescription,
		ImageURL:    models.DefaultProductImageURL,
		BasePrice:   decimal.NewFromInt(price),
		BaseVolume:  "100 ml",
	}
	if err := NewProductStore(db).Create(context.Background(), product); err != nil {
		t.Fatalf("Create product: %v", err)
	}
	return product
}

func newTestOrder(userID *int64, lines ...models.OrderLine) *models.Order {
	order := &models.Order{
		UserID:          userID,
		CustomerName:    "Test User",
		CustomerEmail:   "test@example.com",
		CustomerPhone:   "9876543210",
		CustomerAddress: "12 MG Road, PIN 560038",
		TotalAmount:     decimal.Zero,
		Status:          models.OrderStatusPlaced,
		PaymentStatus:   models.PaymentStatusPending,
		Items:           lines,
	}
	for _, line := range lines {
		order.TotalAmount = order.TotalAmount.Add(line.LineTotal)
	}
	return order
}

func lineFor(product *models.Product, quantity int) models.OrderLine {
	id := product.ID
	return models.OrderLine{
		ProductID:    &id,
		ProductName:  product.Name,
		VariantLabel: product.BaseVolume,
		UnitPrice:    product.BasePrice,
		Quantity:     quantity,
		LineTotal:    product.BasePrice.Mul(decimal.NewFromInt(int64(quantity))),
	}
}
