package store

import (
	"context"
	"database/sql"
	"fmt"

	"pricing-service/internal/models"

	"github.com/jmoiron/sqlx"
)

// CreateProduct creates a new product record
func (s *Store) CreateProduct(ctx context.Context, product *models.Product) error {
	query := `
		INSERT INTO products (sku, title, description, condition, category, brand, status, original_price, price, seller_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id, created_at, updated_at`

	return s.db.GetContext(ctx, product, query,
		product.SKU, product.Title, product.Description, product.Condition,
		product.Category, product.Brand, product.Status,
		product.OriginalPrice, product.Price, product.SellerID)
}

// UpsertProduct inserts a product or updates its price-relevant fields by SKU
func (s *Store) UpsertProduct(ctx context.Context, product *models.Product) error {
	query := `
		INSERT INTO products (sku, title, description, condition, category, brand, status, original_price, price, seller_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		ON CONFLICT (sku)
		DO UPDATE SET
			title = EXCLUDED.title,
			condition = EXCLUDED.condition,
			category = EXCLUDED.category,
			brand = EXCLUDED.brand,
			original_price = EXCLUDED.original_price,
			price = EXCLUDED.price,
			updated_at = NOW()
		RETURNING id, created_at, updated_at`

	return s.db.GetContext(ctx, product, query,
		product.SKU, product.Title, product.Description, product.Condition,
		product.Category, product.Brand, product.Status,
		product.OriginalPrice, product.Price, product.SellerID)
}

// GetProductByID retrieves a product by ID
func (s *Store) GetProductByID(ctx context.Context, id int64) (*models.Product, error) {
	var product models.Product
	err := s.db.GetContext(ctx, &product, "SELECT * FROM products WHERE id = $1", id)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("product not found: %d", id)
	}
	if err != nil {
		return nil, err
	}
	return &product, nil
}

// GetProductBySKU retrieves a product by SKU
func (s *Store) GetProductBySKU(ctx context.Context, sku string) (*models.Product, error) {
	var product models.Product
	err := s.db.GetContext(ctx, &product, "SELECT * FROM products WHERE sku = $1", sku)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("product not found: %s", sku)
	}
	if err != nil {
		return nil, err
	}
	return &product, nil
}

// GetProducts retrieves all products
func (s *Store) GetProducts(ctx context.Context) ([]models.Product, error) {
	var products []models.Product
	err := s.db.SelectContext(ctx, &products, "SELECT * FROM products ORDER BY id")
	return products, err
}

// GetProductsByIDs retrieves multiple products by IDs
func (s *Store) GetProductsByIDs(ctx context.Context, ids []int64) ([]models.Product, error) {
	if len(ids) == 0 {
		return []models.Product{}, nil
	}

	query, args, err := sqlx.In("SELECT * FROM products WHERE id IN (?)", ids)
	if err != nil {
		return nil, err
	}
	query = s.db.Rebind(query)

	var products []models.Product
	err = s.db.SelectContext(ctx, &products, query, args...)
	return products, err
}

// UpdateProductPrice updates a product's price and records the change in the
// price history within one transaction
func (s *Store) UpdateProductPrice(ctx context.Context, productID int64, newPrice float64, tier, reason string) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	var oldPrice float64
	err = tx.GetContext(ctx, &oldPrice,
		"SELECT price FROM products WHERE id = $1 FOR UPDATE", productID)
	if err != nil {
		return fmt.Errorf("failed to lock product: %w", err)
	}

	_, err = tx.ExecContext(ctx,
		"UPDATE products SET price = $1, updated_at = NOW() WHERE id = $2",
		newPrice, productID)
	if err != nil {
		return fmt.Errorf("failed to update price: %w", err)
	}

	_, err = tx.ExecContext(ctx,
		"INSERT INTO price_history (product_id, old_price, new_price, tier, reason) VALUES ($1, $2, $3, $4, $5)",
		productID, oldPrice, newPrice, tier, reason)
	if err != nil {
		return fmt.Errorf("failed to record price history: %w", err)
	}

	return tx.Commit()
}

// UpdateProductStatus updates a product's status
func (s *Store) UpdateProductStatus(ctx context.Context, productID int64, status string) error {
	_, err := s.db.ExecContext(ctx,
		"UPDATE products SET status = $1, updated_at = NOW() WHERE id = $2",
		status, productID)
	return err
}

// GetPriceHistory retrieves price changes for a product, newest first
func (s *Store) GetPriceHistory(ctx context.Context, productID int64) ([]models.PriceHistory, error) {
	var history []models.PriceHistory
	err := s.db.SelectContext(ctx, &history,
		"SELECT * FROM price_history WHERE product_id = $1 ORDER BY created_at DESC", productID)
	return history, err
}
