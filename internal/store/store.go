package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"pricing-service/internal/models"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
)

type Store struct {
	db *sqlx.DB
}

// NewStore creates a new database store
func NewStore(databaseURL string) (*Store, error) {
	db, err := sqlx.Connect("postgres", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &Store{db: db}, nil
}

// Close closes the database connection
func (s *Store) Close() error {
	return s.db.Close()
}

// GetDB returns the underlying database connection
func (s *Store) GetDB() *sqlx.DB {
	return s.db
}

// GetMarketSignals retrieves stock and demand levels for a product
func (s *Store) GetMarketSignals(ctx context.Context, productID int64) (*models.MarketSignals, error) {
	var signals models.MarketSignals
	err := s.db.GetContext(ctx, &signals, "SELECT * FROM market_signals WHERE product_id = $1", productID)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("market signals not found for product: %d", productID)
	}
	if err != nil {
		return nil, err
	}
	return &signals, nil
}

// UpsertMarketSignals writes stock and demand levels for a product
func (s *Store) UpsertMarketSignals(ctx context.Context, signals *models.MarketSignals) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO market_signals (product_id, stock_level, demand_level, updated_at)
		VALUES ($1, $2, $3, NOW())
		ON CONFLICT (product_id)
		DO UPDATE SET stock_level = $2, demand_level = $3, updated_at = NOW()`,
		signals.ProductID, signals.StockLevel, signals.DemandLevel)
	return err
}

// IsEventProcessed checks if an event has been processed
func (s *Store) IsEventProcessed(ctx context.Context, eventID string) (bool, error) {
	var exists bool
	err := s.db.GetContext(ctx, &exists,
		"SELECT EXISTS(SELECT 1 FROM processed_events WHERE event_id = $1)", eventID)
	return exists, err
}

// MarkEventProcessed marks an event as processed
func (s *Store) MarkEventProcessed(ctx context.Context, eventID, eventType string) error {
	_, err := s.db.ExecContext(ctx,
		"INSERT INTO processed_events (event_id, event_type) VALUES ($1, $2) ON CONFLICT (event_id) DO NOTHING",
		eventID, eventType)
	return err
}
