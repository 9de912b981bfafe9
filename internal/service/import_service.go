package service

import (
	"context"
	"fmt"
	"time"

	"pricing-service/internal/broker"
	"pricing-service/internal/models"
	"pricing-service/internal/pricing"
	"pricing-service/internal/redisclient"
	"pricing-service/internal/store"
	"pricing-service/internal/util"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ImportService handles bulk product imports
type ImportService struct {
	store          *store.Store
	redis          *redisclient.Client
	eventPublisher *broker.EventPublisher
	engine         *pricing.AdvancedEngine
	batchSize      int
	logger         *zap.Logger
}

// NewImportService creates a new import service
func NewImportService(
	store *store.Store,
	redis *redisclient.Client,
	eventPublisher *broker.EventPublisher,
	batchSize int,
) *ImportService {
	if batchSize <= 0 {
		batchSize = 50
	}
	return &ImportService{
		store:          store,
		redis:          redis,
		eventPublisher: eventPublisher,
		engine:         pricing.NewAdvancedEngine(),
		batchSize:      batchSize,
		logger:         util.GetLogger(),
	}
}

// ImportRow represents one product in an import payload
type ImportRow struct {
	SKU           string  `json:"sku" binding:"required"`
	Title         string  `json:"title" binding:"required"`
	Description   string  `json:"description,omitempty"`
	Condition     string  `json:"condition"`
	Category      string  `json:"category"`
	Brand         string  `json:"brand,omitempty"`
	OriginalPrice float64 `json:"original_price" binding:"required"`
}

// ImportRequest represents a bulk import job
type ImportRequest struct {
	JobID string      `json:"job_id,omitempty"`
	Rows  []ImportRow `json:"rows" binding:"required,min=1"`
}

// ImportResponse summarizes an import job
type ImportResponse struct {
	JobID    string `json:"job_id"`
	Imported int    `json:"imported"`
	Failed   int    `json:"failed"`
}

// ImportProducts prices and persists products in batches. Rows carry no
// market context, so prices are computed from neutral factors and refined
// later by repricing.
func (is *ImportService) ImportProducts(ctx context.Context, req *ImportRequest) (*ImportResponse, error) {
	ctx, span := util.StartSpan(ctx, "ImportService.ImportProducts")
	defer span.End()

	if req.JobID == "" {
		req.JobID = uuid.New().String()
	}

	seen, err := is.redis.CheckIdempotencyKey(ctx, req.JobID)
	if err != nil {
		is.logger.Warn("Idempotency check failed, continuing", zap.Error(err))
	}
	if seen {
		is.logger.Info("Duplicate import job detected", zap.String("job_id", req.JobID))
		return &ImportResponse{JobID: req.JobID}, nil
	}

	var imported, failed int

	for start := 0; start < len(req.Rows); start += is.batchSize {
		end := start + is.batchSize
		if end > len(req.Rows) {
			end = len(req.Rows)
		}

		for _, row := range req.Rows[start:end] {
			if err := is.importRow(ctx, row); err != nil {
				failed++
				util.ProductsImportFailedTotal.Inc()
				is.logger.Warn("Import row failed",
					zap.String("sku", row.SKU),
					zap.Error(err))
				continue
			}
			imported++
			util.ProductsImportedTotal.Inc()
		}

		is.logger.Info("Import batch persisted",
			zap.String("job_id", req.JobID),
			zap.Int("batch_end", end),
			zap.Int("total", len(req.Rows)))
	}

	if err := is.redis.SetIdempotencyKey(ctx, req.JobID, "done", 24*time.Hour); err != nil {
		is.logger.Warn("Failed to store idempotency key", zap.Error(err))
	}

	event := &models.ProductsImportedEvent{
		BaseEvent: models.BaseEvent{
			EventID:   uuid.New().String(),
			EventType: models.EventTypeProductsImported,
			Timestamp: time.Now(),
		},
		JobID:    req.JobID,
		Imported: imported,
		Failed:   failed,
	}

	if err := is.eventPublisher.PublishProductsImported(ctx, event); err != nil {
		is.logger.Error("Failed to publish ProductsImported event", zap.Error(err))
	}

	is.logger.Info("Import completed",
		zap.String("job_id", req.JobID),
		zap.Int("imported", imported),
		zap.Int("failed", failed))

	return &ImportResponse{
		JobID:    req.JobID,
		Imported: imported,
		Failed:   failed,
	}, nil
}

func (is *ImportService) importRow(ctx context.Context, row ImportRow) error {
	condition := row.Condition
	if condition == "" {
		condition = "good"
	}

	price, err := is.engine.CalculateAdvancedPrice(pricing.AdvancedPriceFactors{
		PriceFactors: pricing.PriceFactors{
			BasePrice:   row.OriginalPrice,
			Condition:   condition,
			Quantity:    1,
			Category:    row.Category,
			Seasonality: 0,
		},
		Brand: row.Brand,
	})
	if err != nil {
		return fmt.Errorf("pricing failed: %w", err)
	}

	product := &models.Product{
		SKU:           row.SKU,
		Title:         row.Title,
		Description:   row.Description,
		Condition:     condition,
		Category:      row.Category,
		Brand:         row.Brand,
		Status:        models.ProductStatusActive,
		OriginalPrice: row.OriginalPrice,
		Price:         price,
	}

	if err := is.store.UpsertProduct(ctx, product); err != nil {
		return fmt.Errorf("upsert failed: %w", err)
	}

	return nil
}
