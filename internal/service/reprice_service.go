package service

import (
	"context"
	"fmt"
	"math"
	"time"

	"pricing-service/internal/broker"
	"pricing-service/internal/models"
	"pricing-service/internal/pricing"
	"pricing-service/internal/store"
	"pricing-service/internal/util"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// RepriceService executes bulk price actions on the catalog
type RepriceService struct {
	store          *store.Store
	signalClient   *SignalClient
	eventPublisher *broker.EventPublisher
	baseEngine     *pricing.BaseEngine
	logger         *zap.Logger
}

// NewRepriceService creates a new reprice service
func NewRepriceService(
	store *store.Store,
	signalClient *SignalClient,
	eventPublisher *broker.EventPublisher,
) *RepriceService {
	return &RepriceService{
		store:          store,
		signalClient:   signalClient,
		eventPublisher: eventPublisher,
		baseEngine:     pricing.NewBaseEngine(),
		logger:         util.GetLogger(),
	}
}

// BulkRepriceRequest represents an admin bulk price action
type BulkRepriceRequest struct {
	Action     string  `json:"action" binding:"required"`
	Percentage float64 `json:"percentage,omitempty"`
	ProductIDs []int64 `json:"product_ids" binding:"required,min=1"`
}

// BulkRepriceResponse acknowledges an accepted bulk action
type BulkRepriceResponse struct {
	RequestID string `json:"request_id"`
	Status    string `json:"status"`
}

// RequestBulkReprice validates and enqueues a bulk price action
func (rs *RepriceService) RequestBulkReprice(ctx context.Context, req *BulkRepriceRequest) (*BulkRepriceResponse, error) {
	ctx, span := util.StartSpan(ctx, "RepriceService.RequestBulkReprice")
	defer span.End()

	switch req.Action {
	case models.BulkActionRecalculate:
	case models.BulkActionDiscount, models.BulkActionMarkup:
		if req.Percentage <= 0 || req.Percentage >= 100 {
			return nil, fmt.Errorf("%w: percentage must be between 0 and 100, got %v",
				pricing.ErrInvalidInput, req.Percentage)
		}
	default:
		return nil, fmt.Errorf("%w: unknown bulk action %q", pricing.ErrInvalidInput, req.Action)
	}

	requestID := uuid.New().String()

	event := &models.BulkRepriceRequestedEvent{
		BaseEvent: models.BaseEvent{
			EventID:   uuid.New().String(),
			EventType: models.EventTypeBulkRepriceRequested,
			Timestamp: time.Now(),
		},
		RequestID:  requestID,
		Action:     req.Action,
		Percentage: req.Percentage,
		ProductIDs: req.ProductIDs,
	}

	if err := rs.eventPublisher.PublishBulkRepriceRequested(ctx, event); err != nil {
		return nil, fmt.Errorf("failed to publish BulkRepriceRequested event: %w", err)
	}

	rs.logger.Info("Bulk reprice requested",
		zap.String("request_id", requestID),
		zap.String("action", req.Action),
		zap.Int("products", len(req.ProductIDs)))

	return &BulkRepriceResponse{RequestID: requestID, Status: "accepted"}, nil
}

// HandleBulkReprice processes a bulk reprice event from the broker
func (rs *RepriceService) HandleBulkReprice(ctx context.Context, event *models.BulkRepriceRequestedEvent) error {
	ctx, span := util.StartSpan(ctx, "RepriceService.HandleBulkReprice")
	defer span.End()

	processed, err := rs.store.IsEventProcessed(ctx, event.EventID)
	if err != nil {
		return fmt.Errorf("failed to check event processed: %w", err)
	}
	if processed {
		rs.logger.Info("Event already processed", zap.String("event_id", event.EventID))
		return nil
	}

	rs.logger.Info("Handling bulk reprice",
		zap.String("request_id", event.RequestID),
		zap.String("action", event.Action),
		zap.Int("products", len(event.ProductIDs)))

	products, err := rs.store.GetProductsByIDs(ctx, event.ProductIDs)
	if err != nil {
		return fmt.Errorf("failed to load products: %w", err)
	}

	for i := range products {
		product := &products[i]

		newPrice, err := rs.newPrice(ctx, product, event.Action, event.Percentage)
		if err != nil {
			rs.logger.Error("Failed to compute new price",
				zap.Int64("product_id", product.ID),
				zap.Error(err))
			continue
		}

		if newPrice == product.Price {
			continue
		}

		reason := repriceReason(event.Action)
		if err := rs.store.UpdateProductPrice(ctx, product.ID, newPrice, models.TierBase, reason); err != nil {
			rs.logger.Error("Failed to update price",
				zap.Int64("product_id", product.ID),
				zap.Error(err))
			continue
		}

		util.ProductsRepricedTotal.WithLabelValues(event.Action).Inc()

		repriced := &models.ProductRepricedEvent{
			BaseEvent: models.BaseEvent{
				EventID:   uuid.New().String(),
				EventType: models.EventTypeProductRepriced,
				Timestamp: time.Now(),
			},
			ProductID: product.ID,
			OldPrice:  product.Price,
			NewPrice:  newPrice,
			Tier:      models.TierBase,
			Reason:    reason,
		}

		if err := rs.eventPublisher.PublishProductRepriced(ctx, repriced); err != nil {
			rs.logger.Error("Failed to publish ProductRepriced event", zap.Error(err))
		}
	}

	if err := rs.store.MarkEventProcessed(ctx, event.EventID, event.EventType); err != nil {
		rs.logger.Error("Failed to mark event processed", zap.Error(err))
	}

	rs.logger.Info("Bulk reprice completed", zap.String("request_id", event.RequestID))
	return nil
}

// newPrice computes the target price for one product under a bulk action
func (rs *RepriceService) newPrice(ctx context.Context, product *models.Product, action string, percentage float64) (float64, error) {
	switch action {
	case models.BulkActionDiscount:
		return math.Round(product.Price*(1-percentage/100)*100) / 100, nil

	case models.BulkActionMarkup:
		return math.Round(product.Price*(1+percentage/100)*100) / 100, nil

	case models.BulkActionRecalculate:
		factors := pricing.PriceFactors{
			BasePrice:   product.OriginalPrice,
			Condition:   product.Condition,
			Quantity:    1,
			Category:    product.Category,
			Seasonality: 0,
		}

		stock, demand, err := rs.signalClient.GetSignals(ctx, product.ID)
		if err == nil && demand != 0 {
			factors.StockLevel = &stock
			factors.DemandLevel = &demand
		}

		return rs.baseEngine.CalculateSellingPrice(factors)

	default:
		return 0, fmt.Errorf("%w: unknown bulk action %q", pricing.ErrInvalidInput, action)
	}
}

func repriceReason(action string) string {
	switch action {
	case models.BulkActionDiscount:
		return models.RepriceReasonDiscount
	case models.BulkActionMarkup:
		return models.RepriceReasonMarkup
	default:
		return models.RepriceReasonRecalculate
	}
}
