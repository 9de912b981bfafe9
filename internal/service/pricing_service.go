package service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"math"
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

// QuoteService handles price quote business logic
type QuoteService struct {
	store          *store.Store
	redis          *redisclient.Client
	eventPublisher *broker.EventPublisher
	signalClient   *SignalClient
	baseEngine     *pricing.BaseEngine
	advancedEngine *pricing.AdvancedEngine
	extendedEngine *pricing.ExtendedEngine
	adjustments    *pricing.AdjustmentCalculator
	cacheTTL       time.Duration
	logger         *zap.Logger
}

// NewQuoteService creates a new quote service
func NewQuoteService(
	store *store.Store,
	redis *redisclient.Client,
	eventPublisher *broker.EventPublisher,
	signalClient *SignalClient,
	cacheTTL time.Duration,
) *QuoteService {
	return &QuoteService{
		store:          store,
		redis:          redis,
		eventPublisher: eventPublisher,
		signalClient:   signalClient,
		baseEngine:     pricing.NewBaseEngine(),
		advancedEngine: pricing.NewAdvancedEngine(),
		extendedEngine: pricing.NewExtendedEngine(),
		adjustments:    pricing.NewAdjustmentCalculator(),
		cacheTTL:       cacheTTL,
		logger:         util.GetLogger(),
	}
}

// SellingQuoteRequest represents a request for a selling price quote.
// Base-tier requests only need the embedded base fields; the advanced and
// extended tiers read the rest.
type SellingQuoteRequest struct {
	Tier      string `json:"tier"`
	ProductID int64  `json:"product_id,omitempty"`

	pricing.ExtendedPriceFactors
}

// QuoteResponse represents a computed quote
type QuoteResponse struct {
	Price float64 `json:"price"`
	Tier  string  `json:"tier"`
}

// QuoteSelling computes a selling price quote for the requested tier
func (s *QuoteService) QuoteSelling(ctx context.Context, req *SellingQuoteRequest) (*QuoteResponse, error) {
	ctx, span := util.StartSpan(ctx, "QuoteService.QuoteSelling")
	defer span.End()

	if req.Tier == "" {
		req.Tier = models.TierBase
	}

	start := time.Now()
	defer func() {
		util.QuoteComputeLatency.WithLabelValues(req.Tier).Observe(time.Since(start).Seconds())
	}()

	s.enrichWithSignals(ctx, req)

	cacheKey := quoteCacheKey(req)
	if cached, err := s.redis.GetCachedQuote(ctx, cacheKey); err == nil && cached != nil {
		var resp QuoteResponse
		if err := json.Unmarshal(cached, &resp); err == nil {
			util.QuoteCacheHitsTotal.Inc()
			return &resp, nil
		}
	}

	var price float64
	var err error

	switch req.Tier {
	case models.TierBase:
		price, err = s.baseEngine.CalculateSellingPrice(req.PriceFactors)
	case models.TierAdvanced:
		price, err = s.advancedEngine.CalculateAdvancedPrice(req.AdvancedPriceFactors)
	case models.TierExtended:
		price, err = s.extendedEngine.CalculateExtendedPrice(req.ExtendedPriceFactors)
	default:
		util.QuotesFailedTotal.WithLabelValues("unknown_tier").Inc()
		return nil, fmt.Errorf("%w: unknown pricing tier %q", pricing.ErrInvalidInput, req.Tier)
	}
	if err != nil {
		util.QuotesFailedTotal.WithLabelValues("invalid_input").Inc()
		return nil, err
	}

	util.QuotesComputedTotal.WithLabelValues(req.Tier).Inc()
	if req.Tier == models.TierBase && price == floorPrice(req.BasePrice) {
		util.MarginFloorHitsTotal.Inc()
	}

	resp := &QuoteResponse{Price: price, Tier: req.Tier}

	if payload, err := json.Marshal(resp); err == nil {
		if err := s.redis.CacheQuote(ctx, cacheKey, payload, s.cacheTTL); err != nil {
			s.logger.Warn("Failed to cache quote", zap.Error(err))
		}
	}

	return resp, nil
}

// PurchaseQuoteRequest represents a request for a purchase price quote
type PurchaseQuoteRequest struct {
	pricing.PriceFactors
}

// QuotePurchase back-calculates what the platform should pay for an item
func (s *QuoteService) QuotePurchase(ctx context.Context, req *PurchaseQuoteRequest) (*QuoteResponse, error) {
	ctx, span := util.StartSpan(ctx, "QuoteService.QuotePurchase")
	defer span.End()

	price, err := s.baseEngine.CalculatePurchasePrice(req.PriceFactors)
	if err != nil {
		util.QuotesFailedTotal.WithLabelValues("invalid_input").Inc()
		return nil, err
	}

	util.QuotesComputedTotal.WithLabelValues("purchase").Inc()
	return &QuoteResponse{Price: price, Tier: models.TierBase}, nil
}

// BreakdownRequest represents a request for an explained price adjustment
type BreakdownRequest struct {
	BasePrice   float64                    `json:"base_price"`
	Market      pricing.MarketConditions   `json:"market"`
	Product     pricing.ProductAttributes  `json:"product"`
	Operational pricing.OperationalFactors `json:"operational"`
}

// QuoteBreakdown computes the adjustment breakdown for a price
func (s *QuoteService) QuoteBreakdown(ctx context.Context, req *BreakdownRequest) (*pricing.PriceBreakdown, error) {
	ctx, span := util.StartSpan(ctx, "QuoteService.QuoteBreakdown")
	defer span.End()

	breakdown, err := s.adjustments.CalculatePriceAdjustments(req.BasePrice, req.Market, req.Product, req.Operational)
	if err != nil {
		util.QuotesFailedTotal.WithLabelValues("invalid_input").Inc()
		return nil, err
	}

	util.QuotesComputedTotal.WithLabelValues("breakdown").Inc()
	return &breakdown, nil
}

// IntakeRequest represents a seller offering an item for purchase
type IntakeRequest struct {
	SKU           string  `json:"sku" binding:"required"`
	Title         string  `json:"title" binding:"required"`
	Description   string  `json:"description,omitempty"`
	Condition     string  `json:"condition" binding:"required"`
	Category      string  `json:"category"`
	Brand         string  `json:"brand,omitempty"`
	OriginalPrice float64 `json:"original_price" binding:"required"`
	SellerID      int64   `json:"seller_id" binding:"required"`
}

// IntakeResponse represents the outcome of an intake
type IntakeResponse struct {
	ProductID      int64   `json:"product_id"`
	EstimatedPrice float64 `json:"estimated_price"`
	Status         string  `json:"status"`
}

// CreateIntake estimates a buy price for a seller's item and registers it
// for review
func (s *QuoteService) CreateIntake(ctx context.Context, req *IntakeRequest) (*IntakeResponse, error) {
	ctx, span := util.StartSpan(ctx, "QuoteService.CreateIntake")
	defer span.End()

	estimate, err := pricing.CalculateBuyPrice(req.OriginalPrice, req.Condition)
	if err != nil {
		util.QuotesFailedTotal.WithLabelValues("invalid_input").Inc()
		return nil, err
	}

	product := &models.Product{
		SKU:           req.SKU,
		Title:         req.Title,
		Description:   req.Description,
		Condition:     req.Condition,
		Category:      req.Category,
		Brand:         req.Brand,
		Status:        models.ProductStatusUnderReview,
		OriginalPrice: req.OriginalPrice,
		Price:         estimate,
		SellerID:      req.SellerID,
	}

	if err := s.store.CreateProduct(ctx, product); err != nil {
		return nil, fmt.Errorf("failed to create product: %w", err)
	}

	util.IntakesCreatedTotal.Inc()
	s.logger.Info("Intake created",
		zap.Int64("product_id", product.ID),
		zap.Float64("estimated_price", estimate))

	event := &models.ProductIntakeCreatedEvent{
		BaseEvent: models.BaseEvent{
			EventID:   uuid.New().String(),
			EventType: models.EventTypeProductIntakeCreated,
			Timestamp: time.Now(),
		},
		ProductID:      product.ID,
		SellerID:       req.SellerID,
		Condition:      req.Condition,
		OriginalPrice:  req.OriginalPrice,
		EstimatedPrice: estimate,
	}

	if err := s.eventPublisher.PublishProductIntakeCreated(ctx, event); err != nil {
		s.logger.Error("Failed to publish ProductIntakeCreated event", zap.Error(err))
	}

	return &IntakeResponse{
		ProductID:      product.ID,
		EstimatedPrice: estimate,
		Status:         product.Status,
	}, nil
}

// SupplierQuoteRequest represents a supplier restock offer
type SupplierQuoteRequest struct {
	SupplierPrice float64 `json:"supplier_price" binding:"required"`
	Condition     string  `json:"condition" binding:"required"`
	Quantity      int     `json:"quantity" binding:"required,min=1"`
}

// QuoteSupplier computes the selling price for supplier-sourced stock
func (s *QuoteService) QuoteSupplier(ctx context.Context, req *SupplierQuoteRequest) (*QuoteResponse, error) {
	ctx, span := util.StartSpan(ctx, "QuoteService.QuoteSupplier")
	defer span.End()

	price, err := pricing.CalculateSupplierPrice(req.SupplierPrice, req.Condition, req.Quantity)
	if err != nil {
		util.QuotesFailedTotal.WithLabelValues("invalid_input").Inc()
		return nil, err
	}

	util.QuotesComputedTotal.WithLabelValues("supplier").Inc()
	return &QuoteResponse{Price: price, Tier: models.TierBase}, nil
}

// GetProduct retrieves a product with its price history
func (s *QuoteService) GetProduct(ctx context.Context, productID int64) (*models.Product, []models.PriceHistory, error) {
	product, err := s.store.GetProductByID(ctx, productID)
	if err != nil {
		return nil, nil, err
	}

	history, err := s.store.GetPriceHistory(ctx, productID)
	if err != nil {
		return nil, nil, err
	}

	return product, history, nil
}

// enrichWithSignals fills missing stock and demand levels from live signals
func (s *QuoteService) enrichWithSignals(ctx context.Context, req *SellingQuoteRequest) {
	if req.ProductID == 0 || (req.StockLevel != nil && req.DemandLevel != nil) {
		return
	}

	stock, demand, err := s.signalClient.GetSignals(ctx, req.ProductID)
	if err != nil {
		s.logger.Warn("No signals available for quote",
			zap.Int64("product_id", req.ProductID),
			zap.Error(err))
		return
	}

	if req.StockLevel == nil {
		req.StockLevel = &stock
	}
	if req.DemandLevel == nil {
		req.DemandLevel = &demand
	}
	if req.Operational.StockLevel == 0 {
		req.Operational.StockLevel = stock
	}
}

func quoteCacheKey(req *SellingQuoteRequest) string {
	payload, _ := json.Marshal(req)
	sum := sha256.Sum256(payload)
	return hex.EncodeToString(sum[:])
}

func floorPrice(basePrice float64) float64 {
	return math.Round(basePrice*1.2*100) / 100
}
