package service

import (
	"context"
	"fmt"
	"time"

	"pricing-service/internal/models"
	"pricing-service/internal/redisclient"
	"pricing-service/internal/store"
	"pricing-service/internal/util"

	"go.uber.org/zap"
)

// SignalClient handles market signal lookups
type SignalClient struct {
	store  *store.Store
	redis  *redisclient.Client
	logger *zap.Logger
}

// NewSignalClient creates a new signal client
func NewSignalClient(store *store.Store, redis *redisclient.Client) *SignalClient {
	return &SignalClient{
		store:  store,
		redis:  redis,
		logger: util.GetLogger(),
	}
}

// GetSignals retrieves stock and demand levels (fast path via Redis)
func (sc *SignalClient) GetSignals(ctx context.Context, productID int64) (stock, demand float64, err error) {
	ctx, span := util.StartSpan(ctx, "SignalClient.GetSignals")
	defer span.End()

	start := time.Now()
	defer func() {
		util.SignalLookupLatency.Observe(time.Since(start).Seconds())
	}()

	stock, demand, err = sc.redis.GetMarketSignals(ctx, productID)
	if err != nil {
		sc.logger.Warn("Redis signal lookup failed, falling back to DB",
			zap.Int64("product_id", productID),
			zap.Error(err))

		return sc.getSignalsDB(ctx, productID)
	}

	return stock, demand, nil
}

// getSignalsDB retrieves signals from the database (fallback)
func (sc *SignalClient) getSignalsDB(ctx context.Context, productID int64) (float64, float64, error) {
	signals, err := sc.store.GetMarketSignals(ctx, productID)
	if err != nil {
		return 0, 0, err
	}
	return signals.StockLevel, signals.DemandLevel, nil
}

// RecordDemand increments the demand level in Redis and syncs the DB
func (sc *SignalClient) RecordDemand(ctx context.Context, productID int64, increment float64) (float64, error) {
	ctx, span := util.StartSpan(ctx, "SignalClient.RecordDemand")
	defer span.End()

	demand, err := sc.redis.RecordDemand(ctx, productID, increment)
	if err != nil {
		return 0, fmt.Errorf("failed to record demand for product %d: %w", productID, err)
	}

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		stock, _, err := sc.redis.GetMarketSignals(ctx, productID)
		if err != nil {
			sc.logger.Error("Failed to read signals for DB sync",
				zap.Int64("product_id", productID),
				zap.Error(err))
			return
		}

		if err := sc.store.UpsertMarketSignals(ctx, &models.MarketSignals{
			ProductID:   productID,
			StockLevel:  stock,
			DemandLevel: demand,
		}); err != nil {
			sc.logger.Error("Failed to sync signals to DB",
				zap.Int64("product_id", productID),
				zap.Error(err))
		}
	}()

	return demand, nil
}

// AdjustStock adjusts the stock level in Redis and syncs the DB
func (sc *SignalClient) AdjustStock(ctx context.Context, productID int64, delta float64) (float64, error) {
	ctx, span := util.StartSpan(ctx, "SignalClient.AdjustStock")
	defer span.End()

	stock, err := sc.redis.AdjustStock(ctx, productID, delta)
	if err != nil {
		return 0, fmt.Errorf("failed to adjust stock for product %d: %w", productID, err)
	}

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		_, demand, err := sc.redis.GetMarketSignals(ctx, productID)
		if err != nil {
			sc.logger.Error("Failed to read signals for DB sync",
				zap.Int64("product_id", productID),
				zap.Error(err))
			return
		}

		if err := sc.store.UpsertMarketSignals(ctx, &models.MarketSignals{
			ProductID:   productID,
			StockLevel:  stock,
			DemandLevel: demand,
		}); err != nil {
			sc.logger.Error("Failed to sync signals to DB",
				zap.Int64("product_id", productID),
				zap.Error(err))
		}
	}()

	return stock, nil
}

// SyncSignalsToRedis synchronizes database signals to Redis
func (sc *SignalClient) SyncSignalsToRedis(ctx context.Context) error {
	sc.logger.Info("Starting signal sync to Redis")

	products, err := sc.store.GetProducts(ctx)
	if err != nil {
		return fmt.Errorf("failed to get products: %w", err)
	}

	for _, product := range products {
		signals, err := sc.store.GetMarketSignals(ctx, product.ID)
		if err != nil {
			continue
		}

		if err := sc.redis.SetMarketSignals(ctx, product.ID, signals.StockLevel, signals.DemandLevel); err != nil {
			sc.logger.Error("Failed to init Redis signals",
				zap.Int64("product_id", product.ID),
				zap.Error(err))
		}
	}

	sc.logger.Info("Signal sync completed", zap.Int("count", len(products)))
	return nil
}
