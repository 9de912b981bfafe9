package worker

import (
	"context"
	"log"

	"pricing-service/internal/broker"
	"pricing-service/internal/models"
	"pricing-service/internal/service"
)

// RepriceWorker handles background processing for bulk price events
type RepriceWorker struct {
	consumer       *broker.Consumer
	eventHandler   *broker.EventHandler
	repriceService *service.RepriceService
}

// NewRepriceWorker creates a new reprice worker
func NewRepriceWorker(
	consumer *broker.Consumer,
	repriceService *service.RepriceService,
) *RepriceWorker {
	eventHandler := broker.NewEventHandler()

	eventHandler.OnBulkRepriceRequested(repriceService.HandleBulkReprice)

	return &RepriceWorker{
		consumer:       consumer,
		eventHandler:   eventHandler,
		repriceService: repriceService,
	}
}

// Start starts the worker
func (w *RepriceWorker) Start(ctx context.Context) error {
	log.Println("Starting reprice worker...")
	return w.consumer.StartConsuming(ctx, w.eventHandler.HandleMessage)
}

// Stop stops the worker
func (w *RepriceWorker) Stop() error {
	log.Println("Stopping reprice worker...")
	return w.consumer.Close()
}

// SignalSyncWorker refreshes Redis signals after import batches land
type SignalSyncWorker struct {
	consumer     *broker.Consumer
	eventHandler *broker.EventHandler
	signalClient *service.SignalClient
}

// NewSignalSyncWorker creates a new signal sync worker
func NewSignalSyncWorker(
	consumer *broker.Consumer,
	signalClient *service.SignalClient,
) *SignalSyncWorker {
	eventHandler := broker.NewEventHandler()

	eventHandler.OnProductsImported(func(ctx context.Context, _ *models.ProductsImportedEvent) error {
		return signalClient.SyncSignalsToRedis(ctx)
	})

	return &SignalSyncWorker{
		consumer:     consumer,
		eventHandler: eventHandler,
		signalClient: signalClient,
	}
}

// Start starts the signal sync worker
func (sw *SignalSyncWorker) Start(ctx context.Context) error {
	log.Println("Starting signal sync worker...")
	return sw.consumer.StartConsuming(ctx, sw.eventHandler.HandleMessage)
}

// Stop stops the signal sync worker
func (sw *SignalSyncWorker) Stop() error {
	log.Println("Stopping signal sync worker...")
	return sw.consumer.Close()
}
