package broker

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"pricing-service/internal/models"

	"github.com/segmentio/kafka-go"
)

// EventPublisher handles publishing domain events
type EventPublisher struct {
	producer *Producer
}

// NewEventPublisher creates a new event publisher
func NewEventPublisher(producer *Producer) *EventPublisher {
	return &EventPublisher{producer: producer}
}

// PublishProductIntakeCreated publishes ProductIntakeCreated event
func (ep *EventPublisher) PublishProductIntakeCreated(ctx context.Context, event *models.ProductIntakeCreatedEvent) error {
	key := fmt.Sprintf("product-%d", event.ProductID)
	return ep.producer.PublishEvent(ctx, key, event)
}

// PublishProductsImported publishes ProductsImported event
func (ep *EventPublisher) PublishProductsImported(ctx context.Context, event *models.ProductsImportedEvent) error {
	key := fmt.Sprintf("import-%s", event.JobID)
	return ep.producer.PublishEvent(ctx, key, event)
}

// PublishBulkRepriceRequested publishes BulkRepriceRequested event
func (ep *EventPublisher) PublishBulkRepriceRequested(ctx context.Context, event *models.BulkRepriceRequestedEvent) error {
	key := fmt.Sprintf("reprice-%s", event.RequestID)
	return ep.producer.PublishEvent(ctx, key, event)
}

// PublishProductRepriced publishes ProductRepriced event
func (ep *EventPublisher) PublishProductRepriced(ctx context.Context, event *models.ProductRepricedEvent) error {
	key := fmt.Sprintf("product-%d", event.ProductID)
	return ep.producer.PublishEvent(ctx, key, event)
}

// EventHandler handles incoming events
type EventHandler struct {
	onBulkRepriceRequested func(context.Context, *models.BulkRepriceRequestedEvent) error
	onProductsImported     func(context.Context, *models.ProductsImportedEvent) error
}

// NewEventHandler creates a new event handler
func NewEventHandler() *EventHandler {
	return &EventHandler{}
}

// OnBulkRepriceRequested registers a handler for BulkRepriceRequested events
func (eh *EventHandler) OnBulkRepriceRequested(handler func(context.Context, *models.BulkRepriceRequestedEvent) error) {
	eh.onBulkRepriceRequested = handler
}

// OnProductsImported registers a handler for ProductsImported events
func (eh *EventHandler) OnProductsImported(handler func(context.Context, *models.ProductsImportedEvent) error) {
	eh.onProductsImported = handler
}

// HandleMessage routes messages to appropriate handlers
func (eh *EventHandler) HandleMessage(ctx context.Context, msg kafka.Message) error {
	var baseEvent models.BaseEvent
	if err := json.Unmarshal(msg.Value, &baseEvent); err != nil {
		return fmt.Errorf("failed to unmarshal base event: %w", err)
	}

	log.Printf("Handling event: type=%s, id=%s", baseEvent.EventType, baseEvent.EventID)

	switch baseEvent.EventType {
	case models.EventTypeBulkRepriceRequested:
		if eh.onBulkRepriceRequested != nil {
			var event models.BulkRepriceRequestedEvent
			if err := json.Unmarshal(msg.Value, &event); err != nil {
				return fmt.Errorf("failed to unmarshal BulkRepriceRequested event: %w", err)
			}
			return eh.onBulkRepriceRequested(ctx, &event)
		}

	case models.EventTypeProductsImported:
		if eh.onProductsImported != nil {
			var event models.ProductsImportedEvent
			if err := json.Unmarshal(msg.Value, &event); err != nil {
				return fmt.Errorf("failed to unmarshal ProductsImported event: %w", err)
			}
			return eh.onProductsImported(ctx, &event)
		}

	default:
		log.Printf("Unhandled event type: %s", baseEvent.EventType)
	}

	return nil
}
