package event

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/utafrali/storefront/internal/domain"
	pkgkafka "github.com/utafrali/storefront/pkg/kafka"
)

// Kafka topic constants for storefront list events.
const (
	TopicCartUpdated     = "storefront.cart.updated"
	TopicWishlistUpdated = "storefront.wishlist.updated"
)

// SourceStorefront identifies events originating from this service.
const SourceStorefront = "storefront"

// ListUpdatedData is the payload for cart.updated and wishlist.updated events.
type ListUpdatedData struct {
	SessionID string `json:"session_id"`
	ItemIDs   []int  `json:"item_ids"`
	ItemCount int    `json:"item_count"`
}

// Publisher announces list changes.
type Publisher interface {
	PublishListUpdated(ctx context.Context, list domain.List, sessionID string, itemIDs []int) error
}

// EventPublisher is the part of pkg/kafka.Producer the event producer uses.
type EventPublisher interface {
	Publish(ctx context.Context, topic string, event *pkgkafka.Event) error
}

// Producer publishes storefront list events to Kafka.
type Producer struct {
	kafka  EventPublisher
	logger *slog.Logger
}

var _ Publisher = (*Producer)(nil)

// NewProducer creates a new event producer.
func NewProducer(kafka EventPublisher, logger *slog.Logger) *Producer {
	return &Producer{
		kafka:  kafka,
		logger: logger,
	}
}

// TopicFor returns the topic list updates are published to.
func TopicFor(list domain.List) string {
	if list == domain.ListWishlist {
		return TopicWishlistUpdated
	}
	return TopicCartUpdated
}

// PublishListUpdated publishes a <list>.updated event carrying the current item ids.
func (p *Producer) PublishListUpdated(ctx context.Context, list domain.List, sessionID string, itemIDs []int) error {
	if itemIDs == nil {
		itemIDs = []int{}
	}
	data := ListUpdatedData{
		SessionID: sessionID,
		ItemIDs:   itemIDs,
		ItemCount: len(itemIDs),
	}

	topic := TopicFor(list)
	event, err := pkgkafka.NewEvent(ctx, topic, pkgkafka.Aggregate{Type: list.String(), ID: sessionID}, SourceStorefront, data)
	if err != nil {
		return err
	}

	if err := p.kafka.Publish(ctx, topic, event); err != nil {
		return fmt.Errorf("publish %s event: %w", topic, err)
	}

	p.logger.DebugContext(ctx, "published list event",
		slog.String("topic", topic),
		slog.String("session_id", sessionID),
		slog.Int("item_count", len(itemIDs)),
	)

	return nil
}

// Noop discards every event. It is used when event publishing is disabled.
type Noop struct{}

var _ Publisher = Noop{}

// PublishListUpdated does nothing.
func (Noop) PublishListUpdated(context.Context, domain.List, string, []int) error {
	return nil
}
