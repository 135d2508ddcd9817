package event

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/utafrali/storefront/internal/domain"
	pkgkafka "github.com/utafrali/storefront/pkg/kafka"
)

type mockEventPublisher struct {
	mock.Mock
}

func (m *mockEventPublisher) Publish(ctx context.Context, topic string, event *pkgkafka.Event) error {
	args := m.Called(ctx, topic, event)
	return args.Error(0)
}

func newTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
}

func TestTopicFor(t *testing.T) {
	assert.Equal(t, TopicCartUpdated, TopicFor(domain.ListCart))
	assert.Equal(t, TopicWishlistUpdated, TopicFor(domain.ListWishlist))
}

func TestPublishListUpdated_Cart(t *testing.T) {
	pub := new(mockEventPublisher)
	p := NewProducer(pub, newTestLogger())
	ctx := context.Background()

	var captured *pkgkafka.Event
	pub.On("Publish", ctx, TopicCartUpdated, mock.AnythingOfType("*kafka.Event")).
		Run(func(args mock.Arguments) { captured = args.Get(2).(*pkgkafka.Event) }).
		Return(nil)

	err := p.PublishListUpdated(ctx, domain.ListCart, "sess-1", []int{3, 1})
	require.NoError(t, err)
	require.NotNil(t, captured)

	assert.Equal(t, TopicCartUpdated, captured.EventType)
	assert.Equal(t, "sess-1", captured.AggregateID)
	assert.Equal(t, "cart", captured.AggregateType)
	assert.Equal(t, SourceStorefront, captured.Source)

	var data ListUpdatedData
	require.NoError(t, captured.DecodeData(&data))
	assert.Equal(t, ListUpdatedData{SessionID: "sess-1", ItemIDs: []int{3, 1}, ItemCount: 2}, data)

	pub.AssertExpectations(t)
}

func TestPublishListUpdated_EmptyWishlist(t *testing.T) {
	pub := new(mockEventPublisher)
	p := NewProducer(pub, newTestLogger())
	ctx := context.Background()

	var captured *pkgkafka.Event
	pub.On("Publish", ctx, TopicWishlistUpdated, mock.Anything).
		Run(func(args mock.Arguments) { captured = args.Get(2).(*pkgkafka.Event) }).
		Return(nil)

	require.NoError(t, p.PublishListUpdated(ctx, domain.ListWishlist, "sess-2", nil))

	assert.JSONEq(t, `{"session_id":"sess-2","item_ids":[],"item_count":0}`, string(captured.Data))
}

func TestPublishListUpdated_Error(t *testing.T) {
	pub := new(mockEventPublisher)
	p := NewProducer(pub, newTestLogger())
	ctx := context.Background()

	pub.On("Publish", ctx, TopicCartUpdated, mock.Anything).Return(errors.New("broker down"))

	err := p.PublishListUpdated(ctx, domain.ListCart, "sess-1", []int{1})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "publish storefront.cart.updated event")
}

func TestNoop(t *testing.T) {
	assert.NoError(t, Noop{}.PublishListUpdated(context.Background(), domain.ListCart, "s", []int{1}))
}
