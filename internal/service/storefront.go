package service

import (
	"context"
	"fmt"
	"log/slog"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/utafrali/storefront/internal/catalog"
	"github.com/utafrali/storefront/internal/domain"
	"github.com/utafrali/storefront/internal/event"
	"github.com/utafrali/storefront/internal/notify"
	"github.com/utafrali/storefront/internal/repository"
	"github.com/utafrali/storefront/internal/session"
	"github.com/utafrali/storefront/pkg/tracing"
)

// Storefront implements the catalog, cart and wishlist operations of a
// visitor session.
type Storefront struct {
	catalog   catalog.Lookup
	lists     *repository.Lists
	notifier  notify.Notifier
	publisher event.Publisher
	logger    *slog.Logger
	tracer    trace.Tracer
}

// NewStorefront creates a new storefront service.
func NewStorefront(
	lookup catalog.Lookup,
	lists *repository.Lists,
	notifier notify.Notifier,
	publisher event.Publisher,
	logger *slog.Logger,
) *Storefront {
	return &Storefront{
		catalog:   lookup,
		lists:     lists,
		notifier:  notifier,
		publisher: publisher,
		logger:    logger,
		tracer:    tracing.Tracer("internal/service"),
	}
}

// listOps binds the generic list operations to one stored list.
type listOps[T domain.Item] struct {
	list  domain.List
	load  func(context.Context) ([]T, error)
	save  func(context.Context, []T) error
	build func(domain.Product) T
}

func (s *Storefront) cartOps() listOps[domain.CartItem] {
	return listOps[domain.CartItem]{
		list:  domain.ListCart,
		load:  s.lists.CartForUpdate,
		save:  s.lists.SaveCart,
		build: domain.NewCartItem,
	}
}

func (s *Storefront) wishlistOps() listOps[domain.WishlistItem] {
	return listOps[domain.WishlistItem]{
		list:  domain.ListWishlist,
		load:  s.lists.WishlistForUpdate,
		save:  s.lists.SaveWishlist,
		build: domain.NewWishlistItem,
	}
}

// Catalog returns every product offered by the storefront.
func (s *Storefront) Catalog() []domain.Product {
	return s.catalog.All()
}

// Cart returns the cart of the session in ctx in insertion order.
func (s *Storefront) Cart(ctx context.Context) ([]domain.CartItem, error) {
	return s.lists.Cart(ctx)
}

// Wishlist returns the wishlist of the session in ctx in insertion order.
func (s *Storefront) Wishlist(ctx context.Context) ([]domain.WishlistItem, error) {
	return s.lists.Wishlist(ctx)
}

// Counters returns the number of entries in the cart and the wishlist.
func (s *Storefront) Counters(ctx context.Context) (domain.Counters, error) {
	cart, err := s.lists.Cart(ctx)
	if err != nil {
		return domain.Counters{}, err
	}
	wishlist, err := s.lists.Wishlist(ctx)
	if err != nil {
		return domain.Counters{}, err
	}
	return domain.Counters{Cart: len(cart), Wishlist: len(wishlist)}, nil
}

// AddToCart puts the product in the cart with quantity 1. Unknown ids are
// ignored; a product already in the cart is left untouched and the visitor is
// told so.
func (s *Storefront) AddToCart(ctx context.Context, productID int) error {
	return add(ctx, s, s.cartOps(), productID)
}

// AddToWishlist saves the product to the wishlist with the same rules as
// AddToCart.
func (s *Storefront) AddToWishlist(ctx context.Context, productID int) error {
	return add(ctx, s, s.wishlistOps(), productID)
}

// RemoveFromCart drops the product from the cart, keeping the order of the
// remaining entries.
func (s *Storefront) RemoveFromCart(ctx context.Context, productID int) error {
	return remove(ctx, s, s.cartOps(), productID)
}

// RemoveFromWishlist drops the product from the wishlist.
func (s *Storefront) RemoveFromWishlist(ctx context.Context, productID int) error {
	return remove(ctx, s, s.wishlistOps(), productID)
}

// ClearCart deletes the stored cart.
func (s *Storefront) ClearCart(ctx context.Context) error {
	return s.clear(ctx, domain.ListCart)
}

// ClearWishlist deletes the stored wishlist.
func (s *Storefront) ClearWishlist(ctx context.Context) error {
	return s.clear(ctx, domain.ListWishlist)
}

func add[T domain.Item](ctx context.Context, s *Storefront, ops listOps[T], productID int) error {
	ctx, span := s.startSpan(ctx, "add", ops.list, productID)
	defer span.End()

	product, ok := s.catalog.Find(productID)
	if !ok {
		listMutations.WithLabelValues(ops.list.String(), "add", outcomeUnknown).Inc()
		s.logger.DebugContext(ctx, "add ignored, unknown product",
			slog.String("list", ops.list.String()),
			slog.Int("product_id", productID),
		)
		return nil
	}

	items, err := ops.load(ctx)
	if err != nil {
		return s.fail(ctx, span, ops.list, "add", err)
	}

	if domain.Contains(items, productID) {
		listMutations.WithLabelValues(ops.list.String(), "add", outcomeDuplicate).Inc()
		s.notifier.Notify(ctx, fmt.Sprintf("Item is already in your %s!", ops.list), notify.LevelInfo)
		return nil
	}

	items = append(items, ops.build(product))
	if err := ops.save(ctx, items); err != nil {
		return s.fail(ctx, span, ops.list, "add", err)
	}

	listMutations.WithLabelValues(ops.list.String(), "add", outcomeAdded).Inc()
	s.publishIDs(ctx, ops.list, productIDs(items))
	s.notifier.Notify(ctx, fmt.Sprintf("%s added to %s!", product.Name, ops.list), notify.LevelSuccess)

	s.logger.InfoContext(ctx, "item added",
		slog.String("list", ops.list.String()),
		slog.Int("product_id", productID),
		slog.Int("item_count", len(items)),
	)

	return nil
}

func remove[T domain.Item](ctx context.Context, s *Storefront, ops listOps[T], productID int) error {
	ctx, span := s.startSpan(ctx, "remove", ops.list, productID)
	defer span.End()

	items, err := ops.load(ctx)
	if err != nil {
		return s.fail(ctx, span, ops.list, "remove", err)
	}

	idx := domain.IndexOf(items, productID)
	if idx < 0 {
		listMutations.WithLabelValues(ops.list.String(), "remove", outcomeAbsent).Inc()
		return nil
	}
	name := items[idx].ProductName()

	remaining := domain.Without(items, productID)
	if err := ops.save(ctx, remaining); err != nil {
		return s.fail(ctx, span, ops.list, "remove", err)
	}

	listMutations.WithLabelValues(ops.list.String(), "remove", outcomeRemoved).Inc()
	s.publishIDs(ctx, ops.list, productIDs(remaining))
	s.notifier.Notify(ctx, fmt.Sprintf("%s removed from %s!", name, ops.list), notify.LevelSuccess)

	s.logger.InfoContext(ctx, "item removed",
		slog.String("list", ops.list.String()),
		slog.Int("product_id", productID),
		slog.Int("item_count", len(remaining)),
	)

	return nil
}

func (s *Storefront) clear(ctx context.Context, list domain.List) error {
	ctx, span := s.tracer.Start(ctx, "Storefront.clear",
		trace.WithAttributes(attribute.String("storefront.list", list.String())),
	)
	defer span.End()

	if err := s.lists.Clear(ctx, list); err != nil {
		return s.fail(ctx, span, list, "clear", err)
	}

	listMutations.WithLabelValues(list.String(), "clear", outcomeCleared).Inc()
	s.publishIDs(ctx, list, nil)

	s.logger.InfoContext(ctx, "list cleared", slog.String("list", list.String()))
	return nil
}

func (s *Storefront) startSpan(ctx context.Context, action string, list domain.List, productID int) (context.Context, trace.Span) {
	return s.tracer.Start(ctx, "Storefront."+action,
		trace.WithAttributes(
			attribute.String("storefront.list", list.String()),
			attribute.Int("storefront.product_id", productID),
		),
	)
}

func (s *Storefront) fail(ctx context.Context, span trace.Span, list domain.List, action string, err error) error {
	listMutations.WithLabelValues(list.String(), action, outcomeFailed).Inc()
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	return fmt.Errorf("%s %s: %w", action, list, err)
}

// publishIDs announces the new list content. Failures are logged only: the
// visitor's list is already saved.
func (s *Storefront) publishIDs(ctx context.Context, list domain.List, ids []int) {
	sessionID, _ := session.IDFromContext(ctx)
	if err := s.publisher.PublishListUpdated(ctx, list, sessionID, ids); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish list event",
			slog.String("list", list.String()),
			slog.String("error", err.Error()),
		)
	}
}

func productIDs[T domain.Item](items []T) []int {
	ids := make([]int, len(items))
	for i, item := range items {
		ids[i] = item.ProductID()
	}
	return ids
}
