package repository

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/utafrali/storefront/internal/domain"
	"github.com/utafrali/storefront/internal/storage"
)

// Lists gives session-scoped access to the cart and wishlist documents.
type Lists struct {
	store  storage.Store
	logger *slog.Logger
}

// NewLists creates a list repository over store.
func NewLists(store storage.Store, logger *slog.Logger) *Lists {
	return &Lists{
		store:  store,
		logger: logger,
	}
}

// Cart loads the cart of the session in ctx.
func (l *Lists) Cart(ctx context.Context) ([]domain.CartItem, error) {
	key, err := SessionKey(ctx, domain.ListCart.String())
	if err != nil {
		return nil, err
	}
	return Load[domain.CartItem](ctx, l.store, key, l.logger), nil
}

// CartForUpdate loads the cart of the session in ctx for a mutation. Store
// failures are returned instead of being read as an empty cart.
func (l *Lists) CartForUpdate(ctx context.Context) ([]domain.CartItem, error) {
	key, err := SessionKey(ctx, domain.ListCart.String())
	if err != nil {
		return nil, err
	}
	return LoadForUpdate[domain.CartItem](ctx, l.store, key, l.logger)
}

// SaveCart overwrites the cart of the session in ctx.
func (l *Lists) SaveCart(ctx context.Context, items []domain.CartItem) error {
	key, err := SessionKey(ctx, domain.ListCart.String())
	if err != nil {
		return err
	}
	return Save(ctx, l.store, key, items)
}

// Wishlist loads the wishlist of the session in ctx.
func (l *Lists) Wishlist(ctx context.Context) ([]domain.WishlistItem, error) {
	key, err := SessionKey(ctx, domain.ListWishlist.String())
	if err != nil {
		return nil, err
	}
	return Load[domain.WishlistItem](ctx, l.store, key, l.logger), nil
}

// WishlistForUpdate is CartForUpdate for the wishlist.
func (l *Lists) WishlistForUpdate(ctx context.Context) ([]domain.WishlistItem, error) {
	key, err := SessionKey(ctx, domain.ListWishlist.String())
	if err != nil {
		return nil, err
	}
	return LoadForUpdate[domain.WishlistItem](ctx, l.store, key, l.logger)
}

// SaveWishlist overwrites the wishlist of the session in ctx.
func (l *Lists) SaveWishlist(ctx context.Context, items []domain.WishlistItem) error {
	key, err := SessionKey(ctx, domain.ListWishlist.String())
	if err != nil {
		return err
	}
	return Save(ctx, l.store, key, items)
}

// Clear removes a stored list entirely.
func (l *Lists) Clear(ctx context.Context, list domain.List) error {
	key, err := SessionKey(ctx, list.String())
	if err != nil {
		return err
	}
	if err := l.store.Delete(ctx, key); err != nil {
		return fmt.Errorf("clear %s: %w", list, err)
	}
	return nil
}
