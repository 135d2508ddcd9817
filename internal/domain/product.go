package domain

import (
	"github.com/shopspring/decimal"
)

// Product is a purchasable catalog entry. Products are defined once at startup
// and never change while the process runs.
type Product struct {
	ID    int             `json:"id"`
	Name  string          `json:"name"`
	Price decimal.Decimal `json:"price"`
	Image string          `json:"image"`
}

// CartItem is a product placed in the cart together with its quantity.
type CartItem struct {
	Product
	Quantity int `json:"quantity"`
}

// DefaultQuantity is the quantity a product enters the cart with.
const DefaultQuantity = 1

// NewCartItem creates a cart item for the product with the default quantity.
func NewCartItem(p Product) CartItem {
	return CartItem{Product: p, Quantity: DefaultQuantity}
}

// LineTotal returns price multiplied by quantity.
func (i CartItem) LineTotal() decimal.Decimal {
	return i.Price.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// WishlistItem is a product saved for later. It carries no quantity.
type WishlistItem struct {
	Product
}

// NewWishlistItem creates a wishlist item for the product.
func NewWishlistItem(p Product) WishlistItem {
	return WishlistItem{Product: p}
}

// Counters holds the number of distinct entries in each stored list.
type Counters struct {
	Cart     int `json:"cart"`
	Wishlist int `json:"wishlist"`
}
