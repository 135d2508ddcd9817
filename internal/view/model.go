package view

import (
	"strconv"

	"github.com/shopspring/decimal"

	"github.com/utafrali/storefront/internal/domain"
	"github.com/utafrali/storefront/internal/notify"
)

// CurrencySymbol prefixes every displayed amount.
const CurrencySymbol = "₦"

// FormatAmount renders d with two decimals, e.g. "₦2.99".
func FormatAmount(d decimal.Decimal) string {
	return CurrencySymbol + d.StringFixed(2)
}

// FormatPrice renders a per-kilogram price, e.g. "₦2.99/kg".
func FormatPrice(d decimal.Decimal) string {
	return FormatAmount(d) + "/kg"
}

// ProductCard is one tile of the catalog grid.
type ProductCard struct {
	ID    int
	Name  string
	Image string
	Price string
}

// CartRow is one line of the cart page.
type CartRow struct {
	ID        int
	Name      string
	Image     string
	UnitPrice string
	Quantity  int
	LineTotal string
}

// WishlistCard is one tile of the wishlist grid.
type WishlistCard struct {
	ID    int
	Name  string
	Image string
	Price string
}

// Badge is a header counter. It is only shown when Count is positive.
type Badge struct {
	Class string
	Count int
}

// Visible reports whether the badge is drawn.
func (b Badge) Visible() bool { return b.Count > 0 }

// Label is the badge text.
func (b Badge) Label() string { return strconv.Itoa(b.Count) }

// Toast is a rendered notification.
type Toast struct {
	Message string
	Level   string
}

// Data is everything a page may draw. Fragments read only the fields of the
// anchors present in the layout.
type Data struct {
	Products      []ProductCard
	Cart          []CartRow
	Wishlist      []WishlistCard
	CartBadge     Badge
	WishlistBadge Badge
	Toasts        []Toast
	// DismissAfterMillis is how long a toast stays on screen.
	DismissAfterMillis int64
}

// NewData builds page data from domain values.
func NewData(
	products []domain.Product,
	cart []domain.CartItem,
	wishlist []domain.WishlistItem,
	toasts []notify.Toast,
) Data {
	d := Data{
		Products:           make([]ProductCard, 0, len(products)),
		Cart:               make([]CartRow, 0, len(cart)),
		Wishlist:           make([]WishlistCard, 0, len(wishlist)),
		CartBadge:          Badge{Class: "cart-counter", Count: len(cart)},
		WishlistBadge:      Badge{Class: "wishlist-counter", Count: len(wishlist)},
		Toasts:             make([]Toast, 0, len(toasts)),
		DismissAfterMillis: notify.Lifetime.Milliseconds(),
	}

	for _, p := range products {
		d.Products = append(d.Products, ProductCard{
			ID: p.ID, Name: p.Name, Image: p.Image, Price: FormatPrice(p.Price),
		})
	}
	for _, item := range cart {
		d.Cart = append(d.Cart, CartRow{
			ID:        item.ID,
			Name:      item.Name,
			Image:     item.Image,
			UnitPrice: FormatPrice(item.Price),
			Quantity:  item.Quantity,
			LineTotal: FormatAmount(item.LineTotal()),
		})
	}
	for _, item := range wishlist {
		d.Wishlist = append(d.Wishlist, WishlistCard{
			ID: item.ID, Name: item.Name, Image: item.Image, Price: FormatPrice(item.Price),
		})
	}
	for _, t := range toasts {
		d.Toasts = append(d.Toasts, Toast{Message: t.Message, Level: string(t.Level)})
	}

	return d
}
