// Package view renders the catalog, cart and wishlist pages.
package view

// Anchor is a named mount point of a page. Each page only carries the
// anchors it needs; fragments whose anchor is missing are not rendered.
type Anchor string

const (
	AnchorProductGrid       Anchor = "product-grid"
	AnchorCartItems         Anchor = "cart-items-container"
	AnchorWishlistGrid      Anchor = "wishlist-grid"
	AnchorCartIcon          Anchor = "cart-icon-container"
	AnchorWishlistIcon      Anchor = "wishlist-icon-container"
	AnchorNotificationStack Anchor = "notifications"
)

// Layout is the set of anchors present on a page.
type Layout struct {
	Name    string
	Title   string
	anchors map[Anchor]struct{}
}

// NewLayout creates a layout holding the given anchors.
func NewLayout(name, title string, anchors ...Anchor) Layout {
	set := make(map[Anchor]struct{}, len(anchors))
	for _, a := range anchors {
		set[a] = struct{}{}
	}
	return Layout{Name: name, Title: title, anchors: set}
}

// Has reports whether the page carries anchor.
func (l Layout) Has(anchor Anchor) bool {
	_, ok := l.anchors[anchor]
	return ok
}

// The three storefront pages. Every page shows the header counters and the
// notification stack.
var (
	CatalogPage = NewLayout("catalog", "Shop",
		AnchorCartIcon, AnchorWishlistIcon, AnchorNotificationStack, AnchorProductGrid)
	CartPage = NewLayout("cart", "Your Cart",
		AnchorCartIcon, AnchorWishlistIcon, AnchorNotificationStack, AnchorCartItems)
	WishlistPage = NewLayout("wishlist", "Your Wishlist",
		AnchorCartIcon, AnchorWishlistIcon, AnchorNotificationStack, AnchorWishlistGrid)
)
