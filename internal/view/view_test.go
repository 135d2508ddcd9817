package view

import (
	"bytes"
	"io/fs"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/utafrali/storefront/internal/catalog"
	"github.com/utafrali/storefront/internal/domain"
	"github.com/utafrali/storefront/internal/notify"
)

func newTestRenderer(t *testing.T) *Renderer {
	t.Helper()
	r, err := NewRenderer()
	require.NoError(t, err)
	return r
}

func render(t *testing.T, layout Layout, data Data) string {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, newTestRenderer(t).Render(&buf, layout, data))
	return buf.String()
}

func mustProduct(t *testing.T, id int) domain.Product {
	t.Helper()
	p, ok := catalog.Find(id)
	require.True(t, ok)
	return p
}

// --- Formatting ---

func TestFormatPrice(t *testing.T) {
	assert.Equal(t, "₦2.99/kg", FormatPrice(decimal.RequireFromString("2.99")))
	assert.Equal(t, "₦4.50/kg", FormatPrice(decimal.RequireFromString("4.5")))
	assert.Equal(t, "₦10.00", FormatAmount(decimal.NewFromInt(10)))
}

// --- Layout ---

func TestLayouts(t *testing.T) {
	for _, l := range []Layout{CatalogPage, CartPage, WishlistPage} {
		assert.True(t, l.Has(AnchorCartIcon), l.Name)
		assert.True(t, l.Has(AnchorWishlistIcon), l.Name)
	}

	assert.True(t, CatalogPage.Has(AnchorProductGrid))
	assert.False(t, CatalogPage.Has(AnchorCartItems))
	assert.False(t, CatalogPage.Has(AnchorWishlistGrid))

	assert.True(t, CartPage.Has(AnchorCartItems))
	assert.False(t, CartPage.Has(AnchorProductGrid))

	assert.True(t, WishlistPage.Has(AnchorWishlistGrid))
	assert.False(t, WishlistPage.Has(AnchorCartItems))
}

// --- NewData ---

func TestNewData(t *testing.T) {
	cart := []domain.CartItem{{Product: mustProduct(t, 7), Quantity: 3}}
	toasts := []notify.Toast{{Message: "hi", Level: notify.LevelInfo, CreatedAt: time.Now()}}

	d := NewData(catalog.All(), cart, nil, toasts)

	assert.Len(t, d.Products, 14)
	require.Len(t, d.Cart, 1)
	assert.Equal(t, "₦12.99/kg", d.Cart[0].UnitPrice)
	assert.Equal(t, "₦38.97", d.Cart[0].LineTotal)
	assert.Equal(t, 3, d.Cart[0].Quantity)
	assert.NotNil(t, d.Wishlist)
	assert.Equal(t, 1, d.CartBadge.Count)
	assert.False(t, d.WishlistBadge.Visible())
	assert.Equal(t, int64(2000), d.DismissAfterMillis)
	assert.Equal(t, []Toast{{Message: "hi", Level: "info"}}, d.Toasts)
}

// --- Catalog page ---

func TestRender_CatalogPage(t *testing.T) {
	html := render(t, CatalogPage, NewData(catalog.All(), nil, nil, nil))

	assert.Contains(t, html, `id="product-grid"`)
	assert.NotContains(t, html, `id="cart-items-container"`)
	assert.NotContains(t, html, `id="wishlist-grid"`)
	assert.Equal(t, 14, strings.Count(html, `class="add-to-cart-btn`))
	assert.Equal(t, 14, strings.Count(html, `class="add-to-wishlist-btn`))
	assert.Contains(t, html, `data-product-id="1"`)
	assert.Contains(t, html, "Chicken Laps")
	assert.Contains(t, html, "₦2.99/kg")
	assert.Contains(t, html, `action="/cart/items/14"`)
	assert.Contains(t, html, `action="/wishlist/items/14"`)
}

func TestRender_ProductImagesUseCatalogPath(t *testing.T) {
	wishlist := []domain.WishlistItem{domain.NewWishlistItem(mustProduct(t, 9))}
	cart := []domain.CartItem{domain.NewCartItem(mustProduct(t, 1))}

	for _, layout := range []Layout{CatalogPage, CartPage, WishlistPage} {
		html := render(t, layout, NewData(catalog.All(), cart, wishlist, nil))

		assert.NotContains(t, html, `src="/static/images/`, layout.Name)
	}

	html := render(t, CatalogPage, NewData(catalog.All(), nil, nil, nil))
	assert.Contains(t, html, `<img src="`+mustProduct(t, 1).Image+`"`)
}

func TestRender_NoBadgesWhenEmpty(t *testing.T) {
	html := render(t, CatalogPage, NewData(catalog.All(), nil, nil, nil))

	assert.Contains(t, html, `id="cart-icon-container"`)
	assert.Contains(t, html, `id="wishlist-icon-container"`)
	assert.NotContains(t, html, "cart-counter")
	assert.NotContains(t, html, "wishlist-counter")
}

func TestRender_Badges(t *testing.T) {
	cart := []domain.CartItem{domain.NewCartItem(mustProduct(t, 1)), domain.NewCartItem(mustProduct(t, 2))}
	wishlist := []domain.WishlistItem{domain.NewWishlistItem(mustProduct(t, 3))}

	html := render(t, CatalogPage, NewData(catalog.All(), cart, wishlist, nil))

	assert.Contains(t, html, `<span class="cart-counter`)
	assert.Contains(t, html, `<span class="wishlist-counter`)
	assert.Regexp(t, `cart-counter[^>]*>2</span>`, html)
	assert.Regexp(t, `wishlist-counter[^>]*>1</span>`, html)
}

// --- Cart page ---

func TestRender_CartPageEmpty(t *testing.T) {
	html := render(t, CartPage, NewData(catalog.All(), nil, nil, nil))

	assert.Contains(t, html, `id="cart-items-container"`)
	assert.Contains(t, html, "Your cart is empty.")
	assert.NotContains(t, html, `id="product-grid"`)
	assert.NotContains(t, html, "add-to-wishlist-btn")
}

func TestRender_CartPageRows(t *testing.T) {
	cart := []domain.CartItem{
		domain.NewCartItem(mustProduct(t, 11)),
		{Product: mustProduct(t, 2), Quantity: 2},
	}

	html := render(t, CartPage, NewData(catalog.All(), cart, nil, nil))

	assert.NotContains(t, html, "Your cart is empty.")
	assert.Equal(t, 2, strings.Count(html, "remove-from-cart-btn"))
	assert.Contains(t, html, `<input type="number" value="1" min="1"`)
	assert.Contains(t, html, `<input type="number" value="2" min="1"`)
	assert.Contains(t, html, "Price: ₦4.50/kg")
	assert.Contains(t, html, "₦6.98")
	assert.Less(t, strings.Index(html, "Hake"), strings.Index(html, "Turkey"), "rows keep cart order")
	assert.Contains(t, html, `action="/cart/items/11/remove"`)
}

// --- Wishlist page ---

func TestRender_WishlistPageEmpty(t *testing.T) {
	html := render(t, WishlistPage, NewData(catalog.All(), nil, nil, nil))

	assert.Contains(t, html, "Your wishlist is empty.")
	assert.NotContains(t, html, "Your cart is empty.")
}

func TestRender_WishlistPageCards(t *testing.T) {
	wishlist := []domain.WishlistItem{domain.NewWishlistItem(mustProduct(t, 9))}

	html := render(t, WishlistPage, NewData(catalog.All(), nil, wishlist, nil))

	assert.Contains(t, html, "Sawa")
	assert.Contains(t, html, "₦15.99/kg")
	assert.Equal(t, 1, strings.Count(html, "remove-from-wishlist-btn"))
	assert.Equal(t, 1, strings.Count(html, "add-to-cart-btn"))
	assert.Contains(t, html, `action="/wishlist/items/9/remove"`)
	assert.NotContains(t, html, "add-to-wishlist-btn")
}

// --- Notifications ---

func TestRender_Toasts(t *testing.T) {
	toasts := []notify.Toast{{Message: "Turkey added to cart!", Level: notify.LevelSuccess}}

	html := render(t, CartPage, NewData(catalog.All(), nil, nil, toasts))

	assert.Contains(t, html, `data-dismiss-after="2000"`)
	assert.Contains(t, html, "Turkey added to cart!")
	assert.Contains(t, html, "notification-success")
}

func TestRender_EscapesText(t *testing.T) {
	toasts := []notify.Toast{{Message: `<script>alert(1)</script> added to cart!`, Level: notify.LevelSuccess}}

	html := render(t, CatalogPage, NewData(nil, nil, nil, toasts))

	assert.NotContains(t, html, "<script>alert(1)</script>")
	assert.Contains(t, html, "&lt;script&gt;")
}

// --- Fragments ---

func TestRenderFragment_SkipsMissingAnchor(t *testing.T) {
	r := newTestRenderer(t)
	var buf bytes.Buffer

	require.NoError(t, r.RenderFragment(&buf, CatalogPage, AnchorCartItems, NewData(nil, nil, nil, nil)))
	assert.Empty(t, buf.String())
}

func TestRenderFragment_Badge(t *testing.T) {
	r := newTestRenderer(t)
	cart := []domain.CartItem{domain.NewCartItem(mustProduct(t, 1))}

	var buf bytes.Buffer
	require.NoError(t, r.RenderFragment(&buf, CartPage, AnchorCartIcon, NewData(nil, cart, nil, nil)))
	assert.Contains(t, buf.String(), `class="cart-counter`)

	buf.Reset()
	require.NoError(t, r.RenderFragment(&buf, CartPage, AnchorWishlistIcon, NewData(nil, cart, nil, nil)))
	assert.Empty(t, strings.TrimSpace(buf.String()))
}

func TestRenderFragment_CartItems(t *testing.T) {
	r := newTestRenderer(t)
	var buf bytes.Buffer

	require.NoError(t, r.RenderFragment(&buf, CartPage, AnchorCartItems, NewData(nil, nil, nil, nil)))
	assert.Contains(t, buf.String(), "Your cart is empty.")
}

// --- Static assets ---

func TestStatic(t *testing.T) {
	js, err := fs.ReadFile(Static(), "app.js")
	require.NoError(t, err)
	assert.Contains(t, string(js), "dismissAfter")

	_, err = fs.Stat(Static(), "style.css")
	assert.NoError(t, err)
}
