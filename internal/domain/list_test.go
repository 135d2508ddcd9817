package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func cartOf(ids ...int) []CartItem {
	items := make([]CartItem, len(ids))
	for i, id := range ids {
		items[i] = NewCartItem(Product{ID: id})
	}
	return items
}

func ids[T Item](items []T) []int {
	out := make([]int, len(items))
	for i := range items {
		out[i] = items[i].ProductID()
	}
	return out
}

func TestIndexOf(t *testing.T) {
	items := cartOf(4, 7, 9)
	assert.Equal(t, 0, IndexOf(items, 4))
	assert.Equal(t, 2, IndexOf(items, 9))
	assert.Equal(t, -1, IndexOf(items, 5))
	assert.Equal(t, -1, IndexOf([]CartItem{}, 5))
}

func TestContains_Wishlist(t *testing.T) {
	items := []WishlistItem{NewWishlistItem(Product{ID: 3})}
	assert.True(t, Contains(items, 3))
	assert.False(t, Contains(items, 4))
}

func TestWithout_PreservesOrder(t *testing.T) {
	items := cartOf(1, 2, 3, 4)

	got := Without(items, 2)

	assert.Equal(t, []int{1, 3, 4}, ids(got))
	assert.Equal(t, []int{1, 2, 3, 4}, ids(items), "input must not be modified")
}

func TestWithout_Missing(t *testing.T) {
	items := cartOf(1, 2)
	assert.Equal(t, []int{1, 2}, ids(Without(items, 99)))
}

func TestWithout_Empty(t *testing.T) {
	got := Without([]WishlistItem(nil), 1)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestList_String(t *testing.T) {
	assert.Equal(t, "cart", ListCart.String())
	assert.Equal(t, "wishlist", ListWishlist.String())
}
