package domain

// List names a stored list. The value doubles as the persistence key suffix.
type List string

const (
	ListCart     List = "cart"
	ListWishlist List = "wishlist"
)

// String implements fmt.Stringer.
func (l List) String() string { return string(l) }

// Item is implemented by every element kept in a stored list.
type Item interface {
	CartItem | WishlistItem
	ProductID() int
	ProductName() string
}

// ProductID returns the id of the product the item refers to.
func (p Product) ProductID() int { return p.ID }

// ProductName returns the display name of the product the item refers to.
func (p Product) ProductName() string { return p.Name }

// IndexOf returns the position of the entry for productID, or -1.
func IndexOf[T Item](items []T, productID int) int {
	for i := range items {
		if items[i].ProductID() == productID {
			return i
		}
	}
	return -1
}

// Contains reports whether items holds an entry for productID.
func Contains[T Item](items []T, productID int) bool {
	return IndexOf(items, productID) >= 0
}

// Without returns a new slice with every entry for productID removed. The
// relative order of the remaining entries is preserved and the input is not
// modified.
func Without[T Item](items []T, productID int) []T {
	out := make([]T, 0, len(items))
	for _, item := range items {
		if item.ProductID() != productID {
			out = append(out, item)
		}
	}
	return out
}
