// internal/domain/cart/entity.go
package cart

import (
	"github.com/shopspring/decimal"

	"storefront/internal/domain/catalog"
)

// Item is one cart line. Quantity is at least 1 and never above Product.Quantity.
type Item struct {
	ID       int64           `json:"id"`
	Quantity int             `json:"quantity"`
	Product  catalog.Product `json:"product"`
}

// LineTotal is price times quantity for the line.
func (i Item) LineTotal() decimal.Decimal {
	return i.Product.Price.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// Subtotal sums every line of a cart.
func Subtotal(items []Item) decimal.Decimal {
	total := decimal.Zero
	for _, it := range items {
		total = total.Add(it.LineTotal())
	}
	return total
}

// Find returns the line for productID, if present.
func Find(items []Item, productID int64) (Item, bool) {
	for _, it := range items {
		if it.Product.ID == productID {
			return it, true
		}
	}
	return Item{}, false
}
