// internal/domain/bill/entity.go
package bill

import (
	"time"

	"github.com/shopspring/decimal"

	"storefront/internal/domain/catalog"
)

// Item snapshots the price paid at checkout, independent of the live product price.
type Item struct {
	ID          int64           `json:"id"`
	Quantity    int             `json:"quantity"`
	PriceAtTime decimal.Decimal `json:"price_at_time"`
	Product     catalog.Product `json:"product"`
}

// Bill is an immutable record of a completed checkout.
type Bill struct {
	ID          int64           `json:"id"`
	Reference   string          `json:"reference,omitempty"`
	UserID      int64           `json:"user_id,omitempty"`
	TotalAmount decimal.Decimal `json:"total_amount"`
	CreatedAt   time.Time       `json:"created_at"`
	Items       []Item          `json:"items"`
}
