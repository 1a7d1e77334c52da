// internal/domain/catalog/entity.go
package catalog

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// Seller is the owner of a product listing.
type Seller struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// Product is a catalog entry. Quantity is the authoritative stock count.
// Price decodes from either a JSON string or a JSON number.
type Product struct {
	ID          int64           `json:"id"`
	Title       string          `json:"title"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	Quantity    int             `json:"quantity"`
	Seller      Seller          `json:"seller"`
	CreatedAt   time.Time       `json:"created_at,omitempty"`
	UpdatedAt   time.Time       `json:"updated_at,omitempty"`
}

// InStock reports whether at least one unit is available.
func (p *Product) InStock() bool {
	return p.Quantity > 0
}

// Repository is the product store used by the backend.
type Repository interface {
	Create(ctx context.Context, p *Product) error
	Update(ctx context.Context, p *Product) error
	Delete(ctx context.Context, id int64) error
	FindByID(ctx context.Context, id int64) (*Product, error)
	List(ctx context.Context) ([]Product, error)
	ListBySeller(ctx context.Context, sellerID int64) ([]Product, error)
}
