// internal/domain/catalog/dto.go
package catalog

import "github.com/shopspring/decimal"

type CreateProductRequest struct {
	Title       string          `json:"title" binding:"required,max=255"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	Quantity    int             `json:"quantity" binding:"min=0"`
}

type UpdateProductRequest struct {
	Title       *string          `json:"title,omitempty" binding:"omitempty,max=255"`
	Description *string          `json:"description,omitempty"`
	Price       *decimal.Decimal `json:"price,omitempty"`
	Quantity    *int             `json:"quantity,omitempty" binding:"omitempty,min=0"`
}
