// internal/domain/cart/dto.go
package cart

type AddRequest struct {
	ProductID int64 `json:"product_id" binding:"required"`
	Quantity  int   `json:"quantity" binding:"required,min=1"`
}

type RemoveRequest struct {
	ProductID int64 `json:"product_id" binding:"required"`
}

type UpdateQuantityRequest struct {
	ProductID int64 `json:"product_id" binding:"required"`
	Quantity  int   `json:"quantity" binding:"required,min=1"`
}
