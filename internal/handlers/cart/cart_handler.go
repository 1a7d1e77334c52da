// internal/handlers/cart/cart_handler.go
package cart

import (
	"net/http"

	"storefront/internal/domain/cart"
	"storefront/internal/middleware"
	"storefront/internal/pkg/response"
	cartUsecase "storefront/internal/service/cart"

	"github.com/gin-gonic/gin"
)

// IdempotencyHeader carries the client-generated checkout key.
const IdempotencyHeader = "Idempotency-Key"

type CartHandler struct {
	cartService *cartUsecase.CartService
}

func NewCartHandler(cartService *cartUsecase.CartService) *CartHandler {
	return &CartHandler{cartService: cartService}
}

func (h *CartHandler) GetCart(c *gin.Context) {
	items, err := h.cartService.Items(c.Request.Context(), middleware.MustGetUserID(c))
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, "", items)
}

func (h *CartHandler) Add(c *gin.Context) {
	var req cart.AddRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationError(c, "invalid request", err)
		return
	}
	if err := h.cartService.Add(c.Request.Context(), middleware.MustGetUserID(c), &req); err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, "added to cart", nil)
}

func (h *CartHandler) Remove(c *gin.Context) {
	var req cart.RemoveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationError(c, "invalid request", err)
		return
	}
	if err := h.cartService.Remove(c.Request.Context(), middleware.MustGetUserID(c), &req); err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, "removed from cart", nil)
}

func (h *CartHandler) UpdateQuantity(c *gin.Context) {
	var req cart.UpdateQuantityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationError(c, "invalid request", err)
		return
	}
	if err := h.cartService.UpdateQuantity(c.Request.Context(), middleware.MustGetUserID(c), &req); err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, "cart updated", nil)
}

func (h *CartHandler) Checkout(c *gin.Context) {
	b, err := h.cartService.Checkout(c.Request.Context(), middleware.MustGetUserID(c), c.GetHeader(IdempotencyHeader))
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, "checkout successful", b)
}

func (h *CartHandler) Bills(c *gin.Context) {
	bills, err := h.cartService.Bills(c.Request.Context(), middleware.MustGetUserID(c))
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, "", bills)
}
