// internal/client/cart.go
package client

import (
	"context"
	"net/http"

	"storefront/internal/domain/bill"
	"storefront/internal/domain/cart"
)

// IdempotencyHeader carries the per-attempt checkout key.
const IdempotencyHeader = "Idempotency-Key"

func (c *Client) Cart(ctx context.Context) ([]cart.Item, error) {
	out := []cart.Item{}
	if err := c.Do(ctx, http.MethodGet, "/cart", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) AddToCart(ctx context.Context, productID int64, quantity int) error {
	return c.Do(ctx, http.MethodPost, "/cart/add", cart.AddRequest{ProductID: productID, Quantity: quantity}, nil)
}

func (c *Client) RemoveFromCart(ctx context.Context, productID int64) error {
	return c.Do(ctx, http.MethodPost, "/cart/remove", cart.RemoveRequest{ProductID: productID}, nil)
}

func (c *Client) UpdateCartQuantity(ctx context.Context, productID int64, quantity int) error {
	return c.Do(ctx, http.MethodPut, "/cart/update-quantity", cart.UpdateQuantityRequest{ProductID: productID, Quantity: quantity}, nil)
}

// Checkout turns the cart into a bill. The body is empty; a non-empty key is
// sent so the server can drop duplicate submissions. The returned bill is
// nil when the server does not echo one.
func (c *Client) Checkout(ctx context.Context, idempotencyKey string) (*bill.Bill, error) {
	var header http.Header
	if idempotencyKey != "" {
		header = http.Header{IdempotencyHeader: []string{idempotencyKey}}
	}
	var out *bill.Bill
	if err := c.do(ctx, http.MethodPost, "/checkout", nil, &out, header); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) Bills(ctx context.Context) ([]bill.Bill, error) {
	out := []bill.Bill{}
	if err := c.Do(ctx, http.MethodGet, "/bills", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}
