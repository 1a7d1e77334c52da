// internal/client/catalog.go
package client

import (
	"context"
	"fmt"
	"net/http"

	"storefront/internal/domain/catalog"
)

func (c *Client) Products(ctx context.Context) ([]catalog.Product, error) {
	var out []catalog.Product
	if err := c.Do(ctx, http.MethodGet, "/products", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) Product(ctx context.Context, id int64) (*catalog.Product, error) {
	var out catalog.Product
	if err := c.Do(ctx, http.MethodGet, fmt.Sprintf("/products/%d", id), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// SellerProducts lists the listings owned by the authenticated seller.
func (c *Client) SellerProducts(ctx context.Context) ([]catalog.Product, error) {
	var out []catalog.Product
	if err := c.Do(ctx, http.MethodGet, "/seller/products", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) CreateProduct(ctx context.Context, req catalog.CreateProductRequest) (*catalog.Product, error) {
	var out catalog.Product
	if err := c.Do(ctx, http.MethodPost, "/products", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) UpdateProduct(ctx context.Context, id int64, req catalog.UpdateProductRequest) (*catalog.Product, error) {
	var out catalog.Product
	if err := c.Do(ctx, http.MethodPut, fmt.Sprintf("/products/%d", id), req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) DeleteProduct(ctx context.Context, id int64) error {
	return c.Do(ctx, http.MethodDelete, fmt.Sprintf("/products/%d", id), nil, nil)
}
