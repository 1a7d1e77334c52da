// internal/service/catalog/catalog.go
package catalog

import (
	"context"
	"fmt"
	"strings"

	"storefront/internal/domain/auth"
	"storefront/internal/domain/catalog"
	xerrors "storefront/internal/pkg/errors"

	"go.uber.org/zap"
)

type CatalogService struct {
	products catalog.Repository
	logger   *zap.Logger
}

func NewCatalogService(products catalog.Repository, logger *zap.Logger) *CatalogService {
	return &CatalogService{
		products: products,
		logger:   logger,
	}
}

func (s *CatalogService) ListProducts(ctx context.Context) ([]catalog.Product, error) {
	return s.products.List(ctx)
}

func (s *CatalogService) GetProduct(ctx context.Context, id int64) (*catalog.Product, error) {
	return s.products.FindByID(ctx, id)
}

func (s *CatalogService) SellerProducts(ctx context.Context, sellerID int64) ([]catalog.Product, error) {
	return s.products.ListBySeller(ctx, sellerID)
}

// CreateProduct lists a new product owned by seller.
func (s *CatalogService) CreateProduct(ctx context.Context, seller *auth.User, req *catalog.CreateProductRequest) (*catalog.Product, error) {
	title := strings.TrimSpace(req.Title)
	if title == "" {
		return nil, xerrors.WithMessage(xerrors.ErrInvalidInput, "The title field is required.")
	}
	if req.Price.IsNegative() {
		return nil, xerrors.WithMessage(xerrors.ErrInvalidInput, "The price must be at least 0.")
	}
	if req.Quantity < 0 {
		return nil, xerrors.WithMessage(xerrors.ErrInvalidInput, "The quantity must be at least 0.")
	}

	p := &catalog.Product{
		Title:       title,
		Description: req.Description,
		Price:       req.Price,
		Quantity:    req.Quantity,
		Seller:      catalog.Seller{ID: seller.ID, Name: seller.Name, Email: seller.Email},
	}
	if err := s.products.Create(ctx, p); err != nil {
		s.logger.Error("failed to create product", zap.Error(err))
		return nil, fmt.Errorf("failed to create product: %w", err)
	}

	s.logger.Info("product created",
		zap.Int64("product_id", p.ID),
		zap.Int64("seller_id", seller.ID),
	)
	return p, nil
}

// UpdateProduct edits a product. Sellers may only edit their own listings.
func (s *CatalogService) UpdateProduct(ctx context.Context, actor *auth.User, id int64, req *catalog.UpdateProductRequest) (*catalog.Product, error) {
	p, err := s.owned(ctx, actor, id)
	if err != nil {
		return nil, err
	}

	if req.Title != nil {
		title := strings.TrimSpace(*req.Title)
		if title == "" {
			return nil, xerrors.WithMessage(xerrors.ErrInvalidInput, "The title field is required.")
		}
		p.Title = title
	}
	if req.Description != nil {
		p.Description = *req.Description
	}
	if req.Price != nil {
		if req.Price.IsNegative() {
			return nil, xerrors.WithMessage(xerrors.ErrInvalidInput, "The price must be at least 0.")
		}
		p.Price = *req.Price
	}
	if req.Quantity != nil {
		if *req.Quantity < 0 {
			return nil, xerrors.WithMessage(xerrors.ErrInvalidInput, "The quantity must be at least 0.")
		}
		p.Quantity = *req.Quantity
	}

	if err := s.products.Update(ctx, p); err != nil {
		return nil, fmt.Errorf("failed to update product: %w", err)
	}
	s.logger.Info("product updated", zap.Int64("product_id", id), zap.Int64("actor_id", actor.ID))
	return p, nil
}

func (s *CatalogService) DeleteProduct(ctx context.Context, actor *auth.User, id int64) error {
	if _, err := s.owned(ctx, actor, id); err != nil {
		return err
	}
	if err := s.products.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete product: %w", err)
	}
	s.logger.Info("product deleted", zap.Int64("product_id", id), zap.Int64("actor_id", actor.ID))
	return nil
}

func (s *CatalogService) owned(ctx context.Context, actor *auth.User, id int64) (*catalog.Product, error) {
	p, err := s.products.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !actor.HasRole("admin") && p.Seller.ID != actor.ID {
		return nil, xerrors.WithMessage(xerrors.ErrForbidden, "You do not own this product.")
	}
	return p, nil
}
