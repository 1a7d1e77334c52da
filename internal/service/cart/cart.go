// internal/service/cart/cart.go
package cart

import (
	"context"
	"fmt"

	"storefront/internal/domain/bill"
	"storefront/internal/domain/cart"
	xerrors "storefront/internal/pkg/errors"

	"github.com/oklog/ulid/v2"
	"go.uber.org/zap"
)

// Repository is the cart store, including the atomic cart-to-bill conversion.
type Repository interface {
	Items(ctx context.Context, userID int64) ([]cart.Item, error)
	Add(ctx context.Context, userID, productID int64, quantity int) error
	SetQuantity(ctx context.Context, userID, productID int64, quantity int) error
	Remove(ctx context.Context, userID, productID int64) error
	Checkout(ctx context.Context, userID int64, idempotencyKey, reference string) (*bill.Bill, bool, error)
}

type BillRepository interface {
	ListByUser(ctx context.Context, userID int64) ([]bill.Bill, error)
}

type CartService struct {
	carts  Repository
	bills  BillRepository
	logger *zap.Logger
}

func NewCartService(carts Repository, bills BillRepository, logger *zap.Logger) *CartService {
	return &CartService{
		carts:  carts,
		bills:  bills,
		logger: logger,
	}
}

func (s *CartService) Items(ctx context.Context, userID int64) ([]cart.Item, error) {
	return s.carts.Items(ctx, userID)
}

func (s *CartService) Add(ctx context.Context, userID int64, req *cart.AddRequest) error {
	if req.Quantity < 1 {
		return xerrors.WithMessage(xerrors.ErrInvalidInput, "The quantity must be at least 1.")
	}
	if err := s.carts.Add(ctx, userID, req.ProductID, req.Quantity); err != nil {
		s.logger.Info("add to cart rejected",
			zap.Int64("user_id", userID),
			zap.Int64("product_id", req.ProductID),
			zap.Int("quantity", req.Quantity),
			zap.Error(err),
		)
		return err
	}
	return nil
}

func (s *CartService) UpdateQuantity(ctx context.Context, userID int64, req *cart.UpdateQuantityRequest) error {
	if req.Quantity < 1 {
		return xerrors.WithMessage(xerrors.ErrInvalidInput, "The quantity must be at least 1.")
	}
	if err := s.carts.SetQuantity(ctx, userID, req.ProductID, req.Quantity); err != nil {
		s.logger.Info("cart quantity rejected",
			zap.Int64("user_id", userID),
			zap.Int64("product_id", req.ProductID),
			zap.Int("quantity", req.Quantity),
			zap.Error(err),
		)
		return err
	}
	return nil
}

func (s *CartService) Remove(ctx context.Context, userID int64, req *cart.RemoveRequest) error {
	return s.carts.Remove(ctx, userID, req.ProductID)
}

// Checkout converts the cart into a bill. Replays of the same idempotency
// key return the original bill without touching stock again.
func (s *CartService) Checkout(ctx context.Context, userID int64, idempotencyKey string) (*bill.Bill, error) {
	reference := "BILL-" + ulid.Make().String()

	b, replayed, err := s.carts.Checkout(ctx, userID, idempotencyKey, reference)
	if err != nil {
		s.logger.Info("checkout rejected", zap.Int64("user_id", userID), zap.Error(err))
		return nil, err
	}
	if replayed {
		s.logger.Info("checkout replayed",
			zap.Int64("user_id", userID),
			zap.Int64("bill_id", b.ID),
			zap.String("idempotency_key", idempotencyKey),
		)
		return b, nil
	}

	s.logger.Info("checkout completed",
		zap.Int64("user_id", userID),
		zap.Int64("bill_id", b.ID),
		zap.String("reference", b.Reference),
		zap.String("total", b.TotalAmount.StringFixed(2)),
	)
	return b, nil
}

func (s *CartService) Bills(ctx context.Context, userID int64) ([]bill.Bill, error) {
	bills, err := s.bills.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list bills: %w", err)
	}
	return bills, nil
}
