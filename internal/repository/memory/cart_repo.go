// internal/repository/memory/cart_repo.go
package memory

import (
	"context"
	"fmt"

	"storefront/internal/domain/bill"
	"storefront/internal/domain/cart"
	xerrors "storefront/internal/pkg/errors"

	"github.com/shopspring/decimal"
)

// StockMessage is the text returned when a request exceeds available stock.
const StockMessage = "Not enough quantity available"

// CartRepository stores per-user carts and turns them into bills.
type CartRepository struct {
	db *DB
}

func NewCartRepository(db *DB) *CartRepository {
	return &CartRepository{db: db}
}

// Items returns the user's cart joined with live products, in insertion order.
func (r *CartRepository) Items(_ context.Context, userID int64) ([]cart.Item, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()
	return r.itemsLocked(userID), nil
}

// Add merges quantity into the line for productID. The resulting line may
// not exceed the product's stock.
func (r *CartRepository) Add(_ context.Context, userID, productID int64, quantity int) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	p, ok := r.db.products[productID]
	if !ok {
		return fmt.Errorf("product %d: %w", productID, xerrors.ErrNotFound)
	}
	lines := r.db.carts[userID]
	for i := range lines {
		if lines[i].ProductID == productID {
			if lines[i].Quantity+quantity > p.Quantity {
				return xerrors.WithMessage(xerrors.ErrInsufficientStock, StockMessage)
			}
			lines[i].Quantity += quantity
			return nil
		}
	}
	if quantity > p.Quantity {
		return xerrors.WithMessage(xerrors.ErrInsufficientStock, StockMessage)
	}
	r.db.carts[userID] = append(lines, cartLine{ID: r.db.nextID("cart_items"), ProductID: productID, Quantity: quantity})
	return nil
}

// SetQuantity replaces the quantity of an existing line.
func (r *CartRepository) SetQuantity(_ context.Context, userID, productID int64, quantity int) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	p, ok := r.db.products[productID]
	if !ok {
		return fmt.Errorf("product %d: %w", productID, xerrors.ErrNotFound)
	}
	lines := r.db.carts[userID]
	for i := range lines {
		if lines[i].ProductID == productID {
			if quantity > p.Quantity {
				return xerrors.WithMessage(xerrors.ErrInsufficientStock, StockMessage)
			}
			lines[i].Quantity = quantity
			return nil
		}
	}
	return fmt.Errorf("cart line for product %d: %w", productID, xerrors.ErrNotFound)
}

// Remove deletes the line for productID. Removing an absent line is not an error.
func (r *CartRepository) Remove(_ context.Context, userID, productID int64) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	lines := r.db.carts[userID]
	kept := lines[:0]
	for _, l := range lines {
		if l.ProductID != productID {
			kept = append(kept, l)
		}
	}
	r.db.carts[userID] = kept
	return nil
}

// Checkout atomically validates stock for every line, decrements it,
// records a bill with the prices at this moment and empties the cart.
// A repeated idempotency key returns the bill of the first attempt.
func (r *CartRepository) Checkout(_ context.Context, userID int64, idempotencyKey, reference string) (*bill.Bill, bool, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	dedupKey := fmt.Sprintf("%d:%s", userID, idempotencyKey)
	if idempotencyKey != "" {
		if billID, ok := r.db.checkouts[dedupKey]; ok {
			if b, ok := r.db.bills[billID]; ok {
				out := cloneBill(b)
				return &out, true, nil
			}
		}
	}

	items := r.itemsLocked(userID)
	if len(items) == 0 {
		return nil, false, xerrors.ErrEmptyCart
	}
	for _, it := range items {
		if it.Quantity > it.Product.Quantity {
			return nil, false, xerrors.WithMessage(xerrors.ErrInsufficientStock, StockMessage)
		}
	}

	b := &bill.Bill{
		ID:        r.db.nextID("bills"),
		Reference: reference,
		UserID:    userID,
		CreatedAt: r.db.now().UTC(),
		Items:     make([]bill.Item, 0, len(items)),
	}
	total := decimal.Zero
	for _, it := range items {
		p := r.db.products[it.Product.ID]
		p.Quantity -= it.Quantity
		p.UpdatedAt = b.CreatedAt

		b.Items = append(b.Items, bill.Item{
			ID:          r.db.nextID("bill_items"),
			Quantity:    it.Quantity,
			PriceAtTime: it.Product.Price,
			Product:     it.Product,
		})
		total = total.Add(it.LineTotal())
	}
	b.TotalAmount = total

	r.db.bills[b.ID] = b
	if idempotencyKey != "" {
		r.db.checkouts[dedupKey] = b.ID
	}
	delete(r.db.carts, userID)

	out := cloneBill(b)
	return &out, false, nil
}

func (r *CartRepository) itemsLocked(userID int64) []cart.Item {
	lines := r.db.carts[userID]
	out := make([]cart.Item, 0, len(lines))
	for _, l := range lines {
		p, ok := r.db.products[l.ProductID]
		if !ok {
			continue
		}
		out = append(out, cart.Item{ID: l.ID, Quantity: l.Quantity, Product: cloneProduct(p)})
	}
	return out
}
