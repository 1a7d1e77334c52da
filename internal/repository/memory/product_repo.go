// internal/repository/memory/product_repo.go
package memory

import (
	"context"
	"fmt"

	"storefront/internal/domain/catalog"
	xerrors "storefront/internal/pkg/errors"
)

type ProductRepository struct {
	db *DB
}

func NewProductRepository(db *DB) *ProductRepository {
	return &ProductRepository{db: db}
}

var _ catalog.Repository = (*ProductRepository)(nil)

func (r *ProductRepository) Create(_ context.Context, p *catalog.Product) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	now := r.db.now().UTC()
	p.ID = r.db.nextID("products")
	p.CreatedAt = now
	p.UpdatedAt = now
	stored := *p
	r.db.products[p.ID] = &stored
	return nil
}

func (r *ProductRepository) Update(_ context.Context, p *catalog.Product) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	stored, ok := r.db.products[p.ID]
	if !ok {
		return fmt.Errorf("product %d: %w", p.ID, xerrors.ErrNotFound)
	}
	p.CreatedAt = stored.CreatedAt
	p.UpdatedAt = r.db.now().UTC()
	*stored = *p
	return nil
}

// Delete removes the product and any cart line that references it.
// Bills keep their own snapshot.
func (r *ProductRepository) Delete(_ context.Context, id int64) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	if _, ok := r.db.products[id]; !ok {
		return fmt.Errorf("product %d: %w", id, xerrors.ErrNotFound)
	}
	delete(r.db.products, id)
	for userID, lines := range r.db.carts {
		kept := lines[:0]
		for _, l := range lines {
			if l.ProductID != id {
				kept = append(kept, l)
			}
		}
		r.db.carts[userID] = kept
	}
	return nil
}

func (r *ProductRepository) FindByID(_ context.Context, id int64) (*catalog.Product, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	p, ok := r.db.products[id]
	if !ok {
		return nil, fmt.Errorf("product %d: %w", id, xerrors.ErrNotFound)
	}
	out := cloneProduct(p)
	return &out, nil
}

func (r *ProductRepository) List(_ context.Context) ([]catalog.Product, error) {
	return r.filter(func(*catalog.Product) bool { return true }), nil
}

func (r *ProductRepository) ListBySeller(_ context.Context, sellerID int64) ([]catalog.Product, error) {
	return r.filter(func(p *catalog.Product) bool { return p.Seller.ID == sellerID }), nil
}

func (r *ProductRepository) filter(keep func(*catalog.Product) bool) []catalog.Product {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	out := make([]catalog.Product, 0, len(r.db.products))
	for _, id := range sortedKeys(r.db.products) {
		if p := r.db.products[id]; keep(p) {
			out = append(out, cloneProduct(p))
		}
	}
	return out
}
