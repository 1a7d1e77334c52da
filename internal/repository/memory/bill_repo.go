// internal/repository/memory/bill_repo.go
package memory

import (
	"context"

	"storefront/internal/domain/bill"
)

type BillRepository struct {
	db *DB
}

func NewBillRepository(db *DB) *BillRepository {
	return &BillRepository{db: db}
}

// ListByUser returns the user's bills, newest first.
func (r *BillRepository) ListByUser(_ context.Context, userID int64) ([]bill.Bill, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	ids := sortedKeys(r.db.bills)
	out := make([]bill.Bill, 0)
	for i := len(ids) - 1; i >= 0; i-- {
		if b := r.db.bills[ids[i]]; b.UserID == userID {
			out = append(out, cloneBill(b))
		}
	}
	return out, nil
}
