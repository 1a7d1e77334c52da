// internal/repository/memory/db.go
package memory

import (
	"context"
	"sync"
	"time"

	"storefront/internal/domain/admin"
	"storefront/internal/domain/auth"
	"storefront/internal/domain/bill"
	"storefront/internal/domain/catalog"

	"github.com/shopspring/decimal"
)

// cartLine is a stored cart row; the product is joined on read.
type cartLine struct {
	ID        int64
	ProductID int64
	Quantity  int
}

// userRow keeps role references by id so role edits show up on every user.
type userRow struct {
	record  admin.UserRecord
	roleIDs []int64
}

// roleRow keeps permission references by id.
type roleRow struct {
	role          auth.Role
	permissionIDs []int64
}

// DB is the process-local data set shared by every repository. All access
// goes through mu so multi-table writes such as checkout stay consistent.
type DB struct {
	mu  sync.RWMutex
	now func() time.Time
	seq map[string]int64

	users       map[int64]*userRow
	roles       map[int64]*roleRow
	permissions map[int64]*auth.Permission
	products    map[int64]*catalog.Product
	carts       map[int64][]cartLine
	bills       map[int64]*bill.Bill
	checkouts   map[string]int64
	revoked     map[string]time.Time
}

func NewDB() *DB {
	return &DB{
		now:         time.Now,
		seq:         make(map[string]int64),
		users:       make(map[int64]*userRow),
		roles:       make(map[int64]*roleRow),
		permissions: make(map[int64]*auth.Permission),
		products:    make(map[int64]*catalog.Product),
		carts:       make(map[int64][]cartLine),
		bills:       make(map[int64]*bill.Bill),
		checkouts:   make(map[string]int64),
		revoked:     make(map[string]time.Time),
	}
}

// nextID must be called with mu held for writing.
func (db *DB) nextID(table string) int64 {
	db.seq[table]++
	return db.seq[table]
}

// Dashboard counts users, products and bills in one consistent read.
func (db *DB) Dashboard(_ context.Context) (*admin.DashboardStats, error) {
	db.mu.RLock()
	defer db.mu.RUnlock()

	st := &admin.DashboardStats{
		Users:       len(db.users),
		UsersByRole: make(map[string]int),
		Products:    len(db.products),
		Bills:       len(db.bills),
	}
	for _, u := range db.users {
		for _, id := range u.roleIDs {
			if r, ok := db.roles[id]; ok {
				st.UsersByRole[r.role.Name]++
			}
		}
	}
	for _, p := range db.products {
		if !p.InStock() {
			st.OutOfStock++
		}
	}
	revenue := decimal.Zero
	for _, b := range db.bills {
		revenue = revenue.Add(b.TotalAmount)
	}
	st.Revenue = revenue.StringFixed(2)
	return st, nil
}
