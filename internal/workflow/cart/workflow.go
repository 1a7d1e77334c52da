package cart

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"storefront/internal/domain/bill"
	"storefront/internal/domain/cart"
	"storefront/internal/domain/catalog"
	xerrors "storefront/internal/pkg/errors"

	"github.com/oklog/ulid/v2"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// API is the slice of the REST client the workflow drives.
type API interface {
	Cart(ctx context.Context) ([]cart.Item, error)
	AddToCart(ctx context.Context, productID int64, quantity int) error
	RemoveFromCart(ctx context.Context, productID int64) error
	UpdateCartQuantity(ctx context.Context, productID int64, quantity int) error
	Checkout(ctx context.Context, idempotencyKey string) (*bill.Bill, error)
}

// LineState is the per-line state: Idle or Updating.
type LineState int

const (
	Idle LineState = iota
	Updating
)

func (s LineState) String() string {
	if s == Updating {
		return "updating"
	}
	return "idle"
}

// Workflow drives cart mutations. The displayed cart is always the last
// server-confirmed snapshot: every successful mutation is followed by a
// refetch and a failed one leaves the snapshot untouched. Mutations on the
// same product are serialized; different products proceed concurrently.
type Workflow struct {
	api    API
	logger *zap.Logger
	newKey func() string

	mu          sync.Mutex
	items       []cart.Item
	inFlight    map[int64]int
	lines       map[int64]*lineLock
	checkingOut bool
	fetchSeq    uint64
	appliedSeq  uint64

	refetch singleflight.Group
}

func NewWorkflow(api API, logger *zap.Logger) *Workflow {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Workflow{
		api:      api,
		logger:   logger,
		newKey:   func() string { return ulid.Make().String() },
		inFlight: make(map[int64]int),
		lines:    make(map[int64]*lineLock),
	}
}

// Items returns the last confirmed cart.
func (w *Workflow) Items() []cart.Item {
	w.mu.Lock()
	defer w.mu.Unlock()
	return copyItems(w.items)
}

func (w *Workflow) Subtotal() decimal.Decimal {
	return cart.Subtotal(w.Items())
}

func (w *Workflow) InFlight(productID int64) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.inFlight[productID] > 0
}

// InFlightIDs lists products with a pending request, ascending.
func (w *Workflow) InFlightIDs() []int64 {
	w.mu.Lock()
	defer w.mu.Unlock()
	ids := make([]int64, 0, len(w.inFlight))
	for id, n := range w.inFlight {
		if n > 0 {
			ids = append(ids, id)
		}
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

func (w *Workflow) LineState(productID int64) LineState {
	if w.InFlight(productID) {
		return Updating
	}
	return Idle
}

func (w *Workflow) CheckingOut() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.checkingOut
}

// Refresh refetches the cart. Concurrent callers share one request.
func (w *Workflow) Refresh(ctx context.Context) ([]cart.Item, error) {
	return w.refresh(ctx, false)
}

// refresh with fresh set never joins a fetch that started before the call,
// so a mutation always observes its own effect. Older fetches finishing
// late do not overwrite a newer snapshot. The shared fetch is detached from
// the caller that started it; each caller stops waiting on its own ctx.
func (w *Workflow) refresh(ctx context.Context, fresh bool) ([]cart.Item, error) {
	if fresh {
		w.refetch.Forget("cart")
	}
	fetchCtx := context.WithoutCancel(ctx)
	ch := w.refetch.DoChan("cart", func() (interface{}, error) {
		w.mu.Lock()
		w.fetchSeq++
		seq := w.fetchSeq
		w.mu.Unlock()

		items, err := w.api.Cart(fetchCtx)
		if err != nil {
			return nil, err
		}
		w.mu.Lock()
		if seq > w.appliedSeq {
			w.items = copyItems(items)
			w.appliedSeq = seq
		}
		w.mu.Unlock()
		return items, nil
	})

	select {
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return copyItems(res.Val.([]cart.Item)), nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// copyItems never returns nil, so an empty cart encodes as [].
func copyItems(items []cart.Item) []cart.Item {
	out := make([]cart.Item, len(items))
	copy(out, items)
	return out
}

// Add puts quantity units of product in the cart.
func (w *Workflow) Add(ctx context.Context, product catalog.Product, quantity int) ([]cart.Item, error) {
	if quantity < 1 {
		return nil, w.reject(product.ID, invalidQuantity(quantity))
	}
	if !product.InStock() || quantity > product.Quantity {
		return nil, w.reject(product.ID, localStockError(product.ID, quantity, product.Quantity))
	}
	return w.mutate(ctx, product.ID, quantity, "add", func(ctx context.Context) error {
		return w.api.AddToCart(ctx, product.ID, quantity)
	})
}

// UpdateQuantity sets the line to quantity, bounded by 1 and the product stock.
func (w *Workflow) UpdateQuantity(ctx context.Context, item cart.Item, quantity int) ([]cart.Item, error) {
	productID := item.Product.ID
	if quantity < 1 {
		return nil, w.reject(productID, invalidQuantity(quantity))
	}
	if quantity > item.Product.Quantity {
		return nil, w.reject(productID, localStockError(productID, quantity, item.Product.Quantity))
	}
	return w.mutate(ctx, productID, quantity, "update", func(ctx context.Context) error {
		return w.api.UpdateCartQuantity(ctx, productID, quantity)
	})
}

func (w *Workflow) Increment(ctx context.Context, item cart.Item) ([]cart.Item, error) {
	return w.UpdateQuantity(ctx, item, item.Quantity+1)
}

func (w *Workflow) Decrement(ctx context.Context, item cart.Item) ([]cart.Item, error) {
	return w.UpdateQuantity(ctx, item, item.Quantity-1)
}

// Remove drops the line unconditionally.
func (w *Workflow) Remove(ctx context.Context, productID int64) ([]cart.Item, error) {
	return w.mutate(ctx, productID, 0, "remove", func(ctx context.Context) error {
		return w.api.RemoveFromCart(ctx, productID)
	})
}

// Checkout converts the cart into a bill. Each attempt carries a fresh
// idempotency key; a second checkout while one is pending is refused.
func (w *Workflow) Checkout(ctx context.Context) (*bill.Bill, []cart.Item, error) {
	w.mu.Lock()
	if w.checkingOut {
		w.mu.Unlock()
		return nil, nil, ErrCheckoutInProgress
	}
	w.checkingOut = true
	w.mu.Unlock()

	defer func() {
		w.mu.Lock()
		w.checkingOut = false
		w.mu.Unlock()
	}()

	key := w.newKey()
	w.logger.Debug("checkout started", zap.String("idempotency_key", key))

	b, err := w.api.Checkout(ctx, key)
	if err != nil {
		w.logger.Debug("checkout failed", zap.String("idempotency_key", key), zap.Error(err))
		return nil, nil, w.classify(0, 0, err)
	}

	items, err := w.refresh(ctx, true)
	if err != nil {
		return b, nil, fmt.Errorf("refresh cart after checkout: %w", err)
	}
	return b, items, nil
}

func (w *Workflow) mutate(ctx context.Context, productID int64, quantity int, op string, call func(context.Context) error) ([]cart.Item, error) {
	w.begin(productID)
	defer w.end(productID)

	release, err := w.lockLine(ctx, productID)
	if err != nil {
		return nil, err
	}
	defer release()

	w.logger.Debug("cart line updating", zap.String("op", op), zap.Int64("product_id", productID), zap.Int("quantity", quantity))
	if err := call(ctx); err != nil {
		w.logger.Debug("cart line update failed", zap.String("op", op), zap.Int64("product_id", productID), zap.Error(err))
		return nil, w.classify(productID, quantity, err)
	}

	items, err := w.refresh(ctx, true)
	if err != nil {
		return nil, fmt.Errorf("refresh cart after %s: %w", op, err)
	}
	return items, nil
}

func (w *Workflow) classify(productID int64, quantity int, err error) error {
	if !xerrors.IsStockError(err) {
		return err
	}
	return &StockError{ProductID: productID, Requested: quantity, Available: -1, Message: err.Error(), Err: err}
}

func (w *Workflow) reject(productID int64, err error) error {
	w.logger.Info("cart change rejected", zap.Int64("product_id", productID), zap.Error(err))
	return err
}

func (w *Workflow) begin(productID int64) {
	w.mu.Lock()
	w.inFlight[productID]++
	w.mu.Unlock()
}

func (w *Workflow) end(productID int64) {
	w.mu.Lock()
	if w.inFlight[productID]--; w.inFlight[productID] <= 0 {
		delete(w.inFlight, productID)
	}
	w.mu.Unlock()
}

// lineLock is a one-slot semaphore; refs counts holders and waiters so the
// entry can be dropped once the line goes quiet.
type lineLock struct {
	ch   chan struct{}
	refs int
}

func (w *Workflow) lockLine(ctx context.Context, productID int64) (func(), error) {
	w.mu.Lock()
	l, ok := w.lines[productID]
	if !ok {
		l = &lineLock{ch: make(chan struct{}, 1)}
		w.lines[productID] = l
	}
	l.refs++
	w.mu.Unlock()

	select {
	case l.ch <- struct{}{}:
		return func() {
			<-l.ch
			w.unrefLine(productID, l)
		}, nil
	case <-ctx.Done():
		w.unrefLine(productID, l)
		return nil, ctx.Err()
	}
}

func (w *Workflow) unrefLine(productID int64, l *lineLock) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if l.refs--; l.refs == 0 && w.lines[productID] == l {
		delete(w.lines, productID)
	}
}
