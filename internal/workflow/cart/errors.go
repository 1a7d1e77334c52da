package cart

import (
	"errors"
	"fmt"

	xerrors "storefront/internal/pkg/errors"
)

var ErrCheckoutInProgress = errors.New("checkout already in progress")

// StockError is a quantity request the available stock cannot satisfy,
// detected locally or reported by the server.
type StockError struct {
	ProductID int64
	Requested int
	// Available is -1 when the server rejected the request without a count.
	Available int
	Message   string
	Err       error
}

func (e *StockError) Error() string {
	return e.Message
}

func (e *StockError) Unwrap() []error {
	if e.Err != nil {
		return []error{xerrors.ErrInsufficientStock, e.Err}
	}
	return []error{xerrors.ErrInsufficientStock}
}

func localStockError(productID int64, requested, available int) *StockError {
	msg := fmt.Sprintf("Only %d left in stock", available)
	if available <= 0 {
		msg = "This product is out of stock"
	}
	return &StockError{ProductID: productID, Requested: requested, Available: available, Message: msg}
}

// StockMessage returns the user-facing text for a stock failure.
func StockMessage(err error) (string, bool) {
	var se *StockError
	if errors.As(err, &se) {
		return se.Message, true
	}
	if xerrors.IsStockError(err) {
		return err.Error(), true
	}
	return "", false
}

func invalidQuantity(q int) error {
	return fmt.Errorf("%w: quantity must be at least 1, got %d", xerrors.ErrInvalidInput, q)
}
