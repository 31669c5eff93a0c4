package relay

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

var (
	ErrMissingDestination  = errors.New("missing destination address")
	ErrInvalidDestination  = errors.New("invalid destination address")
	ErrInvalidAmount       = errors.New("invalid amount")
	ErrPriceReferenceUnset = errors.New("price reference is not configured")
)

// InsufficientFundsError is returned when amount plus the gas estimate exceeds the balance.
// Nothing has been submitted when it is returned.
type InsufficientFundsError struct {
	Available       decimal.Decimal
	Requested       decimal.Decimal
	GasEstimate     decimal.Decimal
	MaxWithdrawable decimal.Decimal
}

func (e *InsufficientFundsError) Error() string {
	return fmt.Sprintf("insufficient balance (need amount + gas): available %s ETH, requested %s ETH, gas estimate %s ETH",
		e.Available.String(), e.Requested.String(), e.GasEstimate.String())
}

// ExternalError wraps any failure of the wallet or node. Whether a transfer was broadcast is
// unknown to the caller unless TxHash is set, in which case it was.
type ExternalError struct {
	Op     string
	Code   string
	TxHash string
	Err    error
}

func (e *ExternalError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("%s: [%s] %v", e.Op, e.Code, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *ExternalError) Unwrap() error {
	return e.Err
}

// Message is the underlying, human readable failure without the op prefix.
func (e *ExternalError) Message() string {
	if e.Err == nil {
		return e.Op
	}
	return e.Err.Error()
}

func newExternalError(op string, err error) *ExternalError {
	var extErr *ExternalError
	if errors.As(err, &extErr) {
		if extErr.Op == "" {
			extErr.Op = op
		}
		return extErr
	}

	return &ExternalError{Op: op, Err: err}
}
