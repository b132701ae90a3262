package domain

import (
	"errors"
	"fmt"
)

// Not-found sentinels. The message text is part of the public API contract,
// callers discriminate on the error value, not the string.
var (
	ErrCartNotFound     = errors.New("Cart not found")
	ErrItemNotFound     = errors.New("Item not found in cart")
	ErrProductNotInCart = errors.New("Product not found in cart")
)

// InvariantError marks a violated value-object or aggregate invariant.
type InvariantError struct {
	msg string
}

func (e InvariantError) Error() string { return e.msg }

func invariantf(format string, args ...any) error {
	return InvariantError{msg: fmt.Sprintf(format, args...)}
}
