package app

import (
	"errors"

	"github.com/nikolayk812/cartapi/internal/domain"
	"github.com/nikolayk812/cartapi/internal/port"
)

// ErrorKind is the closed set of failure categories a use case reports.
// Transports map kinds to status codes structurally instead of matching
// on message text.
type ErrorKind int

const (
	KindNone ErrorKind = iota
	KindValidation
	KindNotFound
	KindConflict
)

func classify(err error) ErrorKind {
	switch {
	case errors.Is(err, domain.ErrCartNotFound),
		errors.Is(err, domain.ErrItemNotFound),
		errors.Is(err, domain.ErrProductNotInCart):
		return KindNotFound
	case errors.Is(err, port.ErrVersionConflict):
		return KindConflict
	default:
		return KindValidation
	}
}
