package port

import (
	"context"
	"errors"

	"github.com/nikolayk812/cartapi/internal/domain"
)

// ErrVersionConflict is returned by Save when the stored cart version has
// advanced past the one the caller loaded. The losing writer must reload
// and retry instead of silently overwriting.
var ErrVersionConflict = errors.New("cart version conflict")

type CartRepository interface {
	// Save upserts the cart by ID, replacing its items wholesale.
	// cart.Version must match the stored version (0 for a cart not yet
	// stored); the returned cart carries the advanced version.
	Save(ctx context.Context, cart domain.Cart) (domain.Cart, error)

	FindByID(ctx context.Context, id string) (domain.Cart, bool, error)

	// Delete is a no-op when nothing is stored under id.
	Delete(ctx context.Context, id string) error
}
