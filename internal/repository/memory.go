package repository

import (
	"context"
	"fmt"
	"sync"

	"github.com/nikolayk812/cartapi/internal/domain"
	"github.com/nikolayk812/cartapi/internal/port"
)

// MemoryCartRepository keeps carts in a process-lifetime map. Carts go in
// and out by value with their item slices copied, so the stored state is
// never aliased by a caller.
type MemoryCartRepository struct {
	mu    sync.RWMutex
	carts map[string]domain.Cart
}

func NewMemory() *MemoryCartRepository {
	return &MemoryCartRepository{
		carts: make(map[string]domain.Cart),
	}
}

func (r *MemoryCartRepository) Save(_ context.Context, cart domain.Cart) (domain.Cart, error) {
	if cart.ID == "" {
		return domain.Cart{}, fmt.Errorf("cart ID is empty")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	stored, exists := r.carts[cart.ID]
	switch {
	case !exists && cart.Version != 0:
		return domain.Cart{}, fmt.Errorf("cart[%s] version %d, not stored: %w",
			cart.ID, cart.Version, port.ErrVersionConflict)
	case exists && stored.Version != cart.Version:
		return domain.Cart{}, fmt.Errorf("cart[%s] version %d, stored %d: %w",
			cart.ID, cart.Version, stored.Version, port.ErrVersionConflict)
	}

	cart.Version++
	cart.Items = cloneItems(cart.Items)
	r.carts[cart.ID] = cart

	return cart, nil
}

func (r *MemoryCartRepository) FindByID(_ context.Context, id string) (domain.Cart, bool, error) {
	if id == "" {
		return domain.Cart{}, false, fmt.Errorf("id is empty")
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	cart, ok := r.carts[id]
	if !ok {
		return domain.Cart{}, false, nil
	}

	cart.Items = cloneItems(cart.Items)
	return cart, true, nil
}

func (r *MemoryCartRepository) Delete(_ context.Context, id string) error {
	if id == "" {
		return fmt.Errorf("id is empty")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.carts, id)
	return nil
}

// Count reports how many carts the store holds.
func (r *MemoryCartRepository) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.carts)
}

// Clear drops all stored carts.
func (r *MemoryCartRepository) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.carts = make(map[string]domain.Cart)
}

func cloneItems(items []domain.CartItem) []domain.CartItem {
	if items == nil {
		return nil
	}

	cloned := make([]domain.CartItem, len(items))
	copy(cloned, items)
	return cloned
}
