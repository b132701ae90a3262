package domain

import (
	"strings"
	"time"

	"golang.org/x/text/currency"
)

type CartItem struct {
	ProductID ProductID
	Quantity  int
	UnitPrice Money
}

func NewCartItem(productID ProductID, quantity int, unitPrice Money) (CartItem, error) {
	if quantity <= 0 {
		return CartItem{}, invariantf("cart item quantity must be a positive integer, got %d", quantity)
	}

	return CartItem{
		ProductID: productID,
		Quantity:  quantity,
		UnitPrice: unitPrice,
	}, nil
}

// Total is the line total in the unit-price currency.
func (i CartItem) Total() Money {
	return i.UnitPrice.MulQuantity(i.Quantity)
}

func (i CartItem) WithQuantity(quantity int) (CartItem, error) {
	return NewCartItem(i.ProductID, quantity, i.UnitPrice)
}

// Cart is an ordered list of items, at most one per product. Every
// transformation returns a new value, the receiver is never mutated.
// Version is the optimistic-concurrency token checked by the repository
// on save; transformations carry it through unchanged.
type Cart struct {
	ID        string
	Items     []CartItem
	Version   int64
	CreatedAt time.Time
	UpdatedAt time.Time
}

func NewCart(id string) (Cart, error) {
	trimmed := strings.TrimSpace(id)
	if trimmed == "" {
		return Cart{}, invariantf("cart ID must be a non-empty string")
	}

	now := time.Now()
	return Cart{ID: trimmed, CreatedAt: now, UpdatedAt: now}, nil
}

// AddItem appends the item, or combines quantities when the product is
// already in the cart. On a combine the incoming unit price wins.
func (c Cart) AddItem(item CartItem) (Cart, error) {
	items := make([]CartItem, len(c.Items))
	copy(items, c.Items)

	idx := c.indexOf(item.ProductID)
	if idx >= 0 {
		combined, err := NewCartItem(item.ProductID, items[idx].Quantity+item.Quantity, item.UnitPrice)
		if err != nil {
			return Cart{}, err
		}
		items[idx] = combined
	} else {
		items = append(items, item)
	}

	c.Items = items
	c.UpdatedAt = time.Now()
	return c, nil
}

// UpdateItemQuantity replaces the quantity of an item already in the cart.
// A quantity of zero or less removes the item instead.
func (c Cart) UpdateItemQuantity(productID ProductID, quantity int) (Cart, error) {
	idx := c.indexOf(productID)
	if idx < 0 {
		return Cart{}, ErrProductNotInCart
	}

	if quantity <= 0 {
		return c.RemoveItem(productID), nil
	}

	updated, err := c.Items[idx].WithQuantity(quantity)
	if err != nil {
		return Cart{}, err
	}

	items := make([]CartItem, len(c.Items))
	copy(items, c.Items)
	items[idx] = updated

	c.Items = items
	c.UpdatedAt = time.Now()
	return c, nil
}

// RemoveItem filters out the matching item, keeping the order of the rest.
// Removing an absent product is a no-op, presence checks belong to the
// caller.
func (c Cart) RemoveItem(productID ProductID) Cart {
	items := make([]CartItem, 0, len(c.Items))
	for _, item := range c.Items {
		if item.ProductID != productID {
			items = append(items, item)
		}
	}

	c.Items = items
	c.UpdatedAt = time.Now()
	return c
}

func (c Cart) Contains(productID ProductID) bool {
	return c.indexOf(productID) >= 0
}

func (c Cart) indexOf(productID ProductID) int {
	for i, item := range c.Items {
		if item.ProductID == productID {
			return i
		}
	}
	return -1
}

// Total sums the line totals. An empty cart totals to zero USD, otherwise
// the first item seeds the currency and a mixed-currency cart fails.
func (c Cart) Total() (Money, error) {
	if len(c.Items) == 0 {
		return ZeroMoney(currency.USD), nil
	}

	total := ZeroMoney(c.Items[0].UnitPrice.Currency)
	for _, item := range c.Items {
		var err error

		total, err = total.Add(item.Total())
		if err != nil {
			return Money{}, err
		}
	}

	return total, nil
}

func (c Cart) ItemCount() int {
	var count int
	for _, item := range c.Items {
		count += item.Quantity
	}
	return count
}

func (c Cart) IsEmpty() bool {
	return len(c.Items) == 0
}
