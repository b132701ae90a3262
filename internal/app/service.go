package app

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/nikolayk812/cartapi/internal/domain"
	"github.com/nikolayk812/cartapi/internal/port"
)

// Use-case failure messages. The texts are part of the public API contract
// and must not drift; transports discriminate on the Kind field, never on
// these strings.
var (
	errInvalidRequest     = errors.New("Invalid request parameters")
	errCartIDRequired     = errors.New("Cart ID is required")
	errEmptyCartCheckout  = errors.New("Cannot checkout empty cart")
	errSessionItemMissing = errors.New("Session ID and item ID are required")
)

// CartService orchestrates the cart workflows against the repository port.
// Every method converts any domain or repository error into a structured
// failure response; no error crosses the use-case boundary as a Go error.
type CartService struct {
	repo port.CartRepository
}

func NewCartService(repo port.CartRepository) *CartService {
	return &CartService{repo: repo}
}

// CartResponse is the result envelope shared by the cart-returning
// workflows.
type CartResponse struct {
	Success bool
	Cart    domain.Cart
	Error   string
	Kind    ErrorKind
}

func cartFailure(err error) CartResponse {
	return CartResponse{Error: err.Error(), Kind: classify(err)}
}

type AddItemRequest struct {
	CartID    string
	ProductID string
	Quantity  int
	UnitPrice float64
	Currency  string // defaults to USD
}

// AddItem puts an item into the cart, creating the cart on first use.
// A missing cart is not an error at this boundary.
func (s *CartService) AddItem(ctx context.Context, req AddItemRequest) CartResponse {
	if strings.TrimSpace(req.CartID) == "" || strings.TrimSpace(req.ProductID) == "" ||
		req.Quantity <= 0 || req.UnitPrice <= 0 {
		return cartFailure(errInvalidRequest)
	}

	cart, found, err := s.repo.FindByID(ctx, req.CartID)
	if err != nil {
		return cartFailure(err)
	}
	if !found {
		cart, err = domain.NewCart(req.CartID)
		if err != nil {
			return cartFailure(err)
		}
	}

	productID, err := domain.NewProductID(req.ProductID)
	if err != nil {
		return cartFailure(err)
	}

	code := req.Currency
	if code == "" {
		code = "USD"
	}

	unitPrice, err := domain.ParseMoney(req.UnitPrice, code)
	if err != nil {
		return cartFailure(err)
	}

	item, err := domain.NewCartItem(productID, req.Quantity, unitPrice)
	if err != nil {
		return cartFailure(err)
	}

	updated, err := cart.AddItem(item)
	if err != nil {
		return cartFailure(err)
	}

	saved, err := s.repo.Save(ctx, updated)
	if err != nil {
		return cartFailure(err)
	}

	return CartResponse{Success: true, Cart: saved}
}

type GetCartRequest struct {
	CartID string
}

// GetCart returns the cart, provisioning and persisting an empty one when
// no record exists. A read never reports "not found".
func (s *CartService) GetCart(ctx context.Context, req GetCartRequest) CartResponse {
	if strings.TrimSpace(req.CartID) == "" {
		return cartFailure(errCartIDRequired)
	}

	cart, found, err := s.repo.FindByID(ctx, req.CartID)
	if err != nil {
		return cartFailure(err)
	}

	if !found {
		cart, err = domain.NewCart(req.CartID)
		if err != nil {
			return cartFailure(err)
		}

		cart, err = s.repo.Save(ctx, cart)
		if err != nil {
			return cartFailure(err)
		}
	}

	return CartResponse{Success: true, Cart: cart}
}

type CheckoutRequest struct {
	CartID string
}

// OrderLine is the snapshot of one cart item taken at checkout.
type OrderLine struct {
	ProductID string
	Quantity  int
	UnitPrice domain.Money
}

type CheckoutResponse struct {
	Success   bool
	OrderID   string
	Total     domain.Money
	Items     []OrderLine
	ItemCount int
	Error     string
	Kind      ErrorKind
}

func checkoutFailure(err error) CheckoutResponse {
	return CheckoutResponse{Error: err.Error(), Kind: classify(err)}
}

// Checkout totals the cart, snapshots its items into the response and
// deletes the cart as the terminal step. Payment, inventory and a durable
// order record are outside this service; the one-time response is the
// only artifact of the order.
func (s *CartService) Checkout(ctx context.Context, req CheckoutRequest) CheckoutResponse {
	if strings.TrimSpace(req.CartID) == "" {
		return checkoutFailure(errCartIDRequired)
	}

	cart, found, err := s.repo.FindByID(ctx, req.CartID)
	if err != nil {
		return checkoutFailure(err)
	}
	if !found {
		return checkoutFailure(domain.ErrCartNotFound)
	}
	if cart.IsEmpty() {
		return checkoutFailure(errEmptyCartCheckout)
	}

	total, err := cart.Total()
	if err != nil {
		return checkoutFailure(err)
	}

	lines := make([]OrderLine, 0, len(cart.Items))
	for _, item := range cart.Items {
		lines = append(lines, OrderLine{
			ProductID: item.ProductID.String(),
			Quantity:  item.Quantity,
			UnitPrice: item.UnitPrice,
		})
	}

	if err := s.repo.Delete(ctx, req.CartID); err != nil {
		return checkoutFailure(err)
	}

	return CheckoutResponse{
		Success:   true,
		OrderID:   newOrderID(),
		Total:     total,
		Items:     lines,
		ItemCount: cart.ItemCount(),
	}
}

type RemoveItemRequest struct {
	SessionID string
	ItemID    string
}

// RemoveItem removes one product from the cart. Unlike the aggregate
// transformation, this workflow requires both the cart and the item to
// exist.
func (s *CartService) RemoveItem(ctx context.Context, req RemoveItemRequest) CartResponse {
	if strings.TrimSpace(req.SessionID) == "" || strings.TrimSpace(req.ItemID) == "" {
		return cartFailure(errSessionItemMissing)
	}

	cart, found, err := s.repo.FindByID(ctx, req.SessionID)
	if err != nil {
		return cartFailure(err)
	}
	if !found {
		return cartFailure(domain.ErrCartNotFound)
	}

	productID, err := domain.NewProductID(req.ItemID)
	if err != nil {
		return cartFailure(err)
	}

	if !cart.Contains(productID) {
		return cartFailure(domain.ErrItemNotFound)
	}

	saved, err := s.repo.Save(ctx, cart.RemoveItem(productID))
	if err != nil {
		return cartFailure(err)
	}

	return CartResponse{Success: true, Cart: saved}
}

// newOrderID is best-effort unique, not a durable order reference.
func newOrderID() string {
	suffix, _, _ := strings.Cut(uuid.NewString(), "-")
	return fmt.Sprintf("order-%d-%s", time.Now().UnixMilli(), suffix)
}
