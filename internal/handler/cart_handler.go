package handler

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/nikolayk812/cartapi/internal/app"
	"github.com/nikolayk812/cartapi/internal/domain"
)

// CartHandler maps HTTP requests onto the cart use cases and use-case
// responses onto status codes. Status selection goes by the tagged Kind
// on the response, not by matching message text.
type CartHandler struct {
	service *app.CartService
}

func NewCartHandler(service *app.CartService) *CartHandler {
	return &CartHandler{service: service}
}

func NewRouter(service *app.CartService) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(cors.Default())

	NewCartHandler(service).RegisterRoutes(router)
	return router
}

func (h *CartHandler) RegisterRoutes(router *gin.Engine) {
	router.GET("/health", h.Health)

	api := router.Group("/api/cart")
	{
		api.POST("/:sessionId/items", h.AddItem)
		api.GET("/:sessionId", h.GetCart)
		api.POST("/:sessionId/checkout", h.Checkout)
		api.DELETE("/:sessionId/items/:itemId", h.RemoveItem)
	}
}

func (h *CartHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "healthy",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

type moneyJSON struct {
	Amount   float64 `json:"amount"`
	Currency string  `json:"currency"`
}

type addItemRequest struct {
	ProductID string     `json:"productId"`
	Quantity  int        `json:"quantity"`
	UnitPrice *moneyJSON `json:"unitPrice"`
}

func (h *CartHandler) AddItem(c *gin.Context) {
	cartID := c.Param("sessionId")

	var req addItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if req.ProductID == "" || req.Quantity == 0 || req.UnitPrice == nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Missing required fields: productId, quantity, unitPrice",
		})
		return
	}
	if req.Quantity < 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Quantity must be a positive number"})
		return
	}
	if req.UnitPrice.Amount <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unit price amount must be a positive number"})
		return
	}

	resp := h.service.AddItem(c.Request.Context(), app.AddItemRequest{
		CartID:    cartID,
		ProductID: req.ProductID,
		Quantity:  req.Quantity,
		UnitPrice: req.UnitPrice.Amount,
		Currency:  req.UnitPrice.Currency,
	})
	if !resp.Success {
		failCart(c, cartID, "add item failed", resp)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Item added successfully",
		"cart":    toCartJSON(resp.Cart),
	})
}

func (h *CartHandler) GetCart(c *gin.Context) {
	cartID := c.Param("sessionId")

	resp := h.service.GetCart(c.Request.Context(), app.GetCartRequest{CartID: cartID})
	if !resp.Success {
		failCart(c, cartID, "get cart failed", resp)
		return
	}

	c.JSON(http.StatusOK, toCartJSON(resp.Cart))
}

func (h *CartHandler) Checkout(c *gin.Context) {
	cartID := c.Param("sessionId")

	resp := h.service.Checkout(c.Request.Context(), app.CheckoutRequest{CartID: cartID})
	if !resp.Success {
		slog.WarnContext(c.Request.Context(), "checkout failed",
			"cart_id", cartID, "error", resp.Error)
		c.JSON(statusFromKind(resp.Kind), gin.H{"error": resp.Error})
		return
	}

	items := make([]cartItemJSON, 0, len(resp.Items))
	for _, line := range resp.Items {
		items = append(items, cartItemJSON{
			ProductID: line.ProductID,
			Quantity:  line.Quantity,
			UnitPrice: toMoneyJSON(line.UnitPrice),
		})
	}

	c.JSON(http.StatusOK, gin.H{
		"orderId": resp.OrderID,
		"total":   toMoneyJSON(resp.Total),
		"items":   items,
	})
}

func (h *CartHandler) RemoveItem(c *gin.Context) {
	sessionID := c.Param("sessionId")
	itemID := c.Param("itemId")

	resp := h.service.RemoveItem(c.Request.Context(), app.RemoveItemRequest{
		SessionID: sessionID,
		ItemID:    itemID,
	})
	if !resp.Success {
		failCart(c, sessionID, "remove item failed", resp)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Item removed successfully",
		"cart":    toCartJSON(resp.Cart),
	})
}

func failCart(c *gin.Context, cartID, msg string, resp app.CartResponse) {
	slog.WarnContext(c.Request.Context(), msg, "cart_id", cartID, "error", resp.Error)
	c.JSON(statusFromKind(resp.Kind), gin.H{"error": resp.Error})
}

func statusFromKind(kind app.ErrorKind) int {
	switch kind {
	case app.KindNotFound:
		return http.StatusNotFound
	case app.KindConflict:
		return http.StatusConflict
	default:
		return http.StatusBadRequest
	}
}

type cartItemJSON struct {
	ProductID string    `json:"productId"`
	Quantity  int       `json:"quantity"`
	UnitPrice moneyJSON `json:"unitPrice"`
}

type cartJSON struct {
	ID        string         `json:"id"`
	Items     []cartItemJSON `json:"items"`
	CreatedAt time.Time      `json:"createdAt"`
	UpdatedAt time.Time      `json:"updatedAt"`
}

func toMoneyJSON(m domain.Money) moneyJSON {
	return moneyJSON{
		Amount:   m.Amount.InexactFloat64(),
		Currency: m.Currency.String(),
	}
}

func toCartJSON(cart domain.Cart) cartJSON {
	items := make([]cartItemJSON, 0, len(cart.Items))
	for _, item := range cart.Items {
		items = append(items, cartItemJSON{
			ProductID: item.ProductID.String(),
			Quantity:  item.Quantity,
			UnitPrice: toMoneyJSON(item.UnitPrice),
		})
	}

	return cartJSON{
		ID:        cart.ID,
		Items:     items,
		CreatedAt: cart.CreatedAt,
		UpdatedAt: cart.UpdatedAt,
	}
}
