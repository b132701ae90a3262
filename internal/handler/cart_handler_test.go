package handler_test

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/gin-gonic/gin"
	"github.com/nikolayk812/cartapi/internal/app"
	"github.com/nikolayk812/cartapi/internal/handler"
	"github.com/nikolayk812/cartapi/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	m.Run()
}

func TestHealthEndpoint(t *testing.T) {
	router := newTestRouter()

	rec := doRequest(t, router, http.MethodGet, "/health", "")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "healthy", decodeBody(t, rec)["status"])
}

func TestAddItemEndpoint(t *testing.T) {
	t.Run("adds item", func(t *testing.T) {
		router := newTestRouter()
		cartID := gofakeit.UUID()

		rec := doRequest(t, router, http.MethodPost, "/api/cart/"+cartID+"/items",
			`{"productId":"prod-1","quantity":2,"unitPrice":{"amount":10.99,"currency":"USD"}}`)

		require.Equal(t, http.StatusOK, rec.Code)

		body := decodeBody(t, rec)
		assert.Equal(t, "Item added successfully", body["message"])

		cart, ok := body["cart"].(map[string]any)
		require.True(t, ok)
		assert.Equal(t, cartID, cart["id"])
		assert.Len(t, cart["items"], 1)
	})

	t.Run("request shape validation", func(t *testing.T) {
		tests := []struct {
			name      string
			body      string
			wantError string
		}{
			{
				name:      "missing fields",
				body:      `{}`,
				wantError: "Missing required fields: productId, quantity, unitPrice",
			},
			{
				name:      "missing unit price",
				body:      `{"productId":"prod-1","quantity":1}`,
				wantError: "Missing required fields: productId, quantity, unitPrice",
			},
			{
				name:      "negative quantity",
				body:      `{"productId":"prod-1","quantity":-2,"unitPrice":{"amount":1,"currency":"USD"}}`,
				wantError: "Quantity must be a positive number",
			},
			{
				name:      "non-positive amount",
				body:      `{"productId":"prod-1","quantity":1,"unitPrice":{"amount":0,"currency":"USD"}}`,
				wantError: "Unit price amount must be a positive number",
			},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				router := newTestRouter()

				rec := doRequest(t, router, http.MethodPost,
					"/api/cart/"+gofakeit.UUID()+"/items", tt.body)

				require.Equal(t, http.StatusBadRequest, rec.Code)
				assert.Equal(t, tt.wantError, decodeBody(t, rec)["error"])
			})
		}
	})

	t.Run("use-case validation failure: 400", func(t *testing.T) {
		router := newTestRouter()

		rec := doRequest(t, router, http.MethodPost, "/api/cart/"+gofakeit.UUID()+"/items",
			`{"productId":"prod-1","quantity":1,"unitPrice":{"amount":1,"currency":"NOPE"}}`)

		require.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestGetCartEndpoint(t *testing.T) {
	router := newTestRouter()
	cartID := gofakeit.UUID()

	rec := doRequest(t, router, http.MethodGet, "/api/cart/"+cartID, "")

	require.Equal(t, http.StatusOK, rec.Code)

	body := decodeBody(t, rec)
	assert.Equal(t, cartID, body["id"])
	assert.Empty(t, body["items"])
	assert.NotEmpty(t, body["createdAt"])
}

func TestCheckoutEndpoint(t *testing.T) {
	t.Run("unknown cart: 404", func(t *testing.T) {
		router := newTestRouter()

		rec := doRequest(t, router, http.MethodPost,
			"/api/cart/"+gofakeit.UUID()+"/checkout", "")

		require.Equal(t, http.StatusNotFound, rec.Code)
		assert.Equal(t, "Cart not found", decodeBody(t, rec)["error"])
	})

	t.Run("empty cart: 400", func(t *testing.T) {
		router := newTestRouter()
		cartID := gofakeit.UUID()

		// provisions an empty cart
		rec := doRequest(t, router, http.MethodGet, "/api/cart/"+cartID, "")
		require.Equal(t, http.StatusOK, rec.Code)

		rec = doRequest(t, router, http.MethodPost, "/api/cart/"+cartID+"/checkout", "")

		require.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "Cannot checkout empty cart", decodeBody(t, rec)["error"])
	})

	t.Run("totals the cart and completes one-shot", func(t *testing.T) {
		router := newTestRouter()
		cartID := gofakeit.UUID()

		addItem(t, router, cartID, "prod-1", 2, 10.99)
		addItem(t, router, cartID, "prod-2", 1, 5.99)

		rec := doRequest(t, router, http.MethodPost, "/api/cart/"+cartID+"/checkout", "")
		require.Equal(t, http.StatusOK, rec.Code)

		body := decodeBody(t, rec)
		orderID, ok := body["orderId"].(string)
		require.True(t, ok)
		assert.True(t, strings.HasPrefix(orderID, "order-"), orderID)

		total, ok := body["total"].(map[string]any)
		require.True(t, ok)
		assert.InDelta(t, 27.97, total["amount"], 1e-9)
		assert.Equal(t, "USD", total["currency"])

		assert.Len(t, body["items"], 2)

		// the cart is gone, a second checkout finds nothing
		rec = doRequest(t, router, http.MethodPost, "/api/cart/"+cartID+"/checkout", "")
		require.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestRemoveItemEndpoint(t *testing.T) {
	t.Run("unknown cart: 404", func(t *testing.T) {
		router := newTestRouter()

		rec := doRequest(t, router, http.MethodDelete,
			"/api/cart/"+gofakeit.UUID()+"/items/prod-1", "")

		require.Equal(t, http.StatusNotFound, rec.Code)
		assert.Equal(t, "Cart not found", decodeBody(t, rec)["error"])
	})

	t.Run("unmatched item: 404", func(t *testing.T) {
		router := newTestRouter()
		cartID := gofakeit.UUID()

		addItem(t, router, cartID, "prod-1", 1, 1)

		rec := doRequest(t, router, http.MethodDelete,
			"/api/cart/"+cartID+"/items/prod-9", "")

		require.Equal(t, http.StatusNotFound, rec.Code)
		assert.Equal(t, "Item not found in cart", decodeBody(t, rec)["error"])
	})

	t.Run("removes the item", func(t *testing.T) {
		router := newTestRouter()
		cartID := gofakeit.UUID()

		addItem(t, router, cartID, "prod-1", 1, 1)
		addItem(t, router, cartID, "prod-2", 1, 1)

		rec := doRequest(t, router, http.MethodDelete,
			"/api/cart/"+cartID+"/items/prod-1", "")

		require.Equal(t, http.StatusOK, rec.Code)

		cart, ok := decodeBody(t, rec)["cart"].(map[string]any)
		require.True(t, ok)

		items, ok := cart["items"].([]any)
		require.True(t, ok)
		require.Len(t, items, 1)

		item, ok := items[0].(map[string]any)
		require.True(t, ok)
		assert.Equal(t, "prod-2", item["productId"])
	})
}

func newTestRouter() *gin.Engine {
	return handler.NewRouter(app.NewCartService(repository.NewMemory()))
}

func doRequest(t *testing.T, router *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()

	var reader *strings.Reader
	if body == "" {
		reader = strings.NewReader("{}")
	} else {
		reader = strings.NewReader(body)
	}

	req, err := http.NewRequest(method, path, reader)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func addItem(t *testing.T, router *gin.Engine, cartID, productID string, quantity int, amount float64) {
	t.Helper()

	body := fmt.Sprintf(`{"productId":%q,"quantity":%d,"unitPrice":{"amount":%v,"currency":"USD"}}`,
		productID, quantity, amount)

	rec := doRequest(t, router, http.MethodPost, "/api/cart/"+cartID+"/items", body)
	require.Equal(t, http.StatusOK, rec.Code)
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}
