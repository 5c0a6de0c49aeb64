package handlers_test

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/storefront/internal/models"
	"github.com/Skotchmaster/storefront/internal/service"
)

func TestGetCartEmptyReturnsOK(t *testing.T) {
	env := newTestEnv(t)
	user := env.createUser(t, "alice")
	ck := env.accessCookie(t, user.ID)

	rec := env.doJSON(t, http.MethodGet, "/api/v1/cart", nil, ck)
	require.Equal(t, http.StatusOK, rec.Code)

	var view service.CartView
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &view))
	require.Nil(t, view.Order)
	require.Empty(t, view.Items)
}

func TestCartRequiresAuth(t *testing.T) {
	env := newTestEnv(t)

	rec := env.doJSON(t, http.MethodGet, "/api/v1/cart", nil)
	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAddToCartFlow(t *testing.T) {
	env := newTestEnv(t)
	user := env.createUser(t, "alice")
	product := env.createProduct(t, user.ID, "Kite", 9.99, 2)
	ck := env.accessCookie(t, user.ID)

	rec := env.doJSON(t, http.MethodPost, "/api/v1/cart", map[string]uint{"product_id": product.ID}, ck)
	require.Equal(t, http.StatusOK, rec.Code)

	var order models.Order
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &order))
	require.NotZero(t, order.ID)
	require.Equal(t, user.ID, order.UserID)

	var stored models.Product
	require.NoError(t, env.DB.First(&stored, product.ID).Error)
	require.Equal(t, 1, stored.Quantity)

	rec = env.doJSON(t, http.MethodGet, "/api/v1/cart", nil, ck)
	require.Equal(t, http.StatusOK, rec.Code)

	var view service.CartView
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &view))
	require.Len(t, view.Items, 1)
	require.Equal(t, 9.99, view.Items[0].Cost)
	require.Equal(t, 1, view.Items[0].Units)
}

func TestAddToCartOutOfStock(t *testing.T) {
	env := newTestEnv(t)
	alice := env.createUser(t, "alice")
	bob := env.createUser(t, "bob")
	product := env.createProduct(t, alice.ID, "Drill", 79, 1)

	rec := env.doJSON(t, http.MethodPost, "/api/v1/cart", map[string]uint{"product_id": product.ID}, env.accessCookie(t, alice.ID))
	require.Equal(t, http.StatusOK, rec.Code)

	rec = env.doJSON(t, http.MethodPost, "/api/v1/cart", map[string]uint{"product_id": product.ID}, env.accessCookie(t, bob.ID))
	require.Equal(t, http.StatusConflict, rec.Code)
}

func TestAddToCartUnknownProduct(t *testing.T) {
	env := newTestEnv(t)
	user := env.createUser(t, "alice")

	rec := env.doJSON(t, http.MethodPost, "/api/v1/cart", map[string]uint{"product_id": 9999}, env.accessCookie(t, user.ID))
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestRemoveLineItemCrossUserForbidden(t *testing.T) {
	env := newTestEnv(t)
	alice := env.createUser(t, "alice")
	mallory := env.createUser(t, "mallory")
	product := env.createProduct(t, alice.ID, "Saw", 15, 3)

	rec := env.doJSON(t, http.MethodPost, "/api/v1/cart", map[string]uint{"product_id": product.ID}, env.accessCookie(t, alice.ID))
	require.Equal(t, http.StatusOK, rec.Code)

	var item models.OrderLineItem
	require.NoError(t, env.DB.First(&item).Error)

	rec = env.doJSON(t, http.MethodDelete, "/api/v1/cart/items/1", nil, env.accessCookie(t, mallory.ID))
	require.Equal(t, http.StatusForbidden, rec.Code)
}

func TestRemoveLastLineItemDeletesOrder(t *testing.T) {
	env := newTestEnv(t)
	user := env.createUser(t, "alice")
	product := env.createProduct(t, user.ID, "Kite", 9.99, 2)
	ck := env.accessCookie(t, user.ID)

	rec := env.doJSON(t, http.MethodPost, "/api/v1/cart", map[string]uint{"product_id": product.ID}, ck)
	require.Equal(t, http.StatusOK, rec.Code)

	var item models.OrderLineItem
	require.NoError(t, env.DB.First(&item).Error)

	rec = env.doJSON(t, http.MethodDelete, "/api/v1/cart/items/1", nil, ck)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Equal(t, true, resp["order_deleted"])

	var orders int64
	require.NoError(t, env.DB.Model(&models.Order{}).Count(&orders).Error)
	require.Zero(t, orders)

	var stored models.Product
	require.NoError(t, env.DB.First(&stored, product.ID).Error)
	require.Equal(t, 2, stored.Quantity)
}

func TestCheckoutOverHTTP(t *testing.T) {
	env := newTestEnv(t)
	user := env.createUser(t, "alice")
	product := env.createProduct(t, user.ID, "Radio", 25, 2)
	payment := env.createPaymentType(t, user.ID, "Visa")
	ck := env.accessCookie(t, user.ID)

	rec := env.doJSON(t, http.MethodPost, "/api/v1/cart", map[string]uint{"product_id": product.ID}, ck)
	require.Equal(t, http.StatusOK, rec.Code)

	var order models.Order
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &order))

	rec = env.doJSON(t, http.MethodPost, "/api/v1/orders/1/checkout", map[string]uint{"payment_type_id": payment.ID}, ck)
	require.Equal(t, http.StatusOK, rec.Code)

	var completed models.Order
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &completed))
	require.NotNil(t, completed.DateCompleted)
	require.NotNil(t, completed.PaymentTypeID)

	// Second checkout of the same order is a conflict.
	rec = env.doJSON(t, http.MethodPost, "/api/v1/orders/1/checkout", map[string]uint{"payment_type_id": payment.ID}, ck)
	require.Equal(t, http.StatusConflict, rec.Code)

	// Checkout without choosing a payment type is a validation error.
	rec = env.doJSON(t, http.MethodPost, "/api/v1/orders/1/checkout", map[string]uint{"payment_type_id": 0}, ck)
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestListOrdersOverHTTP(t *testing.T) {
	env := newTestEnv(t)
	alice := env.createUser(t, "alice")
	bob := env.createUser(t, "bob")
	product := env.createProduct(t, alice.ID, "Radio", 25, 5)
	payment := env.createPaymentType(t, alice.ID, "Visa")
	ck := env.accessCookie(t, alice.ID)

	rec := env.doJSON(t, http.MethodPost, "/api/v1/cart", map[string]uint{"product_id": product.ID}, ck)
	require.Equal(t, http.StatusOK, rec.Code)
	rec = env.doJSON(t, http.MethodPost, "/api/v1/orders/1/checkout", map[string]uint{"payment_type_id": payment.ID}, ck)
	require.Equal(t, http.StatusOK, rec.Code)
	rec = env.doJSON(t, http.MethodPost, "/api/v1/cart", map[string]uint{"product_id": product.ID}, ck)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = env.doJSON(t, http.MethodGet, "/api/v1/orders", nil, ck)
	require.Equal(t, http.StatusOK, rec.Code)

	var orders []models.Order
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &orders))
	require.Len(t, orders, 2)
	for _, o := range orders {
		require.Equal(t, alice.ID, o.UserID)
	}

	// Another user sees only their own history, not alice's.
	rec = env.doJSON(t, http.MethodGet, "/api/v1/orders", nil, env.accessCookie(t, bob.ID))
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &orders))
	require.Empty(t, orders)
}

func TestCancelOrderOverHTTP(t *testing.T) {
	env := newTestEnv(t)
	user := env.createUser(t, "alice")
	product := env.createProduct(t, user.ID, "Kite", 9.99, 3)
	ck := env.accessCookie(t, user.ID)

	rec := env.doJSON(t, http.MethodPost, "/api/v1/cart", map[string]uint{"product_id": product.ID}, ck)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = env.doJSON(t, http.MethodDelete, "/api/v1/orders/1", nil, ck)
	require.Equal(t, http.StatusNoContent, rec.Code)

	var stored models.Product
	require.NoError(t, env.DB.First(&stored, product.ID).Error)
	require.Equal(t, 3, stored.Quantity)
}
