package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/storefront/internal/auth"
	"github.com/Skotchmaster/storefront/internal/logging"
	"github.com/Skotchmaster/storefront/internal/mykafka"
	"github.com/Skotchmaster/storefront/internal/service"
)

type CartHandler struct {
	Svc      *service.OrderService
	Producer *mykafka.Producer
}

// GetCart returns the caller's open order as a cart view. An empty cart is
// a 200 with no order, not a 404.
func (h *CartHandler) GetCart(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "cart.get")

	userID, err := auth.UserID(c)
	if err != nil {
		return err
	}

	view, err := h.Svc.GetCart(ctx, userID, nil)
	if err != nil {
		l.Error("get_cart_error", "user_id", userID, "error", err)
		return serviceError(err)
	}
	return c.JSON(http.StatusOK, view)
}

// ListOrders returns the caller's order history, newest first. Only the
// caller's own orders are visible.
func (h *CartHandler) ListOrders(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "cart.list_orders")

	userID, err := auth.UserID(c)
	if err != nil {
		return err
	}

	orders, err := h.Svc.ListOrders(ctx, userID)
	if err != nil {
		l.Error("list_orders_error", "user_id", userID, "error", err)
		return serviceError(err)
	}
	return c.JSON(http.StatusOK, orders)
}

// GetOrder returns a specific order of the caller's, line items priced at
// the products' current prices.
func (h *CartHandler) GetOrder(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "cart.get_order")

	userID, err := auth.UserID(c)
	if err != nil {
		return err
	}
	orderID, err := parseID(c, "id")
	if err != nil {
		return err
	}

	view, err := h.Svc.GetCart(ctx, userID, &orderID)
	if err != nil {
		l.Warn("get_order_error", "user_id", userID, "order_id", orderID, "error", err)
		return serviceError(err)
	}
	return c.JSON(http.StatusOK, view)
}

// AddToCart puts one unit of a product into the caller's open order,
// creating the order when there is none.
func (h *CartHandler) AddToCart(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "cart.add")

	userID, err := auth.UserID(c)
	if err != nil {
		return err
	}

	var req struct {
		ProductID uint `json:"product_id"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}
	if req.ProductID == 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "product_id required")
	}

	order, err := h.Svc.AddProduct(ctx, userID, req.ProductID)
	if err != nil {
		l.Warn("add_to_cart_error", "user_id", userID, "product_id", req.ProductID, "error", err)
		return serviceError(err)
	}

	publish(c, h.Producer, "cart_events", map[string]any{
		"type":      "product_added",
		"userID":    userID,
		"orderID":   order.ID,
		"productID": req.ProductID,
	})

	l.Info("product added to cart", "user_id", userID, "order_id", order.ID)
	return c.JSON(http.StatusOK, order)
}

// RemoveLineItem takes one unit back out of the cart. Removing the last
// line item deletes the order as well.
func (h *CartHandler) RemoveLineItem(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "cart.remove_item")

	userID, err := auth.UserID(c)
	if err != nil {
		return err
	}
	itemID, err := parseID(c, "id")
	if err != nil {
		return err
	}

	order, err := h.Svc.RemoveLineItem(ctx, userID, itemID)
	if err != nil {
		l.Warn("remove_line_item_error", "user_id", userID, "line_item_id", itemID, "error", err)
		return serviceError(err)
	}

	event := map[string]any{
		"type":         "line_item_removed",
		"userID":       userID,
		"line_item_id": itemID,
	}
	if order == nil {
		event["order_deleted"] = true
		publish(c, h.Producer, "cart_events", event)
		return c.JSON(http.StatusOK, map[string]any{"deleted_item": itemID, "order_deleted": true})
	}
	event["orderID"] = order.ID
	publish(c, h.Producer, "cart_events", event)
	return c.JSON(http.StatusOK, order)
}

func (h *CartHandler) CancelOrder(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "cart.cancel")

	userID, err := auth.UserID(c)
	if err != nil {
		return err
	}
	orderID, err := parseID(c, "id")
	if err != nil {
		return err
	}

	if err := h.Svc.CancelOrder(ctx, userID, orderID); err != nil {
		l.Warn("cancel_order_error", "user_id", userID, "order_id", orderID, "error", err)
		return serviceError(err)
	}

	publish(c, h.Producer, "order_events", map[string]any{
		"type":    "order_cancelled",
		"userID":  userID,
		"orderID": orderID,
	})

	l.Info("order cancelled", "user_id", userID, "order_id", orderID)
	return c.NoContent(http.StatusNoContent)
}

// Checkout completes the order with one of the caller's payment types.
func (h *CartHandler) Checkout(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "cart.checkout")

	userID, err := auth.UserID(c)
	if err != nil {
		return err
	}
	orderID, err := parseID(c, "id")
	if err != nil {
		return err
	}

	var req struct {
		PaymentTypeID uint `json:"payment_type_id"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	order, err := h.Svc.Checkout(ctx, userID, orderID, req.PaymentTypeID)
	if err != nil {
		l.Warn("checkout_error", "user_id", userID, "order_id", orderID, "error", err)
		return serviceError(err)
	}

	publish(c, h.Producer, "order_events", map[string]any{
		"type":          "order_completed",
		"userID":        userID,
		"orderID":       order.ID,
		"paymentTypeID": req.PaymentTypeID,
	})

	l.Info("order completed", "user_id", userID, "order_id", order.ID)
	return c.JSON(http.StatusOK, order)
}
