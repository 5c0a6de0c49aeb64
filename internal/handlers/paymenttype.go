package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/storefront/internal/auth"
	"github.com/Skotchmaster/storefront/internal/logging"
	"github.com/Skotchmaster/storefront/internal/service"
)

type PaymentTypeHandler struct {
	Svc *service.PaymentService
}

func (h *PaymentTypeHandler) ListPaymentTypes(c echo.Context) error {
	ctx := c.Request().Context()

	userID, err := auth.UserID(c)
	if err != nil {
		return err
	}

	types, err := h.Svc.ListPaymentTypes(ctx, userID)
	if err != nil {
		return serviceError(err)
	}
	return c.JSON(http.StatusOK, types)
}

func (h *PaymentTypeHandler) CreatePaymentType(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "paymenttype.create")

	userID, err := auth.UserID(c)
	if err != nil {
		return err
	}

	var req struct {
		Description   string `json:"description"`
		AccountNumber string `json:"account_number"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	pt, err := h.Svc.CreatePaymentType(ctx, userID, req.Description, req.AccountNumber)
	if err != nil {
		l.Warn("create_payment_type_error", "user_id", userID, "error", err)
		return serviceError(err)
	}

	l.Info("payment type created", "user_id", userID, "payment_type_id", pt.ID)
	return c.JSON(http.StatusCreated, pt)
}

func (h *PaymentTypeHandler) DeletePaymentType(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "paymenttype.delete")

	userID, err := auth.UserID(c)
	if err != nil {
		return err
	}
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}

	if err := h.Svc.DeletePaymentType(ctx, userID, id); err != nil {
		l.Warn("delete_payment_type_error", "user_id", userID, "payment_type_id", id, "error", err)
		return serviceError(err)
	}

	l.Info("payment type deleted", "user_id", userID, "payment_type_id", id)
	return c.NoContent(http.StatusNoContent)
}
