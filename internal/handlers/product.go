package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/storefront/internal/auth"
	"github.com/Skotchmaster/storefront/internal/logging"
	"github.com/Skotchmaster/storefront/internal/mykafka"
	"github.com/Skotchmaster/storefront/internal/service"
	"github.com/Skotchmaster/storefront/internal/util"
)

type ProductHandler struct {
	Svc      *service.CatalogService
	Producer *mykafka.Producer
}

func (h *ProductHandler) GetProduct(c echo.Context) error {
	ctx := c.Request().Context()

	id, err := parseID(c, "id")
	if err != nil {
		return err
	}

	product, err := h.Svc.GetProduct(ctx, id)
	if err != nil {
		return serviceError(err)
	}
	return c.JSON(http.StatusOK, product)
}

func (h *ProductHandler) GetProducts(c echo.Context) error {
	ctx := c.Request().Context()

	page := parseIntDefault(c.QueryParam("page"), 1)
	size := parseIntDefault(c.QueryParam("size"), util.DefaultPageSize)
	offset, limit := util.Calculate(page, size)

	total, items, err := h.Svc.ListProducts(ctx, offset, limit)
	if err != nil {
		return serviceError(err)
	}

	return c.JSON(http.StatusOK, map[string]any{
		"data": items,
		"meta": map[string]any{
			"page":        page,
			"size":        limit,
			"total":       total,
			"total_pages": (total + int64(limit) - 1) / int64(limit),
			"has_prev":    page > 1,
			"has_next":    int64(offset+limit) < total,
		},
	})
}

func (h *ProductHandler) GetProductTypes(c echo.Context) error {
	types, err := h.Svc.ListProductTypes(c.Request().Context())
	if err != nil {
		return serviceError(err)
	}
	return c.JSON(http.StatusOK, types)
}

// SearchProducts is the catalog's title substring search; the fuzzy
// Elasticsearch endpoint lives in SearchHandler.
func (h *ProductHandler) SearchProducts(c echo.Context) error {
	q := c.QueryParam("q")
	if q == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "query required")
	}

	items, err := h.Svc.SearchProducts(c.Request().Context(), q)
	if err != nil {
		return serviceError(err)
	}
	return c.JSON(http.StatusOK, map[string]any{"search": q, "products": items})
}

func (h *ProductHandler) CreateProduct(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "product.create")

	userID, err := auth.UserID(c)
	if err != nil {
		return err
	}

	var in service.ProductInput
	if err := c.Bind(&in); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	product, err := h.Svc.CreateProduct(ctx, userID, in)
	if err != nil {
		l.Warn("create_product_error", "user_id", userID, "error", err)
		return serviceError(err)
	}

	publish(c, h.Producer, "product_events", map[string]any{
		"type":      "product_created",
		"userID":    userID,
		"productID": product.ID,
		"title":     product.Title,
	})

	l.Info("product created", "user_id", userID, "product_id", product.ID)
	return c.JSON(http.StatusCreated, product)
}

func (h *ProductHandler) PatchProduct(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "product.patch")

	userID, err := auth.UserID(c)
	if err != nil {
		return err
	}
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}

	var patch service.ProductPatch
	if err := c.Bind(&patch); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	product, err := h.Svc.PatchProduct(ctx, userID, id, patch)
	if err != nil {
		l.Warn("patch_product_error", "user_id", userID, "product_id", id, "error", err)
		return serviceError(err)
	}

	publish(c, h.Producer, "product_events", map[string]any{
		"type":      "product_updated",
		"userID":    userID,
		"productID": product.ID,
		"title":     product.Title,
	})

	return c.JSON(http.StatusOK, product)
}

func (h *ProductHandler) DeleteProduct(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "product.delete")

	userID, err := auth.UserID(c)
	if err != nil {
		return err
	}
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}

	if err := h.Svc.DeleteProduct(ctx, userID, id); err != nil {
		l.Warn("delete_product_error", "user_id", userID, "product_id", id, "error", err)
		return serviceError(err)
	}

	publish(c, h.Producer, "product_events", map[string]any{
		"type":      "product_deleted",
		"userID":    userID,
		"productID": id,
	})

	return c.NoContent(http.StatusNoContent)
}
