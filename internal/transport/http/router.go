package httpserver

import (
	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/Skotchmaster/storefront/internal/handlers"
)

type Deps struct {
	DB                 *gorm.DB
	ProductHandler     *handlers.ProductHandler
	CartHandler        *handlers.CartHandler
	PaymentTypeHandler *handlers.PaymentTypeHandler
	SearchHandler      *handlers.SearchHandler
	AuthMiddleware     echo.MiddlewareFunc
}

func Register(e *echo.Echo, d *Deps) {
	e.GET("/health/live", func(c echo.Context) error { return c.NoContent(200) })
	e.GET("/health/ready", func(c echo.Context) error { return c.NoContent(200) })

	v1 := e.Group("/api/v1")

	products := v1.Group("/products")
	products.GET("", d.ProductHandler.GetProducts)
	products.GET("/search", d.ProductHandler.SearchProducts)
	products.GET("/:id", d.ProductHandler.GetProduct)

	v1.GET("/producttypes", d.ProductHandler.GetProductTypes)

	if d.SearchHandler != nil {
		v1.GET("/search", d.SearchHandler.Search)
	}

	authed := v1.Group("", d.AuthMiddleware)

	authed.POST("/products", d.ProductHandler.CreateProduct)
	authed.PATCH("/products/:id", d.ProductHandler.PatchProduct)
	authed.DELETE("/products/:id", d.ProductHandler.DeleteProduct)

	cart := authed.Group("/cart")
	cart.GET("", d.CartHandler.GetCart)
	cart.POST("", d.CartHandler.AddToCart)
	cart.DELETE("/items/:id", d.CartHandler.RemoveLineItem)

	orders := authed.Group("/orders")
	orders.GET("", d.CartHandler.ListOrders)
	orders.GET("/:id", d.CartHandler.GetOrder)
	orders.DELETE("/:id", d.CartHandler.CancelOrder)
	orders.POST("/:id/checkout", d.CartHandler.Checkout)

	payments := authed.Group("/paymenttypes")
	payments.GET("", d.PaymentTypeHandler.ListPaymentTypes)
	payments.POST("", d.PaymentTypeHandler.CreatePaymentType)
	payments.DELETE("/:id", d.PaymentTypeHandler.DeletePaymentType)
}
