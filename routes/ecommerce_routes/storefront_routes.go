package ecommerce_routes

import (
	"github.com/Modeva-Ecommerce/modeva-storefront/controllers/ecommerce/cart_controller"
	"github.com/Modeva-Ecommerce/modeva-storefront/controllers/ecommerce/checkout_controller"
	"github.com/Modeva-Ecommerce/modeva-storefront/controllers/ecommerce/order_controller"
	"github.com/Modeva-Ecommerce/modeva-storefront/controllers/ecommerce/payment_controller"
	"github.com/Modeva-Ecommerce/modeva-storefront/middleware"
	"github.com/gin-gonic/gin"
)

func SetupStorefrontRoutes(router *gin.RouterGroup, d *Deps) {
	limited := middleware.RateLimiter(d.Redis, d.RateLimit, d.RateWindow, d.Logger)

	cart := router.Group("/cart")
	{
		cart.GET("", cart_controller.GetCart(d.Carts))
		cart.GET("/count", cart_controller.GetCount(d.Carts))
		cart.GET("/events", cart_controller.Events(d.Broker))
		cart.POST("/items", cart_controller.AddItem(d.Carts))
		cart.PATCH("/items", cart_controller.UpdateItem(d.Carts))
	}

	checkout := router.Group("/checkout")
	{
		checkout.GET("", checkout_controller.GetCheckout(d.Checkout))
		checkout.PATCH("/draft", checkout_controller.UpdateDraft(d.Checkout))
		checkout.POST("/next", checkout_controller.Next(d.Checkout))
		checkout.POST("/back", checkout_controller.Back(d.Checkout))
		checkout.GET("/preview", checkout_controller.GetPreview(d.Checkout))
		checkout.POST("/submit", limited, checkout_controller.Submit(d.Checkout, d.Logger))
	}

	router.GET("/orders/confirmation", order_controller.GetConfirmation(d.Store))

	// Gateway callbacks arrive as top-level browser navigations
	payment := router.Group("/payment")
	payment.Use(limited)
	{
		payment.GET("/redirect", payment_controller.Redirect(d.Payments, d.Logger))
		payment.GET("/status", payment_controller.Status(d.Payments, d.StorefrontURL))
		payment.GET("/failure", payment_controller.Failure(d.Payments, d.StorefrontURL))
	}
}
