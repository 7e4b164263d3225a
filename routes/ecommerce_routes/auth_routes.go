package ecommerce_routes

import (
	"github.com/Modeva-Ecommerce/modeva-storefront/controllers/ecommerce/auth_controller"
	"github.com/Modeva-Ecommerce/modeva-storefront/middleware"
	"github.com/gin-gonic/gin"
)

// SetupAuthRoutes sets up login, logout and identity routes
func SetupAuthRoutes(router *gin.RouterGroup, d *Deps) {
	auth := router.Group("/auth")
	{
		auth.POST("/login",
			middleware.RateLimiter(d.Redis, d.RateLimit, d.RateWindow, d.Logger),
			auth_controller.Login(d.Backend, d.Carts, d.Tokens, d.SecureCookies, d.Logger))
		auth.POST("/logout", auth_controller.Logout(d.SecureCookies))
		auth.GET("/me", auth_controller.Me(d.Carts))
	}
}
