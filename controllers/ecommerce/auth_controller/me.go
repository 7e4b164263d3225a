package auth_controller

import (
	"net/http"

	"github.com/Modeva-Ecommerce/modeva-storefront/middleware"
	"github.com/Modeva-Ecommerce/modeva-storefront/models"
	"github.com/Modeva-Ecommerce/modeva-storefront/services"
	"github.com/gin-gonic/gin"
)

// Me godoc
// @Summary Current identity
// @Description Returns the device id and, when the session token resolves, the user id. Never fails: an unreadable token is a guest.
// @Tags Auth
// @Produce json
// @Success 200 {object} models.ApiResponse{data=models.SessionView}
// @Router /auth/me [get]
func Me(carts *services.CartStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		shopper := middleware.ShopperFrom(c)
		c.JSON(http.StatusOK, models.SuccessResponse(c, "Session retrieved", models.SessionView{
			DeviceID:      shopper.DeviceID,
			UserID:        shopper.UserID,
			Authenticated: shopper.Authenticated(),
			ItemCount:     carts.CachedItemCount(c.Request.Context(), shopper.DeviceID),
		}))
	}
}
