package cart_controller

import (
	"net/http"

	"github.com/Modeva-Ecommerce/modeva-storefront/middleware"
	"github.com/Modeva-Ecommerce/modeva-storefront/models"
	"github.com/Modeva-Ecommerce/modeva-storefront/services"
	"github.com/gin-gonic/gin"
)

// GetCart godoc
// @Summary Get cart
// @Description Returns the marketplace cart for a logged-in shopper or the device's guest cart otherwise. Also refreshes the cached item count.
// @Tags Cart
// @Produce json
// @Success 200 {object} models.ApiResponse{data=models.CartView} "Cart retrieved"
// @Failure 500 {object} models.ApiResponse "Network error"
// @Router /cart [get]
func GetCart(carts *services.CartStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		shopper := middleware.ShopperFrom(c)
		cart, err := carts.ReadCart(c.Request.Context(), shopper)
		if err != nil {
			models.RespondError(c, err)
			return
		}
		c.JSON(http.StatusOK, models.SuccessResponse(c, "Cart retrieved", models.NewCartView(cart, !shopper.Authenticated())))
	}
}
