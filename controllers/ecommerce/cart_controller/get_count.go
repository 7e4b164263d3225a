package cart_controller

import (
	"net/http"

	"github.com/Modeva-Ecommerce/modeva-storefront/middleware"
	"github.com/Modeva-Ecommerce/modeva-storefront/models"
	"github.com/Modeva-Ecommerce/modeva-storefront/services"
	"github.com/gin-gonic/gin"
)

type countView struct {
	Count  int  `json:"count"`
	Cached bool `json:"cached"`
}

// GetCount godoc
// @Summary Cart item count
// @Description Sum of quantities across all lines. With cached=true the advisory badge value is returned without reading the cart.
// @Tags Cart
// @Produce json
// @Param cached query bool false "Return the cached badge value"
// @Success 200 {object} models.ApiResponse{data=object{count=int,cached=bool}}
// @Failure 500 {object} models.ApiResponse "Network error"
// @Router /cart/count [get]
func GetCount(carts *services.CartStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		shopper := middleware.ShopperFrom(c)
		ctx := c.Request.Context()

		if c.Query("cached") == "true" {
			n := carts.CachedItemCount(ctx, shopper.DeviceID)
			c.JSON(http.StatusOK, models.SuccessResponse(c, "Cart count retrieved", countView{Count: n, Cached: true}))
			return
		}

		n, err := carts.TotalItemCount(ctx, shopper)
		if err != nil {
			models.RespondError(c, err)
			return
		}
		c.JSON(http.StatusOK, models.SuccessResponse(c, "Cart count retrieved", countView{Count: n}))
	}
}
