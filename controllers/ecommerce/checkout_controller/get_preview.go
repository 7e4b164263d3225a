package checkout_controller

import (
	"net/http"

	"github.com/Modeva-Ecommerce/modeva-storefront/middleware"
	"github.com/Modeva-Ecommerce/modeva-storefront/models"
	"github.com/Modeva-Ecommerce/modeva-storefront/services"
	"github.com/gin-gonic/gin"
)

// GetPreview godoc
// @Summary Price preview
// @Description Advisory totals for the current cart and delivery zone. When the marketplace is unreachable the last preview is returned with stale=true, or the local subtotal with calculating=true.
// @Tags Checkout
// @Produce json
// @Success 200 {object} models.ApiResponse{data=models.PricePreview}
// @Failure 500 {object} models.ApiResponse "Network error"
// @Router /checkout/preview [get]
func GetPreview(checkout *services.CheckoutService) gin.HandlerFunc {
	return func(c *gin.Context) {
		preview, err := checkout.Preview(c.Request.Context(), middleware.ShopperFrom(c))
		if err != nil {
			models.RespondError(c, err)
			return
		}
		c.JSON(http.StatusOK, models.SuccessResponse(c, "Preview calculated", preview))
	}
}
