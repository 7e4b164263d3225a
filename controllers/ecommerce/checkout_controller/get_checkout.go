package checkout_controller

import (
	"net/http"

	"github.com/Modeva-Ecommerce/modeva-storefront/middleware"
	"github.com/Modeva-Ecommerce/modeva-storefront/models"
	"github.com/Modeva-Ecommerce/modeva-storefront/services"
	"github.com/gin-gonic/gin"
)

// GetCheckout godoc
// @Summary Get checkout
// @Description Starts or resumes the device's checkout wizard and returns it together with the current cart.
// @Tags Checkout
// @Produce json
// @Success 200 {object} models.ApiResponse{data=models.CheckoutView}
// @Failure 500 {object} models.ApiResponse "Network error"
// @Router /checkout [get]
func GetCheckout(checkout *services.CheckoutService) gin.HandlerFunc {
	return func(c *gin.Context) {
		view, err := checkout.View(c.Request.Context(), middleware.ShopperFrom(c))
		if err != nil {
			models.RespondError(c, err)
			return
		}
		c.JSON(http.StatusOK, models.SuccessResponse(c, "Checkout retrieved", view))
	}
}
