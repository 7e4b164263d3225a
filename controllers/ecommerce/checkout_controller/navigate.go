package checkout_controller

import (
	"net/http"

	"github.com/Modeva-Ecommerce/modeva-storefront/middleware"
	"github.com/Modeva-Ecommerce/modeva-storefront/models"
	"github.com/Modeva-Ecommerce/modeva-storefront/services"
	"github.com/gin-gonic/gin"
)

// Next godoc
// @Summary Advance checkout step
// @Description Validates the current step and moves forward. On failure the step is unchanged and the missing fields are listed.
// @Tags Checkout
// @Produce json
// @Success 200 {object} models.ApiResponse{data=models.CheckoutView}
// @Failure 400 {object} models.ApiResponse{data=models.CheckoutView} "Step incomplete"
// @Failure 409 {object} models.ApiResponse "Checkout finished or submitting"
// @Router /checkout/next [post]
func Next(checkout *services.CheckoutService) gin.HandlerFunc {
	return step(checkout.Next)
}

// Back godoc
// @Summary Go back one checkout step
// @Description Never validates. Has no effect on the first step.
// @Tags Checkout
// @Produce json
// @Success 200 {object} models.ApiResponse{data=models.CheckoutView}
// @Failure 409 {object} models.ApiResponse "Checkout finished or submitting"
// @Router /checkout/back [post]
func Back(checkout *services.CheckoutService) gin.HandlerFunc {
	return step(checkout.Back)
}

func step(move func(models.Shopper) (models.CheckoutView, error)) gin.HandlerFunc {
	return func(c *gin.Context) {
		view, err := move(middleware.ShopperFrom(c))
		if err != nil {
			models.RespondErrorWith(c, err, view)
			return
		}
		c.JSON(http.StatusOK, models.SuccessResponse(c, "Checkout updated", view))
	}
}
