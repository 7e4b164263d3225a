package checkout_controller

import (
	"net/http"

	"github.com/Modeva-Ecommerce/modeva-storefront/middleware"
	"github.com/Modeva-Ecommerce/modeva-storefront/models"
	"github.com/Modeva-Ecommerce/modeva-storefront/services"
	"github.com/Modeva-Ecommerce/modeva-storefront/utils"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Submit godoc
// @Summary Place order
// @Description Places the order for the current draft. Cash on delivery ends on the confirmation page; eSewa and Khalti return next=/api/v1/payment/redirect. A repeated submit while one is in flight is refused with 409.
// @Tags Checkout
// @Produce json
// @Success 200 {object} models.ApiResponse{data=models.CheckoutView} "Order placed"
// @Failure 400 {object} models.ApiResponse{data=models.CheckoutView} "Validation failed"
// @Failure 409 {object} models.ApiResponse{data=models.CheckoutView} "Submission in flight"
// @Failure 500 {object} models.ApiResponse{data=models.CheckoutView} "Order or payment failed"
// @Router /checkout/submit [post]
func Submit(checkout *services.CheckoutService, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		shopper := middleware.ShopperFrom(c)
		client := utils.DescribeClient(c)

		view, err := checkout.Submit(c.Request.Context(), shopper, client.DeviceType)
		if err != nil {
			logger.Warn("checkout submit failed",
				zap.String("device_id", shopper.DeviceID),
				zap.String("step", string(view.Step)),
				zap.String("ip", client.IP),
				zap.String("browser", client.Browser),
				zap.String("os", client.OS),
				zap.Error(err),
			)
			models.RespondErrorWith(c, err, view)
			return
		}

		logger.Info("checkout submitted",
			zap.String("device_id", shopper.DeviceID),
			zap.String("step", string(view.Step)),
			zap.String("ip", client.IP),
			zap.String("device_type", client.DeviceType),
		)

		message := "Order placed"
		if view.Step == models.StepRedirecting {
			message = "Redirecting to payment"
		}
		c.JSON(http.StatusOK, models.SuccessResponse(c, message, view))
	}
}
