package payment_controller

import (
	"net/http"

	"github.com/Modeva-Ecommerce/modeva-storefront/middleware"
	"github.com/Modeva-Ecommerce/modeva-storefront/models"
	"github.com/Modeva-Ecommerce/modeva-storefront/services"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/render"
	"go.uber.org/zap"
)

// Redirect godoc
// @Summary Hand off to the payment gateway
// @Description Sends the browser to the gateway for the order placed on this device. eSewa gets an auto-submitting form with the signed fields; Khalti gets a 303 to its payment URL.
// @Tags Payment
// @Produce html
// @Success 200 {string} string "eSewa form"
// @Success 303 {string} string "Khalti redirect"
// @Failure 404 {object} models.ApiResponse "No pending payment"
// @Router /payment/redirect [get]
func Redirect(verifier *services.PaymentVerifier, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		shopper := middleware.ShopperFrom(c)
		handoff, err := verifier.Handoff(c.Request.Context(), shopper.DeviceID)
		if err != nil {
			models.RespondError(c, err)
			return
		}

		logger.Info("handing off to payment gateway",
			zap.String("device_id", shopper.DeviceID),
			zap.String("gateway", string(handoff.Gateway)),
			zap.String("order_id", handoff.OrderID),
		)

		switch handoff.Gateway {
		case models.PaymentKhalti:
			c.Redirect(http.StatusSeeOther, handoff.ActionURL)
		default:
			c.Render(http.StatusOK, render.HTML{Template: esewaFormPage, Name: "esewa", Data: handoff})
		}
	}
}
