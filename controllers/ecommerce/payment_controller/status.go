package payment_controller

import (
	"net/http"
	"strings"

	"github.com/Modeva-Ecommerce/modeva-storefront/middleware"
	"github.com/Modeva-Ecommerce/modeva-storefront/models"
	"github.com/Modeva-Ecommerce/modeva-storefront/services"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/render"
)

// Status godoc
// @Summary Payment landing
// @Description Gateway success URL. eSewa returns ?data=<base64>, Khalti returns ?pidx=<id>. The marketplace decides whether the payment went through; a failed verification is still a 200 with success=false.
// @Tags Payment
// @Produce json,html
// @Param data query string false "eSewa payload"
// @Param pidx query string false "Khalti payment id"
// @Success 200 {object} models.ApiResponse{data=models.PaymentStatusView}
// @Router /payment/status [get]
func Status(verifier *services.PaymentVerifier, storefrontURL string) gin.HandlerFunc {
	return func(c *gin.Context) {
		shopper := middleware.ShopperFrom(c)
		view := verifier.Verify(c.Request.Context(), shopper.DeviceID, services.PaymentCallback{
			Data: c.Query("data"),
			Pidx: c.Query("pidx"),
		})
		respond(c, view, storefrontURL)
	}
}

// Failure godoc
// @Summary Payment cancelled
// @Description Gateway failure URL. Nothing is verified.
// @Tags Payment
// @Produce json,html
// @Success 200 {object} models.ApiResponse{data=models.PaymentStatusView}
// @Router /payment/failure [get]
func Failure(verifier *services.PaymentVerifier, storefrontURL string) gin.HandlerFunc {
	return func(c *gin.Context) {
		shopper := middleware.ShopperFrom(c)
		view := verifier.Verify(c.Request.Context(), shopper.DeviceID, services.PaymentCallback{Failed: true})
		respond(c, view, storefrontURL)
	}
}

func respond(c *gin.Context, view models.PaymentStatusView, storefrontURL string) {
	if !strings.Contains(c.GetHeader("Accept"), "text/html") {
		c.JSON(http.StatusOK, models.SuccessResponse(c, view.Message, view))
		return
	}

	data := statusPageData{
		Success: view.Success,
		Title:   "Payment failed",
		Message: view.Message,
		NextURL: strings.TrimRight(storefrontURL, "/") + view.Next,
	}
	if view.Success {
		data.Title = "Payment successful"
		data.RefreshS = (view.RedirectAfterMs + 999) / 1000
	}
	if view.Order != nil {
		data.OrderID = view.Order.DisplayID
	}
	c.Render(http.StatusOK, render.HTML{Template: statusPage, Name: "status", Data: data})
}
