package checkout_controller

import (
	"net/http"

	"github.com/Modeva-Ecommerce/modeva-storefront/middleware"
	"github.com/Modeva-Ecommerce/modeva-storefront/models"
	"github.com/Modeva-Ecommerce/modeva-storefront/services"
	"github.com/gin-gonic/gin"
)

// UpdateDraft godoc
// @Summary Edit checkout draft
// @Description Applies a partial edit. Omitted fields are left unchanged. Refused while an order is being placed.
// @Tags Checkout
// @Accept json
// @Produce json
// @Param draft body models.DraftPatch true "Fields to change"
// @Success 200 {object} models.ApiResponse{data=models.CheckoutView}
// @Failure 400 {object} models.ApiResponse "Invalid request"
// @Failure 409 {object} models.ApiResponse "Submission in flight"
// @Router /checkout/draft [patch]
func UpdateDraft(checkout *services.CheckoutService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var patch models.DraftPatch
		if err := c.ShouldBindJSON(&patch); err != nil {
			models.RespondError(c, models.NewBindingError(err))
			return
		}
		if patch.PaymentMethod != nil && !patch.PaymentMethod.Valid() {
			models.RespondError(c, models.NewValidationError("Unsupported payment method", "paymentMethod"))
			return
		}

		view, err := checkout.EditDraft(middleware.ShopperFrom(c), patch)
		if err != nil {
			models.RespondErrorWith(c, err, view)
			return
		}
		c.JSON(http.StatusOK, models.SuccessResponse(c, "Checkout updated", view))
	}
}
