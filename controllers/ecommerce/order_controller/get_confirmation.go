package order_controller

import (
	"net/http"

	"github.com/Modeva-Ecommerce/modeva-storefront/device_store"
	"github.com/Modeva-Ecommerce/modeva-storefront/middleware"
	"github.com/Modeva-Ecommerce/modeva-storefront/models"
	"github.com/Modeva-Ecommerce/modeva-storefront/services"
	"github.com/gin-gonic/gin"
)

// GetConfirmation godoc
// @Summary Order confirmation
// @Description Returns the last confirmed order for this device. Multi-order placements are shown as one order with combined totals.
// @Tags Orders
// @Produce json
// @Success 200 {object} models.ApiResponse{data=models.AggregatedOrder}
// @Failure 404 {object} models.ApiResponse "No recent order"
// @Router /orders/confirmation [get]
func GetConfirmation(store device_store.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		shopper := middleware.ShopperFrom(c)
		order, err := services.LoadConfirmation(c.Request.Context(), store, shopper.DeviceID)
		if err != nil {
			models.RespondError(c, err)
			return
		}
		c.JSON(http.StatusOK, models.SuccessResponse(c, "Order retrieved", order))
	}
}
