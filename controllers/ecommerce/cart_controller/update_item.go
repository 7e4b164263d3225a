package cart_controller

import (
	"net/http"

	"github.com/Modeva-Ecommerce/modeva-storefront/middleware"
	"github.com/Modeva-Ecommerce/modeva-storefront/models"
	"github.com/Modeva-Ecommerce/modeva-storefront/services"
	"github.com/gin-gonic/gin"
)

// UpdateItem godoc
// @Summary Update item quantity
// @Description Sets the quantity of one cart line. A quantity of 0 removes the line.
// @Tags Cart
// @Accept json
// @Produce json
// @Param item body models.UpdateItemRequest true "Line and new quantity"
// @Success 200 {object} models.ApiResponse{data=models.CartView} "Cart updated"
// @Failure 400 {object} models.ApiResponse "Invalid request"
// @Failure 404 {object} models.ApiResponse "Cart item not found"
// @Failure 500 {object} models.ApiResponse "Network error"
// @Router /cart/items [patch]
func UpdateItem(carts *services.CartStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req models.UpdateItemRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			models.RespondError(c, models.NewBindingError(err))
			return
		}

		shopper := middleware.ShopperFrom(c)
		cart, err := carts.UpdateQuantity(c.Request.Context(), shopper, req.Key(), *req.Quantity)
		if err != nil {
			models.RespondError(c, err)
			return
		}
		c.JSON(http.StatusOK, models.SuccessResponse(c, "Cart updated", models.NewCartView(cart, !shopper.Authenticated())))
	}
}
