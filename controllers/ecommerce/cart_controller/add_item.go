package cart_controller

import (
	"net/http"

	"github.com/Modeva-Ecommerce/modeva-storefront/middleware"
	"github.com/Modeva-Ecommerce/modeva-storefront/models"
	"github.com/Modeva-Ecommerce/modeva-storefront/services"
	"github.com/gin-gonic/gin"
)

// AddItem godoc
// @Summary Add item to cart
// @Description Adds a product variant. A line with the same product, color and storage has its quantity increased instead of being duplicated.
// @Tags Cart
// @Accept json
// @Produce json
// @Param item body models.AddItemRequest true "Item to add"
// @Success 200 {object} models.ApiResponse{data=models.CartView} "Item added"
// @Failure 400 {object} models.ApiResponse "Invalid request"
// @Failure 500 {object} models.ApiResponse "Network error"
// @Router /cart/items [post]
func AddItem(carts *services.CartStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req models.AddItemRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			models.RespondError(c, models.NewBindingError(err))
			return
		}

		shopper := middleware.ShopperFrom(c)
		cart, err := carts.AddLine(c.Request.Context(), shopper, req.Product(), req.Quantity, req.Color, req.Storage)
		if err != nil {
			models.RespondError(c, err)
			return
		}
		c.JSON(http.StatusOK, models.SuccessResponse(c, "Item added to cart", models.NewCartView(cart, !shopper.Authenticated())))
	}
}
