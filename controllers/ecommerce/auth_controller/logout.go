package auth_controller

import (
	"net/http"

	"github.com/Modeva-Ecommerce/modeva-storefront/middleware"
	"github.com/Modeva-Ecommerce/modeva-storefront/models"
	"github.com/gin-gonic/gin"
)

// Logout godoc
// @Summary Log out
// @Description Clears the session_token cookie. The device keeps its id, so the shopper continues as a guest with an empty guest cart.
// @Tags Auth
// @Produce json
// @Success 200 {object} models.ApiResponse "Logged out"
// @Router /auth/logout [post]
func Logout(secure bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		// must match name, path, secure and httpOnly used when set
		middleware.ClearSessionCookie(c, secure)
		c.JSON(http.StatusOK, models.SuccessResponse(c, "Logged out", nil))
	}
}
