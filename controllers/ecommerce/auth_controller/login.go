package auth_controller

import (
	"net/http"

	"github.com/Modeva-Ecommerce/modeva-storefront/middleware"
	"github.com/Modeva-Ecommerce/modeva-storefront/models"
	"github.com/Modeva-Ecommerce/modeva-storefront/services"
	"github.com/Modeva-Ecommerce/modeva-storefront/utils"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Login godoc
// @Summary Log in
// @Description Delegates the credential check to the marketplace, issues the session_token cookie, then merges the device's guest cart into the user's cart. Lines that fail to merge are skipped and counted in "merge".
// @Tags Auth
// @Accept json
// @Produce json
// @Param credentials body models.LoginRequest true "Email and password"
// @Success 200 {object} models.ApiResponse{data=models.SessionView} "Logged in"
// @Failure 400 {object} models.ApiResponse "Invalid request"
// @Failure 401 {object} models.ApiResponse "Invalid credentials"
// @Failure 500 {object} models.ApiResponse "Network error"
// @Router /auth/login [post]
func Login(backend services.Marketplace, carts *services.CartStore, tokens *utils.SessionTokens, secure bool, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req models.LoginRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			models.RespondError(c, models.NewBindingError(err))
			return
		}

		ctx := c.Request.Context()
		user, err := backend.Login(ctx, req)
		if err != nil {
			models.RespondError(c, err)
			return
		}

		token, err := tokens.Issue(user.UserID, user.Name)
		if err != nil {
			logger.Error("failed to issue session token", zap.Int64("user_id", user.UserID), zap.Error(err))
			models.RespondError(c, models.NewApiError(http.StatusInternalServerError, "Failed to start session", nil))
			return
		}
		middleware.SetSessionCookie(c, token, tokens.TTL(), secure)

		shopper := middleware.ShopperFrom(c)
		shopper.UserID = user.UserID

		// Runs exactly once per successful login
		report := carts.MergeGuestIntoUser(ctx, shopper.DeviceID, user.UserID)

		count, err := carts.TotalItemCount(ctx, shopper)
		if err != nil {
			count = carts.CachedItemCount(ctx, shopper.DeviceID)
		}

		client := utils.DescribeClient(c)
		logger.Info("shopper logged in",
			zap.Int64("user_id", user.UserID),
			zap.String("device_id", shopper.DeviceID),
			zap.String("ip", client.IP),
			zap.String("device_type", client.DeviceType),
			zap.String("browser", client.Browser),
			zap.String("os", client.OS),
			zap.Int("merged", report.Merged),
			zap.Int("merge_failed", report.Failed),
		)

		c.JSON(http.StatusOK, models.SuccessResponse(c, "Logged in", models.SessionView{
			DeviceID:      shopper.DeviceID,
			UserID:        user.UserID,
			Name:          user.Name,
			Authenticated: true,
			Merge:         &report,
			ItemCount:     count,
			Token:         token,
		}))
	}
}
