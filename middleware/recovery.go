package middleware

import (
	"net/http"
	"strings"

	"github.com/Modeva-Ecommerce/modeva-storefront/models"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const somethingWentWrong = "Something went wrong"

const fallbackPage = `<!DOCTYPE html>
<html lang="en">
<head><meta charset="UTF-8"><title>Something went wrong</title></head>
<body style="font-family: sans-serif; text-align: center; padding: 48px;">
  <h1>Something went wrong</h1>
  <p>Please go back and try again.</p>
</body>
</html>`

// Recovery catches panics and renders a generic failure, as a page for
// browsers and as the JSON envelope otherwise. No recovery is attempted.
func Recovery(logger *zap.Logger) gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered any) {
		logger.Error("panic recovered",
			zap.Any("panic", recovered),
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Stack("stack"),
		)
		if strings.Contains(c.GetHeader("Accept"), "text/html") {
			c.Data(http.StatusInternalServerError, "text/html; charset=utf-8", []byte(fallbackPage))
			c.Abort()
			return
		}
		c.AbortWithStatusJSON(http.StatusInternalServerError,
			models.ErrorResponse(c, models.NewApiError(http.StatusInternalServerError, somethingWentWrong, nil)))
	})
}
