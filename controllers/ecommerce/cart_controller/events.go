package cart_controller

import (
	"io"
	"time"

	"github.com/Modeva-Ecommerce/modeva-storefront/middleware"
	"github.com/Modeva-Ecommerce/modeva-storefront/services"
	"github.com/gin-gonic/gin"
)

const (
	EventCartChanged = "cart-changed"
	keepAlive        = 25 * time.Second
)

// Events godoc
// @Summary Cart change stream
// @Description Server-sent events. A "cart-changed" event with no payload is sent whenever this device's cart changes; listeners re-read the count themselves.
// @Tags Cart
// @Produce text/event-stream
// @Success 200 {string} string "event stream"
// @Router /cart/events [get]
func Events(broker *services.CartBroker) gin.HandlerFunc {
	return func(c *gin.Context) {
		shopper := middleware.ShopperFrom(c)
		signals, cancel := broker.Subscribe(shopper.DeviceID)
		defer cancel()

		c.Header("Content-Type", "text/event-stream")
		c.Header("Cache-Control", "no-cache")
		c.Header("Connection", "keep-alive")
		c.Header("X-Accel-Buffering", "no")

		ticker := time.NewTicker(keepAlive)
		defer ticker.Stop()

		c.SSEvent("ready", "")
		c.Writer.Flush()

		c.Stream(func(w io.Writer) bool {
			select {
			case <-c.Request.Context().Done():
				return false
			case <-signals:
				c.SSEvent(EventCartChanged, "")
				return true
			case <-ticker.C:
				c.SSEvent("ping", "")
				return true
			}
		})
	}
}
