package middleware

import (
	"net/http"
	"time"

	"github.com/Modeva-Ecommerce/modeva-storefront/models"
	"github.com/Modeva-Ecommerce/modeva-storefront/utils"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	DeviceCookie  = "device_id"
	SessionCookie = "session_token"

	deviceCookieMaxAge = 365 * 24 * time.Hour

	shopperKey = "shopper"
	tokenKey   = "sessionToken"
)

// IdentityResolver turns a session token into a user id.
type IdentityResolver interface {
	ResolveIdentity(token string) (int64, bool)
}

// DeviceSession attaches a Shopper to every request. It never rejects a
// request: no device cookie gets a fresh device id, and an unreadable
// session token is a guest.
func DeviceSession(resolver IdentityResolver, secure bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		deviceID, err := c.Cookie(DeviceCookie)
		if err != nil || !validDeviceID(deviceID) {
			deviceID = uuid.Must(uuid.NewV7()).String()
			c.SetSameSite(http.SameSiteLaxMode)
			c.SetCookie(DeviceCookie, deviceID, int(deviceCookieMaxAge.Seconds()), "/", "", secure, true)
		}

		// Try cookie first, then the Authorization header
		token, err := c.Cookie(SessionCookie)
		if err != nil || token == "" {
			token, _ = utils.ExtractTokenFromHeader(c.GetHeader("Authorization"))
		}

		shopper := models.Shopper{DeviceID: deviceID}
		if token != "" && resolver != nil {
			if userID, ok := resolver.ResolveIdentity(token); ok {
				shopper.UserID = userID
			}
		}

		c.Set(shopperKey, shopper)
		c.Set(tokenKey, token)
		c.Next()
	}
}

func validDeviceID(id string) bool {
	if id == "" {
		return false
	}
	_, err := uuid.Parse(id)
	return err == nil
}

// ShopperFrom returns the shopper set by DeviceSession.
func ShopperFrom(c *gin.Context) models.Shopper {
	if v, ok := c.Get(shopperKey); ok {
		if s, ok := v.(models.Shopper); ok {
			return s
		}
	}
	return models.Shopper{}
}

// SetSessionCookie stores the session token for ttl.
func SetSessionCookie(c *gin.Context, token string, ttl time.Duration, secure bool) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(SessionCookie, token, int(ttl.Seconds()), "/", "", secure, true)
}

// ClearSessionCookie must match the attributes used when setting it.
func ClearSessionCookie(c *gin.Context, secure bool) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(SessionCookie, "", -1, "/", "", secure, true)
}
