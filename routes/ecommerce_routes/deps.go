package ecommerce_routes

import (
	"time"

	"github.com/Modeva-Ecommerce/modeva-storefront/device_store"
	"github.com/Modeva-Ecommerce/modeva-storefront/services"
	"github.com/Modeva-Ecommerce/modeva-storefront/utils"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Deps is everything the storefront handlers close over.
type Deps struct {
	Backend  services.Marketplace
	Store    device_store.Store
	Tokens   *utils.SessionTokens
	Carts    *services.CartStore
	Broker   *services.CartBroker
	Checkout *services.CheckoutService
	Payments *services.PaymentVerifier
	Redis    *redis.Client // nil disables rate limiting
	Logger   *zap.Logger

	SecureCookies bool
	StorefrontURL string
	RateLimit     int
	RateWindow    time.Duration
}
