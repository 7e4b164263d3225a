// @title Modeva Storefront API
// @version 1.0
// @description Cart, checkout and payment gateway for the Modeva storefront
// @host localhost:8081
// @BasePath /api/v1
// @schemes http
package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/Modeva-Ecommerce/modeva-storefront/config"
	_ "github.com/Modeva-Ecommerce/modeva-storefront/docs"
	"github.com/Modeva-Ecommerce/modeva-storefront/device_store"
	"github.com/Modeva-Ecommerce/modeva-storefront/routes/ecommerce_routes"
	"github.com/Modeva-Ecommerce/modeva-storefront/services"
	"github.com/Modeva-Ecommerce/modeva-storefront/utils"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const sweepInterval = time.Minute

func init() {
	_ = godotenv.Load()
}

func main() {
	cfg := config.Load()

	logger, err := config.NewLogger(cfg)
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	tokens, err := utils.NewSessionTokens(cfg.SessionSecret, cfg.SessionTTL)
	if err != nil {
		logger.Fatal("SESSION_SECRET environment variable not set", zap.Error(err))
	}

	redisClient := connectRedis(cfg, logger)
	if redisClient != nil {
		defer redisClient.Close()
	}

	store, db := openStore(cfg, redisClient, logger)
	defer config.CloseDatabase(db)

	backend := services.NewMarketplaceClient(cfg.BackendURL, cfg.BackendTimeout, logger)
	broker := services.NewCartBroker()
	carts := services.NewCartStore(backend, store, tokens, broker, logger)
	sessions := services.NewCheckoutSessions(cfg.CheckoutIdleTTL)
	checkout := services.NewCheckoutService(backend, carts, sessions, store, cfg.SuccessHold, logger)
	payments := services.NewPaymentVerifier(backend, store, cfg.SuccessHold, logger)

	go sessions.Run(ctx, sweepInterval)

	router := ecommerce_routes.NewRouter(&ecommerce_routes.Deps{
		Backend:       backend,
		Store:         store,
		Tokens:        tokens,
		Carts:         carts,
		Broker:        broker,
		Checkout:      checkout,
		Payments:      payments,
		Redis:         redisClient,
		Logger:        logger,
		SecureCookies: cfg.IsProduction(),
		StorefrontURL: cfg.StorefrontURL,
		RateLimit:     cfg.RateLimit,
		RateWindow:    cfg.RateWindow,
	}, cfg.FrontendOrigins)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("storefront gateway listening",
			zap.String("addr", srv.Addr),
			zap.String("backend", cfg.BackendURL),
			zap.String("store", cfg.StoreDriver),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("server failed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown failed", zap.Error(err))
	}
}

// connectRedis is required for the redis store driver and optional
// otherwise, where it only backs rate limiting.
func connectRedis(cfg *config.Config, logger *zap.Logger) *redis.Client {
	if cfg.RedisURL == "" {
		return nil
	}
	ctx, cancel := config.WithTimeout()
	defer cancel()

	client, err := config.ConnectRedis(ctx, cfg.RedisURL)
	if err != nil {
		if cfg.StoreDriver == "redis" {
			logger.Fatal("failed to connect to Redis", zap.Error(err))
		}
		logger.Warn("redis unavailable, rate limiting disabled", zap.Error(err))
		return nil
	}
	logger.Info("connected to Redis")
	return client
}

func openStore(cfg *config.Config, redisClient *redis.Client, logger *zap.Logger) (device_store.Store, *gorm.DB) {
	switch cfg.StoreDriver {
	case "memory":
		logger.Warn("using in-memory device store; state is lost on restart")
		return device_store.NewMemoryStore(), nil
	case "postgres":
		db, err := config.OpenDatabase(cfg)
		if err != nil {
			logger.Fatal("failed to open database", zap.Error(err))
		}
		store := device_store.NewGormStore(db)
		if err := store.Migrate(); err != nil {
			logger.Fatal("failed to migrate device store", zap.Error(err))
		}
		logger.Info("connected to Postgres")
		return store, db
	case "redis":
		return device_store.NewRedisStore(redisClient), nil
	default:
		logger.Fatal("unknown STORE_DRIVER", zap.String("driver", cfg.StoreDriver))
		return nil, nil
	}
}
