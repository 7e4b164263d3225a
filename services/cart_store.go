package services

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/Modeva-Ecommerce/modeva-storefront/device_store"
	"github.com/Modeva-Ecommerce/modeva-storefront/models"
	"github.com/Modeva-Ecommerce/modeva-storefront/utils"
	"go.uber.org/zap"
)

// CartStore is the single read/write surface for "what would be purchased
// now". Exactly one backing store is authoritative per shopper: the
// marketplace cart when the shopper is authenticated, the device store
// otherwise.
type CartStore struct {
	backend Marketplace
	store   device_store.Store
	tokens  *utils.SessionTokens
	broker  *CartBroker
	logger  *zap.Logger
}

func NewCartStore(backend Marketplace, store device_store.Store, tokens *utils.SessionTokens, broker *CartBroker, logger *zap.Logger) *CartStore {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CartStore{
		backend: backend,
		store:   store,
		tokens:  tokens,
		broker:  broker,
		logger:  logger,
	}
}

// ResolveIdentity decodes a session token into a positive user id. Any
// failure means guest and is never reported as an error.
func (s *CartStore) ResolveIdentity(token string) (int64, bool) {
	if s.tokens == nil {
		return 0, false
	}
	return s.tokens.Resolve(token)
}

// ReadCart returns the authoritative cart and refreshes the cached badge
// count.
func (s *CartStore) ReadCart(ctx context.Context, shopper models.Shopper) (models.Cart, error) {
	var (
		cart models.Cart
		err  error
	)
	if shopper.Authenticated() {
		cart, err = s.backend.GetCart(ctx, shopper.UserID)
		if err != nil {
			return models.Cart{}, err
		}
	} else {
		cart = s.readGuest(ctx, shopper.DeviceID)
	}
	s.writeCount(ctx, shopper.DeviceID, cart.ItemCount())
	return cart, nil
}

// AddLine adds quantity of a product variant. For authenticated shoppers the
// server's response is the new cart; nothing is guessed locally.
func (s *CartStore) AddLine(ctx context.Context, shopper models.Shopper, product models.Product, quantity int, color, storage string) (models.Cart, error) {
	if product.ID <= 0 {
		return models.Cart{}, models.NewValidationError("A valid product is required", "productId")
	}
	if quantity < 1 {
		return models.Cart{}, models.NewValidationError("Quantity must be at least 1", "quantity")
	}

	var cart models.Cart
	if shopper.Authenticated() {
		updated, err := s.backend.AddCartItem(ctx, shopper.UserID, product.ID, quantity, color, storage)
		if err != nil {
			return models.Cart{}, err
		}
		cart = updated
	} else {
		if err := requireDevice(shopper); err != nil {
			return models.Cart{}, err
		}
		if product.UnitPrice.IsNegative() {
			return models.Cart{}, models.NewValidationError("Unit price cannot be negative", "unitPrice")
		}
		cart = s.readGuest(ctx, shopper.DeviceID)
		cart.AddLine(product, quantity, color, storage)
		if err := s.writeGuest(ctx, shopper.DeviceID, cart); err != nil {
			return models.Cart{}, err
		}
	}

	s.changed(ctx, shopper.DeviceID, cart)
	return cart, nil
}

// UpdateQuantity sets the quantity of the line identified by key. Zero (or
// less) removes the line.
func (s *CartStore) UpdateQuantity(ctx context.Context, shopper models.Shopper, key models.LineKey, quantity int) (models.Cart, error) {
	if quantity < 0 {
		quantity = 0
	}

	var cart models.Cart
	if shopper.Authenticated() {
		current, err := s.backend.GetCart(ctx, shopper.UserID)
		if err != nil {
			return models.Cart{}, err
		}
		i := current.Find(key)
		if i < 0 {
			return models.Cart{}, models.NewApiError(http.StatusNotFound, "Cart item not found", key)
		}
		updated, err := s.backend.UpdateCartItem(ctx, shopper.UserID, current.Lines[i].CartItemID, quantity)
		if err != nil {
			return models.Cart{}, err
		}
		cart = updated
	} else {
		if err := requireDevice(shopper); err != nil {
			return models.Cart{}, err
		}
		cart = s.readGuest(ctx, shopper.DeviceID)
		if !cart.SetQuantity(key, quantity) {
			return models.Cart{}, models.NewApiError(http.StatusNotFound, "Cart item not found", key)
		}
		if err := s.writeGuest(ctx, shopper.DeviceID, cart); err != nil {
			return models.Cart{}, err
		}
	}

	s.changed(ctx, shopper.DeviceID, cart)
	return cart, nil
}

// TotalItemCount is the sum of quantities from a full read.
func (s *CartStore) TotalItemCount(ctx context.Context, shopper models.Shopper) (int, error) {
	cart, err := s.ReadCart(ctx, shopper)
	if err != nil {
		return 0, err
	}
	return cart.ItemCount(), nil
}

// CachedItemCount returns the advisory badge count without touching the
// authoritative cart. Missing or unreadable values count as zero.
func (s *CartStore) CachedItemCount(ctx context.Context, deviceID string) int {
	if deviceID == "" {
		return 0
	}
	raw, err := s.store.Get(ctx, deviceID, device_store.KeyCartCount)
	if err != nil {
		return 0
	}
	n, err := strconv.Atoi(string(raw))
	if err != nil || n < 0 {
		return 0
	}
	return n
}

// MergeGuestIntoUser replays every guest line into the user's server cart,
// one call at a time and in cart order. A failing line is logged and
// skipped. The guest cart is cleared afterwards whatever happened, so a
// later login can never add the same lines twice.
//
// The merge runs to completion even if the caller goes away: stopping
// halfway would leave merged lines in the guest cart.
func (s *CartStore) MergeGuestIntoUser(ctx context.Context, deviceID string, userID int64) models.MergeReport {
	var report models.MergeReport
	if deviceID == "" || userID <= 0 {
		return report
	}
	ctx = context.WithoutCancel(ctx)

	guest := s.readGuest(ctx, deviceID)
	var last *models.Cart
	for _, line := range guest.Lines {
		cart, err := s.backend.AddCartItem(ctx, userID, line.ProductID, line.Quantity, line.Color, line.Storage)
		if err != nil {
			report.Failed++
			s.logger.Warn("guest cart line not merged",
				zap.String("device_id", deviceID),
				zap.Int64("user_id", userID),
				zap.Int64("product_id", line.ProductID),
				zap.Int("quantity", line.Quantity),
				zap.Error(err),
			)
			continue
		}
		report.Merged++
		last = &cart
	}

	if err := s.ClearGuestCart(ctx, deviceID); err != nil {
		s.logger.Error("failed to clear guest cart after merge",
			zap.String("device_id", deviceID),
			zap.Error(err),
		)
	}

	if last != nil {
		s.changed(ctx, deviceID, *last)
	} else if _, err := s.ReadCart(ctx, models.Shopper{DeviceID: deviceID, UserID: userID}); err == nil {
		s.publish(deviceID)
	}

	if len(guest.Lines) > 0 {
		s.logger.Info("guest cart merged",
			zap.String("device_id", deviceID),
			zap.Int64("user_id", userID),
			zap.Int("merged", report.Merged),
			zap.Int("failed", report.Failed),
		)
	}
	return report
}

func (s *CartStore) ClearGuestCart(ctx context.Context, deviceID string) error {
	if deviceID == "" {
		return nil
	}
	if err := s.store.Delete(ctx, deviceID, device_store.KeyGuestCart); err != nil && !errors.Is(err, device_store.ErrNotFound) {
		return err
	}
	return nil
}

// AfterOrder resets local cart state once an order exists server-side. The
// guest cart is cleared; an authenticated cart is re-read for its new count.
func (s *CartStore) AfterOrder(ctx context.Context, shopper models.Shopper) {
	if shopper.Authenticated() {
		if _, err := s.ReadCart(ctx, shopper); err != nil {
			s.logger.Debug("cart refresh after order failed", zap.Int64("user_id", shopper.UserID), zap.Error(err))
		}
	} else {
		if err := s.ClearGuestCart(ctx, shopper.DeviceID); err != nil {
			s.logger.Warn("failed to clear guest cart after order", zap.String("device_id", shopper.DeviceID), zap.Error(err))
		}
		s.writeCount(ctx, shopper.DeviceID, 0)
	}
	s.publish(shopper.DeviceID)
}

// readGuest never fails: a missing or corrupt blob is an empty cart. Stored
// totals are recomputed.
func (s *CartStore) readGuest(ctx context.Context, deviceID string) models.Cart {
	if deviceID == "" {
		return models.Cart{}
	}
	raw, err := s.store.Get(ctx, deviceID, device_store.KeyGuestCart)
	if err != nil {
		if !errors.Is(err, device_store.ErrNotFound) {
			s.logger.Warn("guest cart unreadable", zap.String("device_id", deviceID), zap.Error(err))
		}
		return models.Cart{}
	}
	var cart models.Cart
	if err := json.Unmarshal(raw, &cart); err != nil {
		s.logger.Debug("discarding corrupt guest cart", zap.String("device_id", deviceID), zap.Error(err))
		return models.Cart{}
	}
	cart.Recompute()
	return cart
}

func (s *CartStore) writeGuest(ctx context.Context, deviceID string, cart models.Cart) error {
	raw, err := json.Marshal(cart)
	if err != nil {
		return models.NewApiError(http.StatusInternalServerError, "Failed to save cart", err.Error())
	}
	if err := s.store.Set(ctx, deviceID, device_store.KeyGuestCart, raw, 0); err != nil {
		return models.NewApiError(http.StatusInternalServerError, "Failed to save cart", err.Error())
	}
	return nil
}

func (s *CartStore) writeCount(ctx context.Context, deviceID string, count int) {
	if deviceID == "" {
		return
	}
	if err := s.store.Set(ctx, deviceID, device_store.KeyCartCount, []byte(strconv.Itoa(count)), 0); err != nil {
		s.logger.Warn("failed to cache cart count", zap.String("device_id", deviceID), zap.Error(err))
	}
}

// changed republishes the count after a mutation.
func (s *CartStore) changed(ctx context.Context, deviceID string, cart models.Cart) {
	s.writeCount(ctx, deviceID, cart.ItemCount())
	s.publish(deviceID)
}

func (s *CartStore) publish(deviceID string) {
	if s.broker != nil && deviceID != "" {
		s.broker.Publish(deviceID)
	}
}

func requireDevice(shopper models.Shopper) error {
	if shopper.DeviceID == "" {
		return models.NewValidationError("Device session is required", "device_id")
	}
	return nil
}
