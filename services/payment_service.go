package services

import (
	"context"
	"strings"
	"time"

	"github.com/Modeva-Ecommerce/modeva-storefront/device_store"
	"github.com/Modeva-Ecommerce/modeva-storefront/models"
	"go.uber.org/zap"
)

const (
	msgPaymentCancelled = "Payment was cancelled or could not be completed"
	msgInvalidCallback  = "Invalid payment callback"
	msgVerifyFailed     = "Payment verification failed"
	msgPaymentConfirmed = "Payment successful"
)

// PaymentCallback is what a gateway sends the shopper back with.
type PaymentCallback struct {
	Failed bool   // reached through the failure/cancel route
	Data   string // eSewa: base64 payload
	Pidx   string // Khalti: payment id
}

// PaymentVerifier relays gateway callbacks to the backend and renders its
// verdict. It makes no judgement of its own about payment correctness.
type PaymentVerifier struct {
	backend     Marketplace
	store       device_store.Store
	successHold time.Duration
	logger      *zap.Logger
}

func NewPaymentVerifier(backend Marketplace, store device_store.Store, successHold time.Duration, logger *zap.Logger) *PaymentVerifier {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PaymentVerifier{
		backend:     backend,
		store:       store,
		successHold: successHold,
		logger:      logger,
	}
}

// Handoff returns the gateway parameters stored when the order was placed.
func (v *PaymentVerifier) Handoff(ctx context.Context, deviceID string) (models.GatewayHandoff, error) {
	p, err := LoadPendingPayment(ctx, v.store, deviceID)
	if err != nil {
		return models.GatewayHandoff{}, err
	}
	return p.Handoff, nil
}

// Verify decides the landing outcome for cb.
func (v *PaymentVerifier) Verify(ctx context.Context, deviceID string, cb PaymentCallback) models.PaymentStatusView {
	if cb.Failed {
		return failure("", msgPaymentCancelled)
	}

	var (
		gateway models.PaymentMethod
		result  models.PaymentVerification
		err     error
	)
	switch {
	case strings.TrimSpace(cb.Data) != "":
		gateway = models.PaymentEsewa
		result, err = v.backend.VerifyEsewa(ctx, strings.TrimSpace(cb.Data))
	case strings.TrimSpace(cb.Pidx) != "":
		gateway = models.PaymentKhalti
		result, err = v.backend.VerifyKhalti(ctx, strings.TrimSpace(cb.Pidx))
	default:
		return failure("", msgInvalidCallback)
	}

	if err != nil {
		apiErr := models.AsApiError(err)
		v.logger.Warn("payment verification failed",
			zap.String("device_id", deviceID),
			zap.String("gateway", string(gateway)),
			zap.Int("status", apiErr.Status),
			zap.String("message", apiErr.Message),
		)
		return failure(gateway, apiErr.Message)
	}
	if !result.Success {
		msg := result.Message
		if msg == "" {
			msg = msgVerifyFailed
		}
		return failure(gateway, msg)
	}

	view := models.PaymentStatusView{
		Success:         true,
		Gateway:         gateway,
		Message:         result.Message,
		Next:            NextConfirmation,
		RedirectAfterMs: v.successHold.Milliseconds(),
	}
	if view.Message == "" {
		view.Message = msgPaymentConfirmed
	}

	if order, ok := v.confirmedOrder(ctx, deviceID, result); ok {
		view.Order = &order
		if err := SaveConfirmation(ctx, v.store, deviceID, order); err != nil {
			v.logger.Warn("failed to store order confirmation", zap.String("device_id", deviceID), zap.Error(err))
		}
	}
	if deviceID != "" {
		if err := ClearPendingPayment(ctx, v.store, deviceID); err != nil {
			v.logger.Debug("failed to clear pending payment", zap.String("device_id", deviceID), zap.Error(err))
		}
	}

	v.logger.Info("payment verified",
		zap.String("device_id", deviceID),
		zap.String("gateway", string(gateway)),
	)
	return view
}

// confirmedOrder prefers the backend's orders and falls back to what was
// placed on this device.
func (v *PaymentVerifier) confirmedOrder(ctx context.Context, deviceID string, result models.PaymentVerification) (models.AggregatedOrder, bool) {
	if len(result.Orders) > 0 {
		return models.AggregateOrders(result.Orders), true
	}
	if deviceID == "" {
		return models.AggregatedOrder{}, false
	}
	pending, err := LoadPendingPayment(ctx, v.store, deviceID)
	if err != nil {
		return models.AggregatedOrder{}, false
	}
	return pending.Order, true
}

func failure(gateway models.PaymentMethod, message string) models.PaymentStatusView {
	return models.PaymentStatusView{
		Success: false,
		Gateway: gateway,
		Message: message,
		Next:    NextCheckout,
	}
}
