package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	preview_cache "github.com/Modeva-Ecommerce/modeva-storefront/cache"
	"github.com/Modeva-Ecommerce/modeva-storefront/device_store"
	"github.com/Modeva-Ecommerce/modeva-storefront/models"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// CheckoutService drives the checkout wizard for each device and places
// orders.
type CheckoutService struct {
	backend     Marketplace
	carts       *CartStore
	sessions    *CheckoutSessions
	store       device_store.Store
	successHold time.Duration
	logger      *zap.Logger

	previewFreshFor time.Duration
	submits         singleflight.Group
}

func NewCheckoutService(backend Marketplace, carts *CartStore, sessions *CheckoutSessions, store device_store.Store, successHold time.Duration, logger *zap.Logger) *CheckoutService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CheckoutService{
		backend:     backend,
		carts:       carts,
		sessions:    sessions,
		store:       store,
		successHold: successHold,
		logger:      logger,

		previewFreshFor: preview_cache.FreshFor,
	}
}

// View starts or resumes the device's checkout.
func (s *CheckoutService) View(ctx context.Context, shopper models.Shopper) (models.CheckoutView, error) {
	sess := s.sessions.Acquire(shopper.DeviceID)
	view := viewOf(sess.Wizard)
	s.sessions.Release(sess)

	cart, err := s.carts.ReadCart(ctx, shopper)
	if err != nil {
		return models.CheckoutView{}, err
	}
	cv := models.NewCartView(cart, !shopper.Authenticated())
	view.Cart = &cv
	return view, nil
}

func (s *CheckoutService) EditDraft(shopper models.Shopper, patch models.DraftPatch) (models.CheckoutView, error) {
	return s.withWizard(shopper, func(w *Wizard) error { return w.Edit(patch) })
}

func (s *CheckoutService) Next(shopper models.Shopper) (models.CheckoutView, error) {
	return s.withWizard(shopper, func(w *Wizard) error { return w.Next() })
}

func (s *CheckoutService) Back(shopper models.Shopper) (models.CheckoutView, error) {
	return s.withWizard(shopper, func(w *Wizard) error { return w.Back() })
}

func (s *CheckoutService) withWizard(shopper models.Shopper, fn func(w *Wizard) error) (models.CheckoutView, error) {
	sess := s.sessions.Acquire(shopper.DeviceID)
	defer s.sessions.Release(sess)
	if err := fn(sess.Wizard); err != nil {
		return viewOf(sess.Wizard), err
	}
	return viewOf(sess.Wizard), nil
}

func viewOf(w *Wizard) models.CheckoutView {
	return models.CheckoutView{
		Step:  w.Step,
		Draft: w.Draft,
		Error: w.LastError,
	}
}

// Preview returns the advisory price for the current cart and delivery
// zone. It never fails because the backend is down: the last preview for
// the same inputs is shown as stale, or else the local subtotal.
func (s *CheckoutService) Preview(ctx context.Context, shopper models.Shopper) (models.PricePreview, error) {
	sess := s.sessions.Acquire(shopper.DeviceID)
	insideValley := sess.Wizard.Draft.InsideValley
	s.sessions.Release(sess)

	cart, err := s.carts.ReadCart(ctx, shopper)
	if err != nil {
		return models.PricePreview{}, err
	}
	if cart.IsEmpty() {
		return models.PricePreview{}, nil
	}

	fp := Fingerprint(cart, insideValley)
	last, fetchedAt, known := preview_cache.Lookup(shopper.DeviceID, fp)
	if known && time.Since(fetchedAt) < s.previewFreshFor {
		return last, nil
	}

	req := PreviewRequest{
		ShippingLocation: models.ShippingLocationFor(insideValley),
		Items:            models.PreviewItemsOf(cart),
	}
	if shopper.Authenticated() {
		req.UserID = shopper.UserID
	}
	p, err := s.backend.PreviewOrder(ctx, req)
	if err != nil {
		s.logger.Warn("price preview unavailable, using fallback",
			zap.String("device_id", shopper.DeviceID),
			zap.Error(err),
		)
		if known {
			last.Stale = true
			return last, nil
		}
		return localPreview(cart), nil
	}
	preview_cache.Set(shopper.DeviceID, fp, p)
	return p, nil
}

func localPreview(cart models.Cart) models.PricePreview {
	subtotal := cart.Subtotal()
	return models.PricePreview{
		Subtotal:    subtotal,
		GrandTotal:  subtotal,
		Stale:       true,
		Calculating: true,
	}
}

// Fingerprint identifies the inputs a preview depends on.
func Fingerprint(cart models.Cart, insideValley bool) string {
	var b strings.Builder
	for _, l := range cart.Lines {
		fmt.Fprintf(&b, "%d|%s|%s|%d;", l.ProductID, l.Color, l.Storage, l.Quantity)
	}
	b.WriteString(string(models.ShippingLocationFor(insideValley)))
	return b.String()
}

// BuildAddressLine joins the structured address into one line: street,
// landmark in parentheses, city, district when it differs from the city,
// then postal code. Empty parts are skipped.
func BuildAddressLine(d models.CheckoutDraft) string {
	var parts []string
	add := func(s string) {
		if s = strings.TrimSpace(s); s != "" {
			parts = append(parts, s)
		}
	}
	add(d.Street)
	if lm := strings.TrimSpace(d.Landmark); lm != "" {
		add("(" + lm + ")")
	}
	add(d.City)
	if !strings.EqualFold(strings.TrimSpace(d.District), strings.TrimSpace(d.City)) {
		add(d.District)
	}
	add(d.PostalCode)
	return strings.Join(parts, ", ")
}

// Submit places the order. Concurrent submits for one device share a single
// placement; a wizard already submitting refuses re-entry.
func (s *CheckoutService) Submit(ctx context.Context, shopper models.Shopper, deviceType string) (models.CheckoutView, error) {
	// The placement outlives a client that disconnects mid-request; the
	// backend client timeout still bounds it.
	ctx = context.WithoutCancel(ctx)
	v, err, shared := s.submits.Do(shopper.DeviceID, func() (any, error) {
		return s.submit(ctx, shopper, deviceType)
	})
	if shared {
		s.logger.Info("duplicate checkout submit coalesced", zap.String("device_id", shopper.DeviceID))
	}
	view, _ := v.(models.CheckoutView)
	return view, err
}

func (s *CheckoutService) submit(ctx context.Context, shopper models.Shopper, deviceType string) (models.CheckoutView, error) {
	sess := s.sessions.Acquire(shopper.DeviceID)
	if err := sess.Wizard.BeginSubmit(); err != nil {
		view := viewOf(sess.Wizard)
		s.sessions.Release(sess)
		return view, err
	}
	draft := sess.Wizard.Draft
	s.sessions.Release(sess)

	retry := func(err error) (models.CheckoutView, error) {
		sess.mu.Lock()
		defer sess.mu.Unlock()
		sess.Wizard.Retry(err)
		return viewOf(sess.Wizard), err
	}

	cart, err := s.carts.ReadCart(ctx, shopper)
	if err != nil {
		return retry(err)
	}
	if cart.IsEmpty() {
		return retry(models.NewValidationError("Your cart is empty", "items"))
	}

	req := models.PlaceOrderRequest{
		FullName:         strings.TrimSpace(draft.FullName),
		Email:            strings.TrimSpace(draft.Email),
		Phone:            strings.TrimSpace(draft.Phone),
		ShippingAddress:  BuildAddressLine(draft),
		ShippingLocation: models.ShippingLocationFor(draft.InsideValley),
		DeliveryTime:     draft.DeliveryTime,
		PaymentMethod:    draft.PaymentMethod,
		Note:             strings.TrimSpace(draft.Note),
		DeviceType:       deviceType,
	}

	var orders []models.OrderSummary
	if shopper.Authenticated() {
		req.UserID = shopper.UserID
		orders, err = s.backend.PlaceCartOrder(ctx, req)
	} else {
		req.Items = models.PreviewItemsOf(cart)
		orders, err = s.backend.PlaceDirectOrder(ctx, req)
	}
	if err != nil {
		s.logger.Warn("order placement failed",
			zap.String("device_id", shopper.DeviceID),
			zap.Int64("user_id", shopper.UserID),
			zap.Error(err),
		)
		return retry(err)
	}

	order := models.AggregateOrders(orders)
	if order.PaymentMethod == "" {
		order.PaymentMethod = draft.PaymentMethod
	}
	if order.ShippingAddress == "" {
		order.ShippingAddress = req.ShippingAddress
	}
	preview_cache.Invalidate(shopper.DeviceID)
	s.carts.AfterOrder(ctx, shopper)

	s.logger.Info("order placed",
		zap.String("device_id", shopper.DeviceID),
		zap.Int64("user_id", shopper.UserID),
		zap.String("order_ids", order.DisplayID),
		zap.String("payment_method", string(draft.PaymentMethod)),
		zap.String("grand_total", order.GrandTotal.String()),
	)

	if draft.PaymentMethod.Gateway() {
		return s.handOff(ctx, shopper, sess, draft, order)
	}
	return s.completeCOD(ctx, shopper, sess, draft, order)
}

func (s *CheckoutService) completeCOD(ctx context.Context, shopper models.Shopper, sess *CheckoutSession, draft models.CheckoutDraft, order models.AggregatedOrder) (models.CheckoutView, error) {
	if err := SaveConfirmation(ctx, s.store, shopper.DeviceID, order); err != nil {
		s.logger.Warn("failed to store order confirmation", zap.String("device_id", shopper.DeviceID), zap.Error(err))
	}
	if draft.SaveAddress && shopper.Authenticated() {
		s.saveAddress(ctx, shopper.UserID, draft)
	}

	sess.mu.Lock()
	sess.Wizard.Succeed()
	view := viewOf(sess.Wizard)
	sess.mu.Unlock()
	s.sessions.End(shopper.DeviceID, sess)

	view.Order = &order
	view.Next = NextConfirmation
	view.RedirectAfterMs = s.successHold.Milliseconds()
	return view, nil
}

// saveAddress is best-effort; a failure is only logged.
func (s *CheckoutService) saveAddress(ctx context.Context, userID int64, d models.CheckoutDraft) {
	addr := models.SavedAddress{
		FullName:   strings.TrimSpace(d.FullName),
		Phone:      strings.TrimSpace(d.Phone),
		Street:     strings.TrimSpace(d.Street),
		Landmark:   strings.TrimSpace(d.Landmark),
		City:       strings.TrimSpace(d.City),
		District:   strings.TrimSpace(d.District),
		PostalCode: strings.TrimSpace(d.PostalCode),
	}
	if err := s.backend.SaveAddress(ctx, userID, addr); err != nil {
		s.logger.Warn("failed to save address", zap.Int64("user_id", userID), zap.Error(err))
	}
}

// handOff initiates the gateway payment for the primary order. A failure
// here ends the attempt: the order already exists unpaid and is left to the
// backend to reconcile.
func (s *CheckoutService) handOff(ctx context.Context, shopper models.Shopper, sess *CheckoutSession, draft models.CheckoutDraft, order models.AggregatedOrder) (models.CheckoutView, error) {
	primary := order.PrimaryOrderID()

	var (
		handoff models.GatewayHandoff
		err     error
	)
	switch draft.PaymentMethod {
	case models.PaymentEsewa:
		handoff, err = s.backend.InitiateEsewa(ctx, primary)
	case models.PaymentKhalti:
		handoff, err = s.backend.InitiateKhalti(ctx, primary)
	}
	if err == nil {
		err = SavePendingPayment(ctx, s.store, shopper.DeviceID, models.PendingPayment{Handoff: handoff, Order: order})
	}

	if err != nil {
		s.logger.Error("payment initiation failed, order left unpaid",
			zap.String("device_id", shopper.DeviceID),
			zap.String("order_id", primary),
			zap.String("gateway", string(draft.PaymentMethod)),
			zap.Error(err),
		)
		apiErr := *models.AsApiError(err)
		apiErr.Details = map[string]any{"orderIds": order.OrderIDs, "cause": apiErr.Details}

		sess.mu.Lock()
		sess.Wizard.Fail(&apiErr)
		view := viewOf(sess.Wizard)
		sess.mu.Unlock()
		s.sessions.End(shopper.DeviceID, sess)

		view.Order = &order
		return view, &apiErr
	}

	sess.mu.Lock()
	sess.Wizard.Redirect()
	view := viewOf(sess.Wizard)
	sess.mu.Unlock()
	s.sessions.End(shopper.DeviceID, sess)

	view.Order = &order
	view.Next = NextPaymentRedirect
	return view, nil
}
