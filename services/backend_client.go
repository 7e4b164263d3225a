package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/Modeva-Ecommerce/modeva-storefront/models"
	"go.uber.org/zap"
)

// Marketplace is the subset of the marketplace REST API the storefront
// gateway consumes. Every method returns *models.ApiError on failure.
type Marketplace interface {
	Login(ctx context.Context, req models.LoginRequest) (models.LoginResult, error)
	GetCart(ctx context.Context, userID int64) (models.Cart, error)
	AddCartItem(ctx context.Context, userID, productID int64, quantity int, color, storage string) (models.Cart, error)
	UpdateCartItem(ctx context.Context, userID, cartItemID int64, quantity int) (models.Cart, error)
	PreviewOrder(ctx context.Context, req PreviewRequest) (models.PricePreview, error)
	PlaceCartOrder(ctx context.Context, req models.PlaceOrderRequest) ([]models.OrderSummary, error)
	PlaceDirectOrder(ctx context.Context, req models.PlaceOrderRequest) ([]models.OrderSummary, error)
	InitiateEsewa(ctx context.Context, orderID string) (models.GatewayHandoff, error)
	InitiateKhalti(ctx context.Context, orderID string) (models.GatewayHandoff, error)
	VerifyEsewa(ctx context.Context, data string) (models.PaymentVerification, error)
	VerifyKhalti(ctx context.Context, pidx string) (models.PaymentVerification, error)
	SaveAddress(ctx context.Context, userID int64, addr models.SavedAddress) error
}

// PreviewRequest is the body of POST /orders/preview.
type PreviewRequest struct {
	UserID           int64                   `json:"userId,omitempty"`
	ShippingLocation models.ShippingLocation `json:"shippingLocation"`
	Items            []models.PreviewItem    `json:"items"`
}

// MarketplaceClient talks HTTP/JSON to the marketplace backend.
type MarketplaceClient struct {
	baseURL    string
	httpClient *http.Client
	logger     *zap.Logger
}

// NewMarketplaceClient builds a client whose every call is bounded by
// timeout. A timeout surfaces as a network error.
func NewMarketplaceClient(baseURL string, timeout time.Duration, logger *zap.Logger) *MarketplaceClient {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &MarketplaceClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger,
	}
}

// do performs one call and returns the raw response body. Transport
// failures become a 500 "Network error"; error statuses are converted from
// the server body.
func (c *MarketplaceClient) do(ctx context.Context, method, path string, query url.Values, body any) (json.RawMessage, error) {
	target := c.baseURL + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return nil, models.NewApiError(http.StatusInternalServerError, "failed to encode request", err.Error())
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, reader)
	if err != nil {
		return nil, models.NewNetworkError(path, err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Warn("backend unreachable",
			zap.String("method", method),
			zap.String("path", path),
			zap.Error(err),
		)
		return nil, models.NewNetworkError(path, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, models.NewNetworkError(path, err)
	}

	c.logger.Debug("backend call",
		zap.String("method", method),
		zap.String("path", path),
		zap.Int("status", resp.StatusCode),
		zap.Duration("took", time.Since(start)),
	)

	if resp.StatusCode >= http.StatusBadRequest {
		return nil, serverError(resp.StatusCode, path, raw)
	}
	return raw, nil
}

// serverError passes the backend's status and message through verbatim and
// synthesizes whatever the body leaves out.
func serverError(status int, path string, raw []byte) *models.ApiError {
	apiErr := models.NewApiError(status, http.StatusText(status), nil)
	apiErr.Path = path

	f, ok := objectOf(raw)
	if !ok {
		if text := strings.TrimSpace(string(raw)); text != "" && len(text) < 512 {
			apiErr.Message = text
		}
		return apiErr
	}
	if nested, ok := f.object("failure", "error"); ok {
		f = nested
	}
	if msg := f.str("message", "error", "msg"); msg != "" {
		apiErr.Message = msg
	}
	if s := f.int64("status", "statusCode"); s >= 400 && s <= 599 {
		apiErr.Status = int(s)
	}
	if details, ok := f.raw("details", "errors"); ok {
		var decoded any
		if err := json.Unmarshal(details, &decoded); err == nil {
			apiErr.Details = decoded
		}
	}
	if p := f.str("path"); p != "" {
		apiErr.Path = p
	}
	if ts := f.str("timestamp"); ts != "" {
		if parsed, err := time.Parse(time.RFC3339, ts); err == nil {
			apiErr.Timestamp = parsed
		}
	}
	return apiErr
}

func unexpected(path, what string) *models.ApiError {
	e := models.NewApiError(http.StatusBadGateway, fmt.Sprintf("unexpected %s response from backend", what), nil)
	e.Path = path
	return e
}

func (c *MarketplaceClient) Login(ctx context.Context, req models.LoginRequest) (models.LoginResult, error) {
	const path = "/auth/login"
	raw, err := c.do(ctx, http.MethodPost, path, nil, req)
	if err != nil {
		return models.LoginResult{}, err
	}
	res, ok := normalizeLogin(raw)
	if !ok {
		return models.LoginResult{}, unexpected(path, "login")
	}
	return res, nil
}

func (c *MarketplaceClient) GetCart(ctx context.Context, userID int64) (models.Cart, error) {
	path := fmt.Sprintf("/cart/%d", userID)
	raw, err := c.do(ctx, http.MethodGet, path, nil, nil)
	if err != nil {
		return models.Cart{}, err
	}
	cart, ok := normalizeCart(raw)
	if !ok {
		return models.Cart{}, unexpected(path, "cart")
	}
	return cart, nil
}

func (c *MarketplaceClient) AddCartItem(ctx context.Context, userID, productID int64, quantity int, color, storage string) (models.Cart, error) {
	path := fmt.Sprintf("/cart/%d/add/%d", userID, productID)
	body := map[string]any{
		"quantity":        quantity,
		"selectedColor":   color,
		"selectedStorage": storage,
	}
	raw, err := c.do(ctx, http.MethodPost, path, nil, body)
	if err != nil {
		return models.Cart{}, err
	}
	if cart, ok := normalizeCart(raw); ok {
		return cart, nil
	}
	return c.GetCart(ctx, userID)
}

// UpdateCartItem sets the quantity of a server cart line; 0 removes it.
func (c *MarketplaceClient) UpdateCartItem(ctx context.Context, userID, cartItemID int64, quantity int) (models.Cart, error) {
	path := fmt.Sprintf("/cart/%d/update/%d", userID, cartItemID)
	query := url.Values{"qty": []string{strconv.Itoa(quantity)}}
	raw, err := c.do(ctx, http.MethodPut, path, query, nil)
	if err != nil {
		return models.Cart{}, err
	}
	if cart, ok := normalizeCart(raw); ok {
		return cart, nil
	}
	return c.GetCart(ctx, userID)
}

func (c *MarketplaceClient) PreviewOrder(ctx context.Context, req PreviewRequest) (models.PricePreview, error) {
	raw, err := c.do(ctx, http.MethodPost, "/orders/preview", nil, req)
	if err != nil {
		return models.PricePreview{}, err
	}
	return normalizePreview(raw), nil
}

func (c *MarketplaceClient) PlaceCartOrder(ctx context.Context, req models.PlaceOrderRequest) ([]models.OrderSummary, error) {
	req.Items = nil
	return c.placeOrder(ctx, "/orders/cart", req)
}

func (c *MarketplaceClient) PlaceDirectOrder(ctx context.Context, req models.PlaceOrderRequest) ([]models.OrderSummary, error) {
	return c.placeOrder(ctx, "/orders", req)
}

func (c *MarketplaceClient) placeOrder(ctx context.Context, path string, req models.PlaceOrderRequest) ([]models.OrderSummary, error) {
	raw, err := c.do(ctx, http.MethodPost, path, nil, req)
	if err != nil {
		return nil, err
	}
	orders := normalizeOrders(raw)
	if len(orders) == 0 {
		return nil, unexpected(path, "order")
	}
	return orders, nil
}

func (c *MarketplaceClient) InitiateEsewa(ctx context.Context, orderID string) (models.GatewayHandoff, error) {
	const path = "/payment/initiate/esewa"
	raw, err := c.do(ctx, http.MethodPost, path, nil, map[string]string{"orderId": orderID})
	if err != nil {
		return models.GatewayHandoff{}, err
	}
	h, ok := normalizeEsewaInitiation(orderID, raw)
	if !ok {
		return models.GatewayHandoff{}, unexpected(path, "eSewa initiation")
	}
	return h, nil
}

func (c *MarketplaceClient) InitiateKhalti(ctx context.Context, orderID string) (models.GatewayHandoff, error) {
	const path = "/payment/initiate/khalti"
	raw, err := c.do(ctx, http.MethodPost, path, nil, map[string]string{"orderId": orderID})
	if err != nil {
		return models.GatewayHandoff{}, err
	}
	h, ok := normalizeKhaltiInitiation(orderID, raw)
	if !ok {
		return models.GatewayHandoff{}, unexpected(path, "Khalti initiation")
	}
	return h, nil
}

func (c *MarketplaceClient) VerifyEsewa(ctx context.Context, data string) (models.PaymentVerification, error) {
	raw, err := c.do(ctx, http.MethodPost, "/payment/verify/esewa", nil, map[string]string{"data": data})
	if err != nil {
		return models.PaymentVerification{}, err
	}
	return normalizeVerification(raw), nil
}

func (c *MarketplaceClient) VerifyKhalti(ctx context.Context, pidx string) (models.PaymentVerification, error) {
	raw, err := c.do(ctx, http.MethodPost, "/payment/verify/khalti", nil, map[string]string{"pidx": pidx})
	if err != nil {
		return models.PaymentVerification{}, err
	}
	return normalizeVerification(raw), nil
}

func (c *MarketplaceClient) SaveAddress(ctx context.Context, userID int64, addr models.SavedAddress) error {
	_, err := c.do(ctx, http.MethodPost, fmt.Sprintf("/users/%d/addresses", userID), nil, addr)
	return err
}
