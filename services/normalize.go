package services

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"

	"github.com/Modeva-Ecommerce/modeva-storefront/models"
	"github.com/shopspring/decimal"
)

// The marketplace API is not consistent about field names or shapes. Every
// response is adapted into the canonical models here, on receipt, so nothing
// further up the call stack branches on shape.

// fields is a loosely-typed JSON object with first-match accessors.
type fields map[string]json.RawMessage

func objectOf(raw json.RawMessage) (fields, bool) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || raw[0] != '{' {
		return nil, false
	}
	var f fields
	if err := json.Unmarshal(raw, &f); err != nil {
		return nil, false
	}
	return f, true
}

func arrayOf(raw json.RawMessage) ([]json.RawMessage, bool) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || raw[0] != '[' {
		return nil, false
	}
	var items []json.RawMessage
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, false
	}
	return items, true
}

func isNull(raw json.RawMessage) bool {
	raw = bytes.TrimSpace(raw)
	return len(raw) == 0 || bytes.Equal(raw, []byte("null"))
}

func (f fields) raw(keys ...string) (json.RawMessage, bool) {
	for _, k := range keys {
		if v, ok := f[k]; ok && !isNull(v) {
			return v, true
		}
	}
	return nil, false
}

func (f fields) str(keys ...string) string {
	v, ok := f.raw(keys...)
	if !ok {
		return ""
	}
	return scalarString(v)
}

func (f fields) int64(keys ...string) int64 {
	s := f.str(keys...)
	if s == "" {
		return 0
	}
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		d, derr := decimal.NewFromString(s)
		if derr != nil {
			return 0
		}
		return d.IntPart()
	}
	return n
}

func (f fields) decimal(keys ...string) (decimal.Decimal, bool) {
	s := f.str(keys...)
	if s == "" {
		return decimal.Zero, false
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, false
	}
	return d, true
}

func (f fields) bool(keys ...string) bool {
	switch strings.ToLower(f.str(keys...)) {
	case "true", "1", "success", "complete", "completed":
		return true
	}
	return false
}

func (f fields) object(keys ...string) (fields, bool) {
	v, ok := f.raw(keys...)
	if !ok {
		return nil, false
	}
	return objectOf(v)
}

// scalarString renders a JSON scalar without altering its digits: numbers
// are kept verbatim, strings are unquoted.
func scalarString(raw json.RawMessage) string {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || isNull(raw) {
		return ""
	}
	if raw[0] == '"' {
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return ""
		}
		return s
	}
	if raw[0] == '{' || raw[0] == '[' {
		return ""
	}
	return string(raw)
}

// unwrapData strips a {"data": ...} envelope when present.
func unwrapData(raw json.RawMessage) json.RawMessage {
	if f, ok := objectOf(raw); ok {
		if inner, ok := f.raw("data"); ok {
			return inner
		}
	}
	return raw
}

// normalizeCart adapts a server cart body. ok is false when the body does
// not look like a cart at all.
func normalizeCart(raw json.RawMessage) (models.Cart, bool) {
	raw = unwrapData(raw)
	items, ok := arrayOf(raw)
	if !ok {
		f, isObj := objectOf(raw)
		if !isObj {
			return models.Cart{}, false
		}
		inner, found := f.raw("items", "cartItems", "lines")
		if !found {
			if nested, ok := f.object("cart"); ok {
				inner, found = nested.raw("items", "cartItems", "lines")
			}
		}
		if !found {
			return models.Cart{}, false
		}
		if items, ok = arrayOf(inner); !ok {
			return models.Cart{}, false
		}
	}

	cart := models.Cart{Lines: make([]models.CartLine, 0, len(items))}
	for _, item := range items {
		line, ok := normalizeCartLine(item)
		if !ok {
			continue
		}
		cart.Lines = append(cart.Lines, line)
	}
	cart.Recompute()
	return cart, true
}

func normalizeCartLine(raw json.RawMessage) (models.CartLine, bool) {
	f, ok := objectOf(raw)
	if !ok {
		return models.CartLine{}, false
	}
	product, hasProduct := f.object("product")
	if !hasProduct {
		product = fields{}
	}

	line := models.CartLine{
		ProductID:  f.int64("productId", "product_id"),
		CartItemID: f.int64("cartItemId", "cart_item_id", "id"),
		Name:       f.str("name", "productName", "title"),
		ImagePath:  f.str("imagePath", "image", "imageUrl", "thumbnail"),
		Quantity:   int(f.int64("quantity", "qty")),
		Color:      f.str("selectedColor", "color"),
		Storage:    f.str("selectedStorage", "storage"),
	}
	if line.ProductID == 0 {
		line.ProductID = product.int64("id", "productId")
	}
	if line.Name == "" {
		line.Name = product.str("name", "title")
	}
	if line.ImagePath == "" {
		line.ImagePath = product.str("imagePath", "image", "imageUrl")
	}
	price, ok := f.decimal("unitPrice", "price")
	if !ok {
		price, _ = product.decimal("unitPrice", "price")
	}
	line.UnitPrice = price
	if line.ProductID <= 0 {
		return models.CartLine{}, false
	}
	line.Recompute()
	return line, true
}

func normalizePreview(raw json.RawMessage) models.PricePreview {
	f, ok := objectOf(unwrapData(raw))
	if !ok {
		return models.PricePreview{}
	}
	p := models.PricePreview{
		EstimatedDelivery: f.str("estimatedDelivery", "estimatedDeliveryDate", "deliveryEstimate"),
	}
	p.Subtotal, _ = f.decimal("subtotal", "itemsSubtotal", "itemsTotal")
	p.ShippingFee, _ = f.decimal("shippingFee", "shipping", "shippingCost")
	p.Discount, _ = f.decimal("discount", "discountTotal", "totalDiscount")
	if total, ok := f.decimal("grandTotal", "total", "totalAmount"); ok {
		p.GrandTotal = total
	} else {
		p.GrandTotal = p.Subtotal.Add(p.ShippingFee).Sub(p.Discount)
	}
	return p
}

// normalizeOrders accepts one order, an array of orders, or an object
// carrying an "orders" array, and always returns a slice.
func normalizeOrders(raw json.RawMessage) []models.OrderSummary {
	raw = unwrapData(raw)
	if items, ok := arrayOf(raw); ok {
		return ordersFrom(items)
	}
	f, ok := objectOf(raw)
	if !ok {
		return nil
	}
	if inner, ok := f.raw("orders"); ok {
		if items, ok := arrayOf(inner); ok {
			return ordersFrom(items)
		}
	}
	if inner, ok := f.raw("order"); ok {
		return normalizeOrders(inner)
	}
	return ordersFrom([]json.RawMessage{raw})
}

func ordersFrom(items []json.RawMessage) []models.OrderSummary {
	orders := make([]models.OrderSummary, 0, len(items))
	for _, item := range items {
		f, ok := objectOf(item)
		if !ok {
			continue
		}
		o := models.OrderSummary{
			OrderID:         f.str("orderId", "id", "orderNumber"),
			ShippingAddress: f.str("shippingAddress", "address"),
			PaymentMethod:   models.PaymentMethod(strings.ToUpper(f.str("paymentMethod"))),
		}
		o.Subtotal, _ = f.decimal("subtotal", "itemsSubtotal", "itemsTotal")
		o.ShippingFee, _ = f.decimal("shippingFee", "shipping", "shippingCost")
		o.Discount, _ = f.decimal("discount", "discountTotal", "totalDiscount")
		o.GrandTotal, _ = f.decimal("grandTotal", "total", "totalAmount")
		o.Items = []models.OrderItem{}
		if inner, ok := f.raw("items", "orderItems"); ok {
			if lines, ok := arrayOf(inner); ok {
				for _, l := range lines {
					if item, ok := normalizeOrderItem(l); ok {
						o.Items = append(o.Items, item)
					}
				}
			}
		}
		orders = append(orders, o)
	}
	return orders
}

func normalizeOrderItem(raw json.RawMessage) (models.OrderItem, bool) {
	f, ok := objectOf(raw)
	if !ok {
		return models.OrderItem{}, false
	}
	item := models.OrderItem{
		ProductID: f.int64("productId", "product_id"),
		Name:      f.str("name", "productName"),
		Quantity:  int(f.int64("quantity", "qty")),
		Color:     f.str("color", "selectedColor"),
		Storage:   f.str("storage", "selectedStorage"),
	}
	item.UnitPrice, _ = f.decimal("unitPrice", "price")
	if total, ok := f.decimal("lineTotal", "subtotal", "total"); ok {
		item.LineTotal = total
	} else {
		item.LineTotal = item.UnitPrice.Mul(decimal.NewFromInt(int64(item.Quantity)))
	}
	return item, true
}

var (
	esewaURLKeys    = []string{"url", "payment_url", "paymentUrl", "gatewayUrl", "esewa_url", "action"}
	esewaFieldsKeys = []string{"fields", "formData", "form_data", "params"}
	envelopeKeys    = map[string]bool{"success": true, "message": true, "status": true}
	esewaSkipKeys   = keySet(esewaURLKeys, esewaFieldsKeys)
)

func keySet(groups ...[]string) map[string]bool {
	set := map[string]bool{}
	for _, g := range groups {
		for _, k := range g {
			set[k] = true
		}
	}
	return set
}

// normalizeEsewaInitiation extracts the gateway URL and the signed form
// fields. Field values are copied verbatim; numbers keep their original
// digits.
func normalizeEsewaInitiation(orderID string, raw json.RawMessage) (models.GatewayHandoff, bool) {
	f, ok := objectOf(unwrapData(raw))
	if !ok {
		return models.GatewayHandoff{}, false
	}
	h := models.GatewayHandoff{
		Gateway:   models.PaymentEsewa,
		OrderID:   orderID,
		ActionURL: f.str(esewaURLKeys...),
		Fields:    map[string]string{},
	}

	source, nested := f.object(esewaFieldsKeys...)
	if !nested {
		source = f
	}
	for k, v := range source {
		if !nested && (esewaSkipKeys[k] || envelopeKeys[k]) {
			continue
		}
		v = bytes.TrimSpace(v)
		if isNull(v) || v[0] == '{' || v[0] == '[' {
			continue
		}
		h.Fields[k] = scalarString(v)
	}
	return h, h.ActionURL != "" && len(h.Fields) > 0
}

func normalizeKhaltiInitiation(orderID string, raw json.RawMessage) (models.GatewayHandoff, bool) {
	f, ok := objectOf(unwrapData(raw))
	if !ok {
		return models.GatewayHandoff{}, false
	}
	h := models.GatewayHandoff{
		Gateway:   models.PaymentKhalti,
		OrderID:   orderID,
		ActionURL: f.str("payment_url", "paymentUrl", "url"),
		Pidx:      f.str("pidx"),
	}
	return h, h.ActionURL != ""
}

// normalizeVerification reads the verdict from the outer body and any order
// details from either the body or its data envelope.
func normalizeVerification(raw json.RawMessage) models.PaymentVerification {
	f, ok := objectOf(raw)
	if !ok {
		return models.PaymentVerification{Message: "Unexpected verification response"}
	}
	v := models.PaymentVerification{
		Success: f.bool("success", "verified"),
		Message: f.str("message"),
	}
	inner, hasData := f.object("data")
	if !hasData {
		inner = f
	} else if _, ok := f.raw("success", "verified"); !ok {
		v.Success = inner.bool("success", "verified", "status")
	}
	if v.Message == "" {
		v.Message = inner.str("message")
	}
	if orders, ok := inner.raw("orders", "order"); ok {
		v.Orders = normalizeOrders(orders)
	}
	return v
}

func normalizeLogin(raw json.RawMessage) (models.LoginResult, bool) {
	f, ok := objectOf(unwrapData(raw))
	if !ok {
		return models.LoginResult{}, false
	}
	if user, ok := f.object("user"); ok {
		f = user
	}
	res := models.LoginResult{
		UserID: f.int64("userId", "id"),
		Name:   f.str("name", "fullName"),
		Email:  f.str("email"),
	}
	return res, res.UserID > 0
}
