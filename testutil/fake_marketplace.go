// Package testutil provides an in-process stand-in for the marketplace REST
// API. It speaks the backend's own field names so the gateway's adapters are
// exercised by every test that uses it.
package testutil

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync"

	"github.com/shopspring/decimal"
)

type serverItem struct {
	ID        int64
	ProductID int64
	Quantity  int
	Color     string
	Storage   string
}

// Call records one request received by the fake.
type Call struct {
	Method string
	Path   string
	Body   map[string]any
}

// FakeMarketplace is safe for concurrent use. Exported fields configure
// canned responses and must be set before requests are made.
type FakeMarketplace struct {
	mu     sync.Mutex
	server *httptest.Server
	carts  map[int64][]serverItem
	nextID int64
	calls  []Call

	Prices map[int64]decimal.Decimal
	Names  map[int64]string

	// FailAddProducts makes add-item calls for these products answer 409.
	FailAddProducts map[int64]bool
	// FailAddNth makes the nth add-item call (1-based) answer 409.
	FailAddNth int
	addCount   int

	FailPreview    bool
	PreviewFee     decimal.Decimal
	OrderStatus    int
	OrderResponse  any
	EsewaStatus    int
	EsewaResponse  any
	KhaltiStatus   int
	KhaltiResponse any
	VerifyStatus   int
	VerifyResponse any
	FailSave       bool

	Users map[string]LoginUser
}

type LoginUser struct {
	ID       int64
	Name     string
	Password string
}

func NewFakeMarketplace() *FakeMarketplace {
	f := &FakeMarketplace{
		carts:           map[int64][]serverItem{},
		nextID:          100,
		Prices:          map[int64]decimal.Decimal{},
		Names:           map[int64]string{},
		FailAddProducts: map[int64]bool{},
		PreviewFee:      decimal.NewFromInt(100),
		Users:           map[string]LoginUser{},
	}

	mux := http.NewServeMux()
	mux.HandleFunc("POST /auth/login", f.login)
	mux.HandleFunc("GET /cart/{userId}", f.getCart)
	mux.HandleFunc("POST /cart/{userId}/add/{productId}", f.addItem)
	mux.HandleFunc("PUT /cart/{userId}/update/{cartItemId}", f.updateItem)
	mux.HandleFunc("POST /orders/preview", f.preview)
	mux.HandleFunc("POST /orders/cart", f.placeOrder)
	mux.HandleFunc("POST /orders", f.placeOrder)
	mux.HandleFunc("POST /payment/initiate/esewa", f.canned(&f.EsewaStatus, &f.EsewaResponse))
	mux.HandleFunc("POST /payment/initiate/khalti", f.canned(&f.KhaltiStatus, &f.KhaltiResponse))
	mux.HandleFunc("POST /payment/verify/esewa", f.canned(&f.VerifyStatus, &f.VerifyResponse))
	mux.HandleFunc("POST /payment/verify/khalti", f.canned(&f.VerifyStatus, &f.VerifyResponse))
	mux.HandleFunc("POST /users/{userId}/addresses", f.saveAddress)

	f.server = httptest.NewServer(f.record(mux))
	return f
}

func (f *FakeMarketplace) URL() string { return f.server.URL }
func (f *FakeMarketplace) Close()      { f.server.Close() }

// Calls returns a copy of every request received so far.
func (f *FakeMarketplace) Calls() []Call {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]Call(nil), f.calls...)
}

// CallsTo counts requests whose "METHOD path" matches exactly.
func (f *FakeMarketplace) CallsTo(method, path string) int {
	n := 0
	for _, c := range f.Calls() {
		if c.Method == method && c.Path == path {
			n++
		}
	}
	return n
}

func (f *FakeMarketplace) LastCall(method, path string) (Call, bool) {
	calls := f.Calls()
	for i := len(calls) - 1; i >= 0; i-- {
		if calls[i].Method == method && calls[i].Path == path {
			return calls[i], true
		}
	}
	return Call{}, false
}

// SeedCart puts a line directly into a user's server cart.
func (f *FakeMarketplace) SeedCart(userID, productID int64, quantity int, color, storage string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.addLocked(userID, productID, quantity, color, storage)
}

// CartQuantity sums the server-side quantity of productID for userID.
func (f *FakeMarketplace) CartQuantity(userID, productID int64) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, it := range f.carts[userID] {
		if it.ProductID == productID {
			n += it.Quantity
		}
	}
	return n
}

func (f *FakeMarketplace) record(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body map[string]any
		if r.Body != nil {
			_ = json.NewDecoder(r.Body).Decode(&body)
		}
		f.mu.Lock()
		f.calls = append(f.calls, Call{Method: r.Method, Path: r.URL.Path, Body: body})
		f.mu.Unlock()
		r = r.WithContext(withBody(r.Context(), body))
		next.ServeHTTP(w, r)
	})
}

func (f *FakeMarketplace) addLocked(userID, productID int64, quantity int, color, storage string) {
	items := f.carts[userID]
	for i := range items {
		if items[i].ProductID == productID && items[i].Color == color && items[i].Storage == storage {
			items[i].Quantity += quantity
			return
		}
	}
	f.nextID++
	f.carts[userID] = append(items, serverItem{
		ID:        f.nextID,
		ProductID: productID,
		Quantity:  quantity,
		Color:     color,
		Storage:   storage,
	})
}

func (f *FakeMarketplace) price(productID int64) decimal.Decimal {
	if p, ok := f.Prices[productID]; ok {
		return p
	}
	return decimal.NewFromInt(100)
}

// cartBodyLocked renders a cart the way the backend does: wrapped in
// "data", with "price" and "selectedColor" field names.
func (f *FakeMarketplace) cartBodyLocked(userID int64) map[string]any {
	items := []map[string]any{}
	for _, it := range f.carts[userID] {
		name := f.Names[it.ProductID]
		if name == "" {
			name = fmt.Sprintf("Product %d", it.ProductID)
		}
		items = append(items, map[string]any{
			"id":              it.ID,
			"productId":       it.ProductID,
			"productName":     name,
			"price":           f.price(it.ProductID).String(),
			"quantity":        it.Quantity,
			"selectedColor":   it.Color,
			"selectedStorage": it.Storage,
		})
	}
	return map[string]any{"data": map[string]any{"userId": userID, "items": items}}
}

func (f *FakeMarketplace) login(w http.ResponseWriter, r *http.Request) {
	body := bodyOf(r)
	email, _ := body["email"].(string)
	password, _ := body["password"].(string)
	f.mu.Lock()
	u, ok := f.Users[email]
	f.mu.Unlock()
	if !ok || u.Password != password {
		writeJSON(w, http.StatusUnauthorized, map[string]any{"status": 401, "message": "Invalid email or password"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"data": map[string]any{
		"user": map[string]any{"id": u.ID, "name": u.Name, "email": email},
	}})
}

func (f *FakeMarketplace) getCart(w http.ResponseWriter, r *http.Request) {
	userID, _ := strconv.ParseInt(r.PathValue("userId"), 10, 64)
	f.mu.Lock()
	defer f.mu.Unlock()
	writeJSON(w, http.StatusOK, f.cartBodyLocked(userID))
}

func (f *FakeMarketplace) addItem(w http.ResponseWriter, r *http.Request) {
	userID, _ := strconv.ParseInt(r.PathValue("userId"), 10, 64)
	productID, _ := strconv.ParseInt(r.PathValue("productId"), 10, 64)
	body := bodyOf(r)
	qty := 1
	if q, ok := body["quantity"].(float64); ok {
		qty = int(q)
	}
	color, _ := body["selectedColor"].(string)
	storage, _ := body["selectedStorage"].(string)

	f.mu.Lock()
	defer f.mu.Unlock()
	f.addCount++
	if f.FailAddProducts[productID] || (f.FailAddNth > 0 && f.addCount == f.FailAddNth) {
		writeJSON(w, http.StatusConflict, map[string]any{
			"status":  409,
			"message": "Insufficient stock",
			"path":    r.URL.Path,
		})
		return
	}
	f.addLocked(userID, productID, qty, color, storage)
	writeJSON(w, http.StatusOK, f.cartBodyLocked(userID))
}

func (f *FakeMarketplace) updateItem(w http.ResponseWriter, r *http.Request) {
	userID, _ := strconv.ParseInt(r.PathValue("userId"), 10, 64)
	itemID, _ := strconv.ParseInt(r.PathValue("cartItemId"), 10, 64)
	qty, err := strconv.Atoi(r.URL.Query().Get("qty"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{"message": "qty is required"})
		return
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	items := f.carts[userID]
	kept := items[:0]
	found := false
	for _, it := range items {
		if it.ID == itemID {
			found = true
			if qty <= 0 {
				continue
			}
			it.Quantity = qty
		}
		kept = append(kept, it)
	}
	f.carts[userID] = kept
	if !found {
		writeJSON(w, http.StatusNotFound, map[string]any{"message": "Cart item not found"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"message": "Cart updated"})
}

func (f *FakeMarketplace) preview(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	fail := f.FailPreview
	fee := f.PreviewFee
	f.mu.Unlock()
	if fail {
		writeJSON(w, http.StatusServiceUnavailable, map[string]any{"message": "Preview unavailable"})
		return
	}

	body := bodyOf(r)
	subtotal := decimal.Zero
	items, _ := body["items"].([]any)
	for _, raw := range items {
		item, _ := raw.(map[string]any)
		pid, _ := item["productId"].(float64)
		qty, _ := item["quantity"].(float64)
		f.mu.Lock()
		price := f.price(int64(pid))
		f.mu.Unlock()
		subtotal = subtotal.Add(price.Mul(decimal.NewFromFloat(qty)))
	}
	if loc, _ := body["shippingLocation"].(string); loc == "OUTSIDE_VALLEY" {
		fee = fee.Mul(decimal.NewFromInt(2))
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"itemsSubtotal":     subtotal.String(),
		"shipping":          fee.String(),
		"discountTotal":     "0",
		"total":             subtotal.Add(fee).String(),
		"estimatedDelivery": "2-3 days",
	})
}

func (f *FakeMarketplace) placeOrder(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	status, resp := f.OrderStatus, f.OrderResponse
	f.mu.Unlock()
	if status == 0 {
		status = http.StatusCreated
	}
	if resp == nil {
		resp = map[string]any{"orderId": "ORD-1", "grandTotal": 600, "subtotal": 500, "shippingFee": 100}
	}
	writeJSON(w, status, resp)
}

func (f *FakeMarketplace) canned(status *int, resp *any) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		s, body := *status, *resp
		f.mu.Unlock()
		if s == 0 {
			s = http.StatusOK
		}
		if body == nil {
			body = map[string]any{"message": "not configured"}
			s = http.StatusNotImplemented
		}
		writeJSON(w, s, body)
	}
}

func (f *FakeMarketplace) saveAddress(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	fail := f.FailSave
	f.mu.Unlock()
	if fail {
		writeJSON(w, http.StatusInternalServerError, map[string]any{"message": "address book unavailable"})
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{"message": "saved"})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
