package ecommerce_routes

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/Modeva-Ecommerce/modeva-storefront/device_store"
	"github.com/Modeva-Ecommerce/modeva-storefront/services"
	"github.com/Modeva-Ecommerce/modeva-storefront/testutil"
	"github.com/Modeva-Ecommerce/modeva-storefront/utils"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type gateway struct {
	backend *testutil.FakeMarketplace
	store   device_store.Store
	server  *httptest.Server
}

func newGateway(t testing.TB) *gateway {
	t.Helper()
	backend := testutil.NewFakeMarketplace()
	t.Cleanup(backend.Close)

	tokens, err := utils.NewSessionTokens("test-secret", time.Hour)
	require.NoError(t, err)

	logger := zap.NewNop()
	store := device_store.NewMemoryStore()
	client := services.NewMarketplaceClient(backend.URL(), 5*time.Second, logger)
	broker := services.NewCartBroker()
	carts := services.NewCartStore(client, store, tokens, broker, logger)
	sessions := services.NewCheckoutSessions(time.Hour)

	router := NewRouter(&Deps{
		Backend:       client,
		Store:         store,
		Tokens:        tokens,
		Carts:         carts,
		Broker:        broker,
		Checkout:      services.NewCheckoutService(client, carts, sessions, store, 0, logger),
		Payments:      services.NewPaymentVerifier(client, store, 0, logger),
		Logger:        logger,
		StorefrontURL: "http://shop.test",
	}, []string{"http://shop.test"})

	server := httptest.NewServer(router)
	t.Cleanup(server.Close)
	return &gateway{backend: backend, store: store, server: server}
}

// browser keeps cookies between requests like a real shopper's browser.
type browser struct {
	t      testing.TB
	base   string
	client *http.Client
}

func (g *gateway) browser(t testing.TB) *browser {
	jar, err := cookiejar.New(nil)
	require.NoError(t, err)
	return &browser{
		t:    t,
		base: g.server.URL + "/api/v1",
		client: &http.Client{
			Jar: jar,
			CheckRedirect: func(*http.Request, []*http.Request) error {
				return http.ErrUseLastResponse
			},
		},
	}
}

type envelope struct {
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
	Error   bool            `json:"error"`
	Failure *struct {
		Status  int            `json:"status"`
		Message string         `json:"message"`
		Details map[string]any `json:"details"`
		Path    string         `json:"path"`
	} `json:"failure"`
}

type reply struct {
	Status int
	Header http.Header
	Body   []byte
}

func (r reply) envelope(t testing.TB) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.Unmarshal(r.Body, &env), string(r.Body))
	return env
}

// data decodes the envelope's data into v.
func (r reply) data(t testing.TB, v any) {
	t.Helper()
	env := r.envelope(t)
	require.NoError(t, json.Unmarshal(env.Data, v), string(r.Body))
}

func (b *browser) do(method, path string, body any, header ...string) reply {
	b.t.Helper()
	var rdr io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(b.t, err)
		rdr = bytes.NewReader(raw)
	}
	req, err := http.NewRequest(method, b.base+path, rdr)
	require.NoError(b.t, err)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for i := 0; i+1 < len(header); i += 2 {
		req.Header.Set(header[i], header[i+1])
	}
	resp, err := b.client.Do(req)
	require.NoError(b.t, err)
	defer resp.Body.Close()
	raw, err := io.ReadAll(resp.Body)
	require.NoError(b.t, err)
	return reply{Status: resp.StatusCode, Header: resp.Header, Body: raw}
}

func (b *browser) get(path string, header ...string) reply {
	return b.do(http.MethodGet, path, nil, header...)
}

func (b *browser) post(path string, body any) reply {
	return b.do(http.MethodPost, path, body)
}

func (b *browser) patch(path string, body any) reply {
	return b.do(http.MethodPatch, path, body)
}

func (b *browser) cookie(name string) string {
	u, _ := http.NewRequest(http.MethodGet, b.base, nil)
	for _, c := range b.client.Jar.Cookies(u.URL) {
		if c.Name == name {
			return c.Value
		}
	}
	return ""
}

func validDraft(method string) map[string]any {
	return map[string]any{
		"fullName":      "Sita Rai",
		"phone":         "9811111111",
		"street":        "Baluwatar Marg",
		"city":          "Kathmandu",
		"insideValley":  true,
		"paymentMethod": method,
		"acceptTerms":   true,
	}
}

// toPayment fills the draft and walks the wizard to the payment step.
func (b *browser) toPayment(method string) {
	b.t.Helper()
	require.Equal(b.t, http.StatusOK, b.patch("/checkout/draft", validDraft(method)).Status)
	require.Equal(b.t, http.StatusOK, b.post("/checkout/next", nil).Status)
	require.Equal(b.t, http.StatusOK, b.post("/checkout/next", nil).Status)
}

func testUserFor(id int64) testutil.LoginUser {
	return testutil.LoginUser{ID: id, Name: "Sita Rai", Password: "secret123"}
}
