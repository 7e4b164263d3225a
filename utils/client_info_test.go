package utils

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

const (
	chromeWindows        = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0 Safari/537.36"
	safariIPhone         = "Mozilla/5.0 (iPhone; CPU iPhone OS 17_4 like Mac OS X) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/17.4 Mobile/15E148 Safari/604.1"
	edgeMac              = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0 Safari/537.36 Edg/124.0"
	firefoxAndroidTablet = "Mozilla/5.0 (Android 14; Tablet; rv:125.0) Gecko/125.0 Firefox/125.0"
)

func contextWith(headers map[string]string) *gin.Context {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "10.0.0.9:51234"
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	c.Request = req
	return c
}

func TestDescribeClient(t *testing.T) {
	cases := []struct {
		ua   string
		want ClientInfo
	}{
		{chromeWindows, ClientInfo{DeviceType: "desktop", Browser: "Chrome", OS: "Windows"}},
		{safariIPhone, ClientInfo{DeviceType: "mobile", Browser: "Safari", OS: "iOS"}},
		{edgeMac, ClientInfo{DeviceType: "desktop", Browser: "Edge", OS: "macOS"}},
		{firefoxAndroidTablet, ClientInfo{DeviceType: "tablet", Browser: "Firefox", OS: "Android"}},
		{"curl/8.5.0", ClientInfo{DeviceType: "desktop", Browser: "Other", OS: "Other"}},
	}
	for _, tc := range cases {
		got := DescribeClient(contextWith(map[string]string{"User-Agent": tc.ua}))
		tc.want.IP = "10.0.0.9"
		assert.Equal(t, tc.want, got, tc.ua)
	}
}

func TestGetClientIP(t *testing.T) {
	cases := []struct {
		name    string
		headers map[string]string
		want    string
	}{
		{"first forwarded hop", map[string]string{"X-Forwarded-For": "203.0.113.7, 10.0.0.1"}, "203.0.113.7"},
		{"real ip", map[string]string{"X-Real-IP": "198.51.100.4"}, "198.51.100.4"},
		{"garbage forwarded falls through", map[string]string{"X-Forwarded-For": "not-an-ip", "X-Real-IP": "198.51.100.4"}, "198.51.100.4"},
		{"remote address", nil, "10.0.0.9"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, GetClientIP(contextWith(tc.headers)))
		})
	}
}
