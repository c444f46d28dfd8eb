package metadata

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"workpaper/pkg/requestcontext"
)

func TestClientIPFromRequest(t *testing.T) {
	cases := []struct {
		name       string
		xff        string
		realIP     string
		remoteAddr string
		want       string
	}{
		{"forwarded chain uses first hop", "203.0.113.7, 10.0.0.1", "", "10.0.0.2:1234", "203.0.113.7"},
		{"single forwarded ip", "203.0.113.7", "", "10.0.0.2:1234", "203.0.113.7"},
		{"real ip header", "", "203.0.113.9", "10.0.0.2:1234", "203.0.113.9"},
		{"remote addr ipv4", "", "", "198.51.100.4:5050", "198.51.100.4"},
		{"remote addr ipv6", "", "", "[::1]:5050", "::1"},
		{"no information", "", "", "", ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodGet, "/", nil)
			r.RemoteAddr = tc.remoteAddr
			if tc.xff != "" {
				r.Header.Set("X-Forwarded-For", tc.xff)
			}
			if tc.realIP != "" {
				r.Header.Set("X-Real-IP", tc.realIP)
			}
			assert.Equal(t, tc.want, ClientIPFromRequest(r))
		})
	}
}

func TestClientMetadataPopulatesContext(t *testing.T) {
	const chromeUA = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

	var gotIP, gotUA, gotDevice string
	handler := ClientMetadata(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
		gotIP = requestcontext.ClientIP(r.Context())
		gotUA = requestcontext.UserAgent(r.Context())
		gotDevice = requestcontext.Device(r.Context())
	}))

	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.RemoteAddr = "198.51.100.4:5050"
	r.Header.Set("User-Agent", chromeUA)
	handler.ServeHTTP(httptest.NewRecorder(), r)

	assert.Equal(t, "198.51.100.4", gotIP)
	assert.Equal(t, chromeUA, gotUA)
	assert.Contains(t, gotDevice, "Chrome")
	assert.Contains(t, gotDevice, "Windows")
}

func TestClientMetadataEmptyUserAgent(t *testing.T) {
	var gotDevice string
	handler := ClientMetadata(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
		gotDevice = requestcontext.Device(r.Context())
	}))

	r := httptest.NewRequest(http.MethodGet, "/", nil)
	handler.ServeHTTP(httptest.NewRecorder(), r)

	assert.Empty(t, gotDevice)
}
