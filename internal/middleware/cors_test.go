package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/pkordes/wanderly/internal/middleware"
)

const webOrigin = "http://localhost:5173"

var okHandler = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
})

func corsRequest(method, path, origin string, header map[string]string) *httptest.ResponseRecorder {
	h := middleware.NewCORSHandler([]string{webOrigin})(okHandler)
	req := httptest.NewRequest(method, path, nil)
	req.Header.Set("Origin", origin)
	for k, v := range header {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestCORSHandler_AllowedOrigin(t *testing.T) {
	rec := corsRequest(http.MethodGet, "/trips", webOrigin, nil)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, webOrigin, rec.Header().Get("Access-Control-Allow-Origin"))
	exposed := rec.Header().Get("Access-Control-Expose-Headers")
	assert.Contains(t, exposed, "Retry-After")
	assert.Contains(t, exposed, "Content-Disposition")
}

func TestCORSHandler_ForeignOriginGetsNoGrant(t *testing.T) {
	rec := corsRequest(http.MethodGet, "/trips", "http://evil.example.com", nil)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestCORSHandler_Preflight(t *testing.T) {
	// Browsers send Access-Control-Request-Headers lowercased.
	tests := []struct {
		name    string
		path    string
		method  string
		headers string
	}{
		{"patch trip", "/trips/abc", http.MethodPatch, "content-type"},
		{"cast vote", "/activities/abc/vote", http.MethodPut, "authorization,content-type"},
		{"plan trip", "/trips/plan", http.MethodPost, "authorization"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			rec := corsRequest(http.MethodOptions, tc.path, webOrigin, map[string]string{
				"Access-Control-Request-Method":  tc.method,
				"Access-Control-Request-Headers": tc.headers,
			})

			assert.Less(t, rec.Code, 300)
			assert.Equal(t, webOrigin, rec.Header().Get("Access-Control-Allow-Origin"))
			assert.Equal(t, tc.method, rec.Header().Get("Access-Control-Allow-Methods"))
			assert.Equal(t, "600", rec.Header().Get("Access-Control-Max-Age"))
			assert.Empty(t, rec.Header().Get("Access-Control-Allow-Credentials"))
		})
	}
}

func TestCORSHandler_PreflightRejectsDelete(t *testing.T) {
	rec := corsRequest(http.MethodOptions, "/trips/abc", webOrigin, map[string]string{
		"Access-Control-Request-Method": http.MethodDelete,
	})

	assert.Empty(t, rec.Header().Get("Access-Control-Allow-Methods"))
}
