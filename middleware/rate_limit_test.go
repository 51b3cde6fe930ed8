package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

func TestRateLimiter(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	// 4 per minute gives a burst of 2
	r.GET("/", NewRateLimiter(4).Middleware(), func(ctx *gin.Context) { ctx.Status(http.StatusNoContent) })

	do := func(ip string) int {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.RemoteAddr = ip + ":1234"
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		return w.Code
	}

	for i := 0; i < 2; i++ {
		if got := do("10.0.0.1"); got != http.StatusNoContent {
			t.Fatalf("request %d: status %d", i, got)
		}
	}
	if got := do("10.0.0.1"); got != http.StatusTooManyRequests {
		t.Errorf("over the limit: status %d, want 429", got)
	}
	if got := do("10.0.0.2"); got != http.StatusNoContent {
		t.Errorf("other client throttled: status %d", got)
	}
}
