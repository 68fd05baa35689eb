package echoapi

import (
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"golang.org/x/time/rate"
)

func Test_rateLimiter(t *testing.T) {
	e := echo.New()
	handler := newRateLimiter(1).middleware()(func(ctx echo.Context) error {
		return ctx.NoContent(http.StatusOK)
	})
	request := func(ip string) (*httptest.ResponseRecorder, error) {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", nil)
		req.Header.Set(echo.HeaderXRealIP, ip)
		rec := httptest.NewRecorder()
		return rec, handler(e.NewContext(req, rec))
	}

	t.Run("request over the limit is rejected", func(t *testing.T) {
		if _, err := request("10.0.0.1"); err != nil {
			t.Fatalf("first request rejected, %v", err)
		}
		rec, err := request("10.0.0.1")
		if err != errTooManyRequests {
			t.Errorf("err = %v; want %v", err, errTooManyRequests)
		}
		if retry := rec.Header().Get("Retry-After"); retry != "60" {
			t.Errorf("Retry-After = %q; want %q", retry, "60")
		}
	})

	t.Run("limits are tracked per client IP", func(t *testing.T) {
		if _, err := request("10.0.0.2"); err != nil {
			t.Errorf("first client rejected, %v", err)
		}
		if _, err := request("10.0.0.3"); err != nil {
			t.Errorf("second client rejected, %v", err)
		}
	})
}

func Test_rateLimiter_evictsIdleClients(t *testing.T) {
	rl := newRateLimiter(1)
	stale := time.Now().Add(-30 * time.Minute)
	for i := 0; i < 1000; i++ {
		rl.clients["203.0.113."+strconv.Itoa(i)] = &rateLimitClient{
			limiter:  rate.NewLimiter(rate.Every(time.Minute), 1),
			lastSeen: stale,
		}
	}

	rl.get("10.0.0.9")

	rl.mu.Lock()
	defer rl.mu.Unlock()
	if len(rl.clients) != 1 {
		t.Errorf("len(clients) = %d; want 1", len(rl.clients))
	}
	if _, ok := rl.clients["10.0.0.9"]; !ok {
		t.Error("active client evicted")
	}
}
