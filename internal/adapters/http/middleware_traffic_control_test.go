package httpadapter

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"golang.org/x/time/rate"
)

func TestRateLimitMiddlewareReturns429(t *testing.T) {
	handler := NewRouter(
		ingestSuccessFake{},
		askErrFake{},
		readerErrFake{},
		RouterOptions{Limiter: rate.NewLimiter(rate.Limit(1), 1)},
	).Handler()

	req1 := multipartUpload(t, "file.txt", "text/plain", []byte("第1条"))
	res1 := httptest.NewRecorder()
	handler.ServeHTTP(res1, req1)
	if res1.Code != http.StatusAccepted {
		t.Fatalf("first request expected 202, got %d", res1.Code)
	}

	req2 := multipartUpload(t, "file.txt", "text/plain", []byte("第2条"))
	res2 := httptest.NewRecorder()
	handler.ServeHTTP(res2, req2)
	if res2.Code != http.StatusTooManyRequests {
		t.Fatalf("second request expected 429, got %d", res2.Code)
	}
	if res2.Header().Get("Retry-After") == "" {
		t.Fatalf("expected Retry-After header for 429 response")
	}
}

func TestRateLimitMiddlewareSparesHealthProbes(t *testing.T) {
	handler := NewRouter(
		ingestSuccessFake{},
		askErrFake{},
		readerErrFake{},
		RouterOptions{Limiter: rate.NewLimiter(rate.Limit(0), 0)},
	).Handler()

	for i := 0; i < 3; i++ {
		req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
		res := httptest.NewRecorder()
		handler.ServeHTTP(res, req)
		if res.Code != http.StatusOK {
			t.Fatalf("health probe %d expected 200, got %d", i, res.Code)
		}
	}

	req := httptest.NewRequest(http.MethodPost, "/v1/ask", nil)
	res := httptest.NewRecorder()
	handler.ServeHTTP(res, req)
	if res.Code != http.StatusTooManyRequests {
		t.Fatalf("expected 429 for exhausted limiter, got %d", res.Code)
	}
}
