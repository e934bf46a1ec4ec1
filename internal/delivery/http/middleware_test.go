package http

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

func TestIsAllowedOrigin(t *testing.T) {
	tests := []struct {
		name           string
		origin         string
		allowedOrigins []string
		want           bool
	}{
		{"exact match", "http://localhost:3000", []string{"http://localhost:3000"}, true},
		{"subdomain wildcard", "https://shop.pricio.ru", []string{"https://*"}, true},
		{"port wildcard", "http://localhost:5173", []string{"https://app.pricio.ru", "http://localhost:*"}, true},
		{"no match", "https://5ka.evil.com", []string{"https://app.pricio.ru"}, false},
		{"empty origin", "", []string{"*"}, false},
		{"empty allowed list", "https://app.pricio.ru", nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := isAllowedOrigin(tt.origin, tt.allowedOrigins); got != tt.want {
				t.Errorf("isAllowedOrigin() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestCORSMiddleware(t *testing.T) {
	tests := []struct {
		name       string
		origin     string
		method     string
		wantStatus int
		wantCORS   bool
	}{
		{"allowed origin", "https://app.pricio.ru", http.MethodGet, http.StatusOK, true},
		{"preflight", "https://app.pricio.ru", http.MethodOptions, http.StatusNoContent, true},
		{"disallowed origin", "http://evil.com", http.MethodGet, http.StatusOK, false},
		{"no origin header", "", http.MethodGet, http.StatusOK, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := gin.New()
			router.Use(CORSMiddleware([]string{"https://app.pricio.ru"}))
			router.GET("/test", func(c *gin.Context) {
				c.String(http.StatusOK, "OK")
			})

			req := httptest.NewRequest(tt.method, "/test", nil)
			if tt.origin != "" {
				req.Header.Set("Origin", tt.origin)
			}
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			if w.Code != tt.wantStatus {
				t.Errorf("Status = %d, want %d", w.Code, tt.wantStatus)
			}

			corsHeader := w.Header().Get("Access-Control-Allow-Origin")
			if tt.wantCORS && corsHeader != tt.origin {
				t.Errorf("Access-Control-Allow-Origin = %s, want %s", corsHeader, tt.origin)
			}
			if !tt.wantCORS && corsHeader != "" {
				t.Errorf("Access-Control-Allow-Origin should not be set, got %s", corsHeader)
			}
		})
	}
}

func TestRequestIDMiddleware(t *testing.T) {
	router := gin.New()
	router.Use(RequestIDMiddleware())
	router.GET("/test", func(c *gin.Context) {
		c.String(http.StatusOK, c.GetString(requestIDKey))
	})

	t.Run("generates an id", func(t *testing.T) {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/test", nil))

		id := w.Header().Get(requestIDHeader)
		if len(id) != 36 {
			t.Errorf("X-Request-ID = %q, want a uuid", id)
		}
		if w.Body.String() != id {
			t.Errorf("context id = %q, want %q", w.Body.String(), id)
		}
	})

	t.Run("keeps the caller id", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/test", nil)
		req.Header.Set(requestIDHeader, "trace-42")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		if got := w.Header().Get(requestIDHeader); got != "trace-42" {
			t.Errorf("X-Request-ID = %q, want trace-42", got)
		}
	})
}

func TestRecoveryMiddleware(t *testing.T) {
	router := gin.New()
	router.Use(RecoveryMiddleware(zerolog.Nop()))
	router.GET("/panic", func(c *gin.Context) {
		panic("boom")
	})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/panic", nil))

	if w.Code != http.StatusInternalServerError {
		t.Errorf("Status = %d, want %d", w.Code, http.StatusInternalServerError)
	}
}

func TestRateLimitMiddleware(t *testing.T) {
	router := gin.New()
	router.Use(RateLimitMiddleware(2))
	router.GET("/test", func(c *gin.Context) {
		c.String(http.StatusOK, "OK")
	})

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		req := httptest.NewRequest(http.MethodGet, "/test", nil)
		req.RemoteAddr = "10.0.0.1:1234"
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		codes = append(codes, w.Code)
	}

	want := []int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests}
	for i := range want {
		if codes[i] != want[i] {
			t.Errorf("request %d status = %d, want %d", i+1, codes[i], want[i])
		}
	}

	// A different client has its own budget
	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	req.RemoteAddr = "10.0.0.2:1234"
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Errorf("other client status = %d, want %d", w.Code, http.StatusOK)
	}
}

func TestIPLimiters(t *testing.T) {
	l := newIPLimiters(2)
	start := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	if !l.allow("a", start) || !l.allow("a", start) {
		t.Fatal("burst requests should be allowed")
	}
	if l.allow("a", start) {
		t.Error("third request should be limited")
	}
	if !l.allow("a", start.Add(30*time.Second)) {
		t.Error("request after refill should be allowed")
	}

	l.allow("b", start.Add(30*time.Second))
	l.allow("c", start.Add(20*time.Minute))
	if _, ok := l.visitors["a"]; ok {
		t.Error("idle visitor should be pruned")
	}
	if len(l.visitors) != 1 {
		t.Errorf("visitors = %d, want 1", len(l.visitors))
	}
}
