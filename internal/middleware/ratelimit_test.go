package middleware

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/netip"
	"testing"
	"time"
)

func TestRateLimiterAllow(t *testing.T) {
	rl := NewRateLimiter(3, 1*time.Second)
	defer rl.Stop()

	// First 3 requests should be allowed.
	for i := 0; i < 3; i++ {
		if !rl.allow("test-ip") {
			t.Fatalf("request %d should be allowed", i+1)
		}
	}

	// 4th request should be denied.
	if rl.allow("test-ip") {
		t.Error("4th request should be rate-limited")
	}

	// Different IP should still be allowed.
	if !rl.allow("other-ip") {
		t.Error("different IP should be allowed")
	}
}

func TestRateLimiterWindowExpiry(t *testing.T) {
	rl := NewRateLimiter(2, 100*time.Millisecond)
	defer rl.Stop()

	// Use up the limit.
	rl.allow("test-ip")
	rl.allow("test-ip")

	if rl.allow("test-ip") {
		t.Error("should be rate-limited")
	}

	// Move past the window.
	rl.now = func() time.Time { return time.Now().Add(150 * time.Millisecond) }

	if !rl.allow("test-ip") {
		t.Error("should be allowed after window expires")
	}
}

func TestRateLimiterMiddleware(t *testing.T) {
	rl := NewRateLimiter(2, 1*time.Second)
	defer rl.Stop()

	handler := rl.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	// First 2 requests should succeed.
	for i := 0; i < 2; i++ {
		req := httptest.NewRequest(http.MethodPost, "/admin", nil)
		req.RemoteAddr = "192.168.1.1:12345"
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, req)
		if rr.Code != http.StatusOK {
			t.Fatalf("request %d: got status %d, want 200", i+1, rr.Code)
		}
	}

	// 3rd request should be rate-limited.
	req := httptest.NewRequest(http.MethodPost, "/admin", nil)
	req.RemoteAddr = "192.168.1.1:12345"
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)
	if rr.Code != http.StatusTooManyRequests {
		t.Errorf("got status %d, want 429", rr.Code)
	}
}

func TestClientIP(t *testing.T) {
	proxies := []netip.Prefix{netip.MustParsePrefix("10.0.0.0/8"), netip.MustParsePrefix("::1/128")}

	tests := []struct {
		name       string
		xff        string
		xri        string
		remoteAddr string
		trusted    []netip.Prefix
		want       string
	}{
		{
			name:       "untrusted peer ignores x-forwarded-for",
			xff:        "198.51.100.20",
			remoteAddr: "203.0.113.7:40000",
			trusted:    proxies,
			want:       "203.0.113.7",
		},
		{
			name:       "no trusted proxies ignores headers",
			xff:        "198.51.100.20",
			xri:        "198.51.100.21",
			remoteAddr: "10.0.0.5:40000",
			want:       "10.0.0.5",
		},
		{
			name:       "trusted proxy forwards client",
			xff:        "198.51.100.20",
			remoteAddr: "10.0.0.5:40000",
			trusted:    proxies,
			want:       "198.51.100.20",
		},
		{
			name:       "spoofed leftmost hop is skipped",
			xff:        "1.2.3.4, 198.51.100.20, 10.0.0.9",
			remoteAddr: "10.0.0.5:40000",
			trusted:    proxies,
			want:       "198.51.100.20",
		},
		{
			name:       "x-real-ip from trusted proxy",
			xri:        "198.51.100.21",
			remoteAddr: "10.0.0.5:40000",
			trusted:    proxies,
			want:       "198.51.100.21",
		},
		{
			name:       "ipv6 loopback proxy",
			xff:        "2001:db8::7",
			remoteAddr: "[::1]:40000",
			trusted:    proxies,
			want:       "2001:db8::7",
		},
		{
			name:       "remote addr no port",
			remoteAddr: "203.0.113.7",
			want:       "203.0.113.7",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/kontakt", nil)
			req.RemoteAddr = tt.remoteAddr
			if tt.xff != "" {
				req.Header.Set("X-Forwarded-For", tt.xff)
			}
			if tt.xri != "" {
				req.Header.Set("X-Real-IP", tt.xri)
			}
			if got := clientIP(req, tt.trusted); got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

// A client rotating X-Forwarded-For on every request still shares one bucket.
func TestRateLimiterRotatingForwardedFor(t *testing.T) {
	rl := NewRateLimiter(5, 10*time.Minute).TrustProxies([]netip.Prefix{netip.MustParsePrefix("10.0.0.0/8")})
	defer rl.Stop()

	handler := rl.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	accepted := 0
	for i := 0; i < 50; i++ {
		req := httptest.NewRequest(http.MethodPost, "/kontakt", nil)
		req.RemoteAddr = "203.0.113.7:51000"
		req.Header.Set("X-Forwarded-For", fmt.Sprintf("198.51.100.%d", i))
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, req)
		if rr.Code == http.StatusOK {
			accepted++
		}
	}
	if accepted != 5 {
		t.Errorf("accepted %d requests, want 5", accepted)
	}
}

func TestRateLimiterCleanup(t *testing.T) {
	rl := NewRateLimiter(5, time.Minute)
	defer rl.Stop()
	clock := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	rl.now = func() time.Time { return clock }

	rl.allow("ip-old")
	clock = clock.Add(50 * time.Second)
	rl.allow("ip-fresh")

	clock = clock.Add(20 * time.Second)
	rl.cleanup()

	if got := rl.clients(); got != 1 {
		t.Fatalf("expected 1 remaining client, got %d", got)
	}
	if _, ok := rl.hits["ip-fresh"]; !ok {
		t.Error("ip-fresh should still exist (has recent timestamp)")
	}

	clock = clock.Add(time.Minute)
	rl.cleanup()
	if got := rl.clients(); got != 0 {
		t.Errorf("cleanup should remove expired entries, got %d", got)
	}
}

func TestRateLimiterRetryAfter(t *testing.T) {
	rl := NewRateLimiter(1, 90*time.Second)
	defer rl.Stop()

	handler := rl.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	for i := 0; i < 2; i++ {
		req := httptest.NewRequest(http.MethodPost, "/kontakt", nil)
		req.RemoteAddr = "10.1.1.1:5555"
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, req)
		if i == 1 {
			if rr.Code != http.StatusTooManyRequests {
				t.Fatalf("got status %d, want 429", rr.Code)
			}
			if got := rr.Header().Get("Retry-After"); got != "90" {
				t.Errorf("Retry-After: got %q, want 90", got)
			}
		}
	}
}
