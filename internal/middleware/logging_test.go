package middleware

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
)

// captureLog routes the default logger into a JSON buffer for the test.
func captureLog(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	prev := slog.Default()
	slog.SetDefault(slog.New(slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})))
	t.Cleanup(func() { slog.SetDefault(prev) })
	return &buf
}

func decodeRecord(t *testing.T, buf *bytes.Buffer) map[string]any {
	t.Helper()
	var rec map[string]any
	if err := json.Unmarshal(buf.Bytes(), &rec); err != nil {
		t.Fatalf("decode log record %q: %v", buf.String(), err)
	}
	return rec
}

func TestLoggerLevels(t *testing.T) {
	tests := []struct {
		name   string
		status int
		level  string
	}{
		{"page", http.StatusOK, "INFO"},
		{"redirect after save", http.StatusSeeOther, "INFO"},
		{"csrf rejection", http.StatusForbidden, "WARN"},
		{"rate limited", http.StatusTooManyRequests, "WARN"},
		{"gateway down", http.StatusServiceUnavailable, "ERROR"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf := captureLog(t)
			handler := Logger(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
			}))

			rr := httptest.NewRecorder()
			handler.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/kontakt", nil))

			if rr.Code != tt.status {
				t.Errorf("status passed through = %d, want %d", rr.Code, tt.status)
			}
			rec := decodeRecord(t, buf)
			if rec["level"] != tt.level {
				t.Errorf("level = %v, want %s", rec["level"], tt.level)
			}
			if got, _ := rec["status"].(float64); int(got) != tt.status {
				t.Errorf("logged status = %v, want %d", rec["status"], tt.status)
			}
		})
	}
}

func TestLoggerAttributes(t *testing.T) {
	buf := captureLog(t)
	handler := Logger(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<div id="gallery"></div>`))
	}))

	req := httptest.NewRequest(http.MethodGet, "/portfolio?category=all", nil)
	req.RemoteAddr = "203.0.113.7:51000"
	req.Header.Set("HX-Request", "true")
	req.Header.Set("X-Forwarded-For", "198.51.100.20")
	handler.ServeHTTP(httptest.NewRecorder(), req)

	rec := decodeRecord(t, buf)
	want := map[string]any{
		"msg":           "http request",
		"method":        "GET",
		"path":          "/portfolio",
		"remote":        "203.0.113.7",
		"htmx":          true,
		"forwarded_for": "198.51.100.20",
	}
	for k, v := range want {
		if rec[k] != v {
			t.Errorf("%s = %v, want %v", k, rec[k], v)
		}
	}
	if got, _ := rec["status"].(float64); got != http.StatusOK {
		t.Errorf("implicit status = %v, want 200", rec["status"])
	}
}

func TestResponseWriterKeepsFirstStatus(t *testing.T) {
	rr := httptest.NewRecorder()
	rw := &responseWriter{ResponseWriter: rr, statusCode: http.StatusOK}

	rw.WriteHeader(http.StatusSeeOther)
	rw.WriteHeader(http.StatusInternalServerError)
	rw.Write([]byte("ignored status"))

	if rw.statusCode != http.StatusSeeOther {
		t.Errorf("statusCode = %d, want 303", rw.statusCode)
	}
	if rr.Body.String() != "ignored status" {
		t.Errorf("body = %q", rr.Body.String())
	}
}
