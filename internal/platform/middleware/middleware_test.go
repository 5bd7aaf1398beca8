package middleware

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
)

func newContext(method, path string, body string) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
	}
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func TestRequestIDGenerates(t *testing.T) {
	c, rec := newContext(http.MethodGet, "/", "")
	h := RequestID()(func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	})
	if err := h(c); err != nil {
		t.Fatalf("handler error = %v", err)
	}

	rid, _ := c.Get("request_id").(string)
	if rid == "" {
		t.Fatal("request_id not set on context")
	}
	if rec.Header().Get(HeaderRequestID) != rid {
		t.Errorf("response header %s = %q, want %q", HeaderRequestID, rec.Header().Get(HeaderRequestID), rid)
	}
}

func TestRequestIDPropagates(t *testing.T) {
	c, rec := newContext(http.MethodGet, "/", "")
	c.Request().Header.Set(HeaderRequestID, "upstream-id")
	h := RequestID()(func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	})
	if err := h(c); err != nil {
		t.Fatalf("handler error = %v", err)
	}
	if rec.Header().Get(HeaderRequestID) != "upstream-id" {
		t.Errorf("request id = %q, want upstream-id", rec.Header().Get(HeaderRequestID))
	}
}

func TestLoggerLevels(t *testing.T) {
	cases := []struct {
		name   string
		status int
		level  string
	}{
		{"ok", http.StatusOK, `"level":"info"`},
		{"client error", http.StatusNotFound, `"level":"warn"`},
		{"server error", http.StatusInternalServerError, `"level":"error"`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var buf bytes.Buffer
			logger := zerolog.New(&buf)

			c, _ := newContext(http.MethodGet, "/patients", "")
			h := Logger(logger)(func(c echo.Context) error {
				return c.NoContent(tc.status)
			})
			if err := h(c); err != nil {
				t.Fatalf("handler error = %v", err)
			}

			out := buf.String()
			if !strings.Contains(out, tc.level) {
				t.Errorf("log line %q missing %s", out, tc.level)
			}
			if !strings.Contains(out, `"path":"/patients"`) {
				t.Errorf("log line %q missing path", out)
			}
		})
	}
}

func TestRecoveryConvertsPanic(t *testing.T) {
	var buf bytes.Buffer
	logger := zerolog.New(&buf)

	c, _ := newContext(http.MethodGet, "/", "")
	h := Recovery(logger)(func(c echo.Context) error {
		panic("boom")
	})

	err := h(c)
	httpErr, ok := err.(*echo.HTTPError)
	if !ok {
		t.Fatalf("err = %v, want *echo.HTTPError", err)
	}
	if httpErr.Code != http.StatusInternalServerError {
		t.Errorf("code = %d, want 500", httpErr.Code)
	}
	if !strings.Contains(buf.String(), "boom") {
		t.Error("panic value not logged")
	}
}

func TestSecurityHeaders(t *testing.T) {
	c, rec := newContext(http.MethodGet, "/", "")
	h := SecurityHeaders()(func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	})
	if err := h(c); err != nil {
		t.Fatalf("handler error = %v", err)
	}

	want := map[string]string{
		"X-Content-Type-Options": "nosniff",
		"X-Frame-Options":        "DENY",
		"Cache-Control":          "no-store",
	}
	for k, v := range want {
		if got := rec.Header().Get(k); got != v {
			t.Errorf("header %s = %q, want %q", k, got, v)
		}
	}
}

func TestBodyLimitRejectsOversized(t *testing.T) {
	c, _ := newContext(http.MethodPost, "/patients", strings.Repeat("x", 2048))
	h := BodyLimit("1K")(func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	})
	if err := h(c); err != nil {
		t.Fatalf("handler error = %v", err)
	}
	if c.Response().Status != http.StatusRequestEntityTooLarge {
		t.Errorf("status = %d, want 413", c.Response().Status)
	}
}

func TestBodyLimitAllowsSmall(t *testing.T) {
	c, _ := newContext(http.MethodPost, "/patients", `{"name":"x"}`)
	h := BodyLimit("1M")(func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	})
	if err := h(c); err != nil {
		t.Fatalf("handler error = %v", err)
	}
	if c.Response().Status != http.StatusOK {
		t.Errorf("status = %d, want 200", c.Response().Status)
	}
}

func TestParseLimit(t *testing.T) {
	cases := []struct {
		in   string
		want int64
	}{
		{"1K", 1024},
		{"2M", 2 << 20},
		{"1G", 1 << 30},
		{"4096", 4096},
		{"", 1 << 20},
		{"garbage", 1 << 20},
	}
	for _, tc := range cases {
		if got := parseLimit(tc.in); got != tc.want {
			t.Errorf("parseLimit(%q) = %d, want %d", tc.in, got, tc.want)
		}
	}
}

func TestRequestTimeout(t *testing.T) {
	c, rec := newContext(http.MethodGet, "/", "")
	h := RequestTimeout(20 * time.Millisecond)(func(c echo.Context) error {
		select {
		case <-c.Request().Context().Done():
			return nil
		case <-time.After(time.Second):
			return c.NoContent(http.StatusOK)
		}
	})
	if err := h(c); err != nil {
		t.Fatalf("handler error = %v", err)
	}
	if rec.Code != http.StatusGatewayTimeout {
		t.Errorf("status = %d, want 504", rec.Code)
	}
}

func TestRequestTimeoutFastHandler(t *testing.T) {
	c, rec := newContext(http.MethodGet, "/", "")
	h := RequestTimeout(time.Second)(func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	})
	if err := h(c); err != nil {
		t.Fatalf("handler error = %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", rec.Code)
	}
}
