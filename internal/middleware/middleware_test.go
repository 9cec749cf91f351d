package middleware

import (
	"bytes"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/mapmymeal/api/internal/auth"
	"github.com/mapmymeal/api/internal/session"
)

func TestLoggingMiddleware(t *testing.T) {
	buf := &bytes.Buffer{}
	logger := zerolog.New(buf)

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.Set(ContextKeyRequestID, "rid-123")

	err := Logging(logger)(func(c echo.Context) error {
		zerolog.Ctx(c.Request().Context()).Info().Msg("inside handler")
		return c.String(http.StatusOK, "ok")
	})(c)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}
	out := buf.String()
	if strings.Count(out, `"request_id":"rid-123"`) != 2 {
		t.Fatalf("expected handler and access lines to carry request id, got %s", out)
	}
	if !strings.Contains(out, `"status":200`) || !strings.Contains(out, `"path":"/healthz"`) {
		t.Fatalf("expected access line fields, got %s", out)
	}

	// errors are rendered, logged and propagated
	buf.Reset()
	rec = httptest.NewRecorder()
	c = e.NewContext(req, rec)
	c.Set(ContextKeyRequestID, "rid-456")
	expected := errors.New("boom")
	err = Logging(logger)(func(c echo.Context) error {
		return expected
	})(c)
	if !errors.Is(err, expected) {
		t.Fatalf("expected error to bubble up")
	}
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rec.Code)
	}
	if !strings.Contains(buf.String(), `"level":"error"`) || !strings.Contains(buf.String(), "rid-456") {
		t.Fatalf("expected error level entry with new request id, got %s", buf.String())
	}
}

func TestRequestIDMiddleware(t *testing.T) {
	e := echo.New()
	handler := RequestID()

	t.Run("reuse incoming header", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("X-Request-ID", "incoming")
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)

		if err := handler(func(c echo.Context) error {
			if RequestIDFromContext(c) != "incoming" {
				t.Fatalf("expected request id to be stored")
			}
			return c.NoContent(http.StatusOK)
		})(c); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if rec.Header().Get("X-Request-ID") != "incoming" {
			t.Fatalf("expected response header to propagate request id")
		}
	})

	t.Run("generate when missing", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)

		if err := handler(func(c echo.Context) error {
			if RequestIDFromContext(c) == "" {
				t.Fatalf("expected generated request id")
			}
			return c.NoContent(http.StatusOK)
		})(c); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if rec.Header().Get("X-Request-ID") == "" {
			t.Fatalf("expected response header set")
		}
	})

	t.Run("replace unsafe header", func(t *testing.T) {
		for _, incoming := range []string{"bad id\nforged=1", strings.Repeat("a", 65)} {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.Header.Set("X-Request-ID", incoming)
			rec := httptest.NewRecorder()
			c := e.NewContext(req, rec)

			if err := handler(func(c echo.Context) error {
				return c.NoContent(http.StatusOK)
			})(c); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got := rec.Header().Get("X-Request-ID"); got == incoming || len(got) != 36 {
				t.Fatalf("expected generated uuid instead of %q, got %q", incoming, got)
			}
		}
	})
}

func TestSessionMiddleware(t *testing.T) {
	e := echo.New()
	store := session.NewStore(10, time.Hour)
	tokens := auth.NewSessionTokens("secret", time.Hour)
	mw := Session(store, tokens, CookieConfig{Name: "sid"})

	var seen *session.State
	next := func(c echo.Context) error {
		st, ok := SessionFromContext(c)
		if !ok {
			t.Fatalf("expected session in context")
		}
		seen = st
		return c.NoContent(http.StatusOK)
	}

	t.Run("new session issues cookie", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		rec := httptest.NewRecorder()
		if err := mw(next)(e.NewContext(req, rec)); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		cookies := rec.Result().Cookies()
		if len(cookies) != 1 || cookies[0].Name != "sid" || !cookies[0].HttpOnly {
			t.Fatalf("expected one http-only session cookie, got %+v", cookies)
		}
		id, err := tokens.Parse(cookies[0].Value)
		if err != nil || id != seen.ID {
			t.Fatalf("cookie should carry session id %s, got %s (%v)", seen.ID, id, err)
		}
	})

	t.Run("existing cookie reuses state", func(t *testing.T) {
		token, err := tokens.Issue("known")
		if err != nil {
			t.Fatalf("issue: %v", err)
		}
		existing := store.GetOrCreate("known")
		existing.Submitted = true

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.AddCookie(&http.Cookie{Name: "sid", Value: token})
		rec := httptest.NewRecorder()
		if err := mw(next)(e.NewContext(req, rec)); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if seen != existing {
			t.Fatalf("expected stored state to be reused")
		}
		if len(rec.Result().Cookies()) != 0 {
			t.Fatalf("did not expect a new cookie")
		}
	})

	t.Run("tampered cookie starts over", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.AddCookie(&http.Cookie{Name: "sid", Value: "not-a-token"})
		rec := httptest.NewRecorder()
		if err := mw(next)(e.NewContext(req, rec)); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if seen.ID == "known" || seen.Submitted {
			t.Fatalf("expected a fresh session, got %+v", seen)
		}
		if len(rec.Result().Cookies()) != 1 {
			t.Fatalf("expected replacement cookie")
		}
	})
}
