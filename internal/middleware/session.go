package middleware

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/mapmymeal/api/internal/auth"
	"github.com/mapmymeal/api/internal/session"
)

// CookieConfig names the session cookie and its transport flags.
type CookieConfig struct {
	Name   string
	Secure bool
}

// Session resolves the signed session cookie to a server-side state. Requests
// without a valid cookie start a new session and receive a fresh cookie.
func Session(store *session.Store, tokens *auth.SessionTokens, cfg CookieConfig) echo.MiddlewareFunc {
	if cfg.Name == "" {
		cfg.Name = "mapmymeal_session"
	}
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			id := ""
			if cookie, err := c.Cookie(cfg.Name); err == nil {
				if parsed, err := tokens.Parse(cookie.Value); err == nil {
					id = parsed
				}
			}

			if id == "" {
				id = uuid.NewString()
				token, err := tokens.Issue(id)
				if err != nil {
					return echo.NewHTTPError(http.StatusInternalServerError, "could not start session").SetInternal(err)
				}
				c.SetCookie(&http.Cookie{
					Name:     cfg.Name,
					Value:    token,
					Path:     "/",
					MaxAge:   int(tokens.TTL().Seconds()),
					HttpOnly: true,
					Secure:   cfg.Secure,
					SameSite: http.SameSiteLaxMode,
				})
			}

			zerolog.Ctx(c.Request().Context()).UpdateContext(func(zc zerolog.Context) zerolog.Context {
				return zc.Str("session_id", id)
			})

			c.Set(ContextKeySession, store.GetOrCreate(id))
			return next(c)
		}
	}
}

// SessionFromContext returns the state resolved by Session, if any.
func SessionFromContext(c echo.Context) (*session.State, bool) {
	st, ok := c.Get(ContextKeySession).(*session.State)
	return st, ok && st != nil
}
