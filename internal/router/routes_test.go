package router

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/mapmymeal/api/internal/auth"
	"github.com/mapmymeal/api/internal/dto"
	"github.com/mapmymeal/api/internal/handler"
	"github.com/mapmymeal/api/internal/metrics"
	middlewarepkg "github.com/mapmymeal/api/internal/middleware"
	"github.com/mapmymeal/api/internal/service"
	"github.com/mapmymeal/api/internal/session"
)

type mealStub struct{}

func (mealStub) Submit(_ context.Context, st *session.State, in session.Inputs) (dto.PlanResponse, error) {
	st.Submitted = true
	st.Inputs = in
	return dto.PlanResponse{Location: in.Location, Plan: "🍲 Breakfast: Idli"}, nil
}

func (mealStub) Shuffle(context.Context, *session.State) (dto.PlanResponse, error) {
	return dto.PlanResponse{}, service.ErrNotSubmitted
}

func (mealStub) Current(*session.State) (dto.PlanResponse, bool) {
	return dto.PlanResponse{}, false
}

func (mealStub) Reset(st *session.State) {
	st.Reset()
}

func newTestServer() *echo.Echo {
	e := echo.New()
	e.Renderer = handler.NewTemplateRenderer()
	form := service.NewFormValidator(50, "₹")
	sessions := middlewarepkg.Session(session.NewStore(10, time.Hour), auth.NewSessionTokens("secret", time.Hour), middlewarepkg.CookieConfig{Name: "sid"})
	Register(e, sessions, Handlers{
		Page:    handler.NewPageHandler(mealStub{}, form, "₹", 50),
		Plan:    handler.NewPlanHandler(mealStub{}, form),
		Metrics: metrics.New().Handler(),
	})
	return e
}

func TestRegisterRoutes(t *testing.T) {
	e := newTestServer()

	cases := []struct {
		method string
		path   string
		body   string
		code   int
		cookie bool
	}{
		{method: http.MethodGet, path: "/healthz", code: http.StatusOK},
		{method: http.MethodGet, path: "/metrics", code: http.StatusOK},
		{method: http.MethodGet, path: "/", code: http.StatusOK, cookie: true},
		{method: http.MethodPost, path: "/api/plan", body: `{"location":"Chennai","budget":"200"}`, code: http.StatusOK, cookie: true},
		{method: http.MethodPost, path: "/api/plan/shuffle", code: http.StatusConflict, cookie: true},
		{method: http.MethodGet, path: "/api/plan", code: http.StatusConflict, cookie: true},
		{method: http.MethodDelete, path: "/api/plan", code: http.StatusOK, cookie: true},
	}

	for _, tc := range cases {
		t.Run(tc.method+" "+tc.path, func(t *testing.T) {
			req := httptest.NewRequest(tc.method, tc.path, strings.NewReader(tc.body))
			req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
			rec := httptest.NewRecorder()
			e.ServeHTTP(rec, req)

			if rec.Code != tc.code {
				t.Fatalf("expected %d, got %d: %s", tc.code, rec.Code, rec.Body.String())
			}
			if got := len(rec.Result().Cookies()) > 0; got != tc.cookie {
				t.Fatalf("expected session cookie=%v, got %v", tc.cookie, got)
			}
		})
	}
}

func TestSessionPersistsAcrossRequests(t *testing.T) {
	e := newTestServer()

	req := httptest.NewRequest(http.MethodPost, "/api/plan", strings.NewReader(`{"location":"Chennai","budget":200,"diet":"Vegan"}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	cookies := rec.Result().Cookies()
	if len(cookies) != 1 {
		t.Fatalf("expected session cookie")
	}

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(cookies[0])
	rec = httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	body := rec.Body.String()
	if !strings.Contains(body, `value="Chennai"`) || !strings.Contains(body, `<option value="Vegan" selected>`) {
		t.Fatalf("expected form prefilled from session, got %s", body)
	}
	if strings.Contains(body, "Foodie Finder!") {
		t.Fatalf("welcome panel should be hidden for a submitted session")
	}
}
