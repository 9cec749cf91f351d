package handler

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/mapmymeal/api/internal/dto"
	middlewarepkg "github.com/mapmymeal/api/internal/middleware"
	"github.com/mapmymeal/api/internal/service"
	"github.com/mapmymeal/api/internal/session"
)

// MealPlanner runs the meal-plan pipeline against a session.
type MealPlanner interface {
	Submit(ctx context.Context, st *session.State, in session.Inputs) (dto.PlanResponse, error)
	Shuffle(ctx context.Context, st *session.State) (dto.PlanResponse, error)
	Current(st *session.State) (dto.PlanResponse, bool)
	Reset(st *session.State)
}

// FormParser validates submitted form fields.
type FormParser interface {
	Parse(req dto.PlanRequest) (session.Inputs, error)
}

// PlanHandler exposes the pipeline as a JSON API.
type PlanHandler struct {
	meals MealPlanner
	form  FormParser
}

// NewPlanHandler wires the handler.
func NewPlanHandler(meals MealPlanner, form FormParser) *PlanHandler {
	return &PlanHandler{meals: meals, form: form}
}

// Submit validates the request and runs the full pipeline.
func (h *PlanHandler) Submit(c echo.Context) error {
	var req dto.PlanRequest
	if err := c.Bind(&req); err != nil {
		return Error(c, http.StatusBadRequest, "invalid payload")
	}

	st, ok := middlewarepkg.SessionFromContext(c)
	if !ok {
		return Error(c, http.StatusInternalServerError, "session unavailable")
	}

	in, err := h.form.Parse(req)
	if err != nil {
		return Fail(c, err)
	}

	st.Lock()
	defer st.Unlock()

	resp, err := h.meals.Submit(c.Request().Context(), st, in)
	if err != nil {
		return Fail(c, err)
	}
	return Success(c, http.StatusOK, "meal plan ready", resp)
}

// Shuffle regenerates the plan for the last submission.
func (h *PlanHandler) Shuffle(c echo.Context) error {
	st, ok := middlewarepkg.SessionFromContext(c)
	if !ok {
		return Error(c, http.StatusInternalServerError, "session unavailable")
	}

	st.Lock()
	defer st.Unlock()

	resp, err := h.meals.Shuffle(c.Request().Context(), st)
	if err != nil {
		return Fail(c, err)
	}
	return Success(c, http.StatusOK, "meal plan shuffled", resp)
}

// Current returns the cached plan without calling upstream services.
func (h *PlanHandler) Current(c echo.Context) error {
	st, ok := middlewarepkg.SessionFromContext(c)
	if !ok {
		return Error(c, http.StatusInternalServerError, "session unavailable")
	}

	st.Lock()
	defer st.Unlock()

	if !st.Submitted {
		return Fail(c, service.ErrNotSubmitted)
	}
	resp, ok := h.meals.Current(st)
	if !ok {
		return Error(c, http.StatusNotFound, "no meal plan available")
	}
	return Success(c, http.StatusOK, "", resp)
}

// Reset forgets the session's submission and cached results.
func (h *PlanHandler) Reset(c echo.Context) error {
	st, ok := middlewarepkg.SessionFromContext(c)
	if !ok {
		return Error(c, http.StatusInternalServerError, "session unavailable")
	}

	st.Lock()
	defer st.Unlock()

	h.meals.Reset(st)
	return Success(c, http.StatusOK, "session reset", nil)
}
