package handler

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/mapmymeal/api/internal/client"
	"github.com/mapmymeal/api/internal/dto"
	"github.com/mapmymeal/api/internal/entity"
	middlewarepkg "github.com/mapmymeal/api/internal/middleware"
	"github.com/mapmymeal/api/internal/service"
	"github.com/mapmymeal/api/internal/session"
)

const pageTemplate = "index.html"

// Flash levels understood by the page template.
const (
	FlashWarning = "warning"
	FlashError   = "error"
)

// Flash is a banner shown above the results.
type Flash struct {
	Level   string
	Message string
}

// PageData is the view model of the single page.
type PageData struct {
	Form      dto.PlanRequest
	Diets     []entity.Diet
	Currency  string
	MinBudget int
	Submitted bool
	Result    *dto.PlanResponse
	Flashes   []Flash
	MapURL    string
}

// PageHandler serves the HTML form and results.
type PageHandler struct {
	meals     MealPlanner
	form      FormParser
	currency  string
	minBudget int
}

// NewPageHandler wires the handler. currency and minBudget only affect labels.
func NewPageHandler(meals MealPlanner, form FormParser, currency string, minBudget int) *PageHandler {
	if currency == "" {
		currency = "₹"
	}
	return &PageHandler{meals: meals, form: form, currency: currency, minBudget: minBudget}
}

// Show renders the form and the last result, if any.
func (h *PageHandler) Show(c echo.Context) error {
	st, ok := middlewarepkg.SessionFromContext(c)
	if !ok {
		return echo.NewHTTPError(http.StatusInternalServerError, "session unavailable")
	}

	st.Lock()
	defer st.Unlock()

	data := h.page(st)
	if resp, ok := h.meals.Current(st); ok {
		data.setResult(resp)
	}
	return c.Render(http.StatusOK, pageTemplate, data)
}

// Submit handles the form post.
func (h *PageHandler) Submit(c echo.Context) error {
	st, ok := middlewarepkg.SessionFromContext(c)
	if !ok {
		return echo.NewHTTPError(http.StatusInternalServerError, "session unavailable")
	}

	var req dto.PlanRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid form")
	}

	st.Lock()
	defer st.Unlock()

	in, err := h.form.Parse(req)
	if err != nil {
		data := h.page(st)
		data.Form = req
		data.addError(err)
		if resp, ok := h.meals.Current(st); ok {
			data.setResult(resp)
		}
		return c.Render(http.StatusOK, pageTemplate, data)
	}

	resp, err := h.meals.Submit(c.Request().Context(), st, in)
	data := h.page(st)
	if err != nil {
		zerolog.Ctx(c.Request().Context()).Debug().Err(err).Msg("meal plan not rendered")
		data.addError(err)
	} else {
		data.setResult(resp)
	}
	return c.Render(http.StatusOK, pageTemplate, data)
}

// Shuffle regenerates the plan and re-renders the page.
func (h *PageHandler) Shuffle(c echo.Context) error {
	st, ok := middlewarepkg.SessionFromContext(c)
	if !ok {
		return echo.NewHTTPError(http.StatusInternalServerError, "session unavailable")
	}

	st.Lock()
	defer st.Unlock()

	resp, err := h.meals.Shuffle(c.Request().Context(), st)
	data := h.page(st)
	if err != nil {
		data.addError(err)
	} else {
		data.setResult(resp)
	}
	return c.Render(http.StatusOK, pageTemplate, data)
}

// Reset clears the session and returns to the empty form.
func (h *PageHandler) Reset(c echo.Context) error {
	st, ok := middlewarepkg.SessionFromContext(c)
	if !ok {
		return echo.NewHTTPError(http.StatusInternalServerError, "session unavailable")
	}

	st.Lock()
	h.meals.Reset(st)
	st.Unlock()

	return c.Redirect(http.StatusSeeOther, "/")
}

func (h *PageHandler) page(st *session.State) PageData {
	data := PageData{
		Diets:     entity.Diets,
		Currency:  h.currency,
		MinBudget: h.minBudget,
		Submitted: st.Submitted,
		Form:      dto.PlanRequest{Diet: string(entity.DietAny)},
	}
	if st.Submitted {
		data.Form = dto.PlanRequest{
			Location: st.Inputs.Location,
			Budget:   dto.BudgetInput(strconv.Itoa(st.Inputs.Budget)),
			Diet:     string(st.Inputs.Diet),
		}
	}
	return data
}

func (d *PageData) setResult(resp dto.PlanResponse) {
	d.Result = &resp
	d.MapURL = mapURL(resp.Coordinates)
}

func (d *PageData) addError(err error) {
	var verr service.ValidationError
	var serr *service.StageError
	switch {
	case errors.As(err, &verr):
		d.Flashes = append(d.Flashes, Flash{Level: FlashWarning, Message: "⚠️ " + verr.Message})
	case errors.As(err, &serr):
		switch {
		case serr.Severity == service.SeverityWarning:
			d.Flashes = append(d.Flashes, Flash{Level: FlashWarning, Message: serr.Message})
		case errors.Is(err, client.ErrNotFound):
			d.Flashes = append(d.Flashes, Flash{Level: FlashError, Message: "❌ " + serr.Message})
		default:
			d.Flashes = append(d.Flashes, Flash{Level: FlashError, Message: serr.Message})
		}
	case errors.Is(err, service.ErrNotSubmitted):
		d.Flashes = append(d.Flashes, Flash{Level: FlashWarning, Message: "Please enter a location."})
	default:
		d.Flashes = append(d.Flashes, Flash{Level: FlashError, Message: err.Error()})
	}
}

// mapURL is an OpenStreetMap embed centred on c, roughly matching a zoom-12 view.
func mapURL(c entity.Coordinates) string {
	const span = 0.05
	return fmt.Sprintf(
		"https://www.openstreetmap.org/export/embed.html?bbox=%.5f%%2C%.5f%%2C%.5f%%2C%.5f&layer=mapnik&marker=%.5f%%2C%.5f",
		c.Lon-span, c.Lat-span, c.Lon+span, c.Lat+span, c.Lat, c.Lon,
	)
}
