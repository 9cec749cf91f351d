package service

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/mapmymeal/api/internal/dto"
	"github.com/mapmymeal/api/internal/entity"
	"github.com/mapmymeal/api/internal/session"
)

// FormValidator turns raw form fields into pipeline inputs.
type FormValidator struct {
	MinBudget int
	Currency  string
}

// NewFormValidator creates a validator. Budgets must be strictly greater than minBudget.
func NewFormValidator(minBudget int, currency string) *FormValidator {
	if currency == "" {
		currency = "₹"
	}
	return &FormValidator{MinBudget: minBudget, Currency: currency}
}

// Parse validates req. The first failing field wins.
func (v *FormValidator) Parse(req dto.PlanRequest) (session.Inputs, error) {
	location := strings.TrimSpace(req.Location)
	if location == "" {
		return session.Inputs{}, ValidationError{Field: "location", Message: "Please enter a valid location."}
	}

	raw := strings.TrimSpace(string(req.Budget))
	if raw == "" {
		return session.Inputs{}, ValidationError{Field: "budget", Message: "Please enter your budget."}
	}
	budget, ok := parseDigits(raw)
	if !ok || budget <= v.MinBudget {
		return session.Inputs{}, ValidationError{
			Field:   "budget",
			Message: fmt.Sprintf("Budget must be a number greater than %s%d.", v.Currency, v.MinBudget),
		}
	}

	diet, err := entity.ParseDiet(req.Diet)
	if err != nil {
		return session.Inputs{}, ValidationError{Field: "diet", Message: "Please choose a valid diet."}
	}

	return session.Inputs{Location: location, Budget: budget, Diet: diet}, nil
}

// parseDigits accepts only an unsigned decimal integer: no sign, no decimals.
func parseDigits(value string) (int, bool) {
	for _, r := range value {
		if r < '0' || r > '9' {
			return 0, false
		}
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, false
	}
	return n, true
}
