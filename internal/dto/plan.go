package dto

import (
	"bytes"
	"encoding/json"

	"github.com/mapmymeal/api/internal/entity"
)

// BudgetInput is the raw budget field. JSON clients may send it as a number or a string.
type BudgetInput string

// UnmarshalJSON accepts both 200 and "200".
func (b *BudgetInput) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*b = BudgetInput(s)
		return nil
	}
	if string(data) == "null" {
		*b = ""
		return nil
	}
	*b = BudgetInput(data)
	return nil
}

// PlanRequest carries the form fields of a submission.
type PlanRequest struct {
	Location string      `json:"location" form:"location"`
	Budget   BudgetInput `json:"budget" form:"budget"`
	Diet     string      `json:"diet" form:"diet"`
}

// RestaurantView is a nearby restaurant as displayed to users.
type RestaurantView struct {
	Name      string `json:"name"`
	Rating    string `json:"rating"`
	Price     string `json:"price"`
	Address   string `json:"address"`
	Phone     string `json:"phone,omitempty"`
	Website   string `json:"website,omitempty"`
	MenuItems int    `json:"menu_items"`
}

// PlanResponse is the rendered outcome of a submission or shuffle.
type PlanResponse struct {
	Location         string             `json:"location"`
	Budget           int                `json:"budget"`
	Diet             entity.Diet        `json:"diet"`
	Coordinates      entity.Coordinates `json:"coordinates"`
	CoordinatesLabel string             `json:"coordinates_label"`
	Plan             string             `json:"plan"`
	PlanLines        []string           `json:"plan_lines"`
	Restaurants      []RestaurantView   `json:"restaurants"`
	RestaurantCount  int                `json:"restaurant_count"`
	Note             string             `json:"note"`
}
