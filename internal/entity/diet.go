package entity

import (
	"fmt"
	"strings"
)

// Diet is the dietary filter chosen on the form.
type Diet string

const (
	DietAny           Diet = "Any"
	DietVegetarian    Diet = "Vegetarian"
	DietVegan         Diet = "Vegan"
	DietNonVegetarian Diet = "Non-Vegetarian"
)

// Diets lists the selectable options in display order.
var Diets = []Diet{DietAny, DietVegetarian, DietVegan, DietNonVegetarian}

// ParseDiet matches value case-insensitively against the known diets.
// An empty value selects DietAny.
func ParseDiet(value string) (Diet, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return DietAny, nil
	}
	for _, d := range Diets {
		if strings.EqualFold(value, string(d)) {
			return d, nil
		}
	}
	return "", fmt.Errorf("unknown diet %q", value)
}

// SearchQuery is the place-search query used for the diet.
func (d Diet) SearchQuery() string {
	switch d {
	case DietVegetarian:
		return "vegetarian restaurants"
	case DietVegan:
		return "vegan restaurants"
	case DietNonVegetarian:
		return "non-veg restaurants"
	default:
		return "restaurants"
	}
}
