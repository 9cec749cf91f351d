package entity

import (
	"encoding/json"
	"strconv"
	"strings"
)

// MaxMenuItems caps the menu entries kept per restaurant.
const MaxMenuItems = 20

// Restaurant is a place-search result kept verbatim. Fields are read through
// Opt accessors; callers decide the defaults.
type Restaurant struct {
	raw map[string]any
}

// NewRestaurant wraps a decoded upstream record.
func NewRestaurant(raw map[string]any) Restaurant {
	return Restaurant{raw: raw}
}

// UnmarshalJSON keeps the whole object so unknown fields survive.
func (r *Restaurant) UnmarshalJSON(data []byte) error {
	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	r.raw = raw
	return nil
}

// MarshalJSON writes the record back unchanged.
func (r Restaurant) MarshalJSON() ([]byte, error) {
	if r.raw == nil {
		return []byte("{}"), nil
	}
	return json.Marshal(r.raw)
}

// Field returns the raw value stored under key.
func (r Restaurant) Field(key string) Opt[any] {
	v, ok := r.raw[key]
	if !ok || v == nil {
		return None[any]()
	}
	return Some(v)
}

// Text returns a field rendered as text. Numbers and booleans are formatted;
// objects and lists are treated as absent.
func (r Restaurant) Text(key string) Opt[string] {
	v, ok := r.Field(key).Get()
	if !ok {
		return None[string]()
	}
	switch val := v.(type) {
	case string:
		return Some(val)
	case float64:
		return Some(strconv.FormatFloat(val, 'f', -1, 64))
	case json.Number:
		return Some(val.String())
	case int:
		return Some(strconv.Itoa(val))
	case bool:
		return Some(strconv.FormatBool(val))
	default:
		return None[string]()
	}
}

// Title is the business name (SerpAPI "title").
func (r Restaurant) Title() Opt[string] { return r.Text("title") }

// Rating is the average review score as shown upstream.
func (r Restaurant) Rating() Opt[string] { return r.Text("rating") }

// Price is the price tier, e.g. "₹200–400" or "$$".
func (r Restaurant) Price() Opt[string] { return r.Text("price") }

// Address is the formatted street address.
func (r Restaurant) Address() Opt[string] { return r.Text("address") }

// Phone is the listed phone number.
func (r Restaurant) Phone() Opt[string] { return r.Text("phone") }

// Website is the listed website URL.
func (r Restaurant) Website() Opt[string] { return r.Text("website") }

// MenuItems reads the embedded menu from "menu", falling back to "menu_items".
// A field counts only when it holds a list. Entries are objects with a string
// "name" or bare strings; at most MaxMenuItems names are returned.
func (r Restaurant) MenuItems() Opt[[]string] {
	for _, key := range []string{"menu", "menu_items"} {
		list, ok := r.raw[key].([]any)
		if !ok {
			continue
		}
		return Some(menuNames(list))
	}
	return None[[]string]()
}

func menuNames(list []any) []string {
	names := make([]string, 0, min(len(list), MaxMenuItems))
	for _, item := range list {
		if len(names) == MaxMenuItems {
			break
		}
		var name string
		switch v := item.(type) {
		case map[string]any:
			name, _ = v["name"].(string)
		case string:
			name = v
		}
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		names = append(names, name)
	}
	return names
}
