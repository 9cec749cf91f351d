package service

import "github.com/mapmymeal/api/internal/entity"

// ExtractMenus collects the embedded menu of every restaurant. Restaurants
// without a usable menu get an empty list.
func ExtractMenus(restaurants []entity.Restaurant) *entity.MenuTable {
	table := entity.NewMenuTable()
	for _, r := range restaurants {
		table.Set(r.Title().Or("Unknown"), r.MenuItems().Or([]string{}))
	}
	return table
}
