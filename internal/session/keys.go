package session

import (
	"strconv"
	"strings"

	"github.com/mmcloughlin/geohash"

	"github.com/mapmymeal/api/internal/entity"
)

// geohashPrecision of 7 characters is a cell of roughly 150m, well inside the
// search radius of a zoom-14 map.
const geohashPrecision = 7

// CoordsKey identifies a geocoding result by its normalized query.
func CoordsKey(location string) string {
	return strings.ToLower(strings.Join(strings.Fields(location), " "))
}

// PlacesKey identifies a place search (and its menus) by area and diet.
func PlacesKey(c entity.Coordinates, diet entity.Diet) string {
	return geohash.EncodeWithPrecision(c.Lat, c.Lon, geohashPrecision) + "|" + string(diet)
}

// PlanKey identifies a generated plan by every input the prompt depends on.
func PlanKey(in Inputs, placesKey string) string {
	return CoordsKey(in.Location) + "|" + strconv.Itoa(in.Budget) + "|" + string(in.Diet) + "|" + placesKey
}
