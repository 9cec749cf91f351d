package client

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/mapmymeal/api/internal/entity"
)

// DefaultGeocoderURL is the public Nominatim instance.
const DefaultGeocoderURL = "https://nominatim.openstreetmap.org"

// Geocoder resolves free-text place names with a Nominatim search endpoint.
type Geocoder struct {
	base
	userAgent string
}

// NewGeocoder builds a geocoder. Nominatim rejects requests without a
// client-identifying User-Agent, so userAgent must not be empty.
func NewGeocoder(userAgent string, timeout time.Duration, opts ...Option) *Geocoder {
	if strings.TrimSpace(userAgent) == "" {
		panic("geocoder user agent must not be empty")
	}
	return &Geocoder{
		base:      newBase(UpstreamGeocoder, DefaultGeocoderURL, timeout, opts),
		userAgent: userAgent,
	}
}

type geocodeResult struct {
	Lat string `json:"lat"`
	Lon string `json:"lon"`
}

// Geocode returns the coordinates of the first match for query, or ErrNotFound.
func (g *Geocoder) Geocode(ctx context.Context, query string) (entity.Coordinates, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return entity.Coordinates{}, errors.New("location must not be empty")
	}

	params := url.Values{}
	params.Set("format", "json")
	params.Set("q", query)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, g.baseURL+"/search?"+params.Encode(), nil)
	if err != nil {
		return entity.Coordinates{}, fmt.Errorf("failed to create geocoder request: %w", err)
	}
	req.Header.Set("User-Agent", g.userAgent)
	req.Header.Set("Accept", "application/json")

	var results []geocodeResult
	if _, err := g.do(req, &results); err != nil {
		return entity.Coordinates{}, err
	}
	if len(results) == 0 {
		return entity.Coordinates{}, ErrNotFound
	}

	lat, err := strconv.ParseFloat(strings.TrimSpace(results[0].Lat), 64)
	if err != nil {
		return entity.Coordinates{}, fmt.Errorf("invalid latitude %q: %w", results[0].Lat, err)
	}
	lon, err := strconv.ParseFloat(strings.TrimSpace(results[0].Lon), 64)
	if err != nil {
		return entity.Coordinates{}, fmt.Errorf("invalid longitude %q: %w", results[0].Lon, err)
	}
	return entity.Coordinates{Lat: lat, Lon: lon}, nil
}
