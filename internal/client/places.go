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

	"github.com/rs/zerolog"

	"github.com/mapmymeal/api/internal/entity"
)

// DefaultPlacesURL is the SerpAPI endpoint root.
const DefaultPlacesURL = "https://serpapi.com"

// DefaultPlacesLimit caps the restaurants returned by Search.
const DefaultPlacesLimit = 50

// PlaceSearchConfig holds the fixed search parameters.
type PlaceSearchConfig struct {
	APIKey       string
	GoogleDomain string
	Language     string
	Zoom         int
	Timeout      time.Duration
}

// PlaceSearcher finds nearby restaurants through SerpAPI's google_maps engine.
type PlaceSearcher struct {
	base
	cfg PlaceSearchConfig
}

// NewPlaceSearcher builds a searcher, filling unset parameters with defaults.
func NewPlaceSearcher(cfg PlaceSearchConfig, opts ...Option) *PlaceSearcher {
	if cfg.GoogleDomain == "" {
		cfg.GoogleDomain = "google.com"
	}
	if cfg.Language == "" {
		cfg.Language = "en"
	}
	if cfg.Zoom <= 0 {
		cfg.Zoom = 14
	}
	return &PlaceSearcher{
		base: newBase(UpstreamPlaces, DefaultPlacesURL, cfg.Timeout, opts),
		cfg:  cfg,
	}
}

type placesResponse struct {
	LocalResults []entity.Restaurant `json:"local_results"`
	Error        string              `json:"error"`
}

// Search returns up to limit restaurants around coords matching the diet.
// A limit <= 0 selects DefaultPlacesLimit.
func (p *PlaceSearcher) Search(ctx context.Context, coords entity.Coordinates, diet entity.Diet, limit int) ([]entity.Restaurant, error) {
	if p.cfg.APIKey == "" {
		return nil, errors.New("places api key must not be empty")
	}
	if limit <= 0 {
		limit = DefaultPlacesLimit
	}

	params := url.Values{}
	params.Set("engine", "google_maps")
	params.Set("q", diet.SearchQuery())
	params.Set("google_domain", p.cfg.GoogleDomain)
	params.Set("hl", p.cfg.Language)
	params.Set("api_key", p.cfg.APIKey)
	params.Set("ll", locator(coords, p.cfg.Zoom))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.baseURL+"/search.json?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create places request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	var payload placesResponse
	if _, err := p.do(req, &payload); err != nil {
		return nil, err
	}
	if payload.Error != "" && len(payload.LocalResults) == 0 {
		zerolog.Ctx(ctx).Warn().Str("upstream", UpstreamPlaces).Str("error", payload.Error).Msg("place search returned no results")
	}

	results := payload.LocalResults
	if len(results) > limit {
		results = results[:limit]
	}
	return results, nil
}

// locator renders the "@lat,lon,<zoom>z" map position SerpAPI expects.
func locator(c entity.Coordinates, zoom int) string {
	var b strings.Builder
	b.WriteByte('@')
	b.WriteString(strconv.FormatFloat(c.Lat, 'f', -1, 64))
	b.WriteByte(',')
	b.WriteString(strconv.FormatFloat(c.Lon, 'f', -1, 64))
	b.WriteByte(',')
	b.WriteString(strconv.Itoa(zoom))
	b.WriteByte('z')
	return b.String()
}
