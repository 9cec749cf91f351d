package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/mapmymeal/api/internal/client"
	"github.com/mapmymeal/api/internal/dto"
	"github.com/mapmymeal/api/internal/entity"
	"github.com/mapmymeal/api/internal/session"
)

const (
	// DisplayedRestaurants is how many nearby restaurants are listed under the plan.
	DisplayedRestaurants = 8
	// PriceNote is shown beneath every plan.
	PriceNote = "💡 Note: Prices and availability may vary depending on restaurant and time."
)

// Pipeline actions, used for metrics.
const (
	ActionSubmit  = "submit"
	ActionShuffle = "shuffle"
)

// Geocoder resolves a place name to coordinates.
type Geocoder interface {
	Geocode(ctx context.Context, query string) (entity.Coordinates, error)
}

// PlaceSearcher finds restaurants near coordinates.
type PlaceSearcher interface {
	Search(ctx context.Context, coords entity.Coordinates, diet entity.Diet, limit int) ([]entity.Restaurant, error)
}

// PlanObserver records pipeline outcomes.
type PlanObserver interface {
	ObservePlan(action string, err error)
}

// MealService drives geocoding, place search, menu extraction and plan
// generation against a session's cached stages.
type MealService struct {
	geocoder    Geocoder
	places      PlaceSearcher
	planner     PlanGenerator
	contacts    *ContactNormalizer
	observer    PlanObserver
	placesLimit int
}

// MealOption configures optional dependencies.
type MealOption func(*MealService)

// WithPlacesLimit caps the restaurants requested from the place search.
func WithPlacesLimit(limit int) MealOption {
	return func(s *MealService) {
		if limit > 0 {
			s.placesLimit = limit
		}
	}
}

// WithContactNormalizer overrides the default restaurant contact normalizer.
func WithContactNormalizer(n *ContactNormalizer) MealOption {
	return func(s *MealService) {
		if n != nil {
			s.contacts = n
		}
	}
}

// WithPlanObserver reports every submit and shuffle to o.
func WithPlanObserver(o PlanObserver) MealOption {
	return func(s *MealService) {
		s.observer = o
	}
}

// NewMealService wires the pipeline.
func NewMealService(geocoder Geocoder, places PlaceSearcher, planner PlanGenerator, opts ...MealOption) *MealService {
	s := &MealService{
		geocoder:    geocoder,
		places:      places,
		planner:     planner,
		contacts:    NewContactNormalizer(defaultPhoneRegion),
		placesLimit: client.DefaultPlacesLimit,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Submit records new inputs and runs the pipeline. Cached stages are reused
// only when they were computed for the same inputs; the plan is always regenerated.
// The caller must hold the state's lock.
func (s *MealService) Submit(ctx context.Context, st *session.State, in session.Inputs) (dto.PlanResponse, error) {
	st.Submitted = true
	st.Inputs = in
	st.Plan.MarkStale()

	resp, err := s.run(ctx, st, false)
	s.observe(ActionSubmit, err)
	return resp, err
}

// Shuffle regenerates the plan for the last submitted inputs, reusing the
// cached coordinates, restaurants and menus. The caller must hold the state's lock.
func (s *MealService) Shuffle(ctx context.Context, st *session.State) (dto.PlanResponse, error) {
	if !st.Submitted {
		s.observe(ActionShuffle, ErrNotSubmitted)
		return dto.PlanResponse{}, ErrNotSubmitted
	}
	resp, err := s.run(ctx, st, true)
	s.observe(ActionShuffle, err)
	return resp, err
}

// Current renders the last result without calling any upstream. It reports
// false when nothing fresh is cached for the current inputs.
func (s *MealService) Current(st *session.State) (dto.PlanResponse, bool) {
	if !st.Submitted {
		return dto.PlanResponse{}, false
	}
	in := st.Inputs
	coords, ok := st.Coords.Lookup(session.CoordsKey(in.Location))
	if !ok {
		return dto.PlanResponse{}, false
	}
	placesKey := session.PlacesKey(coords, in.Diet)
	restaurants, ok := st.Restaurants.Lookup(placesKey)
	if !ok {
		return dto.PlanResponse{}, false
	}
	plan, ok := st.Plan.Lookup(session.PlanKey(in, placesKey))
	if !ok {
		return dto.PlanResponse{}, false
	}
	return s.render(in, coords, restaurants, plan), true
}

// Reset clears the session. The caller must hold the state's lock.
func (s *MealService) Reset(st *session.State) {
	st.Reset()
}

func (s *MealService) run(ctx context.Context, st *session.State, forcePlan bool) (dto.PlanResponse, error) {
	logger := zerolog.Ctx(ctx)
	in := st.Inputs

	coordsKey := session.CoordsKey(in.Location)
	coords, ok := st.Coords.Lookup(coordsKey)
	if !ok {
		found, err := s.geocoder.Geocode(ctx, in.Location)
		if err != nil {
			if errors.Is(err, client.ErrNotFound) {
				logger.Info().Str("location", in.Location).Msg("location not found")
				return dto.PlanResponse{}, &StageError{
					Stage:    StageGeocode,
					Severity: SeverityError,
					Message:  "Could not find coordinates for the given location.",
					Err:      err,
				}
			}
			logger.Error().Err(err).Str("location", in.Location).Msg("geocoding failed")
			return dto.PlanResponse{}, &StageError{
				Stage:    StageGeocode,
				Severity: SeverityError,
				Message:  fmt.Sprintf("Error fetching coordinates: %v", err),
				Err:      err,
			}
		}
		st.Coords.Store(coordsKey, found)
		coords = found
	}

	placesKey := session.PlacesKey(coords, in.Diet)
	restaurants, ok := st.Restaurants.Lookup(placesKey)
	if !ok {
		found, err := s.places.Search(ctx, coords, in.Diet, s.placesLimit)
		if err != nil {
			logger.Error().Err(err).Str("diet", string(in.Diet)).Msg("place search failed")
			return dto.PlanResponse{}, &StageError{
				Stage:    StageSearch,
				Severity: SeverityError,
				Message:  fmt.Sprintf("Error fetching restaurants: %v", err),
				Err:      err,
			}
		}
		if len(found) == 0 {
			return dto.PlanResponse{}, &StageError{
				Stage:    StageSearch,
				Severity: SeverityWarning,
				Message:  "No restaurants returned by the place search.",
				Err:      ErrNoRestaurants,
			}
		}
		st.Restaurants.Store(placesKey, found)
		restaurants = found
	}

	menus, ok := st.Menus.Lookup(placesKey)
	if !ok {
		menus = ExtractMenus(restaurants)
		st.Menus.Store(placesKey, menus)
	}

	planKey := session.PlanKey(in, placesKey)
	plan, ok := st.Plan.Lookup(planKey)
	if !ok || forcePlan {
		plan = s.planner.Generate(ctx, PromptInput{
			Location:    in.Location,
			Budget:      in.Budget,
			Diet:        in.Diet,
			Restaurants: restaurants,
			Menus:       menus,
		})
		st.Plan.Store(planKey, plan)
	}

	logger.Info().
		Str("location", in.Location).
		Int("budget", in.Budget).
		Str("diet", string(in.Diet)).
		Int("restaurants", len(restaurants)).
		Int("menus", menus.Len()).
		Msg("meal plan ready")

	return s.render(in, coords, restaurants, plan), nil
}

func (s *MealService) render(in session.Inputs, coords entity.Coordinates, restaurants []entity.Restaurant, plan string) dto.PlanResponse {
	shown := restaurants
	if len(shown) > DisplayedRestaurants {
		shown = shown[:DisplayedRestaurants]
	}
	views := make([]dto.RestaurantView, 0, len(shown))
	for _, r := range shown {
		views = append(views, s.contacts.View(r))
	}

	return dto.PlanResponse{
		Location:         in.Location,
		Budget:           in.Budget,
		Diet:             in.Diet,
		Coordinates:      coords,
		CoordinatesLabel: coords.String(),
		Plan:             plan,
		PlanLines:        SplitPlanLines(plan),
		Restaurants:      views,
		RestaurantCount:  len(restaurants),
		Note:             PriceNote,
	}
}

func (s *MealService) observe(action string, err error) {
	if s.observer != nil {
		s.observer.ObservePlan(action, err)
	}
}
