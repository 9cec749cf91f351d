package session

import (
	"sync"
	"time"

	"github.com/mapmymeal/api/internal/entity"
)

// Inputs are the validated form values of the last submission.
type Inputs struct {
	Location string
	Budget   int
	Diet     entity.Diet
}

// State is everything remembered between requests of one browser session.
// Callers must hold the lock while running the pipeline against it.
type State struct {
	mu sync.Mutex

	ID        string
	Submitted bool
	Inputs    Inputs
	UpdatedAt time.Time

	Coords      Stage[entity.Coordinates]
	Restaurants Stage[[]entity.Restaurant]
	Menus       Stage[*entity.MenuTable]
	Plan        Stage[string]
}

// NewState returns an empty state for id.
func NewState(id string) *State {
	return &State{ID: id, UpdatedAt: time.Now()}
}

// Lock serializes requests that share the session.
func (s *State) Lock() {
	s.mu.Lock()
}

// Unlock releases the session.
func (s *State) Unlock() {
	s.UpdatedAt = time.Now()
	s.mu.Unlock()
}

// Reset forgets the submission and every cached stage.
func (s *State) Reset() {
	s.Submitted = false
	s.Inputs = Inputs{}
	s.Coords.Clear()
	s.Restaurants.Clear()
	s.Menus.Clear()
	s.Plan.Clear()
}
