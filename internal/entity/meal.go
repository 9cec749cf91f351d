package entity

// MealSlot is one of the four fixed meal times of a plan.
type MealSlot struct {
	Emoji string
	Name  string
}

// Label is the "<emoji> <name>" prefix each plan line starts with.
func (s MealSlot) Label() string {
	return s.Emoji + " " + s.Name
}

// MealSlots are the plan lines in order.
var MealSlots = []MealSlot{
	{Emoji: "🍲", Name: "Breakfast"},
	{Emoji: "🍛", Name: "Lunch"},
	{Emoji: "🥪", Name: "Snacks"},
	{Emoji: "🥗", Name: "Dinner"},
}
