package accommodation

import (
	"github.com/volatiletech/null/v8"
)

// BaseMultiplier is the time multiplier of a student without any time accommodation.
const BaseMultiplier = 1.0

// Type is a catalog entry describing a testing accommodation and its effect on allotted time.
type Type struct {
	ID                   int64       `db:"accommodation_id" json:"id"`
	Name                 string      `db:"accommodation_name" json:"name"`
	Description          null.String `db:"description" json:"description"`
	TimeMultiplier       float64     `db:"time_multiplier" json:"time_multiplier"`
	RequiresSeparateRoom bool        `db:"requires_separate_room" json:"requires_separate_room"`
}

// EffectiveMultiplier returns the highest of the given time multipliers,
// never less than BaseMultiplier.
func EffectiveMultiplier(multipliers ...float64) float64 {
	max := BaseMultiplier
	for _, m := range multipliers {
		if m > max {
			max = m
		}
	}
	return max
}

// DefaultTypes is the reference catalog seeded into an empty store.
var DefaultTypes = []Type{
	{Name: "Extended Time (25%)", Description: null.StringFrom("25% additional time"), TimeMultiplier: 1.25},
	{Name: "Extended Time (50%)", Description: null.StringFrom("50% additional time"), TimeMultiplier: 1.50},
	{Name: "Computer for Writing", Description: null.StringFrom("Laptop/computer use"), TimeMultiplier: 1.00},
	{Name: "Preferential Seating", Description: null.StringFrom("Designated seating"), TimeMultiplier: 1.00},
}
