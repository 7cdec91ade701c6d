package components

import "fmt"

// Sex of a rabbit.
type Sex uint8

const (
	Male Sex = iota
	Female
)

func (s Sex) String() string {
	if s == Female {
		return "female"
	}
	return "male"
}

// Activity is the behaviour controller's current state.
type Activity uint8

const (
	ActivityNone Activity = iota
	ActivityFetchingWater
	ActivityDrinking
	ActivityFetchingFood
	ActivityMating
)

var activityNames = [...]string{
	ActivityNone:          "none",
	ActivityFetchingWater: "fetching_water",
	ActivityDrinking:      "drinking",
	ActivityFetchingFood:  "fetching_food",
	ActivityMating:        "mating",
}

func (a Activity) String() string {
	if int(a) < len(activityNames) {
		return activityNames[a]
	}
	return fmt.Sprintf("Activity(%d)", a)
}

// DeathReason records why a rabbit died.
type DeathReason uint8

const (
	DeathNone DeathReason = iota
	DeathDrowned
	DeathStarvation
	DeathThirst
	DeathAge
	DeathOutOfBounds
	DeathIllness

	NumDeathReasons
)

var deathNames = [NumDeathReasons]string{
	DeathNone:        "none",
	DeathDrowned:     "drowned",
	DeathStarvation:  "starvation",
	DeathThirst:      "thirst",
	DeathAge:         "age",
	DeathOutOfBounds: "out_of_bounds",
	DeathIllness:     "illness",
}

func (d DeathReason) String() string {
	if d < NumDeathReasons {
		return deathNames[d]
	}
	return fmt.Sprintf("DeathReason(%d)", d)
}

// MarshalText lets death reasons key JSON objects by name.
func (d DeathReason) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// UnmarshalText parses a death reason name.
func (d *DeathReason) UnmarshalText(text []byte) error {
	for i, name := range deathNames {
		if name == string(text) {
			*d = DeathReason(i)
			return nil
		}
	}
	return fmt.Errorf("unknown death reason %q", text)
}

// DeferredAction identifies a delayed movement action.
type DeferredAction uint8

const (
	// ActionReorient turns the rabbit back from an obstacle and wanders off.
	ActionReorient DeferredAction = iota
	// ActionResume sets a stopped rabbit moving in a random direction.
	ActionResume
	// ActionRetarget ends a pause in food and mate searches after water
	// blocked the way to the last target. It moves nothing when it fires.
	ActionRetarget

	NumActions
)

