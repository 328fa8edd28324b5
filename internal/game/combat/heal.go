package combat

import (
	"github.com/cory-johannsen/colonial-weather/internal/game/character"
	"github.com/cory-johannsen/colonial-weather/internal/game/condition"
	"github.com/cory-johannsen/colonial-weather/internal/game/wound"
)

// HealResult reports the effect of a heal.
type HealResult struct {
	Healed          int  `json:"healed"`
	Restored        int  `json:"restored"`
	BleedingStopped bool `json:"bleeding_stopped"`
}

// Heal clears up to amount track boxes of sev and restores the aggregate HP
// those boxes represent. Clearing the last lethal or aggravated box stops bleeding.
//
// Postcondition: aggregate HP never exceeds its effective maximum.
func Heal(a *character.Actor, sev wound.Severity, amount int) HealResult {
	var res HealResult
	a.Health.Track, res.Healed = a.Health.Track.Heal(sev, amount)

	if boxes := len(a.Health.Track); boxes > 0 && res.Healed > 0 {
		top := a.Health.Total.EffectiveMax()
		restore := res.Healed * top / boxes
		if v := a.Health.Total.Value + restore; v > top {
			restore = top - a.Health.Total.Value
		}
		if restore < 0 {
			restore = 0
		}
		a.Health.Total.Value += restore
		res.Restored = restore
	}

	if a.Health.Track.Count(wound.Lethal) == 0 && a.Health.Track.Count(wound.Aggravated) == 0 {
		res.BleedingStopped = a.Statuses.Remove(condition.Bleeding)
	}
	refreshDerived(a)
	return res
}
