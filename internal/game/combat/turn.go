package combat

import (
	"github.com/cory-johannsen/colonial-weather/internal/game/character"
	"github.com/cory-johannsen/colonial-weather/internal/game/condition"
	"github.com/cory-johannsen/colonial-weather/internal/game/wound"
)

// SkipIncapacitated is the skip reason reported for a full wound track.
const SkipIncapacitated = "incapacitated"

// TurnReport describes what happened at the start of a combatant's turn.
type TurnReport struct {
	BleedDamage int `json:"bleed_damage"`
	// Skipped is true when the combatant loses this turn.
	Skipped bool `json:"skipped"`
	// Reason names the status (or SkipIncapacitated) that caused the skip.
	Reason  string   `json:"reason,omitempty"`
	Cleared []string `json:"cleared,omitempty"`
	Applied []string `json:"applied,omitempty"`
}

// StartTurn runs turn-start automation on a: standing damage ticks first, then
// the skip decision. A one-shot status such as stunned is cleared once it has
// cost a turn.
//
// Precondition: a has been prepared; reg must not be nil.
// Postcondition: a reflects the tick and any cleared statuses.
func StartTurn(a *character.Actor, reg *condition.Registry) TurnReport {
	var rep TurnReport
	te := reg.TurnEffects(a.Statuses)
	if te.TickDamage > 0 {
		rep.BleedDamage = te.TickDamage
		rep.Applied = bleed(a, te.TickDamage)
		te = reg.TurnEffects(a.Statuses)
	}

	switch {
	case a.Health.Track.CurrentPenalty().Incapacitated:
		rep.Skipped = true
		rep.Reason = SkipIncapacitated
		if te.Skip != "" && !isOneShot(te, te.Skip) {
			rep.Reason = te.Skip
		}
	case te.Skip != "":
		rep.Skipped = true
		rep.Reason = te.Skip
	}
	if rep.Skipped {
		for _, id := range te.Clear {
			if a.Statuses.Remove(id) {
				rep.Cleared = append(rep.Cleared, id)
			}
		}
	}
	return rep
}

// bleed deducts dmg aggregate HP and re-syncs the track with lethal severity.
// It returns the statuses newly applied.
func bleed(a *character.Actor, dmg int) []string {
	a.Health.Total.Value -= dmg
	a.Health.Track = a.Health.Track.ApplyBoxFill(wound.Lethal, BoxesFor(a, a.Health.Total.Value))
	var applied []string
	if a.Health.Total.Value < 0 && a.Statuses.Apply(condition.Unconscious) {
		applied = append(applied, condition.Unconscious)
	}
	refreshDerived(a)
	return applied
}

func isOneShot(te condition.TurnEffects, id string) bool {
	for _, c := range te.Clear {
		if c == id {
			return true
		}
	}
	return false
}
