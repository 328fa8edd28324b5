package character

import (
	"github.com/cory-johannsen/colonial-weather/internal/game/effect"
	"github.com/cory-johannsen/colonial-weather/internal/game/inventory"
	"github.com/cory-johannsen/colonial-weather/internal/game/rules"
)

// InitiativeRollType is the roll type whose modifiers feed derived initiative.
const InitiativeRollType = "initiative"

// ImmuneLoad totals the immune load of every active cybernetic item.
func ImmuneLoad(items []*inventory.Item) int {
	total := 0
	for _, it := range items {
		total += it.ImmuneLoad()
	}
	return total
}

// ImmunePenalty returns the stamina modifier for a cybernetic load measured
// against raw stamina.
//
// Postcondition: result <= 0; result is non-increasing in load.
func ImmunePenalty(load, stamina int) int {
	if stamina < 0 {
		stamina = 0
	}
	switch {
	case load <= 2*stamina:
		return 0
	case load <= 3*stamina:
		return -1
	}
	div := stamina
	if div < 1 {
		div = 1
	}
	return -2 - (load-3*stamina)/div
}

// DeriveAttributes computes the effective value of every attribute of a.
// Only physical attributes receive gravity deltas; only stamina receives the
// immune-load penalty.
//
// Postcondition: every value in the result is >= 0; a is not modified.
func DeriveAttributes(a *Actor) map[rules.Attribute]int {
	grav := rules.GravityModifier(a.Bio.GravityHome, a.Bio.GravityCurrent)
	immune := ImmunePenalty(ImmuneLoad(a.Items), a.Base(rules.Stamina))
	out := make(map[rules.Attribute]int, len(rules.Attributes()))
	for _, attr := range rules.Attributes() {
		v := a.Base(attr)
		if attr.Physical() {
			v += grav.For(attr)
		}
		if attr == rules.Stamina {
			v += immune
		}
		if v < 0 {
			v = 0
		}
		out[attr] = v
	}
	return out
}

// Prepare runs the data-preparation pass on a: missing skills are created from
// the catalog, the wound track is sized for the bonus boxes, every location is
// present, and all Derived values are recomputed.
//
// Precondition: r must not be nil.
// Postcondition: a.Derived reflects the current base values and items.
func Prepare(a *Actor, r *rules.Rules) {
	if a.Attributes == nil {
		a.Attributes = make(map[rules.Attribute]int)
	}
	if len(a.Skills) == 0 {
		a.Skills = make(map[string]*Skill, len(r.Skills))
		for _, def := range r.Skills {
			a.Skills[def.Key] = &Skill{Label: def.Label, Attribute: def.Attribute}
		}
	}
	if a.Health.BonusBoxes < 0 {
		a.Health.BonusBoxes = 0
	}
	a.Health.Track = a.Health.Track.Resize(a.Health.BonusBoxes)
	if a.Health.Locations == nil {
		a.Health.Locations = make(map[rules.Location]*LocationHP)
	}
	armor := make(map[rules.Location]int, len(rules.Locations()))
	for _, loc := range rules.Locations() {
		l, ok := a.Health.Locations[loc]
		if !ok || l == nil {
			l = &LocationHP{}
			a.Health.Locations[loc] = l
		}
		if l.Value > l.Max {
			l.Value = l.Max
		}
		armor[loc] = inventory.LocationArmor(a.Items, loc)
	}
	if a.Health.Total.Value > a.Health.Total.EffectiveMax() {
		a.Health.Total.Value = a.Health.Total.EffectiveMax()
	}

	attrs := DeriveAttributes(a)
	load := ImmuneLoad(a.Items)
	mods := effect.Collect(a.Items, effect.Context{RollType: InitiativeRollType})
	dex, wit, str := attrs[rules.Dexterity], attrs[rules.Wits], attrs[rules.Strength]

	a.Derived = Derived{
		Attributes:    attrs,
		Gravity:       rules.GravityModifier(a.Bio.GravityHome, a.Bio.GravityCurrent),
		ImmuneLoad:    load,
		ImmunePenalty: ImmunePenalty(load, a.Base(rules.Stamina)),
		Initiative:    dex + wit + mods.Initiative,
		Walk:          r.WalkSpeed,
		Run:           dex + 12,
		Sprint:        3*dex + 20,
		ThrowRange:    12 * str,
		Armor:         armor,
		Penalty:       a.Health.Track.CurrentPenalty(),
	}
}

// Prepared returns a prepared deep copy of a, leaving a untouched.
func Prepared(a *Actor, r *rules.Rules) *Actor {
	out := a.Clone()
	Prepare(out, r)
	return out
}

// HPPerBox returns the aggregate hit points represented by one track box.
//
// Postcondition: returns 0 when the effective maximum is not positive.
func (a *Actor) HPPerBox() float64 {
	top := a.Health.Total.EffectiveMax()
	boxes := len(a.Health.Track)
	if top <= 0 || boxes == 0 {
		return 0
	}
	return float64(top) / float64(boxes)
}
