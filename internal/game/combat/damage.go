package combat

import (
	"github.com/google/uuid"

	"github.com/cory-johannsen/colonial-weather/internal/game/character"
	"github.com/cory-johannsen/colonial-weather/internal/game/condition"
	"github.com/cory-johannsen/colonial-weather/internal/game/inventory"
	"github.com/cory-johannsen/colonial-weather/internal/game/rules"
	"github.com/cory-johannsen/colonial-weather/internal/game/wound"
)

// Hit is one incoming blow before soak.
type Hit struct {
	Raw      int            `json:"raw"`
	Location rules.Location `json:"location"`
	Severity wound.Severity `json:"severity"`
}

// ArmorChange records the degradation of one armor item.
type ArmorChange struct {
	ItemID     uuid.UUID `json:"item_id"`
	Name       string    `json:"name"`
	SoakBefore int       `json:"soak_before"`
	SoakAfter  int       `json:"soak_after"`
	Destroyed  bool      `json:"destroyed"`
}

// DamagePlan is the fully computed outcome of a hit. Nothing has been written
// to the target until Apply is called.
type DamagePlan struct {
	Hit     Hit  `json:"hit"`
	Armor   int  `json:"armor"`
	Stamina int  `json:"stamina"`
	Soak    int  `json:"soak"`
	Final   int  `json:"final"`
	Soaked  bool `json:"soaked"`

	ArmorChange *ArmorChange `json:"armor_change,omitempty"`

	LocationBefore  int `json:"location_before"`
	LocationAfter   int `json:"location_after"`
	AggregateBefore int `json:"aggregate_before"`
	AggregateAfter  int `json:"aggregate_after"`

	BoxesToFill    int         `json:"boxes_to_fill"`
	Massive        bool        `json:"massive"`
	VitalDestroyed bool        `json:"vital_destroyed"`
	LimbDestroyed  bool        `json:"limb_destroyed"`
	Track          wound.Track `json:"track"`

	// Statuses lists the statuses this hit newly applies, in trigger order.
	Statuses []string `json:"statuses,omitempty"`
}

// Soak returns location armor plus raw stamina for a prepared actor.
//
// Postcondition: result >= 0.
func Soak(a *character.Actor, loc rules.Location) (armor, stamina, soak int) {
	armor = inventory.LocationArmor(a.Items, loc)
	stamina = a.Base(rules.Stamina)
	return armor, stamina, armor + stamina
}

// BoxesFor returns how many track boxes an aggregate pool at value represents.
// Computed as ceil(loss / hpPerBox) in integer arithmetic.
//
// Postcondition: 0 <= result <= len(a.Health.Track); 0 when max HP is not positive.
func BoxesFor(a *character.Actor, value int) int {
	total := len(a.Health.Track)
	top := a.Health.Total.EffectiveMax()
	if top <= 0 || total == 0 {
		return 0
	}
	loss := top - value
	if loss <= 0 {
		return 0
	}
	n := (loss*total + top - 1) / top
	if n > total {
		n = total
	}
	return n
}

// PlanDamage runs the damage pipeline for hit against a prepared snapshot of a.
//
// Precondition: a has been prepared; r must not be nil.
// Postcondition: a is not modified; Final == max(0, Raw - Soak); a soaked hit
// carries no armor change, HP change, track change or statuses.
func PlanDamage(a *character.Actor, hit Hit, r *rules.Rules) DamagePlan {
	if hit.Raw < 0 {
		hit.Raw = 0
	}
	if !hit.Severity.Valid() || hit.Severity == wound.None {
		hit.Severity = wound.Lethal
	}
	p := DamagePlan{Hit: hit}
	p.Armor, p.Stamina, p.Soak = Soak(a, hit.Location)
	p.Final = hit.Raw - p.Soak
	if p.Final < 0 {
		p.Final = 0
	}

	p.LocationBefore = a.Health.Location(hit.Location).Value
	p.LocationAfter = p.LocationBefore
	p.AggregateBefore = a.Health.Total.Value
	p.AggregateAfter = p.AggregateBefore
	p.Track = a.Health.Track.Sorted()

	if p.Final == 0 {
		p.Soaked = true
		return p
	}

	if p.Armor > 0 && hit.Raw > r.ArmorDegradeMultiplier*p.Armor {
		if i := inventory.FirstArmorCovering(a.Items, hit.Location); i >= 0 {
			it := a.Items[i]
			ch := &ArmorChange{ItemID: it.ID, Name: it.Name, SoakBefore: it.Armor.Soak}
			if r.ArmorPolicy == rules.ArmorDestroy {
				ch.Destroyed = true
			} else {
				ch.SoakAfter = it.Armor.Soak - 1
			}
			p.ArmorChange = ch
		}
	}

	toAggregate := p.Final
	if p.LocationBefore < toAggregate {
		toAggregate = p.LocationBefore
	}
	if toAggregate < 0 {
		toAggregate = 0
	}
	if hit.Location.Valid() {
		p.LocationAfter = p.LocationBefore - p.Final
	}
	p.AggregateAfter = p.AggregateBefore - toAggregate

	p.BoxesToFill = BoxesFor(a, p.AggregateAfter)
	p.Massive = p.Final > r.MassiveDamageThreshold
	p.VitalDestroyed = hit.Location.Vital() && p.LocationAfter < 0
	p.LimbDestroyed = hit.Location.Limb() && p.LocationAfter < 0
	if p.Massive || p.VitalDestroyed {
		p.Track = p.Track.FillAll(hit.Severity)
	} else {
		p.Track = p.Track.ApplyBoxFill(hit.Severity, p.BoxesToFill)
	}

	add := func(id string) {
		if !a.Statuses.Has(id) {
			p.Statuses = append(p.Statuses, id)
		}
	}
	if p.Final >= p.Stamina {
		add(condition.Stunned)
	}
	dead := p.VitalDestroyed || p.Massive
	if dead {
		add(condition.Dead)
	} else if p.AggregateAfter < 0 {
		add(condition.Unconscious)
	}
	if p.LimbDestroyed || p.Massive {
		add(condition.Bleeding)
	}
	return p
}

// Apply commits p to a. It is the only step of the pipeline that mutates.
//
// Postcondition: location HP, aggregate HP, track, struck armor and statuses
// match p; derived armor and penalty are refreshed.
func (p DamagePlan) Apply(a *character.Actor) {
	if p.Soaked {
		return
	}
	if l, ok := a.Health.Locations[p.Hit.Location]; ok && l != nil {
		l.Value = p.LocationAfter
	}
	a.Health.Total.Value = p.AggregateAfter
	a.Health.Track = append(wound.Track(nil), p.Track...)

	if ch := p.ArmorChange; ch != nil {
		if it := a.Item(ch.ItemID); it != nil && it.Armor != nil {
			if ch.Destroyed {
				it.Armor.Ruin()
			} else {
				it.Armor.Ablate()
			}
		}
	}
	for _, id := range p.Statuses {
		a.Statuses.Apply(id)
	}
	refreshDerived(a)
}

func refreshDerived(a *character.Actor) {
	if a.Derived.Armor == nil {
		a.Derived.Armor = make(map[rules.Location]int)
	}
	for _, loc := range rules.Locations() {
		a.Derived.Armor[loc] = inventory.LocationArmor(a.Items, loc)
	}
	a.Derived.Penalty = a.Health.Track.CurrentPenalty()
}
