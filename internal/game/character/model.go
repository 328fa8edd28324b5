// Package character defines the actor domain model, the data-preparation pass
// that derives effective values, and experience advancement.
package character

import (
	"github.com/google/uuid"

	"github.com/cory-johannsen/colonial-weather/internal/game/condition"
	"github.com/cory-johannsen/colonial-weather/internal/game/inventory"
	"github.com/cory-johannsen/colonial-weather/internal/game/rules"
	"github.com/cory-johannsen/colonial-weather/internal/game/wound"
)

// Skill is one trained or untrained skill of an actor.
type Skill struct {
	Label       string          `json:"label"`
	Attribute   rules.Attribute `json:"attribute"`
	Rating      int             `json:"rating"`
	Specialized bool            `json:"specialized"`
}

// LocationHP is the hit-point pool of one body location. Value may go negative,
// which marks the location destroyed.
type LocationHP struct {
	Value int `json:"value"`
	Max   int `json:"max"`
}

// Destroyed reports whether the location has been driven below zero.
func (l LocationHP) Destroyed() bool { return l.Value < 0 }

// Aggregate is the actor's total hit-point pool.
type Aggregate struct {
	Value int `json:"value"`
	Max   int `json:"max"`
	Bonus int `json:"bonus"`
}

// EffectiveMax returns Max plus Bonus.
func (a Aggregate) EffectiveMax() int { return a.Max + a.Bonus }

// Health groups the wound track with the hit-point pools.
type Health struct {
	Track      wound.Track                    `json:"track"`
	BonusBoxes int                            `json:"bonus_boxes"`
	Total      Aggregate                      `json:"total"`
	Locations  map[rules.Location]*LocationHP `json:"locations"`
}

// Location returns the pool for loc, or a zero pool when the actor has none.
func (h *Health) Location(loc rules.Location) LocationHP {
	if l, ok := h.Locations[loc]; ok && l != nil {
		return *l
	}
	return LocationHP{}
}

// Bio carries the environmental facts that feed derivation.
type Bio struct {
	GravityHome    string `json:"gravity_home"`
	GravityCurrent string `json:"gravity_current"`
}

// Willpower is spent for automatic successes.
type Willpower struct {
	Current int `json:"current"`
	Max     int `json:"max"`
}

// Experience tracks earned and spent experience points.
type Experience struct {
	Total int `json:"total"`
	Spent int `json:"spent"`
}

// Unspent returns the experience still available.
func (e Experience) Unspent() int { return e.Total - e.Spent }

// Derived holds values recomputed on every preparation pass. It is never persisted.
type Derived struct {
	Attributes    map[rules.Attribute]int `json:"attributes"`
	Gravity       rules.GravityDelta      `json:"gravity"`
	ImmuneLoad    int                     `json:"immune_load"`
	ImmunePenalty int                     `json:"immune_penalty"`
	Initiative    int                     `json:"initiative"`
	Walk          int                     `json:"walk"`
	Run           int                     `json:"run"`
	Sprint        int                     `json:"sprint"`
	ThrowRange    int                     `json:"throw_range"`
	Armor         map[rules.Location]int  `json:"armor"`
	Penalty       wound.Penalty           `json:"penalty"`
}

// Actor is a player character or other combatant.
type Actor struct {
	ID         uuid.UUID               `json:"id"`
	Name       string                  `json:"name"`
	Attributes map[rules.Attribute]int `json:"attributes"`
	Skills     map[string]*Skill       `json:"skills"`
	Health     Health                  `json:"health"`
	Items      []*inventory.Item       `json:"items"`
	Bio        Bio                     `json:"bio"`
	Willpower  Willpower               `json:"willpower"`
	Experience Experience              `json:"experience"`
	Statuses   condition.ActiveSet     `json:"statuses"`

	Derived Derived `json:"-"`
}

// New creates an unprepared actor with a fresh ID, zero attributes and an empty track.
//
// Postcondition: every location exists with zero hit points.
func New(name string) *Actor {
	a := &Actor{
		ID:         uuid.New(),
		Name:       name,
		Attributes: make(map[rules.Attribute]int),
		Health: Health{
			Track:     wound.New(0),
			Locations: make(map[rules.Location]*LocationHP),
		},
	}
	for _, attr := range rules.Attributes() {
		a.Attributes[attr] = 0
	}
	for _, loc := range rules.Locations() {
		a.Health.Locations[loc] = &LocationHP{}
	}
	return a
}

// Base returns the raw base value of attr, floored at zero.
func (a *Actor) Base(attr rules.Attribute) int {
	v := a.Attributes[attr]
	if v < 0 {
		return 0
	}
	return v
}

// Effective returns the derived value of attr computed by the last Prepare.
func (a *Actor) Effective(attr rules.Attribute) int {
	return a.Derived.Attributes[attr]
}

// Item returns the item with id, or nil.
func (a *Actor) Item(id uuid.UUID) *inventory.Item {
	for _, it := range a.Items {
		if it.ID == id {
			return it
		}
	}
	return nil
}

// Clone returns a deep copy of a, including derived values.
func (a *Actor) Clone() *Actor {
	out := *a
	out.Attributes = make(map[rules.Attribute]int, len(a.Attributes))
	for k, v := range a.Attributes {
		out.Attributes[k] = v
	}
	out.Skills = make(map[string]*Skill, len(a.Skills))
	for k, s := range a.Skills {
		cp := *s
		out.Skills[k] = &cp
	}
	out.Health.Track = append(wound.Track(nil), a.Health.Track...)
	out.Health.Locations = make(map[rules.Location]*LocationHP, len(a.Health.Locations))
	for k, l := range a.Health.Locations {
		if l == nil {
			continue
		}
		cp := *l
		out.Health.Locations[k] = &cp
	}
	out.Items = make([]*inventory.Item, len(a.Items))
	for i, it := range a.Items {
		out.Items[i] = it.Clone()
	}
	out.Statuses = a.Statuses.Clone()
	out.Derived.Attributes = make(map[rules.Attribute]int, len(a.Derived.Attributes))
	for k, v := range a.Derived.Attributes {
		out.Derived.Attributes[k] = v
	}
	out.Derived.Armor = make(map[rules.Location]int, len(a.Derived.Armor))
	for k, v := range a.Derived.Armor {
		out.Derived.Armor[k] = v
	}
	return &out
}
