// Package inventory provides the polymorphic item model carried by actors and
// the YAML item catalog used to create new items.
package inventory

import (
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/cory-johannsen/colonial-weather/internal/game/effect"
	"github.com/cory-johannsen/colonial-weather/internal/game/rules"
	"github.com/cory-johannsen/colonial-weather/internal/game/wound"
)

// Kind discriminates the item variants.
type Kind string

const (
	KindWeapon     Kind = "weapon"
	KindArmor      Kind = "armor"
	KindCybernetic Kind = "cybernetic"
	KindTrait      Kind = "trait"
	KindBackground Kind = "background"
	KindGear       Kind = "gear"
)

// validKinds is the set of valid item kinds.
var validKinds = map[Kind]bool{
	KindWeapon:     true,
	KindArmor:      true,
	KindCybernetic: true,
	KindTrait:      true,
	KindBackground: true,
	KindGear:       true,
}

// Equippable reports whether items of kind k are only active while equipped.
// Traits, backgrounds and installed cybernetics are always active unless disabled.
func (k Kind) Equippable() bool {
	return k == KindWeapon || k == KindArmor || k == KindGear
}

// WeaponStats are the weapon-specific fields.
type WeaponStats struct {
	Skill      string          `json:"skill" yaml:"skill"`
	Attribute  rules.Attribute `json:"attribute,omitempty" yaml:"attribute"`
	Damage     int             `json:"damage" yaml:"damage"`
	DamageType string          `json:"damage_type" yaml:"damage_type"`
	// Magazine is the round capacity; 0 means the weapon uses no ammunition.
	Magazine int `json:"magazine,omitempty" yaml:"magazine"`
	Rounds   int `json:"rounds,omitempty" yaml:"-"`
}

// Severity returns the wound severity the weapon inflicts; unknown names default to lethal.
func (w WeaponStats) Severity() wound.Severity {
	if s, ok := wound.ParseSeverity(w.DamageType); ok && s != wound.None {
		return s
	}
	return wound.Lethal
}

// UsesAmmo reports whether the weapon draws from a magazine.
func (w WeaponStats) UsesAmmo() bool {
	return w.Magazine > 0
}

// ArmorStats are the armor-specific fields.
type ArmorStats struct {
	Coverage  []rules.Location `json:"coverage" yaml:"coverage"`
	Soak      int              `json:"soak" yaml:"soak"`
	Destroyed bool             `json:"destroyed,omitempty" yaml:"-"`
}

// Covers reports whether the armor protects loc.
func (a ArmorStats) Covers(loc rules.Location) bool {
	for _, c := range a.Coverage {
		if c == loc {
			return true
		}
	}
	return false
}

// CyberneticStats are the cybernetic-specific fields.
type CyberneticStats struct {
	ImmuneLoad int `json:"immune_load" yaml:"immune_load"`
}

// Item is one item owned by an actor. Exactly the stats block matching Kind is set.
type Item struct {
	ID       uuid.UUID `json:"id"`
	DefID    string    `json:"def_id,omitempty"`
	Name     string    `json:"name"`
	Kind     Kind      `json:"kind"`
	Equipped bool      `json:"equipped"`
	// Disabled switches off an item of any kind.
	Disabled bool     `json:"disabled,omitempty"`
	Tags     []string `json:"tags,omitempty"`
	// Bundles are the conditional roll modifiers the item grants.
	Bundles []effect.Effect `json:"effects,omitempty"`

	Weapon     *WeaponStats     `json:"weapon,omitempty"`
	Armor      *ArmorStats      `json:"armor,omitempty"`
	Cybernetic *CyberneticStats `json:"cybernetic,omitempty"`
}

// OwnerName implements effect.Owner.
func (it *Item) OwnerName() string { return it.Name }

// Effects implements effect.Owner.
func (it *Item) Effects() []effect.Effect { return it.Bundles }

// Active implements effect.Owner. Equippable kinds must be equipped.
func (it *Item) Active() bool {
	if it.Disabled {
		return false
	}
	return it.Equipped || !it.Kind.Equippable()
}

// ActiveArmor reports whether the item is functioning armor.
func (it *Item) ActiveArmor() bool {
	return it.Kind == KindArmor && it.Armor != nil && !it.Armor.Destroyed && it.Active()
}

// ImmuneLoad returns the load of an active cybernetic, else 0.
func (it *Item) ImmuneLoad() int {
	if it.Kind != KindCybernetic || it.Cybernetic == nil || !it.Active() {
		return 0
	}
	return it.Cybernetic.ImmuneLoad
}

// Clone returns a deep copy of it.
func (it *Item) Clone() *Item {
	out := *it
	out.Tags = append([]string(nil), it.Tags...)
	if it.Bundles != nil {
		out.Bundles = make([]effect.Effect, len(it.Bundles))
		for i, e := range it.Bundles {
			out.Bundles[i] = e.Clone()
		}
	}
	if it.Weapon != nil {
		w := *it.Weapon
		out.Weapon = &w
	}
	if it.Armor != nil {
		a := *it.Armor
		a.Coverage = append([]rules.Location(nil), it.Armor.Coverage...)
		out.Armor = &a
	}
	if it.Cybernetic != nil {
		c := *it.Cybernetic
		out.Cybernetic = &c
	}
	return &out
}

// Validate checks that the item satisfies its invariants.
//
// Postcondition: returns nil iff all fields are valid.
func (it *Item) Validate() error {
	var errs []error
	if it.Name == "" {
		errs = append(errs, errors.New("name must not be empty"))
	}
	if !validKinds[it.Kind] {
		errs = append(errs, fmt.Errorf("kind %q is not a valid item kind", it.Kind))
	}
	switch it.Kind {
	case KindWeapon:
		if it.Weapon == nil {
			errs = append(errs, errors.New("weapon stats are required when kind is weapon"))
		} else {
			if _, ok := wound.ParseSeverity(it.Weapon.DamageType); it.Weapon.DamageType != "" && !ok {
				errs = append(errs, fmt.Errorf("weapon damage_type %q is not a damage type", it.Weapon.DamageType))
			}
			if it.Weapon.Magazine < 0 || it.Weapon.Rounds < 0 || it.Weapon.Rounds > it.Weapon.Magazine {
				errs = append(errs, errors.New("weapon rounds must be within [0, magazine]"))
			}
			if it.Weapon.Attribute != "" && !it.Weapon.Attribute.Valid() {
				errs = append(errs, fmt.Errorf("weapon attribute %q is unknown", it.Weapon.Attribute))
			}
		}
	case KindArmor:
		if it.Armor == nil {
			errs = append(errs, errors.New("armor stats are required when kind is armor"))
		} else {
			if it.Armor.Soak < 0 {
				errs = append(errs, errors.New("armor soak must be >= 0"))
			}
			for _, loc := range it.Armor.Coverage {
				if !loc.Valid() {
					errs = append(errs, fmt.Errorf("armor coverage %q is not a location", loc))
				}
			}
		}
	case KindCybernetic:
		if it.Cybernetic != nil && it.Cybernetic.ImmuneLoad < 0 {
			errs = append(errs, errors.New("immune_load must be >= 0"))
		}
	}
	for _, e := range it.Bundles {
		if err := e.Validate(); err != nil {
			errs = append(errs, err)
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("item validation failed: %v", errs)
	}
	return nil
}
