package combat_test

import (
	"testing"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/cory-johannsen/colonial-weather/internal/game/character"
	"github.com/cory-johannsen/colonial-weather/internal/game/dice"
	"github.com/cory-johannsen/colonial-weather/internal/game/inventory"
	"github.com/cory-johannsen/colonial-weather/internal/game/rules"
)

// scripted returns a Roller that replays faces in order.
func scripted(faces ...int) *dice.Roller {
	return dice.NewLoggedRoller(dice.NewScriptedSource(faces...), zap.NewNop(), 0)
}

// makeActor returns a prepared actor with stamina 3, dexterity 3, wits 2,
// 21 aggregate HP and 8 HP in every location except the 4-point head.
func makeActor(t *testing.T, r *rules.Rules, items ...*inventory.Item) *character.Actor {
	t.Helper()
	a := character.New("Ripley")
	a.Attributes[rules.Strength] = 2
	a.Attributes[rules.Dexterity] = 3
	a.Attributes[rules.Stamina] = 3
	a.Attributes[rules.Wits] = 2
	a.Health.Total = character.Aggregate{Value: 21, Max: 21}
	for _, loc := range rules.Locations() {
		a.Health.Locations[loc] = &character.LocationHP{Value: 8, Max: 8}
	}
	a.Health.Locations[rules.Head] = &character.LocationHP{Value: 4, Max: 4}
	a.Items = items
	character.Prepare(a, r)
	return a
}

func armor(soak int, locs ...rules.Location) *inventory.Item {
	return &inventory.Item{
		ID:       uuid.New(),
		Name:     "Ballistic Plate",
		Kind:     inventory.KindArmor,
		Equipped: true,
		Armor:    &inventory.ArmorStats{Coverage: locs, Soak: soak},
	}
}

func rifle(damage, magazine int) *inventory.Item {
	it := &inventory.Item{
		ID:       uuid.New(),
		Name:     "Pulse Rifle",
		Kind:     inventory.KindWeapon,
		Equipped: true,
		Tags:     []string{"ranged"},
		Weapon: &inventory.WeaponStats{
			Skill:      "firearms",
			Attribute:  rules.Dexterity,
			Damage:     damage,
			DamageType: "lethal",
			Magazine:   magazine,
		},
	}
	it.Weapon.Reload()
	return it
}

// noMassive returns default rules with the massive-damage override out of reach.
func noMassive() *rules.Rules {
	r := rules.Default()
	r.MassiveDamageThreshold = 100
	return r
}
