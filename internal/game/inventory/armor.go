package inventory

import "github.com/cory-johannsen/colonial-weather/internal/game/rules"

// Ablate removes one point of soak.
//
// Postcondition: Soak >= 0; returns false if there was nothing to remove.
func (a *ArmorStats) Ablate() bool {
	if a.Soak <= 0 {
		return false
	}
	a.Soak--
	return true
}

// Ruin marks the armor destroyed and strips its soak.
//
// Postcondition: Destroyed is true and Soak == 0.
func (a *ArmorStats) Ruin() {
	a.Destroyed = true
	a.Soak = 0
}

// LocationArmor sums the soak of every functioning armor item covering loc.
//
// Postcondition: result >= 0.
func LocationArmor(items []*Item, loc rules.Location) int {
	total := 0
	for _, it := range items {
		if it.ActiveArmor() && it.Armor.Covers(loc) && it.Armor.Soak > 0 {
			total += it.Armor.Soak
		}
	}
	return total
}

// FirstArmorCovering returns the first functioning armor item with soak that covers loc.
//
// Postcondition: returns -1 when no armor covers loc.
func FirstArmorCovering(items []*Item, loc rules.Location) int {
	for i, it := range items {
		if it.ActiveArmor() && it.Armor.Covers(loc) && it.Armor.Soak > 0 {
			return i
		}
	}
	return -1
}
