package inventory

// HasAmmo reports whether the weapon can fire. Weapons without a magazine always can.
//
// Postcondition: result == (!UsesAmmo() || Rounds > 0).
func (w *WeaponStats) HasAmmo() bool {
	return !w.UsesAmmo() || w.Rounds > 0
}

// ConsumeRound removes one loaded round.
//
// Postcondition: returns false and leaves Rounds unchanged when the magazine is empty;
// weapons without a magazine always return true.
func (w *WeaponStats) ConsumeRound() bool {
	if !w.UsesAmmo() {
		return true
	}
	if w.Rounds <= 0 {
		return false
	}
	w.Rounds--
	return true
}

// Reload fills the magazine to capacity.
//
// Postcondition: Rounds == Magazine.
func (w *WeaponStats) Reload() {
	w.Rounds = w.Magazine
}
