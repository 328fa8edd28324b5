package combat

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/cory-johannsen/colonial-weather/internal/game/character"
	"github.com/cory-johannsen/colonial-weather/internal/game/inventory"
	"github.com/cory-johannsen/colonial-weather/internal/game/rules"
)

// AttackRollType is the roll type attack checks collect modifiers for.
const AttackRollType = "attack"

// AttackRequest configures one attack.
type AttackRequest struct {
	WeaponID uuid.UUID `json:"weapon_id"`
	// Location is rolled on a d10 when empty. Keys and labels match case-insensitively.
	Location   rules.Location `json:"location,omitempty"`
	Tags       []string       `json:"tags,omitempty"`
	Bonus      int            `json:"bonus,omitempty"`
	Difficulty int            `json:"difficulty,omitempty"`
	Willpower  bool           `json:"willpower,omitempty"`
}

// AttackResult is a resolved attack that has not yet been committed.
type AttackResult struct {
	WeaponID       uuid.UUID      `json:"weapon_id"`
	Check          CheckResult    `json:"check"`
	Hit            bool           `json:"hit"`
	Raw            int            `json:"raw"`
	Location       rules.Location `json:"location,omitempty"`
	LocationRolled bool           `json:"location_rolled"`
	Damage         *DamagePlan    `json:"damage,omitempty"`
}

// RollHitLocation rolls a d10 on the hit-location table.
func RollHitLocation(roller Roller) rules.Location {
	return rules.HitLocationFor(roller.RollD10("hit location"))
}

// ResolveAttack rolls attacker's weapon check and plans the damage to target.
// Raw damage is the check's successes plus the weapon's damage bonus.
//
// Precondition: attacker and target have been prepared with r.
// Postcondition: neither actor is modified; commit with ApplyAttack.
func ResolveAttack(attacker, target *character.Actor, req AttackRequest, r *rules.Rules, roller Roller) (AttackResult, error) {
	res := AttackResult{WeaponID: req.WeaponID}
	it := attacker.Item(req.WeaponID)
	if it == nil || it.Kind != inventory.KindWeapon || it.Weapon == nil || !it.Active() {
		return res, fmt.Errorf("%w: item %s", ErrNoWeapon, req.WeaponID)
	}
	if !it.Weapon.HasAmmo() {
		return res, fmt.Errorf("%w: %s is empty", ErrNoAmmunition, it.Name)
	}
	var loc rules.Location
	if req.Location != "" {
		var ok bool
		if loc, ok = rules.ParseLocation(string(req.Location)); !ok {
			return res, fmt.Errorf("%w: %q", ErrUnknownLocation, req.Location)
		}
	}

	attr := it.Weapon.Attribute
	if attr == "" {
		attr = rules.Dexterity
	}
	chk, err := Check(attacker, CheckRequest{
		Attribute:  attr,
		Skill:      it.Weapon.Skill,
		RollType:   AttackRollType,
		Tags:       append(append([]string(nil), it.Tags...), req.Tags...),
		Bonus:      req.Bonus,
		Difficulty: req.Difficulty,
		Willpower:  req.Willpower,
	}, r, roller)
	res.Check = chk
	if err != nil {
		return res, err
	}
	if chk.Successes() == 0 {
		return res, nil
	}

	res.Hit = true
	res.Raw = chk.Successes() + it.Weapon.Damage
	res.Location = loc
	if res.Location == "" {
		res.Location = RollHitLocation(roller)
		res.LocationRolled = true
	}
	plan := PlanDamage(target, Hit{Raw: res.Raw, Location: res.Location, Severity: it.Weapon.Severity()}, r)
	res.Damage = &plan
	return res, nil
}

// Reload fills the magazine of attacker's weapon weaponID and returns the rounds loaded.
//
// Postcondition: on error a is not modified.
func Reload(a *character.Actor, weaponID uuid.UUID) (int, error) {
	it := a.Item(weaponID)
	if it == nil || it.Kind != inventory.KindWeapon || it.Weapon == nil {
		return 0, fmt.Errorf("%w: item %s", ErrNoWeapon, weaponID)
	}
	if !it.Weapon.UsesAmmo() {
		return 0, fmt.Errorf("%w: %s", ErrNoMagazine, it.Name)
	}
	it.Weapon.Reload()
	return it.Weapon.Rounds, nil
}

// ApplyAttack commits res: willpower is spent, one round is consumed and the
// damage plan is applied to target.
//
// Postcondition: on error neither actor is modified.
func ApplyAttack(attacker, target *character.Actor, res AttackResult) error {
	it := attacker.Item(res.WeaponID)
	if it == nil || it.Weapon == nil {
		return fmt.Errorf("%w: item %s", ErrNoWeapon, res.WeaponID)
	}
	if !it.Weapon.HasAmmo() {
		return fmt.Errorf("%w: %s is empty", ErrNoAmmunition, it.Name)
	}
	if err := res.Check.Apply(attacker); err != nil {
		return err
	}
	it.Weapon.ConsumeRound()
	if res.Damage != nil {
		res.Damage.Apply(target)
	}
	return nil
}
