// Package combat implements pool assembly, the damage resolution pipeline,
// turn-start automation, encounters and attack orchestration.
//
// Everything that computes works on a prepared actor and returns a plan or
// result; mutation happens only in the explicit Apply steps.
package combat

import (
	"errors"

	"github.com/cory-johannsen/colonial-weather/internal/game/character"
	"github.com/cory-johannsen/colonial-weather/internal/game/dice"
	"github.com/cory-johannsen/colonial-weather/internal/game/effect"
	"github.com/cory-johannsen/colonial-weather/internal/game/rules"
	"github.com/cory-johannsen/colonial-weather/internal/game/wound"
)

var (
	// ErrCannotAct is returned when a pool resolves to zero dice or the actor is incapacitated.
	ErrCannotAct = errors.New("cannot act")
	// ErrNoAmmunition is returned when a magazine-fed weapon is empty.
	ErrNoAmmunition = errors.New("no ammunition")
	// ErrNoWeapon is returned when an attack names an item that is not an active weapon.
	ErrNoWeapon = errors.New("no usable weapon")
	// ErrUnknownLocation is returned when an attack names a location that does not exist.
	ErrUnknownLocation = errors.New("unknown hit location")
	// ErrNoMagazine is returned when reloading a weapon that takes no ammunition.
	ErrNoMagazine = errors.New("weapon has no magazine")
	// ErrNotInEncounter is returned when an actor is not part of the named encounter.
	ErrNotInEncounter = errors.New("actor not in encounter")
	// ErrEncounterExists is returned when starting an encounter whose ID is in use.
	ErrEncounterExists = errors.New("encounter already exists")
)

// Roller is the subset of *dice.Roller used by combat.
type Roller interface {
	Roll(p dice.Pool) dice.PoolResult
	RollD10(purpose string) int
}

// CheckRequest describes what a check rolls.
type CheckRequest struct {
	// Attribute defaults to the skill's attribute when empty.
	Attribute rules.Attribute `json:"attribute,omitempty"`
	Skill     string          `json:"skill,omitempty"`
	RollType  string          `json:"roll_type,omitempty"`
	Tags      []string        `json:"tags,omitempty"`
	// Bonus is situational dice added to the pool.
	Bonus int `json:"bonus,omitempty"`
	// Difficulty is a situational target-number adjustment.
	Difficulty int `json:"difficulty,omitempty"`
	// TargetNumber overrides the rules default when non-zero.
	TargetNumber int  `json:"target_number,omitempty"`
	Willpower    bool `json:"willpower,omitempty"`
}

// PoolBuild is the audit trail of an assembled pool.
type PoolBuild struct {
	Pool      dice.Pool     `json:"pool"`
	Attribute int           `json:"attribute"`
	Skill     int           `json:"skill"`
	Modifiers effect.Totals `json:"modifiers"`
	Bonus     int           `json:"bonus"`
	Wound     wound.Penalty `json:"wound"`
	CannotAct bool          `json:"cannot_act"`
}

// BuildPool assembles the dice pool for req from a prepared actor.
// An incapacitated actor or a pool that sums to zero or less cannot act.
//
// Precondition: a has been prepared with r.
// Postcondition: Pool.Size >= 0; Pool.TargetNumber in [2,10]; a is not modified.
func BuildPool(a *character.Actor, req CheckRequest, r *rules.Rules) PoolBuild {
	attr := req.Attribute
	var sk character.Skill
	if s, ok := a.Skills[req.Skill]; ok && s != nil {
		sk = *s
		if attr == "" {
			attr = s.Attribute
		}
	}

	mods := effect.Collect(a.Items, effect.Context{RollType: req.RollType, Tags: req.Tags})
	pen := a.Health.Track.CurrentPenalty()

	b := PoolBuild{
		Attribute: a.Effective(attr),
		Skill:     sk.Rating,
		Modifiers: mods,
		Bonus:     req.Bonus,
		Wound:     pen,
	}

	tn := req.TargetNumber
	if tn == 0 {
		tn = r.DefaultTargetNumber
	}
	tn += mods.Difficulty + req.Difficulty

	size := b.Attribute + b.Skill + mods.DicePool + req.Bonus + pen.Value
	if pen.Incapacitated {
		size = 0
	}
	size = dice.ClampPoolSize(size, r.MaxPoolSize)
	b.Pool = dice.Pool{Size: size, TargetNumber: dice.ClampTargetNumber(tn), Specialized: sk.Specialized}.Normalize()
	b.CannotAct = b.Pool.Size == 0
	return b
}

// CheckResult is a resolved check that has not yet been committed.
type CheckResult struct {
	Build          PoolBuild       `json:"build"`
	Result         dice.PoolResult `json:"result"`
	WillpowerSpent bool            `json:"willpower_spent"`
}

// Successes returns the final success count.
func (c CheckResult) Successes() int { return c.Result.Successes }

// Check builds and rolls the pool for req. Automatic successes from willpower and
// successes modifiers are folded in after the roll.
//
// Precondition: a has been prepared with r.
// Postcondition: returns ErrCannotAct with a populated result when the pool is empty;
// returns character.ErrInsufficientWillpower before rolling when willpower is requested
// but unavailable. a is never modified; commit with Apply.
func Check(a *character.Actor, req CheckRequest, r *rules.Rules, roller Roller) (CheckResult, error) {
	b := BuildPool(a, req, r)
	if b.CannotAct {
		return CheckResult{Build: b, Result: dice.PoolResult{Pool: b.Pool, CannotAct: true}}, ErrCannotAct
	}
	if req.Willpower && a.Willpower.Current < 1 {
		return CheckResult{Build: b}, character.ErrInsufficientWillpower
	}
	auto := b.Modifiers.Successes
	if req.Willpower {
		auto++
	}
	res := roller.Roll(b.Pool).WithAutoSuccesses(auto)
	return CheckResult{Build: b, Result: res, WillpowerSpent: req.Willpower}, nil
}

// Apply commits the check's resource costs to a.
//
// Postcondition: on error a is unchanged.
func (c CheckResult) Apply(a *character.Actor) error {
	if !c.WillpowerSpent {
		return nil
	}
	return character.SpendWillpower(a)
}
