package character

import (
	"errors"
	"fmt"

	"github.com/cory-johannsen/colonial-weather/internal/game/rules"
)

var (
	// ErrInsufficientXP is returned when an advance costs more than the unspent experience.
	ErrInsufficientXP = errors.New("insufficient experience")
	// ErrInsufficientWillpower is returned when a willpower point is spent at zero.
	ErrInsufficientWillpower = errors.New("insufficient willpower")
	// ErrInvalidAdvance is returned when an advance does not apply to the actor's current ratings.
	ErrInvalidAdvance = errors.New("invalid advance")
)

// AdvanceKind names what an experience spend buys.
type AdvanceKind string

const (
	AdvanceNewSkill       AdvanceKind = "new_skill"
	AdvanceRaiseSkill     AdvanceKind = "raise_skill"
	AdvanceRaiseAttribute AdvanceKind = "raise_attribute"
	AdvanceRaiseWillpower AdvanceKind = "raise_willpower"
	AdvanceSpecialization AdvanceKind = "specialization"
)

// Advance is one experience purchase. Key names the skill or attribute; it is
// ignored for willpower.
type Advance struct {
	Kind AdvanceKind `json:"kind"`
	Key  string      `json:"key"`
}

// Cost returns the experience price of adv for a at the rates in costs.
//
// Postcondition: returns ErrInvalidAdvance (wrapped) when adv does not apply to a.
func Cost(a *Actor, adv Advance, costs rules.XPCosts) (int, error) {
	switch adv.Kind {
	case AdvanceNewSkill:
		s, err := skill(a, adv.Key)
		if err != nil {
			return 0, err
		}
		if s.Rating != 0 {
			return 0, fmt.Errorf("%w: skill %q is already trained", ErrInvalidAdvance, adv.Key)
		}
		return costs.NewSkill, nil
	case AdvanceRaiseSkill:
		s, err := skill(a, adv.Key)
		if err != nil {
			return 0, err
		}
		if s.Rating < 1 {
			return 0, fmt.Errorf("%w: skill %q must be learned first", ErrInvalidAdvance, adv.Key)
		}
		return costs.RaiseSkill * s.Rating, nil
	case AdvanceRaiseAttribute:
		attr := rules.Attribute(adv.Key)
		if !attr.Valid() {
			return 0, fmt.Errorf("%w: unknown attribute %q", ErrInvalidAdvance, adv.Key)
		}
		return costs.RaiseAttribute * atLeastOne(a.Base(attr)), nil
	case AdvanceRaiseWillpower:
		return costs.RaiseWillpower * atLeastOne(a.Willpower.Max), nil
	case AdvanceSpecialization:
		s, err := skill(a, adv.Key)
		if err != nil {
			return 0, err
		}
		if s.Rating < 1 {
			return 0, fmt.Errorf("%w: skill %q needs a rating before specializing", ErrInvalidAdvance, adv.Key)
		}
		if s.Specialized {
			return 0, fmt.Errorf("%w: skill %q is already specialized", ErrInvalidAdvance, adv.Key)
		}
		return costs.Specialization, nil
	}
	return 0, fmt.Errorf("%w: unknown kind %q", ErrInvalidAdvance, adv.Kind)
}

// SpendXP buys adv for a, charging its cost to a.Experience.Spent.
//
// Precondition: a has been prepared so its skills exist.
// Postcondition: on error a is unchanged; otherwise the rating is raised by one
// (or specialization set) and the cost returned.
func SpendXP(a *Actor, adv Advance, costs rules.XPCosts) (int, error) {
	cost, err := Cost(a, adv, costs)
	if err != nil {
		return 0, err
	}
	if cost > a.Experience.Unspent() {
		return 0, fmt.Errorf("%w: %s costs %d, %d unspent", ErrInsufficientXP, adv.Kind, cost, a.Experience.Unspent())
	}
	switch adv.Kind {
	case AdvanceNewSkill, AdvanceRaiseSkill:
		a.Skills[adv.Key].Rating++
	case AdvanceSpecialization:
		a.Skills[adv.Key].Specialized = true
	case AdvanceRaiseAttribute:
		attr := rules.Attribute(adv.Key)
		if a.Attributes == nil {
			a.Attributes = make(map[rules.Attribute]int)
		}
		a.Attributes[attr] = a.Base(attr) + 1
	case AdvanceRaiseWillpower:
		a.Willpower.Max++
		a.Willpower.Current++
	}
	a.Experience.Spent += cost
	return cost, nil
}

// SpendWillpower deducts one willpower point.
//
// Postcondition: on error a is unchanged.
func SpendWillpower(a *Actor) error {
	if a.Willpower.Current < 1 {
		return ErrInsufficientWillpower
	}
	a.Willpower.Current--
	return nil
}

func skill(a *Actor, key string) (*Skill, error) {
	s, ok := a.Skills[key]
	if !ok || s == nil {
		return nil, fmt.Errorf("%w: unknown skill %q", ErrInvalidAdvance, key)
	}
	return s, nil
}

func atLeastOne(n int) int {
	if n < 1 {
		return 1
	}
	return n
}
